package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/liuchzzyy/logseq-mcp/internal/format"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// InsertBlockTool handles the logseq_insert_block MCP tool.
type InsertBlockTool struct {
	blocks *service.BlockService
}

// NewInsertBlockTool creates an InsertBlockTool.
func NewInsertBlockTool(blocks *service.BlockService) *InsertBlockTool {
	return &InsertBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *InsertBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_insert_block",
		mcp.WithDescription("Insert a new block in Logseq, under a parent block or page."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Block content (Markdown)"),
		),
		mcp.WithString("parent_block",
			mcp.Description("Parent block UUID or page name; omit to insert at the current location"),
		),
		mcp.WithBoolean("is_page_block",
			mcp.Description("Insert as a top-level page block"),
		),
		mcp.WithBoolean("before",
			mcp.Description("Insert before the parent instead of after"),
		),
		mcp.WithString("custom_uuid",
			mcp.Description("Custom UUID for the new block"),
		),
		mcp.WithObject("properties",
			mcp.Description("Block properties"),
		),
	)
}

// Handle processes the logseq_insert_block tool call.
func (t *InsertBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	block, err := t.blocks.Insert(ctx, service.InsertBlockInput{
		Parent:      req.GetString("parent_block", ""),
		Content:     content,
		IsPageBlock: boolArg(req, "is_page_block", false),
		Before:      boolArg(req, "before", false),
		CustomUUID:  req.GetString("custom_uuid", ""),
		Properties:  mapArg(req, "properties"),
	})
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Block(block, 0)), nil
}

// ─── UpdateBlockTool ────────────────────────────────────────────────────────

// UpdateBlockTool handles the logseq_update_block MCP tool.
type UpdateBlockTool struct {
	blocks *service.BlockService
}

// NewUpdateBlockTool creates an UpdateBlockTool.
func NewUpdateBlockTool(blocks *service.BlockService) *UpdateBlockTool {
	return &UpdateBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_update_block",
		mcp.WithDescription("Update an existing block's content."),
		mcp.WithString("uuid",
			mcp.Required(),
			mcp.Description("Block UUID"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New content"),
		),
		mcp.WithObject("properties",
			mcp.Description("Updated properties"),
		),
	)
}

// Handle processes the logseq_update_block tool call.
func (t *UpdateBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	block, err := t.blocks.Update(ctx, service.UpdateBlockInput{
		UUID:       req.GetString("uuid", ""),
		Content:    req.GetString("content", ""),
		Properties: mapArg(req, "properties"),
	})
	if err != nil {
		return errResult(err), nil
	}
	if block == nil {
		return mcp.NewToolResultText("Block updated successfully"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated block: %s", block.Content)), nil
}

// ─── DeleteBlockTool ────────────────────────────────────────────────────────

// DeleteBlockTool handles the logseq_delete_block MCP tool.
type DeleteBlockTool struct {
	blocks *service.BlockService
}

// NewDeleteBlockTool creates a DeleteBlockTool.
func NewDeleteBlockTool(blocks *service.BlockService) *DeleteBlockTool {
	return &DeleteBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_delete_block",
		mcp.WithDescription("Delete a block by UUID."),
		mcp.WithString("uuid",
			mcp.Required(),
			mcp.Description("Block UUID to delete"),
		),
	)
}

// Handle processes the logseq_delete_block tool call.
func (t *DeleteBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.blocks.Delete(ctx, req.GetString("uuid", "")); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Block deleted successfully"), nil
}

// ─── GetBlockTool ───────────────────────────────────────────────────────────

// GetBlockTool handles the logseq_get_block MCP tool.
type GetBlockTool struct {
	blocks *service.BlockService
}

// NewGetBlockTool creates a GetBlockTool.
func NewGetBlockTool(blocks *service.BlockService) *GetBlockTool {
	return &GetBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *GetBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_block",
		mcp.WithDescription("Get block details by UUID, including its child tree."),
		mcp.WithString("uuid",
			mcp.Required(),
			mcp.Description("Block UUID"),
		),
	)
}

// Handle processes the logseq_get_block tool call.
func (t *GetBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	block, err := t.blocks.Get(ctx, req.GetString("uuid", ""))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Block(block, 0)), nil
}

// ─── MoveBlockTool ──────────────────────────────────────────────────────────

// MoveBlockTool handles the logseq_move_block MCP tool.
type MoveBlockTool struct {
	blocks *service.BlockService
}

// NewMoveBlockTool creates a MoveBlockTool.
func NewMoveBlockTool(blocks *service.BlockService) *MoveBlockTool {
	return &MoveBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *MoveBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_move_block",
		mcp.WithDescription("Move a block to another location."),
		mcp.WithString("uuid",
			mcp.Required(),
			mcp.Description("Block UUID to move"),
		),
		mcp.WithString("target_uuid",
			mcp.Required(),
			mcp.Description("Target block UUID"),
		),
		mcp.WithBoolean("as_child",
			mcp.Description("Move as a child of the target instead of a sibling"),
		),
	)
}

// Handle processes the logseq_move_block tool call.
func (t *MoveBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	err := t.blocks.Move(ctx, service.MoveBlockInput{
		UUID:       req.GetString("uuid", ""),
		TargetUUID: req.GetString("target_uuid", ""),
		AsChild:    boolArg(req, "as_child", false),
	})
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Block moved successfully"), nil
}

// ─── InsertBatchTool ────────────────────────────────────────────────────────

// InsertBatchTool handles the logseq_insert_batch MCP tool.
type InsertBatchTool struct {
	blocks *service.BlockService
}

// NewInsertBatchTool creates an InsertBatchTool.
func NewInsertBatchTool(blocks *service.BlockService) *InsertBatchTool {
	return &InsertBatchTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *InsertBatchTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_insert_batch",
		mcp.WithDescription(
			"Insert multiple blocks under one parent. Items are inserted in "+
				"order and insertion stops at the first failure; the result "+
				"reports the outcome of every item.",
		),
		mcp.WithString("parent",
			mcp.Required(),
			mcp.Description("Parent block UUID or page name"),
		),
		mcp.WithArray("blocks",
			mcp.Required(),
			mcp.Description(`Blocks to insert, each {"content": string, "properties": object}`),
		),
	)
}

// Handle processes the logseq_insert_batch tool call.
func (t *InsertBatchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := listArg(req, "blocks")
	if len(raw) == 0 {
		return mcp.NewToolResultError("'blocks' must be a non-empty array"), nil
	}

	items := make([]service.BatchBlock, 0, len(raw))
	for i, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("blocks[%d] must be an object", i)), nil
		}
		content, _ := m["content"].(string)
		if content == "" {
			return mcp.NewToolResultError(fmt.Sprintf("blocks[%d] is missing 'content'", i)), nil
		}
		props, _ := m["properties"].(map[string]any)
		items = append(items, service.BatchBlock{Content: content, Properties: props})
	}

	outcome, err := t.blocks.InsertBatch(ctx, req.GetString("parent", ""), items)
	if err != nil {
		return errResult(err), nil
	}
	text := format.BatchOutcome(outcome)
	if outcome.Failed() {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}

// ─── PageBlocksTool ─────────────────────────────────────────────────────────

// PageBlocksTool handles the logseq_get_page_blocks MCP tool.
type PageBlocksTool struct {
	blocks *service.BlockService
}

// NewPageBlocksTool creates a PageBlocksTool.
func NewPageBlocksTool(blocks *service.BlockService) *PageBlocksTool {
	return &PageBlocksTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *PageBlocksTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_page_blocks",
		mcp.WithDescription("Get all blocks in a page as a tree."),
		mcp.WithString("page_name",
			mcp.Required(),
			mcp.Description("Page name"),
		),
	)
}

// Handle processes the logseq_get_page_blocks tool call.
func (t *PageBlocksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks, err := t.blocks.PageBlocks(ctx, req.GetString("page_name", ""))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Blocks(blocks)), nil
}

// ─── CurrentPageContentTool ─────────────────────────────────────────────────

// CurrentPageContentTool handles the logseq_get_current_page_content MCP tool.
type CurrentPageContentTool struct {
	blocks *service.BlockService
}

// NewCurrentPageContentTool creates a CurrentPageContentTool.
func NewCurrentPageContentTool(blocks *service.BlockService) *CurrentPageContentTool {
	return &CurrentPageContentTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *CurrentPageContentTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_current_page_content",
		mcp.WithDescription("Get the block tree of the page currently open in the Logseq UI."),
	)
}

// Handle processes the logseq_get_current_page_content tool call.
func (t *CurrentPageContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks, err := t.blocks.CurrentPageBlocks(ctx)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Blocks(blocks)), nil
}
