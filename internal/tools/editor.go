package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/liuchzzyy/logseq-mcp/internal/format"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// CurrentPageTool handles the logseq_get_current_page MCP tool.
type CurrentPageTool struct {
	pages *service.PageService
}

// NewCurrentPageTool creates a CurrentPageTool.
func NewCurrentPageTool(pages *service.PageService) *CurrentPageTool {
	return &CurrentPageTool{pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *CurrentPageTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_current_page",
		mcp.WithDescription("Get the page currently open in the Logseq UI."),
	)
}

// Handle processes the logseq_get_current_page tool call.
func (t *CurrentPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := t.pages.Current(ctx)
	if err != nil {
		return errResult(err), nil
	}
	if page == nil {
		return mcp.NewToolResultText("No page is currently open."), nil
	}
	return mcp.NewToolResultText(format.Page(*page)), nil
}

// ─── CurrentBlockTool ───────────────────────────────────────────────────────

// CurrentBlockTool handles the logseq_get_current_block MCP tool.
type CurrentBlockTool struct {
	blocks *service.BlockService
}

// NewCurrentBlockTool creates a CurrentBlockTool.
func NewCurrentBlockTool(blocks *service.BlockService) *CurrentBlockTool {
	return &CurrentBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *CurrentBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_current_block",
		mcp.WithDescription("Get the block currently focused in the Logseq UI."),
	)
}

// Handle processes the logseq_get_current_block tool call.
func (t *CurrentBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	block, err := t.blocks.CurrentBlock(ctx)
	if err != nil {
		return errResult(err), nil
	}
	if block == nil {
		return mcp.NewToolResultText("No block is currently focused."), nil
	}
	return mcp.NewToolResultText(format.Block(*block, 0)), nil
}

// ─── EditBlockTool ──────────────────────────────────────────────────────────

// EditBlockTool handles the logseq_edit_block MCP tool.
type EditBlockTool struct {
	blocks *service.BlockService
}

// NewEditBlockTool creates an EditBlockTool.
func NewEditBlockTool(blocks *service.BlockService) *EditBlockTool {
	return &EditBlockTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *EditBlockTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_edit_block",
		mcp.WithDescription("Put a block into edit mode."),
		mcp.WithString("uuid",
			mcp.Required(),
			mcp.Description("Block UUID"),
		),
		mcp.WithNumber("pos",
			mcp.Description("Cursor position within the block"),
		),
	)
}

// Handle processes the logseq_edit_block tool call.
func (t *EditBlockTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.blocks.EditBlock(ctx, req.GetString("uuid", ""), intArg(req, "pos", 0)); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Block is now in edit mode"), nil
}

// ─── ExitEditingTool ────────────────────────────────────────────────────────

// ExitEditingTool handles the logseq_exit_editing_mode MCP tool.
type ExitEditingTool struct {
	blocks *service.BlockService
}

// NewExitEditingTool creates an ExitEditingTool.
func NewExitEditingTool(blocks *service.BlockService) *ExitEditingTool {
	return &ExitEditingTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *ExitEditingTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_exit_editing_mode",
		mcp.WithDescription("Leave edit mode."),
		mcp.WithBoolean("select_block",
			mcp.Description("Keep the block selected after exiting"),
		),
	)
}

// Handle processes the logseq_exit_editing_mode tool call.
func (t *ExitEditingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.blocks.ExitEditing(ctx, boolArg(req, "select_block", false)); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Exited edit mode"), nil
}

// ─── EditingContentTool ─────────────────────────────────────────────────────

// EditingContentTool handles the logseq_get_editing_content MCP tool.
type EditingContentTool struct {
	blocks *service.BlockService
}

// NewEditingContentTool creates an EditingContentTool.
func NewEditingContentTool(blocks *service.BlockService) *EditingContentTool {
	return &EditingContentTool{blocks: blocks}
}

// Definition returns the MCP tool definition for registration.
func (t *EditingContentTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_editing_content",
		mcp.WithDescription("Get the content of the block currently being edited."),
	)
}

// Handle processes the logseq_get_editing_content tool call.
func (t *EditingContentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := t.blocks.EditingContent(ctx)
	if err != nil {
		return errResult(err), nil
	}
	if content == "" {
		return mcp.NewToolResultText("No block is being edited."), nil
	}
	return mcp.NewToolResultText(content), nil
}
