package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/format"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// CreatePageTool handles the logseq_create_page MCP tool.
type CreatePageTool struct {
	pages *service.PageService
}

// NewCreatePageTool creates a CreatePageTool.
func NewCreatePageTool(pages *service.PageService) *CreatePageTool {
	return &CreatePageTool{pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *CreatePageTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_create_page",
		mcp.WithDescription("Create a new page in Logseq."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Page name; use a date like 2026-08-25 with journal=true for journal pages"),
		),
		mcp.WithObject("properties",
			mcp.Description("Page properties"),
		),
		mcp.WithBoolean("journal",
			mcp.Description("Create as a journal page"),
		),
		mcp.WithString("format",
			mcp.Description("Page format"),
			mcp.Enum("markdown", "org"),
		),
		mcp.WithBoolean("create_first_block",
			mcp.Description("Create an empty first block"),
		),
	)
}

// Handle processes the logseq_create_page tool call.
func (t *CreatePageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := t.pages.Create(ctx, service.CreatePageInput{
		Name:             req.GetString("name", ""),
		Properties:       mapArg(req, "properties"),
		Journal:          boolArg(req, "journal", false),
		Format:           entity.Format(req.GetString("format", "")),
		CreateFirstBlock: boolArg(req, "create_first_block", true),
	})
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created page: %s (UUID: %s)", page.Name, page.UUID)), nil
}

// ─── GetPageTool ────────────────────────────────────────────────────────────

// GetPageTool handles the logseq_get_page MCP tool.
type GetPageTool struct {
	pages *service.PageService
}

// NewGetPageTool creates a GetPageTool.
func NewGetPageTool(pages *service.PageService) *GetPageTool {
	return &GetPageTool{pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *GetPageTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_page",
		mcp.WithDescription("Get a page's metadata, optionally with its blocks."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Page name or UUID"),
		),
		mcp.WithBoolean("include_children",
			mcp.Description("Include the page's block tree"),
		),
	)
}

// Handle processes the logseq_get_page tool call.
func (t *GetPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := t.pages.Get(ctx, req.GetString("name", ""), boolArg(req, "include_children", false))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Page(page)), nil
}

// ─── AllPagesTool ───────────────────────────────────────────────────────────

// AllPagesTool handles the logseq_get_all_pages MCP tool.
type AllPagesTool struct {
	pages *service.PageService
}

// NewAllPagesTool creates an AllPagesTool.
func NewAllPagesTool(pages *service.PageService) *AllPagesTool {
	return &AllPagesTool{pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *AllPagesTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_all_pages",
		mcp.WithDescription("List all pages in the current graph."),
		mcp.WithString("repo",
			mcp.Description("Graph name; defaults to the current graph"),
		),
	)
}

// Handle processes the logseq_get_all_pages tool call.
func (t *AllPagesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := t.pages.All(ctx, req.GetString("repo", ""))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Pages(pages)), nil
}

// ─── DeletePageTool ─────────────────────────────────────────────────────────

// DeletePageTool handles the logseq_delete_page MCP tool.
type DeletePageTool struct {
	pages *service.PageService
}

// NewDeletePageTool creates a DeletePageTool.
func NewDeletePageTool(pages *service.PageService) *DeletePageTool {
	return &DeletePageTool{pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *DeletePageTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_delete_page",
		mcp.WithDescription("Delete a page and all of its blocks."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Page name to delete"),
		),
	)
}

// Handle processes the logseq_delete_page tool call.
func (t *DeletePageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if err := t.pages.Delete(ctx, name); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted page: %s", name)), nil
}

// ─── RenamePageTool ─────────────────────────────────────────────────────────

// RenamePageTool handles the logseq_rename_page MCP tool.
type RenamePageTool struct {
	pages *service.PageService
}

// NewRenamePageTool creates a RenamePageTool.
func NewRenamePageTool(pages *service.PageService) *RenamePageTool {
	return &RenamePageTool{pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *RenamePageTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_rename_page",
		mcp.WithDescription("Rename a page."),
		mcp.WithString("old_name",
			mcp.Required(),
			mcp.Description("Current page name"),
		),
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("New page name"),
		),
	)
}

// Handle processes the logseq_rename_page tool call.
func (t *RenamePageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldName := req.GetString("old_name", "")
	newName := req.GetString("new_name", "")
	if err := t.pages.Rename(ctx, oldName, newName); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Renamed page %q to %q", oldName, newName)), nil
}
