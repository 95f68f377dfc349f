package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/liuchzzyy/logseq-mcp/internal/format"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// CurrentGraphTool handles the logseq_get_current_graph MCP tool.
type CurrentGraphTool struct {
	graph *service.GraphService
}

// NewCurrentGraphTool creates a CurrentGraphTool.
func NewCurrentGraphTool(graph *service.GraphService) *CurrentGraphTool {
	return &CurrentGraphTool{graph: graph}
}

// Definition returns the MCP tool definition for registration.
func (t *CurrentGraphTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_current_graph",
		mcp.WithDescription("Get info about the currently open graph."),
	)
}

// Handle processes the logseq_get_current_graph tool call.
func (t *CurrentGraphTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graph, err := t.graph.Current(ctx)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.Graph(graph)), nil
}

// ─── UserConfigsTool ────────────────────────────────────────────────────────

// UserConfigsTool handles the logseq_get_user_configs MCP tool.
type UserConfigsTool struct {
	graph *service.GraphService
}

// NewUserConfigsTool creates a UserConfigsTool.
func NewUserConfigsTool(graph *service.GraphService) *UserConfigsTool {
	return &UserConfigsTool{graph: graph}
}

// Definition returns the MCP tool definition for registration.
func (t *UserConfigsTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_user_configs",
		mcp.WithDescription("Get the user's Logseq preferences (theme, formats, language)."),
	)
}

// Handle processes the logseq_get_user_configs tool call.
func (t *UserConfigsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := t.graph.UserConfigs(ctx)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.JSON(configs)), nil
}

// ─── ShowMsgTool ────────────────────────────────────────────────────────────

// ShowMsgTool handles the logseq_show_msg MCP tool.
type ShowMsgTool struct {
	graph *service.GraphService
}

// NewShowMsgTool creates a ShowMsgTool.
func NewShowMsgTool(graph *service.GraphService) *ShowMsgTool {
	return &ShowMsgTool{graph: graph}
}

// Definition returns the MCP tool definition for registration.
func (t *ShowMsgTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_show_msg",
		mcp.WithDescription("Flash a notification message in the Logseq UI."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message text"),
		),
		mcp.WithString("status",
			mcp.Description("Message style"),
			mcp.Enum("success", "warning", "error"),
			mcp.DefaultString("success"),
		),
	)
}

// Handle processes the logseq_show_msg tool call.
func (t *ShowMsgTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	err := t.graph.ShowMsg(ctx, req.GetString("message", ""), req.GetString("status", "success"))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Message shown"), nil
}

// ─── GitCommitTool ──────────────────────────────────────────────────────────

// GitCommitTool handles the logseq_git_commit MCP tool.
type GitCommitTool struct {
	graph *service.GraphService
}

// NewGitCommitTool creates a GitCommitTool.
func NewGitCommitTool(graph *service.GraphService) *GitCommitTool {
	return &GitCommitTool{graph: graph}
}

// Definition returns the MCP tool definition for registration.
func (t *GitCommitTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_git_commit",
		mcp.WithDescription("Commit the graph directory with a message. Requires the git_operations capability."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Commit message"),
		),
	)
}

// Handle processes the logseq_git_commit tool call.
func (t *GitCommitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.graph.GitCommit(ctx, req.GetString("message", "")); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Changes committed"), nil
}

// ─── GitStatusTool ──────────────────────────────────────────────────────────

// GitStatusTool handles the logseq_git_status MCP tool.
type GitStatusTool struct {
	graph *service.GraphService
}

// NewGitStatusTool creates a GitStatusTool.
func NewGitStatusTool(graph *service.GraphService) *GitStatusTool {
	return &GitStatusTool{graph: graph}
}

// Definition returns the MCP tool definition for registration.
func (t *GitStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_git_status",
		mcp.WithDescription("Get the graph's git status. Requires the git_operations capability."),
	)
}

// Handle processes the logseq_git_status tool call.
func (t *GitStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := t.graph.GitStatusReport(ctx)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.GitStatus(status)), nil
}
