package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/liuchzzyy/logseq-mcp/internal/format"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// SimpleQueryTool handles the logseq_simple_query MCP tool.
type SimpleQueryTool struct {
	queries *service.QueryService
}

// NewSimpleQueryTool creates a SimpleQueryTool.
func NewSimpleQueryTool(queries *service.QueryService) *SimpleQueryTool {
	return &SimpleQueryTool{queries: queries}
}

// Definition returns the MCP tool definition for registration.
func (t *SimpleQueryTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_simple_query",
		mcp.WithDescription(`Run a Logseq DSL query like "[[Project]]", "#important" or "(and [[A]] [[B]])".`),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("DSL query string"),
		),
	)
}

// Handle processes the logseq_simple_query tool call.
func (t *SimpleQueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := t.queries.Simple(ctx, req.GetString("query", ""))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.QueryResults(rows)), nil
}

// ─── AdvancedQueryTool ──────────────────────────────────────────────────────

// AdvancedQueryTool handles the logseq_advanced_query MCP tool.
type AdvancedQueryTool struct {
	queries *service.QueryService
}

// NewAdvancedQueryTool creates an AdvancedQueryTool.
func NewAdvancedQueryTool(queries *service.QueryService) *AdvancedQueryTool {
	return &AdvancedQueryTool{queries: queries}
}

// Definition returns the MCP tool definition for registration.
func (t *AdvancedQueryTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_advanced_query",
		mcp.WithDescription("Run a raw Datascript query against the graph database. Requires the advanced_queries capability."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Datascript query, e.g. [:find (pull ?b [*]) :where [?b :block/marker ?m]]"),
		),
		mcp.WithArray("inputs",
			mcp.Description("Positional query inputs"),
		),
	)
}

// Handle processes the logseq_advanced_query tool call.
func (t *AdvancedQueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := t.queries.Advanced(ctx, req.GetString("query", ""), listArg(req, "inputs"))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.QueryResults(rows)), nil
}

// ─── TasksTool ──────────────────────────────────────────────────────────────

// TasksTool handles the logseq_get_tasks MCP tool.
type TasksTool struct {
	queries *service.QueryService
}

// NewTasksTool creates a TasksTool.
func NewTasksTool(queries *service.QueryService) *TasksTool {
	return &TasksTool{queries: queries}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_tasks",
		mcp.WithDescription("List task blocks, optionally filtered by marker and priority. Requires the advanced_queries capability."),
		mcp.WithString("marker",
			mcp.Description("Task marker filter"),
			mcp.Enum("TODO", "DOING", "DONE", "LATER", "NOW", "WAITING", "CANCELED"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority filter"),
			mcp.Enum("A", "B", "C"),
		),
	)
}

// Handle processes the logseq_get_tasks tool call.
func (t *TasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := t.queries.Tasks(ctx, req.GetString("marker", ""), req.GetString("priority", ""))
	if err != nil {
		return errResult(err), nil
	}
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	lines := []string{fmt.Sprintf("Found %d tasks:", len(tasks))}
	for _, task := range tasks {
		line := fmt.Sprintf("- [%s]", task.Marker)
		if task.Priority != "" {
			line += fmt.Sprintf(" [#%s]", task.Priority)
		}
		line += " " + task.Content
		lines = append(lines, line)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// ─── BlocksWithPropertyTool ─────────────────────────────────────────────────

// BlocksWithPropertyTool handles the logseq_get_blocks_with_property MCP tool.
type BlocksWithPropertyTool struct {
	queries *service.QueryService
}

// NewBlocksWithPropertyTool creates a BlocksWithPropertyTool.
func NewBlocksWithPropertyTool(queries *service.QueryService) *BlocksWithPropertyTool {
	return &BlocksWithPropertyTool{queries: queries}
}

// Definition returns the MCP tool definition for registration.
func (t *BlocksWithPropertyTool) Definition() mcp.Tool {
	return mcp.NewTool("logseq_get_blocks_with_property",
		mcp.WithDescription("Find blocks carrying a property, optionally matching a value. Requires the advanced_queries capability."),
		mcp.WithString("property",
			mcp.Required(),
			mcp.Description("Property name"),
		),
		mcp.WithString("value",
			mcp.Description("Property value to match; omit to match any value"),
		),
	)
}

// Handle processes the logseq_get_blocks_with_property tool call.
func (t *BlocksWithPropertyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := t.queries.BlocksWithProperty(ctx, req.GetString("property", ""), req.GetString("value", ""))
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(format.QueryResults(rows)), nil
}
