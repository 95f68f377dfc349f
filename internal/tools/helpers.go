// Package tools implements the MCP tool handlers for the Logseq adapter.
//
// Each tool is a struct holding its service dependency, with Definition()
// returning the mcp.Tool schema and Handle() processing the call. Tools
// translate arguments into service inputs and format the typed result;
// all failures reaching them are already classified.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// boolArg extracts a boolean argument, returning defaultVal when the key
// is missing or not a boolean.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// intArg extracts an integer argument (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// mapArg extracts an object argument, returning nil when absent.
func mapArg(req mcp.CallToolRequest, key string) map[string]any {
	v, _ := req.GetArguments()[key].(map[string]any)
	return v
}

// listArg extracts an array argument, returning nil when absent.
func listArg(req mcp.CallToolRequest, key string) []any {
	v, _ := req.GetArguments()[key].([]any)
	return v
}

// errResult converts a classified error into a tool error result with
// the kind surfaced, so the calling AI can distinguish "service down"
// from "bad request".
func errResult(err error) *mcp.CallToolResult {
	if ce, ok := logseq.AsError(err); ok {
		return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", ce.Kind, ce.Message))
	}
	return mcp.NewToolResultError(err.Error())
}
