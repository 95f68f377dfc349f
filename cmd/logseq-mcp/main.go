// logseq-mcp: MCP server and CLI for the Logseq HTTP API.
//
// Exposes a local Logseq graph to AI tools over MCP (stdio transport),
// and the same operations as CLI subcommands for scripting.
//
// Usage:
//
//	logseq-mcp serve          # Start MCP server (stdio transport)
//	logseq-mcp pages list     # Same operations from the command line
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/liuchzzyy/logseq-mcp/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
