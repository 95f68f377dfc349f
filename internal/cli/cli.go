// Package cli implements the command-line surface. Every subcommand
// runs on the same services as the MCP tools, so behavior and error
// classification are identical across both surfaces.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/config"
	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/format"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
	"github.com/liuchzzyy/logseq-mcp/internal/server"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// Run executes the command line and returns the process exit code.
// With no arguments it starts the MCP server on stdio.
func Run(ctx context.Context, args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Logs go to stderr: stdout belongs to the MCP stdio transport and
	// to subcommand output.
	log := newLogger(cfg.LogLevel)

	if len(args) == 0 {
		return serve(cfg, log)
	}

	switch args[0] {
	case "serve":
		return serve(cfg, log)
	case "pages":
		return runPages(ctx, cfg, log, args[1:])
	case "journals":
		return runJournals(ctx, cfg, log, args[1:])
	case "blocks":
		return runBlocks(ctx, cfg, log, args[1:])
	case "queries":
		return runQueries(ctx, cfg, log, args[1:])
	case "graph":
		return runGraph(ctx, cfg, log, args[1:])
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-v", "version":
		fmt.Printf("logseq-mcp v%s\n", server.Version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		return 1
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

func serve(cfg config.Config, log zerolog.Logger) int {
	svc := server.NewServices(cfg, log)

	// Early connectivity probe. Startup continues either way — the user
	// may launch Logseq after the server — but the warning lands in the
	// logs before the first tool call fails.
	hctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
	if err := svc.Graph.HealthCheck(hctx); err != nil {
		log.Warn().Err(err).Str("url", cfg.APIURL).
			Msg("Logseq API unreachable; tools will fail until it is up")
	}
	cancel()

	s := server.New(svc, cfg, log)
	log.Info().Str("url", cfg.APIURL).Msg("starting MCP server on stdio")
	if err := mcpserver.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// fail prints a classified error and returns the exit code.
func fail(err error) int {
	if ce, ok := logseq.AsError(err); ok {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", ce.Kind, ce.Message)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

func usageError(msg string) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	return 2
}

// ─── pages ──────────────────────────────────────────────────────────────────

func runPages(ctx context.Context, cfg config.Config, log zerolog.Logger, args []string) int {
	if len(args) == 0 {
		return usageError("usage: logseq-mcp pages <list|get|create|delete|rename>")
	}
	svc := server.NewServices(cfg, log)

	switch args[0] {
	case "list":
		pages, err := svc.Pages.All(ctx, "")
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Pages(pages))
		return 0

	case "get":
		fs := flag.NewFlagSet("pages get", flag.ContinueOnError)
		withBlocks := fs.Bool("blocks", false, "include the page's block tree")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			return usageError("usage: logseq-mcp pages get [-blocks] <name>")
		}
		page, err := svc.Pages.Get(ctx, fs.Arg(0), *withBlocks)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Page(page))
		return 0

	case "create":
		fs := flag.NewFlagSet("pages create", flag.ContinueOnError)
		journal := fs.Bool("journal", false, "create as a journal page")
		pageFormat := fs.String("format", "", "page format: markdown or org")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			return usageError("usage: logseq-mcp pages create [-journal] [-format markdown|org] <name>")
		}
		page, err := svc.Pages.Create(ctx, service.CreatePageInput{
			Name:             fs.Arg(0),
			Journal:          *journal,
			Format:           entity.Format(*pageFormat),
			CreateFirstBlock: true,
		})
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Created page: %s (UUID: %s)\n", page.Name, page.UUID)
		return 0

	case "delete":
		if len(args) != 2 {
			return usageError("usage: logseq-mcp pages delete <name>")
		}
		if err := svc.Pages.Delete(ctx, args[1]); err != nil {
			return fail(err)
		}
		fmt.Printf("Deleted page: %s\n", args[1])
		return 0

	case "rename":
		if len(args) != 3 {
			return usageError("usage: logseq-mcp pages rename <old> <new>")
		}
		if err := svc.Pages.Rename(ctx, args[1], args[2]); err != nil {
			return fail(err)
		}
		fmt.Printf("Renamed page %q to %q\n", args[1], args[2])
		return 0

	default:
		return usageError(fmt.Sprintf("unknown pages subcommand: %s", args[0]))
	}
}

// ─── journals ───────────────────────────────────────────────────────────────

func runJournals(ctx context.Context, cfg config.Config, log zerolog.Logger, args []string) int {
	if len(args) == 0 {
		return usageError("usage: logseq-mcp journals <create|list>")
	}
	svc := server.NewServices(cfg, log)

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("journals create", flag.ContinueOnError)
		date := fs.String("date", time.Now().Format("2006-01-02"), "journal date (YYYY-MM-DD)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		page, err := svc.Pages.Create(ctx, service.CreatePageInput{
			Name:             *date,
			Journal:          true,
			CreateFirstBlock: true,
		})
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Created journal page: %s (UUID: %s)\n", page.Name, page.UUID)
		return 0

	case "list":
		pages, err := svc.Pages.All(ctx, "")
		if err != nil {
			return fail(err)
		}
		journals := pages[:0:0]
		for _, p := range pages {
			if p.IsJournal() {
				journals = append(journals, p)
			}
		}
		fmt.Println(format.Pages(journals))
		return 0

	default:
		return usageError(fmt.Sprintf("unknown journals subcommand: %s", args[0]))
	}
}

// ─── blocks ─────────────────────────────────────────────────────────────────

func runBlocks(ctx context.Context, cfg config.Config, log zerolog.Logger, args []string) int {
	if len(args) == 0 {
		return usageError("usage: logseq-mcp blocks <get|insert|update|delete|move|batch-insert|page-blocks|current-page-blocks|current-block>")
	}
	svc := server.NewServices(cfg, log)

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return usageError("usage: logseq-mcp blocks get <uuid>")
		}
		block, err := svc.Blocks.Get(ctx, args[1])
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Block(block, 0))
		return 0

	case "insert":
		fs := flag.NewFlagSet("blocks insert", flag.ContinueOnError)
		parent := fs.String("parent", "", "parent block UUID or page name")
		isPageBlock := fs.Bool("page-block", false, "insert as a top-level page block")
		before := fs.Bool("before", false, "insert before the parent instead of after")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			return usageError("usage: logseq-mcp blocks insert [-parent ref] [-page-block] [-before] <content>")
		}
		block, err := svc.Blocks.Insert(ctx, service.InsertBlockInput{
			Parent:      *parent,
			Content:     fs.Arg(0),
			IsPageBlock: *isPageBlock,
			Before:      *before,
		})
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Inserted block: %s\n", block.UUID)
		return 0

	case "update":
		if len(args) != 3 {
			return usageError("usage: logseq-mcp blocks update <uuid> <content>")
		}
		if _, err := svc.Blocks.Update(ctx, service.UpdateBlockInput{UUID: args[1], Content: args[2]}); err != nil {
			return fail(err)
		}
		fmt.Println("Block updated")
		return 0

	case "delete":
		if len(args) != 2 {
			return usageError("usage: logseq-mcp blocks delete <uuid>")
		}
		if err := svc.Blocks.Delete(ctx, args[1]); err != nil {
			return fail(err)
		}
		fmt.Println("Block deleted")
		return 0

	case "move":
		fs := flag.NewFlagSet("blocks move", flag.ContinueOnError)
		asChild := fs.Bool("as-child", false, "move under the target instead of next to it")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 2 {
			return usageError("usage: logseq-mcp blocks move [-as-child] <uuid> <target-uuid>")
		}
		err := svc.Blocks.Move(ctx, service.MoveBlockInput{
			UUID:       fs.Arg(0),
			TargetUUID: fs.Arg(1),
			AsChild:    *asChild,
		})
		if err != nil {
			return fail(err)
		}
		fmt.Println("Block moved")
		return 0

	case "batch-insert":
		fs := flag.NewFlagSet("blocks batch-insert", flag.ContinueOnError)
		parent := fs.String("parent", "", "parent block UUID or page name (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() == 0 {
			return usageError("usage: logseq-mcp blocks batch-insert -parent <ref> <content>...")
		}
		items := make([]service.BatchBlock, fs.NArg())
		for i, content := range fs.Args() {
			items[i] = service.BatchBlock{Content: content}
		}
		outcome, err := svc.Blocks.InsertBatch(ctx, *parent, items)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.BatchOutcome(outcome))
		if outcome.Failed() {
			return 1
		}
		return 0

	case "page-blocks":
		if len(args) != 2 {
			return usageError("usage: logseq-mcp blocks page-blocks <page-name>")
		}
		blocks, err := svc.Blocks.PageBlocks(ctx, args[1])
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Blocks(blocks))
		return 0

	case "current-page-blocks":
		blocks, err := svc.Blocks.CurrentPageBlocks(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Blocks(blocks))
		return 0

	case "current-block":
		block, err := svc.Blocks.CurrentBlock(ctx)
		if err != nil {
			return fail(err)
		}
		if block == nil {
			fmt.Println("No block is currently focused.")
			return 0
		}
		fmt.Println(format.Block(*block, 0))
		return 0

	default:
		return usageError(fmt.Sprintf("unknown blocks subcommand: %s", args[0]))
	}
}

// ─── queries ────────────────────────────────────────────────────────────────

func runQueries(ctx context.Context, cfg config.Config, log zerolog.Logger, args []string) int {
	if len(args) == 0 {
		return usageError("usage: logseq-mcp queries <simple|advanced|tasks|blocks-with-prop>")
	}
	svc := server.NewServices(cfg, log)

	switch args[0] {
	case "simple":
		if len(args) != 2 {
			return usageError("usage: logseq-mcp queries simple <query>")
		}
		rows, err := svc.Queries.Simple(ctx, args[1])
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.QueryResults(rows))
		return 0

	case "advanced":
		if len(args) < 2 {
			return usageError("usage: logseq-mcp queries advanced <datascript-query> [input]...")
		}
		inputs := make([]any, 0, len(args)-2)
		for _, in := range args[2:] {
			inputs = append(inputs, in)
		}
		rows, err := svc.Queries.Advanced(ctx, args[1], inputs)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.QueryResults(rows))
		return 0

	case "tasks":
		fs := flag.NewFlagSet("queries tasks", flag.ContinueOnError)
		marker := fs.String("marker", "", "filter by marker (TODO, DOING, ...)")
		priority := fs.String("priority", "", "filter by priority (A, B, C)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		tasks, err := svc.Queries.Tasks(ctx, strings.ToUpper(*marker), strings.ToUpper(*priority))
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Blocks(tasks))
		return 0

	case "blocks-with-prop":
		fs := flag.NewFlagSet("queries blocks-with-prop", flag.ContinueOnError)
		value := fs.String("value", "", "property value to match")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			return usageError("usage: logseq-mcp queries blocks-with-prop [-value v] <property>")
		}
		rows, err := svc.Queries.BlocksWithProperty(ctx, fs.Arg(0), *value)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.QueryResults(rows))
		return 0

	default:
		return usageError(fmt.Sprintf("unknown queries subcommand: %s", args[0]))
	}
}

// ─── graph ──────────────────────────────────────────────────────────────────

func runGraph(ctx context.Context, cfg config.Config, log zerolog.Logger, args []string) int {
	if len(args) == 0 {
		return usageError("usage: logseq-mcp graph <info|user-configs|git-status|git-commit|git-support>")
	}
	svc := server.NewServices(cfg, log)

	switch args[0] {
	case "info":
		graph, err := svc.Graph.Current(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.Graph(graph))
		return 0

	case "user-configs":
		configs, err := svc.Graph.UserConfigs(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.JSON(configs))
		return 0

	case "git-status":
		status, err := svc.Graph.GitStatusReport(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Println(format.GitStatus(status))
		return 0

	case "git-commit":
		if len(args) != 2 {
			return usageError("usage: logseq-mcp graph git-commit <message>")
		}
		if err := svc.Graph.GitCommit(ctx, args[1]); err != nil {
			return fail(err)
		}
		fmt.Println("Changes committed")
		return 0

	case "git-support":
		support, err := svc.Graph.GitSupportCheck(ctx)
		if err != nil {
			return fail(err)
		}
		if support.Supported {
			fmt.Println("Git operations are supported by this Logseq build.")
		} else {
			fmt.Printf("Git operations are not supported: %s\n", support.Reason)
		}
		return 0

	default:
		return usageError(fmt.Sprintf("unknown graph subcommand: %s", args[0]))
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `logseq-mcp v%s — MCP server and CLI for the Logseq HTTP API

Usage:
  logseq-mcp [serve]                Start the MCP server (stdio transport)
  logseq-mcp pages <subcommand>     list | get | create | delete | rename
  logseq-mcp journals <subcommand>  create | list
  logseq-mcp blocks <subcommand>    get | insert | update | delete | move |
                                    batch-insert | page-blocks |
                                    current-page-blocks | current-block
  logseq-mcp queries <subcommand>   simple | advanced | tasks | blocks-with-prop
  logseq-mcp graph <subcommand>     info | user-configs | git-status |
                                    git-commit | git-support

Configuration (environment, or a .env file):
  LOGSEQ_API_TOKEN                  API token (required by most Logseq setups)
  LOGSEQ_API_URL                    API base URL (default http://localhost:12315)
  LOGSEQ_API_TIMEOUT                Per-request timeout (default 10s)
  LOGSEQ_API_MAX_RETRIES            Retries on transient failures (default 3)
  LOGSEQ_ENABLE_ADVANCED_QUERIES    Datascript queries and tasks (default true)
  LOGSEQ_ENABLE_GIT_OPERATIONS      Git commit/status (default false)

MCP config for your AI tool:

  {
    "mcpServers": {
      "logseq": {
        "command": "logseq-mcp",
        "args": ["serve"],
        "env": { "LOGSEQ_API_TOKEN": "your-token" }
      }
    }
  }
`, server.Version)
}
