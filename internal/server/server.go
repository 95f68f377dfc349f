// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the HTTP client, the
// capability gate, and the services, then injects them into the tools
// and prompts. No business logic lives here — only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/capability"
	"github.com/liuchzzyy/logseq-mcp/internal/config"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
	"github.com/liuchzzyy/logseq-mcp/internal/prompts"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
	"github.com/liuchzzyy/logseq-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Services bundles the domain services the server (and the CLI) run on.
type Services struct {
	Blocks  *service.BlockService
	Pages   *service.PageService
	Queries *service.QueryService
	Graph   *service.GraphService
}

// NewServices builds the client, gate, and services from configuration.
// Shared by the MCP server and the CLI so both surfaces run the exact
// same code path against the Logseq API.
func NewServices(cfg config.Config, log zerolog.Logger) *Services {
	client := logseq.New(logseq.Config{
		BaseURL:    cfg.APIURL,
		Token:      cfg.APIToken,
		Timeout:    cfg.APITimeout,
		MaxRetries: cfg.APIMaxRetries,
	}, log)
	gate := capability.New(cfg.FeatureFlags())

	return &Services{
		Blocks:  service.NewBlockService(client, log),
		Pages:   service.NewPageService(client, log),
		Queries: service.NewQueryService(client, gate, log),
		Graph:   service.NewGraphService(client, gate, log),
	}
}

// New creates and configures the MCP server with all tools and prompts
// registered. This is the single place where all dependencies are
// resolved.
func New(svc *Services, cfg config.Config, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"logseq-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(cfg)),
	)

	// --- Register block tools ---

	insertBlock := tools.NewInsertBlockTool(svc.Blocks)
	s.AddTool(insertBlock.Definition(), insertBlock.Handle)

	updateBlock := tools.NewUpdateBlockTool(svc.Blocks)
	s.AddTool(updateBlock.Definition(), updateBlock.Handle)

	deleteBlock := tools.NewDeleteBlockTool(svc.Blocks)
	s.AddTool(deleteBlock.Definition(), deleteBlock.Handle)

	getBlock := tools.NewGetBlockTool(svc.Blocks)
	s.AddTool(getBlock.Definition(), getBlock.Handle)

	moveBlock := tools.NewMoveBlockTool(svc.Blocks)
	s.AddTool(moveBlock.Definition(), moveBlock.Handle)

	insertBatch := tools.NewInsertBatchTool(svc.Blocks)
	s.AddTool(insertBatch.Definition(), insertBatch.Handle)

	pageBlocks := tools.NewPageBlocksTool(svc.Blocks)
	s.AddTool(pageBlocks.Definition(), pageBlocks.Handle)

	currentPageContent := tools.NewCurrentPageContentTool(svc.Blocks)
	s.AddTool(currentPageContent.Definition(), currentPageContent.Handle)

	// --- Register page tools ---

	createPage := tools.NewCreatePageTool(svc.Pages)
	s.AddTool(createPage.Definition(), createPage.Handle)

	getPage := tools.NewGetPageTool(svc.Pages)
	s.AddTool(getPage.Definition(), getPage.Handle)

	allPages := tools.NewAllPagesTool(svc.Pages)
	s.AddTool(allPages.Definition(), allPages.Handle)

	deletePage := tools.NewDeletePageTool(svc.Pages)
	s.AddTool(deletePage.Definition(), deletePage.Handle)

	renamePage := tools.NewRenamePageTool(svc.Pages)
	s.AddTool(renamePage.Definition(), renamePage.Handle)

	// --- Register editor state tools ---

	currentPage := tools.NewCurrentPageTool(svc.Pages)
	s.AddTool(currentPage.Definition(), currentPage.Handle)

	currentBlock := tools.NewCurrentBlockTool(svc.Blocks)
	s.AddTool(currentBlock.Definition(), currentBlock.Handle)

	editBlock := tools.NewEditBlockTool(svc.Blocks)
	s.AddTool(editBlock.Definition(), editBlock.Handle)

	exitEditing := tools.NewExitEditingTool(svc.Blocks)
	s.AddTool(exitEditing.Definition(), exitEditing.Handle)

	editingContent := tools.NewEditingContentTool(svc.Blocks)
	s.AddTool(editingContent.Definition(), editingContent.Handle)

	// --- Register query tools ---
	//
	// Datascript-backed tools are registered even when advanced_queries
	// is off: the gate rejects calls with a clear capability error, which
	// reads better to the AI than a missing tool.

	simpleQuery := tools.NewSimpleQueryTool(svc.Queries)
	s.AddTool(simpleQuery.Definition(), simpleQuery.Handle)

	advancedQuery := tools.NewAdvancedQueryTool(svc.Queries)
	s.AddTool(advancedQuery.Definition(), advancedQuery.Handle)

	tasksTool := tools.NewTasksTool(svc.Queries)
	s.AddTool(tasksTool.Definition(), tasksTool.Handle)

	blocksWithProperty := tools.NewBlocksWithPropertyTool(svc.Queries)
	s.AddTool(blocksWithProperty.Definition(), blocksWithProperty.Handle)

	// --- Register graph tools ---

	currentGraph := tools.NewCurrentGraphTool(svc.Graph)
	s.AddTool(currentGraph.Definition(), currentGraph.Handle)

	userConfigs := tools.NewUserConfigsTool(svc.Graph)
	s.AddTool(userConfigs.Definition(), userConfigs.Handle)

	showMsg := tools.NewShowMsgTool(svc.Graph)
	s.AddTool(showMsg.Definition(), showMsg.Handle)

	gitCommit := tools.NewGitCommitTool(svc.Graph)
	s.AddTool(gitCommit.Definition(), gitCommit.Handle)

	gitStatus := tools.NewGitStatusTool(svc.Graph)
	s.AddTool(gitStatus.Definition(), gitStatus.Handle)

	// --- Register prompts ---

	insertPrompt := prompts.NewInsertBlockPrompt()
	s.AddPrompt(insertPrompt.Definition(), insertPrompt.Handle)

	createPagePrompt := prompts.NewCreatePagePrompt()
	s.AddPrompt(createPagePrompt.Definition(), createPagePrompt.Handle)

	getPagePrompt := prompts.NewGetPagePrompt()
	s.AddPrompt(getPagePrompt.Definition(), getPagePrompt.Handle)

	currentPagePrompt := prompts.NewCurrentPagePrompt()
	s.AddPrompt(currentPagePrompt.Definition(), currentPagePrompt.Handle)

	allPagesPrompt := prompts.NewAllPagesPrompt()
	s.AddPrompt(allPagesPrompt.Definition(), allPagesPrompt.Handle)

	queryPrompt := prompts.NewSimpleQueryPrompt()
	s.AddPrompt(queryPrompt.Definition(), queryPrompt.Handle)

	return s
}

// serverInstructions returns the system instructions that tell the AI
// how to use the Logseq tools effectively.
func serverInstructions(cfg config.Config) string {
	base := `You have access to a Logseq MCP server connected to the user's
local Logseq graph over its HTTP API.

## What you can do
- Read and write blocks: insert, update, delete, move, batch-insert
- Read and manage pages: create, read (with blocks), list, rename, delete
- Inspect the editor: current page, current block, editing content
- Search the graph: DSL queries, Datascript queries, task listing
- Graph-level info: current graph, user configs, UI notifications

## Conventions
- Block UUIDs may be passed with or without the ((uuid)) ref wrapper
- Journal pages are named by date; create them with journal=true
- Batch insertion is sequential and stops at the first failure; the
  result reports every item, so check it before assuming all blocks
  were written
- Tool errors carry a bracketed kind, e.g. [not_found] or [unavailable];
  [unavailable] means the Logseq desktop app is unreachable or the API
  server is not enabled — tell the user to check that Logseq is running
  with the HTTP API enabled

## Tips
- Prefer logseq_simple_query for content search; it takes Logseq's own
  DSL like "[[Page]]" or "#tag"
- Use logseq_get_page with include_children=true to read a whole page
  in one call`

	if !cfg.EnableAdvancedQueries {
		base += "\n\nDatascript queries and task listing are disabled in this deployment."
	}
	if !cfg.EnableGitOperations {
		base += "\nGit operations are disabled in this deployment."
	}
	return base
}
