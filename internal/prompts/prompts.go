// Package prompts implements MCP prompt handlers for common Logseq
// workflows.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user. Each prompt here
// maps onto one of the logseq_* tools with a ready-made instruction.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func argOr(req mcp.GetPromptRequest, key, def string) string {
	if args := req.Params.Arguments; args != nil {
		if v, ok := args[key]; ok && v != "" {
			return v
		}
	}
	return def
}

// InsertBlockPrompt handles the logseq_insert_block MCP prompt.
type InsertBlockPrompt struct{}

// NewInsertBlockPrompt creates an InsertBlockPrompt.
func NewInsertBlockPrompt() *InsertBlockPrompt {
	return &InsertBlockPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *InsertBlockPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logseq_insert_block",
		mcp.WithPromptDescription("Add a new block to a Logseq page."),
		mcp.WithArgument("content",
			mcp.ArgumentDescription("Content of the block to insert"),
		),
		mcp.WithArgument("page",
			mcp.ArgumentDescription("Page to insert the block into; defaults to today's journal"),
		),
	)
}

// Handle processes the logseq_insert_block prompt request.
func (p *InsertBlockPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	content := argOr(req, "content", "")
	page := argOr(req, "page", "today's journal page")

	return &mcp.GetPromptResult{
		Description: "Insert a block into Logseq",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please add a new block to %s in my Logseq graph.\n\n"+
						"Content: %s\n\n"+
						"Use the `logseq_insert_block` tool with the page as parent_block "+
						"and is_page_block=true. Confirm the block UUID once inserted.",
					page, content,
				)),
			},
		},
	}, nil
}

// ─── CreatePagePrompt ───────────────────────────────────────────────────────

// CreatePagePrompt handles the logseq_create_page MCP prompt.
type CreatePagePrompt struct{}

// NewCreatePagePrompt creates a CreatePagePrompt.
func NewCreatePagePrompt() *CreatePagePrompt {
	return &CreatePagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CreatePagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logseq_create_page",
		mcp.WithPromptDescription("Create a new page in the Logseq graph."),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name of the page to create"),
		),
	)
}

// Handle processes the logseq_create_page prompt request.
func (p *CreatePagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := argOr(req, "name", "a new page")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Create page: %s", name),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please create %s in my Logseq graph using the `logseq_create_page` "+
						"tool. If the name looks like a date, create it as a journal page. "+
						"Report the page UUID when done.",
					name,
				)),
			},
		},
	}, nil
}

// ─── GetPagePrompt ──────────────────────────────────────────────────────────

// GetPagePrompt handles the logseq_get_page MCP prompt.
type GetPagePrompt struct{}

// NewGetPagePrompt creates a GetPagePrompt.
func NewGetPagePrompt() *GetPagePrompt {
	return &GetPagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *GetPagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logseq_get_page",
		mcp.WithPromptDescription("Read a page and its content."),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name of the page to read"),
		),
	)
}

// Handle processes the logseq_get_page prompt request.
func (p *GetPagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := argOr(req, "name", "")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Read page: %s", name),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please read the page %q from my Logseq graph.\n\n"+
						"Use `logseq_get_page` with include_children=true and summarize "+
						"what the page contains.",
					name,
				)),
			},
		},
	}, nil
}

// ─── CurrentPagePrompt ──────────────────────────────────────────────────────

// CurrentPagePrompt handles the logseq_get_current_page MCP prompt.
type CurrentPagePrompt struct{}

// NewCurrentPagePrompt creates a CurrentPagePrompt.
func NewCurrentPagePrompt() *CurrentPagePrompt {
	return &CurrentPagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CurrentPagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logseq_get_current_page",
		mcp.WithPromptDescription("Look at the page currently open in Logseq."),
	)
}

// Handle processes the logseq_get_current_page prompt request.
func (p *CurrentPagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Read the currently open page",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please look at the page I currently have open in Logseq.\n\n" +
						"Use `logseq_get_current_page` for the metadata and " +
						"`logseq_get_current_page_content` for the blocks, then give me " +
						"a short summary of what's on the page.",
				),
			},
		},
	}, nil
}

// ─── AllPagesPrompt ─────────────────────────────────────────────────────────

// AllPagesPrompt handles the logseq_get_all_pages MCP prompt.
type AllPagesPrompt struct{}

// NewAllPagesPrompt creates an AllPagesPrompt.
func NewAllPagesPrompt() *AllPagesPrompt {
	return &AllPagesPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *AllPagesPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logseq_get_all_pages",
		mcp.WithPromptDescription("List every page in the graph."),
	)
}

// Handle processes the logseq_get_all_pages prompt request.
func (p *AllPagesPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "List all pages",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please list all pages in my Logseq graph using " +
						"`logseq_get_all_pages`. Group them sensibly (journals vs. " +
						"regular pages) and point out anything that looks like a " +
						"duplicate.",
				),
			},
		},
	}, nil
}

// ─── SimpleQueryPrompt ──────────────────────────────────────────────────────

// SimpleQueryPrompt handles the logseq_simple_query MCP prompt.
type SimpleQueryPrompt struct{}

// NewSimpleQueryPrompt creates a SimpleQueryPrompt.
func NewSimpleQueryPrompt() *SimpleQueryPrompt {
	return &SimpleQueryPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *SimpleQueryPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logseq_simple_query",
		mcp.WithPromptDescription("Search the graph with a Logseq DSL query."),
		mcp.WithArgument("query",
			mcp.ArgumentDescription(`DSL query, e.g. "[[Project]]" or "#important"`),
		),
	)
}

// Handle processes the logseq_simple_query prompt request.
func (p *SimpleQueryPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := argOr(req, "query", "")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Query graph: %s", query),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please search my Logseq graph with the query %q using the "+
						"`logseq_simple_query` tool, then summarize the matching blocks.",
					query,
				)),
			},
		},
	}, nil
}
