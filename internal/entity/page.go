package entity

import "github.com/liuchzzyy/logseq-mcp/internal/logseq"

// Format is a page's source format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatOrg      Format = "org"
)

// Page is a named container of blocks. Blocks is populated only when
// children were requested; a page never owns more than one materialized
// tree at a time — re-fetching replaces it wholesale.
type Page struct {
	UUID         string
	Name         string
	OriginalName string
	Format       Format
	JournalDay   int
	Properties   map[string]any
	Blocks       []Block
	CreatedAt    int64
	UpdatedAt    int64
}

// IsJournal reports whether the page is a journal page.
func (p Page) IsJournal() bool {
	return p.JournalDay != 0
}

// MaterializePage builds a Page from a single-entity payload. A null
// payload means the page does not exist — the API answers missing pages
// with a 200 and a null body, so the distinction is made here, not at
// the transport.
func MaterializePage(v any, includeChildren bool) (Page, error) {
	if v == nil {
		return Page{}, logseq.Errorf(logseq.KindNotFound, "page not found")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Page{}, logseq.Errorf(logseq.KindMalformedResponse, "expected a page object, got %T", v)
	}

	p := Page{
		UUID:         stringField(m, "uuid"),
		Name:         stringField(m, "name"),
		OriginalName: stringField(m, "originalName"),
		Format:       pageFormat(m),
		JournalDay:   intField(m, "journalDay"),
		Properties:   mapField(m, "properties"),
		Blocks:       []Block{},
		CreatedAt:    int64Field(m, "createdAt"),
		UpdatedAt:    int64Field(m, "updatedAt"),
	}

	if includeChildren {
		blocks, err := MaterializeBlocks(m["children"], DefaultDepthBudget)
		if err != nil {
			return Page{}, err
		}
		p.Blocks = blocks
	}
	return p, nil
}

// MaterializePages builds a page list from a batch-style payload.
func MaterializePages(v any) ([]Page, error) {
	if v == nil {
		return []Page{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, logseq.Errorf(logseq.KindMalformedResponse, "expected a page list, got %T", v)
	}

	pages := make([]Page, 0, len(list))
	for i, item := range list {
		if item == nil {
			continue
		}
		p, err := MaterializePage(item, false)
		if err != nil {
			return nil, logseq.Errorf(logseq.KindMalformedResponse, "page list element %d: %v", i, err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func pageFormat(m map[string]any) Format {
	if f := stringField(m, "format"); f == string(FormatOrg) {
		return FormatOrg
	}
	return FormatMarkdown
}

func intField(m map[string]any, key string) int {
	v, _ := m[key].(float64)
	return int(v)
}

func int64Field(m map[string]any, key string) int64 {
	v, _ := m[key].(float64)
	return int64(v)
}
