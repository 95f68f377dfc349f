// Package format renders domain entities as human-readable text for the
// MCP tool results and the CLI. Presentation only — the core returns
// typed values and classified errors, never formatted strings.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/service"
)

// Block renders one block subtree as an indented outline.
func Block(b entity.Block, level int) string {
	indent := strings.Repeat("  ", level)
	lines := []string{fmt.Sprintf("%s- %s", indent, b.Content)}

	if len(b.Properties) > 0 {
		keys := make([]string, 0, len(b.Properties))
		for k := range b.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s  %s:: %v", indent, k, b.Properties[k]))
		}
	}

	for _, child := range b.Children {
		lines = append(lines, Block(child, level+1))
	}
	return strings.Join(lines, "\n")
}

// Blocks renders a sequence of block trees.
func Blocks(blocks []entity.Block) string {
	if len(blocks) == 0 {
		return "No blocks found."
	}
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = Block(b, 0)
	}
	return strings.Join(parts, "\n")
}

// Page renders page metadata.
func Page(p entity.Page) string {
	lines := []string{
		fmt.Sprintf("Page: %s", p.Name),
		fmt.Sprintf("UUID: %s", p.UUID),
		fmt.Sprintf("Format: %s", p.Format),
	}
	if p.IsJournal() {
		lines = append(lines, fmt.Sprintf("Journal Day: %d", p.JournalDay))
	}
	if len(p.Properties) > 0 {
		lines = append(lines, "Properties:")
		keys := make([]string, 0, len(p.Properties))
		for k := range p.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s:: %v", k, p.Properties[k]))
		}
	}
	if len(p.Blocks) > 0 {
		lines = append(lines, "", Blocks(p.Blocks))
	}
	return strings.Join(lines, "\n")
}

// Pages renders a page listing sorted by name.
func Pages(pages []entity.Page) string {
	if len(pages) == 0 {
		return "No pages found."
	}
	sorted := make([]entity.Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	lines := make([]string, len(sorted))
	for i, p := range sorted {
		lines[i] = fmt.Sprintf("- %s (UUID: %s)", p.Name, p.UUID)
	}
	return strings.Join(lines, "\n")
}

// Graph renders graph info.
func Graph(g entity.Graph) string {
	lines := []string{
		fmt.Sprintf("Graph: %s", g.Name),
		fmt.Sprintf("Path: %s", g.Path),
	}
	if g.URL != "" {
		lines = append(lines, fmt.Sprintf("URL: %s", g.URL))
	}
	if g.Version != "" {
		lines = append(lines, fmt.Sprintf("Version: %s", g.Version))
	}
	return strings.Join(lines, "\n")
}

// QueryResults renders raw query rows, pulling out block content when a
// row looks like a block.
func QueryResults(rows []any) string {
	if len(rows) == 0 {
		return "No results found."
	}
	lines := []string{fmt.Sprintf("Found %d results:", len(rows))}
	for i, row := range rows {
		if m, ok := row.(map[string]any); ok {
			if content, ok := m["content"].(string); ok {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, content))
				continue
			}
		}
		lines = append(lines, fmt.Sprintf("%d. %v", i+1, row))
	}
	return strings.Join(lines, "\n")
}

// BatchOutcome renders a per-item batch insertion report.
func BatchOutcome(o service.BatchOutcome) string {
	lines := []string{fmt.Sprintf("Inserted %d of %d blocks:", o.Inserted(), len(o.Items))}
	for i, item := range o.Items {
		switch item.Status {
		case service.BatchInserted:
			lines = append(lines, fmt.Sprintf("%d. inserted %s", i+1, item.Block.UUID))
		case service.BatchFailed:
			lines = append(lines, fmt.Sprintf("%d. failed: %s", i+1, item.Err.Error()))
		case service.BatchSkipped:
			lines = append(lines, fmt.Sprintf("%d. not attempted", i+1))
		}
	}
	return strings.Join(lines, "\n")
}

// GitStatus renders a git status result.
func GitStatus(status service.GitStatus) string {
	if status.Hint != "" {
		return "Git Status: unavailable — " + status.Hint
	}
	if status.Output != "" {
		return "Git Status:\n" + status.Output
	}
	return "Git Status:\n" + JSON(status.Details)
}

// JSON renders any value as indented JSON; used for user configs and
// raw query output.
func JSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
