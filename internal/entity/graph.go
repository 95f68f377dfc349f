package entity

import "github.com/liuchzzyy/logseq-mcp/internal/logseq"

// Graph describes the currently open Logseq graph.
type Graph struct {
	Name    string
	Path    string
	URL     string
	Version string
}

// MaterializeGraph builds a Graph from a mapping payload.
func MaterializeGraph(v any) (Graph, error) {
	if v == nil {
		return Graph{}, logseq.Errorf(logseq.KindNotFound, "no graph is currently open")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Graph{}, logseq.Errorf(logseq.KindMalformedResponse, "expected a graph object, got %T", v)
	}
	return Graph{
		Name:    stringField(m, "name"),
		Path:    stringField(m, "path"),
		URL:     stringField(m, "url"),
		Version: stringField(m, "version"),
	}, nil
}
