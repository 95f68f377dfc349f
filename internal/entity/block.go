// Package entity materializes typed domain entities from the loosely
// typed JSON payloads the Logseq API returns.
//
// Entity trees are rebuilt from scratch on every fetch: there is no
// cache or identity map, so two fetches of the same block id produce two
// independent graphs. The payloads come from an external process and are
// treated as untrusted — recursion is bounded by an explicit depth
// budget and an ancestor-id cycle guard instead of assuming well-formed
// trees.
package entity

import (
	"fmt"

	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// DefaultDepthBudget bounds block-tree recursion. Real outlines nest far
// shallower; the budget exists to reject self-referential or otherwise
// pathological payloads, not to limit legitimate data.
const DefaultDepthBudget = 64

// Block is one atomic unit of content. Children are owned exclusively by
// their parent; Parent and Page are weak references (identifiers only).
type Block struct {
	UUID       string
	Content    string
	Properties map[string]any
	Children   []Block

	Parent string
	Page   string

	// Task metadata, present only on task blocks.
	Marker   string
	Priority string
}

// MaterializeBlock builds a block tree from a single-entity payload.
// A null payload means the target block does not exist.
func MaterializeBlock(v any, budget int) (Block, error) {
	if v == nil {
		return Block{}, logseq.Errorf(logseq.KindNotFound, "block not found")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Block{}, logseq.Errorf(logseq.KindMalformedResponse, "expected a block object, got %T", v)
	}
	return materializeBlock(m, budget, map[string]bool{})
}

// MaterializeBlocks builds an ordered sequence of block trees from a
// batch-style payload. Absent and null both normalize to an empty slice;
// any other non-sequence shape is malformed.
func MaterializeBlocks(v any, budget int) ([]Block, error) {
	if v == nil {
		return []Block{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, logseq.Errorf(logseq.KindMalformedResponse, "expected a block list, got %T", v)
	}

	blocks := make([]Block, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, logseq.Errorf(logseq.KindMalformedResponse, "block list element %d is %T, not an object", i, item)
		}
		b, err := materializeBlock(m, budget, map[string]bool{})
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func materializeBlock(m map[string]any, budget int, ancestors map[string]bool) (Block, error) {
	if budget <= 0 {
		return Block{}, logseq.Errorf(logseq.KindMalformedResponse, "block tree exceeds depth budget")
	}

	b := Block{
		UUID:       stringField(m, "uuid"),
		Content:    stringField(m, "content"),
		Properties: mapField(m, "properties"),
		Parent:     refField(m, "parent"),
		Page:       refField(m, "page"),
		Marker:     stringField(m, "marker"),
		Priority:   stringField(m, "priority"),
		Children:   []Block{},
	}

	if b.UUID != "" {
		if ancestors[b.UUID] {
			return Block{}, logseq.Errorf(logseq.KindMalformedResponse, "block %s appears as its own ancestor", b.UUID)
		}
		ancestors[b.UUID] = true
		defer delete(ancestors, b.UUID)
	}

	// "No children" arrives as an absent field, null, or an empty list;
	// all three normalize to an empty slice.
	switch raw := m["children"].(type) {
	case nil:
	case []any:
		for _, child := range raw {
			cm, ok := child.(map[string]any)
			if !ok {
				// The API interleaves non-block markers (e.g. ["uuid", id]
				// tuples) in some tree payloads; skip them.
				continue
			}
			cb, err := materializeBlock(cm, budget-1, ancestors)
			if err != nil {
				return Block{}, err
			}
			b.Children = append(b.Children, cb)
		}
	default:
		return Block{}, logseq.Errorf(logseq.KindMalformedResponse, "children of block %s is %T, not a list", b.UUID, raw)
	}

	return b, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

// refField normalizes a weak entity reference. The API represents these
// either as an object carrying a uuid/id or as a bare numeric db id.
func refField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case map[string]any:
		if u := stringField(v, "uuid"); u != "" {
			return u
		}
		if id, ok := v["id"].(float64); ok {
			return fmt.Sprintf("%.0f", id)
		}
		return stringField(v, "name")
	case float64:
		return fmt.Sprintf("%.0f", v)
	case string:
		return v
	default:
		return ""
	}
}
