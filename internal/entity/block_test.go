package entity

import (
	"fmt"
	"testing"

	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

func mustKind(t *testing.T, err error, kind logseq.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !logseq.IsKind(err, kind) {
		t.Fatalf("error = %v, want kind %s", err, kind)
	}
}

func TestMaterializeBlock_Basic(t *testing.T) {
	b, err := MaterializeBlock(map[string]any{
		"uuid":    "b1",
		"content": "TODO write tests",
		"marker":  "TODO",
		"properties": map[string]any{
			"tags": "testing",
		},
		"parent": map[string]any{"id": 12.0},
		"page":   map[string]any{"uuid": "p1", "name": "Daily Notes"},
	}, DefaultDepthBudget)
	if err != nil {
		t.Fatalf("MaterializeBlock: %v", err)
	}

	if b.UUID != "b1" || b.Content != "TODO write tests" || b.Marker != "TODO" {
		t.Errorf("block = %+v", b)
	}
	if b.Properties["tags"] != "testing" {
		t.Errorf("properties = %v", b.Properties)
	}
	if b.Parent != "12" {
		t.Errorf("parent ref = %q, want numeric id as string", b.Parent)
	}
	if b.Page != "p1" {
		t.Errorf("page ref = %q, uuid should win over name", b.Page)
	}
	if b.Children == nil || len(b.Children) != 0 {
		t.Errorf("absent children must normalize to an empty slice, got %#v", b.Children)
	}
}

func TestMaterializeBlock_Null(t *testing.T) {
	_, err := MaterializeBlock(nil, DefaultDepthBudget)
	mustKind(t, err, logseq.KindNotFound)
}

func TestMaterializeBlock_WrongShape(t *testing.T) {
	_, err := MaterializeBlock("not a block", DefaultDepthBudget)
	mustKind(t, err, logseq.KindMalformedResponse)
}

func TestMaterializeBlock_ChildrenShapes(t *testing.T) {
	tests := []struct {
		name     string
		children any
		wantErr  bool
	}{
		{"absent", nil, false},
		{"empty list", []any{}, false},
		{"non-list", "oops", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := map[string]any{"uuid": "b1", "content": "x"}
			if tt.children != nil {
				m["children"] = tt.children
			}
			b, err := MaterializeBlock(m, DefaultDepthBudget)
			if tt.wantErr {
				mustKind(t, err, logseq.KindMalformedResponse)
				return
			}
			if err != nil {
				t.Fatalf("MaterializeBlock: %v", err)
			}
			if b.Children == nil || len(b.Children) != 0 {
				t.Errorf("children = %#v, want empty slice", b.Children)
			}
		})
	}
}

func TestMaterializeBlock_NestedChildren(t *testing.T) {
	b, err := MaterializeBlock(map[string]any{
		"uuid":    "root",
		"content": "root",
		"children": []any{
			map[string]any{
				"uuid":    "c1",
				"content": "child one",
				"children": []any{
					map[string]any{"uuid": "g1", "content": "grandchild"},
				},
			},
			// tuple markers interleaved in tree payloads are skipped
			[]any{"uuid", "c2"},
			map[string]any{"uuid": "c3", "content": "child three"},
		},
	}, DefaultDepthBudget)
	if err != nil {
		t.Fatalf("MaterializeBlock: %v", err)
	}

	if len(b.Children) != 2 {
		t.Fatalf("children = %d, want 2 (tuple skipped)", len(b.Children))
	}
	if b.Children[0].Children[0].Content != "grandchild" {
		t.Errorf("nested child = %+v", b.Children[0].Children[0])
	}
}

func TestMaterializeBlock_DirectCycle(t *testing.T) {
	_, err := MaterializeBlock(map[string]any{
		"uuid":    "a",
		"content": "self",
		"children": []any{
			map[string]any{"uuid": "a", "content": "self again"},
		},
	}, DefaultDepthBudget)
	mustKind(t, err, logseq.KindMalformedResponse)
}

func TestMaterializeBlock_ChainedCycle(t *testing.T) {
	_, err := MaterializeBlock(map[string]any{
		"uuid": "a",
		"children": []any{
			map[string]any{
				"uuid": "b",
				"children": []any{
					map[string]any{"uuid": "a"},
				},
			},
		},
	}, DefaultDepthBudget)
	mustKind(t, err, logseq.KindMalformedResponse)
}

func TestMaterializeBlock_SiblingsMayRepeatUUID(t *testing.T) {
	// The guard is ancestor-based: a repeated uuid on a different branch
	// is odd but not a cycle.
	_, err := MaterializeBlock(map[string]any{
		"uuid": "root",
		"children": []any{
			map[string]any{"uuid": "dup"},
			map[string]any{"uuid": "dup"},
		},
	}, DefaultDepthBudget)
	if err != nil {
		t.Fatalf("repeated sibling uuid should not trip the cycle guard: %v", err)
	}
}

func TestMaterializeBlock_DepthBudget(t *testing.T) {
	// Build a chain one level deeper than the budget. Each level gets a
	// distinct uuid so the cycle guard stays out of the way and only the
	// budget can reject the tree.
	budget := 5
	leaf := map[string]any{"uuid": "leaf", "content": "deep"}
	node := leaf
	for i := 0; i < budget; i++ {
		node = map[string]any{"uuid": fmt.Sprintf("n%d", i), "children": []any{node}}
	}

	_, err := MaterializeBlock(node, budget)
	mustKind(t, err, logseq.KindMalformedResponse)

	// One level less fits.
	if _, err := MaterializeBlock(node, budget+1); err != nil {
		t.Fatalf("tree within budget rejected: %v", err)
	}
}

func TestMaterializeBlocks(t *testing.T) {
	blocks, err := MaterializeBlocks([]any{
		map[string]any{"uuid": "b1", "content": "one"},
		map[string]any{"uuid": "b2", "content": "two"},
	}, DefaultDepthBudget)
	if err != nil {
		t.Fatalf("MaterializeBlocks: %v", err)
	}
	if len(blocks) != 2 || blocks[1].Content != "two" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestMaterializeBlocks_NullIsEmpty(t *testing.T) {
	blocks, err := MaterializeBlocks(nil, DefaultDepthBudget)
	if err != nil {
		t.Fatalf("MaterializeBlocks: %v", err)
	}
	if blocks == nil || len(blocks) != 0 {
		t.Errorf("blocks = %#v, want empty slice", blocks)
	}
}

func TestMaterializeBlocks_WrongShapes(t *testing.T) {
	if _, err := MaterializeBlocks("nope", DefaultDepthBudget); err == nil {
		t.Error("non-list payload should be malformed")
	}
	if _, err := MaterializeBlocks([]any{"nope"}, DefaultDepthBudget); err == nil {
		t.Error("non-object element should be malformed")
	}
}
