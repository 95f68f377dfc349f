// Package service implements the domain operations exposed by both the
// MCP tools and the CLI. Services compose the capability gate, the
// Logseq client, and the entity materializer; they hold no state of
// their own and are safe for concurrent use.
package service

import (
	"strings"

	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// InsertBlockInput describes a block insertion.
type InsertBlockInput struct {
	// Parent is a block UUID or page name; empty inserts relative to the
	// current location.
	Parent      string
	Content     string
	IsPageBlock bool
	Before      bool
	CustomUUID  string
	Properties  map[string]any
}

func (in InsertBlockInput) validate() error {
	if in.Content == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "block content must not be empty")
	}
	return nil
}

// UpdateBlockInput describes a block content update.
type UpdateBlockInput struct {
	UUID       string
	Content    string
	Properties map[string]any
}

func (in UpdateBlockInput) validate() error {
	if in.UUID == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "block uuid must not be empty")
	}
	if in.Content == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "block content must not be empty")
	}
	return nil
}

// MoveBlockInput describes a block move.
type MoveBlockInput struct {
	UUID       string
	TargetUUID string
	AsChild    bool
}

func (in MoveBlockInput) validate() error {
	if in.UUID == "" || in.TargetUUID == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "both block uuid and target uuid are required")
	}
	return nil
}

// BatchBlock is one item of a batch insertion.
type BatchBlock struct {
	Content    string
	Properties map[string]any
}

// CreatePageInput describes a page creation.
type CreatePageInput struct {
	Name             string
	Properties       map[string]any
	Journal          bool
	Format           entity.Format
	CreateFirstBlock bool
}

func (in CreatePageInput) validate() error {
	if in.Name == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "page name must not be empty")
	}
	if in.Format != "" && in.Format != entity.FormatMarkdown && in.Format != entity.FormatOrg {
		return logseq.Errorf(logseq.KindInvalidArgument, "page format must be markdown or org, got %q", in.Format)
	}
	return nil
}

// cleanRef strips the ((uuid)) block-reference syntax users paste from
// Logseq, leaving the bare uuid.
func cleanRef(s string) string {
	if strings.HasPrefix(s, "((") && strings.HasSuffix(s, "))") {
		return s[2 : len(s)-2]
	}
	return s
}
