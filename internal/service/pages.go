package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// PageService implements page-level operations.
type PageService struct {
	client *logseq.Client
	log    zerolog.Logger
}

// NewPageService creates a PageService.
func NewPageService(client *logseq.Client, log zerolog.Logger) *PageService {
	return &PageService{client: client, log: log.With().Str("service", "pages").Logger()}
}

// Create makes a new page (journal or regular) and returns it.
func (s *PageService) Create(ctx context.Context, in CreatePageInput) (entity.Page, error) {
	if err := in.validate(); err != nil {
		return entity.Page{}, err
	}

	format := in.Format
	if format == "" {
		format = entity.FormatMarkdown
	}
	props := in.Properties
	if props == nil {
		props = map[string]any{}
	}

	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.createPage",
		Args: []any{in.Name, props, map[string]any{
			"journal":          in.Journal,
			"format":           string(format),
			"createFirstBlock": in.CreateFirstBlock,
		}},
	})
	if err != nil {
		return entity.Page{}, err
	}
	return entity.MaterializePage(res.Value(), false)
}

// Get fetches a page by name or UUID, optionally with its block tree.
func (s *PageService) Get(ctx context.Context, identifier string, includeChildren bool) (entity.Page, error) {
	if identifier == "" {
		return entity.Page{}, logseq.Errorf(logseq.KindInvalidArgument, "page name must not be empty")
	}
	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.getPage",
		Args:   []any{identifier, map[string]any{"includeChildren": includeChildren}},
	})
	if err != nil {
		return entity.Page{}, err
	}
	return entity.MaterializePage(res.Value(), includeChildren)
}

// All lists every page in the graph. The repo argument selects a graph;
// empty means the current one.
func (s *PageService) All(ctx context.Context, repo string) ([]entity.Page, error) {
	args := []any{}
	if repo != "" {
		args = append(args, repo)
	}
	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.getAllPages",
		Args:   args,
	})
	if err != nil {
		return nil, err
	}
	return entity.MaterializePages(res.Value())
}

// Current returns the page open in the UI, or nil when none is.
func (s *PageService) Current(ctx context.Context) (*entity.Page, error) {
	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.Editor.getCurrentPage"})
	if err != nil {
		return nil, err
	}
	if res.IsNull() {
		return nil, nil
	}
	p, err := entity.MaterializePage(res.Value(), false)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a page by name.
func (s *PageService) Delete(ctx context.Context, name string) error {
	if name == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "page name must not be empty")
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.deletePage",
		Args:   []any{name},
	})
	return err
}

// Rename renames a page.
func (s *PageService) Rename(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "both the current and the new page name are required")
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.renamePage",
		Args:   []any{oldName, newName},
	})
	return err
}
