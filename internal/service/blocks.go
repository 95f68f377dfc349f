package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// BlockService implements block-level operations.
type BlockService struct {
	client *logseq.Client
	log    zerolog.Logger
}

// NewBlockService creates a BlockService.
func NewBlockService(client *logseq.Client, log zerolog.Logger) *BlockService {
	return &BlockService{client: client, log: log.With().Str("service", "blocks").Logger()}
}

// Insert creates a new block and returns the materialized entity.
func (s *BlockService) Insert(ctx context.Context, in InsertBlockInput) (entity.Block, error) {
	if err := in.validate(); err != nil {
		return entity.Block{}, err
	}

	opts := map[string]any{
		"isPageBlock": in.IsPageBlock,
		"before":      in.Before,
	}
	if in.CustomUUID != "" {
		opts["customUUID"] = cleanRef(in.CustomUUID)
	}
	if in.Properties != nil {
		opts["properties"] = in.Properties
	}

	// Parent must serialize as null (not "") when absent.
	var parent any
	if in.Parent != "" {
		parent = cleanRef(in.Parent)
	}

	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.insertBlock",
		Args:   []any{parent, in.Content, opts},
	})
	if err != nil {
		return entity.Block{}, err
	}
	return entity.MaterializeBlock(res.Value(), entity.DefaultDepthBudget)
}

// Update rewrites a block's content. Some Logseq builds return the
// updated block, others return nothing; the entity is nil in the latter
// case and the update still succeeded.
func (s *BlockService) Update(ctx context.Context, in UpdateBlockInput) (*entity.Block, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	opts := map[string]any{}
	if in.Properties != nil {
		opts["properties"] = in.Properties
	}

	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.updateBlock",
		Args:   []any{cleanRef(in.UUID), in.Content, opts},
	})
	if err != nil {
		return nil, err
	}
	if _, ok := res.Map(); !ok {
		return nil, nil
	}
	b, err := entity.MaterializeBlock(res.Value(), entity.DefaultDepthBudget)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a block.
func (s *BlockService) Delete(ctx context.Context, uuid string) error {
	if uuid == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "block uuid must not be empty")
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.removeBlock",
		Args:   []any{cleanRef(uuid)},
	})
	return err
}

// Get fetches one block by UUID.
func (s *BlockService) Get(ctx context.Context, uuid string) (entity.Block, error) {
	if uuid == "" {
		return entity.Block{}, logseq.Errorf(logseq.KindInvalidArgument, "block uuid must not be empty")
	}
	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.getBlock",
		Args:   []any{cleanRef(uuid)},
	})
	if err != nil {
		return entity.Block{}, err
	}
	return entity.MaterializeBlock(res.Value(), entity.DefaultDepthBudget)
}

// Move relocates a block next to (or under) the target block.
func (s *BlockService) Move(ctx context.Context, in MoveBlockInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.moveBlock",
		Args:   []any{cleanRef(in.UUID), cleanRef(in.TargetUUID), map[string]any{"children": in.AsChild}},
	})
	return err
}

// BatchItemStatus describes the fate of one item in a batch insertion.
type BatchItemStatus string

const (
	BatchInserted BatchItemStatus = "inserted"
	BatchFailed   BatchItemStatus = "failed"
	BatchSkipped  BatchItemStatus = "skipped"
)

// BatchItemResult is the per-item outcome of a batch insertion.
type BatchItemResult struct {
	Status BatchItemStatus
	Block  *entity.Block // set when Status is BatchInserted
	Err    *logseq.Error // set when Status is BatchFailed
}

// BatchOutcome reports a batch insertion item by item. Batch insertion
// is not transactional: a failure partway leaves earlier items applied,
// the failing item classified, and later items skipped.
type BatchOutcome struct {
	Items []BatchItemResult
}

// Failed reports whether any item failed.
func (o BatchOutcome) Failed() bool {
	for _, item := range o.Items {
		if item.Status == BatchFailed {
			return true
		}
	}
	return false
}

// Inserted counts successfully inserted items.
func (o BatchOutcome) Inserted() int {
	n := 0
	for _, item := range o.Items {
		if item.Status == BatchInserted {
			n++
		}
	}
	return n
}

// InsertBatch inserts blocks under the parent one call at a time,
// stopping at the first failure. Sequential calls — never parallel —
// keep a flaky service from double-applying writes, and the outcome
// surfaces exactly which items were applied.
func (s *BlockService) InsertBatch(ctx context.Context, parent string, items []BatchBlock) (BatchOutcome, error) {
	if parent == "" {
		return BatchOutcome{}, logseq.Errorf(logseq.KindInvalidArgument, "batch parent must not be empty")
	}
	if len(items) == 0 {
		return BatchOutcome{}, logseq.Errorf(logseq.KindInvalidArgument, "batch must contain at least one block")
	}

	outcome := BatchOutcome{Items: make([]BatchItemResult, len(items))}
	for i, item := range items {
		if outcome.Failed() {
			outcome.Items[i] = BatchItemResult{Status: BatchSkipped}
			continue
		}

		block, err := s.Insert(ctx, InsertBlockInput{
			Parent:     parent,
			Content:    item.Content,
			Properties: item.Properties,
		})
		if err != nil {
			ce, ok := logseq.AsError(err)
			if !ok {
				ce = logseq.Errorf(logseq.KindRemoteFault, "%v", err)
			}
			s.log.Warn().Int("item", i).Str("kind", string(ce.Kind)).Msg("batch insert stopped")
			outcome.Items[i] = BatchItemResult{Status: BatchFailed, Err: ce}
			continue
		}
		outcome.Items[i] = BatchItemResult{Status: BatchInserted, Block: &block}
	}
	return outcome, nil
}

// PageBlocks fetches the full block tree of a named page.
func (s *BlockService) PageBlocks(ctx context.Context, pageName string) ([]entity.Block, error) {
	if pageName == "" {
		return nil, logseq.Errorf(logseq.KindInvalidArgument, "page name must not be empty")
	}
	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.getPageBlocksTree",
		Args:   []any{pageName},
	})
	if err != nil {
		return nil, err
	}
	return entity.MaterializeBlocks(res.Value(), entity.DefaultDepthBudget)
}

// CurrentPageBlocks fetches the block tree of the page open in the UI.
func (s *BlockService) CurrentPageBlocks(ctx context.Context) ([]entity.Block, error) {
	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.Editor.getCurrentPageBlocksTree"})
	if err != nil {
		return nil, err
	}
	return entity.MaterializeBlocks(res.Value(), entity.DefaultDepthBudget)
}

// CurrentBlock returns the block focused in the UI, or nil when no block
// is focused.
func (s *BlockService) CurrentBlock(ctx context.Context) (*entity.Block, error) {
	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.Editor.getCurrentBlock"})
	if err != nil {
		return nil, err
	}
	if res.IsNull() {
		return nil, nil
	}
	b, err := entity.MaterializeBlock(res.Value(), entity.DefaultDepthBudget)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// EditBlock puts a block into edit mode at the given cursor position.
func (s *BlockService) EditBlock(ctx context.Context, uuid string, pos int) error {
	if uuid == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "block uuid must not be empty")
	}
	if pos < 0 {
		return logseq.Errorf(logseq.KindInvalidArgument, "cursor position must not be negative")
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.editBlock",
		Args:   []any{cleanRef(uuid), map[string]any{"pos": pos}},
	})
	return err
}

// ExitEditing leaves edit mode, optionally keeping the block selected.
func (s *BlockService) ExitEditing(ctx context.Context, selectBlock bool) error {
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Editor.exitEditingMode",
		Args:   []any{selectBlock},
	})
	return err
}

// EditingContent returns the content of the block being edited, or an
// empty string when nothing is in edit mode.
func (s *BlockService) EditingContent(ctx context.Context) (string, error) {
	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.Editor.getEditingBlockContent"})
	if err != nil {
		return "", err
	}
	if res.IsNull() {
		return "", nil
	}
	v, ok := res.Scalar()
	if !ok {
		return "", logseq.Errorf(logseq.KindMalformedResponse, "expected editing content as a scalar, got %T", res.Value())
	}
	text, ok := v.(string)
	if !ok {
		return "", logseq.Errorf(logseq.KindMalformedResponse, "expected editing content as a string, got %T", v)
	}
	return text, nil
}
