package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/capability"
	"github.com/liuchzzyy/logseq-mcp/internal/config"
	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// taskQuery pulls every block carrying a task marker; filtering happens
// client-side because the marker set is small.
const taskQuery = `[:find (pull ?b [*]) :where [?b :block/marker ?m]]`

// QueryService implements the query operations. Datascript-backed
// operations are gated behind the advanced_queries capability and issue
// no network calls when it is disabled.
type QueryService struct {
	client *logseq.Client
	gate   *capability.Gate
	log    zerolog.Logger
}

// NewQueryService creates a QueryService.
func NewQueryService(client *logseq.Client, gate *capability.Gate, log zerolog.Logger) *QueryService {
	return &QueryService{client: client, gate: gate, log: log.With().Str("service", "queries").Logger()}
}

// Simple runs a Logseq DSL query like "[[Project]]" or "#important".
func (s *QueryService) Simple(ctx context.Context, query string) ([]any, error) {
	if query == "" {
		return nil, logseq.Errorf(logseq.KindInvalidArgument, "query must not be empty")
	}
	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.DB.q",
		Args:   []any{query},
	})
	if err != nil {
		return nil, err
	}
	return queryRows(res)
}

// Advanced runs a raw Datascript query with optional inputs.
func (s *QueryService) Advanced(ctx context.Context, query string, inputs []any) ([]any, error) {
	if err := s.gate.Require(config.FlagAdvancedQueries); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, logseq.Errorf(logseq.KindInvalidArgument, "query must not be empty")
	}
	args := append([]any{query}, inputs...)
	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.DB.datascriptQuery",
		Args:   args,
	})
	if err != nil {
		return nil, err
	}
	return queryRows(res)
}

// Tasks returns every task block, optionally filtered by marker (TODO,
// DOING, ...) and priority (A, B, C). Built on Datascript, so it shares
// the advanced_queries gate.
func (s *QueryService) Tasks(ctx context.Context, marker, priority string) ([]entity.Block, error) {
	if err := s.gate.Require(config.FlagAdvancedQueries); err != nil {
		return nil, err
	}

	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.DB.datascriptQuery",
		Args:   []any{taskQuery},
	})
	if err != nil {
		return nil, err
	}
	rows, err := queryRows(res)
	if err != nil {
		return nil, err
	}

	tasks := make([]entity.Block, 0, len(rows))
	for _, row := range rows {
		// Pull results arrive as single-element tuples.
		value := row
		if tuple, ok := row.([]any); ok && len(tuple) > 0 {
			value = tuple[0]
		}
		m, ok := value.(map[string]any)
		if !ok {
			continue
		}
		b, err := entity.MaterializeBlock(m, entity.DefaultDepthBudget)
		if err != nil {
			return nil, err
		}
		if marker != "" && b.Marker != marker {
			continue
		}
		if priority != "" && b.Priority != priority {
			continue
		}
		tasks = append(tasks, b)
	}
	return tasks, nil
}

// BlocksWithProperty finds blocks carrying a property, optionally
// matching a value.
func (s *QueryService) BlocksWithProperty(ctx context.Context, property, value string) ([]any, error) {
	if err := s.gate.Require(config.FlagAdvancedQueries); err != nil {
		return nil, err
	}
	if property == "" {
		return nil, logseq.Errorf(logseq.KindInvalidArgument, "property name must not be empty")
	}

	match := ""
	if value != "" {
		match = fmt.Sprintf(" [(= ?v %q)]", value)
	}
	query := fmt.Sprintf(
		`[:find (pull ?b [*]) :where [?b :block/properties ?p] [(get ?p :%s) ?v]%s]`,
		property, match,
	)

	res, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.DB.datascriptQuery",
		Args:   []any{query},
	})
	if err != nil {
		return nil, err
	}
	return queryRows(res)
}

// queryRows requires the sequence variant: query-style calls always
// return a (possibly empty) list of rows.
func queryRows(res logseq.Result) ([]any, error) {
	if res.IsNull() {
		return []any{}, nil
	}
	rows, ok := res.List()
	if !ok {
		return nil, logseq.Errorf(logseq.KindMalformedResponse, "expected query results as a list, got %T", res.Value())
	}
	return rows, nil
}
