package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/capability"
	"github.com/liuchzzyy/logseq-mcp/internal/config"
	"github.com/liuchzzyy/logseq-mcp/internal/entity"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// GraphService implements graph-level and Git operations. Git operations
// are gated behind the git_operations capability.
type GraphService struct {
	client *logseq.Client
	gate   *capability.Gate
	log    zerolog.Logger
}

// NewGraphService creates a GraphService.
func NewGraphService(client *logseq.Client, gate *capability.Gate, log zerolog.Logger) *GraphService {
	return &GraphService{client: client, gate: gate, log: log.With().Str("service", "graph").Logger()}
}

// Current returns info about the currently open graph.
func (s *GraphService) Current(ctx context.Context) (entity.Graph, error) {
	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.App.getCurrentGraph"})
	if err != nil {
		return entity.Graph{}, err
	}
	return entity.MaterializeGraph(res.Value())
}

// HealthCheck reports whether the API answers at all. Used by serve
// startup and the CLI to give an early, classified connectivity error.
func (s *GraphService) HealthCheck(ctx context.Context) error {
	_, err := s.Current(ctx)
	return err
}

// UserConfigs returns the user's Logseq preferences.
func (s *GraphService) UserConfigs(ctx context.Context) (map[string]any, error) {
	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.App.getUserConfigs"})
	if err != nil {
		return nil, err
	}
	m, ok := res.Map()
	if !ok {
		return nil, logseq.Errorf(logseq.KindMalformedResponse, "expected user configs as an object, got %T", res.Value())
	}
	return m, nil
}

// ShowMsg flashes a message in the Logseq UI. Status is one of success,
// warning, or error.
func (s *GraphService) ShowMsg(ctx context.Context, content, status string) error {
	if content == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "message content must not be empty")
	}
	if status == "" {
		status = "success"
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.UI.showMsg",
		Args:   []any{content, status},
	})
	return err
}

// GitCommit commits the graph directory with the given message.
func (s *GraphService) GitCommit(ctx context.Context, message string) error {
	if err := s.gate.Require(config.FlagGitOperations); err != nil {
		return err
	}
	if message == "" {
		return logseq.Errorf(logseq.KindInvalidArgument, "commit message must not be empty")
	}
	_, err := s.client.Invoke(ctx, logseq.Call{
		Method: "logseq.Git.commit",
		Args:   []any{message},
	})
	return err
}

// GitStatus is the outcome of a git status call. Some Logseq builds
// return plain text, others a structured mapping, and builds without Git
// support answer 200 with an error-shaped body — Hint is set for those.
type GitStatus struct {
	Output  string
	Details map[string]any
	Hint    string
}

// GitStatusReport fetches the graph's git status.
func (s *GraphService) GitStatusReport(ctx context.Context) (GitStatus, error) {
	if err := s.gate.Require(config.FlagGitOperations); err != nil {
		return GitStatus{}, err
	}

	res, err := s.client.Invoke(ctx, logseq.Call{Method: "logseq.Git.status"})
	if err != nil {
		return GitStatus{}, err
	}

	if m, ok := res.Map(); ok {
		status := GitStatus{Details: m}
		if apiErr, ok := m["error"].(string); ok && strings.Contains(apiErr, "MethodNotExist") {
			status.Hint = "Git status is not supported by this Logseq build."
		}
		return status, nil
	}
	if v, ok := res.Scalar(); ok {
		if text, ok := v.(string); ok {
			return GitStatus{Output: text}, nil
		}
	}
	if res.IsNull() {
		return GitStatus{Output: "clean"}, nil
	}
	return GitStatus{}, logseq.Errorf(logseq.KindMalformedResponse, "expected git status as text or object, got %T", res.Value())
}

// GitSupport describes whether the wrapped Logseq build exposes Git
// operations at all.
type GitSupport struct {
	Supported bool
	Reason    string
}

// GitSupportCheck probes the API for Git support. The probe itself is
// gated: with git_operations off, no call is issued.
func (s *GraphService) GitSupportCheck(ctx context.Context) (GitSupport, error) {
	status, err := s.GitStatusReport(ctx)
	if err != nil {
		if ce, ok := logseq.AsError(err); ok && ce.Kind == logseq.KindCapabilityDisabled {
			return GitSupport{}, err
		}
		return GitSupport{Supported: false, Reason: err.Error()}, nil
	}
	if status.Hint != "" {
		return GitSupport{Supported: false, Reason: "MethodNotExist"}, nil
	}
	if apiErr, ok := status.Details["error"].(string); ok {
		return GitSupport{Supported: false, Reason: apiErr}, nil
	}
	return GitSupport{Supported: true}, nil
}
