package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/liuchzzyy/logseq-mcp/internal/capability"
	"github.com/liuchzzyy/logseq-mcp/internal/config"
	"github.com/liuchzzyy/logseq-mcp/internal/logseq"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// apiCall is one request the fake Logseq API received.
type apiCall struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// fakeAPI is an httptest-backed Logseq API that dispatches on method
// name and records every call it sees.
type fakeAPI struct {
	srv     *httptest.Server
	calls   int32
	handler func(call apiCall, w http.ResponseWriter)
}

func newFakeAPI(t *testing.T, handler func(call apiCall, w http.ResponseWriter)) *fakeAPI {
	t.Helper()
	api := &fakeAPI{handler: handler}
	api.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&api.calls, 1)
		var call apiCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		api.handler(call, w)
	}))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeAPI) callCount() int {
	return int(atomic.LoadInt32(&a.calls))
}

func (a *fakeAPI) client(t *testing.T, maxRetries int) *logseq.Client {
	t.Helper()
	return logseq.New(logseq.Config{
		BaseURL:        a.srv.URL,
		Token:          "t",
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encoding response: %v", err)
	}
}

func allEnabled() *capability.Gate {
	return capability.New(map[string]bool{
		config.FlagAdvancedQueries: true,
		config.FlagGitOperations:   true,
	})
}

func allDisabled() *capability.Gate {
	return capability.New(map[string]bool{})
}

// ─── BlockService ────────────────────────────────────────────────────────────

func TestBlockService_Insert_WireFormat(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		if call.Method != "logseq.Editor.insertBlock" {
			t.Errorf("method = %q", call.Method)
		}
		if len(call.Args) != 3 {
			t.Fatalf("args = %v", call.Args)
		}
		if call.Args[0] != "Daily Notes" {
			t.Errorf("parent arg = %v", call.Args[0])
		}
		if call.Args[1] != "- task one" {
			t.Errorf("content arg = %v", call.Args[1])
		}
		opts, ok := call.Args[2].(map[string]any)
		if !ok || opts["isPageBlock"] != true {
			t.Errorf("opts = %v", call.Args[2])
		}
		writeJSON(t, w, map[string]any{"uuid": "new-1", "content": "- task one"})
	})

	svc := NewBlockService(api.client(t, 0), zerolog.Nop())
	block, err := svc.Insert(context.Background(), InsertBlockInput{
		Parent:      "Daily Notes",
		Content:     "- task one",
		IsPageBlock: true,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if block.UUID != "new-1" {
		t.Errorf("block = %+v", block)
	}
}

func TestBlockService_Insert_NilParentWhenEmpty(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		if call.Args[0] != nil {
			t.Errorf("empty parent must serialize as null, got %v", call.Args[0])
		}
		writeJSON(t, w, map[string]any{"uuid": "b", "content": "x"})
	})

	svc := NewBlockService(api.client(t, 0), zerolog.Nop())
	if _, err := svc.Insert(context.Background(), InsertBlockInput{Content: "x"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestBlockService_Insert_EmptyContent(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {})
	svc := NewBlockService(api.client(t, 0), zerolog.Nop())

	_, err := svc.Insert(context.Background(), InsertBlockInput{Parent: "p"})
	if !logseq.IsKind(err, logseq.KindInvalidArgument) {
		t.Errorf("err = %v, want invalid_argument", err)
	}
	if api.callCount() != 0 {
		t.Errorf("validation failures must not reach the network, saw %d calls", api.callCount())
	}
}

func TestBlockService_Get_StripsRefWrapper(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		if call.Args[0] != "abc-123" {
			t.Errorf("uuid arg = %v, ((ref)) wrapper should be stripped", call.Args[0])
		}
		writeJSON(t, w, map[string]any{"uuid": "abc-123", "content": "hi"})
	})

	svc := NewBlockService(api.client(t, 0), zerolog.Nop())
	if _, err := svc.Get(context.Background(), "((abc-123))"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestBlockService_InsertBatch_PartialFailure(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		content, _ := call.Args[1].(string)
		if content == "two" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, map[string]any{"uuid": "uuid-" + content, "content": content})
	})

	svc := NewBlockService(api.client(t, 1), zerolog.Nop())
	outcome, err := svc.InsertBatch(context.Background(), "Daily Notes", []BatchBlock{
		{Content: "one"},
		{Content: "two"},
		{Content: "three"},
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if len(outcome.Items) != 3 {
		t.Fatalf("items = %d", len(outcome.Items))
	}
	if outcome.Items[0].Status != BatchInserted || outcome.Items[0].Block.UUID != "uuid-one" {
		t.Errorf("item 0 = %+v", outcome.Items[0])
	}
	if outcome.Items[1].Status != BatchFailed {
		t.Errorf("item 1 = %+v", outcome.Items[1])
	}
	// 500s exhaust the retry budget and surface as unavailable.
	if outcome.Items[1].Err.Kind != logseq.KindUnavailable {
		t.Errorf("item 1 kind = %s", outcome.Items[1].Err.Kind)
	}
	if outcome.Items[2].Status != BatchSkipped {
		t.Errorf("item 2 = %+v, later items must not be attempted", outcome.Items[2])
	}

	if !outcome.Failed() {
		t.Error("outcome should report failure")
	}
	if outcome.Inserted() != 1 {
		t.Errorf("Inserted() = %d", outcome.Inserted())
	}
	// item one: 1 call; item two: 1 + 1 retry; item three: none.
	if api.callCount() != 3 {
		t.Errorf("server saw %d calls, want 3", api.callCount())
	}
}

func TestBlockService_Update_EmptyResultMeansSuccess(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, nil)
	})

	svc := NewBlockService(api.client(t, 0), zerolog.Nop())
	block, err := svc.Update(context.Background(), UpdateBlockInput{UUID: "b1", Content: "new"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if block != nil {
		t.Errorf("block = %+v, want nil for empty result", block)
	}
}

func TestBlockService_CurrentBlock_NullMeansNone(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, nil)
	})

	svc := NewBlockService(api.client(t, 0), zerolog.Nop())
	block, err := svc.CurrentBlock(context.Background())
	if err != nil {
		t.Fatalf("CurrentBlock: %v", err)
	}
	if block != nil {
		t.Errorf("block = %+v", block)
	}
}

func TestBlockService_EditingContent(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, "half-typed sentence")
	})

	svc := NewBlockService(api.client(t, 0), zerolog.Nop())
	content, err := svc.EditingContent(context.Background())
	if err != nil {
		t.Fatalf("EditingContent: %v", err)
	}
	if content != "half-typed sentence" {
		t.Errorf("content = %q", content)
	}
}

// ─── PageService ─────────────────────────────────────────────────────────────

func TestPageService_Get_NullIsNotFound(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		// Logseq answers missing pages with 200 and a null body.
		writeJSON(t, w, nil)
	})

	svc := NewPageService(api.client(t, 0), zerolog.Nop())
	_, err := svc.Get(context.Background(), "No Such Page", false)
	if !logseq.IsKind(err, logseq.KindNotFound) {
		t.Errorf("err = %v, want not_found", err)
	}
}

func TestPageService_Create_WireFormat(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		if call.Method != "logseq.Editor.createPage" {
			t.Errorf("method = %q", call.Method)
		}
		opts, _ := call.Args[2].(map[string]any)
		if opts["journal"] != true || opts["format"] != "markdown" {
			t.Errorf("opts = %v", opts)
		}
		writeJSON(t, w, map[string]any{"uuid": "j1", "name": "2026-08-25", "journalDay": 20260825})
	})

	svc := NewPageService(api.client(t, 0), zerolog.Nop())
	page, err := svc.Create(context.Background(), CreatePageInput{
		Name:             "2026-08-25",
		Journal:          true,
		CreateFirstBlock: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !page.IsJournal() {
		t.Errorf("page = %+v", page)
	}
}

func TestPageService_Current_NullMeansNone(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, nil)
	})

	svc := NewPageService(api.client(t, 0), zerolog.Nop())
	page, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if page != nil {
		t.Errorf("page = %+v", page)
	}
}

// ─── QueryService ────────────────────────────────────────────────────────────

func TestQueryService_Simple(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		if call.Method != "logseq.DB.q" {
			t.Errorf("method = %q", call.Method)
		}
		writeJSON(t, w, []any{
			map[string]any{"uuid": "b1", "content": "match"},
		})
	})

	svc := NewQueryService(api.client(t, 0), allEnabled(), zerolog.Nop())
	rows, err := svc.Simple(context.Background(), "[[Project]]")
	if err != nil {
		t.Fatalf("Simple: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %v", rows)
	}
}

func TestQueryService_DisabledGateIssuesNoCalls(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, []any{})
	})
	svc := NewQueryService(api.client(t, 0), allDisabled(), zerolog.Nop())

	ops := []struct {
		name string
		run  func() error
	}{
		{"advanced", func() error {
			_, err := svc.Advanced(context.Background(), "[:find ?b :where [?b]]", nil)
			return err
		}},
		{"tasks", func() error {
			_, err := svc.Tasks(context.Background(), "", "")
			return err
		}},
		{"with property", func() error {
			_, err := svc.BlocksWithProperty(context.Background(), "status", "")
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			err := op.run()
			if !logseq.IsKind(err, logseq.KindCapabilityDisabled) {
				t.Errorf("err = %v, want capability_disabled", err)
			}
		})
	}
	if api.callCount() != 0 {
		t.Errorf("gated operations issued %d network calls, want 0", api.callCount())
	}
}

func TestQueryService_SimpleIsNotGated(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, []any{})
	})

	svc := NewQueryService(api.client(t, 0), allDisabled(), zerolog.Nop())
	if _, err := svc.Simple(context.Background(), "#tag"); err != nil {
		t.Fatalf("Simple should not be gated: %v", err)
	}
}

func TestQueryService_Tasks_FilterAndTuples(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		// Pull results arrive as single-element tuples.
		writeJSON(t, w, []any{
			[]any{map[string]any{"uuid": "t1", "content": "TODO a", "marker": "TODO"}},
			[]any{map[string]any{"uuid": "t2", "content": "DONE b", "marker": "DONE"}},
			[]any{map[string]any{"uuid": "t3", "content": "TODO c", "marker": "TODO", "priority": "A"}},
		})
	})

	svc := NewQueryService(api.client(t, 0), allEnabled(), zerolog.Nop())

	todos, err := svc.Tasks(context.Background(), "TODO", "")
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(todos) != 2 {
		t.Errorf("TODO tasks = %d, want 2", len(todos))
	}

	prioritized, err := svc.Tasks(context.Background(), "TODO", "A")
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(prioritized) != 1 || prioritized[0].UUID != "t3" {
		t.Errorf("prioritized = %+v", prioritized)
	}
}

func TestQueryService_NullResultIsEmpty(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, nil)
	})

	svc := NewQueryService(api.client(t, 0), allEnabled(), zerolog.Nop())
	rows, err := svc.Simple(context.Background(), "#nothing")
	if err != nil {
		t.Fatalf("Simple: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %#v, want empty slice", rows)
	}
}

// ─── GraphService ────────────────────────────────────────────────────────────

func TestGraphService_Current(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, map[string]any{"name": "notes", "path": "/graphs/notes"})
	})

	svc := NewGraphService(api.client(t, 0), allEnabled(), zerolog.Nop())
	g, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if g.Name != "notes" {
		t.Errorf("graph = %+v", g)
	}
}

func TestGraphService_GitOpsGated(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, nil)
	})
	svc := NewGraphService(api.client(t, 0), allDisabled(), zerolog.Nop())

	if err := svc.GitCommit(context.Background(), "msg"); !logseq.IsKind(err, logseq.KindCapabilityDisabled) {
		t.Errorf("GitCommit err = %v", err)
	}
	if _, err := svc.GitStatusReport(context.Background()); !logseq.IsKind(err, logseq.KindCapabilityDisabled) {
		t.Errorf("GitStatusReport err = %v", err)
	}
	if _, err := svc.GitSupportCheck(context.Background()); !logseq.IsKind(err, logseq.KindCapabilityDisabled) {
		t.Errorf("GitSupportCheck err = %v", err)
	}
	if api.callCount() != 0 {
		t.Errorf("gated git operations issued %d calls", api.callCount())
	}
}

func TestGraphService_GitStatus_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		body  any
		check func(t *testing.T, status GitStatus)
	}{
		{
			name: "plain text",
			body: "M pages/notes.md",
			check: func(t *testing.T, status GitStatus) {
				if status.Output != "M pages/notes.md" {
					t.Errorf("output = %q", status.Output)
				}
			},
		},
		{
			name: "structured",
			body: map[string]any{"changed": []any{"pages/notes.md"}},
			check: func(t *testing.T, status GitStatus) {
				if status.Details == nil || status.Hint != "" {
					t.Errorf("status = %+v", status)
				}
			},
		},
		{
			name: "method not exist",
			body: map[string]any{"error": "MethodNotExist: logseq.Git.status"},
			check: func(t *testing.T, status GitStatus) {
				if status.Hint == "" {
					t.Error("expected a hint for MethodNotExist")
				}
			},
		},
		{
			name: "null is clean",
			body: nil,
			check: func(t *testing.T, status GitStatus) {
				if status.Output != "clean" {
					t.Errorf("output = %q", status.Output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
				writeJSON(t, w, tt.body)
			})
			svc := NewGraphService(api.client(t, 0), allEnabled(), zerolog.Nop())
			status, err := svc.GitStatusReport(context.Background())
			if err != nil {
				t.Fatalf("GitStatusReport: %v", err)
			}
			tt.check(t, status)
		})
	}
}

func TestGraphService_GitSupportCheck(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall, w http.ResponseWriter) {
		writeJSON(t, w, map[string]any{"error": "MethodNotExist: logseq.Git.status"})
	})

	svc := NewGraphService(api.client(t, 0), allEnabled(), zerolog.Nop())
	support, err := svc.GitSupportCheck(context.Background())
	if err != nil {
		t.Fatalf("GitSupportCheck: %v", err)
	}
	if support.Supported {
		t.Error("MethodNotExist should mean unsupported")
	}
}

// ─── Input validation ────────────────────────────────────────────────────────

func TestCleanRef(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"((abc-123))", "abc-123"},
		{"abc-123", "abc-123"},
		{"((abc", "((abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanRef(tt.in); got != tt.want {
			t.Errorf("cleanRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
