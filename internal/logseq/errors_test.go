package logseq

import (
	"fmt"
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{401, KindUnauthorized},
		{403, KindUnauthorized},
		{404, KindNotFound},
		{400, KindInvalidArgument},
		{422, KindInvalidArgument},
		{429, KindRemoteFault},
		{500, KindRemoteFault},
		{502, KindRemoteFault},
		{503, KindRemoteFault},
	}

	for _, tt := range tests {
		e := classifyStatus(tt.status, "body")
		if e.Kind != tt.kind {
			t.Errorf("classifyStatus(%d) kind = %s, want %s", tt.status, e.Kind, tt.kind)
		}
		if e.Status != tt.status {
			t.Errorf("classifyStatus(%d) status = %d", tt.status, e.Status)
		}
	}
}

func TestClassifyStatus_TruncatesBody(t *testing.T) {
	long := strings.Repeat("x", 2000)
	e := classifyStatus(500, long)
	if len(e.Message) > 600 {
		t.Errorf("body excerpt not truncated, len = %d", len(e.Message))
	}
	if !strings.HasSuffix(e.Message, "...(truncated)") {
		t.Error("truncated excerpt should be marked")
	}
}

func TestError_Error(t *testing.T) {
	withStatus := &Error{Kind: KindNotFound, Status: 404, Message: "no such page"}
	if got := withStatus.Error(); got != "not_found (HTTP 404): no such page" {
		t.Errorf("Error() = %q", got)
	}

	noStatus := &Error{Kind: KindUnavailable, Message: "connection refused"}
	if got := noStatus.Error(); got != "unavailable: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Retryable(t *testing.T) {
	for _, kind := range []Kind{
		KindUnauthorized, KindNotFound, KindInvalidArgument,
		KindUnavailable, KindMalformedResponse, KindCapabilityDisabled,
	} {
		if (&Error{Kind: kind}).Retryable() {
			t.Errorf("%s should not be retryable", kind)
		}
	}
	if !(&Error{Kind: KindRemoteFault}).Retryable() {
		t.Error("remote_fault should be retryable")
	}
}

func TestAsError_Wrapped(t *testing.T) {
	inner := Errorf(KindNotFound, "page %q not found", "TODO")
	wrapped := fmt.Errorf("fetching page: %w", inner)

	ce, ok := AsError(wrapped)
	if !ok {
		t.Fatal("AsError should unwrap classified errors")
	}
	if ce.Kind != KindNotFound {
		t.Errorf("kind = %s", ce.Kind)
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Error("IsKind should match through wrapping")
	}
	if IsKind(wrapped, KindUnavailable) {
		t.Error("IsKind should not match a different kind")
	}
}

func TestAsError_PlainError(t *testing.T) {
	if _, ok := AsError(fmt.Errorf("plain")); ok {
		t.Error("plain errors are not classified")
	}
}
