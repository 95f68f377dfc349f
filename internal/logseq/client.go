// Package logseq implements the HTTP client for the Logseq plugin API.
//
// Every remote operation goes through Client.Invoke: one logical call
// (method name + positional args) is serialized as a POST to the single
// /api endpoint, with per-attempt timeouts, sequential exponential
// backoff, and classification of every failure into the closed Error
// taxonomy. Nothing above this package ever sees a raw transport error.
package logseq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of a response body is read. Logseq block
// trees are small; anything beyond this is pathological.
const maxBodyBytes = 8 << 20

// Call is one logical remote operation: a plugin API method name plus
// its positional arguments. Immutable, constructed per invocation.
type Call struct {
	Method string
	Args   []any
}

// Config carries the immutable transport settings. It is built once from
// the process configuration and shared by all concurrent operations.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration // per attempt, not per logical call
	MaxRetries int

	// Backoff shape. Zero values fall back to the defaults below.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         float64 // 0.0–1.0 fraction of the computed delay
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.Jitter == 0 {
		c.Jitter = 0.1
	}
	return c
}

// Client issues calls against one fixed Logseq HTTP endpoint. It is
// stateless across calls apart from the shared immutable configuration
// and is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// New creates a client. The configuration is fixed for the client's
// lifetime; there are no per-call overrides.
func New(cfg Config, log zerolog.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg: cfg,
		http: &http.Client{
			// No client-level timeout: each attempt gets its own
			// deadline via context so backoff waits are not counted.
			Transport: http.DefaultTransport,
		},
		log: log.With().Str("component", "logseq-client").Logger(),
	}
}

// Invoke executes one logical call, retrying transient failures with
// exponential backoff. Retries are strictly sequential — never parallel
// probes — so a flaky write is applied at most once per attempt chain.
// On success the decoded body is returned unmodified; on failure the
// returned error is always a classified *Error.
func (c *Client) Invoke(ctx context.Context, call Call) (Result, error) {
	if call.Method == "" {
		return Result{}, Errorf(KindInvalidArgument, "method name must not be empty")
	}

	args := call.Args
	if args == nil {
		args = []any{}
	}
	payload, err := json.Marshal(map[string]any{"method": call.Method, "args": args})
	if err != nil {
		return Result{}, Errorf(KindInvalidArgument, "args for %s are not JSON-serializable: %v", call.Method, err)
	}

	callID := uuid.NewString()
	logger := c.log.With().Str("call_id", callID).Str("method", call.Method).Logger()

	var lastErr *Error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			logger.Debug().Int("attempt", attempt).Dur("backoff", delay).Msg("retrying")
			select {
			case <-ctx.Done():
				return Result{}, Errorf(KindUnavailable, "%s canceled during backoff: %v", call.Method, ctx.Err())
			case <-time.After(delay):
			}
		}

		res, attemptErr := c.attempt(ctx, payload)
		if attemptErr == nil {
			if attempt > 0 {
				logger.Debug().Int("attempts", attempt+1).Msg("recovered after retry")
			}
			return res, nil
		}

		if ctx.Err() != nil {
			// Caller abandoned the request; don't keep probing.
			return Result{}, Errorf(KindUnavailable, "%s canceled: %v", call.Method, ctx.Err())
		}

		lastErr = attemptErr
		if !transient(attemptErr) {
			logger.Debug().Str("kind", string(attemptErr.Kind)).Msg("non-retryable failure")
			return Result{}, attemptErr
		}
		logger.Debug().Int("attempt", attempt+1).Str("kind", string(attemptErr.Kind)).Msg("transient failure")
	}

	// Retries exhausted. A transient kind must surface as Unavailable so
	// callers can tell "service is down" from "request is invalid".
	return Result{}, &Error{
		Kind:    KindUnavailable,
		Status:  lastErr.Status,
		Message: fmt.Sprintf("%s failed after %d attempts: %s", call.Method, c.cfg.MaxRetries+1, lastErr.Message),
	}
}

// attempt performs a single HTTP round trip with its own deadline.
func (c *Client) attempt(ctx context.Context, payload []byte) (Result, *Error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.cfg.BaseURL+"/api", bytes.NewReader(payload))
	if err != nil {
		return Result{}, Errorf(KindInvalidArgument, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("request timeout after %s", c.cfg.Timeout)}
		}
		return Result{}, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("connecting to %s: %v", c.cfg.BaseURL, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode >= 400 {
		return Result{}, classifyStatus(resp.StatusCode, string(body))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return newResult(nil), nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return Result{}, &Error{Kind: KindMalformedResponse, Status: resp.StatusCode, Message: "response body is not valid JSON"}
	}
	return newResult(value), nil
}

// transient reports whether a classified attempt failure may be retried.
// Connection-level failures carry KindUnavailable from the start and are
// transient until the retry budget runs out.
func transient(e *Error) bool {
	return e.Kind == KindRemoteFault || e.Kind == KindUnavailable
}

// backoff computes the delay before the given retry attempt (attempt >= 1):
// initial delay doubling per attempt, bounded, with jitter to avoid
// thundering-herd against the local service.
func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.cfg.InitialBackoff) * math.Pow(2, float64(attempt-1))
	if d > float64(c.cfg.MaxBackoff) {
		d = float64(c.cfg.MaxBackoff)
	}
	if c.cfg.Jitter > 0 {
		d += d * c.cfg.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(d)
}
