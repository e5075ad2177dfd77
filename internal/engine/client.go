// Package engine is the request/response boundary to the remote training
// engine. It owns no state: each operation is a single HTTP round trip that
// either yields a validated EngineUpdate or a taxonomy error.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertrainer/internal/domain"
	"github.com/lox/pokertrainer/internal/reqid"
)

// Client talks to the remote engine over its REST surface
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a new engine client. The timeout bounds each round trip;
// exceeding it surfaces as a TransportError.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithPrefix("engine"),
	}
}

// actionRequest is the wire shape for a submitted action
type actionRequest struct {
	Kind   domain.ActionKind `json:"action_type"`
	Amount int               `json:"amount"`
}

// CreateSession establishes a fresh session. The returned snapshot has hand
// number 1 and a newly dealt hand.
func (c *Client) CreateSession(ctx context.Context) (*domain.EngineUpdate, error) {
	return c.roundTrip(ctx, "create session", http.MethodPost, "/api/game/new", nil)
}

// SubmitAction sends one user action for the current decision point. A nil
// amount is normalized to zero: at the wire boundary "no amount" and "zero
// amount" are the same request.
func (c *Client) SubmitAction(ctx context.Context, sessionID string, kind domain.ActionKind, amount *int) (*domain.EngineUpdate, error) {
	if !kind.Valid() {
		return nil, &MalformedError{Op: "submit action", Err: fmt.Errorf("unknown action kind %q", kind)}
	}
	body := actionRequest{Kind: kind}
	if amount != nil {
		body.Amount = *amount
	}
	path := fmt.Sprintf("/api/game/%s/action", sessionID)
	return c.roundTrip(ctx, "submit action", http.MethodPost, path, body)
}

// AdvanceHand deals the next hand of the session. Valid only when the prior
// snapshot has the hand over; the new snapshot's hand number is one higher.
func (c *Client) AdvanceHand(ctx context.Context, sessionID string) (*domain.EngineUpdate, error) {
	path := fmt.Sprintf("/api/game/%s/next-hand", sessionID)
	return c.roundTrip(ctx, "advance hand", http.MethodPost, path, nil)
}

// QueryStatus fetches the current triple without mutating anything server
// side. Used for resynchronization after a suspected missed update.
func (c *Client) QueryStatus(ctx context.Context, sessionID string) (*domain.EngineUpdate, error) {
	path := fmt.Sprintf("/api/game/%s/status", sessionID)
	return c.roundTrip(ctx, "query status", http.MethodGet, path, nil)
}

// EndSession tells the engine to discard the session
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	id := reqid.New()
	path := fmt.Sprintf("/api/game/%s", sessionID)
	resp, err := c.send(ctx, id, http.MethodDelete, path, nil)
	if err != nil {
		return &TransportError{Op: "end session", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{Op: "end session", Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	return nil
}

// healthResponse is the engine's health probe payload
type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health probes the engine's non-session health endpoint and returns its
// status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	id := reqid.New()
	resp, err := c.send(ctx, id, http.MethodGet, "/api/health", nil)
	if err != nil {
		return "", &TransportError{Op: "health", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RejectedError{Op: "health", Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", &MalformedError{Op: "health", Err: err}
	}
	return health.Status, nil
}

// roundTrip performs one request and maps the outcome onto the error
// taxonomy. A successful response is decoded and validated before it is
// allowed to escape this package.
func (c *Client) roundTrip(ctx context.Context, op, method, path string, body any) (*domain.EngineUpdate, error) {
	id := reqid.New()
	started := time.Now()

	resp, err := c.send(ctx, id, method, path, body)
	if err != nil {
		c.logger.Warn("Request failed", "op", op, "req", id, "error", err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		c.logger.Warn("Request rejected", "op", op, "req", id, "status", resp.StatusCode, "detail", detail)
		return nil, &RejectedError{Op: op, Status: resp.StatusCode, Detail: detail}
	}

	var update domain.EngineUpdate
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		return nil, &MalformedError{Op: op, Err: err}
	}
	if err := update.Validate(); err != nil {
		return nil, &MalformedError{Op: op, Err: err}
	}

	c.logger.Debug("Request complete",
		"op", op,
		"req", id,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
		"hand", update.Snapshot.HandNumber,
		"street", update.Snapshot.Street)
	return &update, nil
}

// send builds and issues one HTTP request
func (c *Client) send(ctx context.Context, id, method, path string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", id)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// readDetail extracts the engine's error explanation from a non-success
// body. FastAPI-style engines report {"detail": "..."}; anything else is
// passed through raw, truncated.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return string(data)
}
