package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultHTTPTimeout bounds a single backend round trip.
const defaultHTTPTimeout = 30 * time.Second

// HTTPOption is a functional option for configuring the HTTP [Responder].
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default HTTP client. Tests use this to inject
// a client pointed at a local server.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = c
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// HTTP forwards visitor messages to a remote chat backend over HTTP. The
// backend contract is a single POST endpoint taking
// {"session_id": ..., "message": ...} and answering {"reply": ...} with the
// bot's free-form text.
type HTTP struct {
	url    string
	client *http.Client
}

var _ Responder = (*HTTP)(nil)

// NewHTTP creates an HTTP responder posting to url.
func NewHTTP(url string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		url:    url,
		client: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Respond posts the visitor's message and returns the backend's reply text.
func (h *HTTP) Respond(ctx context.Context, sessionID, input string) (string, error) {
	body, err := json.Marshal(chatRequest{SessionID: sessionID, Message: input})
	if err != nil {
		return "", fmt.Errorf("backend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("backend: unexpected status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("backend: decode reply: %w", err)
	}
	return out.Reply, nil
}
