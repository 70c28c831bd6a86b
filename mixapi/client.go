// Package mixapi is the HTTP client wrapper for the mix analysis server.
// It covers upload, the analyze start/status pair, visualization
// regeneration, feedback, and track deletion. The server performs all audio
// analysis; this package only speaks the wire contracts.
package mixapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mixanalyzer/core"
	"mixanalyzer/logging"
)

// Client talks to one mix analysis server.
type Client struct {
	baseURL string
	apiKey  string

	// http handles short requests; long handles uploads and analysis kicks,
	// which may legitimately take minutes.
	http *http.Client
	long *http.Client

	logger *logging.Logger
}

// NewClient creates a client from configuration. The two HTTP clients share
// TLS settings but differ in timeout.
func NewClient(cfg *core.Config, logger *logging.Logger) *Client {
	return &Client{
		baseURL: cfg.ServerURL,
		apiKey:  cfg.APIKey,
		http:    core.GetDefaultHTTPClient(cfg),
		long:    core.GetLongHTTPClient(cfg),
		logger:  logger,
	}
}

// newRequest builds a request with the standard client headers: User-Agent,
// a fresh X-Request-ID for correlation, and the API key when configured.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", core.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	return req, nil
}

// doJSON executes a request on the given HTTP client and decodes a JSON
// response into out. Non-2xx responses are always TransportErrors, carrying
// the status code and the server's error text when one was decodable;
// application failures (APIError) only come from 2xx payloads whose body
// says the operation failed. The poller depends on this split to keep
// retrying through transient 5xx answers.
func (c *Client) doJSON(client *http.Client, req *http.Request, op string, out interface{}) error {
	c.logger.Debug("api request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get("X-Request-ID")))

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &core.TimeoutError{Op: op}
		}
		return &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The server wraps even transient failures as {"error": ...} on a
		// 5xx; keep the text as the cause but classify by status code.
		var appErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &appErr) == nil && appErr.Error != "" {
			return &core.TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(appErr.Error)}
		}
		return &core.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(out); err != nil {
		return &core.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// postJSON marshals body and issues a POST with Content-Type set.
func (c *Client) postJSON(ctx context.Context, client *http.Client, path, op string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON(client, req, op, out)
}

// isTimeout reports whether a transport error was a client-side timeout
// rather than a reachability failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
