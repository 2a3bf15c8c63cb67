package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client issues protocol calls against one configured base URL. The
// base URL is immutable for the lifetime of the client; pointing at a
// different server means constructing a new client. The client
// performs no retries: a failed call surfaces to its caller
// immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// NewClient constructs a Client for baseURL. httpClient may be nil, in
// which case a default client with a 10s timeout is used.
func NewClient(httpClient *http.Client, baseURL string, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, log: log}
}

// BaseURL returns the configured server location.
func (c *Client) BaseURL() string { return c.baseURL }

// Send serializes req, POSTs it to the base URL with JSON headers and
// decodes the reply. It returns a *TransportError when the call does
// not complete with a success status, or a *DecodeError when the body
// is not a JSON object.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Warn("server returned non-success status",
			zap.String("requestType", string(req.RequestType)),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var fields map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, &DecodeError{Err: err}
	}

	c.log.Debug("protocol call completed",
		zap.String("requestType", string(req.RequestType)),
	)
	return newResponse(fields), nil
}
