// Package client is the consumer side of the relay: an HTTP client for the
// translate endpoint and a Session holding the form state a UI renders.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/valpere/tlumach/internal"
)

// RelayError is a non-2xx answer from the relay.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay returned status %d", e.Status)
	}
	return fmt.Sprintf("relay returned status %d: %s", e.Status, e.Message)
}

// Retryable mirrors the relay's taxonomy: upstream faults may clear up,
// request and configuration faults will not.
func (e *RelayError) Retryable() bool {
	return e.Status == http.StatusBadGateway || e.Status == http.StatusGatewayTimeout ||
		e.Status == http.StatusServiceUnavailable
}

type Client struct {
	baseURL string
	client  *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate posts req to {baseURL}/translate.
func (c *Client) Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp internal.ErrorResponse
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return nil, &RelayError{Status: resp.StatusCode, Message: msg}
	}

	var out internal.TranslationResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode relay response: %w", err)
	}
	if out.TranslatedText == "" {
		return nil, ErrNoTranslation
	}
	return &out, nil
}
