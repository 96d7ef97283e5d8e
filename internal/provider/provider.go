// Package provider talks to the generative-language services that do the
// actual translation. A Provider turns one prompt into one piece of text.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	NameGemini     = "gemini"
	NameOpenRouter = "openrouter"
	NameOllama     = "ollama"
)

// ErrEmptyResponse is returned when the upstream call succeeded but carried
// no text fragment.
var ErrEmptyResponse = errors.New("provider returned no content")

// Params bound a single generation call.
type Params struct {
	APIKey          string
	Temperature     float64
	MaxOutputTokens int
}

type Provider interface {
	Name() string
	// RequiresKey reports whether Generate needs Params.APIKey.
	RequiresKey() bool
	Generate(ctx context.Context, prompt string, p Params) (string, error)
}

// StatusError is a non-2xx answer from the upstream API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status %d", e.Status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
}

// Settings configure a provider instance.
type Settings struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

// New builds the provider registered under name.
func New(name string, s Settings) (Provider, error) {
	switch strings.ToLower(name) {
	case "", NameGemini:
		return NewGemini(s), nil
	case NameOpenRouter:
		return NewOpenRouter(s), nil
	case NameOllama:
		return NewOllama(s), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// Names lists the providers New understands.
func Names() []string {
	return []string{NameGemini, NameOpenRouter, NameOllama}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		),
	}
}

// truncate keeps upstream error bodies readable in logs and responses.
func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
