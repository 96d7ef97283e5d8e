package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/valpere/tlumach/internal/postprocess"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "google/gemini-2.5-flash"
)

// OpenRouter speaks the OpenAI chat completions dialect.
type OpenRouter struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenRouter(s Settings) *OpenRouter {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	model := s.Model
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return &OpenRouter{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  newHTTPClient(s.Timeout),
	}
}

func (s *OpenRouter) Name() string {
	return NameOpenRouter
}

func (s *OpenRouter) RequiresKey() bool {
	return true
}

func (s *OpenRouter) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	openrouterReq := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": p.Temperature,
	}
	if p.MaxOutputTokens > 0 {
		openrouterReq["max_tokens"] = p.MaxOutputTokens
	}

	jsonData, err := json.Marshal(openrouterReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	httpReq.Header.Set("X-Title", "tlumach")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := truncate(string(raw), 300)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return "", &StatusError{Status: resp.StatusCode, Message: msg}
	}

	var openrouterResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&openrouterResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(openrouterResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := postprocess.StripReasoning(openrouterResp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
