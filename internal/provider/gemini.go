package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// Gemini calls the Google generative-language generateContent endpoint.
type Gemini struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewGemini(s Settings) *Gemini {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	model := s.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  newHTTPClient(s.Timeout),
	}
}

func (g *Gemini) Name() string {
	return NameGemini
}

func (g *Gemini) RequiresKey() bool {
	return true
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// geminiError is the Google API error envelope.
type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	body.GenerationConfig.Temperature = p.Temperature
	body.GenerationConfig.MaxOutputTokens = p.MaxOutputTokens

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := truncate(string(raw), 300)
		var envelope geminiError
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
			msg = envelope.Error.Message
		}
		return "", &StatusError{Status: resp.StatusCode, Message: msg}
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
