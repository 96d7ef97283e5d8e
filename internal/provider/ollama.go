package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/valpere/tlumach/internal/postprocess"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.2"
)

// Ollama targets a self-hosted Ollama daemon. No credential is needed.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(s Settings) *Ollama {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	model := s.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  newHTTPClient(s.Timeout),
	}
}

func (s *Ollama) Name() string {
	return NameOllama
}

func (s *Ollama) RequiresKey() bool {
	return false
}

func (s *Ollama) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	options := map[string]interface{}{
		"temperature": p.Temperature,
	}
	if p.MaxOutputTokens > 0 {
		options["num_predict"] = p.MaxOutputTokens
	}
	ollamaReq := map[string]interface{}{
		"model":   s.model,
		"prompt":  prompt,
		"stream":  false,
		"options": options,
	}

	jsonData, err := json.Marshal(ollamaReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", &StatusError{Status: resp.StatusCode, Message: errResp.Error}
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := postprocess.StripReasoning(ollamaResp.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
