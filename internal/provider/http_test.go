package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func geminiOK(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []interface{}{map[string]interface{}{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGemini_Generate_Success(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(geminiOK("  سلام \n"))
	}))
	defer server.Close()

	g := NewGemini(Settings{BaseURL: server.URL})

	text, err := g.Generate(context.Background(), "Translate Hello", Params{
		APIKey:          "test-key",
		Temperature:     0.3,
		MaxOutputTokens: 2048,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "  سلام \n" {
		t.Errorf("expected raw fragment, got %q", text)
	}
	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected api key header, got %q", gotKey)
	}
	if gotQuery != "" {
		t.Errorf("credential must not travel in the query string, got %q", gotQuery)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "Translate Hello" {
		t.Errorf("unexpected contents: %+v", gotBody.Contents)
	}
	if gotBody.GenerationConfig.Temperature != 0.3 || gotBody.GenerationConfig.MaxOutputTokens != 2048 {
		t.Errorf("unexpected generation config: %+v", gotBody.GenerationConfig)
	}
}

func TestGemini_Generate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	g := NewGemini(Settings{BaseURL: server.URL})
	_, err := g.Generate(context.Background(), "p", Params{APIKey: "k"})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", se.Status)
	}
	if se.Message != "Resource has been exhausted" {
		t.Errorf("expected envelope message, got %q", se.Message)
	}
}

func TestGemini_Generate_StatusErrorPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	g := NewGemini(Settings{BaseURL: server.URL})
	_, err := g.Generate(context.Background(), "p", Params{APIKey: "k"})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Message != "upstream exploded" {
		t.Errorf("unexpected message %q", se.Message)
	}
}

func TestGemini_Generate_Empty(t *testing.T) {
	bodies := map[string]string{
		"no candidates": `{"candidates":[]}`,
		"no parts":      `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`,
		"blank text":    `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`,
		"empty object":  `{}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			g := NewGemini(Settings{BaseURL: server.URL})
			_, err := g.Generate(context.Background(), "p", Params{APIKey: "k"})
			if !errors.Is(err, ErrEmptyResponse) {
				t.Errorf("expected ErrEmptyResponse, got %v", err)
			}
		})
	}
}

func TestGemini_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	g := NewGemini(Settings{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := g.Generate(context.Background(), "p", Params{APIKey: "k"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("timeout must not be reported as a status error")
	}
}

func TestOpenRouter_Generate_Success(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]interface{}{"content": "<think>hmm</think>Hallo"}},
			},
		})
	}))
	defer server.Close()

	s := NewOpenRouter(Settings{BaseURL: server.URL})
	text, err := s.Generate(context.Background(), "p", Params{APIKey: "or-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hallo" {
		t.Errorf("expected reasoning to be stripped, got %q", text)
	}
	if auth != "Bearer or-key" {
		t.Errorf("unexpected auth header %q", auth)
	}
}

func TestOpenRouter_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	s := NewOpenRouter(Settings{BaseURL: server.URL})
	_, err := s.Generate(context.Background(), "p", Params{APIKey: "k"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOllama_Generate_Success(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "Привіт"})
	}))
	defer server.Close()

	s := NewOllama(Settings{BaseURL: server.URL, Model: "llama3.2"})
	text, err := s.Generate(context.Background(), "p", Params{Temperature: 0.3, MaxOutputTokens: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Привіт" {
		t.Errorf("expected 'Привіт', got %q", text)
	}
	if got["stream"] != false {
		t.Errorf("expected stream=false, got %v", got["stream"])
	}
	opts, _ := got["options"].(map[string]interface{})
	if opts["num_predict"] != float64(100) {
		t.Errorf("expected num_predict=100, got %v", opts["num_predict"])
	}
}

func TestOllama_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	s := NewOllama(Settings{BaseURL: server.URL})
	_, err := s.Generate(context.Background(), "p", Params{})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Message != "model not found" {
		t.Errorf("unexpected message %q", se.Message)
	}
}

func TestNew(t *testing.T) {
	for _, name := range append(Names(), "", "GEMINI") {
		p, err := New(name, Settings{})
		if err != nil {
			t.Errorf("New(%q): unexpected error: %v", name, err)
			continue
		}
		if name == "" && p.Name() != NameGemini {
			t.Errorf("expected gemini default, got %q", p.Name())
		}
	}

	if _, err := New("deepl", Settings{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRequiresKey(t *testing.T) {
	if !NewGemini(Settings{}).RequiresKey() {
		t.Error("gemini needs a key")
	}
	if !NewOpenRouter(Settings{}).RequiresKey() {
		t.Error("openrouter needs a key")
	}
	if NewOllama(Settings{}).RequiresKey() {
		t.Error("ollama does not need a key")
	}
}
