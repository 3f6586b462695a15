package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harshith-118/AI-Interviewer/internal/config"
	"github.com/harshith-118/AI-Interviewer/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenAIClient_GenerateContent(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "What drew you to this role?"},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient("test-key", server.URL, "test-model")
	params := models.GenerationParams{Temperature: 0.4, MaxOutputTokens: 128}

	text, err := client.GenerateContent(context.Background(), "Ask a question", params)
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}

	if text != "What drew you to this role?" {
		t.Errorf("Unexpected response text %q", text)
	}
	if authHeader != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", authHeader)
	}
	if got.Model != "test-model" {
		t.Errorf("Expected model test-model, got %q", got.Model)
	}
	if got.Temperature != 0.4 {
		t.Errorf("Expected temperature 0.4 to be sent, got %v", got.Temperature)
	}
	if got.MaxTokens != 128 {
		t.Errorf("Expected max_tokens 128 to be sent, got %d", got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "Ask a question" {
		t.Errorf("Unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "API key not valid",
				"type":    "invalid_request_error",
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient("bad-key", server.URL, "test-model")
	_, err := client.GenerateContent(context.Background(), "prompt", models.DefaultGenerationParams())
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("Error should carry the service message, got %v", err)
	}
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	}))
	defer server.Close()

	client := NewOpenAIClient("key", server.URL, "m")
	if _, err := client.GenerateContent(context.Background(), "prompt", models.DefaultGenerationParams()); err == nil {
		t.Error("Expected error when no choices are returned")
	}
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{name: "Gemini without API key", provider: config.ProviderGemini},
		{name: "OpenAI without API key", provider: config.ProviderOpenAI},
		{name: "Vertex AI without project", provider: config.ProviderVertexAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.LLMProvider = tt.provider

			client, err := NewClient(context.Background(), cfg, discardLogger())
			if err != nil {
				t.Fatalf("NewClient() should not fail at startup, got %v", err)
			}
			defer client.Close()

			_, err = client.GenerateContent(context.Background(), "prompt", models.DefaultGenerationParams())
			if !errors.Is(err, ErrMissingCredential) {
				t.Errorf("Expected ErrMissingCredential on every call, got %v", err)
			}
		})
	}
}

func TestNewClient_GeminiWithKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GoogleAPIKey = "key"

	client, err := NewClient(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	oc, ok := client.(*OpenAIClient)
	if !ok {
		t.Fatalf("Expected *OpenAIClient for gemini provider, got %T", client)
	}
	if oc.model != "gemini-2.0-flash" {
		t.Errorf("Expected default gemini model, got %q", oc.model)
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLMProvider = "yandex"

	if _, err := NewClient(context.Background(), cfg, discardLogger()); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
