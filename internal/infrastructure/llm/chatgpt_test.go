package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/domain"
)

func newTestClient(endpoint string) *ChatGPTClient {
	return NewChatGPTClient(config.ChatGPTConfig{
		Endpoint:       endpoint,
		Model:          "gpt-4o-mini",
		APIKey:         "secret",
		Temperature:    0.2,
		MaxTokens:      400,
		TimeoutSeconds: 5,
	}, nil)
}

func TestSummarizeSendsRequest(t *testing.T) {
	t.Parallel()

	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  - Bullet one\n- Bullet two \n"}}]}`))
	}))
	defer server.Close()

	summary, err := newTestClient(server.URL).Summarize(context.Background(), "Bone loss", "RESULTS\nDensity fell.")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "- Bullet one\n- Bullet two" {
		t.Fatalf("unexpected summary %q", summary)
	}
	if got.Model != "gpt-4o-mini" || got.Temperature != 0.2 || got.MaxTokens != 400 {
		t.Fatalf("unexpected request parameters: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", got.Messages)
	}
	prompt := got.Messages[0].Content
	if !strings.Contains(prompt, "Title: Bone loss") || !strings.Contains(prompt, "Density fell.") {
		t.Fatalf("prompt is missing title or excerpt: %q", prompt)
	}
}

func TestSummarizeErrorsAreSummarizationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limit"}`, http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": [`))
		}},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}},
	}

	for _, tc := range testCases {
		server := httptest.NewServer(tc.handler)
		_, err := newTestClient(server.URL).Summarize(context.Background(), "t", "e")
		server.Close()

		var sumErr *domain.SummarizationError
		if !errors.As(err, &sumErr) {
			t.Errorf("%s: expected SummarizationError, got %v", tc.name, err)
		}
	}
}

func TestSummarizeTransportFailure(t *testing.T) {
	t.Parallel()

	_, err := newTestClient("http://127.0.0.1:1/v1/chat/completions").Summarize(context.Background(), "t", "e")
	var sumErr *domain.SummarizationError
	if !errors.As(err, &sumErr) {
		t.Fatalf("expected SummarizationError, got %v", err)
	}
}

func TestSummarizeMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewChatGPTClient(config.ChatGPTConfig{Endpoint: "http://unused", Model: "m"}, nil)
	if _, err := client.Summarize(context.Background(), "t", "e"); err == nil {
		t.Fatalf("expected error without api key")
	}
}
