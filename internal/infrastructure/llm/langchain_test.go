package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/domain"
)

type fakeModel struct {
	content string
	err     error
	opts    llms.CallOptions
	prompt  string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, opt := range options {
		opt(&m.opts)
	}
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompt += text.Text
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.content}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLangChainSummarize(t *testing.T) {
	t.Parallel()

	model := &fakeModel{content: "\n- Exercise slows bone loss in flight\n"}
	s := NewLangChainSummarizerWithModel(model, config.ChatGPTConfig{Model: "gpt-4o-mini", Temperature: 0.2, MaxTokens: 400}, nil)

	got, err := s.Summarize(context.Background(), "Bone", "RESULTS\nfound")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "- Exercise slows bone loss in flight" {
		t.Fatalf("unexpected summary %q", got)
	}
	if model.opts.Temperature != 0.2 || model.opts.MaxTokens != 400 {
		t.Fatalf("unexpected call options: %+v", model.opts)
	}
	if !strings.Contains(model.prompt, "Title: Bone") {
		t.Fatalf("unexpected prompt %q", model.prompt)
	}
}

func TestLangChainSummarizeError(t *testing.T) {
	t.Parallel()

	s := NewLangChainSummarizerWithModel(&fakeModel{err: errors.New("quota")}, config.ChatGPTConfig{}, nil)

	_, err := s.Summarize(context.Background(), "t", "e")
	var sumErr *domain.SummarizationError
	if !errors.As(err, &sumErr) {
		t.Fatalf("expected SummarizationError, got %v", err)
	}
}
