package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/ports"
)

// LangChainSummarizer implements ports.Summarizer through langchaingo's
// OpenAI model.
type LangChainSummarizer struct {
	llm         llms.Model
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

var _ ports.Summarizer = (*LangChainSummarizer)(nil)

// NewLangChainSummarizer builds the model client. The endpoint, when set,
// is reduced to its /v1 base URL.
func NewLangChainSummarizer(cfg config.ChatGPTConfig, logger *slog.Logger) (*LangChainSummarizer, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if base := baseURL(cfg.Endpoint); base != "" {
		opts = append(opts, openai.WithBaseURL(base))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init langchain openai: %w", err)
	}

	return NewLangChainSummarizerWithModel(model, cfg, logger), nil
}

// NewLangChainSummarizerWithModel wraps an existing llms.Model.
func NewLangChainSummarizerWithModel(model llms.Model, cfg config.ChatGPTConfig, logger *slog.Logger) *LangChainSummarizer {
	return &LangChainSummarizer{
		llm:         model,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// Summarize asks the model for a bullet summary of the excerpt.
func (s *LangChainSummarizer) Summarize(ctx context.Context, title, excerpt string) (string, error) {
	if s == nil || s.llm == nil {
		return "", &domain.SummarizationError{Cause: errors.New("langchain summarizer is not initialized")}
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, s.llm, BuildPrompt(title, excerpt),
		llms.WithTemperature(s.temperature),
		llms.WithMaxTokens(s.maxTokens),
	)
	if err != nil {
		return "", &domain.SummarizationError{Cause: fmt.Errorf("generate: %w", err)}
	}

	summary := strings.TrimSpace(out)
	if s.logger != nil {
		s.logger.Debug("summary received", "model", s.model, "chars", len(summary))
	}
	return summary, nil
}

func baseURL(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimSuffix(endpoint, "/")
	return strings.TrimSuffix(endpoint, "/chat/completions")
}
