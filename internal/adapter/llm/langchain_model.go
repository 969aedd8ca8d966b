package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lecture-quiz/internal/config"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// ErrEmptyCompletion is returned when the model answers without any choice.
var ErrEmptyCompletion = errors.New("language model returned no choices")

// LangchainModel adapts a langchaingo llms.Model to domain.LanguageModel.
type LangchainModel struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
}

func NewLangchainModel(llm llms.Model, temperature float64, maxTokens int) *LangchainModel {
	return &LangchainModel{
		llm:         llm,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// NewFromConfig builds the configured provider client.
func NewFromConfig(cfg config.LLMConfig) (*LangchainModel, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case "ollama":
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		model, err = ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		model, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	logger.Get().Info("Language model client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return NewLangchainModel(model, cfg.Temperature, cfg.MaxTokens), nil
}

// Complete sends a system instruction and one user prompt.
func (m *LangchainModel) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(m.temperature)}
	if m.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(m.maxTokens))
	}

	resp, err := m.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		logger.Get().Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyCompletion
	}

	logger.Get().Debug("Raw LLM response received", zap.Int("length", len(resp.Choices[0].Content)))
	return resp.Choices[0].Content, nil
}

var _ domain.LanguageModel = (*LangchainModel)(nil)
