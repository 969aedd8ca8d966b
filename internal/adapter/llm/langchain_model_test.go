package llm

import (
	"context"
	"errors"
	"testing"

	"lecture-quiz/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textOf(t *testing.T, mc llms.MessageContent) string {
	t.Helper()
	require.Len(t, mc.Parts, 1)
	part, ok := mc.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestLangchainModel_Complete(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: `{"questions":[]}`}},
	}}
	m := NewLangchainModel(fake, 0.7, 1000)

	out, err := m.Complete(context.Background(), "system text", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"questions":[]}`, out)

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, "system text", textOf(t, fake.messages[0]))
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
	assert.Equal(t, "user prompt", textOf(t, fake.messages[1]))
	assert.Equal(t, 0.7, fake.opts.Temperature)
	assert.Equal(t, 1000, fake.opts.MaxTokens)
}

func TestLangchainModel_CompleteErrors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		boom := errors.New("429 rate limited")
		m := NewLangchainModel(&fakeModel{err: boom}, 0.7, 0)
		_, err := m.Complete(context.Background(), "s", "p")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no choices", func(t *testing.T) {
		m := NewLangchainModel(&fakeModel{resp: &llms.ContentResponse{}}, 0.7, 0)
		_, err := m.Complete(context.Background(), "s", "p")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestNewFromConfig(t *testing.T) {
	_, err := NewFromConfig(config.LLMConfig{Provider: "openai", Model: "gpt-4o"})
	assert.ErrorContains(t, err, "API key cannot be empty")

	_, err = NewFromConfig(config.LLMConfig{Provider: "ollama", Model: "qwen3:0.6b"})
	assert.ErrorContains(t, err, "server URL cannot be empty")

	_, err = NewFromConfig(config.LLMConfig{Provider: "bard"})
	assert.ErrorContains(t, err, "unsupported")

	m, err := NewFromConfig(config.LLMConfig{Provider: "ollama", ServerURL: "http://localhost:11434", Model: "qwen3:0.6b"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}
