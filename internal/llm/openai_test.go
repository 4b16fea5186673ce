package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	last  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	fake := &fakeCompleter{reply: "```json\n{\"a\": 1}\n```"}
	c := &OpenAIClient{client: fake, config: DefaultOpenAIConfig()}

	out, err := c.GenerateJSON(context.Background(), "extract", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)

	require.Len(t, fake.last.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fake.last.Messages[0].Role)
	assert.Equal(t, ExtractionInstruction, fake.last.Messages[0].Content)
	assert.Equal(t, float32(0.1), fake.last.Temperature)
	assert.Equal(t, 2000, fake.last.MaxTokens)
	assert.Equal(t, "extract", fake.last.Messages[1].Content)
	assert.Equal(t, "gpt-4o-mini", fake.last.Model)
	require.NotNil(t, fake.last.ResponseFormat)
}

func TestOpenAIClient_OllamaSkipsResponseFormat(t *testing.T) {
	fake := &fakeCompleter{reply: "{}"}
	c := &OpenAIClient{client: fake, config: DefaultOllamaConfig()}

	_, err := c.GenerateJSON(context.Background(), "extract", TierStandard)
	require.NoError(t, err)
	assert.Nil(t, fake.last.ResponseFormat)
	assert.Equal(t, "llama2", fake.last.Model)
}

func TestOpenAIClient_GenerateContent(t *testing.T) {
	fake := &fakeCompleter{reply: "  What is a goroutine?  "}
	c := &OpenAIClient{client: fake, config: DefaultOllamaConfig()}

	out, err := c.GenerateContent(context.Background(), "ask", TierLite)
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", out)
	require.Len(t, fake.last.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, fake.last.Messages[0].Role)
	assert.Equal(t, float32(0.4), fake.last.Temperature)
	assert.Zero(t, fake.last.MaxTokens)
}

func TestOpenAIClient_Errors(t *testing.T) {
	c := &OpenAIClient{client: &fakeCompleter{err: errors.New("connection refused")}, config: DefaultOllamaConfig()}
	_, err := c.GenerateContent(context.Background(), "ask", TierLite)
	assert.ErrorContains(t, err, "connection refused")

	c = &OpenAIClient{client: &fakeCompleter{reply: "   "}, config: DefaultOllamaConfig()}
	_, err = c.GenerateContent(context.Background(), "ask", TierLite)
	assert.ErrorContains(t, err, "no content")

	c = &OpenAIClient{client: &fakeCompleter{}, config: &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{}}}
	_, err = c.GenerateContent(context.Background(), "ask", TierLite)
	assert.ErrorContains(t, err, "no model configured")
}
