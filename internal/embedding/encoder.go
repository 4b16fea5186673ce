// Package embedding encodes text into dense vectors for semantic similarity.
package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no embedding model is configured
const DefaultGeminiModel = "text-embedding-004"

// DefaultOpenAIModel is used for OpenAI-compatible endpoints
const DefaultOpenAIModel = string(openai.SmallEmbedding3)

// Encoder turns text into a fixed-size vector
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// contentEmbedder is the subset of *genai.Models used here
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GenAIEncoder embeds text with the Gemini embedding API
type GenAIEncoder struct {
	models contentEmbedder
	model  string
}

// NewGenAIEncoder creates an encoder for the Gemini API
func NewGenAIEncoder(ctx context.Context, apiKey, model string) (*GenAIEncoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIEncoder{models: client.Models, model: model}, nil
}

// Encode implements Encoder
func (e *GenAIEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding in response")
	}
	return resp.Embeddings[0].Values, nil
}

// Model implements Encoder
func (e *GenAIEncoder) Model() string {
	return e.model
}

// embeddingCreator is the subset of *openai.Client used here
type embeddingCreator interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEncoder embeds text through an OpenAI-compatible endpoint, including Ollama
type OpenAIEncoder struct {
	client embeddingCreator
	model  string
}

// NewOpenAIEncoder creates an encoder. An empty baseURL uses the OpenAI API.
func NewOpenAIEncoder(apiKey, baseURL, model string) *OpenAIEncoder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIEncoder{client: openai.NewClientWithConfig(cfg), model: model}
}

// Encode implements Encoder
func (e *OpenAIEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}
	return resp.Data[0].Embedding, nil
}

// Model implements Encoder
func (e *OpenAIEncoder) Model() string {
	return e.model
}
