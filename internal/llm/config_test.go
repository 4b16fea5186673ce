package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultOllamaConfig()
	newConfig := config.WithModel(TierAdvanced, "mistral")

	assert.Equal(t, "llama2", config.GetModel(TierAdvanced))
	assert.Equal(t, "mistral", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "llama2", newConfig.GetModel(TierLite))
	assert.Equal(t, DefaultOllamaBaseURL, newConfig.BaseURL)
}

func TestConfigFor(t *testing.T) {
	tests := []struct {
		name      string
		provider  Provider
		model     string
		baseURL   string
		wantModel string
		wantURL   string
	}{
		{"gemini defaults", ProviderGemini, "", "", "gemini-2.5-flash", ""},
		{"openai defaults", ProviderOpenAI, "", "", "gpt-4o-mini", ""},
		{"ollama defaults", ProviderOllama, "", "", "llama2", DefaultOllamaBaseURL},
		{"model override", ProviderOpenAI, "gpt-4", "", "gpt-4", ""},
		{"base url override", ProviderOllama, "llama3", "http://gpu-box:11434/v1", "llama3", "http://gpu-box:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigFor(tt.provider, tt.model, tt.baseURL)
			assert.Equal(t, tt.provider, cfg.Provider)
			assert.Equal(t, tt.wantModel, cfg.GetModel(TierStandard))
			assert.Equal(t, tt.wantURL, cfg.BaseURL)
		})
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("ollama")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p)

	p, err = ParseProvider("")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)

	_, err = ParseProvider("anthropic")
	assert.Error(t, err)
}

func TestNewOpenAIClient_KeyRules(t *testing.T) {
	_, err := NewOpenAIClient(DefaultOpenAIConfig(), "")
	assert.Error(t, err)

	c, err := NewOpenAIClient(DefaultOllamaConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, "llama2", c.GetModel(TierLite))
	assert.NoError(t, c.Close())
}
