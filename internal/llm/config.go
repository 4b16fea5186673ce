// Package llm provides centralized LLM configuration and client abstractions.
// The same Client interface is served by Gemini and by any OpenAI-compatible
// endpoint (OpenAI itself or a local Ollama server).
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short tasks: interview questions, answer grading
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: resume and JD field extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form generation: job descriptions
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a local Ollama server reached through its OpenAI-compatible API
	ProviderOllama Provider = "ollama"
)

// DefaultOllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama install
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// ExtractionInstruction is the system instruction sent with JSON requests
const ExtractionInstruction = "You read resumes and job descriptions for a recruiting team. " +
	"Reply with one JSON object containing only the requested fields. " +
	"Use null for anything the document does not state."

// tierTemperature: field extraction stays near-deterministic, interview
// turns vary a little, job descriptions read better with more freedom.
var tierTemperature = map[ModelTier]float32{
	TierLite:     0.4,
	TierStandard: 0.1,
	TierAdvanced: 0.7,
}

// extractionMaxTokens caps structured replies
const extractionMaxTokens = 2000

// Temperature returns the sampling temperature used for a tier.
// Unknown tiers use the extraction temperature.
func Temperature(tier ModelTier) float32 {
	if t, ok := tierTemperature[tier]; ok {
		return t
	}
	return tierTemperature[TierStandard]
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL overrides the API endpoint for OpenAI-compatible providers
	BaseURL string
}

// ParseProvider maps a configuration string to a Provider
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
		return Provider(s), nil
	case "":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider %q", s)
	}
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
	}
}

// DefaultOllamaConfig returns the configuration for a local llama2 served by Ollama
func DefaultOllamaConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		BaseURL:  DefaultOllamaBaseURL,
		Models: map[ModelTier]string{
			TierLite:     "llama2",
			TierStandard: "llama2",
			TierAdvanced: "llama2",
		},
	}
}

// ConfigFor returns the provider defaults with optional overrides. A non-empty
// model is used for every tier.
func ConfigFor(provider Provider, model, baseURL string) *Config {
	var cfg *Config
	switch provider {
	case ProviderOpenAI:
		cfg = DefaultOpenAIConfig()
	case ProviderOllama:
		cfg = DefaultOllamaConfig()
	default:
		cfg = DefaultGeminiConfig()
	}

	if model != "" {
		for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
			cfg = cfg.WithModel(tier, model)
		}
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
