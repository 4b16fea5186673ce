// Package config provides configuration loading and validation for the CLI and server.
//
// Values are resolved by viper from (lowest to highest precedence) built-in defaults,
// an optional YAML file, RECRUIT_* environment variables plus a few legacy variable
// names, and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppName is used for the default config file name and the env prefix.
const AppName = "recruit-agent"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Interview InterviewConfig `mapstructure:"interview"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	PDF       PDFConfig       `mapstructure:"pdf"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// DatabaseConfig selects the relational store. A postgres:// URL uses Postgres,
// anything else is treated as a SQLite file path.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// StorageConfig holds upload directories
type StorageConfig struct {
	JDDir     string `mapstructure:"jd_dir" validate:"required"`
	ResumeDir string `mapstructure:"resume_dir" validate:"required"`
}

// LLMConfig configures the chat model used for parsing, interviews and JD generation.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=gemini openai ollama"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// EmbeddingConfig configures the sentence encoder for semantic scoring.
type EmbeddingConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ScoringConfig selects the similarity strategy
type ScoringConfig struct {
	Strategy string `mapstructure:"strategy" validate:"oneof=lexical semantic"`
}

// InterviewConfig configures the interview engine
type InterviewConfig struct {
	UseLLM           bool `mapstructure:"use_llm"`
	DefaultQuestions int  `mapstructure:"default_questions" validate:"min=1"`
}

// RateLimitConfig configures the HTTP rate limiter
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit" validate:"min=0"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// PDFConfig holds the unipdf metered license key
type PDFConfig struct {
	LicenseKey string `mapstructure:"license_key"`
}

// SetDefaults registers every key with its default so env overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.url", "recruitment.db")
	v.SetDefault("storage.jd_dir", "uploads/jd")
	v.SetDefault("storage.resume_dir", "uploads/resumes")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("scoring.strategy", "lexical")
	v.SetDefault("interview.use_llm", false)
	v.SetDefault("interview.default_questions", 5)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.default_limit", 1000)
	v.SetDefault("ratelimit.default_window", time.Minute)
	v.SetDefault("ratelimit.cleanup_interval", 5*time.Minute)
	v.SetDefault("ratelimit.whitelist", []string{})
	v.SetDefault("ratelimit.blacklist", []string{})
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("pdf.license_key", "")
}

// legacyEnv maps config keys to the unprefixed variables the older scripts used.
var legacyEnv = map[string][]string{
	"database.url":      {"DATABASE_URL"},
	"llm.provider":      {"LLM_PROVIDER"},
	"llm.model":         {"LLM_MODEL"},
	"llm.api_key":       {"GEMINI_API_KEY", "OPENAI_API_KEY"},
	"embedding.api_key": {"GEMINI_API_KEY"},
	"pdf.license_key":   {"UNIDOC_LICENSE_API_KEY"},
}

// Load reads configuration into a Config. cfgFile may be empty, in which case
// recruit-agent.yaml in the working directory is used when present.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("RECRUIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		args := append([]string{key, "RECRUIT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// IsPostgres reports whether the database URL selects the Postgres backend.
func (c DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://")
}
