package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATABASE_URL", "LLM_PROVIDER", "LLM_MODEL", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"UNIDOC_LICENSE_API_KEY", "RECRUIT_DATABASE_URL", "RECRUIT_LLM_PROVIDER",
		"RECRUIT_SERVER_PORT", "RECRUIT_SCORING_STRATEGY",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "recruitment.db", cfg.Database.URL)
	assert.False(t, cfg.Database.IsPostgres())
	assert.Equal(t, "uploads/jd", cfg.Storage.JDDir)
	assert.Equal(t, "uploads/resumes", cfg.Storage.ResumeDir)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "lexical", cfg.Scoring.Strategy)
	assert.Equal(t, 5, cfg.Interview.DefaultQuestions)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	content := `
server:
  port: 9090
database:
  url: postgres://localhost/recruit
llm:
  provider: ollama
  base_url: http://localhost:11434/v1
  model: llama2
  timeout: 15s
scoring:
  strategy: semantic
interview:
  use_llm: true
  default_questions: 3
`
	path := filepath.Join(t.TempDir(), "recruit-agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Database.IsPostgres())
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama2", cfg.LLM.Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "semantic", cfg.Scoring.Strategy)
	assert.True(t, cfg.Interview.UseLLM)
	assert.Equal(t, 3, cfg.Interview.DefaultQuestions)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECRUIT_SERVER_PORT", "7000")
	t.Setenv("DATABASE_URL", "postgresql://db/recruit")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "postgresql://db/recruit", cfg.Database.URL)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "secret", cfg.Embedding.APIKey)
}

func TestLoad_PrefixedEnvBeatsLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "legacy.db")
	t.Setenv("RECRUIT_DATABASE_URL", "preferred.db")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "preferred.db", cfg.Database.URL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New(), "/nonexistent/path/recruit-agent.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECRUIT_SCORING_STRATEGY", "magic")

	cfg, err := Load(viper.New(), "")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config error")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:    ServerConfig{Port: 8080},
		Database:  DatabaseConfig{URL: "x.db"},
		Storage:   StorageConfig{JDDir: "a", ResumeDir: "b"},
		LLM:       LLMConfig{Provider: "openai", Timeout: time.Second},
		Scoring:   ScoringConfig{Strategy: "lexical"},
		Interview: InterviewConfig{DefaultQuestions: 1},
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Server.Port = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.LLM.Provider = "anthropic"
	assert.Error(t, bad.Validate())
}
