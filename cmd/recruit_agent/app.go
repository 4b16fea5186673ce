package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/config"
	"github.com/jonathan/recruitment-manager/internal/db"
	"github.com/jonathan/recruitment-manager/internal/embedding"
	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/ingestion"
	"github.com/jonathan/recruitment-manager/internal/interview"
	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/parsing"
	"github.com/jonathan/recruitment-manager/internal/ranking"
	"github.com/jonathan/recruitment-manager/internal/vectorstore"
)

// app holds what every command needs. Heavier collaborators are built on demand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// loadApp resolves configuration (file, env, then the root flags) and builds the logger
func loadApp(cmd *cobra.Command) (*app, error) {
	v := viper.New()
	if err := v.BindPFlag("log.debug", cmd.Root().PersistentFlags().Lookup("debug")); err != nil {
		return nil, fmt.Errorf("failed to bind --debug: %w", err)
	}
	if err := v.BindPFlag("log.json", cmd.Root().PersistentFlags().Lookup("json")); err != nil {
		return nil, fmt.Errorf("failed to bind --json: %w", err)
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := extraction.SetPDFLicense(cfg.PDF.LicenseKey); err != nil {
		log.Warn("PDF license not applied", zap.Error(err))
	}

	return &app{cfg: cfg, logger: log}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// llmClient builds the chat client for the configured provider
func (a *app) llmClient(ctx context.Context) (llm.Client, error) {
	provider, err := llm.ParseProvider(a.cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llm.ConfigFor(provider, a.cfg.LLM.Model, a.cfg.LLM.BaseURL), a.cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// encoder builds the embedding encoder. Gemini uses the genai embedding API,
// the OpenAI-compatible providers use their /embeddings endpoint.
func (a *app) encoder(ctx context.Context) (embedding.Encoder, error) {
	provider, err := llm.ParseProvider(a.cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}

	if provider == llm.ProviderGemini {
		key := a.cfg.Embedding.APIKey
		if key == "" {
			key = a.cfg.LLM.APIKey
		}
		return embedding.NewGenAIEncoder(ctx, key, a.cfg.Embedding.Model)
	}

	model := a.cfg.Embedding.Model
	if model == embedding.DefaultGeminiModel {
		model = ""
	}
	baseURL := a.cfg.LLM.BaseURL
	if provider == llm.ProviderOllama && baseURL == "" {
		baseURL = llm.DefaultOllamaBaseURL
	}
	return embedding.NewOpenAIEncoder(a.cfg.LLM.APIKey, baseURL, model), nil
}

// scorer returns the configured similarity strategy, or the given override
func (a *app) scorer(ctx context.Context, strategy string) (ranking.Scorer, error) {
	if strategy == "" {
		strategy = a.cfg.Scoring.Strategy
	}
	if strategy != ranking.StrategySemantic {
		return ranking.NewScorer(strategy, nil, a.logger)
	}
	enc, err := a.encoder(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.NewScorer(strategy, enc, a.logger)
}

// openStore opens the relational store named by database.url
func (a *app) openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// vectorStore returns the pgvector store when the relational store is Postgres,
// otherwise an in-process store that lives as long as the command.
func (a *app) vectorStore(ctx context.Context, store db.Store) (vectorstore.Store, error) {
	pg, ok := store.(*db.DB)
	if !ok {
		a.logger.Debug("using in-memory vector store")
		return vectorstore.NewMemoryStore(), nil
	}
	vs := vectorstore.NewPGStore(pg.Pool())
	if err := vs.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return vs, nil
}

// pipeline wires the ingestion pipeline to store and the LLM field extractor
func (a *app) pipeline(store db.Store, client llm.Client) *ingestion.Pipeline {
	return ingestion.NewPipeline(store, parsing.NewExtractor(client, a.logger), ingestion.Config{
		JDDir:      a.cfg.Storage.JDDir,
		ResumeDir:  a.cfg.Storage.ResumeDir,
		LLMTimeout: a.cfg.LLM.Timeout,
		Logger:     a.logger,
	})
}

// interviewEngine builds the engine, with model-backed questions and grading
// when interview.use_llm is set and a client is available.
func (a *app) interviewEngine(client llm.Client) *interview.Engine {
	cfg := interview.Config{
		DefaultQuestions: a.cfg.Interview.DefaultQuestions,
		Logger:           a.logger,
	}
	if a.cfg.Interview.UseLLM && client != nil {
		cfg.Questioner = interview.NewLLMQuestioner(client, interview.NewBankQuestioner(nil), a.cfg.LLM.Timeout, a.logger)
		cfg.Evaluator = interview.NewLLMEvaluator(client, a.cfg.LLM.Timeout, a.logger)
	}
	return interview.NewEngine(nil, cfg)
}
