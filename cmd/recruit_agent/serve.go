package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/jobdesc"
	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/ranking"
	"github.com/jonathan/recruitment-manager/internal/server"
	"github.com/jonathan/recruitment-manager/internal/server/ratelimit"
)

var (
	servePort int
	serveNoDB bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing job description generation, resume ranking,
interview sessions and the stored document routes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default server.port)")
	serveCmd.Flags().BoolVar(&serveNoDB, "no-db", false, "Serve without the document store routes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	// The API stays up without a model: interviews use the question bank and
	// heuristic grading, and /generate-jd answers 500.
	var client llm.Client
	if c, err := a.llmClient(ctx); err != nil {
		a.logger.Warn("LLM unavailable, using fallbacks", zap.Error(err))
	} else {
		client = c
		defer client.Close()
	}

	scorer, err := a.scorer(ctx, "")
	if err != nil {
		a.logger.Warn("falling back to lexical scoring", zap.Error(err))
		scorer = ranking.LexicalScorer{}
	}

	deps := server.Deps{
		Scorer:          scorer,
		RankOptions:     ranking.Options{Logger: a.logger},
		Interviews:      a.interviewEngine(client),
		JobDescriptions: jobdesc.NewGenerator(client, a.cfg.LLM.Timeout, a.logger),
		LLMAvailable:    client != nil,
	}

	if !serveNoDB {
		store, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		deps.Documents = store
		if client != nil {
			deps.Ingestion = a.pipeline(store, client)
		}
	}

	rl := a.cfg.RateLimit
	srv := server.New(server.Config{
		Port: port,
		RateLimit: ratelimit.NewConfig(rl.Enabled, rl.DefaultLimit, rl.DefaultWindow,
			rl.CleanupInterval, rl.Whitelist, rl.Blacklist),
		Logger: a.logger,
	}, deps)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
