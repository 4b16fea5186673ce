package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/embedding"
	"github.com/jonathan/recruitment-manager/internal/vectorstore"
)

var embedJDCmd = &cobra.Command{
	Use:   "embed-jd <folder>",
	Short: "Embed job description text files into the vector store",
	Long: `Embed every .txt file of a folder and store it under its file name. Ranking
with --stored then scores resumes against the most recently embedded one.
Embeddings persist only with a Postgres database.url.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbedJD,
}

func init() {
	rootCmd.AddCommand(embedJDCmd)
}

func runEmbedJD(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	enc, err := a.encoder(ctx)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	vs, err := a.vectorStore(ctx, store)
	if err != nil {
		return err
	}

	n, err := embedFolder(ctx, enc, vs, args[0], a.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d job descriptions with %s\n", n, enc.Model())
	return nil
}

// embedFolder adds each .txt file in dir to vs, keyed by file name, in name order
func embedFolder(ctx context.Context, enc embedding.Encoder, vs vectorstore.Store, dir string, log *zap.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	count := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return count, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			log.Warn("skipping empty job description", zap.String("file", e.Name()))
			continue
		}

		vec, err := enc.Encode(ctx, text)
		if err != nil {
			return count, fmt.Errorf("failed to embed %s: %w", e.Name(), err)
		}
		if err := vs.Add(ctx, vectorstore.Record{ID: e.Name(), Text: text, Model: enc.Model(), Embedding: vec}); err != nil {
			return count, err
		}
		log.Info("embedded job description", zap.String("file", e.Name()), zap.Int("dims", len(vec)))
		count++
	}
	return count, nil
}
