package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/recruitment-manager/internal/ingestion"
	"github.com/jonathan/recruitment-manager/internal/observability"
	"github.com/jonathan/recruitment-manager/internal/types"
)

var (
	ingestKind    string
	ingestVerbose bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-folder>",
	Short: "Parse documents into the database",
	Long: `Copy each document into the upload directory, extract its text, parse it
with the LLM and store the raw and parsed records. A folder is processed file
by file; a failing file is reported and the batch continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestKind, "kind", "k", "resume", "Document kind: jd or resume")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print each parsed record")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	kind, err := types.ParseDocumentKind(ingestKind)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	client, err := a.llmClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := ingestPath(cmd, a.pipeline(store, client), kind, args[0])
	if err != nil {
		return err
	}

	if ingestVerbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		for _, r := range results {
			if r.Success {
				printer.PrintParsed(r.Data)
			}
		}
	}

	summary := ingestion.Summarize(results)
	printSummary(cmd, kind, summary)
	if summary.Succeeded == 0 && summary.Total > 0 {
		return fmt.Errorf("no %s documents were ingested", kind.Label())
	}
	return nil
}

// ingestPath processes a single file or every file of a folder
func ingestPath(cmd *cobra.Command, p *ingestion.Pipeline, kind types.DocumentKind, path string) ([]ingestion.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return p.ProcessFolder(cmd.Context(), kind, path)
	}
	return []ingestion.Result{p.ProcessFile(cmd.Context(), kind, path)}, nil
}

func printSummary(cmd *cobra.Command, kind types.DocumentKind, s ingestion.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s ingestion: %d of %d succeeded\n", kind.Label(), s.Succeeded, s.Total)
	for _, f := range s.Failed {
		fmt.Fprintf(out, "  ✗ %s (%s): %s\n", f.Filename, f.FailedStep, f.Error)
	}
}
