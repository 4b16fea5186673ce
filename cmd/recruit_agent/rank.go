package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/recruitment-manager/internal/export"
	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/observability"
	"github.com/jonathan/recruitment-manager/internal/ranking"
	"github.com/jonathan/recruitment-manager/internal/types"
)

var (
	rankJDFile      string
	rankStrategy    string
	rankOut         string
	rankConcurrency int
	rankStored      bool
	rankVerbose     bool
)

var rankCmd = &cobra.Command{
	Use:   "rank <resume-file-or-folder>...",
	Short: "Rank resumes against a job description",
	Long: `Score every resume against the job description in --jd and print the
ranking, best match first. Folders are expanded to their supported files.
--stored ranks against the latest job description added by embed-jd instead.
With --out the ranking is also written to an Excel workbook.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankJDFile, "jd", "", "Job description file (.txt, .pdf or .docx)")
	rankCmd.Flags().StringVar(&rankStrategy, "strategy", "", "Scoring strategy: lexical or semantic (default scoring.strategy)")
	rankCmd.Flags().StringVarP(&rankOut, "out", "o", "", "Write the ranking to this .xlsx file")
	rankCmd.Flags().IntVar(&rankConcurrency, "concurrency", ranking.DefaultConcurrency, "Resumes scored in parallel")
	rankCmd.Flags().BoolVar(&rankStored, "stored", false, "Rank against the latest embedded job description")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print the skill breakdown of the top matches")
	rankCmd.MarkFlagsMutuallyExclusive("jd", "stored")
	rankCmd.MarkFlagsOneRequired("jd", "stored")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported resume files found")
	}

	opts := ranking.Options{Concurrency: rankConcurrency, Logger: a.logger}

	var (
		jdLabel string
		results []types.SimilarityResult
	)
	if rankStored {
		jdLabel, results, err = rankAgainstStored(cmd, a, paths, opts)
	} else {
		jdLabel = filepath.Base(rankJDFile)
		results, err = rankAgainstFile(cmd, a, paths, opts)
	}
	if err != nil {
		return err
	}

	printRankings(cmd.OutOrStdout(), results)
	if rankVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintRankings(results)
	}

	if rankOut != "" {
		path, err := export.WriteRankings(rankOut, jdLabel, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nRanking written to %s\n", path)
	}
	return nil
}

func rankAgainstFile(cmd *cobra.Command, a *app, paths []string, opts ranking.Options) ([]types.SimilarityResult, error) {
	jdText, err := extraction.ExtractFile(rankJDFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read job description: %w", err)
	}
	if strings.TrimSpace(jdText) == "" {
		return nil, fmt.Errorf("job description %s is empty", rankJDFile)
	}

	scorer, err := a.scorer(cmd.Context(), rankStrategy)
	if err != nil {
		return nil, err
	}
	return ranking.RankFiles(cmd.Context(), scorer, jdText, paths, opts)
}

func rankAgainstStored(cmd *cobra.Command, a *app, paths []string, opts ranking.Options) (string, []types.SimilarityResult, error) {
	ctx := cmd.Context()

	enc, err := a.encoder(ctx)
	if err != nil {
		return "", nil, err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return "", nil, err
	}
	defer store.Close()

	vs, err := a.vectorStore(ctx, store)
	if err != nil {
		return "", nil, err
	}

	jd, results, err := ranking.RankStoredJD(ctx, vs, enc, paths, opts)
	if err != nil {
		return "", nil, err
	}
	return jd.ID, results, nil
}

// collectFiles expands folders into their supported, non-hidden files. Explicit
// file arguments are kept as given so an unsupported one is reported by ranking.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read folder %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") || !extraction.IsSupported(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func printRankings(w io.Writer, results []types.SimilarityResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRESUME\tSCORE\tRECOMMENDATION")
	for i, r := range results {
		rec := ""
		if r.Analysis != nil {
			rec = r.Analysis.Recommendation
		}
		if r.Error != "" {
			rec = "error: " + r.Error
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", i+1, r.Resume, r.Score, rec)
	}
	_ = tw.Flush()
}
