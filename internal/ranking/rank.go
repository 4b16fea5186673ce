package ranking

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/recruitment-manager/internal/embedding"
	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/types"
	"github.com/jonathan/recruitment-manager/internal/vectorstore"
)

// DefaultConcurrency bounds how many files are extracted and scored at once
const DefaultConcurrency = 4

// ErrNoJobDescription is returned when the vector store holds no job description
var ErrNoJobDescription = errors.New("no job description found, embed one first")

// Options configures a batch ranking
type Options struct {
	// Extract reads a file's text; defaults to extraction.ExtractFile
	Extract     func(path string) (string, error)
	Concurrency int
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Extract == nil {
		o.Extract = extraction.ExtractFile
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	o.Logger = logger.OrNop(o.Logger)
	return o
}

// scoreFunc scores one resume text against the job description being ranked
type scoreFunc func(ctx context.Context, resumeText string) (float64, error)

// RankFiles scores every file against jdText and returns results sorted by
// score, highest first. A file that fails yields score 0 with Error set; it
// never aborts the batch.
func RankFiles(ctx context.Context, scorer Scorer, jdText string, paths []string, opts Options) ([]types.SimilarityResult, error) {
	score := func(ctx context.Context, resumeText string) (float64, error) {
		return scorer.Score(ctx, resumeText, jdText)
	}
	return rankFiles(ctx, jdText, paths, score, opts)
}

// RankStoredJD ranks files against the most recently embedded job description.
func RankStoredJD(ctx context.Context, store vectorstore.Store, encoder embedding.Encoder, paths []string, opts Options) (*vectorstore.Record, []types.SimilarityResult, error) {
	jd, err := store.Latest(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load job description: %w", err)
	}
	if jd == nil {
		return nil, nil, ErrNoJobDescription
	}

	log := logger.OrNop(opts.Logger)
	score := func(ctx context.Context, resumeText string) (float64, error) {
		vec, err := encoder.Encode(ctx, resumeText)
		if err != nil {
			log.Warn("embedding failed, using lexical similarity",
				zap.String("job_description", jd.ID),
				zap.Error(err),
			)
			return LexicalScorer{}.Score(ctx, resumeText, jd.Text)
		}
		return CosinePercent(jd.Embedding, vec), nil
	}

	results, err := rankFiles(ctx, jd.Text, paths, score, opts)
	return jd, results, err
}

func rankFiles(ctx context.Context, jdText string, paths []string, score scoreFunc, opts Options) ([]types.SimilarityResult, error) {
	opts = opts.withDefaults()
	results := make([]types.SimilarityResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = rankOne(gctx, jdText, path, score, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	SortResults(results)
	return results, nil
}

func rankOne(ctx context.Context, jdText, path string, score scoreFunc, opts Options) types.SimilarityResult {
	name := filepath.Base(path)

	fail := func(err error) types.SimilarityResult {
		opts.Logger.Warn("failed to rank resume", zap.String("resume", name), zap.Error(err))
		return types.SimilarityResult{Resume: name, Score: 0, Error: err.Error(), Analysis: ErrorAnalysis()}
	}

	text, err := opts.Extract(path)
	if err != nil {
		return fail(err)
	}

	s, err := score(ctx, text)
	if err != nil {
		return fail(err)
	}

	opts.Logger.Debug("ranked resume", zap.String("resume", name), zap.Float64("score", s))
	return types.SimilarityResult{Resume: name, Score: s, Analysis: Analyze(text, jdText, s)}
}

// SortResults orders results by score descending, then by name
func SortResults(results []types.SimilarityResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Resume < results[j].Resume
	})
}
