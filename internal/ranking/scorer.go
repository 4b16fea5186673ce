// Package ranking scores resumes against job descriptions and ranks them.
package ranking

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/embedding"
	"github.com/jonathan/recruitment-manager/internal/logger"
)

// Scoring strategies
const (
	StrategyLexical  = "lexical"
	StrategySemantic = "semantic"
)

// Scorer returns the similarity of two texts as a percentage in [0, 100]
type Scorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

// NewScorer returns the scorer for strategy. The semantic strategy needs an encoder.
func NewScorer(strategy string, encoder embedding.Encoder, log *zap.Logger) (Scorer, error) {
	switch strategy {
	case "", StrategyLexical:
		return LexicalScorer{}, nil
	case StrategySemantic:
		if encoder == nil {
			return nil, fmt.Errorf("semantic scoring requires an embedding encoder")
		}
		return &SemanticScorer{Encoder: encoder, Logger: log}, nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q", strategy)
	}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// tokenize lowercases text and returns its words of two or more characters,
// minus stop words.
func tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, stop := englishStopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// LexicalScorer compares TF-IDF vectors built over just the two input texts.
type LexicalScorer struct{}

// Score implements Scorer. Empty input or no shared vocabulary scores 0.
func (LexicalScorer) Score(_ context.Context, a, b string) (float64, error) {
	ta, tb := termCounts(tokenize(a)), termCounts(tokenize(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0, nil
	}

	// smoothed idf over a two-document corpus: ln(3/(1+df)) + 1
	idf := func(term string) float64 {
		df := 0
		if _, ok := ta[term]; ok {
			df++
		}
		if _, ok := tb[term]; ok {
			df++
		}
		return math.Log(3.0/float64(1+df)) + 1
	}

	va := weigh(ta, idf)
	vb := weigh(tb, idf)

	var dot float64
	for term, wa := range va {
		dot += wa * vb[term]
	}
	return toPercent(dot / (norm(va) * norm(vb))), nil
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

func weigh(counts map[string]int, idf func(string) float64) map[string]float64 {
	v := make(map[string]float64, len(counts))
	for term, n := range counts {
		v[term] = float64(n) * idf(term)
	}
	return v
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// SemanticScorer compares sentence embeddings of the two texts. When the
// encoder fails it falls back to LexicalScorer.
type SemanticScorer struct {
	Encoder embedding.Encoder
	Logger  *zap.Logger
}

// Score implements Scorer. Empty input scores 0 without calling the encoder.
func (s *SemanticScorer) Score(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}

	va, err := s.Encoder.Encode(ctx, a)
	if err != nil {
		return s.fallback(ctx, a, b, err)
	}
	vb, err := s.Encoder.Encode(ctx, b)
	if err != nil {
		return s.fallback(ctx, a, b, err)
	}
	return CosinePercent(va, vb), nil
}

func (s *SemanticScorer) fallback(ctx context.Context, a, b string, cause error) (float64, error) {
	logger.OrNop(s.Logger).Warn("embedding failed, using lexical similarity",
		zap.String("model", s.Encoder.Model()),
		zap.Error(cause),
	)
	return LexicalScorer{}.Score(ctx, a, b)
}

// CosinePercent returns the cosine similarity of two vectors as a percentage
// rounded to 2 decimals and clamped to [0, 100]. Mismatched or zero vectors score 0.
func CosinePercent(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return toPercent(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func toPercent(cosine float64) float64 {
	if math.IsNaN(cosine) || cosine <= 0 {
		return 0
	}
	if cosine > 1 {
		cosine = 1
	}
	return math.Round(cosine*100*100) / 100
}
