package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEncoder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func (f *fakeEncoder) Model() string { return "fake" }

func TestLexicalScorer(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Senior Python developer", b: "Senior Python developer", want: 100},
		{name: "one shared term", a: "python developer", b: "java developer", want: 33.61},
		{name: "no shared vocabulary", a: "python developer", b: "marketing manager", want: 0},
		{name: "empty first", a: "", b: "python developer", want: 0},
		{name: "empty second", a: "python developer", b: "", want: 0},
		{name: "only stop words", a: "the and of", b: "the and of", want: 0},
		{name: "case insensitive", a: "PYTHON Developer", b: "python developer", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LexicalScorer{}.Score(context.Background(), tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestLexicalScorer_Bounds(t *testing.T) {
	texts := []string{
		"Go engineer building gRPC services on Kubernetes",
		"Kubernetes operator experience, Go, Terraform",
		"Frontend React developer",
		"",
	}
	for _, a := range texts {
		self, err := LexicalScorer{}.Score(context.Background(), a, a)
		require.NoError(t, err)
		for _, b := range texts {
			s, err := LexicalScorer{}.Score(context.Background(), a, b)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
			assert.GreaterOrEqual(t, self, s)
		}
	}
}

func TestTokenize(t *testing.T) {
	// "go" is on the stop list
	assert.Equal(t, []string{"developer", "c_sharp", "k8s"}, tokenize("A Go developer: C_Sharp, k8s, x!"))
}

func TestSemanticScorer(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"resume": {1, 0},
		"jd":     {1, 1},
		"other":  {-1, 0},
	}}
	s := &SemanticScorer{Encoder: enc}

	got, err := s.Score(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.InDelta(t, 70.71, got, 0.001)

	got, err = s.Score(context.Background(), "resume", "other")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got, "negative cosine clamps to 0")
}

func TestSemanticScorer_EmptySkipsEncoder(t *testing.T) {
	enc := &fakeEncoder{}
	got, err := (&SemanticScorer{Encoder: enc}).Score(context.Background(), "  ", "jd")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	assert.Zero(t, enc.calls)
}

func TestSemanticScorer_FallsBackToLexical(t *testing.T) {
	resume := "python developer with docker and kubernetes"
	jd := "python developer docker"

	want, err := LexicalScorer{}.Score(context.Background(), resume, jd)
	require.NoError(t, err)
	require.Greater(t, want, 0.0)

	enc := &fakeEncoder{err: errors.New("embedding service unreachable")}
	got, err := (&SemanticScorer{Encoder: enc}).Score(context.Background(), resume, jd)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, enc.calls)
}

func TestCosinePercent(t *testing.T) {
	assert.Equal(t, 100.0, CosinePercent([]float32{1, 2}, []float32{2, 4}))
	assert.Equal(t, 0.0, CosinePercent([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosinePercent([]float32{0, 0}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosinePercent(nil, nil))
}

func TestNewScorer(t *testing.T) {
	s, err := NewScorer(StrategyLexical, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, LexicalScorer{}, s)

	_, err = NewScorer(StrategySemantic, nil, nil)
	assert.Error(t, err)

	s, err = NewScorer(StrategySemantic, &fakeEncoder{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SemanticScorer{}, s)

	_, err = NewScorer("bm25", nil, nil)
	assert.Error(t, err)
}
