package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/types"
	"github.com/jonathan/recruitment-manager/internal/vectorstore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pdf"), "x")
	writeFile(t, filepath.Join(dir, "a.docx"), "x")
	writeFile(t, filepath.Join(dir, "notes.md"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.pdf"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	single := filepath.Join(t.TempDir(), "cv.txt")
	writeFile(t, single, "x")

	paths, err := collectFiles([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.docx"),
		filepath.Join(dir, "b.pdf"),
		single,
	}, paths)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestPrintRankings(t *testing.T) {
	var buf bytes.Buffer
	printRankings(&buf, []types.SimilarityResult{
		{Resume: "jane.pdf", Score: 82.5, Analysis: &types.Analysis{Recommendation: "Strong Match"}},
		{Resume: "broken.pdf", Error: "failed to open PDF"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RESUME")
	assert.Contains(t, lines[1], "jane.pdf")
	assert.Contains(t, lines[1], "82.50")
	assert.Contains(t, lines[1], "Strong Match")
	assert.Contains(t, lines[2], "error: failed to open PDF")
}

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Go, SQL", []string{"Go", "SQL"}},
		{" React ,, Node.js ,", []string{"React", "Node.js"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSkills(tt.in))
		})
	}
}

func TestPromptValidators(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "jd.txt")
	writeFile(t, file, "x")

	assert.NoError(t, required("x"))
	assert.Error(t, required("  "))
	assert.NoError(t, existingDir(dir))
	assert.Error(t, existingDir(file))
	assert.NoError(t, existingFile(file))
	assert.Error(t, existingFile(dir))
	assert.Error(t, existingFile(filepath.Join(dir, "nope")))
}

// lengthEncoder embeds text as a one-dimensional vector of its length
type lengthEncoder struct {
	err error
}

func (e lengthEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text))}, nil
}

func (lengthEncoder) Model() string { return "length" }

func TestEmbedFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "backend.txt"), "Backend engineer")
	writeFile(t, filepath.Join(dir, "frontend.TXT"), "Frontend engineer, React")
	writeFile(t, filepath.Join(dir, "empty.txt"), "   ")
	writeFile(t, filepath.Join(dir, "ignored.pdf"), "x")

	vs := vectorstore.NewMemoryStore()
	n, err := embedFolder(context.Background(), lengthEncoder{}, vs, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec, err := vs.Get(context.Background(), "backend.txt")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Backend engineer", rec.Text)
	assert.Equal(t, "length", rec.Model)
	assert.Equal(t, []float32{16}, rec.Embedding)

	empty, err := vs.Get(context.Background(), "empty.txt")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestEmbedFolder_EncoderError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "text")

	_, err := embedFolder(context.Background(), lengthEncoder{err: errors.New("quota")}, vectorstore.NewMemoryStore(), dir, zap.NewNop())
	assert.ErrorContains(t, err, "a.txt")
}
