// Package ingestion moves job description and resume files through
// copy, raw insert, text extraction, LLM parsing and parsed insert.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// DefaultLLMTimeout bounds a single parse call when none is configured
const DefaultLLMTimeout = 60 * time.Second

// Step is a stage of the per-document state machine
type Step string

const (
	StepReceived      Step = "received"
	StepCopied        Step = "copied-to-storage"
	StepRawInserted   Step = "raw-record-inserted"
	StepTextExtracted Step = "text-extracted"
	StepParsed        Step = "llm-parsed"
	StepStored        Step = "parsed-record-inserted"
	StepDone          Step = "done"
)

// Store is the part of the relational store the pipeline writes to
type Store interface {
	InsertRaw(ctx context.Context, kind types.DocumentKind, filename, path string) (int64, error)
	SetRawStatus(ctx context.Context, kind types.DocumentKind, id int64, status types.RawStatus, errMsg string) error
	InsertParsed(ctx context.Context, kind types.DocumentKind, rawID int64, fields types.ParsedFields) (int64, error)
}

// FieldExtractor turns document text into a structured record
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string, kind types.DocumentKind) (types.ParsedFields, error)
}

// Result reports the outcome of one document. A failure is reported here,
// never as an error value, so a batch can continue.
type Result struct {
	Filename   string             `json:"filename"`
	Kind       types.DocumentKind `json:"kind"`
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
	FailedStep Step               `json:"failed_step,omitempty"`
	RawID      int64              `json:"raw_id,omitempty"`
	ParsedID   int64              `json:"parsed_id,omitempty"`
	Data       types.ParsedFields `json:"parsed_data,omitempty"`
}

// Config configures a Pipeline
type Config struct {
	JDDir      string
	ResumeDir  string
	LLMTimeout time.Duration
	// Extract reads a file's text; defaults to extraction.ExtractFile
	Extract func(path string) (string, error)
	Logger  *zap.Logger
}

// Pipeline ingests documents of either kind
type Pipeline struct {
	store      Store
	fields     FieldExtractor
	dirs       map[types.DocumentKind]string
	llmTimeout time.Duration
	extract    func(path string) (string, error)
	logger     *zap.Logger
}

// NewPipeline creates a pipeline writing uploads under the configured directories
func NewPipeline(store Store, fields FieldExtractor, cfg Config) *Pipeline {
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = DefaultLLMTimeout
	}
	if cfg.Extract == nil {
		cfg.Extract = extraction.ExtractFile
	}
	return &Pipeline{
		store:  store,
		fields: fields,
		dirs: map[types.DocumentKind]string{
			types.KindJobDescription: cfg.JDDir,
			types.KindResume:         cfg.ResumeDir,
		},
		llmTimeout: cfg.LLMTimeout,
		extract:    cfg.Extract,
		logger:     logger.OrNop(cfg.Logger),
	}
}

// StorageDir returns the upload directory for kind
func (p *Pipeline) StorageDir(kind types.DocumentKind) string {
	return p.dirs[kind]
}

// ProcessFile ingests one file. The LLM call runs outside any transaction and
// is bounded by the configured timeout.
func (p *Pipeline) ProcessFile(ctx context.Context, kind types.DocumentKind, sourcePath string) Result {
	res := Result{Filename: filepath.Base(sourcePath), Kind: kind}
	log := p.logger.With(zap.String("kind", string(kind)), zap.String("file", res.Filename))

	fail := func(step Step, err error) Result {
		res.FailedStep = step
		res.Error = err.Error()
		if res.RawID != 0 {
			// best effort; the original error is what the caller needs
			if serr := p.store.SetRawStatus(context.WithoutCancel(ctx), kind, res.RawID, types.StatusError, res.Error); serr != nil {
				log.Warn("failed to mark raw record as error", zap.Int64("raw_id", res.RawID), zap.Error(serr))
			}
		}
		log.Error("ingestion failed", zap.String("step", string(step)), zap.Error(err))
		return res
	}

	if !kind.Valid() {
		return fail(StepReceived, fmt.Errorf("unknown document kind %q", kind))
	}
	if _, err := extraction.DocTypeFromPath(sourcePath); err != nil {
		return fail(StepReceived, err)
	}

	log.Info("processing document")

	dest, err := p.copyToStorage(kind, sourcePath)
	if err != nil {
		return fail(StepCopied, err)
	}

	rawID, err := p.store.InsertRaw(ctx, kind, res.Filename, dest)
	if err != nil {
		return fail(StepRawInserted, err)
	}
	res.RawID = rawID
	log.Debug("inserted raw record", zap.Int64("raw_id", rawID))

	text, err := p.extract(dest)
	if err != nil {
		return fail(StepTextExtracted, err)
	}
	text = CleanText(text)
	if text == "" {
		return fail(StepTextExtracted, errors.New("no text could be extracted from file"))
	}

	llmCtx, cancel := context.WithTimeout(ctx, p.llmTimeout)
	fields, err := p.fields.ExtractFields(llmCtx, text, kind)
	cancel()
	if err != nil {
		return fail(StepParsed, err)
	}

	parsedID, err := p.store.InsertParsed(ctx, kind, rawID, fields)
	if err != nil {
		return fail(StepStored, err)
	}

	res.Success = true
	res.ParsedID = parsedID
	res.Data = fields
	log.Info("document ingested", zap.Int64("raw_id", rawID), zap.Int64("parsed_id", parsedID))
	return res
}

// ProcessFolder ingests every regular, non-hidden file in dir in name order.
// Files with unsupported extensions are reported as failed results. Only an
// unreadable directory or a cancelled context returns an error.
func (p *Pipeline) ProcessFolder(ctx context.Context, kind types.DocumentKind, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	results := []Result{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, p.ProcessFile(ctx, kind, filepath.Join(dir, entry.Name())))
	}

	p.logger.Info("folder processed",
		zap.String("kind", string(kind)),
		zap.String("folder", dir),
		zap.Int("total", len(results)),
		zap.Int("succeeded", Summarize(results).Succeeded),
	)
	return results, nil
}

// copyToStorage copies sourcePath into the kind's upload directory and returns
// the destination. A file already at its destination is left alone.
func (p *Pipeline) copyToStorage(kind types.DocumentKind, sourcePath string) (string, error) {
	dir := p.dirs[kind]
	if dir == "" {
		return "", fmt.Errorf("no storage directory configured for %s", kind)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	dest := filepath.Join(dir, filepath.Base(sourcePath))

	srcAbs, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source path: %w", err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination path: %w", err)
	}
	if srcAbs == destAbs {
		if _, err := os.Stat(srcAbs); err != nil {
			return "", fmt.Errorf("failed to read source file: %w", err)
		}
		return dest, nil
	}

	if err := copyFile(srcAbs, destAbs); err != nil {
		return "", err
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}

// Summary counts the outcome of a batch
type Summary struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    []Result `json:"failed"`
}

// Summarize counts successes and collects failures
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), Failed: []Result{}}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed = append(s.Failed, r)
		}
	}
	return s
}
