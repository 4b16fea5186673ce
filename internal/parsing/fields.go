// Package parsing turns extracted document text into structured job description
// and resume records using LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/schemas"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// Extractor extracts ParsedFields from document text with an LLM client.
type Extractor struct {
	client llm.Client
	logger *zap.Logger
}

// NewExtractor returns an Extractor using client. A nil logger disables logging.
func NewExtractor(client llm.Client, log *zap.Logger) *Extractor {
	return &Extractor{client: client, logger: logger.OrNop(log)}
}

// SchemaFor returns the prompt schema for kind
func SchemaFor(kind types.DocumentKind) (llm.ExtractionSchema, error) {
	switch kind {
	case types.KindJobDescription:
		return llm.JobDescriptionSchema(), nil
	case types.KindResume:
		return llm.ResumeSchema(), nil
	default:
		return llm.ExtractionSchema{}, fmt.Errorf("unknown document kind %q", kind)
	}
}

// ExtractFields asks the model for the kind's field set and decodes the reply.
// A failed call returns *UpstreamUnavailableError; a reply that is not valid
// JSON for the kind's schema returns *ExtractionParseError.
func (e *Extractor) ExtractFields(ctx context.Context, text string, kind types.DocumentKind) (types.ParsedFields, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}

	prompt := llm.BuildExtractionPrompt(schema, text)

	e.logger.Debug("requesting field extraction",
		zap.String("kind", string(kind)),
		zap.String("model", e.client.GetModel(llm.TierStandard)),
		zap.Int("text_length", len(text)),
	)

	responseText, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &UpstreamUnavailableError{
			Message: "failed to generate content from LLM",
			Cause:   err,
		}
	}

	return decodeResponse(kind, responseText)
}

// decodeResponse unwraps, validates and decodes a model reply.
func decodeResponse(kind types.DocumentKind, responseText string) (types.ParsedFields, error) {
	body := strings.TrimSpace(responseText)
	if unwrapped, ok := llm.UnwrapFencedCode(body); ok {
		body = unwrapped
	}

	if !json.Valid([]byte(body)) {
		return nil, &ExtractionParseError{
			Kind:     kind,
			Message:  "response is not valid JSON",
			Response: logger.TruncateForLog(body, 500),
		}
	}

	if err := schemas.ValidateFields(kind, body); err != nil {
		return nil, &ExtractionParseError{
			Kind:     kind,
			Message:  "response does not match schema",
			Response: logger.TruncateForLog(body, 500),
			Cause:    err,
		}
	}

	fields, err := types.DecodeFields(kind, []byte(body))
	if err != nil {
		return nil, &ExtractionParseError{Kind: kind, Message: "failed to decode record", Cause: err}
	}

	normalizeFields(fields)
	return fields, nil
}

func normalizeFields(fields types.ParsedFields) {
	switch f := fields.(type) {
	case *types.JobDescriptionFields:
		f.RequiredSkills = NormalizeSkills(f.RequiredSkills)
		f.NiceToHaveSkills = NormalizeSkills(f.NiceToHaveSkills)
	case *types.ResumeFields:
		f.Skills = NormalizeSkills(f.Skills)
	}
}
