// Package schemas provides JSON Schema validation for LLM-produced records.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/recruitment-manager/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

var schemaFileByKind = map[types.DocumentKind]string{
	types.KindJobDescription: "job_description.schema.json",
	types.KindResume:         "resume.schema.json",
}

var (
	compiled   = make(map[types.DocumentKind]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// SchemaFor returns the embedded JSON schema text for a document kind.
func SchemaFor(kind types.DocumentKind) (string, error) {
	name, ok := schemaFileByKind[kind]
	if !ok {
		return "", &SchemaLoadError{Path: string(kind), Message: "no schema for document kind"}
	}
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "schema file missing", Cause: err}
	}
	return string(data), nil
}

// ValidateFields validates a JSON document against the schema of kind.
// Compiled schemas are cached per kind.
func ValidateFields(kind types.DocumentKind, jsonContent string) error {
	schema, err := compiledSchema(kind)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaFileByKind[kind],
			Message: "document could not be loaded",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func compiledSchema(kind types.DocumentKind) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[kind]; ok {
		return s, nil
	}

	text, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, &SchemaLoadError{Path: schemaFileByKind[kind], Message: "invalid schema", Cause: err}
	}
	compiled[kind] = s
	return s, nil
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
