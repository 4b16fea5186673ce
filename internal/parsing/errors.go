package parsing

import (
	"fmt"

	"github.com/jonathan/recruitment-manager/internal/types"
)

// UpstreamUnavailableError represents a failed call to the language model
type UpstreamUnavailableError struct {
	Message string
	Cause   error
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LLM call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LLM call failed: %s", e.Message)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Cause
}

// ExtractionParseError means the model reply could not be turned into a record
type ExtractionParseError struct {
	Kind    types.DocumentKind
	Message string
	// Response is the cleaned reply, kept for logging
	Response string
	Cause    error
}

func (e *ExtractionParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse %s fields: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse %s fields: %s", e.Kind, e.Message)
}

func (e *ExtractionParseError) Unwrap() error {
	return e.Cause
}
