package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/interview"
	"github.com/jonathan/recruitment-manager/internal/jobdesc"
)

// ErrValidation indicates a malformed request
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrNotFound indicates a missing document
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation   *ErrValidation
		notFound     *ErrNotFound
		ivValidation *interview.ValidationError
		ivNotFound   *interview.NotFoundError
		ivState      *interview.InvalidStateError
		unsupported  *extraction.UnsupportedFormatError
		generation   *jobdesc.GenerationError
	)

	switch {
	case errors.As(err, &validation),
		errors.As(err, &ivValidation),
		errors.As(err, &ivState),
		errors.As(err, &unsupported),
		errors.Is(err, jobdesc.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &ivNotFound):
		return http.StatusNotFound
	case errors.As(err, &generation):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
