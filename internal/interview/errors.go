package interview

import "fmt"

// ValidationError is returned for malformed start or answer input
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when no session exists for an ID
type NotFoundError struct {
	SessionID string
	// Message is the client-facing text; it differs between operations
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("session %q not found", e.SessionID)
}

// InvalidStateError is returned when an answer arrives for a completed session
type InvalidStateError struct {
	SessionID string
	Status    Status
}

func (e *InvalidStateError) Error() string {
	return "Interview session is not active"
}
