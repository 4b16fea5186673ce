package types

import (
	"github.com/go-playground/validator/v10"
)

// GenerateJDRequest is the body of POST /generate-jd
type GenerateJDRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// StartInterviewRequest is the body of POST /api/interview/start
type StartInterviewRequest struct {
	CandidateID   string   `json:"candidateId" validate:"required"`
	CandidateName string   `json:"candidateName,omitempty"`
	Skills        []string `json:"skills" validate:"required,min=1,dive,required"`
	NumQuestions  int      `json:"numQuestions,omitempty"`
}

// SubmitAnswerRequest is the body of POST /api/interview/answer
type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

// EndInterviewRequest is the body of POST /api/interview/end
type EndInterviewRequest struct {
	SessionID string `json:"sessionId"`
}

// Validate validates the GenerateJDRequest using the validator.
func (r *GenerateJDRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the StartInterviewRequest using the validator.
func (r *StartInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
