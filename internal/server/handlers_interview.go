package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/recruitment-manager/internal/types"
)

// decodeJSON decodes a request body, rejecting trailing garbage
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return fmt.Errorf("request body must hold a single JSON object")
	}
	return nil
}

// handleStartInterview opens a session and returns the first question
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req types.StartInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.interviews.Start(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmitAnswer scores an answer and returns the next question or the completion message
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.interviews.SubmitAnswer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.interviews.GetSession(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	var req types.EndInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.interviews.End(req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleInterviewResults(w http.ResponseWriter, r *http.Request) {
	report, err := s.interviews.Results(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleAllResults(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.interviews.AllResults())
}
