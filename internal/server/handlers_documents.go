package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/ingestion"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// documentKind parses the {kind} path segment
func documentKind(r *http.Request) (types.DocumentKind, error) {
	kind, err := types.ParseDocumentKind(r.PathValue("kind"))
	if err != nil {
		return "", &ErrValidation{Field: "kind", Message: err.Error()}
	}
	return kind, nil
}

// handleIngestDocuments runs the ingestion pipeline over uploaded files
func (s *Server) handleIngestDocuments(w http.ResponseWriter, r *http.Request) {
	if s.ingestion == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Document ingestion is not configured")
		return
	}
	kind, err := documentKind(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := uploadedFiles(r)
	if len(headers) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Upload at least one file under 'files'")
		return
	}

	dir, err := os.MkdirTemp(s.uploadDir, "ingest-")
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to create upload directory: %w", err))
		return
	}
	defer os.RemoveAll(dir)

	results := make([]ingestion.Result, 0, len(headers))
	for i, fh := range headers {
		if !isSupportedUpload(fh.Filename) {
			results = append(results, ingestion.Result{
				Filename:   fh.Filename,
				Kind:       kind,
				Error:      fmt.Sprintf("unsupported file type: %s", filepath.Ext(fh.Filename)),
				FailedStep: ingestion.StepReceived,
			})
			continue
		}
		path, err := saveUpload(fh, filepath.Join(dir, strconv.Itoa(i)))
		if err != nil {
			results = append(results, ingestion.Result{
				Filename:   fh.Filename,
				Kind:       kind,
				Error:      err.Error(),
				FailedStep: ingestion.StepReceived,
			})
			continue
		}
		results = append(results, s.ingestion.ProcessFile(r.Context(), kind, path))
	}

	summary := ingestion.Summarize(results)
	s.logger.Info("ingested uploads",
		zap.String("kind", string(kind)),
		zap.Int("total", summary.Total),
		zap.Int("failed", len(summary.Failed)),
	)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results": results,
		"summary": summary,
	})
}

// handleListDocuments lists raw records, newest first
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Document store is not configured")
		return
	}
	kind, err := documentKind(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "limit must be a non-negative integer"})
			return
		}
	}

	docs, err := s.documents.ListRaw(r.Context(), kind, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

// handleGetParsedDocument returns the newest parsed record of a raw document
func (s *Server) handleGetParsedDocument(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Document store is not configured")
		return
	}
	kind, err := documentKind(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid document id"})
		return
	}

	raw, err := s.documents.GetRaw(r.Context(), kind, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if raw == nil {
		s.writeError(w, &ErrNotFound{Resource: kind.Label(), ID: idStr})
		return
	}

	parsed, err := s.documents.GetParsedByRawID(r.Context(), kind, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if parsed == nil {
		s.writeError(w, &ErrNotFound{Resource: "parsed " + kind.Label(), ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, parsed)
}
