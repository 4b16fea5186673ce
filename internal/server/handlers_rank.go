package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/jobdesc"
	"github.com/jonathan/recruitment-manager/internal/ranking"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// rankExtensions are the upload types /rank scores; anything else is skipped
var rankExtensions = map[string]bool{".pdf": true, ".docx": true}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// handleGenerateJD writes a job description for the given prompt
func (s *Server) handleGenerateJD(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateJDRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil || strings.TrimSpace(req.Prompt) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'prompt'")
		return
	}

	markdown, err := s.jobdescs.Generate(r.Context(), req.Prompt)
	if err != nil {
		var genErr *jobdesc.GenerationError
		if errors.As(err, &genErr) {
			s.logger.Error("job description generation failed", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, genErr.Message)
			return
		}
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"markdown": markdown})
}

// handleRank scores uploaded resumes against the posted job description
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	jdText := strings.TrimSpace(r.FormValue("jd"))
	if jdText == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'jd' in form-data")
		return
	}

	headers := uploadedFiles(r)
	if len(headers) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Upload at least one file under 'files'")
		return
	}

	dir, err := os.MkdirTemp(s.uploadDir, "rank-")
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to create upload directory: %w", err))
		return
	}
	defer os.RemoveAll(dir)

	var paths []string
	for i, fh := range headers {
		if !rankExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
			s.logger.Debug("skipping unsupported upload", zap.String("filename", fh.Filename))
			continue
		}
		// one subdirectory per part keeps duplicate names apart
		path, err := saveUpload(fh, filepath.Join(dir, strconv.Itoa(i)))
		if err != nil {
			s.writeError(w, err)
			return
		}
		paths = append(paths, path)
	}

	rankings, err := ranking.RankFiles(r.Context(), s.scorer, jdText, paths, s.rankOptions)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to rank resumes: %w", err))
		return
	}
	if rankings == nil {
		rankings = []types.SimilarityResult{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"rankings": rankings,
		"count":    len(rankings),
	})
}

// uploadedFiles returns the parts under "files", accepting the "files[]" spelling too
func uploadedFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	var out []*multipart.FileHeader
	out = append(out, r.MultipartForm.File["files"]...)
	out = append(out, r.MultipartForm.File["files[]"]...)
	return out
}

// saveUpload copies an uploaded part into dir under a sanitized name
func saveUpload(fh *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(dir, secureFilename(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// secureFilename strips directories and unsafe characters from a client filename
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

// isSupportedUpload reports whether the ingestion pipeline can read name
func isSupportedUpload(name string) bool {
	return extraction.IsSupported(name)
}
