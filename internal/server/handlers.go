package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"qatbot/internal/models"
	"qatbot/internal/parser"
)

type uploadRequest struct {
	FilePaths []string `json:"file_paths"`
}

type queryRequest struct {
	Question string `json:"question"`
}

type evaluateRequest struct {
	Answer         string `json:"answer"`
	TestQuestionID string `json:"test_question_id"`
}

// handleUpload accepts either multipart PDF uploads or a JSON list of file
// paths, extracts one corpus string, chunks it and rebuilds the index.
// Validation happens before any side effect: a bad path or empty corpus
// never builds or persists anything.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	raw, err := s.extractUploadText(r)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	chunks := s.splitter.Split(raw)
	if len(chunks) == 0 {
		s.respondError(w, http.StatusBadRequest, "no text could be extracted from the provided documents")
		return
	}

	if err := s.store.Build(r.Context(), chunks); err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"message": "Document uploaded successfully"})
}

func (s *Server) extractUploadText(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			return "", fmt.Errorf("%w: invalid multipart body", models.ErrValidation)
		}
		var fields []string
		for field := range r.MultipartForm.File {
			fields = append(fields, field)
		}
		// field names are pdf_doc_0, pdf_doc_1, ... and plain lexical order
		// would put pdf_doc_10 before pdf_doc_2, so compare the numeric
		// suffix when both sides carry one
		sort.Slice(fields, func(i, j int) bool {
			pi, ni, oki := splitNumericSuffix(fields[i])
			pj, nj, okj := splitNumericSuffix(fields[j])
			if oki && okj && pi == pj {
				return ni < nj
			}
			return fields[i] < fields[j]
		})

		var uploads []models.Upload
		for _, field := range fields {
			for _, fh := range r.MultipartForm.File[field] {
				f, err := fh.Open()
				if err != nil {
					return "", fmt.Errorf("%w: unreadable upload %s", models.ErrValidation, fh.Filename)
				}
				data, err := io.ReadAll(f)
				_ = f.Close()
				if err != nil {
					return "", fmt.Errorf("%w: unreadable upload %s", models.ErrValidation, fh.Filename)
				}
				uploads = append(uploads, models.Upload{Name: fh.Filename, Data: data})
			}
		}
		return parser.ExtractUploads(uploads)
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.FilePaths) == 0 {
		return "", fmt.Errorf("%w: No files or file paths provided", models.ErrValidation)
	}
	return parser.ExtractPaths(req.FilePaths)
}

// splitNumericSuffix splits a field name like "pdf_doc_10" into its prefix
// and trailing integer. The third return is false when there is no suffix.
func splitNumericSuffix(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}

// handleQuery runs the generation pipeline for one question.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		s.respondError(w, http.StatusBadRequest, "Missing required field: 'question'")
		return
	}

	response, err := s.pipeline.Query(r.Context(), req.Question)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// handleEvaluate looks up the test question by id and scores the submitted
// answer against the stored reference answer.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answer == "" || req.TestQuestionID == "" {
		s.respondError(w, http.StatusBadRequest, "Missing required fields: 'answer' and 'test_question_id'")
		return
	}

	ctx := r.Context()
	correctAnswer, err := s.ledger.Answer(ctx, req.TestQuestionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Test question not found")
			return
		}
		s.respondFailure(w, err)
		return
	}
	question, err := s.ledger.Question(ctx, req.TestQuestionID)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	result, err := s.eval.Evaluate(ctx, question, req.Answer, correctAnswer)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"has_index": s.store.HasIndex(),
	})
}

// respondFailure maps the error taxonomy to HTTP statuses: validation
// failures are the client's fault, unknown ids are 404, everything else
// (extraction, embedding, generation, parsing) is a 500 with the raw
// message.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
