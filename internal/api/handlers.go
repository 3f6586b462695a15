package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/harshith-118/AI-Interviewer/internal/export"
	"github.com/harshith-118/AI-Interviewer/internal/models"
)

// AnswerRequest is the body of POST /api/v1/interview/answer
type AnswerRequest struct {
	Index  int    `json:"index"`
	Answer string `json:"answer"`
}

// ExportResponse is the body of GET /api/v1/export
type ExportResponse struct {
	FileName string          `json:"file_name"`
	Content  string          `json:"content"`
	QAPairs  []models.QAPair `json:"qa_pairs"`
}

// AnalyzeResponse is the body of POST /api/v1/analyze
type AnalyzeResponse struct {
	Summary string `json:"summary"`
}

// handleGetInterview returns the session's interview state
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.respondJSON(w, http.StatusOK, s.agent.View(r.Context(), sess))
}

// handleUpload starts an interview from a multipart upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	up, err := parseUpload(w, r, s.agent.Params(sess))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	defer up.file.Close()

	view, err := s.agent.Upload(r.Context(), sess, up.filename, up.file, up.params)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, view)
}

// handleAnswer records an answer to the current question
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req AnswerRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxAnswerBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErr(w, r, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err))
		return
	}
	if err := checkAnswer(req.Answer); err != nil {
		s.respondErr(w, r, err)
		return
	}

	view, err := s.agent.Answer(r.Context(), sess, req.Index, req.Answer)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, view)
}

// handleExport returns the plain-text transcript
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	content, err := s.agent.ExportText(sess)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, ExportResponse{
		FileName: export.TextFileName,
		Content:  content,
		QAPairs:  s.agent.Pairs(sess),
	})
}

// handleAnalyze returns the review of the transcript
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	summary, err := s.agent.Analyze(r.Context(), sess)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, AnalyzeResponse{Summary: summary})
}
