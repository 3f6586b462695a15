package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/harshith-118/AI-Interviewer/internal/analysis"
	"github.com/harshith-118/AI-Interviewer/internal/export"
	"github.com/harshith-118/AI-Interviewer/internal/models"
	"github.com/harshith-118/AI-Interviewer/internal/session"
)

// noResponsesWarning is shown on the analyze page for an empty transcript
const noResponsesWarning = "No responses to analyze yet."

// pageData feeds the page template
type pageData struct {
	Mode    string
	Title   string
	Error   string
	Warning string
	Summary string
	View    models.InterviewView

	MinTemperature float32
	MaxTemperature float32
	MinMaxTokens   int
	MaxMaxTokens   int
	MaxAnswerChars int
}

// newPageData fills the fields every page needs
func newPageData(mode, title string, view models.InterviewView) pageData {
	return pageData{
		Mode:           mode,
		Title:          title,
		View:           view,
		MinTemperature: models.MinTemperature,
		MaxTemperature: models.MaxTemperature,
		MinMaxTokens:   models.MinMaxOutputTokens,
		MaxMaxTokens:   models.MaxMaxOutputTokens,
		MaxAnswerChars: maxAnswerChars,
	}
}

// render executes the page template into a buffer first so a template
// failure can still produce a clean 500
func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "page", data); err != nil {
		s.logger.Error("failed to render page", "mode", data.Mode, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// handleInterviewPage shows the upload form and the current question
func (s *Server) handleInterviewPage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	view := s.agent.View(r.Context(), sess)
	s.render(w, http.StatusOK, newPageData("interview", "Start Interview", view))
}

// handleUploadForm starts an interview from an uploaded document
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	up, err := parseUpload(w, r, s.agent.Params(sess))
	if err != nil {
		s.renderInterviewError(w, r, sess, err)
		return
	}
	defer up.file.Close()

	if _, err := s.agent.Upload(r.Context(), sess, up.filename, up.file, up.params); err != nil {
		s.renderInterviewError(w, r, sess, err)
		return
	}

	http.Redirect(w, r, "/interview", http.StatusSeeOther)
}

// handleAnswerForm records an answer typed into the interview page
func (s *Server) handleAnswerForm(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxAnswerBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderInterviewError(w, r, sess, errBadRequest)
		return
	}

	index, err := strconv.Atoi(r.PostFormValue("index"))
	if err != nil {
		s.renderInterviewError(w, r, sess, errors.Join(errBadRequest, errors.New("index must be an integer")))
		return
	}
	answer := r.PostFormValue("answer")
	if err := checkAnswer(answer); err != nil {
		s.renderInterviewError(w, r, sess, err)
		return
	}

	if _, err := s.agent.Answer(r.Context(), sess, index, answer); err != nil {
		s.renderInterviewError(w, r, sess, err)
		return
	}

	http.Redirect(w, r, "/interview", http.StatusSeeOther)
}

// renderInterviewError shows the interview page with err above it
func (s *Server) renderInterviewError(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	view := s.agent.View(r.Context(), sess)

	data := newPageData("interview", "Start Interview", view)
	data.Error = err.Error()
	s.render(w, statusFor(err), data)
}

// handleExportPage offers the transcript downloads
func (s *Server) handleExportPage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	view := models.InterviewView{SessionID: sess.ID, QAPairs: s.agent.Pairs(sess)}
	s.render(w, http.StatusOK, newPageData("export", "Export Q&A", view))
}

// handleExportDownload sends the transcript as an attachment
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if r.URL.Query().Get("format") == "xlsx" {
		var buf bytes.Buffer
		if err := s.agent.ExportExcel(sess, &buf); err != nil {
			s.writeExportError(w, err)
			return
		}
		w.Header().Set("Content-Type", export.ExcelMIME)
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.ExcelFileName+`"`)
		w.Write(buf.Bytes())
		return
	}

	content, err := s.agent.ExportText(sess)
	if err != nil {
		s.writeExportError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.TextMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.TextFileName+`"`)
	w.Write([]byte(content))
}

func (s *Server) writeExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, export.ErrNothingToExport) {
		http.Error(w, "No Q&A to export yet.", http.StatusNotFound)
		return
	}
	s.logger.Error("export failed", "error", err)
	http.Error(w, "export failed", http.StatusInternalServerError)
}

// handleAnalyzePage shows the review of the transcript
func (s *Server) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	data := newPageData("analyze", "Analyze Responses", models.InterviewView{SessionID: sess.ID})

	summary, err := s.agent.Analyze(r.Context(), sess)
	switch {
	case errors.Is(err, analysis.ErrNoResponses):
		data.Warning = noResponsesWarning
	case err != nil:
		data.Error = err.Error()
		s.render(w, statusFor(err), data)
		return
	default:
		data.Summary = summary
	}

	s.render(w, http.StatusOK, data)
}
