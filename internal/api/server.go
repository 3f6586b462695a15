package api

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harshith-118/AI-Interviewer/internal/agent"
	"github.com/harshith-118/AI-Interviewer/internal/analysis"
	"github.com/harshith-118/AI-Interviewer/internal/export"
	"github.com/harshith-118/AI-Interviewer/internal/ingestion"
	"github.com/harshith-118/AI-Interviewer/internal/interview"
)

const (
	// maxUploadBytes bounds a multipart upload request
	maxUploadBytes = 32 << 20
	// maxAnswerChars bounds a single typed answer, counted in characters like
	// the browser's maxlength
	maxAnswerChars = 10 << 10
	// maxAnswerBodyBytes bounds an answer request body: a percent-encoded or
	// \u-escaped character takes up to 12 bytes
	maxAnswerBodyBytes = 12*maxAnswerChars + 1<<10
)

//go:embed templates/*.html
var templateFS embed.FS

// Server handles HTTP requests
type Server struct {
	agent  *agent.InterviewAgent
	router *chi.Mux
	pages  *template.Template
	logger *slog.Logger
}

// NewServer creates a new server with the HTML pages and the JSON API
func NewServer(a *agent.InterviewAgent, logger *slog.Logger) (*Server, error) {
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		agent:  a,
		router: router,
		pages:  pages,
		logger: logger,
	}

	router.Get("/health", s.handleHealth)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/interview", http.StatusSeeOther)
	})
	router.Get("/interview", s.handleInterviewPage)
	router.Post("/interview/upload", s.handleUploadForm)
	router.Post("/interview/answer", s.handleAnswerForm)
	router.Get("/export", s.handleExportPage)
	router.Get("/export/download", s.handleExportDownload)
	router.Get("/analyze", s.handleAnalyzePage)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/interview", s.handleGetInterview)
		r.Post("/interview/upload", s.handleUpload)
		r.Post("/interview/answer", s.handleAnswer)
		r.Get("/export", s.handleExport)
		r.Post("/analyze", s.handleAnalyze)
	})

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

// NewHTTPServer wraps the router with the timeouts used in production.
// Writes may block on a generation call, so the write timeout leaves room
// for the request timeout.
func (s *Server) NewHTTPServer(addr string, requestTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      requestTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedFormat),
		errors.Is(err, agent.ErrInvalidInput),
		errors.Is(err, interview.ErrEmptyAnswer),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, interview.ErrOutOfOrder),
		errors.Is(err, interview.ErrCompleted),
		errors.Is(err, interview.ErrNotStarted):
		return http.StatusConflict
	case errors.Is(err, ingestion.ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, export.ErrNothingToExport),
		errors.Is(err, analysis.ErrNoResponses):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondErr maps err to a status and sends it; server errors are logged
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	s.respondError(w, status, err.Error())
}
