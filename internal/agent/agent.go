package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/harshith-118/AI-Interviewer/internal/analysis"
	"github.com/harshith-118/AI-Interviewer/internal/events"
	"github.com/harshith-118/AI-Interviewer/internal/export"
	"github.com/harshith-118/AI-Interviewer/internal/ingestion"
	"github.com/harshith-118/AI-Interviewer/internal/interview"
	"github.com/harshith-118/AI-Interviewer/internal/llm"
	"github.com/harshith-118/AI-Interviewer/internal/models"
	"github.com/harshith-118/AI-Interviewer/internal/prompts"
	"github.com/harshith-118/AI-Interviewer/internal/session"
)

// ErrInvalidInput marks requests rejected before any work is done
var ErrInvalidInput = errors.New("invalid input")

// Options wires the agent's collaborators
type Options struct {
	Store          *session.Store
	Files          *ingestion.FileHandler
	Client         llm.Client
	Prompts        *prompts.Set
	RequestTimeout time.Duration
	Publisher      events.Publisher
	Logger         *slog.Logger
}

// InterviewAgent orchestrates uploads, questions, answers, export and analysis
// for every session. Front-ends call it and never touch session state directly.
type InterviewAgent struct {
	store     *session.Store
	files     *ingestion.FileHandler
	client    llm.Client
	generator *interview.Generator
	analyzer  *analysis.Analyzer
	publisher events.Publisher
	logger    *slog.Logger
}

// New creates a new interview agent
func New(opts Options) *InterviewAgent {
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &InterviewAgent{
		store:     opts.Store,
		files:     opts.Files,
		client:    opts.Client,
		generator: interview.NewGenerator(opts.Client, opts.Prompts, opts.RequestTimeout, logger),
		analyzer:  analysis.NewAnalyzer(opts.Client, opts.Prompts, opts.RequestTimeout, logger),
		publisher: publisher,
		logger:    logger,
	}
}

// Session returns the session for id, creating one when id is empty or
// unknown. created tells the caller to hand the new ID back to the client.
func (a *InterviewAgent) Session(id string) (s *session.Session, created bool) {
	return a.store.GetOrCreate(id)
}

// LocalSession creates the single session of a desktop front-end. It is
// pinned so the sweeper never expires it while the window is open.
func (a *InterviewAgent) LocalSession() *session.Session {
	s, _ := a.store.GetOrCreate("")
	a.store.Pin(s.ID)
	return s
}

// Upload stores a document for the session, extracts its content and starts
// a new interview over it. On failure the session keeps its previous
// interview and transcript.
func (a *InterviewAgent) Upload(ctx context.Context, s *session.Session, filename string, content io.Reader, params models.GenerationParams) (models.InterviewView, error) {
	if err := params.Validate(); err != nil {
		return models.InterviewView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !ingestion.IsSupported(filename) {
		return models.InterviewView{}, fmt.Errorf("%w: only Excel (.xlsx) and PDF (.pdf) are supported", ingestion.ErrUnsupportedFormat)
	}

	s.Lock()
	defer s.Unlock()

	path, err := a.files.SaveUploadedFile(s.ID, filename, content)
	if err != nil {
		return models.InterviewView{}, fmt.Errorf("failed to save upload: %w", err)
	}

	data, err := ingestion.ExtractContent(path)
	if err != nil {
		a.logger.Warn("extraction failed", "session", s.ID, "file", filename, "error", err)
		return models.InterviewView{}, err
	}

	driver := interview.NewDriver(a.generator, &s.State, params)
	driver.Start(data)

	s.Driver = driver
	s.DocumentName = filename
	s.Kind = data.Kind
	s.Params = params

	a.logger.Info("document loaded",
		"session", s.ID,
		"file", filename,
		"kind", data.Kind,
		"units", driver.Total(),
	)
	loaded := events.NewEvent(s.ID)
	loaded.DocumentName = filename
	loaded.Kind = string(data.Kind)
	loaded.Units = driver.Total()
	a.publish(events.SubjectDocumentLoaded, loaded)

	return a.viewLocked(ctx, s), nil
}

// View returns the session's interview, generating the current question if
// it has not been generated yet.
func (a *InterviewAgent) View(ctx context.Context, s *session.Session) models.InterviewView {
	s.Lock()
	defer s.Unlock()
	return a.viewLocked(ctx, s)
}

// Answer records an answer to question index and returns the updated view
// with the next question.
func (a *InterviewAgent) Answer(ctx context.Context, s *session.Session, index int, text string) (models.InterviewView, error) {
	s.Lock()
	defer s.Unlock()

	if s.Driver == nil {
		return models.InterviewView{}, interview.ErrNotStarted
	}

	pair, err := s.Driver.Answer(ctx, index, text)
	if err != nil {
		return models.InterviewView{}, err
	}

	a.logger.Info("answer recorded",
		"session", s.ID,
		"index", index,
		"question", truncate(pair.Question, 80),
		"pairs", len(s.State.QAPairs),
	)
	e := events.NewEvent(s.ID)
	e.Pairs = len(s.State.QAPairs)
	a.publish(events.SubjectAnswerRecorded, e.WithIndex(index))

	return a.viewLocked(ctx, s), nil
}

// Params returns the generation parameters the session last used
func (a *InterviewAgent) Params(s *session.Session) models.GenerationParams {
	s.Lock()
	defer s.Unlock()
	return s.Params
}

// Pairs returns a copy of the session's transcript
func (a *InterviewAgent) Pairs(s *session.Session) []models.QAPair {
	s.Lock()
	defer s.Unlock()
	return s.State.Pairs()
}

// ExportText renders the transcript as plain text
func (a *InterviewAgent) ExportText(s *session.Session) (string, error) {
	content, ok := export.Text(a.Pairs(s))
	if !ok {
		return "", export.ErrNothingToExport
	}
	return content, nil
}

// ExportExcel writes the transcript workbook to w
func (a *InterviewAgent) ExportExcel(s *session.Session, w io.Writer) error {
	return export.WriteExcel(w, a.Pairs(s))
}

// Analyze asks for a review of the session's transcript
func (a *InterviewAgent) Analyze(ctx context.Context, s *session.Session) (string, error) {
	s.Lock()
	pairs := s.State.Pairs()
	params := s.Params
	s.Unlock()

	summary, err := a.analyzer.Analyze(ctx, pairs, params)
	if err != nil {
		return "", err
	}

	e := events.NewEvent(s.ID)
	e.Pairs = len(pairs)
	e.Failed = strings.HasPrefix(summary, analysis.SummaryErrorPrefix)
	a.publish(events.SubjectAnalysisCompleted, e)

	return summary, nil
}

// Close releases the service client and the event publisher
func (a *InterviewAgent) Close() error {
	a.publisher.Close()
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// viewLocked builds the view; the caller holds the session lock
func (a *InterviewAgent) viewLocked(ctx context.Context, s *session.Session) models.InterviewView {
	view := models.InterviewView{
		SessionID:    s.ID,
		DocumentName: s.DocumentName,
		Kind:         s.Kind,
		QAPairs:      s.State.Pairs(),
		Params:       s.Params,
	}

	d := s.Driver
	if d == nil {
		return view
	}

	view.Started = d.Started()
	view.TotalUnits = d.Total()

	pending := d.State() == interview.StateInProgress
	index, question, ok := d.Current(ctx)
	view.CurrentIndex = index
	view.Completed = d.Completed()
	if !ok {
		return view
	}
	view.CurrentQuestion = question

	if pending {
		e := events.NewEvent(s.ID)
		e.Failed = strings.HasPrefix(question, interview.QuestionErrorPrefix)
		a.publish(events.SubjectQuestionGenerated, e.WithIndex(index))
	}

	return view
}

// publish sends an event; failures are only logged
func (a *InterviewAgent) publish(subject string, e events.Event) {
	if err := a.publisher.Publish(subject, e); err != nil {
		a.logger.Warn("event publish failed", "subject", subject, "session", e.SessionID, "error", err)
	}
}

// truncate shortens s to maxLen bytes for log output
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
