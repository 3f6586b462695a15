// Package interview turns extracted document content into a sequence of
// generated questions and records the answers given to them.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

var (
	// ErrEmptyAnswer is returned for an answer that is blank after trimming
	ErrEmptyAnswer = errors.New("answer must not be empty")
	// ErrOutOfOrder is returned when answering a question other than the current one
	ErrOutOfOrder = errors.New("answer is not for the current question")
	// ErrNotStarted is returned when no document has been loaded
	ErrNotStarted = errors.New("interview has not started")
	// ErrCompleted is returned when every data unit has been answered
	ErrCompleted = errors.New("interview is complete")
)

// State is the position of a driver in the interview lifecycle
type State string

const (
	StateNotStarted     State = "not_started"
	StateInProgress     State = "in_progress"
	StateAwaitingAnswer State = "awaiting_answer"
	StateCompleted      State = "completed"
)

// Questioner produces the question for one data unit
type Questioner interface {
	GenerateQuestion(ctx context.Context, unit models.DataUnit, history string, params models.GenerationParams) string
}

// Driver walks the data units of one document, one question at a time.
// It is not safe for concurrent use; callers serialize access per session.
type Driver struct {
	questioner Questioner
	state      *models.SessionState
	params     models.GenerationParams

	units     []models.DataUnit
	current   int
	started   bool
	questions map[int]string
}

// NewDriver creates a driver that records answers into state
func NewDriver(q Questioner, state *models.SessionState, params models.GenerationParams) *Driver {
	return &Driver{
		questioner: q,
		state:      state,
		params:     params,
		questions:  make(map[int]string),
	}
}

// Start loads the data units and positions the driver at the first one
func (d *Driver) Start(data models.ExtractedData) {
	d.units = data.Units()
	d.current = 0
	d.started = true
	d.questions = make(map[int]string)
}

// State reports where the driver is in the interview
func (d *Driver) State() State {
	switch {
	case !d.started:
		return StateNotStarted
	case d.Completed():
		return StateCompleted
	case d.hasQuestion(d.current):
		return StateAwaitingAnswer
	default:
		return StateInProgress
	}
}

// Completed reports whether every unit has been answered
func (d *Driver) Completed() bool {
	return d.started && d.current >= len(d.units)
}

// Started reports whether a document has been loaded
func (d *Driver) Started() bool {
	return d.started
}

// Index returns the 0-based index of the current unit
func (d *Driver) Index() int {
	return d.current
}

// Total returns the number of data units
func (d *Driver) Total() int {
	return len(d.units)
}

// Params returns the generation parameters used for every question
func (d *Driver) Params() models.GenerationParams {
	return d.params
}

// Current returns the question for the current unit, generating it on the
// first call only. ok is false before Start and after completion.
func (d *Driver) Current(ctx context.Context) (index int, question string, ok bool) {
	if !d.started || d.Completed() {
		return d.current, "", false
	}

	if q, found := d.questions[d.current]; found {
		return d.current, q, true
	}

	q := d.questioner.GenerateQuestion(ctx, d.units[d.current], d.state.Context, d.params)
	d.questions[d.current] = q
	return d.current, q, true
}

// Answer records a non-empty answer to the current question and advances.
// Rejected answers leave the driver and the session state unchanged.
func (d *Driver) Answer(ctx context.Context, index int, text string) (models.QAPair, error) {
	if !d.started {
		return models.QAPair{}, ErrNotStarted
	}
	if d.Completed() {
		return models.QAPair{}, ErrCompleted
	}
	if index != d.current {
		return models.QAPair{}, fmt.Errorf("%w: got %d, current is %d", ErrOutOfOrder, index, d.current)
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		return models.QAPair{}, ErrEmptyAnswer
	}

	_, question, _ := d.Current(ctx)
	pair := d.state.Record(question, answer)
	d.current++
	return pair, nil
}

func (d *Driver) hasQuestion(i int) bool {
	_, ok := d.questions[i]
	return ok
}
