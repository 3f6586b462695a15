// Package events publishes interview lifecycle events.
package events

import "time"

// Subjects for interview lifecycle events.
const (
	SubjectDocumentLoaded    = "interview.document.loaded"
	SubjectQuestionGenerated = "interview.question.generated"
	SubjectAnswerRecorded    = "interview.answer.recorded"
	SubjectAnalysisCompleted = "interview.analysis.completed"
)

// Event is the payload of every published message. Fields that do not apply
// to a subject are omitted.
type Event struct {
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	DocumentName string    `json:"document_name,omitempty"`
	Kind         string    `json:"kind,omitempty"`
	Units        int       `json:"units,omitempty"`
	Index        *int      `json:"index,omitempty"`
	Failed       bool      `json:"failed,omitempty"`
	Pairs        int       `json:"pairs,omitempty"`
}

// NewEvent stamps an event for a session with the current time
func NewEvent(sessionID string) Event {
	return Event{SessionID: sessionID, Timestamp: time.Now().UTC()}
}

// WithIndex sets the data unit index the event refers to
func (e Event) WithIndex(i int) Event {
	e.Index = &i
	return e
}

// Publisher sends events; implementations must not block the interview on
// delivery problems.
type Publisher interface {
	Publish(subject string, event Event) error
	Close()
}

// Noop discards every event
type Noop struct{}

// Publish discards the event
func (Noop) Publish(string, Event) error { return nil }

// Close does nothing
func (Noop) Close() {}
