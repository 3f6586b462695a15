package models

import (
	"fmt"
	"strings"
)

// DataKind identifies the shape of extracted document content
type DataKind string

const (
	KindTabular DataKind = "tabular"
	KindText    DataKind = "text"
)

// ChunkSeparator splits text documents into paragraph chunks
const ChunkSeparator = "\n\n"

// Table holds spreadsheet rows keyed by column name
type Table struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// ExtractedData is the content read from one uploaded document.
// Exactly one of Table or Text is meaningful, as indicated by Kind.
type ExtractedData struct {
	Kind  DataKind `json:"kind"`
	Table *Table   `json:"table,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// NewTabularData wraps a table as extracted data
func NewTabularData(t *Table) ExtractedData {
	return ExtractedData{Kind: KindTabular, Table: t}
}

// NewTextData wraps document text as extracted data
func NewTextData(text string) ExtractedData {
	return ExtractedData{Kind: KindText, Text: text}
}

// IsTabular reports whether the data came from a spreadsheet
func (d ExtractedData) IsTabular() bool {
	return d.Kind == KindTabular
}

// Units splits the data into the units an interview iterates over:
// one per row for tabular data, one per non-blank paragraph chunk for text.
func (d ExtractedData) Units() []DataUnit {
	if d.IsTabular() {
		if d.Table == nil {
			return nil
		}
		units := make([]DataUnit, 0, len(d.Table.Rows))
		for i, row := range d.Table.Rows {
			units = append(units, DataUnit{
				Index:   i,
				Columns: d.Table.Columns,
				Row:     row,
			})
		}
		return units
	}

	var units []DataUnit
	for _, chunk := range strings.Split(d.Text, ChunkSeparator) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		units = append(units, DataUnit{Index: len(units), Text: chunk})
	}
	return units
}

// DataUnit is one row or one text chunk used as the basis for one question
type DataUnit struct {
	Index   int               `json:"index"`
	Columns []string          `json:"columns,omitempty"`
	Row     map[string]string `json:"row,omitempty"`
	Text    string            `json:"text,omitempty"`
}

// String renders the unit for embedding in a prompt.
// Rows are rendered as "column: value" pairs in column order.
func (u DataUnit) String() string {
	if u.Row == nil {
		return u.Text
	}

	parts := make([]string, 0, len(u.Columns))
	for _, col := range u.Columns {
		parts = append(parts, fmt.Sprintf("%s: %s", col, u.Row[col]))
	}
	return strings.Join(parts, ", ")
}

// QAPair is one answered interview question
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SessionState is the running transcript of one interview session
type SessionState struct {
	Context string   `json:"context"`
	QAPairs []QAPair `json:"qa_pairs"`
}

// Record appends an answered question and extends the context with
// "Qn: question\nAn: answer\n", where n is the pair's 1-based ordinal.
func (s *SessionState) Record(question, answer string) QAPair {
	pair := QAPair{Question: question, Answer: answer}
	s.QAPairs = append(s.QAPairs, pair)

	n := len(s.QAPairs)
	s.Context += fmt.Sprintf("Q%d: %s\nA%d: %s\n", n, question, n, answer)
	return pair
}

// Pairs returns a copy of the recorded pairs
func (s *SessionState) Pairs() []QAPair {
	out := make([]QAPair, len(s.QAPairs))
	copy(out, s.QAPairs)
	return out
}

// Generation parameter bounds, matching the controls offered by the UI
const (
	DefaultTemperature     = 0.7
	MinTemperature         = 0.0
	MaxTemperature         = 1.0
	DefaultMaxOutputTokens = 256
	MinMaxOutputTokens     = 50
	MaxMaxOutputTokens     = 1000
)

// GenerationParams controls a single completion request
type GenerationParams struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// DefaultGenerationParams returns the parameters used when the user sets none
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// Validate checks that the parameters are within the supported ranges
func (p GenerationParams) Validate() error {
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		return fmt.Errorf("temperature must be between %.1f and %.1f, got %.2f", MinTemperature, MaxTemperature, p.Temperature)
	}
	if p.MaxOutputTokens < MinMaxOutputTokens || p.MaxOutputTokens > MaxMaxOutputTokens {
		return fmt.Errorf("max output tokens must be between %d and %d, got %d", MinMaxOutputTokens, MaxMaxOutputTokens, p.MaxOutputTokens)
	}
	return nil
}

// InterviewView is a snapshot of an interview for rendering
type InterviewView struct {
	SessionID       string           `json:"session_id"`
	DocumentName    string           `json:"document_name,omitempty"`
	Kind            DataKind         `json:"kind,omitempty"`
	TotalUnits      int              `json:"total_units"`
	CurrentIndex    int              `json:"current_index"`
	CurrentQuestion string           `json:"current_question,omitempty"`
	Completed       bool             `json:"completed"`
	Started         bool             `json:"started"`
	QAPairs         []QAPair         `json:"qa_pairs"`
	Params          GenerationParams `json:"params"`
}
