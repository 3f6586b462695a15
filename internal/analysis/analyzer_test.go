package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClient struct {
	calls  int
	prompt string
	text   string
	err    error
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, params models.GenerationParams) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.text, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestAnalyze_NoResponses(t *testing.T) {
	client := &fakeClient{text: "should not be used"}
	a := NewAnalyzer(client, nil, 0, discardLogger())

	_, err := a.Analyze(context.Background(), nil, models.DefaultGenerationParams())
	if !errors.Is(err, ErrNoResponses) {
		t.Errorf("Expected ErrNoResponses, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("Expected no service call, got %d", client.calls)
	}
}

func TestAnalyze(t *testing.T) {
	pairs := []models.QAPair{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}

	tests := []struct {
		name string
		text string
		err  error
		want string
	}{
		{name: "Summary returned", text: "Clear and concise answers.", want: "Clear and concise answers."},
		{name: "Empty summary", text: "", want: "No summary generated."},
		{name: "Service failure", err: errors.New("permission denied"), want: "Error generating summary: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{text: tt.text, err: tt.err}
			a := NewAnalyzer(client, nil, 0, discardLogger())

			got, err := a.Analyze(context.Background(), pairs, models.DefaultGenerationParams())
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Analyze() = %q, want %q", got, tt.want)
			}
			if client.calls != 1 {
				t.Errorf("Expected exactly one service call, got %d", client.calls)
			}
			if !strings.Contains(client.prompt, "Q: q1\nA: a1\nQ: q2\nA: a2") {
				t.Errorf("Prompt should contain the joined responses, got %s", client.prompt)
			}
		})
	}
}

func TestFormatResponses(t *testing.T) {
	got := FormatResponses([]models.QAPair{{Question: "a", Answer: "b"}, {Question: "c", Answer: "d"}})
	if got != "Q: a\nA: b\nQ: c\nA: d" {
		t.Errorf("FormatResponses() = %q", got)
	}
}
