package export

import (
	"testing"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		pairs  []models.QAPair
		want   string
		wantOK bool
	}{
		{
			name:   "No pairs",
			pairs:  nil,
			want:   "",
			wantOK: false,
		},
		{
			name:   "Single pair",
			pairs:  []models.QAPair{{Question: "q1", Answer: "a1"}},
			want:   "Q: q1\nA: a1",
			wantOK: true,
		},
		{
			name: "Two pairs",
			pairs: []models.QAPair{
				{Question: "q1", Answer: "a1"},
				{Question: "q2", Answer: "a2"},
			},
			want:   "Q: q1\nA: a1\n\nQ: q2\nA: a2",
			wantOK: true,
		},
		{
			name:   "Multi-line answer kept verbatim",
			pairs:  []models.QAPair{{Question: "Why?", Answer: "line one\nline two"}},
			want:   "Q: Why?\nA: line one\nline two",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Text(tt.pairs)
			if ok != tt.wantOK {
				t.Errorf("Text() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}
