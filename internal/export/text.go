// Package export renders an interview transcript for download.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

// ErrNothingToExport is returned when the transcript is empty
var ErrNothingToExport = errors.New("no Q&A to export yet")

// Download metadata for the two transcript formats
const (
	TextFileName  = "interview_qa.txt"
	TextMIME      = "text/plain; charset=utf-8"
	ExcelFileName = "interview_qa.xlsx"
	ExcelMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Text renders pairs as "Q: <question>\nA: <answer>" blocks separated by a
// blank line. ok is false when there is nothing to export.
func Text(pairs []models.QAPair) (content string, ok bool) {
	if len(pairs) == 0 {
		return "", false
	}

	blocks := make([]string, 0, len(pairs))
	for _, p := range pairs {
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s", p.Question, p.Answer))
	}
	return strings.Join(blocks, "\n\n"), true
}
