// Package analysis asks the generative service for a review of an
// interview transcript.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harshith-118/AI-Interviewer/internal/llm"
	"github.com/harshith-118/AI-Interviewer/internal/models"
	"github.com/harshith-118/AI-Interviewer/internal/prompts"
)

// ErrNoResponses is returned when there is nothing to analyze
var ErrNoResponses = errors.New("no responses to analyze yet")

const (
	// NoSummaryPlaceholder is returned when the service answers with no text
	NoSummaryPlaceholder = "No summary generated."
	// SummaryErrorPrefix starts the summary returned when generation fails
	SummaryErrorPrefix = "Error generating summary: "
)

// Analyzer reviews how the interview questions were answered
type Analyzer struct {
	client  llm.Client
	prompts *prompts.Set
	timeout time.Duration
	logger  *slog.Logger
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(client llm.Client, p *prompts.Set, timeout time.Duration, logger *slog.Logger) *Analyzer {
	if p == nil {
		p = prompts.Default()
	}
	return &Analyzer{
		client:  client,
		prompts: p,
		timeout: timeout,
		logger:  logger,
	}
}

// Analyze returns the service's review of the transcript. Service failures
// come back as "Error generating summary: <message>" rather than as errors;
// the only error is ErrNoResponses.
func (a *Analyzer) Analyze(ctx context.Context, pairs []models.QAPair, params models.GenerationParams) (string, error) {
	if len(pairs) == 0 {
		return "", ErrNoResponses
	}

	prompt, err := a.prompts.Analysis(prompts.AnalysisData{Responses: FormatResponses(pairs)})
	if err != nil {
		a.logger.Error("analysis prompt failed", "error", err)
		return SummaryErrorPrefix + err.Error(), nil
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	summary, err := a.client.GenerateContent(ctx, prompt, params)
	if err != nil {
		a.logger.Warn("analysis failed",
			"pairs", len(pairs),
			"duration", time.Since(start),
			"rate_limited", llm.IsRateLimitError(err),
			"error", err,
		)
		return fmt.Sprintf("%s%v", SummaryErrorPrefix, err), nil
	}

	if strings.TrimSpace(summary) == "" {
		return NoSummaryPlaceholder, nil
	}

	a.logger.Info("analysis completed", "pairs", len(pairs), "duration", time.Since(start))
	return summary, nil
}

// FormatResponses renders pairs as "Q: q\nA: a" entries joined by newlines
func FormatResponses(pairs []models.QAPair) string {
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", p.Question, p.Answer))
	}
	return strings.Join(lines, "\n")
}
