package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harshith-118/AI-Interviewer/internal/llm"
	"github.com/harshith-118/AI-Interviewer/internal/models"
	"github.com/harshith-118/AI-Interviewer/internal/prompts"
)

const (
	// NoQuestionPlaceholder is returned when the service answers with no text
	NoQuestionPlaceholder = "No response generated."
	// QuestionErrorPrefix starts the question returned when generation fails
	QuestionErrorPrefix = "Error generating question: "
)

// Generator asks the generative service for interview questions
type Generator struct {
	client  llm.Client
	prompts *prompts.Set
	timeout time.Duration
	logger  *slog.Logger
}

// NewGenerator creates a question generator. A zero timeout means the
// caller's context alone bounds each call.
func NewGenerator(client llm.Client, p *prompts.Set, timeout time.Duration, logger *slog.Logger) *Generator {
	if p == nil {
		p = prompts.Default()
	}
	return &Generator{
		client:  client,
		prompts: p,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateQuestion returns the next question for a data unit. It never fails:
// errors come back as "Error generating question: <message>" and an empty
// completion as "No response generated.".
func (g *Generator) GenerateQuestion(ctx context.Context, unit models.DataUnit, history string, params models.GenerationParams) string {
	prompt, err := g.prompts.Question(prompts.QuestionData{
		Data:    unit.String(),
		Context: history,
	})
	if err != nil {
		g.logger.Error("question prompt failed", "unit", unit.Index, "error", err)
		return QuestionErrorPrefix + err.Error()
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.client.GenerateContent(ctx, prompt, params)
	if err != nil {
		g.logger.Warn("question generation failed",
			"unit", unit.Index,
			"duration", time.Since(start),
			"rate_limited", llm.IsRateLimitError(err),
			"error", err,
		)
		return fmt.Sprintf("%s%v", QuestionErrorPrefix, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn("empty question generated", "unit", unit.Index)
		return NoQuestionPlaceholder
	}

	g.logger.Debug("question generated", "unit", unit.Index, "duration", time.Since(start))
	return text
}
