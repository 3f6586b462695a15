package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harshith-118/AI-Interviewer/internal/config"
	"github.com/harshith-118/AI-Interviewer/internal/models"
)

// ErrMissingCredential is returned by every call of a client whose
// credential was absent at startup
var ErrMissingCredential = errors.New("generative service credential not configured")

// Client is a single-shot text completion capability
type Client interface {
	// GenerateContent sends a prompt to the model and returns the response text
	GenerateContent(ctx context.Context, prompt string, params models.GenerationParams) (string, error)
	Close() error
}

// NewClient creates the client for the configured provider. When the provider
// cannot be initialised (missing key, missing project) the returned client
// fails every call with the initialisation error, so the application can
// still start and report the problem per request.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Client, error) {
	model := cfg.Model()

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		if cfg.GoogleAPIKey == "" {
			logger.Warn("GOOGLE_API_KEY not set, generation calls will fail", "provider", cfg.LLMProvider)
			return unavailable{err: fmt.Errorf("%w: GOOGLE_API_KEY", ErrMissingCredential)}, nil
		}
		return NewOpenAIClient(cfg.GoogleAPIKey, GeminiOpenAIBaseURL, model), nil

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY not set, generation calls will fail", "provider", cfg.LLMProvider)
			return unavailable{err: fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingCredential)}, nil
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model), nil

	case config.ProviderVertexAI:
		client, err := NewVertexAIClient(ctx, VertexAIOptions{
			ProjectID:       cfg.GoogleCloudProject,
			Location:        cfg.GoogleCloudLocation,
			Model:           model,
			CredentialsPath: cfg.GoogleCredentialsPath,
		})
		if err != nil {
			logger.Warn("vertex ai client unavailable, generation calls will fail", "error", err)
			return unavailable{err: err}, nil
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}

// unavailable is a Client whose every call fails with the same error
type unavailable struct {
	err error
}

func (u unavailable) GenerateContent(ctx context.Context, prompt string, params models.GenerationParams) (string, error) {
	return "", u.err
}

func (u unavailable) Close() error { return nil }
