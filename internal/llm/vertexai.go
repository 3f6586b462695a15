package llm

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// VertexAIOptions configures the Vertex AI client
type VertexAIOptions struct {
	ProjectID       string
	Location        string
	Model           string
	CredentialsPath string // service account JSON; empty means application default credentials
}

// VertexAIClient wraps the Vertex AI Gemini API
type VertexAIClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexAIClient creates a new Vertex AI client
func NewVertexAIClient(ctx context.Context, opts VertexAIOptions) (*VertexAIClient, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT", ErrMissingCredential)
	}

	location := opts.Location
	if location == "" {
		location = "us-central1"
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsPath != "" {
		data, err := os.ReadFile(opts.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	}

	client, err := genai.NewClient(ctx, opts.ProjectID, location, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexAIClient{
		client:    client,
		modelName: opts.Model,
	}, nil
}

// GenerateContent sends a prompt to the model and returns the response.
// A model handle is built per call so concurrent sessions can use
// different generation parameters.
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string, params models.GenerationParams) (string, error) {
	model := v.client.GenerativeModel(v.modelName)
	model.SetTemperature(params.Temperature)
	model.SetMaxOutputTokens(int32(params.MaxOutputTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the Vertex AI client
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
