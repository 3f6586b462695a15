// Package prompts holds the templates used to ask the generative service
// for interview questions and for a review of the answers.
package prompts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// DefaultQuestionTemplate asks for the next interview question.
// Fields: .Data (the data unit) and .Context (previous questions and answers).
const DefaultQuestionTemplate = `You are an intelligent and professional interviewer conducting an insightful interview based on the given data.
Your goal is to ask specific, domain-relevant, and engaging questions that build on previous responses.

Data: {{.Data}}

Previous Context: {{.Context}}

Based on this information, craft the next question:
`

// DefaultAnalysisTemplate asks for a review of the transcript.
// Fields: .Responses (the Q&A transcript).
const DefaultAnalysisTemplate = `You are a professional scrutinizer. Based on the following Q&A conversation, provide a concise review of how the questions were answered and suggestions on areas of improvement:
{{.Responses}}
`

// File is the YAML layout of a prompts override file
type File struct {
	Question string `yaml:"question"`
	Analysis string `yaml:"analysis"`
}

// Set is a parsed pair of templates
type Set struct {
	question *template.Template
	analysis *template.Template
}

// QuestionData fills the question template
type QuestionData struct {
	Data    string
	Context string
}

// AnalysisData fills the analysis template
type AnalysisData struct {
	Responses string
}

// Default returns the built-in templates
func Default() *Set {
	s, err := parse(DefaultQuestionTemplate, DefaultAnalysisTemplate)
	if err != nil {
		panic(fmt.Sprintf("built-in prompt templates do not parse: %v", err))
	}
	return s
}

// Load reads a YAML override file. Keys that are missing or empty keep the
// built-in template. An empty path returns the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	question := DefaultQuestionTemplate
	if f.Question != "" {
		question = f.Question
	}
	analysis := DefaultAnalysisTemplate
	if f.Analysis != "" {
		analysis = f.Analysis
	}

	return parse(question, analysis)
}

func parse(question, analysis string) (*Set, error) {
	q, err := template.New("question").Option("missingkey=error").Parse(question)
	if err != nil {
		return nil, fmt.Errorf("invalid question template: %w", err)
	}
	a, err := template.New("analysis").Option("missingkey=error").Parse(analysis)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis template: %w", err)
	}
	return &Set{question: q, analysis: a}, nil
}

// Question renders the question prompt
func (s *Set) Question(data QuestionData) (string, error) {
	var buf bytes.Buffer
	if err := s.question.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render question prompt: %w", err)
	}
	return sanitizeUTF8(buf.String()), nil
}

// Analysis renders the analysis prompt
func (s *Set) Analysis(data AnalysisData) (string, error) {
	var buf bytes.Buffer
	if err := s.analysis.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render analysis prompt: %w", err)
	}
	return sanitizeUTF8(buf.String()), nil
}

// sanitizeUTF8 replaces invalid byte sequences, which the generative APIs
// reject, with the Unicode replacement character. Text pulled out of PDFs
// is the usual source of them.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
