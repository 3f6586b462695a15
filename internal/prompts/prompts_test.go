package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDefaultQuestion(t *testing.T) {
	prompt, err := Default().Question(QuestionData{
		Data:    "name: Alice, role: Engineer",
		Context: "Q1: Who are you?\nA1: Alice.\n",
	})
	if err != nil {
		t.Fatalf("Question() error = %v", err)
	}

	for _, want := range []string{
		"professional interviewer",
		"Data: name: Alice, role: Engineer",
		"Previous Context: Q1: Who are you?\nA1: Alice.",
		"craft the next question",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt should contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestDefaultAnalysis(t *testing.T) {
	prompt, err := Default().Analysis(AnalysisData{Responses: "Q: q1\nA: a1"})
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}
	if !strings.Contains(prompt, "Q: q1\nA: a1") {
		t.Errorf("Prompt should embed the responses, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "suggestions on areas of improvement") {
		t.Errorf("Prompt should ask for improvement suggestions")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	prompt, _ := s.Question(QuestionData{Data: "x"})
	if !strings.Contains(prompt, "professional interviewer") {
		t.Errorf("Expected default question template")
	}
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "question: |\n  Ask one short question about {{.Data}}.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write prompts file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	q, err := s.Question(QuestionData{Data: "Go"})
	if err != nil {
		t.Fatalf("Question() error = %v", err)
	}
	if q != "Ask one short question about Go.\n" {
		t.Errorf("Unexpected overridden question prompt %q", q)
	}

	a, err := s.Analysis(AnalysisData{Responses: "Q: a\nA: b"})
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}
	if !strings.Contains(a, "professional scrutinizer") {
		t.Errorf("Analysis template should keep the default, got %q", a)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	os.WriteFile(badYAML, []byte("question: [unclosed"), 0644)

	badTemplate := filepath.Join(dir, "badtmpl.yaml")
	os.WriteFile(badTemplate, []byte("question: \"{{.Data\"\n"), 0644)

	tests := []struct {
		name string
		path string
	}{
		{name: "Missing file", path: filepath.Join(dir, "missing.yaml")},
		{name: "Invalid YAML", path: badYAML},
		{name: "Invalid template", path: badTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Load(%s) should fail", tt.path)
			}
		})
	}
}

func TestSanitizeUTF8_ValidString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Simple ASCII text", input: "Hello, World!"},
		{name: "Accented text", input: "José González answered in Spanish."},
		{name: "Multi-language text", input: "Interviewer - 面试官 - مقابلة"},
		{name: "Empty string", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeUTF8(tt.input); got != tt.input {
				t.Errorf("sanitizeUTF8() changed valid UTF-8 string: got %q, want %q", got, tt.input)
			}
		})
	}
}

func TestSanitizeUTF8_InvalidString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{name: "Invalid bytes at start", input: string([]byte{0xFF, 0xFE}) + "Valid text", contains: "Valid text"},
		{name: "Invalid bytes in middle", input: "Before" + string([]byte{0xFF}) + "After", contains: "Before�After"},
		{name: "Invalid continuation bytes", input: "Name: Alice" + string([]byte{0x80, 0x81}), contains: "Name: Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeUTF8(tt.input)
			if !utf8.ValidString(got) {
				t.Errorf("sanitizeUTF8() returned invalid UTF-8: %q", got)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("sanitizeUTF8() = %q, should contain %q", got, tt.contains)
			}
		})
	}
}

func TestQuestion_SanitizesExtractedText(t *testing.T) {
	prompt, err := Default().Question(QuestionData{Data: "page" + string([]byte{0xFF}) + "text"})
	if err != nil {
		t.Fatalf("Question() error = %v", err)
	}
	if !utf8.ValidString(prompt) {
		t.Errorf("Rendered prompt should be valid UTF-8")
	}
}
