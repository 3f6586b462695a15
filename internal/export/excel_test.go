package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

func samplePairs() []models.QAPair {
	return []models.QAPair{
		{Question: "What do you build?", Answer: "Data pipelines"},
		{Question: "Error generating question: timeout", Answer: "n/a"},
	}
}

func TestWriteExcel_TranscriptSheet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, samplePairs()); err != nil {
		t.Fatalf("WriteExcel() failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Failed to open written workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(TranscriptSheet)
	if err != nil {
		t.Fatalf("Failed to read %s sheet: %v", TranscriptSheet, err)
	}

	want := [][]string{
		{"#", "Question", "Answer"},
		{"1", "What do you build?", "Data pipelines"},
		{"2", "Error generating question: timeout", "n/a"},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("Cell (%d,%d) = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}

	if idx, _ := f.GetSheetIndex(SummarySheet); idx == -1 {
		t.Errorf("Expected %s sheet", SummarySheet)
	}
	if v, _ := f.GetCellValue(SummarySheet, "B5"); v != "1" {
		t.Errorf("Expected 1 successfully generated question in summary, got %q", v)
	}
}

func TestWriteExcel_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, nil); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("Expected ErrNothingToExport, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Nothing should be written for an empty transcript")
	}
}

// TestExportToExcel_EnsuresXlsxExtension tests that .xlsx extension is added if missing
func TestExportToExcel_EnsuresXlsxExtension(t *testing.T) {
	tmpDir := t.TempDir()

	outputPath := filepath.Join(tmpDir, "transcript")
	written, err := ExportToExcel(samplePairs(), outputPath)
	if err != nil {
		t.Fatalf("ExportToExcel() failed: %v", err)
	}

	expectedPath := outputPath + ".xlsx"
	if written != expectedPath {
		t.Errorf("Expected written path %s, got %s", expectedPath, written)
	}
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", expectedPath)
	}
}

// TestExportToExcel_HandlesExistingXlsxExtension tests that existing .xlsx extension is preserved
func TestExportToExcel_HandlesExistingXlsxExtension(t *testing.T) {
	tmpDir := t.TempDir()

	outputPath := filepath.Join(tmpDir, "transcript.XLSX")
	written, err := ExportToExcel(samplePairs(), outputPath)
	if err != nil {
		t.Fatalf("ExportToExcel() failed: %v", err)
	}
	if written != outputPath {
		t.Errorf("Expected path %s to be kept, got %s", outputPath, written)
	}
	if _, err := os.Stat(outputPath + ".xlsx"); !os.IsNotExist(err) {
		t.Errorf("Extension should not be doubled")
	}
}

func TestExportToExcel_Empty(t *testing.T) {
	if _, err := ExportToExcel(nil, filepath.Join(t.TempDir(), "x.xlsx")); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("Expected ErrNothingToExport, got %v", err)
	}
}
