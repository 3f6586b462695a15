package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/harshith-118/AI-Interviewer/internal/interview"
	"github.com/harshith-118/AI-Interviewer/internal/models"
)

const (
	// TranscriptSheet holds one row per question/answer pair
	TranscriptSheet = "Transcript"
	// SummarySheet holds the report metadata
	SummarySheet = "Summary"
)

// WriteExcel writes the transcript workbook to w
func WriteExcel(w io.Writer, pairs []models.QAPair) error {
	if len(pairs) == 0 {
		return ErrNothingToExport
	}

	f, err := buildWorkbook(pairs, time.Now())
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// ExportToExcel saves the transcript workbook to outputPath, adding the
// .xlsx extension when missing. It returns the path actually written.
func ExportToExcel(pairs []models.QAPair, outputPath string) (string, error) {
	if len(pairs) == 0 {
		return "", ErrNothingToExport
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := buildWorkbook(pairs, time.Now())
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		// Fall back to writing through a buffer
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return "", fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return "", fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return outputPath, nil
}

func buildWorkbook(pairs []models.QAPair, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", TranscriptSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := createTranscriptSheet(f, TranscriptSheet, pairs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create transcript sheet: %w", err)
	}
	if err := createSummarySheet(f, SummarySheet, pairs, generated); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	return f, nil
}

// createTranscriptSheet writes the #, Question, Answer table
func createTranscriptSheet(f *excelize.File, sheetName string, pairs []models.QAPair) error {
	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "B", 60)
	f.SetColWidth(sheetName, "C", "C", 60)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	headers := []string{"#", "Question", "Answer"}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, pair := range pairs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), pair.Question)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), pair.Answer)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), bodyStyle)
	}

	return nil
}

// createSummarySheet writes when the transcript was exported and its size
func createSummarySheet(f *excelize.File, sheetName string, pairs []models.QAPair, generated time.Time) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 40)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Interview Transcript")
	f.SetCellStyle(sheetName, "A1", "B1", titleStyle)
	f.MergeCell(sheetName, "A1", "B1")

	ok := 0
	for _, p := range pairs {
		if !strings.HasPrefix(p.Question, interview.QuestionErrorPrefix) {
			ok++
		}
	}

	rows := []struct {
		label string
		value any
	}{
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Questions Answered:", len(pairs)},
		{"Questions Generated:", ok},
	}
	for i, r := range rows {
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.value)
	}

	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
