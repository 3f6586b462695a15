package ingestion

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	rpdf "rsc.io/pdf"

	"github.com/harshith-118/AI-Interviewer/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for any extension other than .xlsx or .pdf
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction wraps any failure to parse a supported document
	ErrExtraction = errors.New("failed to extract content")
)

// PageSeparator joins the text of consecutive PDF pages
const PageSeparator = "\n\n"

// SupportedExtensions lists the upload formats accepted by ExtractContent
var SupportedExtensions = []string{".xlsx", ".pdf"}

// IsSupported reports whether the file name has an extension ExtractContent accepts
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractContent reads a spreadsheet or PDF into ExtractedData
func ExtractContent(filePath string) (models.ExtractedData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".xlsx":
		table, err := extractSpreadsheet(filePath)
		if err != nil {
			return models.ExtractedData{}, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return models.NewTabularData(table), nil
	case ".pdf":
		text, err := extractPDF(filePath)
		if err != nil {
			return models.ExtractedData{}, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return models.NewTextData(text), nil
	default:
		return models.ExtractedData{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// extractSpreadsheet reads the first worksheet. The first row is the header.
func extractSpreadsheet(filePath string) (*models.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	table := &models.Table{Columns: []string{}, Rows: []map[string]string{}}
	if len(rows) == 0 {
		return table, nil
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	header := rows[0]
	names := make([]string, width)
	for i := range names {
		if i < len(header) {
			names[i] = strings.TrimSpace(header[i])
		}
		if names[i] == "" {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	table.Columns = uniqueColumns(names)

	for _, row := range rows[1:] {
		record := make(map[string]string, width)
		for i, col := range table.Columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// uniqueColumns renames repeated header names to "name.1", "name.2" and so
// on, skipping suffixes that are already taken, so no cell is lost.
func uniqueColumns(names []string) []string {
	counts := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		for n := counts[name]; n > 0; n = counts[name] {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		counts[name]++
		out[i] = name
	}
	return out
}

// extractPDF reads every page in order and joins the page texts.
// The decoder panics on some malformed input, so panics become errors.
func extractPDF(filePath string) (text string, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat PDF: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	doc, err := rpdf.NewReader(file, info.Size())
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	n := doc.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		glyphs := page.Content().Text
		if len(glyphs) == 0 || hasWidths(glyphs) {
			pages = append(pages, pageText(glyphs))
		} else {
			pages = append(pages, streamText(page))
		}
	}

	return strings.Join(pages, PageSeparator), nil
}

// pageText rebuilds lines from positioned glyphs: a change of baseline starts
// a new line and a horizontal gap wider than a fraction of the font size
// inserts a space.
func pageText(glyphs []rpdf.Text) string {
	var b strings.Builder
	var lastY, lastEnd float64
	for i, g := range glyphs {
		if i > 0 {
			switch {
			case math.Abs(g.Y-lastY) > g.FontSize/2:
				b.WriteString("\n")
			case g.X-lastEnd > g.FontSize*0.2:
				b.WriteString(" ")
			}
		}
		b.WriteString(g.S)
		lastY = g.Y
		lastEnd = g.X + g.W
	}
	return tidyLines(b.String())
}

// hasWidths reports whether the fonts supplied glyph widths. Without them
// (standard fonts with no /Widths array) every glyph of a string shares one
// position and the decoder drops space glyphs, so positions cannot separate
// words.
func hasWidths(glyphs []rpdf.Text) bool {
	for _, g := range glyphs {
		if g.W > 0 {
			return true
		}
	}
	return false
}

// tjWordGap is the TJ adjustment, in thousandths of an em, treated as a space
const tjWordGap = 200

// streamText walks the page's text operators and keeps the strings as
// written, spaces included. A vertical move starts a new line and a wide TJ
// adjustment inserts a space.
func streamText(page rpdf.Page) string {
	var b strings.Builder
	var enc rpdf.TextEncoding
	var lastY float64
	haveY, newline := false, false

	show := func(raw string) {
		text := raw
		if enc != nil {
			text = enc.Decode(raw)
		}
		if text == "" {
			return
		}
		if newline && b.Len() > 0 {
			b.WriteString("\n")
		}
		newline = false
		b.WriteString(text)
	}

	rpdf.Interpret(page.V.Key("Contents"), func(stk *rpdf.Stack, op string) {
		args := make([]rpdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			if len(args) == 2 {
				enc = page.Font(args[0].Name()).Encoder()
			}
		case "Td", "TD":
			if len(args) == 2 && args[1].Float64() != 0 {
				newline = true
			}
		case "Tm":
			if len(args) == 6 {
				y := args[5].Float64()
				if haveY && y != lastY {
					newline = true
				}
				lastY, haveY = y, true
			}
		case "T*":
			newline = true
		case "'", "\"":
			newline = true
			if len(args) > 0 {
				show(args[len(args)-1].RawString())
			}
		case "Tj":
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "TJ":
			if len(args) != 1 {
				return
			}
			for i := 0; i < args[0].Len(); i++ {
				x := args[0].Index(i)
				if x.Kind() == rpdf.String {
					show(x.RawString())
					continue
				}
				if x.Float64() < -tjWordGap && b.Len() > 0 && !newline {
					b.WriteString(" ")
				}
			}
		}
	})

	return tidyLines(b.String())
}

// tidyLines trims trailing spaces from every line and blank edges from the text
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
