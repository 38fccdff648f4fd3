// Package sheet converts a tabular book export into the page-annotated
// plain-text format consumed by the segmenter: an 80-"=" header block,
// pages delimited by 40-"=" lines and labeled "Page <n>" with a dashed
// divider, paragraphs separated by blank lines.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column layout of the export (0-indexed): free text in column 4, page
// number in column 5.
const (
	textColumn = 4
	pageColumn = 5
	minColumns = 6
)

// ErrBadSheet indicates the sheet does not have the expected column layout.
var ErrBadSheet = errors.New("sheet has fewer than 6 columns")

// ErrBadPageNumber indicates a page cell that is not a number.
var ErrBadPageNumber = errors.New("invalid page number")

// Converter renders a workbook as a page-annotated text document.
type Converter struct {
	title     string
	sheetName string
}

// Option configures a Converter.
type Option func(*Converter)

// WithTitle sets the document title written in the header block.
// Defaults to the workbook file name without extension.
func WithTitle(title string) Option {
	return func(c *Converter) {
		if title != "" {
			c.title = title
		}
	}
}

// WithSheet selects the sheet to convert. Defaults to the first sheet.
func WithSheet(name string) Option {
	return func(c *Converter) {
		c.sheetName = name
	}
}

// NewConverter creates a Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert reads the workbook at xlsxPath and writes the page-annotated
// document to outputPath. Malformed input (missing columns, non-numeric
// page cells) aborts the conversion; nothing is written in that case.
func (c *Converter) Convert(xlsxPath, outputPath string) error {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("cannot open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := c.sheetName
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return fmt.Errorf("workbook has no sheets: %w", ErrBadSheet)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("cannot read sheet %q: %w", sheetName, err)
	}

	doc, err := c.render(filepath.Base(xlsxPath), rows)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(doc), 0644); err != nil { // #nosec G306 -- plain text output
		return fmt.Errorf("cannot write output file: %w", err)
	}
	return nil
}

// render builds the document text from the sheet rows.
func (c *Converter) render(source string, rows [][]string) (string, error) {
	if widestRow(rows) < minColumns {
		return "", fmt.Errorf("%w (text in column %d, page in column %d)",
			ErrBadSheet, textColumn, pageColumn)
	}

	title := c.title
	if title == "" {
		title = strings.TrimSuffix(source, filepath.Ext(source))
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString(title + "\n")
	b.WriteString("Source: " + source + "\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	currentPage := 0
	hasPage := false

	for i, row := range rows {
		text := cell(row, textColumn)
		pageCell := cell(row, pageColumn)

		if pageCell != "" {
			page, err := parsePageNumber(pageCell)
			if err != nil {
				return "", fmt.Errorf("row %d: %w", i+1, err)
			}
			if !hasPage || page != currentPage {
				if hasPage {
					b.WriteString("\n" + strings.Repeat("=", 40) + "\n")
				}
				fmt.Fprintf(&b, "\nPage %d\n", page)
				b.WriteString(strings.Repeat("-", 40) + "\n\n")
				currentPage = page
				hasPage = true
			}
		}

		if text != "" {
			b.WriteString(text + "\n\n")
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 80) + "\n")
	b.WriteString("End of Document\n")
	b.WriteString(strings.Repeat("=", 80))

	return b.String(), nil
}

// cell returns the trimmed cell at index i, or "" for short rows.
// Spreadsheet readers drop trailing empty cells, so short rows are
// padded rather than rejected.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parsePageNumber parses a page cell. Numeric cells may render with a
// fractional part ("12" or "12.0" for the same value).
func parsePageNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadPageNumber, s)
}

// widestRow returns the column count of the widest row.
func widestRow(rows [][]string) int {
	widest := 0
	for _, row := range rows {
		if len(row) > widest {
			widest = len(row)
		}
	}
	return widest
}
