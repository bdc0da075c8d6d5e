// Package tabular turns uploaded file bytes into ordered raw rows keyed by
// their header labels. It handles delimited text and flat spreadsheets;
// anything else is rejected before a single row is read.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for non-tabular file types.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile is returned when a file has no data rows under its header.
	ErrEmptyFile = errors.New("file contains no data rows")
)

// Parse converts raw file bytes plus the declared file name into raw rows.
// The first row is always treated as the header. Pure and deterministic.
func Parse(data []byte, fileName string) ([]model.RawRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".tsv", ".txt":
		return parseDelimited(data)
	case ".xlsx":
		return parseXLSX(data)
	case ".xls":
		return parseXLS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
}

func parseDelimited(data []byte) ([]model.RawRow, error) {
	lines := splitLines(string(data))
	if len(lines) < 2 {
		return nil, ErrEmptyFile
	}

	delim := detectDelimiter(lines[0])
	header := splitFields(lines[0], delim)

	var rows []model.RawRow
	for i, line := range lines[1:] {
		cells := splitFields(line, delim)
		row := zipRow(header, cells, i+2)
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

// splitLines splits on newlines, tolerating CRLF, and drops blank lines.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectDelimiter counts comma, semicolon, and tab in the header line and
// picks the most frequent. Comma wins ties.
func detectDelimiter(header string) rune {
	counts := []struct {
		delim rune
		n     int
	}{
		{',', strings.Count(header, ",")},
		{';', strings.Count(header, ";")},
		{'\t', strings.Count(header, "\t")},
	}

	best := counts[0]
	for _, c := range counts[1:] {
		if c.n > best.n {
			best = c
		}
	}
	return best.delim
}

// splitFields splits a line on delim, treating delimiters inside quotes as
// literal text. Wrapping quote pairs are stripped from each field.
func splitFields(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, unquote(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, unquote(cur.String()))
	return fields
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

// zipRow pairs cells against header keys positionally. Returns nil when the
// row has no non-empty cells; such rows are dropped and not counted.
func zipRow(header, cells []string, index int) *model.RawRow {
	m := make(map[string]string, len(header))
	var keys []string
	nonEmpty := 0
	for i, key := range header {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		var val string
		if i < len(cells) {
			val = strings.TrimSpace(cells[i])
		}
		if val != "" {
			nonEmpty++
		}
		if _, seen := m[key]; !seen {
			keys = append(keys, key)
		}
		m[key] = val
	}
	if nonEmpty == 0 {
		return nil
	}
	return &model.RawRow{Index: index, Keys: keys, Cells: m}
}

// rowsFromGrid builds raw rows from an in-memory grid (spreadsheet sources).
func rowsFromGrid(grid [][]string) ([]model.RawRow, error) {
	if len(grid) < 2 {
		return nil, ErrEmptyFile
	}

	header := grid[0]
	var rows []model.RawRow
	for i, cells := range grid[1:] {
		row := zipRow(header, cells, i+2)
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}
