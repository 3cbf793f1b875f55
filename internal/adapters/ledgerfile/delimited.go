package ledgerfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Format identifies the tabular layout of a source file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// Table is a parsed source file: its header row and one map per data row
// keyed by header text.
type Table struct {
	Headers  []string            `json:"headers"`
	Rows     []map[string]string `json:"rows"`
	Format   Format              `json:"format"`
	Encoding string              `json:"encoding"`
}

// DetectDelimiter picks TSV when the line has more tabs than commas.
func DetectDelimiter(firstLine string) Format {
	clean := strings.TrimPrefix(firstLine, "\uFEFF")
	if strings.Count(clean, "\t") > strings.Count(clean, ",") {
		return FormatTSV
	}
	return FormatCSV
}

// ParseDelimited parses CSV or TSV text one physical line per record, so a
// stray quote only affects its own line. Blank lines are ignored; input with
// fewer than two non-blank lines yields an empty table.
func ParseDelimited(text string) (*Table, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return &Table{Format: FormatCSV}, nil
	}

	format := DetectDelimiter(lines[0])

	records := make([][]string, 0, len(lines))
	for i, l := range lines {
		if format == FormatTSV {
			records = append(records, strings.Split(l, "\t"))
			continue
		}
		rec, err := parseCSVLine(l)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV line %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	return buildTable(records, format), nil
}

// parseCSVLine splits a single line. An unterminated quote runs to the end
// of the line.
func parseCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rec, err := r.Read()
	if err == io.EOF {
		return []string{""}, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// buildTable turns raw records into a header keyed table. Cells are trimmed
// and short rows are padded with "". Rows whose cells are all empty are kept
// so they count as input; normalization drops them.
func buildTable(records [][]string, format Format) *Table {
	t := &Table{Format: format}
	if len(records) == 0 {
		return t
	}

	t.Headers = cleanHeaders(records[0])
	for _, rec := range records[1:] {
		row := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[h] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		headers[i] = h
	}
	return headers
}

func isRowEmpty(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
