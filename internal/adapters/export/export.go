// Package export serializes cleaned ledger rows.
//
// Supported formats:
//   - csv_utf8: comma separated, UTF-8
//   - csv_utf8_bom: comma separated, UTF-8 with BOM (default, opens cleanly in Excel)
//   - tsv_utf8_bom: tab separated, UTF-8 with BOM
//   - excel_xml: SpreadsheetML 2003
//   - xlsx: Office Open XML workbook
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// Format names an output serialization.
type Format string

const (
	FormatCSV      Format = "csv_utf8"
	FormatCSVBOM   Format = "csv_utf8_bom"
	FormatTSVBOM   Format = "tsv_utf8_bom"
	FormatExcelXML Format = "excel_xml"
	FormatXLSX     Format = "xlsx"

	// DefaultFormat is used when no format is requested.
	DefaultFormat = FormatCSVBOM
)

// ErrUnknownFormat is returned by ParseFormat for unrecognized names.
var ErrUnknownFormat = errors.New("unknown export format")

const bom = "\uFEFF"

// ParseFormat resolves a format name; "" selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DefaultFormat, nil
	case FormatCSV, FormatCSVBOM, FormatTSVBOM, FormatExcelXML, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Payload is a serialized file ready to write or send.
type Payload struct {
	Data []byte
	MIME string
	Ext  string
}

// SortRows orders rows for output by date, then amount, then source index.
func SortRows(rows []ledger.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c < 0
		}
		return a.SourceIndex < b.SourceIndex
	})
}

// BuildPayload serializes rows in the given format. Rows are written in the
// order given.
func BuildPayload(rows []ledger.Row, format Format) (Payload, error) {
	switch format {
	case FormatCSV:
		return Payload{Data: []byte(Delimited(rows, ',')), MIME: "text/csv;charset=utf-8", Ext: "csv"}, nil
	case FormatTSVBOM:
		return Payload{Data: []byte(bom + Delimited(rows, '\t')), MIME: "text/tab-separated-values;charset=utf-8", Ext: "tsv"}, nil
	case FormatExcelXML:
		return Payload{Data: []byte(ExcelXML(rows)), MIME: "application/vnd.ms-excel;charset=utf-8", Ext: "xml"}, nil
	case FormatXLSX:
		data, err := XLSX(rows)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Data: data, MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Ext: "xlsx"}, nil
	case FormatCSVBOM, "":
		return Payload{Data: []byte(bom + Delimited(rows, ',')), MIME: "text/csv;charset=utf-8", Ext: "csv"}, nil
	}
	return Payload{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// FileName builds "{base}-cleaned-{YYYYMM}.{ext}" from the source file name.
func FileName(source string, now time.Time, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if source == "" || base == "" || base == "." {
		base = "ledger"
	}
	return fmt.Sprintf("%s-cleaned-%s.%s", base, now.Format("200601"), ext)
}
