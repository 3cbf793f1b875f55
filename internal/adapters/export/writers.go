package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// Delimited renders rows with a header line of canonical columns. For
// commas, fields containing a quote, comma or newline are quoted with
// embedded quotes doubled. For tabs, tabs and newlines in values become
// spaces. Lines are joined with "\n".
func Delimited(rows []ledger.Row, delim rune) string {
	cols := ledger.CanonicalColumns()
	sep := string(delim)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(cols, sep))
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = escapeDelimited(r.Field(c), delim)
		}
		lines = append(lines, strings.Join(cells, sep))
	}
	return strings.Join(lines, "\n")
}

func escapeDelimited(v string, delim rune) string {
	if delim == '\t' {
		v = strings.ReplaceAll(v, "\t", " ")
		v = strings.ReplaceAll(v, "\r\n", " ")
		return strings.ReplaceAll(v, "\n", " ")
	}
	if strings.ContainsAny(v, "\",\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// ExcelXML renders a SpreadsheetML 2003 workbook with one worksheet. Amount
// cells are typed Number; everything else is String.
func ExcelXML(rows []ledger.Row) string {
	cols := ledger.CanonicalColumns()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<?mso-application progid=\"Excel.Sheet\"?>\n")
	b.WriteString(`<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet" `)
	b.WriteString(`xmlns:o="urn:schemas-microsoft-com:office:office" `)
	b.WriteString(`xmlns:x="urn:schemas-microsoft-com:office:excel" `)
	b.WriteString(`xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">` + "\n")
	b.WriteString(`<Worksheet ss:Name="ledger-cleaned">` + "\n")
	b.WriteString("<Table>\n<Row>")
	for _, c := range cols {
		writeCell(&b, "String", c)
	}
	b.WriteString("</Row>\n")

	for _, r := range rows {
		b.WriteString("<Row>")
		for _, c := range cols {
			if c == ledger.ColumnAmount {
				writeCell(&b, "Number", r.Amount.String())
				continue
			}
			writeCell(&b, "String", r.Field(c))
		}
		b.WriteString("</Row>\n")
	}
	b.WriteString("</Table>\n</Worksheet>\n</Workbook>")
	return b.String()
}

func writeCell(b *strings.Builder, typ, v string) {
	fmt.Fprintf(b, `<Cell><Data ss:Type="%s">%s</Data></Cell>`, typ, escapeXML(v))
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// xlsxSheet is the worksheet name used for workbook exports.
const xlsxSheet = "cleaned"

// XLSX renders rows as an .xlsx workbook. Amounts are numeric cells.
func XLSX(rows []ledger.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	cols := ledger.CanonicalColumns()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			if c == ledger.ColumnAmount {
				values[j] = r.Amount.InexactFloat64()
				continue
			}
			values[j] = r.Field(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
