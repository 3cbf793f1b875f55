package ledgerfile

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first worksheet of a workbook. The first row is the header.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	// GetRows reports gaps between used rows as empty records.
	used := records[:0]
	for _, rec := range records {
		if !isRowEmpty(rec) {
			used = append(used, rec)
		}
	}

	t := buildTable(used, FormatXLSX)
	t.Encoding = EncodingUTF8
	return t, nil
}
