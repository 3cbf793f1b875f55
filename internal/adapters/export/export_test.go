package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

func sampleRows() []ledger.Row {
	return []ledger.Row{
		{SourceIndex: 2, Date: "2024-01-06", Description: "Cafe", Amount: decimal.NewFromInt(-300), Account: "CardA"},
		{SourceIndex: 0, Date: "2024-01-05", Description: `Shop, "Main"`, Amount: decimal.NewFromInt(-1000), Account: "CardA", IsTransfer: true},
		{SourceIndex: 1, Date: "2024-01-05", Description: "Refund\tnote", Amount: decimal.NewFromInt(-2000), Account: "Bank"},
	}
}

func TestSortRows(t *testing.T) {
	rows := sampleRows()
	rows = append(rows, ledger.Row{SourceIndex: 3, Date: "2024-01-05", Amount: decimal.NewFromInt(-2000)})

	SortRows(rows)

	var order []int
	for _, r := range rows {
		order = append(order, r.SourceIndex)
	}
	assert.Equal(t, []int{1, 3, 0, 2}, order)
}

func TestDelimited(t *testing.T) {
	t.Run("csv quoting", func(t *testing.T) {
		out := Delimited(sampleRows()[1:2], ',')

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "date,description,amount,major_category,minor_category,account,memo,is_transfer,id", lines[0])
		assert.Equal(t, `2024-01-05,"Shop, ""Main""",-1000,,,CardA,,true,`, lines[1])
	})

	t.Run("tsv flattens tabs", func(t *testing.T) {
		out := Delimited(sampleRows()[2:], '\t')

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "2024-01-05\tRefund note\t-2000\t\t\tBank\t\tfalse\t", lines[1])
	})
}

func TestExcelXML(t *testing.T) {
	out := ExcelXML(sampleRows()[1:2])

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<Worksheet ss:Name="ledger-cleaned">`)
	assert.Contains(t, out, `<Cell><Data ss:Type="Number">-1000</Data></Cell>`)
	assert.Contains(t, out, `<Cell><Data ss:Type="String">Shop, &quot;Main&quot;</Data></Cell>`)
	assert.Contains(t, out, `<Cell><Data ss:Type="String">true</Data></Cell>`)
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, ledger.CanonicalColumns(), rows[0])
	assert.Equal(t, "Cafe", rows[1][1])
	assert.Equal(t, "-300", rows[1][2])
}

func TestBuildPayload(t *testing.T) {
	tests := []struct {
		format  Format
		ext     string
		withBOM bool
	}{
		{FormatCSV, "csv", false},
		{FormatCSVBOM, "csv", true},
		{FormatTSVBOM, "tsv", true},
		{FormatExcelXML, "xml", false},
		{FormatXLSX, "xlsx", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			p, err := BuildPayload(sampleRows(), tt.format)

			require.NoError(t, err)
			assert.Equal(t, tt.ext, p.Ext)
			assert.NotEmpty(t, p.MIME)
			assert.Equal(t, tt.withBOM, bytes.HasPrefix(p.Data, []byte(bom)))
		})
	}

	_, err := BuildPayload(nil, Format("pdf"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSVBOM, f)

	f, err = ParseFormat(" TSV_UTF8_BOM ")
	require.NoError(t, err)
	assert.Equal(t, FormatTSVBOM, f)

	_, err = ParseFormat("json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "export-cleaned-202403.csv", FileName("export.csv", now, "csv"))
	assert.Equal(t, "my.ledger-cleaned-202403.xlsx", FileName("/tmp/my.ledger.tsv", now, "xlsx"))
	assert.Equal(t, "ledger-cleaned-202403.xml", FileName("", now, "xml"))
}
