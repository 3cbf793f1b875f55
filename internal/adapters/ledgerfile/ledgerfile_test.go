package ledgerfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
)

func TestDecode(t *testing.T) {
	t.Run("utf-8 with BOM", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("日付,内容,金額\n2024/1/5,Coffee,-1000\n")...)

		decoded, err := Decode(data)

		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, decoded.Encoding)
		assert.Equal(t, "日付,内容,金額\n2024/1/5,Coffee,-1000\n", decoded.Text)
	})

	t.Run("shift_jis", func(t *testing.T) {
		text := "日付,内容,金額,振替\n2024/1/5,コーヒー,-1000,0\n"
		data, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
		require.NoError(t, err)

		decoded, err := Decode(data)

		require.NoError(t, err)
		assert.Equal(t, EncodingShiftJIS, decoded.Encoding)
		assert.Equal(t, text, decoded.Text)
	})

	t.Run("ascii prefers utf-8", func(t *testing.T) {
		decoded, err := Decode([]byte("date,description,amount\n"))

		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, decoded.Encoding)
	})
}

func TestScoreDecodedText(t *testing.T) {
	assert.Equal(t, 65, ScoreDecodedText("日付,内容,金額\nx"))
	assert.Equal(t, 0, ScoreDecodedText("date\tdescription"))
	assert.Equal(t, -10, ScoreDecodedText("\uFFFD\uFFFD"))
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, FormatTSV, DetectDelimiter("date\tdescription\tamount"))
	assert.Equal(t, FormatCSV, DetectDelimiter("date,description,amount"))
	assert.Equal(t, FormatCSV, DetectDelimiter("date"))
	assert.Equal(t, FormatCSV, DetectDelimiter("a\tb,c,d"))
}

func TestParseDelimited(t *testing.T) {
	t.Run("csv with quotes and blank lines", func(t *testing.T) {
		text := "\uFEFFdate, description ,amount\r\n\r\n2024/1/5,\"Shop, Inc\",\"-1,000\"\r\n   \r\n2024/1/6,Cafe\r\n"

		table, err := ParseDelimited(text)

		require.NoError(t, err)
		assert.Equal(t, FormatCSV, table.Format)
		assert.Equal(t, []string{"date", "description", "amount"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Shop, Inc", table.Rows[0]["description"])
		assert.Equal(t, "-1,000", table.Rows[0]["amount"])
		assert.Equal(t, "", table.Rows[1]["amount"])
	})

	t.Run("tsv", func(t *testing.T) {
		table, err := ParseDelimited("日付\t内容\t金額\n2024/1/5\tコーヒー\t-500\n")

		require.NoError(t, err)
		assert.Equal(t, FormatTSV, table.Format)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "コーヒー", table.Rows[0]["内容"])
	})

	t.Run("unterminated quote stays on its line", func(t *testing.T) {
		text := "date,description,amount,account\n" +
			"2024-01-01,\"Shop X,-1000,A\n" +
			"2024-01-02,Coffee,-500,A\n" +
			"2024-01-03,Books,-700,B\n"

		table, err := ParseDelimited(text)

		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, "Shop X,-1000,A", table.Rows[0]["description"])
		assert.Equal(t, "Coffee", table.Rows[1]["description"])
		assert.Equal(t, "-500", table.Rows[1]["amount"])
		assert.Equal(t, "Books", table.Rows[2]["description"])
		assert.Equal(t, "B", table.Rows[2]["account"])
	})

	t.Run("rows of empty cells are kept", func(t *testing.T) {
		table, err := ParseDelimited("date,description,amount\n,,\n2024/1/5,Cafe,-300\n")

		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "", table.Rows[0]["date"])
		assert.Equal(t, "Cafe", table.Rows[1]["description"])
	})

	t.Run("header only is empty", func(t *testing.T) {
		table, err := ParseDelimited("date,description,amount\n")

		require.NoError(t, err)
		assert.Empty(t, table.Headers)
		assert.Empty(t, table.Rows)
	})
}

func TestSourceField(t *testing.T) {
	headers := []string{"利用日", "Description", "金額（円）", "口座名"}

	h, ok := SourceField(headers, "date")
	assert.True(t, ok)
	assert.Equal(t, "利用日", h)

	h, ok = SourceField(headers, "description")
	assert.True(t, ok)
	assert.Equal(t, "Description", h)

	_, ok = SourceField(headers, "memo")
	assert.False(t, ok)

	m := ColumnMap(headers)
	assert.Equal(t, "口座名", m["account"])
	assert.Len(t, m, 4)
}

func TestValidateColumns(t *testing.T) {
	assert.NoError(t, ValidateColumns([]string{"日付", "内容", "金額"}))

	err := ValidateColumns([]string{"日付", "memo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "description (e.g. 内容, 摘要)")
	assert.Contains(t, err.Error(), "amount (e.g. 金額, 金額(円))")
	assert.NotContains(t, err.Error(), "date (")
}

func TestRead(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Read("x.csv", nil)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := Read("x.csv", []byte("foo,bar\n1,2\n"))
		assert.ErrorIs(t, err, ErrMissingColumns)
	})

	t.Run("csv file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.csv")
		require.NoError(t, os.WriteFile(path, []byte("日付,内容,金額\n2024/1/5,Coffee,-1000\n"), 0o644))

		table, err := ReadFile(path)

		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, table.Encoding)
		assert.Len(t, table.Rows, 1)
	})

	t.Run("xlsx workbook", func(t *testing.T) {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"date", "description", "amount"}))
		require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024/01/05", "Coffee", "-1000"}))
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		require.NoError(t, f.Close())

		table, err := Read("ledger.XLSX", buf.Bytes())

		require.NoError(t, err)
		assert.Equal(t, FormatXLSX, table.Format)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Coffee", table.Rows[0]["description"])
		assert.Equal(t, "-1000", table.Rows[0]["amount"])
	})
}
