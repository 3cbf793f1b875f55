package ledgerfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyInput is returned for zero-byte input.
var ErrEmptyInput = errors.New("ledger file is empty")

// Read parses a ledger export. name is only used to recognize workbooks by
// extension; everything else is treated as delimited text. The returned
// table has passed ValidateColumns.
func Read(name string, data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var (
		t   *Table
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		t, err = ReadXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	} else {
		decoded, derr := Decode(data)
		if derr != nil {
			return nil, derr
		}
		t, err = ParseDelimited(decoded.Text)
		if err != nil {
			return nil, err
		}
		t.Encoding = decoded.Encoding
	}

	if err := ValidateColumns(t.Headers); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadFile reads and parses the file at path.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Read(filepath.Base(path), data)
}
