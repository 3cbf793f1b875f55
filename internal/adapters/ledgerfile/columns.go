package ledgerfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// ErrMissingColumns is wrapped by ValidateColumns when a required column has no header.
var ErrMissingColumns = errors.New("required columns not found")

// Aliases maps each canonical column to the header names accepted for it,
// in lookup order. Matching is case-insensitive.
var Aliases = map[string][]string{
	ledger.ColumnDate:          {"date", "日付", "利用日", "発生日"},
	ledger.ColumnDescription:   {"description", "内容", "摘要", "明細内容", "店舗名", "利用先"},
	ledger.ColumnAmount:        {"amount", "金額", "金額(円)", "金額（円）", "利用金額", "残高"},
	ledger.ColumnMajorCategory: {"major_category", "大項目", "カテゴリ", "カテゴリー"},
	ledger.ColumnMinorCategory: {"minor_category", "中項目", "サブカテゴリ", "サブカテゴリー"},
	ledger.ColumnAccount:       {"account", "口座", "口座名", "利用カード", "カード", "支払元"},
	ledger.ColumnMemo:          {"memo", "メモ", "備考"},
	ledger.ColumnIsTransfer:    {"is_transfer", "振替", "振替判定", "transfer"},
	ledger.ColumnID:            {"id", "ID", "識別ID"},
}

// RequiredColumns must resolve for a file to be usable.
var RequiredColumns = []string{ledger.ColumnDate, ledger.ColumnDescription, ledger.ColumnAmount}

// SourceField returns the header in headers that supplies canonical, trying
// aliases in order.
func SourceField(headers []string, canonical string) (string, bool) {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, alias := range Aliases[canonical] {
		a := strings.ToLower(alias)
		for i, h := range lowered {
			if h == a {
				return headers[i], true
			}
		}
	}
	return "", false
}

// ColumnMap resolves every canonical column present in headers.
func ColumnMap(headers []string) map[string]string {
	m := make(map[string]string, len(Aliases))
	for _, col := range ledger.CanonicalColumns() {
		if h, ok := SourceField(headers, col); ok {
			m[col] = h
		}
	}
	return m
}

// ValidateColumns checks that every required column resolves. The error
// names each missing column with two example header spellings.
func ValidateColumns(headers []string) error {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := SourceField(headers, col); ok {
			continue
		}
		examples := Aliases[col][1:3]
		missing = append(missing, fmt.Sprintf("%s (e.g. %s)", col, strings.Join(examples, ", ")))
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, " / "))
}
