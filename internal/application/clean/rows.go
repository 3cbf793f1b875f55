package clean

import (
	"strings"

	"github.com/eshaffer321/ledgerclean/internal/adapters/ledgerfile"
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
	"github.com/eshaffer321/ledgerclean/internal/domain/normalize"
)

// transferHints mark a row as an internal transfer when found in its category text.
var transferHints = []string{"振替", "transfer"}

// ToRows maps raw table rows onto canonical fields and derives matching
// keys. Rows without a parseable date or a description are dropped.
func ToRows(table *ledgerfile.Table) []ledger.Row {
	cols := ledgerfile.ColumnMap(table.Headers)
	get := func(raw map[string]string, col string) string {
		h, ok := cols[col]
		if !ok {
			return ""
		}
		return raw[h]
	}

	rows := make([]ledger.Row, 0, len(table.Rows))
	for _, raw := range table.Rows {
		desc := normalize.Text(get(raw, ledger.ColumnDescription))
		r := ledger.Row{
			SourceIndex:           -1,
			Date:                  normalize.Date(get(raw, ledger.ColumnDate)),
			Description:           desc,
			Amount:                normalize.Amount(get(raw, ledger.ColumnAmount)),
			MajorCategory:         normalize.Text(get(raw, ledger.ColumnMajorCategory)),
			MinorCategory:         normalize.Text(get(raw, ledger.ColumnMinorCategory)),
			Account:               normalize.Text(get(raw, ledger.ColumnAccount)),
			Memo:                  normalize.Text(get(raw, ledger.ColumnMemo)),
			IsTransfer:            normalize.Bool(get(raw, ledger.ColumnIsTransfer)),
			ID:                    normalize.Text(get(raw, ledger.ColumnID)),
			NormalizedDescription: normalize.DescriptionKey(desc),
			MerchantKey:           normalize.MerchantKey(desc),
			DuplicateScore:        1,
		}
		if !r.IsTransfer {
			r.IsTransfer = looksLikeTransfer(r.MajorCategory + " " + r.MinorCategory)
		}
		if r.Date == "" || r.Description == "" {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

func looksLikeTransfer(category string) bool {
	category = strings.ToLower(category)
	for _, hint := range transferHints {
		if strings.Contains(category, hint) {
			return true
		}
	}
	return false
}

// Filter drops rows excluded by opts.
func Filter(rows []ledger.Row, opts Options) []ledger.Row {
	out := make([]ledger.Row, 0, len(rows))
	for _, r := range rows {
		if opts.DropTransfer && r.IsTransfer {
			continue
		}
		if opts.DropZeroAmount && r.Amount.IsZero() {
			continue
		}
		out = append(out, r)
	}
	return out
}
