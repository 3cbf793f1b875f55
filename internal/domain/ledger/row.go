// Package ledger defines the canonical transaction row shared by ingestion,
// duplicate detection, review and export.
package ledger

import "github.com/shopspring/decimal"

// DuplicateType identifies which detection strategy produced a group.
type DuplicateType string

const (
	// DuplicateSameSource marks repeated entries inside one account.
	DuplicateSameSource DuplicateType = "same_source"
	// DuplicateCrossAccount marks one purchase recorded in two accounts.
	DuplicateCrossAccount DuplicateType = "cross_account_1to1"
	// DuplicatePointsBundle marks a card charge that equals a store debit net of points.
	DuplicatePointsBundle DuplicateType = "cross_account_1to2_points"
)

// Priority orders types during consolidation. Higher wins shared rows.
func (t DuplicateType) Priority() int {
	switch t {
	case DuplicatePointsBundle:
		return 3
	case DuplicateCrossAccount:
		return 2
	default:
		return 1
	}
}

// AllDuplicateTypes lists every type in ascending priority.
func AllDuplicateTypes() []DuplicateType {
	return []DuplicateType{DuplicateSameSource, DuplicateCrossAccount, DuplicatePointsBundle}
}

// Canonical column names, in output order.
const (
	ColumnDate          = "date"
	ColumnDescription   = "description"
	ColumnAmount        = "amount"
	ColumnMajorCategory = "major_category"
	ColumnMinorCategory = "minor_category"
	ColumnAccount       = "account"
	ColumnMemo          = "memo"
	ColumnIsTransfer    = "is_transfer"
	ColumnID            = "id"
)

// CanonicalColumns returns the canonical field set in export order.
func CanonicalColumns() []string {
	return []string{
		ColumnDate,
		ColumnDescription,
		ColumnAmount,
		ColumnMajorCategory,
		ColumnMinorCategory,
		ColumnAccount,
		ColumnMemo,
		ColumnIsTransfer,
		ColumnID,
	}
}

// Row is one normalized ledger line plus its duplicate annotations.
type Row struct {
	SourceIndex int `json:"source_index"`

	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	MajorCategory string          `json:"major_category"`
	MinorCategory string          `json:"minor_category"`
	Account       string          `json:"account"`
	Memo          string          `json:"memo"`
	IsTransfer    bool            `json:"is_transfer"`
	ID            string          `json:"id"`

	// Derived keys. NormalizedDescription feeds similarity scoring,
	// MerchantKey only gates comparisons.
	NormalizedDescription string `json:"normalized_description"`
	MerchantKey           string `json:"merchant_key"`

	DuplicateType      DuplicateType `json:"duplicate_type,omitempty"`
	DuplicateReason    string        `json:"duplicate_reason,omitempty"`
	DuplicateGroupID   string        `json:"duplicate_group_id,omitempty"`
	DuplicateClusterID string        `json:"duplicate_cluster_id,omitempty"`
	DuplicateScore     float64       `json:"duplicate_score"`
	IsRemovedByDefault bool          `json:"is_removed_by_default"`
}

// ResetAnnotations clears every duplicate annotation back to the unique-row defaults.
func (r *Row) ResetAnnotations() {
	r.DuplicateType = ""
	r.DuplicateReason = ""
	r.DuplicateGroupID = ""
	r.DuplicateClusterID = ""
	r.DuplicateScore = 1
	r.IsRemovedByDefault = false
}

// AbsAmount returns |Amount|.
func (r Row) AbsAmount() decimal.Decimal {
	return r.Amount.Abs()
}

// IsOutflow reports whether the row is a negative (expense) amount.
func (r Row) IsOutflow() bool {
	return r.Amount.IsNegative()
}

// IsInflow reports whether the row is a positive (credit) amount.
func (r Row) IsInflow() bool {
	return r.Amount.IsPositive()
}

// Field returns the string form of a canonical column, as written on export.
func (r Row) Field(column string) string {
	switch column {
	case ColumnDate:
		return r.Date
	case ColumnDescription:
		return r.Description
	case ColumnAmount:
		return r.Amount.String()
	case ColumnMajorCategory:
		return r.MajorCategory
	case ColumnMinorCategory:
		return r.MinorCategory
	case ColumnAccount:
		return r.Account
	case ColumnMemo:
		return r.Memo
	case ColumnIsTransfer:
		if r.IsTransfer {
			return "true"
		}
		return "false"
	case ColumnID:
		return r.ID
	}
	return ""
}
