package review

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
	"github.com/eshaffer321/ledgerclean/internal/domain/normalize"
)

// RowState selects removed rows by their current review state.
type RowState string

const (
	StateAll      RowState = "all"
	StateRemoved  RowState = "removed"
	StateRestored RowState = "restored"
)

// ParseRowState maps user input to a RowState, defaulting to StateAll.
func ParseRowState(s string) RowState {
	switch RowState(strings.ToLower(strings.TrimSpace(s))) {
	case StateRemoved:
		return StateRemoved
	case StateRestored:
		return StateRestored
	default:
		return StateAll
	}
}

// GroupFilter narrows the duplicate groups shown for review. Zero values
// disable each criterion.
type GroupFilter struct {
	// Query matches description, account, amount and merchant key, case-insensitively.
	Query string
	// From and To bound the date as YYYY-MM-DD, inclusive.
	From  string
	To    string
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	State RowState
}

// GroupView is a group with the removed rows that matched the filter.
type GroupView struct {
	Group       dedupe.Group `json:"group"`
	Matches     []ledger.Row `json:"matches"`
	AllRemoved  bool         `json:"all_removed"`
	RestoredIDs []int        `json:"restored"`
}

// FilteredGroups is the visible subset of a run's groups.
type FilteredGroups struct {
	Groups        []GroupView `json:"groups"`
	VisibleRows   int         `json:"visible_rows"`
	ActiveRemoved int         `json:"active_removed"`
	TotalGroups   int         `json:"total_groups"`
}

// FilterGroups applies f to the removed rows of every group. A group is
// visible when at least one of its removed rows matches.
func FilterGroups(groups []dedupe.Group, restored map[int]bool, f GroupFilter) FilteredGroups {
	q := strings.ToLower(normalize.Text(f.Query))
	out := FilteredGroups{Groups: []GroupView{}, TotalGroups: len(groups)}

	for _, g := range groups {
		var matches []ledger.Row
		for _, r := range g.Removed {
			if !f.matches(r, q, restored[r.SourceIndex]) {
				continue
			}
			matches = append(matches, r)
		}
		if len(matches) == 0 {
			continue
		}

		view := GroupView{Group: g, Matches: matches, AllRemoved: true, RestoredIDs: []int{}}
		for _, r := range g.Removed {
			if restored[r.SourceIndex] {
				view.AllRemoved = false
				view.RestoredIDs = append(view.RestoredIDs, r.SourceIndex)
			}
		}
		for _, r := range matches {
			if !restored[r.SourceIndex] {
				out.ActiveRemoved++
			}
		}

		out.VisibleRows += len(matches)
		out.Groups = append(out.Groups, view)
	}
	return out
}

func (f GroupFilter) matches(r ledger.Row, q string, isRestored bool) bool {
	if f.State == StateRemoved && isRestored {
		return false
	}
	if f.State == StateRestored && !isRestored {
		return false
	}
	if q != "" && !matchSearch(r, q) {
		return false
	}
	if f.From != "" && r.Date < f.From {
		return false
	}
	if f.To != "" && r.Date > f.To {
		return false
	}
	if f.Min != nil && r.Amount.LessThan(*f.Min) {
		return false
	}
	if f.Max != nil && r.Amount.GreaterThan(*f.Max) {
		return false
	}
	return true
}

func matchSearch(r ledger.Row, q string) bool {
	haystack := fmt.Sprintf("%s %s %s %s", r.Description, r.Account, r.Amount, r.MerchantKey)
	return strings.Contains(strings.ToLower(haystack), q)
}
