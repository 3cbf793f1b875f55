package dedupe

import (
	"fmt"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// groupID formats the sequential group identifier.
func groupID(n int) string {
	return fmt.Sprintf("dup-%04d", n)
}

// buildGroups stamps accepted candidates onto rows and materializes groups.
// rows is indexed by SourceIndex and is modified in place.
func buildGroups(rows []ledger.Row, accepted []Candidate) ([]Group, Stats) {
	stats := Stats{
		TypeBreakdown: make(map[ledger.DuplicateType]int, 3),
		Rule:          RuleLabel,
	}
	for _, t := range ledger.AllDuplicateTypes() {
		stats.TypeBreakdown[t] = 0
	}

	groups := make([]Group, 0, len(accepted))
	for n, c := range accepted {
		b := c.base()
		id := groupID(n + 1)

		for k, idx := range b.RowIndices {
			r := &rows[idx]
			r.DuplicateType = b.Type
			r.DuplicateReason = b.Reason
			r.DuplicateGroupID = id
			r.DuplicateClusterID = id
			if k == 0 {
				r.DuplicateScore = 1
				r.IsRemovedByDefault = false
			} else {
				r.DuplicateScore = b.Score
				r.IsRemovedByDefault = true
			}
		}

		g := Group{
			GroupID:       id,
			Type:          b.Type,
			Reason:        b.Reason,
			Rows:          make([]ledger.Row, 0, len(b.RowIndices)),
			Removed:       make([]ledger.Row, 0, len(b.RowIndices)-1),
			Score:         b.Score,
			DateDiff:      b.DateDiff,
			NetAmountCalc: b.NetAmountCalc,
		}
		for k, idx := range b.RowIndices {
			g.Rows = append(g.Rows, rows[idx])
			if k == 0 {
				g.Keeper = rows[idx]
			} else {
				g.Removed = append(g.Removed, rows[idx])
			}
		}

		groups = append(groups, g)
		stats.CandidateGroups++
		stats.RemovedRows += len(g.Removed)
		stats.TypeBreakdown[b.Type]++
	}

	return groups, stats
}
