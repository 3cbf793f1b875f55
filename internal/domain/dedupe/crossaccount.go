package dedupe

import (
	"fmt"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
	"github.com/eshaffer321/ledgerclean/internal/domain/normalize"
	"github.com/eshaffer321/ledgerclean/internal/domain/similarity"
)

// crossAccountCandidates pairs equal debits recorded in two different
// accounts. Amount and merchant key decide; the similarity score is
// recorded but not required.
func (d *Detector) crossAccountCandidates(rows []ledger.Row, negatives []int) []Candidate {
	var out []Candidate

	for i := 0; i < len(negatives); i++ {
		a := rows[negatives[i]]
		for j := i + 1; j < len(negatives); j++ {
			b := rows[negatives[j]]
			if a.Account == b.Account {
				continue
			}
			if !a.AbsAmount().Equal(b.AbsAmount()) {
				continue
			}
			if !normalize.PrefixCompatible(a.MerchantKey, b.MerchantKey) {
				continue
			}
			if !normalize.WithinDays(a.Date, b.Date, d.config.MaxDayDiff) {
				continue
			}

			lo, hi := a.SourceIndex, b.SourceIndex
			if lo > hi {
				lo, hi = hi, lo
			}
			out = append(out, &CrossAccountCandidate{
				CandidateBase: CandidateBase{
					Type:           ledger.DuplicateCrossAccount,
					RowIndices:     []int{lo, hi},
					Score:          similarity.Dice(a.NormalizedDescription, b.NormalizedDescription),
					DateDiff:       normalize.DayDiff(a.Date, b.Date),
					BundleRowCount: 2,
					KeeperIndex:    lo,
					NetAmountCalc:  "-",
					Reason:         fmt.Sprintf("same amount across accounts: %s vs %s", a.Amount, b.Amount),
				},
				Pair: [2]int{lo, hi},
			})
		}
	}

	return out
}
