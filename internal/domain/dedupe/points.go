package dedupe

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
	"github.com/eshaffer321/ledgerclean/internal/domain/normalize"
	"github.com/eshaffer321/ledgerclean/internal/domain/similarity"
)

// maxBundleSize caps how many points credits may offset one store debit.
const maxBundleSize = 2

// pointsBundleCandidates finds card charges equal to a store debit net of
// same-account points credits. At most one candidate is kept per card row.
func (d *Detector) pointsBundleCandidates(rows []ledger.Row, negatives, positives []int) []Candidate {
	best := make(map[int]*PointsBundleCandidate)
	var order []int

	for _, m := range negatives {
		market := rows[m]

		var credits []int
		for _, p := range positives {
			pos := rows[p]
			if pos.Account != market.Account {
				continue
			}
			if !normalize.PrefixCompatible(pos.MerchantKey, market.MerchantKey) {
				continue
			}
			if !normalize.WithinDays(pos.Date, market.Date, d.config.BundleDayWindow) {
				continue
			}
			credits = append(credits, p)
		}
		if len(credits) == 0 {
			continue
		}

		for _, bundle := range bundles(credits) {
			posSum := decimal.Zero
			for _, p := range bundle {
				posSum = posSum.Add(rows[p].Amount)
			}
			spent := market.Amount.Add(posSum)
			net := spent.Abs()
			if net.IsZero() {
				continue
			}
			calc := fmt.Sprintf("%s + %s => %s", market.Amount, posSum, spent)

			members := append([]int{m}, bundle...)
			for _, c := range negatives {
				card := rows[c]
				if c == m || card.Account == market.Account {
					continue
				}
				if !normalize.PrefixCompatible(card.MerchantKey, market.MerchantKey) {
					continue
				}
				if !card.AbsAmount().Equal(net) {
					continue
				}

				dateDiff := normalize.Infinite
				for _, idx := range members {
					if dd := normalize.DayDiff(card.Date, rows[idx].Date); dd < dateDiff {
						dateDiff = dd
					}
				}
				if dateDiff == normalize.Infinite || dateDiff > d.config.MaxDayDiff {
					continue
				}

				indices := sortedUnique(append([]int{c}, members...))
				cand := &PointsBundleCandidate{
					CandidateBase: CandidateBase{
						Type:           ledger.DuplicatePointsBundle,
						RowIndices:     indices,
						Score:          similarity.Dice(card.NormalizedDescription, market.NormalizedDescription),
						DateDiff:       dateDiff,
						BundleRowCount: len(members),
						KeeperIndex:    indices[0],
						NetAmountCalc:  calc,
						Reason:         "net spend matches: " + calc,
					},
					CardIndex:     c,
					MarketIndex:   m,
					BundleIndices: append([]int(nil), bundle...),
				}

				prev, seen := best[c]
				if !seen {
					order = append(order, c)
					best[c] = cand
					continue
				}
				if betterBundle(cand, prev) {
					best[c] = cand
				}
			}
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, c := range order {
		out = append(out, best[c])
	}
	return out
}

// bundles returns every combination of one or two credits, in index order.
func bundles(credits []int) [][]int {
	var out [][]int
	for i := range credits {
		out = append(out, []int{credits[i]})
		for j := i + 1; j < len(credits) && maxBundleSize > 1; j++ {
			out = append(out, []int{credits[i], credits[j]})
		}
	}
	return out
}

// betterBundle ranks two candidates for the same card row. Ties keep prev.
func betterBundle(c, prev *PointsBundleCandidate) bool {
	if c.DateDiff != prev.DateDiff {
		return c.DateDiff < prev.DateDiff
	}
	if c.Score != prev.Score {
		return c.Score > prev.Score
	}
	cb, pb := bundleRowCount(c.BundleRowCount), bundleRowCount(prev.BundleRowCount)
	if cb != pb {
		return cb < pb
	}
	return c.KeeperIndex < prev.KeeperIndex
}
