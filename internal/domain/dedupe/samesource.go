package dedupe

import (
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
	"github.com/eshaffer321/ledgerclean/internal/domain/normalize"
	"github.com/eshaffer321/ledgerclean/internal/domain/similarity"
)

// sameSourceReason is stamped on every same-account group.
const sameSourceReason = "duplicate entry in the same account"

// sameSourceCandidates clusters near-identical debits within each account.
// Rows are linked when amount, merchant key, date window and similarity
// threshold all agree; every connected component of two or more rows is
// a candidate.
func (d *Detector) sameSourceCandidates(rows []ledger.Row, negatives []int) []Candidate {
	var accounts []string
	byAccount := make(map[string][]int)
	for _, idx := range negatives {
		acct := rows[idx].Account
		if _, ok := byAccount[acct]; !ok {
			accounts = append(accounts, acct)
		}
		byAccount[acct] = append(byAccount[acct], idx)
	}

	var out []Candidate
	for _, acct := range accounts {
		out = append(out, d.clusterAccount(rows, acct, byAccount[acct])...)
	}
	return out
}

// clusterAccount builds the compatibility graph over one account's rows,
// keyed by position in members, and walks it with an explicit stack.
func (d *Detector) clusterAccount(rows []ledger.Row, account string, members []int) []Candidate {
	adj := make([][]int, len(members))
	for i := 0; i < len(members); i++ {
		a := rows[members[i]]
		for j := i + 1; j < len(members); j++ {
			b := rows[members[j]]
			if !a.AbsAmount().Equal(b.AbsAmount()) {
				continue
			}
			if !normalize.WithinDays(a.Date, b.Date, d.config.MaxDayDiff) {
				continue
			}
			if !normalize.PrefixCompatible(a.MerchantKey, b.MerchantKey) {
				continue
			}
			if similarity.Dice(a.NormalizedDescription, b.NormalizedDescription) < d.config.SimilarityThreshold {
				continue
			}
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i)
		}
	}

	var out []Candidate
	visited := make([]bool, len(members))
	for start := range members {
		if visited[start] {
			continue
		}

		var comp []int
		stack := []int{start}
		for len(stack) > 0 {
			pos := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[pos] {
				continue
			}
			visited[pos] = true
			comp = append(comp, pos)
			for _, n := range adj[pos] {
				if !visited[n] {
					stack = append(stack, n)
				}
			}
		}
		if len(comp) < 2 {
			continue
		}

		first := rows[members[comp[0]]]
		indices := make([]int, 0, len(comp))
		dateDiff := 0
		total := 0.0
		for k, pos := range comp {
			r := rows[members[pos]]
			indices = append(indices, r.SourceIndex)
			if k == 0 {
				continue
			}
			if dd := normalize.DayDiff(r.Date, first.Date); dd > dateDiff {
				dateDiff = dd
			}
			total += similarity.Dice(first.NormalizedDescription, r.NormalizedDescription)
		}
		indices = sortedUnique(indices)

		out = append(out, &SameSourceCandidate{
			CandidateBase: CandidateBase{
				Type:           ledger.DuplicateSameSource,
				RowIndices:     indices,
				Score:          total / float64(len(comp)-1),
				DateDiff:       dateDiff,
				BundleRowCount: len(comp),
				KeeperIndex:    indices[0],
				NetAmountCalc:  "-",
				Reason:         sameSourceReason,
			},
			Account: account,
		})
	}
	return out
}
