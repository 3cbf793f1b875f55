package dedupe

import "sort"

// defaultBundleRowCount stands in for a missing bundle size when ranking.
const defaultBundleRowCount = 99

func bundleRowCount(n int) int {
	if n == 0 {
		return defaultBundleRowCount
	}
	return n
}

// claimSet tracks row indices already assigned to an accepted group.
type claimSet map[int]bool

func (s claimSet) any(indices []int) bool {
	for _, i := range indices {
		if s[i] {
			return true
		}
	}
	return false
}

func (s claimSet) claim(indices []int) {
	for _, i := range indices {
		s[i] = true
	}
}

// rankCandidates orders candidates for first-fit selection: priority desc,
// date distance asc, score desc, bundle size asc, keeper index asc.
func rankCandidates(candidates []Candidate) []Candidate {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].base(), ranked[j].base()
		if pa, pb := a.Type.Priority(), b.Type.Priority(); pa != pb {
			return pa > pb
		}
		if a.DateDiff != b.DateDiff {
			return a.DateDiff < b.DateDiff
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if ca, cb := bundleRowCount(a.BundleRowCount), bundleRowCount(b.BundleRowCount); ca != cb {
			return ca < cb
		}
		return a.KeeperIndex < b.KeeperIndex
	})
	return ranked
}

// pick accepts ranked candidates whose rows are all unclaimed, claiming them
// as it goes.
func pick(candidates []Candidate, used claimSet) []Candidate {
	var accepted []Candidate
	for _, c := range rankCandidates(candidates) {
		idx := c.base().RowIndices
		if used.any(idx) {
			continue
		}
		used.claim(idx)
		accepted = append(accepted, c)
	}
	return accepted
}

// unclaimed filters indices down to those not yet in used.
func unclaimed(indices []int, used claimSet) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if !used[i] {
			out = append(out, i)
		}
	}
	return out
}

func sortedUnique(indices []int) []int {
	out := append([]int(nil), indices...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}
	return out[:n]
}
