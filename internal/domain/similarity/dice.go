// Package similarity scores how alike two normalized description keys are.
package similarity

// Dice returns the Sørensen–Dice coefficient over character bigrams of a
// and b, in [0,1]. Two empty strings score 1, exactly one empty string
// scores 0. A single-rune string counts as one gram of itself.
func Dice(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ga, sa := bigrams(a)
	gb, sb := bigrams(b)
	if sa+sb == 0 {
		return 0
	}

	overlap := 0
	for g, ca := range ga {
		if cb := gb[g]; cb < ca {
			overlap += cb
		} else {
			overlap += ca
		}
	}
	return float64(2*overlap) / float64(sa+sb)
}

// bigrams counts overlapping rune pairs and returns the multiset and its size.
func bigrams(s string) (map[string]int, int) {
	runes := []rune(s)
	grams := make(map[string]int, len(runes))
	if len(runes) == 1 {
		grams[s] = 1
		return grams, 1
	}

	total := 0
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
		total++
	}
	return grams, total
}
