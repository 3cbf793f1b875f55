package normalize

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// Infinite is the distance between two dates when either is malformed.
const Infinite = math.MaxInt

var canonicalDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// DayNumber converts a canonical YYYY-MM-DD date to days since the Unix epoch
// in UTC. ok is false for anything else.
func DayNumber(s string) (int, bool) {
	m := canonicalDate.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	return int(t.Unix() / 86400), true
}

// DayDiff is |day(a) - day(b)|, or Infinite when either date is malformed.
func DayDiff(a, b string) int {
	x, okA := DayNumber(a)
	y, okB := DayNumber(b)
	if !okA || !okB {
		return Infinite
	}
	if x > y {
		return x - y
	}
	return y - x
}

// WithinDays reports whether both dates are valid and at most n days apart.
func WithinDays(a, b string, n int) bool {
	d := DayDiff(a, b)
	return d != Infinite && d <= n
}
