// Package normalize canonicalizes raw ledger field values and derives the
// text keys used for duplicate matching.
//
// Every function here is total: malformed input yields a sentinel (empty
// string, zero amount, Infinite distance) instead of an error, and those
// sentinels never satisfy a matching test.
//
// Example usage:
//
//	date := normalize.Date("2024.1.5")             // "2024-01-05"
//	amount := normalize.Amount("¥1,200")          // 1200
//	key := normalize.DescriptionKey("Shop X (JP)") // "shopx"
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	blankRun   = regexp.MustCompile(`[ \t]+`)
	dateShape  = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	amountJunk = regexp.MustCompile(`[¥￥$€£,\s\x{00a0}]`)
)

// Text replaces ideographic spaces, collapses space/tab runs and trims.
func Text(v string) string {
	v = strings.ReplaceAll(v, "\u3000", " ")
	v = blankRun.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}

// Amount strips currency symbols, thousands separators and whitespace and
// parses what is left. Anything unparseable is zero.
func Amount(v string) decimal.Decimal {
	cleaned := amountJunk.ReplaceAllString(Text(v), "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date accepts y/m/d with '/', '-' or '.' separators and a four digit year,
// returning YYYY-MM-DD. Unrecognized input returns "".
func Date(v string) string {
	t := Text(v)
	t = strings.ReplaceAll(t, ".", "/")
	t = strings.ReplaceAll(t, "-", "/")

	m := dateShape.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
}

var truthy = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
	"y":    true,
	"on":   true,
	"対象":   true,
	"振替":   true,
	"あり":   true,
}

// Bool reports whether v is one of the recognized truthy tokens.
func Bool(v string) bool {
	return truthy[strings.ToLower(Text(v))]
}
