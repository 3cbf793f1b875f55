// Package ledgerfile reads ledger exports (CSV, TSV or XLSX) into a header
// keyed table. Text files may be UTF-8 or Shift_JIS; the decoding that
// produces the more plausible header line wins.
package ledgerfile

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported text encodings.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// Decoded is text recovered from raw bytes plus the encoding that produced it.
type Decoded struct {
	Text     string
	Encoding string
}

// headerHints are tokens expected on the header line of a Japanese export.
var headerHints = []string{"日付", "内容", "金額", "振替", "ID"}

type candidateEncoding struct {
	name string
	enc  encoding.Encoding
}

var candidateEncodings = []candidateEncoding{
	{EncodingUTF8, unicode.UTF8BOM},
	{EncodingShiftJIS, japanese.ShiftJIS},
}

// Decode tries each supported encoding and keeps the best scoring text.
// Ties go to UTF-8.
func Decode(b []byte) (Decoded, error) {
	var best Decoded
	bestScore := 0
	found := false

	var lastErr error
	for _, c := range candidateEncodings {
		out, _, err := transform.Bytes(c.enc.NewDecoder(), b)
		if err != nil {
			lastErr = err
			continue
		}
		text := strings.TrimPrefix(string(out), "\uFEFF")
		score := ScoreDecodedText(text)
		if !found || score > bestScore {
			best = Decoded{Text: text, Encoding: c.name}
			bestScore = score
			found = true
		}
	}

	if !found {
		return Decoded{}, fmt.Errorf("failed to decode ledger file: %w", lastErr)
	}
	return best, nil
}

// ScoreDecodedText rates how plausible a decoding is: replacement
// characters cost 5 each, a comma on the first line earns 5 and every
// known header token on it earns 20.
func ScoreDecodedText(text string) int {
	first := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		first = text[:i]
	}
	first = strings.TrimSpace(first)

	score := -5 * strings.Count(text, "\uFFFD")
	if strings.Contains(first, ",") {
		score += 5
	}
	for _, hint := range headerHints {
		if strings.Contains(first, hint) {
			score += 20
		}
	}
	return score
}
