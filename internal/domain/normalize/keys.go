package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxMerchantKeyLen caps the merchant key, in runes.
const MaxMerchantKeyLen = 18

var (
	fullWidthParens = regexp.MustCompile(`（[^）]*）`)
	asciiParens     = regexp.MustCompile(`\([^)]*\)`)
	brackets        = regexp.MustCompile(`[\[\]【】]`)
	separators      = regexp.MustCompile(`[/_\-・ー]`)
	symbols         = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespace      = regexp.MustCompile(`\s+`)

	// Marketplace and promotion phrases that carry no merchant identity.
	descriptionBoilerplate = regexp.MustCompile(`楽天市場店|楽天市場|my rakuten|クーポン利用|ポイント利用|期間限定|毎月0と5の付く日`)
	merchantBoilerplate    = regexp.MustCompile(`楽天市場店|楽天市場|ラクテンイチバ\d*|my rakuten|クーポン利用|ポイント利用|期間限定|毎月0と5の付く日`)
)

var merchantStopwords = map[string]bool{
	"公式":  true,
	"ストア": true,
	"利用":  true,
	"対象":  true,
	"注文":  true,
	"商品":  true,
	"市場":  true,
}

// cleanDescription runs the shared cleanup and returns space separated tokens.
func cleanDescription(v string, boilerplate *regexp.Regexp) string {
	t := norm.NFKC.String(Text(v))
	t = strings.ToLower(t)
	t = fullWidthParens.ReplaceAllString(t, " ")
	t = asciiParens.ReplaceAllString(t, " ")
	t = brackets.ReplaceAllString(t, " ")
	t = boilerplate.ReplaceAllString(t, " ")
	t = separators.ReplaceAllString(t, " ")
	t = symbols.ReplaceAllString(t, " ")
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// DescriptionKey returns the dense lowercase key compared by the similarity scorer.
func DescriptionKey(v string) string {
	return whitespace.ReplaceAllString(cleanDescription(v, descriptionBoilerplate), "")
}

// MerchantKey returns a coarse identity token: the first non-stopword token of
// the cleaned description, capped at MaxMerchantKeyLen runes. It falls back to
// DescriptionKey when no token survives.
func MerchantKey(v string) string {
	var stem string
	for _, tok := range strings.Split(cleanDescription(v, merchantBoilerplate), " ") {
		if tok == "" || merchantStopwords[tok] {
			continue
		}
		stem = tok
		break
	}
	if stem == "" {
		stem = DescriptionKey(v)
	}
	if utf8.RuneCountInString(stem) > MaxMerchantKeyLen {
		stem = string([]rune(stem)[:MaxMerchantKeyLen])
	}
	return stem
}

// PrefixCompatible reports whether two merchant keys are both non-empty and
// one is a prefix of the other.
func PrefixCompatible(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}
