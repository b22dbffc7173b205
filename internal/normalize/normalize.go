// Package normalize provides the string cleanup helpers shared by the
// extractors, the track model and the scorer.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"music-tagger/internal/lexicon"
)

const trimCutset = " \t-+.,&#"

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Collapse folds runs of whitespace into a single space and trims the ends.
func Collapse(s string) string {
	return strings.TrimSpace(lexicon.SpacesRegex.ReplaceAllString(s, " "))
}

// Clean removes bracketed promotional noise ("[Free Download]"), empty
// brackets and repeated whitespace, then trims separator punctuation from
// both ends.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = StripNoise(s)
	s = lexicon.EmptyBracketsRegex.ReplaceAllString(s, " ")
	s = Collapse(s)
	return strings.Trim(s, trimCutset)
}

// StripNoise drops every bracketed segment that contains an ignore word.
func StripNoise(s string) string {
	return lexicon.BracketRegex.ReplaceAllStringFunc(s, func(segment string) string {
		if lexicon.IgnoreRegex.MatchString(segment) {
			return " "
		}
		return segment
	})
}

// SplitConjunctions splits an artist list on commas and the conjunction
// words ("vs", "x", "&", "+", "with"). Empty segments are dropped.
func SplitConjunctions(s string) []string {
	var out []string
	for _, part := range lexicon.ConjunctionRegex.Split(strings.TrimSpace(s), -1) {
		if part = Clean(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatList joins names as "A, B & C".
func FormatList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		b.WriteString(item)
		switch {
		case i < len(items)-2:
			b.WriteString(", ")
		case i == len(items)-2:
			b.WriteString(" & ")
		}
	}
	return b.String()
}

// TitleCase upper-cases the first letter of every word and leaves the rest
// untouched, so "VIP remix" becomes "VIP Remix".
func TitleCase(s string) string {
	return titleCaser.String(s)
}

// Fold lower-cases s and strips combining marks so "Beyoncé" compares equal
// to "beyonce".
func Fold(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsMark(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return Collapse(b.String())
}
