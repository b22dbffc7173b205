package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

var (
	GenreRegex    = wordListRegex(Genres)
	VersionRegex  = wordListRegex(Versions)
	IgnoreRegex   = wordListRegex(Ignore)
	ExtendedRegex = wordListRegex(Extended)

	// FeatRegex matches a featuring marker with an optional trailing period.
	FeatRegex = regexp.MustCompile(`(?i)\b(?:` + alternation(Featuring) + `)\b\.?`)

	// WithRegex matches "with" right after an opening bracket.
	WithRegex = regexp.MustCompile(`(?i)[(\[]\s*\b(?:` + alternation(With) + `)\b\s+`)

	// YearRegex accepts 19xx, 20xx and the "2k22" / "20k22" spellings.
	YearRegex = regexp.MustCompile(`(?i)\b(19\d{2}|20\d{2}|2k\d{2}|20k\d{2})\b`)

	// DashSeparatorRegex matches a hyphen, en dash or em dash with a space or
	// the string boundary on both sides.
	DashSeparatorRegex = regexp.MustCompile(`(?:^|\s+)[-–—](?:\s+|$)`)

	// BracketRegex matches one bracketed segment without nesting. An
	// unterminated segment runs to the end of the string.
	BracketRegex = regexp.MustCompile(`[(\[*][^()\[\]*]*(?:[)\]*]|$)`)

	EmptyBracketsRegex = regexp.MustCompile(`\(\s*\)|\[\s*\]|\*\s*\*`)

	QuoteRegex = regexp.MustCompile(`"[^"]+"|“[^”]+”|'[^']+'`)

	SpacesRegex = regexp.MustCompile(`\s+`)

	// ConjunctionRegex splits artist lists.
	ConjunctionRegex = regexp.MustCompile(`(?i)\s*,\s*|\s+(?:vs\.?|x|&|\+|_|with)\s+`)
)

// NormalizeYear turns a YearRegex match into four digits.
func NormalizeYear(s string) string {
	s = strings.ToLower(s)
	if len(s) == 5 {
		return strings.Replace(s, "k", "", 1)
	}
	return strings.Replace(s, "k", "0", 1)
}

// Canonical returns the table spelling of word, matched case-insensitively.
func Canonical(table []string, word string) string {
	for _, entry := range table {
		if strings.EqualFold(entry, word) {
			return entry
		}
	}
	return word
}

func wordListRegex(words []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|\b)(` + alternation(words) + `)(?:\b|$)`)
}

// alternation quotes the words and orders them longest first so that
// "Remastered" wins over "Remaster".
func alternation(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
