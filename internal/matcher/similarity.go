package matcher

import (
	"math"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"music-tagger/internal/models"
	"music-tagger/internal/normalize"
)

// PairThreshold is the similarity two list items must exceed to be paired.
const PairThreshold = 0.6

// lengthPenalty is subtracted once per item the shorter list is missing.
const lengthPenalty = 0.1

var levenshtein = &metrics.Levenshtein{
	CaseSensitive: false,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   1,
}

// StringSimilarity is the case-insensitive Levenshtein ratio of a and b,
// ignoring accents and repeated whitespace.
func StringSimilarity(a, b string) float64 {
	a, b = normalize.Fold(a), normalize.Fold(b)
	if a == b {
		return 1
	}
	return strutil.Similarity(a, b, levenshtein)
}

func stringPair(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 1
	}
	return StringSimilarity(a, b)
}

func artistPair(a, b models.Artist) float64 {
	if a.Equal(b) {
		return 1
	}
	return StringSimilarity(a.Name, b.Name)
}

// ListSimilarity compares two unordered lists. Items are paired greedily,
// each item at most once, when their similarity exceeds PairThreshold. The
// paired scores are averaged over the longer list and 0.1 is taken off per
// missing item.
//
// Two empty lists are identical; one empty list makes the comparison not
// applicable.
func ListSimilarity[T any](a, b []T, pair func(x, y T) float64) models.Optional[float64] {
	switch {
	case len(a) == 0 && len(b) == 0:
		return models.Some(1.0)
	case len(a) == 0 || len(b) == 0:
		return models.None[float64]()
	case len(a) == len(b):
		return models.Some(math.Max(pairUp(a, b, pair), pairUp(b, a, pair)))
	case len(a) < len(b):
		return models.Some(pairUp(a, b, pair))
	default:
		return models.Some(pairUp(b, a, pair))
	}
}

func pairUp[T any](shortest, longest []T, pair func(x, y T) float64) float64 {
	used := make([]bool, len(longest))
	var acc float64

	for _, x := range shortest {
		best, bestIdx := 0.0, -1
		for j, y := range longest {
			if used[j] {
				continue
			}
			if r := pair(x, y); r > PairThreshold && r > best {
				best, bestIdx = r, j
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			acc += best
		}
	}

	missing := float64(len(longest) - len(shortest))
	return math.Max(0, acc/float64(len(longest))-lengthPenalty*missing)
}
