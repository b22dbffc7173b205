package extract

import (
	"strings"
	"time"

	"music-tagger/internal/models"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate reads a release date given as a year, a year and month, a full
// date or an RFC 3339 timestamp. "." and " " are accepted as separators.
func ParseDate(s string) models.Optional[time.Time] {
	s = strings.TrimSpace(s)
	if len(s) >= 7 && len(s) <= 10 {
		s = strings.NewReplacer(".", "-", " ", "-", "/", "-").Replace(s)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Some(t)
		}
	}
	return models.None[time.Time]()
}
