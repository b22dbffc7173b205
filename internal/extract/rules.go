package extract

import (
	"regexp"
	"strings"

	"music-tagger/internal/lexicon"
	"music-tagger/internal/models"
	"music-tagger/internal/normalize"
)

const (
	bracketChars = "()[]*"
	openBrackets = "(["
)

var trailingNoiseRegex = regexp.MustCompile(`[)\]]([^)\]]+)$`)

// ExtractYear finds the first year. The string is returned unchanged.
func ExtractYear(s string) (string, models.Optional[string]) {
	m := lexicon.YearRegex.FindString(s)
	if m == "" {
		return s, models.None[string]()
	}
	return s, models.Some(lexicon.NormalizeYear(m))
}

// ExtractGenres finds every genre name. The string is returned unchanged.
func ExtractGenres(s string) (string, models.Optional[[]string]) {
	var genres []string
	for _, m := range lexicon.GenreRegex.FindAllString(s, -1) {
		g := lexicon.Canonical(lexicon.Genres, m)
		if !containsFold(genres, g) {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return s, models.None[[]string]()
	}
	return s, models.Some(genres)
}

// ExtractExtended removes every extended marker and keeps the last one.
func ExtractExtended(s string) (string, models.Optional[string]) {
	matches := lexicon.ExtendedRegex.FindAllString(s, -1)
	if len(matches) == 0 {
		return s, models.None[string]()
	}
	s = lexicon.ExtendedRegex.ReplaceAllString(s, " ")
	return tidy(s), models.Some(lexicon.Canonical(lexicon.Extended, matches[len(matches)-1]))
}

// ExtractFeaturing removes "feat. X" credits, including the brackets around
// them, and returns the credited artists.
func ExtractFeaturing(s string) (string, models.Optional[[]models.Artist]) {
	return extractCredits(s, lexicon.FeatRegex)
}

// ExtractWith removes bracketed "(with X)" credits. A bare "with" is left
// alone since it is as likely to be part of the title.
func ExtractWith(s string) (string, models.Optional[[]models.Artist]) {
	return extractCredits(s, lexicon.WithRegex)
}

func extractCredits(s string, marker *regexp.Regexp) (string, models.Optional[[]models.Artist]) {
	var artists []models.Artist
	found := false

	for {
		loc := marker.FindStringIndex(s)
		if loc == nil {
			break
		}
		found = true

		start, runStart := loc[0], loc[1]
		runEnd := creditEnd(s, runStart)
		end := runEnd

		open := start
		if strings.IndexByte(openBrackets, s[open]) < 0 {
			open = strings.LastIndexAny(strings.TrimRight(s[:start], " "), openBrackets)
			if open >= 0 && strings.TrimSpace(s[open+1:start]) != "" {
				open = -1
			}
		}
		if open >= 0 && runEnd < len(s) && (s[runEnd] == ')' || s[runEnd] == ']') {
			start, end = open, runEnd+1
		}

		artists = models.AppendArtists(artists, models.ArtistsFromString(strings.TrimSpace(s[runStart:runEnd]))...)
		s = tidy(s[:start] + " " + s[end:])
	}

	if !found || len(artists) == 0 {
		return s, models.None[[]models.Artist]()
	}
	return s, models.Some(artists)
}

// creditEnd is the index where a credit run starting at from stops: the next
// bracket, the next dash separator, or the end of s.
func creditEnd(s string, from int) int {
	end := len(s)
	if i := strings.IndexAny(s[from:], bracketChars); i >= 0 {
		end = from + i
	}
	if loc := lexicon.DashSeparatorRegex.FindStringIndex(s[from:]); loc != nil && from+loc[0] < end {
		end = from + loc[0]
	}
	return end
}

// StripNoise removes bracketed promotional phrases and trailing noise after
// the last closing bracket, as in "Title (Remix) FREE DOWNLOAD".
func StripNoise(s string) string {
	s = normalize.StripNoise(s)
	if m := trailingNoiseRegex.FindStringSubmatchIndex(s); m != nil {
		if lexicon.IgnoreRegex.MatchString(s[m[2]:m[3]]) {
			s = s[:m[2]]
		}
	}
	return tidy(s)
}

// ExtractArtists splits off everything before the first dash separator as
// the artist list.
func ExtractArtists(s string) (string, models.Optional[[]models.Artist]) {
	loc := lexicon.DashSeparatorRegex.FindStringIndex(s)
	if loc == nil {
		return s, models.None[[]models.Artist]()
	}
	residual := s[loc[1]:]
	artists := models.ArtistsFromString(s[:loc[0]])
	if len(artists) == 0 {
		return residual, models.None[[]models.Artist]()
	}
	return residual, models.Some(artists)
}

// ExtractTitle takes the text from the start up to the first bracket or
// featuring marker. Surrounding brackets, asterisks and separators are not
// part of the title. An empty result is absent, not "".
func ExtractTitle(s string) (string, models.Optional[string]) {
	start := len(s) - len(strings.TrimLeft(s, " \t([*"))
	end := len(s)
	if i := strings.IndexAny(s[start:], bracketChars); i >= 0 {
		end = start + i
	}
	if loc := lexicon.FeatRegex.FindStringIndex(s[start:end]); loc != nil {
		end = start + loc[0]
	}
	end = start + len(strings.TrimRight(s[start:end], " \t-–—,&+"))

	if end <= start {
		return s, models.None[string]()
	}
	return normalize.Collapse(s[:start] + " " + s[end:]), models.Some(s[start:end])
}

// tidy drops brackets emptied by an extractor and collapses whitespace.
func tidy(s string) string {
	s = lexicon.EmptyBracketsRegex.ReplaceAllString(s, " ")
	return normalize.Collapse(s)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

type yearExtractor struct{}

func (yearExtractor) Name() string { return "year" }

func (yearExtractor) Apply(s string, t *models.Track) string {
	s, year := ExtractYear(s)
	if y, ok := year.Get(); ok {
		t.Year = year
		t.Date = ParseDate(y)
	}
	return s
}

type genreExtractor struct{}

func (genreExtractor) Name() string { return "genre" }

func (genreExtractor) Apply(s string, t *models.Track) string {
	s, t.Genres = ExtractGenres(s)
	return s
}

type extendedExtractor struct{}

func (extendedExtractor) Name() string { return "extended" }

func (extendedExtractor) Apply(s string, t *models.Track) string {
	s, t.Extended = ExtractExtended(s)
	return s
}

type featuringExtractor struct{}

func (featuringExtractor) Name() string { return "featuring" }

func (featuringExtractor) Apply(s string, t *models.Track) string {
	s, t.Featuring = ExtractFeaturing(s)
	return s
}

type withExtractor struct{}

func (withExtractor) Name() string { return "with" }

func (withExtractor) Apply(s string, t *models.Track) string {
	s, t.With = ExtractWith(s)
	return s
}

type noiseExtractor struct{}

func (noiseExtractor) Name() string { return "noise" }

func (noiseExtractor) Apply(s string, _ *models.Track) string {
	return StripNoise(s)
}

type artistsExtractor struct{}

func (artistsExtractor) Name() string { return "artists" }

func (artistsExtractor) Apply(s string, t *models.Track) string {
	s, t.Artists = ExtractArtists(s)
	return s
}

type titleExtractor struct{}

func (titleExtractor) Name() string { return "title" }

func (titleExtractor) Apply(s string, t *models.Track) string {
	s, t.Name = ExtractTitle(s)
	return s
}
