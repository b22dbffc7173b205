package extract

import (
	"sort"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-tagger/internal/models"
)

func names(o models.Optional[[]models.Artist]) []string {
	list, ok := o.Get()
	if !ok {
		return nil
	}
	return models.ArtistNames(list)
}

func TestParseFullExample(t *testing.T) {
	track := Parse("Martin Garrix & Dallas K feat. Sasha Alex Sloan - Loop (Brooks Remix) [Extended]")

	assert.Equal(t, []string{"Martin Garrix", "Dallas K"}, names(track.Artists))
	assert.Equal(t, []string{"Sasha Alex Sloan"}, names(track.Featuring))
	assert.False(t, track.With.IsSet())
	assert.Equal(t, "Extended", track.Extended.OrElse(""))
	assert.Equal(t, "Loop", track.Name.OrElse(""))

	versions, ok := track.Versions.Get()
	require.True(t, ok)
	require.Len(t, versions, 1)
	assert.Equal(t, "Remix", versions[0].Label)
	assert.Equal(t, []string{"Brooks"}, models.ArtistNames(versions[0].Artists))

	assert.Equal(t, "Martin Garrix & Dallas K feat. Sasha Alex Sloan - Loop (Brooks Remix) [Extended]", track.OriginalFilename)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		title     string
		artists   []string
		featuring []string
		with      []string
		versions  map[string][]string
		extended  string
	}{
		{
			name:     "dash version after title",
			in:       "Elton John & Dua Lipa - Cold Heart - PNAU Remix",
			title:    "Cold Heart",
			artists:  []string{"Elton John", "Dua Lipa"},
			versions: map[string][]string{"Remix": {"PNAU"}},
		},
		{
			name:     "year qualifier",
			in:       "Avicii - Levels (Skrillex Remix) [2k12 Remaster]",
			title:    "Levels",
			artists:  []string{"Avicii"},
			versions: map[string][]string{"Remix": {"Skrillex"}, "2012 Remaster": nil},
		},
		{
			name:     "extended mix leaves no version",
			in:       "Tiësto - The Business (Extended Mix)",
			title:    "The Business",
			artists:  []string{"Tiësto"},
			extended: "Extended",
		},
		{
			name:    "bracketed with",
			in:      "Calvin Harris - Feel So Close (with Dua Lipa)",
			title:   "Feel So Close",
			artists: []string{"Calvin Harris"},
			with:    []string{"Dua Lipa"},
		},
		{
			name:    "bare with stays in the title",
			in:      "Dua Lipa - Dancing with a Stranger",
			title:   "Dancing with a Stranger",
			artists: []string{"Dua Lipa"},
		},
		{
			name:      "bracketed featuring and noise",
			in:        "Artist - Title (feat. A & B) [Free Download]",
			title:     "Title",
			artists:   []string{"Artist"},
			featuring: []string{"A", "B"},
		},
		{
			name:     "no dash",
			in:       "Loop (Brooks Remix)",
			title:    "Loop",
			versions: map[string][]string{"Remix": {"Brooks"}},
		},
		{
			name:     "generic keyword dropped",
			in:       "Martin Garrix - Loop (Brooks Remix Edit)",
			title:    "Loop",
			artists:  []string{"Martin Garrix"},
			versions: map[string][]string{"Remix": {"Brooks"}},
		},
		{
			name:     "quoted qualifier",
			in:       `Artist - Song ("Club" Mix)`,
			title:    "Song",
			artists:  []string{"Artist"},
			versions: map[string][]string{`"Club" Mix`: nil},
		},
		{
			name:     "same label merges",
			in:       "A - T (B Remix) [C Remix]",
			title:    "T",
			artists:  []string{"A"},
			versions: map[string][]string{"Remix": {"B", "C"}},
		},
		{
			name:     "trailing noise",
			in:       "A - T (B Remix) FREE DOWNLOAD",
			title:    "T",
			artists:  []string{"A"},
			versions: map[string][]string{"Remix": {"B"}},
		},
		{
			name:    "title falls back to input",
			in:      "Artist - ",
			title:   "Artist",
			artists: []string{"Artist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := Parse(tt.in)
			assert.Equal(t, tt.title, track.Name.OrElse(""))
			assert.Equal(t, tt.artists, names(track.Artists))
			assert.Equal(t, tt.featuring, names(track.Featuring))
			assert.Equal(t, tt.with, names(track.With))
			assert.Equal(t, tt.extended, track.Extended.OrElse(""))

			versions := track.Versions.OrElse(nil)
			assert.Len(t, versions, len(tt.versions))
			for label, artists := range tt.versions {
				v, ok := versions.Get(label)
				if assert.True(t, ok, label) {
					assert.Equal(t, artists, models.ArtistNames(v.Artists))
				}
			}
			assert.Equal(t, len(tt.versions) > 0, track.Versions.IsSet())
		})
	}
}

func TestParseTitle(t *testing.T) {
	track := ParseTitle("Cold Heart - PNAU Remix")
	assert.Equal(t, "Cold Heart", track.Name.OrElse(""))
	assert.False(t, track.Artists.IsSet())

	v, ok := track.Versions.OrElse(nil).Get("Remix")
	require.True(t, ok)
	assert.Equal(t, []string{"PNAU"}, models.ArtistNames(v.Artists))

	plain := ParseTitle("Loop - Live")
	assert.Equal(t, "Loop - Live", plain.Name.OrElse(""))
	assert.False(t, plain.Versions.IsSet())
}

func TestParseEmpty(t *testing.T) {
	track := Parse("   ")
	assert.False(t, track.Name.IsSet())
	assert.False(t, track.Artists.IsSet())
}

func TestPipelineOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"year", "genre", "extended", "featuring", "with", "noise", "version", "artists", "title"},
		NewPipeline(FilenameMode).Stages())
	assert.NotContains(t, NewPipeline(TitleMode).Stages(), "artists")
}

func TestExtractYear(t *testing.T) {
	s, year := ExtractYear("Summer 20k22 Anthem")
	assert.Equal(t, "Summer 20k22 Anthem", s)
	assert.Equal(t, "2022", year.OrElse(""))

	_, year = ExtractYear("Track 10000")
	assert.False(t, year.IsSet())

	track := Parse("Artist - Title (1999 Remaster)")
	assert.Equal(t, "1999", track.Year.OrElse(""))
	assert.Equal(t, 1999, track.Date.OrElse(time.Time{}).Year())
}

func TestExtractGenres(t *testing.T) {
	s, genres := ExtractGenres("Best of Tech House & Deep House")
	assert.Equal(t, "Best of Tech House & Deep House", s)
	assert.Equal(t, []string{"Tech House", "Deep House"}, genres.OrElse(nil))

	_, genres = ExtractGenres("r&b classics")
	assert.Equal(t, []string{"R&B"}, genres.OrElse(nil))

	_, genres = ExtractGenres("Loop")
	assert.False(t, genres.IsSet())
}

func TestExtractExtendedKeepsLast(t *testing.T) {
	_, ext := ExtractExtended("Original Song (Extended Mix)")
	assert.Equal(t, "Extended", ext.OrElse(""))
}

func TestExtractFeaturingStopsAtDash(t *testing.T) {
	s, feat := ExtractFeaturing("A ft. B, C - Title")
	assert.Equal(t, "A - Title", s)
	assert.Equal(t, []string{"B", "C"}, names(feat))

	s, feat = ExtractFeaturing("Title (Remix feat. X)")
	assert.Equal(t, "Title (Remix )", s)
	assert.Equal(t, []string{"X"}, names(feat))

	s, feat = ExtractFeaturing("Title feat. X (Remix)")
	assert.Equal(t, "Title (Remix)", s)
	assert.Equal(t, []string{"X"}, names(feat))
}

func TestTitleExtractionIsLossless(t *testing.T) {
	inputs := []string{
		"Artist - Title (Live)",
		"Artist - *Title* [Session]",
		"Title",
		"A & B - Some Long Title - Part 2",
		"(Intro) Title",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			residual, _ := ExtractArtists(in)
			rest, title := ExtractTitle(residual)
			assert.Equal(t, sortedRunes(residual), sortedRunes(rest+title.OrElse("")))
		})
	}
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), ParseDate("2019").OrElse(time.Time{}))
	assert.Equal(t, time.Date(2019, 5, 3, 0, 0, 0, 0, time.UTC), ParseDate("2019.05.03").OrElse(time.Time{}))
	assert.Equal(t, time.Month(2), ParseDate("2020-02").OrElse(time.Time{}).Month())
	assert.True(t, ParseDate("2021-06-01T10:00:00Z").IsSet())
	assert.False(t, ParseDate("soon").IsSet())
}

func sortedRunes(s string) string {
	var rs []rune
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}
