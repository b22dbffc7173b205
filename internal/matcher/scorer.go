package matcher

import (
	"math"
	"strings"

	"music-tagger/internal/models"
)

type Field string

const (
	FieldISRC     Field = "isrc"
	FieldDuration Field = "duration"
	FieldTitle    Field = "title"
	FieldArtists  Field = "artists"
	FieldAlbum    Field = "album"
	FieldExtended Field = "extended"
	FieldVersions Field = "versions"
)

// Rate is one field's similarity. An unset Value means the field could not
// be compared and takes no part in the ratio.
type Rate struct {
	Field Field
	Value models.Optional[float64]
}

type Breakdown []Rate

// Ratio is the mean of the applicable rates, or 0 when none applies.
func (b Breakdown) Ratio() float64 {
	var sum float64
	var n int
	for _, r := range b {
		if v, ok := r.Value.Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Min(1, math.Max(0, sum/float64(n)))
}

// Comparer scores how likely two tracks are the same recording.
type Comparer interface {
	Compare(a, b models.Track) float64
}

// Scorer compares tracks field by field.
type Scorer struct {
	// MinSimilarity zeroes title and album rates below it.
	MinSimilarity float64
	// ExtendedSimilarity zeroes extended-marker rates below it.
	ExtendedSimilarity float64
	// DurationTolerance is the window, in milliseconds, over which the
	// duration rate falls from 1 to 0.
	DurationTolerance int
}

func DefaultScorer() Scorer {
	return Scorer{
		MinSimilarity:      0.6,
		ExtendedSimilarity: 0.9,
		DurationTolerance:  5000,
	}
}

func (s Scorer) Compare(a, b models.Track) float64 {
	return s.Breakdown(a, b).Ratio()
}

func (s Scorer) Breakdown(a, b models.Track) Breakdown {
	return Breakdown{
		{FieldISRC, s.ISRCRate(a, b)},
		{FieldDuration, s.DurationRate(a, b)},
		{FieldTitle, s.TitleRate(a, b)},
		{FieldArtists, s.ArtistsRate(a, b)},
		{FieldAlbum, s.AlbumRate(a, b)},
		{FieldExtended, s.ExtendedRate(a, b)},
		{FieldVersions, s.VersionsRate(a, b)},
	}
}

func (s Scorer) ISRCRate(a, b models.Track) models.Optional[float64] {
	x, okA := a.ISRC.Get()
	y, okB := b.ISRC.Get()
	if !okA || !okB {
		return models.None[float64]()
	}
	if strings.EqualFold(x, y) {
		return models.Some(1.0)
	}
	return models.Some(0.0)
}

func (s Scorer) DurationRate(a, b models.Track) models.Optional[float64] {
	x, okA := a.Duration.Get()
	y, okB := b.Duration.Get()
	if !okA || !okB || s.DurationTolerance <= 0 {
		return models.None[float64]()
	}
	tolerance := float64(s.DurationTolerance)
	diff := math.Abs(float64(x - y))
	return models.Some(math.Min(1, math.Max(0, (tolerance-diff)/tolerance)))
}

func (s Scorer) TitleRate(a, b models.Track) models.Optional[float64] {
	x, okA := a.Name.Get()
	y, okB := b.Name.Get()
	if !okA || !okB {
		return models.None[float64]()
	}
	return models.Some(s.floor(StringSimilarity(x, y), s.MinSimilarity))
}

func (s Scorer) AlbumRate(a, b models.Track) models.Optional[float64] {
	x, okA := a.Album.Get()
	y, okB := b.Album.Get()
	if !okA || !okB || x.Name == "" || y.Name == "" {
		return models.None[float64]()
	}
	return models.Some(s.floor(StringSimilarity(x.Name, y.Name), s.MinSimilarity))
}

// ExtendedRate applies as soon as one side claims an extended marker; the
// other side must carry nearly the same marker or the rate is 0.
func (s Scorer) ExtendedRate(a, b models.Track) models.Optional[float64] {
	x, okA := a.Extended.Get()
	y, okB := b.Extended.Get()
	if !okA && !okB {
		return models.None[float64]()
	}
	return models.Some(s.floor(StringSimilarity(x, y), s.ExtendedSimilarity))
}

// ArtistsRate compares the union of artists, with and featuring.
func (s Scorer) ArtistsRate(a, b models.Track) models.Optional[float64] {
	if !hasArtistInfo(a) || !hasArtistInfo(b) {
		return models.None[float64]()
	}
	return ListSimilarity(a.AllArtists(), b.AllArtists(), artistPair)
}

// VersionsRate averages the label similarity and the version-artist
// similarity, skipping whichever is not applicable.
func (s Scorer) VersionsRate(a, b models.Track) models.Optional[float64] {
	x := a.Versions.OrElse(nil)
	y := b.Versions.OrElse(nil)
	if len(x) == 0 || len(y) == 0 {
		return models.None[float64]()
	}

	parts := []models.Optional[float64]{
		ListSimilarity(x.Labels(), y.Labels(), stringPair),
		ListSimilarity(
			models.AppendArtists(nil, x.Artists()...),
			models.AppendArtists(nil, y.Artists()...),
			artistPair,
		),
	}

	var sum float64
	var n int
	for _, p := range parts {
		if v, ok := p.Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return models.None[float64]()
	}
	return models.Some(sum / float64(n))
}

func (s Scorer) floor(rate, threshold float64) float64 {
	if rate < threshold {
		return 0
	}
	return rate
}

func hasArtistInfo(t models.Track) bool {
	return t.Artists.IsSet() || t.With.IsSet() || t.Featuring.IsSet()
}
