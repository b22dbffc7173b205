// Package builder assembles the identity of a local file from its filename
// and its embedded tags.
package builder

import (
	"strings"

	"music-tagger/internal/extract"
	"music-tagger/internal/lexicon"
	"music-tagger/internal/models"
)

// Tags is the metadata embedded in an audio file. Empty fields are absent.
type Tags struct {
	Title    string
	Artist   string
	Album    string
	Duration int // milliseconds
	ISRC     string
	Year     string
	Genre    string
	Key      string
}

type Input struct {
	Filename string
	Tags     Tags
}

// Build merges the parsed filename, the tag title parsed as a catalog title,
// the split tag artist and the tag scalars. Tag values win over filename
// values; artist lists are unioned.
func Build(in Input) models.Track {
	tagged := fromTags(in.Tags)
	track := tagged.Merge(extract.Parse(in.Filename))
	track.OriginalFilename = in.Filename
	return track
}

func fromTags(tags Tags) models.Track {
	var t models.Track

	// Title tags carry no artist credit: "Cold Heart - PNAU Remix" is a
	// remix of "Cold Heart".
	if title := strings.TrimSpace(tags.Title); title != "" {
		t = extract.ParseTitle(title)
	}

	if artist := strings.TrimSpace(tags.Artist); artist != "" {
		rest, featuring := extract.ExtractFeaturing(artist)
		credited := models.Track{Featuring: featuring}
		if artists := models.ArtistsFromString(rest); len(artists) > 0 {
			credited.Artists = models.Some(artists)
		}
		// The artist tag is authoritative; artists parsed from the title
		// follow it.
		t = credited.Merge(t)
	}

	if album := strings.TrimSpace(tags.Album); album != "" {
		t.Album = models.Some(models.Album{
			Name: album,
			Type: models.ClassifyAlbum(t.Name.OrElse(""), album),
		})
	}
	if tags.Duration > 0 {
		t.Duration = models.Some(tags.Duration)
	}
	if isrc := models.ISRCValue(tags.ISRC); isrc.IsSet() {
		t.ISRC = isrc
	}
	if year := strings.TrimSpace(tags.Year); year != "" {
		if date := extract.ParseDate(year); date.IsSet() {
			t.Date = date
			t.Year = models.Some(year[:4])
		}
	}
	if genre := strings.TrimSpace(tags.Genre); genre != "" {
		t.Genres = models.Some([]string{genre})
	}
	if key, ok := lexicon.ParseKey(tags.Key); ok {
		t.Key = models.Some(key)
	}
	return t
}
