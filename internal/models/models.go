package models

import (
	"strings"
	"time"

	"music-tagger/internal/lexicon"
	"music-tagger/internal/normalize"
)

// Track is the structured identity of one recording. Every attribute except
// OriginalFilename may be absent.
type Track struct {
	Name      Optional[string]      `json:"name,omitzero"`
	Artists   Optional[[]Artist]    `json:"artists,omitzero"`
	Featuring Optional[[]Artist]    `json:"featuring,omitzero"`
	With      Optional[[]Artist]    `json:"with,omitzero"`
	Versions  Optional[Versions]    `json:"versions,omitzero"`
	Extended  Optional[string]      `json:"extended,omitzero"`
	Album     Optional[Album]       `json:"album,omitzero"`
	Duration  Optional[int]         `json:"duration_ms,omitzero"`
	ISRC      Optional[string]      `json:"isrc,omitzero"`
	Year      Optional[string]      `json:"year,omitzero"`
	Date      Optional[time.Time]   `json:"date,omitzero"`
	Genres    Optional[[]string]    `json:"genres,omitzero"`
	Key       Optional[lexicon.Key] `json:"key,omitzero"`
	ID        Optional[string]      `json:"id,omitzero"`
	Platform  Optional[string]      `json:"platform,omitzero"`
	URL       Optional[string]      `json:"url,omitzero"`

	OriginalFilename string `json:"original_filename,omitempty"`
}

// MatchCandidate is a catalog track scored against a local one.
type MatchCandidate struct {
	Track  Track   `json:"track"`
	Source string  `json:"source"`
	Ratio  float64 `json:"ratio"`
}

// ISRCValue normalizes an ISRC for storage: trimmed, dashes removed, upper case.
func ISRCValue(s string) Optional[string] {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Merge combines two partial identities of the same recording. Lists are
// unioned in first-seen order; for scalars the receiver wins when set.
func (t Track) Merge(other Track) Track {
	out := t

	out.Name = t.Name.Or(other.Name)
	out.Artists = mergeArtists(t.Artists, other.Artists)
	out.Featuring = mergeArtists(t.Featuring, other.Featuring)
	out.With = mergeArtists(t.With, other.With)
	out.Extended = t.Extended.Or(other.Extended)
	out.Album = t.Album.Or(other.Album)
	out.Duration = t.Duration.Or(other.Duration)
	out.ISRC = t.ISRC.Or(other.ISRC)
	out.Year = t.Year.Or(other.Year)
	out.Date = t.Date.Or(other.Date)
	out.Key = t.Key.Or(other.Key)
	out.ID = t.ID.Or(other.ID)
	out.Platform = t.Platform.Or(other.Platform)
	out.URL = t.URL.Or(other.URL)

	if a, ok := t.Versions.Get(); ok {
		if b, ok := other.Versions.Get(); ok {
			out.Versions = Some(a.Merge(b))
		}
	} else {
		out.Versions = other.Versions
	}

	if a, ok := t.Genres.Get(); ok {
		if b, ok := other.Genres.Get(); ok {
			out.Genres = Some(appendUnique(append([]string(nil), a...), b...))
		}
	} else {
		out.Genres = other.Genres
	}

	if out.OriginalFilename == "" {
		out.OriginalFilename = other.OriginalFilename
	}
	return out
}

func mergeArtists(a, b Optional[[]Artist]) Optional[[]Artist] {
	left, okA := a.Get()
	right, okB := b.Get()
	switch {
	case okA && okB:
		return Some(AppendArtists(append([]Artist(nil), left...), right...))
	case okA:
		return a
	default:
		return b
	}
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if strings.EqualFold(existing, item) {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}

// AllArtists is the de-duplicated union of artists, with and featuring.
func (t Track) AllArtists() []Artist {
	var out []Artist
	out = AppendArtists(out, t.Artists.OrElse(nil)...)
	out = AppendArtists(out, t.With.OrElse(nil)...)
	out = AppendArtists(out, t.Featuring.OrElse(nil)...)
	return out
}

// ArtistString credits every contributor, version artists included, as
// "A, B & C".
func (t Track) ArtistString() string {
	all := t.AllArtists()
	all = AppendArtists(all, t.Versions.OrElse(nil).Artists()...)
	return normalize.FormatList(ArtistNames(all))
}

// DisplayName rebuilds the full title: the name followed by one bracket
// group per version, then the extended marker.
func (t Track) DisplayName() string {
	name := t.Name.OrElse("")
	extended, hasExtended := t.Extended.Get()
	brackets := [2]string{"(", ")"}

	var b strings.Builder
	b.WriteString(name)
	for _, v := range t.Versions.OrElse(nil) {
		b.WriteString(" " + brackets[0])
		if len(v.Artists) > 0 {
			b.WriteString(normalize.FormatList(ArtistNames(v.Artists)) + " ")
		}
		if hasExtended && !strings.Contains(v.Label, extended) {
			b.WriteString(extended + " ")
			hasExtended = false
		}
		b.WriteString(v.Label + brackets[1])
		brackets = [2]string{"[", "]"}
	}
	if hasExtended {
		b.WriteString(" " + brackets[0] + extended + " Mix" + brackets[1])
	}
	return strings.TrimSpace(b.String())
}

func (t Track) String() string {
	artists := t.ArtistString()
	if artists == "" {
		return t.DisplayName()
	}
	return artists + " - " + t.DisplayName()
}

// SearchStrings lists the catalog queries for this track in preference
// order: the original filename, all artists with the title, the first
// artist with the title, and the title alone. Empty and repeated queries
// are skipped.
func (t Track) SearchStrings() []string {
	name := t.Name.OrElse("")
	artists := ArtistNames(t.Artists.OrElse(nil))

	var candidates []string
	candidates = append(candidates, t.OriginalFilename)
	if name != "" && len(artists) > 0 {
		candidates = append(candidates, normalize.FormatList(artists)+" "+name)
		candidates = append(candidates, artists[0]+" "+name)
	}
	candidates = append(candidates, name)

	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		c = normalize.Collapse(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
