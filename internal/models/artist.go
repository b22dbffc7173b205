package models

import (
	"strings"

	"music-tagger/internal/normalize"
)

// Artist is identified by its name alone, compared case-insensitively.
type Artist struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
	ID     string   `json:"id,omitempty"`
	URL    string   `json:"url,omitempty"`
}

func NewArtists(names ...string) []Artist {
	var out []Artist
	for _, n := range names {
		out = AppendArtists(out, Artist{Name: n})
	}
	return out
}

func (a Artist) key() string {
	return strings.ToLower(strings.TrimSpace(a.Name))
}

// Equal reports name identity.
func (a Artist) Equal(other Artist) bool {
	return a.key() == other.key()
}

func (a Artist) String() string {
	return a.Name
}

// AppendArtists adds artists that are not already in list, keeping the
// first-seen order. Blank names are skipped.
func AppendArtists(list []Artist, artists ...Artist) []Artist {
	for _, a := range artists {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" || ContainsArtist(list, a) {
			continue
		}
		list = append(list, a)
	}
	return list
}

func ContainsArtist(list []Artist, a Artist) bool {
	for _, existing := range list {
		if existing.Equal(a) {
			return true
		}
	}
	return false
}

func ArtistNames(list []Artist) []string {
	if len(list) == 0 {
		return nil
	}
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	return names
}

// ArtistsFromString splits a free-form artist credit into a list.
func ArtistsFromString(s string) []Artist {
	return NewArtists(normalize.SplitConjunctions(s)...)
}
