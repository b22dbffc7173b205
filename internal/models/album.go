package models

import (
	"regexp"
	"strings"
	"time"
)

type AlbumType string

const (
	AlbumTypeSingle AlbumType = "Single"
	AlbumTypeEP     AlbumType = "EP"
	AlbumTypeAlbum  AlbumType = "Album"
)

var (
	singleSuffixRegex = regexp.MustCompile(`(?i)-\s*single\s*$`)
	epSuffixRegex     = regexp.MustCompile(`(?i)-\s*ep\s*$`)
)

type Album struct {
	Name        string    `json:"name"`
	Artists     []Artist  `json:"artists,omitempty"`
	ReleaseDate time.Time `json:"release_date,omitzero"`
	Type        AlbumType `json:"type,omitempty"`
	ArtworkURL  string    `json:"artwork_url,omitempty"`
}

// ClassifyAlbum derives the album type from the song and album names. A
// trailing "- Single" or "- EP" on the album name wins; otherwise an album
// whose name does not contain the song is an Album.
func ClassifyAlbum(song, album string) AlbumType {
	switch {
	case strings.TrimSpace(album) == "":
		return AlbumTypeSingle
	case singleSuffixRegex.MatchString(album):
		return AlbumTypeSingle
	case epSuffixRegex.MatchString(album):
		return AlbumTypeEP
	case !strings.Contains(strings.ToLower(album), strings.ToLower(song)):
		return AlbumTypeAlbum
	}
	return AlbumTypeSingle
}
