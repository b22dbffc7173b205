// Package musicbrainz searches MusicBrainz recordings.
package musicbrainz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"music-tagger/internal/extract"
	"music-tagger/internal/lexicon"
	"music-tagger/internal/models"
	"music-tagger/internal/sources"
)

const (
	Name    = "musicbrainz"
	APIBase = "https://musicbrainz.org/ws/2"

	// DefaultUserAgent identifies the client as MusicBrainz asks every
	// caller to.
	DefaultUserAgent = "music-tagger/1.0 ( https://musicbrainz.org/doc/MusicBrainz_API/Rate_Limiting )"
)

type recording struct {
	ID               string   `json:"id"`
	Score            int      `json:"score"`
	Title            string   `json:"title"`
	Length           int      `json:"length"`
	FirstReleaseDate string   `json:"first-release-date"`
	ISRCs            []string `json:"isrcs"`
	ArtistCredit     []struct {
		Name       string `json:"name"`
		JoinPhrase string `json:"joinphrase"`
		Artist     struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"artist-credit"`
	Releases []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Date         string `json:"date"`
		ReleaseGroup struct {
			PrimaryType string `json:"primary-type"`
		} `json:"release-group"`
	} `json:"releases"`
}

type searchResponse struct {
	Recordings []recording `json:"recordings"`
}

type Source struct {
	client *sources.Client
	base   string
}

// New returns a source limited to one request per second.
func New(userAgent string) *Source {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	header := http.Header{
		"User-Agent": {userAgent},
		"Accept":     {"application/json"},
	}
	return &Source{
		client: sources.NewClient(time.Second, header),
		base:   APIBase,
	}
}

// WithBaseURL points the source at another server.
func (s *Source) WithBaseURL(base string) *Source {
	s.base = strings.TrimRight(base, "/")
	return s
}

func (s *Source) Name() string { return Name }

func (s *Source) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	return s.search(ctx, escape(query), limit)
}

func (s *Source) SearchISRC(ctx context.Context, isrc string, limit int) ([]models.Track, error) {
	return s.search(ctx, "isrc:"+escape(isrc), limit)
}

func (s *Source) search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprint(limit))

	var res searchResponse
	if err := s.client.GetJSON(ctx, s.base+"/recording?"+params.Encode(), &res); err != nil {
		return nil, fmt.Errorf("musicbrainz search: %w", err)
	}

	tracks := make([]models.Track, 0, len(res.Recordings))
	for _, rec := range res.Recordings {
		tracks = append(tracks, toTrack(rec))
	}
	return tracks, nil
}

var luceneEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `!`, `\!`, `(`, `\(`, `)`, `\)`,
	`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`, `"`, `\"`,
	`~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `&`, `\&`, `|`, `\|`,
)

func escape(s string) string {
	return luceneEscaper.Replace(s)
}

func toTrack(rec recording) models.Track {
	t := extract.ParseTitle(rec.Title)
	t.OriginalFilename = ""
	t.ID = models.Some(rec.ID)
	t.Platform = models.Some(Name)
	t.URL = models.Some("https://musicbrainz.org/recording/" + rec.ID)

	var artists, featuring []models.Artist
	feat := false
	for _, credit := range rec.ArtistCredit {
		a := models.Artist{Name: credit.Name, ID: credit.Artist.ID}
		if a.Name == "" {
			a.Name = credit.Artist.Name
		}
		if feat {
			featuring = models.AppendArtists(featuring, a)
		} else {
			artists = models.AppendArtists(artists, a)
		}
		if lexicon.FeatRegex.MatchString(credit.JoinPhrase) {
			feat = true
		}
	}
	if len(artists) > 0 {
		t.Artists = models.Some(artists)
	}
	if len(featuring) > 0 {
		t.Featuring = models.Some(models.AppendArtists(t.Featuring.OrElse(nil), featuring...))
	}

	if rec.Length > 0 {
		t.Duration = models.Some(rec.Length)
	}
	if len(rec.ISRCs) > 0 {
		t.ISRC = models.ISRCValue(rec.ISRCs[0])
	}
	if date, ok := extract.ParseDate(rec.FirstReleaseDate).Get(); ok {
		t.Date = models.Some(date)
		t.Year = models.Some(fmt.Sprint(date.Year()))
	}

	if len(rec.Releases) > 0 {
		rel := rec.Releases[0]
		album := models.Album{Name: rel.Title, Artists: artists}
		if date, ok := extract.ParseDate(rel.Date).Get(); ok {
			album.ReleaseDate = date
		}
		switch rel.ReleaseGroup.PrimaryType {
		case "Single":
			album.Type = models.AlbumTypeSingle
		case "EP":
			album.Type = models.AlbumTypeEP
		case "Album":
			album.Type = models.AlbumTypeAlbum
		default:
			album.Type = models.ClassifyAlbum(t.Name.OrElse(rec.Title), rel.Title)
		}
		t.Album = models.Some(album)
	}
	return t
}
