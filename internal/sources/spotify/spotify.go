// Package spotify searches the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/zmb3/spotify/v2"

	"music-tagger/internal/extract"
	"music-tagger/internal/models"
	"music-tagger/internal/sources"
)

const Name = "spotify"

type Source struct {
	client *spotify.Client
}

// New wraps an authenticated HTTP client, see NewHTTPClient.
func New(httpClient *http.Client, opts ...spotify.ClientOption) *Source {
	return &Source{client: spotify.New(httpClient, opts...)}
}

func (s *Source) Name() string { return Name }

func (s *Source) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	return s.search(ctx, query, limit)
}

func (s *Source) SearchISRC(ctx context.Context, isrc string, limit int) ([]models.Track, error) {
	return s.search(ctx, "isrc:"+isrc, limit)
}

func (s *Source) search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	res, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", classify(err))
	}
	if res.Tracks == nil {
		return nil, nil
	}

	tracks := make([]models.Track, 0, len(res.Tracks.Tracks))
	for _, ft := range res.Tracks.Tracks {
		tracks = append(tracks, toTrack(ft))
	}
	return tracks, nil
}

// Tracks lists the catalog tracks behind a track, album or playlist URL.
// The second result is the name of the track, album or playlist.
func (s *Source) Tracks(ctx context.Context, url string) ([]models.Track, string, error) {
	id, kind, err := ParseURL(url)
	if err != nil {
		return nil, "", err
	}

	switch kind {
	case "playlist":
		return s.playlist(ctx, id)
	case "album":
		return s.album(ctx, id)
	default:
		res, err := s.client.GetTrack(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("get track: %w", classify(err))
		}
		return []models.Track{toTrack(*res)}, res.Name, nil
	}
}

func (s *Source) playlist(ctx context.Context, id spotify.ID) ([]models.Track, string, error) {
	res, err := s.client.GetPlaylist(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get playlist: %w", classify(err))
	}

	var tracks []models.Track
	page := res.Tracks
	for {
		for _, item := range page.Tracks {
			if item.Track.ID != "" && !item.IsLocal {
				tracks = append(tracks, toTrack(item.Track))
			}
		}

		err = s.client.NextPage(ctx, &page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return tracks, res.Name, fmt.Errorf("playlist page: %w", classify(err))
		}
	}
	return tracks, res.Name, nil
}

func (s *Source) album(ctx context.Context, id spotify.ID) ([]models.Track, string, error) {
	res, err := s.client.GetAlbum(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get album: %w", classify(err))
	}

	ids := make([]spotify.ID, 0, len(res.Tracks.Tracks))
	for _, t := range res.Tracks.Tracks {
		ids = append(ids, t.ID)
	}

	var tracks []models.Track
	// GetTracks accepts at most 50 IDs.
	for i := 0; i < len(ids); i += 50 {
		end := min(i+50, len(ids))
		full, err := s.client.GetTracks(ctx, ids[i:end])
		if err != nil {
			return nil, "", fmt.Errorf("get album tracks: %w", classify(err))
		}
		for _, ft := range full {
			if ft != nil {
				tracks = append(tracks, toTrack(*ft))
			}
		}
	}
	return tracks, res.Name, nil
}

// ParseURL extracts the ID and kind ("track", "album" or "playlist") from
// an open.spotify.com URL or a spotify: URI.
func ParseURL(raw string) (spotify.ID, string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) == 3 && isKind(parts[1]) && parts[2] != "" {
			return spotify.ID(parts[2]), parts[1], nil
		}
		return "", "", fmt.Errorf("unsupported spotify uri %q", raw)
	}

	for _, kind := range []string{"playlist", "album", "track"} {
		marker := "/" + kind + "/"
		if i := strings.Index(raw, marker); i >= 0 {
			id := raw[i+len(marker):]
			id, _, _ = strings.Cut(id, "?")
			id, _, _ = strings.Cut(id, "/")
			if id == "" {
				break
			}
			return spotify.ID(id), kind, nil
		}
	}
	return "", "", fmt.Errorf("could not identify media type from %q", raw)
}

func isKind(s string) bool {
	return s == "track" || s == "album" || s == "playlist"
}

func toTrack(ft spotify.FullTrack) models.Track {
	t := extract.ParseTitle(ft.Name)
	t.OriginalFilename = ""
	t.ID = models.Some(string(ft.ID))
	t.Platform = models.Some(Name)
	if u := ft.ExternalURLs["spotify"]; u != "" {
		t.URL = models.Some(u)
	}

	var artists []models.Artist
	for _, a := range ft.Artists {
		artists = models.AppendArtists(artists, models.Artist{
			Name: a.Name,
			ID:   string(a.ID),
			URL:  a.ExternalURLs["spotify"],
		})
	}
	if len(artists) > 0 {
		// The title may already credit some of them as featured.
		t.Artists = models.Some(withoutCredited(artists, t))
	}

	if d := int(ft.Duration); d > 0 {
		t.Duration = models.Some(d)
	}
	t.ISRC = models.ISRCValue(ft.ExternalIDs["isrc"])

	album := models.Album{Name: ft.Album.Name}
	for _, a := range ft.Album.Artists {
		album.Artists = models.AppendArtists(album.Artists, models.Artist{Name: a.Name, ID: string(a.ID)})
	}
	if len(ft.Album.Images) > 0 {
		album.ArtworkURL = ft.Album.Images[0].URL
	}
	if date, ok := extract.ParseDate(ft.Album.ReleaseDate).Get(); ok {
		album.ReleaseDate = date
		t.Date = models.Some(date)
		t.Year = models.Some(fmt.Sprint(date.Year()))
	}
	switch strings.ToLower(ft.Album.AlbumType) {
	case "album", "compilation":
		album.Type = models.AlbumTypeAlbum
	default:
		// Spotify files EPs as singles; only the name tells them apart.
		album.Type = models.AlbumTypeSingle
		if models.ClassifyAlbum(t.Name.OrElse(ft.Name), album.Name) == models.AlbumTypeEP {
			album.Type = models.AlbumTypeEP
		}
	}
	if album.Name != "" {
		t.Album = models.Some(album)
	}
	return t
}

// withoutCredited drops artists the title already lists as featuring or
// with. At least one artist is always kept.
func withoutCredited(artists []models.Artist, t models.Track) []models.Artist {
	credited := slices.Concat(t.Featuring.OrElse(nil), t.With.OrElse(nil))
	var out []models.Artist
	for i, a := range artists {
		if i > 0 && models.ContainsArtist(credited, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func classify(err error) error {
	var se spotify.Error
	if errors.As(err, &se) {
		switch se.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", se.Message, sources.ErrUnauthorized)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", se.Message, sources.ErrRateLimited)
		}
	}
	return err
}
