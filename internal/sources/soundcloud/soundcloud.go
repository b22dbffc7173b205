// Package soundcloud searches SoundCloud through the api-v2 endpoints the
// web player uses.
package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"music-tagger/internal/extract"
	"music-tagger/internal/models"
	"music-tagger/internal/sources"
)

const (
	Name    = "soundcloud"
	APIBase = "https://api-v2.soundcloud.com"
	WebBase = "https://soundcloud.com"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

type user struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	PermalinkURL string `json:"permalink_url"`
}

type publisherMetadata struct {
	Artist       string `json:"artist"`
	ReleaseTitle string `json:"release_title"`
	AlbumTitle   string `json:"album_title"`
	ISRC         string `json:"isrc"`
}

type track struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	Duration     int                `json:"duration"`
	Genre        string             `json:"genre"`
	PermalinkURL string             `json:"permalink_url"`
	ArtworkURL   string             `json:"artwork_url"`
	ReleaseDate  string             `json:"release_date"`
	CreatedAt    string             `json:"created_at"`
	User         user               `json:"user"`
	Publisher    *publisherMetadata `json:"publisher_metadata"`
}

type searchResponse struct {
	Collection []track `json:"collection"`
}

type Source struct {
	client  *sources.Client
	apiBase string
	webBase string
	cache   KeyCache
	logger  *zap.Logger

	mu sync.Mutex
	id string
}

type Option func(*Source)

// WithBaseURLs points the source at other API and web hosts.
func WithBaseURLs(api, web string) Option {
	return func(s *Source) {
		s.apiBase = strings.TrimRight(api, "/")
		s.webBase = web
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// New returns a source limited to two requests per second. clientID may be
// empty, in which case it is read from cache or discovered.
func New(clientID string, cache KeyCache, opts ...Option) *Source {
	s := &Source{
		client:  sources.NewClient(500*time.Millisecond, http.Header{"User-Agent": {userAgent}}),
		apiBase: APIBase,
		webBase: WebBase,
		cache:   cache,
		logger:  zap.NewNop(),
		id:      clientID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() string { return Name }

// Search retries once with a freshly discovered client_id when SoundCloud
// rejects the current one.
func (s *Source) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	id, err := s.clientID(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("soundcloud search: %w", err)
	}

	res, err := s.search(ctx, id, query, limit)
	if errors.Is(err, sources.ErrUnauthorized) {
		s.logger.Debug("soundcloud client_id rejected, refreshing")
		if id, err = s.clientID(ctx, true); err != nil {
			return nil, fmt.Errorf("soundcloud search: %w", err)
		}
		res, err = s.search(ctx, id, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("soundcloud search: %w", err)
	}

	tracks := make([]models.Track, 0, len(res.Collection))
	for _, t := range res.Collection {
		tracks = append(tracks, toTrack(t))
	}
	return tracks, nil
}

func (s *Source) search(ctx context.Context, clientID, query string, limit int) (searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")
	params.Set("client_id", clientID)

	var res searchResponse
	err := s.client.GetJSON(ctx, s.apiBase+"/search/tracks?"+params.Encode(), &res)
	return res, err
}

func toTrack(st track) models.Track {
	t := extract.Parse(st.Title)
	t.OriginalFilename = ""
	t.ID = models.Some(strconv.FormatInt(st.ID, 10))
	t.Platform = models.Some(Name)
	if st.PermalinkURL != "" {
		t.URL = models.Some(st.PermalinkURL)
	}
	if st.Duration > 0 {
		t.Duration = models.Some(st.Duration)
	}
	if g := strings.TrimSpace(st.Genre); g != "" {
		genres := t.Genres.OrElse(nil)
		if !slices.ContainsFunc(genres, func(x string) bool { return strings.EqualFold(x, g) }) {
			genres = append(slices.Clone(genres), g)
		}
		t.Genres = models.Some(genres)
	}

	uploader := models.Artist{Name: st.User.FullName, URL: st.User.PermalinkURL}
	if uploader.Name == "" {
		uploader.Name = st.User.Username
	}

	var albumName string
	if p := st.Publisher; p != nil {
		if !t.Artists.IsSet() && p.Artist != "" {
			t.Artists = models.Some(models.ArtistsFromString(p.Artist))
		}
		if p.ReleaseTitle != "" {
			if name, ok := extract.ParseTitle(p.ReleaseTitle).Name.Get(); ok {
				t.Name = models.Some(name)
			}
		}
		t.ISRC = models.ISRCValue(p.ISRC)
		albumName = p.AlbumTitle
	}
	if !t.Artists.IsSet() && uploader.Name != "" {
		t.Artists = models.Some([]models.Artist{uploader})
	}

	date := extract.ParseDate(st.ReleaseDate).Or(extract.ParseDate(st.CreatedAt))
	if d, ok := date.Get(); ok {
		t.Date = models.Some(d)
		t.Year = models.Some(strconv.Itoa(d.Year()))
	}

	if albumName != "" {
		album := models.Album{
			Name:       albumName,
			ArtworkURL: strings.Replace(st.ArtworkURL, "large", "t500x500", 1),
			Type:       models.ClassifyAlbum(t.Name.OrElse(""), albumName),
		}
		if d, ok := date.Get(); ok {
			album.ReleaseDate = d
		}
		t.Album = models.Some(album)
	}
	return t
}
