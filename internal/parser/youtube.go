// Package parser turns external listings (YouTube videos and playlists, CSV
// exports) into local tracks to identify.
package parser

import (
	"context"
	"fmt"

	"github.com/kkdai/youtube/v2"

	"music-tagger/internal/models"
)

type YouTube struct {
	client youtube.Client
}

func NewYouTube() *YouTube {
	return &YouTube{}
}

// Tracks reads a playlist URL, or failing that a single video URL. The
// second result is the playlist or video title.
func (y *YouTube) Tracks(ctx context.Context, url string) ([]models.Track, string, error) {
	playlist, err := y.client.GetPlaylistContext(ctx, url)
	if err == nil {
		tracks := make([]models.Track, 0, len(playlist.Videos))
		for _, entry := range playlist.Videos {
			tracks = append(tracks, FromVideo(entry.ID, entry.Title, entry.Author, entry.Duration))
		}
		return tracks, playlist.Title, nil
	}

	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("parse youtube url: %w", err)
	}
	return []models.Track{FromVideo(video.ID, video.Title, video.Author, video.Duration)}, video.Title, nil
}
