package parser

import (
	"regexp"
	"strings"
	"time"

	"music-tagger/internal/extract"
	"music-tagger/internal/models"
)

var (
	// Bracketed YouTube decorations that say nothing about the recording.
	videoNoiseRegex = regexp.MustCompile(`(?i)[(\[]\s*(?:official\s+)?(?:music\s+video|video|audio|lyrics?(?:\s+video)?|visuali[sz]er|hd|hq|4k)\s*[)\]]`)
	// "Artist | Title" and "Artist: Title" are written "Artist - Title".
	videoSplitRegex = regexp.MustCompile(`\s+\|\s+|\s*:\s+`)
	topicRegex      = regexp.MustCompile(`(?i)\s+-\s+topic$`)
)

// CleanVideoTitle removes video decorations and rewrites the separators
// uploaders use between artist and title to a dash.
func CleanVideoTitle(raw string) string {
	t := videoNoiseRegex.ReplaceAllString(raw, "")
	t = videoSplitRegex.ReplaceAllString(t, " - ")
	return strings.Join(strings.Fields(t), " ")
}

// Uploader returns the channel name without the " - Topic" suffix of
// auto-generated artist channels.
func Uploader(author string) string {
	return strings.TrimSpace(topicRegex.ReplaceAllString(author, ""))
}

// FromVideo builds a track from a video title. The uploader is credited when
// the title names no artist.
func FromVideo(id, title, author string, duration time.Duration) models.Track {
	cleaned := CleanVideoTitle(title)
	t := extract.Parse(cleaned)

	if !t.Artists.IsSet() {
		if up := Uploader(author); up != "" {
			t.Artists = models.Some(models.ArtistsFromString(up))
		}
	}
	if id != "" {
		t.ID = models.Some(id)
		t.URL = models.Some("https://www.youtube.com/watch?v=" + id)
	}
	t.Platform = models.Some("youtube")
	if duration > 0 {
		t.Duration = models.Some(int(duration.Milliseconds()))
	}
	return t
}
