// Package tags reads the metadata embedded in local audio files.
package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"music-tagger/internal/builder"
)

var ErrUnsupported = errors.New("unsupported audio format")

var readers = map[string]func(string) (builder.Tags, error){
	".mp3":  readID3,
	".flac": readGeneric,
	".m4a":  readGeneric,
	".mp4":  readGeneric,
	".alac": readGeneric,
	".ogg":  readGeneric,
	".dsf":  readGeneric,
}

// camelotCommentRegex picks a leading Camelot key out of comments written by
// key detection tools, e.g. "8A - Energy 6".
var camelotCommentRegex = regexp.MustCompile(`^\s*(1[0-2]|[1-9])([ABab])\b`)

// Supported reports whether Read knows the file's format.
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Read returns the tags of the audio file at path.
func Read(path string) (builder.Tags, error) {
	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return builder.Tags{}, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return read(path)
}

// Input pairs the tags of path with its file name without extension.
func Input(path string) (builder.Input, error) {
	t, err := Read(path)
	if err != nil {
		return builder.Input{}, err
	}
	name := filepath.Base(path)
	return builder.Input{
		Filename: strings.TrimSuffix(name, filepath.Ext(name)),
		Tags:     t,
	}, nil
}

func readID3(path string) (builder.Tags, error) {
	f, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return builder.Tags{}, fmt.Errorf("read id3 tags: %w", err)
	}
	defer f.Close()

	t := builder.Tags{
		Title:  f.Title(),
		Artist: f.Artist(),
		Album:  f.Album(),
		Year:   f.Year(),
		Genre:  f.Genre(),
		ISRC:   f.GetTextFrame("TSRC").Text,
		Key:    f.GetTextFrame("TKEY").Text,
	}
	if t.Year == "" {
		t.Year = f.GetTextFrame("TDRC").Text
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(f.GetTextFrame("TLEN").Text)); err == nil {
		t.Duration = ms
	}
	if t.Key == "" {
		for _, fr := range f.GetFrames(f.CommonID("Comments")) {
			if c, ok := fr.(id3v2.CommentFrame); ok {
				if key := camelotFromComment(c.Text); key != "" {
					t.Key = key
					break
				}
			}
		}
	}
	return t, nil
}

func readGeneric(path string) (builder.Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return builder.Tags{}, fmt.Errorf("open audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return builder.Tags{}, fmt.Errorf("read tags: %w", err)
	}

	t := builder.Tags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
	}
	if y := m.Year(); y > 0 {
		t.Year = strconv.Itoa(y)
	}

	raw := m.Raw()
	t.ISRC = rawString(raw, "isrc", "ISRC", "TSRC")
	t.Key = rawString(raw, "initialkey", "INITIALKEY", "key", "TKEY")
	if t.Key == "" {
		t.Key = camelotFromComment(m.Comment())
	}
	return t, nil
}

func rawString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func camelotFromComment(s string) string {
	m := camelotCommentRegex.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1] + strings.ToUpper(m[2])
}
