package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"music-tagger/internal/builder"
	"music-tagger/internal/models"
)

var ErrNoColumns = errors.New("csv has no recognizable columns")

var headerAliases = map[string]string{
	"title":       "title",
	"track":       "title",
	"track_title": "title",
	"track name":  "title",
	"name":        "title",

	"artist":      "artist",
	"artists":     "artist",
	"artist_name": "artist",
	"artist name": "artist",
	"artist(s)":   "artist",
	"performer":   "artist",

	"album":       "album",
	"album_title": "album",
	"album name":  "album",

	"isrc": "isrc",

	"duration":      "duration",
	"duration_ms":   "duration",
	"duration (ms)": "duration",

	"year":         "year",
	"release date": "year",
	"release_date": "year",

	"genre":  "genre",
	"genres": "genre",
	"key":    "key",

	"filename": "filename",
	"file":     "filename",
}

func canonicalHeader(s string) string {
	return headerAliases[strings.ToLower(strings.TrimSpace(s))]
}

// ReadCSV reads one local track per row. The first row names the columns;
// unknown columns are ignored. Rows without a title, artist or filename are
// skipped.
func ReadCSV(r io.Reader) ([]models.Track, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[int]string)
	for i, h := range header {
		if field := canonicalHeader(h); field != "" {
			columns[i] = field
		}
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	var tracks []models.Track
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		in := rowInput(record, columns)
		if in.Filename == "" && in.Tags.Title == "" && in.Tags.Artist == "" {
			continue
		}
		tracks = append(tracks, builder.Build(in))
	}
	return tracks, nil
}

func rowInput(record []string, columns map[int]string) builder.Input {
	var in builder.Input
	for i, v := range record {
		field, ok := columns[i]
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		switch field {
		case "title":
			in.Tags.Title = v
		case "artist":
			in.Tags.Artist = v
		case "album":
			in.Tags.Album = v
		case "isrc":
			in.Tags.ISRC = v
		case "duration":
			if ms, err := strconv.Atoi(v); err == nil {
				in.Tags.Duration = ms
			}
		case "year":
			in.Tags.Year = v
		case "genre":
			in.Tags.Genre = v
		case "key":
			in.Tags.Key = v
		case "filename":
			in.Filename = v
		}
	}

	if in.Filename == "" && in.Tags.Title != "" {
		in.Filename = in.Tags.Title
		if in.Tags.Artist != "" {
			in.Filename = in.Tags.Artist + " - " + in.Tags.Title
		}
	}
	return in
}

// ReadCSVUpload reads the "file" field of a multipart form. The second
// result is the uploaded file's name.
func ReadCSVUpload(r *http.Request) ([]models.Track, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	tracks, err := ReadCSV(file)
	if err != nil {
		return nil, "", err
	}
	return tracks, header.Filename, nil
}
