// Package database keeps the registry of past identifications in sqlite.
package database

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"music-tagger/internal/matcher"
	"music-tagger/internal/models"
)

//go:embed schema.sql
var schema string

var ErrNotFound = errors.New("identification not found")

// Identification is one registry row, keyed by the local file name.
type Identification struct {
	OriginalFilename string    `json:"original_filename"`
	ISRC             string    `json:"isrc,omitempty"`
	Platform         string    `json:"platform,omitempty"`
	SourceID         string    `json:"source_id,omitempty"`
	Name             string    `json:"name,omitempty"`
	Artists          string    `json:"artists,omitempty"`
	URL              string    `json:"url,omitempty"`
	Outcome          string    `json:"outcome"`
	Ratio            float64   `json:"ratio"`
	LastUpdated      time.Time `json:"last_updated,omitzero"`
}

// FromResult flattens an identification result for storage.
func FromResult(local models.Track, res matcher.Result) Identification {
	id := Identification{
		OriginalFilename: local.OriginalFilename,
		Outcome:          res.Outcome.String(),
	}
	if res.Best == nil {
		return id
	}
	best := res.Best.Track
	id.ISRC = best.ISRC.OrElse("")
	id.Platform = best.Platform.OrElse(res.Best.Source)
	id.SourceID = best.ID.OrElse("")
	id.Name = best.DisplayName()
	id.Artists = best.ArtistString()
	id.URL = best.URL.OrElse("")
	id.Ratio = res.Best.Ratio
	return id
}

// Open opens or creates the registry at path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY between
	// concurrent identifications.
	db.SetMaxOpenConns(1)

	if err := InitDatabase(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init registry: %w", err)
	}
	return db, nil
}

// InitDatabase runs the embedded schema and sets performance PRAGMAs.
func InitDatabase(db *sql.DB) error {
	_, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA cache_size=-2000; PRAGMA busy_timeout=5000;")
	if err != nil {
		return err
	}
	_, err = db.Exec(schema)
	return err
}

// UpsertIdentification records an identification. An existing row is only
// replaced by one with an equal or higher ratio. When the row still points at
// the same catalog track, empty columns keep their stored values; a different
// track replaces every column.
func UpsertIdentification(db *sql.DB, m Identification) error {
	if db == nil {
		return nil
	}
	if strings.TrimSpace(m.OriginalFilename) == "" {
		return errors.New("identification without filename")
	}

	query := `
	INSERT INTO identifications (original_filename, isrc, platform, source_id, name, artists, url, outcome, ratio, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(original_filename) DO UPDATE SET
		isrc = CASE WHEN ` + sameTrack + ` THEN COALESCE(NULLIF(excluded.isrc, ''), identifications.isrc) ELSE excluded.isrc END,
		name = CASE WHEN ` + sameTrack + ` THEN COALESCE(NULLIF(excluded.name, ''), identifications.name) ELSE excluded.name END,
		artists = CASE WHEN ` + sameTrack + ` THEN COALESCE(NULLIF(excluded.artists, ''), identifications.artists) ELSE excluded.artists END,
		url = CASE WHEN ` + sameTrack + ` THEN COALESCE(NULLIF(excluded.url, ''), identifications.url) ELSE excluded.url END,
		platform = excluded.platform,
		source_id = excluded.source_id,
		outcome = excluded.outcome,
		ratio = excluded.ratio,
		last_updated = CURRENT_TIMESTAMP
	WHERE excluded.ratio >= identifications.ratio;`

	_, err := db.Exec(query, m.OriginalFilename, m.ISRC, m.Platform, m.SourceID, m.Name, m.Artists, m.URL, m.Outcome, m.Ratio)
	return err
}

// sameTrack holds when an upsert resolves to the catalog track already stored.
const sameTrack = `excluded.platform IS identifications.platform AND excluded.source_id IS identifications.source_id`

const selectColumns = `SELECT original_filename, COALESCE(isrc, ''), COALESCE(platform, ''), COALESCE(source_id, ''),
	COALESCE(name, ''), COALESCE(artists, ''), COALESCE(url, ''), outcome, ratio, last_updated FROM identifications`

// Find looks an identification up by the local file name.
func Find(db *sql.DB, filename string) (Identification, error) {
	return queryOne(db, selectColumns+" WHERE original_filename = ?", filename)
}

// FindBySource looks up the best identification that resolved to the given
// ISRC ("isrc") or catalog ID on a platform ("spotify", "soundcloud", ...).
func FindBySource(db *sql.DB, sourceType, sourceID string) (Identification, error) {
	if sourceID == "" {
		return Identification{}, fmt.Errorf("invalid lookup")
	}
	switch sourceType {
	case "isrc":
		return queryOne(db, selectColumns+" WHERE isrc = ? ORDER BY ratio DESC LIMIT 1", models.ISRCValue(sourceID).OrElse(""))
	case "":
		return Identification{}, fmt.Errorf("invalid lookup")
	default:
		return queryOne(db, selectColumns+" WHERE platform = ? AND source_id = ? ORDER BY ratio DESC LIMIT 1", sourceType, sourceID)
	}
}

func queryOne(db *sql.DB, query string, args ...any) (Identification, error) {
	if db == nil {
		return Identification{}, ErrNotFound
	}
	var m Identification
	err := db.QueryRow(query, args...).Scan(
		&m.OriginalFilename, &m.ISRC, &m.Platform, &m.SourceID,
		&m.Name, &m.Artists, &m.URL, &m.Outcome, &m.Ratio, &m.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Identification{}, ErrNotFound
	}
	return m, err
}
