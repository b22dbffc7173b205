// Package server exposes identification over HTTP. Identification runs
// stream their progress as server-sent events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"music-tagger/internal/builder"
	"music-tagger/internal/database"
	"music-tagger/internal/identify"
	"music-tagger/internal/logging"
	"music-tagger/internal/models"
	"music-tagger/internal/parser"
)

// Lister reads the tracks behind a playlist, album or video URL.
type Lister interface {
	Tracks(ctx context.Context, url string) ([]models.Track, string, error)
}

type Server struct {
	runner  identify.Runner
	workers int
	listers map[string]Lister
	hosts   map[string][]string
	logger  *zap.Logger
}

type Option func(*Server)

// WithLister serves requests of the given type from l. Request URLs must be
// on one of hosts.
func WithLister(kind string, l Lister, hosts ...string) Option {
	return func(s *Server) {
		s.listers[kind] = l
		s.hosts[kind] = hosts
	}
}

// New returns a server identifying with runner. The runner's Force flag is
// set per request.
func New(runner identify.Runner, workers int, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runner:  runner,
		workers: workers,
		listers: make(map[string]Lister),
		hosts:   make(map[string][]string),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/identify", RecoveryMiddleware(s.logger, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodOptions {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleIdentify(w, r)
	}))
	mux.HandleFunc("GET /api/v1/identifications/{type}/{id}", RecoveryMiddleware(s.logger, s.handleLookup))
	mux.HandleFunc("GET /api/v1/identifications", RecoveryMiddleware(s.logger, s.handleFind))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// FileRequest is a local file described by its name and embedded tags.
type FileRequest struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration_ms,omitempty"`
	ISRC     string `json:"isrc,omitempty"`
	Year     string `json:"year,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Key      string `json:"key,omitempty"`
}

// IdentifyRequest is the JSON body of /api/v1/identify. Type "files" reads
// Files, "names" reads Names, and any registered lister type reads URL.
type IdentifyRequest struct {
	Type  string        `json:"type"`
	URL   string        `json:"url,omitempty"`
	Names []string      `json:"names,omitempty"`
	Files []FileRequest `json:"files,omitempty"`
	Force bool          `json:"force,omitempty"`
}

type requestError struct {
	msg  string
	code int
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{msg: msg, code: http.StatusBadRequest}
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	runID := uuid.NewString()
	ctx := logging.WithRunID(r.Context(), runID)
	logger := logging.WithContext(ctx, s.logger)

	// Everything that can fail with a status code happens before the
	// event stream starts.
	tracks, sourceName, force, err := s.readRequest(ctx, r)
	if err != nil {
		code := http.StatusInternalServerError
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			code = reqErr.code
		}
		logger.Info("rejected request", zap.Error(err), zap.Int("status", code))
		http.Error(w, err.Error(), code)
		return
	}
	if len(tracks) == 0 {
		http.Error(w, "No tracks found", http.StatusBadRequest)
		return
	}

	events, err := setupSSE(w, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	events.send(map[string]any{
		"status":  "extracting",
		"run_id":  runID,
		"message": "Identifying " + sourceName,
		"total":   len(tracks),
	})

	runner := s.runner
	runner.Force = force
	runner.Logger = logger

	done := 0
	items, err := runner.Run(ctx, tracks, s.workers, func(it identify.Item) {
		done++
		events.send(map[string]any{
			"status": "processing",
			"index":  done,
			"total":  len(tracks),
			"result": it,
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("client disconnected")
			return
		}
		events.send(map[string]string{"status": "error", "message": err.Error()})
		return
	}

	events.send(map[string]any{
		"status": "complete",
		"meta": map[string]any{
			"run_id":      runID,
			"source_name": sourceName,
			"timestamp":   time.Now().Format(time.RFC3339),
		},
		"tracks": items,
	})
}

func (s *Server) readRequest(ctx context.Context, r *http.Request) ([]models.Track, string, bool, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, "", false, badRequest("Invalid multipart form")
		}
		if r.FormValue("type") != "csv" {
			return nil, "", false, badRequest("multipart only supported for type=csv")
		}
		tracks, name, err := parser.ReadCSVUpload(r)
		if err != nil {
			return nil, "", false, badRequest("CSV parse failed: " + err.Error())
		}
		return tracks, name, r.FormValue("force") == "true", nil
	}

	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "", false, badRequest("Invalid JSON body")
	}

	switch req.Type {
	case "names":
		tracks := make([]models.Track, 0, len(req.Names))
		for _, name := range req.Names {
			if strings.TrimSpace(name) != "" {
				tracks = append(tracks, builder.Build(builder.Input{Filename: name}))
			}
		}
		return tracks, "names", req.Force, nil
	case "files":
		tracks := make([]models.Track, 0, len(req.Files))
		for _, f := range req.Files {
			tracks = append(tracks, builder.Build(f.input()))
		}
		return tracks, "files", req.Force, nil
	}

	lister, ok := s.listers[req.Type]
	if !ok {
		return nil, "", false, badRequest("Unsupported source type")
	}
	if !s.allowedURL(req.Type, req.URL) {
		return nil, "", false, badRequest("Invalid " + req.Type + " URL")
	}
	tracks, name, err := lister.Tracks(ctx, req.URL)
	if err != nil {
		return nil, "", false, &requestError{msg: "Extraction failed: " + err.Error(), code: http.StatusBadGateway}
	}
	for i := range tracks {
		if tracks[i].OriginalFilename == "" {
			tracks[i].OriginalFilename = tracks[i].String()
		}
	}
	return tracks, name, req.Force, nil
}

func (s *Server) allowedURL(kind, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == kind {
		return true
	}
	if u.Host == "" {
		return false
	}
	hosts := s.hosts[kind]
	if len(hosts) == 0 {
		return true
	}
	for _, h := range hosts {
		if u.Host == h || strings.HasSuffix(u.Host, "."+h) {
			return true
		}
	}
	return false
}

func (f FileRequest) input() builder.Input {
	return builder.Input{
		Filename: f.Filename,
		Tags: builder.Tags{
			Title:    f.Title,
			Artist:   f.Artist,
			Album:    f.Album,
			Duration: f.Duration,
			ISRC:     f.ISRC,
			Year:     f.Year,
			Genre:    f.Genre,
			Key:      f.Key,
		},
	}
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		http.Error(w, "filename is required", http.StatusBadRequest)
		return
	}
	rec, err := database.Find(s.runner.DB, filename)
	s.writeIdentification(w, rec, err)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	rec, err := database.FindBySource(s.runner.DB, r.PathValue("type"), r.PathValue("id"))
	s.writeIdentification(w, rec, err)
}

func (s *Server) writeIdentification(w http.ResponseWriter, rec database.Identification, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Error("registry lookup", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(rec) //nolint:errcheck
}
