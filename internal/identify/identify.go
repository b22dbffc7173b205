// Package identify runs batches of local tracks through the matcher,
// consulting and updating the identification registry.
package identify

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/arunsworld/nursery"
	"go.uber.org/zap"

	"music-tagger/internal/database"
	"music-tagger/internal/matcher"
	"music-tagger/internal/models"
)

// Item is the outcome for one input. Result is nil when the registry
// already held a confident identification.
type Item struct {
	Index  int                     `json:"index"`
	Local  models.Track            `json:"local"`
	Result *matcher.Result         `json:"-"`
	Record database.Identification `json:"identification"`
	Cached bool                    `json:"cached"`
}

// Runner identifies inputs against Sources. DB may be nil, in which case
// nothing is cached or stored.
type Runner struct {
	Config  matcher.Config
	Sources []matcher.Source
	DB      *sql.DB
	Logger  *zap.Logger
	// Force ignores registry hits and identifies every input again.
	Force bool
}

// Run identifies local tracks with up to workers concurrent matchers and
// calls onItem, serialized, as each one finishes. Items are returned in
// input order. The registry is keyed by OriginalFilename. Only context and
// registry errors stop the run.
func (r *Runner) Run(ctx context.Context, inputs []models.Track, workers int, onItem func(Item)) ([]Item, error) {
	if len(inputs) == 0 {
		return nil, ctx.Err()
	}
	workers = max(1, min(workers, len(inputs)))

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	items := make([]Item, len(inputs))
	queue := make(chan int, len(inputs))
	for i := range inputs {
		queue <- i
	}
	close(queue)

	var mu sync.Mutex
	worker := func(ctx context.Context, errCh chan error) {
		for i := range queue {
			if ctx.Err() != nil {
				return
			}
			item, err := r.one(ctx, logger, i, inputs[i])
			if err != nil {
				errCh <- err
				return
			}
			mu.Lock()
			items[i] = item
			if onItem != nil {
				onItem(item)
			}
			mu.Unlock()
		}
	}

	jobs := make([]nursery.ConcurrentJob, workers)
	for i := range jobs {
		jobs[i] = worker
	}
	if err := nursery.RunConcurrentlyWithContext(ctx, jobs...); err != nil {
		return items, err
	}
	return items, ctx.Err()
}

func (r *Runner) one(ctx context.Context, logger *zap.Logger, index int, local models.Track) (Item, error) {
	if local.OriginalFilename == "" {
		local.OriginalFilename = local.String()
	}
	item := Item{Index: index, Local: local}
	log := logger.With(zap.String("file", local.OriginalFilename))

	if !r.Force {
		rec, err := database.Find(r.DB, local.OriginalFilename)
		switch {
		case err == nil && rec.Outcome == matcher.FoundHighConfidence.String():
			log.Debug("registry hit")
			item.Record = rec
			item.Cached = true
			return item, nil
		case err != nil && !errors.Is(err, database.ErrNotFound):
			return item, err
		}
	}

	m := matcher.New(r.Config, log, r.Sources...)
	res, err := m.Identify(ctx, local)
	if err != nil {
		return item, err
	}
	item.Result = &res
	item.Record = database.FromResult(local, res)

	if err := database.UpsertIdentification(r.DB, item.Record); err != nil {
		return item, err
	}
	return item, nil
}
