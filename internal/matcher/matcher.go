package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"music-tagger/internal/models"
)

// Source is a catalog that can be searched for candidate tracks. Adapters
// map their wire format into models.Track, tagging Platform and ID.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.Track, error)
}

// ISRCSearcher is implemented by sources that can look a recording up by
// its ISRC. Such lookups run before the text queries.
type ISRCSearcher interface {
	SearchISRC(ctx context.Context, isrc string, limit int) ([]models.Track, error)
}

type Outcome int

const (
	NoMatch Outcome = iota
	BestCandidate
	FoundHighConfidence
)

func (o Outcome) String() string {
	switch o {
	case FoundHighConfidence:
		return "FOUND"
	case BestCandidate:
		return "BEST_CANDIDATE"
	default:
		return "NOT_FOUND"
	}
}

// SourceFailure records a search that failed. It is reported, never raised.
type SourceFailure struct {
	Source string
	Query  string
	Err    error
}

func (f SourceFailure) Error() string {
	return fmt.Sprintf("%s: search %q: %v", f.Source, f.Query, f.Err)
}

func (f SourceFailure) Unwrap() error {
	return f.Err
}

// Result is the outcome of one identification. Best is nil when nothing
// reached the minimum threshold.
type Result struct {
	Best       *models.MatchCandidate
	Outcome    Outcome
	Candidates []models.MatchCandidate // retained, best first
	Failures   []SourceFailure
}

type Config struct {
	// Threshold must be exceeded to stop searching early.
	Threshold float64
	// MinThreshold is the lowest ratio a candidate can have and be kept.
	MinThreshold float64
	// Limit is passed to every search.
	Limit  int
	Scorer Comparer
}

func DefaultConfig() Config {
	return Config{
		Threshold:    0.9,
		MinThreshold: 0.6,
		Limit:        5,
		Scorer:       DefaultScorer(),
	}
}

// Matcher searches sources in priority order for the catalog track that
// best matches a local one. A Matcher holds no state between calls but is
// meant to be owned by a single identification run.
type Matcher struct {
	cfg     Config
	sources []Source
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger, sources ...Source) *Matcher {
	if cfg.Scorer == nil {
		cfg.Scorer = DefaultScorer()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultConfig().Limit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{cfg: cfg, sources: sources, logger: logger}
}

type query struct {
	text string
	isrc bool
}

// Identify queries every source with every search string of local until a
// candidate exceeds the threshold. Source failures are collected in the
// result and the search moves on to the next source. The only error
// returned is the context's.
func (m *Matcher) Identify(ctx context.Context, local models.Track) (Result, error) {
	var res Result
	retained := make(map[string]int)

	log := m.logger.With(zap.String("track", local.String()))

	for _, src := range m.sources {
		for _, q := range m.queries(src, local) {
			if err := ctx.Err(); err != nil {
				return m.finish(res), err
			}

			log.Debug("searching", zap.String("source", src.Name()), zap.String("query", q.text), zap.Bool("isrc", q.isrc))
			tracks, err := m.search(ctx, src, q)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return m.finish(res), ctxErr
				}
				failure := SourceFailure{Source: src.Name(), Query: q.text, Err: err}
				res.Failures = append(res.Failures, failure)
				log.Warn("source failed", zap.String("source", src.Name()), zap.Error(err))
				break
			}

			for _, track := range tracks {
				c := models.MatchCandidate{
					Track:  track,
					Source: src.Name(),
					Ratio:  m.cfg.Scorer.Compare(local, track),
				}
				log.Debug("scored candidate",
					zap.String("source", c.Source),
					zap.String("candidate", track.String()),
					zap.Float64("ratio", c.Ratio))

				if c.Ratio < m.cfg.MinThreshold {
					continue
				}
				retain(&res, retained, c)

				if c.Ratio > m.cfg.Threshold {
					res = m.finish(res)
					res.Best = &c
					res.Outcome = FoundHighConfidence
					log.Info("high confidence match", zap.String("source", c.Source), zap.Float64("ratio", c.Ratio))
					return res, nil
				}
			}
		}
	}

	res = m.finish(res)
	if res.Best != nil {
		log.Info("best candidate", zap.String("source", res.Best.Source), zap.Float64("ratio", res.Best.Ratio))
	} else {
		log.Info("no match")
	}
	return res, nil
}

func (m *Matcher) queries(src Source, local models.Track) []query {
	var out []query
	if isrc, ok := local.ISRC.Get(); ok {
		if _, ok := src.(ISRCSearcher); ok {
			out = append(out, query{text: isrc, isrc: true})
		}
	}
	for _, s := range local.SearchStrings() {
		out = append(out, query{text: s})
	}
	return out
}

func (m *Matcher) search(ctx context.Context, src Source, q query) ([]models.Track, error) {
	if q.isrc {
		return src.(ISRCSearcher).SearchISRC(ctx, q.text, m.cfg.Limit)
	}
	return src.Search(ctx, q.text, m.cfg.Limit)
}

// finish sorts the retained candidates and picks the best one.
func (m *Matcher) finish(res Result) Result {
	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Ratio > res.Candidates[j].Ratio
	})
	res.Best = nil
	res.Outcome = NoMatch
	if len(res.Candidates) > 0 {
		best := res.Candidates[0]
		res.Best = &best
		res.Outcome = BestCandidate
	}
	return res
}

// retain keeps one entry per catalog track, the highest scoring.
func retain(res *Result, index map[string]int, c models.MatchCandidate) {
	key := candidateKey(c)
	if i, ok := index[key]; ok {
		if c.Ratio > res.Candidates[i].Ratio {
			res.Candidates[i] = c
		}
		return
	}
	index[key] = len(res.Candidates)
	res.Candidates = append(res.Candidates, c)
}

func candidateKey(c models.MatchCandidate) string {
	platform := c.Track.Platform.OrElse(c.Source)
	if id, ok := c.Track.ID.Get(); ok {
		return platform + ":" + id
	}
	return platform + ":" + strings.ToLower(c.Track.String())
}
