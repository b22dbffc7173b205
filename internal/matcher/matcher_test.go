package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"music-tagger/internal/extract"
	"music-tagger/internal/models"
)

type fakeSource struct {
	name    string
	results []models.Track
	err     error
	queries []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, query string, _ int) ([]models.Track, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type isrcSource struct {
	fakeSource
	isrcQueries []string
}

func (s *isrcSource) SearchISRC(_ context.Context, isrc string, _ int) ([]models.Track, error) {
	s.isrcQueries = append(s.isrcQueries, isrc)
	s.queries = append(s.queries, "isrc:"+isrc)
	return nil, nil
}

// ratios scores candidates by their ID.
type ratios map[string]float64

func (r ratios) Compare(_, b models.Track) float64 {
	return r[b.ID.OrElse("")]
}

func candidate(id string) models.Track {
	return models.Track{ID: models.Some(id), Name: models.Some(id)}
}

func local() models.Track {
	return extract.Parse("Martin Garrix & Dallas K - Loop")
}

func newMatcher(r ratios, logger *zap.Logger, sources ...Source) *Matcher {
	cfg := DefaultConfig()
	cfg.Scorer = r
	return New(cfg, logger, sources...)
}

func TestIdentifyShortCircuitsOnHighConfidence(t *testing.T) {
	first := &fakeSource{name: "first", results: []models.Track{candidate("a")}}
	second := &fakeSource{name: "second", results: []models.Track{candidate("b")}}

	res, err := newMatcher(ratios{"a": 0.95, "b": 1}, nil, first, second).Identify(context.Background(), local())
	require.NoError(t, err)

	require.NotNil(t, res.Best)
	assert.Equal(t, "a", res.Best.Track.ID.OrElse(""))
	assert.Equal(t, "first", res.Best.Source)
	assert.Equal(t, FoundHighConfidence, res.Outcome)
	assert.Len(t, first.queries, 1)
	assert.Empty(t, second.queries)
}

func TestIdentifyThresholdIsExclusive(t *testing.T) {
	first := &fakeSource{name: "first", results: []models.Track{candidate("a")}}
	second := &fakeSource{name: "second", results: []models.Track{candidate("b")}}

	res, err := newMatcher(ratios{"a": 0.9, "b": 0.7}, nil, first, second).Identify(context.Background(), local())
	require.NoError(t, err)

	require.NotNil(t, res.Best)
	assert.Equal(t, "a", res.Best.Track.ID.OrElse(""))
	assert.Equal(t, BestCandidate, res.Outcome)
	assert.NotEmpty(t, second.queries)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 0.7, res.Candidates[1].Ratio)
}

func TestIdentifyMinThresholdIsInclusive(t *testing.T) {
	src := &fakeSource{name: "src", results: []models.Track{candidate("a")}}
	res, err := newMatcher(ratios{"a": 0.6}, nil, src).Identify(context.Background(), local())
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Equal(t, BestCandidate, res.Outcome)

	src = &fakeSource{name: "src", results: []models.Track{candidate("a")}}
	res, err = newMatcher(ratios{"a": 0.59}, nil, src).Identify(context.Background(), local())
	require.NoError(t, err)
	assert.Nil(t, res.Best)
	assert.Equal(t, NoMatch, res.Outcome)
	assert.Empty(t, res.Candidates)
}

func TestIdentifyContinuesPastFailingSource(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	first := &fakeSource{name: "first", results: []models.Track{candidate("a")}}
	broken := &fakeSource{name: "broken", err: errors.New("503 service unavailable")}
	third := &fakeSource{name: "third", results: []models.Track{candidate("c")}}

	res, err := newMatcher(ratios{"a": 0.7, "c": 0.8}, zap.New(core), first, broken, third).
		Identify(context.Background(), local())
	require.NoError(t, err)

	require.NotNil(t, res.Best)
	assert.Equal(t, "c", res.Best.Track.ID.OrElse(""))
	assert.Equal(t, BestCandidate, res.Outcome)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "broken", res.Failures[0].Source)
	assert.EqualError(t, errors.Unwrap(res.Failures[0]), "503 service unavailable")

	// The broken source is not asked again after its first failure.
	assert.Len(t, broken.queries, 1)
	assert.Equal(t, 1, logs.FilterMessage("source failed").Len())
}

func TestIdentifyQueryOrder(t *testing.T) {
	tr := local()
	tr.ISRC = models.Some("USUG12204822")

	plain := &fakeSource{name: "plain"}
	byISRC := &isrcSource{fakeSource: fakeSource{name: "isrc"}}

	_, err := newMatcher(ratios{}, nil, byISRC, plain).Identify(context.Background(), tr)
	require.NoError(t, err)

	want := []string{
		"Martin Garrix & Dallas K - Loop",
		"Martin Garrix & Dallas K Loop",
		"Martin Garrix Loop",
		"Loop",
	}
	assert.Equal(t, want, plain.queries)
	assert.Equal(t, append([]string{"isrc:USUG12204822"}, want...), byISRC.queries)
	assert.Equal(t, []string{"USUG12204822"}, byISRC.isrcQueries)
}

func TestIdentifyKeepsOneEntryPerCatalogTrack(t *testing.T) {
	src := &fakeSource{name: "src", results: []models.Track{candidate("a"), candidate("b")}}

	res, err := newMatcher(ratios{"a": 0.8, "b": 0.65}, nil, src).Identify(context.Background(), local())
	require.NoError(t, err)

	// Every query returns both tracks.
	assert.Greater(t, len(src.queries), 1)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "a", res.Candidates[0].Track.ID.OrElse(""))
	assert.Equal(t, "b", res.Candidates[1].Track.ID.OrElse(""))
}

func TestIdentifyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{name: "src", results: []models.Track{candidate("a")}}
	res, err := newMatcher(ratios{"a": 1}, nil, src).Identify(ctx, local())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Best)
	assert.Empty(t, src.queries)
}

func TestIdentifyWithScorer(t *testing.T) {
	catalog := models.Track{
		ID:       models.Some("4kjI1gwQZRKNDkw1nI475M"),
		Platform: models.Some("spotify"),
		Name:     models.Some("Loop"),
		Artists:  models.Some(models.NewArtists("Martin Garrix", "Dallas K")),
	}
	other := models.Track{
		ID:      models.Some("0"),
		Name:    models.Some("Animals"),
		Artists: models.Some(models.NewArtists("Martin Garrix")),
	}
	src := &fakeSource{name: "spotify", results: []models.Track{other, catalog}}

	res, err := New(DefaultConfig(), zap.NewNop(), src).Identify(context.Background(), local())
	require.NoError(t, err)

	require.NotNil(t, res.Best)
	assert.Equal(t, FoundHighConfidence, res.Outcome)
	assert.Equal(t, 1.0, res.Best.Ratio)
	assert.Equal(t, "spotify:4kjI1gwQZRKNDkw1nI475M", candidateKey(*res.Best))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "FOUND", FoundHighConfidence.String())
	assert.Equal(t, "BEST_CANDIDATE", BestCandidate.String())
	assert.Equal(t, "NOT_FOUND", NoMatch.String())
}
