package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
	"github.com/couchcryptid/uap-dashboard/internal/pipeline"
	"github.com/couchcryptid/uap-dashboard/internal/sentiment"
)

// --- mocks ---

type mockExtractor struct {
	records []domain.RawRecord
	err     error
}

func (m *mockExtractor) Extract(_ context.Context) ([]domain.RawRecord, error) {
	return m.records, m.err
}

func (m *mockExtractor) Name() string { return "mock.csv" }

type mockAnalyzer struct {
	score domain.Score
	err   error
}

func (m *mockAnalyzer) Analyze(_ string) (domain.Score, error) {
	return m.score, m.err
}

type mockGeocoder struct {
	place string
	calls int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return domain.GeocodingResult{PlaceName: m.place}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func raw(row int, country, city, year, desc string) domain.RawRecord {
	return domain.RawRecord{
		Row:         row,
		Latitude:    "39.5",
		Longitude:   "-119.8",
		Country:     country,
		City:        city,
		Year:        year,
		Description: desc,
	}
}

// --- tests ---

func TestPipeline_Build_HappyPath(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	ext := &mockExtractor{records: []domain.RawRecord{
		raw(2, "us", "reno", "1995", "a disk hovering"),
		raw(3, "fr", "paris", "2001", "an orb"),
	}}
	tfm := pipeline.NewTransformer(&mockAnalyzer{score: domain.Score{Polarity: 0.2, Subjectivity: 0.4}}, nil, discardLogger())
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, discardLogger(), metrics)
	require.Error(t, p.CheckReadiness(context.Background()))

	ds, err := p.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"fr", "us"}, ds.Countries())
	minYear, maxYear := ds.YearBounds()
	assert.Equal(t, 1995, minYear)
	assert.Equal(t, 2001, maxYear)
	assert.Equal(t, "mock.csv", ds.Source())
	assert.Equal(t, fakeClock.Now(), ds.LoadedAt())
	assert.Same(t, ds, p.Dataset())
	require.NoError(t, p.CheckReadiness(context.Background()))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RowsRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ObservationsLoaded))
}

func TestPipeline_Build_DropsInvalidRows(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{
		raw(2, "us", "reno", "1995", "a disk"),
		raw(3, "us", "reno", "soon", "an orb"),
		raw(4, "", "reno", "1990", ""),
	}}
	tfm := pipeline.NewTransformer(&mockAnalyzer{}, nil, discardLogger())
	metrics := observability.NewMetricsForTesting()

	ds, err := pipeline.New(ext, tfm, discardLogger(), metrics).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 2, ds.Observations()[0].Row)

	var fields []string
	for _, re := range ds.Rejected() {
		fields = append(fields, re.Field)
	}
	if diff := cmp.Diff([]string{domain.FieldYear, domain.FieldCountry, domain.FieldDescription}, fields); diff != "" {
		t.Errorf("rejected fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsRejected.WithLabelValues(domain.FieldYear)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsRejected.WithLabelValues(domain.FieldCountry)))
}

func TestPipeline_Build_MalformedRowDoesNotStopLoad(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{
		raw(2, "us", "reno", "1995", "a disk"),
		{Row: 3, Malformed: "extraneous or missing \" in quoted-field"},
		raw(4, "fr", "paris", "2001", "an orb"),
	}}
	tfm := pipeline.NewTransformer(&mockAnalyzer{}, nil, discardLogger())
	metrics := observability.NewMetricsForTesting()

	ds, err := pipeline.New(ext, tfm, discardLogger(), metrics).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	require.Len(t, ds.Rejected(), 1)
	assert.Equal(t, domain.RowError{Row: 3, Field: domain.FieldRow, Reason: "extraneous or missing \" in quoted-field"}, ds.Rejected()[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsRejected.WithLabelValues(domain.FieldRow)))
}

func TestPipeline_Build_ExtractError(t *testing.T) {
	ext := &mockExtractor{err: errors.New("file not found")}
	tfm := pipeline.NewTransformer(&mockAnalyzer{}, nil, discardLogger())

	p := pipeline.New(ext, tfm, discardLogger(), observability.NewMetricsForTesting())
	_, err := p.Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
	assert.Nil(t, p.Dataset())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Build_AnalyzerErrorIsFatal(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{raw(7, "us", "reno", "1995", "a disk")}}
	tfm := pipeline.NewTransformer(&mockAnalyzer{err: sentiment.ErrInvalidText}, nil, discardLogger())

	_, err := pipeline.New(ext, tfm, discardLogger(), observability.NewMetricsForTesting()).Build(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, sentiment.ErrInvalidText)
	assert.Contains(t, err.Error(), "row 7")
}

func TestPipeline_Build_ContextCancelled(t *testing.T) {
	ext := &mockExtractor{records: []domain.RawRecord{raw(2, "us", "reno", "1995", "a disk")}}
	tfm := pipeline.NewTransformer(&mockAnalyzer{}, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.New(ext, tfm, discardLogger(), observability.NewMetricsForTesting()).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObservationTransformer_FillsMissingCity(t *testing.T) {
	geo := &mockGeocoder{place: "Reno"}
	tfm := pipeline.NewTransformer(&mockAnalyzer{}, geo, discardLogger())

	obs, rowErrs, err := tfm.Transform(context.Background(), raw(2, "us", "", "1995", "a light"))
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	assert.Equal(t, "Reno", obs.City)
	assert.Equal(t, 1, geo.calls)
}

func TestObservationTransformer_WithLexiconAnalyzer(t *testing.T) {
	tfm := pipeline.NewTransformer(sentiment.New(), nil, discardLogger())

	obs, rowErrs, err := tfm.Transform(context.Background(),
		raw(2, "us", "reno", "1995", "Bright disk hovering like a saucer"))
	require.NoError(t, err)
	require.Empty(t, rowErrs)

	assert.Equal(t, 1995, obs.Year)
	assert.Equal(t, 6, obs.Mentions)
	assert.InDelta(t, 1.9459, obs.Impact, 0.0001)
	assert.Greater(t, obs.Sentiment, 0.0)
	assert.True(t, obs.Keywords.Has("saucer"))
	assert.True(t, obs.Keywords.Has("disk"))
	assert.True(t, obs.Keywords.Has("hover"))
	assert.False(t, obs.Keywords.Has("orb"))
	assert.Equal(t, "Bright disk hovering like a saucer...", obs.ShortDescription)
}
