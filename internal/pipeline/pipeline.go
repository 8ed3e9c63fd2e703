package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
)

// Extractor reads every raw row from the input.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawRecord, error)
	Name() string
}

// Transformer converts a raw row into an enriched observation. Invalid rows
// are reported through the RowError slice; a non-nil error is fatal.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawRecord) (domain.Observation, []domain.RowError, error)
}

// Pipeline runs the one-shot extract-transform-build sequence that produces
// the enriched dataset at startup.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	logger      *slog.Logger
	metrics     *observability.Metrics
	dataset     atomic.Pointer[dataset.Dataset]
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the dataset has been built, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Dataset returns the built dataset, or nil before Build succeeds.
func (p *Pipeline) Dataset() *dataset.Dataset {
	return p.dataset.Load()
}

// Build reads all rows, drops the invalid ones, enriches the rest and
// returns the immutable dataset. Any extract or analyzer error aborts the
// build; nothing is retried.
func (p *Pipeline) Build(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()
	p.logger.Info("feature pipeline started", "source", p.extractor.Name())

	raws, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", p.extractor.Name(), err)
	}
	p.metrics.RowsRead.Add(float64(len(raws)))

	observations := make([]domain.Observation, 0, len(raws))
	var rejected []domain.RowError
	rejectedRows := 0

	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		obs, rowErrs, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("transform row %d: %w", raw.Row, err)
		}
		if len(rowErrs) > 0 {
			rejectedRows++
			for _, re := range rowErrs {
				p.metrics.RowsRejected.WithLabelValues(re.Field).Inc()
				p.logger.Debug("row rejected", "row", re.Row, "field", re.Field, "value", re.Value, "reason", re.Reason)
			}
			rejected = append(rejected, rowErrs...)
			continue
		}
		observations = append(observations, obs)
	}

	ds := dataset.New(p.extractor.Name(), observations, rejected, domain.Now())
	elapsed := time.Since(start)

	p.metrics.ObservationsLoaded.Set(float64(ds.Len()))
	p.metrics.LoadDuration.Observe(elapsed.Seconds())
	p.dataset.Store(ds)

	minYear, maxYear := ds.YearBounds()
	p.logger.Info("feature pipeline finished",
		"rows_read", len(raws),
		"observations", ds.Len(),
		"rows_rejected", rejectedRows,
		"field_errors", len(rejected),
		"countries", len(ds.Countries()),
		"year_min", minYear,
		"year_max", maxYear,
		"duration", elapsed,
	)
	return ds, nil
}
