package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// ObservationTransformer implements Transformer using the domain parse and
// enrich functions, with optional city geocoding.
type ObservationTransformer struct {
	analyzer domain.Analyzer
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates an ObservationTransformer. Pass a nil geocoder to
// disable city enrichment.
func NewTransformer(analyzer domain.Analyzer, geocoder domain.Geocoder, logger *slog.Logger) *ObservationTransformer {
	return &ObservationTransformer{
		analyzer: analyzer,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *ObservationTransformer) Transform(ctx context.Context, raw domain.RawRecord) (domain.Observation, []domain.RowError, error) {
	obs, rowErrs := domain.ParseRawRecord(raw)
	if len(rowErrs) > 0 {
		return domain.Observation{}, rowErrs, nil
	}

	score, err := t.analyzer.Analyze(obs.Description)
	if err != nil {
		return domain.Observation{}, nil, fmt.Errorf("analyze description: %w", err)
	}

	obs = domain.Enrich(obs, score)
	obs = domain.EnrichCity(ctx, obs, t.geocoder, t.logger)
	return obs, nil, nil
}
