package dashboard

import (
	"time"

	"github.com/couchcryptid/uap-dashboard/internal/charts"
	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
)

// Service answers every dashboard request from one immutable dataset. It
// holds no mutable state and is safe for concurrent use.
type Service struct {
	ds      *dataset.Dataset
	opts    charts.Options
	layout  Layout
	rows    []map[string]any
	metrics *observability.Metrics
}

// NewService precomputes the layout and table rows for ds.
func NewService(ds *dataset.Dataset, s Settings, opts charts.Options, metrics *observability.Metrics) *Service {
	return &Service{
		ds:      ds,
		opts:    opts,
		layout:  NewLayout(ds, s),
		rows:    Rows(ds.Observations()),
		metrics: metrics,
	}
}

// Dataset returns the loaded, read-only dataset.
func (s *Service) Dataset() *dataset.Dataset { return s.ds }

// Layout returns the page layout computed at construction.
func (s *Service) Layout() Layout { return s.layout }

// Rows returns the full table body.
func (s *Service) Rows() []map[string]any { return s.rows }

// DefaultFilter spans every year and country.
func (s *Service) DefaultFilter() dataset.Filter { return s.ds.DefaultFilter() }

// Figures validates f and recomputes all four charts. transport labels the
// request in metrics (http, ws or png).
func (s *Service) Figures(f dataset.Filter, transport string) (charts.Figures, error) {
	s.metrics.RecomputeRequests.WithLabelValues(transport).Inc()
	if err := f.Validate(); err != nil {
		return charts.Figures{}, err
	}

	start := time.Now()
	figs := charts.Recompute(s.ds, f, s.opts)
	s.metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	s.metrics.FilteredRows.Observe(float64(figs.Count))
	return figs, nil
}
