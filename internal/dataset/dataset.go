// Package dataset holds the enriched observation table. A Dataset is built
// once at startup and is read-only afterwards, so any number of requests may
// filter it concurrently without locking.
package dataset

import (
	"slices"
	"time"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// Dataset is the immutable enriched table plus load metadata.
type Dataset struct {
	observations []domain.Observation
	rejected     []domain.RowError
	countries    []string
	minYear      int
	maxYear      int
	source       string
	loadedAt     time.Time
}

// New builds a Dataset. It takes ownership of observations and rejected;
// callers must not modify either slice afterwards.
func New(source string, observations []domain.Observation, rejected []domain.RowError, loadedAt time.Time) *Dataset {
	d := &Dataset{
		observations: observations,
		rejected:     rejected,
		source:       source,
		loadedAt:     loadedAt,
	}

	seen := make(map[string]struct{})
	for i, o := range observations {
		if _, ok := seen[o.Country]; !ok {
			seen[o.Country] = struct{}{}
			d.countries = append(d.countries, o.Country)
		}
		if i == 0 || o.Year < d.minYear {
			d.minYear = o.Year
		}
		if i == 0 || o.Year > d.maxYear {
			d.maxYear = o.Year
		}
	}
	slices.Sort(d.countries)
	return d
}

// Len returns the number of observations.
func (d *Dataset) Len() int {
	return len(d.observations)
}

// Observations returns a copy of every observation in load order.
func (d *Dataset) Observations() []domain.Observation {
	return slices.Clone(d.observations)
}

// Rejected returns a copy of the validation errors collected during load.
func (d *Dataset) Rejected() []domain.RowError {
	return slices.Clone(d.rejected)
}

// Countries returns the sorted distinct countries.
func (d *Dataset) Countries() []string {
	return slices.Clone(d.countries)
}

// YearBounds returns the smallest and largest year present. Both are zero
// for an empty dataset.
func (d *Dataset) YearBounds() (int, int) {
	return d.minYear, d.maxYear
}

// Source returns the name of the input the dataset was loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// LoadedAt returns when the dataset finished loading.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}
