package dataset

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// Filter selects observations by inclusive year range and, optionally, by
// country. An empty Countries list means "any country".
type Filter struct {
	Countries []string `json:"countries"`
	YearMin   int      `json:"year_min"`
	YearMax   int      `json:"year_max"`
}

// DefaultFilter spans every year and country in the dataset.
func (d *Dataset) DefaultFilter() Filter {
	return Filter{YearMin: d.minYear, YearMax: d.maxYear}
}

// Apply returns the observations matching f, in load order. The year range
// is applied first and the country set second; both are plain predicates so
// the order has no observable effect. The dataset itself is not modified.
func (d *Dataset) Apply(f Filter) []domain.Observation {
	out := make([]domain.Observation, 0)
	for _, o := range d.observations {
		if o.Year < f.YearMin || o.Year > f.YearMax {
			continue
		}
		out = append(out, o)
	}

	if len(f.Countries) == 0 {
		return out
	}
	selected := make(map[string]struct{}, len(f.Countries))
	for _, c := range f.Countries {
		selected[c] = struct{}{}
	}
	kept := out[:0]
	for _, o := range out {
		if _, ok := selected[o.Country]; ok {
			kept = append(kept, o)
		}
	}
	return kept
}

// ErrInvalidFilter is returned by Validate for a filter that can never match.
var ErrInvalidFilter = errors.New("invalid filter")

// Validate rejects an inverted year range. Apply itself tolerates one and
// simply returns nothing.
func (f Filter) Validate() error {
	if f.YearMin > f.YearMax {
		return fmt.Errorf("%w: year_min %d is after year_max %d", ErrInvalidFilter, f.YearMin, f.YearMax)
	}
	return nil
}
