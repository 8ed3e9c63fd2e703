package dataset

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

func obs(row int, country string, year int) domain.Observation {
	return domain.Enrich(domain.Observation{
		Row:         row,
		Country:     country,
		Year:        year,
		Description: "lights in the sky",
	}, domain.Score{Polarity: 0.2, Subjectivity: 0.4})
}

func testDataset() *Dataset {
	return New("test.csv", []domain.Observation{
		obs(1, "USA", 1995),
		obs(2, "France", 2001),
		obs(3, "USA", 1980),
		obs(4, "Brazil", 1995),
		obs(5, "France", 2010),
	}, []domain.RowError{{Row: 6, Field: domain.FieldYear, Reason: "missing"}},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func rows(observations []domain.Observation) []int {
	out := make([]int, 0, len(observations))
	for _, o := range observations {
		out = append(out, o.Row)
	}
	return out
}

func TestNew(t *testing.T) {
	d := testDataset()

	assert.Equal(t, 5, d.Len())
	assert.Equal(t, []string{"Brazil", "France", "USA"}, d.Countries())
	minYear, maxYear := d.YearBounds()
	assert.Equal(t, 1980, minYear)
	assert.Equal(t, 2010, maxYear)
	assert.Equal(t, "test.csv", d.Source())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), d.LoadedAt())
	require.Len(t, d.Rejected(), 1)
	assert.Equal(t, 6, d.Rejected()[0].Row)
}

func TestNew_Empty(t *testing.T) {
	d := New("empty.csv", nil, nil, time.Time{})

	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Countries())
	minYear, maxYear := d.YearBounds()
	assert.Zero(t, minYear)
	assert.Zero(t, maxYear)
	assert.Empty(t, d.Apply(d.DefaultFilter()))
}

func TestAccessorsReturnCopies(t *testing.T) {
	d := testDataset()

	all := d.Observations()
	all[0].Country = "Mutated"
	countries := d.Countries()
	countries[0] = "Mutated"

	assert.Equal(t, "USA", d.Observations()[0].Country)
	assert.Equal(t, "Brazil", d.Countries()[0])
}

func TestApply(t *testing.T) {
	d := testDataset()

	tests := []struct {
		name     string
		filter   Filter
		expected []int
	}{
		{"default filter keeps everything", d.DefaultFilter(), []int{1, 2, 3, 4, 5}},
		{"inclusive lower bound", Filter{YearMin: 1995, YearMax: 2000}, []int{1, 4}},
		{"inclusive upper bound", Filter{YearMin: 1981, YearMax: 2001}, []int{1, 2, 4}},
		{"single year", Filter{YearMin: 1995, YearMax: 1995}, []int{1, 4}},
		{"country filter", Filter{Countries: []string{"France"}, YearMin: 1900, YearMax: 2100}, []int{2, 5}},
		{"multiple countries", Filter{Countries: []string{"USA", "Brazil"}, YearMin: 1990, YearMax: 2100}, []int{1, 4}},
		{"unknown country", Filter{Countries: []string{"Atlantis"}, YearMin: 1900, YearMax: 2100}, []int{}},
		{"empty range", Filter{YearMin: 2011, YearMax: 2020}, []int{}},
		{"inverted range", Filter{YearMin: 2010, YearMax: 1980}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rows(d.Apply(tt.filter)))
		})
	}
}

func TestApply_EmptyCountriesMatchesAll(t *testing.T) {
	d := testDataset()

	withNil := d.Apply(Filter{Countries: nil, YearMin: 1900, YearMax: 2100})
	withEmpty := d.Apply(Filter{Countries: []string{}, YearMin: 1900, YearMax: 2100})

	assert.Len(t, withNil, d.Len())
	assert.Equal(t, withNil, withEmpty)
}

func TestApply_PredicateOrderIsCommutative(t *testing.T) {
	d := testDataset()
	filters := []Filter{
		{Countries: []string{"USA"}, YearMin: 1990, YearMax: 2000},
		{Countries: []string{"France", "Brazil"}, YearMin: 1995, YearMax: 2010},
		{Countries: []string{"Atlantis"}, YearMin: 1980, YearMax: 2010},
		{YearMin: 2001, YearMax: 2001},
	}

	for _, f := range filters {
		// Country first, then year.
		var countryFirst []domain.Observation
		for _, o := range d.Observations() {
			if len(f.Countries) > 0 && !slices.Contains(f.Countries, o.Country) {
				continue
			}
			if o.Year >= f.YearMin && o.Year <= f.YearMax {
				countryFirst = append(countryFirst, o)
			}
		}
		assert.Equal(t, rows(countryFirst), rows(d.Apply(f)))
	}
}

func TestApply_DoesNotMutateDataset(t *testing.T) {
	d := testDataset()
	before := d.Observations()

	filtered := d.Apply(Filter{Countries: []string{"USA"}, YearMin: 1900, YearMax: 2100})
	for i := range filtered {
		filtered[i].Country = "Changed"
	}

	assert.Equal(t, before, d.Observations())
}

func TestFilter_Validate(t *testing.T) {
	require.NoError(t, Filter{YearMin: 1995, YearMax: 1995}.Validate())

	err := Filter{YearMin: 2001, YearMax: 1995}.Validate()
	require.ErrorIs(t, err, ErrInvalidFilter)
	assert.Contains(t, err.Error(), "year_min 2001")

	// Apply still tolerates the inverted range and matches nothing.
	assert.Empty(t, testDataset().Apply(Filter{YearMin: 2001, YearMax: 1995}))
}
