// Package dashboard describes the static page: filters, chart slots and the
// observation table. The layout is derived once from the dataset and never
// changes afterwards.
package dashboard

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/couchcryptid/uap-dashboard/internal/charts"
	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// Heading is the page's visible title.
const Heading = "Scientific UAP Observations Dashboard"

// DOM ids of the interactive controls.
const (
	CountryFilterID = "country-filter"
	YearFilterID    = "year-filter"
	TableID         = "data-table"
)

// markStep is the spacing in years of the labelled slider ticks.
const markStep = 10

// maxMarks caps the labelled ticks; wider year spans use a coarser step.
const maxMarks = 50

// Settings carries the configurable parts of the layout.
type Settings struct {
	Title    string
	PageSize int
}

// Layout is the page description served to the browser.
type Layout struct {
	Title         string        `json:"title"`
	Heading       string        `json:"heading"`
	CountryFilter CountryFilter `json:"country_filter"`
	YearFilter    YearFilter    `json:"year_filter"`
	Charts        []string      `json:"charts"`
	Table         TableSpec     `json:"table"`
	Observations  int           `json:"observations"`
}

// CountryFilter is a multi-select; no selection means every country.
type CountryFilter struct {
	ID          string   `json:"id"`
	Placeholder string   `json:"placeholder"`
	Options     []Option `json:"options"`
}

// Option is one entry of the country multi-select.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// YearFilter is a dual-ended range slider with inclusive bounds.
type YearFilter struct {
	ID    string `json:"id"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Step  int    `json:"step"`
	Value [2]int `json:"value"`
	Marks []Mark `json:"marks"`
}

// Mark is a labelled tick under the year slider.
type Mark struct {
	Year  int    `json:"year"`
	Label string `json:"label"`
}

// TableSpec describes the paginated, sortable, filterable table.
type TableSpec struct {
	ID       string        `json:"id"`
	Columns  []TableColumn `json:"columns"`
	PageSize int           `json:"page_size"`
}

// TableColumn pairs a column id with its humanized header.
type TableColumn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewLayout builds the page layout for ds.
func NewLayout(ds *dataset.Dataset, s Settings) Layout {
	countries := ds.Countries()
	options := make([]Option, len(countries))
	for i, c := range countries {
		options[i] = Option{Label: c, Value: c}
	}

	minYear, maxYear := ds.YearBounds()
	var marks []Mark
	if ds.Len() > 0 {
		step := markStep
		for (maxYear-minYear)/step >= maxMarks {
			step *= 10
		}
		for y := minYear; y <= maxYear; y += step {
			marks = append(marks, Mark{Year: y, Label: strconv.Itoa(y)})
		}
	}

	columns := make([]TableColumn, len(domain.Columns))
	for i, c := range domain.Columns {
		columns[i] = TableColumn{ID: c.ID, Name: HumanizeHeader(c.ID)}
	}

	return Layout{
		Title:   s.Title,
		Heading: Heading,
		CountryFilter: CountryFilter{
			ID:          CountryFilterID,
			Placeholder: "Filter by country",
			Options:     options,
		},
		YearFilter: YearFilter{
			ID:    YearFilterID,
			Min:   minYear,
			Max:   maxYear,
			Step:  1,
			Value: [2]int{minYear, maxYear},
			Marks: marks,
		},
		Charts: charts.Names,
		Table: TableSpec{
			ID:       TableID,
			Columns:  columns,
			PageSize: s.PageSize,
		},
		Observations: ds.Len(),
	}
}

// HumanizeHeader turns a column id into a table header: underscores become
// spaces, the first letter is upper-cased and the rest lower-cased.
// "image_score" becomes "Image score".
func HumanizeHeader(id string) string {
	s := strings.ReplaceAll(id, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Rows returns the table body: one column-id to value map per observation.
func Rows(observations []domain.Observation) []map[string]any {
	rows := make([]map[string]any, len(observations))
	for i, o := range observations {
		rows[i] = o.Fields()
	}
	return rows
}
