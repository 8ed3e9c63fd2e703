package domain

import (
	"encoding/json"
	"fmt"
)

// Category partitions observations by the subjectivity of their description.
type Category string

const (
	CategoryScientific Category = "Scientific"
	CategoryEmotional  Category = "Emotional"
)

// Categories lists every category in legend order.
var Categories = []Category{CategoryScientific, CategoryEmotional}

// RawRecord is one input row before validation. Row is the 1-based data row
// number (the header is not counted).
type RawRecord struct {
	Row         int
	Latitude    string
	Longitude   string
	Country     string
	City        string
	Year        string
	Description string

	// Malformed holds the reader's error for a row that could not be split
	// into fields. The other fields are empty when it is set.
	Malformed string
}

// Observation is one validated, enriched row of the dashboard table.
// Derived fields are set once by Enrich and never modified afterwards.
type Observation struct {
	Row         int     `json:"row"`
	Country     string  `json:"country"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Year        int     `json:"Year"`
	Description string  `json:"description"`

	Sentiment        float64      `json:"sentiment"`
	Subjectivity     float64      `json:"subjectivity"`
	Mentions         int          `json:"mentions"`
	Impact           float64      `json:"impact"`
	Veracity         float64      `json:"veracity"`
	ImageScore       float64      `json:"image_score"`
	Category         Category     `json:"category"`
	ShortDescription string       `json:"short_description"`
	Keywords         KeywordFlags `json:"keywords"`
}

// RowError describes why one field of an input row was rejected.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
}

// Column is one column of the enriched table.
type Column struct {
	ID    string
	Value func(Observation) any
}

// Columns lists the enriched table's columns in display order: raw fields,
// derived scores, then one kw_<term> flag per keyword.
var Columns = buildColumns()

func buildColumns() []Column {
	cols := []Column{
		{ID: "country", Value: func(o Observation) any { return o.Country }},
		{ID: "city", Value: func(o Observation) any { return o.City }},
		{ID: "latitude", Value: func(o Observation) any { return o.Latitude }},
		{ID: "longitude", Value: func(o Observation) any { return o.Longitude }},
		{ID: "Year", Value: func(o Observation) any { return o.Year }},
		{ID: "description", Value: func(o Observation) any { return o.Description }},
		{ID: "sentiment", Value: func(o Observation) any { return o.Sentiment }},
		{ID: "subjectivity", Value: func(o Observation) any { return o.Subjectivity }},
		{ID: "mentions", Value: func(o Observation) any { return o.Mentions }},
		{ID: "impact", Value: func(o Observation) any { return o.Impact }},
		{ID: "veracity", Value: func(o Observation) any { return o.Veracity }},
		{ID: "image_score", Value: func(o Observation) any { return o.ImageScore }},
		{ID: "category", Value: func(o Observation) any { return string(o.Category) }},
		{ID: "short_description", Value: func(o Observation) any { return o.ShortDescription }},
	}
	for i, kw := range Keywords {
		cols = append(cols, Column{
			ID:    KeywordColumn(kw),
			Value: func(o Observation) any { return o.Keywords[i] },
		})
	}
	return cols
}

// Fields returns the observation as a flat column-id to value map.
func (o Observation) Fields() map[string]any {
	m := make(map[string]any, len(Columns))
	for _, c := range Columns {
		m[c.ID] = c.Value(o)
	}
	return m
}

// MarshalJSON encodes keyword flags as {"craft": false, ...}.
func (k KeywordFlags) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(Keywords))
	for i, kw := range Keywords {
		m[kw] = k[i]
	}
	return json.Marshal(m)
}
