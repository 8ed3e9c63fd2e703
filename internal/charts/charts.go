// Package charts turns a filter over the enriched dataset into the four
// dashboard figures. Recompute has no hidden state: the same dataset, filter
// and options always yield the same figures.
package charts

import (
	"slices"

	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// Chart identifiers, also used as the DOM ids of the graph containers.
const (
	GeoMap                = "geo-map"
	YearlyTrend           = "yearly-trend"
	HyperspectralAnalysis = "hyperspectral-analysis"
	BattlespaceAwareness  = "battlespace-awareness"
)

// Names lists the chart ids in page order.
var Names = []string{GeoMap, YearlyTrend, HyperspectralAnalysis, BattlespaceAwareness}

const (
	trendTitle    = "Yearly Trends"
	categoryTitle = "Scientific vs Emotional Analysis"

	// maxMarkerSize is the diameter in pixels of the largest bubble.
	maxMarkerSize = 20
)

var categoryColors = map[domain.Category]string{
	domain.CategoryScientific: "#636efa",
	domain.CategoryEmotional:  "#EF553B",
}

// Options holds the configurable parts of the density map.
type Options struct {
	Radius           int
	Zoom             int
	MapStyle         string
	GeohashPrecision int
}

// DefaultOptions matches the dashboard's configuration defaults.
func DefaultOptions() Options {
	return Options{
		Radius:           20,
		Zoom:             1,
		MapStyle:         "open-street-map",
		GeohashPrecision: 5,
	}
}

// Figures is the full output of one recompute.
type Figures struct {
	GeoMap                Figure `json:"geo-map"`
	YearlyTrend           Figure `json:"yearly-trend"`
	HyperspectralAnalysis Figure `json:"hyperspectral-analysis"`
	BattlespaceAwareness  Figure `json:"battlespace-awareness"`
	// Count is the number of observations left after filtering.
	Count int `json:"count"`
}

// Get returns the figure with the given chart id.
func (f Figures) Get(name string) (Figure, bool) {
	switch name {
	case GeoMap:
		return f.GeoMap, true
	case YearlyTrend:
		return f.YearlyTrend, true
	case HyperspectralAnalysis:
		return f.HyperspectralAnalysis, true
	case BattlespaceAwareness:
		return f.BattlespaceAwareness, true
	}
	return Figure{}, false
}

// Recompute filters ds and rebuilds every figure from the subset.
func Recompute(ds *dataset.Dataset, f dataset.Filter, opts Options) Figures {
	return Build(ds.Apply(f), opts)
}

// Build renders the four figures for an already filtered subset. An empty
// subset yields figures with no traces and a density map centered on (0, 0).
func Build(subset []domain.Observation, opts Options) Figures {
	return Figures{
		GeoMap:                geoScatter(subset),
		YearlyTrend:           yearlyTrend(subset),
		HyperspectralAnalysis: categoryScatter(subset),
		BattlespaceAwareness:  densityMap(subset, opts),
		Count:                 len(subset),
	}
}

func geoScatter(subset []domain.Observation) Figure {
	ref := sizeRef(subset)
	var traces []Trace
	for _, cat := range domain.Categories {
		group := byCategory(subset, cat)
		if len(group) == 0 {
			continue
		}
		t := Trace{
			Type:        "scattergeo",
			Mode:        "markers",
			Name:        string(cat),
			LegendGroup: string(cat),
			Lat:         make([]float64, 0, len(group)),
			Lon:         make([]float64, 0, len(group)),
			HoverText:   make([]string, 0, len(group)),
			CustomData:  make([][]any, 0, len(group)),
			HoverTemplate: "<b>%{hovertext}</b><br><br>" +
				"Short description=%{customdata[0]}<br>" +
				"Year=%{customdata[1]}<br>" +
				"Category=%{customdata[2]}<br>" +
				"Veracity=%{marker.size}<extra></extra>",
			Marker: &Marker{
				Color:    categoryColors[cat],
				Size:     make([]float64, 0, len(group)),
				SizeMode: "area",
				SizeRef:  ref,
			},
		}
		for _, o := range group {
			t.Lat = append(t.Lat, o.Latitude)
			t.Lon = append(t.Lon, o.Longitude)
			t.HoverText = append(t.HoverText, o.City)
			t.CustomData = append(t.CustomData, []any{o.ShortDescription, o.Year, string(o.Category)})
			t.Marker.Size = append(t.Marker.Size, o.Veracity)
		}
		traces = append(traces, t)
	}

	return Figure{
		Data: nonNil(traces),
		Layout: Layout{
			Legend: &Legend{Title: title("Category")},
			Geo: &Geo{
				Projection: Projection{Type: "orthographic"},
				ShowLand:   true,
			},
			Margin: &Margin{T: 40},
		},
	}
}

func yearlyTrend(subset []domain.Observation) Figure {
	counts := make(map[int]int)
	for _, o := range subset {
		counts[o.Year]++
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	slices.Sort(years)

	var traces []Trace
	if len(years) > 0 {
		t := Trace{
			Type:          "scatter",
			Mode:          "lines+markers",
			X:             make([]float64, 0, len(years)),
			Y:             make([]float64, 0, len(years)),
			HoverTemplate: "Year=%{x}<br>Observations=%{y}<extra></extra>",
			Line:          &Line{Color: categoryColors[domain.CategoryScientific]},
		}
		for _, y := range years {
			t.X = append(t.X, float64(y))
			t.Y = append(t.Y, float64(counts[y]))
		}
		traces = append(traces, t)
	}

	return Figure{
		Data: nonNil(traces),
		Layout: Layout{
			Title: title(trendTitle),
			XAxis: &Axis{Title: title("Year")},
			YAxis: &Axis{Title: title("Observations")},
		},
	}
}

func categoryScatter(subset []domain.Observation) Figure {
	ref := sizeRef(subset)
	var traces []Trace
	for _, cat := range domain.Categories {
		group := byCategory(subset, cat)
		if len(group) == 0 {
			continue
		}
		t := Trace{
			Type:          "scatter",
			Mode:          "markers",
			Name:          string(cat),
			LegendGroup:   string(cat),
			X:             make([]float64, 0, len(group)),
			Y:             make([]float64, 0, len(group)),
			HoverTemplate: "Sentiment=%{x}<br>Subjectivity=%{y}<br>Veracity=%{marker.size}<extra></extra>",
			Marker: &Marker{
				Color:    categoryColors[cat],
				Size:     make([]float64, 0, len(group)),
				SizeMode: "area",
				SizeRef:  ref,
			},
		}
		for _, o := range group {
			t.X = append(t.X, o.Sentiment)
			t.Y = append(t.Y, o.Subjectivity)
			t.Marker.Size = append(t.Marker.Size, o.Veracity)
		}
		traces = append(traces, t)
	}

	return Figure{
		Data: nonNil(traces),
		Layout: Layout{
			Title:  title(categoryTitle),
			XAxis:  &Axis{Title: title("Sentiment")},
			YAxis:  &Axis{Title: title("Subjectivity")},
			Legend: &Legend{Title: title("Category")},
		},
	}
}

func byCategory(subset []domain.Observation, cat domain.Category) []domain.Observation {
	var out []domain.Observation
	for _, o := range subset {
		if o.Category == cat {
			out = append(out, o)
		}
	}
	return out
}

// sizeRef scales area-mode markers so the largest veracity in the subset is
// drawn maxMarkerSize pixels across.
func sizeRef(subset []domain.Observation) float64 {
	peak := 0.0
	for _, o := range subset {
		peak = max(peak, o.Veracity)
	}
	if peak <= 0 {
		return 1
	}
	return 2 * peak / (maxMarkerSize * maxMarkerSize)
}

func nonNil(traces []Trace) []Trace {
	if traces == nil {
		return []Trace{}
	}
	return traces
}
