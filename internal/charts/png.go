package charts

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrUnknownChart is returned for a chart id that is not one of Names.
	ErrUnknownChart = errors.New("unknown chart")
	// ErrNotRenderable is returned for the map charts, which only render in
	// the browser.
	ErrNotRenderable = errors.New("chart has no static rendering")
	// ErrNoData is returned when the figure has nothing to draw.
	ErrNoData = errors.New("chart has no data")
)

// Default PNG dimensions.
const (
	DefaultWidth  = 1024
	DefaultHeight = 600
)

// RenderPNG draws a static PNG of the named chart to w. Only the yearly
// trend and the category scatter are supported.
func RenderPNG(w io.Writer, name string, figs Figures, width, height int) error {
	fig, ok := figs.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}

	var ch chart.Chart
	switch name {
	case YearlyTrend:
		ch = trendChart(fig)
	case HyperspectralAnalysis:
		ch = scatterChart(fig)
	default:
		return fmt.Errorf("%w: %q", ErrNotRenderable, name)
	}
	if len(ch.Series) == 0 {
		return fmt.Errorf("%s: %w", name, ErrNoData)
	}

	ch.Width = width
	ch.Height = height
	ch.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func trendChart(fig Figure) chart.Chart {
	ch := chart.Chart{
		Title: trendTitle,
		XAxis: chart.XAxis{Name: "Year"},
		YAxis: chart.YAxis{Name: "Observations"},
	}
	if len(fig.Data) == 0 || len(fig.Data[0].X) == 0 {
		return ch
	}

	t := fig.Data[0]
	lo, hi := slices.Min(t.X), slices.Max(t.X)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	ch.XAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	ch.XAxis.ValueFormatter = func(v any) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.0f", f)
		}
		return ""
	}
	ch.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: slices.Max(t.Y) + 1}

	ch.Series = []chart.Series{chart.ContinuousSeries{
		Name:    "Observations",
		XValues: t.X,
		YValues: t.Y,
		Style: chart.Style{
			StrokeColor: hexColor(t.Line),
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    hexColor(t.Line),
		},
	}}
	return ch
}

func scatterChart(fig Figure) chart.Chart {
	ch := chart.Chart{
		Title: categoryTitle,
		XAxis: chart.XAxis{Name: "Sentiment", Range: &chart.ContinuousRange{Min: -1, Max: 1}},
		YAxis: chart.YAxis{Name: "Subjectivity", Range: &chart.ContinuousRange{Min: 0, Max: 1}},
	}
	for _, t := range fig.Data {
		if len(t.X) == 0 {
			continue
		}
		var col drawing.Color
		if t.Marker != nil {
			col = drawing.ColorFromHex(strings.TrimPrefix(t.Marker.Color, "#"))
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: t.X,
			YValues: t.Y,
			Style:   pointStyle(col),
		})
	}
	return ch
}

// pointStyle draws markers only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func hexColor(l *Line) drawing.Color {
	if l == nil || l.Color == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(l.Color, "#"))
}
