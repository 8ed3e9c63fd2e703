package charts

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// densityPoint is one weighted sample on the density map.
type densityPoint struct {
	lat, lon, weight float64
}

func densityMap(subset []domain.Observation, opts Options) Figure {
	center := meanCenter(subset)

	var traces []Trace
	if len(subset) > 0 {
		points := binByGeohash(subset, opts.GeohashPrecision)
		t := Trace{
			Type:          "densitymapbox",
			Radius:        opts.Radius,
			Lat:           make([]float64, 0, len(points)),
			Lon:           make([]float64, 0, len(points)),
			Z:             make([]float64, 0, len(points)),
			HoverTemplate: "Image score=%{z}<br>Latitude=%{lat}<br>Longitude=%{lon}<extra></extra>",
		}
		for _, p := range points {
			t.Lat = append(t.Lat, p.lat)
			t.Lon = append(t.Lon, p.lon)
			t.Z = append(t.Z, p.weight)
		}
		traces = append(traces, t)
	}

	return Figure{
		Data: nonNil(traces),
		Layout: Layout{
			Mapbox: &Mapbox{
				Style:  opts.MapStyle,
				Center: center,
				Zoom:   opts.Zoom,
			},
			Margin: &Margin{T: 40},
		},
	}
}

// meanCenter is the arithmetic mean of the subset's coordinates, or (0, 0)
// when the subset is empty.
func meanCenter(subset []domain.Observation) Center {
	if len(subset) == 0 {
		return Center{}
	}
	lats := make([]float64, len(subset))
	lons := make([]float64, len(subset))
	for i, o := range subset {
		lats[i] = o.Latitude
		lons[i] = o.Longitude
	}
	return Center{Lat: stat.Mean(lats, nil), Lon: stat.Mean(lons, nil)}
}

// binByGeohash merges observations sharing a geohash prefix of the given
// precision into one point at the members' mean position, weighted by the
// sum of their image scores. Cells keep first-seen order. A precision of 0
// or less returns one point per observation.
func binByGeohash(subset []domain.Observation, precision int) []densityPoint {
	if precision <= 0 {
		points := make([]densityPoint, len(subset))
		for i, o := range subset {
			points[i] = densityPoint{lat: o.Latitude, lon: o.Longitude, weight: o.ImageScore}
		}
		return points
	}

	type cell struct {
		lats, lons []float64
		weight     float64
	}
	var order []string
	cells := make(map[string]*cell)
	for _, o := range subset {
		key := geohash.Encode(o.Latitude, o.Longitude)
		if len(key) > precision {
			key = key[:precision]
		}
		c, ok := cells[key]
		if !ok {
			c = &cell{}
			cells[key] = c
			order = append(order, key)
		}
		c.lats = append(c.lats, o.Latitude)
		c.lons = append(c.lons, o.Longitude)
		c.weight += o.ImageScore
	}

	points := make([]densityPoint, 0, len(order))
	for _, key := range order {
		c := cells[key]
		points = append(points, densityPoint{
			lat:    stat.Mean(c.lats, nil),
			lon:    stat.Mean(c.lons, nil),
			weight: c.weight,
		})
	}
	return points
}
