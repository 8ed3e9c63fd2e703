package charts

// Figure is a chart description in Plotly's JSON figure format, so the
// page can hand it to Plotly.react unchanged.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of Plotly trace attributes used by the dashboard.
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode,omitempty"`
	Name          string    `json:"name,omitempty"`
	LegendGroup   string    `json:"legendgroup,omitempty"`
	X             []float64 `json:"x,omitempty"`
	Y             []float64 `json:"y,omitempty"`
	Lat           []float64 `json:"lat,omitempty"`
	Lon           []float64 `json:"lon,omitempty"`
	Z             []float64 `json:"z,omitempty"`
	Radius        int       `json:"radius,omitempty"`
	HoverText     []string  `json:"hovertext,omitempty"`
	CustomData    [][]any   `json:"customdata,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
	Line          *Line     `json:"line,omitempty"`
}

// Marker styles the points of a trace. Size is per point for bubble charts.
type Marker struct {
	Color    string    `json:"color,omitempty"`
	Size     []float64 `json:"size,omitempty"`
	SizeMode string    `json:"sizemode,omitempty"`
	SizeRef  float64   `json:"sizeref,omitempty"`
}

// Line styles the connecting line of a lines trace.
type Line struct {
	Color string `json:"color,omitempty"`
}

// Layout holds the figure-level attributes; nil parts are left to Plotly.
type Layout struct {
	Title  *Title  `json:"title,omitempty"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	Legend *Legend `json:"legend,omitempty"`
	Geo    *Geo    `json:"geo,omitempty"`
	Mapbox *Mapbox `json:"mapbox,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
}

// Title is a text label for a figure, axis or legend.
type Title struct {
	Text string `json:"text"`
}

// Axis configures a cartesian axis.
type Axis struct {
	Title *Title `json:"title,omitempty"`
}

// Legend configures the trace legend.
type Legend struct {
	Title *Title `json:"title,omitempty"`
}

// Geo configures a scattergeo base map.
type Geo struct {
	Projection Projection `json:"projection"`
	ShowLand   bool       `json:"showland"`
}

// Projection names the geo map projection, e.g. "natural earth".
type Projection struct {
	Type string `json:"type"`
}

// Mapbox configures a density map tile layer.
type Mapbox struct {
	Style  string `json:"style"`
	Center Center `json:"center"`
	Zoom   int    `json:"zoom"`
}

// Center is the initial map center in degrees.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

func title(text string) *Title {
	return &Title{Text: text}
}
