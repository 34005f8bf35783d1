// Package render turns filtered student records into map figures.
package render

import (
	geojson "github.com/paulmach/go.geojson"

	"student_dropout_map/internal/domain/student"
)

// Map defaults.
const (
	DefaultTitle     = "Mapa da evasão de alunos"
	DefaultMapStyle  = "open-street-map"
	DefaultCenterLat = -17.85
	DefaultCenterLon = -41.50
	DefaultZoom      = 9
	DefaultWidth     = 900
	DefaultHeight    = 600
)

// Feature property keys that are not student fields.
const (
	PropertyHoverName = "hover_name"
	PropertyStatus    = "status"
	PropertyColor     = "color"
	PropertyHover     = "hover_data"
)

// Palette is assigned to statuses in order of first appearance.
var Palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

type Margin struct {
	Right  int `json:"r"`
	Top    int `json:"t"`
	Left   int `json:"l"`
	Bottom int `json:"b"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Layout struct {
	Title    string `json:"title"`
	MapStyle string `json:"map_style"`
	Center   Center `json:"center"`
	Zoom     int    `json:"zoom"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Margin   Margin `json:"margin"`
}

// DefaultLayout matches the dashboard's fixed map viewport.
func DefaultLayout() Layout {
	return Layout{
		Title:    DefaultTitle,
		MapStyle: DefaultMapStyle,
		Center:   Center{Lat: DefaultCenterLat, Lon: DefaultCenterLon},
		Zoom:     DefaultZoom,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Margin:   Margin{Right: 0, Top: 50, Left: 0, Bottom: 10},
	}
}

type LegendEntry struct {
	Status string `json:"status"`
	Color  string `json:"color"`
	Count  int    `json:"count"`
}

// Figure is a scatter map: one GeoJSON point per plotted student.
type Figure struct {
	Data        *geojson.FeatureCollection `json:"data"`
	Layout      Layout                     `json:"layout"`
	Legend      []LegendEntry              `json:"legend"`
	ColorBy     string                     `json:"color_by"`
	HoverFields []string                   `json:"hover_fields"`
}

// Points returns the number of plotted students.
func (f *Figure) Points() int {
	if f == nil || f.Data == nil {
		return 0
	}
	return len(f.Data.Features)
}

// Empty reports whether nothing is plotted.
func (f *Figure) Empty() bool {
	return f.Points() == 0
}

// colorScale assigns palette colors to statuses by first appearance.
type colorScale struct {
	order  []string
	colors map[string]string
	counts map[string]int
}

func newColorScale() *colorScale {
	return &colorScale{colors: make(map[string]string), counts: make(map[string]int)}
}

func (c *colorScale) colorFor(status string) string {
	col, ok := c.colors[status]
	if !ok {
		col = Palette[len(c.order)%len(Palette)]
		c.colors[status] = col
		c.order = append(c.order, status)
	}
	c.counts[status]++
	return col
}

func (c *colorScale) legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(c.order))
	for _, s := range c.order {
		entries = append(entries, LegendEntry{Status: s, Color: c.colors[s], Count: c.counts[s]})
	}
	return entries
}

// NewFigure plots every student that carries coordinates. An empty input
// yields an empty map with the default viewport.
func NewFigure(records []student.Student) *Figure {
	labels := student.DisplayLabels
	hoverLabels := labels.Labels(student.HoverColumns)

	fc := geojson.NewFeatureCollection()
	scale := newColorScale()

	for _, s := range records {
		if !s.Plottable() {
			continue
		}
		fields := s.Fields()

		f := geojson.NewPointFeature([]float64{s.Longitude.Float64, s.Latitude.Float64})
		f.SetProperty(PropertyHoverName, fields[labels.Label(student.ColumnName)])
		status := fields[labels.Label(student.ColumnStatus)]
		f.SetProperty(PropertyStatus, status)
		f.SetProperty(PropertyColor, scale.colorFor(status))

		hover := make(map[string]string, len(hoverLabels))
		for _, l := range hoverLabels {
			hover[l] = fields[l]
		}
		f.SetProperty(PropertyHover, hover)
		fc.AddFeature(f)
	}

	return &Figure{
		Data:        fc,
		Layout:      DefaultLayout(),
		Legend:      scale.legend(),
		ColorBy:     labels.Label(student.ColumnStatus),
		HoverFields: hoverLabels,
	}
}
