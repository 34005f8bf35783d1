package render

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Half-extent in degrees of the frame drawn around an empty map.
const emptyFrameSpan = 0.5

// RenderPNG draws a longitude/latitude scatter snapshot of fig, one dot series per status.
func RenderPNG(w io.Writer, fig *Figure) error {
	series := make([]chart.Series, 0, len(fig.Legend))
	xRange, yRange := frame(fig)

	if fig.Empty() {
		// go-chart requires one visible series; an invisible dot keeps the frame.
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{fig.Layout.Center.Lon},
			YValues: []float64{fig.Layout.Center.Lat},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    1,
				DotColor:    drawing.ColorTransparent,
			},
		})
	}

	for _, entry := range fig.Legend {
		xs, ys := pointsWithStatus(fig, entry.Status)
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (%d)", entry.Status, entry.Count),
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(drawing.ColorFromHex(entry.Color[1:])),
		})
	}

	ch := chart.Chart{
		Title:      fig.Layout.Title,
		Width:      fig.Layout.Width,
		Height:     fig.Layout.Height,
		Background: chart.Style{Padding: chart.Box{Top: fig.Layout.Margin.Top, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Longitude", Range: xRange},
		YAxis:      chart.YAxis{Name: "Latitude", Range: yRange},
		Series:     series,
	}
	if !fig.Empty() {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render map snapshot: %w", err)
	}
	return nil
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// pointsWithStatus groups by status; colors repeat once the palette wraps.
func pointsWithStatus(fig *Figure, status string) (xs, ys []float64) {
	for _, f := range fig.Data.Features {
		if s, _ := f.PropertyString(PropertyStatus); s != status {
			continue
		}
		xs = append(xs, f.Geometry.Point[0])
		ys = append(ys, f.Geometry.Point[1])
	}
	return xs, ys
}

// frame returns padded axis ranges covering every point, or a fixed window around the center.
func frame(fig *Figure) (*chart.ContinuousRange, *chart.ContinuousRange) {
	minLon, maxLon := fig.Layout.Center.Lon, fig.Layout.Center.Lon
	minLat, maxLat := fig.Layout.Center.Lat, fig.Layout.Center.Lat
	if !fig.Empty() {
		minLon, maxLon = math.Inf(1), math.Inf(-1)
		minLat, maxLat = math.Inf(1), math.Inf(-1)
		for _, f := range fig.Data.Features {
			lon, lat := f.Geometry.Point[0], f.Geometry.Point[1]
			minLon, maxLon = math.Min(minLon, lon), math.Max(maxLon, lon)
			minLat, maxLat = math.Min(minLat, lat), math.Max(maxLat, lat)
		}
	}
	padLon := math.Max((maxLon-minLon)*0.05, emptyFrameSpan/10)
	padLat := math.Max((maxLat-minLat)*0.05, emptyFrameSpan/10)
	if fig.Empty() {
		padLon, padLat = emptyFrameSpan, emptyFrameSpan
	}
	return &chart.ContinuousRange{Min: minLon - padLon, Max: maxLon + padLon},
		&chart.ContinuousRange{Min: minLat - padLat, Max: maxLat + padLat}
}
