// Package chart renders aggregated query results as PNG images using
// the configured palette and resolution.  Three chart types cover the
// reporting needs: bar for distributions, pie for shares and line for
// monthly trends.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dentexpo/expo-manager/internal/config"
)

// ErrNoData is returned when asked to chart an empty aggregation.
var ErrNoData = errors.New("chart: no data")

// ErrUnknownType is returned for unsupported chart type names.
var ErrUnknownType = errors.New("chart: unknown chart type")

// Point is one labeled value of an aggregation.
type Point struct {
	Label string
	Value float64
}

// Base canvas size in pixels at 72 DPI; the configured DPI scales the
// rendered output up from here.
const (
	baseWidth  = 640
	baseHeight = 400
)

// Renderer renders charts according to the chart and export sections
// of the settings file.
type Renderer struct {
	cfg config.ChartConfig
	dpi float64
}

// NewRenderer constructs a Renderer.  imageDPI comes from the export
// section; 300 DPI suits print material.
func NewRenderer(cfg config.ChartConfig, imageDPI int) *Renderer {
	dpi := float64(imageDPI)
	if dpi <= 0 {
		dpi = 72
	}
	return &Renderer{cfg: cfg, dpi: dpi}
}

// Render dispatches on chart type name; an empty kind falls back to
// the configured default.
func (r *Renderer) Render(kind, title string, points []Point) ([]byte, error) {
	if kind == "" {
		kind = r.cfg.DefaultType
	}
	switch strings.ToLower(kind) {
	case "bar":
		return r.Bar(title, points)
	case "pie":
		return r.Pie(title, points)
	case "line":
		return r.Line(title, points)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}

// Bar renders a bar chart with one bar per point.
func (r *Renderer) Bar(title string, points []Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	bars := make([]gochart.Value, 0, len(points))
	for i, p := range points {
		bars = append(bars, gochart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: gochart.Style{FillColor: r.color(i), StrokeWidth: 0},
		})
	}
	graph := gochart.BarChart{
		Title:    title,
		DPI:      r.dpi,
		Width:    baseWidth,
		Height:   baseHeight,
		BarWidth: 48,
		Bars:     bars,
		XAxis:    gochart.Style{TextRotationDegrees: 45},
		YAxis:    gochart.YAxis{Range: valueRange(points)},
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render bar: %w", err)
	}
	return buf.Bytes(), nil
}

// Pie renders a pie chart of the points' share of the total.
func (r *Renderer) Pie(title string, points []Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	values := make([]gochart.Value, 0, len(points))
	for i, p := range points {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%.0f)", p.Label, p.Value),
			Value: p.Value,
			Style: gochart.Style{FillColor: r.color(i)},
		})
	}
	graph := gochart.PieChart{
		Title:  title,
		DPI:    r.dpi,
		Width:  baseHeight, // square canvas
		Height: baseHeight,
		Values: values,
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render pie: %w", err)
	}
	return buf.Bytes(), nil
}

// Line renders a trend line across the points in their given order,
// with one tick per label.
func (r *Renderer) Line(title string, points []Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]gochart.Tick, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
		ticks[i] = gochart.Tick{Value: float64(i), Label: p.Label}
	}
	xAxis := gochart.XAxis{Ticks: ticks, Style: gochart.Style{TextRotationDegrees: 45}}
	if len(points) == 1 {
		// A single point has no x-extent of its own; pad the axis so
		// the renderer still has a usable range.
		xAxis.Range = &gochart.ContinuousRange{Min: -1, Max: 1}
	}
	graph := gochart.Chart{
		Title:  title,
		DPI:    r.dpi,
		Width:  baseWidth,
		Height: baseHeight,
		XAxis:  xAxis,
		YAxis:  gochart.YAxis{Range: valueRange(points)},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style:   gochart.Style{StrokeColor: r.color(0), StrokeWidth: 2},
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: render line: %w", err)
	}
	return buf.Bytes(), nil
}

// valueRange pins the value axis to [0, max].  Without an explicit
// range the renderer cannot derive one from degenerate series, such
// as a single bucket or all-equal counts.
func valueRange(points []Point) gochart.Range {
	var top float64
	for _, p := range points {
		if p.Value > top {
			top = p.Value
		}
	}
	if top <= 0 {
		top = 1
	}
	return &gochart.ContinuousRange{Min: 0, Max: top}
}

// color returns the i-th palette color, cycling when the palette is
// shorter than the series.
func (r *Renderer) color(i int) drawing.Color {
	palette := r.cfg.Colors
	if len(palette) == 0 {
		return gochart.GetDefaultColor(i)
	}
	hex := strings.TrimPrefix(palette[i%len(palette)], "#")
	return drawing.ColorFromHex(hex)
}
