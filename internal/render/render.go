// Package render draws a calorimetry ChartSpec with go-chart.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Options controls the output image
type Options struct {
	Format Format
	Width  int
	Height int
}

// ParseFormat maps a file extension or format name to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png", "":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

var palette = map[string]drawing.Color{
	calorimetry.ColorBlack: chart.ColorBlack,
	calorimetry.ColorBlue:  chart.ColorBlue,
	calorimetry.ColorRed:   chart.ColorRed,
	calorimetry.ColorGray:  chart.ColorAlternateGray,
}

func color(name string) drawing.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return chart.ColorBlack
}

func style(s calorimetry.Style) chart.Style {
	st := chart.Style{
		StrokeColor: color(s.Color),
		StrokeWidth: 1.5,
	}
	switch {
	case s.Dashed:
		st.StrokeDashArray = []float64{6, 4}
	case s.Dotted:
		st.StrokeWidth = 1
		st.StrokeDashArray = []float64{1, 3}
	}
	if s.Points {
		st.DotColor = color(s.Color)
		st.DotWidth = 3
	}
	return st
}

// Chart converts a spec into a go-chart chart without rendering it
func Chart(spec calorimetry.ChartSpec, width, height int) chart.Chart {
	var series []chart.Series

	for _, s := range spec.Series {
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style:   style(s.Style),
		})
	}

	lo, hi := spec.XRange[0], spec.XRange[1]
	for _, ref := range spec.References {
		series = append(series, chart.ContinuousSeries{
			Name:    ref.Label,
			XValues: []float64{lo, hi},
			YValues: []float64{ref.Value, ref.Value},
			Style:   style(ref.Style),
		})
	}

	for _, seg := range spec.Segments {
		st := style(seg.Style)
		st.StrokeWidth = 2
		series = append(series, chart.ContinuousSeries{
			Name:    seg.Label,
			XValues: []float64{seg.X1, seg.X2},
			YValues: []float64{seg.Y1, seg.Y2},
			Style:   st,
		})
	}

	if len(spec.Markers) > 0 {
		an := chart.AnnotationSeries{Name: "points"}
		for _, m := range spec.Markers {
			an.Annotations = append(an.Annotations, chart.Value2{
				XValue: m.X,
				YValue: m.Y,
				Label:  m.Label,
			})
		}
		series = append(series, an)
	}

	lo, hi = widen(lo, hi)
	yAxis := chart.YAxis{Name: spec.YLabel}
	if ylo, yhi := yExtent(spec); yhi-ylo < minSpan {
		ylo, yhi = widen(ylo, yhi)
		yAxis.Range = &chart.ContinuousRange{Min: ylo, Max: yhi}
	}

	c := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XLabel, Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		YAxis:      yAxis,
		Series:     series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	return c
}

// minSpan is the narrowest axis range go-chart can lay out; a flat run
// (every reading at one temperature) would otherwise collapse the Y axis.
const minSpan = 1e-9

// widen pads a degenerate range by half a unit on each side
func widen(lo, hi float64) (float64, float64) {
	if hi-lo < minSpan {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

// yExtent returns the smallest and largest Y value drawn by spec
func yExtent(spec calorimetry.ChartSpec) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	add := func(v float64) {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	for _, s := range spec.Series {
		for _, v := range s.Y {
			add(v)
		}
	}
	for _, ref := range spec.References {
		add(ref.Value)
	}
	for _, seg := range spec.Segments {
		add(seg.Y1)
		add(seg.Y2)
	}
	for _, m := range spec.Markers {
		add(m.Y)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// Render writes the chart image to w
func Render(w io.Writer, spec calorimetry.ChartSpec, opts Options) error {
	c := Chart(spec, opts.Width, opts.Height)

	provider := chart.PNG
	if opts.Format == FormatSVG {
		provider = chart.SVG
	}

	if err := c.Render(provider, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
