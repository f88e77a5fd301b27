package sink

import (
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/retailreboot/retailreboot/pkg/chart"
)

// ASCIIOption configures terminal rendering.
type ASCIIOption func(*asciiRenderer)

type asciiRenderer struct {
	width, height int
	caption       string
	color         bool
}

// WithASCIISize sets the plot size in terminal cells.
func WithASCIISize(w, h int) ASCIIOption {
	return func(r *asciiRenderer) { r.width, r.height = w, h }
}

func WithCaption(c string) ASCIIOption { return func(r *asciiRenderer) { r.caption = c } }

// WithANSIColor colours the series and target line.
func WithANSIColor() ASCIIOption { return func(r *asciiRenderer) { r.color = true } }

// RenderASCII draws the spec as a terminal plot followed by the point
// labels. Bar specs are plotted as a line through the bar tops.
func RenderASCII(spec chart.Spec, opts ...ASCIIOption) string {
	r := asciiRenderer{height: 10}
	for _, opt := range opts {
		opt(&r)
	}

	values, labels := seriesOf(spec)
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		// asciigraph needs two samples to draw a segment.
		values = []float64{values[0], values[0]}
	}

	plotOpts := []asciigraph.Option{
		asciigraph.Height(r.height),
		asciigraph.Precision(1),
		asciigraph.LowerBound(min(0, slices.Min(values))),
	}
	if r.width > 0 {
		plotOpts = append(plotOpts, asciigraph.Width(r.width))
	}
	if r.caption != "" {
		plotOpts = append(plotOpts, asciigraph.Caption(r.caption))
	}

	var plot string
	if spec.Target != nil {
		target := make([]float64, len(values))
		for i := range target {
			target[i] = spec.Target.Value
		}
		if r.color {
			plotOpts = append(plotOpts, asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red))
		}
		plot = asciigraph.PlotMany([][]float64{values, target}, plotOpts...)
	} else {
		if r.color {
			plotOpts = append(plotOpts, asciigraph.SeriesColors(asciigraph.Blue))
		}
		plot = asciigraph.Plot(values, plotOpts...)
	}

	var b strings.Builder
	b.WriteString(plot)
	b.WriteString("\n")
	if len(labels) > 0 {
		b.WriteString(strings.Join(labels, "  "))
		b.WriteString("\n")
	}
	if spec.Target != nil {
		b.WriteString(spec.Target.Label())
		b.WriteString("\n")
	}
	return b.String()
}

func seriesOf(spec chart.Spec) (values []float64, labels []string) {
	switch spec.Mode {
	case chart.ModeBar:
		for _, b := range spec.Bars {
			values = append(values, b.Value)
			labels = append(labels, b.Label)
		}
	case chart.ModeLine, chart.ModeArea:
		for _, p := range spec.Points {
			values = append(values, p.Value)
			labels = append(labels, p.Label)
		}
	}
	return values, labels
}
