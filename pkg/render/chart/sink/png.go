package sink

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/render/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width, height int
	title         string
	color         string
}

// WithPNGSize sets the image size in pixels.
func WithPNGSize(w, h int) PNGOption {
	return func(r *pngRenderer) {
		if w > 0 {
			r.width = w
		}
		if h > 0 {
			r.height = h
		}
	}
}

func WithPNGTitle(title string) PNGOption { return func(r *pngRenderer) { r.title = title } }

// WithPNGColor sets the series colour; non-hex values keep the default.
func WithPNGColor(c string) PNGOption {
	return func(r *pngRenderer) {
		if styles.IsHexColor(c) {
			r.color = c
		}
	}
}

// RenderPNG rasterises the spec with go-chart. Unlike the SVG sink it needs
// no external tools.
func RenderPNG(spec chart.Spec, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: int(DefaultWidth) * 2, height: int(DefaultHeight) * 2, color: styles.Primary}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	var err error
	switch spec.Mode {
	case chart.ModeBar:
		err = barChart(spec, r).Render(gochart.PNG, &buf)
	case chart.ModeLine, chart.ModeArea:
		err = lineChart(spec, r).Render(gochart.PNG, &buf)
	default:
		return nil, fmt.Errorf("png: unsupported chart mode %q", spec.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// valueRange returns a y range that always has a non-zero extent and
// includes zero and the target.
func valueRange(spec chart.Spec, values []float64) *gochart.ContinuousRange {
	lo, hi := 0.0, spec.MaxValue
	for _, v := range values {
		lo = min(lo, v)
	}
	if spec.Target != nil {
		lo = min(lo, spec.Target.Value)
		hi = max(hi, spec.Target.Value)
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func barChart(spec chart.Spec, r pngRenderer) gochart.BarChart {
	color := drawing.ColorFromHex(styles.Hex(r.color))
	bars := make([]gochart.Value, len(spec.Bars))
	values := make([]float64, len(spec.Bars))
	for i, b := range spec.Bars {
		bars[i] = gochart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		}
		values[i] = b.Value
	}

	title := r.title
	if spec.Target != nil {
		// go-chart bar charts cannot overlay a reference line.
		title = joinTitle(title, spec.Target.Label())
	}

	slot := max(8, r.width/max(1, len(bars)))
	return gochart.BarChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: slot / 2,
		YAxis: gochart.YAxis{
			Range: valueRange(spec, values),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.FormatValue(f)
				}
				return ""
			},
		},
		Bars: bars,
	}
}

func lineChart(spec chart.Spec, r pngRenderer) gochart.Chart {
	color := drawing.ColorFromHex(styles.Hex(r.color))
	xs := make([]float64, len(spec.Points))
	ys := make([]float64, len(spec.Points))
	ticks := make([]gochart.Tick, len(spec.Points))
	for i, p := range spec.Points {
		xs[i] = p.X
		ys[i] = p.Value
		ticks[i] = gochart.Tick{Value: p.X, Label: p.Label}
	}
	if len(xs) == 1 {
		// go-chart takes the x extent from the ticks and rejects a zero
		// one; draw the lone value flat across the plot.
		xs = []float64{0, 100}
		ys = []float64{ys[0], ys[0]}
		ticks = append(ticks, gochart.Tick{Value: 100})
	}

	style := gochart.Style{StrokeColor: color, StrokeWidth: 2.5, DotWidth: 4, DotColor: color}
	if spec.Mode == chart.ModeArea {
		style.FillColor = color.WithAlpha(51)
	}

	series := []gochart.Series{
		gochart.ContinuousSeries{Name: "values", XValues: xs, YValues: ys, Style: style},
	}
	if spec.Target != nil {
		target := drawing.ColorFromHex(styles.Hex(styles.TargetColor))
		series = append(series, gochart.ContinuousSeries{
			Name:    spec.Target.Label(),
			XValues: []float64{0, 100},
			YValues: []float64{spec.Target.Value, spec.Target.Value},
			Style: gochart.Style{
				StrokeColor:     target,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		})
	}

	return gochart.Chart{
		Title:  r.title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Range: valueRange(spec, ys),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.FormatValue(f)
				}
				return ""
			},
		},
		Series: series,
	}
}

func joinTitle(title, suffix string) string {
	if title == "" {
		return suffix
	}
	return title + " (" + suffix + ")"
}
