package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/render/styles"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 600.0
	DefaultHeight = 300.0
)

const (
	padTop       = 36.0
	padBottom    = 28.0
	padLeft      = 16.0
	padRight     = 16.0
	barFill      = 0.6
	pointRadius  = 4.0
	labelMaxRune = 12
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	title         string
	color         string
}

func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithColor sets the series colour. Only hex literals are accepted; anything
// else keeps the default.
func WithColor(c string) SVGOption {
	return func(r *svgRenderer) {
		if styles.IsHexColor(c) {
			r.color = c
		}
	}
}

// WithSize sets the canvas size in pixels. Non-positive values keep the default.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 {
			r.width = w
		}
		if h > 0 {
			r.height = h
		}
	}
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, color: styles.Primary}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// plotBox is the pixel rectangle the 0–100 viewbox is mapped onto.
type plotBox struct {
	x, y, w, h float64
}

func (b plotBox) px(x float64) float64 { return b.x + x/100*b.w }
func (b plotBox) py(y float64) float64 { return b.y + y/100*b.h }

// RenderSVG draws the spec as a standalone SVG document.
func RenderSVG(spec chart.Spec, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	box := plotBox{
		x: padLeft,
		y: padTop,
		w: max(1, r.width-padLeft-padRight),
		h: max(1, r.height-padTop-padBottom),
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f" class="chart chart-%s">`+"\n",
		styles.Num(r.width), styles.Num(r.height), r.width, r.height, spec.Mode)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", styles.Background)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%s" y="22" font-family="%s" font-size="15" font-weight="600" fill="%s">%s</text>`+"\n",
			styles.Num(padLeft), styles.FontFamily, styles.TextColor, styles.EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, `  <line class="baseline" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
		styles.Num(box.x), styles.Num(box.py(chart.Baseline)),
		styles.Num(box.x+box.w), styles.Num(box.py(chart.Baseline)), styles.AxisColor)

	switch spec.Mode {
	case chart.ModeBar:
		renderBars(&buf, &r, box, spec)
	case chart.ModeLine, chart.ModeArea:
		renderLine(&buf, &r, box, spec)
	}

	if spec.Target != nil {
		renderTarget(&buf, box, *spec.Target)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBars(buf *bytes.Buffer, r *svgRenderer, box plotBox, spec chart.Spec) {
	n := len(spec.Bars)
	if n == 0 {
		return
	}
	slot := box.w / float64(n)
	bw := slot * barFill
	base := box.py(chart.Baseline)

	for i, b := range spec.Bars {
		x := box.x + float64(i)*slot + (slot-bw)/2
		h := b.Height / 100 * box.h
		cx := x + bw/2
		fmt.Fprintf(buf, `  <rect class="bar" x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"><title>%s: %s</title></rect>`+"\n",
			styles.Num(x), styles.Num(base-h), styles.Num(bw), styles.Num(h), r.color,
			styles.EscapeXML(b.Label), chart.FormatValue(b.Value))
		renderLabel(buf, cx, base+18, b.Label)
	}
}

func renderLine(buf *bytes.Buffer, r *svgRenderer, box plotBox, spec chart.Spec) {
	// Nested viewport so the polyline and polygon can use percent units
	// directly.
	fmt.Fprintf(buf, `  <svg x="%s" y="%s" width="%s" height="%s" viewBox="0 0 100 100" preserveAspectRatio="none" overflow="visible">`+"\n",
		styles.Num(box.x), styles.Num(box.y), styles.Num(box.w), styles.Num(box.h))
	if len(spec.Polygon) > 0 {
		fmt.Fprintf(buf, `    <polygon class="area" points="%s" fill="%s" fill-opacity="%s" stroke="none"/>`+"\n",
			pointList(spec.Polygon), r.color, styles.Num(styles.AreaOpacity))
	}
	fmt.Fprintf(buf, `    <polyline class="line" points="%s" fill="none" stroke="%s" stroke-width="2" vector-effect="non-scaling-stroke"/>`+"\n",
		pointList(spec.Polyline), r.color)
	buf.WriteString("  </svg>\n")

	for _, p := range spec.Points {
		cx, cy := box.px(p.X), box.py(p.Y)
		fmt.Fprintf(buf, `  <circle class="point" cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="1"><title>%s: %s</title></circle>`+"\n",
			styles.Num(cx), styles.Num(cy), styles.Num(pointRadius), styles.Background, r.color,
			styles.EscapeXML(p.Label), chart.FormatValue(p.Value))
		renderLabel(buf, cx, box.py(chart.Baseline)+18, p.Label)
	}
}

func renderTarget(buf *bytes.Buffer, box plotBox, t chart.TargetLine) {
	y := box.py(t.Y)
	dash := ""
	if t.Dashed {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, styles.TargetDash)
	}
	fmt.Fprintf(buf, `  <line class="target" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"%s/>`+"\n",
		styles.Num(box.x), styles.Num(y), styles.Num(box.x+box.w), styles.Num(y), styles.TargetColor, dash)
	fmt.Fprintf(buf, `  <text class="target-label" x="%s" y="%s" text-anchor="end" font-family="%s" font-size="11" fill="%s">%s</text>`+"\n",
		styles.Num(box.x+box.w), styles.Num(y-4), styles.FontFamily, styles.TargetColor, styles.EscapeXML(t.Label()))
}

func renderLabel(buf *bytes.Buffer, x, y float64, label string) {
	if label == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="label" x="%s" y="%s" text-anchor="middle" font-family="%s" font-size="11" fill="%s">%s</text>`+"\n",
		styles.Num(x), styles.Num(y), styles.FontFamily, styles.MutedText,
		styles.EscapeXML(styles.Truncate(label, labelMaxRune)))
}

func pointList(points []chart.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = styles.Num(p.X) + "," + styles.Num(p.Y)
	}
	return strings.Join(parts, " ")
}
