package sink

import (
	"bytes"
	"fmt"

	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/render/styles"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 1000.0
	DefaultHeight = 600.0
)

const (
	cardWidth     = 150.0
	cardBase      = 34.0
	metricLine    = 16.0
	bottomPad     = 24.0
	panelWidth    = 240.0
	nameMaxRunes  = 20
	metricMaxRune = 24
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	title         string
	selected      string
	zoom          network.Zoom
	details       *network.Details
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

func WithTitle(title string) SVGOption  { return func(r *svgRenderer) { r.title = title } }
func WithSelected(id string) SVGOption  { return func(r *svgRenderer) { r.selected = id } }
func WithZoom(z network.Zoom) SVGOption { return func(r *svgRenderer) { r.zoom = z } }
func WithDetails(d network.Details) SVGOption {
	return func(r *svgRenderer) { r.details = &d }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, zoom: network.DefaultZoom}
	for _, opt := range opts {
		opt(&r)
	}
	r.zoom = network.ClampZoom(float64(r.zoom))
	return r
}

func cardHeight(n network.Node) float64 {
	return cardBase + metricLine*float64(len(n.Metrics))
}

// canvasHeight grows the canvas when nodes sit below the viewport, which
// happens for positions with y > 100.
func canvasHeight(l network.Layout, r *svgRenderer) float64 {
	h := r.height
	for _, n := range l.Nodes {
		bottom := n.Position.Y/100*r.height + cardHeight(n)/2 + bottomPad
		h = max(h, bottom)
	}
	if r.details != nil {
		h = max(h, panelHeight(*r.details)+2*bottomPad)
	}
	return h
}

// RenderSVG draws the layout as a standalone SVG document.
func RenderSVG(l network.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := r.width, canvasHeight(l, &r)
	z := float64(r.zoom)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f" class="supply-chain-map">`+"\n",
		styles.Num(w), styles.Num(h), w*z, h*z)
	renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", styles.Background)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="map-title" x="16" y="28" font-family="%s" font-size="16" font-weight="600" fill="%s">%s</text>`+"\n",
			styles.FontFamily, styles.TextColor, styles.EscapeXML(r.title))
	}

	sx, sy := r.width/100, r.height/100
	for _, p := range l.Paths {
		renderConnector(&buf, p, sx, sy)
	}
	for _, n := range l.Nodes {
		renderNode(&buf, n, n.ID == r.selected, sx, sy)
	}
	if r.details != nil {
		renderPanel(&buf, *r.details, w)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, s := range network.Statuses {
		fmt.Fprintf(buf, `    <marker id="arrow-%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
			s, styles.StatusColor(s))
	}
	buf.WriteString("  </defs>\n")
}

func renderConnector(buf *bytes.Buffer, p network.Path, sx, sy float64) {
	dash := ""
	if p.Status == network.Critical {
		dash = ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(buf, `  <path class="connection connection-%s" data-from="%s" data-to="%s" d="%s" fill="none" stroke="%s" stroke-width="2"%s marker-end="url(#arrow-%s)"/>`+"\n",
		p.Status, styles.EscapeXML(p.From), styles.EscapeXML(p.To), p.Data(sx, sy),
		styles.StatusColor(p.Status), dash, p.Status)
}

func renderNode(buf *bytes.Buffer, n network.Node, selected bool, sx, sy float64) {
	ch := cardHeight(n)
	cx, cy := n.Position.X*sx, n.Position.Y*sy
	x, y := cx-cardWidth/2, cy-ch/2

	class := fmt.Sprintf("node node-type-%s node-status-%s", n.Type, n.Status)
	stroke, strokeWidth := "#e2e8f0", 1.0
	if selected {
		class += " selected"
		stroke, strokeWidth = styles.Selected, 3
	}

	fmt.Fprintf(buf, `  <g class="%s" id="node-%s">`+"\n", class, styles.EscapeXML(n.ID))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="8" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		styles.Num(x), styles.Num(y), styles.Num(cardWidth), styles.Num(ch), styles.Background, stroke, styles.Num(strokeWidth))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="4" height="%s" rx="2" fill="%s"/>`+"\n",
		styles.Num(x), styles.Num(y), styles.Num(ch), styles.TypeColor(n.Type))
	fmt.Fprintf(buf, `    <circle class="node-status-indicator" cx="%s" cy="%s" r="5" fill="%s"/>`+"\n",
		styles.Num(x+cardWidth-12), styles.Num(y+12), styles.StatusColor(n.Status))
	fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="13" font-weight="600" fill="%s">%s</text>`+"\n",
		styles.Num(x+12), styles.Num(y+21), styles.FontFamily, styles.TextColor,
		styles.EscapeXML(styles.Truncate(n.DisplayName(), nameMaxRunes)))
	for i, m := range n.Metrics {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="11" fill="%s">%s</text>`+"\n",
			styles.Num(x+12), styles.Num(y+cardBase+metricLine*float64(i)+4), styles.FontFamily, styles.MutedText,
			styles.EscapeXML(styles.Truncate(m.Label+": "+m.Value, metricMaxRune)))
	}
	buf.WriteString("  </g>\n")
}

func panelHeight(d network.Details) float64 {
	lines := 1 + len(d.Node.Metrics) + len(d.Links)
	if len(d.Links) > 0 {
		lines++
	}
	return 24 + float64(lines)*18
}

func renderPanel(buf *bytes.Buffer, d network.Details, canvasWidth float64) {
	x := canvasWidth - panelWidth - 16
	y := 16.0
	fmt.Fprintf(buf, `  <g class="node-details" id="details-%s">`+"\n", styles.EscapeXML(d.Node.ID))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="8" fill="#f8fafc" stroke="%s"/>`+"\n",
		styles.Num(x), styles.Num(y), styles.Num(panelWidth), styles.Num(panelHeight(d)), styles.AxisColor)

	line := y + 26
	text := func(s string, size int, weight string, color string) {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="%d" font-weight="%s" fill="%s">%s</text>`+"\n",
			styles.Num(x+12), styles.Num(line), styles.FontFamily, size, weight, color, styles.EscapeXML(s))
		line += 18
	}

	text(d.Node.DisplayName(), 14, "600", styles.TextColor)
	for _, m := range d.Node.Metrics {
		text(m.Label+": "+m.Value, 12, "400", styles.MutedText)
	}
	if len(d.Links) > 0 {
		text("Connections", 12, "600", styles.TextColor)
	}
	for _, l := range d.Links {
		text(fmt.Sprintf("%s: %s (%s)", l.Direction.Prefix(), l.Peer.DisplayName(), l.Status), 12, "400", styles.StatusColor(l.Status))
	}
	buf.WriteString("  </g>\n")
}
