package network

import (
	"strconv"
	"strings"
)

// EdgeMargin is the horizontal distance, in percent of the canvas, between a
// node anchor and the end of a connector. It keeps connectors from starting
// underneath the node card.
const EdgeMargin = 5.0

// Path is the cubic connector drawn for one visible connection.
type Path struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Status   Status `json:"status"`
	Start    Point  `json:"start"`
	Control1 Point  `json:"control1"`
	Control2 Point  `json:"control2"`
	End      Point  `json:"end"`
	D        string `json:"d"`
}

// Layout is the filtered view of a network.
type Layout struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Paths       []Path       `json:"paths"`
}

// NodeByID returns the visible node with the given ID.
func (l Layout) NodeByID(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Compute filters nodes and derives a path for every connection whose two
// endpoints are both visible. Input order is preserved and parallel
// connections each get their own path.
func Compute(nodes []Node, conns []Connection, f Filter) Layout {
	visible := make([]Node, 0, len(nodes))
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if !f.Allows(n) {
			continue
		}
		visible = append(visible, n)
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}

	l := Layout{
		Nodes:       visible,
		Connections: make([]Connection, 0, len(conns)),
		Paths:       make([]Path, 0, len(conns)),
	}
	for _, c := range conns {
		from, ok := byID[c.From]
		if !ok {
			continue
		}
		to, ok := byID[c.To]
		if !ok {
			continue
		}
		l.Connections = append(l.Connections, c)
		l.Paths = append(l.Paths, PathFor(from, to, c.Status))
	}
	return l
}

// PathFor builds the connector from one node to another.
func PathFor(from, to Node, status Status) Path {
	x1 := from.Position.X + EdgeMargin
	y1 := from.Position.Y
	x2 := to.Position.X - EdgeMargin
	y2 := to.Position.Y
	mid := (x1 + x2) / 2

	p := Path{
		From:     from.ID,
		To:       to.ID,
		Status:   status,
		Start:    Point{X: x1, Y: y1},
		Control1: Point{X: mid, Y: y1},
		Control2: Point{X: mid, Y: y2},
		End:      Point{X: x2, Y: y2},
	}
	p.D = p.Data(1, 1)
	return p
}

// Data returns the SVG path data with x coordinates multiplied by sx and y
// coordinates by sy. Data(1, 1) yields percent units.
func (p Path) Data(sx, sy float64) string {
	var b strings.Builder
	b.WriteString("M")
	writePair(&b, p.Start, sx, sy)
	b.WriteString(" C")
	writePair(&b, p.Control1, sx, sy)
	b.WriteString(",")
	writePair(&b, p.Control2, sx, sy)
	b.WriteString(",")
	writePair(&b, p.End, sx, sy)
	return b.String()
}

func writePair(b *strings.Builder, pt Point, sx, sy float64) {
	b.WriteByte(' ')
	b.WriteString(formatCoord(pt.X * sx))
	b.WriteByte(' ')
	b.WriteString(formatCoord(pt.Y * sy))
}

func formatCoord(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
