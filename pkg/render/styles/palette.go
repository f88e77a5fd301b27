// Package styles holds the colours shared by every sink so that charts, the
// map and the dashboard page agree on what "critical" looks like.
package styles

import (
	"regexp"
	"strings"

	"github.com/retailreboot/retailreboot/pkg/network"
)

// Chart colours.
const (
	Primary     = "#3b82f6"
	TargetColor = "#FF5733"
	AxisColor   = "#cbd5e1"
	TextColor   = "#334155"
	MutedText   = "#64748b"
	Background  = "#ffffff"
	Selected    = "#2563eb"
)

// TargetDash is the stroke-dasharray of dashed target lines.
const TargetDash = "4"

// AreaOpacity is the fill opacity of an area chart polygon.
const AreaOpacity = 0.2

// StatusColor returns the stroke colour for a node or connection status.
func StatusColor(s network.Status) string {
	switch s {
	case network.Normal:
		return "#94a3b8"
	case network.Warning:
		return "#f59e0b"
	case network.Critical:
		return "#ef4444"
	case network.Success:
		return "#10b981"
	default:
		return "#94a3b8"
	}
}

// TypeColor returns the accent colour for a node type.
func TypeColor(t network.NodeType) string {
	switch t {
	case network.Supplier:
		return "#8b5cf6"
	case network.Warehouse:
		return "#3b82f6"
	case network.Distribution:
		return "#06b6d4"
	case network.Retail:
		return "#f97316"
	case network.Customer:
		return "#22c55e"
	default:
		return Primary
	}
}

// paletteColors are the named colours accepted wherever a colour is
// configurable.
var paletteColors = map[string]string{
	"primary":   Primary,
	"secondary": "#64748b",
	"accent":    "#8b5cf6",
	"success":   "#10b981",
	"warning":   "#f59e0b",
	"error":     "#ef4444",
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)

// IsHexColor reports whether c is a "#rgb" to "#rrggbbaa" literal.
func IsHexColor(c string) bool { return hexColorRe.MatchString(c) }

// CardColor maps a status-card colour name to a hex colour.
// Unknown names fall back to the primary colour.
func CardColor(name string) string {
	if c, ok := paletteColors[strings.ToLower(name)]; ok {
		return c
	}
	return Primary
}

// ParseColor accepts a palette name ("primary", "accent", ...) or a hex
// literal and returns the hex colour. Empty stays empty. Anything else is
// rejected, since the result is written into SVG attributes verbatim.
func ParseColor(c string) (string, bool) {
	switch {
	case c == "":
		return "", true
	case strings.HasPrefix(c, "#"):
		return c, IsHexColor(c)
	}
	hex, ok := paletteColors[strings.ToLower(c)]
	return hex, ok
}

// Hex strips the leading '#' from a colour, as expected by libraries that
// parse bare hex strings.
func Hex(color string) string {
	return strings.TrimPrefix(color, "#")
}
