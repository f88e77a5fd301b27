package sink

import (
	"context"

	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/render"
)

// RenderPDF renders the map as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, l network.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, opts...))
}

// RenderPNG renders the map as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, l network.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(l, opts...), scale)
}
