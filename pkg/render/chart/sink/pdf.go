package sink

import (
	"context"

	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/render"
)

// RenderPDF renders the spec as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, spec chart.Spec, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(spec, opts...))
}
