package pipeline

import (
	"context"
	"fmt"

	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/network"
	chartsink "github.com/retailreboot/retailreboot/pkg/render/chart/sink"
	netsink "github.com/retailreboot/retailreboot/pkg/render/network/sink"
	"github.com/retailreboot/retailreboot/pkg/render/nodelink"
)

// RenderChart produces every requested format for a computed chart spec.
// req must already be validated.
func RenderChart(ctx context.Context, spec chart.Spec, req ChartRequest) (map[string][]byte, error) {
	svgOpts := chartSVGOptions(req)
	artifacts := make(map[string][]byte, len(req.Formats))

	for _, format := range req.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = chartsink.RenderSVG(spec, svgOpts...)
		case FormatJSON:
			data, err = chartsink.RenderJSON(spec,
				chartsink.WithJSONName(req.Name),
				chartsink.WithJSONTitle(req.Title),
				chartsink.WithJSONSeries(req.Series))
		case FormatPNG:
			data, err = chartsink.RenderPNG(spec, chartPNGOptions(req)...)
		case FormatPDF:
			data, err = chartsink.RenderPDF(ctx, spec, svgOpts...)
		case FormatASCII:
			data = []byte(chartsink.RenderASCII(spec, chartsink.WithCaption(req.Title)))
		default:
			return nil, fmt.Errorf("unsupported chart format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func chartSVGOptions(req ChartRequest) []chartsink.SVGOption {
	opts := []chartsink.SVGOption{chartsink.WithSize(req.Width, req.Height)}
	if req.Title != "" {
		opts = append(opts, chartsink.WithTitle(req.Title))
	}
	if req.Color != "" {
		opts = append(opts, chartsink.WithColor(req.Color))
	}
	return opts
}

func chartPNGOptions(req ChartRequest) []chartsink.PNGOption {
	opts := []chartsink.PNGOption{chartsink.WithPNGSize(int(req.Width), int(req.Height))}
	if req.Title != "" {
		opts = append(opts, chartsink.WithPNGTitle(req.Title))
	}
	if req.Color != "" {
		opts = append(opts, chartsink.WithPNGColor(req.Color))
	}
	return opts
}

// RenderNetwork produces every requested format for a computed layout.
// details may be nil. req must already be validated.
func RenderNetwork(ctx context.Context, l network.Layout, details *network.Details, req NetworkRequest) (map[string][]byte, error) {
	if req.VizType == VizNodelink {
		return renderNodelink(ctx, l, details, req)
	}

	svgOpts := networkSVGOptions(req, details)
	artifacts := make(map[string][]byte, len(req.Formats))

	for _, format := range req.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = netsink.RenderSVG(l, svgOpts...)
		case FormatJSON:
			data, err = networkJSON(l, details, req)
		case FormatPNG:
			data, err = netsink.RenderPNG(ctx, l, DefaultPNGScale, svgOpts...)
		case FormatPDF:
			data, err = netsink.RenderPDF(ctx, l, svgOpts...)
		default:
			return nil, fmt.Errorf("unsupported map format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderNodelink generates Graphviz outputs. The DOT source is built once and
// shared by every format.
func renderNodelink(ctx context.Context, l network.Layout, details *network.Details, req NetworkRequest) (map[string][]byte, error) {
	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: req.Detailed, Selected: req.Selected})
	artifacts := make(map[string][]byte, len(req.Formats))

	for _, format := range req.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = networkJSON(l, details, req)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func networkSVGOptions(req NetworkRequest, details *network.Details) []netsink.SVGOption {
	opts := []netsink.SVGOption{
		netsink.WithSize(req.Width, req.Height),
		netsink.WithZoom(req.Zoom),
	}
	if req.Title != "" {
		opts = append(opts, netsink.WithTitle(req.Title))
	}
	if req.Selected != "" {
		opts = append(opts, netsink.WithSelected(req.Selected))
	}
	if details != nil {
		opts = append(opts, netsink.WithDetails(*details))
	}
	return opts
}

func networkJSON(l network.Layout, details *network.Details, req NetworkRequest) ([]byte, error) {
	opts := []netsink.JSONOption{
		netsink.WithJSONFilter(*req.Filter),
		netsink.WithJSONSelected(req.Selected),
		netsink.WithJSONZoom(req.Zoom),
	}
	if details != nil {
		opts = append(opts, netsink.WithJSONDetails(*details))
	}
	return netsink.RenderJSON(l, opts...)
}
