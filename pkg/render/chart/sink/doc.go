// Package sink draws a [chart.Spec] in concrete output formats.
//
// # Overview
//
// A "sink" transforms a normalized chart spec into bytes. This package
// provides renderers for:
//
//   - SVG: the dashboard chart, with labels and an optional target line
//   - JSON: the spec itself, for API clients that draw their own chart
//   - PNG: a rasterised chart drawn with go-chart
//   - PDF: the SVG converted by rsvg-convert
//   - ASCII: a terminal preview drawn with asciigraph
//
// Basic usage:
//
//	spec, err := chart.Render(series, chart.ModeLine)
//	svg := sink.RenderSVG(spec, sink.WithTitle("Order Fulfillment"))
//
// SVG geometry is taken from the spec unchanged: bar heights and line
// coordinates are percentages of the plot box, so a sink only maps the
// 0–100 viewbox onto pixels.
//
// [chart.Spec]: github.com/retailreboot/retailreboot/pkg/chart.Spec
package sink
