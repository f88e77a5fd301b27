// Package chart normalizes labeled numeric series into declarative chart
// geometry.
//
// # Overview
//
// [Render] turns a [Series] into a [Spec] for one of three presentation
// modes:
//
//   - [ModeBar]: one bar per value, heights as a percentage of the tallest
//   - [ModeLine]: points on a 0–100 viewbox joined by a polyline
//   - [ModeArea]: a line chart whose polyline is closed against the baseline
//
// An optional target value becomes a horizontal reference line. The spec
// only describes shapes and coordinates; turning it into SVG, PNG or
// terminal output is the job of the chart sinks in
// [github.com/retailreboot/retailreboot/pkg/render/chart/sink].
//
// # Normalization
//
// Every value is divided by the series maximum. Degenerate inputs never
// produce NaN or infinities:
//
//   - a maximum of zero or below resolves every ratio to 0
//   - a single-point series is placed at x = 0
//   - ratios are clamped into [0, 1], so heights and y coordinates always
//     lie in [0, 100]; the target line is not clamped
//
// Render is a pure function and safe for concurrent use.
package chart
