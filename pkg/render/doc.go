// Package render turns chart specs and network layouts into files.
//
// # Overview
//
// The geometry lives in [chart] and [network]; this package tree only draws
// it. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Chart sinks (in [chart/sink] subpackage)
//   - Supply-chain map sinks (in [network/sink] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//   - Shared colours (in [styles] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the chart and map
// sinks use them.
//
//	svg := sink.RenderSVG(spec, opts...)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [chart]: github.com/retailreboot/retailreboot/pkg/chart
// [network]: github.com/retailreboot/retailreboot/pkg/network
// [chart/sink]: github.com/retailreboot/retailreboot/pkg/render/chart/sink
// [network/sink]: github.com/retailreboot/retailreboot/pkg/render/network/sink
// [nodelink]: github.com/retailreboot/retailreboot/pkg/render/nodelink
// [styles]: github.com/retailreboot/retailreboot/pkg/render/styles
package render
