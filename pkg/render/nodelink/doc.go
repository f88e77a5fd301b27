// Package nodelink renders the supply-chain network as a node-link diagram.
//
// # Overview
//
// The map sink places nodes where the dataset says they are. This package
// instead lets Graphviz lay the network out, ranking nodes left to right by
// their role in the chain (suppliers first, customers last). It is useful
// for datasets whose positions are missing or crowded.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	l := network.Compute(nodes, conns, filter)
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the node metrics
//   - Selected: Node ID drawn with a highlighted outline
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
