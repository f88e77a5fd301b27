// Package sink draws a supply-chain [network.Layout] as a map.
//
// [RenderSVG] produces the map with status-coloured cubic connectors, one
// card per visible node and an optional detail panel for the selected node:
//
//	l := network.Compute(nodes, conns, filter)
//	d, _ := network.Describe(nodes, conns, selected)
//	svg := sink.RenderSVG(l,
//	    sink.WithSelected(selected),
//	    sink.WithDetails(d),
//	    sink.WithZoom(network.ClampZoom(1.2)),
//	)
//
// Node positions are percentages of the canvas, so the same layout renders
// at any [WithSize]. Zoom scales the output size, not the geometry.
//
// [network.Layout]: github.com/retailreboot/retailreboot/pkg/network.Layout
package sink
