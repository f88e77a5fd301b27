// Package pkg provides the core libraries for RetailReboot dashboard rendering.
//
// # Overview
//
// RetailReboot turns retail supply-chain data into two kinds of pictures:
// value-series charts (bar, line, area) and a filterable map of the supply
// network. The pkg directory is organized into these areas:
//
//  1. [chart] and [network] - Pure geometry (chart specs, network layouts)
//  2. [render] - Output formats (SVG, PNG, PDF, JSON, ASCII, DOT)
//  3. [dataset] - Dashboard data (cards, charts, nodes, connections)
//  4. [pipeline] - Orchestration (validate → compute → render → cache)
//  5. [cache], [source/neo4j] - Storage backends
//
// # Architecture
//
// The typical data flow:
//
//	Dataset file / Neo4j
//	         ↓
//	    [dataset] package (load and validate)
//	         ↓
//	    [chart] / [network] packages (geometry)
//	         ↓
//	    [render] sinks
//	         ↓
//	    SVG/PNG/PDF/JSON/ASCII/DOT output
//
// # Quick Start
//
// Render a chart from the built-in dataset:
//
//	import (
//	    "github.com/retailreboot/retailreboot/pkg/chart"
//	    "github.com/retailreboot/retailreboot/pkg/dataset"
//	    "github.com/retailreboot/retailreboot/pkg/render/chart/sink"
//	)
//
//	d := dataset.Builtin()
//	c, _ := d.Chart("inventory")
//	spec, _ := chart.Render(c.Series(), c.Mode)
//	svg := sink.RenderSVG(spec, sink.WithTitle(c.Title))
//
// Lay out the network with only problem nodes visible:
//
//	f := network.DefaultFilter()
//	f.IssuesOnly = true
//	l := network.Compute(d.Network.Nodes, d.Network.Connections, f)
//
// # Main Packages
//
// [chart] - Converts a value series into normalized bar rectangles, line
// points or an area polygon, plus an optional target line.
//
// [network] - Node and connection types, filters, zoom, selection and the
// layout that maps percentage positions onto the map canvas.
//
// [render] - SVG to PDF/PNG conversion and the chart, map and node-link
// sinks.
//
// [dataset] - The dashboard dataset, the built-in demo data, and
// TOML/YAML/JSON/XLSX loading.
//
// [pipeline] - The request types and cached Runner shared by the CLI and
// the HTTP server.
//
// [cache] - Render cache backends (file, Redis, MongoDB, null).
//
// [source/neo4j] - Loads and stores the network in a Neo4j graph.
//
// [chart]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/chart
// [network]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/network
// [render]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/render
// [dataset]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/dataset
// [pipeline]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/cache
// [source/neo4j]: https://pkg.go.dev/github.com/retailreboot/retailreboot/pkg/source/neo4j
package pkg
