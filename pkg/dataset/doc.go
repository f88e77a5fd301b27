// Package dataset holds the data behind the dashboard: status cards, named
// chart series and the supply-chain network.
//
// [Builtin] returns the sample data shipped with the binary. [Load] reads a
// dataset from a .toml, .json, .yaml/.yml or .xlsx file; the format is
// chosen by extension. A minimal TOML dataset looks like:
//
//	[[charts]]
//	name   = "inventory"
//	title  = "Inventory Accuracy"
//	mode   = "bar"
//	labels = ["Jan", "Feb", "Mar"]
//	values = [64, 58, 75]
//	target = 70
//
//	[[network.nodes]]
//	id       = "supplier1"
//	name     = "Primary Manufacturer"
//	type     = "supplier"
//	status   = "normal"
//	position = { x = 10, y = 50 }
//
// Spreadsheets use one sheet per chart plus optional "Nodes",
// "Connections" and "Cards" sheets; see [LoadXLSX].
package dataset
