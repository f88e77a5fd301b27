// Package network models the supply-chain map: typed, positioned nodes
// joined by status-tagged connections, and the filtered layout drawn from
// them.
//
// # Layout
//
// [Compute] applies a [Filter] to a node set and derives, for every
// connection whose endpoints both survive the filter, a cubic [Path]
// between the two node anchors:
//
//	l := network.Compute(nodes, conns, network.DefaultFilter())
//	for _, p := range l.Paths {
//	    fmt.Println(p.D) // M 15 50 C 20 50, 20 50, 25 50
//	}
//
// Connections that reference a node outside the visible set are dropped
// silently. Filtering is expected to hide endpoints all the time, so this
// is not an error.
//
// # Selection
//
// The selected node is tracked by the caller and never changes what
// Compute returns. [Describe] builds the detail panel for a selected node
// from the unfiltered node and connection sets.
//
// All functions in this package are pure; the caller owns filter,
// selection and zoom state and passes it in on every call.
package network
