package network_test

import (
	"fmt"

	"github.com/retailreboot/retailreboot/pkg/network"
)

func ExampleCompute() {
	nodes := []network.Node{
		{ID: "s1", Type: network.Supplier, Status: network.Normal, Position: network.Point{X: 10, Y: 50}},
		{ID: "w1", Type: network.Warehouse, Status: network.Warning, Position: network.Point{X: 30, Y: 50}},
		{ID: "r1", Type: network.Retail, Status: network.Normal, Position: network.Point{X: 60, Y: 20}},
	}
	conns := []network.Connection{
		{From: "s1", To: "w1", Status: network.Normal},
		{From: "w1", To: "r1", Status: network.Warning},
	}

	l := network.Compute(nodes, conns, network.DefaultFilter())
	for _, p := range l.Paths {
		fmt.Printf("%s->%s %s\n", p.From, p.To, p.D)
	}
	// Output:
	// s1->w1 M 15 50 C 20 50, 20 50, 25 50
	// w1->r1 M 35 50 C 45 50, 45 20, 55 20
}

func ExampleDescribe() {
	nodes := []network.Node{
		{ID: "s1", Name: "Acme Supply", Type: network.Supplier, Status: network.Normal},
		{ID: "w1", Name: "Central DC", Type: network.Warehouse, Status: network.Normal},
		{ID: "r1", Name: "Store 12", Type: network.Retail, Status: network.Critical},
	}
	conns := []network.Connection{
		{From: "s1", To: "w1", Status: network.Normal},
		{From: "w1", To: "r1", Status: network.Critical},
	}

	d, _ := network.Describe(nodes, conns, "w1")
	for _, l := range d.Links {
		fmt.Printf("%s: %s (%s)\n", l.Direction.Prefix(), l.Peer.DisplayName(), l.Status)
	}
	// Output:
	// From: Acme Supply (normal)
	// To: Store 12 (critical)
}
