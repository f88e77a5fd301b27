package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
)

type call struct {
	query  string
	params map[string]any
}

// fakeRunner answers queries by matching a substring of the Cypher text.
type fakeRunner struct {
	results map[string]*neo4j.EagerResult
	err     error
	calls   []call
}

func (f *fakeRunner) Run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	f.calls = append(f.calls, call{query, params})
	if f.err != nil {
		return nil, f.err
	}
	for match, res := range f.results {
		if strings.Contains(query, match) {
			return res, nil
		}
	}
	return &neo4j.EagerResult{}, nil
}

func result(keys []string, rows ...[]any) *neo4j.EagerResult {
	res := &neo4j.EagerResult{Keys: keys}
	for _, row := range rows {
		res.Records = append(res.Records, &neo4j.Record{Keys: keys, Values: row})
	}
	return res
}

var (
	nodeKeys = []string{"id", "name", "type", "status", "x", "y", "metrics"}
	connKeys = []string{"from", "to", "status"}
)

func TestLoad(t *testing.T) {
	r := &fakeRunner{results: map[string]*neo4j.EagerResult{
		"RETURN n.id": result(nodeKeys,
			[]any{"s1", "Supplier A", "supplier", "normal", int64(10), 20.5, []any{"Lead Time=5d", "On-time=96%"}},
			[]any{"w1", "East Warehouse", "warehouse", "warning", 40.0, int64(20), nil},
		),
		"FLOWS_TO": result(connKeys,
			[]any{"s1", "w1", "critical"},
			[]any{"w1", "s1", nil},
		),
	}}

	nodes, conns, err := NewLoader(r).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	wantNodes := []network.Node{
		{ID: "s1", Name: "Supplier A", Type: network.Supplier, Status: network.Normal,
			Position: network.Point{X: 10, Y: 20.5},
			Metrics:  []network.Metric{{Label: "Lead Time", Value: "5d"}, {Label: "On-time", Value: "96%"}}},
		{ID: "w1", Name: "East Warehouse", Type: network.Warehouse, Status: network.Warning,
			Position: network.Point{X: 40, Y: 20}},
	}
	if diff := cmp.Diff(wantNodes, nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	wantConns := []network.Connection{
		{From: "s1", To: "w1", Status: network.Critical},
		{From: "w1", To: "s1", Status: network.Normal},
	}
	if diff := cmp.Diff(wantConns, conns); diff != "" {
		t.Errorf("connections mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidType(t *testing.T) {
	r := &fakeRunner{results: map[string]*neo4j.EagerResult{
		"RETURN n.id": result(nodeKeys, []any{"x", "X", "factory", "normal", 0.0, 0.0, nil}),
	}}
	_, _, err := NewLoader(r).Load(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeInvalidNodeType) {
		t.Errorf("error = %v, want INVALID_NODE_TYPE", err)
	}
}

func TestLoadMissingID(t *testing.T) {
	r := &fakeRunner{results: map[string]*neo4j.EagerResult{
		"RETURN n.id": result(nodeKeys, []any{nil, "X", "retail", "normal", 0.0, 0.0, nil}),
	}}
	_, _, err := NewLoader(r).Load(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestLoadDuplicateNode(t *testing.T) {
	r := &fakeRunner{results: map[string]*neo4j.EagerResult{
		"RETURN n.id": result(nodeKeys,
			[]any{"a", "A", "retail", "normal", 0.0, 0.0, nil},
			[]any{"a", "B", "retail", "normal", 0.0, 0.0, nil},
		),
	}}
	_, _, err := NewLoader(r).Load(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeDuplicateNode) {
		t.Errorf("error = %v, want DUPLICATE_NODE", err)
	}
}

func TestLoadRunnerError(t *testing.T) {
	boom := errors.New("connection refused")
	_, _, err := NewLoader(&fakeRunner{err: boom}).Load(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped runner error", err)
	}
}

func TestSave(t *testing.T) {
	r := &fakeRunner{}
	nodes := []network.Node{
		{ID: "s1", Name: "Supplier A", Type: network.Supplier, Status: network.Normal,
			Position: network.Point{X: 10, Y: 20}, Metrics: []network.Metric{{Label: "Lead Time", Value: "5d"}}},
		{ID: "r1", Name: "Store", Type: network.Retail, Status: network.Success},
	}
	conns := []network.Connection{{From: "s1", To: "r1", Status: network.Warning}}

	if err := NewLoader(r).Save(context.Background(), nodes, conns); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 3 {
		t.Fatalf("got %d queries, want 3", len(r.calls))
	}
	if !strings.Contains(r.calls[0].query, "DETACH DELETE") {
		t.Errorf("first query should clear the graph: %s", r.calls[0].query)
	}

	rows := r.calls[1].params["nodes"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("got %d node rows, want 2", len(rows))
	}
	if got := rows[0]["metrics"].([]string); len(got) != 1 || got[0] != "Lead Time=5d" {
		t.Errorf("metrics row = %v", got)
	}
	if rows[1]["seq"] != 1 {
		t.Errorf("seq = %v, want 1", rows[1]["seq"])
	}

	connRows := r.calls[2].params["connections"].([]map[string]any)
	if connRows[0]["status"] != "warning" {
		t.Errorf("connection status = %v", connRows[0]["status"])
	}
}

func TestSaveRejectsInvalidNetwork(t *testing.T) {
	r := &fakeRunner{}
	err := NewLoader(r).Save(context.Background(), []network.Node{{ID: ""}}, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(r.calls) != 0 {
		t.Error("no query should run for an invalid network")
	}
}
