package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/retailreboot/retailreboot/pkg/cache"
	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/network"
)

// memCache is an in-memory cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.ttls[key] = ttl
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func inventoryRequest(formats ...string) ChartRequest {
	return ChartRequest{
		Name:    "inventory",
		Series:  chart.NewSeries([]string{"Jan", "Feb", "Mar"}, []float64{64, 58, 75}).WithTarget(70),
		Mode:    chart.ModeBar,
		Options: Options{Formats: formats, Title: "Inventory Accuracy"},
	}
}

func TestRunnerRenderChart(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	res, err := r.RenderChart(ctx, inventoryRequest("svg", "json", "ascii"))
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("first run should miss the cache")
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(res.Artifacts))
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %.40q", res.Artifacts["svg"])
	}
	if !strings.Contains(string(res.Artifacts["ascii"]), "Target: 70") {
		t.Errorf("ascii artifact missing target:\n%s", res.Artifacts["ascii"])
	}

	var decoded map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded["mode"] != "bar" {
		t.Errorf("json mode = %v, want bar", decoded["mode"])
	}
	if len(res.Spec.Bars) != 3 {
		t.Errorf("spec has %d bars, want 3", len(res.Spec.Bars))
	}
	if c.sets != 3 {
		t.Errorf("cache sets = %d, want 3", c.sets)
	}
	for _, ttl := range c.ttls {
		if ttl != cache.TTLChart {
			t.Errorf("ttl = %v, want %v", ttl, cache.TTLChart)
		}
	}

	// Second run is served entirely from cache.
	res2, err := r.RenderChart(ctx, inventoryRequest("svg", "json", "ascii"))
	if err != nil {
		t.Fatal(err)
	}
	if !res2.CacheInfo.Hit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(res.Artifacts["svg"], res2.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}
	if c.sets != 3 {
		t.Errorf("cache sets after hit = %d, want 3", c.sets)
	}
}

func TestRunnerPartialCacheHit(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	if _, err := r.RenderChart(ctx, inventoryRequest("svg")); err != nil {
		t.Fatal(err)
	}

	// The svg key does not depend on which other formats are requested.
	res, err := r.RenderChart(ctx, inventoryRequest("svg", "json"))
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("json was never rendered, run should not be a full hit")
	}
	if len(res.CacheInfo.Formats) != 1 || res.CacheInfo.Formats[0] != "svg" {
		t.Errorf("cached formats = %v, want [svg]", res.CacheInfo.Formats)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(res.Artifacts))
	}
}

func TestRunnerRefreshBypassesReads(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	r.TTL = time.Minute

	if _, err := r.RenderChart(ctx, inventoryRequest("svg")); err != nil {
		t.Fatal(err)
	}
	req := inventoryRequest("svg")
	req.Refresh = true
	res, err := r.RenderChart(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("refresh should not read the cache")
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}
	for _, ttl := range c.ttls {
		if ttl != time.Minute {
			t.Errorf("ttl = %v, want runner override", ttl)
		}
	}
}

func TestRunnerChartKeyDependsOnMode(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	if _, err := r.RenderChart(ctx, inventoryRequest("svg")); err != nil {
		t.Fatal(err)
	}
	req := inventoryRequest("svg")
	req.Mode = chart.ModeLine
	res, err := r.RenderChart(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hit {
		t.Error("line mode must not reuse the bar artifact")
	}
	if !strings.Contains(string(res.Artifacts["svg"]), `class="line"`) {
		t.Error("line svg missing polyline")
	}
}

func TestRunnerRenderChartInvalid(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.RenderChart(context.Background(), ChartRequest{Mode: chart.ModeBar})
	if err == nil {
		t.Fatal("expected error for empty series")
	}
}

func sampleNetwork() ([]network.Node, []network.Connection) {
	nodes := []network.Node{
		{ID: "s1", Name: "Supplier A", Type: network.Supplier, Status: network.Normal, Position: network.Point{X: 10, Y: 20}},
		{ID: "w1", Name: "East Warehouse", Type: network.Warehouse, Status: network.Warning, Position: network.Point{X: 40, Y: 20},
			Metrics: []network.Metric{{Label: "Capacity", Value: "82%"}}},
		{ID: "r1", Name: "Store 1", Type: network.Retail, Status: network.Normal, Position: network.Point{X: 80, Y: 30}},
	}
	conns := []network.Connection{
		{From: "s1", To: "w1", Status: network.Normal},
		{From: "w1", To: "r1", Status: network.Critical},
		{From: "w1", To: "ghost", Status: network.Normal},
	}
	return nodes, conns
}

func TestRunnerRenderNetwork(t *testing.T) {
	ctx := context.Background()
	nodes, conns := sampleNetwork()
	r := NewRunner(newMemCache(), nil, quietLogger())

	res, err := r.RenderNetwork(ctx, NetworkRequest{
		Nodes:       nodes,
		Connections: conns,
		Selected:    "w1",
		Options:     Options{Formats: []string{"svg", "json"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Layout.Paths) != 2 {
		t.Errorf("got %d paths, want 2 (dangling dropped)", len(res.Layout.Paths))
	}
	if res.Details == nil {
		t.Fatal("expected details for selected node")
	}
	if len(res.Details.Links) != 2 {
		t.Errorf("got %d links, want 2", len(res.Details.Links))
	}
	svg := string(res.Artifacts["svg"])
	if !strings.Contains(svg, "selected") {
		t.Error("svg should highlight the selected node")
	}
	if !strings.Contains(svg, "node-details") {
		t.Error("svg should include the details panel")
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"selected": "w1"`) {
		t.Errorf("json missing selection:\n%s", res.Artifacts["json"])
	}
}

func TestRunnerRenderNetworkIssuesOnly(t *testing.T) {
	nodes, conns := sampleNetwork()
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.RenderNetwork(context.Background(), NetworkRequest{
		Nodes:       nodes,
		Connections: conns,
		Filter:      &network.Filter{Types: network.AllTypes, IssuesOnly: true},
		Options:     Options{Formats: []string{"json"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Layout.Nodes) != 1 || res.Layout.Nodes[0].ID != "w1" {
		t.Errorf("issues-only nodes = %+v, want only w1", res.Layout.Nodes)
	}
	if len(res.Layout.Paths) != 0 {
		t.Errorf("got %d paths, want 0", len(res.Layout.Paths))
	}
}

func TestRunnerRenderNetworkFilterPresence(t *testing.T) {
	nodes, conns := sampleNetwork()
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		filter *network.Filter
		want   int
	}{
		{"absent", nil, len(nodes)},
		{"empty types", &network.Filter{}, 0},
		{"empty types issues only", &network.Filter{IssuesOnly: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.RenderNetwork(ctx, NetworkRequest{
				Nodes:       nodes,
				Connections: conns,
				Filter:      tt.filter,
				Options:     Options{Formats: []string{"json"}},
			})
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Layout.Nodes) != tt.want {
				t.Errorf("visible nodes = %d, want %d", len(res.Layout.Nodes), tt.want)
			}
		})
	}
}

func TestRunnerRenderNetworkDOT(t *testing.T) {
	nodes, conns := sampleNetwork()
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.RenderNetwork(context.Background(), NetworkRequest{
		Nodes:       nodes,
		Connections: conns,
		VizType:     VizNodelink,
		Options:     Options{Formats: []string{"dot"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	dot := string(res.Artifacts["dot"])
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot artifact: %.40q", dot)
	}
	if !strings.Contains(dot, `"w1" -> "r1"`) {
		t.Errorf("dot missing w1 -> r1 edge:\n%s", dot)
	}
}

func TestRunnerSelectionDoesNotChangeLayout(t *testing.T) {
	nodes, conns := sampleNetwork()
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	plain, err := r.RenderNetwork(ctx, NetworkRequest{Nodes: nodes, Connections: conns, Options: Options{Formats: []string{"json"}}})
	if err != nil {
		t.Fatal(err)
	}
	selected, err := r.RenderNetwork(ctx, NetworkRequest{Nodes: nodes, Connections: conns, Selected: "s1", Options: Options{Formats: []string{"json"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(plain.Layout.Paths) != len(selected.Layout.Paths) || len(plain.Layout.Nodes) != len(selected.Layout.Nodes) {
		t.Error("selection must not affect the computed layout")
	}
}
