package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/retailreboot/retailreboot/pkg/dataset"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	data := dataset.Builtin()
	runner := pipeline.NewRunner(nil, nil, logger)
	if opts.Width == 0 {
		opts.Width, opts.Height = 600, 300
	}
	ts := httptest.NewServer(New(data, runner, logger, opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body is not JSON: %s", body)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{`"status":"ok"`, `"version":"dev"`, `"commit":`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body = %s, missing %s", body, want)
		}
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("missing request id header: %q", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, Options{})
	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestListCharts(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts.URL+"/api/charts?page=dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var charts []chartSummary
	if err := json.Unmarshal(body, &charts); err != nil {
		t.Fatal(err)
	}
	if len(charts) != 4 {
		t.Fatalf("got %d dashboard charts, want 4", len(charts))
	}
	if charts[0].Name != "inventory" || !charts[0].HasTarget || charts[0].Points != 6 {
		t.Errorf("first chart = %+v", charts[0])
	}
}

func TestCards(t *testing.T) {
	ts := newTestServer(t, Options{})
	_, body := get(t, ts.URL+"/api/cards?page=dashboard")
	var cards []cardView
	if err := json.Unmarshal(body, &cards); err != nil {
		t.Fatal(err)
	}
	if len(cards) != 4 {
		t.Fatalf("got %d cards, want 4", len(cards))
	}
	if cards[0].TrendText != "+3.2%" {
		t.Errorf("trend text = %q, want +3.2%%", cards[0].TrendText)
	}
	if cards[2].TrendText != "4%" {
		t.Errorf("negative trend text = %q, want 4%%", cards[2].TrendText)
	}
}

func TestChartSVG(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts.URL+"/api/charts/inventory")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(body, []byte("<svg")) {
		t.Errorf("body is not svg: %.60q", body)
	}
	if !strings.Contains(string(body), "Target: 70") {
		t.Error("bar chart should label its target")
	}
}

func TestChartModeOverride(t *testing.T) {
	ts := newTestServer(t, Options{})
	_, body := get(t, ts.URL+"/api/charts/inventory?mode=area&format=json")
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("json: %v\n%s", err, body)
	}
	if out["mode"] != "area" {
		t.Errorf("mode = %v, want area", out["mode"])
	}
	if _, ok := out["polygon"]; !ok {
		t.Error("area mode should include the polygon")
	}
}

func TestChartErrors(t *testing.T) {
	ts := newTestServer(t, Options{})
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/charts/missing", http.StatusNotFound, "CHART_NOT_FOUND"},
		{"/api/charts/inventory?mode=pie", http.StatusBadRequest, "INVALID_MODE"},
		{"/api/charts/inventory?format=gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/api/charts/inventory?format=dot", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/api/charts/inventory?width=-5", http.StatusBadRequest, "INVALID_INPUT"},
		{"/nope", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestRenderSeries(t *testing.T) {
	ts := newTestServer(t, Options{})
	payload := `{"series":{"labels":["Q1","Q2","Q3"],"values":[68,72,78],"target":75},"mode":"line","format":"ascii","title":"Efficiency"}`
	resp, err := http.Post(ts.URL+"/api/charts/render", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "Target: 75") {
		t.Errorf("ascii body missing target:\n%s", body)
	}
}

func TestRenderSeriesSinglePointPNG(t *testing.T) {
	ts := newTestServer(t, Options{})
	for _, mode := range []string{"bar", "line", "area"} {
		payload := `{"series":{"labels":["a"],"values":[5]},"mode":"` + mode + `","format":"png"}`
		resp, err := http.Post(ts.URL+"/api/charts/render", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d: %s", mode, resp.StatusCode, body)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: content type = %q", mode, ct)
		}
	}
}

func TestRenderSeriesInvalid(t *testing.T) {
	ts := newTestServer(t, Options{})
	tests := []struct {
		name    string
		payload string
		code    string
	}{
		{"mismatched labels", `{"series":{"labels":["a"],"values":[1,2]}}`, "INVALID_SERIES"},
		{"empty", `{"series":{"labels":[],"values":[]}}`, "INVALID_SERIES"},
		{"unknown field", `{"series":{"labels":["a"],"values":[1]},"colour":"red"}`, "INVALID_INPUT"},
		{"not json", `nope`, "INVALID_INPUT"},
		{"unknown color", `{"series":{"labels":["a"],"values":[5]},"color":"mauve"}`, "INVALID_INPUT"},
		{"markup in color", `{"series":{"labels":["a"],"values":[5]},"format":"svg","color":"#0\"/><script>alert(1)</script><x a=\""}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/charts/render", "application/json", strings.NewReader(tt.payload))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", resp.StatusCode, body)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestNetworkJSON(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := get(t, ts.URL+"/api/network?format=json&issues=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Nodes []network.Node `json:"nodes"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Nodes) == 0 {
		t.Fatal("expected issue nodes in the builtin network")
	}
	for _, n := range out.Nodes {
		if n.Status == network.Normal {
			t.Errorf("issues-only returned normal node %s", n.ID)
		}
	}
}

func TestNetworkSVGSelection(t *testing.T) {
	ts := newTestServer(t, Options{})
	data := dataset.Builtin()
	id := data.Network.Nodes[0].ID

	resp, body := get(t, ts.URL+"/api/network?selected="+id+"&zoom=1.2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "node-details") {
		t.Error("svg should include the details panel for the selected node")
	}
}

func TestNetworkErrors(t *testing.T) {
	ts := newTestServer(t, Options{})
	tests := []struct {
		path string
		code string
	}{
		{"/api/network?types=factory", "INVALID_NODE_TYPE"},
		{"/api/network?issues=maybe", "INVALID_INPUT"},
		{"/api/network?zoom=big", "INVALID_INPUT"},
		{"/api/network?format=ascii", "INVALID_FORMAT"},
		{"/api/network?viz=tower", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", resp.StatusCode, body)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestNodeDetails(t *testing.T) {
	ts := newTestServer(t, Options{})
	data := dataset.Builtin()
	n := data.Network.Nodes[0]

	resp, body := get(t, ts.URL+"/api/network/nodes/"+n.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var d network.Details
	if err := json.Unmarshal(body, &d); err != nil {
		t.Fatal(err)
	}
	if d.Node.ID != n.ID {
		t.Errorf("details node = %s, want %s", d.Node.ID, n.ID)
	}

	resp, body = get(t, ts.URL+"/api/network/nodes/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != "NODE_NOT_FOUND" {
		t.Errorf("code = %q", e.Code)
	}

	resp, body = get(t, ts.URL+"/api/network/nodes/bad%01id")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != "INVALID_INPUT" {
		t.Errorf("code = %q", e.Code)
	}
}

func TestNodeDetailsFreeFormIDs(t *testing.T) {
	nodes := []network.Node{
		{ID: "store 1", Name: "Store 1", Type: network.Retail, Status: network.Normal, Position: network.Point{X: 70, Y: 40}},
		{ID: "dc:east", Name: "DC East", Type: network.Distribution, Status: network.Warning, Position: network.Point{X: 40, Y: 40}},
	}
	conns := []network.Connection{{From: "dc:east", To: "store 1", Status: network.Normal}}
	ts := newTestServer(t, Options{Network: StaticNetwork{Nodes: nodes, Connections: conns}})

	for _, tt := range []struct{ path, id string }{
		{"store%201", "store 1"},
		{"dc:east", "dc:east"},
	} {
		resp, body := get(t, ts.URL+"/api/network/nodes/"+tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d: %s", tt.id, resp.StatusCode, body)
			continue
		}
		var d network.Details
		if err := json.Unmarshal(body, &d); err != nil {
			t.Fatal(err)
		}
		if d.Node.ID != tt.id || len(d.Links) != 1 {
			t.Errorf("%s: details = %+v", tt.id, d)
		}
	}

	resp, body := get(t, ts.URL+"/api/network?format=json&selected=store%201")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("selected=store 1: status = %d: %s", resp.StatusCode, body)
	}
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]network.Node, []network.Connection, error) {
	return nil, nil, errors.New("neo4j unavailable")
}

func TestNetworkSourceFailure(t *testing.T) {
	ts := newTestServer(t, Options{Network: failingSource{}})
	resp, body := get(t, ts.URL+"/api/network")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	e := decodeError(t, body)
	if e.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", e.Code)
	}
	if strings.Contains(e.Message, "neo4j") {
		t.Errorf("internal error details leaked: %q", e.Message)
	}
}

func TestDashboardPages(t *testing.T) {
	ts := newTestServer(t, Options{})
	tests := []struct {
		page string
		want []string
	}{
		{"", []string{"Inventory Levels", "+3.2%", `id="chart-inventory"`, "<svg"}},
		{"analytics", []string{"Forecast Accuracy", "Impact", `id="chart-transport-costs"`}},
		{"network", []string{`class="nodes"`, "100%", "<svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/?page="+tt.page)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(body), w) {
					t.Errorf("page %q missing %q", tt.page, w)
				}
			}
		})
	}

	resp, _ := get(t, ts.URL+"/?page=settings")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown page status = %d, want 404", resp.StatusCode)
	}
}
