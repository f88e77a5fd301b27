package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/retailreboot/retailreboot/pkg/config"
	"github.com/retailreboot/retailreboot/pkg/dataset"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

// swapOut redirects user-facing output to w for the duration of the test.
func swapOut(t *testing.T, w io.Writer) {
	t.Helper()
	prev := out
	out = w
	t.Cleanup(func() { out = prev })
}

// isolate points config and cache lookups at empty temp directories.
func isolate(t *testing.T) (cacheHome string) {
	t.Helper()
	cacheHome = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return cacheHome
}

// runCLI executes the root command with args on a fresh CLI and returns
// what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	swapOut(t, &buf)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestChartCommandDatasetChart(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "inventory.svg")

	got, err := runCLI(t, "chart", "inventory", "-o", path, "--no-cache")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	svg := readFile(t, path)
	if !strings.HasPrefix(strings.TrimSpace(svg), "<svg") {
		t.Errorf("output is not an SVG document: %.60q", svg)
	}
	if !strings.Contains(svg, "Target: 70") {
		t.Error("SVG should annotate the target line")
	}
	for _, want := range []string{"inventory bar chart", "6 points", "Target: 70", path} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestChartCommandInlineSeries(t *testing.T) {
	isolate(t)
	base := filepath.Join(t.TempDir(), "out", "kpi")

	_, err := runCLI(t, "chart",
		"--values", "10, 20,40",
		"--labels", "a,b,c",
		"--target", "30",
		"--mode", "area",
		"-f", "svg,json",
		"-o", base)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("svg not written: %v", err)
	}
	js := readFile(t, base+".json")
	for _, want := range []string{`"mode": "area"`, `"polygon"`, `"target_label": "Target: 30"`} {
		if !strings.Contains(js, want) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestChartCommandASCIIPreview(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := runCLI(t, "chart", "fulfillment", "--ascii", "--no-cache")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if !strings.Contains(got, "Order Fulfillment Rate") {
		t.Errorf("preview should carry the chart title:\n%s", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("--ascii alone should not write files, found %d", len(entries))
	}
}

func TestChartCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want apperrors.Code
	}{
		{"no series", []string{"chart"}, apperrors.ErrCodeInvalidInput},
		{"unknown chart", []string{"chart", "nope"}, apperrors.ErrCodeChartNotFound},
		{"bad value", []string{"chart", "--values", "1,x"}, apperrors.ErrCodeInvalidInput},
		{"label mismatch", []string{"chart", "--values", "1,2", "--labels", "a"}, apperrors.ErrCodeInvalidSeries},
		{"bad mode", []string{"chart", "inventory", "--mode", "pie"}, apperrors.ErrCodeInvalidMode},
		{"bad format", []string{"chart", "inventory", "-f", "dot"}, apperrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--no-cache")...)
			if got := apperrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestChartCommandCachesArtifacts(t *testing.T) {
	cacheHome := isolate(t)
	path := filepath.Join(t.TempDir(), "eff.svg")

	first, err := runCLI(t, "chart", "efficiency", "-o", path)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !strings.Contains(first, iconFresh) {
		t.Errorf("first run should render fresh:\n%s", first)
	}
	second, err := runCLI(t, "chart", "efficiency", "-o", path)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(second, iconCached) {
		t.Errorf("second run should be served from cache:\n%s", second)
	}

	loc, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(cacheHome, config.AppName); strings.TrimSpace(loc) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(loc), want)
	}

	cleared, err := runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(cleared, "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", cleared)
	}
	again, _ := runCLI(t, "cache", "clear")
	if !strings.Contains(again, "Cache is empty") {
		t.Errorf("second clear output = %q", again)
	}
}

func TestNetworkCommandIssuesOnly(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "net.json")

	got, err := runCLI(t, "network", "--issues", "-f", "json", "-o", path, "--no-cache")
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	js := readFile(t, path)
	if !strings.Contains(js, `"warehouse2"`) {
		t.Error("critical warehouse should be visible")
	}
	if strings.Contains(js, `"supplier1"`) {
		t.Error("normal supplier should be hidden with --issues")
	}
	if !strings.Contains(got, "/13 nodes") {
		t.Errorf("stats should report the total node count:\n%s", got)
	}
}

func TestNetworkCommandNodelinkDOT(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "net.dot")

	if _, err := runCLI(t, "network", "-t", "nodelink", "-f", "dot", "--types", "supplier,warehouse", "-o", path, "--no-cache"); err != nil {
		t.Fatalf("network: %v", err)
	}
	dot := readFile(t, path)
	if !strings.HasPrefix(dot, "digraph") {
		t.Errorf("not a DOT document: %.40q", dot)
	}
	if !strings.Contains(dot, `"supplier2" -> "warehouse2"`) {
		t.Error("DOT should keep connections between visible nodes")
	}
	if strings.Contains(dot, "retail1") {
		t.Error("DOT should not contain filtered-out retail nodes")
	}
}

func TestNetworkCommandUnknownSelection(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "net.svg")

	got, err := runCLI(t, "network", "--select", "ghost", "-o", path, "--no-cache")
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	if !strings.Contains(got, `No node with id "ghost"`) {
		t.Errorf("expected a warning for the unknown selection:\n%s", got)
	}
}

func TestNetworkCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want apperrors.Code
	}{
		{"bad type", []string{"network", "--types", "factory"}, apperrors.ErrCodeInvalidNodeType},
		{"bad viz", []string{"network", "-t", "tower"}, apperrors.ErrCodeInvalidInput},
		{"dot on map", []string{"network", "-f", "dot"}, apperrors.ErrCodeInvalidFormat},
		{"neo4j unconfigured", []string{"network", "--neo4j"}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--no-cache")...)
			if got := apperrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestNodeCommand(t *testing.T) {
	isolate(t)

	got, err := runCLI(t, "node", "warehouse2")
	if err != nil {
		t.Fatalf("node: %v", err)
	}
	for _, want := range []string{"Regional Storage", "critical", "Capacity", "94%", "From", "Secondary Supplier", "To", "South Distribution"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	_, err = runCLI(t, "node", "ghost")
	if !apperrors.Is(err, apperrors.ErrCodeNodeNotFound) {
		t.Errorf("unknown node error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestDatasetsList(t *testing.T) {
	isolate(t)

	got, err := runCLI(t, "datasets", "list")
	if err != nil {
		t.Fatalf("datasets list: %v", err)
	}
	for _, want := range []string{"dashboard", "analytics", "inventory", "Inventory Accuracy", "target 70", "13 nodes, 18 connections"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestDatasetsExportRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sample.yaml")

	if _, err := runCLI(t, "datasets", "export", "-o", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	d, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load exported dataset: %v", err)
	}
	want := dataset.Builtin()
	if diff := cmp.Diff(want.ChartNames(), d.ChartNames()); diff != "" {
		t.Errorf("chart names mismatch (-want +got):\n%s", diff)
	}
	if len(d.Network.Nodes) != len(want.Network.Nodes) {
		t.Errorf("nodes = %d, want %d", len(d.Network.Nodes), len(want.Network.Nodes))
	}

	// The exported file works as --dataset input.
	got, err := runCLI(t, "--dataset", path, "node", "retail3")
	if err != nil {
		t.Fatalf("node from exported dataset: %v", err)
	}
	if !strings.Contains(got, "Downtown Store") {
		t.Errorf("output = %q", got)
	}

	_, err = runCLI(t, "datasets", "export", "-o", filepath.Join(t.TempDir(), "sample.xlsx"))
	if !apperrors.Is(err, apperrors.ErrCodeUnsupported) {
		t.Errorf("xlsx export error = %v, want UNSUPPORTED", err)
	}
}

func TestDatasetsExportStdout(t *testing.T) {
	isolate(t)

	got, err := runCLI(t, "datasets", "export")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "[[charts]]") {
		t.Errorf("stdout export should be TOML:\n%.200s", got)
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "datasets", "list")
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestConfigDatasetPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	f, err := os.Create(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	small := &dataset.Dataset{
		Name:   "Pilot",
		Charts: []dataset.Chart{{Name: "sales", Mode: "bar", Labels: []string{"W1", "W2"}, Values: []float64{3, 4}}},
	}
	if err := dataset.Encode(f, small, dataset.FormatJSON); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfgPath := filepath.Join(dir, "config.toml")
	body := "[dataset]\npath = " + `"` + filepath.ToSlash(dataPath) + `"` + "\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := runCLI(t, "--config", cfgPath, "datasets", "list")
	if err != nil {
		t.Fatalf("datasets list: %v", err)
	}
	if !strings.Contains(got, "Pilot") || !strings.Contains(got, "sales") {
		t.Errorf("config dataset not used:\n%s", got)
	}

	none, err := runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(none, "Caching is disabled") {
		t.Errorf("cache clear with backend none = %q", none)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, name, format string
		single               bool
		want                 string
	}{
		{"", "inventory", "svg", true, "inventory.svg"},
		{"chart.png", "inventory", "png", true, "chart.png"},
		{"out/chart.svg", "inventory", "json", false, "out/chart.json"},
		{"out/chart", "inventory", "svg", false, "out/chart.svg"},
		{"", "fulfillment", "ascii", false, "fulfillment.txt"},
		{"report.v2", "network", "svg", false, "report.v2.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.name, tt.format, tt.single); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.output, tt.name, tt.format, tt.single, got, tt.want)
		}
	}
}

func TestWriteArtifactsMissingFormat(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg", "png"},
		name:      "x",
		output:    filepath.Join(t.TempDir(), "x"),
	})
	if err == nil || !strings.Contains(err.Error(), "no png output") {
		t.Errorf("err = %v, want missing png", err)
	}
}

func TestParseValuesAndLabels(t *testing.T) {
	got, err := parseValues(" 1.5,2 ,-3")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1.5, 2, -3}, got); diff != "" {
		t.Errorf("parseValues mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseValues("1,,2"); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("empty item error = %v", err)
	}

	if diff := cmp.Diff([]string{"1", "2", "3"}, parseLabels("", 3)); diff != "" {
		t.Errorf("default labels mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Q1", "Q2"}, parseLabels("Q1, Q2", 5)); diff != "" {
		t.Errorf("labels mismatch:\n%s", diff)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := parseFilter("", true)
	if err != nil {
		t.Fatal(err)
	}
	if f.Types != network.AllTypes || !f.IssuesOnly {
		t.Errorf("parseFilter(\"\", true) = %+v", f)
	}

	f, err = parseFilter("Retail, customer", false)
	if err != nil {
		t.Fatal(err)
	}
	if want := network.NewTypeSet(network.Retail, network.Customer); f.Types != want {
		t.Errorf("types = %v, want %v", f.Types, want)
	}
}

func TestDatasetChartRequestOverrides(t *testing.T) {
	ch, err := dataset.Builtin().Chart("inventory")
	if err != nil {
		t.Fatal(err)
	}

	req := datasetChartRequest(ch, chartOpts{})
	if req.Title != "Inventory Accuracy" || req.Color != "primary" || req.Mode != "bar" {
		t.Errorf("defaults not taken from the chart: %+v", req)
	}
	if req.Series.Target == nil || *req.Series.Target != 70 {
		t.Error("chart target should carry over")
	}

	req = datasetChartRequest(ch, chartOpts{
		mode:      "line",
		target:    85,
		hasTarget: true,
		render:    pipeline.Options{Title: "Custom", Color: "#112233"},
	})
	if req.Mode != "line" || req.Title != "Custom" || req.Color != "#112233" {
		t.Errorf("flags should override chart presentation: %+v", req)
	}
	if *req.Series.Target != 85 {
		t.Errorf("target = %v, want 85", *req.Series.Target)
	}
	if *ch.Target != 70 {
		t.Error("overriding the target must not mutate the dataset chart")
	}
}

func TestDisplayAddrAndCacheLocation(t *testing.T) {
	if got := displayAddr(":8080"); got != "http://localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:9000"); got != "http://0.0.0.0:9000" {
		t.Errorf("displayAddr = %q", got)
	}

	tests := []struct {
		cfg  config.CacheConfig
		want string
	}{
		{config.CacheConfig{Backend: config.BackendFile, Dir: "/tmp/c"}, "/tmp/c"},
		{config.CacheConfig{Backend: config.BackendRedis, RedisAddr: "cache:6379", RedisDB: 2}, "redis://cache:6379/2"},
		{config.CacheConfig{Backend: config.BackendMongo, MongoDatabase: "rr"}, "mongo database rr"},
		{config.CacheConfig{Backend: config.BackendNone}, "none"},
	}
	for _, tt := range tests {
		if got := cacheLocation(tt.cfg); got != tt.want {
			t.Errorf("cacheLocation(%s) = %q, want %q", tt.cfg.Backend, got, tt.want)
		}
	}
}
