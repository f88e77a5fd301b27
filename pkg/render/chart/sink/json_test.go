package sink

import (
	"encoding/json"
	"testing"

	"github.com/retailreboot/retailreboot/pkg/chart"
)

func TestRenderJSON(t *testing.T) {
	s := chart.NewSeries([]string{"Mon", "Tue"}, []float64{92, 95}).WithTarget(90)
	spec := mustRender(t, s, chart.ModeLine)

	data, err := RenderJSON(spec, WithJSONName("fulfillment"), WithJSONSeries(s))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out["name"] != "fulfillment" {
		t.Errorf("name = %v", out["name"])
	}
	if out["mode"] != "line" {
		t.Errorf("mode = %v", out["mode"])
	}
	if out["target_label"] != "Target: 90" {
		t.Errorf("target_label = %v", out["target_label"])
	}
	if pts, ok := out["points"].([]any); !ok || len(pts) != 2 {
		t.Errorf("points = %v", out["points"])
	}
	if _, ok := out["series"]; !ok {
		t.Error("series should be embedded")
	}
}

func TestRenderJSONOmitsEmpty(t *testing.T) {
	spec := mustRender(t, chart.NewSeries([]string{"a"}, []float64{1}), chart.ModeBar)
	data, err := RenderJSON(spec)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	for _, k := range []string{"name", "series", "target", "target_label", "points"} {
		if _, ok := out[k]; ok {
			t.Errorf("unexpected key %q", k)
		}
	}
}
