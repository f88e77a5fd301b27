package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/retailreboot/retailreboot/pkg/chart"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"stock": {
			{"Label", "Value", "Target", "Mode", "Title"},
			{"Jan", 64, 70, "line", "Stock Levels"},
			{"Feb", 58.5},
			{"Mar", "75%"},
		},
		"Nodes": {
			{"id", "name", "type", "status", "x", "y", "metrics"},
			{"s1", "Acme", "Supplier", "normal", 10, 50, "Output=98%; Lead Time=4 days"},
			{"w1", "Hub", "warehouse", "CRITICAL", 30, 50},
		},
		"Connections": {
			{"from", "to", "status"},
			{"s1", "w1", "warning"},
		},
		"Cards": {
			{"title", "value", "trend", "positive"},
			{"Inventory Levels", "92.4%", 3.2, true},
		},
	})

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Chart{
		Name: "stock", Title: "Stock Levels", Mode: chart.ModeLine,
		Labels: []string{"Jan", "Feb", "Mar"}, Values: []float64{64, 58.5, 75}, Target: f64(70),
	}
	got, err := d.Chart("stock")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chart (-want +got):\n%s", diff)
	}

	wantNodes := []network.Node{
		{ID: "s1", Name: "Acme", Type: network.Supplier, Status: network.Normal, Position: network.Point{X: 10, Y: 50},
			Metrics: []network.Metric{{Label: "Output", Value: "98%"}, {Label: "Lead Time", Value: "4 days"}}},
		{ID: "w1", Name: "Hub", Type: network.Warehouse, Status: network.Critical, Position: network.Point{X: 30, Y: 50}},
	}
	if diff := cmp.Diff(wantNodes, d.Network.Nodes); diff != "" {
		t.Errorf("nodes (-want +got):\n%s", diff)
	}
	if len(d.Network.Connections) != 1 || d.Network.Connections[0].Status != network.Warning {
		t.Errorf("connections = %+v", d.Network.Connections)
	}
	if len(d.Cards) != 1 || d.Cards[0].TrendText() != "+3.2%" {
		t.Errorf("cards = %+v", d.Cards)
	}
}

func TestLoadXLSXMissingColumn(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"stock": {{"Label", "Amount"}, {"Jan", 1}},
	})
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail without a value column")
	}
}

func TestLoadXLSXBadBoolean(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Cards": {
			{"title", "value", "positive"},
			{"Inventory Levels", "92.4%", "TRUE"},
			{"Active Alerts", "12", "yes"},
		},
	})
	_, err := Load(path)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("Load() error = %v, want INVALID_INPUT", err)
	}
	for _, want := range []string{"Cards", "row 3", `"yes"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestParseMetrics(t *testing.T) {
	got := parseMetrics("A=1; broken ;B = two")
	want := []network.Metric{{Label: "A", Value: "1"}, {Label: "B", Value: "two"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseMetrics (-want +got):\n%s", diff)
	}
}
