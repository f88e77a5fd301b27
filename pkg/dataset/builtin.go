package dataset

import (
	"github.com/retailreboot/retailreboot/pkg/chart"
	"github.com/retailreboot/retailreboot/pkg/network"
)

// BuiltinName is the name of the sample dataset.
const BuiltinName = "builtin"

func f64(v float64) *float64 { return &v }

// Builtin returns the sample dataset. Every call returns a fresh copy.
func Builtin() *Dataset {
	return &Dataset{
		Name:     BuiltinName,
		Cards:    builtinCards(),
		Charts:   builtinCharts(),
		Insights: builtinInsights(),
		Network: Network{
			Nodes:       builtinNodes(),
			Connections: builtinConnections(),
		},
	}
}

func builtinCards() []Card {
	return []Card{
		{Title: "Inventory Levels", Value: "92.4%", Trend: f64(3.2), Positive: true, Color: "primary", Page: PageDashboard},
		{Title: "On-Time Delivery", Value: "88.7%", Trend: f64(1.8), Positive: true, Color: "secondary", Page: PageDashboard},
		{Title: "Active Alerts", Value: "12", Trend: f64(4), Positive: false, Color: "error", Page: PageDashboard},
		{Title: "Cost Efficiency", Value: "$1.24M", Trend: f64(6.5), Positive: true, Color: "success", Page: PageDashboard},

		{Title: "On-Time Delivery", Value: "94.2%", Trend: f64(2.1), Positive: true, Page: PageAnalytics},
		{Title: "Inventory Turnover", Value: "5.8x", Trend: f64(0.4), Positive: true, Page: PageAnalytics},
		{Title: "Perfect Order Rate", Value: "91.7%", Trend: f64(1.5), Positive: true, Page: PageAnalytics},
		{Title: "Return Rate", Value: "2.3%", Trend: f64(0.7), Positive: false, Page: PageAnalytics},
		{Title: "Forecast Accuracy", Value: "86.9%", Trend: f64(3.2), Positive: true, Page: PageAnalytics},
		{Title: "Supply Chain Cost", Value: "$3.2M", Trend: f64(4.5), Positive: false, Page: PageAnalytics},
	}
}

func builtinCharts() []Chart {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	return []Chart{
		{
			Name: "inventory", Title: "Inventory Accuracy", Page: PageDashboard, Mode: chart.ModeBar, Color: "primary",
			Labels: months, Values: []float64{64, 58, 75, 80, 65, 90}, Target: f64(70),
		},
		{
			Name: "fulfillment", Title: "Order Fulfillment Rate", Page: PageDashboard, Mode: chart.ModeLine, Color: "secondary",
			Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Values: []float64{92, 95, 88, 96, 90, 85, 91},
		},
		{
			Name: "alerts", Title: "Exception Alerts", Page: PageDashboard, Mode: chart.ModeArea, Color: "error",
			Labels: []string{"8AM", "10AM", "12PM", "2PM", "4PM", "6PM"},
			Values: []float64{5, 3, 7, 9, 4, 2},
		},
		{
			Name: "efficiency", Title: "Supply Chain Efficiency", Page: PageDashboard, Mode: chart.ModeBar, Color: "success",
			Labels: []string{"Q1", "Q2", "Q3", "Q4"}, Values: []float64{68, 72, 78, 85},
		},

		{
			Name: "inventory-accuracy", Title: "Inventory Accuracy Trend", Page: PageAnalytics, Mode: chart.ModeLine, Color: "primary",
			Labels: months, Values: []float64{92, 93, 91, 94, 95, 96}, Target: f64(95),
		},
		{
			Name: "order-cycle", Title: "Order Cycle Time (Days)", Page: PageAnalytics, Mode: chart.ModeLine, Color: "secondary",
			Labels: months, Values: []float64{4.8, 4.5, 4.2, 3.9, 3.7, 3.5}, Target: f64(4.0),
		},
		{
			Name: "cost-breakdown", Title: "Supply Chain Cost Breakdown", Page: PageAnalytics, Mode: chart.ModeBar, Color: "accent",
			Labels: []string{"Raw Materials", "Labor", "Transport", "Storage", "Other"},
			Values: []float64{35, 25, 20, 15, 5},
		},
		{
			Name: "demand-forecast", Title: "Demand Forecast (next 6 months)", Page: PageAnalytics, Mode: chart.ModeArea, Color: "primary",
			Labels: []string{"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
			Values: []float64{105, 110, 115, 125, 130, 120}, Target: f64(110),
		},
		{
			Name: "warehouse-utilization", Title: "Warehouse Utilization (%)", Page: PageAnalytics, Mode: chart.ModeBar, Color: "secondary",
			Labels: []string{"E. Warehouse", "W. Warehouse", "N. Warehouse", "S. Warehouse", "Central"},
			Values: []float64{76, 82, 65, 91, 78}, Target: f64(80),
		},
		{
			Name: "transport-costs", Title: "Transport Costs ($ thousands)", Page: PageAnalytics, Mode: chart.ModeLine, Color: "accent",
			Labels: []string{"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024", "Q1 2025", "Q2 2025"},
			Values: []float64{142, 138, 131, 128, 125, 120}, Target: f64(130),
		},
	}
}

func builtinInsights() []Insight {
	return []Insight{
		{
			Title:       "Inventory Optimization",
			Description: "AI analysis suggests reducing safety stock for SKU-3822 by 15% to optimize working capital without impacting service levels.",
			Impact:      "High", Color: "success",
		},
		{
			Title:       "Transport Route Inefficiency",
			Description: "East-West corridor showing consistent delivery delays. Alternative routing could improve on-time delivery by 8%.",
			Impact:      "Medium", Color: "warning",
		},
		{
			Title:       "Demand Pattern Shift",
			Description: "Urban stores showing 23% higher demand variability compared to suburban locations. Requires differentiated inventory strategy.",
			Impact:      "High", Color: "success",
		},
		{
			Title:       "Supplier Risk Alert",
			Description: "Secondary supplier showing quality inconsistency patterns that correlate with production issues downstream.",
			Impact:      "Critical", Color: "error",
		},
	}
}

func metrics(kv ...string) []network.Metric {
	out := make([]network.Metric, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, network.Metric{Label: kv[i], Value: kv[i+1]})
	}
	return out
}

func builtinNodes() []network.Node {
	node := func(id string, t network.NodeType, name string, s network.Status, x, y float64, m []network.Metric) network.Node {
		return network.Node{ID: id, Type: t, Name: name, Status: s, Position: network.Point{X: x, Y: y}, Metrics: m}
	}
	return []network.Node{
		node("supplier1", network.Supplier, "Primary Manufacturer", network.Normal, 10, 50,
			metrics("Output", "98%", "Lead Time", "4 days")),
		node("supplier2", network.Supplier, "Secondary Supplier", network.Warning, 10, 150,
			metrics("Output", "85%", "Lead Time", "7 days")),
		node("warehouse1", network.Warehouse, "Central Warehouse", network.Normal, 30, 50,
			metrics("Capacity", "76%", "Turnover", "3.5x")),
		node("warehouse2", network.Warehouse, "Regional Storage", network.Critical, 30, 150,
			metrics("Capacity", "94%", "Turnover", "2.1x")),
		node("distribution1", network.Distribution, "East Distribution", network.Normal, 50, 30,
			metrics("Efficiency", "92%", "Delivery", "1.2 days")),
		node("distribution2", network.Distribution, "West Distribution", network.Normal, 50, 90,
			metrics("Efficiency", "88%", "Delivery", "1.5 days")),
		node("distribution3", network.Distribution, "South Distribution", network.Warning, 50, 150,
			metrics("Efficiency", "79%", "Delivery", "2.3 days")),
		node("retail1", network.Retail, "Flagship Store", network.Success, 70, 20,
			metrics("Stock", "97%", "Sales", "+12%")),
		node("retail2", network.Retail, "Mall Location", network.Normal, 70, 70,
			metrics("Stock", "92%", "Sales", "+5%")),
		node("retail3", network.Retail, "Downtown Store", network.Warning, 70, 120,
			metrics("Stock", "81%", "Sales", "-3%")),
		node("retail4", network.Retail, "Outlet Center", network.Normal, 70, 170,
			metrics("Stock", "88%", "Sales", "+7%")),
		node("customer1", network.Customer, "Urban Customers", network.Success, 90, 70,
			metrics("Satisfaction", "4.7/5", "Growth", "+8%")),
		node("customer2", network.Customer, "Suburban Customers", network.Normal, 90, 150,
			metrics("Satisfaction", "4.2/5", "Growth", "+3%")),
	}
}

func builtinConnections() []network.Connection {
	c := func(from, to string, s network.Status) network.Connection {
		return network.Connection{From: from, To: to, Status: s}
	}
	return []network.Connection{
		c("supplier1", "warehouse1", network.Normal),
		c("supplier2", "warehouse1", network.Warning),
		c("supplier2", "warehouse2", network.Critical),
		c("warehouse1", "distribution1", network.Normal),
		c("warehouse1", "distribution2", network.Normal),
		c("warehouse2", "distribution2", network.Warning),
		c("warehouse2", "distribution3", network.Warning),
		c("distribution1", "retail1", network.Success),
		c("distribution1", "retail2", network.Normal),
		c("distribution2", "retail2", network.Normal),
		c("distribution2", "retail3", network.Warning),
		c("distribution3", "retail3", network.Warning),
		c("distribution3", "retail4", network.Normal),
		c("retail1", "customer1", network.Success),
		c("retail2", "customer1", network.Normal),
		c("retail3", "customer1", network.Warning),
		c("retail3", "customer2", network.Normal),
		c("retail4", "customer2", network.Normal),
	}
}
