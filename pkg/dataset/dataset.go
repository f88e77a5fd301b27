package dataset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/retailreboot/retailreboot/pkg/chart"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/render/styles"
)

// Pages group cards and charts the way the dashboard lays them out.
const (
	PageDashboard = "dashboard"
	PageAnalytics = "analytics"
)

// Dataset is everything the dashboard draws.
type Dataset struct {
	Name     string    `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Cards    []Card    `json:"cards,omitempty" toml:"cards,omitempty" yaml:"cards,omitempty"`
	Charts   []Chart   `json:"charts" toml:"charts" yaml:"charts"`
	Insights []Insight `json:"insights,omitempty" toml:"insights,omitempty" yaml:"insights,omitempty"`
	Network  Network   `json:"network" toml:"network" yaml:"network"`
}

// Network is the raw, unfiltered supply-chain graph.
type Network struct {
	Nodes       []network.Node       `json:"nodes" toml:"nodes" yaml:"nodes"`
	Connections []network.Connection `json:"connections" toml:"connections" yaml:"connections"`
}

// Chart is a named series with its presentation defaults.
type Chart struct {
	Name   string     `json:"name" toml:"name" yaml:"name"`
	Title  string     `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Page   string     `json:"page,omitempty" toml:"page,omitempty" yaml:"page,omitempty"`
	Mode   chart.Mode `json:"mode" toml:"mode" yaml:"mode"`
	Color  string     `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Labels []string   `json:"labels" toml:"labels" yaml:"labels"`
	Values []float64  `json:"values" toml:"values" yaml:"values"`
	Target *float64   `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty"`
}

// Series returns the chart data as a [chart.Series].
func (c Chart) Series() chart.Series {
	return chart.Series{Labels: c.Labels, Values: c.Values, Target: c.Target}
}

// DisplayTitle returns the title, falling back to the name.
func (c Chart) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// Card is a headline KPI tile.
type Card struct {
	Title      string   `json:"title" toml:"title" yaml:"title"`
	Value      string   `json:"value" toml:"value" yaml:"value"`
	Trend      *float64 `json:"trend,omitempty" toml:"trend,omitempty" yaml:"trend,omitempty"`
	Positive   bool     `json:"positive" toml:"positive" yaml:"positive"`
	TrendLabel string   `json:"trend_label,omitempty" toml:"trend_label,omitempty" yaml:"trend_label,omitempty"`
	Color      string   `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Page       string   `json:"page,omitempty" toml:"page,omitempty" yaml:"page,omitempty"`
}

// DefaultTrendLabel follows the trend value when a card sets none.
const DefaultTrendLabel = "vs. last period"

// TrendText formats the trend as shown on the card: "+3.2%" for a positive
// trend, "4%" otherwise. It returns "" when the card has no trend.
func (c Card) TrendText() string {
	if c.Trend == nil {
		return ""
	}
	sign := ""
	if c.Positive {
		sign = "+"
	}
	return sign + chart.FormatValue(*c.Trend) + "%"
}

// Label returns the caption shown after the trend.
func (c Card) Label() string {
	if c.TrendLabel != "" {
		return c.TrendLabel
	}
	return DefaultTrendLabel
}

// Insight is a short recommendation shown under the analytics charts.
type Insight struct {
	Title       string `json:"title" toml:"title" yaml:"title"`
	Description string `json:"description" toml:"description" yaml:"description"`
	Impact      string `json:"impact" toml:"impact" yaml:"impact"`
	Color       string `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
}

// Chart returns the chart with the given name.
func (d *Dataset) Chart(name string) (Chart, error) {
	for _, c := range d.Charts {
		if c.Name == name {
			return c, nil
		}
	}
	return Chart{}, apperrors.New(apperrors.ErrCodeChartNotFound, "chart not found: %s", name)
}

// ChartNames returns the chart names in dataset order.
func (d *Dataset) ChartNames() []string {
	names := make([]string, len(d.Charts))
	for i, c := range d.Charts {
		names[i] = c.Name
	}
	return names
}

// ChartsFor returns the charts on the given page. An empty page matches
// charts without a page.
func (d *Dataset) ChartsFor(page string) []Chart {
	var out []Chart
	for _, c := range d.Charts {
		if strings.EqualFold(c.Page, page) {
			out = append(out, c)
		}
	}
	return out
}

// CardsFor returns the cards on the given page.
func (d *Dataset) CardsFor(page string) []Card {
	var out []Card
	for _, c := range d.Cards {
		if strings.EqualFold(c.Page, page) {
			out = append(out, c)
		}
	}
	return out
}

// Pages returns the distinct pages that have charts or cards, dashboard
// first.
func (d *Dataset) Pages() []string {
	var pages []string
	add := func(p string) {
		if !slices.Contains(pages, p) {
			pages = append(pages, p)
		}
	}
	for _, c := range d.Cards {
		add(c.Page)
	}
	for _, c := range d.Charts {
		add(c.Page)
	}
	slices.SortStableFunc(pages, func(a, b string) int {
		return pageRank(a) - pageRank(b)
	})
	return pages
}

func pageRank(p string) int {
	switch p {
	case PageDashboard:
		return 0
	case PageAnalytics:
		return 1
	default:
		return 2
	}
}

// Validate checks chart names are unique and valid, every series, mode and
// colour is well formed and the network has unique node IDs.
func (d *Dataset) Validate() error {
	seen := make(map[string]struct{}, len(d.Charts))
	for i := range d.Charts {
		c := &d.Charts[i]
		if err := apperrors.ValidateName(c.Name); err != nil {
			return fmt.Errorf("chart %d: %w", i, err)
		}
		if _, dup := seen[c.Name]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate chart name: %s", c.Name)
		}
		seen[c.Name] = struct{}{}

		mode, err := chart.ParseMode(string(c.Mode))
		if err != nil {
			return fmt.Errorf("chart %s: %w", c.Name, err)
		}
		c.Mode = mode
		if err := c.Series().Validate(); err != nil {
			return fmt.Errorf("chart %s: %w", c.Name, err)
		}
		if _, ok := styles.ParseColor(c.Color); !ok {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "chart %s: invalid color %q", c.Name, c.Color)
		}
	}
	return network.ValidateNetwork(d.Network.Nodes, d.Network.Connections)
}
