// Package pipeline turns chart series and supply-chain networks into
// rendered artifacts.
//
// The CLI and the HTTP server both go through a [Runner] so that request
// validation, caching and logging behave the same way at every entry point.
//
// # Stages
//
//  1. Layout: [chart.Render] normalizes a series; [network.Compute] filters
//     the network and computes connector paths.
//  2. Render: each requested format is produced by its sink (SVG, JSON, PNG,
//     PDF, ASCII for charts; SVG, JSON, PNG, PDF, DOT for networks).
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.RenderChart(ctx, pipeline.ChartRequest{
//	    Series:  chart.NewSeries([]string{"Q1", "Q2"}, []float64{68, 72}),
//	    Mode:    chart.ModeBar,
//	    Options: pipeline.Options{Formats: []string{"svg", "png"}},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/retailreboot/retailreboot/pkg/chart"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/render/styles"
)

// =============================================================================
// Formats and Visualization Types
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatJSON  = "json"
	FormatASCII = "ascii" // charts only
	FormatDOT   = "dot"   // networks only
)

// ChartFormats is the set of formats a chart can be rendered to.
var ChartFormats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF, FormatASCII}

// NetworkFormats is the set of formats a network can be rendered to.
var NetworkFormats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF, FormatDOT}

// Network visualization types.
const (
	// VizMap draws nodes at their stored canvas positions.
	VizMap = "map"
	// VizNodelink hands the network to Graphviz for automatic placement.
	VizNodelink = "nodelink"
)

// ValidVizTypes is the set of supported network visualization types.
var ValidVizTypes = map[string]bool{
	VizMap:      true,
	VizNodelink: true,
}

// DefaultPNGScale is the rasterization factor for PNG output via rsvg-convert.
const DefaultPNGScale = 2.0

// =============================================================================
// Options and Requests
// =============================================================================

// Options are the render settings shared by chart and network requests.
// Every serialized field takes part in the cache key.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Title   string   `json:"title,omitempty"`
	Color   string   `json:"color,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"-"`
	// Logger overrides the runner's logger for this request.
	Logger *log.Logger `json:"-"`
}

// ChartRequest renders one series.
type ChartRequest struct {
	// Name identifies the chart in logs and JSON output; it is optional.
	Name   string       `json:"name,omitempty"`
	Series chart.Series `json:"series"`
	Mode   chart.Mode   `json:"mode"`
	Options
}

// NetworkRequest renders the supply-chain map.
type NetworkRequest struct {
	Nodes       []network.Node       `json:"nodes"`
	Connections []network.Connection `json:"connections"`
	// Filter defaults to every node type when nil. An explicit filter is
	// used as given, so an empty type set hides every node.
	Filter   *network.Filter `json:"filter"`
	Selected string          `json:"selected,omitempty"`
	Zoom     network.Zoom    `json:"zoom"`
	VizType  string          `json:"viz_type"`
	// Detailed adds metric rows to nodelink labels.
	Detailed bool `json:"detailed,omitempty"`
	Options
}

// ChartResult holds the outputs of a chart run.
type ChartResult struct {
	Spec      chart.Spec
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// NetworkResult holds the outputs of a network run. Details is nil when no
// node is selected or the selected node does not exist.
type NetworkResult struct {
	Layout    network.Layout
	Details   *network.Details
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which artifacts came from the cache.
type CacheInfo struct {
	// Hit is true when every requested format was served from cache.
	Hit bool
	// Formats lists the formats that were cache hits.
	Formats []string
}

// =============================================================================
// Validation
// =============================================================================

// ParseFormats splits a comma-separated list, trimming blanks and lowering
// case. An empty string yields nil.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidateFormats checks formats against the allowed set.
func ValidateFormats(formats, allowed []string) error {
	for _, f := range formats {
		if !slices.Contains(allowed, f) {
			return apperrors.New(apperrors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: %s)", f, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid viz_type: %q (must be one of: map, nodelink)", vizType)
	}
	return nil
}

// setDefaults fills Formats and Logger and removes duplicate formats while
// keeping the caller's order.
func (o *Options) setDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) validateSize() error {
	if o.Width < 0 || o.Height < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	return nil
}

// resolveColor turns a palette name into its hex value and rejects anything
// that is neither a palette name nor a hex literal.
func (o *Options) resolveColor() error {
	c, ok := styles.ParseColor(o.Color)
	if !ok {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid color: %q (use a palette name or #rgb/#rrggbb)", o.Color)
	}
	o.Color = c
	return nil
}

// ValidateAndSetDefaults checks the request and applies defaults. Mode
// strings are normalized so "Bar" and "bar" share a cache entry.
func (r *ChartRequest) ValidateAndSetDefaults() error {
	r.setDefaults()
	mode, err := chart.ParseMode(string(r.Mode))
	if err != nil {
		return err
	}
	r.Mode = mode
	if err := r.Series.Validate(); err != nil {
		return err
	}
	if err := r.resolveColor(); err != nil {
		return err
	}
	if err := r.validateSize(); err != nil {
		return err
	}
	return ValidateFormats(r.Formats, ChartFormats)
}

// ValidateAndSetDefaults checks the request and applies defaults: the map
// visualization, a 1.0 zoom and the all-types filter when Filter is nil.
func (r *NetworkRequest) ValidateAndSetDefaults() error {
	r.setDefaults()
	if r.VizType == "" {
		r.VizType = VizMap
	}
	if err := ValidateVizType(r.VizType); err != nil {
		return err
	}
	if r.Zoom == 0 {
		r.Zoom = network.DefaultZoom
	}
	r.Zoom = network.ClampZoom(float64(r.Zoom))
	if r.Filter == nil {
		f := network.DefaultFilter()
		r.Filter = &f
	}
	if err := network.ValidateNetwork(r.Nodes, r.Connections); err != nil {
		return err
	}
	if err := r.resolveColor(); err != nil {
		return err
	}
	if err := r.validateSize(); err != nil {
		return err
	}
	if r.VizType == VizMap && slices.Contains(r.Formats, FormatDOT) {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "dot output requires the nodelink visualization")
	}
	return ValidateFormats(r.Formats, NetworkFormats)
}

// describe returns the chart name for log lines.
func (r *ChartRequest) describe() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%d-point %s", r.Series.Len(), r.Mode)
}
