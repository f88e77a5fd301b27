package sink

import (
	"encoding/json"

	"github.com/retailreboot/retailreboot/pkg/network"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	filter   *network.Filter
	selected string
	zoom     network.Zoom
	details  *network.Details
}

func WithJSONFilter(f network.Filter) JSONOption { return func(r *jsonRenderer) { r.filter = &f } }
func WithJSONSelected(id string) JSONOption      { return func(r *jsonRenderer) { r.selected = id } }
func WithJSONZoom(z network.Zoom) JSONOption     { return func(r *jsonRenderer) { r.zoom = z } }
func WithJSONDetails(d network.Details) JSONOption {
	return func(r *jsonRenderer) { r.details = &d }
}

type jsonOutput struct {
	Filter   *network.Filter  `json:"filter,omitempty"`
	Selected string           `json:"selected,omitempty"`
	Zoom     network.Zoom     `json:"zoom,omitempty"`
	Details  *network.Details `json:"details,omitempty"`
	network.Layout
}

// RenderJSON exports the layout and view state as a pretty-printed JSON
// document.
func RenderJSON(l network.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(jsonOutput{
		Filter:   r.filter,
		Selected: r.selected,
		Zoom:     r.zoom,
		Details:  r.details,
		Layout:   l,
	}, "", "  ")
}
