package sink

import (
	"encoding/json"

	"github.com/retailreboot/retailreboot/pkg/chart"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name   string
	title  string
	series *chart.Series
}

// WithJSONName records the dataset chart name.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONTitle records the display title.
func WithJSONTitle(title string) JSONOption { return func(r *jsonRenderer) { r.title = title } }

// WithJSONSeries embeds the source series so clients can re-render it.
func WithJSONSeries(s chart.Series) JSONOption {
	return func(r *jsonRenderer) { r.series = &s }
}

type jsonOutput struct {
	Name        string        `json:"name,omitempty"`
	Title       string        `json:"title,omitempty"`
	Series      *chart.Series `json:"series,omitempty"`
	TargetLabel string        `json:"target_label,omitempty"`
	chart.Spec
}

// RenderJSON exports the spec as a pretty-printed JSON document.
func RenderJSON(spec chart.Spec, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Name:   r.name,
		Title:  r.title,
		Series: r.series,
		Spec:   spec,
	}
	if spec.Target != nil {
		out.TargetLabel = spec.Target.Label()
	}
	return json.MarshalIndent(out, "", "  ")
}
