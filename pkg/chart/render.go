package chart

import (
	"fmt"
	"slices"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
)

// Spec is the declarative output of [Render].
//
// Bar mode fills Bars. Line and area modes fill Points and Polyline; area
// mode additionally fills Polygon. Target is nil when the series has no
// target.
type Spec struct {
	Mode     Mode        `json:"mode"`
	MaxValue float64     `json:"max_value"`
	Bars     []Bar       `json:"bars,omitempty"`
	Points   []Point     `json:"points,omitempty"`
	Polyline []Point     `json:"polyline,omitempty"`
	Polygon  []Point     `json:"polygon,omitempty"`
	Target   *TargetLine `json:"target,omitempty"`
}

// Bar is a single column in a bar chart.
type Bar struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Height float64 `json:"height"` // percent of the vertical extent
}

// Point is a data point on the 0–100 line/area viewbox.
// Y grows downwards, so Height = 100 - Y is the distance from the baseline.
type Point struct {
	Label  string  `json:"label,omitempty"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// TargetLine is the horizontal reference line for a series target.
type TargetLine struct {
	Value  float64 `json:"value"`
	Offset float64 `json:"offset"` // percent above the baseline
	Y      float64 `json:"y"`      // viewbox y (100 - Offset)
	Dashed bool    `json:"dashed"`
}

// Label returns the annotation shown next to the line.
func (t TargetLine) Label() string {
	return fmt.Sprintf("Target: %s", FormatValue(t.Value))
}

// Baseline is the viewbox y coordinate of the chart baseline.
const Baseline = 100.0

// Render normalizes series for the given mode.
// It returns an error only when the series violates its invariants or the
// mode is unknown; degenerate maxima are handled, not reported.
func Render(s Series, mode Mode) (Spec, error) {
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}

	maxValue := s.Max()
	spec := Spec{Mode: mode, MaxValue: maxValue}

	switch mode {
	case ModeBar:
		spec.Bars = buildBars(s, maxValue)
		if s.Target != nil {
			spec.Target = targetLine(*s.Target, maxValue, false)
		}
	case ModeLine, ModeArea:
		spec.Points = buildPoints(s, maxValue)
		spec.Polyline = slices.Clone(spec.Points)
		if mode == ModeArea {
			spec.Polygon = closePolygon(spec.Points)
		}
		if s.Target != nil {
			spec.Target = targetLine(*s.Target, maxValue, true)
		}
	default:
		return Spec{}, apperrors.New(apperrors.ErrCodeInvalidMode, "invalid chart mode: %q", mode)
	}

	return spec, nil
}

func buildBars(s Series, maxValue float64) []Bar {
	bars := make([]Bar, len(s.Values))
	for i, v := range s.Values {
		bars[i] = Bar{
			Label:  s.Labels[i],
			Value:  v,
			Height: clamp01(ratio(v, maxValue)) * 100,
		}
	}
	return bars
}

func buildPoints(s Series, maxValue float64) []Point {
	n := len(s.Values)
	points := make([]Point, n)
	for i, v := range s.Values {
		h := clamp01(ratio(v, maxValue)) * 100
		points[i] = Point{
			Label:  s.Labels[i],
			Value:  v,
			X:      XPosition(i, n),
			Y:      Baseline - h,
			Height: h,
		}
	}
	return points
}

// closePolygon anchors the line at both baseline corners so it can be filled.
func closePolygon(points []Point) []Point {
	poly := make([]Point, 0, len(points)+2)
	poly = append(poly, Point{X: 0, Y: Baseline})
	for _, p := range points {
		poly = append(poly, Point{X: p.X, Y: p.Y})
	}
	poly = append(poly, Point{X: 100, Y: Baseline})
	return poly
}

func targetLine(target, maxValue float64, dashed bool) *TargetLine {
	offset := ratio(target, maxValue) * 100
	return &TargetLine{
		Value:  target,
		Offset: offset,
		Y:      Baseline - offset,
		Dashed: dashed,
	}
}

// XPosition returns the viewbox x of the i-th of n points.
// A single point sits at 0.
func XPosition(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1) * 100
}

// ratio divides v by maxValue, resolving a non-positive maximum to 0.
func ratio(v, maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	return v / maxValue
}

func clamp01(r float64) float64 {
	return max(0, min(1, r))
}
