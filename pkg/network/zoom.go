package network

import "math"

// Zoom bounds.
const (
	MinZoom     Zoom = 0.5
	MaxZoom     Zoom = 1.5
	DefaultZoom Zoom = 1
	ZoomStep         = 0.1
)

// Zoom is the map scale factor.
type Zoom float64

// ClampZoom limits z to [MinZoom, MaxZoom], rounded to a tenth.
// NaN resolves to DefaultZoom.
func ClampZoom(z float64) Zoom {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	z = math.Round(z*10) / 10
	return Zoom(max(float64(MinZoom), min(float64(MaxZoom), z)))
}

// In returns the next larger zoom step.
func (z Zoom) In() Zoom { return ClampZoom(float64(z) + ZoomStep) }

// Out returns the next smaller zoom step.
func (z Zoom) Out() Zoom { return ClampZoom(float64(z) - ZoomStep) }

// Reset returns DefaultZoom.
func (z Zoom) Reset() Zoom { return DefaultZoom }

// Percent returns the zoom as a whole percentage, e.g. 110.
func (z Zoom) Percent() int { return int(math.Round(float64(z) * 100)) }
