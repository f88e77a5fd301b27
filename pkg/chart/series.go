package chart

import (
	"math"
	"strings"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
)

// Mode selects how a series is presented.
type Mode string

// Presentation modes.
const (
	ModeBar  Mode = "bar"
	ModeLine Mode = "line"
	ModeArea Mode = "area"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeBar, ModeLine, ModeArea}

// ParseMode converts a mode name (case-insensitive) into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBar:
		return ModeBar, nil
	case ModeLine:
		return ModeLine, nil
	case ModeArea:
		return ModeArea, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidMode, "invalid chart mode: %q (must be one of: bar, line, area)", s)
	}
}

// Series is a labeled sequence of values with an optional reference target.
type Series struct {
	Labels []string  `json:"labels" toml:"labels" yaml:"labels"`
	Values []float64 `json:"values" toml:"values" yaml:"values"`
	Target *float64  `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty"`
}

// NewSeries builds a series without a target.
func NewSeries(labels []string, values []float64) Series {
	return Series{Labels: labels, Values: values}
}

// WithTarget returns a copy of s with the given target value.
func (s Series) WithTarget(target float64) Series {
	s.Target = &target
	return s
}

// Len returns the number of data points.
func (s Series) Len() int { return len(s.Values) }

// HasTarget reports whether a target value is set.
func (s Series) HasTarget() bool { return s.Target != nil }

// Validate checks the series invariants: at least one value, one label per
// value, and only finite numbers.
func (s Series) Validate() error {
	if len(s.Values) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidSeries, "series must contain at least one value")
	}
	if len(s.Labels) != len(s.Values) {
		return apperrors.New(apperrors.ErrCodeInvalidSeries, "series has %d labels but %d values", len(s.Labels), len(s.Values))
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.New(apperrors.ErrCodeInvalidSeries, "value %d (%s) is not a finite number", i, s.Labels[i])
		}
	}
	if s.Target != nil && (math.IsNaN(*s.Target) || math.IsInf(*s.Target, 0)) {
		return apperrors.New(apperrors.ErrCodeInvalidSeries, "target is not a finite number")
	}
	return nil
}

// Max returns the largest value in the series, or 0 for an empty series.
func (s Series) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		m = max(m, v)
	}
	return m
}
