package chart

import "strconv"

// FormatValue formats a number the way chart annotations show it:
// integers without a decimal point, everything else with the shortest
// representation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
