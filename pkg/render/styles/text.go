package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"unicode/utf8"
)

// FontFamily is the font stack used by every SVG sink.
const FontFamily = `Inter, 'Segoe UI', Helvetica, Arial, sans-serif`

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Truncate shortens s to at most maxChars runes, marking the cut with "..".
func Truncate(s string, maxChars int) string {
	maxChars = max(3, maxChars)
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-2]) + ".."
}

// Num formats a coordinate with at most two decimals and no trailing zeros.
func Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
