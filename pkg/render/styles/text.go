package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

const (
	fontCharWidth = 0.55
	fontSizeMin   = 8.0
	fontSizeMax   = 14.0
)

// LabelFontSize picks a font size that fits text into width, clamped to a
// readable range.
func LabelFontSize(text string, width float64) float64 {
	n := max(1, len(text))
	byWidth := width / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

// TruncateLabel shortens text so it fits width at the given font size.
// At least three characters are always kept.
func TruncateLabel(text string, width, fontSize float64) string {
	maxChars := max(3, int(width/(fontSize*fontCharWidth)))
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars-2] + ".."
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func barID(category, segment int) string {
	return "bar-" + strconv.Itoa(category) + "-" + strconv.Itoa(segment)
}
