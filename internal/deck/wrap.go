package deck

import "strings"

// WidthFunc measures the rendered width of a string in the active font.
type WidthFunc func(s string) float64

// WrapText greedily packs words into lines whose measured width stays
// under limit. A single word wider than the limit still gets its own
// line rather than being dropped.
func WrapText(text string, limit float64, width WidthFunc) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if width(test) < limit {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
