package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// charWidth measures one unit per rune, spaces included.
func charWidth(s string) float64 {
	return float64(len([]rune(s)))
}

func TestWrapText(t *testing.T) {
	lines := WrapText("aa bb cc dd", 6, charWidth)
	assert.Equal(t, []string{"aa bb", "cc dd"}, lines)
}

func TestWrapTextSingleLine(t *testing.T) {
	lines := WrapText("short", 100, charWidth)
	assert.Equal(t, []string{"short"}, lines)
}

func TestWrapTextEmpty(t *testing.T) {
	assert.Empty(t, WrapText("", 10, charWidth))
	assert.Empty(t, WrapText("   ", 10, charWidth))
}

func TestWrapTextOverlongWord(t *testing.T) {
	lines := WrapText("extraordinarily big", 8, charWidth)
	assert.Equal(t, []string{"extraordinarily", "big"}, lines)
}

func TestWrapTextNeverExceedsLimit(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog while carrying a surprisingly heavy parcel"
	const limit = 18.0

	for _, line := range WrapText(text, limit, charWidth) {
		if strings.Contains(line, " ") {
			assert.Less(t, charWidth(line), limit, "multi-word line %q exceeds limit", line)
		}
	}
}

func TestWrapTextKeepsAllWords(t *testing.T) {
	text := "alpha beta gamma delta epsilon"
	lines := WrapText(text, 12, charWidth)
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}
