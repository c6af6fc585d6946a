// Package deck renders slide decks as PowerPoint presentations and as
// paginated PDFs sharing the same visual layout.
package deck

import "fmt"

// RGB is a color in the deck theme.
type RGB struct {
	R, G, B int
}

// Hex returns the RRGGBB form used by OOXML color elements.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Vibrant modern theme shared by both renderers.
var (
	Primary    = RGB{41, 98, 255}   // electric blue
	Secondary  = RGB{16, 185, 129}  // emerald green
	Accent     = RGB{251, 146, 60}  // warm orange
	Purple     = RGB{139, 92, 246}
	Pink       = RGB{236, 72, 153}
	Background = RGB{248, 250, 252} // light gray
	TextDark   = RGB{15, 23, 42}    // almost black
	TextLight  = RGB{100, 116, 139} // slate gray
	White      = RGB{255, 255, 255}
	CardBorder = RGB{226, 232, 240}
)

// contentPalette rotates so consecutive slides get different accents.
var contentPalette = []RGB{Primary, Secondary, Purple, Pink}

// SlideColor picks the accent color for a 1-based content slide number.
func SlideColor(slideNum int) RGB {
	return contentPalette[slideNum%len(contentPalette)]
}
