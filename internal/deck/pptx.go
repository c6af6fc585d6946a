package deck

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/local/slidecast/internal/models"
	"github.com/local/slidecast/internal/pptx"
)

// RenderPPTX writes the deck as a PowerPoint presentation with the same
// layout and theme as the PDF rendering. Icon lookup and skip rules match
// RenderPDF.
func RenderPPTX(d *models.SlideDeck, icons map[string]string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	prs := pptx.New(pptx.Inches(10), pptx.Inches(7.5))

	buildTitleSlide(prs, d.TitleSlide, icons["title"])
	for i, slide := range d.ContentSlides {
		num := i + 1
		buildContentSlide(prs, slide, num, icons[fmt.Sprintf("slide_%d", num)])
	}

	if err := prs.WriteFile(outputPath); err != nil {
		return fmt.Errorf("failed to write PPTX deck: %w", err)
	}
	return nil
}

func buildTitleSlide(prs *pptx.Presentation, title models.TitleSlide, iconPath string) {
	s := prs.AddSlide()

	// Two-band background.
	s.AddRect(pptx.Rect{
		X: 0, Y: 0, W: pptx.Inches(10), H: pptx.Inches(4),
		FillHex: Primary.Hex(),
	})
	s.AddRect(pptx.Rect{
		X: 0, Y: pptx.Inches(4), W: pptx.Inches(10), H: pptx.Inches(3.5),
		FillHex: Secondary.Hex(),
	})

	// Decorative blocks bleeding off the top-right and bottom-left corners.
	s.AddRect(pptx.Rect{
		X: pptx.Inches(7.5), Y: pptx.Inches(-1), W: pptx.Inches(4), H: pptx.Inches(4),
		FillHex: Accent.Hex(), Transparency: 0.3,
	})
	s.AddRect(pptx.Rect{
		X: pptx.Inches(-1.5), Y: pptx.Inches(5), W: pptx.Inches(3.5), H: pptx.Inches(3.5),
		FillHex: Purple.Hex(), Transparency: 0.3,
	})

	if iconUsable(iconPath) {
		s.AddPicture(pptx.Picture{Path: iconPath, X: pptx.Inches(4), Y: pptx.Inches(1.2), W: pptx.Inches(2)})
	}

	s.AddTextBox(pptx.TextBox{
		X: pptx.Inches(0.5), Y: pptx.Inches(3.2), W: pptx.Inches(9), H: pptx.Inches(1.5),
		WordWrap: true,
		Paragraphs: []pptx.Paragraph{
			{Text: title.Title, SizePt: 48, Bold: true, ColorHex: White.Hex(), Center: true},
		},
	})
	s.AddTextBox(pptx.TextBox{
		X: pptx.Inches(1), Y: pptx.Inches(5), W: pptx.Inches(8), H: pptx.Inches(1.2),
		Paragraphs: []pptx.Paragraph{
			{Text: title.Subtitle, SizePt: 28, ColorHex: White.Hex(), Center: true},
		},
	})
}

func buildContentSlide(prs *pptx.Presentation, slide models.ContentSlide, num int, iconPath string) {
	s := prs.AddSlide()
	color := SlideColor(num).Hex()

	s.AddRect(pptx.Rect{
		X: 0, Y: 0, W: pptx.Inches(10), H: pptx.Inches(7.5),
		FillHex: Background.Hex(),
	})

	// Left accent bar.
	s.AddRect(pptx.Rect{
		X: 0, Y: 0, W: pptx.Inches(0.4), H: pptx.Inches(7.5),
		FillHex: color,
	})

	if iconUsable(iconPath) {
		// White plate with a colored border behind the icon.
		s.AddRect(pptx.Rect{
			X: pptx.Inches(0.7), Y: pptx.Inches(1.7), W: pptx.Inches(2.4), H: pptx.Inches(2.4),
			FillHex: White.Hex(), LineHex: color, LineWidthPt: 3,
		})
		s.AddPicture(pptx.Picture{Path: iconPath, X: pptx.Inches(1), Y: pptx.Inches(2), W: pptx.Inches(1.8)})
	}

	// Title band behind the title box.
	s.AddRect(pptx.Rect{
		X: pptx.Inches(3.3), Y: pptx.Inches(0.7), W: pptx.Inches(6.4), H: pptx.Inches(1.4),
		FillHex: color,
	})
	s.AddTextBox(pptx.TextBox{
		X: pptx.Inches(3.5), Y: pptx.Inches(0.8), W: pptx.Inches(6), H: pptx.Inches(1.2),
		WordWrap: true, AnchorMiddle: true,
		Paragraphs: []pptx.Paragraph{
			{Text: slide.Title, SizePt: 28, Bold: true, ColorHex: White.Hex()},
		},
	})

	// White content card.
	s.AddRect(pptx.Rect{
		X: pptx.Inches(3.2), Y: pptx.Inches(2.2), W: pptx.Inches(6.6), H: pptx.Inches(4.8),
		FillHex: White.Hex(), LineHex: CardBorder.Hex(), LineWidthPt: 2,
	})

	paras := make([]pptx.Paragraph, 0, len(slide.Bullets))
	for i, bullet := range slide.Bullets {
		p := pptx.Paragraph{
			Text:        "- " + bullet,
			SizePt:      18,
			ColorHex:    TextDark.Hex(),
			LineSpacing: 1.3,
		}
		if i > 0 {
			p.SpaceBeforePt = 14
		}
		paras = append(paras, p)
	}
	s.AddTextBox(pptx.TextBox{
		X: pptx.Inches(3.5), Y: pptx.Inches(2.5), W: pptx.Inches(6), H: pptx.Inches(4.2),
		WordWrap:   true,
		Paragraphs: paras,
	})

	// Corner flourish.
	s.AddRect(pptx.Rect{
		X: pptx.Inches(8.5), Y: pptx.Inches(6.5), W: pptx.Inches(2), H: pptx.Inches(1.5),
		FillHex: color, Transparency: 0.2,
	})

	if slide.SpeakerNotes != "" {
		s.Notes = slide.SpeakerNotes
	}
}
