package deck

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/local/slidecast/internal/models"
)

// Page geometry in points: 10in x 7.5in landscape, matching the PPTX
// slide size at 72dpi.
const (
	pageW = 720.0
	pageH = 540.0
)

// RenderPDF writes the deck as a PDF with one slide per page. Icon paths
// are looked up under the "title" and "slide_N" keys; missing or broken
// icons are skipped.
func RenderPDF(d *models.SlideDeck, icons map[string]string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	f.SetAutoPageBreak(false, 0)
	tr := f.UnicodeTranslatorFromDescriptor("")

	drawTitlePage(f, tr, d.TitleSlide, icons["title"])
	for i, slide := range d.ContentSlides {
		num := i + 1
		drawContentPage(f, tr, slide, num, icons[fmt.Sprintf("slide_%d", num)])
	}

	if err := f.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write PDF deck: %w", err)
	}
	return nil
}

func drawTitlePage(f *fpdf.Fpdf, tr func(string) string, title models.TitleSlide, iconPath string) {
	f.AddPage()

	// Two-band background.
	setFill(f, Primary)
	f.Rect(0, 0, pageW, 288, "F")
	setFill(f, Secondary)
	f.Rect(0, 288, pageW, pageH-288, "F")

	// Decorative circles bleeding off the top-right and bottom-left corners.
	f.SetAlpha(0.3, "Normal")
	setFill(f, Accent)
	f.Circle(pageW-72, -72, 144, "F")
	setFill(f, Purple)
	f.Circle(-72, pageH, 126, "F")
	f.SetAlpha(1.0, "Normal")

	if iconUsable(iconPath) {
		f.ImageOptions(iconPath, (pageW-144)/2, 86, 144, 144, false, fpdf.ImageOptions{}, 0, "")
	}

	f.SetTextColor(White.R, White.G, White.B)
	f.SetFont("Helvetica", "B", 38)
	y := 250.0
	for _, line := range WrapText(title.Title, pageW-120, measure(f, tr)) {
		drawCentered(f, tr, line, y)
		y += 48
	}

	f.SetFont("Helvetica", "B", 22)
	y += 60
	for _, line := range WrapText(title.Subtitle, pageW-160, measure(f, tr)) {
		drawCentered(f, tr, line, y)
		y += 30
	}
}

func drawContentPage(f *fpdf.Fpdf, tr func(string) string, slide models.ContentSlide, num int, iconPath string) {
	f.AddPage()
	color := SlideColor(num)

	setFill(f, Background)
	f.Rect(0, 0, pageW, pageH, "F")

	// Left accent bar.
	setFill(f, color)
	f.Rect(0, 0, 29, pageH, "F")

	if iconUsable(iconPath) {
		// White plate with a colored border, icon centered inside.
		setFill(f, White)
		f.SetDrawColor(color.R, color.G, color.B)
		f.SetLineWidth(3)
		f.Rect(50, 122, 173, 173, "FD")
		f.ImageOptions(iconPath, 71.5, 143.5, 130, 130, false, fpdf.ImageOptions{}, 0, "")
	}

	// Title band, bleeding off the top edge.
	setFill(f, color)
	f.Rect(238, -17, 461, 114, "F")

	f.SetTextColor(White.R, White.G, White.B)
	f.SetFont("Helvetica", "B", 24)
	titleLines := WrapText(slide.Title, 432, measure(f, tr))
	if len(titleLines) > 3 {
		titleLines = titleLines[:3]
	}
	y := 30.0
	for _, line := range titleLines {
		f.Text(252, y, tr(line))
		y += 30
	}

	// White content card.
	setFill(f, White)
	f.SetDrawColor(CardBorder.R, CardBorder.G, CardBorder.B)
	f.SetLineWidth(2)
	f.Rect(230, 158, 454, 302, "FD")

	f.SetTextColor(TextDark.R, TextDark.G, TextDark.B)
	f.SetFont("Helvetica", "", 18)
	y = 198
	const bottomY = 440 // stop before text overruns the card
	for _, bullet := range slide.Bullets {
		if y > bottomY {
			break
		}
		for _, line := range WrapText("- "+bullet, 414, measure(f, tr)) {
			if y > bottomY {
				break
			}
			f.Text(250, y, tr(line))
			y += 25
		}
		y += 15
	}

	// Corner flourish.
	f.SetAlpha(0.2, "Normal")
	setFill(f, color)
	f.Rect(612, 432, 144, 108, "F")
	f.SetAlpha(1.0, "Normal")
}

func setFill(f *fpdf.Fpdf, c RGB) {
	f.SetFillColor(c.R, c.G, c.B)
}

// measure adapts the renderer's string metrics to WrapText. Strings are
// translated to the core font encoding before measuring, the same
// translation applied when drawing.
func measure(f *fpdf.Fpdf, tr func(string) string) WidthFunc {
	return func(s string) float64 {
		return f.GetStringWidth(tr(s))
	}
}

func drawCentered(f *fpdf.Fpdf, tr func(string) string, line string, y float64) {
	t := tr(line)
	f.Text((pageW-f.GetStringWidth(t))/2, y, t)
}

// iconUsable reports whether path names a decodable image. Icons that
// failed to download or arrived corrupt are skipped, not fatal.
func iconUsable(path string) bool {
	if path == "" {
		return false
	}
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()
	_, _, err = image.DecodeConfig(file)
	return err == nil
}
