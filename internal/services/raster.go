package services

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// RasterizeDeck renders every page of a PDF as a PNG named slide_NN.png,
// numbered from 0, and returns the paths in page order. Pages already on
// disk from an earlier run are reused as-is.
func RasterizeDeck(pdfPath, outputDir string, dpi int) ([]string, error) {
	if existing, err := filepath.Glob(filepath.Join(outputDir, "slide_*.png")); err == nil && len(existing) > 0 {
		log.Info().Int("images", len(existing)).Msg("Reusing existing slide images")
		return existing, nil
	}

	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("failed to find PDF: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rasterizing: %w", err)
	}
	defer doc.Close()

	paths := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("failed to rasterize page %d: %w", i+1, err)
		}

		path := filepath.Join(outputDir, fmt.Sprintf("slide_%02d.png", i))
		out, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create image file: %w", err)
		}
		if err := png.Encode(out, img); err != nil {
			out.Close()
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		out.Close()
		paths = append(paths, path)
	}

	log.Info().Int("pages", len(paths)).Int("dpi", dpi).Msg("Rasterized deck to images")
	return paths, nil
}
