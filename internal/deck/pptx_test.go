package deck

import (
	"archive/zip"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDeckPart(t *testing.T, pkgPath, partName string) string {
	t.Helper()
	zr, err := zip.OpenReader(pkgPath)
	require.NoError(t, err)
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != partName {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	return ""
}

func TestRenderPPTX(t *testing.T) {
	dir := t.TempDir()
	iconPath := filepath.Join(dir, "icon.png")
	writeTestIcon(t, iconPath)

	deck := sampleDeck()
	icons := map[string]string{
		"title":   iconPath,
		"slide_1": iconPath,
	}

	pkgPath := filepath.Join(dir, "out", "slides.pptx")
	require.NoError(t, RenderPPTX(deck, icons, pkgPath))

	// One slide part per deck slide, title first.
	assert.NotEmpty(t, readDeckPart(t, pkgPath, "ppt/slides/slide1.xml"))
	assert.NotEmpty(t, readDeckPart(t, pkgPath, "ppt/slides/slide4.xml"))
	assert.Empty(t, readDeckPart(t, pkgPath, "ppt/slides/slide5.xml"))

	title := readDeckPart(t, pkgPath, "ppt/slides/slide1.xml")
	assert.Contains(t, title, "Quarterly Engineering Review")
	assert.Contains(t, title, `<a:alpha val="70000"/>`)

	first := readDeckPart(t, pkgPath, "ppt/slides/slide2.xml")
	assert.Contains(t, first, "- Error budget held through the quarter")
	assert.Contains(t, first, `<a:alpha val="80000"/>`)
	// First content slide draws in the emerald accent.
	assert.Contains(t, first, Secondary.Hex())

	// Only the second content slide carries speaker notes.
	notes := readDeckPart(t, pkgPath, "ppt/notesSlides/notesSlide1.xml")
	assert.Contains(t, notes, "Walk through the wrap behavior here.")
	assert.Empty(t, readDeckPart(t, pkgPath, "ppt/notesSlides/notesSlide2.xml"))
}

func TestRenderPPTXWithoutIcons(t *testing.T) {
	pkgPath := filepath.Join(t.TempDir(), "slides.pptx")
	require.NoError(t, RenderPPTX(sampleDeck(), map[string]string{}, pkgPath))

	// No icons means no media parts and no icon plates.
	zr, err := zip.OpenReader(pkgPath)
	require.NoError(t, err)
	defer zr.Close()
	for _, file := range zr.File {
		assert.NotContains(t, file.Name, "ppt/media/")
	}
}
