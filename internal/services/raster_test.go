package services

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterizeDeck(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "slides.pdf")
	writeTestPDF(t, pdfPath, []string{"first slide", "second slide"})

	outDir := filepath.Join(dir, "slide_images")
	paths, err := RasterizeDeck(pdfPath, outDir, 100)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(outDir, "slide_00.png"), paths[0])
	assert.Equal(t, filepath.Join(outDir, "slide_01.png"), paths[1])

	for _, p := range paths {
		f, err := os.Open(p)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Greater(t, cfg.Width, 0)
	}
}

func TestRasterizeDeckReusesExistingImages(t *testing.T) {
	outDir := t.TempDir()
	for _, name := range []string{"slide_00.png", "slide_01.png", "slide_02.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(outDir, name), []byte("stub"), 0o644))
	}

	paths, err := RasterizeDeck(filepath.Join(outDir, "does-not-exist.pdf"), outDir, 100)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.True(t, strings.HasSuffix(paths[0], "slide_00.png"))
	assert.True(t, strings.HasSuffix(paths[2], "slide_02.png"))
}

func TestRasterizeDeckMissingPDF(t *testing.T) {
	dir := t.TempDir()
	_, err := RasterizeDeck(filepath.Join(dir, "absent.pdf"), filepath.Join(dir, "out"), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find PDF")
}
