package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPDF generates a digital PDF with one line of text per page.
// Generating keeps the file well-formed for the extraction library
// instead of relying on brittle handcrafted bytes.
func writeTestPDF(t *testing.T, path string, pages []string) {
	t.Helper()

	doc := fpdf.New("L", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 14, text)
	}
	require.NoError(t, doc.OutputFileAndClose(path))
}

func TestChoosePageText(t *testing.T) {
	long := strings.Repeat("digital text ", 20) // well above the threshold

	tests := []struct {
		name       string
		digital    string
		ocr        string
		wantText   string
		wantMethod string
	}{
		{"long digital wins without ocr", long, "", long, MethodDigital},
		{"ocr longer than short digital", "short", "recovered by ocr", "recovered by ocr", MethodOCR},
		{"ocr shorter than short digital", "short digital", "ocr", "short digital", MethodHybrid},
		{"equal lengths keep digital", "abc", "xyz", "abc", MethodHybrid},
		{"empty page stays hybrid", "", "", "", MethodHybrid},
		{"empty digital with ocr output", "", "scanned words", "scanned words", MethodOCR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, method := choosePageText(tt.digital, tt.ocr)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantMethod, method)
		})
	}
}

func TestNeedsOCRThreshold(t *testing.T) {
	at := strings.Repeat("a", MinDigitalTextChars)
	above := strings.Repeat("a", MinDigitalTextChars+1)

	assert.True(t, needsOCR(at), "text at the threshold should be triaged")
	assert.False(t, needsOCR(above), "text above the threshold is kept digital")
}

func TestExtractDocumentDigital(t *testing.T) {
	pageOne := "The quick brown fox jumps over the lazy dog while the narrator explains every step of the procedure in detail."
	pageTwo := "A second page with enough embedded text content that the extractor never needs to fall back to optical recognition."

	path := filepath.Join(t.TempDir(), "sample.pdf")
	writeTestPDF(t, path, []string{pageOne, pageTwo})

	e := NewExtractor("eng")
	defer e.Close()

	doc, err := e.ExtractDocument(path)
	require.NoError(t, err)

	assert.Equal(t, "sample.pdf", doc.Filename)
	assert.Equal(t, 2, doc.NumPages)
	require.Len(t, doc.Pages, 2)

	assert.Equal(t, 2, doc.DigitalPages)
	assert.Equal(t, 0, doc.OCRPages)
	assert.Equal(t, 0, doc.HybridPages)

	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Number)
		assert.Equal(t, MethodDigital, page.Method)
		assert.Greater(t, page.CharCount, MinDigitalTextChars)
		assert.Greater(t, page.WordCount, 0)
	}

	assert.Contains(t, doc.FullText, "quick brown fox")
	assert.Contains(t, doc.FullText, "second page")
}

func TestExtractDocumentMissingFile(t *testing.T) {
	e := NewExtractor("eng")
	defer e.Close()

	_, err := e.ExtractDocument(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
