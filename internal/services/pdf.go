package services

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog/log"
)

const (
	// MinDigitalTextChars is the per-page character count below which the
	// page is rasterized and run through OCR.
	MinDigitalTextChars = 100

	// ocrDPI doubles the 72 DPI base so small print survives rasterization.
	ocrDPI = 144
)

// Extraction methods per page
const (
	MethodDigital = "digital"
	MethodOCR     = "ocr"
	MethodHybrid  = "hybrid"
)

// PageText is the extracted text of a single page with its triage result
type PageText struct {
	Number    int    `json:"number"`
	Text      string `json:"text"`
	Method    string `json:"method"` // digital, ocr, hybrid
	CharCount int    `json:"char_count"`
	WordCount int    `json:"word_count"`
}

// Document is the full extraction result for one PDF
type Document struct {
	Filename     string     `json:"filename"`
	NumPages     int        `json:"num_pages"`
	Pages        []PageText `json:"pages"`
	FullText     string     `json:"full_text"`
	DigitalPages int        `json:"digital_pages"`
	OCRPages     int        `json:"ocr_pages"`
	HybridPages  int        `json:"hybrid_pages"`
}

// Extractor reads PDFs page by page, falling back to OCR on pages whose
// digital text is too short to be useful.
type Extractor struct {
	Language string

	ocr      *gosseract.Client
	ocrTried bool
}

func NewExtractor(language string) *Extractor {
	if language == "" {
		language = "eng"
	}
	return &Extractor{Language: language}
}

// Close releases the OCR engine if one was started.
func (e *Extractor) Close() error {
	if e.ocr != nil {
		err := e.ocr.Close()
		e.ocr = nil
		return err
	}
	return nil
}

// ExtractDocument extracts text from every page of the PDF at path.
// Pages whose digital text is MinDigitalTextChars or shorter are OCR'd;
// the OCR output is kept only when it is longer than the digital text.
func (e *Extractor) ExtractDocument(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find PDF: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	// The rasterizer is only opened if some page actually needs OCR.
	var rasterDoc *fitz.Document
	defer func() {
		if rasterDoc != nil {
			rasterDoc.Close()
		}
	}()

	doc := &Document{
		Filename: filepath.Base(path),
		NumPages: r.NumPage(),
	}

	var pageTexts []string
	for pageIndex := 1; pageIndex <= doc.NumPages; pageIndex++ {
		digital := ""
		p := r.Page(pageIndex)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err == nil {
				digital = strings.TrimSpace(text)
			}
		}

		ocrText := ""
		if needsOCR(digital) {
			if rasterDoc == nil {
				rasterDoc, err = fitz.New(path)
				if err != nil {
					return nil, fmt.Errorf("failed to open PDF for rasterization: %w", err)
				}
			}
			ocrText, err = e.ocrPage(rasterDoc, pageIndex-1)
			if err != nil {
				log.Warn().Err(err).Int("page", pageIndex).Msg("OCR failed, keeping digital text")
			}
		}
		chosen, method := choosePageText(digital, ocrText)

		switch method {
		case MethodDigital:
			doc.DigitalPages++
		case MethodOCR:
			doc.OCRPages++
		case MethodHybrid:
			doc.HybridPages++
		}

		doc.Pages = append(doc.Pages, PageText{
			Number:    pageIndex,
			Text:      chosen,
			Method:    method,
			CharCount: utf8.RuneCountInString(chosen),
			WordCount: len(strings.Fields(chosen)),
		})
		pageTexts = append(pageTexts, chosen)
	}

	doc.FullText = strings.Join(pageTexts, "\n\n")
	return doc, nil
}

// needsOCR reports whether a page's digital text is short enough to be
// worth rasterizing.
func needsOCR(digital string) bool {
	return utf8.RuneCountInString(digital) <= MinDigitalTextChars
}

// choosePageText picks between the digital and OCR text for one page:
// digital text above the threshold always wins; below it, the longer of
// the two wins, with ties kept digital.
func choosePageText(digital, ocrText string) (string, string) {
	if !needsOCR(digital) {
		return digital, MethodDigital
	}
	if utf8.RuneCountInString(ocrText) > utf8.RuneCountInString(digital) {
		return ocrText, MethodOCR
	}
	return digital, MethodHybrid
}

func (e *Extractor) ocrPage(rasterDoc *fitz.Document, pageIndex int) (string, error) {
	client, err := e.ocrClient()
	if err != nil {
		return "", err
	}

	img, err := rasterDoc.ImageDPI(pageIndex, ocrDPI)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode page image: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to run OCR: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ocrClient starts the Tesseract engine on first use. A failed start is
// remembered so scanned pages degrade to their digital text instead of
// retrying the engine on every page.
func (e *Extractor) ocrClient() (*gosseract.Client, error) {
	if e.ocr != nil {
		return e.ocr, nil
	}
	if e.ocrTried {
		return nil, fmt.Errorf("OCR engine unavailable")
	}
	e.ocrTried = true

	client := gosseract.NewClient()
	if err := client.SetLanguage(e.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", e.Language, err)
	}
	e.ocr = client
	return client, nil
}
