// Package pipeline chains the conversion stages that turn an input PDF
// into a summarized slide deck and a narrated video.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/local/slidecast/internal/config"
	"github.com/local/slidecast/internal/deck"
	"github.com/local/slidecast/internal/models"
	"github.com/local/slidecast/internal/services"
)

// Options control a single conversion run.
type Options struct {
	// InputPath is a PDF file, or a directory whose first PDF (in
	// lexical order) is converted.
	InputPath string
	// OutDir receives slides.pptx, slides.pdf, video.mp4 and an
	// intermediate/ directory with the working artifacts.
	OutDir string
	// NumSlides caps the content slides; 0 uses the configured default.
	NumSlides int
	// MusicPath optionally names background music for the video.
	MusicPath string
	// SkipVideo stops after the decks are rendered.
	SkipVideo bool
	// Progress, when set, receives each stage name as it starts.
	Progress func(stage string)
}

func (o Options) report(stage string) {
	if o.Progress != nil {
		o.Progress(stage)
	}
}

// Result lists the artifacts a run produced.
type Result struct {
	Deck      *models.SlideDeck
	TextPath  string
	DeckPath  string
	PPTXPath  string
	PDFPath   string
	VideoPath string
}

// Runner executes the pipeline stages in order. One Runner serves many
// runs; each run keeps its own working state on disk.
type Runner struct {
	cfg *config.Config
	ai  services.AIProvider
}

// New builds a Runner from configuration. The Gemini client is created
// eagerly so missing credentials surface before any work starts.
func New(cfg *config.Config) (*Runner, error) {
	ai, err := services.NewGeminiClient(cfg.GeminiAPIKeys, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, ai: ai}, nil
}

// NewWithProvider builds a Runner around an existing text generator.
func NewWithProvider(cfg *config.Config, ai services.AIProvider) *Runner {
	return &Runner{cfg: cfg, ai: ai}
}

// Run executes extraction, summarization, icon resolution, deck
// rendering and video assembly against opts.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	pdfPath, err := resolveInput(opts.InputPath)
	if err != nil {
		return nil, err
	}

	interDir := filepath.Join(opts.OutDir, "intermediate")
	if err := os.MkdirAll(interDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	numSlides := opts.NumSlides
	if numSlides <= 0 {
		numSlides = r.cfg.NumSlides
	}

	opts.report("extract")
	log.Info().Str("pdf", pdfPath).Msg("Extracting text")
	extractor := services.NewExtractor(r.cfg.OCRLanguage)
	defer extractor.Close()

	doc, err := extractor.ExtractDocument(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	textPath := filepath.Join(interDir, "extracted_text.txt")
	if err := os.WriteFile(textPath, []byte(doc.FullText), 0o644); err != nil {
		return nil, fmt.Errorf("failed to save extracted text: %w", err)
	}
	log.Info().
		Int("pages", doc.NumPages).
		Int("digital", doc.DigitalPages).
		Int("ocr", doc.OCRPages).
		Int("hybrid", doc.HybridPages).
		Int("chars", len(doc.FullText)).
		Msg("Extraction complete")

	opts.report("summarize")
	summarizer := services.NewSummarizer(r.ai)
	d := summarizer.BuildDeck(ctx, doc.FullText, doc.Filename, numSlides)

	deckPath := filepath.Join(interDir, "slides.json")
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode slide deck: %w", err)
	}
	if err := os.WriteFile(deckPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save slide deck: %w", err)
	}
	log.Info().Int("slides", d.TotalSlides).Msg("Slide deck generated")

	opts.report("icons")
	resolver := services.NewIconResolver(r.ai, r.cfg.NounProjectKey, r.cfg.NounProjectSecret)
	icons, err := resolver.GenerateIcons(ctx, d, filepath.Join(interDir, "images"))
	if err != nil {
		return nil, fmt.Errorf("icon generation failed: %w", err)
	}

	res := &Result{Deck: d, TextPath: textPath, DeckPath: deckPath}

	opts.report("render")
	res.PPTXPath = filepath.Join(opts.OutDir, "slides.pptx")
	if err := deck.RenderPPTX(d, icons, res.PPTXPath); err != nil {
		return nil, err
	}
	log.Info().Str("pptx", res.PPTXPath).Msg("PowerPoint deck written")

	res.PDFPath = filepath.Join(opts.OutDir, "slides.pdf")
	if err := deck.RenderPDF(d, icons, res.PDFPath); err != nil {
		return nil, err
	}
	log.Info().Str("pdf", res.PDFPath).Msg("PDF deck written")

	if opts.SkipVideo {
		log.Info().Msg("Video stage skipped")
		return res, nil
	}

	videoPath, err := r.composeVideo(ctx, d, res.PDFPath, interDir, opts)
	if err != nil {
		return nil, err
	}
	res.VideoPath = videoPath
	return res, nil
}

func (r *Runner) composeVideo(ctx context.Context, d *models.SlideDeck, pdfPath, interDir string, opts Options) (string, error) {
	composer, err := services.NewVideoComposer(r.cfg.VideoFPS, r.cfg.FadeDuration)
	if err != nil {
		return "", err
	}

	opts.report("rasterize")
	images, err := services.RasterizeDeck(pdfPath, filepath.Join(interDir, "slide_images"), r.cfg.RasterDPI)
	if err != nil {
		return "", err
	}

	tts, err := services.NewTTSGenerator(r.cfg.OpenAIAPIKey, r.cfg.TTSModel, r.cfg.TTSVoice)
	if err != nil {
		return "", err
	}
	narrator := services.NewNarrator(tts, composer.ProbeDuration, r.cfg.TitleDuration)

	opts.report("narrate")
	clips, err := narrator.GenerateNarration(ctx, d, filepath.Join(interDir, "audio"))
	if err != nil {
		return "", err
	}
	log.Info().Float64("seconds", services.TotalDuration(clips)).Msg("Narration ready")

	opts.report("compose")
	videoPath := filepath.Join(opts.OutDir, "video.mp4")
	if err := composer.Compose(ctx, images, clips, videoPath, opts.MusicPath); err != nil {
		return "", err
	}
	return videoPath, nil
}

// resolveInput accepts a PDF path directly, or picks the first PDF from
// a directory so a watched inbox folder works without naming files.
func resolveInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to find input: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.pdf"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no PDF files found in %s", path)
	}
	log.Info().Str("pdf", filepath.Base(matches[0])).Msg("Auto-detected input PDF")
	return matches[0], nil
}
