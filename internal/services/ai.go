package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/local/slidecast/internal/models"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// MaxSlides caps the number of content slides in a deck
const MaxSlides = 12

// AIProvider is the interface for AI text generation backends
type AIProvider interface {
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

// GeminiClient calls the Gemini API, rotating through an ordered pool of
// API keys when the current one hits a rate limit or quota.
type GeminiClient struct {
	Model string

	keys    []string
	current int
	clients map[int]*genai.Client
}

func NewGeminiClient(keys []string, model string) (*GeminiClient, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	return &GeminiClient{
		Model:   model,
		keys:    keys,
		clients: make(map[int]*genai.Client),
	}, nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	var lastErr error

	for attempt := 0; attempt < len(g.keys); attempt++ {
		client, err := g.client(ctx)
		if err != nil {
			return "", err
		}

		res, err := client.Models.GenerateContent(ctx, g.Model,
			[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
			&genai.GenerateContentConfig{
				Temperature:     genai.Ptr(temperature),
				MaxOutputTokens: maxTokens,
			})
		if err == nil {
			return strings.TrimSpace(res.Text()), nil
		}

		if !isQuotaError(err) {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		lastErr = err
		log.Warn().Int("key", g.current+1).Msg("API key hit rate limit")
		if !g.nextKey() {
			break
		}
	}

	return "", fmt.Errorf("all API keys failed: %w", lastErr)
}

// client returns the Gemini client for the current key, creating it on
// first use. The pool index persists across calls, so once a key is
// exhausted it is never tried again.
func (g *GeminiClient) client(ctx context.Context) (*genai.Client, error) {
	if c, ok := g.clients[g.current]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.keys[g.current]})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.clients[g.current] = c
	return c, nil
}

func (g *GeminiClient) nextKey() bool {
	g.current++
	if g.current >= len(g.keys) {
		return false
	}
	log.Info().Int("key", g.current+1).Msg("Switching to backup API key")
	return true
}

func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, term := range []string{"rate", "quota", "limit", "resource_exhausted"} {
		if strings.Contains(msg, term) {
			return true
		}
	}
	return false
}

const keyPointsPrompt = `You are an expert at creating educational slide presentations from technical documents.

Analyze the following text and extract the %d most important key points or topics.

For each key point, create a slide with:
1. A concise title (6-15 words)
2. 2-3 bullet points that explain the concept (each bullet 8-20 words)
3. Speaker notes (1-2 sentences for narration)

IMPORTANT RULES:
- ALWAYS use full forms instead of abbreviations (e.g., "Machine Learning" not "ML", "Data Science" not "DS", "Artificial Intelligence" not "AI")
- Expand ALL acronyms and abbreviations in titles, bullets, and speaker notes
- Make content accessible to general audience by avoiding jargon

Format your response as a JSON array of objects with this structure:
[
    {
        "title": "Slide title here",
        "bullets": ["First bullet point", "Second bullet point", "Third bullet point"],
        "speaker_notes": "One or two sentences explaining this concept for voice narration."
    },
    ...
]

Focus on:
- Main concepts and ideas
- Important insights or lessons
- Key takeaways
- Actionable information

Make slides educational, clear, and engaging.

TEXT TO ANALYZE:
%s

Respond ONLY with the JSON array, no additional text.`

const titleSlidePrompt = `Based on the following document text, create a compelling title slide.

Provide:
1. A main title (5-12 words)
2. A subtitle or tagline (8-15 words)

IMPORTANT: Use full forms instead of abbreviations (e.g., "Machine Learning" not "ML", "Data Science" not "DS").

Format as JSON:
{
    "title": "Main Title Here",
    "subtitle": "Subtitle or tagline here"
}

Document text (first 1000 chars):
%s

Respond ONLY with the JSON object.`

// Summarizer turns extracted document text into slide content
type Summarizer struct {
	ai AIProvider
}

func NewSummarizer(ai AIProvider) *Summarizer {
	return &Summarizer{ai: ai}
}

// BuildDeck generates the title slide, the content slides and the
// narration script for one document.
func (s *Summarizer) BuildDeck(ctx context.Context, text, filename string, numPoints int) *models.SlideDeck {
	title := s.GenerateTitleSlide(ctx, text, filename)
	content := s.ExtractKeyPoints(ctx, text, numPoints)

	return &models.SlideDeck{
		TitleSlide:      title,
		ContentSlides:   content,
		TotalSlides:     len(content) + 1,
		NarrationScript: NarrationScript(content),
	}
}

// ExtractKeyPoints asks the model for up to numPoints content slides.
// Any API or parse failure degrades to paragraph chunking so the
// pipeline always gets a deck.
func (s *Summarizer) ExtractKeyPoints(ctx context.Context, text string, numPoints int) []models.ContentSlide {
	if numPoints > MaxSlides {
		numPoints = MaxSlides
	}

	response, err := s.ai.GenerateText(ctx, fmt.Sprintf(keyPointsPrompt, numPoints, text), 0.3, 4000)
	if err != nil {
		log.Warn().Err(err).Msg("Slide generation failed, falling back to paragraph chunking")
		return fallbackExtraction(text, numPoints)
	}

	var raw []models.ContentSlide
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &raw); err != nil {
		log.Warn().Err(err).Msg("Failed to parse slide JSON, falling back to paragraph chunking")
		return fallbackExtraction(text, numPoints)
	}

	var slides []models.ContentSlide
	for _, slide := range raw {
		if slide.Title == "" || len(slide.Bullets) == 0 {
			continue
		}
		if len(slide.Bullets) > 3 {
			slide.Bullets = slide.Bullets[:3]
		}
		slides = append(slides, slide)
	}
	if len(slides) > MaxSlides {
		slides = slides[:MaxSlides]
	}
	return slides
}

// GenerateTitleSlide builds the opening slide from the document head,
// defaulting to a cleaned-up filename when the model is unavailable.
func (s *Summarizer) GenerateTitleSlide(ctx context.Context, text, filename string) models.TitleSlide {
	response, err := s.ai.GenerateText(ctx, fmt.Sprintf(titleSlidePrompt, truncateRunes(text, 1000)), 0.4, 200)
	if err != nil {
		log.Warn().Err(err).Msg("Title generation failed, using filename")
		return fallbackTitle(filename)
	}

	var title models.TitleSlide
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &title); err != nil || title.Title == "" {
		log.Warn().Err(err).Msg("Failed to parse title JSON, using filename")
		return fallbackTitle(filename)
	}
	return title
}

// NarrationScript joins the per-slide narration texts into the full
// video script.
func NarrationScript(slides []models.ContentSlide) string {
	parts := make([]string, 0, len(slides))
	for _, slide := range slides {
		parts = append(parts, slide.NarrationText())
	}
	return strings.Join(parts, " ")
}

// fallbackExtraction chunks the source text into slides when the model
// response is unusable: paragraphs are grouped evenly, the first three
// become bullets and the chunk itself becomes the notes.
func fallbackExtraction(text string, numPoints int) []models.ContentSlide {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 || numPoints <= 0 {
		return nil
	}

	perSlide := len(paragraphs) / numPoints
	if perSlide < 1 {
		perSlide = 1
	}

	var slides []models.ContentSlide
	for i := 0; i < len(paragraphs); i += perSlide {
		chunk := paragraphs[i:min(i+perSlide, len(paragraphs))]

		bullets := chunk
		if len(bullets) > 3 {
			bullets = bullets[:3]
		}
		slides = append(slides, models.ContentSlide{
			Title:        fmt.Sprintf("Key Point %d", len(slides)+1),
			Bullets:      bullets,
			SpeakerNotes: truncateRunes(strings.Join(chunk, " "), 200),
		})
		if len(slides) >= numPoints {
			break
		}
	}
	return slides
}

func fallbackTitle(filename string) models.TitleSlide {
	title := strings.ReplaceAll(filename, "_", " ")
	title = strings.ReplaceAll(title, ".pdf", "")
	return models.TitleSlide{
		Title:    title,
		Subtitle: "Key Insights and Learnings",
	}
}

// stripCodeFences removes a surrounding markdown code block from a
// model response.
func stripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
