package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/local/slidecast/internal/models"
	"github.com/rs/zerolog/log"
)

const nounProjectBaseURL = "https://api.thenounproject.com"

// stopWords are skipped when deriving an icon query from a slide title
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true,
}

const iconQueryPrompt = `You are an expert at choosing icons for presentations.

Given this slide content, provide EXACTLY ONE icon search query (1-3 words maximum) that best represents the main concept.

The query should be:
- Simple and concrete (e.g., "document", "chart", "lightbulb", "network")
- Suitable for finding a professional icon
- Representative of the main concept

Slide Title: %s

Bullet Points:
%s

Respond with ONLY the search query, nothing else. No quotes, no explanation, just the query.`

const altIconQueryPrompt = `You are an expert at choosing icons for presentations.

Given this slide content, provide EXACTLY ONE ALTERNATIVE icon search query (1-3 words maximum).

IMPORTANT: Do NOT use any of these queries that already failed: %s

The query should be:
- Simple and concrete (e.g., "document", "chart", "lightbulb", "network")
- DIFFERENT from the failed queries
- More generic/broader than previous attempts
- Suitable for finding a professional icon

Slide Title: %s

Bullet Points:
%s

Respond with ONLY the search query, nothing else. No quotes, no explanation, just the query.`

// IconQueryGenerator derives short Noun Project search phrases from
// slide content.
type IconQueryGenerator struct {
	ai AIProvider
}

func NewIconQueryGenerator(ai AIProvider) *IconQueryGenerator {
	return &IconQueryGenerator{ai: ai}
}

// GenerateIconQuery asks the model for a 1-3 word query, falling back
// to the first meaningful title word.
func (g *IconQueryGenerator) GenerateIconQuery(ctx context.Context, title string, bullets []string) string {
	prompt := fmt.Sprintf(iconQueryPrompt, title, bulletList(bullets))
	response, err := g.ai.GenerateText(ctx, prompt, 0.2, 20)
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("Icon query generation failed, using title word")
		return fallbackQuery(title)
	}
	return cleanQuery(response)
}

// GenerateAlternativeQuery asks the model for a query different from
// every phrase that already failed.
func (g *IconQueryGenerator) GenerateAlternativeQuery(ctx context.Context, title string, bullets, failed []string) string {
	failedText := "'" + strings.Join(failed, "', '") + "'"
	prompt := fmt.Sprintf(altIconQueryPrompt, failedText, title, bulletList(bullets))

	response, err := g.ai.GenerateText(ctx, prompt, 0.5, 20)
	if err != nil {
		log.Warn().Err(err).Msg("Alternative query generation failed, using title word")
		return alternativeFromTitle(title, failed)
	}

	query := cleanQuery(response)
	if slices.Contains(failed, query) {
		return alternativeFromTitle(title, failed)
	}
	return query
}

// cleanQuery normalizes a model reply into a search phrase: trimmed,
// unquoted, lowercased and clipped to three words.
func cleanQuery(response string) string {
	query := strings.ToLower(strings.Trim(strings.TrimSpace(response), `"'`))
	words := strings.Fields(query)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// fallbackQuery picks the first meaningful word of the title.
func fallbackQuery(title string) string {
	for _, word := range strings.Fields(strings.ToLower(title)) {
		clean := strings.Trim(word, ",:;.!?")
		if !stopWords[clean] && len(clean) > 3 {
			return clean
		}
	}
	return "document"
}

// alternativeFromTitle picks the first meaningful title word not yet
// tried, then generic terms, then the terminal fallback.
func alternativeFromTitle(title string, avoid []string) string {
	for _, word := range strings.Fields(strings.ToLower(title)) {
		clean := strings.Trim(word, ",:;.!?")
		if stopWords[clean] || len(clean) <= 3 {
			continue
		}
		if !slices.Contains(avoid, clean) {
			return clean
		}
	}
	for _, generic := range []string{"icon", "symbol", "graphic", "element", "concept"} {
		if !slices.Contains(avoid, generic) {
			return generic
		}
	}
	return "circle"
}

func bulletList(bullets []string) string {
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		lines = append(lines, "- "+b)
	}
	return strings.Join(lines, "\n")
}

// IconResolver searches The Noun Project for one icon per slide and
// downloads it next to the other intermediate artifacts.
type IconResolver struct {
	// BaseURL is the API host, overridable in tests.
	BaseURL string

	queries    *IconQueryGenerator
	search     *http.Client
	downloader *http.Client
	configured bool
}

func NewIconResolver(ai AIProvider, apiKey, apiSecret string) *IconResolver {
	r := &IconResolver{
		BaseURL:    nounProjectBaseURL,
		queries:    NewIconQueryGenerator(ai),
		downloader: &http.Client{Timeout: 10 * time.Second},
		configured: apiKey != "" && apiSecret != "",
	}
	if r.configured {
		config := oauth1.NewConfig(apiKey, apiSecret)
		r.search = config.Client(oauth1.NoContext, oauth1.NewToken("", ""))
		r.search.Timeout = 15 * time.Second
	}
	return r
}

// GenerateIcons resolves an icon for the title slide and every content
// slide. The returned map holds only the slides whose download
// succeeded; renderers tolerate missing keys.
func (r *IconResolver) GenerateIcons(ctx context.Context, deck *models.SlideDeck, outputDir string) (map[string]string, error) {
	if !r.configured {
		log.Warn().Msg("Noun Project credentials not configured, skipping icons")
		return map[string]string{}, nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create icons directory: %w", err)
	}

	icons := make(map[string]string)

	titleQuery := r.queries.GenerateIconQuery(ctx, deck.TitleSlide.Title, []string{deck.TitleSlide.Subtitle})
	titlePath := filepath.Join(outputDir, "title.png")
	if r.SearchAndDownload(ctx, titleQuery, titlePath, deck.TitleSlide.Title, []string{deck.TitleSlide.Subtitle}) {
		icons["title"] = titlePath
	}

	for i, slide := range deck.ContentSlides {
		num := i + 1
		query := r.queries.GenerateIconQuery(ctx, slide.Title, slide.Bullets)
		path := filepath.Join(outputDir, fmt.Sprintf("slide_%02d.png", num))
		if r.SearchAndDownload(ctx, query, path, slide.Title, slide.Bullets) {
			icons[fmt.Sprintf("slide_%d", num)] = path
		}
	}

	log.Info().Int("icons", len(icons)).Int("slides", deck.TotalSlides).Msg("Icon resolution finished")
	return icons, nil
}

// SearchAndDownload walks the fallback chain for one slide: the given
// query, its first word when multi-word, two model alternatives that
// avoid every failed phrase, and finally a generic circle. A failed
// phrase is never retried; the chain halts on first success.
func (r *IconResolver) SearchAndDownload(ctx context.Context, query, savePath, title string, bullets []string) bool {
	var failed []string

	if r.trySearchDownload(ctx, query, savePath) {
		return true
	}
	failed = append(failed, query)

	if words := strings.Fields(query); len(words) > 1 {
		log.Debug().Str("query", words[0]).Msg("Retrying icon search with first word")
		if r.trySearchDownload(ctx, words[0], savePath) {
			return true
		}
		failed = append(failed, words[0])
	}

	for retry := 0; retry < 2; retry++ {
		alt := r.queries.GenerateAlternativeQuery(ctx, title, bullets, failed)
		log.Debug().Str("query", alt).Msg("Retrying icon search with alternative query")
		if r.trySearchDownload(ctx, alt, savePath) {
			return true
		}
		failed = append(failed, alt)
	}

	log.Debug().Msg("Falling back to generic circle icon")
	return r.trySearchDownload(ctx, "circle", savePath)
}

// trySearchDownload performs one search call and one download call.
// Any failure along the way fails the attempt.
func (r *IconResolver) trySearchDownload(ctx context.Context, query, savePath string) bool {
	endpoint := fmt.Sprintf("%s/v2/icon?query=%s&limit=1", r.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := r.search.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Icon search failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var result struct {
		Icons []struct {
			ThumbnailURL string `json:"thumbnail_url"`
			IconURL      string `json:"icon_url"`
		} `json:"icons"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false
	}
	if len(result.Icons) == 0 {
		return false
	}

	downloadURL := result.Icons[0].ThumbnailURL
	if downloadURL == "" {
		downloadURL = result.Icons[0].IconURL
	}
	if downloadURL == "" {
		return false
	}

	return r.download(ctx, downloadURL, savePath)
}

func (r *IconResolver) download(ctx context.Context, downloadURL, savePath string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return false
	}
	resp, err := r.downloader.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Icon download failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return false
	}
	out, err := os.Create(savePath)
	if err != nil {
		return false
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(savePath)
		return false
	}
	return true
}
