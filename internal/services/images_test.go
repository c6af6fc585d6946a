package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/local/slidecast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Lightbulb"`, "lightbulb"},
		{"'network diagram'", "network diagram"},
		{"  Data Flow Chart Extra Words  ", "data flow chart"},
		{"chart", "chart"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanQuery(tt.in))
	}
}

func TestFallbackQuery(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"The Future of Machine Learning", "future"},
		{"An Introduction, to Networks!", "introduction"},
		{"Up and At It", "document"}, // nothing longer than three letters
		{"", "document"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fallbackQuery(tt.title))
	}
}

func TestAlternativeFromTitle(t *testing.T) {
	title := "Neural Networks for Beginners"

	assert.Equal(t, "neural", alternativeFromTitle(title, nil))
	assert.Equal(t, "networks", alternativeFromTitle(title, []string{"neural"}))
	assert.Equal(t, "beginners", alternativeFromTitle(title, []string{"neural", "networks"}))
	// all title words exhausted, generic terms take over
	avoid := []string{"neural", "networks", "beginners"}
	assert.Equal(t, "icon", alternativeFromTitle(title, avoid))
	avoid = append(avoid, "icon", "symbol", "graphic", "element", "concept")
	assert.Equal(t, "circle", alternativeFromTitle(title, avoid))
}

func TestGenerateIconQuery(t *testing.T) {
	ai := &scriptedProvider{responses: []string{`"Cloud Storage"`}}
	g := NewIconQueryGenerator(ai)

	query := g.GenerateIconQuery(context.Background(), "Storing Data in the Cloud", []string{"Durable object storage"})
	assert.Equal(t, "cloud storage", query)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "Storing Data in the Cloud")
	assert.Contains(t, ai.prompts[0], "- Durable object storage")
}

func TestGenerateIconQueryFallsBack(t *testing.T) {
	ai := &scriptedProvider{errs: []error{errors.New("all API keys failed: quota")}}
	g := NewIconQueryGenerator(ai)

	query := g.GenerateIconQuery(context.Background(), "The Distributed Ledger", nil)
	assert.Equal(t, "distributed", query)
}

func TestGenerateAlternativeQueryAvoidsRepeats(t *testing.T) {
	// the model repeats a failed phrase, so the title heuristic takes over
	ai := &scriptedProvider{responses: []string{"ledger"}}
	g := NewIconQueryGenerator(ai)

	query := g.GenerateAlternativeQuery(context.Background(), "Ledger Consensus Protocols", []string{"bullet"}, []string{"ledger"})
	assert.Equal(t, "consensus", query)
	assert.Contains(t, ai.prompts[0], "'ledger'")
}

// iconServer fakes the Noun Project API: queries in hits return one
// downloadable icon, everything else returns an empty result set.
func iconServer(t *testing.T, hits map[string]bool) (*httptest.Server, *[]string) {
	t.Helper()

	var queries []string
	mux := http.NewServeMux()

	var srv *httptest.Server
	mux.HandleFunc("/v2/icon", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		queries = append(queries, q)
		if hits[q] {
			fmt.Fprintf(w, `{"icons":[{"thumbnail_url":"%s/thumb.png"}]}`, srv.URL)
			return
		}
		fmt.Fprint(w, `{"icons":[]}`)
	})
	mux.HandleFunc("/thumb.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &queries
}

func newTestResolver(ai AIProvider, baseURL string) *IconResolver {
	r := NewIconResolver(ai, "test-key", "test-secret")
	r.BaseURL = baseURL
	return r
}

func TestSearchAndDownloadFirstTry(t *testing.T) {
	srv, queries := iconServer(t, map[string]bool{"rocket": true})
	r := newTestResolver(&scriptedProvider{}, srv.URL)

	path := filepath.Join(t.TempDir(), "icons", "slide_01.png")
	ok := r.SearchAndDownload(context.Background(), "rocket", path, "Rocket Science", []string{"propulsion"})

	assert.True(t, ok)
	assert.Equal(t, []string{"rocket"}, *queries)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSearchAndDownloadChainOrder(t *testing.T) {
	srv, queries := iconServer(t, nil) // every query misses
	ai := &scriptedProvider{responses: []string{"brain", "chip"}}
	r := newTestResolver(ai, srv.URL)

	path := filepath.Join(t.TempDir(), "icon.png")
	ok := r.SearchAndDownload(context.Background(), "neural network", path, "Neural Networks", []string{"layers"})

	assert.False(t, ok)
	assert.Equal(t, []string{"neural network", "neural", "brain", "chip", "circle"}, *queries)

	seen := map[string]int{}
	for _, q := range *queries {
		seen[q]++
		assert.Equal(t, 1, seen[q], "query %q must not repeat", q)
	}
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no icon file should be written on failure")
}

func TestSearchAndDownloadStopsMidChain(t *testing.T) {
	srv, queries := iconServer(t, map[string]bool{"neural": true})
	r := newTestResolver(&scriptedProvider{}, srv.URL)

	path := filepath.Join(t.TempDir(), "icon.png")
	ok := r.SearchAndDownload(context.Background(), "neural network", path, "Neural Networks", []string{"layers"})

	assert.True(t, ok)
	assert.Equal(t, []string{"neural network", "neural"}, *queries, "chain must halt at first success")
}

func TestGenerateIconsSkipsWithoutCredentials(t *testing.T) {
	r := NewIconResolver(&scriptedProvider{}, "", "")

	icons, err := r.GenerateIcons(context.Background(), &models.SlideDeck{TotalSlides: 1}, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, icons)
}

func TestGenerateIcons(t *testing.T) {
	srv, _ := iconServer(t, map[string]bool{"star": true, "rocket": true, "graph": true})
	ai := &scriptedProvider{responses: []string{"star", "rocket", "graph"}}
	r := newTestResolver(ai, srv.URL)

	deck := &models.SlideDeck{
		TitleSlide: models.TitleSlide{Title: "Space Travel", Subtitle: "A Primer"},
		ContentSlides: []models.ContentSlide{
			{Title: "Rockets", Bullets: []string{"thrust"}},
			{Title: "Orbits", Bullets: []string{"gravity"}},
		},
		TotalSlides: 3,
	}

	dir := t.TempDir()
	icons, err := r.GenerateIcons(context.Background(), deck, dir)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"title":   filepath.Join(dir, "title.png"),
		"slide_1": filepath.Join(dir, "slide_01.png"),
		"slide_2": filepath.Join(dir, "slide_02.png"),
	}, icons)

	for _, path := range icons {
		_, err := os.Stat(path)
		assert.NoError(t, err, "icon file %s should exist", path)
	}
}
