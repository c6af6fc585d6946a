package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTTSGenerator(t *testing.T) {
	_, err := NewTTSGenerator("", "tts-1", "alloy")
	assert.Error(t, err)

	g, err := NewTTSGenerator("sk-test", "", "")
	require.NoError(t, err)
	assert.Equal(t, "tts-1", g.model)
	assert.Equal(t, "alloy", g.voice)
}

func TestSynthesize(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte("ID3fake-mp3-bytes"))
	}))
	defer srv.Close()

	g, err := NewTTSGenerator("sk-test", "tts-1", "alloy")
	require.NoError(t, err)
	g.BaseURL = srv.URL

	outPath := filepath.Join(t.TempDir(), "audio", "audio_01.mp3")
	require.NoError(t, g.Synthesize(context.Background(), "Hello there.", outPath))

	assert.Equal(t, "tts-1", gotBody["model"])
	assert.Equal(t, "alloy", gotBody["voice"])
	assert.Equal(t, "Hello there.", gotBody["input"])

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "ID3fake-mp3-bytes", string(data))
}

func TestSynthesizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_api_key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	g, err := NewTTSGenerator("sk-bad", "tts-1", "alloy")
	require.NoError(t, err)
	g.BaseURL = srv.URL

	err = g.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "out.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (401)")
}
