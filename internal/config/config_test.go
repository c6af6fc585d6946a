package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SLIDECAST_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash-exp", cfg.GeminiModel)
	assert.Equal(t, "tts-1", cfg.TTSModel)
	assert.Equal(t, "alloy", cfg.TTSVoice)
	assert.Equal(t, 8, cfg.NumSlides)
	assert.Equal(t, 100, cfg.RasterDPI)
	assert.Equal(t, 10, cfg.VideoFPS)
	assert.Equal(t, 0.5, cfg.FadeDuration)
	assert.Equal(t, 3.0, cfg.TitleDuration)
	assert.Empty(t, cfg.GeminiAPIKeys)
}

func TestLoadKeyPool(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "key-a, key-b ,key-c,")
	t.Setenv("SLIDECAST_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, cfg.GeminiAPIKeys)
}

func TestLoadSingleKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "solo-key")
	t.Setenv("SLIDECAST_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"solo-key"}, cfg.GeminiAPIKeys)
}

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidecast.yaml")
	data := []byte("num_slides: 5\nraster_dpi: 150\ntts_voice: nova\nfade_duration: 1.0\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	t.Setenv("SLIDECAST_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.NumSlides)
	assert.Equal(t, 150, cfg.RasterDPI)
	assert.Equal(t, "nova", cfg.TTSVoice)
	assert.Equal(t, 1.0, cfg.FadeDuration)
	// untouched settings keep their defaults
	assert.Equal(t, 10, cfg.VideoFPS)
	assert.Equal(t, "tts-1", cfg.TTSModel)
}

func TestLoadTuningMissingFile(t *testing.T) {
	t.Setenv("SLIDECAST_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
