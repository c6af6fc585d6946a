package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/slidecast/internal/models"
)

// fakeSynth records what it was asked to speak and drops a stub file.
type fakeSynth struct {
	texts []string
	paths []string
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, text, outputPath string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	f.paths = append(f.paths, outputPath)
	return os.WriteFile(outputPath, []byte("mp3"), 0o644)
}

func fixedProbe(duration float64) DurationProbe {
	return func(string) (float64, error) { return duration, nil }
}

func narrationDeck() *models.SlideDeck {
	return &models.SlideDeck{
		TitleSlide: models.TitleSlide{Title: "Report", Subtitle: "Key Insights"},
		ContentSlides: []models.ContentSlide{
			{Title: "One", Bullets: []string{"a", "b"}, SpeakerNotes: "Scripted narration for one."},
			{Title: "Two", Bullets: []string{"c"}},
		},
		TotalSlides: 3,
	}
}

func TestGenerateNarration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	synth := &fakeSynth{}
	n := NewNarrator(synth, fixedProbe(4.5), 3.0)

	clips, err := n.GenerateNarration(context.Background(), narrationDeck(), dir)
	require.NoError(t, err)
	require.Len(t, clips, 3)

	// Title entry is silent and first.
	assert.Empty(t, clips[0].Path)
	assert.Equal(t, 3.0, clips[0].Duration)

	assert.Equal(t, filepath.Join(dir, "audio_01.mp3"), clips[1].Path)
	assert.Equal(t, filepath.Join(dir, "audio_02.mp3"), clips[2].Path)
	assert.Equal(t, 4.5, clips[1].Duration)

	// Speaker notes win; otherwise title and bullets are read out.
	require.Len(t, synth.texts, 2)
	assert.Equal(t, "Scripted narration for one.", synth.texts[0])
	assert.Equal(t, "Two. c", synth.texts[1])
}

func TestGenerateNarrationReusesExistingAudio(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 2; i++ {
		name := filepath.Join(dir, fmt.Sprintf("audio_%02d.mp3", i))
		require.NoError(t, os.WriteFile(name, []byte("mp3"), 0o644))
	}

	synth := &fakeSynth{}
	n := NewNarrator(synth, fixedProbe(2.0), 3.0)

	clips, err := n.GenerateNarration(context.Background(), narrationDeck(), dir)
	require.NoError(t, err)

	assert.Empty(t, synth.texts, "existing audio should not be re-synthesized")
	require.Len(t, clips, 3)
	assert.Empty(t, clips[0].Path)
	assert.Equal(t, 3.0, clips[0].Duration)
	assert.Equal(t, 2.0, clips[1].Duration)
}

func TestGenerateNarrationSynthesisFailure(t *testing.T) {
	synth := &fakeSynth{err: fmt.Errorf("API error (500): upstream")}
	n := NewNarrator(synth, fixedProbe(1.0), 3.0)

	_, err := n.GenerateNarration(context.Background(), narrationDeck(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to narrate slide 1")
}

func TestTotalDuration(t *testing.T) {
	clips := []AudioClip{{Duration: 3.0}, {Path: "a", Duration: 4.25}, {Path: "b", Duration: 2.75}}
	assert.Equal(t, 10.0, TotalDuration(clips))
}
