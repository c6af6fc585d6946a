package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/local/slidecast/internal/models"
)

// AudioClip pairs a narration file with its play length in seconds.
// Path is empty for the silent title entry.
type AudioClip struct {
	Path     string
	Duration float64
}

// SpeechSynthesizer turns text into an audio file.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// DurationProbe reports the play length of a media file in seconds.
type DurationProbe func(path string) (float64, error)

// Narrator produces one audio clip per content slide plus a fixed-length
// silent entry for the title slide.
type Narrator struct {
	tts           SpeechSynthesizer
	probe         DurationProbe
	titleDuration float64
}

// NewNarrator wires a synthesizer and duration probe together.
func NewNarrator(tts SpeechSynthesizer, probe DurationProbe, titleDuration float64) *Narrator {
	if titleDuration <= 0 {
		titleDuration = 3.0
	}
	return &Narrator{tts: tts, probe: probe, titleDuration: titleDuration}
}

// GenerateNarration synthesizes narration for every content slide into
// outputDir as audio_NN.mp3, numbered from 1. The returned clips lead
// with the silent title entry. Existing audio files are reused so an
// interrupted run picks up where it stopped.
func (n *Narrator) GenerateNarration(ctx context.Context, d *models.SlideDeck, outputDir string) ([]AudioClip, error) {
	if existing, err := filepath.Glob(filepath.Join(outputDir, "audio_*.mp3")); err == nil && len(existing) > 0 {
		log.Info().Int("files", len(existing)).Msg("Reusing existing narration audio")
		return n.reloadClips(existing)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	// The title slide shows silently for a fixed time.
	clips := []AudioClip{{Duration: n.titleDuration}}

	for i, slide := range d.ContentSlides {
		num := i + 1
		path := filepath.Join(outputDir, fmt.Sprintf("audio_%02d.mp3", num))

		if err := n.tts.Synthesize(ctx, slide.NarrationText(), path); err != nil {
			return nil, fmt.Errorf("failed to narrate slide %d: %w", num, err)
		}

		duration, err := n.probe(path)
		if err != nil {
			return nil, fmt.Errorf("failed to probe narration for slide %d: %w", num, err)
		}

		clips = append(clips, AudioClip{Path: path, Duration: duration})
		log.Info().Int("slide", num).Float64("seconds", duration).Msg("Narration generated")
	}

	return clips, nil
}

// reloadClips rebuilds the clip list from files on disk, restoring the
// silent title entry the files themselves do not carry.
func (n *Narrator) reloadClips(files []string) ([]AudioClip, error) {
	clips := make([]AudioClip, 0, len(files)+1)
	clips = append(clips, AudioClip{Duration: n.titleDuration})
	for _, path := range files {
		duration, err := n.probe(path)
		if err != nil {
			return nil, fmt.Errorf("failed to probe existing audio %s: %w", filepath.Base(path), err)
		}
		clips = append(clips, AudioClip{Path: path, Duration: duration})
	}
	return clips, nil
}

// TotalDuration sums the play time of all clips.
func TotalDuration(clips []AudioClip) float64 {
	var total float64
	for _, c := range clips {
		total += c.Duration
	}
	return total
}
