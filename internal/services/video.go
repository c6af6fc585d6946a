package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// VideoComposer assembles narrated slide videos with ffmpeg. Every slide
// image becomes a segment lasting exactly as long as its audio clip, with
// fade-in and fade-out transitions; the segments are concatenated and
// optional background music is mixed underneath the narration.
type VideoComposer struct {
	FPS          int
	FadeDuration float64

	ffmpeg  string
	ffprobe string
}

// NewVideoComposer locates ffmpeg and ffprobe on PATH.
func NewVideoComposer(fps int, fadeDuration float64) (*VideoComposer, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	if fps <= 0 {
		fps = 10
	}
	if fadeDuration <= 0 {
		fadeDuration = 0.5
	}
	return &VideoComposer{FPS: fps, FadeDuration: fadeDuration, ffmpeg: ffmpeg, ffprobe: ffprobe}, nil
}

// ProbeDuration returns the play length of a media file in seconds.
func (c *VideoComposer) ProbeDuration(path string) (float64, error) {
	cmd := exec.Command(c.ffprobe, "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe error: %v, stderr: %s", err, stderr.String())
	}

	raw := strings.TrimSpace(stdout.String())
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	return duration, nil
}

// Compose renders the final video from slide images and their audio
// clips, ordered title first. musicPath may be empty; a missing music
// file is skipped with a warning rather than failing the render.
func (c *VideoComposer) Compose(ctx context.Context, images []string, clips []AudioClip, outputPath, musicPath string) error {
	if len(images) == 0 || len(clips) == 0 {
		return fmt.Errorf("nothing to compose: %d images, %d audio clips", len(images), len(clips))
	}
	n := len(images)
	if len(clips) < n {
		n = len(clips)
	}
	if len(images) != len(clips) {
		log.Warn().Int("images", len(images)).Int("clips", len(clips)).
			Msg("Image and audio counts differ, composing the overlap")
	}

	outDir, err := filepath.Abs(filepath.Dir(outputPath))
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tempDir := filepath.Join(outDir, "temp")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	segments := make([]string, 0, n)
	for i := 0; i < n; i++ {
		segPath := filepath.Join(tempDir, fmt.Sprintf("segment_%02d.mp4", i))
		log.Info().Int("slide", i+1).Int("total", n).Msg("Rendering video segment")
		if err := c.run(ctx, c.segmentArgs(images[i], clips[i], segPath)...); err != nil {
			return fmt.Errorf("failed to render segment %d: %w", i, err)
		}
		segments = append(segments, segPath)
	}

	listPath := filepath.Join(tempDir, "segments.txt")
	if err := os.WriteFile(listPath, []byte(concatList(segments)), 0o644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}

	withMusic := musicPath != ""
	if withMusic {
		if _, err := os.Stat(musicPath); err != nil {
			log.Warn().Str("music", musicPath).Msg("Background music not found, skipping")
			withMusic = false
		}
	}

	target := outputPath
	if withMusic {
		target = filepath.Join(tempDir, "assembled.mp4")
	}

	if err := c.run(ctx, "-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", target); err != nil {
		return fmt.Errorf("failed to concatenate segments: %w", err)
	}

	if withMusic {
		if err := c.run(ctx, c.musicArgs(target, musicPath, outputPath)...); err != nil {
			return fmt.Errorf("failed to mix background music: %w", err)
		}
	}

	log.Info().Str("video", outputPath).Msg("Video assembled")
	return nil
}

// segmentArgs builds the ffmpeg arguments for a single slide segment.
// Clips without an audio file get a silent stereo track so concatenation
// keeps a continuous audio stream.
func (c *VideoComposer) segmentArgs(image string, clip AudioClip, segPath string) []string {
	dur := fmt.Sprintf("%.3f", clip.Duration)

	args := []string{"-y", "-loop", "1", "-framerate", strconv.Itoa(c.FPS), "-t", dur, "-i", image}
	if clip.Path != "" {
		args = append(args, "-i", clip.Path)
	} else {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=r=44100:cl=stereo:d="+dur)
	}

	fadeOut := clip.Duration - c.FadeDuration
	if fadeOut < 0 {
		fadeOut = 0
	}
	filter := fmt.Sprintf("scale=trunc(iw/2)*2:trunc(ih/2)*2,fade=t=in:st=0:d=%.2f,fade=t=out:st=%.3f:d=%.2f",
		c.FadeDuration, fadeOut, c.FadeDuration)

	return append(args,
		"-vf", filter,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "libx264", "-preset", "fast", "-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(c.FPS),
		"-c:a", "aac",
		"-shortest",
		segPath,
	)
}

// musicArgs mixes looped background music at 20% volume under the
// narration, trimmed to the video length.
func (c *VideoComposer) musicArgs(videoPath, musicPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-stream_loop", "-1",
		"-i", musicPath,
		"-filter_complex", "[1:a]volume=0.2[bg];[0:a][bg]amix=inputs=2:duration=first:dropout_transition=0[mix]",
		"-map", "0:v", "-map", "[mix]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}
}

func concatList(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		fmt.Fprintf(&b, "file '%s'\n", s)
	}
	return b.String()
}

func (c *VideoComposer) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}
	return nil
}
