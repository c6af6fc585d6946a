package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const openAIBaseURL = "https://api.openai.com/v1"

// TTSGenerator synthesizes speech with the OpenAI audio API.
type TTSGenerator struct {
	// BaseURL is overridable for tests.
	BaseURL string

	apiKey string
	model  string
	voice  string
	client *http.Client
}

// NewTTSGenerator returns a generator for the given model and voice.
// OpenAI picks pronunciation from the input text, so one voice serves
// all languages.
func NewTTSGenerator(apiKey, model, voice string) (*TTSGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for narration")
	}
	if model == "" {
		model = "tts-1"
	}
	if voice == "" {
		voice = "alloy"
	}
	return &TTSGenerator{
		BaseURL: openAIBaseURL,
		apiKey:  apiKey,
		model:   model,
		voice:   voice,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Synthesize writes spoken audio for text to outputPath as MP3.
func (g *TTSGenerator) Synthesize(ctx context.Context, text, outputPath string) error {
	reqBody := map[string]interface{}{
		"model": g.model,
		"voice": g.voice,
		"input": text,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.BaseURL+"/audio/speech", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	audioFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer audioFile.Close()

	if _, err := io.Copy(audioFile, resp.Body); err != nil {
		return fmt.Errorf("failed to save audio: %w", err)
	}
	return nil
}
