package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKeys     []string
	GeminiModel       string
	OpenAIAPIKey      string
	TTSModel          string
	TTSVoice          string
	NounProjectKey    string
	NounProjectSecret string
	OCRLanguage       string
	NumSlides         int
	RasterDPI         int
	VideoFPS          int
	FadeDuration      float64
	TitleDuration     float64
	Port              string
	DBPath            string
	UploadDir         string
	JobDir            string
	MaxUploadSize     int64
}

// Tuning holds the optional YAML overrides for pipeline settings.
// Credentials stay env-only.
type Tuning struct {
	GeminiModel   string  `yaml:"gemini_model"`
	TTSModel      string  `yaml:"tts_model"`
	TTSVoice      string  `yaml:"tts_voice"`
	OCRLanguage   string  `yaml:"ocr_language"`
	NumSlides     int     `yaml:"num_slides"`
	RasterDPI     int     `yaml:"raster_dpi"`
	VideoFPS      int     `yaml:"video_fps"`
	FadeDuration  float64 `yaml:"fade_duration"`
	TitleDuration float64 `yaml:"title_duration"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKeys:     splitKeys(getEnv("GEMINI_API_KEYS", getEnv("GEMINI_API_KEY", ""))),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		TTSModel:          getEnv("TTS_MODEL", "tts-1"),
		TTSVoice:          getEnv("TTS_VOICE", "alloy"),
		NounProjectKey:    getEnv("NOUN_PROJECT_KEY", ""),
		NounProjectSecret: getEnv("NOUN_PROJECT_SECRET", ""),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		NumSlides:         8,
		RasterDPI:         100,
		VideoFPS:          10,
		FadeDuration:      0.5,
		TitleDuration:     3.0,
		Port:              getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "./storage/slidecast.db"),
		UploadDir:         getEnv("UPLOAD_DIR", "./storage/uploads"),
		JobDir:            getEnv("JOB_DIR", "./storage/jobs"),
		MaxUploadSize:     52428800, // 50MB default
	}

	if path := os.Getenv("SLIDECAST_CONFIG"); path != "" {
		if err := cfg.applyTuning(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyTuning(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if t.GeminiModel != "" {
		c.GeminiModel = t.GeminiModel
	}
	if t.TTSModel != "" {
		c.TTSModel = t.TTSModel
	}
	if t.TTSVoice != "" {
		c.TTSVoice = t.TTSVoice
	}
	if t.OCRLanguage != "" {
		c.OCRLanguage = t.OCRLanguage
	}
	if t.NumSlides > 0 {
		c.NumSlides = t.NumSlides
	}
	if t.RasterDPI > 0 {
		c.RasterDPI = t.RasterDPI
	}
	if t.VideoFPS > 0 {
		c.VideoFPS = t.VideoFPS
	}
	if t.FadeDuration > 0 {
		c.FadeDuration = t.FadeDuration
	}
	if t.TitleDuration > 0 {
		c.TitleDuration = t.TitleDuration
	}
	return nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
