package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// TitleSlide is the opening slide of a deck
type TitleSlide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// ContentSlide is a single content slide with its narration notes
type ContentSlide struct {
	Title        string   `json:"title"`
	Bullets      []string `json:"bullets"`
	SpeakerNotes string   `json:"speaker_notes"`
}

// NarrationText returns the text narrated over this slide: the speaker
// notes when present, otherwise the title followed by the bullets.
func (s ContentSlide) NarrationText() string {
	if strings.TrimSpace(s.SpeakerNotes) != "" {
		return s.SpeakerNotes
	}
	return s.Title + ". " + strings.Join(s.Bullets, " ")
}

// SlideDeck is the full summarized deck written to slides.json
type SlideDeck struct {
	TitleSlide      TitleSlide     `json:"title_slide"`
	ContentSlides   []ContentSlide `json:"content_slides"`
	TotalSlides     int            `json:"total_slides"`
	NarrationScript string         `json:"narration_script"`
}

// Job statuses
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job represents one pipeline run submitted over the HTTP API
type Job struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	PDFName   string    `json:"pdf_name"`
	PDFPath   string    `json:"-"`
	NumSlides int       `json:"num_slides"`
	Status    string    `gorm:"index" json:"status"` // pending, processing, completed, failed
	Error     string    `json:"error,omitempty"`
	OutputDir string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AutoMigrate runs all migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Job{},
	)
}
