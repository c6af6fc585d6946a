// Package handlers exposes the conversion pipeline over HTTP. Uploads
// become queued jobs that a single background worker executes in order.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/local/slidecast/internal/config"
	"github.com/local/slidecast/internal/models"
	"github.com/local/slidecast/internal/pipeline"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Converter runs one conversion job. *pipeline.Runner implements it.
type Converter interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

type Handler struct {
	db        *gorm.DB
	cfg       *config.Config
	converter Converter
	queue     chan string
}

func New(db *gorm.DB, cfg *config.Config, converter Converter) *Handler {
	return &Handler{
		db:        db,
		cfg:       cfg,
		converter: converter,
		queue:     make(chan string, 128),
	}
}

// Routes registers the API endpoints on router.
func (h *Handler) Routes(router *gin.Engine) {
	router.GET("/api/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/convert", h.CreateJob)
		api.GET("/jobs/:id", h.GetJob)
		api.GET("/jobs/:id/artifacts/*path", h.GetArtifact)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"model":  h.cfg.GeminiModel,
	})
}

type CreateJobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *Handler) CreateJob(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	if file.Size > h.cfg.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File size exceeds %dMB limit", h.cfg.MaxUploadSize/(1<<20))})
		return
	}

	numSlides := h.cfg.NumSlides
	if v := c.PostForm("slides"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slides value"})
			return
		}
		numSlides = n
	}

	jobID := uuid.New().String()
	if err := os.MkdirAll(h.cfg.UploadDir, 0755); err != nil {
		log.Error().Err(err).Msg("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	pdfPath := filepath.Join(h.cfg.UploadDir, fmt.Sprintf("%s_%s", jobID, filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, pdfPath); err != nil {
		log.Error().Err(err).Msg("Failed to save file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	job := &models.Job{
		ID:        jobID,
		PDFName:   file.Filename,
		PDFPath:   pdfPath,
		NumSlides: numSlides,
		Status:    models.JobPending,
		OutputDir: filepath.Join(h.cfg.JobDir, jobID),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.db.Create(job).Error; err != nil {
		log.Error().Err(err).Msg("Failed to create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	h.enqueue(job.ID)
	log.Info().Str("job_id", job.ID).Str("pdf", job.PDFName).Int("slides", numSlides).Msg("Job queued")

	c.JSON(http.StatusAccepted, CreateJobResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Message: "PDF accepted for conversion",
	})
}

func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("id")

	var job models.Job
	if err := h.db.Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":       job,
		"artifacts": h.artifacts(&job),
	})
}

// artifacts lists the primary outputs that exist for a job. Partial
// results of a failed run still show up here.
func (h *Handler) artifacts(job *models.Job) []string {
	if job.OutputDir == "" {
		return nil
	}
	var found []string
	for _, name := range []string{"slides.pptx", "slides.pdf", "video.mp4"} {
		if _, err := os.Stat(filepath.Join(job.OutputDir, name)); err == nil {
			found = append(found, name)
		}
	}
	return found
}

func (h *Handler) GetArtifact(c *gin.Context) {
	jobID := c.Param("id")

	var job models.Job
	if err := h.db.Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if job.OutputDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job has no artifacts"})
		return
	}

	rel := filepath.Clean(strings.TrimPrefix(c.Param("path"), "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artifact path"})
		return
	}

	full := filepath.Join(job.OutputDir, rel)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artifact not found"})
		return
	}

	c.File(full)
}
