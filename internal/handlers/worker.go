package handlers

import (
	"context"
	"time"

	"github.com/local/slidecast/internal/models"
	"github.com/local/slidecast/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// Start requeues jobs left pending by an earlier run and launches the
// worker goroutine. Jobs execute one at a time in queue order.
func (h *Handler) Start(ctx context.Context) {
	h.requeuePending()
	go h.work(ctx)
}

func (h *Handler) requeuePending() {
	var pending []models.Job
	if err := h.db.Where("status = ?", models.JobPending).Order("created_at ASC").Find(&pending).Error; err != nil {
		log.Warn().Err(err).Msg("Failed to load pending jobs")
		return
	}
	for _, job := range pending {
		h.enqueue(job.ID)
	}
	if len(pending) > 0 {
		log.Info().Int("jobs", len(pending)).Msg("Requeued pending jobs")
	}
}

func (h *Handler) enqueue(jobID string) {
	select {
	case h.queue <- jobID:
	default:
		// The job row stays pending and is requeued on the next start.
		log.Warn().Str("job_id", jobID).Msg("Job queue full")
	}
}

func (h *Handler) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-h.queue:
			h.process(ctx, jobID)
		}
	}
}

func (h *Handler) process(ctx context.Context, jobID string) {
	var job models.Job
	if err := h.db.Where("id = ?", jobID).First(&job).Error; err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("Queued job not found")
		return
	}
	if job.Status != models.JobPending {
		return
	}

	h.setStatus(&job, models.JobProcessing, "")
	log.Info().Str("job_id", job.ID).Str("pdf", job.PDFName).Msg("Job started")

	_, err := h.converter.Run(ctx, pipeline.Options{
		InputPath: job.PDFPath,
		OutDir:    job.OutputDir,
		NumSlides: job.NumSlides,
	})
	if err != nil {
		h.setStatus(&job, models.JobFailed, err.Error())
		log.Error().Err(err).Str("job_id", job.ID).Msg("Job failed")
		return
	}

	h.setStatus(&job, models.JobCompleted, "")
	log.Info().Str("job_id", job.ID).Str("output_dir", job.OutputDir).Msg("Job completed")
}

func (h *Handler) setStatus(job *models.Job, status, errText string) {
	job.Status = status
	job.Error = errText
	job.UpdatedAt = time.Now()
	if err := h.db.Model(&models.Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":     status,
		"error":      errText,
		"updated_at": job.UpdatedAt,
	}).Error; err != nil {
		log.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to update job status")
	}
}
