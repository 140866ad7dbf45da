package workers

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/internal/models"
	"github.com/thanulingayath/reception-agent/internal/services/jobs"
	"github.com/thanulingayath/reception-agent/internal/services/pipeline"
)

// CallProcessor processes call_processing jobs by running the full
// transcription pipeline against the audio file named in the payload.
type CallProcessor struct {
	pipeline   *pipeline.Pipeline
	jobService jobs.Service
	log        *logrus.Entry
}

// NewCallProcessor creates a processor backed by the given pipeline
func NewCallProcessor(p *pipeline.Pipeline, jobService jobs.Service, log *logrus.Entry) *CallProcessor {
	return &CallProcessor{
		pipeline:   p,
		jobService: jobService,
		log:        log,
	}
}

// CanProcess returns true for call processing jobs
func (cp *CallProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeCallProcessing
}

// ProcessJob runs the pipeline for the job's audio file
func (cp *CallProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	path, ok := job.GetPayloadValue("path")
	if !ok {
		return models.NewInputError("MISSING_PATH", "job payload missing audio file path", "", nil)
	}
	filePath, ok := path.(string)
	if !ok || filePath == "" {
		return models.NewInputError("INVALID_PATH", "job payload path must be a non-empty string", "", nil)
	}

	language := ""
	if val, ok := job.GetPayloadValue("language"); ok {
		language, _ = val.(string)
	}

	filename := ""
	if val, ok := job.GetPayloadValue("filename"); ok {
		filename, _ = val.(string)
	}

	if err := cp.jobService.UpdateProgress(ctx, job.ID, 10); err != nil {
		cp.log.WithFields(logrus.Fields{
			"job_id": job.ID,
			"error":  err.Error(),
		}).Warn("Failed to update job progress")
	}

	record, err := cp.pipeline.ProcessAs(ctx, filePath, language, filename)
	if err != nil {
		return pipeline.ClassifyError(err)
	}

	// Uploads staged by the API are one-shot files
	if val, ok := job.GetPayloadValue("cleanup"); ok {
		if cleanup, _ := val.(bool); cleanup {
			if rmErr := os.Remove(filePath); rmErr != nil && !os.IsNotExist(rmErr) {
				cp.log.WithFields(logrus.Fields{
					"path":  filePath,
					"error": rmErr.Error(),
				}).Warn("Failed to remove staged upload")
			}
		}
	}

	result := models.JobResult{
		"record_id": record.ID,
		"filename":  record.Filename,
		"intent":    record.Intent,
		"sentiment": record.Sentiment,
	}

	if err := cp.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing job %d: %w", job.ID, err)
	}

	return nil
}
