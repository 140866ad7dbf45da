package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thanulingayath/reception-agent/internal/models"
)

const (
	defaultMaxRetries = 3
	defaultPriority   = 0
)

// service implements the Service interface
type service struct {
	repo Repository
	log  *logrus.Entry
}

// NewService creates a new job service
func NewService(repo Repository, log *logrus.Entry) Service {
	return &service{repo: repo, log: log}
}

// EnqueueJob creates a new job in the queue
func (s *service) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error) {
	cfg := &jobConfig{
		Priority:   defaultPriority,
		MaxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	job := &models.Job{
		Type:       jobType,
		Status:     models.JobStatusPending,
		Payload:    payload,
		Priority:   cfg.Priority,
		MaxRetries: cfg.MaxRetries,
		CreatedBy:  cfg.CreatedBy,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueueing job: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_type": jobType,
		"priority": cfg.Priority,
	}).Debug("Job enqueued")

	return job, nil
}

// EnqueueUniqueJob creates a job only if no active job exists for the same
// payload key. The uniqueKey names the payload field to deduplicate on.
func (s *service) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string, opts ...JobOption) (*models.Job, error) {
	value, ok := payload[uniqueKey]
	if !ok {
		return nil, fmt.Errorf("payload missing unique key %q", uniqueKey)
	}

	strValue, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("unique key %q must be a string value", uniqueKey)
	}

	existing, err := s.repo.GetJobByTypeAndPayload(ctx, jobType, uniqueKey, strValue)
	if err != nil && !errors.Is(err, ErrJobNotFound) {
		return nil, fmt.Errorf("checking for existing job: %w", err)
	}

	if existing != nil && !existing.IsTerminal() {
		s.log.WithFields(logrus.Fields{
			"job_id":   existing.ID,
			"job_type": jobType,
			uniqueKey:  strValue,
		}).Debug("Reusing active job")
		return existing, nil
	}

	return s.EnqueueJob(ctx, jobType, payload, opts...)
}

// GetJob retrieves a job by ID
func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

// GetJobStatus retrieves just the status of a job
func (s *service) GetJobStatus(ctx context.Context, jobID uint) (models.JobStatus, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// GetJobForFile finds the most recent processing job for an audio file
func (s *service) GetJobForFile(ctx context.Context, filename string) (*models.Job, error) {
	return s.repo.GetJobByTypeAndPayload(ctx, models.JobTypeCallProcessing, "filename", filename)
}

// ClaimNextJob claims the next available job for a worker
func (s *service) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	job, err := s.repo.ClaimNextJob(ctx, workerID, jobTypes)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"job_id":    job.ID,
		"job_type":  job.Type,
		"worker_id": workerID,
	}).Debug("Job claimed")

	return job, nil
}

// UpdateProgress updates the progress of a job
func (s *service) UpdateProgress(ctx context.Context, jobID uint, progress int) error {
	return s.repo.UpdateJobProgress(ctx, jobID, progress)
}

// CompleteJob marks a job as completed
func (s *service) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	if err := s.repo.CompleteJob(ctx, jobID, result); err != nil {
		return err
	}

	s.log.WithField("job_id", jobID).Info("Job completed")
	return nil
}

// FailJob marks a job as failed, classifying structured errors when present
func (s *service) FailJob(ctx context.Context, jobID uint, jobErr error) error {
	if jobErr == nil {
		jobErr = errors.New("unknown error")
	}

	var structured *models.StructuredJobError
	if errors.As(jobErr, &structured) {
		return s.FailJobWithDetails(ctx, jobID, structured.Type, structured.Code, structured.Message, structured.Details)
	}

	return s.FailJobWithDetails(ctx, jobID, models.ErrorTypeSystem, "", jobErr.Error(), "")
}

// FailJobWithDetails marks a job as failed with full error classification
func (s *service) FailJobWithDetails(ctx context.Context, jobID uint, errorType models.JobErrorType, errorCode, errorMsg, errorDetails string) error {
	if err := s.repo.FailJobWithDetails(ctx, jobID, errorType, errorCode, errorMsg, errorDetails); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"job_id":     jobID,
		"error_type": errorType,
		"error_code": errorCode,
	}).Warn("Job failed: " + errorMsg)

	return nil
}

// ReleaseJob returns a processing job to the pending queue
func (s *service) ReleaseJob(ctx context.Context, jobID uint) error {
	return s.repo.ReleaseJob(ctx, jobID)
}

// CleanupOldJobs removes terminal jobs past the retention window
func (s *service) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.DeleteOldJobs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("Cleaned up old jobs")
	}

	return deleted, nil
}
