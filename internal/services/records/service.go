package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/thanulingayath/reception-agent/internal/models"
	apperrors "github.com/thanulingayath/reception-agent/pkg/errors"
)

const DefaultListLimit = 50

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new call record service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Insert persists a new call record and returns its assigned ID
func (s *service) Insert(ctx context.Context, record *models.CallRecord) (uint, error) {
	if record == nil {
		return 0, apperrors.ValidationError("record", "cannot be nil")
	}
	if strings.TrimSpace(record.Filename) == "" {
		return 0, apperrors.ValidationError("filename", "cannot be empty")
	}
	if strings.TrimSpace(record.TranscribedText) == "" {
		return 0, apperrors.ValidationError("transcribed_text", "cannot be empty")
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return 0, apperrors.StoreError("insert", err)
	}

	return record.ID, nil
}

// ListRecent returns up to limit records, most recent first
func (s *service) ListRecent(ctx context.Context, limit int) ([]models.CallRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.StoreError("list", err)
	}

	return records, nil
}

// Search returns records whose transcription or analysis contains query
func (s *service) Search(ctx context.Context, query string) ([]models.CallRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ValidationError("query", "cannot be empty")
	}

	records, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperrors.StoreError("search", err)
	}

	return records, nil
}

// GetByID retrieves a single record
func (s *service) GetByID(ctx context.Context, id uint) (*models.CallRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.StoreError("get", err)
	}
	if record == nil {
		return nil, apperrors.NotFound("call record", id)
	}

	return record, nil
}

// ExistsByFilename checks whether a record for the filename is stored
func (s *service) ExistsByFilename(ctx context.Context, filename string) (bool, error) {
	count, err := s.repo.CountByFilename(ctx, filename)
	if err != nil {
		return false, apperrors.StoreError("count", err)
	}

	return count > 0, nil
}

// DeleteByID removes a record
func (s *service) DeleteByID(ctx context.Context, id uint) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("call record", id)
		}
		return apperrors.StoreError("delete", err)
	}

	return nil
}

// DeleteByFilename removes the record for a deleted audio file
func (s *service) DeleteByFilename(ctx context.Context, filename string) error {
	if strings.TrimSpace(filename) == "" {
		return apperrors.ValidationError("filename", "cannot be empty")
	}

	if err := s.repo.DeleteByFilename(ctx, filename); err != nil {
		return apperrors.StoreError("delete", err)
	}

	return nil
}

// Stats aggregates history-view metrics
func (s *service) Stats(ctx context.Context) (*models.RecordStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.StoreError("stats", err)
	}

	return stats, nil
}
