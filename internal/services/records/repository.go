package records

import (
	"context"
	"errors"
	"time"

	"github.com/thanulingayath/reception-agent/internal/models"
	"gorm.io/gorm"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new call record repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists a new call record
func (r *repository) Create(ctx context.Context, record *models.CallRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}

	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// ListRecent returns up to limit records ordered newest first
func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.CallRecord, error) {
	var records []models.CallRecord

	result := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// Search matches query as a substring of the transcription or analysis
func (r *repository) Search(ctx context.Context, query string) ([]models.CallRecord, error) {
	var records []models.CallRecord

	pattern := "%" + query + "%"
	result := r.db.WithContext(ctx).
		Where("transcribed_text LIKE ? OR analysis LIKE ?", pattern, pattern).
		Order("timestamp DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// GetByID retrieves a single record
func (r *repository) GetByID(ctx context.Context, id uint) (*models.CallRecord, error) {
	var record models.CallRecord

	result := r.db.WithContext(ctx).First(&record, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &record, nil
}

// CountByFilename counts records stored for the given filename
func (r *repository) CountByFilename(ctx context.Context, filename string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&models.CallRecord{}).
		Where("filename = ?", filename).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// DeleteByID removes a record
func (r *repository) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CallRecord{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DeleteByFilename removes all records stored for a filename
func (r *repository) DeleteByFilename(ctx context.Context, filename string) error {
	result := r.db.WithContext(ctx).
		Where("filename = ?", filename).
		Delete(&models.CallRecord{})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// Stats aggregates totals over the call_records table
func (r *repository) Stats(ctx context.Context) (*models.RecordStats, error) {
	stats := &models.RecordStats{}

	if err := r.db.WithContext(ctx).Model(&models.CallRecord{}).Count(&stats.TotalCalls).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	if err := r.db.WithContext(ctx).
		Model(&models.CallRecord{}).
		Where("timestamp >= ?", startOfDay).
		Count(&stats.TodayCalls).Error; err != nil {
		return nil, err
	}

	if stats.TotalCalls > 0 {
		row := r.db.WithContext(ctx).
			Model(&models.CallRecord{}).
			Select("AVG(LENGTH(transcribed_text))").
			Row()
		if err := row.Scan(&stats.AvgTranscriptSize); err != nil {
			return nil, err
		}
	}

	return stats, nil
}
