package records

import (
	"context"

	"github.com/thanulingayath/reception-agent/internal/models"
)

// Service defines the business logic interface for call record operations
type Service interface {
	// Insert persists a new call record and returns its assigned ID.
	// Records are immutable; there is no update path.
	Insert(ctx context.Context, record *models.CallRecord) (uint, error)

	// ListRecent returns up to limit records, most recent first
	ListRecent(ctx context.Context, limit int) ([]models.CallRecord, error)

	// Search returns records whose transcription or analysis contains query
	Search(ctx context.Context, query string) ([]models.CallRecord, error)

	// GetByID retrieves a single record
	GetByID(ctx context.Context, id uint) (*models.CallRecord, error)

	// ExistsByFilename checks whether a record for the filename is stored
	ExistsByFilename(ctx context.Context, filename string) (bool, error)

	// DeleteByID removes a record
	DeleteByID(ctx context.Context, id uint) error

	// DeleteByFilename removes the record for a deleted audio file
	DeleteByFilename(ctx context.Context, filename string) error

	// Stats aggregates history-view metrics
	Stats(ctx context.Context) (*models.RecordStats, error)
}

// Repository defines the interface for call record persistence
type Repository interface {
	Create(ctx context.Context, record *models.CallRecord) error
	ListRecent(ctx context.Context, limit int) ([]models.CallRecord, error)
	Search(ctx context.Context, query string) ([]models.CallRecord, error)
	GetByID(ctx context.Context, id uint) (*models.CallRecord, error)
	CountByFilename(ctx context.Context, filename string) (int64, error)
	DeleteByID(ctx context.Context, id uint) error
	DeleteByFilename(ctx context.Context, filename string) error
	Stats(ctx context.Context) (*models.RecordStats, error)
}
