package storage

import (
	"context"
	"errors"

	"github.com/content-synth/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for generation history persistence
type Repository interface {
	SaveGeneration(ctx context.Context, rec *models.GenerationRecord) error
	GetGeneration(ctx context.Context, resultID string) (*models.GenerationRecord, error)
	ListGenerations(ctx context.Context, filter GenerationFilter) ([]*models.GenerationRecord, error)
	DeleteSession(ctx context.Context, sessionID string) (int64, error)

	// Tracker sync
	ListUntracked(ctx context.Context, limit int) ([]*models.GenerationRecord, error)
	MarkTracked(ctx context.Context, ids []uint) error

	// Maintenance
	Close() error
	Migrate() error
}

// GenerationFilter defines filtering options for history queries
type GenerationFilter struct {
	SessionID string
	Platform  string
	Persona   string
	Limit     int
	Offset    int
	OrderDesc bool
}

// DefaultGenerationFilter returns a filter with sensible defaults
func DefaultGenerationFilter() GenerationFilter {
	return GenerationFilter{
		Limit:     50,
		OrderDesc: true,
	}
}
