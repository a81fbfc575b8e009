package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/storage"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

var _ storage.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&models.GenerationRecord{})
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) SaveGeneration(ctx context.Context, rec *models.GenerationRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) GetGeneration(ctx context.Context, resultID string) (*models.GenerationRecord, error) {
	var rec models.GenerationRecord
	err := r.db.WithContext(ctx).Where("result_id = ?", resultID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("generation %s: %w", resultID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) ListGenerations(ctx context.Context, filter storage.GenerationFilter) ([]*models.GenerationRecord, error) {
	var records []*models.GenerationRecord
	query := r.db.WithContext(ctx).Model(&models.GenerationRecord{})

	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.Persona != "" {
		query = query.Where("persona = ?", filter.Persona)
	}

	// Ties on generated_at fall back to insertion order
	if filter.OrderDesc {
		query = query.Order("generated_at DESC").Order("id DESC")
	} else {
		query = query.Order("generated_at ASC").Order("id ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.GenerationRecord{})
	return result.RowsAffected, result.Error
}

func (r *Repository) ListUntracked(ctx context.Context, limit int) ([]*models.GenerationRecord, error) {
	var records []*models.GenerationRecord
	query := r.db.WithContext(ctx).
		Where("tracked = ?", false).
		Order("generated_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) MarkTracked(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.GenerationRecord{}).
		Where("id IN ?", ids).
		Update("tracked", true).Error
}
