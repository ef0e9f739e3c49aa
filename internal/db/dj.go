package db

import (
	"context"
	"fmt"

	"github.com/stationops/airtime/internal/models"
)

// DJRepository handles database operations for DJs
type DJRepository struct {
	db *DB
}

// NewDJRepository creates a new DJ repository
func NewDJRepository(db *DB) *DJRepository {
	return &DJRepository{db: db}
}

// Create inserts a new DJ into the database
func (r *DJRepository) Create(ctx context.Context, dj *models.DJ) error {
	result := r.db.WithContext(ctx).Create(dj)
	if result.Error != nil {
		return fmt.Errorf("failed to create dj: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a DJ by its id
func (r *DJRepository) GetByID(ctx context.Context, id int64) (*models.DJ, error) {
	var dj models.DJ
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&dj)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &dj, nil
}

// GetBySlug retrieves a DJ by its unique slug, with the user preloaded
func (r *DJRepository) GetBySlug(ctx context.Context, slug string) (*models.DJ, error) {
	var dj models.DJ
	result := r.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&dj)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &dj, nil
}

// List retrieves all DJs ordered by display name
func (r *DJRepository) List(ctx context.Context) ([]*models.DJ, error) {
	var djs []*models.DJ
	result := r.db.WithContext(ctx).Preload("User").Order("display_name ASC").Find(&djs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list djs: %w", MapGormError(result.Error))
	}
	return djs, nil
}
