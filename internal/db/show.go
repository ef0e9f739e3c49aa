package db

import (
	"context"
	"fmt"

	"github.com/stationops/airtime/internal/models"
)

// ShowRepository handles database operations for shows
type ShowRepository struct {
	db *DB
}

// NewShowRepository creates a new show repository
func NewShowRepository(db *DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// Create inserts a new show into the database
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	result := r.db.WithContext(ctx).Create(show)
	if result.Error != nil {
		return fmt.Errorf("failed to create show: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a show by its id
func (r *ShowRepository) GetByID(ctx context.Context, id int64) (*models.Show, error) {
	var show models.Show
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&show)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &show, nil
}

// GetBySlug retrieves a show by its unique slug
func (r *ShowRepository) GetBySlug(ctx context.Context, slug string) (*models.Show, error) {
	var show models.Show
	result := r.db.WithContext(ctx).Where("slug = ?", slug).First(&show)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &show, nil
}

// List retrieves shows ordered by name, optionally only active ones
func (r *ShowRepository) List(ctx context.Context, activeOnly bool) ([]*models.Show, error) {
	var shows []*models.Show
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	result := query.Find(&shows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list shows: %w", MapGormError(result.Error))
	}
	return shows, nil
}
