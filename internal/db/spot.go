package db

import (
	"context"
	"fmt"

	"github.com/stationops/airtime/internal/models"
	"gorm.io/gorm"
)

// SpotRepository handles database operations for spots
type SpotRepository struct {
	db *DB
}

// NewSpotRepository creates a new spot repository
func NewSpotRepository(db *DB) *SpotRepository {
	return &SpotRepository{db: db}
}

// GetByID retrieves a spot by its id
func (r *SpotRepository) GetByID(ctx context.Context, id int64) (*models.Spot, error) {
	var spot models.Spot
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&spot)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &spot, nil
}

// ListBySchedule retrieves all spots for a schedule with DJ and show
// preloaded, ordered day-of-week first then offset
func (r *SpotRepository) ListBySchedule(ctx context.Context, scheduleID int64) ([]*models.Spot, error) {
	var spots []*models.Spot
	result := r.db.WithContext(ctx).
		Preload("DJ").
		Preload("Show").
		Where("schedule_id = ?", scheduleID).
		Order(`day_of_week ASC, "offset" ASC`).
		Find(&spots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list spots: %w", MapGormError(result.Error))
	}
	return spots, nil
}

// Save inserts or updates a spot depending on whether it has an id
func (r *SpotRepository) Save(ctx context.Context, spot *models.Spot) error {
	return r.SaveTx(r.db.WithContext(ctx), spot)
}

// SaveTx inserts or updates a spot on an existing transaction handle
func (r *SpotRepository) SaveTx(tx *gorm.DB, spot *models.Spot) error {
	var result *gorm.DB
	if spot.ID == 0 {
		result = tx.Create(spot)
	} else {
		result = tx.Where("id = ?", spot.ID).
			Select("day_of_week", "repeat_every", "offset", "dj_id", "show_id", "schedule_id").
			Updates(spot)
		if result.Error == nil && result.RowsAffected == 0 {
			return ErrNotFound
		}
	}
	if result.Error != nil {
		return fmt.Errorf("failed to save spot: %w", MapGormError(result.Error))
	}
	return nil
}

// DeleteByIDs removes every spot whose id is in the set. Deletion is
// scoped by id only, not by schedule. Missing ids are ignored.
func (r *SpotRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	return r.DeleteByIDsTx(r.db.WithContext(ctx), ids)
}

// DeleteByIDsTx removes spots by id on an existing transaction handle
func (r *SpotRepository) DeleteByIDsTx(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	result := tx.Where("id IN ?", ids).Delete(&models.Spot{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete spots: %w", MapGormError(result.Error))
	}
	return nil
}
