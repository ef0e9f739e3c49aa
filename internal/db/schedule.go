// Package db provides database connection management and repository interfaces.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stationops/airtime/internal/models"
)

// ScheduleRepository handles database operations for schedules
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule into the database
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	result := r.db.WithContext(ctx).Create(schedule)
	if result.Error != nil {
		return fmt.Errorf("failed to create schedule: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a schedule by its id
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &schedule, nil
}

// List retrieves all schedules ordered by start date (newest first)
func (r *ScheduleRepository) List(ctx context.Context) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	result := r.db.WithContext(ctx).Order("start_date DESC").Find(&schedules)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", MapGormError(result.Error))
	}
	return schedules, nil
}

// Current retrieves the schedule whose date range contains the given day.
// Zero matches and multiple matches are both reported as
// ErrAmbiguousSchedule; callers cannot tell the cases apart.
func (r *ScheduleRepository) Current(ctx context.Context, day time.Time) (*models.Schedule, error) {
	date := day.Format("2006-01-02")
	var schedules []*models.Schedule
	result := r.db.WithContext(ctx).
		Where("date(start_date) <= ? AND date(end_date) >= ?", date, date).
		Find(&schedules)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query current schedule: %w", MapGormError(result.Error))
	}
	if len(schedules) != 1 {
		return nil, ErrAmbiguousSchedule
	}
	return schedules[0], nil
}

// Delete deletes a schedule by its id (cascade delete to spots)
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Schedule{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
