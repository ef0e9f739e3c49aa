package schedule

import (
	"context"
	"fmt"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/logger"
	"github.com/stationops/airtime/internal/models"
	"gorm.io/gorm"
)

// Reconciler applies an edited batch of spot records against the persisted
// spot set for a schedule.
type Reconciler struct {
	db    *db.DB
	repos *db.Repositories
}

// NewReconciler creates a new reconciler instance
func NewReconciler(database *db.DB, repos *db.Repositories) *Reconciler {
	return &Reconciler{db: database, repos: repos}
}

// Apply reconciles a batch against the schedule. Every record is first
// materialized via FromRecord, so any dangling show/dj/spot reference aborts
// before a single row changes; then all saves and all deletions run in one
// transaction. Either the whole batch lands or none of it does.
//
// Deletions are scoped by spot id alone: a pk in deletedPKs removes that spot
// no matter which schedule owns it. Kept from the original contract.
func (r *Reconciler) Apply(ctx context.Context, sched *models.Schedule, records []SpotRecord, deletedPKs []int64) error {
	spots := make([]*models.Spot, 0, len(records))
	for i, record := range records {
		spot, err := FromRecord(ctx, r.repos, record, sched)
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Int64("schedule_id", sched.ID).
				Int("record_index", i).
				Msg("Batch apply aborted: record did not resolve")
			return fmt.Errorf("failed to apply batch: %w", err)
		}
		spots = append(spots, spot)
	}

	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, spot := range spots {
			if err := r.repos.Spots.SaveTx(tx, spot); err != nil {
				return err
			}
		}
		return r.repos.Spots.DeleteByIDsTx(tx, deletedPKs)
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Int64("schedule_id", sched.ID).
			Int("record_count", len(records)).
			Int("deleted_count", len(deletedPKs)).
			Msg("Failed to apply schedule batch")
		return fmt.Errorf("failed to apply batch: %w", err)
	}

	logger.Log.Info().
		Int64("schedule_id", sched.ID).
		Int("record_count", len(records)).
		Int("deleted_count", len(deletedPKs)).
		Msg("Schedule batch applied")

	return nil
}
