package schedule

import (
	"context"
	"fmt"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/models"
)

// Generate produces the full candidate grid for a fresh schedule: one weekly
// record per (day, offset) cell, ordered day-major then by offset. Default DJ
// and show may be nil, leaving cells unassigned until the operator fills them
// in. Nothing is persisted.
func Generate(incrementSeconds int, defaultDJ *models.DJ, defaultShow *models.Show) ([]SpotRecord, error) {
	if incrementSeconds <= 0 || incrementSeconds > SecondsPerDay {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIncrement, incrementSeconds)
	}

	var djPK, showPK int64
	if defaultDJ != nil {
		djPK = defaultDJ.ID
	}
	if defaultShow != nil {
		showPK = defaultShow.ID
	}

	records := make([]SpotRecord, 0, 7*(SecondsPerDay/incrementSeconds))
	for day := models.Monday; day <= models.Sunday; day++ {
		for offset := range Offsets(incrementSeconds) {
			records = append(records, SpotRecord{
				PK:          NewSpotPK,
				Offset:      offset,
				DJPK:        djPK,
				ShowPK:      showPK,
				RepeatEvery: int(models.RepeatWeekly),
				DayOfWeek:   day,
			})
		}
	}
	return records, nil
}

// CopyFromSchedule emits one record per spot in the source schedule, in the
// source's iteration order, with every pk forced to the override so the copy
// reconciles into brand-new spots instead of aliasing the source's.
func CopyFromSchedule(ctx context.Context, repos *db.Repositories, source *models.Schedule, pkOverride int64) ([]SpotRecord, error) {
	spots, err := repos.Spots.ListBySchedule(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to copy schedule %d: %w", source.ID, err)
	}

	records := make([]SpotRecord, 0, len(spots))
	for _, spot := range spots {
		record := ToRecord(spot)
		record.PK = pkOverride
		records = append(records, record)
	}
	return records, nil
}

// RecordsFromSchedule serializes a schedule's persisted spots for editing,
// keeping their real pks so edits reconcile as updates.
func RecordsFromSchedule(ctx context.Context, repos *db.Repositories, sched *models.Schedule) ([]SpotRecord, error) {
	spots, err := repos.Spots.ListBySchedule(ctx, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schedule %d: %w", sched.ID, err)
	}

	records := make([]SpotRecord, 0, len(spots))
	for _, spot := range spots {
		records = append(records, ToRecord(spot))
	}
	return records, nil
}
