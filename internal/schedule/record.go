package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/models"
)

// NewSpotPK is the sentinel pk marking a record that has no persisted spot
// behind it yet.
const NewSpotPK = -1

// SpotRecord is the flat, transport-friendly form of a spot used while a
// schedule is being edited. Records live in a session buffer between
// generation and reconciliation and are discarded afterwards.
type SpotRecord struct {
	PK          int64 `json:"pk"`
	Offset      int   `json:"offset"`
	DJPK        int64 `json:"dj_pk"`
	ShowPK      int64 `json:"show_pk"`
	RepeatEvery int   `json:"repeat_every"`
	DayOfWeek   int   `json:"day_of_week"`
}

// IsNew reports whether the record describes a spot that does not exist yet
func (r SpotRecord) IsNew() bool {
	return r.PK == NewSpotPK || r.PK == 0
}

// Describe renders a record the way the printed grid labels a slot: clock
// time, repeat rule, day abbreviation, e.g. "03:00PM / Weekly / Mon". The
// clock time comes from resolving the slot within now's week.
func Describe(record SpotRecord, now time.Time) string {
	occurrence := ResolveOccurrence(record.DayOfWeek, record.Offset, now)
	return fmt.Sprintf("%s / %s / %s",
		occurrence.Format("03:04PM"),
		models.RepeatRule(record.RepeatEvery).Label(),
		models.DayAbbrev(record.DayOfWeek))
}

// ToRecord flattens a persisted spot into its transport form
func ToRecord(spot *models.Spot) SpotRecord {
	return SpotRecord{
		PK:          spot.ID,
		Offset:      spot.Offset,
		DJPK:        spot.DJID,
		ShowPK:      spot.ShowID,
		RepeatEvery: int(spot.RepeatEvery),
		DayOfWeek:   spot.DayOfWeek,
	}
}

// FromRecord materializes a record as a spot belonging to the target
// schedule. A record with the new-spot sentinel pk produces a fresh spot;
// otherwise the persisted spot is loaded and every field except the pk is
// merged onto it. Show and DJ references are resolved through the
// repositories; any lookup miss fails with ErrReferenceNotFound and nothing
// about the spot is considered committed.
func FromRecord(ctx context.Context, repos *db.Repositories, record SpotRecord, sched *models.Schedule) (*models.Spot, error) {
	show, err := repos.Shows.GetByID(ctx, record.ShowPK)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("show %d: %w", record.ShowPK, ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to resolve show %d: %w", record.ShowPK, err)
	}

	dj, err := repos.DJs.GetByID(ctx, record.DJPK)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("dj %d: %w", record.DJPK, ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to resolve dj %d: %w", record.DJPK, err)
	}

	var spot *models.Spot
	if record.IsNew() {
		spot = &models.Spot{}
	} else {
		spot, err = repos.Spots.GetByID(ctx, record.PK)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, fmt.Errorf("spot %d: %w", record.PK, ErrReferenceNotFound)
			}
			return nil, fmt.Errorf("failed to load spot %d: %w", record.PK, err)
		}
	}

	spot.Offset = record.Offset
	spot.RepeatEvery = models.RepeatRule(record.RepeatEvery)
	spot.DayOfWeek = record.DayOfWeek
	spot.ShowID = show.ID
	spot.DJID = dj.ID
	spot.ScheduleID = sched.ID

	return spot, nil
}
