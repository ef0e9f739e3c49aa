package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/models"
	"github.com/teambition/rrule-go"
)

// defaultPreviewCap bounds how many airtimes a preview may expand to
const defaultPreviewCap = 1000

// Airtime is one concrete on-air occurrence of a spot within a schedule's
// date range.
type Airtime struct {
	SpotID   int64     `json:"spot_id"`
	ShowName string    `json:"show_name"`
	DJName   string    `json:"dj_name"`
	StartsAt time.Time `json:"starts_at"`
}

// rruleWeekdays indexed by the grid's Monday-based day-of-week
var rruleWeekdays = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// ExpandAirtimes projects every spot of the schedule into concrete airtimes
// across the schedule's inclusive date range, sorted chronologically and
// capped at limit occurrences (defaultPreviewCap when limit <= 0). Weekly
// spots expand to every matching weekday, nth-day-of-month spots to the Nth
// such weekday of each month, and never-repeating spots to their first
// occurrence only.
func ExpandAirtimes(ctx context.Context, repos *db.Repositories, sched *models.Schedule, limit int) ([]Airtime, error) {
	if limit <= 0 {
		limit = defaultPreviewCap
	}

	spots, err := repos.Spots.ListBySchedule(ctx, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to expand schedule %d: %w", sched.ID, err)
	}

	rangeStart := time.Date(sched.StartDate.Year(), sched.StartDate.Month(), sched.StartDate.Day(),
		0, 0, 0, 0, time.UTC)
	// End of the inclusive final day.
	rangeEnd := time.Date(sched.EndDate.Year(), sched.EndDate.Month(), sched.EndDate.Day(),
		23, 59, 59, 0, time.UTC)

	airtimes := make([]Airtime, 0, len(spots))
	for _, spot := range spots {
		occurrences, err := spotOccurrences(spot, rangeStart, rangeEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to expand spot %d: %w", spot.ID, err)
		}
		for _, when := range occurrences {
			airtimes = append(airtimes, Airtime{
				SpotID:   spot.ID,
				ShowName: showName(spot),
				DJName:   djName(spot),
				StartsAt: when,
			})
		}
	}

	sort.Slice(airtimes, func(i, j int) bool {
		return airtimes[i].StartsAt.Before(airtimes[j].StartsAt)
	})
	if len(airtimes) > limit {
		airtimes = airtimes[:limit]
	}
	return airtimes, nil
}

// spotOccurrences expands one spot's repeat rule inside [rangeStart, rangeEnd]
func spotOccurrences(spot *models.Spot, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	if !models.ValidDay(spot.DayOfWeek) || !spot.RepeatEvery.Valid() {
		return nil, fmt.Errorf("%w: spot %d has day %d repeat %d",
			ErrMalformedRecord, spot.ID, spot.DayOfWeek, int(spot.RepeatEvery))
	}

	weekday := rruleWeekdays[spot.DayOfWeek]
	dtstart := rangeStart.Add(time.Duration(spot.Offset) * time.Second)

	opts := rrule.ROption{
		Dtstart: dtstart,
		Until:   rangeEnd,
	}
	switch spot.RepeatEvery {
	case models.RepeatWeekly:
		opts.Freq = rrule.WEEKLY
		opts.Byweekday = []rrule.Weekday{weekday}
	case models.RepeatNever:
		opts.Freq = rrule.WEEKLY
		opts.Byweekday = []rrule.Weekday{weekday}
		opts.Count = 1
	default:
		// Nth weekday of the month.
		opts.Freq = rrule.MONTHLY
		opts.Byweekday = []rrule.Weekday{weekday.Nth(int(spot.RepeatEvery))}
	}

	rule, err := rrule.NewRRule(opts)
	if err != nil {
		return nil, err
	}
	return rule.Between(rangeStart, rangeEnd, true), nil
}

func showName(spot *models.Spot) string {
	if spot.Show != nil {
		return spot.Show.Name
	}
	return ""
}

func djName(spot *models.Spot) string {
	if spot.DJ != nil {
		return spot.DJ.Name()
	}
	return ""
}
