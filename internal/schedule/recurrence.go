package schedule

import "time"

// ResolveOccurrence converts a (day-of-week, offset) pair into a concrete
// time within the Monday-to-Sunday week containing now: now is truncated to
// local midnight, moved back to that week's Monday, then forward dayOfWeek
// days plus offsetSeconds.
//
// The spot's repeat rule is intentionally not consulted; a monthly rule still
// resolves to this week's slot. The result is used for display ordering and
// labels, never for persistence decisions.
func ResolveOccurrence(dayOfWeek, offsetSeconds int, now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monday := midnight.AddDate(0, 0, -mondayBasedWeekday(midnight))
	return monday.AddDate(0, 0, dayOfWeek).Add(time.Duration(offsetSeconds) * time.Second)
}

// mondayBasedWeekday maps time.Weekday (Sunday = 0) onto the grid's
// Monday = 0 numbering.
func mondayBasedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
