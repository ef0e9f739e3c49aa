package models

import "fmt"

// Day of week values for spots. Weeks start on Monday, matching the
// station's printed programming grid.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// RepeatRule classifies how a spot recurs.
type RepeatRule int

// Repeat rule values. The 1..6 range means "the Nth <weekday> of the month".
const (
	RepeatWeekly RepeatRule = 0
	RepeatNever  RepeatRule = 7
)

// dayLabels indexed by day-of-week (Monday = 0).
var dayLabels = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var dayAbbrevs = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Spot assigns a show and DJ to a recurring slot within a schedule.
// Offset is seconds since local midnight.
type Spot struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	DayOfWeek   int        `json:"day_of_week" gorm:"type:integer;not null;column:day_of_week" validate:"gte=0,lte=6"`
	RepeatEvery RepeatRule `json:"repeat_every" gorm:"type:integer;not null;column:repeat_every" validate:"gte=0,lte=7"`
	Offset      int        `json:"offset" gorm:"type:integer;not null;column:offset" validate:"gte=0,lt=86400"`
	DJID        int64      `json:"dj_id" gorm:"not null;column:dj_id"`
	ShowID      int64      `json:"show_id" gorm:"not null;column:show_id"`
	ScheduleID  int64      `json:"schedule_id" gorm:"not null;column:schedule_id"`

	DJ   *DJ   `json:"dj,omitempty" gorm:"foreignKey:DJID"`
	Show *Show `json:"show,omitempty" gorm:"foreignKey:ShowID"`
}

// TableName overrides GORM's pluralization
func (Spot) TableName() string {
	return "spots"
}

// ValidDay reports whether d is a valid day-of-week value
func ValidDay(d int) bool {
	return d >= Monday && d <= Sunday
}

// Valid reports whether r is one of the defined repeat rules
func (r RepeatRule) Valid() bool {
	return r >= RepeatWeekly && r <= RepeatNever
}

// Label returns the display name for a repeat rule, e.g. "3rd day of month"
func (r RepeatRule) Label() string {
	switch {
	case r == RepeatWeekly:
		return "Weekly"
	case r == RepeatNever:
		return "Never"
	case r.Valid():
		return fmt.Sprintf("%s day of month", ordinal(int(r)))
	default:
		return "Unknown"
	}
}

// DayLabel returns the display name for a day-of-week value
func DayLabel(day int) string {
	if !ValidDay(day) {
		return "Unknown"
	}
	return dayLabels[day]
}

// DayAbbrev returns the three-letter abbreviation for a day-of-week value
func DayAbbrev(day int) string {
	if !ValidDay(day) {
		return "???"
	}
	return dayAbbrevs[day]
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
