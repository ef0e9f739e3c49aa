// Package schedule implements the broadcast schedule engine: the time grid,
// recurrence resolution, spot record conversion, candidate generation, and
// batch reconciliation against the persisted spot set.
package schedule

import (
	"fmt"
	"iter"
	"sync"
	"time"
)

// SecondsPerDay is the number of seconds in a broadcast day
const SecondsPerDay = 24 * 60 * 60

// Choice is a value/label pair for selection lists
type Choice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Offsets enumerates the valid offsets-from-midnight for the given increment,
// in seconds: 0, inc, 2*inc, … strictly below one day. The sequence is finite
// and can be ranged over more than once. An increment that does not evenly
// divide the day leaves a final partial bucket, which is dropped.
func Offsets(incrementSeconds int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if incrementSeconds <= 0 {
			return
		}
		for offset := 0; offset < SecondsPerDay; offset += incrementSeconds {
			if !yield(offset) {
				return
			}
		}
	}
}

// OffsetLabel renders an offset as a clock label like "03:30PM".
// Display only; nothing downstream parses it back.
func OffsetLabel(offsetSeconds int) string {
	t := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(offsetSeconds) * time.Second)
	return t.Format("03:04PM")
}

// hourChoices is computed once on first use rather than at package load
var hourChoices = sync.OnceValue(func() []Choice {
	choices := make([]Choice, 0, 24)
	for seconds := 3600; seconds < SecondsPerDay+3600; seconds += 3600 {
		choices = append(choices, Choice{
			Value: seconds,
			Label: fmt.Sprintf("%d hours", seconds/3600),
		})
	}
	return choices
})

// HourChoices returns the increment choices offered when generating a grid,
// from 1 hour up to 24 hours.
func HourChoices() []Choice {
	return hourChoices()
}

// OffsetChoices returns value/label pairs for every offset at the given
// increment, for selection lists.
func OffsetChoices(incrementSeconds int) []Choice {
	var choices []Choice
	for offset := range Offsets(incrementSeconds) {
		choices = append(choices, Choice{Value: offset, Label: OffsetLabel(offset)})
	}
	return choices
}
