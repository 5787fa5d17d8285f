package plan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tbxark/planagent/form"
)

// EventPlan is the outbound generation payload. It is built once per
// submission and never mutated afterwards.
type EventPlan struct {
	EventType string      `json:"eventType"`
	Responses form.Values `json:"responses"`
}

// Derived keys injected into the outbound responses when a complete
// date range is present. They steer the generator toward the right
// number of days; nothing checks that it listens.
const (
	DatesDurationKey = "dates_duration"
	DayCountKey      = "day_count"
)

// Build assembles the request payload from the event type and the
// current answers. Pure: the input map is copied, never mutated, and
// equal inputs produce equal plans. When the answers contain a complete
// start/end date pair, a formatted range and a day count are added as
// generation hints.
func Build(eventType string, responses form.Values) EventPlan {
	out := responses.Clone()
	if dr, ok := firstCompleteRange(responses); ok {
		out[DatesDurationKey] = FormatRange(*dr.Start, *dr.End)
		out[DayCountKey] = DayCount(*dr.Start, *dr.End)
	}
	return EventPlan{EventType: eventType, Responses: out}
}

// firstCompleteRange scans the answers, in sorted key order, for a
// value shaped like a complete date range.
func firstCompleteRange(responses form.Values) (form.DateRange, bool) {
	keys := make([]string, 0, len(responses))
	for k := range responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if dr := responses.DateRange(k); dr.Complete() {
			return dr, true
		}
	}
	return form.DateRange{}, false
}

// FormatRange renders a human-readable date range, e.g.
// "October 12, 2025–October 14, 2025".
func FormatRange(start, end time.Time) string {
	const layout = "January 2, 2006"
	return fmt.Sprintf("%s–%s", start.Format(layout), end.Format(layout))
}

// DayCount is ceil((end-start)/1 day) + 1, never less than 1. A range
// ending before it starts still counts as a single day.
func DayCount(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}
