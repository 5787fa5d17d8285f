package schedule

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Activity is one time block within a day.
type Activity struct {
	Time  string `json:"time" jsonschema:"description=Time window e.g. 7:30AM–9:00AM"`
	Title string `json:"title" jsonschema:"description=Activity title"`
	Notes string `json:"notes" jsonschema:"description=Brief description"`
}

// Day is one day of the generated schedule. The jsonschema tags feed
// the reflected schema embedded in the generation prompt.
type Day struct {
	Label      string     `json:"day" jsonschema:"description=Day label e.g. Day 1 (Oct 12)"`
	Activities []Activity `json:"activities"`
}

// Schedule is the generated day-by-day plan, in day order.
type Schedule []Day

func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for i, d := range s {
		out[i] = Day{
			Label:      d.Label,
			Activities: append([]Activity(nil), d.Activities...),
		}
	}
	return out
}

// Marshal serializes the schedule to the same JSON shape Parse accepts.
func Marshal(s Schedule) (string, error) {
	out, err := sonic.MarshalString(s)
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}
	return out, nil
}

// PlainText renders the schedule for clipboard and print export:
// a day header, then one line per activity. The output is stable for
// equal schedule values.
func (s Schedule) PlainText() string {
	blocks := make([]string, 0, len(s))
	for _, day := range s {
		var b strings.Builder
		b.WriteString(day.Label)
		b.WriteString("\n")
		lines := make([]string, 0, len(day.Activities))
		for _, act := range day.Activities {
			notes := act.Notes
			if notes == "" {
				notes = "No notes"
			}
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", act.Time, act.Title, notes))
		}
		b.WriteString(strings.Join(lines, "\n"))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
