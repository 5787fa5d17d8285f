package schedule

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// ParseError reports model output that is not a well-formed schedule.
// It keeps the original text so callers can log or display it; the
// caller must not render anything from a failed parse.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("schedule parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type rawActivity struct {
	Time  *string `json:"time"`
	Title *string `json:"title"`
	Notes *string `json:"notes"`
}

type rawDay struct {
	Label      *string        `json:"day"`
	Activities *[]rawActivity `json:"activities"`
}

// Parse decodes raw model output into a Schedule. The text must be a
// JSON array of days; each day needs a "day" string and an
// "activities" array; each activity needs "time" and "title", with
// "notes" defaulting to empty. Anything else is a ParseError. The
// upstream generator makes no format guarantees, so this is the
// boundary that decides whether output is usable at all.
func Parse(raw string) (Schedule, error) {
	var rows []rawDay
	if err := sonic.UnmarshalString(raw, &rows); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if rows == nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("top-level value is not an array")}
	}
	out := make(Schedule, 0, len(rows))
	for i, row := range rows {
		if row.Label == nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("day %d: missing \"day\"", i)}
		}
		if row.Activities == nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("day %d: missing \"activities\"", i)}
		}
		day := Day{
			Label:      *row.Label,
			Activities: make([]Activity, 0, len(*row.Activities)),
		}
		for j, a := range *row.Activities {
			if a.Time == nil {
				return nil, &ParseError{Raw: raw, Err: fmt.Errorf("day %d activity %d: missing \"time\"", i, j)}
			}
			if a.Title == nil {
				return nil, &ParseError{Raw: raw, Err: fmt.Errorf("day %d activity %d: missing \"title\"", i, j)}
			}
			act := Activity{Time: *a.Time, Title: *a.Title}
			if a.Notes != nil {
				act.Notes = *a.Notes
			}
			day.Activities = append(day.Activities, act)
		}
		out = append(out, day)
	}
	return out, nil
}
