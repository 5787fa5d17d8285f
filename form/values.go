package form

import (
	"time"

	"github.com/bytedance/sonic"
)

// DateRange mirrors the wire shape of a date_range answer.
// Either end may be nil while the user is still picking.
type DateRange struct {
	Start *time.Time `json:"startDate"`
	End   *time.Time `json:"endDate"`
}

func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Values is a ResponseMap: field id → answer. Values round-trip through
// JSON, so the accessors coerce from the decoded forms (float64 for
// numbers, []any for lists, map[string]any for date ranges) as well as
// from the native Go types.
type Values map[string]any

func (v Values) String(id string) string {
	if s, ok := v[id].(string); ok {
		return s
	}
	return ""
}

func (v Values) Number(id string) float64 {
	switch n := v[id].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func (v Values) Bool(id string) bool {
	if b, ok := v[id].(bool); ok {
		return b
	}
	return false
}

func (v Values) StringSet(id string) []string {
	switch list := v[id].(type) {
	case []string:
		return append([]string{}, list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func (v Values) DateRange(id string) DateRange {
	switch r := v[id].(type) {
	case DateRange:
		return r
	case *DateRange:
		if r != nil {
			return *r
		}
	case map[string]any:
		data, err := sonic.Marshal(r)
		if err != nil {
			return DateRange{}
		}
		var dr DateRange
		if err := sonic.Unmarshal(data, &dr); err != nil {
			return DateRange{}
		}
		return dr
	}
	return DateRange{}
}

// Clone returns a shallow copy. Answer values are treated as immutable
// once set, so copying the top-level map is enough.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
