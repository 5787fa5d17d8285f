package template

// Kind names the input widget a field renders as.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindNumber      Kind = "number"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindBoolean     Kind = "boolean"
	KindDateRange   Kind = "date_range"
)

type Field struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Options     []string `json:"options,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

type Step struct {
	Name     string   `json:"name"`
	FieldIDs []string `json:"field_ids"`
}

// Template is the immutable question set for one event type.
// Fields carry the display order, Steps partition them into pages.
type Template struct {
	EventType string  `json:"event_type"`
	Fields    []Field `json:"fields"`
	Steps     []Step  `json:"steps"`
}

func (t *Template) Field(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func (t *Template) HasField(id string) bool {
	_, ok := t.Field(id)
	return ok
}

// FieldsFor returns the fields named by ids, preserving template order.
func (t *Template) FieldsFor(ids []string) []Field {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	fields := make([]Field, 0, len(ids))
	for _, f := range t.Fields {
		if want[f.ID] {
			fields = append(fields, f)
		}
	}
	return fields
}
