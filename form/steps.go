package form

import (
	"github.com/tbxark/planagent/template"
)

// Flow tracks progress through a template's ordered form pages.
// Advancing past either end is a no-op; completeness of the current
// page is deliberately not checked before moving on.
type Flow struct {
	template *template.Template
	current  int
}

func NewFlow(tpl *template.Template) *Flow {
	return &Flow{template: tpl}
}

func (f *Flow) Next() {
	if f.current < len(f.template.Steps)-1 {
		f.current++
	}
}

func (f *Flow) Back() {
	if f.current > 0 {
		f.current--
	}
}

func (f *Flow) Current() int {
	return f.current
}

func (f *Flow) Len() int {
	return len(f.template.Steps)
}

func (f *Flow) CurrentStep() template.Step {
	return f.template.Steps[f.current]
}

// FieldsForCurrentStep returns the current page's fields in template order.
func (f *Flow) FieldsForCurrentStep() []template.Field {
	return f.template.FieldsFor(f.template.Steps[f.current].FieldIDs)
}
