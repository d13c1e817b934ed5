package slo

import (
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

// Editor owns an in-progress form and its validation errors.
type Editor struct {
	form   *aggregates.Form
	errors aggregates.ValidationErrors
	dirty  bool
}

func NewEditor(form *aggregates.Form) *Editor {
	if form == nil {
		form = aggregates.NewForm()
	}
	return &Editor{
		form:   form.Copy(),
		errors: aggregates.ValidationErrors{},
	}
}

// Set changes one field and drops the error reported for it.
func (e *Editor) Set(field string, value any) error {
	if err := SetField(e.form, field, value); err != nil {
		return err
	}
	e.dirty = true
	delete(e.errors, field)
	return nil
}

func (e *Editor) Validate() aggregates.ValidationErrors {
	e.errors = Validate(e.form)
	return e.Errors()
}

func (e *Editor) Errors() aggregates.ValidationErrors {
	result := aggregates.ValidationErrors{}
	for k, v := range e.errors {
		result[k] = v
	}
	return result
}

func (e *Editor) Form() *aggregates.Form {
	return e.form.Copy()
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

// MarkSaved is called once the form has been persisted.
func (e *Editor) MarkSaved() {
	e.dirty = false
}
