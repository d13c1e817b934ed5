package slo

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/appclacks/slo-dashboard/internal/util"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

const SubmitErrorMessage = "Failed to save SLO. Please try again."

// ValidationFailure is returned when a form is submitted with errors.
type ValidationFailure struct {
	Errors aggregates.ValidationErrors
}

func (v *ValidationFailure) Error() string {
	return "invalid SLO: " + strings.Join(v.Errors.Messages(), ", ")
}

// SubmitFailure is returned when the store rejects a valid form. The form
// has been kept as draft.
type SubmitFailure struct {
	Cause error
}

func (s *SubmitFailure) Error() string {
	return fmt.Sprintf("fail to save SLO: %s", s.Cause.Error())
}

func (s *SubmitFailure) Unwrap() error {
	return s.Cause
}

func (s *SubmitFailure) Errors() aggregates.ValidationErrors {
	return aggregates.ValidationErrors{aggregates.FieldSubmit: SubmitErrorMessage}
}

// FromForm builds a new SLO record from a valid form.
func FromForm(form *aggregates.Form, now time.Time) *aggregates.SLO {
	target, _ := strconv.ParseFloat(strings.TrimSpace(form.TargetValue), 64)
	return &aggregates.SLO{
		ID:                util.NewUUID(),
		Name:              strings.TrimSpace(form.Name),
		Description:       strings.TrimSpace(form.Description),
		Service:           form.Service,
		Target:            target,
		Status:            aggregates.StatusUnknown,
		Owner:             form.OwnerTeam,
		Tags:              ParseTags(form.Tags),
		MonitoringEnabled: true,
		Version:           1,
		Config:            form.Copy(),
		CreatedAt:         now,
		LastModified:      now,
	}
}

func (s *Service) Validate(form *aggregates.Form) aggregates.ValidationErrors {
	return Validate(form)
}

func (s *Service) CreateSLO(ctx context.Context, form *aggregates.Form) (*aggregates.SLO, error) {
	ctx, span := s.tracer.Start(ctx, "slo.create")
	defer span.End()
	if errors := Validate(form); !errors.Valid() {
		return nil, &ValidationFailure{Errors: errors}
	}
	record := FromForm(form, time.Now().UTC())
	s.logger.Info(fmt.Sprintf("creating SLO %s", record.Name))
	if err := s.store.CreateSLO(ctx, record); err != nil {
		s.keepDraft(ctx, form)
		return nil, &SubmitFailure{Cause: err}
	}
	if err := s.drafts.Clear(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("fail to clear draft after creating SLO %s: %s", record.ID, err.Error()))
	}
	return record, nil
}

func (s *Service) UpdateSLO(ctx context.Context, id string, form *aggregates.Form) (*aggregates.SLO, error) {
	ctx, span := s.tracer.Start(ctx, "slo.update")
	defer span.End()
	if errors := Validate(form); !errors.Valid() {
		return nil, &ValidationFailure{Errors: errors}
	}
	current, err := s.store.GetSLO(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("updating SLO %s", id))
	now := time.Now().UTC()
	updated := FromForm(form, now)
	updated.ID = current.ID
	updated.Status = current.Status
	updated.CurrentValue = current.CurrentValue
	updated.MonitoringEnabled = current.MonitoringEnabled
	updated.CreatedAt = current.CreatedAt
	updated.Version = current.Version + 1
	if err := s.store.UpdateSLO(ctx, updated); err != nil {
		return nil, &SubmitFailure{Cause: err}
	}
	return updated, nil
}

func (s *Service) keepDraft(ctx context.Context, form *aggregates.Form) {
	if err := s.drafts.Save(ctx, form); err != nil {
		s.logger.Error(fmt.Sprintf("fail to keep draft after failed submission: %s", err.Error()))
	}
}

func (s *Service) GetSLO(ctx context.Context, id string) (*aggregates.SLO, error) {
	return s.store.GetSLO(ctx, id)
}

func (s *Service) DeleteSLO(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("deleting SLO %s", id))
	return s.store.DeleteSLO(ctx, id)
}

func (s *Service) CountSLOs(ctx context.Context) (int, error) {
	return s.store.CountSLOs(ctx)
}

// ListSLOs returns the records matching the criteria, sorted when a sort
// key is set.
func (s *Service) ListSLOs(ctx context.Context, criteria aggregates.Criteria, sort aggregates.Sort) ([]*aggregates.SLO, error) {
	ctx, span := s.tracer.Start(ctx, "slo.list")
	defer span.End()
	if sort.Key != "" && !ValidSortKey(sort.Key) {
		return nil, er.Newf("invalid sort key %s", er.BadRequest, true, sort.Key)
	}
	records, err := s.store.ListSLOs(ctx)
	if err != nil {
		return nil, err
	}
	if criteria.HasDateRange() {
		s.logger.Warn("date range filters are not applied to the SLO list")
	}
	return Sort(Filter(records, criteria), sort), nil
}

// Select resolves the ids targeted by a bulk request. When all is set the
// ids are every record visible with the criteria.
func (s *Service) Select(ctx context.Context, ids []string, all bool, criteria aggregates.Criteria) ([]string, error) {
	if !all {
		return ids, nil
	}
	records, err := s.store.ListSLOs(ctx)
	if err != nil {
		return nil, err
	}
	view := NewView(records)
	view.SetCriteria(criteria)
	view.SelectAll()
	return view.Selected(), nil
}

// ApplyBulk runs a bulk action against the stored records and persists the
// result. It returns the new collection.
func (s *Service) ApplyBulk(ctx context.Context, action aggregates.Action, ids []string) ([]*aggregates.SLO, error) {
	ctx, span := s.tracer.Start(ctx, "slo.bulk")
	defer span.End()
	if !ValidAction(action) {
		return nil, er.Newf("unknown bulk action %s", er.BadRequest, true, action)
	}
	if action == aggregates.ActionExport {
		return nil, er.New("export is not a stored bulk action, use the export endpoint", er.BadRequest, true)
	}
	if len(ids) == 0 {
		return nil, er.New("no SLO selected", er.BadRequest, true)
	}
	s.logger.Info(fmt.Sprintf("applying bulk action %s on %d SLO(s)", action, len(ids)))
	records, err := s.store.ListSLOs(ctx)
	if err != nil {
		return nil, err
	}
	result, err := Apply(action, ids, records, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	changes := Diff(records, result)
	if changes.Empty() {
		return result, nil
	}
	if err := s.store.ApplyChanges(ctx, changes); err != nil {
		return nil, fmt.Errorf("fail to apply bulk action %s: %w", action, err)
	}
	return result, nil
}

// Export writes the selected records. It returns the content type of the
// rendered document.
func (s *Service) Export(ctx context.Context, request aggregates.ExportRequest, w io.Writer) (string, error) {
	ctx, span := s.tracer.Start(ctx, "slo.export")
	defer span.End()
	exporter, ok := s.exporters[request.Format]
	if !ok {
		return "", er.Newf("export format %s is not supported", er.BadRequest, true, request.Format)
	}
	records, err := s.store.ListSLOs(ctx)
	if err != nil {
		return "", err
	}
	selected := make(map[string]bool, len(request.IDs))
	for _, id := range request.IDs {
		selected[id] = true
	}
	subset := []*aggregates.SLO{}
	for _, record := range records {
		if selected[record.ID] {
			subset = append(subset, record)
		}
	}
	s.logger.Info(fmt.Sprintf("exporting %d SLO(s) as %s", len(subset), request.Format))
	if err := exporter.Export(w, subset, request.Fields); err != nil {
		return "", err
	}
	return exporter.ContentType(), nil
}

func (s *Service) SaveDraft(ctx context.Context, form *aggregates.Form) error {
	return s.drafts.Save(ctx, form)
}

func (s *Service) LoadDraft(ctx context.Context) (*aggregates.Form, error) {
	return s.drafts.Load(ctx)
}

func (s *Service) ClearDraft(ctx context.Context) error {
	return s.drafts.Clear(ctx)
}

// EditDraft applies one field edit to the current draft, or to an empty
// form when there is none, and saves it.
func (s *Service) EditDraft(ctx context.Context, field string, value any) (*aggregates.Form, aggregates.ValidationErrors, error) {
	draft, err := s.drafts.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	editor := NewEditor(draft)
	editor.Validate()
	if err := editor.Set(field, value); err != nil {
		return nil, nil, err
	}
	form := editor.Form()
	if err := s.drafts.Save(ctx, form); err != nil {
		return nil, nil, err
	}
	editor.MarkSaved()
	return form, editor.Errors(), nil
}
