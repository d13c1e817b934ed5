package slo_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/appclacks/slo-dashboard/internal/memory"
	"github.com/appclacks/slo-dashboard/pkg/slo"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateSLO(ctx context.Context, slo *aggregates.SLO) error {
	args := m.Called(ctx, slo)
	return args.Error(0)
}

func (m *mockStore) UpdateSLO(ctx context.Context, slo *aggregates.SLO) error {
	args := m.Called(ctx, slo)
	return args.Error(0)
}

func (m *mockStore) GetSLO(ctx context.Context, id string) (*aggregates.SLO, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*aggregates.SLO), args.Error(1)
}

func (m *mockStore) DeleteSLO(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) ListSLOs(ctx context.Context) ([]*aggregates.SLO, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*aggregates.SLO), args.Error(1)
}

func (m *mockStore) ApplyChanges(ctx context.Context, changes aggregates.Changes) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func (m *mockStore) CountSLOs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newService(t *testing.T) (*slo.Service, *memory.Store) {
	t.Helper()
	store, err := memory.New(slog.Default(), memory.Configuration{Seed: true})
	assert.NoError(t, err)
	drafts, err := slo.NewDrafts(slog.Default(), store, "")
	assert.NoError(t, err)
	return slo.New(slog.Default(), store, drafts), store
}

func TestServiceCreateSLO(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	form := validForm()
	form.Tags = "api, critical"
	form.OwnerTeam = "SRE Team"
	assert.NoError(t, service.SaveDraft(ctx, form))

	record, err := service.CreateSLO(ctx, form)
	assert.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "API availability", record.Name)
	assert.Equal(t, 99.9, record.Target)
	assert.Equal(t, aggregates.StatusUnknown, record.Status)
	assert.Equal(t, "SRE Team", record.Owner)
	assert.Equal(t, []string{"api", "critical"}, record.Tags)
	assert.True(t, record.MonitoringEnabled)
	assert.Equal(t, 1, record.Version)

	stored, err := service.GetSLO(ctx, record.ID)
	assert.NoError(t, err)
	assert.Equal(t, record.Config, stored.Config)

	count, err := service.CountSLOs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 9, count)

	// the draft is discarded once the SLO is created
	draft, err := service.LoadDraft(ctx)
	assert.NoError(t, err)
	assert.Nil(t, draft)
}

func TestServiceCreateInvalidSLO(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	form := validForm()
	form.TargetValue = "120"
	_, err := service.CreateSLO(ctx, form)
	var failure *slo.ValidationFailure
	assert.True(t, errors.As(err, &failure))
	assert.Equal(t, aggregates.ValidationErrors{"targetValue": "Target value must be between 0 and 100"}, failure.Errors)

	count, err := service.CountSLOs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 8, count)
}

func TestServiceCreateKeepsDraftOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	draftStore, err := memory.New(slog.Default(), memory.Configuration{})
	assert.NoError(t, err)
	drafts, err := slo.NewDrafts(slog.Default(), draftStore, "")
	assert.NoError(t, err)
	store := new(mockStore)
	store.On("CreateSLO", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	service := slo.New(slog.Default(), store, drafts)

	form := validForm()
	_, err = service.CreateSLO(ctx, form)
	var failure *slo.SubmitFailure
	assert.True(t, errors.As(err, &failure))
	assert.Equal(t, aggregates.ValidationErrors{"submit": slo.SubmitErrorMessage}, failure.Errors())
	assert.ErrorContains(t, err, "connection refused")
	store.AssertExpectations(t)

	draft, err := service.LoadDraft(ctx)
	assert.NoError(t, err)
	assert.Equal(t, form.Name, draft.Name)
	assert.Equal(t, form.MetricQuery, draft.MetricQuery)
}

func TestServiceUpdateSLO(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	form := validForm()
	form.Name = "API Gateway Availability v2"
	updated, err := service.UpdateSLO(ctx, "slo-001", form)
	assert.NoError(t, err)
	assert.Equal(t, "slo-001", updated.ID)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, aggregates.StatusHealthy, updated.Status)
	assert.Equal(t, 99.95, *updated.CurrentValue)

	stored, err := service.GetSLO(ctx, "slo-001")
	assert.NoError(t, err)
	assert.Equal(t, "API Gateway Availability v2", stored.Name)

	_, err = service.UpdateSLO(ctx, "missing", form)
	assert.ErrorContains(t, err, "not found")
}

func TestServiceDeleteSLO(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	assert.NoError(t, service.DeleteSLO(ctx, "slo-001"))
	_, err := service.GetSLO(ctx, "slo-001")
	corbiErr, ok := err.(*er.Error)
	assert.True(t, ok)
	assert.Equal(t, er.NotFound, corbiErr.Type)
	assert.Error(t, service.DeleteSLO(ctx, "slo-001"))
}

func TestServiceListSLOs(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	criteria := aggregates.DefaultCriteria()
	criteria.Search = "performance"
	records, err := service.ListSLOs(ctx, criteria, aggregates.Sort{Key: aggregates.SortByName, Direction: aggregates.Descending})
	assert.NoError(t, err)
	assert.Equal(t, []string{"slo-004", "slo-006"}, ids(records))

	_, err = service.ListSLOs(ctx, criteria, aggregates.Sort{Key: "priority"})
	assert.ErrorContains(t, err, "invalid sort key")
}

func TestServiceSelect(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	selected, err := service.Select(ctx, []string{"a", "b"}, false, aggregates.DefaultCriteria())
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, selected)

	criteria := aggregates.DefaultCriteria()
	criteria.Status = aggregates.StatusCritical
	selected, err = service.Select(ctx, nil, true, criteria)
	assert.NoError(t, err)
	assert.Equal(t, []string{"slo-003"}, selected)
}

func TestServiceApplyBulk(t *testing.T) {
	ctx := context.Background()
	service, store := newService(t)

	result, err := service.ApplyBulk(ctx, aggregates.ActionDelete, []string{"slo-001", "slo-002"})
	assert.NoError(t, err)
	assert.Len(t, result, 6)
	stored, err := store.ListSLOs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ids(result), ids(stored))

	result, err = service.ApplyBulk(ctx, aggregates.ActionDisable, []string{"slo-003"})
	assert.NoError(t, err)
	assert.Len(t, result, 6)
	record, err := service.GetSLO(ctx, "slo-003")
	assert.NoError(t, err)
	assert.False(t, record.MonitoringEnabled)

	result, err = service.ApplyBulk(ctx, aggregates.ActionDuplicate, []string{"slo-003"})
	assert.NoError(t, err)
	assert.Len(t, result, 7)
	copied := result[6]
	assert.True(t, strings.HasPrefix(copied.ID, "slo-003-copy-"))
	stored, err = store.ListSLOs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ids(result), ids(stored))

	// unknown ids change nothing
	result, err = service.ApplyBulk(ctx, aggregates.ActionEnable, []string{"missing"})
	assert.NoError(t, err)
	assert.Len(t, result, 7)

	_, err = service.ApplyBulk(ctx, aggregates.ActionExport, []string{"slo-003"})
	assert.ErrorContains(t, err, "export endpoint")
	_, err = service.ApplyBulk(ctx, aggregates.ActionDelete, nil)
	assert.ErrorContains(t, err, "no SLO selected")
	_, err = service.ApplyBulk(ctx, "archive", []string{"slo-003"})
	assert.ErrorContains(t, err, "unknown bulk action")
}

func TestServiceApplyBulkStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	records := memory.MockSLOs()
	store.On("ListSLOs", mock.Anything).Return(records, nil)
	store.On("ApplyChanges", mock.Anything, mock.Anything).Return(errors.New("deadlock"))
	drafts, err := slo.NewDrafts(slog.Default(), emptyStore(t), "")
	assert.NoError(t, err)
	service := slo.New(slog.Default(), store, drafts)
	_, err = service.ApplyBulk(ctx, aggregates.ActionDelete, []string{"slo-001"})
	assert.ErrorContains(t, err, "deadlock")
	store.AssertCalled(t, "ApplyChanges", mock.Anything, aggregates.Changes{Deleted: []string{"slo-001"}})
}

func emptyStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.New(slog.Default(), memory.Configuration{})
	assert.NoError(t, err)
	return store
}

func TestServiceExport(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)
	request, err := slo.NewExportRequest([]string{"slo-002", "slo-001"}, aggregates.FormatCSV, []string{"name"})
	assert.NoError(t, err)
	var buffer bytes.Buffer
	contentType, err := service.Export(ctx, request, &buffer)
	assert.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "id,name\nslo-001,API Gateway Availability\nslo-002,User Service Response Time\n", buffer.String())

	request.Format = aggregates.FormatXLSX
	_, err = service.Export(ctx, request, &buffer)
	assert.ErrorContains(t, err, "not supported")
}

func TestServiceEditDraft(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	form, fieldErrors, err := service.EditDraft(ctx, "name", "Checkout")
	assert.NoError(t, err)
	assert.Equal(t, "Checkout", form.Name)
	assert.NotContains(t, fieldErrors, "name")
	assert.Contains(t, fieldErrors, "description")

	form, _, err = service.EditDraft(ctx, "targetValue", 99.5)
	assert.NoError(t, err)
	assert.Equal(t, "Checkout", form.Name)
	assert.Equal(t, "99.5", form.TargetValue)

	draft, err := service.LoadDraft(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "99.5", draft.TargetValue)

	_, _, err = service.EditDraft(ctx, "unknown", "x")
	assert.ErrorContains(t, err, "unknown form field")

	assert.NoError(t, service.ClearDraft(ctx))
	draft, err = service.LoadDraft(ctx)
	assert.NoError(t, err)
	assert.Nil(t, draft)
}
