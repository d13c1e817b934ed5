package handlers

import (
	"context"
	"io"

	"github.com/appclacks/slo-dashboard/pkg/dashboard"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

type SLOService interface {
	Validate(form *aggregates.Form) aggregates.ValidationErrors
	CreateSLO(ctx context.Context, form *aggregates.Form) (*aggregates.SLO, error)
	UpdateSLO(ctx context.Context, id string, form *aggregates.Form) (*aggregates.SLO, error)
	GetSLO(ctx context.Context, id string) (*aggregates.SLO, error)
	DeleteSLO(ctx context.Context, id string) error
	ListSLOs(ctx context.Context, criteria aggregates.Criteria, sort aggregates.Sort) ([]*aggregates.SLO, error)
	Select(ctx context.Context, ids []string, all bool, criteria aggregates.Criteria) ([]string, error)
	ApplyBulk(ctx context.Context, action aggregates.Action, ids []string) ([]*aggregates.SLO, error)
	Export(ctx context.Context, request aggregates.ExportRequest, w io.Writer) (string, error)
	SaveDraft(ctx context.Context, form *aggregates.Form) error
	LoadDraft(ctx context.Context) (*aggregates.Form, error)
	ClearDraft(ctx context.Context) error
	EditDraft(ctx context.Context, field string, value any) (*aggregates.Form, aggregates.ValidationErrors, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (dashboard.Stats, error)
}

type Builder struct {
	slo       SLOService
	dashboard DashboardService
}

func NewBuilder(slo SLOService, dashboard DashboardService) *Builder {
	return &Builder{
		slo:       slo,
		dashboard: dashboard,
	}
}
