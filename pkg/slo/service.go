package slo

import (
	"context"
	"log/slog"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Store interface {
	CreateSLO(ctx context.Context, slo *aggregates.SLO) error
	UpdateSLO(ctx context.Context, slo *aggregates.SLO) error
	GetSLO(ctx context.Context, id string) (*aggregates.SLO, error)
	DeleteSLO(ctx context.Context, id string) error
	ListSLOs(ctx context.Context) ([]*aggregates.SLO, error)
	ApplyChanges(ctx context.Context, changes aggregates.Changes) error
	CountSLOs(ctx context.Context) (int, error)
}

type Service struct {
	logger    *slog.Logger
	store     Store
	drafts    *Drafts
	exporters map[aggregates.Format]Exporter
	tracer    trace.Tracer
}

func New(logger *slog.Logger, store Store, drafts *Drafts) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		drafts:    drafts,
		exporters: DefaultExporters(),
		tracer:    otel.Tracer("github.com/appclacks/slo-dashboard/pkg/slo"),
	}
}

// RegisterExporter adds or replaces the renderer for a format.
func (s *Service) RegisterExporter(format aggregates.Format, exporter Exporter) {
	s.exporters[format] = exporter
}
