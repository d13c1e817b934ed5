package dashboard_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/appclacks/slo-dashboard/internal/memory"
	"github.com/appclacks/slo-dashboard/pkg/dashboard"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingStore struct{}

func (f *failingStore) ListSLOs(ctx context.Context) ([]*aggregates.SLO, error) {
	return nil, errors.New("store unavailable")
}

func TestRefreshPublishesMetrics(t *testing.T) {
	store, err := memory.New(slog.Default(), memory.Configuration{Seed: true})
	assert.NoError(t, err)
	reg := prometheus.NewRegistry()
	service, err := dashboard.New(slog.Default(), store, reg, time.Minute)
	assert.NoError(t, err)

	assert.NoError(t, service.Refresh(context.Background()))

	expected := `# HELP slo_total Number of SLOs per status
# TYPE slo_total gauge
slo_total{status="critical"} 1
slo_total{status="healthy"} 4
slo_total{status="unknown"} 1
slo_total{status="warning"} 2
# HELP slo_active_alerts Number of SLOs in warning or critical state
# TYPE slo_active_alerts gauge
slo_active_alerts 3
# HELP slo_services_at_risk Number of distinct services with an SLO in warning or critical state
# TYPE slo_services_at_risk gauge
slo_services_at_risk 3
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "slo_total", "slo_active_alerts", "slo_services_at_risk")
	assert.NoError(t, err)

	counter := `# HELP dashboard_refresh_executions_total Count the number of executions of the job refreshing the dashboard metrics
# TYPE dashboard_refresh_executions_total counter
dashboard_refresh_executions_total{status="success"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(counter), "dashboard_refresh_executions_total")
	assert.NoError(t, err)
}

func TestRefreshFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	service, err := dashboard.New(slog.Default(), &failingStore{}, reg, time.Minute)
	assert.NoError(t, err)
	assert.ErrorContains(t, service.Refresh(context.Background()), "store unavailable")
	counter := `# HELP dashboard_refresh_executions_total Count the number of executions of the job refreshing the dashboard metrics
# TYPE dashboard_refresh_executions_total counter
dashboard_refresh_executions_total{status="failure"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(counter), "dashboard_refresh_executions_total")
	assert.NoError(t, err)

	_, err = service.Stats(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	store, err := memory.New(slog.Default(), memory.Configuration{Seed: true})
	assert.NoError(t, err)
	reg := prometheus.NewRegistry()
	service, err := dashboard.New(slog.Default(), store, reg, 10*time.Millisecond)
	assert.NoError(t, err)
	service.Start()
	assert.Eventually(t, func() bool {
		families, err := reg.Gather()
		if err != nil {
			return false
		}
		for _, family := range families {
			if family.GetName() != "dashboard_refresh_executions_total" {
				continue
			}
			for _, metric := range family.GetMetric() {
				if metric.GetCounter().GetValue() >= 1 {
					return true
				}
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	service.Stop()
}

func TestNewInvalidInterval(t *testing.T) {
	_, err := dashboard.New(slog.Default(), &failingStore{}, prometheus.NewRegistry(), 0)
	assert.Error(t, err)
}
