package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/prometheus/client_golang/prometheus"
)

type Store interface {
	ListSLOs(ctx context.Context) ([]*aggregates.SLO, error)
}

type Service struct {
	logger              *slog.Logger
	store               Store
	refreshCounter      *prometheus.CounterVec
	sloGauge            *prometheus.GaugeVec
	alertsGauge         prometheus.Gauge
	reliabilityGauge    prometheus.Gauge
	servicesGauge       prometheus.Gauge
	servicesAtRiskGauge prometheus.Gauge
	interval            time.Duration
	wg                  sync.WaitGroup
	stop                chan bool
	ticker              *time.Ticker
}

func New(logger *slog.Logger, store Store, registry *prometheus.Registry, interval time.Duration) (*Service, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid dashboard refresh interval %s", interval)
	}
	refreshCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_executions_total",
			Help: "Count the number of executions of the job refreshing the dashboard metrics",
		},
		[]string{"status"})
	sloGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slo_total",
			Help: "Number of SLOs per status",
		},
		[]string{"status"})
	alertsGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "slo_active_alerts",
		Help: "Number of SLOs in warning or critical state",
	})
	reliabilityGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "slo_reliability_score",
		Help: "Mean current value of the SLOs reporting one",
	})
	servicesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "slo_services",
		Help: "Number of distinct services with an SLO",
	})
	servicesAtRiskGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "slo_services_at_risk",
		Help: "Number of distinct services with an SLO in warning or critical state",
	})
	collectors := []prometheus.Collector{refreshCounter, sloGauge, alertsGauge, reliabilityGauge, servicesGauge, servicesAtRiskGauge}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return &Service{
		logger:              logger,
		store:               store,
		refreshCounter:      refreshCounter,
		sloGauge:            sloGauge,
		alertsGauge:         alertsGauge,
		reliabilityGauge:    reliabilityGauge,
		servicesGauge:       servicesGauge,
		servicesAtRiskGauge: servicesAtRiskGauge,
		interval:            interval,
		stop:                make(chan bool),
	}, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.store.ListSLOs(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(records), nil
}

// Refresh computes the stats and publishes them as metrics.
func (s *Service) Refresh(ctx context.Context) error {
	stats, err := s.Stats(ctx)
	if err != nil {
		s.refreshCounter.With(prometheus.Labels{"status": "failure"}).Inc()
		return err
	}
	for status, count := range stats.ByStatus {
		s.sloGauge.With(prometheus.Labels{"status": string(status)}).Set(float64(count))
	}
	s.alertsGauge.Set(float64(stats.ActiveAlerts))
	s.servicesGauge.Set(float64(stats.Services))
	s.servicesAtRiskGauge.Set(float64(stats.ServicesAtRisk))
	if stats.ReliabilityScore != nil {
		s.reliabilityGauge.Set(*stats.ReliabilityScore)
	} else {
		s.reliabilityGauge.Set(0)
	}
	s.refreshCounter.With(prometheus.Labels{"status": "success"}).Inc()
	return nil
}

func (s *Service) Start() {
	s.ticker = time.NewTicker(s.interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.stop:
				return
			case <-s.ticker.C:
				s.logger.Debug("refreshing dashboard metrics")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				err := s.Refresh(ctx)
				cancel()
				if err != nil {
					s.logger.Error(fmt.Sprintf("fail to refresh dashboard metrics: %s", err.Error()))
				}
			}
		}
	}()
}

func (s *Service) Stop() {
	s.ticker.Stop()
	s.stop <- true
	s.wg.Wait()
}
