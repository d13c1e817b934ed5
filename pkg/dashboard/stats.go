package dashboard

import (
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

type Stats struct {
	Total              int
	Services           int
	ByStatus           map[aggregates.Status]int
	ActiveAlerts       int
	ServicesAtRisk     int
	MonitoringDisabled int
	// ReliabilityScore is the mean current value, nil when no SLO reports one.
	ReliabilityScore *float64
}

func Summarize(records []*aggregates.SLO) Stats {
	stats := Stats{
		ByStatus: make(map[aggregates.Status]int),
	}
	for _, status := range aggregates.Statuses {
		stats.ByStatus[status] = 0
	}
	services := make(map[string]bool)
	atRisk := make(map[string]bool)
	sum := 0.0
	reporting := 0
	for _, record := range records {
		stats.Total++
		services[record.Service] = true
		stats.ByStatus[record.Status]++
		if record.Status == aggregates.StatusWarning || record.Status == aggregates.StatusCritical {
			stats.ActiveAlerts++
			atRisk[record.Service] = true
		}
		if !record.MonitoringEnabled {
			stats.MonitoringDisabled++
		}
		if record.CurrentValue != nil {
			sum += *record.CurrentValue
			reporting++
		}
	}
	stats.Services = len(services)
	stats.ServicesAtRisk = len(atRisk)
	if reporting > 0 {
		score := sum / float64(reporting)
		stats.ReliabilityScore = &score
	}
	return stats
}
