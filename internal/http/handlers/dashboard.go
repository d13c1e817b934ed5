package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (b *Builder) Dashboard(ec echo.Context) error {
	stats, err := b.dashboard.Stats(ec.Request().Context())
	if err != nil {
		return err
	}
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return ec.JSON(http.StatusOK, Dashboard{
		Total:              stats.Total,
		Services:           stats.Services,
		ByStatus:           byStatus,
		ActiveAlerts:       stats.ActiveAlerts,
		ServicesAtRisk:     stats.ServicesAtRisk,
		MonitoringDisabled: stats.MonitoringDisabled,
		ReliabilityScore:   stats.ReliabilityScore,
	})
}
