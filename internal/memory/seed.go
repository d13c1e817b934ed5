package memory

import (
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

func value(v float64) *float64 {
	return &v
}

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

// MockSLOs is the dataset served when seeding is enabled.
func MockSLOs() []*aggregates.SLO {
	records := []*aggregates.SLO{
		{
			ID:           "slo-001",
			Name:         "API Gateway Availability",
			Description:  "Ensures API Gateway maintains 99.9% uptime for all incoming requests with proper error handling and response times under 200ms",
			Service:      "API Gateway",
			Target:       99.9,
			Status:       aggregates.StatusHealthy,
			LastModified: day(time.October, 28),
			Owner:        "DevOps Team",
			Tags:         []string{"critical", "gateway"},
			CurrentValue: value(99.95),
		},
		{
			ID:           "slo-002",
			Name:         "User Service Response Time",
			Description:  "User authentication and profile management service must respond within 150ms for 95% of requests during peak hours",
			Service:      "User Service",
			Target:       95.0,
			Status:       aggregates.StatusWarning,
			LastModified: day(time.October, 27),
			Owner:        "Backend Team",
			Tags:         []string{"performance", "user"},
			CurrentValue: value(94.2),
		},
		{
			ID:           "slo-003",
			Name:         "Payment Processing Success Rate",
			Description:  "Payment transactions must complete successfully 99.95% of the time with proper fraud detection and validation",
			Service:      "Payment Service",
			Target:       99.95,
			Status:       aggregates.StatusCritical,
			LastModified: day(time.October, 29),
			Owner:        "Payment Team",
			Tags:         []string{"critical", "payment"},
			CurrentValue: value(98.8),
		},
		{
			ID:           "slo-004",
			Name:         "Database Query Performance",
			Description:  "Database queries must execute within 100ms for 90% of read operations and 500ms for write operations",
			Service:      "Database",
			Target:       90.0,
			Status:       aggregates.StatusHealthy,
			LastModified: day(time.October, 26),
			Owner:        "DBA Team",
			Tags:         []string{"database", "performance"},
			CurrentValue: value(92.1),
		},
		{
			ID:           "slo-005",
			Name:         "Notification Delivery Rate",
			Description:  "Push notifications and email alerts must be delivered within 30 seconds for 98% of all notification requests",
			Service:      "Notification Service",
			Target:       98.0,
			Status:       aggregates.StatusHealthy,
			LastModified: day(time.October, 25),
			Owner:        "Platform Team",
			Tags:         []string{"notification", "delivery"},
			CurrentValue: value(98.7),
		},
		{
			ID:           "slo-006",
			Name:         "Cache Hit Rate",
			Description:  "Redis cache must maintain 85% hit rate for frequently accessed data to ensure optimal application performance",
			Service:      "Cache Service",
			Target:       85.0,
			Status:       aggregates.StatusWarning,
			LastModified: day(time.October, 24),
			Owner:        "Infrastructure Team",
			Tags:         []string{"cache", "performance"},
			CurrentValue: value(83.4),
		},
		{
			ID:           "slo-007",
			Name:         "Authentication Service Uptime",
			Description:  "OAuth and SSO authentication services must maintain 99.99% availability with zero data breaches",
			Service:      "Auth Service",
			Target:       99.99,
			Status:       aggregates.StatusHealthy,
			LastModified: day(time.October, 23),
			Owner:        "Security Team",
			Tags:         []string{"critical", "security"},
			CurrentValue: value(99.99),
		},
		{
			ID:           "slo-008",
			Name:         "File Upload Success Rate",
			Description:  "File upload operations must complete successfully 99% of the time with proper virus scanning and validation",
			Service:      "File Storage",
			Target:       99.0,
			Status:       aggregates.StatusUnknown,
			LastModified: day(time.October, 22),
			Owner:        "Storage Team",
			Tags:         []string{"storage", "upload"},
		},
	}
	for _, record := range records {
		record.MonitoringEnabled = true
		record.Version = 1
		record.CreatedAt = record.LastModified
	}
	return records
}
