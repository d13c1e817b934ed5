package slo_test

import (
	"testing"
	"time"

	"github.com/appclacks/slo-dashboard/internal/memory"
	"github.com/appclacks/slo-dashboard/pkg/slo"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/stretchr/testify/assert"
)

func ids(records []*aggregates.SLO) []string {
	result := []string{}
	for _, record := range records {
		result = append(result, record.ID)
	}
	return result
}

func pair() []*aggregates.SLO {
	return []*aggregates.SLO{
		{ID: "1", Name: "first", Target: 99.9, Status: aggregates.StatusHealthy, Service: "A"},
		{ID: "2", Name: "second", Target: 95, Status: aggregates.StatusWarning, Service: "B"},
	}
}

func TestFilterByStatus(t *testing.T) {
	criteria := aggregates.DefaultCriteria()
	criteria.Status = aggregates.StatusWarning
	assert.Equal(t, []string{"2"}, ids(slo.Filter(pair(), criteria)))
}

func TestFilterDefaultCriteriaKeepsEverything(t *testing.T) {
	records := memory.MockSLOs()
	result := slo.Filter(records, aggregates.DefaultCriteria())
	assert.Equal(t, ids(records), ids(result))
	// records are returned, not copied
	assert.Same(t, records[0], result[0])
}

func TestFilterCriteria(t *testing.T) {
	cases := []struct {
		name     string
		criteria func(c *aggregates.Criteria)
		expected []string
	}{
		{
			name:     "search in name is case insensitive",
			criteria: func(c *aggregates.Criteria) { c.Search = "PAYMENT" },
			expected: []string{"slo-003"},
		},
		{
			name:     "search in description",
			criteria: func(c *aggregates.Criteria) { c.Search = "redis" },
			expected: []string{"slo-006"},
		},
		{
			name:     "service is an exact match",
			criteria: func(c *aggregates.Criteria) { c.Service = "Database" },
			expected: []string{"slo-004"},
		},
		{
			name:     "partial service does not match",
			criteria: func(c *aggregates.Criteria) { c.Service = "Data" },
			expected: []string{},
		},
		{
			name:     "status",
			criteria: func(c *aggregates.Criteria) { c.Status = aggregates.StatusHealthy },
			expected: []string{"slo-001", "slo-004", "slo-005", "slo-007"},
		},
		{
			name: "threshold bounds are inclusive",
			criteria: func(c *aggregates.Criteria) {
				c.ThresholdMin = 95
				c.ThresholdMax = 99
			},
			expected: []string{"slo-002", "slo-005", "slo-008"},
		},
		{
			name: "inverted thresholds match nothing",
			criteria: func(c *aggregates.Criteria) {
				c.ThresholdMin = 99
				c.ThresholdMax = 95
			},
			expected: []string{},
		},
		{
			name:     "owner substring",
			criteria: func(c *aggregates.Criteria) { c.Owner = "team" },
			expected: []string{"slo-001", "slo-002", "slo-003", "slo-004", "slo-005", "slo-006", "slo-007", "slo-008"},
		},
		{
			name:     "owner substring narrow",
			criteria: func(c *aggregates.Criteria) { c.Owner = "dba" },
			expected: []string{"slo-004"},
		},
		{
			name: "combined criteria",
			criteria: func(c *aggregates.Criteria) {
				c.Search = "rate"
				c.Status = aggregates.StatusHealthy
			},
			expected: []string{"slo-005"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			criteria := aggregates.DefaultCriteria()
			c.criteria(&criteria)
			assert.Equal(t, c.expected, ids(slo.Filter(memory.MockSLOs(), criteria)))
		})
	}
}

func TestFilterIgnoresDateRange(t *testing.T) {
	from := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	criteria := aggregates.DefaultCriteria()
	criteria.DateFrom = &from
	criteria.DateTo = &from
	assert.True(t, criteria.HasDateRange())
	assert.Len(t, slo.Filter(memory.MockSLOs(), criteria), 8)
}

func TestFilterIsIdempotent(t *testing.T) {
	criteria := aggregates.DefaultCriteria()
	criteria.Search = "service"
	criteria.ThresholdMin = 90
	once := slo.Filter(memory.MockSLOs(), criteria)
	twice := slo.Filter(once, criteria)
	assert.Equal(t, ids(once), ids(twice))
}

func TestSort(t *testing.T) {
	records := memory.MockSLOs()

	byTarget := slo.Sort(records, aggregates.Sort{Key: aggregates.SortByTarget, Direction: aggregates.Ascending})
	assert.Equal(t, []string{"slo-006", "slo-004", "slo-002", "slo-005", "slo-008", "slo-001", "slo-003", "slo-007"}, ids(byTarget))

	byTargetDesc := slo.Sort(records, aggregates.Sort{Key: aggregates.SortByTarget, Direction: aggregates.Descending})
	assert.Equal(t, []string{"slo-007", "slo-003", "slo-001", "slo-008", "slo-005", "slo-002", "slo-004", "slo-006"}, ids(byTargetDesc))

	byDate := slo.Sort(records, aggregates.Sort{Key: aggregates.SortByLastModified, Direction: aggregates.Ascending})
	assert.Equal(t, []string{"slo-008", "slo-007", "slo-006", "slo-005", "slo-004", "slo-002", "slo-001", "slo-003"}, ids(byDate))

	// the input is left untouched
	assert.Equal(t, "slo-001", records[0].ID)
}

func TestSortIsStable(t *testing.T) {
	records := memory.MockSLOs()
	byStatus := slo.Sort(records, aggregates.Sort{Key: aggregates.SortByStatus, Direction: aggregates.Ascending})
	assert.Equal(t, []string{"slo-003", "slo-001", "slo-004", "slo-005", "slo-007", "slo-008", "slo-002", "slo-006"}, ids(byStatus))

	byStatusDesc := slo.Sort(records, aggregates.Sort{Key: aggregates.SortByStatus, Direction: aggregates.Descending})
	assert.Equal(t, []string{"slo-002", "slo-006", "slo-008", "slo-001", "slo-004", "slo-005", "slo-007", "slo-003"}, ids(byStatusDesc))
}

func TestSortCurrentValue(t *testing.T) {
	records := memory.MockSLOs()
	result := slo.Sort(records, aggregates.Sort{Key: aggregates.SortByCurrentValue, Direction: aggregates.Ascending})
	assert.Equal(t, "slo-008", result[0].ID)
	assert.Equal(t, "slo-007", result[len(result)-1].ID)

	result = slo.Sort(records, aggregates.Sort{Key: aggregates.SortByCurrentValue, Direction: aggregates.Descending})
	assert.Equal(t, "slo-007", result[0].ID)
	assert.Equal(t, "slo-008", result[len(result)-1].ID)
}

func TestSortWithoutKeyKeepsOrder(t *testing.T) {
	records := memory.MockSLOs()
	assert.Equal(t, ids(records), ids(slo.Sort(records, aggregates.Sort{})))
}

func TestValidSortKey(t *testing.T) {
	assert.True(t, slo.ValidSortKey(aggregates.SortByOwner))
	assert.False(t, slo.ValidSortKey("priority"))
}
