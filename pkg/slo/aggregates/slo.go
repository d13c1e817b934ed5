package aggregates

import "time"

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
)

var Statuses = []Status{StatusHealthy, StatusWarning, StatusCritical, StatusUnknown}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// SLO is a saved objective. The summary fields are what the list view
// filters and sorts on, Config keeps the form it was built from.
type SLO struct {
	ID                string
	Name              string
	Description       string
	Service           string
	Target            float64
	Status            Status
	Owner             string
	Tags              []string
	CurrentValue      *float64
	MonitoringEnabled bool
	Version           int
	Config            *Form
	CreatedAt         time.Time
	LastModified      time.Time
}

// Copy returns a deep copy of the SLO.
func (s *SLO) Copy() *SLO {
	result := *s
	if s.Tags != nil {
		result.Tags = append([]string{}, s.Tags...)
	}
	if s.CurrentValue != nil {
		value := *s.CurrentValue
		result.CurrentValue = &value
	}
	if s.Config != nil {
		result.Config = s.Config.Copy()
	}
	return &result
}

type Changes struct {
	Created []*SLO
	Updated []*SLO
	Deleted []string
}

func (c Changes) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}
