package aggregates

import "time"

type Criteria struct {
	Search       string
	Service      string
	Status       Status
	ThresholdMin float64
	ThresholdMax float64
	// DateFrom and DateTo are accepted but not applied yet.
	DateFrom *time.Time
	DateTo   *time.Time
	Owner    string
}

func DefaultCriteria() Criteria {
	return Criteria{
		ThresholdMin: 0,
		ThresholdMax: 100,
	}
}

func (c Criteria) HasDateRange() bool {
	return c.DateFrom != nil || c.DateTo != nil
}

type SortKey string

const (
	SortByName         SortKey = "name"
	SortByService      SortKey = "service"
	SortByTarget       SortKey = "target"
	SortByStatus       SortKey = "status"
	SortByLastModified SortKey = "lastModified"
	SortByOwner        SortKey = "owner"
	SortByCurrentValue SortKey = "currentValue"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type Sort struct {
	Key       SortKey
	Direction Direction
}

type Action string

const (
	ActionDuplicate Action = "duplicate"
	ActionDelete    Action = "delete"
	ActionEnable    Action = "enable"
	ActionDisable   Action = "disable"
	ActionExport    Action = "export"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

type ExportRequest struct {
	IDs    []string
	Format Format
	Fields []string
}
