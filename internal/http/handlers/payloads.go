package handlers

import (
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

type SLO struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Service           string           `json:"service"`
	Target            float64          `json:"target"`
	Status            string           `json:"status"`
	Owner             string           `json:"owner"`
	Tags              []string         `json:"tags"`
	CurrentValue      *float64         `json:"currentValue"`
	MonitoringEnabled bool             `json:"monitoringEnabled"`
	Version           int              `json:"version"`
	Config            *aggregates.Form `json:"config,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	LastModified      time.Time        `json:"lastModified"`
}

type ListSLOsInput struct {
	Search       string `query:"search"`
	Service      string `query:"service"`
	Status       string `query:"status" validate:"omitempty,oneof=healthy warning critical unknown"`
	ThresholdMin string `query:"threshold-min"`
	ThresholdMax string `query:"threshold-max"`
	DateFrom     string `query:"date-from"`
	DateTo       string `query:"date-to"`
	Owner        string `query:"owner"`
	Sort         string `query:"sort"`
	Direction    string `query:"direction" validate:"omitempty,oneof=asc desc"`
}

type ListSLOsOutput struct {
	Result   []SLO    `json:"result"`
	Warnings []string `json:"warnings,omitempty"`
}

type GetSLOInput struct {
	ID string `param:"id" validate:"required"`
}

type DeleteSLOInput struct {
	ID string `param:"id" validate:"required"`
}

type Filter struct {
	Search       string   `json:"search"`
	Service      string   `json:"service"`
	Status       string   `json:"status" validate:"omitempty,oneof=healthy warning critical unknown"`
	ThresholdMin *float64 `json:"threshold-min"`
	ThresholdMax *float64 `json:"threshold-max"`
	Owner        string   `json:"owner"`
}

type BulkActionInput struct {
	Action      string   `json:"action" validate:"required,oneof=duplicate delete enable disable"`
	IDs         []string `json:"ids"`
	AllMatching bool     `json:"all-matching"`
	Filter      Filter   `json:"filter"`
}

type BulkActionOutput struct {
	Affected []string `json:"affected"`
	Result   []SLO    `json:"result"`
}

type ExportInput struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Format string   `json:"format" validate:"omitempty,oneof=csv json xlsx pdf"`
	Fields []string `json:"fields"`
}

type ValidationOutput struct {
	Messages []string                    `json:"messages"`
	Errors   aggregates.ValidationErrors `json:"errors"`
}

type DraftOutput struct {
	Draft  *aggregates.Form            `json:"draft"`
	Errors aggregates.ValidationErrors `json:"errors,omitempty"`
}

type EditDraftFieldInput struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

type Dashboard struct {
	Total              int            `json:"total"`
	Services           int            `json:"services"`
	ByStatus           map[string]int `json:"by-status"`
	ActiveAlerts       int            `json:"active-alerts"`
	ServicesAtRisk     int            `json:"services-at-risk"`
	MonitoringDisabled int            `json:"monitoring-disabled"`
	ReliabilityScore   *float64       `json:"reliability-score"`
}
