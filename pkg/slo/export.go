package slo

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

var ExportFields = []string{
	"name", "description", "service", "target", "status", "lastModified", "owner", "tags", "metrics",
}

var DefaultExportFields = []string{
	"name", "description", "service", "target", "status", "lastModified",
}

// Exporter renders the selected records with the selected fields.
type Exporter interface {
	ContentType() string
	Export(w io.Writer, records []*aggregates.SLO, fields []string) error
}

// NewExportRequest checks the request and fills the default fields.
func NewExportRequest(ids []string, format aggregates.Format, fields []string) (aggregates.ExportRequest, error) {
	switch format {
	case aggregates.FormatCSV, aggregates.FormatJSON, aggregates.FormatXLSX, aggregates.FormatPDF:
	case "":
		format = aggregates.FormatCSV
	default:
		return aggregates.ExportRequest{}, er.Newf("invalid export format %s", er.BadRequest, true, format)
	}
	if len(ids) == 0 {
		return aggregates.ExportRequest{}, er.New("no SLO selected for export", er.BadRequest, true)
	}
	if len(fields) == 0 {
		fields = DefaultExportFields
	}
	selected := []string{}
	for _, field := range ExportFields {
		for _, f := range fields {
			if f == field {
				selected = append(selected, field)
				break
			}
		}
	}
	for _, f := range fields {
		if !contains(ExportFields, f) {
			return aggregates.ExportRequest{}, er.Newf("invalid export field %s", er.BadRequest, true, f)
		}
	}
	return aggregates.ExportRequest{
		IDs:    ids,
		Format: format,
		Fields: selected,
	}, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func fieldValue(record *aggregates.SLO, field string) any {
	switch field {
	case "name":
		return record.Name
	case "description":
		return record.Description
	case "service":
		return record.Service
	case "target":
		return record.Target
	case "status":
		return record.Status
	case "lastModified":
		return record.LastModified.Format(time.RFC3339)
	case "owner":
		return record.Owner
	case "tags":
		return record.Tags
	case "metrics":
		return record.CurrentValue
	}
	return nil
}

type CSVExporter struct{}

func (e *CSVExporter) ContentType() string {
	return "text/csv"
}

func (e *CSVExporter) Export(w io.Writer, records []*aggregates.SLO, fields []string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{"id"}, fields...)); err != nil {
		return fmt.Errorf("fail to write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{record.ID}
		for _, field := range fields {
			row = append(row, csvValue(fieldValue(record, field)))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("fail to write csv row for SLO %s: %w", record.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case aggregates.Status:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	case []string:
		return strings.Join(v, ";")
	}
	return ""
}

type JSONExporter struct{}

func (e *JSONExporter) ContentType() string {
	return "application/json"
}

func (e *JSONExporter) Export(w io.Writer, records []*aggregates.SLO, fields []string) error {
	rows := []map[string]any{}
	for _, record := range records {
		row := map[string]any{"id": record.ID}
		for _, field := range fields {
			row[field] = fieldValue(record, field)
		}
		rows = append(rows, row)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("fail to encode json export: %w", err)
	}
	return nil
}

func DefaultExporters() map[aggregates.Format]Exporter {
	return map[aggregates.Format]Exporter{
		aggregates.FormatCSV:  &CSVExporter{},
		aggregates.FormatJSON: &JSONExporter{},
	}
}
