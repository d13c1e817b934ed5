package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"github.com/labstack/echo/v4"
	er "github.com/mcorbin/corbierror"
)

const dateRangeWarning = "date range filters are not applied yet, the result is not filtered by date"

func toSLO(record aggregates.SLO, withConfig bool) SLO {
	result := SLO{
		ID:                record.ID,
		Name:              record.Name,
		Description:       record.Description,
		Service:           record.Service,
		Target:            record.Target,
		Status:            string(record.Status),
		Owner:             record.Owner,
		Tags:              record.Tags,
		CurrentValue:      record.CurrentValue,
		MonitoringEnabled: record.MonitoringEnabled,
		Version:           record.Version,
		CreatedAt:         record.CreatedAt,
		LastModified:      record.LastModified,
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	if withConfig {
		result.Config = record.Config
	}
	return result
}

func toSLOs(records []*aggregates.SLO) []SLO {
	result := []SLO{}
	for i := range records {
		result = append(result, toSLO(*records[i], false))
	}
	return result
}

func (b *Builder) CreateSLO(ec echo.Context) error {
	form := aggregates.NewForm()
	if err := ec.Bind(form); err != nil {
		return err
	}
	record, err := b.slo.CreateSLO(ec.Request().Context(), form)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, toSLO(*record, true))
}

func (b *Builder) UpdateSLO(ec echo.Context) error {
	id := ec.Param("id")
	form := aggregates.NewForm()
	if err := ec.Bind(form); err != nil {
		return err
	}
	record, err := b.slo.UpdateSLO(ec.Request().Context(), id, form)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, toSLO(*record, true))
}

func (b *Builder) ValidateSLO(ec echo.Context) error {
	form := aggregates.NewForm()
	if err := ec.Bind(form); err != nil {
		return err
	}
	errors := b.slo.Validate(form)
	status := http.StatusOK
	if !errors.Valid() {
		status = http.StatusBadRequest
	}
	return ec.JSON(status, ValidationOutput{
		Messages: errors.Messages(),
		Errors:   errors,
	})
}

func (b *Builder) GetSLO(ec echo.Context) error {
	var payload GetSLOInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	record, err := b.slo.GetSLO(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, toSLO(*record, true))
}

func (b *Builder) DeleteSLO(ec echo.Context) error {
	var payload DeleteSLOInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	err := b.slo.DeleteSLO(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("SLO deleted"))
}

func parseFloat(name string, value string, defaultValue float64) (float64, error) {
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, er.Newf("invalid value for the %s parameter", er.BadRequest, true, name)
	}
	return result, nil
}

func parseDate(name string, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	result, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, er.Newf("invalid date for the %s parameter, expected YYYY-MM-DD", er.BadRequest, true, name)
	}
	return &result, nil
}

func toCriteria(payload ListSLOsInput) (aggregates.Criteria, error) {
	criteria := aggregates.DefaultCriteria()
	criteria.Search = payload.Search
	criteria.Service = payload.Service
	criteria.Status = aggregates.Status(payload.Status)
	criteria.Owner = payload.Owner
	var err error
	criteria.ThresholdMin, err = parseFloat("threshold-min", payload.ThresholdMin, 0)
	if err != nil {
		return criteria, err
	}
	criteria.ThresholdMax, err = parseFloat("threshold-max", payload.ThresholdMax, 100)
	if err != nil {
		return criteria, err
	}
	criteria.DateFrom, err = parseDate("date-from", payload.DateFrom)
	if err != nil {
		return criteria, err
	}
	criteria.DateTo, err = parseDate("date-to", payload.DateTo)
	if err != nil {
		return criteria, err
	}
	return criteria, nil
}

func (b *Builder) ListSLOs(ec echo.Context) error {
	var payload ListSLOsInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	criteria, err := toCriteria(payload)
	if err != nil {
		return err
	}
	sort := aggregates.Sort{
		Key:       aggregates.SortKey(payload.Sort),
		Direction: aggregates.Direction(payload.Direction),
	}
	records, err := b.slo.ListSLOs(ec.Request().Context(), criteria, sort)
	if err != nil {
		return err
	}
	result := ListSLOsOutput{
		Result: toSLOs(records),
	}
	if criteria.HasDateRange() {
		result.Warnings = []string{dateRangeWarning}
	}
	return ec.JSON(http.StatusOK, result)
}

func (b *Builder) BulkAction(ec echo.Context) error {
	var payload BulkActionInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	criteria := aggregates.DefaultCriteria()
	criteria.Search = payload.Filter.Search
	criteria.Service = payload.Filter.Service
	criteria.Status = aggregates.Status(payload.Filter.Status)
	criteria.Owner = payload.Filter.Owner
	if payload.Filter.ThresholdMin != nil {
		criteria.ThresholdMin = *payload.Filter.ThresholdMin
	}
	if payload.Filter.ThresholdMax != nil {
		criteria.ThresholdMax = *payload.Filter.ThresholdMax
	}
	ctx := ec.Request().Context()
	ids, err := b.slo.Select(ctx, payload.IDs, payload.AllMatching, criteria)
	if err != nil {
		return err
	}
	records, err := b.slo.ApplyBulk(ctx, aggregates.Action(payload.Action), ids)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, BulkActionOutput{
		Affected: ids,
		Result:   toSLOs(records),
	})
}

func (b *Builder) ExportSLOs(ec echo.Context) error {
	var payload ExportInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	request, err := slo.NewExportRequest(payload.IDs, aggregates.Format(payload.Format), payload.Fields)
	if err != nil {
		return err
	}
	var buffer bytes.Buffer
	contentType, err := b.slo.Export(ec.Request().Context(), request, &buffer)
	if err != nil {
		return err
	}
	ec.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"slo-export.%s\"", request.Format))
	return ec.Blob(http.StatusOK, contentType, buffer.Bytes())
}
