package slo

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/appclacks/slo-dashboard/internal/validator"
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

const (
	minNameLength        = 3
	minDescriptionLength = 10
)

// Validate checks the form and returns one message per invalid field.
// The result is empty when the form can be submitted.
func Validate(form *aggregates.Form) aggregates.ValidationErrors {
	errors := aggregates.ValidationErrors{}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		errors["name"] = "SLO name is required"
	} else if utf8.RuneCountInString(name) < minNameLength {
		errors["name"] = "SLO name must be at least 3 characters"
	}

	description := strings.TrimSpace(form.Description)
	if description == "" {
		errors["description"] = "Description is required"
	} else if utf8.RuneCountInString(description) < minDescriptionLength {
		errors["description"] = "Description must be at least 10 characters"
	}

	required(errors, "service", form.Service, "Service selection is required")
	required(errors, "component", form.Component, "Component selection is required")
	required(errors, "metricSource", form.MetricSource, "Metric source is required")
	required(errors, "metricType", form.MetricType, "Metric type is required")

	if isBlank(form.TargetValue) {
		errors["targetValue"] = "Target value is required"
	} else if !inPercentRange(form.TargetValue) {
		errors["targetValue"] = "Target value must be between 0 and 100"
	}

	required(errors, "evaluationWindow", form.EvaluationWindow, "Evaluation window is required")
	required(errors, "metricQuery", form.MetricQuery, "Metric query is required")

	if form.AlertingEnabled {
		if isBlank(form.AlertThreshold) {
			errors["alertThreshold"] = "Alert threshold is required when alerting is enabled"
		} else if !inPercentRange(form.AlertThreshold) {
			errors["alertThreshold"] = "Alert threshold must be between 0 and 100"
		}
		required(errors, "alertSeverity", form.AlertSeverity, "Alert severity is required when alerting is enabled")
		if len(form.AlertChannels) == 0 {
			errors["alertChannels"] = "At least one notification channel is required"
		}
	}

	if !isBlank(form.ErrorBudget) && !inPercentRange(form.ErrorBudget) {
		errors["errorBudget"] = "Error budget must be between 0 and 100"
	}

	if !isBlank(form.BurnRateThreshold) {
		burnRate, ok := parseNumber(form.BurnRateThreshold)
		if !ok || burnRate < 0 {
			errors["burnRateThreshold"] = "Burn rate threshold must be a positive number"
		}
	}

	if !isBlank(form.DocumentationURL) {
		if err := validator.Validator.Var(strings.TrimSpace(form.DocumentationURL), "url"); err != nil {
			errors["documentationUrl"] = "Please enter a valid URL"
		}
	}

	return errors
}

func required(errors aggregates.ValidationErrors, field string, value string, msg string) {
	if isBlank(value) {
		errors[field] = msg
	}
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// parseNumber rejects NaN and infinities, which would otherwise slip
// through the range comparisons.
func parseNumber(value string) (float64, bool) {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, false
	}
	return result, true
}

func inPercentRange(value string) bool {
	result, ok := parseNumber(value)
	return ok && result >= 0 && result <= 100
}
