package slo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindFlag   FieldKind = "flag"
	KindList   FieldKind = "list"
)

// Field describes one form field. Exactly one of the accessor pairs is set,
// matching Kind (text and number fields share the string accessors).
type Field struct {
	Name    string
	Kind    FieldKind
	getText func(*aggregates.Form) *string
	getFlag func(*aggregates.Form) *bool
	getList func(*aggregates.Form) *[]string
}

func text(name string, get func(*aggregates.Form) *string) Field {
	return Field{Name: name, Kind: KindText, getText: get}
}

func number(name string, get func(*aggregates.Form) *string) Field {
	return Field{Name: name, Kind: KindNumber, getText: get}
}

func flag(name string, get func(*aggregates.Form) *bool) Field {
	return Field{Name: name, Kind: KindFlag, getFlag: get}
}

func list(name string, get func(*aggregates.Form) *[]string) Field {
	return Field{Name: name, Kind: KindList, getList: get}
}

var Fields = []Field{
	text("name", func(f *aggregates.Form) *string { return &f.Name }),
	text("description", func(f *aggregates.Form) *string { return &f.Description }),
	text("service", func(f *aggregates.Form) *string { return &f.Service }),
	text("component", func(f *aggregates.Form) *string { return &f.Component }),

	text("metricSource", func(f *aggregates.Form) *string { return &f.MetricSource }),
	text("metricType", func(f *aggregates.Form) *string { return &f.MetricType }),
	number("targetValue", func(f *aggregates.Form) *string { return &f.TargetValue }),
	text("evaluationWindow", func(f *aggregates.Form) *string { return &f.EvaluationWindow }),
	text("metricQuery", func(f *aggregates.Form) *string { return &f.MetricQuery }),

	flag("alertingEnabled", func(f *aggregates.Form) *bool { return &f.AlertingEnabled }),
	number("alertThreshold", func(f *aggregates.Form) *string { return &f.AlertThreshold }),
	text("alertSeverity", func(f *aggregates.Form) *string { return &f.AlertSeverity }),
	list("alertChannels", func(f *aggregates.Form) *[]string { return &f.AlertChannels }),
	text("escalationTime", func(f *aggregates.Form) *string { return &f.EscalationTime }),
	text("alertRecipients", func(f *aggregates.Form) *string { return &f.AlertRecipients }),
	text("customAlertMessage", func(f *aggregates.Form) *string { return &f.CustomAlertMessage }),

	text("priority", func(f *aggregates.Form) *string { return &f.Priority }),
	text("ownerTeam", func(f *aggregates.Form) *string { return &f.OwnerTeam }),
	list("dependencies", func(f *aggregates.Form) *[]string { return &f.Dependencies }),
	number("errorBudget", func(f *aggregates.Form) *string { return &f.ErrorBudget }),
	number("burnRateThreshold", func(f *aggregates.Form) *string { return &f.BurnRateThreshold }),
	text("tags", func(f *aggregates.Form) *string { return &f.Tags }),
	text("documentationUrl", func(f *aggregates.Form) *string { return &f.DocumentationURL }),
	flag("versionControlEnabled", func(f *aggregates.Form) *bool { return &f.VersionControlEnabled }),
	flag("autoRemediationEnabled", func(f *aggregates.Form) *bool { return &f.AutoRemediationEnabled }),
	flag("maintenanceModeEnabled", func(f *aggregates.Form) *bool { return &f.MaintenanceModeEnabled }),
	flag("historicalAnalysisEnabled", func(f *aggregates.Form) *bool { return &f.HistoricalAnalysisEnabled }),
}

func LookupField(name string) (Field, bool) {
	for _, field := range Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// SetField applies a single edit to the form. Values come from decoded
// JSON: strings, float64, bool or lists of strings.
func SetField(form *aggregates.Form, name string, value any) error {
	field, ok := LookupField(name)
	if !ok {
		return er.Newf("unknown form field %s", er.BadRequest, true, name)
	}
	switch field.Kind {
	case KindText:
		s, ok := value.(string)
		if !ok {
			return invalidValue(name, "a string")
		}
		*field.getText(form) = s
	case KindNumber:
		switch v := value.(type) {
		case string:
			*field.getText(form) = v
		case float64:
			*field.getText(form) = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			*field.getText(form) = strconv.Itoa(v)
		case nil:
			*field.getText(form) = ""
		default:
			return invalidValue(name, "a number")
		}
	case KindFlag:
		b, ok := value.(bool)
		if !ok {
			return invalidValue(name, "a boolean")
		}
		*field.getFlag(form) = b
	case KindList:
		values, err := toStrings(value)
		if err != nil {
			return invalidValue(name, "a list of strings")
		}
		*field.getList(form) = values
	default:
		return fmt.Errorf("unhandled field kind %s", field.Kind)
	}
	return nil
}

// GetField returns the current value of a field.
func GetField(form *aggregates.Form, name string) (any, error) {
	field, ok := LookupField(name)
	if !ok {
		return nil, er.Newf("unknown form field %s", er.BadRequest, true, name)
	}
	switch field.Kind {
	case KindText, KindNumber:
		return *field.getText(form), nil
	case KindFlag:
		return *field.getFlag(form), nil
	case KindList:
		return *field.getList(form), nil
	}
	return nil, fmt.Errorf("unhandled field kind %s", field.Kind)
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...), nil
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list item %v is not a string", item)
			}
			result = append(result, s)
		}
		return result, nil
	case nil:
		return []string{}, nil
	}
	return nil, fmt.Errorf("value %v is not a list", value)
}

func invalidValue(name string, expected string) error {
	return er.Newf("field %s must be %s", er.BadRequest, true, name, expected)
}

// ParseTags splits the comma separated tags input.
func ParseTags(tags string) []string {
	result := []string{}
	seen := make(map[string]bool)
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
