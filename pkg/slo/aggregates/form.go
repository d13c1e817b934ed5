package aggregates

// Form holds the raw SLO form input. Numeric fields are kept as the text
// the user typed so that empty and malformed values can be told apart.
type Form struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Service     string `json:"service"`
	Component   string `json:"component"`

	MetricSource     string `json:"metricSource"`
	MetricType       string `json:"metricType"`
	TargetValue      string `json:"targetValue"`
	EvaluationWindow string `json:"evaluationWindow"`
	MetricQuery      string `json:"metricQuery"`

	AlertingEnabled    bool     `json:"alertingEnabled"`
	AlertThreshold     string   `json:"alertThreshold"`
	AlertSeverity      string   `json:"alertSeverity"`
	AlertChannels      []string `json:"alertChannels"`
	EscalationTime     string   `json:"escalationTime"`
	AlertRecipients    string   `json:"alertRecipients"`
	CustomAlertMessage string   `json:"customAlertMessage"`

	Priority                  string   `json:"priority"`
	OwnerTeam                 string   `json:"ownerTeam"`
	Dependencies              []string `json:"dependencies"`
	ErrorBudget               string   `json:"errorBudget"`
	BurnRateThreshold         string   `json:"burnRateThreshold"`
	Tags                      string   `json:"tags"`
	DocumentationURL          string   `json:"documentationUrl"`
	VersionControlEnabled     bool     `json:"versionControlEnabled"`
	AutoRemediationEnabled    bool     `json:"autoRemediationEnabled"`
	MaintenanceModeEnabled    bool     `json:"maintenanceModeEnabled"`
	HistoricalAnalysisEnabled bool     `json:"historicalAnalysisEnabled"`
}

// NewForm returns the form as it is on page load.
func NewForm() *Form {
	return &Form{
		AlertChannels:             []string{},
		Priority:                  "medium",
		Dependencies:              []string{},
		VersionControlEnabled:     true,
		HistoricalAnalysisEnabled: true,
	}
}

func (f *Form) Copy() *Form {
	result := *f
	if f.AlertChannels != nil {
		result.AlertChannels = append([]string{}, f.AlertChannels...)
	}
	if f.Dependencies != nil {
		result.Dependencies = append([]string{}, f.Dependencies...)
	}
	return &result
}

// ValidationErrors maps a form field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

func (v ValidationErrors) Messages() []string {
	result := []string{}
	for _, field := range FieldOrder {
		if msg, ok := v[field]; ok {
			result = append(result, msg)
		}
	}
	if msg, ok := v[FieldSubmit]; ok {
		result = append(result, msg)
	}
	return result
}

const FieldSubmit = "submit"

// FieldOrder is the display order of the form fields.
var FieldOrder = []string{
	"name", "description", "service", "component",
	"metricSource", "metricType", "targetValue", "evaluationWindow", "metricQuery",
	"alertingEnabled", "alertThreshold", "alertSeverity", "alertChannels", "escalationTime", "alertRecipients", "customAlertMessage",
	"priority", "ownerTeam", "dependencies", "errorBudget", "burnRateThreshold", "tags", "documentationUrl",
	"versionControlEnabled", "autoRemediationEnabled", "maintenanceModeEnabled", "historicalAnalysisEnabled",
}
