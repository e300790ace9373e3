package model

// ModelID identifies one bankruptcy scoring model.
type ModelID string

const (
	ModelAltman         ModelID = "altman"
	ModelAltmanModified ModelID = "altman_modified"
	ModelSpringate      ModelID = "springate"
	ModelZmijewski      ModelID = "zmijewski"
	ModelGrover         ModelID = "grover"
)

// AllModels is the fixed display order.
var AllModels = []ModelID{ModelAltman, ModelAltmanModified, ModelSpringate, ModelZmijewski, ModelGrover}

var modelNames = map[ModelID]string{
	ModelAltman:         "Altman Z-Score",
	ModelAltmanModified: "Altman Modified",
	ModelSpringate:      "Springate S-Score",
	ModelZmijewski:      "Zmijewski X-Score",
	ModelGrover:         "Grover G-Score",
}

var modelDescriptions = map[ModelID]string{
	ModelAltman:         "Classic bankruptcy prediction model (1968)",
	ModelAltmanModified: "Variant for privately held companies",
	ModelSpringate:      "Simple model built on four financial ratios",
	ModelZmijewski:      "Probabilistic approach",
	ModelGrover:         "Developed for the services sector",
}

// Description is a one-line summary of the model.
func (m ModelID) Description() string { return modelDescriptions[m] }

// DisplayName returns the human readable model name.
func (m ModelID) DisplayName() string {
	if n, ok := modelNames[m]; ok {
		return n
	}
	return string(m)
}

// ParseModelID accepts either the id or the display name.
func ParseModelID(s string) (ModelID, bool) {
	for _, id := range AllModels {
		if s == string(id) || s == modelNames[id] {
			return id, true
		}
	}
	return "", false
}

// RiskTier is the coarse bucket derived from a model status.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// RiskTiers lists tiers from safest to riskiest.
var RiskTiers = []RiskTier{RiskLow, RiskMedium, RiskHigh}

// Emoji is the presentation tag of a tier.
func (t RiskTier) Emoji() string {
	switch t {
	case RiskLow:
		return "🟢"
	case RiskMedium:
		return "🟡"
	case RiskHigh:
		return "🔴"
	}
	return "⚪"
}

// Color is the presentation color of a tier.
func (t RiskTier) Color() string {
	switch t {
	case RiskLow:
		return "#27ae60"
	case RiskMedium:
		return "#f39c12"
	case RiskHigh:
		return "#e74c3c"
	}
	return "#95a5a6"
}

// Status is the model-specific classification label.
type Status string

const (
	StatusDistressZone      Status = "Distress Zone"
	StatusGrayZone          Status = "Gray Zone"
	StatusSafeZone          Status = "Safe Zone"
	StatusBankrupt          Status = "Bankrupt"
	StatusHealthy           Status = "Healthy"
	StatusFinancialDistress Status = "Financial Distress"
)

// Component is one named ratio of a model, kept for audit and display.
type Component struct {
	Name  string  `json:"name" msgpack:"n"`
	Value float64 `json:"value" msgpack:"v"`
}

// ModelResult is the output of one model on one record. Never mutated after return.
type ModelResult struct {
	Model          ModelID     `json:"model"`
	Name           string      `json:"name"`
	Score          float64     `json:"score"`
	Status         Status      `json:"status"`
	Risk           RiskTier    `json:"risk"`
	Components     []Component `json:"components"`
	Probability    *float64    `json:"probability,omitempty"` // percent, Zmijewski only
	Recommendation string      `json:"recommendation,omitempty"`
	Formula        string      `json:"formula,omitempty"`
}

// Component returns the named component value.
func (r *ModelResult) Component(name string) (float64, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

// Outcome is either a result or the reason a model could not run.
type Outcome struct {
	Result *ModelResult
	Err    error
}

// OK reports whether the model produced a score.
func (o Outcome) OK() bool { return o.Err == nil && o.Result != nil }
