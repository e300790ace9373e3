package model

import "time"

// Overall is the recommendation tier across all models.
type Overall string

const (
	OverallHighWarning   Overall = "High Warning"
	OverallCaution       Overall = "Caution"
	OverallGoodCondition Overall = "Good Condition"
)

// ModelFailure records why a model produced no score.
type ModelFailure struct {
	Model  ModelID `json:"model"`
	Reason string  `json:"reason"`
}

// RiskAssessment summarises every successful ModelResult for one record.
type RiskAssessment struct {
	ID        string           `json:"id"`
	Counts    map[RiskTier]int `json:"counts"`
	Total     int              `json:"total"`
	Overall   Overall          `json:"overall"`
	Headline  string           `json:"headline"`
	Advice    []string         `json:"advice"`
	Failures  []ModelFailure   `json:"failures,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Count returns the number of models classified into tier.
func (a *RiskAssessment) Count(tier RiskTier) int {
	return a.Counts[tier]
}
