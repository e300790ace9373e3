package recorder

import (
	"time"

	"DistressSentinel/internal/model"
)

// AssessmentEvent holds everything produced by one successful analysis.
type AssessmentEvent struct {
	Record     model.FinancialRecord
	Results    []*model.ModelResult
	Assessment *model.RiskAssessment
}

// FailureEvent records an analysis that produced no assessment.
type FailureEvent struct {
	Symbol string
	Source string
	Kind   string // "DATA_UNAVAILABLE", "NO_MODEL"
	Reason string
}

// StoredResult is one model row read back from storage.
type StoredResult struct {
	Model      model.ModelID     `json:"model"`
	Score      float64           `json:"score"`
	Status     model.Status      `json:"status"`
	Risk       model.RiskTier    `json:"risk"`
	Components []model.Component `json:"components"`
}

// StoredAssessment is one assessment row with its model results.
type StoredAssessment struct {
	ID          string         `json:"id"`
	Symbol      string         `json:"symbol"`
	CompanyName string         `json:"company_name"`
	Source      string         `json:"source"`
	Overall     model.Overall  `json:"overall"`
	High        int            `json:"high"`
	Medium      int            `json:"medium"`
	Low         int            `json:"low"`
	Total       int            `json:"total"`
	CreatedAt   time.Time      `json:"created_at"`
	Results     []StoredResult `json:"results"`
}

// Recorder persists analysis history.
type Recorder interface {
	RecordAssessment(evt *AssessmentEvent) error
	RecordFailure(evt *FailureEvent) error
	Recent(symbol string, limit int) ([]StoredAssessment, error)
	Close() error
}
