// Package aggregator combines per-model results into one RiskAssessment.
package aggregator

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"DistressSentinel/internal/model"
)

// Conclusion is the text shown for an overall tier.
type Conclusion struct {
	Headline string
	Advice   []string
}

// Conclusions maps each overall tier to its headline and advice.
var Conclusions = map[model.Overall]Conclusion{
	model.OverallHighWarning: {
		Headline: "Most models indicate a high risk of bankruptcy!",
		Advice: []string{
			"Avoid investing in this stock",
			"Do thorough due diligence if already invested",
			"Consider selling existing positions",
			"Consult a financial advisor",
		},
	},
	model.OverallCaution: {
		Headline: "Several models indicate medium to high risk.",
		Advice: []string{
			"Monitor developments regularly",
			"Analyse further before adding to the position",
			"Diversify the portfolio to reduce risk",
			"Watch the trend of financial performance",
		},
	},
	model.OverallGoodCondition: {
		Headline: "Most models indicate a healthy financial condition.",
		Advice: []string{
			"Can be considered for investment",
			"Do additional fundamental analysis",
			"Consider it as part of a diversified portfolio",
			"Monitor performance regularly",
		},
	},
}

// Classify applies the overall rule to per-tier counts:
// three or more High is a High Warning; three or more Medium, or two Medium
// with at least one High, is Caution; anything else is Good Condition.
func Classify(counts map[model.RiskTier]int) model.Overall {
	high := counts[model.RiskHigh]
	medium := counts[model.RiskMedium]
	switch {
	case high >= 3:
		return model.OverallHighWarning
	case medium >= 3 || (medium >= 2 && high >= 1):
		return model.OverallCaution
	default:
		return model.OverallGoodCondition
	}
}

// Aggregator builds assessments. The clock and id source are replaceable for tests.
type Aggregator struct {
	now   func() time.Time
	newID func() string
}

// New returns an Aggregator using wall-clock time and random UUIDs.
func New() *Aggregator {
	return &Aggregator{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

var std = New()

// Aggregate is Aggregator.Aggregate on a default Aggregator.
func Aggregate(outcomes map[model.ModelID]model.Outcome) (*model.RiskAssessment, error) {
	return std.Aggregate(outcomes)
}

// Aggregate tallies successful results per risk tier and classifies the total.
// Failed models are listed in display order. When nothing succeeded it returns
// a *model.AggregateError carrying every failure reason.
func (a *Aggregator) Aggregate(outcomes map[model.ModelID]model.Outcome) (*model.RiskAssessment, error) {
	counts := make(map[model.RiskTier]int, len(model.RiskTiers))
	var failures []model.ModelFailure
	total := 0

	for _, id := range orderedIDs(outcomes) {
		o := outcomes[id]
		if !o.OK() {
			reason := "no result"
			if o.Err != nil {
				reason = o.Err.Error()
			}
			failures = append(failures, model.ModelFailure{Model: id, Reason: reason})
			continue
		}
		counts[o.Result.Risk]++
		total++
	}

	if total == 0 {
		return nil, &model.AggregateError{Failures: failures}
	}

	overall := Classify(counts)
	concl := Conclusions[overall]
	return &model.RiskAssessment{
		ID:        a.newID(),
		Counts:    counts,
		Total:     total,
		Overall:   overall,
		Headline:  concl.Headline,
		Advice:    append([]string(nil), concl.Advice...),
		Failures:  failures,
		CreatedAt: a.now().UTC(),
	}, nil
}

// orderedIDs returns the known models first in display order, then any others.
func orderedIDs(outcomes map[model.ModelID]model.Outcome) []model.ModelID {
	ids := make([]model.ModelID, 0, len(outcomes))
	seen := make(map[model.ModelID]bool, len(outcomes))
	for _, id := range model.AllModels {
		if _, ok := outcomes[id]; ok {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	var extra []model.ModelID
	for id := range outcomes {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(ids, extra...)
}
