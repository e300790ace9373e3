// Package validator enforces minimum viability of a FinancialRecord and fills
// gaps with fixed estimates before scoring.
package validator

import (
	"fmt"
	"math"

	"DistressSentinel/internal/model"
)

// Policy holds the repair multipliers. Values are fixed so the same input
// always classifies the same way.
type Policy struct {
	CurrentAssetsOfTotal    float64 // CA = TA x k when CA <= 0
	CurrentLiabilitiesOfCA  float64 // CL = CA x k when CL <= 0
	TotalLiabilitiesOfTotal float64 // TL = TA x k when TL <= 0
	EBITOfNetIncome         float64 // EBIT = NI x k when EBIT == 0
	MarketCapOfTotalAssets  float64 // MCAP = TA x k when MCAP <= 0 and TE <= 0
}

// DefaultPolicy returns the canonical repair multipliers.
func DefaultPolicy() Policy {
	return Policy{
		CurrentAssetsOfTotal:    0.4,
		CurrentLiabilitiesOfCA:  0.5,
		TotalLiabilitiesOfTotal: 0.5,
		EBITOfNetIncome:         1.2,
		MarketCapOfTotalAssets:  0.4,
	}
}

// Repairer applies a Policy. It holds no mutable state.
type Repairer struct {
	policy Policy
}

// New creates a Repairer for p.
func New(p Policy) *Repairer {
	return &Repairer{policy: p}
}

// NewDefault creates a Repairer with DefaultPolicy.
func NewDefault() *Repairer {
	return New(DefaultPolicy())
}

// Policy returns the multipliers in use.
func (r *Repairer) Policy() Policy { return r.policy }

// Validate reports why rec cannot be scored, without changing it.
func (r *Repairer) Validate(rec *model.FinancialRecord) error {
	for _, f := range model.NumericFields {
		v := rec.Get(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.ValidationError{Reason: fmt.Sprintf("%s is not a finite number", f)}
		}
	}
	if rec.TotalAssets <= 0 {
		return &model.ValidationError{Reason: "total assets must be greater than zero"}
	}
	for _, f := range model.NumericFields {
		if f.MayBeNegative() || repaired[f] {
			continue
		}
		if rec.Get(f) < 0 {
			return &model.ValidationError{Reason: fmt.Sprintf("%s must not be negative", f)}
		}
	}
	return nil
}

// repaired lists the fields ValidateAndRepair replaces when non-positive.
var repaired = map[model.Field]bool{
	model.FieldCurrentAssets:      true,
	model.FieldCurrentLiabilities: true,
	model.FieldTotalLiabilities:   true,
	model.FieldMarketCap:          true,
}

// ValidateAndRepair checks rec and, when it is viable, fills missing or
// non-positive fields in place. Repairs run in a fixed order; later steps
// read values set by earlier ones.
func (r *Repairer) ValidateAndRepair(rec *model.FinancialRecord) error {
	if err := r.Validate(rec); err != nil {
		return err
	}
	p := r.policy

	if rec.CurrentAssets <= 0 {
		rec.CurrentAssets = rec.TotalAssets * p.CurrentAssetsOfTotal
	}
	if rec.CurrentLiabilities <= 0 {
		rec.CurrentLiabilities = rec.CurrentAssets * p.CurrentLiabilitiesOfCA
	}
	if rec.TotalLiabilities <= 0 {
		rec.TotalLiabilities = rec.TotalAssets * p.TotalLiabilitiesOfTotal
	}
	if rec.TotalEquity <= 0 {
		rec.TotalEquity = rec.TotalAssets - rec.TotalLiabilities
	}
	if rec.EBIT == 0 && rec.NetIncome != 0 {
		rec.EBIT = rec.NetIncome * p.EBITOfNetIncome
	}
	if rec.MarketCap <= 0 {
		if rec.TotalEquity > 0 {
			rec.MarketCap = rec.TotalEquity
		} else {
			rec.MarketCap = rec.TotalAssets * p.MarketCapOfTotalAssets
		}
	}
	return nil
}
