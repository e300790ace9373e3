// Package reconciler merges heterogeneous provider payloads into a canonical
// model.FinancialRecord.
package reconciler

import (
	"fmt"
	"strings"

	"DistressSentinel/internal/model"
	"DistressSentinel/internal/normalizer"
)

// Estimates are the fixed ratios used to build a full record from
// overview-only data. They are approximations, stable between runs.
type Estimates struct {
	AssetsFromMarketCap     float64
	CurrentAssetsShare      float64
	CurrentLiabilitiesShare float64
	TotalLiabilitiesShare   float64
	RetainedEarningsShare   float64
	EBITFromNetIncome       float64
	EBITFromEBITDA          float64
}

// DefaultEstimates returns the canonical estimation ratios.
func DefaultEstimates() Estimates {
	return Estimates{
		AssetsFromMarketCap:     1.5,
		CurrentAssetsShare:      0.4,
		CurrentLiabilitiesShare: 0.2,
		TotalLiabilitiesShare:   0.6,
		RetainedEarningsShare:   0.5,
		EBITFromNetIncome:       1.2,
		EBITFromEBITDA:          0.9,
	}
}

// Reconciler resolves aliases and fills gaps. Safe for concurrent use.
type Reconciler struct {
	aliases   AliasTable
	estimates Estimates
}

// New creates a Reconciler from an alias table and estimation ratios.
func New(aliases AliasTable, estimates Estimates) *Reconciler {
	return &Reconciler{aliases: aliases, estimates: estimates}
}

// NewDefault creates a Reconciler with DefaultAliases and DefaultEstimates.
func NewDefault() *Reconciler {
	return New(DefaultAliases(), DefaultEstimates())
}

// Reconcile builds a record from one provider payload. A payload that is
// empty, throttled or reports an unknown symbol yields a
// *model.DataUnavailableError.
func (r *Reconciler) Reconcile(payload model.RawPayload, kind model.ProviderKind) (model.FinancialRecord, error) {
	if err := detectFailure(payload); err != nil {
		return model.FinancialRecord{}, err
	}

	switch kind {
	case model.KindManual:
		return FromManual(payload), nil
	case model.KindStatements, model.KindOverview:
	default:
		return model.FinancialRecord{}, fmt.Errorf("unknown provider kind %q", kind)
	}

	rec := model.NewFinancialRecord()
	r.resolveText(payload, &rec)
	for _, f := range model.NumericFields {
		if v, ok := r.resolve(payload, r.aliases.numeric[f]); ok {
			rec.Set(f, v)
		}
	}
	rec.EquitySupplied = rec.TotalEquity != 0

	if kind == model.KindOverview {
		r.estimateFromOverview(payload, &rec)
		return rec, nil
	}

	if !rec.EquitySupplied && rec.TotalAssets != 0 && rec.TotalLiabilities != 0 {
		rec.TotalEquity = rec.TotalAssets - rec.TotalLiabilities
	}
	if rec.EBIT == 0 && rec.NetIncome != 0 {
		rec.EBIT = rec.NetIncome * r.estimates.EBITFromNetIncome
	}
	return rec, nil
}

// estimateFromOverview derives statement fields from market-level aggregates.
func (r *Reconciler) estimateFromOverview(payload model.RawPayload, rec *model.FinancialRecord) {
	e := r.estimates

	if rec.NetIncome == 0 {
		margin, _ := r.resolve(payload, r.aliases.aux[auxProfitMargin])
		pe, _ := r.resolve(payload, r.aliases.aux[auxPERatio])
		switch {
		case margin != 0 && rec.TotalRevenue != 0:
			rec.NetIncome = rec.TotalRevenue * margin
		case pe > 0 && rec.MarketCap > 0:
			rec.NetIncome = rec.MarketCap / pe
		}
	}

	if rec.TotalAssets == 0 {
		rec.TotalAssets = rec.MarketCap * e.AssetsFromMarketCap
	}
	if rec.CurrentAssets == 0 {
		rec.CurrentAssets = rec.TotalAssets * e.CurrentAssetsShare
	}
	if rec.CurrentLiabilities == 0 {
		rec.CurrentLiabilities = rec.TotalAssets * e.CurrentLiabilitiesShare
	}
	if rec.TotalLiabilities == 0 {
		rec.TotalLiabilities = rec.TotalAssets * e.TotalLiabilitiesShare
	}
	if !rec.EquitySupplied {
		rec.TotalEquity = rec.TotalAssets - rec.TotalLiabilities
	}
	if rec.RetainedEarnings == 0 {
		rec.RetainedEarnings = rec.TotalEquity * e.RetainedEarningsShare
	}

	if rec.EBIT == 0 {
		if ebitda, ok := r.resolve(payload, r.aliases.aux[auxEBITDA]); ok {
			rec.EBIT = ebitda * e.EBITFromEBITDA
		} else if rec.NetIncome != 0 {
			rec.EBIT = rec.NetIncome * e.EBITFromNetIncome
		}
	}
}

// resolve returns the first alias carrying a present, non-zero value.
func (r *Reconciler) resolve(payload model.RawPayload, aliases []string) (float64, bool) {
	for _, key := range aliases {
		v, ok := payload[key]
		if !ok || !normalizer.IsPresent(v) {
			continue
		}
		return normalizer.Float(v), true
	}
	return 0, false
}

func (r *Reconciler) resolveText(payload model.RawPayload, rec *model.FinancialRecord) {
	targets := map[TextField]*string{
		TextCompanyName: &rec.CompanyName,
		TextSector:      &rec.Sector,
		TextIndustry:    &rec.Industry,
		TextCountry:     &rec.Country,
	}
	for f, dst := range targets {
		for _, key := range r.aliases.text[f] {
			if s := text(payload[key]); s != "" {
				*dst = s
				break
			}
		}
	}
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		s = strings.TrimSpace(s)
		if s == "None" || s == "-" {
			return ""
		}
		return s
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	}
	return ""
}

// detectFailure recognises payloads that carry no data or an API-level error.
func detectFailure(payload model.RawPayload) error {
	hasValue := false
	for _, v := range payload {
		if v != nil {
			hasValue = true
			break
		}
	}
	if !hasValue {
		return model.Unavailable("", "", model.ErrNoData, "no data found for this symbol")
	}
	if msg := text(payload["Error Message"]); msg != "" {
		return model.Unavailable("", "", model.ErrUnknownSymbol, "rate limit reached or symbol not found")
	}
	for _, key := range []string{"Note", "Information"} {
		if msg := text(payload[key]); msg != "" {
			return model.Unavailable("", "", model.ErrRateLimited, "rate limit reached or symbol not found")
		}
	}
	return nil
}

// FromManual builds a record from a user-entered mapping keyed by canonical
// snake_case names. Values are normalized leniently; nothing is estimated.
func FromManual(entry map[string]any) model.FinancialRecord {
	rec := model.NewFinancialRecord()
	for _, f := range model.NumericFields {
		rec.Set(f, normalizer.Float(entry[f.Key()]))
	}
	rec.EquitySupplied = rec.TotalEquity != 0

	for key, dst := range map[string]*string{
		"company_name": &rec.CompanyName,
		"sector":       &rec.Sector,
		"industry":     &rec.Industry,
		"country":      &rec.Country,
		"symbol":       &rec.Symbol,
	} {
		if s := text(entry[key]); s != "" {
			*dst = s
		}
	}
	rec.Source = string(model.KindManual)
	return rec
}
