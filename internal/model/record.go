package model

// RawPayload is one provider response keyed by provider-specific names.
// Values are strings, numbers or nil.
type RawPayload map[string]any

// ProviderKind tells the reconciler what shape of data a payload carries.
type ProviderKind string

const (
	KindStatements ProviderKind = "statements" // full balance sheet + income statement
	KindOverview   ProviderKind = "overview"   // market-level aggregates only
	KindManual     ProviderKind = "manual"
)

// Field names a numeric field of FinancialRecord.
type Field int

const (
	FieldTotalAssets Field = iota
	FieldCurrentAssets
	FieldCurrentLiabilities
	FieldTotalLiabilities
	FieldTotalEquity
	FieldRetainedEarnings
	FieldTotalRevenue
	FieldEBIT
	FieldNetIncome
	FieldMarketCap
	FieldCurrentPrice
)

// NumericFields lists every numeric field in declaration order.
var NumericFields = []Field{
	FieldTotalAssets, FieldCurrentAssets, FieldCurrentLiabilities, FieldTotalLiabilities,
	FieldTotalEquity, FieldRetainedEarnings, FieldTotalRevenue, FieldEBIT, FieldNetIncome,
	FieldMarketCap, FieldCurrentPrice,
}

var fieldKeys = map[Field]string{
	FieldTotalAssets:        "total_assets",
	FieldCurrentAssets:      "current_assets",
	FieldCurrentLiabilities: "current_liabilities",
	FieldTotalLiabilities:   "total_liabilities",
	FieldTotalEquity:        "total_equity",
	FieldRetainedEarnings:   "retained_earnings",
	FieldTotalRevenue:       "total_revenue",
	FieldEBIT:               "ebit",
	FieldNetIncome:          "net_income",
	FieldMarketCap:          "market_cap",
	FieldCurrentPrice:       "current_price",
}

// Key returns the canonical snake_case name used by manual entry and JSON.
func (f Field) Key() string { return fieldKeys[f] }

func (f Field) String() string { return f.Key() }

// MayBeNegative reports whether the field legitimately holds negative values.
func (f Field) MayBeNegative() bool {
	switch f {
	case FieldEBIT, FieldNetIncome, FieldRetainedEarnings, FieldTotalEquity:
		return true
	}
	return false
}

// FinancialRecord is the canonical input of every scoring model.
// It is a plain value: copying it gives each model a private working copy.
type FinancialRecord struct {
	Symbol      string `json:"symbol,omitempty"`
	Source      string `json:"source,omitempty"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Country     string `json:"country"`

	TotalAssets        float64 `json:"total_assets"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	TotalEquity        float64 `json:"total_equity"`
	RetainedEarnings   float64 `json:"retained_earnings"`
	TotalRevenue       float64 `json:"total_revenue"`
	EBIT               float64 `json:"ebit"`
	NetIncome          float64 `json:"net_income"`
	MarketCap          float64 `json:"market_cap"`
	CurrentPrice       float64 `json:"current_price,omitempty"`

	// EquitySupplied is true when TotalEquity came from the source, not from TA-TL.
	EquitySupplied bool `json:"equity_supplied"`
}

// NewFinancialRecord returns a record with the string defaults applied.
func NewFinancialRecord() FinancialRecord {
	return FinancialRecord{
		CompanyName: "Unknown",
		Sector:      "N/A",
		Industry:    "N/A",
		Country:     "N/A",
	}
}

func (r *FinancialRecord) ptr(f Field) *float64 {
	switch f {
	case FieldTotalAssets:
		return &r.TotalAssets
	case FieldCurrentAssets:
		return &r.CurrentAssets
	case FieldCurrentLiabilities:
		return &r.CurrentLiabilities
	case FieldTotalLiabilities:
		return &r.TotalLiabilities
	case FieldTotalEquity:
		return &r.TotalEquity
	case FieldRetainedEarnings:
		return &r.RetainedEarnings
	case FieldTotalRevenue:
		return &r.TotalRevenue
	case FieldEBIT:
		return &r.EBIT
	case FieldNetIncome:
		return &r.NetIncome
	case FieldMarketCap:
		return &r.MarketCap
	case FieldCurrentPrice:
		return &r.CurrentPrice
	}
	return nil
}

// Get returns the value of a numeric field, 0 for an unknown field.
func (r *FinancialRecord) Get(f Field) float64 {
	if p := r.ptr(f); p != nil {
		return *p
	}
	return 0
}

// Set assigns a numeric field. Unknown fields are ignored.
func (r *FinancialRecord) Set(f Field, v float64) {
	if p := r.ptr(f); p != nil {
		*p = v
	}
}

// WorkingCapital is current assets minus current liabilities.
func (r *FinancialRecord) WorkingCapital() float64 {
	return r.CurrentAssets - r.CurrentLiabilities
}
