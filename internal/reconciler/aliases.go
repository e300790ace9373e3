package reconciler

import "DistressSentinel/internal/model"

// TextField names a descriptive string attribute of a record.
type TextField int

const (
	TextCompanyName TextField = iota
	TextSector
	TextIndustry
	TextCountry
)

// Auxiliary inputs used only by overview estimation.
const (
	auxEBITDA       = "ebitda"
	auxProfitMargin = "profit_margin"
	auxPERatio      = "pe_ratio"
)

// AliasTable maps each canonical field to the provider keys that may carry it,
// in priority order. It is read-only once built.
type AliasTable struct {
	numeric map[model.Field][]string
	text    map[TextField][]string
	aux     map[string][]string
}

// NewAliasTable builds a table from the given lists. Slices are copied.
func NewAliasTable(numeric map[model.Field][]string, text map[TextField][]string, aux map[string][]string) AliasTable {
	return AliasTable{
		numeric: cloneLists(numeric),
		text:    cloneLists(text),
		aux:     cloneLists(aux),
	}
}

// DefaultAliases covers the Yahoo Finance statement labels (both the display
// labels and the quoteSummary camelCase keys) and the Alpha Vantage OVERVIEW keys.
func DefaultAliases() AliasTable {
	return NewAliasTable(
		map[model.Field][]string{
			model.FieldTotalAssets:        {"Total Assets", "TotalAssets", "Total assets", "totalAssets"},
			model.FieldCurrentAssets:      {"Current Assets", "CurrentAssets", "Current assets", "Total Current Assets", "totalCurrentAssets"},
			model.FieldCurrentLiabilities: {"Current Liabilities", "CurrentLiabilities", "Current liabilities", "Total Current Liabilities", "totalCurrentLiabilities"},
			model.FieldTotalLiabilities:   {"Total Liabilities Net Minority Interest", "Total Liabilities", "TotalLiabilities", "totalLiab"},
			model.FieldRetainedEarnings:   {"Retained Earnings", "RetainedEarnings", "Retained earnings", "retainedEarnings"},
			model.FieldTotalEquity:        {"Total Equity Gross Minority Interest", "Total Equity", "TotalEquity", "Stockholder Equity", "totalStockholderEquity"},
			model.FieldTotalRevenue:       {"Total Revenue", "TotalRevenue", "Revenue", "Net Sales", "totalRevenue", "RevenueTTM"},
			model.FieldEBIT:               {"EBIT", "Operating Income", "OperatingIncome", "ebit", "operatingIncome"},
			model.FieldNetIncome:          {"Net Income", "NetIncome", "Net income", "netIncome"},
			model.FieldMarketCap:          {"marketCap", "MarketCapitalization", "Market Cap"},
			model.FieldCurrentPrice:       {"currentPrice", "regularMarketPrice"},
		},
		map[TextField][]string{
			TextCompanyName: {"longName", "shortName", "Name", "Symbol", "symbol"},
			TextSector:      {"sector", "Sector"},
			TextIndustry:    {"industry", "Industry"},
			TextCountry:     {"country", "Country"},
		},
		map[string][]string{
			auxEBITDA:       {"EBITDA", "ebitda"},
			auxProfitMargin: {"ProfitMargin", "profitMargins"},
			auxPERatio:      {"PERatio", "trailingPE"},
		},
	)
}

// Aliases returns a copy of the alias list for f.
func (t AliasTable) Aliases(f model.Field) []string {
	return append([]string(nil), t.numeric[f]...)
}

func cloneLists[K comparable](in map[K][]string) map[K][]string {
	out := make(map[K][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
