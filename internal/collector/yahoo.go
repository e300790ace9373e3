package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"DistressSentinel/internal/model"
)

const yahooBaseURL = "https://query2.finance.yahoo.com"

var yahooModules = []string{
	"balanceSheetHistory",
	"incomeStatementHistory",
	"price",
	"assetProfile",
	"financialData",
}

// YahooFetcher implements Fetcher using the Yahoo Finance quoteSummary API.
// It returns the latest annual balance sheet and income statement flattened
// into one payload, plus price and profile fields.
type YahooFetcher struct {
	BaseURL   string
	SymbolMap map[string]string // maps a user symbol to a Yahoo ticker
	http      *httpClient
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(opts HTTPOptions) *YahooFetcher {
	return &YahooFetcher{
		BaseURL:   yahooBaseURL,
		SymbolMap: map[string]string{},
		http:      newHTTPClient(opts),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) Kind() model.ProviderKind { return model.KindStatements }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooSummary is the subset of the quoteSummary response we read.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			BalanceSheetHistory struct {
				Statements []map[string]any `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			IncomeStatementHistory struct {
				Statements []map[string]any `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			Price         map[string]any `json:"price"`
			AssetProfile  map[string]any `json:"assetProfile"`
			FinancialData map[string]any `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (f *YahooFetcher) Fetch(ctx context.Context, symbol string) (model.RawPayload, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), strings.Join(yahooModules, ","))

	var summary yahooSummary
	if err := f.http.getJSON(ctx, u, &summary); err != nil {
		var serr *StatusError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			return nil, model.Unavailable(f.Name(), symbol, model.ErrUnknownSymbol, "symbol not found")
		}
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	qs := summary.QuoteSummary
	if qs.Error != nil {
		return nil, model.Unavailable(f.Name(), symbol, model.ErrUnknownSymbol, qs.Error.Description)
	}
	if len(qs.Result) == 0 {
		return nil, model.Unavailable(f.Name(), symbol, model.ErrNoData, "no data found for this symbol")
	}

	res := qs.Result[0]
	balance := res.BalanceSheetHistory.Statements
	income := res.IncomeStatementHistory.Statements
	if len(balance) == 0 && len(income) == 0 {
		return nil, model.Unavailable(f.Name(), symbol, model.ErrNoData, "no financial statements available")
	}

	payload := model.RawPayload{}
	flatten(payload, res.Price)
	flatten(payload, res.AssetProfile)
	flatten(payload, res.FinancialData)
	// Annual statement figures override trailing-twelve-month quote fields
	// with the same name. Statements are ordered newest first.
	if len(balance) > 0 {
		flatten(payload, balance[0])
	}
	if len(income) > 0 {
		flatten(payload, income[0])
	}
	return payload, nil
}

// flatten copies module fields into dst. Yahoo wraps numbers as
// {"raw": 1.0, "fmt": "1"}; the raw value is kept. Empty wrappers are skipped.
func flatten(dst model.RawPayload, module map[string]any) {
	for k, v := range module {
		switch val := v.(type) {
		case map[string]any:
			if raw, ok := val["raw"]; ok {
				dst[k] = raw
			}
		case string, float64, bool:
			dst[k] = val
		}
	}
}
