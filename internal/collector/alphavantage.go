package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"DistressSentinel/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageMinSpacing is the minimum gap between two OVERVIEW calls.
const AlphaVantageMinSpacing = time.Second

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage OVERVIEW
// endpoint. It only exposes market-level aggregates, so records built from it
// rely on estimation.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	http    *httpClient
}

// NewAlphaVantageFetcher creates a fetcher. Requests are spaced by at least
// opts.MinSpacing, never less than AlphaVantageMinSpacing.
func NewAlphaVantageFetcher(apiKey string, opts HTTPOptions) *AlphaVantageFetcher {
	if opts.MinSpacing < AlphaVantageMinSpacing {
		opts.MinSpacing = AlphaVantageMinSpacing
	}
	return &AlphaVantageFetcher{
		BaseURL: alphaVantageBaseURL,
		APIKey:  apiKey,
		http:    newHTTPClient(opts),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

func (f *AlphaVantageFetcher) Kind() model.ProviderKind { return model.KindOverview }

// AlphaVantageSymbol converts an exchange-suffixed ticker (BBRI.JK) to the
// Alpha Vantage form (BBRI); remaining dots become dashes.
func AlphaVantageSymbol(symbol string) string {
	s := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(symbol)), ".JK")
	return strings.ReplaceAll(s, ".", "-")
}

func (f *AlphaVantageFetcher) Fetch(ctx context.Context, symbol string) (model.RawPayload, error) {
	if f.APIKey == "" {
		return nil, model.Unavailable(f.Name(), symbol, model.ErrMissingCredential, "API key required for Alpha Vantage")
	}

	q := url.Values{}
	q.Set("function", "OVERVIEW")
	q.Set("symbol", AlphaVantageSymbol(symbol))
	q.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "/query?" + q.Encode()

	var payload model.RawPayload
	if err := f.http.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("alphavantage fetch %s: %w", symbol, err)
	}
	if len(payload) == 0 {
		return nil, model.Unavailable(f.Name(), symbol, model.ErrRateLimited, "rate limit reached or symbol not found")
	}
	return payload, nil
}
