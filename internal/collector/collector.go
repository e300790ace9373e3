package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"DistressSentinel/internal/model"
	"DistressSentinel/internal/reconciler"
)

// MockFetcher returns controllable fixed payloads for development and testing.
type MockFetcher struct {
	Payloads    map[string]model.RawPayload
	PayloadKind model.ProviderKind
	Err         error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Kind() model.ProviderKind {
	if m.PayloadKind == "" {
		return model.KindStatements
	}
	return m.PayloadKind
}

func (m *MockFetcher) Fetch(_ context.Context, symbol string) (model.RawPayload, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Payloads[symbol]; ok {
		return p, nil
	}
	return DemoPayload(symbol), nil
}

// DemoPayload is a plausible statements payload for a mid-sized issuer.
func DemoPayload(symbol string) model.RawPayload {
	return model.RawPayload{
		"shortName":           strings.TrimSuffix(symbol, ".JK") + " Demo Tbk",
		"sector":              "Industrials",
		"country":             "Indonesia",
		"Total Assets":        2_000_000_000_000.0,
		"Current Assets":      1_000_000_000_000.0,
		"Current Liabilities": 500_000_000_000.0,
		"Total Liabilities Net Minority Interest": 800_000_000_000.0,
		"Retained Earnings":                       300_000_000_000.0,
		"Total Revenue":                           1_500_000_000_000.0,
		"EBIT":                                    200_000_000_000.0,
		"Net Income":                              150_000_000_000.0,
		"marketCap":                               1_500_000_000_000.0,
	}
}

// Collector fetches a payload and reconciles it into a FinancialRecord.
type Collector struct {
	Fetcher    Fetcher
	Reconciler *reconciler.Reconciler
	log        zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, rec *reconciler.Reconciler, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Reconciler: rec,
		log:        log.With().Str("component", "collector").Str("provider", fetcher.Name()).Logger(),
	}
}

// Collect fetches symbol and returns its canonical record. Data-unavailable
// errors carry the provider name and symbol so they can be shown verbatim.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.FinancialRecord, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.FinancialRecord{}, errors.New("symbol is required")
	}

	payload, err := c.Fetcher.Fetch(ctx, symbol)
	if err != nil {
		return model.FinancialRecord{}, c.label(err, symbol)
	}

	rec, err := c.Reconciler.Reconcile(payload, c.Fetcher.Kind())
	if err != nil {
		return model.FinancialRecord{}, c.label(err, symbol)
	}
	rec.Symbol = symbol
	rec.Source = c.Fetcher.Name()

	c.log.Debug().
		Str("symbol", symbol).
		Float64("total_assets", rec.TotalAssets).
		Bool("equity_supplied", rec.EquitySupplied).
		Msg("record collected")
	return rec, nil
}

func (c *Collector) label(err error, symbol string) error {
	var du *model.DataUnavailableError
	if errors.As(err, &du) {
		if du.Provider == "" {
			du.Provider = c.Fetcher.Name()
		}
		if du.Symbol == "" {
			du.Symbol = symbol
		}
		return du
	}
	return fmt.Errorf("collect %s: %w", symbol, err)
}
