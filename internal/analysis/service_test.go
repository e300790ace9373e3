package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DistressSentinel/internal/aggregator"
	"DistressSentinel/internal/collector"
	"DistressSentinel/internal/model"
	"DistressSentinel/internal/reconciler"
	"DistressSentinel/internal/recorder"
	"DistressSentinel/internal/scoring"
)

type memRecorder struct {
	recorder.NoopRecorder
	mu          sync.Mutex
	assessments []*recorder.AssessmentEvent
	failures    []*recorder.FailureEvent
}

func (m *memRecorder) RecordAssessment(evt *recorder.AssessmentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments = append(m.assessments, evt)
	return nil
}

func (m *memRecorder) RecordFailure(evt *recorder.FailureEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, evt)
	return nil
}

func newTestService(t *testing.T, parallel bool, fetchers ...collector.Fetcher) (*Service, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	an := NewAnalyzer(scoring.NewDefaultEngine(), aggregator.New(), parallel)
	var cols []*collector.Collector
	for _, f := range fetchers {
		cols = append(cols, collector.NewCollector(f, reconciler.NewDefault(), zerolog.Nop()))
	}
	return NewService(an, rec, "mock", zerolog.Nop(), cols...), rec
}

func TestAnalyzeSymbol(t *testing.T) {
	svc, rec := newTestService(t, false, &collector.MockFetcher{})

	report, err := svc.AnalyzeSymbol(context.Background(), "demo.jk", "")
	require.NoError(t, err)

	assert.Equal(t, "DEMO.JK", report.Record.Symbol)
	require.Len(t, report.Results, len(model.AllModels))
	for i, id := range model.AllModels {
		assert.Equal(t, id, report.Results[i].Model)
	}
	assert.Equal(t, 5, report.Assessment.Total)
	assert.Nil(t, report.Bankrupt)

	require.Len(t, rec.assessments, 1)
	assert.Equal(t, report.Assessment.ID, rec.assessments[0].Assessment.ID)
}

func TestParallelMatchesSequential(t *testing.T) {
	seq, _ := newTestService(t, false, &collector.MockFetcher{})
	par, _ := newTestService(t, true, &collector.MockFetcher{})

	a, err := seq.AnalyzeSymbol(context.Background(), "DEMO.JK", "mock")
	require.NoError(t, err)
	b, err := par.AnalyzeSymbol(context.Background(), "DEMO.JK", "mock")
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.Assessment.Counts, b.Assessment.Counts)
	assert.Equal(t, a.Assessment.Overall, b.Assessment.Overall)
}

func TestAnalyzeBankruptIssuer(t *testing.T) {
	svc, _ := newTestService(t, true, &collector.MockFetcher{})
	report, err := svc.AnalyzeSymbol(context.Background(), "MYRX.JK", "")
	require.NoError(t, err)
	require.NotNil(t, report.Bankrupt)
	assert.Equal(t, "PT Hanson International Tbk", report.Bankrupt.Name)
}

func TestAnalyzeSymbolDataUnavailable(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Err: model.Unavailable("mock", "", model.ErrNoData, "no data found for this symbol"),
	}
	svc, rec := newTestService(t, false, fetcher)

	_, err := svc.AnalyzeSymbol(context.Background(), "NOPE", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNoData))
	assert.Equal(t, "mock: no data found for this symbol (NOPE)", err.Error())

	require.Len(t, rec.failures, 1)
	assert.Equal(t, FailureDataUnavailable, rec.failures[0].Kind)
	assert.Empty(t, rec.assessments)
}

func TestAnalyzeSymbolUnknownSource(t *testing.T) {
	svc, _ := newTestService(t, false, &collector.MockFetcher{})
	_, err := svc.AnalyzeSymbol(context.Background(), "BBRI.JK", "bloomberg")
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

func TestAnalyzeManual(t *testing.T) {
	svc, _ := newTestService(t, false)

	report, err := svc.AnalyzeManual(context.Background(), map[string]any{
		"company_name":        "Manual Co",
		"current_assets":      "1,000,000",
		"current_liabilities": 500_000,
		"total_assets":        2_000_000,
		"retained_earnings":   300_000,
		"ebit":                200_000,
		"market_cap":          1_500_000,
		"total_liabilities":   800_000,
		"total_revenue":       1_500_000,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.715, report.Results[0].Score)
	assert.Equal(t, "Manual Co", report.Record.CompanyName)
}

func TestAnalyzeManualNoModel(t *testing.T) {
	svc, rec := newTestService(t, false)

	_, err := svc.AnalyzeManual(context.Background(), map[string]any{"total_assets": 0})
	var agg *model.AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Len(t, agg.Failures, len(model.AllModels))

	require.Len(t, rec.failures, 1)
	assert.Equal(t, FailureNoModel, rec.failures[0].Kind)
}

func TestSources(t *testing.T) {
	svc, _ := newTestService(t, false, &collector.MockFetcher{}, collector.NewYahooFetcher(collector.HTTPOptions{}))
	assert.Equal(t, []string{"mock", "yahoo"}, svc.Sources())
	assert.Equal(t, "mock", svc.DefaultSource())
}

func TestAnalyzeCanceled(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		svc, rec := newTestService(t, parallel)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := svc.AnalyzeManual(ctx, map[string]any{"total_assets": 2_000_000})
		assert.Nil(t, report, "parallel=%v", parallel)
		assert.ErrorIs(t, err, context.Canceled, "parallel=%v", parallel)
		assert.Empty(t, rec.failures, "cancellation is not a scoring failure")
		assert.Empty(t, rec.assessments)
	}
}

func TestServiceThresholds(t *testing.T) {
	svc, _ := newTestService(t, false)
	assert.Equal(t, scoring.DefaultThresholds(), svc.Thresholds())
}
