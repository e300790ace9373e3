package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DistressSentinel/internal/model"
)

// sampleRecord is the textbook Altman example.
func sampleRecord() model.FinancialRecord {
	rec := model.NewFinancialRecord()
	rec.CurrentAssets = 1_000_000
	rec.CurrentLiabilities = 500_000
	rec.TotalAssets = 2_000_000
	rec.RetainedEarnings = 300_000
	rec.EBIT = 200_000
	rec.MarketCap = 1_500_000
	rec.TotalLiabilities = 800_000
	rec.TotalRevenue = 1_500_000
	return rec
}

func TestAltmanTextbook(t *testing.T) {
	res, err := NewDefaultEngine().Score(model.ModelAltman, sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, 2.715, res.Score)
	assert.Equal(t, model.StatusGrayZone, res.Status)
	assert.Equal(t, model.RiskMedium, res.Risk)
	assert.Equal(t, "Caution - deeper analysis needed", res.Recommendation)

	expected := []model.Component{
		{Name: "X1 (Working Capital/TA)", Value: 0.25},
		{Name: "X2 (Retained Earnings/TA)", Value: 0.15},
		{Name: "X3 (EBIT/TA)", Value: 0.1},
		{Name: "X4 (Market Cap/TL)", Value: 1.875},
		{Name: "X5 (Sales/TA)", Value: 0.75},
	}
	assert.Equal(t, expected, res.Components)
}

func TestEveryModelRejectsNonPositiveAssets(t *testing.T) {
	e := NewDefaultEngine()
	for _, ta := range []float64{0, -100} {
		rec := sampleRecord()
		rec.TotalAssets = ta
		for _, id := range model.AllModels {
			res, err := e.Score(id, rec)
			assert.Nil(t, res, id)
			var ve *model.ValidationError
			assert.True(t, errors.As(err, &ve), id)
		}
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 1000
	before := rec

	outcomes, err := NewDefaultEngine().ScoreAll(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, before, rec)
	assert.Len(t, outcomes, len(model.AllModels))
	for id, o := range outcomes {
		assert.True(t, o.OK(), id)
	}
}

func TestScoreDeterministic(t *testing.T) {
	e := NewDefaultEngine()
	rec := sampleRecord()
	rec.NetIncome = 120_000
	first, err := e.ScoreAll(context.Background(), rec)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := e.ScoreAll(context.Background(), rec)
		require.NoError(t, err)
		for _, id := range model.AllModels {
			assert.Equal(t, *first[id].Result, *again[id].Result)
		}
	}
}

func TestUnknownModel(t *testing.T) {
	_, err := NewDefaultEngine().Score(model.ModelID("ohlson"), sampleRecord())
	assert.Error(t, err)
}

func TestSpringateBoundary(t *testing.T) {
	bands := DefaultThresholds().Springate
	assert.Equal(t, model.StatusHealthy, bands.Classify(0.862).Status)
	assert.Equal(t, model.StatusBankrupt, bands.Classify(0.8619).Status)
}

func TestSpringateSample(t *testing.T) {
	res, err := NewDefaultEngine().Score(model.ModelSpringate, sampleRecord())
	require.NoError(t, err)
	// 1.03*0.25 + 3.07*0.1 + 0.66*0.4 + 0.4*0.75 = 1.1285
	assert.InDelta(t, 1.1285, res.Score, 0.0006)
	assert.Equal(t, model.StatusHealthy, res.Status)
	assert.Equal(t, model.RiskLow, res.Risk)
}

func TestAltmanModifiedUsesEquity(t *testing.T) {
	res, err := NewDefaultEngine().Score(model.ModelAltmanModified, sampleRecord())
	require.NoError(t, err)
	// TE repaired to TA - TL = 1,200,000 so X4 = 1.5
	x4, ok := res.Component("X4")
	require.True(t, ok)
	assert.Equal(t, 1.5, x4)
	assert.Equal(t, model.StatusGrayZone, res.Status)
}

func TestZmijewskiProbabilityBounds(t *testing.T) {
	e := NewDefaultEngine()
	tests := []struct {
		name   string
		ni, tl float64
		status model.Status
	}{
		{"huge losses", -1e12, 1e12, model.StatusFinancialDistress},
		{"huge profits", 1e12, 1, model.StatusHealthy},
		{"moderate", 50_000, 400_000, model.StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			rec.NetIncome = tt.ni
			rec.TotalLiabilities = tt.tl
			res, err := e.Score(model.ModelZmijewski, rec)
			require.NoError(t, err)
			require.NotNil(t, res.Probability)
			p := *res.Probability
			assert.False(t, math.IsNaN(p))
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 100.0)
			assert.GreaterOrEqual(t, res.Score, -50.0)
			assert.LessOrEqual(t, res.Score, 50.0)
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestZmijewskiClampedScore(t *testing.T) {
	rec := sampleRecord()
	rec.TotalLiabilities = 1e15
	res, err := NewDefaultEngine().Score(model.ModelZmijewski, rec)
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, 100.0, *res.Probability)
}

func TestGroverBands(t *testing.T) {
	bands := DefaultThresholds().Grover
	tests := []struct {
		score float64
		risk  model.RiskTier
	}{
		{-0.5, model.RiskHigh},
		{-0.02, model.RiskHigh},
		{0.0, model.RiskMedium},
		{0.01, model.RiskMedium},
		{0.0101, model.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.risk, bands.Classify(tt.score).Risk, "score %v", tt.score)
	}
}

func TestAltmanBands(t *testing.T) {
	bands := DefaultThresholds().Altman
	assert.Equal(t, model.StatusDistressZone, bands.Classify(1.79).Status)
	assert.Equal(t, model.StatusGrayZone, bands.Classify(1.8).Status)
	assert.Equal(t, model.StatusGrayZone, bands.Classify(2.99).Status)
	assert.Equal(t, model.StatusSafeZone, bands.Classify(3.0).Status)
}

func TestComponentsPerModel(t *testing.T) {
	outcomes, err := NewDefaultEngine().ScoreAll(context.Background(), sampleRecord())
	require.NoError(t, err)
	counts := map[model.ModelID]int{
		model.ModelAltman:         5,
		model.ModelAltmanModified: 5,
		model.ModelSpringate:      4,
		model.ModelZmijewski:      3,
		model.ModelGrover:         4,
	}
	for id, n := range counts {
		o := outcomes[id]
		require.True(t, o.OK(), id)
		assert.Len(t, o.Result.Components, n, id)
		assert.NotEmpty(t, o.Result.Formula, id)
		assert.Equal(t, id.DisplayName(), o.Result.Name)
	}
}

func TestOverflowingRatiosFailOnlyAffectedModels(t *testing.T) {
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 1e-300
	rec.TotalRevenue = 1e10

	e := NewDefaultEngine()
	var (
		out map[model.ModelID]model.Outcome
		err error
	)
	require.NotPanics(t, func() { out, err = e.ScoreAll(context.Background(), rec) })
	require.NoError(t, err)

	for _, id := range []model.ModelID{model.ModelAltman, model.ModelAltmanModified, model.ModelSpringate} {
		assert.Nil(t, out[id].Result, id)
		var ve *model.ValidationError
		require.True(t, errors.As(out[id].Err, &ve), id)
		assert.Equal(t, "score is not a finite number", ve.Reason, id)
	}
	for _, id := range []model.ModelID{model.ModelZmijewski, model.ModelGrover} {
		require.NoError(t, out[id].Err, id)
		assert.False(t, math.IsInf(out[id].Result.Score, 0), id)
	}
}

func TestScoreAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := NewDefaultEngine().ScoreAll(ctx, sampleRecord())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestThresholdsFor(t *testing.T) {
	th := DefaultThresholds()
	for _, id := range model.AllModels {
		bands, ok := th.For(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, bands.Below, id)
	}
	z, _ := th.For(model.ModelZmijewski)
	assert.Equal(t, 0.5, z.Below[0].Limit)

	_, ok := th.For(model.ModelID("ohlson"))
	assert.False(t, ok)
}
