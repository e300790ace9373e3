package validator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DistressSentinel/internal/model"
)

func validRecord() model.FinancialRecord {
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 2_000_000
	rec.CurrentAssets = 1_000_000
	rec.CurrentLiabilities = 500_000
	rec.TotalLiabilities = 800_000
	rec.TotalEquity = 1_200_000
	rec.RetainedEarnings = 300_000
	rec.TotalRevenue = 1_500_000
	rec.EBIT = 200_000
	rec.NetIncome = 150_000
	rec.MarketCap = 1_500_000
	return rec
}

func TestRejectsNonPositiveAssets(t *testing.T) {
	r := NewDefault()
	for _, ta := range []float64{0, -1, -1e9} {
		rec := validRecord()
		rec.TotalAssets = ta
		before := rec

		err := r.ValidateAndRepair(&rec)
		require.Error(t, err)

		var ve *model.ValidationError
		assert.True(t, errors.As(err, &ve))
		assert.Equal(t, "total assets must be greater than zero", ve.Reason)
		assert.Equal(t, before, rec, "rejected record must not be modified")
	}
}

func TestRejectsNonFinite(t *testing.T) {
	rec := validRecord()
	rec.EBIT = math.Inf(1)
	err := NewDefault().ValidateAndRepair(&rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ebit")
}

func TestRejectsNegativeNonNegativeFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.FinancialRecord)
		reason string
	}{
		{"revenue", func(r *model.FinancialRecord) { r.TotalRevenue = -1 }, "total_revenue must not be negative"},
		{"price", func(r *model.FinancialRecord) { r.CurrentPrice = -5 }, "current_price must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			before := rec

			err := NewDefault().ValidateAndRepair(&rec)
			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.reason, ve.Reason)
			assert.Equal(t, before, rec)
		})
	}
}

func TestAcceptsSignedFields(t *testing.T) {
	rec := validRecord()
	rec.EBIT = -200_000
	rec.NetIncome = -150_000
	rec.RetainedEarnings = -300_000
	rec.CurrentAssets = -1
	require.NoError(t, NewDefault().ValidateAndRepair(&rec))
	assert.Equal(t, -200_000.0, rec.EBIT)
	assert.Equal(t, -300_000.0, rec.RetainedEarnings)
	assert.Equal(t, 800_000.0, rec.CurrentAssets, "negative current assets are repaired, not rejected")
}

func TestValidRecordUnchanged(t *testing.T) {
	rec := validRecord()
	before := rec
	require.NoError(t, NewDefault().ValidateAndRepair(&rec))
	assert.Equal(t, before, rec)
}

func TestRepairSequence(t *testing.T) {
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 1000
	rec.NetIncome = -50

	require.NoError(t, NewDefault().ValidateAndRepair(&rec))

	assert.InDelta(t, 400.0, rec.CurrentAssets, 1e-9)
	assert.InDelta(t, 200.0, rec.CurrentLiabilities, 1e-9, "CL = repaired CA x 0.5")
	assert.InDelta(t, 500.0, rec.TotalLiabilities, 1e-9)
	assert.InDelta(t, 500.0, rec.TotalEquity, 1e-9)
	assert.InDelta(t, -60.0, rec.EBIT, 1e-9)
	assert.InDelta(t, 500.0, rec.MarketCap, 1e-9, "MCAP = positive equity")
}

func TestRepairMarketCapFallsBackToAssets(t *testing.T) {
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 1000
	rec.TotalLiabilities = 1500
	rec.TotalEquity = -10

	require.NoError(t, NewDefault().ValidateAndRepair(&rec))

	assert.InDelta(t, -500.0, rec.TotalEquity, 1e-9)
	assert.InDelta(t, 400.0, rec.MarketCap, 1e-9)
}

func TestRepairKeepsZeroEBITWithoutNetIncome(t *testing.T) {
	rec := validRecord()
	rec.EBIT = 0
	rec.NetIncome = 0
	require.NoError(t, NewDefault().ValidateAndRepair(&rec))
	assert.Equal(t, 0.0, rec.EBIT)
}

func TestValidateDoesNotMutate(t *testing.T) {
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 100
	before := rec
	require.NoError(t, NewDefault().Validate(&rec))
	assert.Equal(t, before, rec)
}

func TestCustomPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.CurrentLiabilitiesOfCA = 0.3
	rec := model.NewFinancialRecord()
	rec.TotalAssets = 1000

	r := New(p)
	require.NoError(t, r.ValidateAndRepair(&rec))
	assert.InDelta(t, 120.0, rec.CurrentLiabilities, 1e-9)
	assert.Equal(t, 0.3, r.Policy().CurrentLiabilitiesOfCA)
}
