package scoring

import (
	"fmt"

	calc "DistressSentinel/internal/calculator"
	"DistressSentinel/internal/model"
)

// Every model receives a record that already passed the validator, so
// TotalAssets is strictly positive.

// altman computes the original Altman Z-Score.
// Z = 1.2 X1 + 1.4 X2 + 3.3 X3 + 0.6 X4 + 1.0 X5
func altman(rec *model.FinancialRecord, th *Thresholds) (*model.ModelResult, error) {
	ta := rec.TotalAssets
	x1 := calc.Ratio(rec.WorkingCapital(), ta)
	x2 := calc.Ratio(rec.RetainedEarnings, ta)
	x3 := calc.Ratio(rec.EBIT, ta)
	x4 := calc.FlooredRatio(rec.MarketCap, rec.TotalLiabilities)
	x5 := calc.Ratio(rec.TotalRevenue, ta)

	z := 1.2*x1 + 1.4*x2 + 3.3*x3 + 0.6*x4 + 1.0*x5

	return build(model.ModelAltman, z, th.Altman.Classify(z),
		"Z = 1.2×X1 + 1.4×X2 + 3.3×X3 + 0.6×X4 + 1.0×X5",
		model.Component{Name: "X1 (Working Capital/TA)", Value: x1},
		model.Component{Name: "X2 (Retained Earnings/TA)", Value: x2},
		model.Component{Name: "X3 (EBIT/TA)", Value: x3},
		model.Component{Name: "X4 (Market Cap/TL)", Value: x4},
		model.Component{Name: "X5 (Sales/TA)", Value: x5},
	)
}

// altmanModified replaces market value with book equity in X4.
func altmanModified(rec *model.FinancialRecord, th *Thresholds) (*model.ModelResult, error) {
	ta := rec.TotalAssets
	x1 := calc.Ratio(rec.WorkingCapital(), ta)
	x2 := calc.Ratio(rec.RetainedEarnings, ta)
	x3 := calc.Ratio(rec.EBIT, ta)
	x4 := calc.FlooredRatio(rec.TotalEquity, rec.TotalLiabilities)
	x5 := calc.Ratio(rec.TotalRevenue, ta)

	z := 0.717*x1 + 0.847*x2 + 3.107*x3 + 0.42*x4 + 0.998*x5

	return build(model.ModelAltmanModified, z, th.AltmanModified.Classify(z),
		"Z = 0.717×X1 + 0.847×X2 + 3.107×X3 + 0.42×X4 + 0.998×X5",
		model.Component{Name: "X1", Value: x1},
		model.Component{Name: "X2", Value: x2},
		model.Component{Name: "X3", Value: x3},
		model.Component{Name: "X4", Value: x4},
		model.Component{Name: "X5", Value: x5},
	)
}

// springate computes S = 1.03 A + 3.07 B + 0.66 C + 0.4 D.
func springate(rec *model.FinancialRecord, th *Thresholds) (*model.ModelResult, error) {
	ta := rec.TotalAssets
	a := calc.Ratio(rec.WorkingCapital(), ta)
	b := calc.Ratio(rec.EBIT, ta)
	c := calc.FlooredRatio(rec.EBIT, rec.CurrentLiabilities)
	d := calc.Ratio(rec.TotalRevenue, ta)

	s := 1.03*a + 3.07*b + 0.66*c + 0.4*d

	return build(model.ModelSpringate, s, th.Springate.Classify(s),
		"S = 1.03×A + 3.07×B + 0.66×C + 0.4×D",
		model.Component{Name: "A (WC/TA)", Value: a},
		model.Component{Name: "B (EBIT/TA)", Value: b},
		model.Component{Name: "C (EBIT/CL)", Value: c},
		model.Component{Name: "D (Sales/TA)", Value: d},
	)
}

// zmijewski computes X = -4.3 - 4.5 X1 + 5.7 X2 - 0.004 X3 and classifies
// the logistic probability of X. X is bounded to keep the exponent finite.
func zmijewski(rec *model.FinancialRecord, th *Thresholds) (*model.ModelResult, error) {
	ta := rec.TotalAssets
	x1 := calc.Ratio(rec.NetIncome, ta)
	x2 := calc.Ratio(rec.TotalLiabilities, ta)
	x3 := calc.FlooredRatio(rec.CurrentAssets, rec.CurrentLiabilities)

	x := -4.3 - 4.5*x1 + 5.7*x2 - 0.004*x3
	x = calc.Clamp(x, -50, 50)
	p := calc.Logistic(x)

	res, err := build(model.ModelZmijewski, x, th.Zmijewski.Classify(p),
		"X = -4.3 - 4.5×X1 + 5.7×X2 - 0.004×X3",
		model.Component{Name: "X1 (NI/TA)", Value: x1},
		model.Component{Name: "X2 (TL/TA)", Value: x2},
		model.Component{Name: "X3 (CA/CL)", Value: x3},
	)
	if err != nil {
		return nil, err
	}
	pct := calc.Round(p*100, 1)
	res.Probability = &pct
	return res, nil
}

// grover computes G = 1.65 X1 + 3.404 X2 - 0.016 Debt + 0.057.
func grover(rec *model.FinancialRecord, th *Thresholds) (*model.ModelResult, error) {
	ta := rec.TotalAssets
	x1 := calc.Ratio(rec.WorkingCapital(), ta)
	x2 := calc.Ratio(rec.EBIT, ta)
	x3 := calc.Ratio(rec.NetIncome, ta)
	debt := calc.Ratio(rec.TotalLiabilities, ta)

	g := 1.65*x1 + 3.404*x2 - 0.016*debt + 0.057

	return build(model.ModelGrover, g, th.Grover.Classify(g),
		"G = 1.65×X1 + 3.404×X2 - 0.016×DebtRatio + 0.057",
		model.Component{Name: "X1 (WC/TA)", Value: x1},
		model.Component{Name: "X2 (EBIT/TA)", Value: x2},
		model.Component{Name: "X3 (NI/TA)", Value: x3},
		model.Component{Name: "Debt Ratio", Value: debt},
	)
}

// build rounds the score and components and attaches the classification.
// A ratio can overflow even for a finite record; any non-finite value fails the model.
func build(id model.ModelID, score float64, band Band, formula string, comps ...model.Component) (*model.ModelResult, error) {
	if !calc.Finite(score) {
		return nil, &model.ValidationError{Reason: "score is not a finite number"}
	}
	for i := range comps {
		if !calc.Finite(comps[i].Value) {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("component %s is not a finite number", comps[i].Name)}
		}
		comps[i].Value = calc.Round3(comps[i].Value)
	}
	return &model.ModelResult{
		Model:          id,
		Name:           id.DisplayName(),
		Score:          calc.Round3(score),
		Status:         band.Status,
		Risk:           band.Risk,
		Components:     comps,
		Recommendation: band.Recommendation,
		Formula:        formula,
	}, nil
}
