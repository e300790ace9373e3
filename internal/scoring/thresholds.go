package scoring

import "DistressSentinel/internal/model"

// Band is one classification interval. A score belongs to the band when it is
// below Limit, or equal to it when Inclusive is set.
type Band struct {
	Limit          float64
	Inclusive      bool
	Status         model.Status
	Risk           model.RiskTier
	Recommendation string
}

func (b Band) contains(score float64) bool {
	if b.Inclusive {
		return score <= b.Limit
	}
	return score < b.Limit
}

// Bands is an ordered band table. Bands are checked lowest first; a score
// above all of them falls into Above.
type Bands struct {
	Below []Band
	Above Band
}

// Classify maps a score to its band.
func (b Bands) Classify(score float64) Band {
	for _, band := range b.Below {
		if band.contains(score) {
			return band
		}
	}
	return b.Above
}

// Thresholds holds the band tables of every model. Build it once and share it;
// the engine never modifies it.
type Thresholds struct {
	Altman         Bands
	AltmanModified Bands
	Springate      Bands
	Zmijewski      Bands // classifies the distress probability (0..1), not X
	Grover         Bands
}

// DefaultThresholds returns the published cut-offs of each model.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Altman: Bands{
			Below: []Band{
				{Limit: 1.8, Status: model.StatusDistressZone, Risk: model.RiskHigh, Recommendation: "Avoid investing - high bankruptcy risk"},
				{Limit: 3.0, Status: model.StatusGrayZone, Risk: model.RiskMedium, Recommendation: "Caution - deeper analysis needed"},
			},
			Above: Band{Status: model.StatusSafeZone, Risk: model.RiskLow, Recommendation: "Relatively safe - sound financial condition"},
		},
		AltmanModified: Bands{
			Below: []Band{
				{Limit: 1.23, Status: model.StatusDistressZone, Risk: model.RiskHigh},
				{Limit: 2.9, Status: model.StatusGrayZone, Risk: model.RiskMedium},
			},
			Above: Band{Status: model.StatusSafeZone, Risk: model.RiskLow},
		},
		Springate: Bands{
			Below: []Band{
				{Limit: 0.862, Status: model.StatusBankrupt, Risk: model.RiskHigh, Recommendation: "High bankruptcy potential"},
			},
			Above: Band{Status: model.StatusHealthy, Risk: model.RiskLow, Recommendation: "Healthy financial condition"},
		},
		Zmijewski: Bands{
			Below: []Band{
				{Limit: 0.5, Inclusive: true, Status: model.StatusHealthy, Risk: model.RiskLow, Recommendation: "Low probability of bankruptcy"},
			},
			Above: Band{Status: model.StatusFinancialDistress, Risk: model.RiskHigh, Recommendation: "High probability of bankruptcy"},
		},
		Grover: Bands{
			Below: []Band{
				{Limit: -0.02, Inclusive: true, Status: model.StatusBankrupt, Risk: model.RiskHigh},
				{Limit: 0.01, Inclusive: true, Status: model.StatusGrayZone, Risk: model.RiskMedium},
			},
			Above: Band{Status: model.StatusHealthy, Risk: model.RiskLow},
		},
	}
}

// For returns the band table of model id.
func (t Thresholds) For(id model.ModelID) (Bands, bool) {
	switch id {
	case model.ModelAltman:
		return t.Altman, true
	case model.ModelAltmanModified:
		return t.AltmanModified, true
	case model.ModelSpringate:
		return t.Springate, true
	case model.ModelZmijewski:
		return t.Zmijewski, true
	case model.ModelGrover:
		return t.Grover, true
	}
	return Bands{}, false
}
