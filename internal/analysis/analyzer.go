// Package analysis runs the scoring pipeline end to end: every model over one
// record, aggregation, and the reference lookups shown alongside the result.
package analysis

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"DistressSentinel/internal/aggregator"
	"DistressSentinel/internal/model"
	"DistressSentinel/internal/reference"
	"DistressSentinel/internal/scoring"
)

// Report is the complete outcome of analysing one record.
type Report struct {
	Record     model.FinancialRecord           `json:"record"`
	Results    []*model.ModelResult            `json:"results"`
	Outcomes   map[model.ModelID]model.Outcome `json:"-"`
	Assessment *model.RiskAssessment           `json:"assessment"`
	Bankrupt   *reference.Company              `json:"bankrupt,omitempty"`
}

// Analyzer scores a record with every model and aggregates the results.
type Analyzer struct {
	engine     *scoring.Engine
	aggregator *aggregator.Aggregator
	parallel   bool
}

// NewAnalyzer creates an Analyzer. With parallel set, models run concurrently.
func NewAnalyzer(engine *scoring.Engine, agg *aggregator.Aggregator, parallel bool) *Analyzer {
	return &Analyzer{engine: engine, aggregator: agg, parallel: parallel}
}

// Thresholds returns the band tables the engine classifies with.
func (a *Analyzer) Thresholds() scoring.Thresholds { return a.engine.Thresholds() }

// Score runs every model. Each model gets its own copy of rec. A model
// failure is kept in its Outcome; only cancellation of ctx fails the call.
func (a *Analyzer) Score(ctx context.Context, rec model.FinancialRecord) (map[model.ModelID]model.Outcome, error) {
	if !a.parallel {
		return a.engine.ScoreAll(ctx, rec)
	}

	out := make(map[model.ModelID]model.Outcome, len(model.AllModels))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range model.AllModels {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.engine.Score(id, rec)
			mu.Lock()
			out[id] = model.Outcome{Result: res, Err: err}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze scores rec and aggregates. When no model can be computed the
// returned error is a *model.AggregateError.
func (a *Analyzer) Analyze(ctx context.Context, rec model.FinancialRecord) (*Report, error) {
	outcomes, err := a.Score(ctx, rec)
	if err != nil {
		return nil, err
	}

	assessment, err := a.aggregator.Aggregate(outcomes)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Record:     rec,
		Outcomes:   outcomes,
		Assessment: assessment,
	}
	for _, id := range model.AllModels {
		if o, ok := outcomes[id]; ok && o.OK() {
			report.Results = append(report.Results, o.Result)
		}
	}
	if c, ok := reference.LookupBankrupt(rec.Symbol); ok {
		report.Bankrupt = &c
	}
	return report, nil
}
