// Package scoring runs the bankruptcy prediction models over a FinancialRecord.
package scoring

import (
	"context"
	"fmt"

	"DistressSentinel/internal/model"
	"DistressSentinel/internal/validator"
)

type modelFunc func(rec *model.FinancialRecord, th *Thresholds) (*model.ModelResult, error)

var models = map[model.ModelID]modelFunc{
	model.ModelAltman:         altman,
	model.ModelAltmanModified: altmanModified,
	model.ModelSpringate:      springate,
	model.ModelZmijewski:      zmijewski,
	model.ModelGrover:         grover,
}

// Engine scores records. It has no mutable state and is safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	repairer   *validator.Repairer
}

// NewEngine creates an Engine from band tables and a repairer.
func NewEngine(th Thresholds, repairer *validator.Repairer) *Engine {
	return &Engine{thresholds: th, repairer: repairer}
}

// NewDefaultEngine uses DefaultThresholds and the default repair policy.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultThresholds(), validator.NewDefault())
}

// Thresholds returns the band tables in use.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Score runs one model. rec is taken by value: the repairer works on the
// caller's copy, so sibling models never see each other's repairs. A panic
// inside a model is returned as that model's error.
func (e *Engine) Score(id model.ModelID, rec model.FinancialRecord) (res *model.ModelResult, err error) {
	fn, ok := models[id]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", id)
	}
	if err := e.repairer.ValidateAndRepair(&rec); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%s: %v", id.DisplayName(), r)
		}
	}()
	return fn(&rec, &e.thresholds)
}

// ScoreAll runs every model sequentially. A failing model does not stop the
// others; a canceled ctx stops before the next model.
func (e *Engine) ScoreAll(ctx context.Context, rec model.FinancialRecord) (map[model.ModelID]model.Outcome, error) {
	out := make(map[model.ModelID]model.Outcome, len(model.AllModels))
	for _, id := range model.AllModels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := e.Score(id, rec)
		out[id] = model.Outcome{Result: res, Err: err}
	}
	return out, nil
}
