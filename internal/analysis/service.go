package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"DistressSentinel/internal/collector"
	"DistressSentinel/internal/model"
	"DistressSentinel/internal/reconciler"
	"DistressSentinel/internal/recorder"
	"DistressSentinel/internal/scoring"
)

// ErrUnknownSource is returned for a provider name with no configured collector.
var ErrUnknownSource = errors.New("unknown data source")

// Failure kinds stored by the recorder.
const (
	FailureDataUnavailable = "DATA_UNAVAILABLE"
	FailureNoModel         = "NO_MODEL"
)

// Service is the entry point used by the bot, the scheduler and the HTTP API.
type Service struct {
	analyzer      *Analyzer
	collectors    map[string]*collector.Collector
	defaultSource string
	recorder      recorder.Recorder
	log           zerolog.Logger
}

// NewService wires an Analyzer to the given collectors, keyed by fetcher name.
func NewService(analyzer *Analyzer, rec recorder.Recorder, defaultSource string, log zerolog.Logger, collectors ...*collector.Collector) *Service {
	s := &Service{
		analyzer:      analyzer,
		collectors:    make(map[string]*collector.Collector, len(collectors)),
		defaultSource: defaultSource,
		recorder:      rec,
		log:           log.With().Str("component", "analysis").Logger(),
	}
	for _, c := range collectors {
		s.collectors[c.Fetcher.Name()] = c
	}
	return s
}

// Sources lists the configured provider names.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.collectors))
	for n := range s.collectors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Thresholds returns the band tables used to classify model scores.
func (s *Service) Thresholds() scoring.Thresholds { return s.analyzer.Thresholds() }

// DefaultSource is the provider used when a request names none.
func (s *Service) DefaultSource() string { return s.defaultSource }

// AnalyzeSymbol fetches symbol from source (default when empty) and analyses it.
func (s *Service) AnalyzeSymbol(ctx context.Context, symbol, source string) (*Report, error) {
	if source == "" {
		source = s.defaultSource
	}
	col, ok := s.collectors[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	rec, err := col.Collect(ctx, symbol)
	if err != nil {
		var du *model.DataUnavailableError
		if errors.As(err, &du) {
			s.recordFailure(symbol, source, FailureDataUnavailable, err)
		}
		s.log.Warn().Err(err).Str("symbol", symbol).Str("source", source).Msg("collect failed")
		return nil, err
	}
	return s.analyze(ctx, rec)
}

// AnalyzeManual analyses a user-entered record keyed by canonical field names.
// The record skips reconciliation but is still validated by every model.
func (s *Service) AnalyzeManual(ctx context.Context, entry map[string]any) (*Report, error) {
	return s.analyze(ctx, reconciler.FromManual(entry))
}

// History returns stored assessments of symbol, newest first.
func (s *Service) History(symbol string, limit int) ([]recorder.StoredAssessment, error) {
	return s.recorder.Recent(symbol, limit)
}

func (s *Service) analyze(ctx context.Context, rec model.FinancialRecord) (*Report, error) {
	report, err := s.analyzer.Analyze(ctx, rec)
	if err != nil {
		var agg *model.AggregateError
		if errors.As(err, &agg) {
			s.recordFailure(rec.Symbol, rec.Source, FailureNoModel, err)
			s.log.Warn().Err(err).Str("symbol", rec.Symbol).Msg("no model could be computed")
		}
		return nil, err
	}

	a := report.Assessment
	s.log.Info().
		Str("symbol", rec.Symbol).
		Str("source", rec.Source).
		Str("overall", string(a.Overall)).
		Int("high", a.Count(model.RiskHigh)).
		Int("medium", a.Count(model.RiskMedium)).
		Int("low", a.Count(model.RiskLow)).
		Int("failed", len(a.Failures)).
		Msg("analysis complete")

	if err := s.recorder.RecordAssessment(&recorder.AssessmentEvent{
		Record:     rec,
		Results:    report.Results,
		Assessment: a,
	}); err != nil {
		s.log.Warn().Err(err).Msg("record assessment failed")
	}
	return report, nil
}

func (s *Service) recordFailure(symbol, source, kind string, cause error) {
	if err := s.recorder.RecordFailure(&recorder.FailureEvent{
		Symbol: symbol,
		Source: source,
		Kind:   kind,
		Reason: cause.Error(),
	}); err != nil {
		s.log.Warn().Err(err).Msg("record failure failed")
	}
}
