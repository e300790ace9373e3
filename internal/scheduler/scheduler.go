package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"DistressSentinel/internal/analysis"
	"DistressSentinel/internal/notifier"
	"DistressSentinel/internal/reference"
)

const (
	historyLimit = 10
	sendRetries  = 3
)

// Sender delivers formatted messages. Satisfied by *notifier.TelegramNotifier.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist job and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Service   *analysis.Service
	Notifier  Sender
	Watchlist []string
	Source    string
	Ctx       context.Context

	now func() time.Time
	log zerolog.Logger
}

// NewScheduler creates a new Scheduler. An empty watchlist falls back to the
// built-in reference list. notifier may be nil when no chat is configured.
func NewScheduler(ctx context.Context, svc *analysis.Service, n Sender, watchlist []string, source string, log zerolog.Logger) *Scheduler {
	if len(watchlist) == 0 {
		watchlist = reference.Watchlist()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Service:   svc,
		Notifier:  n,
		Watchlist: watchlist,
		Source:    source,
		Ctx:       ctx,
		now:       time.Now,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the watchlist job on the given cron spec (with seconds).
func (s *Scheduler) Register(watchlistCron string) error {
	if _, err := s.Cron.AddFunc(watchlistCron, s.watchlistTask); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("symbols", len(s.Watchlist)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunWatchlistNow executes the watchlist job immediately (RUN_ON_START).
func (s *Scheduler) RunWatchlistNow() {
	s.watchlistTask()
}

func (s *Scheduler) watchlistTask() {
	s.log.Info().Msg("running watchlist task")
	entries := s.AnalyzeWatchlist(s.Ctx)
	s.trySend(notifier.FormatWatchlistSummary(entries, s.now()))
}

// AnalyzeWatchlist analyses every watchlist symbol in order. It stops early
// when ctx is cancelled.
func (s *Scheduler) AnalyzeWatchlist(ctx context.Context) []notifier.WatchlistEntry {
	entries := make([]notifier.WatchlistEntry, 0, len(s.Watchlist))
	for _, sym := range s.Watchlist {
		if ctx.Err() != nil {
			break
		}
		report, err := s.Service.AnalyzeSymbol(ctx, sym, s.Source)
		entries = append(entries, notifier.WatchlistEntry{Symbol: sym, Report: report, Err: err})
	}
	return entries
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/analyze", "/analisis":
		if len(args) == 0 {
			return "Usage: /analyze &lt;TICKER&gt; [source]"
		}
		return s.analyze(ctx, args)
	case "/watchlist":
		return notifier.FormatWatchlistSummary(s.AnalyzeWatchlist(ctx), s.now())
	case "/history":
		if len(args) == 0 {
			return "Usage: /history &lt;TICKER&gt;"
		}
		sym := NormalizeTicker(args[0])
		rows, err := s.Service.History(sym, historyLimit)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", sym).Msg("load history")
			return notifier.FormatError(sym, err)
		}
		return notifier.FormatHistory(sym, rows)
	case "/bankrupt":
		return notifier.FormatBankruptList(reference.Bankrupt())
	case "/models":
		return notifier.FormatModels()
	default:
		return notifier.FormatHelp(s.Service.Sources(), s.Service.DefaultSource())
	}
}

func (s *Scheduler) analyze(ctx context.Context, args []string) string {
	sym := NormalizeTicker(args[0])
	source := ""
	if len(args) > 1 {
		source = strings.ToLower(args[1])
	}
	report, err := s.Service.AnalyzeSymbol(ctx, sym, source)
	if err != nil {
		return notifier.FormatError(sym, err)
	}
	return notifier.FormatReport(report)
}

// NormalizeTicker upper-cases a ticker and adds the Jakarta suffix to a bare
// exchange code.
func NormalizeTicker(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s != "" && !strings.Contains(s, ".") {
		s += ".JK"
	}
	return s
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
