package notifier

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"DistressSentinel/internal/analysis"
	"DistressSentinel/internal/model"
	"DistressSentinel/internal/recorder"
	"DistressSentinel/internal/reference"
)

// DefaultCurrency prefixes every amount in reports.
const DefaultCurrency = "Rp"

var magnitudes = []struct {
	limit  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCurrency renders amount with a T/B/M/K suffix and one decimal, or as a
// grouped integer below one thousand.
func FormatCurrency(amount float64, currency string) string {
	if amount == 0 || math.IsNaN(amount) {
		return currency + " 0"
	}
	if math.IsInf(amount, 0) {
		return currency + " n/a"
	}
	d := decimal.NewFromFloat(amount)
	for _, m := range magnitudes {
		if math.Abs(amount) >= m.limit {
			return fmt.Sprintf("%s %s%s", currency, d.Div(decimal.NewFromFloat(m.limit)).StringFixed(1), m.suffix)
		}
	}
	return fmt.Sprintf("%s %s", currency, groupThousands(d.StringFixed(0)))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

func overallEmoji(o model.Overall) string {
	switch o {
	case model.OverallHighWarning:
		return "🚨"
	case model.OverallCaution:
		return "⚠️"
	}
	return "✅"
}

// FormatReport formats one analysis into a Telegram message.
func FormatReport(r *analysis.Report) string {
	var b strings.Builder
	rec := r.Record
	a := r.Assessment

	b.WriteString(fmt.Sprintf("🏢 <b>%s</b>", html.EscapeString(rec.CompanyName)))
	if rec.Symbol != "" {
		b.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(rec.Symbol)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Sector: %s | Industry: %s\n", html.EscapeString(rec.Sector), html.EscapeString(rec.Industry)))
	if rec.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", rec.Source))
	}
	b.WriteString(fmt.Sprintf("Total Assets: %s | Market Cap: %s\n",
		FormatCurrency(rec.TotalAssets, DefaultCurrency), FormatCurrency(rec.MarketCap, DefaultCurrency)))
	if rec.CurrentPrice > 0 {
		b.WriteString(fmt.Sprintf("Price: %s\n", FormatCurrency(rec.CurrentPrice, DefaultCurrency)))
	}

	if r.Bankrupt != nil {
		b.WriteString("\n" + formatBankrupt(r.Bankrupt))
	}

	b.WriteString("\n📊 <b>Model results</b>\n")
	for _, res := range r.Results {
		b.WriteString(fmt.Sprintf("%s %s: %.3f (%s)", res.Risk.Emoji(), res.Name, res.Score, res.Status))
		if res.Probability != nil {
			b.WriteString(fmt.Sprintf(", p=%.1f%%", *res.Probability))
		}
		b.WriteString("\n")
		if res.Recommendation != "" {
			b.WriteString(fmt.Sprintf("   %s\n", res.Recommendation))
		}
	}
	for _, f := range a.Failures {
		b.WriteString(fmt.Sprintf("⚪ %s: %s\n", f.Model.DisplayName(), html.EscapeString(f.Reason)))
	}

	b.WriteString(fmt.Sprintf("\n%s <b>%s</b>: %s\n", overallEmoji(a.Overall), a.Overall, a.Headline))
	b.WriteString(fmt.Sprintf("%s %d | %s %d | %s %d of %d models\n",
		model.RiskHigh.Emoji(), a.Count(model.RiskHigh),
		model.RiskMedium.Emoji(), a.Count(model.RiskMedium),
		model.RiskLow.Emoji(), a.Count(model.RiskLow),
		a.Total))
	for _, line := range a.Advice {
		b.WriteString(fmt.Sprintf("• %s\n", line))
	}
	return b.String()
}

func formatBankrupt(c *reference.Company) string {
	name := c.Name
	if name == "" {
		name = c.Symbol
	}
	msg := fmt.Sprintf("🚨 <b>Listed as bankrupt/delisted:</b> %s", html.EscapeString(name))
	if !c.DelistedOn.IsZero() {
		msg += fmt.Sprintf(" on %s", c.DelistedOn.Format(time.DateOnly))
	}
	if c.Reason != "" {
		msg += fmt.Sprintf(" (%s)", html.EscapeString(c.Reason))
	}
	return msg + "\n"
}

// WatchlistEntry is one line of the watchlist summary. Err is set when the
// symbol could not be analysed.
type WatchlistEntry struct {
	Symbol string
	Report *analysis.Report
	Err    error
}

// FormatWatchlistSummary formats the scheduled watchlist run.
func FormatWatchlistSummary(entries []WatchlistEntry, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>DistressSentinel watchlist</b> | %s\n\n", at.Format(time.DateOnly)))

	tally := make(map[model.Overall]int)
	failed := 0
	for _, e := range entries {
		if e.Err != nil {
			failed++
			b.WriteString(fmt.Sprintf("⚪ %s: %s\n", e.Symbol, html.EscapeString(shortError(e.Err))))
			continue
		}
		a := e.Report.Assessment
		tally[a.Overall]++
		b.WriteString(fmt.Sprintf("%s %s: %s (%s%d %s%d %s%d)\n",
			overallEmoji(a.Overall), e.Symbol, a.Overall,
			model.RiskHigh.Emoji(), a.Count(model.RiskHigh),
			model.RiskMedium.Emoji(), a.Count(model.RiskMedium),
			model.RiskLow.Emoji(), a.Count(model.RiskLow)))
	}

	b.WriteString(fmt.Sprintf("\n%s %d | %s %d | %s %d",
		overallEmoji(model.OverallHighWarning), tally[model.OverallHighWarning],
		overallEmoji(model.OverallCaution), tally[model.OverallCaution],
		overallEmoji(model.OverallGoodCondition), tally[model.OverallGoodCondition]))
	if failed > 0 {
		b.WriteString(fmt.Sprintf(" | ⚪ %d unavailable", failed))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatHistory formats stored assessments of one symbol, newest first.
func FormatHistory(symbol string, rows []recorder.StoredAssessment) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No stored assessments for %s.", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>History</b> | %s\n\n", html.EscapeString(symbol)))
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s %s %s (%s%d %s%d %s%d) via %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), overallEmoji(r.Overall), r.Overall,
			model.RiskHigh.Emoji(), r.High,
			model.RiskMedium.Emoji(), r.Medium,
			model.RiskLow.Emoji(), r.Low,
			r.Source))
	}
	return b.String()
}

// FormatBankruptList formats the reference list of bankrupt issuers.
func FormatBankruptList(companies []reference.Company) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚰️ <b>Bankrupt and delisted issuers</b> (%d)\n\n", len(companies)))
	for _, c := range companies {
		b.WriteString("• " + c.Symbol)
		if c.Name != "" {
			b.WriteString(" " + html.EscapeString(c.Name))
		}
		if !c.DelistedOn.IsZero() {
			b.WriteString(", " + c.DelistedOn.Format(time.DateOnly))
		}
		if c.Reason != "" {
			b.WriteString(": " + html.EscapeString(c.Reason))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatModels lists the scoring models.
func FormatModels() string {
	var b strings.Builder
	b.WriteString("🧮 <b>Models</b>\n")
	for _, id := range model.AllModels {
		b.WriteString(fmt.Sprintf("• <b>%s</b>: %s\n", id.DisplayName(), id.Description()))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp(sources []string, defaultSource string) string {
	var b strings.Builder
	b.WriteString("🤖 <b>DistressSentinel</b>\n\n")
	b.WriteString("/analyze &lt;TICKER&gt; [source] - score one company\n")
	b.WriteString("/watchlist - score the configured watchlist\n")
	b.WriteString("/history &lt;TICKER&gt; - stored assessments\n")
	b.WriteString("/bankrupt - bankrupt and delisted issuers\n")
	b.WriteString("/models - scoring models\n")
	b.WriteString("/help - this message\n")
	if len(sources) > 0 {
		b.WriteString(fmt.Sprintf("\nSources: %s (default %s)\n", strings.Join(sources, ", "), defaultSource))
	}
	return b.String()
}

// FormatError formats a failed analysis.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(shortError(err)))
}

func shortError(err error) string {
	var du *model.DataUnavailableError
	if errors.As(err, &du) && du.Reason != "" {
		return du.Reason
	}
	var agg *model.AggregateError
	if errors.As(err, &agg) && len(agg.Failures) > 0 {
		return "no model could be computed, " + agg.Failures[0].Reason
	}
	return err.Error()
}
