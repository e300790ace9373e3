package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DistressSentinel/internal/analysis"
	"DistressSentinel/internal/model"
	"DistressSentinel/internal/recorder"
	"DistressSentinel/internal/reference"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Rp 0"},
		{1.5e12, "Rp 1.5T"},
		{2_340_000_000, "Rp 2.3B"},
		{2_500_000, "Rp 2.5M"},
		{1_500, "Rp 1.5K"},
		{-1_500, "Rp -1.5K"},
		{999, "Rp 999"},
		{12.4, "Rp 12"},
		{-250_000_000_000_000, "Rp -250.0T"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount, "Rp"), "amount %v", tt.amount)
	}
	assert.Equal(t, "$ 3.0M", FormatCurrency(3e6, "$"))
	assert.Equal(t, "Rp n/a", FormatCurrency(math.Inf(1), "Rp"))
	assert.Equal(t, "Rp n/a", FormatCurrency(math.Inf(-1), "Rp"))
	assert.Equal(t, "Rp 0", FormatCurrency(math.NaN(), "Rp"))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1", groupThousands("1"))
	assert.Equal(t, "1,000", groupThousands("1000"))
	assert.Equal(t, "123,456,789", groupThousands("123456789"))
	assert.Equal(t, "-12,345", groupThousands("-12345"))
}

func sampleReport() *analysis.Report {
	p := 3.6
	return &analysis.Report{
		Record: model.FinancialRecord{
			Symbol:      "MYRX.JK",
			Source:      "mock",
			CompanyName: "Hanson & Co",
			Sector:      "Financial Services",
			Industry:    "N/A",
			TotalAssets: 2e12,
			MarketCap:   1.5e12,
		},
		Results: []*model.ModelResult{
			{Model: model.ModelAltman, Name: "Altman Z-Score", Score: 2.715, Status: model.StatusGrayZone, Risk: model.RiskMedium, Recommendation: "Needs a deeper look"},
			{Model: model.ModelZmijewski, Name: "Zmijewski X-Score", Score: -3.28, Status: model.StatusHealthy, Risk: model.RiskLow, Probability: &p},
		},
		Assessment: &model.RiskAssessment{
			Counts:   map[model.RiskTier]int{model.RiskMedium: 1, model.RiskLow: 1},
			Total:    2,
			Overall:  model.OverallGoodCondition,
			Headline: "Healthy",
			Advice:   []string{"Keep monitoring"},
			Failures: []model.ModelFailure{{Model: model.ModelGrover, Reason: "total assets must be greater than zero"}},
		},
		Bankrupt: &reference.Company{Symbol: "MYRX.JK", Name: "PT Hanson International Tbk", Reason: "Jiwasraya case"},
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleReport())

	assert.Contains(t, msg, "<b>Hanson &amp; Co</b> (MYRX.JK)")
	assert.Contains(t, msg, "Total Assets: Rp 2.0T | Market Cap: Rp 1.5T")
	assert.Contains(t, msg, "🟡 Altman Z-Score: 2.715 (Gray Zone)")
	assert.Contains(t, msg, "🟢 Zmijewski X-Score: -3.280 (Healthy), p=3.6%")
	assert.Contains(t, msg, "⚪ Grover G-Score: total assets must be greater than zero")
	assert.Contains(t, msg, "✅ <b>Good Condition</b>: Healthy")
	assert.Contains(t, msg, "🔴 0 | 🟡 1 | 🟢 1 of 2 models")
	assert.Contains(t, msg, "• Keep monitoring")
	assert.Contains(t, msg, "PT Hanson International Tbk (Jiwasraya case)")
}

func TestFormatWatchlistSummary(t *testing.T) {
	entries := []WatchlistEntry{
		{Symbol: "MYRX.JK", Report: sampleReport()},
		{Symbol: "NOPE.JK", Err: model.Unavailable("yahoo", "NOPE.JK", model.ErrNoData, "no data found for this symbol")},
	}
	msg := FormatWatchlistSummary(entries, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC))

	assert.Contains(t, msg, "2024-03-04")
	assert.Contains(t, msg, "✅ MYRX.JK: Good Condition")
	assert.Contains(t, msg, "⚪ NOPE.JK: no data found for this symbol")
	assert.Contains(t, msg, "⚪ 1 unavailable")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No stored assessments for BBRI.JK.", FormatHistory("BBRI.JK", nil))

	msg := FormatHistory("BBRI.JK", []recorder.StoredAssessment{{
		Overall:   model.OverallCaution,
		Medium:    3,
		Source:    "yahoo",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}})
	assert.Contains(t, msg, "2024-01-02 03:04 ⚠️ Caution")
	assert.Contains(t, msg, "via yahoo")
}

func TestFormatError(t *testing.T) {
	err := model.Unavailable("alphavantage", "BBRI.JK", model.ErrRateLimited, "rate limit reached")
	assert.Equal(t, "❌ <b>BBRI.JK</b>: rate limit reached", FormatError("BBRI.JK", err))
	assert.Equal(t, "❌ <b>X</b>: boom", FormatError("X", errors.New("boom")))
}

func TestFormatHelpAndModels(t *testing.T) {
	help := FormatHelp([]string{"mock", "yahoo"}, "yahoo")
	assert.Contains(t, help, "/analyze")
	assert.Contains(t, help, "Sources: mock, yahoo (default yahoo)")

	models := FormatModels()
	for _, id := range model.AllModels {
		assert.Contains(t, models, id.DisplayName())
	}
}

func newTestNotifier(url string) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	tn.BaseURL = url
	tn.RetryWait = time.Millisecond
	return tn
}

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).SendWithRetry(context.Background(), "x", 3))
	assert.EqualValues(t, 3, calls.Load())
}

func TestSendWithRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).SendWithRetry(context.Background(), "x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.EqualValues(t, 3, calls.Load())
}

func TestStartPolling(t *testing.T) {
	var served atomic.Bool
	replies := make(chan map[string]any, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served.CompareAndSwap(false, true) {
				assert.Equal(t, "0", r.URL.Query().Get("offset"))
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help ","chat":{"id":99}}}]}`))
				return
			}
			assert.Equal(t, "8", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			replies <- body
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newTestNotifier(srv.URL).StartPolling(ctx, func(_ context.Context, cmd string) string {
			return "got " + cmd
		})
		close(done)
	}()

	select {
	case body := <-replies:
		assert.Equal(t, "99", body["chat_id"])
		assert.Equal(t, "got /help", body["text"])
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done
}
