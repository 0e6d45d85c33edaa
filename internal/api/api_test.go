package api

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/sltp/aggregate"
	"github.com/rustyeddy/sltp/challenge"
	"github.com/rustyeddy/sltp/config"
	"github.com/rustyeddy/sltp/journal"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 12, 15, 14, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T, settings config.Settings, seed ...ledger.Entry) (*Server, *journal.SQLite) {
	t.Helper()

	store, err := journal.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, e := range seed {
		_, err := store.AddEntry(context.Background(), e)
		require.NoError(t, err)
	}

	srv := New(store, settings, zerolog.Nop(), WithClock(func() time.Time { return today }))
	return srv, store
}

func seedLedger() []ledger.Entry {
	return []ledger.Entry{
		{Pair: "BTC/USD", Direction: ledger.Long, PnL: d("150"), Fee: d("2.50"), Date: "2025-12-02"},
		{Pair: "ETH/USD", Direction: ledger.Long, PnL: d("85"), Fee: d("1.50"), Date: "2025-12-05"},
		{Pair: "BTC/USD", Direction: ledger.Short, PnL: d("-45"), Fee: d("2.50"), Date: "2025-12-10"},
		ledger.NewWithdrawal(d("500"), "2025-12-12", "rent"),
		{Pair: "SOL/USD", Direction: ledger.Long, PnL: d("120"), Fee: d("1.80"), Date: "2025-12-15"},
	}
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)
	rec := do(t, srv, "GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAddEntry(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, config.Default().Settings)

	rec := do(t, srv, "POST", "/api/entries",
		`{"pair":"BTC/USD","direction":"long","pnl":"100+50","fee":2.5,"date":"2025-12-02","notes":"breakout"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decodeBody[ledger.Entry](t, rec)
	assert.NotEmpty(t, got.ID)
	assert.True(t, got.PnL.Equal(d("150")), "pnl %s", got.PnL)
	assert.True(t, got.Fee.Equal(d("2.5")))
	assert.Equal(t, "breakout", got.Notes)

	stored, err := store.GetEntry(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-02", stored.Date)
}

func TestAddEntryDefaultsToToday(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)
	rec := do(t, srv, "POST", "/api/entries", `{"pair":"ETH/USD","direction":"short","pnl":-20}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2025-12-15", decodeBody[ledger.Entry](t, rec).Date)
}

func TestAddEntryRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"pair":`},
		{"unknown field", `{"pair":"BTC/USD","direction":"long","pnl":1,"size":3}`},
		{"missing pnl", `{"pair":"BTC/USD","direction":"long"}`},
		{"malformed amount", `{"pair":"BTC/USD","direction":"long","pnl":"10++2"}`},
		{"bad direction", `{"pair":"BTC/USD","direction":"up","pnl":1}`},
		{"bad date", `{"pair":"BTC/USD","direction":"long","pnl":1,"date":"12/02/2025"}`},
		{"empty pair", `{"pair":" ","direction":"long","pnl":1}`},
		{"withdrawal pair", `{"pair":"WITHDRAWAL","direction":"long","pnl":-1}`},
	}

	srv, store := newTestServer(t, config.Default().Settings)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, "POST", "/api/entries", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[errorResponse](t, rec).Error)
		})
	}

	all, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddWithdrawal(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)

	rec := do(t, srv, "POST", "/api/withdrawals", `{"amount":"250","date":"2025-12-12","notes":"tax"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeBody[ledger.Entry](t, rec)
	assert.Equal(t, ledger.Withdrawal, got.Pair)
	assert.True(t, got.PnL.Equal(d("-250")))

	rec = do(t, srv, "POST", "/api/withdrawals", `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)

	rec := do(t, srv, "GET", "/api/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[[]ledger.Entry](t, rec)
	require.Len(t, all, 5)
	assert.Equal(t, "2025-12-02", all[0].Date)

	rec = do(t, srv, "GET", "/api/entries?from=2025-12-05&to=2025-12-12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	window := decodeBody[[]ledger.Entry](t, rec)
	require.Len(t, window, 3)
	assert.Equal(t, ledger.Withdrawal, window[2].Pair)

	rec = do(t, srv, "GET", "/api/entries?from=2025-12-13", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ledger.Entry](t, rec), 1)

	rec = do(t, srv, "GET", "/api/entries?to=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEntriesEmptyIsArray(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)
	rec := do(t, srv, "GET", "/api/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetAndDeleteEntry(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, config.Default().Settings)
	saved, err := store.AddEntry(context.Background(), seedLedger()[0])
	require.NoError(t, err)

	rec := do(t, srv, "GET", "/api/entries/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, saved.ID, decodeBody[ledger.Entry](t, rec).ID)

	rec = do(t, srv, "DELETE", "/api/entries/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, "DELETE", "/api/entries/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, "GET", "/api/entries/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDay(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)

	rec := do(t, srv, "GET", "/api/days/2025-12-15", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[dayResponse](t, rec)

	// 10000 + 147.5 + 83.5 - 47.5 - 500 before the 15th
	assert.True(t, got.Day.Budget.Reference.Equal(d("9683.5")), "ref %s", got.Day.Budget.Reference)
	assert.True(t, got.Day.Budget.Unit.Equal(d("96.835")))
	assert.Equal(t, 1, got.Day.Aggregate.TotalTrades)
	assert.True(t, got.Day.Aggregate.TotalPnL.Equal(d("118.2")))
	assert.False(t, got.Decision.TargetHit)
	assert.False(t, got.Decision.SLBreached)
	require.Len(t, got.Trades, 1)
	assert.Equal(t, "SOL/USD", got.Trades[0].Pair)
}

func TestDayWithdrawalOnly(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)

	rec := do(t, srv, "GET", "/api/days/2025-12-12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[dayResponse](t, rec)
	assert.Equal(t, 0, got.Day.Aggregate.TotalTrades)
	assert.Empty(t, got.Trades)

	rec = do(t, srv, "GET", "/api/days/2025-13-40", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDaysAndWithdrawals(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)
	rec := do(t, srv, "GET", "/api/days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	srv, _ = newTestServer(t, config.Default().Settings, seedLedger()...)
	rec = do(t, srv, "GET", "/api/days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		[]string{"2025-12-02", "2025-12-05", "2025-12-10", "2025-12-12", "2025-12-15"},
		decodeBody[[]string](t, rec))

	rec = do(t, srv, "GET", "/api/withdrawals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decodeBody[[]ledger.Entry](t, rec)
	require.Len(t, ws, 1)
	assert.Equal(t, "rent", ws[0].Notes)
	assert.True(t, ws[0].PnL.Equal(d("-500")))
}

func TestMonthAndCalendar(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)

	rec := do(t, srv, "GET", "/api/months/2025/12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decodeBody[aggregate.MonthAggregate](t, rec)
	assert.Equal(t, 4, m.TotalTrades)
	assert.True(t, m.MonthlyPL.Equal(d("301.7")), "pl %s", m.MonthlyPL)

	rec = do(t, srv, "GET", "/api/calendar/2025/12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	days := decodeBody[[]aggregate.CalendarDay](t, rec)
	require.Len(t, days, 31)
	assert.True(t, days[14].IsToday)
	assert.True(t, days[11].HasActivity)
	assert.Equal(t, 0, days[11].TradeCount)

	rec = do(t, srv, "GET", "/api/months/2025/13", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)

	rec := do(t, srv, "GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	var report struct {
		TotalTrades    int    `json:"total_trades"`
		MostTradedPair string `json:"most_traded_pair"`
	}
	require.NoError(t, json.Unmarshal(raw["stats"], &report))
	assert.Equal(t, 4, report.TotalTrades)
	assert.Equal(t, "BTC/USD", report.MostTradedPair)

	var curve []json.RawMessage
	require.NoError(t, json.Unmarshal(raw["cumulative"], &curve))
	assert.Len(t, curve, 4)
}

func TestStatsEmpty(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)
	rec := do(t, srv, "GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"profit_factor":null`)
	assert.Contains(t, rec.Body.String(), `"cumulative":[]`)
}

func TestChallenge(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)
	rec := do(t, srv, "GET", "/api/challenge", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	settings := config.Default().Settings
	settings.Challenge = challenge.Settings{
		Enabled:         true,
		TargetBalance:   d("12000"),
		DurationDays:    30,
		StartDate:       "2025-12-01",
		StartingBalance: d("10000"),
	}
	srv, _ = newTestServer(t, settings, seedLedger()...)
	rec = do(t, srv, "GET", "/api/challenge", "")
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeBody[challenge.Progress](t, rec)
	assert.Equal(t, 14, p.DaysElapsed)
	assert.Equal(t, 16, p.DaysRemaining)
	assert.True(t, p.CurrentBalance.Equal(d("9801.7")), "balance %s", p.CurrentBalance)
	// (12000/9801.7)^(1/16) is about 1.27% a day, between 0.75 and 1.5
	assert.InDelta(t, 1.273, p.RequiredDailyR.Value(), 0.001)
	assert.Equal(t, challenge.Moderate, p.RiskLevel)
}

func TestBalance(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)
	rec := do(t, srv, "GET", "/api/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[balanceResponse](t, rec)
	assert.True(t, got.Beginning.Equal(d("10000")))
	assert.True(t, got.Current.Equal(d("9801.7")))
	assert.True(t, got.Withdrawn.Equal(d("500")))
	assert.True(t, got.Today.Equal(d("9683.5")))
}

func TestWriteJSONUnencodable(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"growth": math.Inf(1)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decodeBody[errorResponse](t, rec).Error)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings)
	rec := do(t, srv, "GET", "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decodeBody[errorResponse](t, rec).Error)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, config.Default().Settings, seedLedger()...)
	do(t, srv, "GET", "/api/days/2025-12-02", "")
	do(t, srv, "GET", "/api/days/2025-12-05", "")
	do(t, srv, "POST", "/api/entries", `{"pair":"XRP/USD","direction":"long","pnl":5}`)

	rec := do(t, srv, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `sltp_http_requests_total{code="200",route="/api/days/{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}"} 2`)
	assert.Contains(t, body, `sltp_entries_added_total{kind="trade"} 1`)
	assert.Contains(t, body, "sltp_http_request_duration_seconds_bucket")
}
