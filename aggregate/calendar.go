package aggregate

import (
	"fmt"
	"time"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/shopspring/decimal"
)

// CalendarDay is one cell of the monthly heat map.
type CalendarDay struct {
	Date        string          `json:"date"`
	Weekday     time.Weekday    `json:"weekday"`
	PnL         decimal.Decimal `json:"pnl"`
	TradeCount  int             `json:"trade_count"`
	HasActivity bool            `json:"has_activity"`
	IsToday     bool            `json:"is_today"`
}

// Calendar builds one cell per day of the month. A day has activity when any
// entry, withdrawals included, is dated on it; PnL and TradeCount only cover
// trades. today is compared by calendar day in its own location.
func Calendar(entries []ledger.Entry, year int, month time.Month, today time.Time) []CalendarDay {
	byDate := make(map[string][]ledger.Entry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	todayKey := ledger.FormatDate(today)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := first.AddDate(0, 1, -1).Day()

	days := make([]CalendarDay, 0, n)
	for i := 1; i <= n; i++ {
		key := fmt.Sprintf("%04d-%02d-%02d", year, int(month), i)
		cell := CalendarDay{
			Date:    key,
			Weekday: first.AddDate(0, 0, i-1).Weekday(),
			PnL:     decimal.Zero,
			IsToday: key == todayKey,
		}
		if dayEntries, ok := byDate[key]; ok {
			cell.HasActivity = true
			agg := Day(dayEntries, key)
			cell.PnL = agg.TotalPnL
			cell.TradeCount = agg.TotalTrades
		}
		days = append(days, cell)
	}
	return days
}
