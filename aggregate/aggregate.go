// Package aggregate rolls ledger entries up into per-day and per-month
// figures. Withdrawals are never part of an aggregate.
package aggregate

import (
	"sort"
	"time"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DayAggregate summarizes the trades of one calendar day.
type DayAggregate struct {
	Date        string          `json:"date"`
	TotalTrades int             `json:"total_trades"`
	TotalPnL    decimal.Decimal `json:"total_pnl"`
	TotalFees   decimal.Decimal `json:"total_fees"`
	WinCount    int             `json:"win_count"`
	LossCount   int             `json:"loss_count"`
	WinRate     decimal.Decimal `json:"win_rate"`
}

// MonthAggregate summarizes the trades of one calendar month.
type MonthAggregate struct {
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	TotalTrades int             `json:"total_trades"`
	MonthlyPL   decimal.Decimal `json:"monthly_pl"`
	MonthlyEV   decimal.Decimal `json:"monthly_ev"`
	MonthlyFees decimal.Decimal `json:"monthly_fees"`
	FeesPercent decimal.Decimal `json:"fees_percent"`
	WinCount    int             `json:"win_count"`
	LossCount   int             `json:"loss_count"`
}

// Day aggregates the trades whose Date equals date exactly.
func Day(entries []ledger.Entry, date string) DayAggregate {
	trades, _ := ledger.Partition(entries, date)

	agg := DayAggregate{
		Date:      date,
		TotalPnL:  decimal.Zero,
		TotalFees: decimal.Zero,
		WinRate:   decimal.Zero,
	}
	for _, t := range trades {
		agg.TotalTrades++
		agg.TotalPnL = agg.TotalPnL.Add(t.NetPnL())
		agg.TotalFees = agg.TotalFees.Add(t.Fee.Abs())
		switch {
		case t.PnL.IsPositive():
			agg.WinCount++
		case t.PnL.IsNegative():
			agg.LossCount++
		}
	}
	if agg.TotalTrades > 0 {
		agg.WinRate = decimal.NewFromInt(int64(agg.WinCount)).
			Div(decimal.NewFromInt(int64(agg.TotalTrades))).
			Mul(hundred)
	}
	return agg
}

// Month aggregates the trades dated in the given calendar month. Entries with
// unparseable dates are skipped.
func Month(entries []ledger.Entry, year int, month time.Month) MonthAggregate {
	agg := MonthAggregate{
		Year:        year,
		Month:       month,
		MonthlyPL:   decimal.Zero,
		MonthlyEV:   decimal.Zero,
		MonthlyFees: decimal.Zero,
		FeesPercent: decimal.Zero,
	}

	winPnL := decimal.Zero
	lossPnL := decimal.Zero
	for _, e := range entries {
		if e.IsWithdrawal() {
			continue
		}
		t, err := ledger.ParseDate(e.Date)
		if err != nil || t.Year() != year || t.Month() != month {
			continue
		}

		agg.TotalTrades++
		agg.MonthlyPL = agg.MonthlyPL.Add(e.NetPnL())
		agg.MonthlyFees = agg.MonthlyFees.Add(e.Fee.Abs())
		switch {
		case e.PnL.IsPositive():
			winPnL = winPnL.Add(e.PnL)
			agg.WinCount++
		case e.PnL.IsNegative():
			lossPnL = lossPnL.Add(e.PnL.Abs())
			agg.LossCount++
		}
	}

	if agg.WinCount > 0 {
		agg.MonthlyEV = winPnL.Sub(lossPnL).Div(decimal.NewFromInt(int64(agg.WinCount)))
	}
	gross := agg.MonthlyPL.Add(agg.MonthlyFees).Abs()
	if !gross.IsZero() {
		agg.FeesPercent = agg.MonthlyFees.Div(gross).Mul(hundred)
	}
	return agg
}

// Days lists the distinct dates that carry any entry, oldest first.
func Days(entries []ledger.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	var out []string
	for _, e := range entries {
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		out = append(out, e.Date)
	}
	sort.Strings(out)
	return out
}
