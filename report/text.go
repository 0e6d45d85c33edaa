// Package report renders analytics results for people: plain text for the
// terminal and Org-mode for a written journal. Nothing here computes; every
// figure arrives precomputed.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rustyeddy/sltp/aggregate"
	"github.com/rustyeddy/sltp/challenge"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/risk"
	"github.com/rustyeddy/sltp/stats"
	"github.com/shopspring/decimal"
)

const rule = "--------------------------------------------------"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, titleStyle.Render(" "+title))
	fmt.Fprintln(w, "==================================================")
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(title))
	fmt.Fprintln(w, rule)
}

// Money formats an amount with two decimals and an explicit sign.
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	switch {
	case d.IsPositive():
		return gainStyle.Render(s)
	case d.IsNegative():
		return lossStyle.Render(s)
	}
	return s
}

func PrintDay(w io.Writer, res risk.DayResult, dec risk.Decision, trades []ledger.Entry) {
	agg := res.Aggregate
	banner(w, "Day "+agg.Date)

	fmt.Fprintf(w, "Start Balance: %s\n", res.Budget.Reference.StringFixed(2))
	if res.Budget.Degenerate {
		fmt.Fprintln(w, warnStyle.Render("Risk Unit:     n/a (balance is not positive)"))
	} else {
		fmt.Fprintf(w, "Risk Unit:     %s\n", res.Budget.Unit.StringFixed(2))
		fmt.Fprintf(w, "Daily Target:  %s\n", res.Budget.TargetAmount.StringFixed(2))
		fmt.Fprintf(w, "SL Budget:     %s\n", res.Budget.SLAmount.StringFixed(2))
	}

	section(w, "Trades")
	fmt.Fprintf(w, "Trades:        %d\n", agg.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", agg.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", agg.LossCount)
	fmt.Fprintf(w, "Win Rate:      %s%%\n", agg.WinRate.StringFixed(2))
	fmt.Fprintf(w, "Fees:          %s\n", agg.TotalFees.StringFixed(2))
	fmt.Fprintf(w, "Net P/L:       %s (%sR)\n", Money(agg.TotalPnL), res.TotalR.StringFixed(2))

	if len(trades) > 0 {
		fmt.Fprintln(w)
		for _, e := range trades {
			fmt.Fprintf(w, "  %-12s %-5s %s\n", e.Pair, e.Direction, Money(e.NetPnL()))
		}
	}

	switch {
	case dec.TargetHit:
		fmt.Fprintln(w)
		fmt.Fprintln(w, gainStyle.Render("Daily target reached. Stop trading for today."))
	case dec.SLBreached:
		fmt.Fprintln(w)
		fmt.Fprintln(w, lossStyle.Render("Stop-loss budget used up. Stop trading for today."))
	}
	fmt.Fprintln(w)
}

func PrintMonth(w io.Writer, m aggregate.MonthAggregate) {
	banner(w, fmt.Sprintf("%s %d", m.Month, m.Year))

	fmt.Fprintf(w, "Trades:        %d\n", m.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", m.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", m.LossCount)
	fmt.Fprintf(w, "Monthly P/L:   %s\n", Money(m.MonthlyPL))
	fmt.Fprintf(w, "Expected Val:  %s\n", m.MonthlyEV.StringFixed(2))
	fmt.Fprintf(w, "Fees:          %s (%s%%)\n", m.MonthlyFees.StringFixed(2), m.FeesPercent.StringFixed(2))
	fmt.Fprintln(w)
}

// PrintCalendar draws a Monday-first month grid with each active day's P&L.
func PrintCalendar(w io.Writer, days []aggregate.CalendarDay) {
	if len(days) == 0 {
		return
	}
	first, _ := ledger.ParseDate(days[0].Date)
	banner(w, first.Format("January 2006"))

	const cell = 10
	for _, h := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		fmt.Fprintf(w, "%-*s", cell, h)
	}
	fmt.Fprintln(w)

	// Monday is column 0
	col := (int(days[0].Weekday) + 6) % 7
	fmt.Fprint(w, strings.Repeat(" ", col*cell))
	for _, d := range days {
		label := d.Date[len(d.Date)-2:]
		if d.IsToday {
			label += "*"
		}
		text := label
		if d.HasActivity {
			text = fmt.Sprintf("%s %s", label, d.PnL.StringFixed(0))
		}
		pad := strings.Repeat(" ", max(1, cell-len(text)))
		switch {
		case !d.HasActivity:
			text = mutedStyle.Render(text)
		case d.PnL.IsPositive():
			text = gainStyle.Render(text)
		case d.PnL.IsNegative():
			text = lossStyle.Render(text)
		}
		fmt.Fprint(w, text+pad)

		col++
		if col == 7 {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func PrintStats(w io.Writer, r stats.Report) {
	banner(w, "Trading Statistics")

	fmt.Fprintf(w, "Trades:        %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", r.LossCount)
	fmt.Fprintf(w, "Win Rate:      %s%%\n", r.WinRate.StringFixed(2))
	fmt.Fprintf(w, "Net P/L:       %s\n", Money(r.NetPnL))
	fmt.Fprintf(w, "Profit Factor: %s\n", r.ProfitFactor)
	fmt.Fprintf(w, "Avg R:R:       %s\n", r.AvgRiskReward)
	fmt.Fprintf(w, "Avg Win:       %s\n", r.AvgWin.StringFixed(2))
	fmt.Fprintf(w, "Avg Loss:      %s\n", r.AvgLoss.StringFixed(2))
	fmt.Fprintf(w, "Largest Win:   %s\n", Money(r.LargestWin))
	fmt.Fprintf(w, "Largest Loss:  %s\n", Money(r.LargestLoss))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", r.MaxDrawdown.StringFixed(2))

	section(w, "Behaviour")
	fmt.Fprintf(w, "Bias:          %s (%d long / %d short)\n", r.Bias.Label, r.Bias.Long, r.Bias.Short)
	fmt.Fprintf(w, "Most Traded:   %s\n", r.MostTradedPair)
	fmt.Fprintf(w, "Most Profit:   %s\n", r.MostProfitablePair)
	fmt.Fprintf(w, "Largest Loss:  %s\n", r.LargestLossPair)

	if len(r.Symbols) > 0 {
		section(w, "By Symbol")
		for _, s := range r.Symbols {
			fmt.Fprintf(w, "%-12s %3dW %3dL  %s / %s\n",
				s.Pair, s.Wins, s.Losses, s.WinPnL.StringFixed(2), s.LossPnL.Neg().StringFixed(2))
		}
	}
	fmt.Fprintln(w)
}

// PrintChallenge renders challenge progress; a nil p means no challenge is
// running.
func PrintChallenge(w io.Writer, p *challenge.Progress) {
	banner(w, "Challenge")
	if p == nil {
		fmt.Fprintln(w, mutedStyle.Render("No active challenge."))
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Started:       %s at %s\n", p.StartDate, p.StartingBalance.StringFixed(2))
	fmt.Fprintf(w, "Balance:       %s / %s (%.1f%%)\n",
		p.CurrentBalance.StringFixed(2), p.TargetBalance.StringFixed(2), p.PercentComplete)
	fmt.Fprintf(w, "Days:          %d elapsed, %d remaining\n", p.DaysElapsed, p.DaysRemaining)
	fmt.Fprintf(w, "Required/day:  %s%%\n", p.RequiredDailyR)

	level := string(p.RiskLevel)
	switch p.RiskLevel {
	case challenge.Aggressive:
		level = lossStyle.Render(level)
	case challenge.Moderate:
		level = warnStyle.Render(level)
	default:
		level = gainStyle.Render(level)
	}
	fmt.Fprintf(w, "Risk Level:    %s\n", level)
	fmt.Fprintln(w)
}

// PrintEntries lists entries one per line, withdrawals included.
func PrintEntries(w io.Writer, entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No entries."))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-10s  %-12s %-5s %10s  fee %s  %s\n",
			e.Date, shortID(e.ID), e.Pair, e.Direction, Money(e.PnL), e.Fee.Abs().StringFixed(2), e.Notes)
	}
}

func shortID(full string) string {
	if len(full) <= 10 {
		return full
	}
	return full[:10]
}
