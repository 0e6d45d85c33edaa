package report

import (
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/sltp/aggregate"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/stats"
	"github.com/shopspring/decimal"
)

// MonthReview is everything the monthly Org write-up shows.
type MonthReview struct {
	Year    int
	Month   time.Month
	Created time.Time

	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal
	Withdrawn    decimal.Decimal

	Aggregate aggregate.MonthAggregate
	Stats     stats.Report

	Notes       []string
	NextActions []string
}

// NewMonthReview assembles a review of year/month from the full ledger.
// Balances run from the start of the month's first day to the end of its
// last day and include withdrawals.
func NewMonthReview(entries []ledger.Entry, beginning decimal.Decimal, year int, month time.Month, created time.Time) MonthReview {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := ledger.FormatDate(first)
	to := ledger.FormatDate(first.AddDate(0, 1, 0))

	var inMonth []ledger.Entry
	for _, e := range entries {
		if e.Date >= from && e.Date < to {
			inMonth = append(inMonth, e)
		}
	}

	return MonthReview{
		Year:         year,
		Month:        month,
		Created:      created,
		StartBalance: ledger.ReferenceBalance(beginning, entries, from),
		EndBalance:   ledger.ReferenceBalance(beginning, entries, to),
		Withdrawn:    ledger.TotalWithdrawn(inMonth),
		Aggregate:    aggregate.Month(entries, year, month),
		Stats:        stats.Compute(ledger.ActualTrades(inMonth)),
	}
}

var orgFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var monthOrg = template.Must(template.New("month").Funcs(orgFuncs).Parse(MonthOrgTemplate))

// WriteMonthOrg renders r as an Org-mode heading with a properties drawer.
func WriteMonthOrg(w io.Writer, r MonthReview) error {
	return monthOrg.Execute(w, r)
}

const MonthOrgTemplate = `* REVIEW: {{.Month}} {{.Year}}
:PROPERTIES:
:YEAR:        {{.Year}}
:MONTH:       {{printf "%02d" .Month}}
:START_BAL:   {{money .StartBalance}}
:END_BAL:     {{money .EndBalance}}
:WITHDRAWN:   {{money .Withdrawn}}
:NET_PL:      {{money .Aggregate.MonthlyPL}}
:FEES:        {{money .Aggregate.MonthlyFees}}
:FEES_PCT:    {{money .Aggregate.FeesPercent}}
:EV:          {{money .Aggregate.MonthlyEV}}
:TRADES:      {{.Aggregate.TotalTrades}}
:WINS:        {{.Aggregate.WinCount}}
:LOSSES:      {{.Aggregate.LossCount}}
:WIN_RATE:    {{money .Stats.WinRate}}
:PROFIT_FAC:  {{.Stats.ProfitFactor}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Aggregate.MonthlyPL}}*
- Win Rate:         *{{money .Stats.WinRate}}%*
- Profit Factor:    *{{.Stats.ProfitFactor}}*
- Avg R:R:          *{{.Stats.AvgRiskReward}}*
- Max Drawdown:     *{{money .Stats.MaxDrawdown}}*
- Bias:             *{{.Stats.Bias.Label}}*

{{- if .Stats.Pairs }}

** Pairs
| Pair | Trades | P/L |
|------+--------+-----|
{{- range .Stats.Pairs }}
| {{.Pair}} | {{.Count}} | {{money .PnL}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}

{{- if .NextActions }}

** Notes / Next Actions
{{- range .NextActions }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
