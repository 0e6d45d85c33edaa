package risk

import (
	"github.com/rustyeddy/sltp/aggregate"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/shopspring/decimal"
)

// Policy is the trader's daily plan, expressed in risk units.
type Policy struct {
	BeginningBalance decimal.Decimal
	DailyTargetR     decimal.Decimal // e.g. 2.0
	SLBudgetR        decimal.Decimal // e.g. 1.0
}

// Budget is a Policy priced in dollars for one reference balance.
type Budget struct {
	Reference    decimal.Decimal `json:"reference"`
	Unit         decimal.Decimal `json:"unit"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SLAmount     decimal.Decimal `json:"sl_amount"`
	Degenerate   bool            `json:"degenerate"`
}

// NewBudget prices targetR and slR at reference balance b.
func NewBudget(b, targetR, slR decimal.Decimal) Budget {
	r, ok := Unit(b)
	return Budget{
		Reference:    b,
		Unit:         r,
		TargetAmount: FromR(targetR, b),
		SLAmount:     FromR(slR, b),
		Degenerate:   !ok,
	}
}

// DayResult is a day's trading measured against the policy.
type DayResult struct {
	Budget    Budget                 `json:"budget"`
	Aggregate aggregate.DayAggregate `json:"aggregate"`
	TotalR    decimal.Decimal        `json:"total_r"`
}

// Day measures date's trades against p. The reference balance is the balance
// at the start of the day, so the day's own P&L never moves its R.
func (p Policy) Day(entries []ledger.Entry, date string) DayResult {
	ref := ledger.ReferenceBalance(p.BeginningBalance, entries, date)
	agg := aggregate.Day(entries, date)
	totalR, _ := ToR(agg.TotalPnL, ref)

	return DayResult{
		Budget:    NewBudget(ref, p.DailyTargetR, p.SLBudgetR),
		Aggregate: agg,
		TotalR:    totalR,
	}
}
