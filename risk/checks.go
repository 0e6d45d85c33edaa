package risk

import "fmt"

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

// Decision records which daily limits a DayResult has reached.
type Decision struct {
	TargetHit  bool        `json:"target_hit"`
	SLBreached bool        `json:"sl_breached"`
	Violations []Violation `json:"violations"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
}

// Stop reports whether the trader should stop for the day.
func (d Decision) Stop() bool {
	return d.TargetHit || d.SLBreached
}

// Evaluate checks a day's net P&L against its target and stop-loss budget.
// Reaching the target exactly counts as hit; losing the full SL budget
// counts as breached.
func Evaluate(res DayResult) Decision {
	var d Decision

	if res.Budget.Degenerate {
		d.add("DEGENERATE_BALANCE",
			fmt.Sprintf("reference balance %s is not positive; R is undefined", res.Budget.Reference.StringFixed(2)))
		return d
	}

	pnl := res.Aggregate.TotalPnL
	if res.Budget.TargetAmount.IsPositive() && pnl.GreaterThanOrEqual(res.Budget.TargetAmount) {
		d.TargetHit = true
		d.add("DAILY_TARGET_HIT",
			fmt.Sprintf("day P/L %s reached target %s (%sR)",
				pnl.StringFixed(2), res.Budget.TargetAmount.StringFixed(2), res.TotalR.StringFixed(2)))
	}
	if res.Budget.SLAmount.IsPositive() && pnl.LessThanOrEqual(res.Budget.SLAmount.Neg()) {
		d.SLBreached = true
		d.add("SL_BUDGET_BREACHED",
			fmt.Sprintf("day P/L %s exhausted stop-loss budget %s (%sR)",
				pnl.StringFixed(2), res.Budget.SLAmount.StringFixed(2), res.TotalR.StringFixed(2)))
	}
	return d
}
