// Package challenge tracks progress toward a target balance by a deadline and
// back-solves the compound daily growth needed to get there.
package challenge

import (
	"math"
	"time"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/pkg/ratio"
	"github.com/shopspring/decimal"
)

type State int

const (
	Disabled State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "disabled"
}

// Settings is the persisted challenge configuration. StartDate and
// StartingBalance are a snapshot taken when the challenge is switched on and
// are left alone for as long as it stays on.
type Settings struct {
	Enabled         bool            `yaml:"enabled" json:"enabled"`
	TargetBalance   decimal.Decimal `yaml:"target_balance" json:"target_balance"`
	DurationDays    int             `yaml:"duration_days" json:"duration_days"`
	StartDate       string          `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	StartingBalance decimal.Decimal `yaml:"starting_balance" json:"starting_balance"`
}

func (s Settings) State() State {
	if s.Enabled {
		return Active
	}
	return Disabled
}

// Enable switches the challenge on. Only the Disabled to Active transition
// snapshots today and balance; enabling an active challenge is a no-op.
func Enable(s Settings, today time.Time, balance decimal.Decimal) Settings {
	if s.State() == Active {
		return s
	}
	s.Enabled = true
	s.StartDate = ledger.FormatDate(today)
	s.StartingBalance = balance
	return s
}

// Disable switches the challenge off. The snapshot fields are kept so the
// last run can still be shown.
func Disable(s Settings) Settings {
	s.Enabled = false
	return s
}

// Progress is derived on every call and never persisted. RequiredDailyR is a
// percentage of balance per day.
type Progress struct {
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	TargetBalance   decimal.Decimal `json:"target_balance"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	StartDate       string          `json:"start_date"`
	DaysElapsed     int             `json:"days_elapsed"`
	DaysRemaining   int             `json:"days_remaining"`
	RequiredDailyR  ratio.Ratio     `json:"required_daily_r"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	PercentComplete float64         `json:"percent_complete"`
}

// Compute returns nil when the challenge is disabled or has no usable start
// date.
//
// A non-positive current balance with days left makes the growth formula
// meaningless; it yields an Unbounded requirement classified Aggressive.
func Compute(s Settings, currentBalance decimal.Decimal, today time.Time) *Progress {
	if s.State() != Active || s.StartDate == "" {
		return nil
	}
	start, err := ledger.ParseDate(s.StartDate)
	if err != nil {
		return nil
	}

	elapsed := daysBetween(start, today)
	remaining := max(0, s.DurationDays-elapsed)

	p := &Progress{
		CurrentBalance:  currentBalance,
		TargetBalance:   s.TargetBalance,
		StartingBalance: s.StartingBalance,
		StartDate:       s.StartDate,
		DaysElapsed:     elapsed,
		DaysRemaining:   remaining,
		PercentComplete: percentComplete(currentBalance, s.TargetBalance),
	}
	p.RequiredDailyR = RequiredDailyR(currentBalance, s.TargetBalance, remaining)
	p.RiskLevel = Classify(p.RequiredDailyR, currentBalance)
	return p
}

// RequiredDailyR is the compound daily growth, in percent, that takes
// current to target over days. With no days left nothing more is required.
func RequiredDailyR(current, target decimal.Decimal, days int) ratio.Ratio {
	if days <= 0 {
		return ratio.Finite(0)
	}
	if !current.IsPositive() {
		return ratio.Unbounded()
	}

	growth := target.InexactFloat64() / current.InexactFloat64()
	if growth <= 0 {
		// the whole balance could go and still meet the target
		return ratio.Finite(-100)
	}
	mult := math.Pow(growth, 1/float64(days))
	if math.IsInf(mult, 0) || math.IsNaN(mult) {
		return ratio.Unbounded()
	}
	return ratio.Finite((mult - 1) * 100)
}

// daysBetween counts whole calendar days from start to today, ignoring time of
// day and zone offsets.
func daysBetween(start, today time.Time) int {
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

func percentComplete(current, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	pct := current.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	return math.Min(pct, 100)
}
