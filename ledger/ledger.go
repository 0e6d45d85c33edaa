// Package ledger defines journal entries and the normalization rules every
// other analytics package builds on.
//
// An Entry is either a trade or, when its pair is the Withdrawal sentinel, a
// cash movement out of the account. Withdrawals count toward balances but never
// toward trading statistics.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal is the pair value that marks a non-trading cash movement.
const Withdrawal = "WITHDRAWAL"

// DateLayout is the ISO calendar-day layout used for Entry.Date.
const DateLayout = "2006-01-02"

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

func (d Direction) Valid() bool {
	return d == Long || d == Short
}

var ErrInvalidEntry = errors.New("invalid ledger entry")

// Entry is a single journal line. Date is the aggregation key and has no time
// component; two entries happen on the same day iff their Date strings match.
type Entry struct {
	ID        string          `json:"id" yaml:"id"`
	Pair      string          `json:"pair" yaml:"pair"`
	Direction Direction       `json:"direction" yaml:"direction"`
	PnL       decimal.Decimal `json:"pnl" yaml:"pnl"`
	Fee       decimal.Decimal `json:"fee" yaml:"fee"`
	Date      string          `json:"date" yaml:"date"`
	Notes     string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsWithdrawal reports whether e is a cash withdrawal rather than a trade.
func (e Entry) IsWithdrawal() bool {
	return e.Pair == Withdrawal
}

// NetPnL is PnL less the absolute fee. Historical data may carry negative
// fees, so the sign of Fee is ignored.
func (e Entry) NetPnL() decimal.Decimal {
	return e.PnL.Sub(e.Fee.Abs())
}

// Validate checks the fields the analytics packages assume are well-typed.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Pair) == "" {
		return fmt.Errorf("%w: pair is required", ErrInvalidEntry)
	}
	if !e.Direction.Valid() {
		return fmt.Errorf("%w: direction must be %q or %q, got %q", ErrInvalidEntry, Long, Short, e.Direction)
	}
	if _, err := ParseDate(e.Date); err != nil {
		return fmt.Errorf("%w: date %q: %v", ErrInvalidEntry, e.Date, err)
	}
	if e.IsWithdrawal() && e.PnL.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be recorded as a negative pnl", ErrInvalidEntry)
	}
	return nil
}

// NewWithdrawal builds a withdrawal entry for amount (sign ignored) on date.
func NewWithdrawal(amount decimal.Decimal, date, notes string) Entry {
	return Entry{
		Pair:      Withdrawal,
		Direction: Long,
		PnL:       amount.Abs().Neg(),
		Fee:       decimal.Zero,
		Date:      date,
		Notes:     notes,
	}
}

// ParseDate parses an ISO calendar day as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders the calendar day of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
