package ledger

import "github.com/shopspring/decimal"

// Partition splits the entries dated exactly date into trades and withdrawals.
// Input order is preserved in both outputs.
func Partition(entries []Entry, date string) (trades, withdrawals []Entry) {
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		if e.IsWithdrawal() {
			withdrawals = append(withdrawals, e)
		} else {
			trades = append(trades, e)
		}
	}
	return trades, withdrawals
}

// ActualTrades drops withdrawals from the whole ledger.
func ActualTrades(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsWithdrawal() {
			out = append(out, e)
		}
	}
	return out
}

// Withdrawals returns only the withdrawal entries.
func Withdrawals(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.IsWithdrawal() {
			out = append(out, e)
		}
	}
	return out
}

// CurrentBalance is the beginning balance plus the net P&L of every entry,
// withdrawals included.
func CurrentBalance(beginning decimal.Decimal, entries []Entry) decimal.Decimal {
	bal := beginning
	for _, e := range entries {
		bal = bal.Add(e.NetPnL())
	}
	return bal
}

// ReferenceBalance is the balance at the start of date: the beginning balance
// plus the net P&L of every entry dated strictly earlier. ISO dates compare
// correctly as strings.
func ReferenceBalance(beginning decimal.Decimal, entries []Entry, date string) decimal.Decimal {
	bal := beginning
	for _, e := range entries {
		if e.Date < date {
			bal = bal.Add(e.NetPnL())
		}
	}
	return bal
}

// TotalWithdrawn sums the withdrawn amounts as a positive number.
func TotalWithdrawn(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.IsWithdrawal() {
			total = total.Add(e.PnL.Abs())
		}
	}
	return total
}
