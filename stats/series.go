package stats

import (
	"iter"
	"slices"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/shopspring/decimal"
)

// LabelLayout renders chart axis labels, e.g. "Dec 2".
const LabelLayout = "Jan 2"

// EquityPoint is one step of the cumulative P&L curve. Index is 1-based.
type EquityPoint struct {
	Index      int             `json:"index"`
	Date       string          `json:"date"`
	Label      string          `json:"label"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// TradePoint is one bar of the per-trade P&L chart. Index is 1-based.
type TradePoint struct {
	Index  int             `json:"index"`
	NetPnL decimal.Decimal `json:"pnl"`
	Pair   string          `json:"pair"`
	Date   string          `json:"date"`
	Label  string          `json:"label"`
}

// chronological returns a copy of entries stably sorted by date. Entries that
// share a date keep their relative input order.
func chronological(entries []ledger.Entry) []ledger.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b ledger.Entry) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return sorted
}

func label(date string) string {
	t, err := ledger.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format(LabelLayout)
}

// Cumulative yields the running net P&L in date order. The sequence is lazy
// and may be ranged over any number of times; each pass sorts a fresh copy of
// entries.
func Cumulative(entries []ledger.Entry) iter.Seq[EquityPoint] {
	return func(yield func(EquityPoint) bool) {
		sum := decimal.Zero
		for i, e := range chronological(entries) {
			sum = sum.Add(rawNet(e))
			p := EquityPoint{Index: i + 1, Date: e.Date, Label: label(e.Date), Cumulative: sum}
			if !yield(p) {
				return
			}
		}
	}
}

// Trades yields each trade's net P&L in the same order as Cumulative.
func Trades(entries []ledger.Entry) iter.Seq[TradePoint] {
	return func(yield func(TradePoint) bool) {
		for i, e := range chronological(entries) {
			p := TradePoint{Index: i + 1, NetPnL: rawNet(e), Pair: e.Pair, Date: e.Date, Label: label(e.Date)}
			if !yield(p) {
				return
			}
		}
	}
}
