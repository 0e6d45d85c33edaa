// Package stats computes full-history trading statistics.
//
// Compute treats every entry it is given as a trade. Callers that want
// withdrawals out of the numbers filter them first (ledger.ActualTrades).
package stats

import (
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/pkg/ratio"
	"github.com/shopspring/decimal"
)

// NotAvailable labels categorical results that have no data behind them.
const NotAvailable = "N/A"

type BiasLabel string

const (
	BiasLong    BiasLabel = "Long"
	BiasShort   BiasLabel = "Short"
	BiasNeutral BiasLabel = "Neutral"
)

type Bias struct {
	Long  int       `json:"long"`
	Short int       `json:"short"`
	Label BiasLabel `json:"bias"`
}

// PairStat accumulates one instrument's activity. PnL is net of raw fee;
// MinLoss is the most negative single pnl seen (never above zero).
type PairStat struct {
	Pair    string          `json:"pair"`
	Count   int             `json:"count"`
	PnL     decimal.Decimal `json:"pnl"`
	MinLoss decimal.Decimal `json:"min_loss"`
}

// SymbolPerformance splits a pair's gross P&L into winning and losing buckets.
// LossPnL is a magnitude.
type SymbolPerformance struct {
	Pair    string          `json:"pair"`
	Wins    int             `json:"wins"`
	Losses  int             `json:"losses"`
	WinPnL  decimal.Decimal `json:"win_pnl"`
	LossPnL decimal.Decimal `json:"loss_pnl"`
}

// Report is the statistics bundle for a ledger.
type Report struct {
	TotalTrades int `json:"total_trades"`
	WinCount    int `json:"win_count"`
	LossCount   int `json:"loss_count"`

	NetPnL  decimal.Decimal `json:"net_pnl"`
	WinRate decimal.Decimal `json:"win_rate"`

	ProfitFactor  ratio.Ratio `json:"profit_factor"`
	AvgRiskReward ratio.Ratio `json:"avg_risk_reward"`

	AvgWin      decimal.Decimal `json:"avg_win"`
	AvgLoss     decimal.Decimal `json:"avg_loss"`
	LargestWin  decimal.Decimal `json:"largest_win"`
	LargestLoss decimal.Decimal `json:"largest_loss"`
	MaxDrawdown decimal.Decimal `json:"max_drawdown"`

	Bias Bias `json:"trade_bias"`

	MostTradedPair     string `json:"most_traded_pair"`
	MostProfitablePair string `json:"most_profitable_pair"`
	LargestLossPair    string `json:"largest_loss_pair"`

	Pairs   []PairStat          `json:"pairs"`
	Symbols []SymbolPerformance `json:"performance_by_symbol"`
}

func empty() Report {
	return Report{
		NetPnL:             decimal.Zero,
		WinRate:            decimal.Zero,
		ProfitFactor:       ratio.Undefined(),
		AvgRiskReward:      ratio.Undefined(),
		AvgWin:             decimal.Zero,
		AvgLoss:            decimal.Zero,
		LargestWin:         decimal.Zero,
		LargestLoss:        decimal.Zero,
		MaxDrawdown:        decimal.Zero,
		Bias:               Bias{Label: BiasNeutral},
		MostTradedPair:     NotAvailable,
		MostProfitablePair: NotAvailable,
		LargestLossPair:    NotAvailable,
		Pairs:              []PairStat{},
		Symbols:            []SymbolPerformance{},
	}
}

// Compute builds the statistics report. It never fails: an empty ledger
// yields zeros and NotAvailable labels.
//
// NetPnL and the pair P&L subtract the raw fee, unlike the day and month
// aggregates which subtract its absolute value.
func Compute(entries []ledger.Entry) Report {
	r := empty()
	if len(entries) == 0 {
		return r
	}

	r.TotalTrades = len(entries)
	totalWins := decimal.Zero
	totalLosses := decimal.Zero // magnitude
	r.LargestWin = entries[0].PnL
	r.LargestLoss = entries[0].PnL

	pairIdx := make(map[string]int)
	symIdx := make(map[string]int)

	for _, e := range entries {
		r.NetPnL = r.NetPnL.Add(rawNet(e))

		switch {
		case e.PnL.IsPositive():
			r.WinCount++
			totalWins = totalWins.Add(e.PnL)
		case e.PnL.IsNegative():
			r.LossCount++
			totalLosses = totalLosses.Add(e.PnL.Abs())
		}

		if e.PnL.GreaterThan(r.LargestWin) {
			r.LargestWin = e.PnL
		}
		if e.PnL.LessThan(r.LargestLoss) {
			r.LargestLoss = e.PnL
		}

		switch e.Direction {
		case ledger.Long:
			r.Bias.Long++
		case ledger.Short:
			r.Bias.Short++
		}

		i, ok := pairIdx[e.Pair]
		if !ok {
			i = len(r.Pairs)
			pairIdx[e.Pair] = i
			r.Pairs = append(r.Pairs, PairStat{Pair: e.Pair, PnL: decimal.Zero, MinLoss: decimal.Zero})
		}
		ps := &r.Pairs[i]
		ps.Count++
		ps.PnL = ps.PnL.Add(rawNet(e))
		ps.MinLoss = decimal.Min(ps.MinLoss, e.PnL)

		j, ok := symIdx[e.Pair]
		if !ok {
			j = len(r.Symbols)
			symIdx[e.Pair] = j
			r.Symbols = append(r.Symbols, SymbolPerformance{Pair: e.Pair, WinPnL: decimal.Zero, LossPnL: decimal.Zero})
		}
		sp := &r.Symbols[j]
		switch {
		case e.PnL.IsPositive():
			sp.Wins++
			sp.WinPnL = sp.WinPnL.Add(e.PnL)
		case e.PnL.IsNegative():
			sp.Losses++
			sp.LossPnL = sp.LossPnL.Add(e.PnL.Abs())
		}
	}

	r.WinRate = decimal.NewFromInt(int64(r.WinCount)).
		Div(decimal.NewFromInt(int64(r.TotalTrades))).
		Mul(decimal.NewFromInt(100))

	r.ProfitFactor = ratio.Of(totalWins.InexactFloat64(), totalLosses.InexactFloat64())

	if r.WinCount > 0 {
		r.AvgWin = totalWins.Div(decimal.NewFromInt(int64(r.WinCount)))
	}
	if r.LossCount > 0 {
		r.AvgLoss = totalLosses.Div(decimal.NewFromInt(int64(r.LossCount)))
	}
	r.AvgRiskReward = ratio.Of(r.AvgWin.InexactFloat64(), r.AvgLoss.InexactFloat64())

	switch {
	case r.Bias.Long > r.Bias.Short:
		r.Bias.Label = BiasLong
	case r.Bias.Short > r.Bias.Long:
		r.Bias.Label = BiasShort
	}

	r.MostTradedPair = r.Pairs[argBest(r.Pairs, func(a, b PairStat) bool { return a.Count > b.Count })].Pair
	r.MostProfitablePair = r.Pairs[argBest(r.Pairs, func(a, b PairStat) bool { return a.PnL.GreaterThan(b.PnL) })].Pair
	r.LargestLossPair = r.Pairs[argBest(r.Pairs, func(a, b PairStat) bool { return a.MinLoss.LessThan(b.MinLoss) })].Pair

	r.MaxDrawdown = maxDrawdown(entries)
	return r
}

// argBest returns the index of the first element no other element beats.
// Ties keep the earliest pair.
func argBest(ps []PairStat, better func(a, b PairStat) bool) int {
	best := 0
	for i := 1; i < len(ps); i++ {
		if better(ps[i], ps[best]) {
			best = i
		}
	}
	return best
}

func rawNet(e ledger.Entry) decimal.Decimal {
	return e.PnL.Sub(e.Fee)
}

// maxDrawdown is the deepest peak-to-trough fall of the cumulative curve,
// measured from a starting equity of zero.
func maxDrawdown(entries []ledger.Entry) decimal.Decimal {
	peak := decimal.Zero
	dd := decimal.Zero
	for p := range Cumulative(entries) {
		if p.Cumulative.GreaterThan(peak) {
			peak = p.Cumulative
		}
		if fall := peak.Sub(p.Cumulative); fall.GreaterThan(dd) {
			dd = fall
		}
	}
	return dd
}
