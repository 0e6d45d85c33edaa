package challenge

import (
	"github.com/rustyeddy/sltp/pkg/ratio"
	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	Conservative RiskLevel = "Conservative"
	Moderate     RiskLevel = "Moderate"
	Aggressive   RiskLevel = "Aggressive"
)

// Tier holds the thresholds for balances below Below. The last tier has a
// zero Below and catches everything else.
type Tier struct {
	Below      decimal.Decimal
	Aggressive float64
	Moderate   float64
}

// Tiers lets smaller accounts tolerate a higher daily requirement before it
// is flagged.
var Tiers = []Tier{
	{Below: decimal.NewFromInt(5000), Aggressive: 2, Moderate: 1},
	{Below: decimal.NewFromInt(10000), Aggressive: 1.5, Moderate: 0.75},
	{Below: decimal.NewFromInt(25000), Aggressive: 1, Moderate: 0.5},
	{Below: decimal.NewFromInt(50000), Aggressive: 0.75, Moderate: 0.4},
	{Aggressive: 0.5, Moderate: 0.25},
}

// TierFor returns the thresholds that apply to balance.
func TierFor(balance decimal.Decimal) Tier {
	for _, t := range Tiers[:len(Tiers)-1] {
		if balance.LessThan(t.Below) {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// Classify grades a required daily growth percentage. Both comparisons are
// strict: sitting exactly on a threshold stays in the lower level.
func Classify(required ratio.Ratio, balance decimal.Decimal) RiskLevel {
	switch required.Kind {
	case ratio.KindUnbounded:
		return Aggressive
	case ratio.KindUndefined:
		return Conservative
	}

	t := TierFor(balance)
	r := required.Value()
	switch {
	case r > t.Aggressive:
		return Aggressive
	case r > t.Moderate:
		return Moderate
	}
	return Conservative
}
