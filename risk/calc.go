package risk

import "github.com/shopspring/decimal"

// UnitPct is the fraction of the reference balance that makes up one R.
var UnitPct = decimal.RequireFromString("0.01")

// Unit returns one risk unit for reference balance b. ok is false when b is
// not positive, in which case R is degenerate and reported as zero.
func Unit(b decimal.Decimal) (r decimal.Decimal, ok bool) {
	if !b.IsPositive() {
		return decimal.Zero, false
	}
	return b.Mul(UnitPct), true
}

// ToR expresses dollar amount x in risk units of reference balance b.
// ok is false (and the result zero) when b is not positive.
func ToR(x, b decimal.Decimal) (decimal.Decimal, bool) {
	r, ok := Unit(b)
	if !ok {
		return decimal.Zero, false
	}
	return x.Div(r), true
}

// FromR converts n risk units back into dollars at reference balance b.
func FromR(n, b decimal.Decimal) decimal.Decimal {
	r, _ := Unit(b)
	return r.Mul(n)
}
