package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformedAmount = errors.New("malformed amount")

// ParseAmount evaluates a sum of decimal terms such as "100+50-20" or
// "-12.5". Whitespace is ignored. Anything other than digits, one decimal
// point per term and +/- operators is rejected.
func ParseAmount(expr string) (decimal.Decimal, error) {
	s := strings.Join(strings.Fields(expr), "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}

	total := decimal.Zero
	sign := int64(1)
	i := 0
	for i < len(s) {
		// one operator between terms, or one leading sign
		start := i
		for i < len(s) && (s[i] == '+' || s[i] == '-') {
			if s[i] == '-' {
				sign = -sign
			}
			i++
		}
		if i-start > 1 {
			return decimal.Zero, fmt.Errorf("%w: %q: repeated operator", ErrMalformedAmount, expr)
		}

		j := i
		for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
			j++
		}
		if j == i {
			return decimal.Zero, fmt.Errorf("%w: %q: expected number at offset %d", ErrMalformedAmount, expr, i)
		}
		term, err := decimal.NewFromString(s[i:j])
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrMalformedAmount, expr, err)
		}
		total = total.Add(term.Mul(decimal.NewFromInt(sign)))

		sign = 1
		i = j
		if i < len(s) && s[i] != '+' && s[i] != '-' {
			return decimal.Zero, fmt.Errorf("%w: %q: unexpected %q", ErrMalformedAmount, expr, s[i])
		}
		if i == len(s)-1 {
			return decimal.Zero, fmt.Errorf("%w: %q: trailing operator", ErrMalformedAmount, expr)
		}
	}
	return total, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
