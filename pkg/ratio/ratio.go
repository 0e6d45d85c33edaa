// Package ratio models numeric results that are not always finite numbers.
//
// Profit factor, average risk:reward and the challenge's required daily growth
// can all be "infinitely good" (no losses, balance gone) or simply undefined
// (nothing to divide). Callers switch on Kind instead of comparing against
// floating point infinities.
package ratio

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates a Ratio.
type Kind int

const (
	// KindUndefined means there was nothing to measure (e.g. no wins and no losses).
	KindUndefined Kind = iota
	// KindFinite carries an ordinary value.
	KindFinite
	// KindUnbounded means the denominator vanished while the numerator did not.
	KindUnbounded
)

func (k Kind) String() string {
	switch k {
	case KindFinite:
		return "finite"
	case KindUnbounded:
		return "unbounded"
	default:
		return "undefined"
	}
}

type Ratio struct {
	Kind  Kind
	value float64
}

func Finite(v float64) Ratio { return Ratio{Kind: KindFinite, value: v} }
func Unbounded() Ratio       { return Ratio{Kind: KindUnbounded} }
func Undefined() Ratio       { return Ratio{Kind: KindUndefined} }

// Of divides num by den following the journal's sentinel rules:
// den > 0 gives Finite, den == 0 with num > 0 gives Unbounded, otherwise Undefined.
func Of(num, den float64) Ratio {
	switch {
	case den > 0:
		return Finite(num / den)
	case num > 0:
		return Unbounded()
	default:
		return Undefined()
	}
}

func (r Ratio) IsFinite() bool    { return r.Kind == KindFinite }
func (r Ratio) IsUnbounded() bool { return r.Kind == KindUnbounded }
func (r Ratio) IsUndefined() bool { return r.Kind == KindUndefined }

// Value returns the finite value, or 0 for the other kinds.
func (r Ratio) Value() float64 {
	if r.Kind != KindFinite {
		return 0
	}
	return r.value
}

func (r Ratio) String() string {
	switch r.Kind {
	case KindFinite:
		return strconv.FormatFloat(r.value, 'f', 2, 64)
	case KindUnbounded:
		return "∞"
	default:
		return "N/A"
	}
}

// MarshalJSON encodes finite values as numbers, Unbounded as "unbounded"
// and Undefined as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindFinite:
		return json.Marshal(r.value)
	case KindUnbounded:
		return []byte(`"unbounded"`), nil
	default:
		return []byte("null"), nil
	}
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	s := string(b)
	switch s {
	case "null":
		*r = Undefined()
		return nil
	case `"unbounded"`:
		*r = Unbounded()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("ratio: invalid value %s", s)
	}
	*r = Finite(v)
	return nil
}
