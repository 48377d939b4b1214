package media

import "fmt"

// Rational is a num/den fraction used for time bases and frame rates.
type Rational struct {
	Num int
	Den int
}

// NewRational is a convenience constructor.
func NewRational(num, den int) Rational { return Rational{Num: num, Den: den} }

// IsZero reports whether r carries no usable value.
func (r Rational) IsZero() bool { return r.Num == 0 || r.Den == 0 }

// Invert returns den/num. A zero rational inverts to itself.
func (r Rational) Invert() Rational {
	if r.IsZero() {
		return Rational{}
	}
	return Rational{Num: r.Den, Den: r.Num}
}

// Float64 returns the fraction as a float; zero when Den is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }
