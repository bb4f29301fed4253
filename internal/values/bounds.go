package values

import (
	"fmt"
	"math"
)

// Tolerance for floating point comparisons on probability values.
const epsilon = 1e-10

// #region bounds-type

// Bounds is an interval [Lower, Upper] bracketing the true reachability
// probability of a state. Immutable; every narrowing produces a new value.
type Bounds struct {
	Lower float64
	Upper float64
}

// #endregion bounds-type

// #region constructors

// New constructs a Bounds value. Lower must not exceed Upper and both must
// lie in [0, 1]; a violation is an implementation defect and panics.
func New(lower, upper float64) Bounds {
	if lower > upper+epsilon {
		panic(fmt.Sprintf("bounds invariant violated: lower %.10g > upper %.10g", lower, upper))
	}
	if lower < -epsilon || upper > 1.0+epsilon {
		panic(fmt.Sprintf("bounds out of [0,1]: [%.10g, %.10g]", lower, upper))
	}
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}
	if lower > upper {
		lower = upper
	}
	return Bounds{Lower: lower, Upper: upper}
}

// ReachOne is the sentinel for certain reachability.
func ReachOne() Bounds { return Bounds{Lower: 1, Upper: 1} }

// ReachZero is the sentinel for certain non-reachability.
func ReachZero() Bounds { return Bounds{Lower: 0, Upper: 0} }

// Unknown is the fully uninformative interval [0, 1].
func Unknown() Bounds { return Bounds{Lower: 0, Upper: 1} }

// #endregion constructors

// #region queries

// Difference returns the remaining uncertainty Upper - Lower.
func (b Bounds) Difference() float64 {
	return b.Upper - b.Lower
}

// Contains reports whether other is nested inside (or equal to) b.
func (b Bounds) Contains(other Bounds) bool {
	return other.Lower >= b.Lower-epsilon && other.Upper <= b.Upper+epsilon
}

// Average returns the midpoint of the interval, used as the point estimate
// when interpreting a finished analysis.
func (b Bounds) Average() float64 {
	return (b.Lower + b.Upper) / 2
}

// Equal reports approximate equality of both endpoints.
func (b Bounds) Equal(other Bounds) bool {
	return math.Abs(b.Lower-other.Lower) < epsilon && math.Abs(b.Upper-other.Upper) < epsilon
}

// IsOne reports whether the interval is the certain-reach sentinel.
func (b Bounds) IsOne() bool { return b.Lower >= 1-epsilon }

// IsZero reports whether the interval is the certain-non-reach sentinel.
func (b Bounds) IsZero() bool { return b.Upper <= epsilon }

func (b Bounds) String() string {
	return fmt.Sprintf("[%.5g, %.5g]", b.Lower, b.Upper)
}

// #endregion queries

// #region float-helpers

// IsApproxOne reports whether v is 1 up to the package tolerance.
func IsApproxOne(v float64) bool { return v >= 1-epsilon }

// IsApproxZero reports whether v is 0 up to the package tolerance.
func IsApproxZero(v float64) bool { return math.Abs(v) < epsilon }

// #endregion float-helpers
