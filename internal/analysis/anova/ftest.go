package anova

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goanova/domain/effects"
)

// fTest combines a numerator effect with its assigned denominator:
// F = MS(num)/MS(den), p = upper tail of the F distribution with
// (num.DF, den.DF) degrees of freedom.
//
// Degenerate terms are legal here: a zero denominator mean square yields an
// infinite F, and zero or negative df leave the distribution undefined.
// distuv.F requires strictly positive df, so those cases short-circuit to a
// NaN p instead of reaching it. Callers treat non-finite results as
// documented outcomes, not errors.
func fTest(num, den effects.Factor) effects.Result {
	f := num.MS / den.MS
	if math.IsNaN(f) || !(num.DF > 0 && den.DF > 0) {
		return effects.Result{Factor: num, F: f, P: math.NaN()}
	}
	dist := distuv.F{D1: num.DF, D2: den.DF}
	return effects.Result{Factor: num, F: f, P: dist.Survival(f)}
}
