package anova

import (
	"goanova/domain/effects"
)

// threewayRandomError synthesizes a Satterthwaite pseudo mean-square from
// two pairwise interactions sharing a factor and the three-way interaction:
//
//	ms = MS(ab) + MS(ac) - MS(abc)
//	df = ms^2 / (MS(ab)^2/DF(ab) + MS(ac)^2/DF(ac) + MS(abc)^2/DF(abc))
//
// The result is not a partition of the observed variance; its ss is
// back-filled as ms*df so it can flow through the F-test like any factor.
// It serves as the denominator whenever two random factors (or a nested
// plus random combination) leave a main effect without a directly observed
// error term.
func threewayRandomError(ab, ac, abc effects.Factor) effects.Factor {
	ms := ab.MS + ac.MS - abc.MS
	df := ms * ms / (ab.MS*ab.MS/ab.DF + ac.MS*ac.MS/ac.DF + abc.MS*abc.MS/abc.DF)
	name := ab.Name + " + " + ac.Name + " - " + abc.Name
	return effects.Factor{Value: effects.Value{Name: name, SS: ms * df, DF: df}, MS: ms}
}
