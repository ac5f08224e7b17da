package anova

import (
	"goanova/domain/design"
	"goanova/domain/effects"
	"goanova/internal/errors"
)

// assignErrorTerms selects the F-test denominator for every crossed effect
// in a fixed/random design. kinds are ordered most significant factor first,
// matching the enumeration order of effs. errTerm is the design's anchor
// error: total minus cells, or the coarsest nested factor when nesting is
// present.
//
// The mapping encodes the classical ANOVA error-term tables keyed by the
// pattern of factor kinds rather than re-deriving expected mean squares:
//
//	k=1           the sole factor tests against errTerm.
//	all fixed     every effect tests against errTerm (any k).
//	k=2 same kind both mains test against the interaction.
//	k=2 mixed     the fixed main tests against the interaction, the random
//	              main against errTerm.
//	k=3           mains test against errTerm, their interaction with the
//	              random factor, or a Satterthwaite pseudo mean-square when
//	              two or more random factors meet; pairwise interactions
//	              test against errTerm or the three-way interaction; the
//	              three-way interaction always tests against errTerm.
func assignErrorTerms(kinds []design.FactorKind, effs []*crossedEffect, errTerm effects.Factor) (map[uint]effects.Factor, error) {
	k := len(kinds)
	byMask := make(map[uint]*crossedEffect, len(effs))
	for _, e := range effs {
		byMask[e.mask] = e
	}
	// Factor position p (0 = most significant) occupies tensor dimension
	// k-1-p, so its membership bit is 1<<(k-1-p).
	bit := func(p int) uint { return 1 << uint(k-1-p) }
	pair := func(p, q int) effects.Factor { return byMask[bit(p)|bit(q)].factor }

	den := make(map[uint]effects.Factor, len(effs))

	allFixed := true
	var random []int
	for p, kind := range kinds {
		if kind != design.Fixed {
			allFixed = false
		}
		if kind == design.Random {
			random = append(random, p)
		}
	}

	switch {
	case k == 1:
		den[bit(0)] = errTerm
		return den, nil

	case allFixed:
		for _, e := range effs {
			den[e.mask] = errTerm
		}
		return den, nil

	case k == 2:
		interaction := pair(0, 1)
		if kinds[0] == kinds[1] {
			den[bit(0)] = interaction
			den[bit(1)] = interaction
		} else {
			for p := 0; p < 2; p++ {
				if kinds[p] == design.Fixed {
					den[bit(p)] = interaction
				} else {
					den[bit(p)] = errTerm
				}
			}
		}
		den[bit(0)|bit(1)] = errTerm
		return den, nil

	case k == 3:
		threeway := byMask[bit(0)|bit(1)|bit(2)].factor
		isRandom := func(p int) bool { return kinds[p] == design.Random }
		others := func(p int) (int, int) {
			switch p {
			case 0:
				return 1, 2
			case 1:
				return 0, 2
			default:
				return 0, 1
			}
		}

		switch len(random) {
		case 1:
			r := random[0]
			for p := 0; p < 3; p++ {
				if p == r {
					den[bit(p)] = errTerm
				} else {
					den[bit(p)] = pair(p, r)
				}
			}
			for p := 0; p < 3; p++ {
				for q := p + 1; q < 3; q++ {
					if p == r || q == r {
						den[bit(p)|bit(q)] = errTerm
					} else {
						den[bit(p)|bit(q)] = threeway
					}
				}
			}
		case 2, 3:
			for p := 0; p < 3; p++ {
				o1, o2 := others(p)
				if isRandom(o1) && isRandom(o2) {
					// No Error-anchored term exists for this main effect;
					// pool a pseudo denominator.
					den[bit(p)] = threewayRandomError(pair(p, o1), pair(p, o2), threeway)
				} else if isRandom(o1) {
					den[bit(p)] = pair(p, o1)
				} else {
					den[bit(p)] = pair(p, o2)
				}
			}
			for p := 0; p < 3; p++ {
				for q := p + 1; q < 3; q++ {
					if isRandom(p) && isRandom(q) && len(random) == 2 {
						den[bit(p)|bit(q)] = errTerm
					} else {
						den[bit(p)|bit(q)] = threeway
					}
				}
			}
		}
		den[bit(0)|bit(1)|bit(2)] = errTerm
		return den, nil
	}

	return nil, errors.UnsupportedDesign("no error-term table for %d crossed factors with non-fixed kinds", k)
}
