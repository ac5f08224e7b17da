package anova

import (
	"sort"
	"strings"

	"goanova/domain/effects"
	"goanova/internal/tensor"
)

// crossedEffect is one main effect or interaction over the crossed
// dimensions of the deflated cell-mean tensor. dims holds the member
// dimension indices most significant first; mask is the same membership as
// a bit set for subset tests.
type crossedEffect struct {
	dims   []int
	mask   uint
	factor effects.Factor
}

// enumerate computes every main effect and interaction of the crossed
// dimensions. Subsets are generated size 1 upward over the reversed
// dimension list, so the most significant factor's main effect comes first
// and the full top-level interaction last; the error-assignment tables rely
// on this order.
//
// Each subset's sum of squares is totalObs times the uncorrected variance of
// the cell means collapsed onto the subset's dimensions, minus the sums of
// squares of all strict subsets already computed (inclusion-exclusion).
// Interaction df is the product of the member factors' main-effect df.
func enumerate(means *tensor.Dense, totalObs int, names []string) []*crossedEffect {
	k := means.Rank()
	rev := make([]int, k)
	for i := range rev {
		rev[i] = k - 1 - i
	}

	var out []*crossedEffect
	for size := 1; size <= k; size++ {
		for _, dims := range combinations(rev, size) {
			out = append(out, newCrossedEffect(means, totalObs, names, dims, out))
		}
	}
	return out
}

func newCrossedEffect(means *tensor.Dense, totalObs int, names []string, dims []int, prior []*crossedEffect) *crossedEffect {
	var mask uint
	for _, d := range dims {
		mask |= 1 << uint(d)
	}

	keep := make([]int, len(dims))
	copy(keep, dims)
	sort.Ints(keep)
	collapsed := means.MeanOver(keep)

	ss := float64(totalObs) * popVariance(collapsed.Data())
	for _, p := range prior {
		if p.mask != mask && p.mask&mask == p.mask {
			ss -= p.factor.SS
		}
	}

	df := 1.0
	for _, d := range dims {
		df *= float64(means.Dim(d) - 1)
	}

	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = names[d]
	}
	name := strings.Join(parts, " × ")

	return &crossedEffect{dims: dims, mask: mask, factor: effects.NewFactor(name, ss, df)}
}

// combinations returns all size-r subsets of items, preserving item order
// within each subset and generating in lexicographic order over items.
func combinations(items []int, r int) [][]int {
	var out [][]int
	var build func(start int, cur []int)
	build = func(start int, cur []int) {
		if len(cur) == r {
			subset := make([]int, r)
			copy(subset, cur)
			out = append(out, subset)
			return
		}
		for i := start; i <= len(items)-(r-len(cur)); i++ {
			build(i+1, append(cur, items[i]))
		}
	}
	build(0, nil)
	return out
}
