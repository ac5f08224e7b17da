package anova

import (
	"goanova/domain/effects"
	"goanova/internal/tensor"
)

// reduceNested iteratively collapses the leading nested dimensions of the
// cell-mean tensor. Each collapse yields one nested variance partition: the
// squared deviations of the current cell means from their means collapsed
// along the innermost axis, scaled by the replicate count accumulated so
// far, with df = (cells remaining after the collapse) * (collapsed size - 1).
//
// The returned factors are ordered finest (innermost) first. The deflated
// tensor and the grown effective replicate count feed the crossed-factor
// enumeration.
func reduceNested(cellMeans *tensor.Dense, rep int, count int, names []string) ([]effects.Factor, *tensor.Dense, int) {
	cur := cellMeans
	eff := rep
	factors := make([]effects.Factor, 0, count)
	for i := 0; i < count; i++ {
		collapsed := cur.CollapseMean(0)
		m := cur.Dim(0)
		ss := float64(eff) * sumSqDevAxis0(cur, collapsed)
		df := float64(collapsed.Size() * (m - 1))
		factors = append(factors, effects.NewFactor(names[i], ss, df))
		cur = collapsed
		eff *= m
	}
	return factors, cur, eff
}

// sumSqDevAxis0 sums the squared deviations of t from its axis-0 mean
// broadcast back along axis 0.
func sumSqDevAxis0(t, collapsed *tensor.Dense) float64 {
	n0 := t.Dim(0)
	means := collapsed.Data()
	sum := 0.0
	for i, v := range t.Data() {
		d := v - means[i/n0]
		sum += d * d
	}
	return sum
}
