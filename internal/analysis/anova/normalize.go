package anova

import (
	"sort"

	"goanova/internal/errors"
	"goanova/internal/tensor"
)

// canonical lifts an observation tensor into the canonical
// replicate-augmented form: dimension 0 always holds replicates (size 1 when
// the design carries no repeated measurements) and every later dimension
// indexes one factor's levels, least significant first.
func canonical(t *tensor.Dense, noReplicates bool) (*tensor.Dense, int, error) {
	if noReplicates {
		shape := append([]int{1}, t.Shape()...)
		c, err := tensor.New(shape, t.Data())
		if err != nil {
			return nil, 0, errors.Wrap(err, "canonicalizing observations")
		}
		return c, 1, nil
	}
	if t.Rank() < 2 {
		return nil, 0, errors.InvalidInput("replicated observations require at least one factor dimension beyond the replicate axis")
	}
	return t, t.Dim(0), nil
}

// fromCells assembles the canonical tensor from one replicate vector per
// cell. shape lists the factor dimensions least significant first and cells
// must follow the same flat ordering (dimension 0 fastest).
func fromCells(cells [][]float64, shape []int) (*tensor.Dense, int, error) {
	size := 1
	for _, d := range shape {
		size *= d
	}
	if len(cells) != size {
		return nil, 0, errors.InvalidInput("cell count does not match factor dimensions")
	}
	if len(cells) == 0 {
		return nil, 0, errors.InvalidInput("no cells supplied")
	}
	rep := len(cells[0])
	if rep == 0 {
		return nil, 0, errors.BalanceError("empty replicate vector in cell 0")
	}
	for i, cell := range cells {
		if len(cell) != rep {
			return nil, 0, errors.BalanceError("cell %d holds %d replicates, expected %d", i, len(cell), rep)
		}
	}
	data := make([]float64, rep*len(cells))
	for ci, cell := range cells {
		for ri, v := range cell {
			data[ri+rep*ci] = v
		}
	}
	c, err := tensor.New(append([]int{rep}, shape...), data)
	if err != nil {
		return nil, 0, errors.Wrap(err, "canonicalizing cell observations")
	}
	return c, rep, nil
}

// fromObservations canonicalizes the flat input form: a vector of scalar
// observations plus one level-assignment vector per factor. Levels need not
// be contiguous or sorted; they are remapped to consecutive indexes. The
// observations are stable-sorted into factor-major, replicate-minor order,
// so replicates within a cell keep their original relative order.
func fromObservations(obs []float64, assignments [][]float64) (*tensor.Dense, int, error) {
	if len(obs) == 0 {
		return nil, 0, errors.InvalidInput("no observations supplied")
	}
	if len(assignments) == 0 {
		return nil, 0, errors.InvalidInput("at least one factor assignment vector is required")
	}
	for i, a := range assignments {
		if len(a) != len(obs) {
			return nil, 0, errors.BalanceError("factor %d assignment length %d does not match %d observations", i, len(a), len(obs))
		}
	}

	// Remap each factor's arbitrary level labels onto 0..k-1 by sorted order.
	n := len(obs)
	levels := make([][]int, len(assignments)) // per-observation level index
	shape := make([]int, len(assignments))
	for f, a := range assignments {
		distinct := distinctSorted(a)
		index := make(map[float64]int, len(distinct))
		for i, v := range distinct {
			index[v] = i
		}
		levels[f] = make([]int, n)
		for i, v := range a {
			levels[f][i] = index[v]
		}
		shape[f] = len(distinct)
	}

	cellCount := 1
	for _, k := range shape {
		cellCount *= k
	}
	if n%cellCount != 0 {
		return nil, 0, errors.BalanceError("%d observations are not divisible by %d factor-level combinations", n, cellCount)
	}
	rep := n / cellCount

	// Balance: every cell must carry exactly rep observations. A missing
	// (factor, level) combination shows up here as a zero count.
	strides := make([]int, len(shape))
	stride := 1
	for f, k := range shape {
		strides[f] = stride
		stride *= k
	}
	counts := make([]int, cellCount)
	for i := 0; i < n; i++ {
		cell := 0
		for f := range shape {
			cell += levels[f][i] * strides[f]
		}
		counts[cell]++
	}
	for cell, count := range counts {
		if count != rep {
			return nil, 0, errors.BalanceError("unbalanced design: cell %d holds %d observations, expected %d", cell, count, rep)
		}
	}

	// Stable sort into canonical order: most significant factor outermost,
	// replicates fastest.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for f := len(shape) - 1; f >= 0; f-- {
			la, lb := levels[f][order[a]], levels[f][order[b]]
			if la != lb {
				return la < lb
			}
		}
		return false
	})
	data := make([]float64, n)
	for i, idx := range order {
		data[i] = obs[idx]
	}

	c, err := tensor.New(append([]int{rep}, shape...), data)
	if err != nil {
		return nil, 0, errors.Wrap(err, "canonicalizing flat observations")
	}
	return c, rep, nil
}

func distinctSorted(values []float64) []float64 {
	seen := make(map[float64]bool, len(values))
	var out []float64
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
