package anova

import (
	"github.com/montanaflynn/stats"

	"goanova/domain/effects"
	"goanova/internal/tensor"
)

// totalValue computes the total variance partition over every scalar
// observation: ss = (N-1) * sample variance, df = N-1.
func totalValue(c *tensor.Dense, name string) effects.Value {
	n := float64(c.Size())
	v, _ := stats.SampleVariance(c.Data())
	return effects.Value{Name: name, SS: v * (n - 1), DF: n - 1}
}

// cellsValue computes the between-cell partition from the cell-mean tensor:
// ss = rep * (cells-1) * sample variance of the cell means, df = cells-1.
func cellsValue(cellMeans *tensor.Dense, rep int, name string) effects.Value {
	cells := float64(cellMeans.Size())
	v, _ := stats.SampleVariance(cellMeans.Data())
	return effects.Value{Name: name, SS: float64(rep) * v * (cells - 1), DF: cells - 1}
}

// popVariance is the uncorrected (divide by n) variance used by the
// inclusion-exclusion decomposition.
func popVariance(data []float64) float64 {
	v, _ := stats.PopulationVariance(data)
	return v
}
