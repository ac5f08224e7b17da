package anova

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/internal/errors"
)

func TestFromObservationsRemapsLevels(t *testing.T) {
	// Levels 30/10/20 are neither sorted nor contiguous; they must map to
	// consecutive indexes by sorted order.
	obs := []float64{7, 1, 4, 8, 2, 5}
	levels := []float64{30, 10, 20, 30, 10, 20}

	c, rep, err := fromObservations(obs, [][]float64{levels})
	require.NoError(t, err)
	assert.Equal(t, 2, rep)
	assert.Equal(t, []int{2, 3}, c.Shape())

	// Cell order: level 10, 20, 30; replicates keep input order.
	assert.Equal(t, []float64{1, 2, 4, 5, 7, 8}, c.Data())
}

func TestFromObservationsNonDivisibleCount(t *testing.T) {
	obs := []float64{1, 2, 3, 4, 5}
	f0 := []float64{0, 0, 1, 1, 0}
	f1 := []float64{0, 1, 0, 1, 0}

	_, _, err := fromObservations(obs, [][]float64{f0, f1})
	require.Error(t, err)
	assert.Equal(t, errors.CodeBalanceError, errors.GetCode(err))
}

func TestFromObservationsUnevenCells(t *testing.T) {
	// Eight observations, divisible by four cells, but one cell holds three
	// replicates and another only one.
	obs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	f0 := []float64{0, 0, 0, 1, 0, 1, 1, 1}
	f1 := []float64{0, 0, 0, 0, 1, 1, 1, 0}

	_, _, err := fromObservations(obs, [][]float64{f0, f1})
	require.Error(t, err)
	assert.Equal(t, errors.CodeBalanceError, errors.GetCode(err))
}

func TestFromCellsUnequalReplicates(t *testing.T) {
	_, _, err := fromCells([][]float64{{1, 2}, {3}}, []int{2})
	require.Error(t, err)
	assert.Equal(t, errors.CodeBalanceError, errors.GetCode(err))
}

func TestCanonicalLiftsReplicateAxis(t *testing.T) {
	obs := mustTensor(t, []int{3, 2}, []float64{1, 2, 3, 4, 5, 6})

	c, rep, err := canonical(obs, true)
	require.NoError(t, err)
	assert.Equal(t, 1, rep)
	assert.Equal(t, []int{1, 3, 2}, c.Shape())

	c, rep, err = canonical(obs, false)
	require.NoError(t, err)
	assert.Equal(t, 3, rep)
	assert.Equal(t, []int{3, 2}, c.Shape())
}
