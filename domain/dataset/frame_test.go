package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "goanova/internal/errors"
)

func TestProjectEncodesLabels(t *testing.T) {
	frame := &Frame{
		Headers: []string{"Yield", "Treatment"},
		Rows: [][]string{
			{"1.5", "low"},
			{"2.5", "high"},
			{"3.5", "low"},
		},
	}

	obs, assignments, err := frame.Project("Yield", []string{"Treatment"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1.5, 2.5, 3.5}, obs)
	require.Len(t, assignments, 1)
	// labels get codes by sorted order: high=0, low=1
	assert.Equal(t, []float64{1, 0, 1}, assignments[0])
}

func TestProjectNumericFactorPassthrough(t *testing.T) {
	frame := &Frame{
		Headers: []string{"Y", "Dose"},
		Rows:    [][]string{{"1", "10"}, {"2", "30"}, {"3", "20"}},
	}

	_, assignments, err := frame.Project("Y", []string{"Dose"})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30, 20}, assignments[0])
}

func TestProjectDropsIncompleteRows(t *testing.T) {
	frame := &Frame{
		Headers: []string{"Y", "A"},
		Rows: [][]string{
			{"1", "x"},
			{"", "x"},
			{"3", ""},
			{"4", "y"},
		},
	}

	obs, assignments, err := frame.Project("Y", []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, obs)
	assert.Len(t, assignments[0], 2)
}

func TestProjectUnknownColumn(t *testing.T) {
	frame := &Frame{Headers: []string{"Y"}, Rows: [][]string{{"1"}}}

	_, _, err := frame.Project("Z", []string{"Y"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))

	_, _, err = frame.Project("Y", []string{"Z"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestProjectNonNumericObservation(t *testing.T) {
	frame := &Frame{
		Headers: []string{"Y", "A"},
		Rows:    [][]string{{"abc", "x"}},
	}

	_, _, err := frame.Project("Y", []string{"A"})
	assert.Equal(t, apperrors.CodeTypeError, apperrors.GetCode(err))
}

func TestColumnIsCaseInsensitive(t *testing.T) {
	frame := &Frame{Headers: []string{"Yield", "Treatment"}}
	assert.Equal(t, 0, frame.Column("yield"))
	assert.Equal(t, 1, frame.Column("TREATMENT"))
	assert.Equal(t, -1, frame.Column("missing"))
}
