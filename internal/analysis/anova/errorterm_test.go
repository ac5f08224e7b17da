package anova

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/domain/design"
	"goanova/domain/effects"
	"goanova/internal/tensor"
)

// threeWayEffects builds a realistic effect list for a 4x3x2 crossed layout
// so the assignment tables can be checked against denominator names.
func threeWayEffects(t *testing.T) []*crossedEffect {
	t.Helper()
	rng := rand.New(rand.NewSource(19))
	data := make([]float64, 2*3*4)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	means, err := tensor.New([]int{2, 3, 4}, data)
	require.NoError(t, err)
	// Dimension 2 is most significant: names C, B, A by dimension order.
	return enumerate(means, 48, []string{"C", "B", "A"})
}

func denominatorNames(t *testing.T, kinds []design.FactorKind) map[string]string {
	t.Helper()
	effs := threeWayEffects(t)
	errTerm := effects.NewFactor("Error", 12.0, 24)
	den, err := assignErrorTerms(kinds, effs, errTerm)
	require.NoError(t, err)

	out := make(map[string]string, len(effs))
	for _, e := range effs {
		out[e.factor.Name] = den[e.mask].Name
	}
	return out
}

func TestErrorTermsAllFixed(t *testing.T) {
	den := denominatorNames(t, []design.FactorKind{design.Fixed, design.Fixed, design.Fixed})
	for effect, d := range den {
		assert.Equal(t, "Error", d, effect)
	}
}

func TestErrorTermsOneRandom(t *testing.T) {
	// C random: fixed mains test against their interaction with C, the
	// fixed-fixed interaction against the three-way, everything touching C
	// against Error.
	den := denominatorNames(t, []design.FactorKind{design.Fixed, design.Fixed, design.Random})
	assert.Equal(t, "A × C", den["A"])
	assert.Equal(t, "B × C", den["B"])
	assert.Equal(t, "Error", den["C"])
	assert.Equal(t, "A × B × C", den["A × B"])
	assert.Equal(t, "Error", den["A × C"])
	assert.Equal(t, "Error", den["B × C"])
	assert.Equal(t, "Error", den["A × B × C"])

	// Same table with the random factor leading.
	den = denominatorNames(t, []design.FactorKind{design.Random, design.Fixed, design.Fixed})
	assert.Equal(t, "Error", den["A"])
	assert.Equal(t, "A × B", den["B"])
	assert.Equal(t, "A × C", den["C"])
	assert.Equal(t, "Error", den["A × B"])
	assert.Equal(t, "Error", den["A × C"])
	assert.Equal(t, "A × B × C", den["B × C"])
}

func TestErrorTermsTwoRandom(t *testing.T) {
	// B and C random: the fixed main has no directly observed error term
	// and pools a Satterthwaite pseudo mean-square; random mains test
	// against the random-random interaction.
	den := denominatorNames(t, []design.FactorKind{design.Fixed, design.Random, design.Random})
	assert.Equal(t, "A × B + A × C - A × B × C", den["A"])
	assert.Equal(t, "B × C", den["B"])
	assert.Equal(t, "B × C", den["C"])
	assert.Equal(t, "A × B × C", den["A × B"])
	assert.Equal(t, "A × B × C", den["A × C"])
	assert.Equal(t, "Error", den["B × C"])
	assert.Equal(t, "Error", den["A × B × C"])
}

func TestErrorTermsAllRandom(t *testing.T) {
	den := denominatorNames(t, []design.FactorKind{design.Random, design.Random, design.Random})
	assert.Equal(t, "A × B + A × C - A × B × C", den["A"])
	assert.Equal(t, "A × B + B × C - A × B × C", den["B"])
	assert.Equal(t, "A × C + B × C - A × B × C", den["C"])
	for _, pairName := range []string{"A × B", "A × C", "B × C"} {
		assert.Equal(t, "A × B × C", den[pairName])
	}
	assert.Equal(t, "Error", den["A × B × C"])
}

func TestErrorTermsTwoWay(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	data := make([]float64, 3*4)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	means, err := tensor.New([]int{3, 4}, data)
	require.NoError(t, err)
	effs := enumerate(means, 24, []string{"B", "A"})
	errTerm := effects.NewFactor("Error", 6.0, 12)

	den, err := assignErrorTerms([]design.FactorKind{design.Fixed, design.Random}, effs, errTerm)
	require.NoError(t, err)
	names := map[string]string{}
	for _, e := range effs {
		names[e.factor.Name] = den[e.mask].Name
	}
	assert.Equal(t, "A × B", names["A"]) // fixed tests against the interaction
	assert.Equal(t, "Error", names["B"]) // random tests against Error
	assert.Equal(t, "Error", names["A × B"])

	den, err = assignErrorTerms([]design.FactorKind{design.Random, design.Random}, effs, errTerm)
	require.NoError(t, err)
	for _, e := range effs {
		names[e.factor.Name] = den[e.mask].Name
	}
	assert.Equal(t, "A × B", names["A"])
	assert.Equal(t, "A × B", names["B"])
	assert.Equal(t, "Error", names["A × B"])
}

func TestSatterthwaitePseudoTerm(t *testing.T) {
	ab := effects.NewFactor("A × B", 24, 6)   // ms 4
	ac := effects.NewFactor("A × C", 18, 3)   // ms 6
	abc := effects.NewFactor("A × B × C", 12, 6) // ms 2

	pseudo := threewayRandomError(ab, ac, abc)

	// ms = 4 + 6 - 2 = 8; df = 64 / (16/6 + 36/3 + 4/6) = 64 / (46/3)
	assert.InDelta(t, 8.0, pseudo.MS, 1e-12)
	wantDF := 64.0 / (16.0/6 + 36.0/3 + 4.0/6)
	assert.InDelta(t, wantDF, pseudo.DF, 1e-12)
	assert.InDelta(t, pseudo.MS*pseudo.DF, pseudo.SS, 1e-12)
}
