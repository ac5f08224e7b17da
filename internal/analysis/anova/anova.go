// Package anova implements balanced N-way analysis of variance: variance
// decomposition over fixed, random, nested and repeated-measures designs,
// with error-term assignment and F-tests per effect.
package anova

import (
	"goanova/domain/design"
	"goanova/domain/effects"
	"goanova/internal/tensor"
)

// Options configures a single analysis. The zero value analyzes an all-fixed
// design with auto-generated factor names whose tensor carries a leading
// replicate axis.
type Options struct {
	// Kinds classifies each factor dimension, least significant first. A
	// leading Replicate entry marks dimension 0 as repeated measurements.
	// Empty means all fixed.
	Kinds []design.FactorKind
	// Names supplies factor names matching Kinds; empty auto-generates
	// single letters, most significant factor first alphabetically.
	Names []string
	// NoReplicates marks dimension 0 of the tensor form as a factor rather
	// than repeated measurements.
	NoReplicates bool
	// Labels overrides the fixed row names; zero value uses the defaults.
	Labels effects.Labels
}

func (o Options) labels() effects.Labels {
	if o.Labels == (effects.Labels{}) {
		return effects.DefaultLabels()
	}
	return o.Labels
}

// factorKinds strips a leading replicate pseudo-factor, which overrides
// NoReplicates when present.
func (o Options) factorKinds() ([]design.FactorKind, bool) {
	if len(o.Kinds) > 0 && o.Kinds[0] == design.Replicate {
		return o.Kinds[1:], true
	}
	return o.Kinds, !o.NoReplicates
}

// Anova analyzes an observation tensor. Unless opts says otherwise,
// dimension 0 holds replicate measurements and each later dimension indexes
// one factor's levels, least significant first. The returned table is
// ordered Total, crossed-factor results, nested results, Error/Remainder.
func Anova(t *tensor.Dense, opts Options) (*effects.Table, error) {
	kinds, hasReps := opts.factorKinds()
	c, rep, err := canonical(t, !hasReps)
	if err != nil {
		return nil, err
	}
	return run(c, rep, kinds, opts.Names, opts.labels())
}

// AnovaCells analyzes a tensor of fixed-length replicate vectors, one per
// cell. shape lists the factor dimensions least significant first.
func AnovaCells(cells [][]float64, shape []int, opts Options) (*effects.Table, error) {
	kinds, _ := opts.factorKinds()
	c, rep, err := fromCells(cells, shape)
	if err != nil {
		return nil, err
	}
	return run(c, rep, kinds, opts.Names, opts.labels())
}

// AnovaObservations analyzes flat observations with one level-assignment
// vector per factor (assignments[i] maps to factor dimension i). The input
// is normalized to the canonical tensor form, deriving the replicate count
// from the balance check, then analyzed like the tensor form.
func AnovaObservations(obs []float64, assignments [][]float64, opts Options) (*effects.Table, error) {
	kinds, _ := opts.factorKinds()
	c, rep, err := fromObservations(obs, assignments)
	if err != nil {
		return nil, err
	}
	return run(c, rep, kinds, opts.Names, opts.labels())
}

func run(c *tensor.Dense, rep int, kinds []design.FactorKind, names []string, labels effects.Labels) (*effects.Table, error) {
	d, err := design.New(kinds, names, c.Rank()-1)
	if err != nil {
		return nil, err
	}

	total := totalValue(c, labels.Total)
	if d.HasSubject() {
		return runRepeated(c, rep, d, total, labels)
	}
	return runCrossed(c, rep, d, total, labels)
}

// runCrossed handles fixed/random designs with optional leading nesting:
// nested dimensions are collapsed away first, then every main effect and
// interaction of the remaining crossed dimensions is enumerated, assigned
// its error term and F-tested.
func runCrossed(c *tensor.Dense, rep int, d *design.Design, total effects.Value, labels effects.Labels) (*effects.Table, error) {
	cellMeans := c.CollapseMean(0)
	cells := cellsValue(cellMeans, rep, labels.Cells)
	baseError := effects.FactorOf(total.Sub(cells).Renamed(labels.Error))

	names := d.Names()
	m := d.NestedCount()
	nested, reduced, _ := reduceNested(cellMeans, rep, m, names[:m])
	crossed := enumerate(reduced, c.Size(), names[m:])

	// The anchor is the term that stands in for "Error" in the assignment
	// tables: the residual, the coarsest nested factor, or (without
	// replication) the top-level interaction relabeled Remainder.
	anchor := baseError
	errorRow := effects.Effect(baseError)
	testable := crossed
	if m > 0 {
		anchor = nested[m-1]
	} else if rep == 1 && reduced.Rank() >= 2 {
		top := crossed[len(crossed)-1]
		remainder := effects.FactorOf(top.factor.Renamed(labels.Remainder))
		anchor = remainder
		errorRow = remainder
		testable = crossed[:len(crossed)-1]
	}

	var den map[uint]effects.Factor
	if len(crossed) > 0 {
		var err error
		den, err = assignErrorTerms(reverseKinds(d.CrossedKinds()), crossed, anchor)
		if err != nil {
			return nil, err
		}
	}

	table := &effects.Table{}
	table.Effects = append(table.Effects, total)
	for _, e := range testable {
		table.Effects = append(table.Effects, fTest(e.factor, den[e.mask]))
	}
	// Nested chain, coarsest first: each level tests against the next finer
	// level, the finest against the residual error.
	for i := m - 1; i >= 0; i-- {
		nd := baseError
		if i > 0 {
			nd = nested[i-1]
		}
		table.Effects = append(table.Effects, fTest(nested[i], nd))
	}
	table.Effects = append(table.Effects, errorRow)
	return table, nil
}

// runRepeated handles subject designs: every effect composed purely of
// non-subject factors tests against its own interaction with the subject
// factor. Subject-bearing effects are computed as denominators but never
// reported.
func runRepeated(c *tensor.Dense, rep int, d *design.Design, total effects.Value, labels effects.Labels) (*effects.Table, error) {
	cellMeans := c.CollapseMean(0)
	cells := cellsValue(cellMeans, rep, labels.Cells)
	baseError := effects.FactorOf(total.Sub(cells).Renamed(labels.Error))

	effs := enumerate(cellMeans, c.Size(), d.Names())
	byMask := make(map[uint]*crossedEffect, len(effs))
	for _, e := range effs {
		byMask[e.mask] = e
	}

	subjBit := uint(1) << uint(d.SubjectIndex())
	table := &effects.Table{}
	table.Effects = append(table.Effects, total)
	for _, e := range effs {
		if e.mask&subjBit != 0 {
			continue
		}
		den := byMask[e.mask|subjBit]
		table.Effects = append(table.Effects, fTest(e.factor, den.factor))
	}
	if rep > 1 {
		table.Effects = append(table.Effects, baseError)
	}
	return table, nil
}

func reverseKinds(kinds []design.FactorKind) []design.FactorKind {
	out := make([]design.FactorKind, len(kinds))
	for i, k := range kinds {
		out[len(kinds)-1-i] = k
	}
	return out
}
