package design

import (
	"fmt"

	"goanova/internal/errors"
)

// FactorKind classifies one dimension of an experimental design.
type FactorKind string

const (
	Fixed     FactorKind = "fixed"
	Random    FactorKind = "random"
	Nested    FactorKind = "nested"
	Subject   FactorKind = "subject"
	Replicate FactorKind = "replicate"

	// Block is a display alias for Subject; it is normalized away during
	// validation and never appears in a validated Design.
	Block FactorKind = "block"
)

// ParseKind converts a string label into a FactorKind.
func ParseKind(s string) (FactorKind, error) {
	switch FactorKind(s) {
	case Fixed, Random, Nested, Subject, Replicate, Block:
		return FactorKind(s), nil
	}
	return "", errors.DesignInvalid("unknown factor kind %q", s)
}

// Factor is one dimension of a design: its kind and display name.
type Factor struct {
	Kind FactorKind `json:"kind"`
	Name string     `json:"name"`
}

// Design describes a balanced multi-factor layout. Factors are ordered
// least-significant dimension first, matching observation tensor axes.
type Design struct {
	factors []Factor
}

// New builds and validates a design for dims factor dimensions. An empty
// kinds slice means all factors are fixed; an empty names slice generates
// single-letter names in reverse-alphabetical order so the most significant
// factor is called "A". A leading Replicate entry (marking dimension 0 as
// repeated measurements) must be stripped by the caller before validation.
func New(kinds []FactorKind, names []string, dims int) (*Design, error) {
	if dims < 1 {
		return nil, errors.DesignInvalid("design requires at least one factor dimension")
	}
	if len(kinds) == 0 {
		kinds = make([]FactorKind, dims)
		for i := range kinds {
			kinds[i] = Fixed
		}
	}
	if len(kinds) != dims {
		return nil, errors.DesignInvalid("%d factor kinds supplied for %d factor dimensions", len(kinds), dims)
	}
	if len(names) == 0 {
		names = autoNames(dims)
	}
	if len(names) != dims {
		return nil, errors.DesignInvalid("%d factor names supplied for %d factor dimensions", len(names), dims)
	}

	factors := make([]Factor, dims)
	for i, k := range kinds {
		if k == Block {
			k = Subject
		}
		switch k {
		case Fixed, Random, Nested, Subject:
		case Replicate:
			return nil, errors.DesignInvalid("replicate pseudo-factor is only valid as the leading design entry")
		default:
			return nil, errors.DesignInvalid("unknown factor kind %q", k)
		}
		factors[i] = Factor{Kind: k, Name: names[i]}
	}

	d := &Design{factors: factors}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Design) validate() error {
	// Nested factors must form a contiguous leading run.
	nested := d.NestedCount()
	for i, f := range d.factors {
		if f.Kind == Nested && i >= nested {
			return errors.DesignInvalid("nested factors must be contiguous and precede all other factors")
		}
	}

	subjects := 0
	subjectIdx := -1
	for i, f := range d.factors {
		if f.Kind == Subject {
			subjects++
			subjectIdx = i
		}
	}
	if subjects > 1 {
		return errors.DesignInvalid("at most one subject factor is allowed, got %d", subjects)
	}

	if subjects == 1 {
		if nested > 0 {
			return errors.UnsupportedDesign("nested factors cannot be combined with a subject factor")
		}
		for _, f := range d.factors {
			if f.Kind == Random {
				return errors.DesignInvalid("random factors cannot be combined with a subject factor")
			}
		}
		if subjectIdx != 1 && subjectIdx != 2 {
			return errors.DesignInvalid("subject factor must be the 2nd or 3rd factor, got position %d", subjectIdx+1)
		}
		if len(d.factors)-1 > 3 {
			return errors.UnsupportedDesign("repeated-measures designs support at most 3 non-subject factors, got %d", len(d.factors)-1)
		}
		return nil
	}

	crossed := d.CrossedKinds()
	if len(crossed) > 3 {
		for _, k := range crossed {
			if k != Fixed {
				return errors.UnsupportedDesign("designs with more than 3 crossed factors must be all-fixed")
			}
		}
	}
	return nil
}

// Len returns the number of factor dimensions.
func (d *Design) Len() int { return len(d.factors) }

// Factor returns the i-th factor, least-significant first.
func (d *Design) Factor(i int) Factor { return d.factors[i] }

// Names returns the factor names in dimension order.
func (d *Design) Names() []string {
	names := make([]string, len(d.factors))
	for i, f := range d.factors {
		names[i] = f.Name
	}
	return names
}

// Kinds returns the factor kinds in dimension order.
func (d *Design) Kinds() []FactorKind {
	kinds := make([]FactorKind, len(d.factors))
	for i, f := range d.factors {
		kinds[i] = f.Kind
	}
	return kinds
}

// NestedCount returns the number of leading nested factors.
func (d *Design) NestedCount() int {
	n := 0
	for _, f := range d.factors {
		if f.Kind != Nested {
			break
		}
		n++
	}
	return n
}

// HasSubject reports whether the design contains a subject factor.
func (d *Design) HasSubject() bool { return d.SubjectIndex() >= 0 }

// SubjectIndex returns the dimension index of the subject factor, or -1.
func (d *Design) SubjectIndex() int {
	for i, f := range d.factors {
		if f.Kind == Subject {
			return i
		}
	}
	return -1
}

// AllFixed reports whether every factor is fixed.
func (d *Design) AllFixed() bool {
	for _, f := range d.factors {
		if f.Kind != Fixed {
			return false
		}
	}
	return true
}

// CrossedKinds returns the kinds of the non-nested, non-subject factors in
// dimension order.
func (d *Design) CrossedKinds() []FactorKind {
	var kinds []FactorKind
	for _, f := range d.factors {
		if f.Kind != Nested && f.Kind != Subject {
			kinds = append(kinds, f.Kind)
		}
	}
	return kinds
}

// autoNames generates single-letter factor names so that the most
// significant dimension (the last one) is named "A".
func autoNames(dims int) []string {
	names := make([]string, dims)
	for i := 0; i < dims; i++ {
		if dims-1-i < 26 {
			names[i] = string(rune('A' + dims - 1 - i))
		} else {
			names[i] = fmt.Sprintf("F%d", dims-i)
		}
	}
	return names
}
