package effects

// Value is a raw variance partition: a sum of squares and its degrees of
// freedom. Degrees of freedom may be non-integer for Satterthwaite-adjusted
// terms. Subtraction-derived values may legally go slightly negative from
// floating-point cancellation; nothing here clamps them.
type Value struct {
	Name string  `json:"name"`
	SS   float64 `json:"ss"`
	DF   float64 `json:"df"`
}

// Add sums ss and df component-wise, keeping the receiver's name.
func (v Value) Add(o Value) Value {
	return Value{Name: v.Name, SS: v.SS + o.SS, DF: v.DF + o.DF}
}

// Sub subtracts ss and df component-wise, keeping the receiver's name.
func (v Value) Sub(o Value) Value {
	return Value{Name: v.Name, SS: v.SS - o.SS, DF: v.DF - o.DF}
}

// Renamed returns a copy of the value carrying a different name.
func (v Value) Renamed(name string) Value {
	v.Name = name
	return v
}

// Label returns the effect's display name.
func (v Value) Label() string { return v.Name }

// Stats returns the underlying ss/df pair.
func (v Value) Stats() Value { return v }

// Factor is a Value with its mean square cached at construction. Factors
// are immutable; the mean square is never recomputed.
type Factor struct {
	Value
	MS float64 `json:"ms"`
}

// NewFactor builds a factor, deriving the mean square ss/df.
func NewFactor(name string, ss, df float64) Factor {
	return Factor{Value: Value{Name: name, SS: ss, DF: df}, MS: ss / df}
}

// FactorOf derives a factor from an existing value.
func FactorOf(v Value) Factor {
	return Factor{Value: v, MS: v.SS / v.DF}
}

// Result is a tested factor: its F statistic against an assigned error term
// and the upper-tail probability of that statistic.
type Result struct {
	Factor
	F float64 `json:"f"`
	P float64 `json:"p"`
}

// Effect is the union of Value, Factor and Result rows in an ANOVA table.
type Effect interface {
	Label() string
	Stats() Value
}

// Table is the ordered effect sequence returned by an analysis: Total first,
// then crossed-factor results (most significant effect first, grouped by
// interaction size), nested results coarsest-first, and the Error or
// Remainder term last.
type Table struct {
	Effects []Effect `json:"effects"`
}

// Find returns the first effect with the given name.
func (t *Table) Find(name string) (Effect, bool) {
	for _, e := range t.Effects {
		if e.Label() == name {
			return e, true
		}
	}
	return nil, false
}

// Results returns only the tested effects in table order.
func (t *Table) Results() []Result {
	var out []Result
	for _, e := range t.Effects {
		if r, ok := e.(Result); ok {
			out = append(out, r)
		}
	}
	return out
}

// Labels carries the fixed row names used when assembling a table. They are
// configuration, not mutable state.
type Labels struct {
	Total     string
	Cells     string
	Error     string
	Remainder string
}

// DefaultLabels returns the conventional ANOVA row names.
func DefaultLabels() Labels {
	return Labels{Total: "Total", Cells: "Cells", Error: "Error", Remainder: "Remainder"}
}
