package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"goanova/domain/effects"
)

// Run is one persisted analysis: where the data came from, which columns
// were analyzed, and the resulting effect rows in table order.
type Run struct {
	ID        string      `db:"id" json:"id"`
	Source    string      `db:"source" json:"source"`
	Response  string      `db:"response" json:"response"`
	Factors   string      `db:"factors" json:"factors"` // comma-joined factor names
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	Effects   []RunEffect `json:"effects"`
}

// RunEffect is one row of an ANOVA table. MS, F and P are nil for rows that
// are plain variance partitions (Total, Error) rather than tested effects.
type RunEffect struct {
	RunID    string   `db:"run_id" json:"-"`
	Position int      `db:"position" json:"position"`
	Name     string   `db:"name" json:"name"`
	SS       float64  `db:"ss" json:"ss"`
	DF       float64  `db:"df" json:"df"`
	MS       *float64 `db:"ms" json:"ms,omitempty"`
	F        *float64 `db:"f" json:"f,omitempty"`
	P        *float64 `db:"p" json:"p,omitempty"`
}

// MarshalJSON replaces non-finite numbers with null. Degenerate designs
// legally produce NaN or infinite statistics, which encoding/json refuses
// to encode.
func (e RunEffect) MarshalJSON() ([]byte, error) {
	type row struct {
		Position int      `json:"position"`
		Name     string   `json:"name"`
		SS       *float64 `json:"ss"`
		DF       *float64 `json:"df"`
		MS       *float64 `json:"ms,omitempty"`
		F        *float64 `json:"f,omitempty"`
		P        *float64 `json:"p,omitempty"`
	}
	return json.Marshal(row{
		Position: e.Position,
		Name:     e.Name,
		SS:       finite(&e.SS),
		DF:       finite(&e.DF),
		MS:       finite(e.MS),
		F:        finite(e.F),
		P:        finite(e.P),
	})
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// NewRun converts an effect table into its persisted form with a fresh ID.
func NewRun(source, response string, factors []string, table *effects.Table) *Run {
	run := &Run{
		ID:        uuid.New().String(),
		Source:    source,
		Response:  response,
		Factors:   strings.Join(factors, ","),
		CreatedAt: time.Now().UTC(),
	}
	for i, e := range table.Effects {
		row := RunEffect{
			RunID:    run.ID,
			Position: i,
			Name:     e.Label(),
			SS:       e.Stats().SS,
			DF:       e.Stats().DF,
		}
		switch v := e.(type) {
		case effects.Result:
			ms, f, p := v.MS, v.F, v.P
			row.MS, row.F, row.P = &ms, &f, &p
		case effects.Factor:
			ms := v.MS
			row.MS = &ms
		}
		run.Effects = append(run.Effects, row)
	}
	return run
}

// FactorNames splits the comma-joined factor list.
func (r *Run) FactorNames() []string {
	if r.Factors == "" {
		return nil
	}
	return strings.Split(r.Factors, ",")
}
