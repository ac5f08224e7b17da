package dataset

import (
	"sort"
	"strconv"
	"strings"

	"goanova/internal/errors"
)

// Frame is a loaded table: a header row and string-valued data rows, as
// produced by the file readers before any numeric coercion.
type Frame struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of a named column, or -1.
func (f *Frame) Column(name string) int {
	for i, h := range f.Headers {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Project extracts one observation column and the named factor columns into
// the flat observation/assignment form consumed by the analysis engine.
// Rows with a missing value in any referenced column are dropped. The
// observation column must coerce to numeric; factor columns may hold
// arbitrary labels, which are mapped onto stable numeric codes by sorted
// order.
func (f *Frame) Project(response string, factors []string) ([]float64, [][]float64, error) {
	respIdx := f.Column(response)
	if respIdx < 0 {
		return nil, nil, errors.NotFound("column " + response)
	}
	factorIdx := make([]int, len(factors))
	for i, name := range factors {
		idx := f.Column(name)
		if idx < 0 {
			return nil, nil, errors.NotFound("column " + name)
		}
		factorIdx[i] = idx
	}

	var kept [][]string
	for _, row := range f.Rows {
		if missing(row, respIdx) {
			continue
		}
		skip := false
		for _, idx := range factorIdx {
			if missing(row, idx) {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, row)
		}
	}

	obs := make([]float64, len(kept))
	for i, row := range kept {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[respIdx]), 64)
		if err != nil {
			return nil, nil, errors.TypeError("observation column %q holds non-numeric value %q", response, row[respIdx])
		}
		obs[i] = v
	}

	assignments := make([][]float64, len(factors))
	for fi, idx := range factorIdx {
		assignments[fi] = encodeLevels(kept, idx)
	}
	return obs, assignments, nil
}

func missing(row []string, idx int) bool {
	return idx >= len(row) || strings.TrimSpace(row[idx]) == ""
}

// encodeLevels maps a factor column onto numeric level codes. Numeric
// columns keep their values; label columns get codes assigned by sorted
// label order so the encoding is stable across row orderings.
func encodeLevels(rows [][]string, idx int) []float64 {
	values := make([]string, len(rows))
	numeric := true
	for i, row := range rows {
		values[i] = strings.TrimSpace(row[idx])
		if _, err := strconv.ParseFloat(values[i], 64); err != nil {
			numeric = false
		}
	}

	out := make([]float64, len(values))
	if numeric {
		for i, v := range values {
			out[i], _ = strconv.ParseFloat(v, 64)
		}
		return out
	}

	distinct := make(map[string]bool, len(values))
	for _, v := range values {
		distinct[v] = true
	}
	labels := make([]string, 0, len(distinct))
	for v := range distinct {
		labels = append(labels, v)
	}
	sort.Strings(labels)
	codes := make(map[string]float64, len(labels))
	for i, v := range labels {
		codes[v] = float64(i + 1)
	}
	for i, v := range values {
		out[i] = codes[v]
	}
	return out
}
