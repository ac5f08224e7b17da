package tensor

import (
	"fmt"
)

// Dense is an immutable N-dimensional array of float64 values.
// Dimension 0 is the fastest-varying (least significant) axis; the flat
// offset of coordinates (c0, c1, ..., cn) is c0 + c1*d0 + c2*d0*d1 + ...
// Every operation returns a freshly allocated tensor.
type Dense struct {
	shape []int
	data  []float64
}

// New creates a tensor from a shape and a flat value slice.
func New(shape []int, data []float64) (*Dense, error) {
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("invalid dimension size %d", d)
		}
		size *= d
	}
	if size != len(data) {
		return nil, fmt.Errorf("shape %v requires %d values, got %d", shape, size, len(data))
	}
	s := make([]int, len(shape))
	copy(s, shape)
	d := make([]float64, len(data))
	copy(d, data)
	return &Dense{shape: s, data: d}, nil
}

// Rank returns the number of dimensions.
func (t *Dense) Rank() int { return len(t.shape) }

// Dim returns the size of dimension i.
func (t *Dense) Dim(i int) int { return t.shape[i] }

// Shape returns a copy of the dimension sizes.
func (t *Dense) Shape() []int {
	s := make([]int, len(t.shape))
	copy(s, t.shape)
	return s
}

// Size returns the total number of elements.
func (t *Dense) Size() int { return len(t.data) }

// Data returns the underlying flat values. Callers must not modify the
// returned slice.
func (t *Dense) Data() []float64 { return t.data }

// At returns the value at the given coordinates.
func (t *Dense) At(coords ...int) float64 {
	if len(coords) != len(t.shape) {
		panic(fmt.Sprintf("tensor: %d coordinates for rank-%d tensor", len(coords), len(t.shape)))
	}
	offset := 0
	stride := 1
	for i, c := range coords {
		if c < 0 || c >= t.shape[i] {
			panic(fmt.Sprintf("tensor: coordinate %d out of range for dimension %d", c, i))
		}
		offset += c * stride
		stride *= t.shape[i]
	}
	return t.data[offset]
}

// Mean returns the grand mean over all elements.
func (t *Dense) Mean() float64 {
	sum := 0.0
	for _, v := range t.data {
		sum += v
	}
	return sum / float64(len(t.data))
}

// CollapseMean averages away one axis, producing a tensor of rank one less.
func (t *Dense) CollapseMean(axis int) *Dense {
	if axis < 0 || axis >= len(t.shape) {
		panic(fmt.Sprintf("tensor: collapse axis %d out of range for rank %d", axis, len(t.shape)))
	}
	outShape := make([]int, 0, len(t.shape)-1)
	for i, d := range t.shape {
		if i != axis {
			outShape = append(outShape, d)
		}
	}
	outSize := len(t.data) / t.shape[axis]
	out := make([]float64, outSize)

	strides := t.strides()
	for flat, v := range t.data {
		outIdx := 0
		outStride := 1
		for d := 0; d < len(t.shape); d++ {
			if d == axis {
				continue
			}
			coord := (flat / strides[d]) % t.shape[d]
			outIdx += coord * outStride
			outStride *= t.shape[d]
		}
		out[outIdx] += v
	}
	n := float64(t.shape[axis])
	for i := range out {
		out[i] /= n
	}
	return &Dense{shape: outShape, data: out}
}

// MeanOver collapses every axis not listed in keep, averaging the removed
// axes away. keep must be sorted ascending; the result's dimensions follow
// the same order.
func (t *Dense) MeanOver(keep []int) *Dense {
	keepSet := make(map[int]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	cur := t
	for axis := len(t.shape) - 1; axis >= 0; axis-- {
		if !keepSet[axis] {
			cur = cur.CollapseMean(axis)
		}
	}
	return cur
}

func (t *Dense) strides() []int {
	s := make([]int, len(t.shape))
	stride := 1
	for i, d := range t.shape {
		s[i] = stride
		stride *= d
	}
	return s
}
