package tensor

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrShapeTooLarge is returned when a shape's buffer size does not fit in an int.
var ErrShapeTooLarge = errors.New("shape too large")

// Shape represents the dimensions of a tensor.
type Shape []int

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (no negative dimensions).
// Zero-sized axes are allowed so that empty datasets can flow through.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// ByteLen returns the buffer size in bytes that a tensor of this shape and
// dtype occupies. It fails on negative dimensions and on sizes above
// math.MaxInt, counting every non-zero axis even when another axis is 0.
func (s Shape) ByteLen(dtype DataType) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	limit := math.MaxInt / dtype.Size()
	n, empty := 1, false
	for _, dim := range s {
		if dim == 0 {
			empty = true
			continue
		}
		if n > limit/dim {
			return 0, fmt.Errorf("%w: %v of %s", ErrShapeTooLarge, s, dtype)
		}
		n *= dim
	}
	if empty {
		return 0, nil
	}
	return n * dtype.Size(), nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// WithAxis returns a copy of the shape with a new dimension of size dim
// inserted at position axis.
//
// Example:
//
//	Shape{20, 28, 28}.WithAxis(1, 1) // Shape{20, 1, 28, 28}
func (s Shape) WithAxis(axis, dim int) Shape {
	out := make(Shape, 0, len(s)+1)
	out = append(out, s[:axis]...)
	out = append(out, dim)
	out = append(out, s[axis:]...)
	return out
}

// WithLeading returns a copy of the shape with axis 0 replaced by n.
func (s Shape) WithLeading(n int) Shape {
	out := s.Clone()
	out[0] = n
	return out
}

// String formats the shape as a tuple, e.g. (20, 1, 28, 28).
func (s Shape) String() string {
	if len(s) == 1 {
		return fmt.Sprintf("(%d,)", s[0])
	}
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(dim)
	}
	return out + ")"
}
