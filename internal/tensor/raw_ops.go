package tensor

import (
	"fmt"

	"github.com/born-ml/dataprep/internal/parallel"
)

// ExpandDims returns a copy of x with a new axis of size 1 inserted at
// position axis. Negative axes count from the end of the result shape.
//
// Element order is unchanged by inserting a unit axis, so the buffer is
// copied as-is.
//
// Example:
//
//	y, _ := tensor.ExpandDims(x, 1) // (20, 28, 28) -> (20, 1, 28, 28)
func ExpandDims(x *RawTensor, axis int) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("ExpandDims: input tensor is nil")
	}

	newNdim := len(x.shape) + 1
	if axis < 0 {
		axis = newNdim + axis
	}
	if axis < 0 || axis >= newNdim {
		return nil, fmt.Errorf("ExpandDims: axis %d out of range [0, %d)", axis, newNdim)
	}

	newShape := x.shape.WithAxis(axis, 1)
	return &RawTensor{
		data:   append([]byte(nil), x.data...),
		shape:  newShape,
		stride: newShape.ComputeStrides(),
		dtype:  x.dtype,
	}, nil
}

// Narrow returns a copy of samples [start, start+length) along axis 0.
func Narrow(x *RawTensor, start, length int) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Narrow: input tensor is nil")
	}
	if len(x.shape) == 0 {
		return nil, fmt.Errorf("Narrow: scalar tensor has no leading axis")
	}
	if start < 0 || length < 0 || start+length > x.shape[0] {
		return nil, fmt.Errorf("Narrow: range [%d, %d) out of bounds for leading axis of size %d",
			start, start+length, x.shape[0])
	}

	newShape := x.shape.WithLeading(length)
	sb := x.sampleBytes()
	return &RawTensor{
		data:   append([]byte(nil), x.data[start*sb:(start+length)*sb]...),
		shape:  newShape,
		stride: newShape.ComputeStrides(),
		dtype:  x.dtype,
	}, nil
}

// Chunk splits x along axis 0 into n contiguous pieces of equal length,
// in original sample order. The leading axis must be divisible by n.
// n == 0 is only valid for an empty leading axis and yields no pieces.
func Chunk(x *RawTensor, n int) ([]*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Chunk: input tensor is nil")
	}
	if len(x.shape) == 0 {
		return nil, fmt.Errorf("Chunk: scalar tensor has no leading axis")
	}
	if n < 0 {
		return nil, fmt.Errorf("Chunk: negative chunk count %d", n)
	}
	if n == 0 {
		if x.shape[0] != 0 {
			return nil, fmt.Errorf("Chunk: cannot split %d samples into 0 chunks", x.shape[0])
		}
		return nil, nil
	}
	if x.shape[0]%n != 0 {
		return nil, fmt.Errorf("Chunk: leading axis of size %d is not divisible by %d", x.shape[0], n)
	}

	size := x.shape[0] / n
	chunks := make([]*RawTensor, n)
	for i := range chunks {
		c, err := Narrow(x, i*size, size)
		if err != nil {
			return nil, fmt.Errorf("Chunk: %w", err)
		}
		chunks[i] = c
	}
	return chunks, nil
}

// Concat joins tensors along axis 0. All inputs must share dtype and
// trailing dimensions.
func Concat(tensors []*RawTensor) (*RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("Concat: no tensors provided")
	}

	first := tensors[0]
	if len(first.shape) == 0 {
		return nil, fmt.Errorf("Concat: scalar tensors cannot be concatenated")
	}
	total := 0
	for i, t := range tensors {
		if t.dtype != first.dtype {
			return nil, fmt.Errorf("Concat: tensor %d has dtype %v, expected %v", i, t.dtype, first.dtype)
		}
		if len(t.shape) != len(first.shape) || !t.shape[1:].Equal(first.shape[1:]) {
			return nil, fmt.Errorf("Concat: tensor %d has shape %v, incompatible with %v", i, t.shape, first.shape)
		}
		total += t.shape[0]
	}

	newShape := first.shape.WithLeading(total)
	data := make([]byte, 0, newShape.NumElements()*first.dtype.Size())
	for _, t := range tensors {
		data = append(data, t.data...)
	}
	return &RawTensor{
		data:   data,
		shape:  newShape,
		stride: newShape.ComputeStrides(),
		dtype:  first.dtype,
	}, nil
}

// Take gathers the given samples along axis 0, in the order listed.
func Take(x *RawTensor, indices []int) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Take: input tensor is nil")
	}
	if len(x.shape) == 0 {
		return nil, fmt.Errorf("Take: scalar tensor has no leading axis")
	}

	newShape := x.shape.WithLeading(len(indices))
	sb := x.sampleBytes()
	data := make([]byte, 0, len(indices)*sb)
	for _, idx := range indices {
		if idx < 0 || idx >= x.shape[0] {
			return nil, fmt.Errorf("Take: index %d out of bounds for leading axis of size %d", idx, x.shape[0])
		}
		data = append(data, x.data[idx*sb:(idx+1)*sb]...)
	}
	return &RawTensor{
		data:   data,
		shape:  newShape,
		stride: newShape.ComputeStrides(),
		dtype:  x.dtype,
	}, nil
}

// Cast converts x to the target dtype. A tensor that already has the
// target dtype is returned as a copy.
func Cast(x *RawTensor, dtype DataType) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Cast: input tensor is nil")
	}
	if x.dtype == dtype {
		return x.Clone(), nil
	}

	out, err := NewRaw(x.shape, dtype)
	if err != nil {
		return nil, fmt.Errorf("Cast: %w", err)
	}
	parallel.Chunks(x.NumElements(), parallel.DefaultConfig(), func(lo, hi int) {
		buf := make([]float64, hi-lo)
		x.readFloat64s(lo, buf)
		out.setFloat64s(lo, buf)
	})
	return out, nil
}
