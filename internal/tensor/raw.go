package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the low-level array representation: a contiguous row-major
// byte buffer plus shape and runtime type information.
//
// A RawTensor is treated as immutable by every operation in this module.
// Operations return new tensors and never write into their inputs, so a
// tensor can be shared freely between readers.
type RawTensor struct {
	data   []byte   // Contiguous element storage
	shape  Shape    // Tensor dimensions
	stride []int    // Memory strides (row-major)
	dtype  DataType // Runtime type information
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	size, err := shape.ByteLen(dtype)
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]byte, size),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
//
// Example:
//
//	masks, err := tensor.FromSlice([]int64{0, 1, 1, 0}, tensor.Shape{1, 2, 2})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}
	copy(view[T](raw), data)
	return raw, nil
}

// MustFromSlice is like FromSlice but panics on error. Intended for tests
// and literals whose shape is known to be correct.
func MustFromSlice[T DType](data []T, shape Shape) *RawTensor {
	raw, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return raw
}

// FromFloat64s creates a tensor of the given dtype from float64 values,
// converting each element. Integer targets truncate toward zero.
func FromFloat64s(values []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	size, err := shape.ByteLen(dtype)
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(values)*dtype.Size() != size {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, size/dtype.Size(), len(values))
	}
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	raw.setFloat64s(0, values)
	return raw, nil
}

// FromBytes creates a tensor from little-endian element bytes, as stored in
// array files. The bytes are copied.
func FromBytes(data []byte, shape Shape, dtype DataType) (*RawTensor, error) {
	size, err := shape.ByteLen(dtype)
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != size {
		return nil, fmt.Errorf("shape %v of %s requires %d bytes, but got %d", shape, dtype, size, len(data))
	}
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	copy(raw.data, data)
	return raw, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Rank returns the number of axes.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// Len returns the size of the leading (sample) axis.
// Panics for scalar tensors.
func (r *RawTensor) Len() int {
	if len(r.shape) == 0 {
		panic("Len() is undefined for scalar tensors")
	}
	return r.shape[0]
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Bytes returns the raw byte slice.
// WARNING: Direct access to underlying memory. Callers must not modify it.
func (r *RawTensor) Bytes() []byte {
	return r.data
}

// sampleBytes is the byte length of one slice along axis 0.
func (r *RawTensor) sampleBytes() int {
	return r.stride[0] * r.dtype.Size()
}

// view reinterprets the buffer as []T without copying.
// T must match the tensor's dtype.
func view[T DType](r *RawTensor) []T {
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), n)
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	r.mustBe(Float32)
	return view[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.mustBe(Float64)
	return view[float64](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	r.mustBe(Int32)
	return view[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	r.mustBe(Int64)
	return view[int64](r)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	r.mustBe(Uint8)
	return r.data
}

func (r *RawTensor) mustBe(dtype DataType) {
	if r.dtype != dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dtype))
	}
}

// Float64s returns a copy of the elements converted to float64.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	r.readFloat64s(0, out)
	return out
}

// readFloat64s converts elements [start, start+len(dst)) into dst.
func (r *RawTensor) readFloat64s(start int, dst []float64) {
	switch r.dtype {
	case Float32:
		for i, v := range view[float32](r)[start : start+len(dst)] {
			dst[i] = float64(v)
		}
	case Float64:
		copy(dst, view[float64](r)[start:start+len(dst)])
	case Int32:
		for i, v := range view[int32](r)[start : start+len(dst)] {
			dst[i] = float64(v)
		}
	case Int64:
		for i, v := range view[int64](r)[start : start+len(dst)] {
			dst[i] = float64(v)
		}
	case Uint8:
		for i, v := range r.data[start : start+len(dst)] {
			dst[i] = float64(v)
		}
	}
}

// setFloat64s converts src into elements [start, start+len(src)).
// Only used while a freshly allocated tensor is still private to its builder.
func (r *RawTensor) setFloat64s(start int, src []float64) {
	switch r.dtype {
	case Float32:
		out := view[float32](r)[start : start+len(src)]
		for i, v := range src {
			out[i] = float32(v)
		}
	case Float64:
		copy(view[float64](r)[start:start+len(src)], src)
	case Int32:
		out := view[int32](r)[start : start+len(src)]
		for i, v := range src {
			out[i] = int32(v)
		}
	case Int64:
		out := view[int64](r)[start : start+len(src)]
		for i, v := range src {
			out[i] = int64(v)
		}
	case Uint8:
		out := r.data[start : start+len(src)]
		for i, v := range src {
			out[i] = uint8(v)
		}
	}
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:   append([]byte(nil), r.data...),
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
	}
}

// String returns a short description such as "float32(20, 1, 28, 28)".
func (r *RawTensor) String() string {
	return r.dtype.String() + r.shape.String()
}
