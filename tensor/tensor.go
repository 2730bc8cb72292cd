// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public array type consumed by the dataprep
// pipeline.
//
// The package defines:
//   - RawTensor: immutable N-d array with runtime dtype
//   - Shape, DataType: core type definitions
//   - Axis-0 helpers used for batching (ExpandDims, Narrow, Chunk, Concat)
//
// Example:
//
//	images, err := tensor.FromSlice(pixels, tensor.Shape{20, 28, 28})
//	withChannel, err := tensor.ExpandDims(images, 1) // (20, 1, 28, 28)
package tensor

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/born-ml/dataprep/internal/tensor"
)

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int32, int64, uint8.
type DType = tensor.DType

// DataType represents the element type of a tensor at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Shape represents the dimensions of a tensor.
// Example: Shape{20, 28, 28} is a stack of twenty 28×28 images.
type Shape = tensor.Shape

// RawTensor is an immutable row-major N-d array.
//
// RawTensor provides:
//   - Shape and type information via Shape(), Rank(), DType()
//   - Zero-copy typed views via AsFloat32(), AsInt64(), etc.
//   - Conversion to gomlx tensors via ToGomlx()
//
// The typed views must be treated as read-only.
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled tensor with the given shape and dtype.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
//
// Example:
//
//	masks, err := tensor.FromSlice([]uint8{0, 1, 1, 0}, tensor.Shape{1, 2, 2})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromGomlx copies a gomlx tensor into a RawTensor.
func FromGomlx(t *tensors.Tensor) (*RawTensor, error) {
	return tensor.FromGomlx(t)
}

// ExpandDims returns a copy of x with a unit axis inserted at axis.
func ExpandDims(x *RawTensor, axis int) (*RawTensor, error) {
	return tensor.ExpandDims(x, axis)
}

// Narrow returns a copy of samples [start, start+length) along axis 0.
func Narrow(x *RawTensor, start, length int) (*RawTensor, error) {
	return tensor.Narrow(x, start, length)
}

// Chunk splits x into n equal pieces along axis 0.
func Chunk(x *RawTensor, n int) ([]*RawTensor, error) {
	return tensor.Chunk(x, n)
}

// Concat joins tensors along axis 0.
//
// Example:
//
//	all, err := tensor.Concat(result.TrainData) // undo batching
func Concat(tensors []*RawTensor) (*RawTensor, error) {
	return tensor.Concat(tensors)
}

// Cast converts x to another element type.
func Cast(x *RawTensor, dtype DataType) (*RawTensor, error) {
	return tensor.Cast(x, dtype)
}
