package tensor

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ToGomlx copies the tensor into a gomlx tensor with the same dimensions
// and element type. gomlx tensors are what training loops consume; they
// are transferred to the accelerator on first use.
func (r *RawTensor) ToGomlx() *tensors.Tensor {
	dims := []int(r.shape.Clone())
	switch r.dtype {
	case Float32:
		return tensors.FromFlatDataAndDimensions(append([]float32(nil), r.AsFloat32()...), dims...)
	case Float64:
		return tensors.FromFlatDataAndDimensions(append([]float64(nil), r.AsFloat64()...), dims...)
	case Int32:
		return tensors.FromFlatDataAndDimensions(append([]int32(nil), r.AsInt32()...), dims...)
	case Int64:
		return tensors.FromFlatDataAndDimensions(append([]int64(nil), r.AsInt64()...), dims...)
	case Uint8:
		return tensors.FromFlatDataAndDimensions(append([]uint8(nil), r.AsUint8()...), dims...)
	default:
		panic(fmt.Sprintf("ToGomlx: unsupported dtype %s", r.dtype))
	}
}

// FromGomlx copies a gomlx tensor into a RawTensor.
// Element types outside float32, float64, int32, int64 and uint8 are rejected.
func FromGomlx(t *tensors.Tensor) (*RawTensor, error) {
	if t == nil {
		return nil, fmt.Errorf("FromGomlx: input tensor is nil")
	}

	shape := Shape(append([]int(nil), t.Shape().Dimensions...))
	var (
		raw *RawTensor
		err error
	)
	t.ConstFlatData(func(flat any) {
		switch data := flat.(type) {
		case []float32:
			raw, err = FromSlice(data, shape)
		case []float64:
			raw, err = FromSlice(data, shape)
		case []int32:
			raw, err = FromSlice(data, shape)
		case []int64:
			raw, err = FromSlice(data, shape)
		case []uint8:
			raw, err = FromSlice(data, shape)
		default:
			err = fmt.Errorf("FromGomlx: unsupported element type %T", flat)
		}
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}
