package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	s := Shape{20, 28, 28}

	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, 20*28*28, s.NumElements())
	assert.Equal(t, []int{784, 28, 1}, s.ComputeStrides())
	assert.Equal(t, Shape{20, 1, 28, 28}, s.WithAxis(1, 1))
	assert.Equal(t, Shape{5, 28, 28}, s.WithLeading(5))
	assert.Equal(t, Shape{20, 28, 28}, s, "helpers must not modify the receiver")
	assert.Equal(t, "(20, 28, 28)", s.String())
	assert.Equal(t, "(7,)", Shape{7}.String())
	assert.Equal(t, 1, Shape{}.NumElements())
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{0, 3}.Validate(), "zero-sized axes are allowed")
	assert.Error(t, Shape{2, -1}.Validate())
}

func TestShapeByteLen(t *testing.T) {
	n, err := Shape{20, 28, 28}.ByteLen(Float32)
	require.NoError(t, err)
	assert.Equal(t, 20*28*28*4, n)

	n, err = Shape{0, 3}.ByteLen(Int64)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = Shape{1 << 62, 4}.ByteLen(Uint8)
	assert.ErrorIs(t, err, ErrShapeTooLarge, "product wraps to zero without the check")

	_, err = Shape{1 << 61, 0}.ByteLen(Float64)
	assert.ErrorIs(t, err, ErrShapeTooLarge, "an empty axis does not hide an oversized one")

	_, err = Shape{3, -1}.ByteLen(Float32)
	assert.Error(t, err)
}

func TestFromSlice(t *testing.T) {
	raw, err := FromSlice([]int64{0, 1, 2, 3, 4, 5}, Shape{3, 2})
	require.NoError(t, err)

	assert.Equal(t, Int64, raw.DType())
	assert.Equal(t, 2, raw.Rank())
	assert.Equal(t, 3, raw.Len())
	assert.Equal(t, 48, raw.ByteSize())
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5}, raw.AsInt64())
	assert.Equal(t, "int64(3, 2)", raw.String())

	_, err = FromSlice([]float32{1, 2, 3}, Shape{2, 2})
	assert.Error(t, err)
}

func TestFromSliceCopiesInput(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	raw := MustFromSlice(src, Shape{4})

	src[0] = 99
	assert.Equal(t, float32(1), raw.AsFloat32()[0])
}

func TestFloat64s(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawTensor
	}{
		{"float32", MustFromSlice([]float32{0, 1, 2}, Shape{3})},
		{"float64", MustFromSlice([]float64{0, 1, 2}, Shape{3})},
		{"int32", MustFromSlice([]int32{0, 1, 2}, Shape{3})},
		{"int64", MustFromSlice([]int64{0, 1, 2}, Shape{3})},
		{"uint8", MustFromSlice([]uint8{0, 1, 2}, Shape{3})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []float64{0, 1, 2}, tt.raw.Float64s())
		})
	}
}

func TestFromFloat64s(t *testing.T) {
	raw, err := FromFloat64s([]float64{1.9, -2.5, 3}, Shape{3}, Int32)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, -2, 3}, raw.AsInt32())

	_, err = FromFloat64s([]float64{1}, Shape{2}, Float32)
	assert.Error(t, err)
}

func TestFromBytes(t *testing.T) {
	x, err := FromBytes([]byte{1, 0, 0, 0, 2, 0, 0, 0}, Shape{2}, Int32)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, x.AsInt32())

	_, err = FromBytes([]byte{1, 0, 0}, Shape{1}, Int32)
	assert.Error(t, err)

	_, err = FromBytes(nil, Shape{1 << 62, 4}, Float32)
	assert.ErrorIs(t, err, ErrShapeTooLarge)

	// Checked against the available bytes before anything is allocated.
	_, err = FromBytes(nil, Shape{1 << 40}, Uint8)
	assert.Error(t, err)
}

func TestEmptyTensor(t *testing.T) {
	raw, err := NewRaw(Shape{0, 28, 28}, Float32)
	require.NoError(t, err)

	assert.Equal(t, 0, raw.NumElements())
	assert.Empty(t, raw.AsFloat32())
	assert.Empty(t, raw.Float64s())
}

func TestDTypeMismatchPanics(t *testing.T) {
	raw := MustFromSlice([]float32{1}, Shape{1})
	assert.Panics(t, func() { raw.AsInt64() })
}

func TestClone(t *testing.T) {
	raw := MustFromSlice([]float32{1, 2}, Shape{2})
	clone := raw.Clone()

	clone.AsFloat32()[0] = 42
	assert.Equal(t, float32(1), raw.AsFloat32()[0], "clone must not share memory")
	assert.True(t, raw.Shape().Equal(clone.Shape()))
}

func TestDataType(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, 1, Uint8.Size())
	assert.True(t, Float64.IsFloat())
	assert.False(t, Int32.IsFloat())
	assert.Equal(t, "uint8", Uint8.String())
	assert.Equal(t, "unknown", DataType(42).String())
	assert.Panics(t, func() { DataType(-1).Size() })
}
