// Package tensor provides the immutable N-d array used by the preprocessing pipeline.
package tensor

// DType lists the Go element types a RawTensor can be built from.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// DataType tags a RawTensor's buffer with its element type.
type DataType int

// Element types, matching the .npy and SafeTensors dtypes this module reads.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
)

var dataTypeInfo = [...]struct {
	name string
	size int
}{
	Float32: {"float32", 4},
	Float64: {"float64", 8},
	Int32:   {"int32", 4},
	Int64:   {"int64", 8},
	Uint8:   {"uint8", 1},
}

func (dt DataType) known() bool {
	return dt >= 0 && int(dt) < len(dataTypeInfo)
}

// Size is the element width in bytes. Panics on an unknown type.
func (dt DataType) Size() int {
	if !dt.known() {
		panic("unknown data type")
	}
	return dataTypeInfo[dt].size
}

// IsFloat reports whether elements are float32 or float64.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

func (dt DataType) String() string {
	if !dt.known() {
		return "unknown"
	}
	return dataTypeInfo[dt].name
}

// inferDataType maps a Go element type to its DataType.
func inferDataType[T DType](zero T) DataType {
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	}
	panic("unsupported element type")
}
