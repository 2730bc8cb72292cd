package feed

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/dataprep/internal/tensor"
)

// Errors returned by the formatting helpers.
var (
	ErrZeroRange       = errors.New("array has a single intensity value, cannot rescale")
	ErrUnexpectedShape = errors.New("unexpected array shape")
)

// MinMaxScale rescales x to [0, 1] using the minimum and range of the
// whole array. The result is float32 regardless of the input dtype.
// A constant array has no range and fails with ErrZeroRange.
func MinMaxScale(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if x == nil {
		return nil, errors.New("MinMaxScale: input tensor is nil")
	}

	vals := x.Float64s()
	if len(vals) == 0 {
		return tensor.Cast(x, tensor.Float32)
	}

	lo, hi := floats.Min(vals), floats.Max(vals)
	ptp := hi - lo
	if ptp == 0 {
		return nil, errors.Wrapf(ErrZeroRange, "all %d elements equal %v", len(vals), lo)
	}
	floats.AddConst(-lo, vals)
	floats.Scale(1/ptp, vals)

	return tensor.FromFloat64s(vals, x.Shape(), tensor.Float32)
}

// FormatImage prepares images for a model that expects (n, 1, h, w):
// a (n, h, w) stack gains the channel axis, a rank-4 stack must already
// have a single channel, and intensities are min-max scaled to [0, 1].
func FormatImage(images *tensor.RawTensor) (*tensor.RawTensor, error) {
	return formatWithChannel(images, 3, "image(s) as 3D (n, h, w) or 4D (n, 1, h, w)")
}

// FormatSpectra prepares spectra for a model that expects (n, 1, length):
// a (n, length) stack gains the channel axis, a rank-3 stack must already
// have a single channel, and intensities are min-max scaled to [0, 1].
func FormatSpectra(spectra *tensor.RawTensor) (*tensor.RawTensor, error) {
	return formatWithChannel(spectra, 2, "spectra as 2D (n, length) or 3D (n, 1, length)")
}

// formatWithChannel accepts rank bare or bare+1 (with a unit channel axis).
func formatWithChannel(x *tensor.RawTensor, bare int, want string) (*tensor.RawTensor, error) {
	if x == nil {
		return nil, errors.Wrap(ErrUnexpectedShape, "nil array")
	}

	switch x.Rank() {
	case bare:
		expanded, err := tensor.ExpandDims(x, 1)
		if err != nil {
			return nil, err
		}
		x = expanded
	case bare + 1:
		if x.Shape()[1] != 1 {
			return nil, errors.Wrapf(ErrUnexpectedShape, "got %v, want %s", x.Shape(), want)
		}
	default:
		return nil, errors.Wrapf(ErrUnexpectedShape, "got %v, want %s", x.Shape(), want)
	}
	return MinMaxScale(x)
}
