package preproc

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/born-ml/dataprep/internal/tensor"
)

// binaryClassCount is the class count reported for two-valued labels.
// Binary segmentation is trained as a single-channel target (one sigmoid
// output), so labels {0, 1} mean one output channel, not two classes.
// Downstream channel and dtype decisions rely on this value.
const binaryClassCount = 1

// InferClassCount derives the number of output classes from a label array
// of any rank.
//
// The distinct label values must be exactly {0, 1, ..., k-1}. The result
// is k, except that k == 2 yields binaryClassCount.
//
// Returns an error wrapping ErrInvalidLabelEncoding when the labels are
// empty, do not start at 0, or skip a value.
func InferClassCount(labels *tensor.RawTensor) (int, error) {
	if labels == nil {
		return 0, errors.Wrap(ErrInvalidInputType, "labels are nil")
	}

	values := distinct(labels.Float64s())
	if len(values) == 0 {
		return 0, errors.Wrap(ErrInvalidLabelEncoding, "labels are empty")
	}
	if values[0] != 0 {
		return 0, errors.WithStack(&LabelEncodingError{Min: values[0]})
	}
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] != 1 {
			return 0, errors.WithStack(&LabelEncodingError{
				Min:  values[0],
				Prev: values[i-1],
				Next: values[i],
				Gap:  true,
			})
		}
	}

	if len(values) == 2 {
		return binaryClassCount, nil
	}
	return len(values), nil
}

// distinct returns the sorted unique values.
func distinct(values []float64) []float64 {
	seen := make(map[float64]struct{}, 16)
	out := make([]float64, 0, 16)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
