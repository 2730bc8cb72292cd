package preproc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors. Every error returned by this package wraps one of these,
// so callers can match with errors.Is.
var (
	ErrInvalidLabelEncoding = errors.New("labels must be consecutive integers starting from 0")
	ErrInvalidInputType     = errors.New("training and test data must be arrays")
	ErrInvalidBatchSize     = errors.New("batch size must be positive")
	ErrInvalidRank          = errors.New("array must have at least one axis")
	ErrMisalignedPair       = errors.New("data and labels have different sample counts")
)

// LabelEncodingError reports which distinct label values broke the
// 0..k-1 encoding.
type LabelEncodingError struct {
	Min  float64 // Smallest distinct value
	Prev float64 // Last valid value before the gap (valid when Gap is true)
	Next float64 // First value after the gap (valid when Gap is true)
	Gap  bool    // Whether the failure is a gap rather than a bad minimum
}

// Error implements the error interface.
func (e *LabelEncodingError) Error() string {
	if e.Gap {
		return fmt.Sprintf("%v: %v is followed by %v", ErrInvalidLabelEncoding, e.Prev, e.Next)
	}
	return fmt.Sprintf("%v: smallest label is %v", ErrInvalidLabelEncoding, e.Min)
}

// Unwrap returns ErrInvalidLabelEncoding.
func (e *LabelEncodingError) Unwrap() error {
	return ErrInvalidLabelEncoding
}
