package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

// span is the byte range of one tensor inside the data section.
type span struct {
	name       string
	start, end int64
}

// validateSpans checks for negative, overlapping and out-of-bounds ranges.
func validateSpans(spans []span, dataSize int64) error {
	if len(spans) > MaxTensorCount {
		return &ValidationError{
			Kind:    ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(spans), MaxTensorCount),
		}
	}

	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start < sorted[j].start
	})

	for i, s := range sorted {
		if s.start < 0 || s.end < s.start {
			return &ValidationError{
				Kind:    ErrNegativeOffset,
				Tensor:  s.name,
				Details: fmt.Sprintf("range [%d, %d]", s.start, s.end),
			}
		}
		if s.end > dataSize {
			return &ValidationError{
				Kind:    ErrOutOfBounds,
				Tensor:  s.name,
				Details: fmt.Sprintf("end %d > data size %d", s.end, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if s.end > next.start {
				return &ValidationError{
					Kind:    ErrOffsetOverlap,
					Tensor:  s.name,
					Tensor2: next.name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap", s.start, s.end, next.start, next.end),
				}
			}
		}
	}
	return nil
}

// ValidateTensorName rejects names that are empty, too long, or could be
// mistaken for paths when batches are unpacked to disk.
func ValidateTensorName(name string) error {
	if name == "" || name == metadataKey {
		return &ValidationError{Kind: ErrInvalidTensorName, Tensor: name, Details: "reserved or empty"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Kind:    ErrInvalidTensorName,
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{Kind: ErrInvalidTensorName, Tensor: name, Details: "contains '..'"}
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return &ValidationError{Kind: ErrInvalidTensorName, Tensor: name, Details: "contains a path separator or null byte"}
	}
	return nil
}
