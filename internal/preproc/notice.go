package preproc

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/dataprep/internal/tensor"
)

// Split identifies the training or the test half of a Dataset.
type Split int

// Dataset splits.
const (
	Train Split = iota
	Test
)

// String returns "training" or "test".
func (s Split) String() string {
	if s == Train {
		return "training"
	}
	return "test"
}

// Role names what an array holds, for diagnostics.
type Role int

// Array roles.
const (
	Images Role = iota
	Labels
	Spectra
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case Images:
		return "images"
	case Labels:
		return "labels"
	case Spectra:
		return "spectra"
	default:
		return "arrays"
	}
}

// Notice records one implicit channel-axis insertion. Notices are
// warnings: the insertion already happened and processing continued.
type Notice struct {
	Split  Split
	Role   Role
	Axis   int
	Before tensor.Shape
	After  tensor.Shape
}

// String renders the notice the way it is logged.
func (n Notice) String() string {
	return fmt.Sprintf("adding a channel dimension of 1 to %s %s: %v -> %v",
		n.Split, n.Role, n.Before, n.After)
}

// NotifyFunc receives notices as they are produced.
type NotifyFunc func(Notice)

// LogNotice is the default NotifyFunc. It logs the notice at warning level.
func LogNotice(n Notice) {
	klog.Warning(n.String())
}

// expandChannel inserts the channel axis into x and records the notice.
func expandChannel(x *tensor.RawTensor, split Split, role Role, notices *[]Notice) (*tensor.RawTensor, error) {
	y, err := tensor.ExpandDims(x, channelAxis)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s %s", split, role)
	}
	*notices = append(*notices, Notice{
		Split:  split,
		Role:   role,
		Axis:   channelAxis,
		Before: x.Shape(),
		After:  y.Shape(),
	})
	return y, nil
}
