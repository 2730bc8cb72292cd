package feed

import (
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"

	"github.com/born-ml/dataprep/internal/tensor"
)

// LabelKind decides the element type labels are cast to before batching.
type LabelKind int

// Label kinds.
const (
	// NativeLabels keeps the labels' own dtype.
	NativeLabels LabelKind = iota
	// CategoricalLabels casts labels to int64 class indices.
	CategoricalLabels
	// ContinuousLabels casts labels to float32 targets.
	ContinuousLabels
)

// LoaderConfig controls a single Loader.
type LoaderConfig struct {
	Name      string    // Reported by Name().
	BatchSize int       // Samples per yielded batch, must be positive.
	Shuffle   bool      // Reshuffle sample order on every Reset.
	DropLast  bool      // Skip a final batch smaller than BatchSize.
	Seed      int64     // Seed for the shuffle order.
	Labels    LabelKind // How labels are cast.
}

// Loader iterates over aligned data and labels in fixed-size batches.
//
// Data is held as float32; labels are cast according to LabelKind. A
// Loader without labels yields data only, which is what autoencoders
// train on.
//
// Loader satisfies gomlx's train.Dataset (Name, Reset, Yield), so it can
// be handed directly to a gomlx training loop. It is not safe for
// concurrent use.
type Loader struct {
	cfg    LoaderConfig
	data   *tensor.RawTensor
	labels *tensor.RawTensor // nil when unlabeled
	rng    *rand.Rand
	order  []int
	pos    int
}

// NewLoader creates a loader over data and (optionally) labels. The
// sample order is shuffled immediately when cfg.Shuffle is set.
func NewLoader(data, labels *tensor.RawTensor, cfg LoaderConfig) (*Loader, error) {
	if cfg.BatchSize <= 0 {
		return nil, errors.Errorf("loader %q: batch size must be positive, got %d", cfg.Name, cfg.BatchSize)
	}
	if data == nil || data.Rank() == 0 {
		return nil, errors.Errorf("loader %q: data must have a sample axis", cfg.Name)
	}
	if labels != nil && (labels.Rank() == 0 || labels.Len() != data.Len()) {
		return nil, errors.Errorf("loader %q: %d data samples but labels have shape %v", cfg.Name, data.Len(), labels.Shape())
	}

	fdata, err := tensor.Cast(data, tensor.Float32)
	if err != nil {
		return nil, errors.WithMessagef(err, "loader %q", cfg.Name)
	}
	if labels != nil {
		if labels, err = castLabels(labels, cfg.Labels); err != nil {
			return nil, errors.WithMessagef(err, "loader %q", cfg.Name)
		}
	}

	l := &Loader{
		cfg:    cfg,
		data:   fdata,
		labels: labels,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		order:  make([]int, data.Len()),
	}
	for i := range l.order {
		l.order[i] = i
	}
	l.Reset()
	return l, nil
}

func castLabels(labels *tensor.RawTensor, kind LabelKind) (*tensor.RawTensor, error) {
	switch kind {
	case CategoricalLabels:
		return tensor.Cast(labels, tensor.Int64)
	case ContinuousLabels:
		return tensor.Cast(labels, tensor.Float32)
	default:
		return labels, nil
	}
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return l.cfg.Name
}

// Len returns the number of batches per epoch.
func (l *Loader) Len() int {
	n := l.data.Len()
	if l.cfg.DropLast {
		return n / l.cfg.BatchSize
	}
	return (n + l.cfg.BatchSize - 1) / l.cfg.BatchSize
}

// Reset starts a new epoch, reshuffling when configured.
func (l *Loader) Reset() {
	l.pos = 0
	if l.cfg.Shuffle {
		l.rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
}

// Next returns the next batch. labels is nil for an unlabeled loader.
// At the end of the epoch it returns io.EOF; call Reset to start over.
func (l *Loader) Next() (data, labels *tensor.RawTensor, err error) {
	remaining := len(l.order) - l.pos
	if remaining <= 0 || (l.cfg.DropLast && remaining < l.cfg.BatchSize) {
		return nil, nil, io.EOF
	}

	idx := l.order[l.pos:min(l.pos+l.cfg.BatchSize, len(l.order))]
	l.pos += len(idx)

	if data, err = tensor.Take(l.data, idx); err != nil {
		return nil, nil, err
	}
	if l.labels != nil {
		if labels, err = tensor.Take(l.labels, idx); err != nil {
			return nil, nil, err
		}
	}
	return data, labels, nil
}

// Yield implements gomlx train.Dataset. It returns the next batch as
// gomlx tensors, with the loader itself as spec.
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	data, lab, err := l.Next()
	if err != nil {
		return nil, nil, nil, err
	}
	inputs = []*tensors.Tensor{data.ToGomlx()}
	if lab != nil {
		labels = []*tensors.Tensor{lab.ToGomlx()}
	}
	return l, inputs, labels, nil
}
