package feed

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/dataprep/internal/preproc"
	"github.com/born-ml/dataprep/internal/tensor"
)

// Config holds the settings shared by a train/test loader pair.
type Config struct {
	BatchSize int   // Samples per batch.
	Seed      int64 // Shuffle seed for the training loader.
}

// DefaultConfig returns the default loader settings.
func DefaultConfig() Config {
	return Config{
		BatchSize: 100,
		Seed:      1,
	}
}

// NewSegmentationLoaders builds loaders for image/mask training.
//
// When classCount <= 0 it is inferred from the training labels. Labels
// are cast to int64 class indices when classCount > 1 and to float32
// otherwise. The training loader is shuffled; both loaders drop a final
// partial batch.
func NewSegmentationLoaders(ds preproc.Dataset, classCount int, cfg Config) (train, test *Loader, err error) {
	if ds.TrainLabels == nil || ds.TestLabels == nil {
		return nil, nil, errors.Wrap(preproc.ErrInvalidInputType, "segmentation loaders need labels")
	}
	if classCount <= 0 {
		if classCount, err = preproc.InferClassCount(ds.TrainLabels); err != nil {
			return nil, nil, err
		}
	}

	kind := ContinuousLabels
	if classCount > 1 {
		kind = CategoricalLabels
	}
	klog.V(1).InfoS("building segmentation loaders", "classCount", classCount, "batchSize", cfg.BatchSize)

	return newPair(ds, cfg, kind, true)
}

// NewImSpecLoaders builds loaders for image-to-spectrum (or
// spectrum-to-image) training. Data and labels are float32; the training
// loader is shuffled and partial batches are kept.
func NewImSpecLoaders(ds preproc.Dataset, cfg Config) (train, test *Loader, err error) {
	if ds.TrainLabels == nil || ds.TestLabels == nil {
		return nil, nil, errors.Wrap(preproc.ErrInvalidInputType, "im2spec loaders need labels")
	}
	return newPair(ds, cfg, ContinuousLabels, false)
}

// NewVAELoaders builds loaders for autoencoder training. Labels are
// attached only when both trainLabels and testLabels are given, and keep
// their own dtype. The training loader is shuffled.
func NewVAELoaders(trainData, testData, trainLabels, testLabels *tensor.RawTensor, cfg Config) (train, test *Loader, err error) {
	ds := preproc.Dataset{TrainData: trainData, TestData: testData}
	if trainLabels != nil && testLabels != nil {
		ds.TrainLabels, ds.TestLabels = trainLabels, testLabels
	}
	return newPair(ds, cfg, NativeLabels, false)
}

func newPair(ds preproc.Dataset, cfg Config, kind LabelKind, dropLast bool) (train, test *Loader, err error) {
	train, err = NewLoader(ds.TrainData, ds.TrainLabels, LoaderConfig{
		Name:      "train",
		BatchSize: cfg.BatchSize,
		Shuffle:   true,
		DropLast:  dropLast,
		Seed:      cfg.Seed,
		Labels:    kind,
	})
	if err != nil {
		return nil, nil, err
	}
	test, err = NewLoader(ds.TestData, ds.TestLabels, LoaderConfig{
		Name:      "test",
		BatchSize: cfg.BatchSize,
		DropLast:  dropLast,
		Labels:    kind,
	})
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
