package preproc

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/dataprep/internal/tensor"
)

// Mode selects which rank normalizer the pipeline applies.
type Mode int

// Pipeline modes.
const (
	// ImageMask pairs images with segmentation masks. The class count is
	// inferred from the training masks.
	ImageMask Mode = iota
	// DataSpectrum pairs images with spectra (in either direction). No
	// class count is inferred.
	DataSpectrum
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ImageMask:
		return "image-mask"
	case DataSpectrum:
		return "data-spectrum"
	default:
		return "unknown"
	}
}

// Config controls a Pipeline.
type Config struct {
	BatchSize int        // Samples per batch, must be positive.
	Mode      Mode       // Which rank normalizer to apply.
	Notify    NotifyFunc // Receives channel-insertion notices; nil disables.
}

// DefaultConfig returns an image/mask configuration that logs notices.
func DefaultConfig(batchSize int) Config {
	return Config{
		BatchSize: batchSize,
		Mode:      ImageMask,
		Notify:    LogNotice,
	}
}

// Result is the output of a pipeline run.
type Result struct {
	Batches
	// ClassCount is the inferred class count in ImageMask mode and 0 in
	// DataSpectrum mode.
	ClassCount int
	// Notices lists every implicit channel insertion, in order.
	Notices []Notice
}

// Pipeline turns four raw arrays into batched train/test sequences.
// A Pipeline holds no state between runs and is safe for concurrent use
// as long as callers do not mutate the input arrays during a run.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline after validating the configuration.
func New(cfg Config) (*Pipeline, error) {
	if cfg.BatchSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidBatchSize, "got %d", cfg.BatchSize)
	}
	if cfg.Mode != ImageMask && cfg.Mode != DataSpectrum {
		return nil, errors.Errorf("unknown pipeline mode %d", cfg.Mode)
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run preprocesses training and test arrays.
//
// All four inputs must be arrays (*tensor.RawTensor or a gomlx
// *tensors.Tensor); anything else fails with ErrInvalidInputType before
// any work is done. In ImageMask mode the class count is inferred from
// the training labels only; test labels are assumed to share it.
func (p *Pipeline) Run(trainData, trainLabels, testData, testLabels any) (*Result, error) {
	ds, err := datasetFromAny(trainData, trainLabels, testData, testLabels)
	if err != nil {
		return nil, err
	}

	var (
		classCount int
		notices    []Notice
	)
	switch p.cfg.Mode {
	case ImageMask:
		if classCount, err = InferClassCount(ds.TrainLabels); err != nil {
			return nil, errors.WithMessage(err, "training labels")
		}
		ds, notices, err = NormalizeImageMaskRanks(ds, classCount)
	case DataSpectrum:
		ds, notices, err = NormalizeDataSpectrumRanks(ds)
	}
	if err != nil {
		return nil, err
	}
	if p.cfg.Notify != nil {
		for _, n := range notices {
			p.cfg.Notify(n)
		}
	}

	batches, err := BatchAligned(ds, p.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	klog.V(1).InfoS("preprocessed dataset",
		"mode", p.cfg.Mode,
		"classCount", classCount,
		"batchSize", p.cfg.BatchSize,
		"trainBatches", batches.NumTrain(),
		"testBatches", batches.NumTest())

	return &Result{
		Batches:    batches,
		ClassCount: classCount,
		Notices:    notices,
	}, nil
}

// RunPreprocessingPipeline runs the image/mask pipeline with default
// settings: class count inference, channel insertion, and batching.
//
// Example:
//
//	res, err := preproc.RunPreprocessingPipeline(xTrain, yTrain, xTest, yTest, 32)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.ClassCount, res.NumTrain())
func RunPreprocessingPipeline(imagesTrain, labelsTrain, imagesTest, labelsTest any, batchSize int) (*Result, error) {
	p, err := New(DefaultConfig(batchSize))
	if err != nil {
		return nil, err
	}
	return p.Run(imagesTrain, labelsTrain, imagesTest, labelsTest)
}

// RunSpectrumPipeline runs the data/spectrum pipeline with default
// settings. The returned ClassCount is always 0.
func RunSpectrumPipeline(dataTrain, spectraTrain, dataTest, spectraTest any, batchSize int) (*Result, error) {
	cfg := DefaultConfig(batchSize)
	cfg.Mode = DataSpectrum
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return p.Run(dataTrain, spectraTrain, dataTest, spectraTest)
}

// datasetFromAny checks that every input is an array and converts it.
func datasetFromAny(trainData, trainLabels, testData, testLabels any) (Dataset, error) {
	inputs := []any{trainData, trainLabels, testData, testLabels}
	arrays := make([]*tensor.RawTensor, len(inputs))
	for i, in := range inputs {
		a, err := asArray(in)
		if err != nil {
			return Dataset{}, errors.WithMessagef(err, "input %d", i)
		}
		arrays[i] = a
	}
	return Dataset{
		TrainData:   arrays[0],
		TrainLabels: arrays[1],
		TestData:    arrays[2],
		TestLabels:  arrays[3],
	}, nil
}

func asArray(v any) (*tensor.RawTensor, error) {
	switch t := v.(type) {
	case *tensor.RawTensor:
		if t == nil {
			return nil, errors.Wrap(ErrInvalidInputType, "nil array")
		}
		return t, nil
	case *tensors.Tensor:
		if t == nil {
			return nil, errors.Wrap(ErrInvalidInputType, "nil gomlx tensor")
		}
		raw, err := tensor.FromGomlx(t)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInputType, err.Error())
		}
		return raw, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInputType, "got %T", v)
	}
}
