// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package preproc prepares paired training and test arrays for a model.
//
// A pipeline run:
//   - infers the class count from the training labels (ImageMask mode)
//   - inserts missing channel axes so data and labels agree on rank
//   - splits every array into equal, aligned batches along axis 0
//
// Example:
//
//	res, err := preproc.RunPreprocessingPipeline(imagesTrain, masksTrain, imagesTest, masksTest, 32)
//	if err != nil {
//	    return err
//	}
//	for i := range res.TrainData {
//	    step(res.TrainData[i], res.TrainLabels[i])
//	}
package preproc

import (
	"github.com/born-ml/dataprep/internal/preproc"
	"github.com/born-ml/dataprep/internal/tensor"
)

// Type aliases for public API.
type (
	// Dataset groups the four arrays of a train/test split.
	Dataset = preproc.Dataset

	// Batches holds aligned per-batch arrays for both splits.
	Batches = preproc.Batches

	// Result is the outcome of a pipeline run.
	Result = preproc.Result

	// Config configures a Pipeline.
	Config = preproc.Config

	// Mode selects the rank normalization rules.
	Mode = preproc.Mode

	// Pipeline runs class inference, rank normalization and batching.
	Pipeline = preproc.Pipeline

	// Notice describes one channel axis inserted during normalization.
	Notice = preproc.Notice

	// NotifyFunc receives notices as they are produced.
	NotifyFunc = preproc.NotifyFunc

	// Split identifies the training or test half of a Dataset.
	Split = preproc.Split

	// Role names what an array holds.
	Role = preproc.Role

	// LabelEncodingError reports why labels are not 0..k-1.
	LabelEncodingError = preproc.LabelEncodingError
)

// Pipeline modes.
const (
	ImageMask    = preproc.ImageMask
	DataSpectrum = preproc.DataSpectrum
)

// Splits and roles.
const (
	Train = preproc.Train
	Test  = preproc.Test

	Images  = preproc.Images
	Labels  = preproc.Labels
	Spectra = preproc.Spectra
)

// Errors.
var (
	ErrInvalidLabelEncoding = preproc.ErrInvalidLabelEncoding
	ErrInvalidInputType     = preproc.ErrInvalidInputType
	ErrInvalidBatchSize     = preproc.ErrInvalidBatchSize
	ErrInvalidRank          = preproc.ErrInvalidRank
	ErrMisalignedPair       = preproc.ErrMisalignedPair
)

// DefaultConfig returns an ImageMask config that logs notices via klog.
func DefaultConfig(batchSize int) Config {
	return preproc.DefaultConfig(batchSize)
}

// New creates a Pipeline after validating cfg.
func New(cfg Config) (*Pipeline, error) {
	return preproc.New(cfg)
}

// LogNotice writes n as a klog warning.
func LogNotice(n Notice) {
	preproc.LogNotice(n)
}

// InferClassCount returns the number of classes encoded in labels.
// Labels must hold exactly the integers 0..k-1; two classes report 1.
func InferClassCount(labels *tensor.RawTensor) (int, error) {
	return preproc.InferClassCount(labels)
}

// NormalizeImageMaskRanks inserts channel axes for image/mask pairs.
func NormalizeImageMaskRanks(ds Dataset, classCount int) (Dataset, []Notice, error) {
	return preproc.NormalizeImageMaskRanks(ds, classCount)
}

// NormalizeDataSpectrumRanks inserts a channel axis on the lower-rank side
// of image/spectrum pairs.
func NormalizeDataSpectrumRanks(ds Dataset) (Dataset, []Notice, error) {
	return preproc.NormalizeDataSpectrumRanks(ds)
}

// BatchAligned splits every array of ds into batches of batchSize samples.
// Trailing samples that do not fill a batch are dropped.
func BatchAligned(ds Dataset, batchSize int) (Batches, error) {
	return preproc.BatchAligned(ds, batchSize)
}

// RunPreprocessingPipeline runs the ImageMask pipeline.
// Inputs must be *tensor.RawTensor or gomlx *tensors.Tensor.
func RunPreprocessingPipeline(imagesTrain, labelsTrain, imagesTest, labelsTest any, batchSize int) (*Result, error) {
	return preproc.RunPreprocessingPipeline(imagesTrain, labelsTrain, imagesTest, labelsTest, batchSize)
}

// RunSpectrumPipeline runs the DataSpectrum pipeline.
func RunSpectrumPipeline(dataTrain, spectraTrain, dataTest, spectraTest any, batchSize int) (*Result, error) {
	return preproc.RunSpectrumPipeline(dataTrain, spectraTrain, dataTest, spectraTest, batchSize)
}
