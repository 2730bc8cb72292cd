// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package feed turns preprocessed arrays into epoch iterators for training.
//
// Loaders satisfy the gomlx train.Dataset interface through Yield, so they
// can be handed to a gomlx training loop directly.
//
// Example:
//
//	train, test, err := feed.NewSegmentationLoaders(ds, 0, feed.DefaultConfig())
//	for {
//	    x, y, err := train.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package feed

import (
	"github.com/born-ml/dataprep/internal/feed"
	"github.com/born-ml/dataprep/internal/preproc"
	"github.com/born-ml/dataprep/internal/tensor"
)

// Type aliases for public API.
type (
	// Loader iterates over (data, labels) batches.
	Loader = feed.Loader

	// LoaderConfig configures a single Loader.
	LoaderConfig = feed.LoaderConfig

	// LabelKind selects the dtype labels are cast to.
	LabelKind = feed.LabelKind

	// Config configures the paired train/test loader constructors.
	Config = feed.Config
)

// Label kinds.
const (
	NativeLabels      = feed.NativeLabels
	CategoricalLabels = feed.CategoricalLabels
	ContinuousLabels  = feed.ContinuousLabels
)

// Errors.
var (
	ErrZeroRange       = feed.ErrZeroRange
	ErrUnexpectedShape = feed.ErrUnexpectedShape
)

// DefaultConfig returns batch size 100 and seed 1.
func DefaultConfig() Config {
	return feed.DefaultConfig()
}

// NewLoader creates a Loader over data and optional labels.
func NewLoader(data, labels *tensor.RawTensor, cfg LoaderConfig) (*Loader, error) {
	return feed.NewLoader(data, labels, cfg)
}

// NewSegmentationLoaders builds image/mask loaders. A classCount <= 0 is
// inferred from the training masks.
func NewSegmentationLoaders(ds preproc.Dataset, classCount int, cfg Config) (train, test *Loader, err error) {
	return feed.NewSegmentationLoaders(ds, classCount, cfg)
}

// NewImSpecLoaders builds image/spectrum loaders with float32 targets.
func NewImSpecLoaders(ds preproc.Dataset, cfg Config) (train, test *Loader, err error) {
	return feed.NewImSpecLoaders(ds, cfg)
}

// NewVAELoaders builds loaders for autoencoder training. Labels are attached
// only when both splits provide them.
func NewVAELoaders(trainData, testData, trainLabels, testLabels *tensor.RawTensor, cfg Config) (train, test *Loader, err error) {
	return feed.NewVAELoaders(trainData, testData, trainLabels, testLabels, cfg)
}

// MinMaxScale rescales x to [0, 1] as float32.
func MinMaxScale(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return feed.MinMaxScale(x)
}

// FormatImage scales images and ensures a channel axis at position 1.
func FormatImage(images *tensor.RawTensor) (*tensor.RawTensor, error) {
	return feed.FormatImage(images)
}

// FormatSpectra scales spectra and ensures a channel axis at position 1.
func FormatSpectra(spectra *tensor.RawTensor) (*tensor.RawTensor, error) {
	return feed.FormatSpectra(spectra)
}
