package preproc

import (
	"github.com/pkg/errors"

	"github.com/born-ml/dataprep/internal/tensor"
)

// channelAxis is where an implicit channel dimension is inserted:
// right after the sample axis, giving (sample, channel, ...).
const channelAxis = 1

// Dataset groups the four arrays that move through preprocessing together.
// Arrays are never modified; operations return a new Dataset.
type Dataset struct {
	TrainData   *tensor.RawTensor
	TrainLabels *tensor.RawTensor
	TestData    *tensor.RawTensor
	TestLabels  *tensor.RawTensor
}

// validate checks that all four arrays are present.
func (d Dataset) validate() error {
	for _, a := range []struct {
		name string
		t    *tensor.RawTensor
	}{
		{"training data", d.TrainData},
		{"training labels", d.TrainLabels},
		{"test data", d.TestData},
		{"test labels", d.TestLabels},
	} {
		if a.t == nil {
			return errors.Wrapf(ErrInvalidInputType, "%s is nil", a.name)
		}
	}
	return nil
}

// NormalizeImageMaskRanks inserts a channel axis of size 1 where image and
// mask arrays omit it.
//
// Data arrays of rank 3, (sample, height, width), always become
// (sample, 1, height, width). Label arrays of rank 3 gain the same axis
// only when classCount is 1: a single-channel target must match the data
// layout, while categorical masks hold class indices without a channel
// axis and keep their rank.
//
// Every insertion is returned as a Notice; none of them is an error.
func NormalizeImageMaskRanks(ds Dataset, classCount int) (Dataset, []Notice, error) {
	if err := ds.validate(); err != nil {
		return Dataset{}, nil, err
	}

	var (
		out     = ds
		notices []Notice
		err     error
	)
	if ds.TrainData.Rank() == 3 {
		if out.TrainData, err = expandChannel(ds.TrainData, Train, Images, &notices); err != nil {
			return Dataset{}, nil, err
		}
	}
	if ds.TestData.Rank() == 3 {
		if out.TestData, err = expandChannel(ds.TestData, Test, Images, &notices); err != nil {
			return Dataset{}, nil, err
		}
	}
	if classCount == binaryClassCount && ds.TrainLabels.Rank() == 3 {
		if out.TrainLabels, err = expandChannel(ds.TrainLabels, Train, Labels, &notices); err != nil {
			return Dataset{}, nil, err
		}
	}
	if classCount == binaryClassCount && ds.TestLabels.Rank() == 3 {
		if out.TestLabels, err = expandChannel(ds.TestLabels, Test, Labels, &notices); err != nil {
			return Dataset{}, nil, err
		}
	}
	return out, notices, nil
}

// NormalizeDataSpectrumRanks inserts a channel axis of size 1 into paired
// image and spectrum arrays, driven by which side of the training pair has
// the higher rank:
//
//   - data rank > labels rank: rank-3 data (images) and rank-2 labels
//     (spectra) gain the axis.
//   - data rank < labels rank: rank-2 data (spectra) and rank-3 labels
//     (images) gain the axis.
//   - equal ranks: nothing changes.
//
// The test pair follows the training comparison, but each test array is
// expanded based on its own rank.
func NormalizeDataSpectrumRanks(ds Dataset) (Dataset, []Notice, error) {
	if err := ds.validate(); err != nil {
		return Dataset{}, nil, err
	}

	var dataRank, labelRank int
	switch {
	case ds.TrainData.Rank() > ds.TrainLabels.Rank():
		dataRank, labelRank = 3, 2
	case ds.TrainData.Rank() < ds.TrainLabels.Rank():
		dataRank, labelRank = 2, 3
	default:
		return ds, nil, nil
	}

	// The rank-3 side holds images, the rank-2 side spectra.
	dataRole, labelRole := Images, Spectra
	if dataRank == 2 {
		dataRole, labelRole = Spectra, Images
	}

	var (
		out     = ds
		notices []Notice
		err     error
	)
	steps := []struct {
		dst   **tensor.RawTensor
		src   *tensor.RawTensor
		rank  int
		split Split
		role  Role
	}{
		{&out.TrainData, ds.TrainData, dataRank, Train, dataRole},
		{&out.TestData, ds.TestData, dataRank, Test, dataRole},
		{&out.TrainLabels, ds.TrainLabels, labelRank, Train, labelRole},
		{&out.TestLabels, ds.TestLabels, labelRank, Test, labelRole},
	}
	for _, s := range steps {
		if s.src.Rank() != s.rank {
			continue
		}
		if *s.dst, err = expandChannel(s.src, s.split, s.role, &notices); err != nil {
			return Dataset{}, nil, err
		}
	}
	return out, notices, nil
}
