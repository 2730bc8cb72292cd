package preproc

import (
	"github.com/pkg/errors"

	"github.com/born-ml/dataprep/internal/tensor"
)

// Batches holds the batched form of a Dataset. Within each split the data
// and label sequences have the same length, and every chunk has exactly
// batchSize samples on axis 0.
type Batches struct {
	TrainData   []*tensor.RawTensor
	TrainLabels []*tensor.RawTensor
	TestData    []*tensor.RawTensor
	TestLabels  []*tensor.RawTensor
}

// NumTrain returns the number of training batches.
func (b Batches) NumTrain() int { return len(b.TrainData) }

// NumTest returns the number of test batches.
func (b Batches) NumTest() int { return len(b.TestData) }

// BatchAligned splits each data/label pair into chunks of batchSize
// samples along axis 0.
//
// For each pair, n = samples / batchSize (integer division); both arrays
// are truncated to n*batchSize samples and cut into n contiguous chunks in
// sample order. The remainder (fewer than batchSize samples) is dropped.
// Train and test are batched independently, so their batch counts may
// differ. A batchSize larger than the sample count gives zero batches.
//
// Example:
//
//	105 training samples, batchSize 10 -> 10 chunks of 10, 5 samples dropped
func BatchAligned(ds Dataset, batchSize int) (Batches, error) {
	if err := ds.validate(); err != nil {
		return Batches{}, err
	}
	if batchSize <= 0 {
		return Batches{}, errors.Wrapf(ErrInvalidBatchSize, "got %d", batchSize)
	}

	var (
		out Batches
		err error
	)
	out.TrainData, out.TrainLabels, err = batchPair(ds.TrainData, ds.TrainLabels, batchSize)
	if err != nil {
		return Batches{}, errors.WithMessage(err, Train.String())
	}
	out.TestData, out.TestLabels, err = batchPair(ds.TestData, ds.TestLabels, batchSize)
	if err != nil {
		return Batches{}, errors.WithMessage(err, Test.String())
	}
	return out, nil
}

// batchPair applies the truncate-and-split policy to one aligned pair.
func batchPair(data, labels *tensor.RawTensor, batchSize int) (dataChunks, labelChunks []*tensor.RawTensor, err error) {
	if data.Rank() == 0 {
		return nil, nil, errors.Wrap(ErrInvalidRank, "data")
	}
	if labels.Rank() == 0 {
		return nil, nil, errors.Wrap(ErrInvalidRank, "labels")
	}
	if data.Len() != labels.Len() {
		return nil, nil, errors.Wrapf(ErrMisalignedPair, "%d data samples vs %d labels", data.Len(), labels.Len())
	}

	n := data.Len() / batchSize
	if n == 0 {
		return nil, nil, nil
	}

	if dataChunks, err = truncateAndChunk(data, n, batchSize); err != nil {
		return nil, nil, errors.WithMessage(err, "data")
	}
	if labelChunks, err = truncateAndChunk(labels, n, batchSize); err != nil {
		return nil, nil, errors.WithMessage(err, "labels")
	}
	return dataChunks, labelChunks, nil
}

func truncateAndChunk(x *tensor.RawTensor, n, batchSize int) ([]*tensor.RawTensor, error) {
	kept, err := tensor.Narrow(x, 0, n*batchSize)
	if err != nil {
		return nil, err
	}
	return tensor.Chunk(kept, n)
}
