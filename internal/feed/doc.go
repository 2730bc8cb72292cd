// Package feed turns preprocessed arrays into what a training loop consumes:
// min-max scaled float32 inputs, labels cast to the right element type, and
// batch iterators that yield gomlx tensors.
//
// Example:
//
//	train, test, err := feed.NewSegmentationLoaders(ds, 0, feed.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for {
//	    _, inputs, labels, err := train.Yield()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package feed
