// Package preproc implements the shape-inference and batching core of the
// training data pipeline.
//
// It provides four pure operations and a Pipeline that composes them:
//
//   - InferClassCount: number of output classes implied by a label array
//   - NormalizeImageMaskRanks: channel-axis insertion for images and masks
//   - NormalizeDataSpectrumRanks: channel-axis insertion for images and spectra
//   - BatchAligned: remainder-dropping split of aligned arrays into batches
//
// Inputs are never modified. Implicit reshapes are reported as Notice
// values (and logged through klog by default), never as errors.
//
// Example:
//
//	res, err := preproc.RunPreprocessingPipeline(images, masks, testImages, testMasks, 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := range res.TrainData {
//	    train(res.TrainData[i], res.TrainLabels[i])
//	}
package preproc
