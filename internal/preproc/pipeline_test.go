package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dataprep/internal/tensor"
)

func TestRunPreprocessingPipeline_BinaryMasks(t *testing.T) {
	images := indexed(t, 20, 28, 28)
	masks := cyclic(t, tensor.Shape{20, 28, 28}, 0, 1)
	testImages := indexed(t, 10, 28, 28)
	testMasks := cyclic(t, tensor.Shape{10, 28, 28}, 1, 0)

	res, err := RunPreprocessingPipeline(images, masks, testImages, testMasks, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, res.ClassCount)
	require.Equal(t, 4, res.NumTrain())
	require.Equal(t, 2, res.NumTest())
	for i := range res.TrainData {
		assert.Equal(t, tensor.Shape{5, 1, 28, 28}, res.TrainData[i].Shape())
		assert.Equal(t, tensor.Shape{5, 1, 28, 28}, res.TrainLabels[i].Shape())
		assert.Equal(t, tensor.Int64, res.TrainLabels[i].DType(), "labels keep their dtype")
	}
	assert.Len(t, res.Notices, 4)

	// Caller's arrays are untouched.
	assert.Equal(t, tensor.Shape{20, 28, 28}, images.Shape())
	assert.Equal(t, tensor.Shape{20, 28, 28}, masks.Shape())
}

func TestRunPreprocessingPipeline_MultiClassMasks(t *testing.T) {
	images := indexed(t, 20, 28, 28)
	masks := cyclic(t, tensor.Shape{20, 28, 28}, 0, 1, 2, 3)
	testImages := indexed(t, 10, 28, 28)
	testMasks := cyclic(t, tensor.Shape{10, 28, 28}, 3, 2, 1, 0)

	res, err := RunPreprocessingPipeline(images, masks, testImages, testMasks, 5)
	require.NoError(t, err)

	assert.Equal(t, 4, res.ClassCount)
	require.Equal(t, 4, res.NumTrain())
	assert.Equal(t, tensor.Shape{5, 1, 28, 28}, res.TrainData[0].Shape())
	assert.Equal(t, tensor.Shape{5, 28, 28}, res.TrainLabels[0].Shape())
	assert.Equal(t, tensor.Shape{5, 28, 28}, res.TestLabels[0].Shape())
	assert.Len(t, res.Notices, 2)
}

func TestRunPreprocessingPipeline_InvalidLabels(t *testing.T) {
	images := indexed(t, 4, 3, 3)
	masks := cyclic(t, tensor.Shape{4, 3, 3}, 1, 2)

	res, err := RunPreprocessingPipeline(images, masks, images, masks, 2)
	assert.ErrorIs(t, err, ErrInvalidLabelEncoding)
	assert.Nil(t, res)
}

func TestRunPreprocessingPipeline_OnlyTrainLabelsChecked(t *testing.T) {
	images := indexed(t, 4, 3, 3)
	masks := cyclic(t, tensor.Shape{4, 3, 3}, 0, 1)
	badTestMasks := cyclic(t, tensor.Shape{4, 3, 3}, 5, 7)

	res, err := RunPreprocessingPipeline(images, masks, images, badTestMasks, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ClassCount)
}

func TestRunPreprocessingPipeline_InvalidInputType(t *testing.T) {
	images := indexed(t, 4, 3, 3)
	masks := cyclic(t, tensor.Shape{4, 3, 3}, 0, 1)

	tests := []struct {
		name   string
		inputs []any
	}{
		{"slice", []any{[]float32{1, 2}, masks, images, masks}},
		{"nil interface", []any{images, nil, images, masks}},
		{"typed nil", []any{images, masks, (*tensor.RawTensor)(nil), masks}},
		{"string", []any{images, masks, images, "masks.npy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunPreprocessingPipeline(tt.inputs[0], tt.inputs[1], tt.inputs[2], tt.inputs[3], 2)
			assert.ErrorIs(t, err, ErrInvalidInputType)
		})
	}
}

func TestRunPreprocessingPipeline_GomlxInputs(t *testing.T) {
	images := indexed(t, 6, 4, 4)
	masks := cyclic(t, tensor.Shape{6, 4, 4}, 0, 1, 2)

	res, err := RunPreprocessingPipeline(images.ToGomlx(), masks.ToGomlx(), images, masks, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ClassCount)
	assert.Equal(t, 2, res.NumTrain())
	assert.Equal(t, tensor.Shape{3, 1, 4, 4}, res.TrainData[0].Shape())
}

func TestRunSpectrumPipeline(t *testing.T) {
	images := indexed(t, 12, 8, 8)
	spectra := indexed(t, 12, 32)
	testImages := indexed(t, 7, 8, 8)
	testSpectra := indexed(t, 7, 32)

	res, err := RunSpectrumPipeline(images, spectra, testImages, testSpectra, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ClassCount)
	assert.Equal(t, 3, res.NumTrain())
	assert.Equal(t, 1, res.NumTest())
	assert.Equal(t, tensor.Shape{4, 1, 8, 8}, res.TrainData[0].Shape())
	assert.Equal(t, tensor.Shape{4, 1, 32}, res.TrainLabels[0].Shape())
}

func TestPipeline_NotifyHook(t *testing.T) {
	var got []Notice
	cfg := DefaultConfig(2)
	cfg.Notify = func(n Notice) { got = append(got, n) }

	p, err := New(cfg)
	require.NoError(t, err)

	images := indexed(t, 4, 3, 3)
	masks := cyclic(t, tensor.Shape{4, 1, 3, 3}, 0, 1)
	res, err := p.Run(images, masks, images, masks)
	require.NoError(t, err)

	assert.Equal(t, res.Notices, got)
	require.Len(t, got, 2)
	assert.Equal(t, Images, got[0].Role)
	assert.Equal(t, Test, got[1].Split)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{BatchSize: 0})
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = New(Config{BatchSize: 1, Mode: Mode(9)})
	assert.Error(t, err)

	p, err := New(Config{BatchSize: 8, Mode: DataSpectrum})
	require.NoError(t, err)
	assert.Equal(t, DataSpectrum, p.Config().Mode)
	assert.Equal(t, "data-spectrum", p.Config().Mode.String())
}
