package feed

import (
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dataprep/internal/preproc"
	"github.com/born-ml/dataprep/internal/tensor"
)

// samples builds n samples of shape (1, 2, 2) whose elements equal the
// sample index, and labels equal to index % classes.
func samples(t *testing.T, n, classes int) (data, labels *tensor.RawTensor) {
	t.Helper()
	d := make([]float64, n*4)
	for i := range d {
		d[i] = float64(i / 4)
	}
	l := make([]uint8, n)
	for i := range l {
		l[i] = uint8(i % classes)
	}
	data, err := tensor.FromSlice(d, tensor.Shape{n, 1, 2, 2})
	require.NoError(t, err)
	labels, err = tensor.FromSlice(l, tensor.Shape{n})
	require.NoError(t, err)
	return data, labels
}

// drain collects the first element of every batch until io.EOF.
func drain(t *testing.T, l *Loader) (firsts []float32, sizes []int) {
	t.Helper()
	for {
		data, _, err := l.Next()
		if err == io.EOF {
			return firsts, sizes
		}
		require.NoError(t, err)
		for i := 0; i < data.Len(); i++ {
			firsts = append(firsts, data.AsFloat32()[i*4])
		}
		sizes = append(sizes, data.Len())
	}
}

func TestLoader_Sequential(t *testing.T) {
	data, labels := samples(t, 10, 3)

	l, err := NewLoader(data, labels, LoaderConfig{Name: "test", BatchSize: 4})
	require.NoError(t, err)
	assert.Equal(t, "test", l.Name())
	assert.Equal(t, 3, l.Len())

	firsts, sizes := drain(t, l)
	assert.Equal(t, []int{4, 4, 2}, sizes)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, firsts)
}

func TestLoader_DropLast(t *testing.T) {
	data, labels := samples(t, 10, 3)

	l, err := NewLoader(data, labels, LoaderConfig{BatchSize: 4, DropLast: true})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())

	_, sizes := drain(t, l)
	assert.Equal(t, []int{4, 4}, sizes)
}

func TestLoader_ShuffleCoversEverySampleOnce(t *testing.T) {
	data, labels := samples(t, 50, 5)

	l, err := NewLoader(data, labels, LoaderConfig{BatchSize: 8, Shuffle: true, Seed: 7})
	require.NoError(t, err)

	first, _ := drain(t, l)
	l.Reset()
	second, _ := drain(t, l)

	for _, epoch := range [][]float32{first, second} {
		got := append([]float32(nil), epoch...)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		want := make([]float32, 50)
		for i := range want {
			want[i] = float32(i)
		}
		assert.Equal(t, want, got)
	}
	assert.NotEqual(t, first, second, "epochs should be reshuffled")
}

func TestLoader_LabelsFollowData(t *testing.T) {
	data, labels := samples(t, 12, 4)

	l, err := NewLoader(data, labels, LoaderConfig{BatchSize: 5, Shuffle: true, Seed: 3, Labels: CategoricalLabels})
	require.NoError(t, err)

	for {
		d, lab, err := l.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Equal(t, tensor.Int64, lab.DType())
		for i := 0; i < d.Len(); i++ {
			idx := int64(d.AsFloat32()[i*4])
			assert.Equal(t, idx%4, lab.AsInt64()[i])
		}
	}
}

func TestLoader_Yield(t *testing.T) {
	data, labels := samples(t, 6, 2)

	l, err := NewLoader(data, labels, LoaderConfig{BatchSize: 3, Labels: ContinuousLabels})
	require.NoError(t, err)

	spec, inputs, outs, err := l.Yield()
	require.NoError(t, err)
	assert.Same(t, l, spec)
	require.Len(t, inputs, 1)
	require.Len(t, outs, 1)
	assert.Equal(t, []int{3, 1, 2, 2}, inputs[0].Shape().Dimensions)
	assert.Equal(t, []int{3}, outs[0].Shape().Dimensions)

	_, _, _, err = l.Yield()
	require.NoError(t, err)
	_, _, _, err = l.Yield()
	assert.Equal(t, io.EOF, err)
}

func TestLoader_Unlabeled(t *testing.T) {
	data, _ := samples(t, 4, 2)

	l, err := NewLoader(data, nil, LoaderConfig{BatchSize: 2})
	require.NoError(t, err)

	_, inputs, outs, err := l.Yield()
	require.NoError(t, err)
	assert.Len(t, inputs, 1)
	assert.Empty(t, outs)
}

func TestNewLoader_Errors(t *testing.T) {
	data, labels := samples(t, 4, 2)
	short, _ := samples(t, 3, 2)

	_, err := NewLoader(data, labels, LoaderConfig{BatchSize: 0})
	assert.Error(t, err)

	_, err = NewLoader(nil, labels, LoaderConfig{BatchSize: 2})
	assert.Error(t, err)

	_, err = NewLoader(data, short, LoaderConfig{BatchSize: 2})
	assert.Error(t, err)
}

func TestNewSegmentationLoaders(t *testing.T) {
	trainX, trainY := samples(t, 10, 2)
	testX, testY := samples(t, 5, 2)
	ds := preproc.Dataset{TrainData: trainX, TrainLabels: trainY, TestData: testX, TestLabels: testY}

	train, test, err := NewSegmentationLoaders(ds, 0, Config{BatchSize: 4, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, train.Len())
	assert.Equal(t, 1, test.Len())

	_, lab, err := train.Next()
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, lab.DType(), "binary masks become float targets")

	multiX, multiY := samples(t, 10, 3)
	ds = preproc.Dataset{TrainData: multiX, TrainLabels: multiY, TestData: multiX, TestLabels: multiY}
	train, _, err = NewSegmentationLoaders(ds, 0, Config{BatchSize: 4})
	require.NoError(t, err)
	_, lab, err = train.Next()
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, lab.DType(), "categorical masks become class indices")
}

func TestNewSegmentationLoaders_InvalidLabels(t *testing.T) {
	data, _ := samples(t, 4, 2)
	bad := tensor.MustFromSlice([]uint8{1, 2, 1, 2}, tensor.Shape{4})
	ds := preproc.Dataset{TrainData: data, TrainLabels: bad, TestData: data, TestLabels: bad}

	_, _, err := NewSegmentationLoaders(ds, 0, DefaultConfig())
	assert.ErrorIs(t, err, preproc.ErrInvalidLabelEncoding)
}

func TestNewImSpecLoaders(t *testing.T) {
	trainX, _ := samples(t, 10, 2)
	trainY := tensor.MustFromSlice(make([]float64, 10*16), tensor.Shape{10, 1, 16})
	ds := preproc.Dataset{TrainData: trainX, TrainLabels: trainY, TestData: trainX, TestLabels: trainY}

	train, test, err := NewImSpecLoaders(ds, Config{BatchSize: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, train.Len())
	assert.Equal(t, 3, test.Len())

	_, lab, err := test.Next()
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, lab.DType())
	assert.Equal(t, tensor.Shape{4, 1, 16}, lab.Shape())
}

func TestNewVAELoaders(t *testing.T) {
	trainX, trainY := samples(t, 6, 3)
	testX, _ := samples(t, 4, 3)

	train, test, err := NewVAELoaders(trainX, testX, trainY, nil, Config{BatchSize: 2})
	require.NoError(t, err)

	_, lab, err := train.Next()
	require.NoError(t, err)
	assert.Nil(t, lab, "labels are only attached when both splits have them")

	_, _, err = test.Next()
	require.NoError(t, err)
}
