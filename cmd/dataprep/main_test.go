package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dataprep/internal/npy"
	"github.com/born-ml/dataprep/internal/serialization"
	"github.com/born-ml/dataprep/internal/tensor"
)

// writeInputs stores a small binary segmentation dataset as .npy files.
func writeInputs(t *testing.T, dir string) []string {
	t.Helper()
	images, err := tensor.NewRaw(tensor.Shape{10, 4, 4}, tensor.Float32)
	require.NoError(t, err)
	labels := make([]uint8, 10*16)
	for i := range labels {
		labels[i] = uint8(i % 2)
	}
	masks := tensor.MustFromSlice(labels, tensor.Shape{10, 4, 4})

	paths := make([]string, 4)
	for i, x := range []*tensor.RawTensor{images, masks, images, masks} {
		paths[i] = filepath.Join(dir, []string{"xtr", "ytr", "xte", "yte"}[i]+".npy")
		require.NoError(t, npy.WriteFile(paths[i], x))
	}
	return paths
}

func TestRunExport_Safetensors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	args := append([]string{"-batch", "4", "-out", out, "-format", "safetensors"}, writeInputs(t, dir)...)

	require.NoError(t, runExport(args))

	a, err := serialization.ReadFile(filepath.Join(out, "batches.safetensors"))
	require.NoError(t, err)
	assert.Equal(t, "1", a.Metadata["class_count"])
	assert.Equal(t, []string{
		"test_data.0000", "test_data.0001",
		"test_labels.0000", "test_labels.0001",
		"train_data.0000", "train_data.0001",
		"train_labels.0000", "train_labels.0001",
	}, a.Names())
	assert.Equal(t, tensor.Shape{4, 1, 4, 4}, a.Tensors["train_labels.0001"].Shape())
}

func TestRunExport_Npy(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	args := append([]string{"-batch", "5", "-out", out}, writeInputs(t, dir)...)

	require.NoError(t, runExport(args))

	x, err := npy.ReadFile(filepath.Join(out, "test_data.0001.npy"))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{5, 1, 4, 4}, x.Shape())
}

func TestParseFlags_Errors(t *testing.T) {
	_, _, err := parseFlags("inspect", []string{"a.npy"}, false)
	assert.Error(t, err)

	opts, paths, err := parseFlags("inspect", []string{"-mode", "spectrum", "a", "b", "c", "d"}, false)
	require.NoError(t, err)
	assert.Equal(t, "spectrum", opts.mode)
	assert.Len(t, paths, 4)
}
