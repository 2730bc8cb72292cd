// Package main provides the dataprep CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"k8s.io/klog/v2"

	"github.com/born-ml/dataprep/internal/npy"
	"github.com/born-ml/dataprep/internal/preproc"
	"github.com/born-ml/dataprep/internal/serialization"
	"github.com/born-ml/dataprep/internal/tensor"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("dataprep %s\n", version)
		return
	case "inspect":
		err = runInspect(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataprep: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("dataprep - shape inference and batching for training data")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                                         Show version")
	fmt.Println("  inspect [flags] X_train Y_train X_test Y_test   Run the pipeline and print the result")
	fmt.Println("  export  [flags] X_train Y_train X_test Y_test   Run the pipeline and write batches to disk")
}

// options holds the flags shared by inspect and export.
type options struct {
	batchSize int
	mode      string
	out       string
	format    string
}

func parseFlags(name string, args []string, withOut bool) (*options, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	klog.InitFlags(fs)

	opts := &options{}
	fs.IntVar(&opts.batchSize, "batch", 32, "samples per batch")
	fs.StringVar(&opts.mode, "mode", "image", "rank normalization: image (image/mask) or spectrum (data/spectrum)")
	if withOut {
		fs.StringVar(&opts.out, "out", "batches", "output directory")
		fs.StringVar(&opts.format, "format", "npy", "output format: npy (one file per batch) or safetensors (one archive)")
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() != 4 {
		return nil, nil, fmt.Errorf("%s: expected 4 .npy files, got %d", name, fs.NArg())
	}
	return opts, fs.Args(), nil
}

func runPipeline(opts *options, paths []string) (*preproc.Result, error) {
	cfg := preproc.DefaultConfig(opts.batchSize)
	switch opts.mode {
	case "image":
		cfg.Mode = preproc.ImageMask
	case "spectrum":
		cfg.Mode = preproc.DataSpectrum
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.mode)
	}
	p, err := preproc.New(cfg)
	if err != nil {
		return nil, err
	}

	arrays := make([]any, len(paths))
	for i, path := range paths {
		t, err := npy.ReadFile(path)
		if err != nil {
			return nil, err
		}
		klog.V(1).InfoS("loaded array", "path", path, "dtype", t.DType(), "shape", t.Shape())
		arrays[i] = t
	}
	return p.Run(arrays[0], arrays[1], arrays[2], arrays[3])
}

func runInspect(args []string) error {
	opts, paths, err := parseFlags("inspect", args, false)
	if err != nil {
		return err
	}
	res, err := runPipeline(opts, paths)
	if err != nil {
		return err
	}

	fmt.Printf("Class count:    %d\n", res.ClassCount)
	fmt.Printf("Channel inserts: %d\n", len(res.Notices))
	for _, n := range res.Notices {
		fmt.Printf("  %s\n", n)
	}
	printSplit("Train", res.TrainData, res.TrainLabels)
	printSplit("Test", res.TestData, res.TestLabels)
	return nil
}

func printSplit(name string, data, labels []*tensor.RawTensor) {
	if len(data) == 0 {
		fmt.Printf("%s: 0 batches\n", name)
		return
	}
	fmt.Printf("%s: %d batches of data %v, labels %v\n", name, len(data), data[0], labels[0])
}

func runExport(args []string) error {
	opts, paths, err := parseFlags("export", args, true)
	if err != nil {
		return err
	}
	res, err := runPipeline(opts, paths)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}

	named := batchNames(res)
	switch opts.format {
	case "npy":
		for name, b := range named {
			if err := npy.WriteFile(filepath.Join(opts.out, name+".npy"), b); err != nil {
				return err
			}
		}
	case "safetensors":
		meta := map[string]string{
			"mode":        opts.mode,
			"batch_size":  strconv.Itoa(opts.batchSize),
			"class_count": strconv.Itoa(res.ClassCount),
		}
		if err := serialization.WriteFile(filepath.Join(opts.out, "batches.safetensors"), named, meta); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	fmt.Printf("Wrote %d batches to %s as %s (class count %d)\n", len(named), opts.out, opts.format, res.ClassCount)
	return nil
}

// batchNames keys every batch as "<split>_<role>.<index>", e.g. "train_data.0003".
func batchNames(res *preproc.Result) map[string]*tensor.RawTensor {
	sets := []struct {
		prefix  string
		batches []*tensor.RawTensor
	}{
		{"train_data", res.TrainData},
		{"train_labels", res.TrainLabels},
		{"test_data", res.TestData},
		{"test_labels", res.TestLabels},
	}
	named := make(map[string]*tensor.RawTensor)
	for _, s := range sets {
		for i, b := range s.batches {
			named[fmt.Sprintf("%s.%04d", s.prefix, i)] = b
		}
	}
	return named
}
