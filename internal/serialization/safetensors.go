package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/dataprep/internal/tensor"
)

const metadataKey = "__metadata__"

// tensorEntry is one tensor in the JSON header.
type tensorEntry struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

var dtypeNames = map[tensor.DataType]string{
	tensor.Float32: "F32",
	tensor.Float64: "F64",
	tensor.Int32:   "I32",
	tensor.Int64:   "I64",
	tensor.Uint8:   "U8",
}

func dtypeFromName(tensorName, name string) (tensor.DataType, error) {
	for dt, n := range dtypeNames {
		if n == name {
			return dt, nil
		}
	}
	return 0, &ValidationError{Kind: ErrUnsupportedDType, Tensor: tensorName, Details: name}
}

// Archive is the decoded content of a SafeTensors file.
type Archive struct {
	Metadata map[string]string
	Tensors  map[string]*tensor.RawTensor
}

// Names returns the tensor names sorted. This is also the storage order of
// archives produced by Write.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.Tensors))
	for name := range a.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tensor returns the named tensor.
func (a *Archive) Tensor(name string) (*tensor.RawTensor, error) {
	t, ok := a.Tensors[name]
	if !ok {
		return nil, errors.Wrap(ErrTensorNotFound, name)
	}
	return t, nil
}

// WriteFile writes tensors and metadata to path.
func WriteFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create archive")
	}
	w := bufio.NewWriter(f)
	if err := Write(w, tensors, metadata); err != nil {
		_ = f.Close()
		return errors.WithMessage(err, path)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write encodes tensors in name order.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name, raw := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		if raw == nil {
			return &ValidationError{Kind: ErrNilTensor, Tensor: name, Details: "no array to write"}
		}
		names = append(names, name)
	}
	if len(names) > MaxTensorCount {
		return errors.Wrapf(ErrTooManyTensors, "%d tensors", len(names))
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var offset int64
	for _, name := range names {
		raw := tensors[name]
		dtype, ok := dtypeNames[raw.DType()]
		if !ok {
			return errors.Wrapf(ErrUnsupportedDType, "tensor %q: %s", name, raw.DType())
		}
		shape := make([]int64, raw.Rank())
		for i, dim := range raw.Shape() {
			shape[i] = int64(dim)
		}
		size := int64(raw.ByteSize())
		header[name] = tensorEntry{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "marshal header")
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, name := range names {
		if _, err := w.Write(tensors[name].Bytes()); err != nil {
			return errors.Wrapf(err, "write tensor %q", name)
		}
	}
	return nil
}

// ReadFile reads a SafeTensors file from disk.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open archive")
	}
	defer f.Close()

	a, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return a, nil
}

// Read decodes a complete SafeTensors stream and validates its header
// against the data that follows.
func Read(r io.Reader) (*Archive, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, errors.Wrap(err, "read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &fields); err != nil {
		return nil, errors.Wrap(err, "parse header")
	}

	a := &Archive{Tensors: make(map[string]*tensor.RawTensor, len(fields))}
	if raw, ok := fields[metadataKey]; ok {
		if err := json.Unmarshal(raw, &a.Metadata); err != nil {
			return nil, errors.Wrap(err, "parse metadata")
		}
		delete(fields, metadataKey)
	}

	entries := make(map[string]tensorEntry, len(fields))
	spans := make([]span, 0, len(fields))
	for name, raw := range fields {
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		var e tensorEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, errors.Wrapf(err, "parse tensor %q", name)
		}
		entries[name] = e
		spans = append(spans, span{name: name, start: e.DataOffsets[0], end: e.DataOffsets[1]})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read data")
	}
	if err := validateSpans(spans, int64(len(data))); err != nil {
		return nil, err
	}

	for name, e := range entries {
		dtype, err := dtypeFromName(name, e.DType)
		if err != nil {
			return nil, err
		}
		shape, err := entryShape(name, e, dtype)
		if err != nil {
			return nil, err
		}
		t, err := tensor.FromBytes(data[e.DataOffsets[0]:e.DataOffsets[1]], shape, dtype)
		if err != nil {
			return nil, errors.Wrapf(err, "tensor %q", name)
		}
		a.Tensors[name] = t
	}
	return a, nil
}

// entryShape converts the header shape and checks that it describes exactly
// the entry's byte range.
func entryShape(name string, e tensorEntry, dtype tensor.DataType) (tensor.Shape, error) {
	shape := make(tensor.Shape, len(e.Shape))
	for i, dim := range e.Shape {
		if dim < 0 || dim > math.MaxInt {
			return nil, &ValidationError{Kind: ErrShapeMismatch, Tensor: name, Details: fmt.Sprintf("dimension %d", dim)}
		}
		shape[i] = int(dim)
	}
	size, err := shape.ByteLen(dtype)
	if err != nil {
		return nil, &ValidationError{Kind: ErrShapeMismatch, Tensor: name, Details: err.Error()}
	}
	if got := e.DataOffsets[1] - e.DataOffsets[0]; int64(size) != got {
		return nil, &ValidationError{
			Kind:    ErrShapeMismatch,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v of %s needs %d bytes, range holds %d", shape, dtype, size, got),
		}
	}
	return shape, nil
}
