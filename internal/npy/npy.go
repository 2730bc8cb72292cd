// Package npy reads and writes NumPy .npy array files.
//
// Only C-ordered, little-endian arrays of the element types supported by
// the tensor package are handled: float32, float64, int32, int64, uint8.
package npy

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/dataprep/internal/tensor"
)

var magic = []byte("\x93NUMPY")

// Errors returned by Read.
var (
	ErrNotNpy      = errors.New("not a .npy file")
	ErrUnsupported = errors.New("unsupported .npy array")
)

var (
	descrRe   = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	fortranRe = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

var descrTypes = map[string]tensor.DataType{
	"<f4": tensor.Float32,
	"<f8": tensor.Float64,
	"<i4": tensor.Int32,
	"<i8": tensor.Int64,
	"|u1": tensor.Uint8,
	"<u1": tensor.Uint8,
}

// ReadFile reads a .npy file from disk.
func ReadFile(path string) (*tensor.RawTensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return t, nil
}

// Read decodes one .npy array from r.
func Read(r io.Reader) (*tensor.RawTensor, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	m := descrRe.FindStringSubmatch(header)
	if m == nil {
		return nil, errors.Wrapf(ErrNotNpy, "no descr in header %q", header)
	}
	dtype, ok := descrTypes[m[1]]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "dtype %s", m[1])
	}
	if f := fortranRe.FindStringSubmatch(header); f != nil && f[1] == "True" {
		return nil, errors.Wrap(ErrUnsupported, "fortran-ordered arrays")
	}
	shape, err := parseShape(header)
	if err != nil {
		return nil, err
	}

	size, err := shape.ByteLen(dtype)
	if err != nil {
		return nil, errors.Wrap(ErrNotNpy, err.Error())
	}
	// Buffers grow with the bytes actually present, never with the header's claim.
	payload, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, errors.Wrap(err, "read data")
	}
	if len(payload) != size {
		return nil, errors.Wrapf(ErrNotNpy, "shape %v of %s needs %d bytes, file has %d", shape, dtype, size, len(payload))
	}

	switch dtype {
	case tensor.Float32:
		return readData[float32](payload, shape)
	case tensor.Float64:
		return readData[float64](payload, shape)
	case tensor.Int32:
		return readData[int32](payload, shape)
	case tensor.Int64:
		return readData[int64](payload, shape)
	default:
		return tensor.FromSlice(payload, shape)
	}
}

func readHeader(r io.Reader) (string, error) {
	pre := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, pre); err != nil {
		return "", errors.Wrap(ErrNotNpy, err.Error())
	}
	if !bytes.Equal(pre[:len(magic)], magic) {
		return "", ErrNotNpy
	}

	var headerLen int
	switch major := pre[len(magic)]; major {
	case 1:
		var hl uint16
		if err := binary.Read(r, binary.LittleEndian, &hl); err != nil {
			return "", errors.Wrap(err, "read header length")
		}
		headerLen = int(hl)
	case 2, 3:
		var hl uint32
		if err := binary.Read(r, binary.LittleEndian, &hl); err != nil {
			return "", errors.Wrap(err, "read header length")
		}
		headerLen = int(hl)
	default:
		return "", errors.Wrapf(ErrUnsupported, "format version %d", major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return "", errors.Wrap(err, "read header")
	}
	return string(header), nil
}

func parseShape(header string) (tensor.Shape, error) {
	m := shapeRe.FindStringSubmatch(header)
	if m == nil {
		return nil, errors.Wrapf(ErrNotNpy, "no shape in header %q", header)
	}
	shape := tensor.Shape{}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dim, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil || dim < 0 {
			return nil, errors.Wrapf(ErrNotNpy, "bad dimension %q", part)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}

// readData decodes a little-endian payload whose length already matches shape.
func readData[T tensor.DType](payload []byte, shape tensor.Shape) (*tensor.RawTensor, error) {
	var zero T
	data := make([]T, len(payload)/binary.Size(zero))
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, data); err != nil {
		return nil, errors.Wrapf(err, "decode %d elements", len(data))
	}
	return tensor.FromSlice(data, shape)
}

// WriteFile writes t to path in .npy format.
func WriteFile(path string, t *tensor.RawTensor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := Write(w, t); err != nil {
		f.Close()
		return errors.WithMessage(err, path)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes t as a version 1.0 .npy array.
func Write(w io.Writer, t *tensor.RawTensor) error {
	var descr string
	for d, dt := range descrTypes {
		if dt == t.DType() && d != "<u1" {
			descr = d
		}
	}

	dims := make([]string, len(t.Shape()))
	for i, d := range t.Shape() {
		dims[i] = strconv.Itoa(d)
	}
	shape := strings.Join(dims, ", ")
	if len(dims) == 1 {
		shape += ","
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, shape)

	// Pad so that the data starts on a 64-byte boundary.
	total := len(magic) + 2 + 2 + len(header) + 1
	if pad := (64 - total%64) % 64; pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"

	if _, err := w.Write(magic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	switch t.DType() {
	case tensor.Float32:
		return binary.Write(w, binary.LittleEndian, t.AsFloat32())
	case tensor.Float64:
		return binary.Write(w, binary.LittleEndian, t.AsFloat64())
	case tensor.Int32:
		return binary.Write(w, binary.LittleEndian, t.AsInt32())
	case tensor.Int64:
		return binary.Write(w, binary.LittleEndian, t.AsInt64())
	default:
		_, err := w.Write(t.AsUint8())
		return err
	}
}
