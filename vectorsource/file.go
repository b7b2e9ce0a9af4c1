package vectorsource

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"unsafe"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/internal/mmap"
)

// ValueType identifies the element type stored in a vector file.
type ValueType uint16

const (
	ValueFloat32 ValueType = 1
	ValueFloat64 ValueType = 2
)

func (v ValueType) String() string {
	switch v {
	case ValueFloat32:
		return "float32"
	case ValueFloat64:
		return "float64"
	default:
		return fmt.Sprintf("Unknown(%d)", v)
	}
}

// Size returns the element size in bytes, or 0 for unknown types.
func (v ValueType) Size() int {
	switch v {
	case ValueFloat32:
		return 4
	case ValueFloat64:
		return 8
	default:
		return 0
	}
}

var (
	// ErrUnsupportedValueType is returned when a vector file stores an element
	// type that cannot be clustered, or one that does not match the requested precision.
	ErrUnsupportedValueType = errors.New("unsupported vector value type")
	// ErrInvalidFile is returned for truncated or foreign files.
	ErrInvalidFile = errors.New("invalid vector file")
)

// File layout (little endian):
//
//	[0:4)   magic "VCLV"
//	[4:6)   version
//	[6:8)   value type
//	[8:12)  dimension
//	[12:16) reserved
//	[16:24) count
//	[24:)   count*dimension values
const (
	fileMagic      = "VCLV"
	fileVersion    = 1
	fileHeaderSize = 24

	// maxDimension bounds the dimension a header may declare.
	maxDimension = 1 << 24
)

// Header describes a vector file.
type Header struct {
	ValueType ValueType
	Dimension int
	Count     int
}

// ValueTypeOf returns the value type matching T.
func ValueTypeOf[T distance.Float]() ValueType {
	var zero T
	if unsafe.Sizeof(zero) == 4 {
		return ValueFloat32
	}
	return ValueFloat64
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < fileHeaderSize || string(b[0:4]) != fileMagic {
		return Header{}, ErrInvalidFile
	}
	if v := binary.LittleEndian.Uint16(b[4:6]); v != fileVersion {
		return Header{}, fmt.Errorf("%w: version %d", ErrInvalidFile, v)
	}

	h := Header{
		ValueType: ValueType(binary.LittleEndian.Uint16(b[6:8])),
		Dimension: int(binary.LittleEndian.Uint32(b[8:12])),
	}
	count := binary.LittleEndian.Uint64(b[16:24])
	if count > math.MaxInt32 {
		return Header{}, fmt.Errorf("%w: count %d", ErrInvalidFile, count)
	}
	h.Count = int(count)

	if h.ValueType.Size() == 0 {
		return Header{}, fmt.Errorf("%w: %s", ErrUnsupportedValueType, h.ValueType)
	}
	if h.Dimension <= 0 || h.Dimension > maxDimension {
		return Header{}, fmt.Errorf("%w: dimension %d", ErrInvalidFile, h.Dimension)
	}
	return h, nil
}

// Probe reads only the header of the vector file at path.
func Probe(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	b := make([]byte, fileHeaderSize)
	if _, err := io.ReadFull(f, b); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return parseHeader(b)
}

// File is a Source backed by a memory-mapped vector file.
type File[T distance.Float] struct {
	m      *mmap.Mapping
	header Header
	data   []T
}

// OpenFile maps the vector file at path. The file's value type must match T.
func OpenFile[T distance.Float](path string) (*File[T], error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	h, err := parseHeader(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if want := ValueTypeOf[T](); h.ValueType != want {
		_ = m.Close()
		return nil, fmt.Errorf("%w: file stores %s, requested %s", ErrUnsupportedValueType, h.ValueType, want)
	}

	payload := m.Bytes()[fileHeaderSize:]
	if !payloadMatches(len(payload), h) {
		_ = m.Close()
		return nil, fmt.Errorf("%w: payload is %d bytes, header expects %d vectors of dimension %d",
			ErrInvalidFile, len(payload), h.Count, h.Dimension)
	}

	if err := m.Advise(mmap.AccessSequential); err != nil {
		_ = m.Close()
		return nil, err
	}

	return &File[T]{m: m, header: h, data: view[T](payload)}, nil
}

// payloadMatches reports whether n payload bytes hold exactly the vectors the
// header declares, without overflowing.
func payloadMatches(n int, h Header) bool {
	size := uint64(h.ValueType.Size())
	if uint64(n)%size != 0 {
		return false
	}
	hi, values := bits.Mul64(uint64(h.Count), uint64(h.Dimension))
	return hi == 0 && uint64(n)/size == values
}

// view reinterprets little-endian payload bytes as []T, copying only when the
// host byte order or alignment forbid a zero-copy view.
func view[T distance.Float](payload []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	n := len(payload) / size
	if n == 0 {
		return nil
	}

	aligned := uintptr(unsafe.Pointer(&payload[0]))%uintptr(size) == 0
	if aligned && nativeLittleEndian() {
		return unsafe.Slice((*T)(unsafe.Pointer(&payload[0])), n)
	}

	out := make([]T, n)
	for i := range out {
		b := payload[i*size:]
		if size == 4 {
			out[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		} else {
			out[i] = T(math.Float64frombits(binary.LittleEndian.Uint64(b)))
		}
	}
	return out
}

func nativeLittleEndian() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

// Len implements Source.
func (f *File[T]) Len() int { return f.header.Count }

// Vector implements Source.
func (f *File[T]) Vector(id int) []T {
	dim := f.header.Dimension
	off := id * dim
	return f.data[off : off+dim : off+dim]
}

// Header returns the parsed file header.
func (f *File[T]) Header() Header { return f.header }

// Close unmaps the file. Vectors obtained from the file become invalid.
func (f *File[T]) Close() error {
	return f.m.Close()
}

// WriteFile writes vectors to path in the format read by OpenFile.
// All vectors must share one dimension.
func WriteFile[T distance.Float](path string, vectors [][]T) (err error) {
	if len(vectors) == 0 {
		return fmt.Errorf("vectorsource: no vectors to write")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("vectorsource: invalid dimension 0")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	vt := ValueTypeOf[T]()
	header := make([]byte, fileHeaderSize)
	copy(header[0:4], fileMagic)
	binary.LittleEndian.PutUint16(header[4:6], fileVersion)
	binary.LittleEndian.PutUint16(header[6:8], uint16(vt))
	binary.LittleEndian.PutUint32(header[8:12], uint32(dim))
	binary.LittleEndian.PutUint64(header[16:24], uint64(len(vectors)))

	w := bufio.NewWriter(f)
	if _, err := w.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for id, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("vectorsource: vector %d has dimension %d, expected %d", id, len(vec), dim)
		}
		for _, v := range vec {
			if vt == ValueFloat32 {
				binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
				_, err = w.Write(buf[:4])
			} else {
				binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(v)))
				_, err = w.Write(buf)
			}
			if err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
