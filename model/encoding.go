package model

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/vecclust/codec"
	"github.com/hupe1980/vecclust/internal/hash"
)

const (
	magic   = "VCLM"
	version = 1
)

var (
	// ErrInvalidFormat is returned for data that is not an encoded model.
	ErrInvalidFormat = errors.New("invalid model format")
	// ErrChecksum is returned when the stored checksum does not match.
	ErrChecksum = errors.New("model checksum mismatch")
)

// EncodeOptions configures Marshal and Encode.
type EncodeOptions struct {
	Compression Compression
	// Codec encodes the metadata section; codec.Default if nil.
	Codec codec.Codec
}

// Marshal encodes m.
func Marshal(m *Model, optFns ...func(o *EncodeOptions)) ([]byte, error) {
	opts := EncodeOptions{Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	meta, err := opts.Codec.Marshal(m.Metadata)
	if err != nil {
		return nil, fmt.Errorf("model: encode metadata: %w", err)
	}
	name := opts.Codec.Name()
	if len(name) > math.MaxUint8 {
		return nil, fmt.Errorf("model: codec name %q too long", name)
	}

	body := make([]byte, 8, 8+m.k*8+len(m.centroids)*8)
	binary.LittleEndian.PutUint32(body[0:], uint32(m.k))
	binary.LittleEndian.PutUint32(body[4:], uint32(m.dim))
	for _, c := range m.counts {
		body = binary.LittleEndian.AppendUint64(body, uint64(c))
	}
	for _, v := range m.centroids {
		body = binary.LittleEndian.AppendUint64(body, math.Float64bits(v))
	}
	block, err := compressBlock(body, opts.Compression)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(version))
	buf.WriteByte(byte(opts.Compression))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(meta)))
	buf.Write(meta)
	buf.Write(block)
	_ = binary.Write(&buf, binary.LittleEndian, hash.CRC32C(buf.Bytes()))
	return buf.Bytes(), nil
}

// Encode writes the encoding of m to w.
func Encode(w io.Writer, m *Model, optFns ...func(o *EncodeOptions)) error {
	data, err := Marshal(m, optFns...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal decodes a model produced by Marshal.
func Unmarshal(data []byte) (*Model, error) {
	const fixed = len(magic) + 2 + 1 + 1
	if len(data) < fixed+4 || string(data[:len(magic)]) != magic {
		return nil, ErrInvalidFormat
	}
	payload, sum := data[:len(data)-4], binary.LittleEndian.Uint32(data[len(data)-4:])
	if hash.CRC32C(payload) != sum {
		return nil, ErrChecksum
	}

	if v := binary.LittleEndian.Uint16(payload[4:]); v != version {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidFormat, v)
	}
	compression := Compression(payload[6])
	nameLen := int(payload[7])
	rest := payload[fixed:]

	if len(rest) < nameLen+4 {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidFormat)
	}
	c, ok := codec.ByName(string(rest[:nameLen]))
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalidFormat, rest[:nameLen])
	}
	rest = rest[nameLen:]
	metaLen := int(binary.LittleEndian.Uint32(rest))
	rest = rest[4:]
	if len(rest) < metaLen {
		return nil, fmt.Errorf("%w: truncated metadata", ErrInvalidFormat)
	}
	var md Metadata
	if err := c.Unmarshal(rest[:metaLen], &md); err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", ErrInvalidFormat, err)
	}

	body, _, err := decompressBlock(rest[metaLen:], compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if len(body) < 8 {
		return nil, fmt.Errorf("%w: truncated body", ErrInvalidFormat)
	}
	k := int(binary.LittleEndian.Uint32(body[0:]))
	dim := int(binary.LittleEndian.Uint32(body[4:]))
	body = body[8:]
	if k == 0 || len(body) != k*8+k*dim*8 {
		return nil, fmt.Errorf("%w: body size", ErrInvalidFormat)
	}

	m := &Model{
		Metadata:  md,
		k:         k,
		dim:       dim,
		counts:    make([]int, k),
		centroids: make([]float64, k*dim),
	}
	for i := range m.counts {
		m.counts[i] = int(binary.LittleEndian.Uint64(body))
		body = body[8:]
	}
	for i := range m.centroids {
		m.centroids[i] = math.Float64frombits(binary.LittleEndian.Uint64(body))
		body = body[8:]
	}
	return m, nil
}

// Decode reads an entire encoded model from r.
func Decode(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
