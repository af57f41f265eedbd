// Package vsizeint decodes Druid's VSizeColumnarInts: a column of
// unsigned integers packed at a fixed width of 1 to 4 bytes each, with
// no per-value compression. It backs uncompressed dictionary id streams
// (string column version 0x00).
package vsizeint

import (
	"encoding/binary"

	"github.com/AndreaBozzo/druidseg/errs"
)

// headerSize is version(1) + width(1) + bufferSize(4).
const headerSize = 6

const wantVersion = 0x00

// Reader decodes a packed variable-width unsigned integer stream over
// borrowed bytes.
type Reader struct {
	data      []byte
	width     int
	count     int
	valuesOff int
}

// Parse reads the 6-byte header and computes count = bufferSize/width.
func Parse(data []byte) (*Reader, error) {
	if len(data) < headerSize {
		return nil, errs.NewInvalidData("vsize ints: data too short for header (%d bytes)", len(data))
	}

	version := data[0]
	if version != wantVersion {
		return nil, errs.NewInvalidData("vsize ints: unexpected version 0x%02x, expected 0x%02x", version, wantVersion)
	}

	width := int(data[1])
	if width < 1 || width > 4 {
		return nil, errs.NewInvalidData("vsize ints: invalid width %d, expected 1-4", width)
	}

	bufferSize := int(int32(binary.BigEndian.Uint32(data[2:6])))
	if bufferSize < 0 {
		return nil, errs.NewInvalidData("vsize ints: negative buffer size")
	}
	if bufferSize%width != 0 {
		return nil, errs.NewInvalidData("vsize ints: buffer size %d not a multiple of width %d", bufferSize, width)
	}

	count := bufferSize / width
	if headerSize+bufferSize > len(data) {
		return nil, errs.NewInvalidData("vsize ints: buffer overflows data (need %d bytes, have %d)", headerSize+bufferSize, len(data))
	}

	return &Reader{
		data:      data,
		width:     width,
		count:     count,
		valuesOff: headerSize,
	}, nil
}

// Len returns the number of packed values.
func (r *Reader) Len() int {
	return r.count
}

// Get decodes the big-endian unsigned integer at index i.
func (r *Reader) Get(i int) (uint32, error) {
	if i < 0 || i >= r.count {
		return 0, errs.NewInvalidData("vsize ints: index %d out of range (len %d)", i, r.count)
	}

	pos := r.valuesOff + i*r.width
	var value uint32
	for _, b := range r.data[pos : pos+r.width] {
		value = (value << 8) | uint32(b)
	}

	return value, nil
}

// ToSlice decodes every value densely; preferred over repeated Get
// calls on hot paths since it avoids the per-call bounds check.
func (r *Reader) ToSlice() ([]uint32, error) {
	values := make([]uint32, r.count)
	pos := r.valuesOff
	for i := 0; i < r.count; i++ {
		var value uint32
		for _, b := range r.data[pos : pos+r.width] {
			value = (value << 8) | uint32(b)
		}
		values[i] = value
		pos += r.width
	}

	return values, nil
}

// TotalSize returns the byte footprint of this structure, for callers
// embedding it in a larger layout.
func (r *Reader) TotalSize() int {
	return headerSize + r.count*r.width
}
