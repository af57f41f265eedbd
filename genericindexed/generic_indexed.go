// Package genericindexed decodes Druid's GenericIndexed<T> binary
// container: a versioned, offset-indexed sequence of opaque byte
// payloads. It is the substrate reused throughout a v9 segment for
// dictionaries, compressed block lists, and column/dimension name
// tables — offset walking lives here exactly once, and the three
// element conventions (length-prefixed, object-prefixed string, raw
// range) are layered on top as separate accessor methods.
package genericindexed

import (
	"encoding/binary"

	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/format"
)

// headerSize is version(1) + flags(1) + totalBytes(4) + numElements(4).
const headerSize = 10

// Reader parses a GenericIndexed V1 container over borrowed bytes. It
// does not materialize the offset table; offsets are read on demand.
type Reader struct {
	data        []byte
	numElements int
	valuesStart int
}

// Parse reads the 10-byte header and validates the version. It does
// not validate offsets eagerly — those are checked per access.
func Parse(data []byte) (*Reader, error) {
	if len(data) == 0 {
		return nil, errs.NewInvalidData("generic indexed: empty data")
	}

	version := data[0]
	if version != format.GenericIndexedVersion {
		return nil, &errs.InvalidGenericIndexedVersion{Version: version}
	}

	if len(data) < headerSize {
		return nil, errs.NewInvalidData("generic indexed: data too short for header (%d bytes)", len(data))
	}

	// data[1] is the sorted/unsorted flag; the decoder never needs it.
	numElements := int(binary.BigEndian.Uint32(data[6:10]))
	if numElements < 0 {
		return nil, errs.NewInvalidData("generic indexed: negative element count")
	}

	offsetsSize := numElements * 4
	valuesStart := headerSize + offsetsSize
	if valuesStart > len(data) {
		return nil, errs.NewInvalidData("generic indexed: offset table overflows buffer (need %d bytes, have %d)", valuesStart, len(data))
	}

	return &Reader{
		data:        data,
		numElements: numElements,
		valuesStart: valuesStart,
	}, nil
}

// Len returns the number of elements in the container.
func (r *Reader) Len() int {
	return r.numElements
}

// offsetAt returns the cumulative end-offset of element i, relative to
// the start of the values area.
func (r *Reader) offsetAt(i int) (int, error) {
	pos := headerSize + i*4
	if pos+4 > len(r.data) {
		return 0, errs.NewInvalidData("generic indexed: offset entry %d out of bounds (data len %d)", i, len(r.data))
	}

	return int(binary.BigEndian.Uint32(r.data[pos : pos+4])), nil
}

// Range returns the half-open byte range [start, end) of element i's
// raw payload, relative to the values area.
func (r *Reader) Range(i int) (start, end int, err error) {
	if i < 0 || i >= r.numElements {
		return 0, 0, errs.NewInvalidData("generic indexed: index %d out of range (len %d)", i, r.numElements)
	}

	if i == 0 {
		start = 0
	} else {
		start, err = r.offsetAt(i - 1)
		if err != nil {
			return 0, 0, err
		}
	}

	end, err = r.offsetAt(i)
	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// GetRaw returns element i's bytes verbatim, as determined solely by
// the offset table (no length prefix interpretation).
func (r *Reader) GetRaw(i int) ([]byte, error) {
	start, end, err := r.Range(i)
	if err != nil {
		return nil, err
	}

	absStart := r.valuesStart + start
	absEnd := r.valuesStart + end
	if absEnd > len(r.data) || absEnd < absStart {
		return nil, errs.NewInvalidData("generic indexed: element %d range [%d, %d) exceeds buffer size %d", i, absStart, absEnd, len(r.data))
	}

	return r.data[absStart:absEnd], nil
}

// GetLengthPrefixed returns element i under the length-prefixed
// convention: a leading 4-byte signed length, -1 meaning absent,
// otherwise that many bytes of payload. ok is false when the element
// is the null sentinel.
func (r *Reader) GetLengthPrefixed(i int) (data []byte, ok bool, err error) {
	raw, err := r.GetRaw(i)
	if err != nil {
		return nil, false, err
	}

	if len(raw) < 4 {
		return nil, false, errs.NewInvalidData("generic indexed: element %d too short for length prefix (%d bytes)", i, len(raw))
	}

	length := int32(binary.BigEndian.Uint32(raw[0:4]))
	if length < 0 {
		return nil, false, nil
	}

	valueEnd := 4 + int(length)
	if valueEnd > len(raw) {
		return nil, false, errs.NewInvalidData("generic indexed: element %d value overflows its range", i)
	}

	return raw[4:valueEnd], true, nil
}

// GetObjectString returns element i under the object-prefixed string
// convention: 4 zero bytes followed by raw UTF-8 payload, whose length
// is implied by the offset table rather than a prefix. ok is false for
// an empty remainder, which this convention treats as absent.
func (r *Reader) GetObjectString(i int) (s string, ok bool, err error) {
	raw, err := r.GetRaw(i)
	if err != nil {
		return "", false, err
	}

	if len(raw) < 4 {
		return "", false, errs.NewInvalidData("generic indexed: element %d too short for object-strategy prefix (%d bytes)", i, len(raw))
	}

	for _, b := range raw[0:4] {
		if b != 0 {
			return "", false, errs.NewInvalidData("generic indexed: element %d has non-zero object-strategy prefix", i)
		}
	}

	strBytes := raw[4:]
	if len(strBytes) == 0 {
		return "", false, nil
	}

	return string(strBytes), true, nil
}

// TotalSize returns the byte footprint of this container (header +
// offsets + values), so that a caller embedding it in a larger layout
// knows how far to advance.
func (r *Reader) TotalSize() (int, error) {
	if r.numElements == 0 {
		return r.valuesStart, nil
	}

	lastOffset, err := r.offsetAt(r.numElements - 1)
	if err != nil {
		return 0, err
	}

	return r.valuesStart + lastOffset, nil
}
