// Package fixture builds valid v9 segment binary fragments for tests.
// It is the Go equivalent of the hand-rolled builders the original
// reference implementation's own test suite uses (see
// generic_indexed.rs's build_generic_indexed helper) — every format
// this module decodes also needs a small encoder here so round-trip
// properties can be exercised without a real segment on disk.
package fixture

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/RoaringBitmap/roaring"

	"github.com/AndreaBozzo/druidseg/compress"
)

// GenericIndexedLengthPrefixed builds a GenericIndexed V1 container
// whose elements follow the length-prefixed convention: nil entries
// become the -1 null sentinel.
func GenericIndexedLengthPrefixed(elements [][]byte) []byte {
	var values []byte
	offsets := make([]int32, len(elements))

	for i, elem := range elements {
		if elem == nil {
			values = appendInt32(values, -1)
		} else {
			values = appendInt32(values, int32(len(elem)))
			values = append(values, elem...)
		}
		offsets[i] = int32(len(values))
	}

	return assembleGenericIndexed(offsets, values)
}

// GenericIndexedObjectString builds a GenericIndexed V1 container
// whose elements follow the object-prefixed string convention: 4 zero
// bytes followed by the UTF-8 string bytes.
func GenericIndexedObjectString(values []string) []byte {
	var out []byte
	offsets := make([]int32, len(values))

	for i, s := range values {
		out = append(out, 0, 0, 0, 0)
		out = append(out, s...)
		offsets[i] = int32(len(out))
	}

	return assembleGenericIndexed(offsets, out)
}

func assembleGenericIndexed(offsets []int32, values []byte) []byte {
	buf := []byte{0x01, 0x01} // version, flags (sorted)

	offsetsSize := len(offsets) * 4
	totalBytes := int32(offsetsSize + len(values))
	buf = appendInt32(buf, totalBytes)
	buf = appendInt32(buf, int32(len(offsets)))
	for _, off := range offsets {
		buf = appendInt32(buf, off)
	}
	buf = append(buf, values...)

	return buf
}

// CompressedLongsV2 builds a CompressedColumnarLongs v2 payload from
// values, compressing each stride-sized block with the given codec id.
func CompressedLongsV2(values []int64, stride int, codecID byte) []byte {
	elemBytes := make([][]byte, 0)
	for start := 0; start < len(values); start += stride {
		end := start + stride
		if end > len(values) {
			end = len(values)
		}
		block := make([]byte, (end-start)*8)
		for i, v := range values[start:end] {
			binary.BigEndian.PutUint64(block[i*8:], uint64(v))
		}
		compressed := mustCompress(codecID, block)
		elemBytes = append(elemBytes, compressed)
	}

	header := []byte{0x02}
	header = appendInt32(header, int32(len(values)))
	header = appendInt32(header, int32(stride))
	header = append(header, codecID)
	header = append(header, GenericIndexedLengthPrefixed(elemBytes)...)

	return header
}

// CompressedDoublesV2 builds a CompressedColumnarDoubles v2 payload.
func CompressedDoublesV2(values []float64, stride int, codecID byte) []byte {
	elemBytes := make([][]byte, 0)
	for start := 0; start < len(values); start += stride {
		end := start + stride
		if end > len(values) {
			end = len(values)
		}
		block := make([]byte, (end-start)*8)
		for i, v := range values[start:end] {
			binary.BigEndian.PutUint64(block[i*8:], math.Float64bits(v))
		}
		elemBytes = append(elemBytes, mustCompress(codecID, block))
	}

	header := []byte{0x02}
	header = appendInt32(header, int32(len(values)))
	header = appendInt32(header, int32(stride))
	header = append(header, codecID)
	header = append(header, GenericIndexedLengthPrefixed(elemBytes)...)

	return header
}

// CompressedFloatsV2 builds a CompressedColumnarFloats v2 payload.
func CompressedFloatsV2(values []float32, stride int, codecID byte) []byte {
	elemBytes := make([][]byte, 0)
	for start := 0; start < len(values); start += stride {
		end := start + stride
		if end > len(values) {
			end = len(values)
		}
		block := make([]byte, (end-start)*4)
		for i, v := range values[start:end] {
			binary.BigEndian.PutUint32(block[i*4:], math.Float32bits(v))
		}
		elemBytes = append(elemBytes, mustCompress(codecID, block))
	}

	header := []byte{0x02}
	header = appendInt32(header, int32(len(values)))
	header = appendInt32(header, int32(stride))
	header = append(header, codecID)
	header = append(header, GenericIndexedLengthPrefixed(elemBytes)...)

	return header
}

// CompressedIntsV2 builds a CompressedColumnarInts v2 payload with the
// given per-value byte width.
func CompressedIntsV2(values []uint32, stride, width int, codecID byte) []byte {
	elemBytes := make([][]byte, 0)
	for start := 0; start < len(values); start += stride {
		end := start + stride
		if end > len(values) {
			end = len(values)
		}
		block := make([]byte, (end-start)*width)
		for i, v := range values[start:end] {
			for b := 0; b < width; b++ {
				shift := uint((width - 1 - b) * 8)
				block[i*width+b] = byte(v >> shift)
			}
		}
		elemBytes = append(elemBytes, mustCompress(codecID, block))
	}

	header := []byte{0x02}
	header = appendInt32(header, int32(len(values)))
	header = appendInt32(header, int32(stride))
	header = append(header, byte(width))
	header = append(header, codecID)
	header = append(header, GenericIndexedLengthPrefixed(elemBytes)...)

	return header
}

// VSizeInts builds a VSizeColumnarInts payload at the given byte width.
func VSizeInts(width int, values []uint32) []byte {
	buf := []byte{0x00, byte(width)}
	buf = appendInt32(buf, int32(len(values)*width))
	for _, v := range values {
		for b := 0; b < width; b++ {
			shift := uint((width - 1 - b) * 8)
			buf = append(buf, byte(v>>shift))
		}
	}

	return buf
}

// IndexDrd builds an index.drd payload: two object-prefixed name lists
// followed by the big-endian interval bounds.
func IndexDrd(columns, dimensions []string, startMs, endMs int64) []byte {
	buf := GenericIndexedObjectString(columns)
	buf = append(buf, GenericIndexedObjectString(dimensions)...)
	buf = appendInt64(buf, startMs)
	buf = appendInt64(buf, endMs)

	return buf
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))

	return append(buf, tmp[:]...)
}

// VersionBin builds a version.bin payload for the given version number.
func VersionBin(version int32) []byte {
	return appendInt32(nil, version)
}

// ColumnDescriptor builds a column header (JSON length prefix + JSON
// body) followed by an arbitrary raw payload.
func ColumnDescriptor(jsonBody string, payload []byte) []byte {
	buf := appendInt32(nil, int32(len(jsonBody)))
	buf = append(buf, jsonBody...)
	buf = append(buf, payload...)

	return buf
}

// StringColumnLegacy builds a v0x00 dictionary string column payload:
// an object-prefixed dictionary followed by a packed var-width id stream.
func StringColumnLegacy(dict []string, ids []uint32, idWidth int) []byte {
	buf := []byte{0x00}
	buf = append(buf, GenericIndexedObjectString(dict)...)
	buf = append(buf, VSizeInts(idWidth, ids)...)

	return buf
}

// StringColumnCompressed builds a v0x02/v0x03 dictionary string column
// payload. featureMask is written verbatim as the 4 flag bytes.
func StringColumnCompressed(version byte, featureMask uint32, dict []string, ids []uint32, stride int, codecID byte) []byte {
	buf := []byte{version}
	buf = appendInt32(buf, int32(featureMask))
	buf = append(buf, GenericIndexedObjectString(dict)...)
	buf = append(buf, CompressedIntsV2(ids, stride, 1, codecID)...)

	return buf
}

// RoaringBitmap builds a tagged Roaring bitmap payload over the given
// set of row indices.
func RoaringBitmap(indices ...uint32) []byte {
	bm := roaring.New()
	bm.AddMany(indices)

	var buf bytes.Buffer
	if _, err := bm.WriteTo(&buf); err != nil {
		panic(err)
	}

	out := []byte{0x01}
	return append(out, buf.Bytes()...)
}

func mustCompress(codecID byte, data []byte) []byte {
	codec, err := compress.Get(codecID)
	if err != nil {
		panic(err)
	}

	out, err := codec.Compress(data)
	if err != nil {
		panic(err)
	}

	return out
}

func appendInt32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))

	return append(buf, tmp[:]...)
}
