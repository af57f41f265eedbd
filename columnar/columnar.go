// Package columnar decodes Druid's compressed columnar block family:
// longs, doubles, floats, and variable-width ints, each stored as a
// GenericIndexed list of codec-compressed blocks of a fixed element
// stride. A block's decompressed size is always derivable from the
// header (total count, stride, element width), so decoding never has
// to guess — only the final block may be shorter than the stride.
package columnar

import (
	"encoding/binary"
	"math"

	"github.com/AndreaBozzo/druidseg/compress"
	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/genericindexed"
)

// elementKind identifies the fixed-width element type packed in each
// block, used to pick both the element size and the value decode loop.
type elementKind int

const (
	kindLong elementKind = iota
	kindDouble
	kindFloat
	kindInt
)

func (k elementKind) size(intWidth int) int {
	switch k {
	case kindLong, kindDouble:
		return 8
	case kindFloat:
		return 4
	case kindInt:
		return intWidth
	default:
		return 0
	}
}

// header holds the fields common to every compressed columnar block
// flavor, after version-specific dispatch has resolved them.
type header struct {
	kind      elementKind
	totalSize int
	stride    int
	intWidth  int // only meaningful for kindInt
	codec     byte
	blocks    *genericindexed.Reader
}

// parseHeader dispatches on the version byte at data[0] to compute the
// offset where the GenericIndexed block list begins, per the three
// flavors spec.md §4.4 describes.
func parseHeader(data []byte, kind elementKind) (header, error) {
	if len(data) < 9 {
		return header{}, errs.NewInvalidData("compressed columnar block: data too short for header (%d bytes)", len(data))
	}

	version := data[0]
	totalSize := int(int32(binary.BigEndian.Uint32(data[1:5])))
	stride := int(int32(binary.BigEndian.Uint32(data[5:9])))
	if totalSize < 0 || stride <= 0 {
		return header{}, errs.NewInvalidData("compressed columnar block: invalid total=%d stride=%d", totalSize, stride)
	}

	var codec byte
	var intWidth int
	var blocksOffset int

	switch {
	case kind != kindInt && version == 0x01:
		// Legacy longs: codec implied, no explicit byte.
		codec = byte(legacyCodecID)
		blocksOffset = 9
	case kind != kindInt && version == 0x02:
		if len(data) < 10 {
			return header{}, errs.NewInvalidData("compressed columnar block: data too short for codec byte")
		}
		codec = data[9]
		blocksOffset = 10
	case kind == kindInt && version == 0x02:
		if len(data) < 11 {
			return header{}, errs.NewInvalidData("compressed columnar int block: data too short for width/codec bytes")
		}
		intWidth = int(data[9])
		if intWidth < 1 || intWidth > 4 {
			return header{}, errs.NewInvalidData("compressed columnar int block: invalid width %d, expected 1-4", intWidth)
		}
		codec = data[10]
		blocksOffset = 11
	default:
		return header{}, errs.NewInvalidData("compressed columnar block: unsupported version 0x%02x", version)
	}

	blocks, err := genericindexed.Parse(data[blocksOffset:])
	if err != nil {
		return header{}, err
	}

	return header{
		kind:      kind,
		totalSize: totalSize,
		stride:    stride,
		intWidth:  intWidth,
		codec:     codec,
		blocks:    blocks,
	}, nil
}

// legacyCodecID is the implied compression strategy for version-0x01
// long blocks, Druid's historical LZF codec. It is registered in
// compress as unsupported, matching spec.md's stance that the legacy
// codec is never required by the modern writer.
const legacyCodecID = 0x00

// decodeAll walks every block in h.blocks, decompresses it to the
// expected size for that block's position, and appends its decoded
// elements via decodeElement. out must have capacity for h.totalSize
// elements already reserved by the caller.
func decodeAll(h header, decodeElement func(dst []byte, i int)) error {
	codec, err := compress.Get(h.codec)
	if err != nil {
		return err
	}

	elemSize := h.kind.size(h.intWidth)
	decoded := 0

	for blockIdx := 0; blockIdx < h.blocks.Len(); blockIdx++ {
		compressed, ok, err := h.blocks.GetLengthPrefixed(blockIdx)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NewInvalidData("compressed columnar block: null element at block index %d, illegal for block containers", blockIdx)
		}

		remaining := h.totalSize - decoded
		valuesInBlock := h.stride
		if remaining < valuesInBlock {
			valuesInBlock = remaining
		}
		wantSize := valuesInBlock * elemSize

		decompressed, err := codec.Decompress(compressed, wantSize)
		if err != nil {
			return err
		}
		if len(decompressed) < wantSize {
			return errs.NewInvalidData("compressed columnar block: truncated element stream in block %d", blockIdx)
		}

		for i := 0; i < valuesInBlock; i++ {
			decodeElement(decompressed[i*elemSize:(i+1)*elemSize], decoded)
			decoded++
		}
	}

	if decoded != h.totalSize {
		return errs.NewInvalidData("compressed columnar block: decoded %d elements, expected %d", decoded, h.totalSize)
	}

	return nil
}

// Longs decodes a CompressedColumnarLongs payload into a slice of int64.
func Longs(data []byte) ([]int64, error) {
	h, err := parseHeader(data, kindLong)
	if err != nil {
		return nil, err
	}

	out := make([]int64, h.totalSize)
	err = decodeAll(h, func(dst []byte, i int) {
		out[i] = int64(binary.BigEndian.Uint64(dst))
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Doubles decodes a CompressedColumnarDoubles payload into a slice of float64.
func Doubles(data []byte) ([]float64, error) {
	h, err := parseHeader(data, kindDouble)
	if err != nil {
		return nil, err
	}

	out := make([]float64, h.totalSize)
	err = decodeAll(h, func(dst []byte, i int) {
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(dst))
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Floats decodes a CompressedColumnarFloats payload into a slice of float32.
func Floats(data []byte) ([]float32, error) {
	h, err := parseHeader(data, kindFloat)
	if err != nil {
		return nil, err
	}

	out := make([]float32, h.totalSize)
	err = decodeAll(h, func(dst []byte, i int) {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(dst))
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Ints decodes a CompressedColumnarInts payload into a slice of uint32
// dictionary ids (or other small integers).
func Ints(data []byte) ([]uint32, error) {
	h, err := parseHeader(data, kindInt)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, h.totalSize)
	err = decodeAll(h, func(dst []byte, i int) {
		var v uint32
		for _, b := range dst {
			v = (v << 8) | uint32(b)
		}
		out[i] = v
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
