// Package bitmap decodes Druid's serialized bitmap format: a one-byte
// type tag followed by the bitmap's own encoding. Only the Roaring tag
// is backed by a real decoder; the legacy Concise tag is recognized but
// rejected, since no segment this module targets is expected to emit it.
package bitmap

import (
	"bytes"

	"github.com/RoaringBitmap/roaring"

	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/format"
)

// Set is a decoded row-index set, backed by a Roaring bitmap.
type Set struct {
	bitmap *roaring.Bitmap
}

// Read parses a tagged bitmap payload. Empty input is the empty set.
func Read(data []byte) (*Set, error) {
	if len(data) == 0 {
		return &Set{bitmap: roaring.New()}, nil
	}

	tag := format.BitmapTag(data[0])
	switch tag {
	case format.BitmapTagRoaring:
		bm := roaring.New()
		if _, err := bm.ReadFrom(bytes.NewReader(data[1:])); err != nil {
			return nil, errs.NewInvalidData("bitmap: failed to decode roaring payload: %v", err)
		}

		return &Set{bitmap: bm}, nil
	case format.BitmapTagLegacy:
		return nil, &errs.UnsupportedColumnType{Detail: "concise bitmap format is not supported"}
	default:
		return nil, errs.NewInvalidData("bitmap: unknown bitmap type 0x%02x", data[0])
	}
}

// Contains reports whether row index i is present in the set.
func (s *Set) Contains(i uint32) bool {
	return s.bitmap.Contains(i)
}

// Len returns the number of set row indices.
func (s *Set) Len() int {
	return int(s.bitmap.GetCardinality())
}

// ToSlice materializes every set row index in ascending order.
func (s *Set) ToSlice() []uint32 {
	return s.bitmap.ToArray()
}
