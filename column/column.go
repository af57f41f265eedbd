// Package column composes the lower-level block and container decoders
// into the typed column readers a segment exposes: the time column,
// primitive long/float/double columns, and dictionary-encoded string
// columns across their three on-disk versions.
package column

import (
	"encoding/binary"

	"github.com/AndreaBozzo/druidseg/columnar"
	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/genericindexed"
	"github.com/AndreaBozzo/druidseg/vsizeint"
)

// Time decodes the __time column: a compressed long block reinterpreted
// as milliseconds-since-epoch timestamps.
func Time(payload []byte) ([]int64, error) {
	return columnar.Longs(payload)
}

// Long decodes a LONG column.
func Long(payload []byte) ([]int64, error) {
	return columnar.Longs(payload)
}

// Float decodes a FLOAT column.
func Float(payload []byte) ([]float32, error) {
	return columnar.Floats(payload)
}

// Double decodes a DOUBLE column.
func Double(payload []byte) ([]float64, error) {
	return columnar.Doubles(payload)
}

const (
	stringVersionLegacy        = 0x00
	stringVersionCompressed    = 0x02
	stringVersionFeatureMasked = 0x03
	stringFlagsSize            = 4
)

// String decodes a dictionary-encoded string column, version-dispatched
// on the first payload byte, and returns one optional string per row
// (nil meaning an absent dictionary entry).
func String(payload []byte) ([]*string, error) {
	if len(payload) < 1 {
		return nil, errs.NewInvalidData("string column: empty payload")
	}

	switch payload[0] {
	case stringVersionLegacy:
		return decodeLegacyString(payload[1:])
	case stringVersionCompressed:
		return decodeCompressedString(payload[1:], false)
	case stringVersionFeatureMasked:
		return decodeCompressedString(payload[1:], true)
	default:
		return nil, errs.NewInvalidData("string column: unsupported version byte 0x%02x", payload[0])
	}
}

func decodeLegacyString(rest []byte) ([]*string, error) {
	dict, err := genericindexed.Parse(rest)
	if err != nil {
		return nil, err
	}

	dictSize, err := dict.TotalSize()
	if err != nil {
		return nil, err
	}
	if dictSize > len(rest) {
		return nil, errs.NewInvalidData("string column: dictionary overflows payload")
	}

	ids, err := vsizeint.Parse(rest[dictSize:])
	if err != nil {
		return nil, err
	}

	idSlice, err := ids.ToSlice()
	if err != nil {
		return nil, err
	}

	return resolveDictionary(dict, idSlice)
}

func decodeCompressedString(rest []byte, validateFeatureMask bool) ([]*string, error) {
	if len(rest) < stringFlagsSize {
		return nil, errs.NewInvalidData("string column: data too short for flags")
	}

	if validateFeatureMask {
		mask := binary.BigEndian.Uint32(rest[0:4])
		if mask != 0 {
			return nil, errs.NewInvalidData("string column: unsupported feature mask bits 0x%08x", mask)
		}
	}
	rest = rest[stringFlagsSize:]

	dict, err := genericindexed.Parse(rest)
	if err != nil {
		return nil, err
	}

	dictSize, err := dict.TotalSize()
	if err != nil {
		return nil, err
	}
	if dictSize > len(rest) {
		return nil, errs.NewInvalidData("string column: dictionary overflows payload")
	}

	// A trailing bitmap of per-value posting lists may follow the id
	// stream; it is not decoded. columnar.Ints reads only the id stream
	// its header declares, so any bytes after it are ignored.
	idSlice, err := columnar.Ints(rest[dictSize:])
	if err != nil {
		return nil, err
	}

	return resolveDictionary(dict, idSlice)
}

func resolveDictionary(dict *genericindexed.Reader, ids []uint32) ([]*string, error) {
	out := make([]*string, len(ids))
	for i, id := range ids {
		s, ok, err := dict.GetObjectString(int(id))
		if err != nil {
			return nil, err
		}
		if !ok {
			out[i] = nil
			continue
		}
		v := s
		out[i] = &v
	}

	return out, nil
}
