// Package format defines the small closed enums used throughout the
// segment decoder: the segment format version, column value types, and
// block codec identifiers.
package format

// SegmentVersion is the only version.bin value the decoder accepts.
const SegmentVersion int32 = 9

// GenericIndexedVersion is the only version byte the generic indexed
// container parser accepts.
const GenericIndexedVersion byte = 0x01

// ValueType is the column value-type tag emitted by a column
// descriptor's JSON header, drawn from a closed set.
type ValueType string

const (
	ValueString  ValueType = "STRING"
	ValueLong    ValueType = "LONG"
	ValueFloat   ValueType = "FLOAT"
	ValueDouble  ValueType = "DOUBLE"
	ValueComplex ValueType = "COMPLEX"
)

func (v ValueType) String() string {
	return string(v)
}

// CodecID identifies a block decompression strategy by a single byte.
type CodecID byte

const (
	CodecLegacy       CodecID = 0x00 // legacy dictionary-coder, unsupported by the core
	CodecFast         CodecID = 0x01 // required fast block codec (LZ4)
	CodecHighRatio    CodecID = 0x02 // optional high-ratio codec (Zstd)
	CodecNoneMarker   CodecID = 0xFE // "no codec" marker, passthrough
	CodecUncompressed CodecID = 0xFF // uncompressed, passthrough
)

func (c CodecID) String() string {
	switch c {
	case CodecLegacy:
		return "Legacy"
	case CodecFast:
		return "Fast"
	case CodecHighRatio:
		return "HighRatio"
	case CodecNoneMarker:
		return "None"
	case CodecUncompressed:
		return "Uncompressed"
	default:
		return "Unknown"
	}
}

// BitmapTag identifies the bitmap payload encoding.
type BitmapTag byte

const (
	BitmapTagLegacy  BitmapTag = 0x00 // legacy concise format, unsupported
	BitmapTagRoaring BitmapTag = 0x01
)

func (t BitmapTag) String() string {
	switch t {
	case BitmapTagLegacy:
		return "Legacy"
	case BitmapTagRoaring:
		return "Roaring"
	default:
		return "Unknown"
	}
}
