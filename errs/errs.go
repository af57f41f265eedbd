// Package errs defines the closed set of typed error values returned by
// the segment decoder. Every parser in this module returns one of these
// instead of panicking; nothing is downgraded or swallowed along the way.
package errs

import "fmt"

// Io is returned when a filesystem-level operation fails outright
// (missing file, permission denied, short read) — a failure in the
// host environment, not in the bytes it would have produced.
type Io struct {
	Op  string
	Err error
}

func (e *Io) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *Io) Unwrap() error {
	return e.Err
}

// NewIo constructs an *Io wrapping err, which occurred while performing op.
func NewIo(op string, err error) *Io {
	return &Io{Op: op, Err: err}
}

// InvalidVersion is returned when a segment's version.bin does not
// contain the expected v9 marker.
type InvalidVersion struct {
	Got int32
}

func (e *InvalidVersion) Error() string {
	return fmt.Sprintf("invalid segment version: expected 9, got %d", e.Got)
}

// InvalidArchive is returned when the smoosh text index or a chunk
// lookup cannot be parsed or resolved.
type InvalidArchive struct {
	Message string
}

func (e *InvalidArchive) Error() string {
	return "invalid smoosh archive: " + e.Message
}

// LogicalFileNotFound is returned when a requested logical file name has
// no entry in the smoosh archive.
type LogicalFileNotFound struct {
	Name string
}

func (e *LogicalFileNotFound) Error() string {
	return fmt.Sprintf("logical file not found in archive: %q", e.Name)
}

// UnsupportedCodec is returned when a compressed block references a
// codec id the registry cannot decode.
type UnsupportedCodec struct {
	ID byte
}

func (e *UnsupportedCodec) Error() string {
	return fmt.Sprintf("unsupported codec id: 0x%02x", e.ID)
}

// UnsupportedColumnType is returned when a column descriptor declares a
// complex type or the multi-value flag, neither of which the core
// decodes.
type UnsupportedColumnType struct {
	Detail string
}

func (e *UnsupportedColumnType) Error() string {
	return "unsupported column type: " + e.Detail
}

// InvalidGenericIndexedVersion is returned when a GenericIndexed
// container's version byte is not 1.
type InvalidGenericIndexedVersion struct {
	Version byte
}

func (e *InvalidGenericIndexedVersion) Error() string {
	return fmt.Sprintf("invalid generic indexed version: 0x%02x", e.Version)
}

// DecompressionError is returned when a codec fails to produce exactly
// the expected decompressed size, or otherwise rejects its input.
type DecompressionError struct {
	Message string
}

func (e *DecompressionError) Error() string {
	return "decompression error: " + e.Message
}

// JSONError is returned when a column descriptor or metadata JSON
// payload fails to parse.
type JSONError struct {
	Message string
	Err     error
}

func (e *JSONError) Error() string {
	return "json error: " + e.Message
}

func (e *JSONError) Unwrap() error {
	return e.Err
}

// InvalidData is returned for any local bounds or structural violation
// that does not have a more specific error kind of its own.
type InvalidData struct {
	Message string
}

func (e *InvalidData) Error() string {
	return "invalid data: " + e.Message
}

// NewInvalidData constructs an *InvalidData with a formatted message.
func NewInvalidData(format string, args ...any) *InvalidData {
	return &InvalidData{Message: fmt.Sprintf(format, args...)}
}

// NewInvalidArchive constructs an *InvalidArchive with a formatted message.
func NewInvalidArchive(format string, args ...any) *InvalidArchive {
	return &InvalidArchive{Message: fmt.Sprintf(format, args...)}
}
