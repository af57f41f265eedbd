// Package compress implements the block codec registry used by the
// compressed columnar block family: a narrow, pluggable mapping from a
// one-byte codec id to a decompression (and, for test fixture
// construction, compression) strategy.
//
// Adding a new codec is a matter of implementing Codec and registering
// it with Register or passing it through segment.WithCodec — no block
// parser needs to change.
package compress

import (
	"fmt"
	"sync"

	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/format"
)

// Codec compresses and decompresses compressed columnar blocks.
//
// Decompress must enforce the exact expected size: returning a buffer
// of any other length is a DecompressionError, not a best effort.
type Codec interface {
	// Compress compresses data, used only by test fixture builders in
	// this module — the decoder never writes segments.
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses compressed into exactly expectedSize
	// bytes, or returns a *errs.DecompressionError.
	Decompress(compressed []byte, expectedSize int) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[format.CodecID]Codec{
		format.CodecLegacy:       unsupportedCodec{id: byte(format.CodecLegacy)},
		format.CodecFast:         lz4Codec{},
		format.CodecHighRatio:    zstdCodec{},
		format.CodecNoneMarker:   noopCodec{},
		format.CodecUncompressed: noopCodec{},
	}
)

// Get returns the registered codec for id, or an *errs.UnsupportedCodec
// error if no codec is registered under that id.
func Get(id byte) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	codec, ok := registry[format.CodecID(id)]
	if !ok {
		return nil, &errs.UnsupportedCodec{ID: id}
	}

	return codec, nil
}

// Register installs codec under id, overriding any existing
// registration. It is safe for concurrent use; callers typically reach
// this indirectly via segment.WithCodec rather than calling it directly.
func Register(id byte, codec Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[format.CodecID(id)] = codec
}

// unsupportedCodec rejects every call; it is installed for codec ids the
// core recognizes but does not implement (the legacy dictionary-coder,
// id 0x00).
type unsupportedCodec struct {
	id byte
}

func (c unsupportedCodec) Compress(data []byte) ([]byte, error) {
	return nil, &errs.UnsupportedCodec{ID: c.id}
}

func (c unsupportedCodec) Decompress(compressed []byte, expectedSize int) ([]byte, error) {
	return nil, &errs.UnsupportedCodec{ID: c.id}
}

func checkExactSize(got, want int) error {
	if got != want {
		return &errs.DecompressionError{Message: fmt.Sprintf("expected %d decompressed bytes, got %d", want, got)}
	}

	return nil
}
