//go:build cgo

package compress

import (
	"github.com/valyala/gozstd"

	"github.com/AndreaBozzo/druidseg/errs"
)

// Compress compresses data with the reference zstd library via cgo.
// Only used by this module's test fixture builders.
func (c zstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses a zstd frame into exactly expectedSize bytes.
func (c zstdCodec) Decompress(compressed []byte, expectedSize int) ([]byte, error) {
	if expectedSize == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, compressed)
	if err != nil {
		return nil, &errs.DecompressionError{Message: err.Error()}
	}

	if err := checkExactSize(len(decompressed), expectedSize); err != nil {
		return nil, err
	}

	return decompressed, nil
}
