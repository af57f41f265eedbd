package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/AndreaBozzo/druidseg/errs"
)

// lz4CompressorPool pools lz4.Compressor instances; the type carries
// internal state that benefits from reuse across blocks.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4Codec implements the required "fast" block codec, id 0x01.
type lz4Codec struct{}

var _ Codec = lz4Codec{}

// Compress compresses a single block using a pooled lz4.Compressor.
// Only used by this module's test fixture builders — real segments are
// never written here.
func (c lz4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses a single lz4 block into exactly expectedSize
// bytes. Since the compressed columnar block header already tells us
// the exact decompressed size, the destination buffer is sized once —
// no adaptive retry loop is needed.
func (c lz4Codec) Decompress(compressed []byte, expectedSize int) ([]byte, error) {
	if expectedSize == 0 {
		return nil, nil
	}

	dst := make([]byte, expectedSize)

	n, err := lz4.UncompressBlock(compressed, dst)
	if err != nil {
		return nil, &errs.DecompressionError{Message: err.Error()}
	}

	if err := checkExactSize(n, expectedSize); err != nil {
		return nil, err
	}

	return dst, nil
}
