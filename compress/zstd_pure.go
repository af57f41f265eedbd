//go:build !cgo

package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/AndreaBozzo/druidseg/errs"
)

// zstdDecoderPool pools zstd decoders for reuse. klauspost/compress/zstd
// is explicitly designed for decoder reuse: it operates without
// allocations after a brief warmup, so the decoder should be kept
// around rather than recreated per call.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic("compress: failed to create zstd decoder: " + err.Error())
		}

		return decoder
	},
}

// zstdEncoderPool pools zstd encoders for reuse, used only by this
// module's test fixture builders.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic("compress: failed to create zstd encoder: " + err.Error())
		}

		return encoder
	},
}

// Compress compresses data with the pure-Go zstd encoder.
func (c zstdCodec) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses a zstd frame into exactly expectedSize bytes.
func (c zstdCodec) Decompress(compressed []byte, expectedSize int) ([]byte, error) {
	if expectedSize == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, &errs.DecompressionError{Message: err.Error()}
	}

	if err := checkExactSize(len(decompressed), expectedSize); err != nil {
		return nil, err
	}

	return decompressed, nil
}
