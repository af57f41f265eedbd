package compress

// zstdCodec implements the optional "high-ratio" block codec, id 0x02.
//
// Two implementations exist, selected at build time exactly as the
// teacher's own zstd support is split:
//   - zstd_cgo.go (build tag "cgo"): github.com/valyala/gozstd, a cgo
//     binding to the reference zstd library.
//   - zstd_pure.go (build tag "!cgo"): github.com/klauspost/compress/zstd,
//     a pure-Go implementation used when cgo is unavailable or disabled.
//
// Both produce and consume standard zstd frames, so either build can
// decode blocks the other encoded.
type zstdCodec struct{}

var _ Codec = zstdCodec{}
