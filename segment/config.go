package segment

import (
	"github.com/AndreaBozzo/druidseg/compress"
	"github.com/AndreaBozzo/druidseg/internal/options"
)

type config struct {
	noMmap bool
}

// Option configures Open.
type Option = options.Option[*config]

// WithCodec registers an additional block codec for the lifetime of the
// process before opening. It lets collaborators add the optional
// high-ratio codec variant (or any future one) without any change to
// the block parsers themselves.
func WithCodec(id byte, codec compress.Codec) Option {
	return options.NoError[*config](func(*config) {
		compress.Register(id, codec)
	})
}

// WithoutMmap opens the segment's chunk files with plain file reads
// instead of memory-mapping them, for environments where mmap is
// unavailable or undesirable. Still strictly read-only.
func WithoutMmap() Option {
	return options.NoError[*config](func(c *config) {
		c.noMmap = true
	})
}
