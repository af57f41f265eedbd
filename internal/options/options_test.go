package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// segmentLikeConfig mirrors the shape of segment.config, the actual
// consumer of this package: a couple of independent knobs set by
// functional options before a facade is constructed.
type segmentLikeConfig struct {
	registeredCodecs []byte
	noMmap           bool
}

func (c *segmentLikeConfig) registerCodec(id byte) error {
	if id == 0x00 {
		return errors.New("codec id 0x00 is reserved")
	}
	c.registeredCodecs = append(c.registeredCodecs, id)

	return nil
}

func (c *segmentLikeConfig) disableMmap() {
	c.noMmap = true
}

func TestNew(t *testing.T) {
	cfg := &segmentLikeConfig{}

	t.Run("creates an option that can fail", func(t *testing.T) {
		opt := New(func(c *segmentLikeConfig) error {
			return c.registerCodec(0x02)
		})

		err := opt.apply(cfg)
		require.NoError(t, err)
		require.Equal(t, []byte{0x02}, cfg.registeredCodecs)
	})

	t.Run("propagates the wrapped function's error", func(t *testing.T) {
		opt := New(func(c *segmentLikeConfig) error {
			return c.registerCodec(0x00)
		})

		err := opt.apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "reserved")
	})
}

func TestNoError(t *testing.T) {
	cfg := &segmentLikeConfig{}

	opt := NoError(func(c *segmentLikeConfig) {
		c.disableMmap()
	})

	err := opt.apply(cfg)
	require.NoError(t, err)
	require.True(t, cfg.noMmap)
}

func TestApply(t *testing.T) {
	t.Run("applies every option in order", func(t *testing.T) {
		cfg := &segmentLikeConfig{}

		opts := []Option[*segmentLikeConfig]{
			New(func(c *segmentLikeConfig) error { return c.registerCodec(0x02) }),
			New(func(c *segmentLikeConfig) error { return c.registerCodec(0x03) }),
			NoError(func(c *segmentLikeConfig) { c.disableMmap() }),
		}

		err := Apply(cfg, opts...)
		require.NoError(t, err)
		require.Equal(t, []byte{0x02, 0x03}, cfg.registeredCodecs)
		require.True(t, cfg.noMmap)
	})

	t.Run("stops at the first error and leaves later options unapplied", func(t *testing.T) {
		cfg := &segmentLikeConfig{}

		opts := []Option[*segmentLikeConfig]{
			New(func(c *segmentLikeConfig) error { return c.registerCodec(0x02) }),
			New(func(c *segmentLikeConfig) error { return c.registerCodec(0x00) }), // fails
			NoError(func(c *segmentLikeConfig) { c.disableMmap() }),
		}

		err := Apply(cfg, opts...)
		require.Error(t, err)
		require.Equal(t, []byte{0x02}, cfg.registeredCodecs)
		require.False(t, cfg.noMmap)
	})

	t.Run("is a no-op over an empty option set", func(t *testing.T) {
		cfg := &segmentLikeConfig{}

		err := Apply(cfg)
		require.NoError(t, err)
		require.Nil(t, cfg.registeredCodecs)
		require.False(t, cfg.noMmap)
	})
}

// TestGenericOverOtherTypes exercises Option/Apply against a type with
// no relation to segmentLikeConfig, confirming the mechanism is not
// accidentally coupled to one consumer's shape.
func TestGenericOverOtherTypes(t *testing.T) {
	var width int

	opt := NoError(func(w *int) { *w = 4 })
	err := opt.apply(&width)
	require.NoError(t, err)
	require.Equal(t, 4, width)
}
