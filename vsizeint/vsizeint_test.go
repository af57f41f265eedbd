package vsizeint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndreaBozzo/druidseg/internal/fixture"
)

func TestRoundTripEachWidth(t *testing.T) {
	for width := 1; width <= 4; width++ {
		values := []uint32{0, 1, 42, 255}
		if width > 1 {
			values = append(values, 1<<(uint(width)*8-1))
		}

		data := fixture.VSizeInts(width, values)

		r, err := Parse(data)
		require.NoError(t, err)
		require.Equal(t, len(values), r.Len())

		got, err := r.ToSlice()
		require.NoError(t, err)
		require.Equal(t, values, got)

		for i, want := range values {
			v, err := r.Get(i)
			require.NoError(t, err)
			require.Equal(t, want, v)
		}
	}
}

func TestInvalidWidthRejected(t *testing.T) {
	data := fixture.VSizeInts(1, []uint32{1, 2, 3})
	data[1] = 7

	_, err := Parse(data)
	require.Error(t, err)
}

func TestWrongVersionRejected(t *testing.T) {
	data := fixture.VSizeInts(2, []uint32{1, 2})
	data[0] = 0x01

	_, err := Parse(data)
	require.Error(t, err)
}

func TestOutOfRangeGet(t *testing.T) {
	data := fixture.VSizeInts(1, []uint32{1, 2})

	r, err := Parse(data)
	require.NoError(t, err)

	_, err = r.Get(10)
	require.Error(t, err)
}

func TestTotalSize(t *testing.T) {
	data := fixture.VSizeInts(2, []uint32{1, 2, 3})

	r, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, len(data), r.TotalSize())
}
