package genericindexed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndreaBozzo/druidseg/internal/fixture"
)

func TestLengthPrefixedRoundTrip(t *testing.T) {
	elements := [][]byte{[]byte("alpha"), []byte("b"), nil, []byte("delta-four")}
	data := fixture.GenericIndexedLengthPrefixed(elements)

	r, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, len(elements), r.Len())

	for i, want := range elements {
		got, ok, err := r.GetLengthPrefixed(i)
		require.NoError(t, err)
		if want == nil {
			require.False(t, ok)
			continue
		}
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestObjectStringRoundTrip(t *testing.T) {
	values := []string{"dim1", "dim2", "", "metric_count"}
	data := fixture.GenericIndexedObjectString(values)

	r, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, len(values), r.Len())

	for i, want := range values {
		got, ok, err := r.GetObjectString(i)
		require.NoError(t, err)
		if want == "" {
			require.False(t, ok)
			continue
		}
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestEmptyContainer(t *testing.T) {
	data := fixture.GenericIndexedObjectString(nil)

	r, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 0, r.Len())
}

func TestInvalidVersionRejected(t *testing.T) {
	data := fixture.GenericIndexedObjectString([]string{"x"})
	data[0] = 0x99

	_, err := Parse(data)
	require.Error(t, err)
}

func TestTruncatedBufferRejected(t *testing.T) {
	data := fixture.GenericIndexedObjectString([]string{"x", "y", "z"})

	_, err := Parse(data[:8])
	require.Error(t, err)
}

func TestOutOfRangeIndex(t *testing.T) {
	data := fixture.GenericIndexedObjectString([]string{"x"})

	r, err := Parse(data)
	require.NoError(t, err)

	_, _, err = r.GetObjectString(5)
	require.Error(t, err)
}

func TestTotalSize(t *testing.T) {
	values := []string{"a", "bb", "ccc"}
	data := fixture.GenericIndexedObjectString(values)

	r, err := Parse(data)
	require.NoError(t, err)

	size, err := r.TotalSize()
	require.NoError(t, err)
	require.Equal(t, len(data), size)
}
