package smoosh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, dir string) {
	t.Helper()

	meta := "v1,2147483647,1\nfoo,0,10,17\nbar,0,0,3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, metaFileName), []byte(meta), 0o644))

	chunk := []byte("bar" + "XXXXXXX" + "HELLO!!")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000.smoosh"), chunk, 0o644))
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Lookup("foo")
	require.NoError(t, err)
	require.Equal(t, "HELLO!!", string(got))

	got, err = r.Lookup("bar")
	require.NoError(t, err)
	require.Equal(t, "bar", string(got))
}

func TestHasAndLen(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Has("foo"))
	require.False(t, r.Has("missing"))
	require.Equal(t, 2, r.Len())
}

func TestEntriesSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for e := range r.Entries() {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"bar", "foo"}, names)
}

func TestLookupMissing(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Lookup("nope")
	require.Error(t, err)
}

func TestMalformedMeta(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, metaFileName), []byte("not-a-header\n"), 0o644))

	_, err := Open(dir)
	require.Error(t, err)
}

func TestLookupWithoutMmap(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir)

	r, err := Open(dir, WithoutMmap())
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Lookup("foo")
	require.NoError(t, err)
	require.Equal(t, "HELLO!!", string(got))
}

func TestEntryOutOfChunkBounds(t *testing.T) {
	dir := t.TempDir()
	meta := "v1,2147483647,1\nfoo,0,0,1000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, metaFileName), []byte(meta), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000.smoosh"), []byte("short"), 0o644))

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Lookup("foo")
	require.Error(t, err)
}
