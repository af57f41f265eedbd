package segment

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/format"
	"github.com/AndreaBozzo/druidseg/internal/fixture"
)

// writeSegment assembles a minimal but complete v9 segment directory on
// disk: version.bin plus a single-chunk smoosh archive holding index.drd
// and every named column payload.
func writeSegment(t *testing.T, files map[string][]byte, columns, dimensions []string, startMs, endMs int64) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.bin"), fixture.VersionBin(format.SegmentVersion), 0o644))

	all := make(map[string][]byte, len(files)+1)
	for k, v := range files {
		all[k] = v
	}
	all["index.drd"] = fixture.IndexDrd(columns, dimensions, startMs, endMs)

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}

	var chunk []byte
	meta := "v1,2147483647,1\n"
	for _, name := range names {
		start := len(chunk)
		chunk = append(chunk, all[name]...)
		end := len(chunk)
		meta += name + ",0," + strconv.Itoa(start) + "," + strconv.Itoa(end) + "\n"
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.smoosh"), []byte(meta), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000.smoosh"), chunk, 0o644))

	return dir
}

func timeColumnPayload(t *testing.T, values []int64) []byte {
	t.Helper()
	body := fixture.CompressedLongsV2(values, 4, byte(format.CodecFast))
	return fixture.ColumnDescriptor(`{"valueType":"LONG","hasMultipleValues":false,"parts":[{"type":"long"}]}`, body)
}

func stringColumnPayload(t *testing.T, dict []string, ids []uint32) []byte {
	t.Helper()
	body := fixture.StringColumnCompressed(0x02, 0, dict, ids, 4, byte(format.CodecFast))
	return fixture.ColumnDescriptor(`{"valueType":"STRING","hasMultipleValues":false,"parts":[{"type":"stringDictionary"}]}`, body)
}

func TestOpenAndReadColumns(t *testing.T) {
	timeValues := []int64{1000, 2000, 3000}
	dict := []string{"", "foo", "bar"}
	ids := []uint32{1, 2, 1}

	files := map[string][]byte{
		"__time":  timeColumnPayload(t, timeValues),
		"channel": stringColumnPayload(t, dict, ids),
	}

	dir := writeSegment(t, files, []string{"__time", "channel"}, []string{"channel"}, 1000, 4000)

	seg, err := Open(dir)
	require.NoError(t, err)
	defer seg.Close()

	n, err := seg.NumRows()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	batch, err := seg.ReadColumns([]string{"__time", "channel"})
	require.NoError(t, err)
	require.Len(t, batch.Columns, 2)
	require.Equal(t, TypeTimestampMs, batch.Columns[0].Type)
	require.Equal(t, timeValues, batch.Columns[0].Longs)
	require.Equal(t, TypeUTF8, batch.Columns[1].Type)
	require.Equal(t, "foo", *batch.Columns[1].Strings[0])
	require.Equal(t, "bar", *batch.Columns[1].Strings[1])

	meta := seg.Metadata()
	require.Equal(t, []string{"__time", "channel"}, meta.Columns)
	require.Equal(t, []string{"channel"}, meta.Dimensions)
	require.Equal(t, int64(1000), meta.IntervalStart)
	require.Equal(t, int64(4000), meta.IntervalEndExc)
}

func TestReadAll(t *testing.T) {
	files := map[string][]byte{
		"__time": timeColumnPayload(t, []int64{1, 2}),
	}
	dir := writeSegment(t, files, []string{"__time"}, nil, 0, 1)

	seg, err := Open(dir)
	require.NoError(t, err)
	defer seg.Close()

	batch, err := seg.ReadAll()
	require.NoError(t, err)
	require.Len(t, batch.Columns, 1)
}

func TestOpenWithoutMmap(t *testing.T) {
	files := map[string][]byte{
		"__time": timeColumnPayload(t, []int64{10, 20}),
	}
	dir := writeSegment(t, files, []string{"__time"}, nil, 0, 1)

	seg, err := Open(dir, WithoutMmap())
	require.NoError(t, err)
	defer seg.Close()

	n, err := seg.NumRows()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestMissingVersionFileIsIoError(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir)
	require.Error(t, err)

	var ioErr *errs.Io
	require.ErrorAs(t, err, &ioErr)
}

func TestVersionMismatchRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.bin"), fixture.VersionBin(8), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.smoosh"), []byte("v1,100,0\n"), 0o644))

	_, err := Open(dir)
	require.Error(t, err)
}

func TestMissingColumnRejected(t *testing.T) {
	files := map[string][]byte{
		"__time": timeColumnPayload(t, []int64{1}),
	}
	dir := writeSegment(t, files, []string{"__time"}, nil, 0, 1)

	seg, err := Open(dir)
	require.NoError(t, err)
	defer seg.Close()

	_, err = seg.ReadColumns([]string{"missing"})
	require.Error(t, err)
}
