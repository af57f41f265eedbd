// Package smoosh reads Druid's smoosh archive format: a handful of
// numbered chunk files holding concatenated logical payloads, indexed
// by a small plain-text file external to the chunks themselves. Chunks
// are memory-mapped read-only for the reader's lifetime by default;
// pass WithoutMmap to Open to fall back to plain file reads instead.
package smoosh

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"

	"github.com/AndreaBozzo/druidseg/errs"
)

const metaFileName = "meta.smoosh"

// chunkReader is the subset of golang.org/x/exp/mmap.ReaderAt this
// package relies on, so a chunk can be backed either by a real mapping
// or, when mmap is unavailable, by plain file reads.
type chunkReader interface {
	io.ReaderAt
	Len() int
	Close() error
}

// openConfig holds Open's optional behavior.
type openConfig struct {
	noMmap bool
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithoutMmap opens chunk files with plain ReadAt calls against an
// *os.File instead of memory-mapping them, for filesystems or sandboxes
// where mmap is unavailable or undesirable. Still strictly read-only.
func WithoutMmap() OpenOption {
	return func(c *openConfig) { c.noMmap = true }
}

// fileChunkReader backs a chunk with a plain *os.File, used when mmap
// is disabled via WithoutMmap.
type fileChunkReader struct {
	f    *os.File
	size int64
}

func openFileChunkReader(path string) (*fileChunkReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &fileChunkReader{f: f, size: info.Size()}, nil
}

func (r *fileChunkReader) ReadAt(p []byte, off int64) (int, error) {
	return r.f.ReadAt(p, off)
}

func (r *fileChunkReader) Len() int {
	return int(r.size)
}

func (r *fileChunkReader) Close() error {
	return r.f.Close()
}

// Entry describes one logical file's location within the archive.
type Entry struct {
	Name  string
	Chunk int
	Start int64
	End   int64
}

// Size returns the entry's byte length.
func (e Entry) Size() int64 {
	return e.End - e.Start
}

// Reader holds the archive's parsed index and its open chunk mappings.
// All operations are read-only after construction and safe for
// concurrent use: no field is mutated once Open returns.
type Reader struct {
	entries      map[string]Entry
	names        []string // sorted, for Entries()
	chunks       []chunkReader
	maxChunkSize int64
}

// Open parses dir's meta.smoosh index and memory-maps every chunk file
// it references. Pass WithoutMmap to back chunks with plain file reads
// instead.
func Open(dir string, opts ...OpenOption) (*Reader, error) {
	cfg := &openConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	metaPath := filepath.Join(dir, metaFileName)
	f, err := os.Open(metaPath)
	if err != nil {
		return nil, errs.NewInvalidArchive("cannot open %s: %v", metaFileName, err)
	}
	defer f.Close()

	entries := make(map[string]Entry)
	names := make([]string, 0)

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, errs.NewInvalidArchive("meta.smoosh is empty")
	}

	maxChunkSize, numChunks, err := parseHeaderLine(scanner.Text())
	if err != nil {
		return nil, err
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := parseEntryLine(line)
		if err != nil {
			return nil, err
		}
		entries[entry.Name] = entry
		names = append(names, entry.Name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.NewInvalidArchive("failed reading meta.smoosh: %v", err)
	}

	sort.Strings(names)

	chunks := make([]chunkReader, numChunks)
	for i := 0; i < numChunks; i++ {
		chunkPath := filepath.Join(dir, fmt.Sprintf("%05d.smoosh", i))

		var r chunkReader
		var err error
		if cfg.noMmap {
			r, err = openFileChunkReader(chunkPath)
		} else {
			r, err = mmap.Open(chunkPath)
		}
		if err != nil {
			closeAll(chunks)
			return nil, errs.NewInvalidArchive("cannot open chunk %d: %v", i, err)
		}
		chunks[i] = r
	}

	return &Reader{
		entries:      entries,
		names:        names,
		chunks:       chunks,
		maxChunkSize: maxChunkSize,
	}, nil
}

func parseHeaderLine(line string) (maxChunkSize int64, numChunks int, err error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 || parts[0] != "v1" {
		return 0, 0, errs.NewInvalidArchive("malformed meta.smoosh header: %q", line)
	}

	maxChunkSize, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, errs.NewInvalidArchive("malformed max chunk size in header: %q", line)
	}

	numChunksI, err := strconv.Atoi(parts[2])
	if err != nil || numChunksI < 0 {
		return 0, 0, errs.NewInvalidArchive("malformed chunk count in header: %q", line)
	}

	return maxChunkSize, numChunksI, nil
}

func parseEntryLine(line string) (Entry, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return Entry{}, errs.NewInvalidArchive("malformed meta.smoosh entry: %q", line)
	}

	chunk, err := strconv.Atoi(parts[1])
	if err != nil {
		return Entry{}, errs.NewInvalidArchive("malformed chunk index in entry: %q", line)
	}

	start, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Entry{}, errs.NewInvalidArchive("malformed start offset in entry: %q", line)
	}

	end, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Entry{}, errs.NewInvalidArchive("malformed end offset in entry: %q", line)
	}

	if end < start {
		return Entry{}, errs.NewInvalidArchive("entry %q has end < start", parts[0])
	}

	return Entry{Name: parts[0], Chunk: chunk, Start: start, End: end}, nil
}

// Lookup returns the bytes for the named logical file.
func (r *Reader) Lookup(name string) ([]byte, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, &errs.LogicalFileNotFound{Name: name}
	}

	if entry.Chunk < 0 || entry.Chunk >= len(r.chunks) {
		return nil, errs.NewInvalidArchive("entry %q references nonexistent chunk %d", name, entry.Chunk)
	}

	chunk := r.chunks[entry.Chunk]
	if entry.End > int64(chunk.Len()) {
		return nil, errs.NewInvalidArchive("entry %q range [%d,%d) exceeds chunk %d size %d", name, entry.Start, entry.End, entry.Chunk, chunk.Len())
	}

	buf := make([]byte, entry.Size())
	if _, err := chunk.ReadAt(buf, entry.Start); err != nil {
		return nil, errs.NewInvalidArchive("failed reading entry %q: %v", name, err)
	}

	return buf, nil
}

// Has reports whether name has an entry in the archive.
func (r *Reader) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of entries in the archive.
func (r *Reader) Len() int {
	return len(r.entries)
}

// Entries iterates every entry in name-sorted order.
func (r *Reader) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, name := range r.names {
			if !yield(r.entries[name]) {
				return
			}
		}
	}
}

// Close releases every chunk's mapping and file descriptor.
func (r *Reader) Close() error {
	return closeAll(r.chunks)
}

func closeAll(chunks []chunkReader) error {
	var firstErr error
	for _, c := range chunks {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
