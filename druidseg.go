// Package druidseg is a read-only decoder for Druid's on-disk v9
// segment format. It opens a segment directory and exposes its schema,
// metadata, and typed columnar data without ever mutating the segment.
// Chunk files stay memory-mapped for the lifetime of the opened
// segment, but segment.Open copies index.drd and the bytes of every
// column listed in it out of the chunks into heap memory and keeps
// those column payloads until the segment is closed.
//
// See the segment package for the library surface: segment.Open,
// Segment.Schema, Segment.Metadata, Segment.ReadColumns, and
// Segment.ReadAll.
package druidseg
