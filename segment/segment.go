// Package segment assembles the lower-level decoders into the library
// surface a collaborator actually calls: open a segment directory,
// inspect its schema and metadata, and materialize columns on demand.
package segment

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreaBozzo/druidseg/coldesc"
	"github.com/AndreaBozzo/druidseg/column"
	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/format"
	"github.com/AndreaBozzo/druidseg/genericindexed"
	"github.com/AndreaBozzo/druidseg/internal/options"
	"github.com/AndreaBozzo/druidseg/smoosh"
)

const (
	versionFileName = "version.bin"
	indexFileName   = "index.drd"
	timeColumnName  = "__time"
)

// LogicalType is the Arrow-equivalent logical type a column's value
// type maps to for schema purposes.
type LogicalType string

const (
	TypeTimestampMs LogicalType = "timestamp<ms>"
	TypeUTF8        LogicalType = "utf8"
	TypeInt64       LogicalType = "int64"
	TypeFloat32     LogicalType = "float32"
	TypeFloat64     LogicalType = "float64"
	TypeOpaqueBytes LogicalType = "opaque"
)

// Field is one column's name and logical type within a Schema.
type Field struct {
	Name string
	Type LogicalType
}

// Schema is the ordered list of fields a segment (or a requested subset
// of its columns) exposes.
type Schema struct {
	Fields []Field
}

// Metadata mirrors index.drd: the segment's column/dimension name lists
// and its time interval.
type Metadata struct {
	Columns        []string
	Dimensions     []string
	IntervalStart  int64
	IntervalEndExc int64
}

// String renders a Metadata for debug logging and test failure output.
func (m Metadata) String() string {
	return fmt.Sprintf("Metadata{columns=%v dimensions=%v interval=[%d, %d)}",
		m.Columns, m.Dimensions, m.IntervalStart, m.IntervalEndExc)
}

// Column is one materialized, equal-length vector. Exactly one of the
// typed slices is populated, selected by Type.
type Column struct {
	Name    string
	Type    LogicalType
	Longs   []int64
	Floats  []float32
	Doubles []float64
	Strings []*string
}

// Len returns the column's row count.
func (c Column) Len() int {
	switch c.Type {
	case TypeTimestampMs, TypeInt64:
		return len(c.Longs)
	case TypeFloat32:
		return len(c.Floats)
	case TypeFloat64:
		return len(c.Doubles)
	case TypeUTF8:
		return len(c.Strings)
	default:
		return 0
	}
}

// Batch is a set of equal-length columns returned by ReadColumns/ReadAll.
type Batch struct {
	Schema  Schema
	Columns []Column
}

// Segment is a read-only handle on an opened v9 segment directory. It
// is safe for concurrent use: every field is set once in Open and never
// mutated afterward.
type Segment struct {
	archive  *smoosh.Reader
	metadata Metadata
	schema   Schema
	descs    map[string]*coldesc.Descriptor
	payloads map[string][]byte
}

// Open validates the version marker, parses the archive and index, and
// resolves every column's descriptor so Schema and Metadata are
// available immediately without a further materialization pass.
func Open(dir string, opts ...Option) (*Segment, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := checkVersion(dir); err != nil {
		return nil, err
	}

	var smooshOpts []smoosh.OpenOption
	if cfg.noMmap {
		smooshOpts = append(smooshOpts, smoosh.WithoutMmap())
	}

	archive, err := smoosh.Open(dir, smooshOpts...)
	if err != nil {
		return nil, err
	}

	indexBytes, err := archive.Lookup(indexFileName)
	if err != nil {
		archive.Close()
		return nil, err
	}

	metadata, err := parseIndex(indexBytes)
	if err != nil {
		archive.Close()
		return nil, err
	}

	descs := make(map[string]*coldesc.Descriptor, len(metadata.Columns))
	payloads := make(map[string][]byte, len(metadata.Columns))
	fields := make([]Field, 0, len(metadata.Columns))

	for _, name := range metadata.Columns {
		raw, err := archive.Lookup(name)
		if err != nil {
			archive.Close()
			return nil, err
		}

		desc, payload, err := coldesc.Parse(raw)
		if err != nil {
			archive.Close()
			return nil, err
		}

		descs[name] = desc
		payloads[name] = payload
		fields = append(fields, Field{Name: name, Type: logicalTypeFor(name, desc.ValueType)})
	}

	return &Segment{
		archive:  archive,
		metadata: metadata,
		schema:   Schema{Fields: fields},
		descs:    descs,
		payloads: payloads,
	}, nil
}

func checkVersion(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, versionFileName))
	if err != nil {
		return errs.NewIo("reading "+versionFileName, err)
	}
	if len(data) != 4 {
		return errs.NewInvalidData("version marker: expected 4 bytes, got %d", len(data))
	}

	version := int32(binary.BigEndian.Uint32(data))
	if version != format.SegmentVersion {
		return &errs.InvalidVersion{Got: version}
	}

	return nil
}

func parseIndex(data []byte) (Metadata, error) {
	columns, rest, err := parseNameList(data)
	if err != nil {
		return Metadata{}, err
	}

	dimensions, rest, err := parseNameList(rest)
	if err != nil {
		return Metadata{}, err
	}

	if len(rest) < 16 {
		return Metadata{}, errs.NewInvalidData("index.drd: data too short for interval bounds")
	}

	start := int64(binary.BigEndian.Uint64(rest[0:8]))
	end := int64(binary.BigEndian.Uint64(rest[8:16]))

	return Metadata{
		Columns:        columns,
		Dimensions:     dimensions,
		IntervalStart:  start,
		IntervalEndExc: end,
	}, nil
}

func parseNameList(data []byte) (names []string, rest []byte, err error) {
	list, err := genericindexed.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	names = make([]string, list.Len())
	for i := 0; i < list.Len(); i++ {
		s, ok, err := list.GetObjectString(i)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			names[i] = s
		}
	}

	size, err := list.TotalSize()
	if err != nil {
		return nil, nil, err
	}
	if size > len(data) {
		return nil, nil, errs.NewInvalidData("index.drd: name list overflows data")
	}

	return names, data[size:], nil
}

func logicalTypeFor(name string, vt format.ValueType) LogicalType {
	if name == timeColumnName {
		return TypeTimestampMs
	}

	switch vt {
	case format.ValueString:
		return TypeUTF8
	case format.ValueLong:
		return TypeInt64
	case format.ValueFloat:
		return TypeFloat32
	case format.ValueDouble:
		return TypeFloat64
	default:
		return TypeOpaqueBytes
	}
}

// Schema returns the segment's full schema, in index column order.
func (s *Segment) Schema() Schema {
	return s.schema
}

// Metadata returns the decoded index.drd contents.
func (s *Segment) Metadata() Metadata {
	return s.metadata
}

// Archive exposes the underlying smoosh archive for introspection.
func (s *Segment) Archive() *smoosh.Reader {
	return s.archive
}

// NumRows decodes only the time column and returns its length.
func (s *Segment) NumRows() (int, error) {
	col, err := s.readColumn(timeColumnName)
	if err != nil {
		return 0, err
	}

	return col.Len(), nil
}

// ReadColumns materializes the named columns, in the requested order.
func (s *Segment) ReadColumns(names []string) (Batch, error) {
	fields := make([]Field, 0, len(names))
	cols := make([]Column, 0, len(names))

	for _, name := range names {
		col, err := s.readColumn(name)
		if err != nil {
			return Batch{}, err
		}
		if len(cols) > 0 && col.Len() != cols[0].Len() {
			return Batch{}, errs.NewInvalidData("column %q has %d rows, expected %d", name, col.Len(), cols[0].Len())
		}
		fields = append(fields, Field{Name: col.Name, Type: col.Type})
		cols = append(cols, col)
	}

	return Batch{Schema: Schema{Fields: fields}, Columns: cols}, nil
}

// ReadAll materializes every column listed in the index, in index order.
func (s *Segment) ReadAll() (Batch, error) {
	return s.ReadColumns(s.metadata.Columns)
}

func (s *Segment) readColumn(name string) (Column, error) {
	desc, ok := s.descs[name]
	if !ok {
		return Column{}, &errs.LogicalFileNotFound{Name: name}
	}
	if err := desc.CheckSupported(); err != nil {
		return Column{}, err
	}

	payload := s.payloads[name]
	logicalType := logicalTypeFor(name, desc.ValueType)

	switch {
	case name == timeColumnName:
		values, err := column.Time(payload)
		if err != nil {
			return Column{}, err
		}
		return Column{Name: name, Type: logicalType, Longs: values}, nil
	case desc.ValueType == format.ValueLong:
		values, err := column.Long(payload)
		if err != nil {
			return Column{}, err
		}
		return Column{Name: name, Type: logicalType, Longs: values}, nil
	case desc.ValueType == format.ValueFloat:
		values, err := column.Float(payload)
		if err != nil {
			return Column{}, err
		}
		return Column{Name: name, Type: logicalType, Floats: values}, nil
	case desc.ValueType == format.ValueDouble:
		values, err := column.Double(payload)
		if err != nil {
			return Column{}, err
		}
		return Column{Name: name, Type: logicalType, Doubles: values}, nil
	case desc.ValueType == format.ValueString:
		values, err := column.String(payload)
		if err != nil {
			return Column{}, err
		}
		return Column{Name: name, Type: logicalType, Strings: values}, nil
	default:
		return Column{}, &errs.UnsupportedColumnType{Detail: string(desc.ValueType)}
	}
}

// Close releases the segment's underlying archive mappings.
func (s *Segment) Close() error {
	return s.archive.Close()
}
