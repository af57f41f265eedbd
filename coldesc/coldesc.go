// Package coldesc decodes the small JSON header that precedes every
// column's binary payload inside a smoosh archive entry: a length
// prefix, then a JSON object describing the column's logical type and
// wire layout, then the raw payload bytes themselves.
package coldesc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/AndreaBozzo/druidseg/errs"
	"github.com/AndreaBozzo/druidseg/format"
)

// Part describes one serde layer of a column's encoding. Extra is kept
// as raw JSON so unrecognized fields survive round-tripping untouched.
type Part struct {
	Type  string          `json:"type"`
	Extra json.RawMessage `json:"-"`
}

// rawDescriptor mirrors the wire JSON shape before Extra fields are
// folded into Part.Extra.
type rawDescriptor struct {
	ValueType         format.ValueType  `json:"valueType"`
	HasMultipleValues bool              `json:"hasMultipleValues"`
	Parts             []json.RawMessage `json:"parts"`
}

// Descriptor is the decoded column header.
type Descriptor struct {
	ValueType         format.ValueType
	HasMultipleValues bool
	Parts             []Part
}

// Parse strips the 4-byte big-endian length prefix, decodes that many
// bytes as JSON, and returns the descriptor plus the remaining bytes
// (the column's raw binary payload).
func Parse(data []byte) (*Descriptor, []byte, error) {
	if len(data) < 4 {
		return nil, nil, errs.NewInvalidData("column descriptor: data too short for length prefix (%d bytes)", len(data))
	}

	jsonLen := int(int32(binary.BigEndian.Uint32(data[0:4])))
	if jsonLen < 0 || 4+jsonLen > len(data) {
		return nil, nil, errs.NewInvalidData("column descriptor: json length %d overflows buffer of %d bytes", jsonLen, len(data))
	}

	jsonBytes := data[4 : 4+jsonLen]
	payload := data[4+jsonLen:]

	var raw rawDescriptor
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return nil, nil, &errs.JSONError{Message: "column descriptor", Err: err}
	}

	parts := make([]Part, len(raw.Parts))
	for i, p := range raw.Parts {
		var typed struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(p, &typed); err != nil {
			return nil, nil, &errs.JSONError{Message: "column descriptor part", Err: err}
		}
		parts[i] = Part{Type: typed.Type, Extra: p}
	}

	return &Descriptor{
		ValueType:         raw.ValueType,
		HasMultipleValues: raw.HasMultipleValues,
		Parts:             parts,
	}, payload, nil
}

// String renders a Descriptor for debug logging and test failure output.
func (d *Descriptor) String() string {
	partTypes := make([]string, len(d.Parts))
	for i, p := range d.Parts {
		partTypes[i] = p.Type
	}
	return fmt.Sprintf("Descriptor{valueType=%s multiValue=%t parts=%v}", d.ValueType, d.HasMultipleValues, partTypes)
}

// CheckSupported rejects the shapes the core does not materialize:
// multi-value columns and the Complex value type.
func (d *Descriptor) CheckSupported() error {
	if d.HasMultipleValues {
		return &errs.UnsupportedColumnType{Detail: "multi-value columns are not supported"}
	}
	if d.ValueType == format.ValueComplex {
		return &errs.UnsupportedColumnType{Detail: "complex value type is not supported"}
	}

	return nil
}
