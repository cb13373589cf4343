package asm

import (
	"encoding/json"
	"io"
)

// DebugUsage is one reference site to a symbol: the address of the
// referencing op, the byte offset of that operand within the op, and
// the source line the reference appeared on.
type DebugUsage struct {
	OpAddress     uint16 `json:"op_address"`
	OperandOffset int    `json:"operand_offset"`
	LineNum       int    `json:"line_number"`
}

// DebugOp records one emitted instruction.
type DebugOp struct {
	Address   uint16 `json:"address"`
	LineNum   int    `json:"line_number"`
	RawLine   string `json:"raw_line"`
	Processed string `json:"processed_line"`
	Bytes     []byte `json:"bytes"`
}

// DebugString records one emitted string entry and every site that
// references it.
type DebugString struct {
	Address uint16       `json:"address"`
	LineNum int          `json:"line_number"`
	RawLine string       `json:"raw_line"`
	Content []byte       `json:"content"`
	Usage   []DebugUsage `json:"usage"`
}

// DebugData records one emitted data entry and every site that
// references it.
type DebugData struct {
	Address uint16       `json:"address"`
	LineNum int          `json:"line_number"`
	RawLine string       `json:"raw_line"`
	Bytes   []byte       `json:"bytes"`
	Usage   []DebugUsage `json:"usage"`
}

// DebugLabel records one label's bound address and every site that
// references it.
type DebugLabel struct {
	Address uint16       `json:"address"`
	LineNum int          `json:"line_number"`
	RawLine string       `json:"raw_line"`
	Usage   []DebugUsage `json:"usage"`
}

// DebugModel is the structured index produced alongside the tape when
// Options.EmitDebugModel is set (spec.md §4.5). It implements the
// richer of the two candidate shapes named in spec.md §9 Open Question
// (a) — the one carrying DebugUsage, bytes, and content — per the
// spec's own resolution of that question.
//
// Grounded on asm/sourcemap.go's SourceMap/SourceLine address-to-line
// index for the overall "what does this package expose" shape, but
// serialized with encoding/json rather than the teacher's bespoke
// varint delta codec: see SPEC_FULL.md §4 for why that codec's reason
// to exist (cheap incremental re-linking of a running image) does not
// apply to a core that emits exactly one tape per source file.
type DebugModel struct {
	Name    string                 `json:"name"`
	Version string                 `json:"version"`
	Ops     []DebugOp              `json:"ops"`
	Strings map[string]DebugString `json:"strings"`
	Data    map[string]DebugData   `json:"data"`
	Labels  map[string]DebugLabel  `json:"labels"`
}

// WriteTo serializes m as indented JSON.
func (m *DebugModel) WriteTo(w io.Writer) (int64, error) {
	counting := &countingWriter{w: w}
	enc := json.NewEncoder(counting)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return counting.n, err
	}
	return counting.n, nil
}

// ReadDebugModel deserializes a DebugModel previously written by
// WriteTo.
func ReadDebugModel(r io.Reader) (*DebugModel, error) {
	var m DebugModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
