package asm

import "github.com/raybritton/tape-device"

// OpModel is one assembled instruction: an opcode byte, its typed
// operands, and the originating source line, per spec.md §3. Grounded
// on the teacher's instruction/segment line model, restructured around
// the device's Parameter type instead of a 6502 addressing mode.
type OpModel struct {
	Opcode    byte
	Operands  []tapedevice.Parameter
	RawLine   string // the line exactly as read from the source
	Processed string // the line after comment-stripping/trimming
	LineNum   int
}

// StringModel is one `.strings` entry. Content is kept as raw bytes,
// not a Go string subjected to any encoding-aware processing — spec.md
// §9's "Non-UTF content" note applies equally to strings and data.
type StringModel struct {
	Key     string
	Content []byte
	RawLine string
	LineNum int
}

// DataModel is one `.data` entry: a key and an arbitrary byte blob with
// no implied internal structure.
type DataModel struct {
	Key     string
	Bytes   []byte
	RawLine string
	LineNum int
}

// LabelModel is one label: a key and the line on which it was defined.
// The front end records a LabelModel only for a label definition line,
// always with Defined == true; a label that ops reference but no line
// defines has no entry, and back-patching reports it as an undefined
// symbol.
type LabelModel struct {
	Key     string
	Defined bool
	RawLine string
	LineNum int
}

// ProgramModel is the in-memory result of the front-end assembler pass
// (spec.md §4.3): the program header, the ops in source order, and the
// three keyed symbol tables. It is built once, consumed once by code
// generation (generator.go), and then dropped.
type ProgramModel struct {
	Name    string
	Version string

	Ops     []OpModel
	Strings map[string]StringModel
	Data    map[string]DataModel
	Labels  map[string]LabelModel

	// LabelDefOrder records label keys in the order their definitions
	// were encountered. Maps have no iteration order of their own, and
	// the generator needs one to break ties deterministically when two
	// labels share a definition line (spec.md §9 "Label-binding
	// timing": "ties are broken by insertion order").
	LabelDefOrder []string

	// StringDefOrder and DataDefOrder record .strings/.data entry keys
	// in source order. The segments are laid out in this order, not
	// sorted, matching the original compile_strings (spec.md §8
	// concrete scenario 1: simple=test, checking=bytes emits
	// simple->0, checking->5).
	StringDefOrder []string
	DataDefOrder   []string
}

func newProgramModel() *ProgramModel {
	return &ProgramModel{
		Strings: make(map[string]StringModel),
		Data:    make(map[string]DataModel),
		Labels:  make(map[string]LabelModel),
	}
}
