// Package tapedevice defines the structural constants shared by the
// assembler and the disassembler: register ids, the opcode catalogue,
// and the tape file format. It does not implement the device's
// runtime execution semantics — those belong to the virtual machine
// that consumes the tape this package's consumers produce.
package tapedevice

// Data register ids. These are the canonical byte values stored in a
// DataReg parameter and emitted directly into instruction operands.
const (
	RegD0  byte = iota // general purpose data register 0
	RegD1              // general purpose data register 1
	RegD2              // general purpose data register 2
	RegD3              // general purpose data register 3
	RegACC             // accumulator
)

// Address register ids. These continue the data register numbering
// rather than starting back at 0: the KindRegisters composite lets a
// data register and an address register share one operand slot (e.g.
// "cpy acc a0"), and the encoded operand is a bare byte with no tag
// alongside it, so a data and an address register must never encode
// to the same value or the device has no way to tell them apart.
const (
	RegA0 byte = RegACC + 1 + iota // address register 0
	RegA1                          // address register 1
)

// Tape format constants (see the EXTERNAL INTERFACES section of the
// specification for the full byte layout).
const (
	TapeHeader1 byte = 0x5A // first fixed header byte
	TapeHeader2 byte = 0x70 // second fixed header byte
	PrgVersion  byte = 0x01 // tape format version

	// MaxStringBytes is the maximum size in bytes of the strings
	// segment once emitted (length bytes plus content).
	MaxStringBytes = 65535

	// MaxDataBytes is the maximum size in bytes of the data segment
	// once emitted.
	MaxDataBytes = 65535

	// MaxEntryLen is the maximum length, in bytes, of a single
	// string entry's content, and of the program name and version.
	MaxEntryLen = 255
)
