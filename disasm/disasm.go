// Package disasm provides a symbol-free decoder over an assembled ops
// segment. It exists to make spec.md §8's "idempotent re-assembly"
// property checkable: it recovers opcode bytes and raw operand bytes,
// but never attempts to recover the original label/string-key/data-key
// names, since those do not survive assembly — only the resolved
// addresses they were patched to do.
//
// Grounded on the teacher's disasm/disasm.go, which performs the
// equivalent walk over 6502 machine code using the same
// opcode-indexed instruction-length lookup; adapted here to walk a
// plain byte slice (there is no addressable memory bus in scope) and
// to return raw operand bytes instead of a formatted mnemonic string.
package disasm

import (
	"fmt"

	"github.com/raybritton/tape-device"
)

// Instruction is one decoded instruction: its opcode, mnemonic, and
// the raw bytes of its operands exactly as encoded (register ids,
// literal numbers, and resolved 2-byte big-endian addresses alike).
type Instruction struct {
	Offset   int
	Opcode   byte
	Mnemonic string
	Operands []byte
}

// Disassemble decodes the single instruction beginning at offset
// within ops, and returns the offset of the instruction that follows
// it.
func Disassemble(ops []byte, offset int) (Instruction, int, error) {
	if offset < 0 || offset >= len(ops) {
		return Instruction{}, offset, fmt.Errorf("offset %d out of range [0,%d)", offset, len(ops))
	}

	opcode := ops[offset]
	d := tapedevice.Descriptor(opcode)
	if d == nil {
		return Instruction{}, offset, fmt.Errorf("offset %d: unrecognized opcode %#02x", offset, opcode)
	}

	length := d.EncodedLen()
	if offset+length > len(ops) {
		return Instruction{}, offset, fmt.Errorf("offset %d: opcode %s truncated, need %d bytes, have %d",
			offset, d.Mnemonic, length, len(ops)-offset)
	}

	inst := Instruction{
		Offset:   offset,
		Opcode:   opcode,
		Mnemonic: d.Mnemonic,
		Operands: append([]byte(nil), ops[offset+1:offset+length]...),
	}
	return inst, offset + length, nil
}

// All decodes every instruction in ops from start to end, in order.
func All(ops []byte) ([]Instruction, error) {
	var insts []Instruction
	for offset := 0; offset < len(ops); {
		inst, next, err := Disassemble(ops, offset)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
		offset = next
	}
	return insts, nil
}
