package tapedevice

import "fmt"

// OpcodeDescriptor is a static record pairing one opcode signature with
// its mnemonic, its byte encoding, and the ordered parameter kinds its
// operands must match. Several descriptors may share a mnemonic (e.g.
// "cpy" has both a register/register and a register/value form); the
// dispatcher in the asm package resolves the ambiguity by trying
// descriptors for a mnemonic in declaration order and taking the first
// whose operand kinds all match.
type OpcodeDescriptor struct {
	// Name is the descriptor's own identifying name, distinct from its
	// source-level Mnemonic when a mnemonic has more than one
	// signature (e.g. Name "CPY_REG_VAL", Mnemonic "cpy").
	Name     string
	Mnemonic string
	Opcode   byte
	Operands []ParameterKind

	// ErrorTemplate is reported when a line matches this descriptor's
	// mnemonic but no declared signature for that mnemonic accepts the
	// given operands.
	ErrorTemplate string
}

// AddrOperandOffset is a dense, opcode-indexed lookup table giving the
// byte offset within an encoded instruction (opcode byte at offset 0)
// at which a 2-byte address-shaped operand (Addr/Label/StrKey/DataKey)
// begins. Opcodes with no such operand carry the sentinel NoAddrOperand.
// It is populated once, in init, directly from the Operands slice of
// each descriptor below.
var AddrOperandOffset [256]int8

// NoAddrOperand is the sentinel AddrOperandOffset value for opcodes
// that have no symbolic/address operand and therefore are never
// recorded as a back-patch target.
const NoAddrOperand int8 = -1

// addressShaped reports whether a single operand's declared kind can
// ever hold a symbolic or literal address value (2 bytes, subject to
// back-patching).
func addressShaped(kind ParameterKind) bool {
	return kind.has(KindAddress) || kind.has(KindLabel) ||
		kind.has(KindStringKey) || kind.has(KindDataKey)
}

// Opcodes is the full catalogue, in declaration order. Declaration
// order matters: it is the tie-break the dispatcher uses among
// descriptors that share a mnemonic.
var Opcodes = []OpcodeDescriptor{
	// --- data movement -------------------------------------------------
	{Name: "LD_DREG_VAL", Mnemonic: "ld", Opcode: 0x00,
		Operands:      []ParameterKind{KindDataReg, KindNumber},
		ErrorTemplate: "ld expects (data_reg, byte), (addr_reg, address), (addr_reg, data_key, data_reg, byte), or (addr_reg, data_key, byte, data_reg)"},
	{Name: "LD_AREG_ADDR", Mnemonic: "ld", Opcode: 0x01,
		Operands: []ParameterKind{KindAddrReg, KindAddresses}},
	{Name: "LD_AREG_DATA_REG_VAL", Mnemonic: "ld", Opcode: 0x02,
		Operands: []ParameterKind{KindAddrReg, KindDataKey, KindDataReg, KindNumber}},
	{Name: "LD_AREG_DATA_VAL_REG", Mnemonic: "ld", Opcode: 0x03,
		Operands: []ParameterKind{KindAddrReg, KindDataKey, KindNumber, KindDataReg}},

	{Name: "CPY_REG_REG", Mnemonic: "cpy", Opcode: 0x04,
		Operands:      []ParameterKind{KindRegisters, KindRegisters},
		ErrorTemplate: "cpy expects (reg, reg) or (reg, byte)"},
	{Name: "CPY_REG_VAL", Mnemonic: "cpy", Opcode: 0x05,
		Operands: []ParameterKind{KindRegisters, KindNumber}},

	{Name: "ST_AREG_DREG", Mnemonic: "st", Opcode: 0x06,
		Operands:      []ParameterKind{KindAddrReg, KindDataReg},
		ErrorTemplate: "st expects (addr_reg, data_reg)"},

	{Name: "SWP", Mnemonic: "swp", Opcode: 0x07,
		Operands:      []ParameterKind{KindRegisters, KindRegisters},
		ErrorTemplate: "swp expects (reg, reg)"},

	// --- arithmetic ------------------------------------------------------
	{Name: "ADD_REG_REG", Mnemonic: "add", Opcode: 0x10,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "add expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "ADD_REG_VAL", Mnemonic: "add", Opcode: 0x11,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "SUB_REG_REG", Mnemonic: "sub", Opcode: 0x12,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "sub expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "SUB_REG_VAL", Mnemonic: "sub", Opcode: 0x13,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "MUL_REG_REG", Mnemonic: "mul", Opcode: 0x14,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "mul expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "MUL_REG_VAL", Mnemonic: "mul", Opcode: 0x15,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "DIV_REG_REG", Mnemonic: "div", Opcode: 0x16,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "div expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "DIV_REG_VAL", Mnemonic: "div", Opcode: 0x17,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "INC", Mnemonic: "inc", Opcode: 0x18,
		Operands:      []ParameterKind{KindDataReg},
		ErrorTemplate: "inc expects (data_reg)"},
	{Name: "DEC", Mnemonic: "dec", Opcode: 0x19,
		Operands:      []ParameterKind{KindDataReg},
		ErrorTemplate: "dec expects (data_reg)"},

	// --- bitwise -----------------------------------------------------
	{Name: "AND_REG_REG", Mnemonic: "and", Opcode: 0x20,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "and expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "AND_REG_VAL", Mnemonic: "and", Opcode: 0x21,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "OR_REG_REG", Mnemonic: "or", Opcode: 0x22,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "or expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "OR_REG_VAL", Mnemonic: "or", Opcode: 0x23,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "XOR_REG_REG", Mnemonic: "xor", Opcode: 0x24,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "xor expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "XOR_REG_VAL", Mnemonic: "xor", Opcode: 0x25,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "NOT", Mnemonic: "not", Opcode: 0x26,
		Operands:      []ParameterKind{KindDataReg},
		ErrorTemplate: "not expects (data_reg)"},

	// --- comparison / control flow -------------------------------------
	{Name: "CMP_REG_REG", Mnemonic: "cmp", Opcode: 0x30,
		Operands:      []ParameterKind{KindDataReg, KindDataReg},
		ErrorTemplate: "cmp expects (data_reg, data_reg) or (data_reg, byte)"},
	{Name: "CMP_REG_VAL", Mnemonic: "cmp", Opcode: 0x31,
		Operands: []ParameterKind{KindDataReg, KindNumber}},

	{Name: "JMP", Mnemonic: "jmp", Opcode: 0x40,
		Operands:      []ParameterKind{KindAddresses},
		ErrorTemplate: "jmp expects (label|address)"},
	{Name: "JEQ", Mnemonic: "jeq", Opcode: 0x41,
		Operands: []ParameterKind{KindAddresses}},
	{Name: "JNE", Mnemonic: "jne", Opcode: 0x42,
		Operands: []ParameterKind{KindAddresses}},
	{Name: "JGT", Mnemonic: "jgt", Opcode: 0x43,
		Operands: []ParameterKind{KindAddresses}},
	{Name: "JLT", Mnemonic: "jlt", Opcode: 0x44,
		Operands: []ParameterKind{KindAddresses}},

	{Name: "CALL", Mnemonic: "call", Opcode: 0x50,
		Operands:      []ParameterKind{KindAddresses},
		ErrorTemplate: "call expects (label|address)"},
	{Name: "RET", Mnemonic: "ret", Opcode: 0x51,
		Operands: nil},

	// --- stack ------------------------------------------------------
	{Name: "PUSH_REG", Mnemonic: "push", Opcode: 0x60,
		Operands:      []ParameterKind{KindRegisters},
		ErrorTemplate: "push expects (reg) or (byte)"},
	{Name: "PUSH_VAL", Mnemonic: "push", Opcode: 0x61,
		Operands: []ParameterKind{KindNumber}},
	{Name: "POP", Mnemonic: "pop", Opcode: 0x62,
		Operands:      []ParameterKind{KindRegisters},
		ErrorTemplate: "pop expects (reg)"},

	// --- I/O and misc -------------------------------------------------
	{Name: "PRINT_REG", Mnemonic: "print", Opcode: 0x70,
		Operands:      []ParameterKind{KindRegisters},
		ErrorTemplate: "print expects (reg)"},
	{Name: "PRTS", Mnemonic: "prts", Opcode: 0x71,
		Operands:      []ParameterKind{KindStringKey},
		ErrorTemplate: "prts expects (string_key)"},
	{Name: "NOOP", Mnemonic: "noop", Opcode: 0x72,
		Operands: nil},
	{Name: "WAIT", Mnemonic: "wait", Opcode: 0x73,
		Operands:      []ParameterKind{KindNumber},
		ErrorTemplate: "wait expects (byte)"},
	{Name: "HALT", Mnemonic: "halt", Opcode: 0x74,
		Operands: nil},
}

// variants indexes Opcodes by lowercase mnemonic, preserving
// declaration order within each mnemonic's slice.
var variants map[string][]*OpcodeDescriptor

func init() {
	for i := range AddrOperandOffset {
		AddrOperandOffset[i] = NoAddrOperand
	}

	variants = make(map[string][]*OpcodeDescriptor, len(Opcodes))
	for i := range Opcodes {
		d := &Opcodes[i]
		variants[d.Mnemonic] = append(variants[d.Mnemonic], d)

		offset := NoAddrOperand
		cursor := 1 // opcode byte occupies offset 0
		for _, kind := range d.Operands {
			if addressShaped(kind) {
				if offset != NoAddrOperand {
					panic(fmt.Sprintf("opcode %s declares more than one address-shaped operand", d.Name))
				}
				offset = int8(cursor)
			}
			if kind == KindNumber || kind == KindDataReg || kind == KindAddrReg || kind == KindRegisters {
				cursor++
			} else {
				cursor += 2
			}
		}
		if existing := AddrOperandOffset[d.Opcode]; existing != NoAddrOperand && existing != offset {
			panic(fmt.Sprintf("opcode byte %#x reused with conflicting address offset", d.Opcode))
		}
		AddrOperandOffset[d.Opcode] = offset
	}
}

// EncodedLen returns the total number of bytes one instance of d
// occupies in an ops segment: one byte for the opcode, plus one byte
// per register/number operand and two bytes per address-shaped
// operand. Used by the disasm package, which has no running generator
// cursor to derive this from.
func (d *OpcodeDescriptor) EncodedLen() int {
	n := 1
	for _, kind := range d.Operands {
		if addressShaped(kind) {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Lookup returns every descriptor declared for mnemonic (case handling
// is the caller's responsibility — callers are expected to lowercase
// the source token first, matching the catalogue's own lowercase
// Mnemonic fields), in declaration order.
func Lookup(mnemonic string) []*OpcodeDescriptor {
	return variants[mnemonic]
}

// Descriptor returns the descriptor registered for a given opcode
// byte, or nil if no descriptor claims that byte. Used by the disasm
// package, which has no mnemonic to look up from — only the raw byte
// stream.
func Descriptor(opcode byte) *OpcodeDescriptor {
	for i := range Opcodes {
		if Opcodes[i].Opcode == opcode {
			return &Opcodes[i]
		}
	}
	return nil
}
