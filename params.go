package tapedevice

import "fmt"

// ParameterKind is a bit-set describing which operand shapes an opcode
// slot will accept. It plays the same role here that the Mode enum
// plays for a 6502 addressing mode: a compact, declarative description
// of "what can go in this slot" that the opcode catalogue and the
// dispatcher both consult.
type ParameterKind uint32

// Atomic parameter kinds.
const (
	KindNumber ParameterKind = 1 << iota
	KindAddress
	KindDataReg
	KindAddrReg
	KindLabel
	KindStringKey
	KindDataKey
)

// Composite parameter kinds.
const (
	// KindAddresses accepts either a literal address or a label
	// reference that will later resolve to one.
	KindAddresses = KindLabel | KindAddress

	// KindRegisters accepts either a data register or an address
	// register.
	KindRegisters = KindDataReg | KindAddrReg
)

// String renders a ParameterKind the way it should appear in an error
// message naming the expected operand shape.
func (k ParameterKind) String() string {
	switch k {
	case KindNumber:
		return "byte"
	case KindAddress:
		return "address"
	case KindDataReg:
		return "data_reg"
	case KindAddrReg:
		return "addr_reg"
	case KindLabel:
		return "label"
	case KindStringKey:
		return "text_key"
	case KindDataKey:
		return "data_key"
	case KindAddresses:
		return "(label|address)"
	case KindRegisters:
		return "(data_reg|addr_reg)"
	default:
		return fmt.Sprintf("kind(%#x)", uint32(k))
	}
}

// has reports whether k includes the atomic bit kind (one of the seven
// atomic constants above).
func (k ParameterKind) has(kind ParameterKind) bool {
	return k&kind == kind
}

// ParamTag discriminates the seven cases of Parameter.
type ParamTag uint8

const (
	TagNumber ParamTag = iota
	TagDataReg
	TagAddrReg
	TagAddr
	TagLabel
	TagStrKey
	TagDataKey
)

// Parameter is a tagged union over the seven operand shapes the
// language supports. It carries exactly one payload, selected by Tag.
// Register-carrying variants hold the canonical register id byte, not
// the textual register name.
type Parameter struct {
	Tag     ParamTag
	Number  byte   // valid when Tag == TagNumber, TagDataReg, or TagAddrReg
	Addr    uint16 // valid when Tag == TagAddr
	Name    string // valid when Tag == TagLabel, TagStrKey, or TagDataKey
}

// NewNumber builds a Number parameter.
func NewNumber(v byte) Parameter { return Parameter{Tag: TagNumber, Number: v} }

// NewDataReg builds a DataReg parameter.
func NewDataReg(id byte) Parameter { return Parameter{Tag: TagDataReg, Number: id} }

// NewAddrReg builds an AddrReg parameter.
func NewAddrReg(id byte) Parameter { return Parameter{Tag: TagAddrReg, Number: id} }

// NewAddr builds a literal Addr parameter.
func NewAddr(v uint16) Parameter { return Parameter{Tag: TagAddr, Addr: v} }

// NewLabel builds a Label reference parameter.
func NewLabel(name string) Parameter { return Parameter{Tag: TagLabel, Name: name} }

// NewStrKey builds a StrKey reference parameter.
func NewStrKey(name string) Parameter { return Parameter{Tag: TagStrKey, Name: name} }

// NewDataKey builds a DataKey reference parameter.
func NewDataKey(name string) Parameter { return Parameter{Tag: TagDataKey, Name: name} }

// Kind returns the atomic ParameterKind matching p's tag. It never
// returns a composite kind: composites only describe what an operand
// slot will *accept*, not what a concrete Parameter *is*.
func (p Parameter) Kind() ParameterKind {
	switch p.Tag {
	case TagNumber:
		return KindNumber
	case TagDataReg:
		return KindDataReg
	case TagAddrReg:
		return KindAddrReg
	case TagAddr:
		return KindAddress
	case TagLabel:
		return KindLabel
	case TagStrKey:
		return KindStringKey
	case TagDataKey:
		return KindDataKey
	default:
		return 0
	}
}

// Matches reports whether p is an acceptable value for an operand slot
// declared with the given (possibly composite) kind.
func (p Parameter) Matches(kind ParameterKind) bool {
	return kind.has(p.Kind())
}

// Symbolic reports whether p references a label, string, or data key —
// i.e. whether it occupies a 2-byte placeholder that the code
// generator must back-patch rather than a value it can emit directly.
func (p Parameter) Symbolic() bool {
	switch p.Tag {
	case TagLabel, TagStrKey, TagDataKey:
		return true
	default:
		return false
	}
}

// Size returns the number of bytes p contributes to an encoded
// instruction: one byte for a register or number, two bytes (reserved
// for a big-endian address) for anything symbolic or a literal address.
func (p Parameter) Size() int {
	switch p.Tag {
	case TagNumber, TagDataReg, TagAddrReg:
		return 1
	default:
		return 2
	}
}
