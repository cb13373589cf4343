package tapedevice

import "testing"

func TestNoDuplicateOpcodeBytes(t *testing.T) {
	seen := make(map[byte]string)
	for _, d := range Opcodes {
		if other, ok := seen[d.Opcode]; ok {
			t.Errorf("opcode byte %#02x used by both %s and %s", d.Opcode, other, d.Name)
		}
		seen[d.Opcode] = d.Name
	}
}

func TestLookupOrdersByDeclaration(t *testing.T) {
	descs := Lookup("cpy")
	if len(descs) != 2 {
		t.Fatalf("Lookup(cpy) = %d descriptors, want 2", len(descs))
	}
	if descs[0].Name != "CPY_REG_REG" || descs[1].Name != "CPY_REG_VAL" {
		t.Errorf("Lookup(cpy) order = [%s, %s], want [CPY_REG_REG, CPY_REG_VAL]", descs[0].Name, descs[1].Name)
	}
}

func TestAddrOperandOffsetSentinel(t *testing.T) {
	halt := Descriptor(0x74)
	if halt == nil || halt.Name != "HALT" {
		t.Fatalf("Descriptor(0x74) = %v, want HALT", halt)
	}
	if AddrOperandOffset[0x74] != NoAddrOperand {
		t.Errorf("AddrOperandOffset[HALT] = %d, want sentinel %d", AddrOperandOffset[0x74], NoAddrOperand)
	}
}

func TestAddrOperandOffsetForPrts(t *testing.T) {
	prts := Descriptor(0x71)
	if prts == nil || prts.Name != "PRTS" {
		t.Fatalf("Descriptor(0x71) = %v, want PRTS", prts)
	}
	if AddrOperandOffset[0x71] != 1 {
		t.Errorf("AddrOperandOffset[PRTS] = %d, want 1", AddrOperandOffset[0x71])
	}
}

func TestDescriptorUnknownOpcode(t *testing.T) {
	if d := Descriptor(0xFF); d != nil {
		t.Errorf("Descriptor(0xFF) = %v, want nil", d)
	}
}

func TestEncodedLen(t *testing.T) {
	ldAregDataValReg := Descriptor(0x03)
	if got := ldAregDataValReg.EncodedLen(); got != 6 {
		t.Errorf("LD_AREG_DATA_VAL_REG.EncodedLen() = %d, want 6", got)
	}
}
