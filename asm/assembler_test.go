package asm

import (
	"bytes"
	"strings"
	"testing"
)

// buildSource assembles a minimal program: name, version, then the
// given body lines (section markers and all) verbatim.
func buildSource(name, version string, body ...string) string {
	lines := append([]string{name, version}, body...)
	return strings.Join(lines, "\n") + "\n"
}

func assemble(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := Assemble(bytes.NewBufferString(src), opts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return res
}

func assembleErr(t *testing.T, src string, opts Options) error {
	t.Helper()
	_, err := Assemble(bytes.NewBufferString(src), opts)
	if err == nil {
		t.Fatalf("Assemble(%q): expected error, got none", src)
	}
	return err
}

// TestHeaderOnlyProgram covers spec.md §8 scenario 3.
func TestHeaderOnlyProgram(t *testing.T) {
	src := buildSource("Test Prog", "1.0", ".ops")
	res := assemble(t, src, Options{})

	want := []byte{0x5A, 0x70, 0x01,
		9, 'T', 'e', 's', 't', ' ', 'P', 'r', 'o', 'g',
		3, '1', '.', '0',
		0, 0,
		0, 0}
	if !bytes.Equal(res.Tape, want) {
		t.Fatalf("got % x\nwant % x", res.Tape, want)
	}
}

// TestStringTrimMode covers spec.md §8 scenario 1.
func TestStringTrimMode(t *testing.T) {
	src := buildSource("p", "1", ".strings", "simple=test", "checking=bytes", ".ops")
	res := assemble(t, src, Options{EmitDebugModel: true})

	prefix := 3 + 1 + len("p") + 1 + len("1") + 2
	opsLen := 0
	strStart := prefix + opsLen + 2
	strings_ := res.Tape[strStart:]

	want := []byte{4, 't', 'e', 's', 't', 5, 'b', 'y', 't', 'e', 's'}
	if !bytes.Equal(strings_, want) {
		t.Fatalf("strings segment: got % x\nwant % x", strings_, want)
	}

	if res.Debug.Strings["simple"].Address != 0 {
		t.Errorf("simple address = %d, want 0", res.Debug.Strings["simple"].Address)
	}
	if res.Debug.Strings["checking"].Address != 5 {
		t.Errorf("checking address = %d, want 5", res.Debug.Strings["checking"].Address)
	}
}

// TestWhitespacePreservation covers spec.md §8 scenario 2.
func TestWhitespacePreservation(t *testing.T) {
	kept := assemble(t, buildSource("p", "1", ".strings", "also=  both  ", ".ops"), Options{KeepWhitespace: true})
	prefix := 3 + 1 + 1 + 1 + 1 + 2 + 2 // no ops, so the strings segment follows its length field
	kept_ := kept.Tape[prefix:]
	wantKept := []byte{8, ' ', ' ', 'b', 'o', 't', 'h', ' ', ' '}
	if !bytes.Equal(kept_, wantKept) {
		t.Fatalf("keep_whitespace=true: got % x want % x", kept_, wantKept)
	}

	trimmed := assemble(t, buildSource("p", "1", ".strings", "also=  both  ", ".ops"), Options{KeepWhitespace: false})
	trimmed_ := trimmed.Tape[prefix:]
	wantTrimmed := []byte{4, 'b', 'o', 't', 'h'}
	if !bytes.Equal(trimmed_, wantTrimmed) {
		t.Fatalf("keep_whitespace=false: got % x want % x", trimmed_, wantTrimmed)
	}
}

// TestLabelBackPatch covers spec.md §8 scenario 4: a string-key operand
// patches to the string's segment offset.
func TestLabelBackPatch(t *testing.T) {
	src := buildSource("p", "1", ".strings", "foo=ab", ".ops", "prts foo")
	res := assemble(t, src, Options{})

	prefixLen := 3 + 1 + 1 + 1 + 1 + 2
	opAddr := 0
	fieldOffset := prefixLen + opAddr + 1 // opcode byte then the 2-byte operand

	got := uint16(res.Tape[fieldOffset])<<8 | uint16(res.Tape[fieldOffset+1])
	if got != 0 {
		t.Errorf("patched address = %d, want 0", got)
	}

	opsLen := int(res.Tape[prefixLen-2])<<8 | int(res.Tape[prefixLen-1])
	strSeg := res.Tape[prefixLen+opsLen+2:]
	wantStrSeg := []byte{2, 'a', 'b'}
	if !bytes.Equal(strSeg, wantStrSeg) {
		t.Fatalf("strings segment: got % x want % x", strSeg, wantStrSeg)
	}
}

// TestCrossSegmentAddressPatch covers spec.md §8 scenario 5.
func TestCrossSegmentAddressPatch(t *testing.T) {
	src := buildSource("p", "1",
		".data",
		"dk1 3 2 2 4 10 11 50 51 97 98 99 100",
		".ops",
		"ld a0 dk1 2 d3")
	res := assemble(t, src, Options{})

	prefixLen := 3 + 1 + 1 + 1 + 1 + 2
	// opcode byte (1) + addr_reg byte (1) = operand field starts at
	// instruction offset 2.
	fieldOffset := prefixLen + 0 + 2
	got := uint16(res.Tape[fieldOffset])<<8 | uint16(res.Tape[fieldOffset+1])
	if got != 0 {
		t.Errorf("dk1 patched address = %d, want 0", got)
	}
}

// TestParameterDispatch covers spec.md §8 scenario 6.
func TestParameterDispatch(t *testing.T) {
	l := newFstring(0, 1, "cpy acc 5")
	opcode, operands, err := dispatchLine(l)
	if err != nil {
		t.Fatalf("cpy acc 5: %v", err)
	}
	if opcode != 0x05 {
		t.Errorf("cpy acc 5: opcode = %#02x, want 0x05 (CPY_REG_VAL)", opcode)
	}
	if len(operands) != 2 || operands[1].Number != 5 {
		t.Errorf("cpy acc 5: operands = %+v", operands)
	}

	l2 := newFstring(0, 1, "ld a1 test d3 xF1")
	opcode2, operands2, err := dispatchLine(l2)
	if err != nil {
		t.Fatalf("ld a1 test d3 xF1: %v", err)
	}
	if opcode2 != 0x02 {
		t.Errorf("ld a1 test d3 xF1: opcode = %#02x, want 0x02 (LD_AREG_DATA_REG_VAL)", opcode2)
	}
	if len(operands2) != 4 || operands2[1].Name != "test" || operands2[3].Number != 0xF1 {
		t.Errorf("ld a1 test d3 xF1: operands = %+v", operands2)
	}

	l3 := newFstring(0, 1, "halt")
	opcode3, operands3, err := dispatchLine(l3)
	if err != nil {
		t.Fatalf("halt: %v", err)
	}
	if opcode3 != 0x74 || len(operands3) != 0 {
		t.Errorf("halt: opcode=%#02x operands=%+v", opcode3, operands3)
	}
}

// TestEndOfSegmentLabel covers spec.md §9 Open Question (b): this
// package resolves labels defined after the final op to the address
// just past the end of the ops segment.
func TestEndOfSegmentLabel(t *testing.T) {
	src := buildSource("p", "1", ".ops", "halt", "done:")
	res := assemble(t, src, Options{EmitDebugModel: true})

	lbl, ok := res.Debug.Labels["done"]
	if !ok {
		t.Fatal("label 'done' missing from debug model")
	}
	if lbl.Address != 1 { // one HALT byte precedes it
		t.Errorf("done address = %d, want 1", lbl.Address)
	}
}

func TestUndefinedSymbol(t *testing.T) {
	src := buildSource("p", "1", ".ops", "jmp missing")
	assembleErr(t, src, Options{})
}

func TestDuplicateStringKey(t *testing.T) {
	src := buildSource("p", "1", ".strings", "k=a", "k=b", ".ops")
	assembleErr(t, src, Options{})
}

func TestMissingOpsSection(t *testing.T) {
	src := "p\n1\n.strings\nk=a\n"
	assembleErr(t, src, Options{})
}

func TestStringContentBoundary(t *testing.T) {
	ok255 := strings.Repeat("a", 255)
	assemble(t, buildSource("p", "1", ".strings", "k="+ok255, ".ops"), Options{})

	bad256 := strings.Repeat("a", 256)
	assembleErr(t, buildSource("p", "1", ".strings", "k="+bad256, ".ops"), Options{})
}

func TestProgramNameBoundary(t *testing.T) {
	name255 := strings.Repeat("n", 255)
	assemble(t, buildSource(name255, "1", ".ops"), Options{})

	name256 := strings.Repeat("n", 256)
	assembleErr(t, buildSource(name256, "1", ".ops"), Options{})
}

func TestDeterminism(t *testing.T) {
	src := buildSource("p", "1", ".strings", "a=x", "b=y", ".data", "d 1 2 3", ".ops", "halt")
	r1 := assemble(t, src, Options{})
	r2 := assemble(t, src, Options{})
	if !bytes.Equal(r1.Tape, r2.Tape) {
		t.Fatal("two runs over the same source produced different tapes")
	}
}
