package disasm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raybritton/tape-device/asm"
	"github.com/raybritton/tape-device/disasm"
	"github.com/raybritton/tape-device"
)

// opsSegment re-assembles src and slices out its raw ops segment.
func opsSegment(t *testing.T, src string) []byte {
	t.Helper()
	res, err := asm.Assemble(strings.NewReader(src), asm.Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	tape := res.Tape
	prefixLen := 3 + 1 + 1 + 1 + 1 // header + nameLen + "p" + verLen + "1"
	opsLen := int(tape[prefixLen])<<8 | int(tape[prefixLen+1])
	return tape[prefixLen+2 : prefixLen+2+opsLen]
}

func TestIdempotentReassembly(t *testing.T) {
	src := "p\n1\n.ops\ncpy acc 5\nhalt\n"
	ops := opsSegment(t, src)

	insts, err := disasm.All(ops)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[0].Mnemonic != "cpy" || !bytes.Equal(insts[0].Operands, []byte{tapedevice.RegACC, 5}) {
		t.Errorf("first instruction = %+v", insts[0])
	}
	if insts[1].Mnemonic != "halt" || len(insts[1].Operands) != 0 {
		t.Errorf("second instruction = %+v", insts[1])
	}

	// Re-encode the decoded stream byte-for-byte and compare: this is
	// the idempotent re-assembly property from spec.md §8.
	var reencoded []byte
	for _, inst := range insts {
		reencoded = append(reencoded, inst.Opcode)
		reencoded = append(reencoded, inst.Operands...)
	}
	if !bytes.Equal(reencoded, ops) {
		t.Errorf("re-encoded ops = % x, want % x", reencoded, ops)
	}
}
