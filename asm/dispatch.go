package asm

import (
	"fmt"

	"github.com/raybritton/tape-device"
)

// dispatchLine tokenises one instruction line and selects the opcode
// descriptor whose declared parameter shape matches, per spec.md §4.2.
// Grounded on the teacher's parseInstruction/findMatchingInstruction:
// iterate the catalogue for the mnemonic in declaration order and take
// the first signature whose operand kinds all parse successfully.
func dispatchLine(l fstring) (opcode byte, operands []tapedevice.Parameter, err error) {
	toks := l.tokenize()
	if len(toks) == 0 {
		return 0, nil, fstringErr(Syntactic, l, "expected an instruction")
	}

	mnemonicTok := toks[0]
	mnemonic := lower(mnemonicTok.String())
	descs := tapedevice.Lookup(mnemonic)
	if len(descs) == 0 {
		return 0, nil, fstringErr(Syntactic, mnemonicTok, "%q: unknown mnemonic", mnemonicTok.String())
	}

	argToks := toks[1:]
	for _, d := range descs {
		if len(d.Operands) != len(argToks) {
			continue
		}
		ops := make([]tapedevice.Parameter, 0, len(d.Operands))
		matched := true
		for i, kind := range d.Operands {
			p, perr := parseParameter(argToks[i], kind)
			if perr != nil {
				matched = false
				break
			}
			ops = append(ops, p)
		}
		if matched {
			return d.Opcode, ops, nil
		}
	}

	template := descs[0].ErrorTemplate
	if template == "" {
		template = fmt.Sprintf("%s: no opcode signature matches the given operands", mnemonic)
	}
	return 0, nil, fstringErr(Syntactic, mnemonicTok, "%s", template)
}
