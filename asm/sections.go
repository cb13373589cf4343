package asm

import (
	"regexp"
	"strings"

	"github.com/raybritton/tape-device"
)

// keyPattern is the shared charset for label, string, and data keys
// (spec.md §3 invariants).
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func validKey(s string) bool {
	return keyPattern.MatchString(s)
}

// parseProgram consumes the full line list and builds a ProgramModel,
// per spec.md §4.3. Grounded on the teacher's assembler.parse state
// machine, generalized from 6502 mnemonic+macro parsing to the
// device's header/.strings/.data/.ops section grammar.
func (a *Assembler) parseProgram(lines []fstring) (*ProgramModel, error) {
	model := newProgramModel()

	idx := 0
	name, idx, err := a.parseHeaderLine(lines, idx, "program name")
	if err != nil {
		return nil, err
	}
	version, idx, err := a.parseHeaderLine(lines, idx, "program version")
	if err != nil {
		return nil, err
	}
	model.Name = name
	model.Version = version

	for {
		if idx >= len(lines) {
			return nil, errAt(Structural, 0, "unexpected end of input: missing .ops section")
		}
		marker := strings.TrimSpace(lines[idx].String())
		switch marker {
		case ".strings":
			idx++
			idx, err = a.parseStringEntries(lines, idx, model)
		case ".data":
			idx++
			idx, err = a.parseDataEntries(lines, idx, model)
		case ".ops":
			idx++
			return model, a.parseOpsEntries(lines, idx, model)
		default:
			return nil, fstringErr(Syntactic, lines[idx], "expected .strings, .data, or .ops section marker, found %q", marker)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (a *Assembler) parseHeaderLine(lines []fstring, idx int, what string) (string, int, error) {
	if idx >= len(lines) {
		return "", idx, errAt(Structural, 0, "unexpected end of input: missing %s", what)
	}
	l := lines[idx]
	value := strings.TrimSpace(l.String())
	if len(value) > tapedevice.MaxEntryLen {
		return "", idx, fstringErr(Capacity, l, "%s exceeds %d bytes", what, tapedevice.MaxEntryLen)
	}
	a.log("header: %s = %q", what, value)
	return value, idx + 1, nil
}

// parseStringEntries reads zero or more `key=content` lines starting
// at idx, stopping (without consuming) at a `.data` or `.ops` marker.
// Grounded byte-for-byte on data.rs's compile_strings: first-`=`
// split, key charset check, optional whitespace trim, per-entry and
// cumulative size caps.
func (a *Assembler) parseStringEntries(lines []fstring, idx int, model *ProgramModel) (int, error) {
	for idx < len(lines) {
		l := lines[idx]
		marker := strings.TrimSpace(l.String())
		if marker == ".data" || marker == ".ops" {
			return idx, nil
		}

		keyTok, rest := l.consumeUntilUnquotedChar('=')
		if rest.isEmpty() {
			return idx, fstringErr(Syntactic, l, "malformed string entry %q: expected key=content", l.String())
		}
		rest = rest.consume(1)

		key := strings.TrimSpace(keyTok.String())
		if !validKey(key) {
			return idx, fstringErr(Semantic, l, "%q: string key must match [A-Za-z0-9_]+", key)
		}
		if _, exists := model.Strings[key]; exists {
			return idx, fstringErr(Semantic, l, "%q: duplicate string key", key)
		}

		content := rest.String()
		if a.opts.KeepWhitespace {
			// readLines trims trailing whitespace off every line; put back
			// the whitespace that followed the content on the raw line.
			if eq := strings.IndexByte(l.full, '='); eq >= 0 && strings.HasPrefix(l.full[eq+1:], content) {
				tail := l.full[eq+1+len(content):]
				content += tail[:len(tail)-len(strings.TrimLeft(tail, " \t"))]
			}
		} else {
			content = strings.TrimSpace(content)
		}
		if len(content) > tapedevice.MaxEntryLen {
			return idx, fstringErr(Capacity, l, "string %q content exceeds %d bytes", key, tapedevice.MaxEntryLen)
		}

		model.Strings[key] = StringModel{Key: key, Content: []byte(content), RawLine: l.full, LineNum: l.row}
		model.StringDefOrder = append(model.StringDefOrder, key)
		a.log("string %s=%q (%d bytes)", key, content, len(content))
		idx++
	}
	return idx, errAt(Structural, 0, "unexpected end of input: missing .ops section")
}

// parseDataEntries reads zero or more `key byte byte ...` lines
// starting at idx, stopping (without consuming) at a `.ops` marker.
func (a *Assembler) parseDataEntries(lines []fstring, idx int, model *ProgramModel) (int, error) {
	for idx < len(lines) {
		l := lines[idx]
		marker := strings.TrimSpace(l.String())
		if marker == ".ops" {
			return idx, nil
		}

		toks := l.tokenize()
		if len(toks) < 2 {
			return idx, fstringErr(Syntactic, l, "malformed data entry %q: expected key followed by one or more bytes", l.String())
		}

		key := toks[0].String()
		if !validKey(key) {
			return idx, fstringErr(Semantic, l, "%q: data key must match [A-Za-z0-9_]+", key)
		}
		if _, exists := model.Data[key]; exists {
			return idx, fstringErr(Semantic, l, "%q: duplicate data key", key)
		}

		bytes := make([]byte, 0, len(toks)-1)
		for _, bt := range toks[1:] {
			p, perr := parseNumber(bt)
			if perr != nil {
				return idx, perr
			}
			bytes = append(bytes, p.Number)
		}

		model.Data[key] = DataModel{Key: key, Bytes: bytes, RawLine: l.full, LineNum: l.row}
		model.DataDefOrder = append(model.DataDefOrder, key)
		a.log("data %s=%v", key, bytes)
		idx++
	}
	return idx, errAt(Structural, 0, "unexpected end of input: missing .ops section")
}

// parseOpsEntries reads label definitions and instruction lines to the
// end of input.
func (a *Assembler) parseOpsEntries(lines []fstring, idx int, model *ProgramModel) error {
	for ; idx < len(lines); idx++ {
		l := lines[idx]
		trimmed := strings.TrimSpace(l.String())

		if strings.HasSuffix(trimmed, ":") {
			label := strings.TrimSpace(strings.TrimSuffix(trimmed, ":"))
			if label == "" {
				return fstringErr(Syntactic, l, "label definition missing a name")
			}
			if !validKey(label) {
				return fstringErr(Semantic, l, "%q: label must match [A-Za-z0-9_]+", label)
			}
			if existing, ok := model.Labels[label]; ok && existing.Defined {
				return fstringErr(Semantic, l, "%q: duplicate label", label)
			}
			model.Labels[label] = LabelModel{Key: label, Defined: true, RawLine: l.full, LineNum: l.row}
			model.LabelDefOrder = append(model.LabelDefOrder, label)
			a.log("label %s: (line %d)", label, l.row)
			continue
		}

		opcode, operands, err := dispatchLine(l)
		if err != nil {
			return err
		}
		model.Ops = append(model.Ops, OpModel{
			Opcode:    opcode,
			Operands:  operands,
			RawLine:   l.full,
			Processed: trimmed,
			LineNum:   l.row,
		})
		a.log("op line %d: %q -> opcode %#02x, %d operand(s)", l.row, trimmed, opcode, len(operands))
	}
	return nil
}
