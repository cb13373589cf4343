// Package asm implements the tape device assembler core: lexing,
// parameter and line parsing, the front-end section parser, the
// two-pass code generator, and the optional debug model builder.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Options carries the assembler's independent configuration knobs.
// There is no flag-parsing or file-based configuration layer in this
// package — that belongs to the CLI front end, which is out of scope
// (spec.md §1) — so Options is passed directly by the caller, the way
// the teacher's own Assemble takes its knobs as direct parameters
// rather than a config object.
type Options struct {
	// KeepWhitespace disables trimming of `.strings` entry content.
	KeepWhitespace bool

	// EmitDebugModel causes Assemble to also build and return a
	// DebugModel alongside the tape.
	EmitDebugModel bool

	// Trace, if non-nil, receives a verbose line-by-line narration of
	// the assembly pass. Grounded on the teacher's a.log/a.logLine
	// helpers in asm/asm.go, generalized from a hardcoded stdout write
	// to an injectable sink since this package is a library.
	Trace io.Writer
}

// Result is everything Assemble produces for a successful run.
type Result struct {
	Tape  []byte
	Debug *DebugModel // nil unless Options.EmitDebugModel was set
}

// Assembler holds the state threaded through one assembly pass. It is
// not safe for concurrent or repeated use; construct one per call to
// Assemble.
type Assembler struct {
	opts Options

	// stringUsage and dataUsage carry per-symbol DebugUsage slices
	// from emitOps (where reference sites are discovered) to
	// emitStrings/emitData (where the corresponding DebugString/
	// DebugData entries are built), within a single generate() call.
	stringUsage map[string][]DebugUsage
	dataUsage   map[string][]DebugUsage
}

func (a *Assembler) log(format string, args ...any) {
	if a.opts.Trace == nil {
		return
	}
	fmt.Fprintf(a.opts.Trace, format+"\n", args...)
}

// Assemble reads a complete tape-device source program from r and
// produces its tape encoding (and, optionally, a debug model), per
// spec.md §6. It is the sole public entry point of this package,
// mirroring the teacher's own Assemble(r io.Reader, verbose bool).
func Assemble(r io.Reader, opts Options) (*Result, error) {
	a := &Assembler{opts: opts}

	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	model, err := a.parseProgram(lines)
	if err != nil {
		return nil, err
	}

	tape, debug, err := a.generate(model)
	if err != nil {
		return nil, err
	}

	result := &Result{Tape: tape}
	if opts.EmitDebugModel {
		result.Debug = debug
	}
	return result, nil
}

// readLines scans r into fstrings, one per non-blank source line, with
// trailing comments already stripped and row numbers counted against
// the physical line (blank and comment-only lines still advance the
// counter, they are just not returned).
func readLines(r io.Reader) ([]fstring, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []fstring
	row := 0
	for sc.Scan() {
		row++
		raw := sc.Text()
		l := newFstring(0, row, raw)
		stripped := l.stripTrailingComment()
		trimmed := strings.TrimSpace(stripped.String())
		if trimmed == "" {
			continue
		}
		out = append(out, fstring{fileIndex: 0, row: row, column: 0, str: trimmed, full: raw})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return out, nil
}
