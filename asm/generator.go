package asm

import (
	"sort"

	"github.com/raybritton/tape-device"
)

// pendingLabel is one label definition waiting to be bound to an
// address by the ops-emission sweep.
type pendingLabel struct {
	key     string
	lineNum int
	order   int // index into model.LabelDefOrder, for tie-breaking
}

// generate lowers model into the final tape byte sequence (and,
// optionally, a debug model), per spec.md §4.4. Grounded on the
// teacher's assignAddresses/generateCode two-phase structure,
// generalized from one flat 6502 segment to the device's three
// independent segments (ops, strings, data) and three back-patch
// target maps.
func (a *Assembler) generate(model *ProgramModel) ([]byte, *DebugModel, error) {
	prefixLen := 3 + 1 + len(model.Name) + 1 + len(model.Version) + 2

	opsBytes, labelAddr, labelUsage, targets, opDebug, err := a.emitOps(model, prefixLen)
	if err != nil {
		return nil, nil, err
	}
	if len(opsBytes) > 0xFFFF {
		return nil, nil, errAt(Capacity, 0, "ops segment exceeds %d bytes", 0xFFFF)
	}

	stringsBytes, stringAddr, stringDebug, err := a.emitStrings(model)
	if err != nil {
		return nil, nil, err
	}

	dataBytes, dataAddr, dataDebug, err := a.emitData(model)
	if err != nil {
		return nil, nil, err
	}

	tape := make([]byte, 0, prefixLen+len(opsBytes)+len(stringsBytes)+len(dataBytes))
	tape = append(tape, tapedevice.TapeHeader1, tapedevice.TapeHeader2, tapedevice.PrgVersion)
	tape = append(tape, byte(len(model.Name)))
	tape = append(tape, model.Name...)
	tape = append(tape, byte(len(model.Version)))
	tape = append(tape, model.Version...)
	tape = append(tape, toBytesBE(uint16(len(opsBytes)))...)
	tape = append(tape, opsBytes...)
	tape = append(tape, toBytesBE(uint16(len(stringsBytes)))...)
	tape = append(tape, stringsBytes...)
	tape = append(tape, dataBytes...)

	if err := backpatch(tape, targets.labels, labelAddr, "label"); err != nil {
		return nil, nil, err
	}
	if err := backpatch(tape, targets.strings, stringAddr, "string"); err != nil {
		return nil, nil, err
	}
	if err := backpatch(tape, targets.data, dataAddr, "data"); err != nil {
		return nil, nil, err
	}

	a.log("emitted tape: %d bytes (ops %d, strings %d, data %d)",
		len(tape), len(opsBytes), len(stringsBytes), len(dataBytes))

	var debug *DebugModel
	if a.opts.EmitDebugModel {
		labels := make(map[string]DebugLabel, len(labelAddr))
		for key, addr := range labelAddr {
			lm := model.Labels[key]
			labels[key] = DebugLabel{
				Address: addr,
				LineNum: lm.LineNum,
				RawLine: lm.RawLine,
				Usage:   labelUsage[key],
			}
		}
		debug = &DebugModel{
			Name:    model.Name,
			Version: model.Version,
			Ops:     opDebug,
			Strings: stringDebug,
			Data:    dataDebug,
			Labels:  labels,
		}
	}

	return tape, debug, nil
}

// backpatchTargets groups the three back-patch target maps built
// during ops emission: symbol name -> every absolute tape offset that
// referenced it.
type backpatchTargets struct {
	labels  map[string][]int
	strings map[string][]int
	data    map[string][]int
}

// emitOps performs sub-step (a): lays out the ops segment, binds every
// label to an address, and records every symbolic operand's back-patch
// site.
func (a *Assembler) emitOps(model *ProgramModel, prefixLen int) (
	opsBytes []byte,
	labelAddr map[string]uint16,
	labelUsage map[string][]DebugUsage,
	targets backpatchTargets,
	opDebug []DebugOp,
	err error,
) {
	labelAddr = make(map[string]uint16, len(model.Labels))
	labelUsage = make(map[string][]DebugUsage)
	targets = backpatchTargets{
		labels:  make(map[string][]int),
		strings: make(map[string][]int),
		data:    make(map[string][]int),
	}
	stringUsage := map[string][]DebugUsage{}
	dataUsage := map[string][]DebugUsage{}

	pending := make([]pendingLabel, 0, len(model.LabelDefOrder))
	for i, key := range model.LabelDefOrder {
		pending = append(pending, pendingLabel{key: key, lineNum: model.Labels[key].LineNum, order: i})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].lineNum != pending[j].lineNum {
			return pending[i].lineNum < pending[j].lineNum
		}
		return pending[i].order < pending[j].order
	})

	bind := func(upTo int) {
		cursor := uint16(len(opsBytes))
		i := 0
		for ; i < len(pending) && pending[i].lineNum <= upTo; i++ {
			labelAddr[pending[i].key] = cursor
			a.log("label %s bound to ops offset %d", pending[i].key, cursor)
		}
		pending = pending[i:]
	}

	for _, op := range model.Ops {
		bind(op.LineNum)

		opAddr := uint16(len(opsBytes))
		opsBytes = append(opsBytes, op.Opcode)
		opBytesStart := len(opsBytes) - 1

		for _, operand := range op.Operands {
			offset := len(opsBytes) - opBytesStart
			switch operand.Tag {
			case tapedevice.TagNumber, tapedevice.TagDataReg, tapedevice.TagAddrReg:
				opsBytes = append(opsBytes, operand.Number)
			case tapedevice.TagAddr:
				opsBytes = append(opsBytes, toBytesBE(operand.Addr)...)
			case tapedevice.TagLabel:
				abs := prefixLen + len(opsBytes)
				opsBytes = append(opsBytes, 0, 0)
				targets.labels[operand.Name] = append(targets.labels[operand.Name], abs)
				labelUsage[operand.Name] = append(labelUsage[operand.Name],
					DebugUsage{OpAddress: opAddr, OperandOffset: offset, LineNum: op.LineNum})
			case tapedevice.TagStrKey:
				abs := prefixLen + len(opsBytes)
				opsBytes = append(opsBytes, 0, 0)
				targets.strings[operand.Name] = append(targets.strings[operand.Name], abs)
				stringUsage[operand.Name] = append(stringUsage[operand.Name],
					DebugUsage{OpAddress: opAddr, OperandOffset: offset, LineNum: op.LineNum})
			case tapedevice.TagDataKey:
				abs := prefixLen + len(opsBytes)
				opsBytes = append(opsBytes, 0, 0)
				targets.data[operand.Name] = append(targets.data[operand.Name], abs)
				dataUsage[operand.Name] = append(dataUsage[operand.Name],
					DebugUsage{OpAddress: opAddr, OperandOffset: offset, LineNum: op.LineNum})
			}
		}

		a.log("op at %#04x: %s -> %s", opAddr, op.Processed, byteString(opsBytes[opBytesStart:]))

		if a.opts.EmitDebugModel {
			opDebug = append(opDebug, DebugOp{
				Address:   opAddr,
				LineNum:   op.LineNum,
				RawLine:   op.RawLine,
				Processed: op.Processed,
				Bytes:     append([]byte(nil), opsBytes[opBytesStart:]...),
			})
		}
	}

	// End-of-segment label semantics (spec.md §9 Open Question (b)):
	// any label defined after the final op, or present when there are
	// no ops at all, binds to the address one-past-the-end of the ops
	// segment.
	bind(1<<31 - 1)

	a.stringUsage, a.dataUsage = stringUsage, dataUsage
	return opsBytes, labelAddr, labelUsage, targets, opDebug, nil
}

// emitStrings performs sub-step (b): lays out the strings segment in
// source order, matching the original compile_strings (spec.md §8
// concrete scenario 1) rather than a lexicographic re-sort.
func (a *Assembler) emitStrings(model *ProgramModel) ([]byte, map[string]uint16, map[string]DebugString, error) {
	keys := model.StringDefOrder

	var buf []byte
	addr := make(map[string]uint16, len(keys))
	var debug map[string]DebugString
	if a.opts.EmitDebugModel {
		debug = make(map[string]DebugString, len(keys))
	}

	for _, key := range keys {
		sm := model.Strings[key]
		if len(buf)+1+len(sm.Content) > tapedevice.MaxStringBytes {
			return nil, nil, nil, errAt(Capacity, sm.LineNum,
				"strings segment exceeds %d bytes at key %q", tapedevice.MaxStringBytes, key)
		}
		addr[key] = uint16(len(buf))
		buf = append(buf, byte(len(sm.Content)))
		buf = append(buf, sm.Content...)
		if debug != nil {
			debug[key] = DebugString{
				Address: addr[key],
				LineNum: sm.LineNum,
				RawLine: sm.RawLine,
				Content: sm.Content,
				Usage:   a.stringUsage[key],
			}
		}
	}
	return buf, addr, debug, nil
}

// emitData performs sub-step (c): lays out the data segment in source
// order, with no per-entry length prefix.
func (a *Assembler) emitData(model *ProgramModel) ([]byte, map[string]uint16, map[string]DebugData, error) {
	keys := model.DataDefOrder

	var buf []byte
	addr := make(map[string]uint16, len(keys))
	var debug map[string]DebugData
	if a.opts.EmitDebugModel {
		debug = make(map[string]DebugData, len(keys))
	}

	for _, key := range keys {
		dm := model.Data[key]
		if len(buf)+len(dm.Bytes) > tapedevice.MaxDataBytes {
			return nil, nil, nil, errAt(Capacity, dm.LineNum,
				"data segment exceeds %d bytes at key %q", tapedevice.MaxDataBytes, key)
		}
		addr[key] = uint16(len(buf))
		buf = append(buf, dm.Bytes...)
		if debug != nil {
			debug[key] = DebugData{
				Address: addr[key],
				LineNum: dm.LineNum,
				RawLine: dm.RawLine,
				Bytes:   dm.Bytes,
				Usage:   a.dataUsage[key],
			}
		}
	}
	return buf, addr, debug, nil
}

// backpatch resolves one target map against its address table, per
// spec.md §4.4's "Back-patching" rule: a target with no matching
// source entry fails assembly with an explicit undefined-symbol error;
// a source entry that is never referenced is silently fine.
func backpatch(tape []byte, targetsByName map[string][]int, addrByName map[string]uint16, kind string) error {
	names := make([]string, 0, len(targetsByName))
	for name := range targetsByName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		addr, ok := addrByName[name]
		if !ok {
			return errAt(Semantic, 0, "undefined %s symbol %q", kind, name)
		}
		enc := toBytesBE(addr)
		for _, offset := range targetsByName[name] {
			tape[offset] = enc[0]
			tape[offset+1] = enc[1]
		}
	}
	return nil
}
