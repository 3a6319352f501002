package native

import "github.com/go6502cc/oscarcc/internal/link"

// opcodeByte maps (Opcode, AddrMode) to its real 6502 machine-code byte,
// covering the addressing-mode combinations the lowering/peephole/xy
// passes above actually produce. Combinations this generator never
// emits (e.g. LDA absolute,Y) simply aren't in the table.
var opcodeByte = map[Opcode]map[AddrMode]byte{
	OpLDA: {ModeImmediate: 0xA9, ModeZeroPage: 0xA5, ModeAbsolute: 0xAD},
	OpLDX: {ModeImmediate: 0xA2, ModeZeroPage: 0xA6, ModeImplied: 0xA6},
	OpLDY: {ModeImmediate: 0xA0, ModeZeroPage: 0xA4, ModeImplied: 0xA4},
	OpSTA: {ModeZeroPage: 0x85, ModeAbsolute: 0x8D},
	OpSTX: {ModeZeroPage: 0x86, ModeImplied: 0x86},
	OpSTY: {ModeZeroPage: 0x84, ModeImplied: 0x84},
	OpCLC: {ModeImplied: 0x18},
	OpSEC: {ModeImplied: 0x38},
	OpADC: {ModeImmediate: 0x69, ModeZeroPage: 0x65},
	OpSBC: {ModeImmediate: 0xE9, ModeZeroPage: 0xE5},
	OpAND: {ModeImmediate: 0x29, ModeZeroPage: 0x25},
	OpORA: {ModeImmediate: 0x09, ModeZeroPage: 0x05},
	OpEOR: {ModeImmediate: 0x49, ModeZeroPage: 0x45},
	OpCMP: {ModeImmediate: 0xC9, ModeZeroPage: 0xC5},
	OpBEQ: {ModeRelative: 0xF0},
	OpBNE: {ModeRelative: 0xD0},
	OpBCC: {ModeRelative: 0x90},
	OpBCS: {ModeRelative: 0xB0},
	OpBMI: {ModeRelative: 0x30},
	OpBPL: {ModeRelative: 0x10},
	OpJMP: {ModeAbsolute: 0x4C},
	OpJSR: {ModeAbsolute: 0x20},
	OpRTS: {ModeImplied: 0x60},
	OpPHA: {ModeImplied: 0x48},
	OpPLA: {ModeImplied: 0x68},
	OpINX: {ModeImplied: 0xE8},
	OpINY: {ModeImplied: 0xC8},
	OpDEX: {ModeImplied: 0xCA},
	OpDEY: {ModeImplied: 0x88},
	OpNOP: {ModeImplied: 0xEA},
}

func operandLen(mode AddrMode) int {
	switch mode {
	case ModeImplied:
		return 0
	case ModeImmediate, ModeZeroPage, ModeZeroPageX, ModeZeroPageIndirectY, ModeRelative:
		return 1
	default:
		return 2
	}
}

func isBranchOpcode(op Opcode) bool {
	switch op {
	case OpBEQ, OpBNE, OpBCC, OpBCS, OpBMI, OpBPL:
		return true
	}
	return false
}

// invertBranch returns the opcode that branches on the opposite
// condition, used to relax an out-of-range short branch into
// "branch-around-a-JMP" form.
func invertBranch(op Opcode) Opcode {
	switch op {
	case OpBEQ:
		return OpBNE
	case OpBNE:
		return OpBEQ
	case OpBCC:
		return OpBCS
	case OpBCS:
		return OpBCC
	case OpBMI:
		return OpBPL
	case OpBPL:
		return OpBMI
	default:
		return op
	}
}

// instrLen reports how many bytes in will assemble to, given its
// current Relaxed state. A Target-carrying branch is 2 bytes short
// form, 5 bytes once relaxed (invert-and-skip plus a 3-byte JMP);
// every other instruction's length only depends on its addressing
// mode, which BuildObject never changes.
func instrLen(in Instruction) int {
	if isBranchOpcode(in.Opcode) && in.Target != NoSuccessor {
		if in.Relaxed {
			return 5
		}
		return 2
	}
	if _, ok := opcodeByte[in.Opcode]; !ok {
		return 1
	}
	return 1 + operandLen(in.Mode)
}

// maxBranchRelaxPasses bounds the relaxation fixed-point loop. Each
// pass only ever flips a branch from short to long, never back, so the
// loop converges in at most as many passes as there are branches in
// the procedure; this is a generous backstop against a mistake in that
// monotonicity, not an expected limit (spec §4.3's "zero-page
// allocation" step cites the analogous CalculateOffset backstop).
const maxBranchRelaxPasses = 64

// computeOffsets returns, for each block, the byte offset its first
// instruction would assemble to, given every instruction's current
// length (including relaxation state already decided).
func computeOffsets(order []*Block) map[int]int {
	offsets := make(map[int]int, len(order))
	pos := 0
	for _, b := range order {
		offsets[b.Index] = pos
		for i := range b.Instructions {
			pos += instrLen(b.Instructions[i])
		}
	}
	return offsets
}

// relax marks every branch whose short-form displacement (computed
// against offsets, from the previous pass) would overflow a signed
// byte as needing the long form, and reports whether it changed
// anything. Branch-target block offsets for a branch already
// relaxed are left alone: relaxation never reverses.
func relax(order []*Block, offsets map[int]int) bool {
	changed := false
	pos := 0
	for _, b := range order {
		for i := range b.Instructions {
			in := &b.Instructions[i]
			if isBranchOpcode(in.Opcode) && in.Target != NoSuccessor && !in.Relaxed {
				branchEnd := pos + 2
				disp := offsets[in.Target] - branchEnd
				if disp < -128 || disp > 127 {
					in.Relaxed = true
					changed = true
				}
			}
			pos += instrLen(*in)
		}
	}
	return changed
}

// BuildObject assembles blocks into a single code object implementing
// spec §4.3's lowering output: a relaxation fixed point first settles
// which branches need the long form, then a final pass writes real
// bytes. Intra-procedure control transfers (a branch or jump whose
// Target names another of this procedure's blocks) are resolved two
// ways: a conditional branch's displacement is computed directly,
// since it's PC-relative and needs no knowledge of where this object
// ends up in memory; an unconditional JMP's absolute operand is left
// as a self-reference against the object being built here, resolved
// by the linker once the object has a final address, the same
// mechanism a call to a runtime helper object uses.
func BuildObject(ident string, blocks []*Block) *link.Object {
	order := make([]*Block, 0, len(blocks))
	for _, b := range blocks {
		if b != nil {
			order = append(order, b)
		}
	}

	offsets := computeOffsets(order)
	for i := 0; i < maxBranchRelaxPasses; i++ {
		if !relax(order, offsets) {
			break
		}
		offsets = computeOffsets(order)
	}

	obj := link.NewObject(ident, link.ObjectNormal)
	pos := 0
	for _, b := range order {
		for i := range b.Instructions {
			in := &b.Instructions[i]
			finalizeInstruction(in, pos, offsets, obj)
			obj.AddData(in.Bytes)
			pos += len(in.Bytes)
		}
	}
	return obj
}

func finalizeInstruction(in *Instruction, pos int, offsets map[int]int, obj *link.Object) {
	switch {
	case isBranchOpcode(in.Opcode) && in.Target != NoSuccessor && in.Relaxed:
		// invert-condition, skip over the 3-byte JMP that follows, jump
		// to Target unconditionally.
		in.Bytes = []byte{opcodeByte[invertBranch(in.Opcode)][ModeRelative], 3, opcodeByte[OpJMP][ModeAbsolute], 0, 0}
		obj.AddReference(link.Reference{Offset: pos + 3, Target: obj, RefOffset: offsets[in.Target], Flags: link.RelocLowByte | link.RelocHighByte})

	case isBranchOpcode(in.Opcode) && in.Target != NoSuccessor:
		branchEnd := pos + 2
		disp := offsets[in.Target] - branchEnd
		in.Bytes = []byte{opcodeByte[in.Opcode][ModeRelative], byte(int8(disp))}

	case in.Opcode == OpJMP && in.Obj == nil && in.Target != NoSuccessor:
		in.Bytes = []byte{opcodeByte[OpJMP][ModeAbsolute], 0, 0}
		obj.AddReference(link.Reference{Offset: pos + 1, Target: obj, RefOffset: offsets[in.Target], Flags: link.RelocLowByte | link.RelocHighByte})

	default:
		assembleGeneric(in, obj, pos)
	}
}

// assembleGeneric handles every instruction whose bytes don't depend
// on another block's offset: fixed opcodes/addressing-mode operands,
// plus a runtime-helper call's Obj-relative reference (the same
// RefOffset/RelFlags contract a byte-code dispatch-table entry uses).
func assembleGeneric(in *Instruction, obj *link.Object, pos int) {
	op, ok := opcodeByte[in.Opcode]
	if !ok {
		in.Bytes = []byte{0xEA}
		return
	}
	opByte, ok := op[in.Mode]
	if !ok {
		for _, v := range op {
			opByte = v
			break
		}
	}
	n := operandLen(in.Mode)
	bytes := make([]byte, 1+n)
	bytes[0] = opByte
	if in.Obj == nil {
		switch n {
		case 1:
			bytes[1] = byte(in.Operand)
		case 2:
			bytes[1] = byte(in.Operand & 0xff)
			bytes[2] = byte((in.Operand >> 8) & 0xff)
		}
	} else if n == 2 {
		obj.AddReference(link.Reference{Offset: pos + 1, Target: in.Obj, RefOffset: in.RefOffset, Flags: in.RelFlags})
	}
	in.Bytes = bytes
}
