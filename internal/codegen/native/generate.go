package native

import (
	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/link"
)

// Generator lowers one ir.Procedure at a time into native.Block chains,
// threading an Object to assemble into and a Runtime contract for
// helper calls (spec §4.3).
type Generator struct {
	Runtime Runtime
	Sink    *diag.Sink

	// zpBase is the first zero-page byte this procedure's temporaries
	// may use. NewGenerator leaves it zero and nothing reads it:
	// zpSlot maps temporaries through p.TempOffsets alone.
	zpBase int
}

// NewGenerator returns a generator reporting missing runtime helpers
// and unsupported IR shapes to sink.
func NewGenerator(rt Runtime, sink *diag.Sink) *Generator {
	return &Generator{Runtime: rt, Sink: sink}
}

// Generate lowers p into a native block graph mirroring p's CFG
// one-for-one (spec §4.3's "Lowering" phase), then runs the
// register-simulation forwarding pass and peephole cleanup, and finally
// materializes every block's CFG edge as a real branch/JMP instruction.
//
// Edge materialization happens last, after Peephole, rather than being
// baked in during lowering: bypassEmptyJump rewrites Block.TrueTarget
// in place, and an edge instruction built before that rewrite would
// carry a stale Target once Peephole retargets the block it lives in.
func (g *Generator) Generate(p *ir.Procedure) []*Block {
	blocks := make([]*Block, len(p.Blocks))
	for _, b := range p.Blocks {
		if b == nil {
			continue
		}
		nb := NewBlock(b.Index)
		nb.TrueTarget, nb.FalseTarget = b.TrueTarget, b.FalseTarget
		for _, in := range b.Instructions {
			g.lower(nb, p, &in)
		}
		blocks[b.Index] = nb
	}

	g.forward(p, blocks)
	Peephole(blocks)
	materializeEdges(blocks)
	return blocks
}

// materializeEdges turns each block's TrueTarget/FalseTarget indices
// into real instructions: a conditional block's trailing branch
// (emitted Target-less by lowerRelational) gets its Target set to
// TrueTarget, followed by an unconditional JMP to FalseTarget; a
// jump-only block gets a trailing JMP to TrueTarget.
func materializeEdges(blocks []*Block) {
	for _, b := range blocks {
		if b == nil {
			continue
		}
		switch {
		case b.IsConditional():
			n := len(b.Instructions)
			if n > 0 && isBranchOpcode(b.Instructions[n-1].Opcode) {
				b.Instructions[n-1].Target = b.TrueTarget
			}
			b.Append(Instruction{Opcode: OpJMP, Mode: ModeAbsolute, Target: b.FalseTarget})
		case b.IsJump():
			b.Append(Instruction{Opcode: OpJMP, Mode: ModeAbsolute, Target: b.TrueTarget})
		}
	}
}

func (g *Generator) lower(nb *Block, p *ir.Procedure, in *ir.Instruction) {
	loc := diag.Location{File: in.Loc.File, Line: in.Loc.Line}

	switch in.Opcode {
	case ir.OpLoad:
		g.lowerMove(nb, p, in.Dst, in.Src[0])

	case ir.OpBinary:
		g.lowerBinary(nb, p, loc, in)

	case ir.OpUnary:
		g.lowerUnary(nb, p, in)

	case ir.OpRelational:
		g.lowerRelational(nb, p, in)

	case ir.OpReturnValue:
		// Leaves the result in A per 6502 return convention rather than
		// storing to a synthetic zero-page slot: a stored return value
		// would have no real temp index to be coalesced under.
		g.loadIntoA(nb, p, in.Src[0])
		nb.Append(Instruction{Opcode: OpRTS, Mode: ModeImplied})

	case ir.OpReturnVoid:
		nb.Append(Instruction{Opcode: OpRTS, Mode: ModeImplied})

	case ir.OpFramePush:
		nb.Append(Instruction{Opcode: OpPHA, Mode: ModeImplied})

	case ir.OpFramePop:
		nb.Append(Instruction{Opcode: OpPLA, Mode: ModeImplied})

	case ir.OpCall, ir.OpCallNative:
		nb.Append(Instruction{Opcode: OpJSR, Mode: ModeAbsolute})

	default:
		g.Sink.Warnf(loc, diag.KindSemantic, "native generator has no lowering for opcode %d, skipped", in.Opcode)
	}
}

// lowerMove emits the load/store pair for `dst = src`, picking
// immediate, zero-page or absolute addressing from the operand classes
// per spec §4.3's "Lowering" immediate-mode choices.
func (g *Generator) lowerMove(nb *Block, p *ir.Procedure, dst, src ir.Operand) {
	g.loadIntoA(nb, p, src)
	if dst.IsTemp() {
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, dst)})
	} else if dst.Class == ir.MemGlobal {
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeAbsolute, Operand: dst.VarIndex})
	}
}

// loadIntoA emits the LDA half of lowerMove on its own, for the cases
// (a return value, a binary operand) that only need the value in the
// accumulator rather than also stored back to a cell.
func (g *Generator) loadIntoA(nb *Block, p *ir.Procedure, src ir.Operand) {
	if src.IsTemp() {
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, src)})
	} else if src.Class == ir.MemGlobal {
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeAbsolute, Operand: src.VarIndex})
	} else {
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: int(src.IntConst)})
	}
}

// lowerBinary emits an inline add/sub/bitwise sequence for the common
// 8-bit case, or a JSR to the matching registered runtime helper for
// multiply/divide/modulo and anything wider (spec §4.3: "lowered either
// inline ... or via calls to named runtime helpers").
func (g *Generator) lowerBinary(nb *Block, p *ir.Procedure, loc diag.Location, in *ir.Instruction) {
	switch in.Operator {
	case ir.OpAdd:
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Src[0])})
		nb.Append(Instruction{Opcode: OpCLC, Mode: ModeImplied})
		nb.Append(addSubOperand(p, OpADC, in.Src[1]))
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})

	case ir.OpSub:
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Src[0])})
		nb.Append(Instruction{Opcode: OpSEC, Mode: ModeImplied})
		nb.Append(addSubOperand(p, OpSBC, in.Src[1]))
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})

	case ir.OpAnd, ir.OpOr, ir.OpXor:
		op := map[ir.Operator]Opcode{ir.OpAnd: OpAND, ir.OpOr: OpORA, ir.OpXor: OpEOR}[in.Operator]
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Src[0])})
		nb.Append(addSubOperand(p, op, in.Src[1]))
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})

	case ir.OpMul:
		g.lowerRuntimeCall(nb, loc, "mul16")
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})
	case ir.OpDiv:
		g.lowerRuntimeCall(nb, loc, "divs16")
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})
	case ir.OpMod:
		g.lowerRuntimeCall(nb, loc, "mods16")
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})
	case ir.OpShl, ir.OpShr:
		g.lowerRuntimeCall(nb, loc, "bitshift")
		nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})

	default:
		g.Sink.Warnf(loc, diag.KindSemantic, "native generator has no lowering for binary operator %d", in.Operator)
	}
}

func (g *Generator) lowerUnary(nb *Block, p *ir.Procedure, in *ir.Instruction) {
	switch in.Operator {
	case ir.OpNeg:
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 0})
		nb.Append(Instruction{Opcode: OpSEC, Mode: ModeImplied})
		nb.Append(addSubOperand(p, OpSBC, in.Src[0]))
	case ir.OpNot:
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Src[0])})
		nb.Append(Instruction{Opcode: OpEOR, Mode: ModeImmediate, Operand: 0xff})
	default:
		nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Src[0])})
	}
	nb.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Dst)})
}

// lowerRelational emits the CMP + Bxx for a boolean comparison. It
// never writes in.Dst: per spec §4.1 a relational result is only ever
// consumed as the condition of the block it terminates, so the real
// branch target is left for materializeEdges to fill in once the CFG
// (and any Peephole rewrites of it) is final.
func (g *Generator) lowerRelational(nb *Block, p *ir.Procedure, in *ir.Instruction) {
	nb.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: zpSlot(p, in.Src[0])})
	nb.Append(addSubOperand(p, OpCMP, in.Src[1]))

	branch := OpBEQ
	switch in.Operator {
	case ir.OpCmpEQ:
		branch = OpBEQ
	case ir.OpCmpNE:
		branch = OpBNE
	case ir.OpCmpLT, ir.OpCmpLE:
		branch = OpBCC
	case ir.OpCmpGT, ir.OpCmpGE:
		branch = OpBCS
	}
	nb.Append(Instruction{Opcode: branch, Mode: ModeRelative, Target: NoSuccessor})
}

func (g *Generator) lowerRuntimeCall(nb *Block, loc diag.Location, ident string) {
	entry, ok := g.Runtime.Resolve(g.Sink, loc, ident)
	if !ok {
		return
	}
	nb.Append(Instruction{Opcode: OpJSR, Mode: ModeAbsolute, Obj: entry.Obj, RefOffset: entry.Offset,
		RelFlags: link.RelocLowByte | link.RelocHighByte})
}

func addSubOperand(p *ir.Procedure, op Opcode, src ir.Operand) Instruction {
	if src.IsTemp() {
		return Instruction{Opcode: op, Mode: ModeZeroPage, Operand: zpSlot(p, src)}
	}
	return Instruction{Opcode: op, Mode: ModeImmediate, Operand: int(src.IntConst)}
}

// zpSlot returns the zero-page byte a temporary's coalesced offset maps
// to. Coalesce (internal/ir/optimize) assigns p.TempOffsets before
// Generate runs; every live temporary has a non-negative entry there by
// construction, so no bounds check is needed here.
func zpSlot(p *ir.Procedure, o ir.Operand) int {
	return p.TempOffsets[o.Temp]
}
