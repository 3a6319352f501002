package bytecode

import (
	"encoding/binary"

	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
)

// Generator lowers ir.Procedure bodies into byte-code streams,
// tracking which core opcodes were actually used so the driver only
// links the routines the program needs (spec §4.4).
type Generator struct {
	Sink *diag.Sink

	// Used counts references to each of the 128 core opcodes across
	// every procedure generated so far (mByteCodeUsed in spec terms).
	Used [128]int

	// UsedExtended records which extended (128..255) opcodes appeared
	// at least once; each opcode recorded here is linked without a
	// reference count, and extended opcodes never recorded are not.
	UsedExtended map[Opcode]bool
}

// NewGenerator returns a byte-code generator reporting to sink.
func NewGenerator(sink *diag.Sink) *Generator {
	return &Generator{Sink: sink, UsedExtended: map[Opcode]bool{}}
}

// Generate lowers p into a flat byte-code stream. Branch targets are
// encoded as byte offsets from the start of the stream, patched in a
// second pass once every block's start offset is known.
func (g *Generator) Generate(p *ir.Procedure) []byte {
	var blockOffsets []int
	var fixups []fixup
	var out []byte

	order := p.Reachable()
	for _, b := range p.Blocks {
		if b == nil || !order[b.Index] {
			blockOffsets = append(blockOffsets, -1)
			continue
		}
		blockOffsets = append(blockOffsets, len(out))
		for _, in := range b.Instructions {
			out, fixups = g.lower(out, fixups, &in)
		}
		if b.TrueTarget != ir.NoSuccessor && b.FalseTarget != ir.NoSuccessor {
			out = g.emit(out, OpBranchFalse)
			fixups = append(fixups, fixup{at: len(out), target: b.FalseTarget})
			out = append(out, 0, 0)
		} else if b.TrueTarget != ir.NoSuccessor {
			out = g.emit(out, OpJump)
			fixups = append(fixups, fixup{at: len(out), target: b.TrueTarget})
			out = append(out, 0, 0)
		}
	}

	for _, f := range fixups {
		target := blockOffsets[f.target]
		binary.LittleEndian.PutUint16(out[f.at:], uint16(target))
	}
	return out
}

type fixup struct {
	at     int
	target int
}

func (g *Generator) emit(out []byte, op Opcode) []byte {
	if op.IsExtended() {
		g.UsedExtended[op] = true
	} else {
		g.Used[op]++
	}
	return append(out, byte(op))
}

func (g *Generator) lower(out []byte, fixups []fixup, in *ir.Instruction) ([]byte, []fixup) {
	switch in.Opcode {
	case ir.OpLoad:
		out = g.lowerLoad(out, in.Src[0])
		out = g.lowerStore(out, in.Dst)

	case ir.OpBinary:
		out = g.lowerLoad(out, in.Src[0])
		out = g.lowerLoad(out, in.Src[1])
		out = g.emit(out, binaryOpcode(in.Operator))
		out = g.lowerStore(out, in.Dst)

	case ir.OpUnary:
		out = g.lowerLoad(out, in.Src[0])
		op := OpNeg
		if in.Operator == ir.OpNot {
			op = OpNot
		}
		out = g.emit(out, op)
		out = g.lowerStore(out, in.Dst)

	case ir.OpRelational:
		out = g.lowerLoad(out, in.Src[0])
		out = g.lowerLoad(out, in.Src[1])
		out = g.emit(out, relationalOpcode(in.Operator))
		out = g.lowerStore(out, in.Dst)

	case ir.OpReturnValue:
		out = g.lowerLoad(out, in.Src[0])
		out = g.emit(out, OpReturn)

	case ir.OpReturnVoid:
		out = g.emit(out, OpReturnVoid)

	case ir.OpFramePush:
		out = g.emit(out, OpFramePush)

	case ir.OpFramePop:
		out = g.emit(out, OpFramePop)

	case ir.OpCall:
		out = g.emit(out, OpCall)
	case ir.OpCallNative:
		out = g.emit(out, OpCallNative)
	case ir.OpHostCall:
		out = g.emit(out, OpHostCall)

	default:
		g.Sink.Warnf(diag.Location{File: in.Loc.File, Line: in.Loc.Line}, diag.KindSemantic,
			"byte-code generator has no lowering for opcode %d, skipped", in.Opcode)
	}
	return out, fixups
}

func (g *Generator) lowerLoad(out []byte, src ir.Operand) []byte {
	if src.Class == ir.MemLocal {
		out = g.emit(out, OpLoadLocal)
		return binary.LittleEndian.AppendUint16(out, uint16(src.VarIndex))
	}
	if src.Class == ir.MemGlobal {
		out = g.emit(out, OpLoadGlobal)
		return binary.LittleEndian.AppendUint16(out, uint16(src.VarIndex))
	}
	if src.IsTemp() {
		out = g.emit(out, OpLoadLocal)
		return binary.LittleEndian.AppendUint16(out, uint16(src.Temp))
	}
	switch src.Type.Size() {
	case 1:
		out = g.emit(out, OpPushConst8)
		return append(out, byte(src.IntConst))
	case 4:
		out = g.emit(out, OpPushConst32)
		return binary.LittleEndian.AppendUint32(out, uint32(src.IntConst))
	default:
		out = g.emit(out, OpPushConst16)
		return binary.LittleEndian.AppendUint16(out, uint16(src.IntConst))
	}
}

func (g *Generator) lowerStore(out []byte, dst ir.Operand) []byte {
	if dst.Class == ir.MemGlobal {
		out = g.emit(out, OpStoreGlobal)
		return binary.LittleEndian.AppendUint16(out, uint16(dst.VarIndex))
	}
	out = g.emit(out, OpStoreLocal)
	idx := dst.VarIndex
	if dst.IsTemp() {
		idx = dst.Temp
	}
	return binary.LittleEndian.AppendUint16(out, uint16(idx))
}

func binaryOpcode(op ir.Operator) Opcode {
	switch op {
	case ir.OpAdd:
		return OpAdd
	case ir.OpSub:
		return OpSub
	case ir.OpMul:
		return OpMul
	case ir.OpDiv:
		return OpDiv
	case ir.OpMod:
		return OpMod
	case ir.OpAnd:
		return OpAnd
	case ir.OpOr:
		return OpOr
	case ir.OpXor:
		return OpXor
	case ir.OpShl:
		return OpShl
	case ir.OpShr:
		return OpShr
	default:
		return OpHalt
	}
}

func relationalOpcode(op ir.Operator) Opcode {
	switch op {
	case ir.OpCmpEQ:
		return OpCmpEQ
	case ir.OpCmpNE:
		return OpCmpNE
	case ir.OpCmpLT:
		return OpCmpLT
	case ir.OpCmpLE:
		return OpCmpLE
	case ir.OpCmpGT:
		return OpCmpGT
	case ir.OpCmpGE:
		return OpCmpGE
	default:
		return OpHalt
	}
}
