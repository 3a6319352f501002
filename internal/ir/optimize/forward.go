package optimize

import (
	"fmt"

	"github.com/go6502cc/oscarcc/internal/ir"
)

// ForwardAndFold implements temp forwarding, value forwarding and
// constant propagation in a single linear scan per block (spec §4.2
// steps 4-5): copies are propagated through their source while live,
// repeated computations of the same expression are rewritten to reuse
// a prior result, and instructions whose operands are all constants are
// folded. Per-block value sets are seeded from the intersection of
// every predecessor's exit set; a block with a predecessor not yet
// visited (a loop back edge) starts from an empty set.
//
// Calls flush the value set conservatively (FlushCallAliases /
// FlushFrameAliases in spec terms are collapsed into one flush here:
// this implementation does not track which values are provably
// unaliased locals, so it treats every call as invalidating every
// cached expression rather than only globals/indirects/frame slots —
// documented as a conservative simplification in DESIGN.md).
//
// Returns true if anything changed.
func ForwardAndFold(p *ir.Procedure) bool {
	order := reversePostorder(p)
	preds := p.Predecessors()
	exitSets := make([]map[string]ir.Operand, len(p.Blocks))
	changed := false

	for _, bi := range order {
		b := p.Blocks[bi]
		values := mergeValueSets(preds[bi], exitSets)

		for ii := range b.Instructions {
			in := &b.Instructions[ii]

			// Apply current copy/value forwarding to every source operand.
			for si := 0; si < in.NumSrc; si++ {
				if in.Src[si].IsTemp() {
					if repl, ok := values[tempKey(in.Src[si].Temp)]; ok && repl != in.Src[si] {
						in.Src[si] = repl
						changed = true
					}
				}
			}

			switch in.Opcode {
			case ir.OpCall, ir.OpCallNative, ir.OpHostCall:
				// Conservative flush: see doc comment above.
				values = map[string]ir.Operand{}

			case ir.OpLoad:
				// A plain copy: record that the destination temp now
				// forwards to its source, as long as the source is
				// itself a temp or a constant.
				if in.Dst.IsTemp() {
					src := in.Src[0]
					if src.IsTemp() || src.Class == ir.MemNone {
						values[tempKey(in.Dst.Temp)] = src
					} else {
						delete(values, tempKey(in.Dst.Temp))
					}
				}

			case ir.OpBinary, ir.OpUnary, ir.OpRelational:
				if allConstant(in) {
					if folded, ok := fold(in); ok {
						in.Opcode = ir.OpLoad
						in.Operator = ir.OpNone
						in.Src[0] = folded
						in.NumSrc = 1
						changed = true
					}
				}
				if in.Dst.IsTemp() {
					fp := fingerprint(in)
					if prior, ok := values[fp]; ok {
						in.Opcode = ir.OpLoad
						in.Operator = ir.OpNone
						in.Src[0] = prior
						in.NumSrc = 1
						changed = true
						values[tempKey(in.Dst.Temp)] = prior
					} else {
						values[fp] = ir.TempOperand(in.Dst.Temp, in.Dst.Type)
						values[tempKey(in.Dst.Temp)] = ir.TempOperand(in.Dst.Temp, in.Dst.Type)
					}
				}
			}

			if in.Dst.IsTemp() {
				invalidateExpressionsOf(values, in.Dst.Temp)
			}
		}
		exitSets[bi] = values
	}
	return changed
}

func tempKey(t int) string { return fmt.Sprintf("t%d", t) }

func mergeValueSets(preds []int, exitSets []map[string]ir.Operand) map[string]ir.Operand {
	var have []map[string]ir.Operand
	for _, pr := range preds {
		if exitSets[pr] == nil {
			return map[string]ir.Operand{}
		}
		have = append(have, exitSets[pr])
	}
	if len(have) == 0 {
		return map[string]ir.Operand{}
	}
	out := map[string]ir.Operand{}
	for k, v := range have[0] {
		agree := true
		for _, m := range have[1:] {
			ov, ok := m[k]
			if !ok || ov != v {
				agree = false
				break
			}
		}
		if agree {
			out[k] = v
		}
	}
	return out
}

// invalidateExpressionsOf removes any cached fingerprint whose result is
// the temp just redefined, and the temp's own forwarding entry (it will
// be re-added by the instruction that just wrote it, if applicable).
func invalidateExpressionsOf(values map[string]ir.Operand, t int) {
	key := tempKey(t)
	for k, v := range values {
		if k == key {
			continue
		}
		if v.IsTemp() && v.Temp == t {
			delete(values, k)
		}
	}
}

func allConstant(in *ir.Instruction) bool {
	for i := 0; i < in.NumSrc; i++ {
		if in.Src[i].IsTemp() || in.Src[i].Class != ir.MemNone {
			return false
		}
	}
	return true
}

func fingerprint(in *ir.Instruction) string {
	s := fmt.Sprintf("op%d.%d", in.Opcode, in.Operator)
	for i := 0; i < in.NumSrc; i++ {
		o := in.Src[i]
		s += fmt.Sprintf("|%d:%d:%d:%d", o.Temp, o.Class, o.IntConst, o.VarIndex)
	}
	return s
}

// fold evaluates a binary/unary/relational instruction whose operands
// are all constants. Integer arithmetic is carried out in 64-bit signed
// semantics and then masked to the destination's width, per spec §4.2
// step 5 / §9's resolved Open Question (two's-complement wrap, not
// implementation-defined overflow).
func fold(in *ir.Instruction) (ir.Operand, bool) {
	ty := in.Dst.Type
	if ty == ir.TypeFloat {
		return foldFloat(in)
	}

	a := in.Src[0].IntConst
	var b int64
	if in.NumSrc > 1 {
		b = in.Src[1].IntConst
	}

	var r int64
	switch in.Operator {
	case ir.OpAdd:
		r = a + b
	case ir.OpSub:
		r = a - b
	case ir.OpMul:
		r = a * b
	case ir.OpDiv:
		if b == 0 {
			return ir.Operand{}, false
		}
		r = a / b
	case ir.OpMod:
		if b == 0 {
			return ir.Operand{}, false
		}
		r = a % b
	case ir.OpAnd:
		r = a & b
	case ir.OpOr:
		r = a | b
	case ir.OpXor:
		r = a ^ b
	case ir.OpShl:
		r = a << uint(b&63)
	case ir.OpShr:
		r = a >> uint(b&63)
	case ir.OpNeg:
		r = -a
	case ir.OpNot:
		r = ^a
	case ir.OpCmpEQ:
		r = boolInt(a == b)
	case ir.OpCmpNE:
		r = boolInt(a != b)
	case ir.OpCmpLT:
		r = boolInt(a < b)
	case ir.OpCmpLE:
		r = boolInt(a <= b)
	case ir.OpCmpGT:
		r = boolInt(a > b)
	case ir.OpCmpGE:
		r = boolInt(a >= b)
	default:
		return ir.Operand{}, false
	}
	return ir.IntOperand(maskToWidth(r, ty), ty), true
}

func foldFloat(in *ir.Instruction) (ir.Operand, bool) {
	a := in.Src[0].FloatConst
	var b float64
	if in.NumSrc > 1 {
		b = in.Src[1].FloatConst
	}
	var r float64
	switch in.Operator {
	case ir.OpAdd:
		r = a + b
	case ir.OpSub:
		r = a - b
	case ir.OpMul:
		r = a * b
	case ir.OpDiv:
		if b == 0 {
			return ir.Operand{}, false
		}
		r = a / b
	case ir.OpNeg:
		r = -a
	default:
		return ir.Operand{}, false
	}
	return ir.FloatOperand(r), true
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// maskToWidth truncates r to ty's bit width using two's-complement wrap.
func maskToWidth(r int64, ty ir.Type) int64 {
	bits := ty.Size() * 8
	if bits <= 0 || bits >= 64 {
		return r
	}
	mask := int64(1)<<uint(bits) - 1
	v := r & mask
	signBit := int64(1) << uint(bits-1)
	if v&signBit != 0 && ty != ir.TypeBool {
		v -= int64(1) << uint(bits)
	}
	return v
}
