package ir

// The helpers below are small instruction constructors used by test
// fixtures and by the (out-of-scope) front end contract alike; they
// keep call sites from repeating the Instruction struct literal.

// Move emits dst = src (a load if src is a variable/constant, a store
// if dst names a variable).
func Move(dst, src Operand, loc Location) Instruction {
	return Instruction{Opcode: OpLoad, Dst: dst, Src: [8]Operand{src}, NumSrc: 1, Loc: loc, Flags: FlagInUse}
}

// Binary emits dst = a <op> b.
func Binary(op Operator, dst, a, b Operand, loc Location) Instruction {
	return Instruction{Opcode: OpBinary, Operator: op, Dst: dst, Src: [8]Operand{a, b}, NumSrc: 2, Loc: loc, Flags: FlagInUse}
}

// Unary emits dst = <op> a.
func Unary(op Operator, dst, a Operand, loc Location) Instruction {
	return Instruction{Opcode: OpUnary, Operator: op, Dst: dst, Src: [8]Operand{a}, NumSrc: 1, Loc: loc, Flags: FlagInUse}
}

// Relational emits dst = a <op> b for a boolean-valued comparison,
// consumed as a branch condition per spec §4.1.
func Relational(op Operator, dst, a, b Operand, loc Location) Instruction {
	return Instruction{Opcode: OpRelational, Operator: op, Dst: dst, Src: [8]Operand{a, b}, NumSrc: 2, Loc: loc, Flags: FlagInUse}
}

// ReturnValue emits a value return.
func ReturnValue(v Operand, loc Location) Instruction {
	return Instruction{Opcode: OpReturnValue, Src: [8]Operand{v}, NumSrc: 1, Loc: loc, Flags: FlagInUse}
}

// ReturnVoid emits a void return.
func ReturnVoid(loc Location) Instruction {
	return Instruction{Opcode: OpReturnVoid, Loc: loc, Flags: FlagInUse}
}
