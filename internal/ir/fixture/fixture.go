// Package fixture builds small IR procedures directly with the
// ir.NewProcedure/ir.Module constructors (not through ir.Builder) for
// the optimizer, code generator and emitter tests and for cmd/oscarcc's
// demo pipeline — standing in for the out-of-scope front end (spec
// §4.1's "contracts the core assumes").
package fixture

import (
	"github.com/go6502cc/oscarcc/internal/ir"
)

// ConstReturn builds `int name() { return value; }` as already-lowered
// IR: a single block loading an int32 constant into a temp and
// returning it.
func ConstReturn(mod *ir.Module, name string, value int64) *ir.Procedure {
	p := ir.NewProcedure(mod.Idents.Unique(name))
	t := p.NewTemp(ir.TypeInt32)
	loc := ir.Location{File: "fixture.c", Line: 1}
	b := p.Blocks[0]
	b.Append(ir.Move(ir.TempOperand(t, ir.TypeInt32), ir.IntOperand(value, ir.TypeInt32), loc))
	b.Append(ir.ReturnValue(ir.TempOperand(t, ir.TypeInt32), loc))
	p.Flags |= ir.ProcLeaf
	mod.AddProcedure(p)
	return p
}

// LoopSum builds the IR equivalent of:
//
//	int name() { int s=0; for (int i=1;i<=10;i++) s+=i; return s; }
//
// as a 4-block CFG: preheader, header (condition), body, exit — the
// shape the optimizer's loop-head detection (spec §4.2 step 9) expects:
// the header dominates the body and the body's back edge targets the
// header.
func LoopSum(mod *ir.Module, name string) *ir.Procedure {
	p := ir.NewProcedure(mod.Idents.Unique(name))
	loc := ir.Location{File: "fixture.c", Line: 2}

	s := p.NewTemp(ir.TypeInt32)
	i := p.NewTemp(ir.TypeInt32)
	cond := p.NewTemp(ir.TypeBool)

	pre := p.Blocks[0]
	header := p.NewBlock()
	body := p.NewBlock()
	exit := p.NewBlock()

	pre.Append(ir.Move(ir.TempOperand(s, ir.TypeInt32), ir.IntOperand(0, ir.TypeInt32), loc))
	pre.Append(ir.Move(ir.TempOperand(i, ir.TypeInt32), ir.IntOperand(1, ir.TypeInt32), loc))
	pre.TrueTarget = header.Index

	header.Append(ir.Relational(ir.OpCmpLE, ir.TempOperand(cond, ir.TypeBool), ir.TempOperand(i, ir.TypeInt32), ir.IntOperand(10, ir.TypeInt32), loc))
	header.TrueTarget = body.Index
	header.FalseTarget = exit.Index

	body.Append(ir.Binary(ir.OpAdd, ir.TempOperand(s, ir.TypeInt32), ir.TempOperand(s, ir.TypeInt32), ir.TempOperand(i, ir.TypeInt32), loc))
	body.Append(ir.Binary(ir.OpAdd, ir.TempOperand(i, ir.TypeInt32), ir.TempOperand(i, ir.TypeInt32), ir.IntOperand(1, ir.TypeInt32), loc))
	body.TrueTarget = header.Index

	exit.Append(ir.ReturnValue(ir.TempOperand(s, ir.TypeInt32), loc))

	mod.AddProcedure(p)
	return p
}

// DeadStore builds a procedure with an obviously dead temporary write,
// for dead-code-elimination tests (spec §4.2 step 6).
func DeadStore(mod *ir.Module, name string) *ir.Procedure {
	p := ir.NewProcedure(mod.Idents.Unique(name))
	loc := ir.Location{File: "fixture.c", Line: 3}
	live := p.NewTemp(ir.TypeInt32)
	dead := p.NewTemp(ir.TypeInt32)
	b := p.Blocks[0]
	b.Append(ir.Move(ir.TempOperand(live, ir.TypeInt32), ir.IntOperand(7, ir.TypeInt32), loc))
	b.Append(ir.Move(ir.TempOperand(dead, ir.TypeInt32), ir.IntOperand(99, ir.TypeInt32), loc))
	b.Append(ir.ReturnValue(ir.TempOperand(live, ir.TypeInt32), loc))
	mod.AddProcedure(p)
	return p
}

// ConstantBranch builds a procedure whose branch condition folds to a
// compile-time constant, for dead-branch-elimination tests (spec §4.2
// step 7).
func ConstantBranch(mod *ir.Module, name string) *ir.Procedure {
	p := ir.NewProcedure(mod.Idents.Unique(name))
	loc := ir.Location{File: "fixture.c", Line: 4}
	cond := p.NewTemp(ir.TypeBool)
	result := p.NewTemp(ir.TypeInt32)

	entry := p.Blocks[0]
	thenB := p.NewBlock()
	elseB := p.NewBlock()

	entry.Append(ir.Relational(ir.OpCmpEQ, ir.TempOperand(cond, ir.TypeBool), ir.IntOperand(1, ir.TypeInt32), ir.IntOperand(1, ir.TypeInt32), loc))
	entry.TrueTarget = thenB.Index
	entry.FalseTarget = elseB.Index

	thenB.Append(ir.Move(ir.TempOperand(result, ir.TypeInt32), ir.IntOperand(1, ir.TypeInt32), loc))
	thenB.Append(ir.ReturnValue(ir.TempOperand(result, ir.TypeInt32), loc))

	elseB.Append(ir.Move(ir.TempOperand(result, ir.TypeInt32), ir.IntOperand(0, ir.TypeInt32), loc))
	elseB.Append(ir.ReturnValue(ir.TempOperand(result, ir.TypeInt32), loc))

	mod.AddProcedure(p)
	return p
}
