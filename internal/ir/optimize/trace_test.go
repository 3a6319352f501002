package optimize

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/config"
	"github.com/go6502cc/oscarcc/internal/ir"
)

func TestBuildTracesSetsEntryCount(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("f"))
	loc := ir.Location{File: "fixture.c", Line: 1}
	entry := p.Blocks[0]
	a := p.NewBlock()
	b := p.NewBlock()
	entry.TrueTarget = a.Index
	entry.FalseTarget = b.Index
	a.Append(ir.ReturnVoid(loc))
	b.Append(ir.ReturnVoid(loc))
	mod.AddProcedure(p)

	BuildTraces(p, config.Settings{})

	if entry.EntryCount != 0 {
		t.Errorf("entry.EntryCount = %d, want 0", entry.EntryCount)
	}
	if a.EntryCount != 1 || b.EntryCount != 1 {
		t.Errorf("a.EntryCount=%d b.EntryCount=%d, want 1 and 1", a.EntryCount, b.EntryCount)
	}
}

func TestBuildTracesExpandsSingleEntrySuccessor(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("f"))
	loc := ir.Location{File: "fixture.c", Line: 1}
	entry := p.Blocks[0]
	next := p.NewBlock()
	entry.TrueTarget = next.Index
	next.Append(ir.ReturnVoid(loc))
	mod.AddProcedure(p)

	if !BuildTraces(p, config.Settings{Expand: true}) {
		t.Fatal("expected the single-entry successor to be inlined")
	}
	if !entry.IsReturn() {
		t.Fatalf("entry should have absorbed next's return, true=%d false=%d", entry.TrueTarget, entry.FalseTarget)
	}
}
