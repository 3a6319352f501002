package bytecode

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
	"github.com/go6502cc/oscarcc/internal/link"
)

func TestBuildDispatchTableOnlyReferencesUsedOpcodes(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.ConstReturn(mod, "answer", 42)

	g := NewGenerator(&diag.Sink{})
	g.Generate(p)

	routines := map[Opcode]*link.Object{
		OpPushConst32: link.NewObject("rt_push32", link.ObjectNormal),
		OpReturn:      link.NewObject("rt_return", link.ObjectNormal),
		OpAdd:         link.NewObject("rt_add", link.ObjectNormal),
	}
	table := BuildDispatchTable(g, routines)

	var sawAdd bool
	for _, ref := range table.References {
		if ref.Target == routines[OpAdd] {
			sawAdd = true
		}
	}
	if sawAdd {
		t.Fatalf("OpAdd was never used, its routine should not be referenced by the dispatch table")
	}

	wantEntries := 2 * 2 // OpPushConst32 and OpReturn, low+high byte each
	if len(table.References) != wantEntries {
		t.Fatalf("len(References) = %d, want %d", len(table.References), wantEntries)
	}
}
