package bytecode

import "github.com/go6502cc/oscarcc/internal/link"

// BuildDispatchTable returns the 256-entry dispatch table linker
// object spec §4.4 describes: a DATA object holding one low/high byte
// pair per opcode slot, each pair a Reference into the routine object
// that implements it. Slots for opcodes never referenced (Used[i]==0
// for the core space, not present in usedExtended for the extended
// space) are left as zero bytes with no outgoing reference, so the
// linker's reachability pass never pulls their routine in.
func BuildDispatchTable(g *Generator, routines map[Opcode]*link.Object) *link.Object {
	table := link.NewObject("bytecode_dispatch", link.ObjectNormal)
	table.AddSpace(512)

	for i := 0; i < 128; i++ {
		if g.Used[i] == 0 {
			continue
		}
		addDispatchEntry(table, routines, Opcode(i))
	}
	for op := range g.UsedExtended {
		addDispatchEntry(table, routines, op)
	}
	return table
}

func addDispatchEntry(table *link.Object, routines map[Opcode]*link.Object, op Opcode) {
	routine, ok := routines[op]
	if !ok {
		return
	}
	offset := int(op) * 2
	table.AddReference(link.Reference{Offset: offset, Target: routine, Flags: link.RelocLowByte})
	table.AddReference(link.Reference{Offset: offset + 1, Target: routine, Flags: link.RelocHighByte})
}
