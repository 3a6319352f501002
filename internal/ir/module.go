package ir

import "github.com/go6502cc/oscarcc/internal/ident"

// Global describes a module-level variable (spec §3).
type Global struct {
	Name         string
	Type         Type
	Size         int
	AddressTaken bool
	Relevant     bool // computed by static-relevance analysis, spec §4.2 step 12
}

// Module is a container of procedures, global variables, and a shared
// identifier space (spec §3).
type Module struct {
	Idents *ident.Table

	Procedures []*Procedure
	Globals    []Global
}

// NewModule returns an empty module with its own identifier table.
func NewModule() *Module {
	return &Module{Idents: ident.NewTable()}
}

// AddProcedure appends proc to the module.
func (m *Module) AddProcedure(proc *Procedure) {
	m.Procedures = append(m.Procedures, proc)
}

// AddGlobal appends a global and returns its index.
func (m *Module) AddGlobal(g Global) int {
	idx := len(m.Globals)
	m.Globals = append(m.Globals, g)
	return idx
}

// FindProcedure returns the procedure named name, or nil.
func (m *Module) FindProcedure(name string) *Procedure {
	for _, p := range m.Procedures {
		if p.Ident != nil && p.Ident.String() == name {
			return p
		}
	}
	return nil
}
