package ir

// Builder is the contract the front end (preprocessor, scanner, parser,
// semantic analyzer — all out of this core's scope per spec §1) uses to
// hand the core a module: a sequence of procedures with their CFGs
// already in three-address form, plus a list of globals (spec §4.1).
//
// The core never calls into a concrete front end; tests build fixture
// modules directly against the Procedure/Module constructors, and a
// real front end would do the same. Builder exists so such a front end
// (or a test fixture) can be swapped without the core depending on its
// package.
type Builder interface {
	// Build returns the completed module. Called once, after every
	// procedure has been appended.
	Build() *Module
}

// ModuleBuilder is the trivial Builder backed by a *Module under
// construction; front ends and test fixtures alike can embed it.
type ModuleBuilder struct {
	Module *Module
}

// NewModuleBuilder returns a builder wrapping a fresh module.
func NewModuleBuilder() *ModuleBuilder {
	return &ModuleBuilder{Module: NewModule()}
}

func (b *ModuleBuilder) Build() *Module { return b.Module }
