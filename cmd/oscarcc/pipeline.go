package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go6502cc/oscarcc/internal/codegen/bytecode"
	"github.com/go6502cc/oscarcc/internal/codegen/native"
	"github.com/go6502cc/oscarcc/internal/config"
	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/emit"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
	"github.com/go6502cc/oscarcc/internal/ir/optimize"
	"github.com/go6502cc/oscarcc/internal/link"
)

// Pipeline carries one compilation's state from module construction
// through linked, written artifacts. cmd/oscarcc has no front end of
// its own (out of this core's scope), so NewPipeline builds the module
// from an internal/ir/fixture demo procedure rather than parsing source.
type Pipeline struct {
	log  *slog.Logger
	sink *diag.Sink
	cfg  config.Settings

	mod  *ir.Module
	main *ir.Procedure

	linker  *link.Linker
	region  *link.Region
	code    *link.Section
	runtime *link.Section

	nativeBlocks map[string][]*native.Block
	bcGen        *bytecode.Generator

	images map[int]*link.Image
}

// NewPipeline builds the demo module named by demo ("constreturn" or
// "loopsum") via internal/ir/fixture, naming its procedure "main" so
// the driver has a fixed reachability root regardless of which demo
// was selected.
func NewPipeline(log *slog.Logger, sink *diag.Sink, cfg config.Settings, demo string) (*Pipeline, error) {
	mod := ir.NewModule()
	var main *ir.Procedure
	switch demo {
	case "constreturn":
		main = fixture.ConstReturn(mod, "main", 42)
	case "loopsum":
		main = fixture.LoopSum(mod, "main")
	default:
		return nil, fmt.Errorf("unknown demo module %q (want constreturn or loopsum)", demo)
	}
	return &Pipeline{log: log, sink: sink, cfg: cfg, mod: mod, main: main}, nil
}

// Run optimizes the module, generates code with whichever backend cfg
// selects, and links the result into per-bank images.
func (p *Pipeline) Run() error {
	optimize.Run(p.log, p.mod, p.cfg)

	p.linker = link.NewLinker(p.sink, p.log)
	p.region = link.NewRegion("main", 0x0801, 0x10000)
	p.linker.AddRegion(p.region)
	p.code = link.NewSection("code", link.SectionCode)
	p.runtime = link.NewSection("runtime", link.SectionCode)
	p.region.AddSection(p.code)
	p.region.AddSection(p.runtime)

	var err error
	if p.cfg.Native {
		err = p.runNative()
	} else {
		err = p.runBytecode()
	}
	if err != nil {
		return err
	}

	p.linker.Place()
	p.images = p.linker.BuildImages(0x4000)
	return nil
}

func (p *Pipeline) runNative() error {
	rt := buildNativeRuntime()
	for _, entry := range rt {
		p.runtime.AddObject(entry.Obj)
	}

	gen := native.NewGenerator(rt, p.sink)
	p.nativeBlocks = map[string][]*native.Block{}

	var mainObj *link.Object
	for _, proc := range p.mod.Procedures {
		blocks := gen.Generate(proc)
		native.RemapZeroPage(blocks)
		if p.cfg.AutoInlineAll {
			// Global X/Y pinning is the most aggressive codegen tier;
			// bundled under the preset that also turns on whole-program
			// inlining rather than its own flag (spec §6 names no
			// dedicated switch for it).
			native.AssignXY(blocks)
		}
		ident := proc.Ident.String()
		p.nativeBlocks[ident] = blocks

		obj := native.BuildObject(ident, blocks)
		p.code.AddObject(obj)
		if proc == p.main {
			mainObj = obj
		}
	}

	p.linker.MarkReachable([]*link.Object{mainObj})
	return nil
}

// buildNativeRuntime registers every runtime helper identifier native
// codegen may call against a one-instruction RTS stub object. The real
// helper bodies are the front end's runtime library, out of this
// core's scope (spec names the contract's identifiers, not their
// implementation); the stub only needs to be a valid placement/
// relocation target for the linker and emitters to exercise.
func buildNativeRuntime() native.Runtime {
	rt := native.Runtime{}
	for _, ident := range native.RequiredIdents {
		obj := link.NewObject("rt_"+ident, link.ObjectNormal)
		obj.AddData([]byte{0x60}) // RTS
		rt[ident] = native.RuntimeEntry{Obj: obj}
	}
	return rt
}

func (p *Pipeline) runBytecode() error {
	p.bcGen = bytecode.NewGenerator(p.sink)

	var mainObj *link.Object
	for _, proc := range p.mod.Procedures {
		stream := p.bcGen.Generate(proc)
		obj := link.NewObject(proc.Ident.String(), link.ObjectNormal)
		obj.AddData(stream)
		p.code.AddObject(obj)
		if proc == p.main {
			mainObj = obj
		}
	}

	routines := map[bytecode.Opcode]*link.Object{}
	for i := 0; i < 128; i++ {
		if p.bcGen.Used[i] == 0 {
			continue
		}
		routines[bytecode.Opcode(i)] = buildRoutineStub(i)
	}
	for op := range p.bcGen.UsedExtended {
		routines[op] = buildRoutineStub(int(op))
	}
	for _, obj := range routines {
		p.runtime.AddObject(obj)
	}

	dispatch := bytecode.BuildDispatchTable(p.bcGen, routines)
	p.code.AddObject(dispatch)

	p.linker.MarkReachable([]*link.Object{mainObj, dispatch})
	return nil
}

// buildRoutineStub stands in for the interpreter routine implementing
// one byte-code opcode; like the native runtime helpers, the actual
// routine bodies live outside this core.
func buildRoutineStub(op int) *link.Object {
	obj := link.NewObject(fmt.Sprintf("bc_routine_%d", op), link.ObjectNormal)
	obj.AddData([]byte{0x60}) // RTS
	return obj
}

// WriteArtifacts writes every output file spec §6 names for the
// current target/backend combination, deriving each filename from
// output with its extension stripped.
func (p *Pipeline) WriteArtifacts(output string) error {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	mainImage := p.images[0]

	switch p.cfg.Target {
	case config.TargetPRG:
		if err := writeArtifact(base+".prg", func(w io.Writer) error {
			return emit.WritePRG(w, mainImage, p.region.Start, p.programEnd())
		}); err != nil {
			return err
		}
	case config.TargetCRT16, config.TargetCRT512:
		banks := map[int]*link.Image{}
		for bank, im := range p.images {
			if bank != 0 {
				banks[bank] = im
			}
		}
		if err := writeArtifact(base+".crt", func(w io.Writer) error {
			return emit.WriteCRT(w, filepath.Base(base), mainImage, banks)
		}); err != nil {
			return err
		}
	}

	if err := writeArtifact(base+".map", func(w io.Writer) error {
		return emit.WriteMap(w, p.linker)
	}); err != nil {
		return err
	}
	if err := writeArtifact(base+".lbl", func(w io.Writer) error {
		return emit.WriteLabels(w, p.linker)
	}); err != nil {
		return err
	}
	if err := writeArtifact(base+".int", func(w io.Writer) error {
		return emit.WriteIntDump(w, p.mod)
	}); err != nil {
		return err
	}

	if p.cfg.Native {
		for ident, blocks := range p.nativeBlocks {
			ident, blocks := ident, blocks
			if err := writeArtifact(base+"."+ident+".asm", func(w io.Writer) error {
				return emit.WriteNativeDisassembly(w, ident, blocks)
			}); err != nil {
				return err
			}
		}
	} else {
		if err := writeArtifact(base+".bcs", func(w io.Writer) error {
			return emit.WriteByteCodeStats(w, p.bcGen)
		}); err != nil {
			return err
		}
	}

	return nil
}

// programEnd returns the address one past the last real byte either the
// code or runtime section wrote, so the PRG emitter doesn't store
// trailing AddSpace/BSS zero fill that was only ever reserved, not
// written (spec §3).
func (p *Pipeline) programEnd() int {
	end := p.code.Nonzero()
	if n := p.runtime.Nonzero(); n > end {
		end = n
	}
	return end
}

func writeArtifact(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
