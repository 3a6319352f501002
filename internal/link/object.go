// Package link implements the linker of spec §4.5: objects, references,
// sections and regions, reachability, single-pass placement, and
// relocation resolution into an addressable image.
//
// Grounded on tinyrange-rtg's ELF/PE/Mach-O builders
// (std/compiler/elf_x64.go, pe32.go, macho_arm64.go), which share this
// package's shape: named byte blobs placed into address ranges with a
// fixup list resolved once final addresses are known. This package
// generalizes that one-shot "compute offsets, patch bytes" pattern into
// the multi-region, multi-bank placement spec.md's linker performs.
package link

// ObjectKind distinguishes ordinary data/code objects from the
// synthetic section-bound markers placed at a section's start/end.
type ObjectKind int

const (
	ObjectNormal ObjectKind = iota
	ObjectSectionStart
	ObjectSectionEnd
)

// RelocFlag selects which bytes of a relocation are written, and
// whether a per-call temporary offset is added (spec §4.5's
// LOW_BYTE/HIGH_BYTE/LREF_TEMPORARY flags).
type RelocFlag int

const (
	RelocLowByte RelocFlag = 1 << iota
	RelocHighByte
	RelocTemporary
)

func (f RelocFlag) Has(bit RelocFlag) bool { return f&bit != 0 }

// Reference is a fixup recorded against the object that owns it: at
// byte Offset within the owning object, write the address of Target
// (plus RefOffset), using Flags to decide which bytes and whether a
// temporary adjustment applies.
type Reference struct {
	Offset    int
	Target    *Object
	RefOffset int
	Flags     RelocFlag
}

// Object is a placed or unplaced chunk of bytes belonging to a Section
// (spec §3/§4.5). AddData and AddSpace grow Data; References list the
// fixups this object's bytes still need once every object has an
// address.
type Object struct {
	Ident   string
	Kind    ObjectKind
	Section *Section

	Data []byte
	Size int // Size may exceed len(Data) only for pending AddSpace zero-fill

	Address    int
	Bank       int // cartridge bank number; 0 for main-memory objects
	Placed     bool
	Referenced bool

	References []Reference

	// Temporaries holds per-call-site stack-slot byte adjustments
	// indexed by a reference's RefOffset, consumed when a Reference's
	// Flags has RelocTemporary (spec §4.5's LREF_TEMPORARY).
	Temporaries []int
}

// NewObject returns an empty, unplaced, unreferenced object.
func NewObject(ident string, kind ObjectKind) *Object {
	return &Object{Ident: ident, Kind: kind}
}

// AddData appends bytes to the object's contents, growing Size to match.
func (o *Object) AddData(b []byte) {
	o.Data = append(o.Data, b...)
	if len(o.Data) > o.Size {
		o.Size = len(o.Data)
	}
}

// AddSpace reserves n zero bytes (BSS-style) past whatever has already
// been written; the image writer treats bytes beyond len(Data), up to
// Size, as zero fill. Safe to interleave with AddData.
func (o *Object) AddSpace(n int) {
	o.Size += n
}

// AddReference records a fixup to be resolved once every object in the
// linker has a final address.
func (o *Object) AddReference(ref Reference) {
	o.References = append(o.References, ref)
}
