package native

import "github.com/go6502cc/oscarcc/internal/link"

// Opcode is a 6502 mnemonic. Only the subset the generator actually
// emits is listed; unsupported mnemonics simply aren't constants here.
type Opcode int

const (
	OpLDA Opcode = iota
	OpLDX
	OpLDY
	OpSTA
	OpSTX
	OpSTY
	OpCLC
	OpSEC
	OpADC
	OpSBC
	OpAND
	OpORA
	OpEOR
	OpASL
	OpLSR
	OpINC
	OpDEC
	OpINX
	OpINY
	OpDEX
	OpDEY
	OpCMP
	OpCPX
	OpCPY
	OpBEQ
	OpBNE
	OpBCC
	OpBCS
	OpBMI
	OpBPL
	OpJMP
	OpJSR
	OpRTS
	OpPHA
	OpPLA
	OpTAX
	OpTXA
	OpTAY
	OpTYA
	OpNOP
)

// AddrMode is a 6502 addressing mode.
type AddrMode int

const (
	ModeImplied AddrMode = iota
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageIndirectY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeRelative
)

// Instruction is NativeInstruction: a tagged struct, never an
// interface-per-opcode hierarchy, mirroring std/compiler/backend.go's
// CodeGen/Inst pattern. Operand is a literal value for
// Immediate/ZeroPage/Relative modes; Obj (plus RefOffset/RelFlags) is
// set instead when the operand names a linker object's address.
type Instruction struct {
	Opcode  Opcode
	Mode    AddrMode
	Operand int

	Obj       *link.Object
	RefOffset int
	RelFlags  link.RelocFlag

	// Target names, by index, the block a branch or jump instruction
	// transfers control to; NoSuccessor for every instruction that
	// isn't a control transfer. Relaxed marks a branch BuildObject's
	// offset pass decided didn't fit in a signed byte and rewrote to
	// the long invert-and-JMP form.
	Target  int
	Relaxed bool

	// Bytes is filled in by BuildObject once the instruction's final
	// length (and, for branches, short-vs-long form) is fixed.
	Bytes []byte
}

// Block is NativeCodeBasicBlock: a straight-line run of native
// instructions mirroring one ir.BasicBlock, plus the forwarding state
// snapshot at its entry (spec §4.3's block-entry intersection).
type Block struct {
	Index        int
	Instructions []Instruction
	TrueTarget   int
	FalseTarget  int

	Entry *DataSet
}

const NoSuccessor = -1

// NewBlock returns an empty block with no successors.
func NewBlock(index int) *Block {
	return &Block{Index: index, TrueTarget: NoSuccessor, FalseTarget: NoSuccessor}
}

func (b *Block) Append(in Instruction) { b.Instructions = append(b.Instructions, in) }

func (b *Block) IsConditional() bool { return b.TrueTarget != NoSuccessor && b.FalseTarget != NoSuccessor }
func (b *Block) IsJump() bool        { return b.TrueTarget != NoSuccessor && b.FalseTarget == NoSuccessor }
