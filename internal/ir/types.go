// Package ir implements the typed three-address intermediate
// representation described in spec §3: operands, instructions, basic
// blocks, procedures and the module that contains them.
package ir

import "github.com/go6502cc/oscarcc/internal/ident"

// Type enumerates the IR's value types. Each has a fixed byte size on
// the 6502 target.
type Type int

const (
	TypeNone Type = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeFloat
	TypePointer
)

// Size returns the type's fixed byte size on the target.
func (t Type) Size() int {
	switch t {
	case TypeNone:
		return 0
	case TypeBool, TypeInt8:
		return 1
	case TypeInt16, TypePointer:
		return 2
	case TypeInt32, TypeFloat:
		return 4
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeBool:
		return "bool"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeFloat:
		return "float"
	case TypePointer:
		return "pointer"
	default:
		return "?"
	}
}

// MemoryClass selects how an operand's address is computed at lowering
// time (spec §3).
type MemoryClass int

const (
	MemNone MemoryClass = iota
	MemParam
	MemLocal
	MemGlobal
	MemFrame
	MemProcedure
	MemIndirect
	MemTemporary
	MemAbsolute
	MemFParam
)

func (m MemoryClass) String() string {
	switch m {
	case MemNone:
		return "none"
	case MemParam:
		return "param"
	case MemLocal:
		return "local"
	case MemGlobal:
		return "global"
	case MemFrame:
		return "frame"
	case MemProcedure:
		return "procedure"
	case MemIndirect:
		return "indirect"
	case MemTemporary:
		return "temporary"
	case MemAbsolute:
		return "absolute"
	case MemFParam:
		return "fparam"
	default:
		return "?"
	}
}

// Kind is an alias of String kept for the .int disassembly text, whose
// vocabulary is allowed to diverge from Go's String() convention later
// without touching callers that only care about debug output.
func (m MemoryClass) Kind() string { return m.String() }

// InvalidTemp is the sentinel for "no temporary" (spec §3: mTemp INVALID = -1).
const InvalidTemp = -1

// LinkObjectRef is an opaque reference to a linker object, set by
// lowering/codegen once a value is known to live in a particular
// linker-owned blob. The ir package never dereferences it; it only
// threads it through to the code generators and linker.
type LinkObjectRef struct {
	valid bool
	id    int
}

// NewLinkObjectRef wraps a linker object id.
func NewLinkObjectRef(id int) LinkObjectRef { return LinkObjectRef{valid: true, id: id} }

// Valid reports whether the reference names an object.
func (r LinkObjectRef) Valid() bool { return r.valid }

// ID returns the linker object id; only meaningful when Valid().
func (r LinkObjectRef) ID() int { return r.id }

// Operand is a tagged value consumed or produced by an Instruction
// (spec §3).
type Operand struct {
	Temp     int // mTemp: >=0, or InvalidTemp
	Type     Type
	IntConst int64
	FloatConst float64
	VarIndex int // index into the owning Procedure's local/param vars, or Module.Globals
	Size     int // operand size in bytes
	Obj      LinkObjectRef
	Class    MemoryClass
}

// IsTemp reports whether the operand names a valid temporary.
func (o Operand) IsTemp() bool { return o.Temp != InvalidTemp }

// TempOperand builds an operand naming temporary t of type ty.
func TempOperand(t int, ty Type) Operand {
	return Operand{Temp: t, Type: ty, Size: ty.Size(), Class: MemTemporary, VarIndex: -1}
}

// IntOperand builds an integer-constant operand.
func IntOperand(v int64, ty Type) Operand {
	return Operand{Temp: InvalidTemp, Type: ty, IntConst: v, Size: ty.Size(), Class: MemNone, VarIndex: -1}
}

// FloatOperand builds a float-constant operand.
func FloatOperand(v float64) Operand {
	return Operand{Temp: InvalidTemp, Type: TypeFloat, FloatConst: v, Size: TypeFloat.Size(), Class: MemNone, VarIndex: -1}
}

// VarOperand builds an operand naming a variable of the given memory
// class (local, param, global, ...).
func VarOperand(class MemoryClass, index int, ty Type) Operand {
	return Operand{Temp: InvalidTemp, Type: ty, VarIndex: index, Size: ty.Size(), Class: class}
}

// Opcode enumerates IR instruction opcodes (spec §3).
type Opcode int

const (
	OpLoad Opcode = iota
	OpStore
	OpLoadEffectiveAddress
	OpBinary
	OpUnary
	OpRelational
	OpConvert
	OpBranch
	OpJump
	OpCall
	OpCallNative
	OpFramePush
	OpFramePop
	OpReturnValue
	OpReturnStruct
	OpReturnVoid
	OpAssembler
	OpHostCall
)

var opcodeNames = map[Opcode]string{
	OpLoad: "load", OpStore: "store", OpLoadEffectiveAddress: "lea",
	OpBinary: "binary", OpUnary: "unary", OpRelational: "relational",
	OpConvert: "convert", OpBranch: "branch", OpJump: "jump",
	OpCall: "call", OpCallNative: "call_native", OpFramePush: "frame_push",
	OpFramePop: "frame_pop", OpReturnValue: "return_value",
	OpReturnStruct: "return_struct", OpReturnVoid: "return_void",
	OpAssembler: "assembler", OpHostCall: "host_call",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return "?"
}

// Operator enumerates the arithmetic/bitwise/shift/relational/conversion
// operators an IC_BINARY/IC_UNARY/IC_RELATIONAL/IC_CONVERT instruction
// may carry (spec §3).
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpNeg
	OpNot
	OpCmpEQ
	OpCmpNE
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
	OpIntToFloat
	OpFloatToInt
	OpSignExtend
	OpZeroExtend
)

var operatorNames = map[Operator]string{
	OpNone: "", OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAnd: "&", OpOr: "|", OpXor: "^", OpShl: "<<", OpShr: ">>",
	OpNeg: "neg", OpNot: "not", OpCmpEQ: "==", OpCmpNE: "!=",
	OpCmpLT: "<", OpCmpLE: "<=", OpCmpGT: ">", OpCmpGE: ">=",
	OpIntToFloat: "i2f", OpFloatToInt: "f2i", OpSignExtend: "sext", OpZeroExtend: "zext",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "?"
}

// Flags are per-instruction bit flags (spec §3).
type Flags int

const (
	FlagInUse Flags = 1 << iota
	FlagInvariant
	FlagVolatile
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Instruction is a single IR instruction (spec §3).
//
//	(opcode, operator, src[0..7], dst, const, location, flags)
type Instruction struct {
	Opcode   Opcode
	Operator Operator
	Src      [8]Operand
	NumSrc   int
	Dst      Operand
	Const    Operand
	Loc      Location
	Flags    Flags

	// AssemblerBlob carries an opaque assembler AST for IC_ASSEMBLER
	// instructions (spec §4.1); nil for every other opcode.
	AssemblerBlob any

	// Target is the called procedure's identifier for OpCall/OpCallNative,
	// or the host-call selector for OpHostCall.
	Target *ident.Ident
}

// Location mirrors diag.Location without importing the diag package,
// so ir has no dependency on the diagnostic sink; callers convert.
type Location struct {
	File string
	Line int
}
