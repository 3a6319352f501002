// Package bytecode implements the compact byte-code generator of spec
// §4.4: an alternative to the native 6502 generator that encodes each
// IR procedure as a short opcode stream interpreted by a small runtime,
// plus the 256-entry dispatch table that runtime indexes into.
package bytecode

// Opcode is one byte-code instruction. 0..127 are the core opcode
// space (reference-counted by Generator.Used, only linked when used);
// 128..255 are the extended space, each linked without a reference
// count as soon as it is used (spec §4.4).
type Opcode byte

const (
	OpHalt Opcode = iota
	OpPushConst8
	OpPushConst16
	OpPushConst32
	OpLoadLocal
	OpStoreLocal
	OpLoadGlobal
	OpStoreGlobal
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
	OpJump
	OpBranchFalse
	OpCall
	OpReturn
	OpReturnVoid
	OpFramePush
	OpFramePop
	OpPop
	OpDup
)

// Extended opcodes, each linked unconditionally whenever it appears in
// an emitted stream (spec §4.4's "extended opcodes linked
// unconditionally when used").
const (
	OpFloatAdd Opcode = 128 + iota
	OpFloatSub
	OpFloatMul
	OpFloatDiv
	OpFloatCmp
	OpFloatToInt
	OpIntToFloat
	OpCallNative
	OpHostCall
)

// IsExtended reports whether op lives in the unconditionally-linked
// extended opcode space.
func (op Opcode) IsExtended() bool { return op >= 128 }
