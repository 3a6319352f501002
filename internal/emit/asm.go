package emit

import (
	"fmt"
	"io"

	"github.com/go6502cc/oscarcc/internal/codegen/native"
)

var nativeMnemonics = map[native.Opcode]string{
	native.OpLDA: "LDA", native.OpLDX: "LDX", native.OpLDY: "LDY",
	native.OpSTA: "STA", native.OpSTX: "STX", native.OpSTY: "STY",
	native.OpCLC: "CLC", native.OpSEC: "SEC", native.OpADC: "ADC",
	native.OpSBC: "SBC", native.OpAND: "AND", native.OpORA: "ORA",
	native.OpEOR: "EOR", native.OpASL: "ASL", native.OpLSR: "LSR",
	native.OpINC: "INC", native.OpDEC: "DEC", native.OpINX: "INX",
	native.OpINY: "INY", native.OpDEX: "DEX", native.OpDEY: "DEY",
	native.OpCMP: "CMP", native.OpCPX: "CPX", native.OpCPY: "CPY",
	native.OpBEQ: "BEQ", native.OpBNE: "BNE", native.OpBCC: "BCC",
	native.OpBCS: "BCS", native.OpBMI: "BMI", native.OpBPL: "BPL",
	native.OpJMP: "JMP", native.OpJSR: "JSR", native.OpRTS: "RTS",
	native.OpPHA: "PHA", native.OpPLA: "PLA", native.OpTAX: "TAX",
	native.OpTXA: "TXA", native.OpTAY: "TAY", native.OpTYA: "TYA",
	native.OpNOP: "NOP",
}

// WriteNativeDisassembly writes a symbol-resolved disassembly of one
// procedure's native blocks: the .asm file's native half (spec §6).
// Operands naming a linker object print that object's identifier
// instead of a bare address when one is attached.
func WriteNativeDisassembly(w io.Writer, procIdent string, blocks []*native.Block) error {
	if _, err := fmt.Fprintf(w, "; native %s\n", procIdent); err != nil {
		return err
	}
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "L%d:\n", b.Index); err != nil {
			return err
		}
		for _, in := range b.Instructions {
			line := formatNativeInstruction(in)
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatNativeInstruction(in native.Instruction) string {
	mnem := nativeMnemonics[in.Opcode]
	if mnem == "" {
		mnem = "???"
	}
	if in.Obj != nil {
		return fmt.Sprintf("%s .%s+%d", mnem, in.Obj.Ident, in.RefOffset)
	}
	switch in.Mode {
	case native.ModeImplied:
		return mnem
	case native.ModeImmediate:
		return fmt.Sprintf("%s #$%02X", mnem, in.Operand)
	case native.ModeZeroPage, native.ModeZeroPageX, native.ModeZeroPageIndirectY:
		return fmt.Sprintf("%s $%02X", mnem, in.Operand)
	case native.ModeRelative:
		return fmt.Sprintf("%s <rel>", mnem)
	default:
		return fmt.Sprintf("%s $%04X", mnem, in.Operand)
	}
}
