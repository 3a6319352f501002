package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go6502cc/oscarcc/internal/codegen/native"
	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
)

func TestWriteNativeDisassemblyFormatsMnemonics(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.ConstReturn(mod, "answer", 42)

	g := native.NewGenerator(native.Runtime{}, &diag.Sink{})
	blocks := g.Generate(p)

	var buf bytes.Buffer
	if err := WriteNativeDisassembly(&buf, "answer", blocks); err != nil {
		t.Fatalf("WriteNativeDisassembly: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "LDA #$2A") {
		t.Fatalf("expected an immediate LDA of 42 (0x2A), got:\n%s", out)
	}
	if !strings.Contains(out, "RTS") {
		t.Fatalf("expected a trailing RTS, got:\n%s", out)
	}
}
