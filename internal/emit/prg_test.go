package emit

import (
	"bytes"
	"testing"

	"github.com/go6502cc/oscarcc/internal/link"
)

func TestWritePRGHeaderAndBody(t *testing.T) {
	img := link.NewImage(0x0801, 16)
	img.WriteByte(0x0801, 0xAA)
	img.WriteByte(0x0802, 0xBB)

	var buf bytes.Buffer
	if err := WritePRG(&buf, img, 0x0801, 0x0803); err != nil {
		t.Fatalf("WritePRG: %v", err)
	}

	got := buf.Bytes()
	want := []byte{0x01, 0x08, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
