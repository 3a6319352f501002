package emit

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go6502cc/oscarcc/internal/link"
)

func TestWriteCRTHeaderAndFixedBootPackets(t *testing.T) {
	main := link.NewImage(0, 0x10000)

	var buf bytes.Buffer
	if err := WriteCRT(&buf, "HELLO", main, map[int]*link.Image{}); err != nil {
		t.Fatalf("WriteCRT: %v", err)
	}

	out := buf.Bytes()
	if string(out[0:16]) != "C64 CARTRIDGE   " {
		t.Fatalf("unexpected magic: %q", out[0:16])
	}
	if binary.BigEndian.Uint32(out[16:20]) != crtHeaderLen {
		t.Fatalf("header length = %#x, want %#x", binary.BigEndian.Uint32(out[16:20]), crtHeaderLen)
	}
	if out[24] != 0 || out[25] != 0 {
		t.Fatalf("expected exrom=0 game=0, got %d %d", out[24], out[25])
	}

	firstChip := out[crtHeaderLen : crtHeaderLen+4]
	if string(firstChip) != "CHIP" {
		t.Fatalf("expected first CHIP packet right after the header, got %q", firstChip)
	}

	totalLen := crtHeaderLen + 2*(16+chipImageSize)
	if len(out) != totalLen {
		t.Fatalf("len(out) = %d, want %d (header + two fixed boot packets)", len(out), totalLen)
	}
}
