package emit

import (
	"encoding/binary"
	"io"

	"github.com/go6502cc/oscarcc/internal/link"
)

const (
	crtHeaderLen   = 0x40
	crtVersion     = 0x0001
	crtHardware    = 0x2000
	chipPacketSize = 0x2010
	chipImageSize  = 0x2000
)

// WriteCRT writes a CRT16/CRT512 cartridge image: the 64-byte header
// spec.md §6 describes, followed by the two fixed boot CHIP packets and
// one pair of $8000/$A000 packets per cartridge bank actually used.
//
// main is the bank-0 image ($0800..$27FF is read out of it for the
// $8000 boot packet; the $E000 packet is the literal bootStub); banks
// maps cartridge bank number to that bank's
// built image, keyed the way link.Linker.BuildImages keys its result.
func WriteCRT(w io.Writer, name string, main *link.Image, banks map[int]*link.Image) error {
	if err := writeCRTHeader(w, name); err != nil {
		return err
	}
	if err := writeChipPacket(w, 0, 0x8000, readRange(main, 0x0800, chipImageSize)); err != nil {
		return err
	}
	if err := writeChipPacket(w, 0, 0xE000, bootStub()); err != nil {
		return err
	}
	for bank, im := range banks {
		if bank == 0 {
			continue
		}
		if err := writeChipPacket(w, bank, 0x8000, readRange(im, im.Base, chipImageSize)); err != nil {
			return err
		}
		if err := writeChipPacket(w, bank, 0xA000, readRange(im, im.Base+chipImageSize, chipImageSize)); err != nil {
			return err
		}
	}
	return nil
}

func writeCRTHeader(w io.Writer, name string) error {
	var h [crtHeaderLen]byte
	copy(h[0:16], "C64 CARTRIDGE   ")
	binary.BigEndian.PutUint32(h[16:20], crtHeaderLen)
	binary.BigEndian.PutUint16(h[20:22], crtVersion)
	binary.BigEndian.PutUint16(h[22:24], crtHardware)
	h[24] = 0 // EXROM active-low; 0 means asserted
	h[25] = 0 // GAME active-low; 0 means asserted
	// h[26:32] is the 6-byte reserved pad, left zero.
	copy(h[32:64], name)
	_, err := w.Write(h[:])
	return err
}

func writeChipPacket(w io.Writer, bank, loadAddr int, data []byte) error {
	var hdr [16]byte
	copy(hdr[0:4], "CHIP")
	binary.BigEndian.PutUint32(hdr[4:8], chipPacketSize)
	binary.BigEndian.PutUint16(hdr[8:10], 0) // chip type: ROM
	binary.BigEndian.PutUint16(hdr[10:12], uint16(bank))
	binary.BigEndian.PutUint16(hdr[12:14], uint16(loadAddr))
	binary.BigEndian.PutUint16(hdr[14:16], chipImageSize)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readRange copies size bytes starting at addr out of im, zero-filling
// past its bounds.
func readRange(im *link.Image, addr, size int) []byte {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = im.Byte(addr + i)
	}
	return out
}

// bootStub is the $E000 packet's fixed boot code: copy $2800..$3FFF
// down into place and jump through the reset vector. The copy loop and
// jump are the only two instructions this stub needs; the rest of the
// 8 KiB packet is zero-padded by readRange's caller convention (a
// literal byte slice here, since there's no backing image for it).
func bootStub() []byte {
	out := make([]byte, chipImageSize)
	// LDX #$00 ; loop: LDA $2800,X ; STA $A000,X ; INX ; BNE loop ; JMP ($FFFC)
	code := []byte{
		0xA2, 0x00, // LDX #$00
		0xBD, 0x00, 0x28, // LDA $2800,X
		0x9D, 0x00, 0xA0, // STA $A000,X
		0xE8,             // INX
		0xD0, 0xF7,       // BNE loop
		0x6C, 0xFC, 0xFF, // JMP ($FFFC)
	}
	copy(out, code)
	return out
}
