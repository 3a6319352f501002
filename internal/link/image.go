package link

// Image is a byte buffer addressed by absolute memory address, one per
// main-memory region or per cartridge bank (spec §4.5's "image write").
type Image struct {
	Base int
	Buf  []byte
}

// NewImage returns a zero-filled image covering [base, base+size).
func NewImage(base, size int) *Image {
	return &Image{Base: base, Buf: make([]byte, size)}
}

func (im *Image) contains(addr int) bool {
	return addr >= im.Base && addr < im.Base+len(im.Buf)
}

// WriteByte stores b at absolute address addr, a no-op if addr falls
// outside the image.
func (im *Image) WriteByte(addr int, b byte) {
	if im.contains(addr) {
		im.Buf[addr-im.Base] = b
	}
}

// Byte reads the byte at absolute address addr, or 0 if out of range.
func (im *Image) Byte(addr int) byte {
	if !im.contains(addr) {
		return 0
	}
	return im.Buf[addr-im.Base]
}

// BuildImages copies every placed, referenced object's bytes into a
// per-bank image (bank 0 is main memory) and resolves every recorded
// relocation against the final addresses (spec §4.5's image write and
// relocation resolution, in one pass since both need every object's
// final address).
//
// bankSize governs the size allocated to each non-zero bank's image
// (16 KiB cartridge banks); the main-memory image always spans the
// full 64 KiB address space, $0000..$FFFF.
func (l *Linker) BuildImages(bankSize int) map[int]*Image {
	images := map[int]*Image{}
	imageFor := func(bank int) *Image {
		if im, ok := images[bank]; ok {
			return im
		}
		base := 0
		size := 0x10000
		if bank != 0 {
			base = l.bankBase(bank)
			size = bankSize
		}
		im := NewImage(base, size)
		images[bank] = im
		return im
	}

	for _, o := range l.allObjects() {
		if !o.Placed || !o.Referenced {
			continue
		}
		im := imageFor(o.Bank)
		for i := 0; i < len(o.Data); i++ {
			im.WriteByte(o.Address+i, o.Data[i])
		}
	}

	for _, o := range l.allObjects() {
		if !o.Placed || !o.Referenced {
			continue
		}
		im := imageFor(o.Bank)
		for _, ref := range o.References {
			l.resolveReference(im, o, ref)
		}
	}

	return images
}

func (l *Linker) resolveReference(im *Image, owner *Object, ref Reference) {
	if ref.Target == nil || !ref.Target.Placed {
		return
	}
	raddr := ref.Target.Address + ref.RefOffset
	if ref.Flags.Has(RelocTemporary) {
		if ref.RefOffset >= 0 && ref.RefOffset < len(owner.Temporaries) {
			raddr += owner.Temporaries[ref.RefOffset]
		}
	}
	addr := owner.Address + ref.Offset
	if ref.Flags.Has(RelocLowByte) {
		im.WriteByte(addr, byte(raddr&0xff))
		addr++
	}
	if ref.Flags.Has(RelocHighByte) {
		im.WriteByte(addr, byte((raddr>>8)&0xff))
	}
}

// bankBase returns the load address a bank's 16 KiB buffer starts at.
// Cartridge banks are addressed starting at $8000, matching the
// $8000/$A000 pairing spec.md's .crt writer emits per used bank.
func (l *Linker) bankBase(bank int) int {
	return 0x8000
}
