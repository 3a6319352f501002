// Package emit writes the compiler's output artifacts: the runnable
// PRG/CRT images and the human-readable debug files (map, label,
// disassembly, IR dump, byte-code usage) described in spec.md §6.
//
// Each artifact is a pure function over the state it needs (the
// *link.Linker, a built *link.Image, the IR module, the byte-code
// generator or native blocks) writing to an io.Writer, mirroring
// tinyrange-rtg's std/compiler/elf_x64.go-style "one function per
// output format" layout rather than a single monolithic emitter type.
package emit

import (
	"encoding/binary"
	"io"

	"github.com/go6502cc/oscarcc/internal/link"
)

// WritePRG writes the flat PRG format: a little-endian load address
// followed by the bytes from start to end (exclusive) of img
// (spec §6: "little-endian load address (2 bytes) followed by bytes
// from program-start to program-end").
func WritePRG(w io.Writer, img *link.Image, start, end int) error {
	var header [2]byte
	binary.LittleEndian.PutUint16(header[:], uint16(start))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	body := make([]byte, 0, end-start)
	for addr := start; addr < end; addr++ {
		body = append(body, img.Byte(addr))
	}
	_, err := w.Write(body)
	return err
}
