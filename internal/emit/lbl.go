package emit

import (
	"fmt"
	"io"

	"github.com/go6502cc/oscarcc/internal/link"
)

// WriteLabels writes the .lbl file: one `al <hex-address> .<ident>`
// line per placed, referenced object (spec §6), in region/section
// registration order.
func WriteLabels(w io.Writer, l *link.Linker) error {
	for _, r := range l.Regions {
		for _, s := range r.Sections {
			for _, o := range s.Objects {
				if !o.Referenced || !o.Placed {
					continue
				}
				if _, err := fmt.Fprintf(w, "al %04X .%s\n", o.Address, o.Ident); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
