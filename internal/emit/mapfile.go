package emit

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go6502cc/oscarcc/internal/link"
)

// WriteMap writes the .map file: sections, regions, and their
// referenced objects with hex address ranges and identifiers
// (spec §6). Columns are aligned with text/tabwriter rather than
// hand-padded strings — see DESIGN.md for why this stays stdlib.
func WriteMap(w io.Writer, l *link.Linker) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, r := range l.Regions {
		fmt.Fprintf(tw, "region\t%s\t$%04X..$%04X\tbank %d\n", r.Ident, r.Start, r.End, r.CartridgeBank)
		for _, s := range r.Sections {
			fmt.Fprintf(tw, "  section\t%s\t$%04X..$%04X\t%s\n", s.Ident, s.Start, s.End, s.Type)
			for _, o := range s.Objects {
				if !o.Referenced || !o.Placed {
					continue
				}
				fmt.Fprintf(tw, "    object\t%s\t$%04X..$%04X\t\n", o.Ident, o.Address, o.Address+o.Size)
			}
		}
	}
	return tw.Flush()
}
