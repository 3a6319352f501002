package link

import (
	"log/slog"

	"github.com/go6502cc/oscarcc/internal/diag"
)

// Linker owns every region (and, transitively, every section and
// object) of one compilation's output image (spec §3/§4.5).
type Linker struct {
	Regions []*Region

	sink *diag.Sink
	log  *slog.Logger
}

// NewLinker returns an empty linker reporting diagnostics to sink.
func NewLinker(sink *diag.Sink, log *slog.Logger) *Linker {
	return &Linker{sink: sink, log: log}
}

// AddRegion registers a region; registration order is placement order.
func (l *Linker) AddRegion(r *Region) {
	l.Regions = append(l.Regions, r)
}

// allObjects returns every object across every region/section, in
// placement-candidate order.
func (l *Linker) allObjects() []*Object {
	var out []*Object
	for _, r := range l.Regions {
		for _, s := range r.Sections {
			out = append(out, s.Objects...)
		}
	}
	return out
}

// MarkReachable implements spec §4.5's reachability pass: starting from
// roots, mark every object transitively referenced as Referenced. Roots
// themselves are always marked, whether or not anything points to them
// (the startup object, or the byte-code dispatch table).
func (l *Linker) MarkReachable(roots []*Object) {
	var stack []*Object
	for _, r := range roots {
		if r != nil && !r.Referenced {
			r.Referenced = true
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ref := range o.References {
			if ref.Target != nil && !ref.Target.Referenced {
				ref.Target.Referenced = true
				stack = append(stack, ref.Target)
			}
		}
	}
}

// Place implements spec §4.5's single-pass, non-backtracking placement:
// regions in registration order, sections in push order, objects in
// definition order. An object that doesn't fit stays unplaced; a
// diagnostic is emitted only when an unplaced object is Referenced
// (diag.KindUnplacedReferenced — the one behavior change from spec.md's
// Open Questions, since the original silently drops this case).
//
// Stack and heap sections are handled after every other section in
// their region: a STACK section claims Size bytes from the region's
// tail, shrinking the region; a HEAP section then fills whatever
// remains.
func (l *Linker) Place() {
	for _, r := range l.Regions {
		var stack, heap *Section
		for _, s := range r.Sections {
			switch s.Type {
			case SectionStack:
				stack = s
				continue
			case SectionHeap:
				heap = s
				continue
			}
			l.placeSection(r, s)
		}
		if stack != nil {
			stack.End = r.End
			stack.Start = r.End - stack.Size
			r.End = stack.Start
		}
		if heap != nil {
			heap.Start = r.Start + r.used
			heap.End = r.End
		}
	}
}

func (l *Linker) placeSection(r *Region, s *Section) {
	start := r.Start + r.used
	end := start
	any := false

	for _, o := range s.Objects {
		if o.Kind != ObjectNormal {
			continue // section-bound markers are resolved below, once [start, end) is known
		}
		if !o.Referenced || o.Placed {
			continue
		}
		size := o.Size
		if r.used+size > r.End-r.Start {
			l.addUnplacedDiagnostic(o)
			continue
		}
		o.Address = r.Start + r.used
		o.Bank = r.CartridgeBank
		o.Placed = true
		r.used += size

		if !any {
			start = o.Address
			any = true
		}
		if o.Address+size > end {
			end = o.Address + size
		}
		if dataEnd := o.Address + len(o.Data); dataEnd > s.nonzero {
			s.nonzero = dataEnd
		}
	}
	s.Start, s.End = start, end

	for _, o := range s.Objects {
		switch o.Kind {
		case ObjectSectionStart:
			o.Address = s.Start
			o.Placed = true
		case ObjectSectionEnd:
			o.Address = s.End
			o.Placed = true
		}
	}
}

func (l *Linker) addUnplacedDiagnostic(o *Object) {
	if l.sink == nil {
		return
	}
	l.sink.Addf(diag.Location{}, diag.KindUnplacedReferenced,
		"object %q is referenced but did not fit in section %q", o.Ident, sectionIdent(o))
}

func sectionIdent(o *Object) string {
	if o.Section == nil {
		return "<none>"
	}
	return o.Section.Ident
}
