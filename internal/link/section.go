package link

// SectionType selects how a section's objects are treated at placement
// and image-write time (spec §4.5).
type SectionType int

const (
	SectionCode SectionType = iota
	SectionData
	SectionBSS
	SectionStack
	SectionHeap
)

func (t SectionType) String() string {
	switch t {
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionBSS:
		return "bss"
	case SectionStack:
		return "stack"
	case SectionHeap:
		return "heap"
	default:
		return "?"
	}
}

// Section is an ordered list of objects placed contiguously within one
// region (spec §3/§4.5). Start/End are the min/max address of anything
// actually placed into it, updated during Linker.Place. Size is only
// meaningful for a SectionStack section: the caller sets how many bytes
// to reserve at the owning region's tail before Place runs.
type Section struct {
	Ident   string
	Type    SectionType
	Objects []*Object

	Start, End int
	Size       int // requested byte count, SectionStack only

	// nonzero is the image watermark: the highest absolute address any
	// placed object actually wrote real bytes to (Address+len(Data), not
	// Address+Size — Size can run ahead of Data for an AddSpace
	// reservation), so emitters can skip trailing zero bytes never
	// written with real data.
	nonzero int
}

// NewSection returns an empty section of the given type.
func NewSection(ident string, t SectionType) *Section {
	return &Section{Ident: ident, Type: t}
}

// AddObject appends obj to the section, binding it for placement.
func (s *Section) AddObject(obj *Object) {
	obj.Section = s
	s.Objects = append(s.Objects, obj)
}

// Nonzero returns the absolute address watermark computed during
// Place: zero until Place runs, then the end of the last real byte any
// of this section's objects wrote.
func (s *Section) Nonzero() int { return s.nonzero }
