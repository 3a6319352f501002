package emit

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/link"
)

func buildTinyLinker(t *testing.T) *link.Linker {
	t.Helper()
	sink := &diag.Sink{}
	l := link.NewLinker(sink, slog.Default())
	region := link.NewRegion("main", 0x0801, 0x1000)
	section := link.NewSection("code", link.SectionCode)
	obj := link.NewObject("main_entry", link.ObjectNormal)
	obj.AddData([]byte{0xEA, 0xEA})
	section.AddObject(obj)
	region.AddSection(section)
	l.AddRegion(region)
	l.MarkReachable([]*link.Object{obj})
	l.Place()
	return l
}

func TestWriteMapListsPlacedObjects(t *testing.T) {
	l := buildTinyLinker(t)
	var buf bytes.Buffer
	if err := WriteMap(&buf, l); err != nil {
		t.Fatalf("WriteMap: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "main_entry") {
		t.Fatalf("expected main_entry in map output, got:\n%s", out)
	}
	if !strings.Contains(out, "region") || !strings.Contains(out, "section") {
		t.Fatalf("expected region/section rows, got:\n%s", out)
	}
}

func TestWriteLabelsFormatsHexAddress(t *testing.T) {
	l := buildTinyLinker(t)
	var buf bytes.Buffer
	if err := WriteLabels(&buf, l); err != nil {
		t.Fatalf("WriteLabels: %v", err)
	}
	want := "al 0801 .main_entry\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
