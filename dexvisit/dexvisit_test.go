package dexvisit_test

import (
	"testing"

	"github.com/thanm/dexview/dexfile"
	"github.com/thanm/dexview/dexvisit"
	"github.com/thanm/dexview/internal/dextestutil"
)

func TestWalkVisitsClassMethodAndInstruction(t *testing.T) {
	data := dextestutil.BuildToyDex()
	view, err := dexfile.OpenBytes(data, dexfile.VerifyAll)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}

	visitor := &dextestutil.CaptureVisitor{Instrs: true}
	if err := dexvisit.Walk(view, visitor); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{
		"  class LFoo; methods: 1",
		"   method id 0 name 'bar' code offset",
	}
	if len(visitor.Result) < 3 {
		t.Fatalf("Walk produced %d callbacks, want >= 3: %v", len(visitor.Result), visitor.Result)
	}
	if visitor.Result[0] != want[0] {
		t.Errorf("Result[0] = %q, want %q", visitor.Result[0], want[0])
	}
	if len(visitor.Result[1]) < len(want[1]) || visitor.Result[1][:len(want[1])] != want[1] {
		t.Errorf("Result[1] = %q, want prefix %q", visitor.Result[1], want[1])
	}
	last := visitor.Result[len(visitor.Result)-1]
	if last != "    insn @0 nop" {
		t.Errorf("last callback = %q, want %q", last, "    insn @0 nop")
	}
}

func TestWalkWithoutInstructions(t *testing.T) {
	data := dextestutil.BuildToyDex()
	view, err := dexfile.OpenBytes(data, dexfile.VerifyNone)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	visitor := &dextestutil.CaptureVisitor{}
	if err := dexvisit.Walk(view, visitor); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	for _, line := range visitor.Result {
		if len(line) >= 4 && line[:4] == "    " {
			t.Errorf("unexpected instruction callback with WantInstructions()==false: %q", line)
		}
	}
}
