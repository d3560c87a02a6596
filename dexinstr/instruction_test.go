package dexinstr

import "testing"

func TestDecodeNop(t *testing.T) {
	code := []uint16{0x0000}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insn.Name() != "nop" || insn.SizeInCodeUnits() != 1 {
		t.Errorf("got name=%s size=%d", insn.Name(), insn.SizeInCodeUnits())
	}
}

func TestDecodeMove12x(t *testing.T) {
	// move vA=1, vB=2 -> unit = op | (A<<8) | (B<<12)
	unit := uint16(0x01) | uint16(1)<<8 | uint16(2)<<12
	code := []uint16{unit}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insn.Name() != "move" {
		t.Fatalf("got name %s", insn.Name())
	}
	a, _ := insn.VA()
	b, _ := insn.VB()
	if a != 1 || b != 2 {
		t.Errorf("got vA=%d vB=%d, want 1,2", a, b)
	}
}

func TestDecodeSGetObject(t *testing.T) {
	// sget-object v0, field@0x1234 -> format 21c
	unit0 := uint16(0x62) // opcode with vA=0 in high byte
	code := []uint16{unit0, 0x1234}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insn.Name() != "sget-object" {
		t.Fatalf("got name %s", insn.Name())
	}
	idx, err := insn.Index()
	if err != nil || idx != 0x1234 {
		t.Errorf("Index() = (%d, %v), want (0x1234, nil)", idx, err)
	}
	if insn.IndexKind() != IndexFieldRef {
		t.Errorf("IndexKind() = %v, want IndexFieldRef", insn.IndexKind())
	}
	if insn.SizeInCodeUnits() != 2 {
		t.Errorf("size = %d, want 2", insn.SizeInCodeUnits())
	}
}

func TestDecodeInvokeVirtual35c(t *testing.T) {
	// invoke-virtual {v1, v2}, method@0x0010: A=2 args, G unused when A<5,
	// C=1, D=2.
	unit0 := uint16(0x6e) | uint16(0)<<8 | uint16(2)<<12
	unit1 := uint16(0x0010)
	unit2 := uint16(1) | uint16(2)<<4
	code := []uint16{unit0, unit1, unit2}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	idx, _ := insn.Index()
	if idx != 0x0010 {
		t.Fatalf("Index() = %d, want 0x10", idx)
	}
	args, err := insn.Args()
	if err != nil {
		t.Fatalf("Args(): %v", err)
	}
	if len(args) != 2 || args[0] != 1 || args[1] != 2 {
		t.Errorf("Args() = %v, want [1 2]", args)
	}
}

func TestDecodeConstHigh16(t *testing.T) {
	// const/high16 v0, #0x1234 -> literal is 0x1234 in the top 16 bits
	// of a 32-bit value.
	unit0 := uint16(0x15) | uint16(0)<<8
	code := []uint16{unit0, 0x1234}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	lit, err := insn.Literal()
	if err != nil {
		t.Fatalf("Literal(): %v", err)
	}
	if lit != 0x12340000 {
		t.Errorf("Literal() = %#x, want 0x12340000", lit)
	}
}

func TestDecodeConstWideHigh16(t *testing.T) {
	// const-wide/high16 v0, #0x1234 -> literal is 0x1234 in the top 16
	// bits of a 64-bit value, not a 32-bit one.
	unit0 := uint16(0x19) | uint16(0)<<8
	code := []uint16{unit0, 0x1234}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insn.Name() != "const-wide/high16" {
		t.Fatalf("got name %s", insn.Name())
	}
	lit, err := insn.Literal()
	if err != nil {
		t.Fatalf("Literal(): %v", err)
	}
	want := int64(0x1234) << 48
	if lit != want {
		t.Errorf("Literal() = %#x, want %#x", lit, want)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	// 0x3e is an unused/reserved opcode.
	code := []uint16{0x3e}
	if _, err := Decode(code, 0); err != ErrBadOpcode {
		t.Fatalf("expected ErrBadOpcode, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// sget-object needs 2 code units but only 1 is present.
	code := []uint16{0x62}
	if _, err := Decode(code, 0); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestDecodePackedSwitchPayload(t *testing.T) {
	// packed-switch-payload, size=3, first_key=0, three targets.
	code := []uint16{
		packedSwitchIdent,
		3,      // size
		0, 0,   // first_key (32-bit, lo/hi)
		10, 0, // target[0] = 10
		20, 0, // target[1] = 20
		30, 0, // target[2] = 30
	}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insn.SizeInCodeUnits() != 4+2*3 {
		t.Errorf("size = %d, want %d", insn.SizeInCodeUnits(), 4+2*3)
	}
	payload, ok := insn.PackedSwitch()
	if !ok {
		t.Fatal("expected packed-switch payload")
	}
	if payload.FirstKey != 0 || len(payload.Targets) != 3 || payload.Targets[1] != 20 {
		t.Errorf("got %+v", payload)
	}
}

func TestDecodeFillArrayDataPayload(t *testing.T) {
	// element_size=4, element_count=3 -> size = 4 + ceil(12/2) = 10.
	code := []uint16{
		fillArrayDataIdent,
		4,    // element_width
		3, 0, // element_count (32-bit)
		1, 2, 3, 4, 5, 6, // 6 code units = 12 bytes of data
	}
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if insn.SizeInCodeUnits() != 10 {
		t.Errorf("size = %d, want 10", insn.SizeInCodeUnits())
	}
	payload, ok := insn.FillArrayData()
	if !ok {
		t.Fatal("expected fill-array-data payload")
	}
	if len(payload.Data) != 12 {
		t.Errorf("len(Data) = %d, want 12", len(payload.Data))
	}
}

func TestInstructionNext(t *testing.T) {
	code := []uint16{0x0000, 0x0000} // two nops
	insn, err := Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	next, ok, err := insn.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, true, nil)", ok, err)
	}
	if next.PC() != 1 {
		t.Errorf("next.PC() = %d, want 1", next.PC())
	}
	_, ok, err = next.Next()
	if err != nil || ok {
		t.Fatalf("Next() at end = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}
