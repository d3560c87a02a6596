package dexfile

import (
	"strings"
	"testing"

	"github.com/thanm/dexview/dexinstr"
)

func TestFormatInstructionSGetObjectRawIndex(t *testing.T) {
	code := []uint16{0x62, 0x0001} // sget-object v0, field@1
	insn, err := dexinstr.Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := FormatInstruction(insn, nil)
	if !strings.HasPrefix(got, "sget-object v0, field@0001") {
		t.Errorf("FormatInstruction() = %q", got)
	}
}

func TestFormatInstructionResolvesFieldRef(t *testing.T) {
	v, off := buildDexWithStrings(t, []string{"LFoo;", "bar", "I"})
	_ = off

	b := newDexBuilder()
	b.buf = append([]byte(nil), v.image...)
	// Append a field_id_item referencing (class=type0, type=type0, name=string1).
	fieldIdsOff := b.offset()
	b.putU16(0) // class_idx -> type 0
	b.putU16(0) // type_idx -> type 0 (reuse for simplicity)
	b.putU32(1) // name_idx -> string 1 ("bar")
	typeIdsOff := b.offset()
	b.putU32(0) // type_id[0].descriptor_idx -> string 0 ("LFoo;")

	mapOff := b.putMapList([]MapItem{
		{Type: TypeHeaderItem, Size: 1, Offset: 0},
		{Type: TypeStringIdItem, Size: 3, Offset: v.header.StringIdsOff},
		{Type: TypeTypeIdItem, Size: 1, Offset: typeIdsOff},
		{Type: TypeFieldIdItem, Size: 1, Offset: fieldIdsOff},
		{Type: TypeMapList, Size: 1, Offset: 0},
	})
	data := b.finish("038", dexLayout{
		stringIdsOff: v.header.StringIdsOff, stringIdsCount: 3,
		typeIdsOff: typeIdsOff, typeIdsCount: 1,
		fieldIdsOff: fieldIdsOff, fieldIdsCount: 1,
		mapOff: mapOff,
	})
	view, err := OpenBytes(data, VerifyNone)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}

	code := []uint16{0x62, 0x0000} // sget-object v0, field@0
	insn, err := dexinstr.Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := FormatInstruction(insn, view)
	want := "sget-object v0, field@0000 LFoo;->bar:LFoo;"
	if got != want {
		t.Errorf("FormatInstruction() = %q, want %q", got, want)
	}
}

func TestFormatInstructionInvokeArgsAndBranch(t *testing.T) {
	code := []uint16{
		uint16(0x6e) | uint16(0)<<8 | uint16(2)<<12,
		0x0010,
		uint16(1) | uint16(2)<<4,
	}
	insn, err := dexinstr.Decode(code, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := FormatInstruction(insn, nil)
	if !strings.HasPrefix(got, "invoke-virtual {v1, v2}, method@0010") {
		t.Errorf("FormatInstruction() = %q", got)
	}

	branch := []uint16{uint16(0x28) | uint16(5)<<8} // goto +5
	insn2, err := dexinstr.Decode(branch, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got2 := FormatInstruction(insn2, nil)
	if got2 != "goto +5" {
		t.Errorf("FormatInstruction() = %q, want %q", got2, "goto +5")
	}
}
