package dexfile

import (
	"errors"
	"testing"
)

func TestMapListMissingMandatoryEntry(t *testing.T) {
	b := newDexBuilder()
	stringIdsOff := b.offset()
	typeIdsOff := b.offset()
	// Omit TypeTypeIdItem, which is mandatory.
	mapOff := b.putMapList([]MapItem{
		{Type: TypeHeaderItem, Size: 1, Offset: 0},
		{Type: TypeStringIdItem, Size: 0, Offset: stringIdsOff},
		{Type: TypeMapList, Size: 1, Offset: 0},
	})
	data := b.finish("038", dexLayout{
		stringIdsOff: stringIdsOff,
		typeIdsOff:   typeIdsOff,
		mapOff:       mapOff,
	})
	if _, err := OpenBytes(data, VerifyNone); !errors.Is(err, ErrMalformedMapList) {
		t.Fatalf("err = %v, want ErrMalformedMapList", err)
	}
}

func TestMapListFind(t *testing.T) {
	data := buildMinimalDex(t, "038")
	v, err := OpenBytes(data, VerifyNone)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	ml := v.MapList()
	if _, ok := ml.Find(TypeStringIdItem); !ok {
		t.Error("expected TypeStringIdItem present")
	}
	if _, ok := ml.Find(TypeCodeItem); ok {
		t.Error("did not expect TypeCodeItem present")
	}
}

func TestMapListDiscoversMethodHandles(t *testing.T) {
	b := newDexBuilder()
	stringIdsOff := b.offset()
	typeIdsOff := b.offset()
	methodHandlesOff := b.offset()
	b.putU16(0) // method_handle_type
	b.putU16(0) // unused
	b.putU16(0) // field_or_method_id
	b.putU16(0) // unused
	mapOff := b.putMapList([]MapItem{
		{Type: TypeHeaderItem, Size: 1, Offset: 0},
		{Type: TypeStringIdItem, Size: 0, Offset: stringIdsOff},
		{Type: TypeTypeIdItem, Size: 0, Offset: typeIdsOff},
		{Type: TypeMethodHandleItem, Size: 1, Offset: methodHandlesOff},
		{Type: TypeMapList, Size: 1, Offset: 0},
	})
	data := b.finish("038", dexLayout{
		stringIdsOff: stringIdsOff,
		typeIdsOff:   typeIdsOff,
		mapOff:       mapOff,
	})
	v, err := OpenBytes(data, VerifyNone)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if v.MethodHandlesLen() != 1 {
		t.Fatalf("MethodHandlesLen() = %d, want 1", v.MethodHandlesLen())
	}
	if _, err := v.GetMethodHandle(0); err != nil {
		t.Errorf("GetMethodHandle(0): %v", err)
	}
}
