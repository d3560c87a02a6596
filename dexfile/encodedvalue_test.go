package dexfile

import (
	"math"
	"testing"
)

func TestEncodedValueReaderInt(t *testing.T) {
	b := newDexBuilder()
	off := b.offset()
	// VALUE_INT, value_arg = 3 (size 4), value = 0x01020304 (LE).
	b.putU8((3 << 5) | valueInt)
	b.putU8(0x04)
	b.putU8(0x03)
	b.putU8(0x02)
	b.putU8(0x01)
	r := NewEncodedValueReader(b.buf, off)
	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if v.Kind != KindInt || v.Int != 0x01020304 {
		t.Errorf("got %+v", v)
	}
}

func TestEncodedValueReaderNegativeByte(t *testing.T) {
	b := newDexBuilder()
	off := b.offset()
	b.putU8((0 << 5) | valueByte)
	b.putU8(0xFF) // -1 as a signed byte
	r := NewEncodedValueReader(b.buf, off)
	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if v.Kind != KindByte || v.Int != -1 {
		t.Errorf("got %+v, want Int -1", v)
	}
}

func TestEncodedValueReaderBoolean(t *testing.T) {
	b := newDexBuilder()
	off := b.offset()
	b.putU8((1 << 5) | valueBoolean) // value_arg = 1 -> true
	r := NewEncodedValueReader(b.buf, off)
	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if v.Kind != KindBoolean || !v.Bool {
		t.Errorf("got %+v, want Boolean true", v)
	}
}

func TestEncodedValueReaderFloatRightZeroPadded(t *testing.T) {
	b := newDexBuilder()
	off := b.offset()
	// VALUE_FLOAT with a truncated 2-byte encoding: the two bytes given
	// occupy the high two bytes of the 32-bit float once right-padded.
	b.putU8((1 << 5) | valueFloat) // value_arg = 1 -> size 2
	b.putU8(0x00)
	b.putU8(0x80) // 0x8000 << 16 == 0x80000000 == -0.0f
	r := NewEncodedValueReader(b.buf, off)
	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if v.Kind != KindFloat {
		t.Fatalf("got kind %v", v.Kind)
	}
	if !math.Signbit(float64(v.Float)) || v.Float != 0 {
		t.Errorf("got %v, want negative zero", v.Float)
	}
}

func TestEncodedValueReaderNestedArray(t *testing.T) {
	b := newDexBuilder()
	off := b.offset()
	b.putU8((3 << 5) | valueArray) // tag byte; array size is implicit in encoding
	b.putULEB128(2)                // two elements
	b.putU8((0 << 5) | valueByte)
	b.putU8(0x07)
	b.putU8((0 << 5) | valueBoolean) // value_arg 0 -> false
	r := NewEncodedValueReader(b.buf, off)
	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if v.Kind != KindArray || len(v.Array) != 2 {
		t.Fatalf("got %+v", v)
	}
	if v.Array[0].Kind != KindByte || v.Array[0].Int != 7 {
		t.Errorf("array[0] = %+v", v.Array[0])
	}
	if v.Array[1].Kind != KindBoolean || v.Array[1].Bool {
		t.Errorf("array[1] = %+v", v.Array[1])
	}
}

func TestEncodedValueReaderAnnotation(t *testing.T) {
	b := newDexBuilder()
	off := b.offset()
	b.putU8((0 << 5) | valueAnnotation)
	b.putULEB128(9)  // type_idx
	b.putULEB128(1)  // one element
	b.putULEB128(11) // name_idx
	b.putU8((0 << 5) | valueByte)
	b.putU8(0x2A)
	r := NewEncodedValueReader(b.buf, off)
	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if v.Kind != KindAnnotation {
		t.Fatalf("got kind %v", v.Kind)
	}
	if v.Annotation.TypeIdx != 9 || len(v.Annotation.Elements) != 1 {
		t.Fatalf("got %+v", v.Annotation)
	}
	el := v.Annotation.Elements[0]
	if el.NameIdx != 11 || el.Value.Int != 0x2A {
		t.Errorf("element = %+v", el)
	}
}
