package dexfile

import "testing"

func buildAnnotationItem(b *dexBuilder, visibility AnnotationVisibility, typeIdx uint32, nameIdx uint32, val int8) uint32 {
	off := b.offset()
	b.putU8(uint8(visibility))
	b.putULEB128(typeIdx)
	b.putULEB128(1) // one element
	b.putULEB128(nameIdx)
	b.putU8((0 << 5) | valueByte)
	b.putU8(byte(val))
	return off
}

func TestAnnotationSetAndDirectory(t *testing.T) {
	b := newDexBuilder()
	itemOff := buildAnnotationItem(b, VisibilityRuntime, 3, 4, 0x2A)
	setOff := b.offset()
	b.putU32(1) // size
	b.putU32(itemOff)

	classItemOff := buildAnnotationItem(b, VisibilityRuntime, 5, 6, 0x11)
	classSetOff := b.offset()
	b.putU32(1)
	b.putU32(classItemOff)

	dirOff := b.offset()
	b.putU32(classSetOff) // class_annotations_off
	b.putU32(1)           // fields_size
	b.putU32(1)           // methods_size
	b.putU32(0)           // parameters_size
	b.putU32(42) // field_annotations[0].field_idx
	b.putU32(setOff)
	b.putU32(7) // method_annotations[0].method_idx
	b.putU32(setOff)

	v := &View{image: b.buf}

	set, err := v.AnnotationSet(setOff)
	if err != nil {
		t.Fatalf("AnnotationSet: %v", err)
	}
	if len(set.Items) != 1 || set.Items[0].Visibility != VisibilityRuntime {
		t.Fatalf("got %+v", set.Items)
	}
	if set.Items[0].Annotation.TypeIdx != 3 {
		t.Errorf("TypeIdx = %d, want 3", set.Items[0].Annotation.TypeIdx)
	}

	dir, err := v.AnnotationsDirectory(dirOff)
	if err != nil {
		t.Fatalf("AnnotationsDirectory: %v", err)
	}
	if len(dir.FieldAnnotations) != 1 || dir.FieldAnnotations[0].FieldIdx != 42 {
		t.Fatalf("field annotations = %+v", dir.FieldAnnotations)
	}
	if len(dir.MethodAnnotations) != 1 || dir.MethodAnnotations[0].MethodIdx != 7 {
		t.Fatalf("method annotations = %+v", dir.MethodAnnotations)
	}

	acc, err := v.ClassAnnotationsAccessor(ClassDef{AnnotationsOff: dirOff})
	if err != nil {
		t.Fatalf("ClassAnnotationsAccessor: %v", err)
	}
	classSet, err := acc.ClassAnnotations()
	if err != nil {
		t.Fatalf("ClassAnnotations: %v", err)
	}
	if classSet.Items[0].Annotation.TypeIdx != 5 {
		t.Errorf("class annotation TypeIdx = %d, want 5", classSet.Items[0].Annotation.TypeIdx)
	}

	fieldSet, err := acc.FieldAnnotations(42)
	if err != nil || fieldSet == nil {
		t.Fatalf("FieldAnnotations(42) = (%v, %v)", fieldSet, err)
	}
	if _, err := acc.FieldAnnotations(999); err != nil {
		t.Errorf("FieldAnnotations(999): %v", err)
	}
}

func TestClassAnnotationsAccessorAbsent(t *testing.T) {
	v := &View{image: make([]byte, 4)}
	acc, err := v.ClassAnnotationsAccessor(ClassDef{AnnotationsOff: 0})
	if acc != nil || err != nil {
		t.Fatalf("ClassAnnotationsAccessor(0) = (%v, %v), want (nil, nil)", acc, err)
	}
}
