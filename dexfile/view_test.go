package dexfile

import "testing"

func buildDexWithStrings(t *testing.T, strs []string) (*View, []uint32) {
	t.Helper()
	b := newDexBuilder()
	offs := make([]uint32, len(strs))
	for i, s := range strs {
		offs[i] = b.putStringData(s)
	}
	stringIdsOff := b.offset()
	for _, off := range offs {
		b.putU32(off)
	}
	typeIdsOff := b.offset()
	mapOff := b.putMapList([]MapItem{
		{Type: TypeHeaderItem, Size: 1, Offset: 0},
		{Type: TypeStringIdItem, Size: uint32(len(strs)), Offset: stringIdsOff},
		{Type: TypeTypeIdItem, Size: 0, Offset: typeIdsOff},
		{Type: TypeMapList, Size: 1, Offset: 0},
	})
	data := b.finish("038", dexLayout{
		stringIdsOff: stringIdsOff, stringIdsCount: uint32(len(strs)),
		typeIdsOff: typeIdsOff, typeIdsCount: 0,
		mapOff: mapOff,
	})
	v, err := OpenBytes(data, VerifyAll)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return v, offs
}

func TestGetUTF16Str(t *testing.T) {
	v, _ := buildDexWithStrings(t, []string{"Hello", "World"})
	if v.StringIDsLen() != 2 {
		t.Fatalf("StringIDsLen() = %d, want 2", v.StringIDsLen())
	}
	s, err := v.GetUTF16Str(0)
	if err != nil || s != "Hello" {
		t.Errorf("GetUTF16Str(0) = (%q, %v), want (Hello, nil)", s, err)
	}
	s, err = v.GetUTF16Str(1)
	if err != nil || s != "World" {
		t.Errorf("GetUTF16Str(1) = (%q, %v), want (World, nil)", s, err)
	}
}

func TestGetStringDataBorrowsBody(t *testing.T) {
	v, _ := buildDexWithStrings(t, []string{"abc"})
	data, err := v.GetStringData(0)
	if err != nil {
		t.Fatalf("GetStringData: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("GetStringData(0) = %q, want abc", data)
	}
}

func TestGetStringIDIndexOutOfRange(t *testing.T) {
	v, _ := buildDexWithStrings(t, []string{"abc"})
	if _, err := v.GetStringID(5); err == nil {
		t.Fatal("expected an error for out-of-range string index")
	}
}

func TestPrettyDescriptor(t *testing.T) {
	cases := []struct{ in, want string }{
		{"I", "int"},
		{"V", "void"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[I", "int[]"},
		{"[[Ljava/lang/Object;", "java.lang.Object[][]"},
		{"", ""},
	}
	for _, c := range cases {
		if got := PrettyDescriptor(c.in); got != c.want {
			t.Errorf("PrettyDescriptor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHiddenapiClassDataAbsent(t *testing.T) {
	data := buildMinimalDex(t, "038")
	v, err := OpenBytes(data, VerifyNone)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if _, ok := v.HiddenapiClassData(); ok {
		t.Error("expected no hiddenapi class data")
	}
}

func TestHiddenapiClassDataPresent(t *testing.T) {
	b := newDexBuilder()
	stringIdsOff := b.offset()
	typeIdsOff := b.offset()
	hiddenOff := b.offset()
	b.putBytes([]byte{0xAA, 0xBB, 0xCC})
	mapOff := b.putMapList([]MapItem{
		{Type: TypeHeaderItem, Size: 1, Offset: 0},
		{Type: TypeStringIdItem, Size: 0, Offset: stringIdsOff},
		{Type: TypeTypeIdItem, Size: 0, Offset: typeIdsOff},
		{Type: TypeHiddenapiClassDataItem, Size: 3, Offset: hiddenOff},
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
	got, ok := v.HiddenapiClassData()
	if !ok {
		t.Fatal("expected hiddenapi class data present")
	}
	if len(got) != 3 || got[0] != 0xAA {
		t.Errorf("HiddenapiClassData() = %x", got)
	}
}
