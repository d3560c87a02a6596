package dexcursor

import "testing"

func TestScalarReads(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	c := New(data, 0)

	if v, err := c.U8(); err != nil || v != 0x01 {
		t.Fatalf("U8: got (%v, %v)", v, err)
	}
	if v, err := c.U16(); err != nil || v != 0x0302 {
		t.Fatalf("U16: got (%#x, %v)", v, err)
	}
	c.Seek(0)
	if v, err := c.U32(); err != nil || v != 0x04030201 {
		t.Fatalf("U32: got (%#x, %v)", v, err)
	}
	c.Seek(0)
	if v, err := c.U64(); err != nil || v != 0x0807060504030201 {
		t.Fatalf("U64: got (%#x, %v)", v, err)
	}
}

func TestScalarOutOfBounds(t *testing.T) {
	c := New([]byte{0x01}, 0)
	if _, err := c.U32(); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestULEB128(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 0x7f},
		{[]byte{0x80, 0x01}, 0x80},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
	}
	for _, tc := range cases {
		c := New(tc.bytes, 0)
		v, err := c.ULEB128()
		if err != nil {
			t.Fatalf("ULEB128(%v): %v", tc.bytes, err)
		}
		if v != tc.want {
			t.Errorf("ULEB128(%v) = %d, want %d", tc.bytes, v, tc.want)
		}
	}
}

func TestULEB128Overflow(t *testing.T) {
	c := New([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 0)
	if _, err := c.ULEB128(); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestULEB128p1(t *testing.T) {
	c := New([]byte{0x00}, 0)
	v, err := c.ULEB128p1()
	if err != nil || v != -1 {
		t.Fatalf("ULEB128p1(0x00) = (%d, %v), want (-1, nil)", v, err)
	}
}

func TestSLEB128(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0x40}, -64},
		{[]byte{0xff, 0x00}, 127},
		{[]byte{0x81, 0x7f}, -127},
	}
	for _, tc := range cases {
		c := New(tc.bytes, 0)
		v, err := c.SLEB128()
		if err != nil {
			t.Fatalf("SLEB128(%v): %v", tc.bytes, err)
		}
		if v != tc.want {
			t.Errorf("SLEB128(%v) = %d, want %d", tc.bytes, v, tc.want)
		}
	}
}

func TestSliceBounds(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	if s, err := Slice(data, 1, 3); err != nil || len(s) != 3 || s[0] != 2 {
		t.Fatalf("Slice: got (%v, %v)", s, err)
	}
	if _, err := Slice(data, 3, 10); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}
