// Package dexcursor implements the primitive, bounds-checked reads that
// every higher DEX layer builds on: fixed-width little-endian scalars,
// the three LEB128 variable-length integer flavors used by the DEX
// format, and DEX's Modified UTF-8 string encoding.
//
// Every operation here is a pure function of a borrowed byte slice and
// a position; nothing is copied except the values returned to the
// caller, and no operation panics on truncated or adversarial input.
package dexcursor

// Cursor reads sequentially through a borrowed byte image. It never
// copies the image and never outlives it — callers are responsible for
// keeping the backing slice alive for as long as the Cursor is used.
type Cursor struct {
	data []byte
	pos  uint32
}

// New returns a Cursor over data starting at byte offset off.
func New(data []byte, off uint32) *Cursor {
	return &Cursor{data: data, pos: off}
}

// Pos returns the cursor's current byte offset.
func (c *Cursor) Pos() uint32 { return c.pos }

// Seek repositions the cursor without validating the new offset; the
// next read reports ErrOutOfBounds if the offset was bad.
func (c *Cursor) Seek(off uint32) { c.pos = off }

func (c *Cursor) require(n uint32) error {
	if uint64(c.pos)+uint64(n) > uint64(len(c.data)) {
		return ErrOutOfBounds
	}
	return nil
}

// U8 reads one byte and advances the cursor.
func (c *Cursor) U8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

// U16 reads a little-endian 16-bit value and advances the cursor.
func (c *Cursor) U16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := uint16(c.data[c.pos]) | uint16(c.data[c.pos+1])<<8
	c.pos += 2
	return v, nil
}

// U32 reads a little-endian 32-bit value and advances the cursor.
func (c *Cursor) U32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := uint32(c.data[c.pos]) | uint32(c.data[c.pos+1])<<8 |
		uint32(c.data[c.pos+2])<<16 | uint32(c.data[c.pos+3])<<24
	c.pos += 4
	return v, nil
}

// U64 reads a little-endian 64-bit value and advances the cursor.
func (c *Cursor) U64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	lo := uint64FromLE(c.data[c.pos : c.pos+4])
	hi := uint64FromLE(c.data[c.pos+4 : c.pos+8])
	v := lo | hi<<32
	c.pos += 8
	return v, nil
}

func uint64FromLE(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
}

// Bytes borrows n bytes at the cursor without copying and advances past
// them. The returned slice aliases the underlying image.
func (c *Cursor) Bytes(n uint32) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	s := c.data[c.pos : c.pos+n]
	c.pos += n
	return s, nil
}

// Slice borrows the half-open range [off, off+length) without copying
// and without touching the cursor's own position.
func Slice(data []byte, off, length uint32) ([]byte, error) {
	if uint64(off)+uint64(length) > uint64(len(data)) {
		return nil, ErrOutOfBounds
	}
	return data[off : off+length], nil
}

// maxLEB128Bytes is the longest encoding this decoder accepts: five
// 7-bit groups cover a full 32-bit value, matching the DEX spec's
// producers, which never emit longer ULEB128/SLEB128 sequences for the
// 32-bit quantities the format uses them for.
const maxLEB128Bytes = 5

// ULEB128 decodes an unsigned LEB128 value and advances the cursor.
func (c *Cursor) ULEB128() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < maxLEB128Bytes; i++ {
		b, err := c.U8()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrOverflow
}

// ULEB128p1 decodes a ULEB128p1 value: ULEB128(x+1)-1, which lets -1 be
// represented as the single byte 0x00. The result is returned as an
// int64 so -1 is representable without wrapping.
func (c *Cursor) ULEB128p1() (int64, error) {
	v, err := c.ULEB128()
	if err != nil {
		return 0, err
	}
	return int64(v) - 1, nil
}

// SLEB128 decodes a signed LEB128 value and advances the cursor.
func (c *Cursor) SLEB128() (int32, error) {
	var result int32
	var shift uint
	var b uint8
	var err error
	for i := 0; i < maxLEB128Bytes; i++ {
		b, err = c.U8()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, nil
		}
	}
	return 0, ErrOverflow
}
