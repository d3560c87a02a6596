package dexfile

import (
	"fmt"
	"math"

	"github.com/thanm/dexview/dexcursor"
)

// Encoded value type tags, the low 5 bits of an encoded_value's tag
// byte.
const (
	valueByte         = 0x00
	valueShort        = 0x02
	valueChar         = 0x03
	valueInt          = 0x04
	valueLong         = 0x06
	valueFloat        = 0x10
	valueDouble       = 0x11
	valueMethodType   = 0x15
	valueMethodHandle = 0x16
	valueString       = 0x17
	valueType         = 0x18
	valueField        = 0x19
	valueMethod       = 0x1a
	valueEnum         = 0x1b
	valueArray        = 0x1c
	valueAnnotation   = 0x1d
	valueNull         = 0x1e
	valueBoolean      = 0x1f
)

// EncodedValueKind identifies which variant of an EncodedValue is
// populated.
type EncodedValueKind uint8

const (
	KindByte EncodedValueKind = iota
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindMethodType
	KindMethodHandle
	KindString
	KindType
	KindField
	KindMethod
	KindEnum
	KindArray
	KindAnnotation
	KindNull
	KindBoolean
)

// EncodedValue is one decoded node of the encoded_value tree. Only the
// field(s) matching Kind are meaningful.
type EncodedValue struct {
	Kind EncodedValueKind

	Int   int64  // Byte, Short, Int, Long (sign-extended)
	Uint  uint32 // Char, MethodType, MethodHandle, String, Type, Field, Method, Enum (zero-extended index/codepoint)
	Float float32
	Double float64
	Bool  bool // Boolean

	Array      []EncodedValue    // Array
	Annotation EncodedAnnotation // Annotation
}

// EncodedAnnotation is a decoded encoded_annotation: a type plus an
// ordered list of name/value elements.
type EncodedAnnotation struct {
	TypeIdx  uint32
	Elements []AnnotationElement
}

// AnnotationElement is one (name, value) pair of an EncodedAnnotation.
type AnnotationElement struct {
	NameIdx uint32
	Value   EncodedValue
}

// EncodedValueReader decodes the tagged encoded_value tree: the high 3
// bits of the leading tag byte give value_arg (size-1 for
// integer/float kinds, the boolean itself for VALUE_BOOLEAN), the low
// 5 select the type.
type EncodedValueReader struct {
	c *dexcursor.Cursor
}

// NewEncodedValueReader returns a reader positioned at off.
func NewEncodedValueReader(image []byte, off uint32) *EncodedValueReader {
	return &EncodedValueReader{c: dexcursor.New(image, off)}
}

// Pos returns the reader's current byte offset.
func (r *EncodedValueReader) Pos() uint32 { return r.c.Pos() }

// ReadValue decodes one encoded_value node, recursing for Array and
// Annotation.
func (r *EncodedValueReader) ReadValue() (EncodedValue, error) {
	tag, err := r.c.U8()
	if err != nil {
		return EncodedValue{}, err
	}
	typ := tag & 0x1f
	valueArg := (tag >> 5) & 0x7
	size := uint32(valueArg) + 1

	switch typ {
	case valueByte:
		v, err := r.readSignedInt(1)
		return EncodedValue{Kind: KindByte, Int: v}, err
	case valueShort:
		v, err := r.readSignedInt(size)
		return EncodedValue{Kind: KindShort, Int: v}, err
	case valueChar:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindChar, Uint: uint32(v)}, err
	case valueInt:
		v, err := r.readSignedInt(size)
		return EncodedValue{Kind: KindInt, Int: v}, err
	case valueLong:
		v, err := r.readSignedInt(size)
		return EncodedValue{Kind: KindLong, Int: v}, err
	case valueFloat:
		v, err := r.readUnsignedInt(size)
		if err != nil {
			return EncodedValue{}, err
		}
		bits := uint32(v) << ((4 - size) * 8)
		return EncodedValue{Kind: KindFloat, Float: math.Float32frombits(bits)}, nil
	case valueDouble:
		v, err := r.readUnsignedInt(size)
		if err != nil {
			return EncodedValue{}, err
		}
		bits := v << ((8 - size) * 8)
		return EncodedValue{Kind: KindDouble, Double: math.Float64frombits(bits)}, nil
	case valueMethodType:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindMethodType, Uint: uint32(v)}, err
	case valueMethodHandle:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindMethodHandle, Uint: uint32(v)}, err
	case valueString:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindString, Uint: uint32(v)}, err
	case valueType:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindType, Uint: uint32(v)}, err
	case valueField:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindField, Uint: uint32(v)}, err
	case valueMethod:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindMethod, Uint: uint32(v)}, err
	case valueEnum:
		v, err := r.readUnsignedInt(size)
		return EncodedValue{Kind: KindEnum, Uint: uint32(v)}, err
	case valueArray:
		elems, err := r.readArray()
		return EncodedValue{Kind: KindArray, Array: elems}, err
	case valueAnnotation:
		ann, err := r.readAnnotation()
		return EncodedValue{Kind: KindAnnotation, Annotation: ann}, err
	case valueNull:
		return EncodedValue{Kind: KindNull}, nil
	case valueBoolean:
		return EncodedValue{Kind: KindBoolean, Bool: valueArg != 0}, nil
	default:
		return EncodedValue{}, fmt.Errorf("%w: value_type %#x", ErrMalformedEncodedVal, typ)
	}
}

// readSignedInt reads n little-endian bytes and sign-extends from the
// high bit of the last byte read, the way Byte/Short/Int/Long do.
func (r *EncodedValueReader) readSignedInt(n uint32) (int64, error) {
	b, err := r.c.Bytes(n)
	if err != nil {
		return 0, err
	}
	var v int64
	for i := uint32(0); i < n; i++ {
		v |= int64(b[i]) << (8 * i)
	}
	if n < 8 && b[n-1]&0x80 != 0 {
		v |= -1 << (8 * n)
	}
	return v, nil
}

// readUnsignedInt reads n little-endian bytes zero-extended to 64
// bits, the way Char/MethodType/String/Type/Field/Method/Enum do.
func (r *EncodedValueReader) readUnsignedInt(n uint32) (uint64, error) {
	b, err := r.c.Bytes(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := uint32(0); i < n; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, nil
}

func (r *EncodedValueReader) readArray() ([]EncodedValue, error) {
	size, err := r.c.ULEB128()
	if err != nil {
		return nil, err
	}
	out := make([]EncodedValue, size)
	for i := range out {
		v, err := r.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("%w: array[%d]: %v", ErrMalformedEncodedVal, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (r *EncodedValueReader) readAnnotation() (EncodedAnnotation, error) {
	typeIdx, err := r.c.ULEB128()
	if err != nil {
		return EncodedAnnotation{}, err
	}
	size, err := r.c.ULEB128()
	if err != nil {
		return EncodedAnnotation{}, err
	}
	elems := make([]AnnotationElement, size)
	for i := range elems {
		nameIdx, err := r.c.ULEB128()
		if err != nil {
			return EncodedAnnotation{}, err
		}
		val, err := r.ReadValue()
		if err != nil {
			return EncodedAnnotation{}, fmt.Errorf("%w: element[%d]: %v", ErrMalformedEncodedVal, i, err)
		}
		elems[i] = AnnotationElement{NameIdx: nameIdx, Value: val}
	}
	return EncodedAnnotation{TypeIdx: typeIdx, Elements: elems}, nil
}

// EncodedArray reads an encoded_array_item at off: a ULEB128 size
// followed by that many encoded_value nodes.
func (v *View) EncodedArray(off uint32) ([]EncodedValue, error) {
	r := NewEncodedValueReader(v.image, off)
	return r.readArray()
}
