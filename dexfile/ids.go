package dexfile

import (
	"fmt"

	"github.com/thanm/dexview/dexcursor"
)

// StringID is a string_id_item: an offset to a string_data_item.
type StringID struct {
	DataOff uint32
}

// TypeID is a type_id_item.
type TypeID struct {
	DescriptorIdx uint32
}

// ProtoID is a proto_id_item.
type ProtoID struct {
	ShortyIdx     uint32
	ReturnTypeIdx uint32
	ParametersOff uint32
}

// FieldID is a field_id_item.
type FieldID struct {
	ClassIdx uint16
	TypeIdx  uint16
	NameIdx  uint32
}

// MethodID is a method_id_item.
type MethodID struct {
	ClassIdx uint16
	ProtoIdx uint16
	NameIdx  uint32
}

// ClassDef is a class_def_item.
type ClassDef struct {
	ClassIdx        uint32
	AccessFlags     uint32
	SuperclassIdx   uint32
	InterfacesOff   uint32
	SourceFileIdx   uint32
	AnnotationsOff  uint32
	ClassDataOff    uint32
	StaticValuesOff uint32
}

// MethodHandleItem is a method_handle_item.
type MethodHandleItem struct {
	MethodHandleType uint16
	FieldOrMethodID  uint16
}

// CallSiteID is a call_site_id_item: an offset to the encoded_array_item
// describing the bootstrap method's static arguments.
type CallSiteID struct {
	CallSiteOff uint32
}

func indexErr(kind string, i, n uint32) error {
	return fmt.Errorf("%w: %s index %d, table has %d entries", ErrIndexOutOfRange, kind, i, n)
}

// StringIDsLen returns the number of string_id_item entries.
func (v *View) StringIDsLen() uint32 { return v.header.StringIdsSize }

// GetStringID returns the i'th string_id_item.
func (v *View) GetStringID(i uint32) (StringID, error) {
	if i >= v.header.StringIdsSize {
		return StringID{}, indexErr("string_id", i, v.header.StringIdsSize)
	}
	c := dexcursor.New(v.image, v.header.StringIdsOff+i*4)
	off, err := c.U32()
	if err != nil {
		return StringID{}, err
	}
	return StringID{DataOff: off}, nil
}

// TypeIDsLen returns the number of type_id_item entries.
func (v *View) TypeIDsLen() uint32 { return v.header.TypeIdsSize }

// GetTypeID returns the i'th type_id_item.
func (v *View) GetTypeID(i uint32) (TypeID, error) {
	if i >= v.header.TypeIdsSize {
		return TypeID{}, indexErr("type_id", i, v.header.TypeIdsSize)
	}
	c := dexcursor.New(v.image, v.header.TypeIdsOff+i*4)
	idx, err := c.U32()
	if err != nil {
		return TypeID{}, err
	}
	return TypeID{DescriptorIdx: idx}, nil
}

// ProtoIDsLen returns the number of proto_id_item entries.
func (v *View) ProtoIDsLen() uint32 { return v.header.ProtoIdsSize }

// GetProtoID returns the i'th proto_id_item.
func (v *View) GetProtoID(i uint32) (ProtoID, error) {
	if i >= v.header.ProtoIdsSize {
		return ProtoID{}, indexErr("proto_id", i, v.header.ProtoIdsSize)
	}
	c := dexcursor.New(v.image, v.header.ProtoIdsOff+i*12)
	shorty, err := c.U32()
	if err != nil {
		return ProtoID{}, err
	}
	ret, err := c.U32()
	if err != nil {
		return ProtoID{}, err
	}
	params, err := c.U32()
	if err != nil {
		return ProtoID{}, err
	}
	return ProtoID{ShortyIdx: shorty, ReturnTypeIdx: ret, ParametersOff: params}, nil
}

// FieldIDsLen returns the number of field_id_item entries.
func (v *View) FieldIDsLen() uint32 { return v.header.FieldIdsSize }

// GetFieldID returns the i'th field_id_item.
func (v *View) GetFieldID(i uint32) (FieldID, error) {
	if i >= v.header.FieldIdsSize {
		return FieldID{}, indexErr("field_id", i, v.header.FieldIdsSize)
	}
	c := dexcursor.New(v.image, v.header.FieldIdsOff+i*8)
	cls, err := c.U16()
	if err != nil {
		return FieldID{}, err
	}
	typ, err := c.U16()
	if err != nil {
		return FieldID{}, err
	}
	name, err := c.U32()
	if err != nil {
		return FieldID{}, err
	}
	return FieldID{ClassIdx: cls, TypeIdx: typ, NameIdx: name}, nil
}

// MethodIDsLen returns the number of method_id_item entries.
func (v *View) MethodIDsLen() uint32 { return v.header.MethodIdsSize }

// GetMethodID returns the i'th method_id_item.
func (v *View) GetMethodID(i uint32) (MethodID, error) {
	if i >= v.header.MethodIdsSize {
		return MethodID{}, indexErr("method_id", i, v.header.MethodIdsSize)
	}
	c := dexcursor.New(v.image, v.header.MethodIdsOff+i*8)
	cls, err := c.U16()
	if err != nil {
		return MethodID{}, err
	}
	proto, err := c.U16()
	if err != nil {
		return MethodID{}, err
	}
	name, err := c.U32()
	if err != nil {
		return MethodID{}, err
	}
	return MethodID{ClassIdx: cls, ProtoIdx: proto, NameIdx: name}, nil
}

// ClassDefsLen returns the number of class_def_item entries.
func (v *View) ClassDefsLen() uint32 { return v.header.ClassDefsSize }

// GetClassDef returns the i'th class_def_item.
func (v *View) GetClassDef(i uint32) (ClassDef, error) {
	if i >= v.header.ClassDefsSize {
		return ClassDef{}, indexErr("class_def", i, v.header.ClassDefsSize)
	}
	c := dexcursor.New(v.image, v.header.ClassDefsOff+i*32)
	fields := make([]uint32, 8)
	for j := range fields {
		f, err := c.U32()
		if err != nil {
			return ClassDef{}, err
		}
		fields[j] = f
	}
	return ClassDef{
		ClassIdx:        fields[0],
		AccessFlags:     fields[1],
		SuperclassIdx:   fields[2],
		InterfacesOff:   fields[3],
		SourceFileIdx:   fields[4],
		AnnotationsOff:  fields[5],
		ClassDataOff:    fields[6],
		StaticValuesOff: fields[7],
	}, nil
}

// MethodHandlesLen returns the number of method_handle_item entries,
// discovered from the map list (they have no header fields).
func (v *View) MethodHandlesLen() uint32 { return v.methodHandlesLen }

// GetMethodHandle returns the i'th method_handle_item.
func (v *View) GetMethodHandle(i uint32) (MethodHandleItem, error) {
	if i >= v.methodHandlesLen {
		return MethodHandleItem{}, indexErr("method_handle", i, v.methodHandlesLen)
	}
	c := dexcursor.New(v.image, v.methodHandlesOff+i*8)
	typ, err := c.U16()
	if err != nil {
		return MethodHandleItem{}, err
	}
	if _, err := c.U16(); err != nil { // unused
		return MethodHandleItem{}, err
	}
	fieldOrMethod, err := c.U16()
	if err != nil {
		return MethodHandleItem{}, err
	}
	return MethodHandleItem{MethodHandleType: typ, FieldOrMethodID: fieldOrMethod}, nil
}

// CallSiteIdsLen returns the number of call_site_id_item entries,
// discovered from the map list.
func (v *View) CallSiteIdsLen() uint32 { return v.callSiteIdsLen }

// GetCallSiteID returns the i'th call_site_id_item.
func (v *View) GetCallSiteID(i uint32) (CallSiteID, error) {
	if i >= v.callSiteIdsLen {
		return CallSiteID{}, indexErr("call_site_id", i, v.callSiteIdsLen)
	}
	c := dexcursor.New(v.image, v.callSiteIdsOff+i*4)
	off, err := c.U32()
	if err != nil {
		return CallSiteID{}, err
	}
	return CallSiteID{CallSiteOff: off}, nil
}

// TypeListAt returns the u16 type indices of a type_list at off. A
// zero offset denotes an absent (empty) list, matching how proto_id's
// parameters_off and class_def's interfaces_off both use 0 for "none".
func (v *View) TypeListAt(off uint32) ([]uint16, error) {
	if off == 0 {
		return nil, nil
	}
	c := dexcursor.New(v.image, off)
	size, err := c.U32()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, size)
	for i := range out {
		t, err := c.U16()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
