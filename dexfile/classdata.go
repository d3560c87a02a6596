package dexfile

import (
	"fmt"

	"github.com/thanm/dexview/dexcursor"
)

// FieldRecord is one decoded (field_idx, access_flags) pair from a
// class_data_item's static or instance field list.
type FieldRecord struct {
	FieldIdx    uint32
	AccessFlags uint32
}

// MethodRecord is one decoded (method_idx, access_flags, code_off)
// triple from a class_data_item's direct or virtual method list.
type MethodRecord struct {
	MethodIdx   uint32
	AccessFlags uint32
	CodeOff     uint32
}

// FieldIter walks one delta-encoded field list of a class_data_item.
// Field and method walks are kept as separate, non-generic iterators
// rather than one generic delta-decoder: the two record shapes
// (field's two ULEB128 values vs. method's three) don't share enough
// to be worth the abstraction.
type FieldIter struct {
	data     []byte
	pos      uint32
	remain   uint32
	lastIdx  uint32
	haveLast bool
	err      error
}

// Next decodes the next field record. ok is false once the group is
// exhausted (with err == nil) or once a decoding error has occurred
// (with err != nil); once err is non-nil every subsequent call returns
// the same error.
func (it *FieldIter) Next() (rec FieldRecord, ok bool, err error) {
	if it.err != nil {
		return FieldRecord{}, false, it.err
	}
	if it.remain == 0 {
		return FieldRecord{}, false, nil
	}
	c := dexcursor.New(it.data, it.pos)
	delta, err := c.ULEB128()
	if err != nil {
		it.err = err
		return FieldRecord{}, false, err
	}
	access, err := c.ULEB128()
	if err != nil {
		it.err = err
		return FieldRecord{}, false, err
	}
	it.pos = c.Pos()
	it.remain--

	idx := delta
	if it.haveLast {
		idx = it.lastIdx + delta
		if idx <= it.lastIdx {
			it.err = fmt.Errorf("%w: field_idx %d does not exceed prior %d", ErrMalformedClassData, idx, it.lastIdx)
			return FieldRecord{}, false, it.err
		}
	}
	it.lastIdx = idx
	it.haveLast = true
	return FieldRecord{FieldIdx: idx, AccessFlags: access}, true, nil
}

// MethodIter walks one delta-encoded method list of a class_data_item.
type MethodIter struct {
	data     []byte
	pos      uint32
	remain   uint32
	lastIdx  uint32
	haveLast bool
	err      error
}

// Next decodes the next method record, with the same ok/err contract
// as FieldIter.Next.
func (it *MethodIter) Next() (rec MethodRecord, ok bool, err error) {
	if it.err != nil {
		return MethodRecord{}, false, it.err
	}
	if it.remain == 0 {
		return MethodRecord{}, false, nil
	}
	c := dexcursor.New(it.data, it.pos)
	delta, err := c.ULEB128()
	if err != nil {
		it.err = err
		return MethodRecord{}, false, err
	}
	access, err := c.ULEB128()
	if err != nil {
		it.err = err
		return MethodRecord{}, false, err
	}
	codeOff, err := c.ULEB128()
	if err != nil {
		it.err = err
		return MethodRecord{}, false, err
	}
	it.pos = c.Pos()
	it.remain--

	idx := delta
	if it.haveLast {
		idx = it.lastIdx + delta
		if idx <= it.lastIdx {
			it.err = fmt.Errorf("%w: method_idx %d does not exceed prior %d", ErrMalformedClassData, idx, it.lastIdx)
			return MethodRecord{}, false, it.err
		}
	}
	it.lastIdx = idx
	it.haveLast = true
	return MethodRecord{MethodIdx: idx, AccessFlags: access, CodeOff: codeOff}, true, nil
}

// ClassDataAccessor decodes the four ULEB128 counts of a
// class_data_item at open time and exposes four independent, on-demand
// sequences over the field and method lists that follow.
type ClassDataAccessor struct {
	image []byte

	NumStaticFields   uint32
	NumInstanceFields uint32
	NumDirectMethods  uint32
	NumVirtualMethods uint32

	staticFieldsOff   uint32
	instanceFieldsOff uint32
	directMethodsOff  uint32
	virtualMethodsOff uint32
}

// NewClassDataAccessor decodes the class_data_item at off. Because the
// four field/method lists are themselves variable-length (each entry
// is ULEB128-encoded), locating where the instance-field, direct-
// method, and virtual-method lists begin requires walking past the
// preceding lists once; that one-time walk is done here so that each
// of the four returned iterators can start from a known offset
// independently, without forcing callers to consume them in order.
func NewClassDataAccessor(image []byte, off uint32) (*ClassDataAccessor, error) {
	if off >= uint32(len(image)) {
		return nil, fmt.Errorf("%w: class_data_off %d", ErrOutOfBounds, off)
	}
	c := dexcursor.New(image, off)
	numStatic, err := c.ULEB128()
	if err != nil {
		return nil, err
	}
	numInstance, err := c.ULEB128()
	if err != nil {
		return nil, err
	}
	numDirect, err := c.ULEB128()
	if err != nil {
		return nil, err
	}
	numVirtual, err := c.ULEB128()
	if err != nil {
		return nil, err
	}

	a := &ClassDataAccessor{
		image:             image,
		NumStaticFields:   numStatic,
		NumInstanceFields: numInstance,
		NumDirectMethods:  numDirect,
		NumVirtualMethods: numVirtual,
		staticFieldsOff:   c.Pos(),
	}

	pos := c.Pos()
	if pos, err = skipFields(image, pos, numStatic); err != nil {
		return nil, err
	}
	a.instanceFieldsOff = pos
	if pos, err = skipFields(image, pos, numInstance); err != nil {
		return nil, err
	}
	a.directMethodsOff = pos
	if pos, err = skipMethods(image, pos, numDirect); err != nil {
		return nil, err
	}
	a.virtualMethodsOff = pos

	return a, nil
}

func skipFields(image []byte, pos, count uint32) (uint32, error) {
	c := dexcursor.New(image, pos)
	for i := uint32(0); i < count; i++ {
		if _, err := c.ULEB128(); err != nil { // field_idx_diff
			return 0, err
		}
		if _, err := c.ULEB128(); err != nil { // access_flags
			return 0, err
		}
	}
	return c.Pos(), nil
}

func skipMethods(image []byte, pos, count uint32) (uint32, error) {
	c := dexcursor.New(image, pos)
	for i := uint32(0); i < count; i++ {
		if _, err := c.ULEB128(); err != nil { // method_idx_diff
			return 0, err
		}
		if _, err := c.ULEB128(); err != nil { // access_flags
			return 0, err
		}
		if _, err := c.ULEB128(); err != nil { // code_off
			return 0, err
		}
	}
	return c.Pos(), nil
}

// StaticFields returns an iterator over the static field list.
func (a *ClassDataAccessor) StaticFields() *FieldIter {
	return &FieldIter{data: a.image, pos: a.staticFieldsOff, remain: a.NumStaticFields}
}

// InstanceFields returns an iterator over the instance field list.
func (a *ClassDataAccessor) InstanceFields() *FieldIter {
	return &FieldIter{data: a.image, pos: a.instanceFieldsOff, remain: a.NumInstanceFields}
}

// DirectMethods returns an iterator over the direct method list.
func (a *ClassDataAccessor) DirectMethods() *MethodIter {
	return &MethodIter{data: a.image, pos: a.directMethodsOff, remain: a.NumDirectMethods}
}

// VirtualMethods returns an iterator over the virtual method list.
func (a *ClassDataAccessor) VirtualMethods() *MethodIter {
	return &MethodIter{data: a.image, pos: a.virtualMethodsOff, remain: a.NumVirtualMethods}
}

// ClassDataAccessor returns the accessor for cd's class_data_item, or
// nil if the class has no class data (class_data_off == 0).
func (v *View) ClassDataAccessor(cd ClassDef) (*ClassDataAccessor, error) {
	if cd.ClassDataOff == 0 {
		return nil, nil
	}
	return NewClassDataAccessor(v.image, cd.ClassDataOff)
}
