package dexfile

import (
	"fmt"

	"github.com/thanm/dexview/dexcursor"
	"github.com/thanm/dexview/dexinstr"
)

// TryItem is one try_item record: a covered range of code-unit
// addresses and the offset of its associated encoded_catch_handler.
type TryItem struct {
	StartAddr  uint32
	InsnCount  uint16
	HandlerOff uint16
}

// CatchHandlerAddr is one (type_idx, addr) pair inside an
// encoded_catch_handler.
type CatchHandlerAddr struct {
	TypeIdx uint32
	Addr    uint32
}

// CatchHandler is a decoded encoded_catch_handler: zero or more typed
// handlers plus, when size <= 0, a catch-all address.
type CatchHandler struct {
	Handlers    []CatchHandlerAddr
	CatchAllPC  uint32
	HasCatchAll bool
}

// CodeItemAccessor exposes a code_item's fixed header fields plus
// lazy, on-demand access to its instruction stream and its try/catch
// tables.
type CodeItemAccessor struct {
	image []byte

	RegistersSize uint16
	InsSize       uint16
	OutsSize      uint16
	TriesSize     uint16
	DebugInfoOff  uint32
	InsnsSize     uint32

	insns    []uint16
	postInsn uint32 // byte offset immediately after insns + any padding
}

// CodeItemAccessor decodes the code_item at codeOff, or returns
// nil, nil if codeOff == 0 (methods with no code, e.g. abstract or
// native).
func (v *View) CodeItemAccessor(codeOff uint32) (*CodeItemAccessor, error) {
	if codeOff == 0 {
		return nil, nil
	}
	if codeOff >= uint32(len(v.image)) {
		return nil, fmt.Errorf("%w: code_off %d", ErrOutOfBounds, codeOff)
	}
	c := dexcursor.New(v.image, codeOff)

	regs, err := c.U16()
	if err != nil {
		return nil, err
	}
	ins, err := c.U16()
	if err != nil {
		return nil, err
	}
	outs, err := c.U16()
	if err != nil {
		return nil, err
	}
	tries, err := c.U16()
	if err != nil {
		return nil, err
	}
	debugOff, err := c.U32()
	if err != nil {
		return nil, err
	}
	insnsSize, err := c.U32()
	if err != nil {
		return nil, err
	}
	if uint64(c.Pos())+uint64(insnsSize)*2 > uint64(len(v.image)) {
		return nil, fmt.Errorf("%w: insns_size %d exceeds image", ErrMalformedCodeItem, insnsSize)
	}

	insns := make([]uint16, insnsSize)
	for i := range insns {
		u, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("%w: insns[%d]: %v", ErrMalformedCodeItem, i, err)
		}
		insns[i] = u
	}

	pos := c.Pos()
	// A tries_size > 0 code_item is 4-byte aligned before its
	// try_item table; a two-byte padding unit follows an odd-length
	// insns array to get there.
	if tries > 0 && insnsSize%2 == 1 {
		if _, err := dexcursor.New(v.image, pos).U16(); err != nil {
			return nil, fmt.Errorf("%w: padding: %v", ErrMalformedCodeItem, err)
		}
		pos += 2
	}

	return &CodeItemAccessor{
		image:         v.image,
		RegistersSize: regs,
		InsSize:       ins,
		OutsSize:      outs,
		TriesSize:     tries,
		DebugInfoOff:  debugOff,
		InsnsSize:     insnsSize,
		insns:         insns,
		postInsn:      pos,
	}, nil
}

// InsnsSizeInCodeUnits returns insns_size.
func (a *CodeItemAccessor) InsnsSizeInCodeUnits() uint32 { return a.InsnsSize }

// InsnsSizeInBytes returns 2 * insns_size.
func (a *CodeItemAccessor) InsnsSizeInBytes() uint32 { return a.InsnsSize * 2 }

// InsnsRaw returns the borrowed code-unit stream.
func (a *CodeItemAccessor) InsnsRaw() []uint16 { return a.insns }

// HasCode reports whether this code_item carries any instructions.
func (a *CodeItemAccessor) HasCode() bool { return len(a.insns) > 0 }

// InstAt decodes the single instruction whose first code unit lies at
// code-unit offset pc, bounds-checked against the insns stream.
func (a *CodeItemAccessor) InstAt(pc uint32) (dexinstr.Instruction, error) {
	if pc >= uint32(len(a.insns)) {
		return dexinstr.Instruction{}, ErrOutOfBounds
	}
	insn, err := dexinstr.Decode(a.insns, pc)
	if err != nil {
		return dexinstr.Instruction{}, mapInstrErr(err)
	}
	return insn, nil
}

// InsnIter walks the code_item's instruction stream in order.
type InsnIter struct {
	insns []uint16
	pc    uint32
	err   error
}

// Insns returns a lazy sequence of decoded instructions that
// terminates when the cursor reaches insns_size.
func (a *CodeItemAccessor) Insns() *InsnIter {
	return &InsnIter{insns: a.insns}
}

// Next decodes the instruction at the iterator's current position and
// advances past it.
func (it *InsnIter) Next() (dexinstr.Instruction, bool, error) {
	if it.err != nil {
		return dexinstr.Instruction{}, false, it.err
	}
	if it.pc >= uint32(len(it.insns)) {
		return dexinstr.Instruction{}, false, nil
	}
	insn, err := dexinstr.Decode(it.insns, it.pc)
	if err != nil {
		it.err = mapInstrErr(err)
		return dexinstr.Instruction{}, false, it.err
	}
	it.pc += insn.SizeInCodeUnits()
	return insn, true, nil
}

func mapInstrErr(err error) error {
	switch err {
	case dexinstr.ErrOutOfBounds:
		return ErrOutOfBounds
	case dexinstr.ErrBadOpcode:
		return ErrBadOpcode
	case dexinstr.ErrMalformedPayload:
		return fmt.Errorf("%w: payload", ErrMalformedCodeItem)
	default:
		return err
	}
}

// TryItems returns the code_item's try_item table, parsed on demand
// from the bytes following the (possibly padded) insns array.
func (a *CodeItemAccessor) TryItems() ([]TryItem, error) {
	if a.TriesSize == 0 {
		return nil, nil
	}
	c := dexcursor.New(a.image, a.postInsn)
	out := make([]TryItem, a.TriesSize)
	for i := range out {
		start, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: try_item[%d].start_addr: %v", ErrMalformedCodeItem, i, err)
		}
		count, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("%w: try_item[%d].insn_count: %v", ErrMalformedCodeItem, i, err)
		}
		handlerOff, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("%w: try_item[%d].handler_off: %v", ErrMalformedCodeItem, i, err)
		}
		out[i] = TryItem{StartAddr: start, InsnCount: count, HandlerOff: handlerOff}
	}
	return out, nil
}

// CatchHandlers returns the encoded_catch_handler_list following the
// try_item table: the size-prefixed list of handler records that
// TryItem.HandlerOff indexes into, relative to the list's own start.
func (a *CodeItemAccessor) CatchHandlers() (map[uint16]CatchHandler, error) {
	if a.TriesSize == 0 {
		return nil, nil
	}
	tries, err := a.TryItems()
	if err != nil {
		return nil, err
	}
	c := dexcursor.New(a.image, a.postInsn)
	for range tries { // skip the try_item table itself
		if _, err := c.U32(); err != nil {
			return nil, err
		}
		if _, err := c.U16(); err != nil {
			return nil, err
		}
		if _, err := c.U16(); err != nil {
			return nil, err
		}
	}
	listStart := c.Pos()

	handlersSize, err := c.ULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: encoded_catch_handler_list.size: %v", ErrMalformedCodeItem, err)
	}

	out := make(map[uint16]CatchHandler, handlersSize)
	for i := uint32(0); i < handlersSize; i++ {
		off := c.Pos() - listStart
		size, err := c.SLEB128()
		if err != nil {
			return nil, fmt.Errorf("%w: encoded_catch_handler[%d].size: %v", ErrMalformedCodeItem, i, err)
		}
		abs := size
		if abs < 0 {
			abs = -abs
		}
		var h CatchHandler
		h.Handlers = make([]CatchHandlerAddr, abs)
		for j := range h.Handlers {
			typeIdx, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			addr, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			h.Handlers[j] = CatchHandlerAddr{TypeIdx: typeIdx, Addr: addr}
		}
		if size <= 0 {
			addr, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			h.CatchAllPC = addr
			h.HasCatchAll = true
		}
		out[uint16(off)] = h
	}
	return out, nil
}
