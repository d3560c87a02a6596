package dexinstr

// signExtend4/8/16 sign-extend an n-bit two's-complement value held in
// the low n bits of v.
func signExtend4(v uint32) int32  { return int32(v<<28) >> 28 }
func signExtend8(v uint32) int32  { return int32(v<<24) >> 24 }
func signExtend16(v uint32) int32 { return int32(v<<16) >> 16 }

// Instruction is a single decoded Dalvik instruction. Operand fields
// are populated only for the formats that carry them; the typed
// accessors below report ErrOperandAccess for the rest.
type Instruction struct {
	code []uint16 // the stream this instruction was decoded from (borrowed)
	pc   uint32   // code-unit offset of this instruction's first unit

	opcode Opcode
	format Format
	units  uint32 // size in code units, including payload data for payload pseudo-instructions

	vA, vB, vC uint32
	args       []uint16 // ordered argument registers for 35c/45cc
	rangeStart uint16   // starting register for 3rc/4rcc
	rangeCount uint16

	offset  int32
	literal int64
	index   uint32
	index2  uint32 // proto index, for 45cc/4rcc

	packedSwitch  *PackedSwitchPayload
	sparseSwitch  *SparseSwitchPayload
	fillArrayData *FillArrayDataPayload
}

// PC returns the code-unit offset this instruction starts at.
func (i Instruction) PC() uint32 { return i.pc }

// Opcode returns the raw opcode byte.
func (i Instruction) Opcode() Opcode { return i.opcode }

// Format returns the instruction's format.
func (i Instruction) Format() Format { return i.format }

// Name returns the opcode's mnemonic, or a payload-specific
// pseudo-name for the three payload formats.
func (i Instruction) Name() string {
	switch i.format {
	case FormatPackedSwitchPayload:
		return "packed-switch-payload"
	case FormatSparseSwitchPayload:
		return "sparse-switch-payload"
	case FormatFillArrayDataPayload:
		return "fill-array-data-payload"
	default:
		return GetNameOf(i.opcode)
	}
}

// VerifyFlags returns the opcode's verify flags.
func (i Instruction) VerifyFlags() VerifyFlags { return GetVerifyFlagsOf(i.opcode) }

// IndexKind returns the opcode's index kind.
func (i Instruction) IndexKind() IndexKind { return GetIndexTypeOf(i.opcode) }

// SizeInCodeUnits returns the number of 16-bit code units this
// instruction occupies, including payload data. Widened to uint32
// (rather than the 16-bit width most instructions need) because a
// packed-switch-payload, sparse-switch-payload, or fill-array-data-
// payload's size is attacker-controlled and can exceed 65535 units.
func (i Instruction) SizeInCodeUnits() uint32 { return i.units }

// PackedSwitch returns the decoded payload if this instruction is a
// packed-switch-payload.
func (i Instruction) PackedSwitch() (PackedSwitchPayload, bool) {
	if i.packedSwitch == nil {
		return PackedSwitchPayload{}, false
	}
	return *i.packedSwitch, true
}

// SparseSwitch returns the decoded payload if this instruction is a
// sparse-switch-payload.
func (i Instruction) SparseSwitch() (SparseSwitchPayload, bool) {
	if i.sparseSwitch == nil {
		return SparseSwitchPayload{}, false
	}
	return *i.sparseSwitch, true
}

// FillArrayData returns the decoded payload if this instruction is a
// fill-array-data-payload.
func (i Instruction) FillArrayData() (FillArrayDataPayload, bool) {
	if i.fillArrayData == nil {
		return FillArrayDataPayload{}, false
	}
	return *i.fillArrayData, true
}

func hasOperand(ok bool) error {
	if ok {
		return nil
	}
	return ErrOperandAccess
}

// VA returns the vA register operand.
func (i Instruction) VA() (uint32, error) {
	switch i.format {
	case Format12x, Format11n, Format11x, Format22x, Format32x, Format21t,
		Format21s, Format21h, Format21c, Format23x, Format22b, Format22t,
		Format22s, Format22c, Format31t, Format31i, Format31c, Format51l:
		return i.vA, nil
	default:
		return 0, ErrOperandAccess
	}
}

// VB returns the vB register (or 16-bit field, for the x21/x22 formats
// that use it as a second register rather than an immediate) operand.
func (i Instruction) VB() (uint32, error) {
	switch i.format {
	case Format12x, Format22x, Format32x, Format23x, Format22b, Format22t, Format22s, Format22c:
		return i.vB, nil
	default:
		return 0, ErrOperandAccess
	}
}

// VC returns the vC register operand. Only 23x carries a genuine
// third register; 22b's third field is a literal (see Literal) and
// 22c's is a reference index (see Index), not a register.
func (i Instruction) VC() (uint32, error) {
	switch i.format {
	case Format23x:
		return i.vC, nil
	default:
		return 0, ErrOperandAccess
	}
}

// VBBBB returns the wide 16-bit register operand of format 22x-style
// instructions (move/from16 and friends).
func (i Instruction) VBBBB() (uint32, error) {
	if i.format != Format22x {
		return 0, ErrOperandAccess
	}
	return i.vB, nil
}

// Offset returns the branch offset, in code units, for branch/switch
// formats.
func (i Instruction) Offset() (int32, error) {
	switch i.format {
	case Format10t, Format20t, Format30t, Format21t, Format22t, Format31t:
		return i.offset, nil
	default:
		return 0, ErrOperandAccess
	}
}

// Literal returns the immediate/literal value for const*/lit*
// instructions.
func (i Instruction) Literal() (int64, error) {
	switch i.format {
	case Format11n, Format21s, Format21h, Format31i, Format51l, Format22b, Format22s:
		return i.literal, nil
	default:
		return 0, ErrOperandAccess
	}
}

// Index returns the primary reference index (string/type/field/method/
// call_site/method_handle/proto), for the formats that carry one.
func (i Instruction) Index() (uint32, error) {
	switch i.format {
	case Format21c, Format31c, Format22c, Format35c, Format3rc, Format45cc, Format4rcc:
		return i.index, nil
	default:
		return 0, ErrOperandAccess
	}
}

// Index2 returns the secondary index (the proto index of
// invoke-polymorphic's 45cc/4rcc formats).
func (i Instruction) Index2() (uint32, error) {
	switch i.format {
	case Format45cc, Format4rcc:
		return i.index2, nil
	default:
		return 0, ErrOperandAccess
	}
}

// Args returns the ordered argument registers of a 35c/45cc
// instruction (filled-new-array, invoke-*).
func (i Instruction) Args() ([]uint16, error) {
	switch i.format {
	case Format35c, Format45cc:
		return i.args, nil
	default:
		return nil, ErrOperandAccess
	}
}

// RangeArgs returns the (start register, count) pair of a 3rc/4rcc
// instruction.
func (i Instruction) RangeArgs() (start, count uint16, err error) {
	switch i.format {
	case Format3rc, Format4rcc:
		return i.rangeStart, i.rangeCount, nil
	default:
		return 0, 0, ErrOperandAccess
	}
}

// Next decodes the instruction immediately following i in the same
// stream, or reports ok=false if i was the last one.
func (i Instruction) Next() (Instruction, bool, error) {
	nextPC := i.pc + i.units
	if nextPC >= uint32(len(i.code)) {
		return Instruction{}, false, nil
	}
	next, err := Decode(i.code, nextPC)
	if err != nil {
		return Instruction{}, false, err
	}
	return next, true, nil
}

// Decode decodes the instruction whose first code unit is at code[pc].
// It never panics: any truncated or malformed input is reported via
// the returned error.
func Decode(code []uint16, pc uint32) (Instruction, error) {
	unit, ok := identOf(code, pc)
	if !ok {
		return Instruction{}, ErrOutOfBounds
	}

	// A code unit at a valid instruction boundary might be a nop
	// (0x0000) or one of the three payload pseudo-instructions,
	// disambiguated by the full 16-bit value before opcode dispatch.
	switch unit {
	case packedSwitchIdent:
		payload, units, err := parsePackedSwitchPayload(code, pc)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{code: code, pc: pc, opcode: 0, format: FormatPackedSwitchPayload, units: units, packedSwitch: &payload}, nil
	case sparseSwitchIdent:
		payload, units, err := parseSparseSwitchPayload(code, pc)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{code: code, pc: pc, opcode: 0, format: FormatSparseSwitchPayload, units: units, sparseSwitch: &payload}, nil
	case fillArrayDataIdent:
		payload, units, err := parseFillArrayDataPayload(code, pc)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{code: code, pc: pc, opcode: 0, format: FormatFillArrayDataPayload, units: units, fillArrayData: &payload}, nil
	}

	op := GetOpcodeOf(unit)
	format := GetFormatOf(op)
	if format == FormatInvalid {
		return Instruction{}, ErrBadOpcode
	}
	size := format.SizeInCodeUnits()
	if pc+uint32(size) > uint32(len(code)) {
		return Instruction{}, ErrOutOfBounds
	}

	insn := Instruction{code: code, pc: pc, opcode: op, format: format, units: uint32(size)}
	if err := decodeOperands(&insn, code, pc, unit); err != nil {
		return Instruction{}, err
	}
	return insn, nil
}

func decodeOperands(insn *Instruction, code []uint16, pc uint32, unit0 uint16) error {
	u := func(off uint32) uint16 { return code[pc+off] }

	switch insn.format {
	case Format10x:
		// no operands
	case Format12x:
		insn.vA = uint32(unit0>>8) & 0xF
		insn.vB = uint32(unit0>>12) & 0xF
	case Format11n:
		insn.vA = uint32(unit0>>8) & 0xF
		insn.literal = int64(signExtend4(uint32(unit0>>12) & 0xF))
	case Format11x:
		insn.vA = uint32(unit0>>8) & 0xFF
	case Format10t:
		insn.offset = signExtend8(uint32(unit0>>8) & 0xFF)
	case Format20t:
		insn.offset = int32(int16(u(1)))
	case Format22x:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.vB = uint32(u(1))
	case Format21t:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.offset = int32(int16(u(1)))
	case Format21s:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.literal = int64(int16(u(1)))
	case Format21h:
		insn.vA = uint32(unit0>>8) & 0xFF
		// const-wide/high16 places BBBB in the top 16 bits of a
		// 64-bit value; const/high16, the format's only other user,
		// places it in the top 16 bits of a 32-bit value.
		if insn.opcode == opConstWideHigh16 {
			insn.literal = int64(uint64(u(1)) << 48)
		} else {
			insn.literal = int64(int32(u(1)) << 16)
		}
	case Format21c:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.index = uint32(u(1))
	case Format23x:
		insn.vA = uint32(unit0>>8) & 0xFF
		bc := u(1)
		insn.vB = uint32(bc & 0xFF)
		insn.vC = uint32(bc >> 8)
	case Format22b:
		insn.vA = uint32(unit0>>8) & 0xFF
		bc := u(1)
		insn.vB = uint32(bc & 0xFF)
		insn.literal = int64(signExtend8(uint32(bc >> 8)))
	case Format22t:
		insn.vA = uint32(unit0>>8) & 0xF
		insn.vB = uint32(unit0>>12) & 0xF
		insn.offset = int32(int16(u(1)))
	case Format22s:
		insn.vA = uint32(unit0>>8) & 0xF
		insn.vB = uint32(unit0>>12) & 0xF
		insn.literal = int64(int16(u(1)))
	case Format22c:
		insn.vA = uint32(unit0>>8) & 0xF
		insn.vB = uint32(unit0>>12) & 0xF
		insn.index = uint32(u(1))
	case Format32x:
		insn.vA = uint32(u(1))
		insn.vB = uint32(u(2))
	case Format30t:
		insn.offset = int32(uint32(u(1)) | uint32(u(2))<<16)
	case Format31t:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.offset = int32(uint32(u(1)) | uint32(u(2))<<16)
	case Format31i:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.literal = int64(int32(uint32(u(1)) | uint32(u(2))<<16))
	case Format31c:
		insn.vA = uint32(unit0>>8) & 0xFF
		insn.index = uint32(u(1)) | uint32(u(2))<<16
	case Format35c:
		decode35cArgs(insn, unit0, u(1), u(2))
	case Format3rc:
		insn.rangeCount = uint16(unit0>>8) & 0xFF
		insn.index = uint32(u(1))
		insn.rangeStart = u(2)
	case Format45cc:
		decode35cArgs(insn, unit0, u(1), u(2))
		insn.index2 = uint32(u(3))
	case Format4rcc:
		insn.rangeCount = uint16(unit0>>8) & 0xFF
		insn.index = uint32(u(1))
		insn.rangeStart = u(2)
		insn.index2 = uint32(u(3))
	case Format51l:
		insn.vA = uint32(unit0>>8) & 0xFF
		lit := uint64(u(1)) | uint64(u(2))<<16 | uint64(u(3))<<32 | uint64(u(4))<<48
		insn.literal = int64(lit)
	}
	return nil
}

// decode35cArgs decodes the "A|G|op BBBB F|E|D|C" register list shared
// by format 35c and the first three units of 45cc: A is the argument
// count (0-5), BBBB the reference index, and the four nibbles of the
// third unit plus G give the (up to five) argument registers in
// C, D, E, F, G order.
func decode35cArgs(insn *Instruction, unit0, bbbb, cdef uint16) {
	argCount := uint16(unit0>>12) & 0xF
	g := uint16(unit0>>8) & 0xF
	c := cdef & 0xF
	d := (cdef >> 4) & 0xF
	e := (cdef >> 8) & 0xF
	f := (cdef >> 12) & 0xF
	all := [5]uint16{c, d, e, f, g}
	insn.index = uint32(bbbb)
	insn.args = append([]uint16(nil), all[:argCount]...)
}
