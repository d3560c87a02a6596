package dexinstr

// Opcode is a raw Dalvik opcode byte (0..255).
type Opcode uint8

// opConstWideHigh16 is the one Format21h opcode whose literal occupies
// the high 16 bits of a 64-bit value rather than a 32-bit one; see
// decodeOperands' Format21h case.
const opConstWideHigh16 Opcode = 0x19

// opcodeDesc is one row of the 256-entry opcode table: everything the
// decoder and pretty-printer need to know about an opcode that isn't
// derivable from the instruction stream itself.
type opcodeDesc struct {
	name        string
	format      Format
	indexKind   IndexKind
	verifyFlags VerifyFlags
}

// opcodeTable is indexed directly by opcode value. Entries with format
// FormatInvalid are the reserved/unused opcodes in the public Dalvik
// bytecode ISA (0x3e-0x43, 0x73, 0x79-0x7a, 0xe3-0xf9); decoding one of
// them fails with BadOpcode.
var opcodeTable = [256]opcodeDesc{
	0x00: {"nop", Format10x, IndexNone, VerifyNone},
	0x01: {"move", Format12x, IndexNone, VerifyNone},
	0x02: {"move/from16", Format22x, IndexNone, VerifyNone},
	0x03: {"move/16", Format32x, IndexNone, VerifyNone},
	0x04: {"move-wide", Format12x, IndexNone, VerifyNone},
	0x05: {"move-wide/from16", Format22x, IndexNone, VerifyNone},
	0x06: {"move-wide/16", Format32x, IndexNone, VerifyNone},
	0x07: {"move-object", Format12x, IndexNone, VerifyNone},
	0x08: {"move-object/from16", Format22x, IndexNone, VerifyNone},
	0x09: {"move-object/16", Format32x, IndexNone, VerifyNone},
	0x0a: {"move-result", Format11x, IndexNone, VerifyNone},
	0x0b: {"move-result-wide", Format11x, IndexNone, VerifyNone},
	0x0c: {"move-result-object", Format11x, IndexNone, VerifyNone},
	0x0d: {"move-exception", Format11x, IndexNone, VerifyNone},
	0x0e: {"return-void", Format10x, IndexNone, VerifyReturn},
	0x0f: {"return", Format11x, IndexNone, VerifyReturn},
	0x10: {"return-wide", Format11x, IndexNone, VerifyReturn},
	0x11: {"return-object", Format11x, IndexNone, VerifyReturn},
	0x12: {"const/4", Format11n, IndexNone, VerifyNone},
	0x13: {"const/16", Format21s, IndexNone, VerifyNone},
	0x14: {"const", Format31i, IndexNone, VerifyNone},
	0x15: {"const/high16", Format21h, IndexNone, VerifyNone},
	0x16: {"const-wide/16", Format21s, IndexNone, VerifyNone},
	0x17: {"const-wide/32", Format31i, IndexNone, VerifyNone},
	0x18: {"const-wide", Format51l, IndexNone, VerifyNone},
	0x19: {"const-wide/high16", Format21h, IndexNone, VerifyNone},
	0x1a: {"const-string", Format21c, IndexStringRef, VerifyNone},
	0x1b: {"const-string/jumbo", Format31c, IndexStringRef, VerifyNone},
	0x1c: {"const-class", Format21c, IndexTypeRef, VerifyNone},
	0x1d: {"monitor-enter", Format11x, IndexNone, VerifyNone},
	0x1e: {"monitor-exit", Format11x, IndexNone, VerifyNone},
	0x1f: {"check-cast", Format21c, IndexTypeRef, VerifyThrow},
	0x20: {"instance-of", Format22c, IndexTypeRef, VerifyNone},
	0x21: {"array-length", Format12x, IndexNone, VerifyThrow},
	0x22: {"new-instance", Format21c, IndexTypeRef, VerifyThrow},
	0x23: {"new-array", Format22c, IndexTypeRef, VerifyThrow},
	0x24: {"filled-new-array", Format35c, IndexTypeRef, VerifyThrow},
	0x25: {"filled-new-array/range", Format3rc, IndexTypeRef, VerifyThrow},
	0x26: {"fill-array-data", Format31t, IndexNone, VerifySwitch},
	0x27: {"throw", Format11x, IndexNone, VerifyThrow},
	0x28: {"goto", Format10t, IndexNone, VerifyBranch},
	0x29: {"goto/16", Format20t, IndexNone, VerifyBranch},
	0x2a: {"goto/32", Format30t, IndexNone, VerifyBranch},
	0x2b: {"packed-switch", Format31t, IndexNone, VerifySwitch},
	0x2c: {"sparse-switch", Format31t, IndexNone, VerifySwitch},
	0x2d: {"cmpl-float", Format23x, IndexNone, VerifyNone},
	0x2e: {"cmpg-float", Format23x, IndexNone, VerifyNone},
	0x2f: {"cmpl-double", Format23x, IndexNone, VerifyNone},
	0x30: {"cmpg-double", Format23x, IndexNone, VerifyNone},
	0x31: {"cmp-long", Format23x, IndexNone, VerifyNone},
	0x32: {"if-eq", Format22t, IndexNone, VerifyBranch},
	0x33: {"if-ne", Format22t, IndexNone, VerifyBranch},
	0x34: {"if-lt", Format22t, IndexNone, VerifyBranch},
	0x35: {"if-ge", Format22t, IndexNone, VerifyBranch},
	0x36: {"if-gt", Format22t, IndexNone, VerifyBranch},
	0x37: {"if-le", Format22t, IndexNone, VerifyBranch},
	0x38: {"if-eqz", Format21t, IndexNone, VerifyBranch},
	0x39: {"if-nez", Format21t, IndexNone, VerifyBranch},
	0x3a: {"if-ltz", Format21t, IndexNone, VerifyBranch},
	0x3b: {"if-gez", Format21t, IndexNone, VerifyBranch},
	0x3c: {"if-gtz", Format21t, IndexNone, VerifyBranch},
	0x3d: {"if-lez", Format21t, IndexNone, VerifyBranch},
	// 0x3e-0x43: unused.
	0x44: {"aget", Format23x, IndexNone, VerifyThrow},
	0x45: {"aget-wide", Format23x, IndexNone, VerifyThrow},
	0x46: {"aget-object", Format23x, IndexNone, VerifyThrow},
	0x47: {"aget-boolean", Format23x, IndexNone, VerifyThrow},
	0x48: {"aget-byte", Format23x, IndexNone, VerifyThrow},
	0x49: {"aget-char", Format23x, IndexNone, VerifyThrow},
	0x4a: {"aget-short", Format23x, IndexNone, VerifyThrow},
	0x4b: {"aput", Format23x, IndexNone, VerifyThrow},
	0x4c: {"aput-wide", Format23x, IndexNone, VerifyThrow},
	0x4d: {"aput-object", Format23x, IndexNone, VerifyThrow},
	0x4e: {"aput-boolean", Format23x, IndexNone, VerifyThrow},
	0x4f: {"aput-byte", Format23x, IndexNone, VerifyThrow},
	0x50: {"aput-char", Format23x, IndexNone, VerifyThrow},
	0x51: {"aput-short", Format23x, IndexNone, VerifyThrow},
	0x52: {"iget", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x53: {"iget-wide", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x54: {"iget-object", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x55: {"iget-boolean", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x56: {"iget-byte", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x57: {"iget-char", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x58: {"iget-short", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x59: {"iput", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x5a: {"iput-wide", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x5b: {"iput-object", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x5c: {"iput-boolean", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x5d: {"iput-byte", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x5e: {"iput-char", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x5f: {"iput-short", Format22c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x60: {"sget", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x61: {"sget-wide", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x62: {"sget-object", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x63: {"sget-boolean", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x64: {"sget-byte", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x65: {"sget-char", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x66: {"sget-short", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x67: {"sput", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x68: {"sput-wide", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x69: {"sput-object", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x6a: {"sput-boolean", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x6b: {"sput-byte", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x6c: {"sput-char", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x6d: {"sput-short", Format21c, IndexFieldRef, VerifyThrow | VerifyFieldAccess},
	0x6e: {"invoke-virtual", Format35c, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x6f: {"invoke-super", Format35c, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x70: {"invoke-direct", Format35c, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x71: {"invoke-static", Format35c, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x72: {"invoke-interface", Format35c, IndexMethodRef, VerifyThrow | VerifyInvoke},
	// 0x73: unused.
	0x74: {"invoke-virtual/range", Format3rc, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x75: {"invoke-super/range", Format3rc, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x76: {"invoke-direct/range", Format3rc, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x77: {"invoke-static/range", Format3rc, IndexMethodRef, VerifyThrow | VerifyInvoke},
	0x78: {"invoke-interface/range", Format3rc, IndexMethodRef, VerifyThrow | VerifyInvoke},
	// 0x79-0x7a: unused.
	0x7b: {"neg-int", Format12x, IndexNone, VerifyNone},
	0x7c: {"not-int", Format12x, IndexNone, VerifyNone},
	0x7d: {"neg-long", Format12x, IndexNone, VerifyNone},
	0x7e: {"not-long", Format12x, IndexNone, VerifyNone},
	0x7f: {"neg-float", Format12x, IndexNone, VerifyNone},
	0x80: {"neg-double", Format12x, IndexNone, VerifyNone},
	0x81: {"int-to-long", Format12x, IndexNone, VerifyNone},
	0x82: {"int-to-float", Format12x, IndexNone, VerifyNone},
	0x83: {"int-to-double", Format12x, IndexNone, VerifyNone},
	0x84: {"long-to-int", Format12x, IndexNone, VerifyNone},
	0x85: {"long-to-float", Format12x, IndexNone, VerifyNone},
	0x86: {"long-to-double", Format12x, IndexNone, VerifyNone},
	0x87: {"float-to-int", Format12x, IndexNone, VerifyNone},
	0x88: {"float-to-long", Format12x, IndexNone, VerifyNone},
	0x89: {"float-to-double", Format12x, IndexNone, VerifyNone},
	0x8a: {"double-to-int", Format12x, IndexNone, VerifyNone},
	0x8b: {"double-to-long", Format12x, IndexNone, VerifyNone},
	0x8c: {"double-to-float", Format12x, IndexNone, VerifyNone},
	0x8d: {"int-to-byte", Format12x, IndexNone, VerifyNone},
	0x8e: {"int-to-char", Format12x, IndexNone, VerifyNone},
	0x8f: {"int-to-short", Format12x, IndexNone, VerifyNone},
	0x90: {"add-int", Format23x, IndexNone, VerifyNone},
	0x91: {"sub-int", Format23x, IndexNone, VerifyNone},
	0x92: {"mul-int", Format23x, IndexNone, VerifyNone},
	0x93: {"div-int", Format23x, IndexNone, VerifyThrow},
	0x94: {"rem-int", Format23x, IndexNone, VerifyThrow},
	0x95: {"and-int", Format23x, IndexNone, VerifyNone},
	0x96: {"or-int", Format23x, IndexNone, VerifyNone},
	0x97: {"xor-int", Format23x, IndexNone, VerifyNone},
	0x98: {"shl-int", Format23x, IndexNone, VerifyNone},
	0x99: {"shr-int", Format23x, IndexNone, VerifyNone},
	0x9a: {"ushr-int", Format23x, IndexNone, VerifyNone},
	0x9b: {"add-long", Format23x, IndexNone, VerifyNone},
	0x9c: {"sub-long", Format23x, IndexNone, VerifyNone},
	0x9d: {"mul-long", Format23x, IndexNone, VerifyNone},
	0x9e: {"div-long", Format23x, IndexNone, VerifyThrow},
	0x9f: {"rem-long", Format23x, IndexNone, VerifyThrow},
	0xa0: {"and-long", Format23x, IndexNone, VerifyNone},
	0xa1: {"or-long", Format23x, IndexNone, VerifyNone},
	0xa2: {"xor-long", Format23x, IndexNone, VerifyNone},
	0xa3: {"shl-long", Format23x, IndexNone, VerifyNone},
	0xa4: {"shr-long", Format23x, IndexNone, VerifyNone},
	0xa5: {"ushr-long", Format23x, IndexNone, VerifyNone},
	0xa6: {"add-float", Format23x, IndexNone, VerifyNone},
	0xa7: {"sub-float", Format23x, IndexNone, VerifyNone},
	0xa8: {"mul-float", Format23x, IndexNone, VerifyNone},
	0xa9: {"div-float", Format23x, IndexNone, VerifyNone},
	0xaa: {"rem-float", Format23x, IndexNone, VerifyNone},
	0xab: {"add-double", Format23x, IndexNone, VerifyNone},
	0xac: {"sub-double", Format23x, IndexNone, VerifyNone},
	0xad: {"mul-double", Format23x, IndexNone, VerifyNone},
	0xae: {"div-double", Format23x, IndexNone, VerifyNone},
	0xaf: {"rem-double", Format23x, IndexNone, VerifyNone},
	0xb0: {"add-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb1: {"sub-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb2: {"mul-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb3: {"div-int/2addr", Format12x, IndexNone, VerifyThrow},
	0xb4: {"rem-int/2addr", Format12x, IndexNone, VerifyThrow},
	0xb5: {"and-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb6: {"or-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb7: {"xor-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb8: {"shl-int/2addr", Format12x, IndexNone, VerifyNone},
	0xb9: {"shr-int/2addr", Format12x, IndexNone, VerifyNone},
	0xba: {"ushr-int/2addr", Format12x, IndexNone, VerifyNone},
	0xbb: {"add-long/2addr", Format12x, IndexNone, VerifyNone},
	0xbc: {"sub-long/2addr", Format12x, IndexNone, VerifyNone},
	0xbd: {"mul-long/2addr", Format12x, IndexNone, VerifyNone},
	0xbe: {"div-long/2addr", Format12x, IndexNone, VerifyThrow},
	0xbf: {"rem-long/2addr", Format12x, IndexNone, VerifyThrow},
	0xc0: {"and-long/2addr", Format12x, IndexNone, VerifyNone},
	0xc1: {"or-long/2addr", Format12x, IndexNone, VerifyNone},
	0xc2: {"xor-long/2addr", Format12x, IndexNone, VerifyNone},
	0xc3: {"shl-long/2addr", Format12x, IndexNone, VerifyNone},
	0xc4: {"shr-long/2addr", Format12x, IndexNone, VerifyNone},
	0xc5: {"ushr-long/2addr", Format12x, IndexNone, VerifyNone},
	0xc6: {"add-float/2addr", Format12x, IndexNone, VerifyNone},
	0xc7: {"sub-float/2addr", Format12x, IndexNone, VerifyNone},
	0xc8: {"mul-float/2addr", Format12x, IndexNone, VerifyNone},
	0xc9: {"div-float/2addr", Format12x, IndexNone, VerifyNone},
	0xca: {"rem-float/2addr", Format12x, IndexNone, VerifyNone},
	0xcb: {"add-double/2addr", Format12x, IndexNone, VerifyNone},
	0xcc: {"sub-double/2addr", Format12x, IndexNone, VerifyNone},
	0xcd: {"mul-double/2addr", Format12x, IndexNone, VerifyNone},
	0xce: {"div-double/2addr", Format12x, IndexNone, VerifyNone},
	0xcf: {"rem-double/2addr", Format12x, IndexNone, VerifyNone},
	0xd0: {"add-int/lit16", Format22s, IndexNone, VerifyNone},
	0xd1: {"rsub-int", Format22s, IndexNone, VerifyNone},
	0xd2: {"mul-int/lit16", Format22s, IndexNone, VerifyNone},
	0xd3: {"div-int/lit16", Format22s, IndexNone, VerifyThrow},
	0xd4: {"rem-int/lit16", Format22s, IndexNone, VerifyThrow},
	0xd5: {"and-int/lit16", Format22s, IndexNone, VerifyNone},
	0xd6: {"or-int/lit16", Format22s, IndexNone, VerifyNone},
	0xd7: {"xor-int/lit16", Format22s, IndexNone, VerifyNone},
	0xd8: {"add-int/lit8", Format22b, IndexNone, VerifyNone},
	0xd9: {"rsub-int/lit8", Format22b, IndexNone, VerifyNone},
	0xda: {"mul-int/lit8", Format22b, IndexNone, VerifyNone},
	0xdb: {"div-int/lit8", Format22b, IndexNone, VerifyThrow},
	0xdc: {"rem-int/lit8", Format22b, IndexNone, VerifyThrow},
	0xdd: {"and-int/lit8", Format22b, IndexNone, VerifyNone},
	0xde: {"or-int/lit8", Format22b, IndexNone, VerifyNone},
	0xdf: {"xor-int/lit8", Format22b, IndexNone, VerifyNone},
	0xe0: {"shl-int/lit8", Format22b, IndexNone, VerifyNone},
	0xe1: {"shr-int/lit8", Format22b, IndexNone, VerifyNone},
	0xe2: {"ushr-int/lit8", Format22b, IndexNone, VerifyNone},
	// 0xe3-0xf9: unused in the public ISA (reserved for ART's internal
	// quickened opcodes, which never appear in an on-disk DEX file).
	0xfa: {"invoke-polymorphic", Format45cc, IndexMethodAndProtoRef, VerifyThrow | VerifyInvoke},
	0xfb: {"invoke-polymorphic/range", Format4rcc, IndexMethodAndProtoRef, VerifyThrow | VerifyInvoke},
	0xfc: {"invoke-custom", Format35c, IndexCallSiteRef, VerifyThrow | VerifyInvoke},
	0xfd: {"invoke-custom/range", Format3rc, IndexCallSiteRef, VerifyThrow | VerifyInvoke},
	0xfe: {"const-method-handle", Format21c, IndexMethodHandleRef, VerifyNone},
	0xff: {"const-method-type", Format21c, IndexProtoRef, VerifyNone},
}

func init() {
	// Fill every unset slot with an explicit "unused" marker rather
	// than leaving it as the zero opcodeDesc{} — the zero value already
	// happens to be {"", FormatInvalid, IndexUnknown, 0}, but naming it
	// makes GetNameOf readable for reserved opcodes instead of "".
	for i := range opcodeTable {
		if opcodeTable[i].format == FormatInvalid && opcodeTable[i].name == "" {
			opcodeTable[i].name = "unused"
		}
	}
}

// GetOpcodeOf extracts the opcode from a raw instruction code unit.
func GetOpcodeOf(unit uint16) Opcode { return Opcode(unit & 0xFF) }

// GetNameOf returns the mnemonic for op, or "unused" for a reserved
// opcode.
func GetNameOf(op Opcode) string { return opcodeTable[op].name }

// GetFormatOf returns the instruction format for op.
func GetFormatOf(op Opcode) Format { return opcodeTable[op].format }

// GetIndexTypeOf returns the index kind op's reference operand (if
// any) resolves against.
func GetIndexTypeOf(op Opcode) IndexKind { return opcodeTable[op].indexKind }

// GetVerifyFlagsOf returns the verify flags associated with op.
func GetVerifyFlagsOf(op Opcode) VerifyFlags { return opcodeTable[op].verifyFlags }
