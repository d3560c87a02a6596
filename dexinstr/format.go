// Package dexinstr implements the Dalvik bytecode instruction decoder:
// the opcode/format/index-kind tables, the bit-slicing operand
// extraction for every instruction format, and the payload
// pseudo-instruction readers for packed-switch, sparse-switch, and
// fill-array-data.
//
// Everything here operates on a borrowed []uint16 code-unit stream and
// has no knowledge of the DEX tables an index resolves into — that
// resolution (turning a StringRef into an actual string) is the DEX
// view's job, one layer up, to keep this package usable standalone
// (e.g. for a fuzz harness that just wants "does this decode cleanly").
package dexinstr

// Format identifies a Dalvik instruction's size and operand layout.
type Format uint8

const (
	FormatInvalid Format = iota
	Format10x
	Format12x
	Format11n
	Format11x
	Format10t
	Format20t
	Format22x
	Format21t
	Format21s
	Format21h
	Format21c
	Format23x
	Format22b
	Format22t
	Format22s
	Format22c
	Format32x
	Format30t
	Format31t
	Format31i
	Format31c
	Format35c
	Format3rc
	Format45cc
	Format4rcc
	Format51l
	// FormatPackedSwitchPayload, FormatSparseSwitchPayload and
	// FormatFillArrayDataPayload never appear in FORMAT_TABLE: their
	// instructions are disambiguated from nop by ident before the
	// opcode table is even consulted (see payload.go).
	FormatPackedSwitchPayload
	FormatSparseSwitchPayload
	FormatFillArrayDataPayload
)

// sizeInCodeUnits gives the fixed size of every non-payload format;
// payload formats compute their size from their own declared counts
// (see payload.go) and are not looked up here.
var sizeInCodeUnits = map[Format]uint16{
	Format10x:  1,
	Format12x:  1,
	Format11n:  1,
	Format11x:  1,
	Format10t:  1,
	Format20t:  2,
	Format22x:  2,
	Format21t:  2,
	Format21s:  2,
	Format21h:  2,
	Format21c:  2,
	Format23x:  2,
	Format22b:  2,
	Format22t:  2,
	Format22s:  2,
	Format22c:  2,
	Format32x:  3,
	Format30t:  3,
	Format31t:  3,
	Format31i:  3,
	Format31c:  3,
	Format35c:  3,
	Format3rc:  3,
	Format45cc: 4,
	Format4rcc: 4,
	Format51l:  5,
}

// SizeInCodeUnits returns the fixed size of f in 16-bit code units, or
// 0 if f is FormatInvalid or one of the payload formats (whose size is
// data-dependent).
func (f Format) SizeInCodeUnits() uint16 { return sizeInCodeUnits[f] }

// IndexKind classifies what an instruction's index operand refers to.
type IndexKind uint8

const (
	IndexUnknown IndexKind = iota
	IndexNone
	IndexTypeRef
	IndexStringRef
	IndexMethodRef
	IndexFieldRef
	IndexMethodAndProtoRef
	IndexCallSiteRef
	IndexMethodHandleRef
	IndexProtoRef
)

// VerifyFlags carries the small set of structural hints the verifier
// (out of scope here) and the pretty-printer use to describe an
// instruction's effect; this reader only threads them through, it
// never itself verifies Dalvik-semantic properties.
type VerifyFlags uint32

const (
	VerifyNone       VerifyFlags = 0
	VerifyBranch     VerifyFlags = 1 << 0
	VerifySwitch     VerifyFlags = 1 << 1
	VerifyThrow      VerifyFlags = 1 << 2
	VerifyReturn     VerifyFlags = 1 << 3
	VerifyInvoke     VerifyFlags = 1 << 4
	VerifyFieldAccess VerifyFlags = 1 << 5
)
