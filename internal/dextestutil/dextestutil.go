// Package dextestutil contains helper functions common to the unit
// tests for the dexvisit, dexdump, and apkscan packages: a visitor
// that captures callbacks into a slice of strings, a whitespace
// squeeze helper, and a hand-built minimal DEX image good enough to
// drive a full Walk.
package dextestutil

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"regexp"

	"github.com/thanm/dexview/dexfile"
	"github.com/thanm/dexview/dexinstr"
)

// CaptureVisitor is a dexvisit.Visitor that records every callback as
// a string, for tests to examine/verify.
type CaptureVisitor struct {
	Result []string
	Instrs bool
}

func (c *CaptureVisitor) VisitAPK(apk string) {
	c.Result = append(c.Result, fmt.Sprintf("APK %s", apk))
}

func (c *CaptureVisitor) VisitDEX(dexname string, v *dexfile.View) {
	c.Result = append(c.Result, fmt.Sprintf(" DEX %s sha1 %x", dexname, v.Header().Signature))
}

func (c *CaptureVisitor) VisitClass(cd dexfile.ClassDef, classDescriptor string, nmethods uint32) {
	c.Result = append(c.Result, fmt.Sprintf("  class %s methods: %d", classDescriptor, nmethods))
}

func (c *CaptureVisitor) VisitMethod(md dexfile.MethodID, methodname string, methodIdx uint32, codeOffset uint32) {
	c.Result = append(c.Result, fmt.Sprintf("   method id %d name '%s' code offset %d", methodIdx, methodname, codeOffset))
}

func (c *CaptureVisitor) VisitInstruction(insn dexinstr.Instruction, pc uint32) {
	c.Result = append(c.Result, fmt.Sprintf("    insn @%d %s", pc, insn.Name()))
}

func (c *CaptureVisitor) WantInstructions() bool { return c.Instrs }

func (c *CaptureVisitor) Verbose(vlevel int, s string, a ...interface{}) {}

// SqueezeWhite squeezes repeated whitespace and converts tabs/newlines
// to spaces, so dump output comparisons in tests don't depend on
// exact column alignment.
func SqueezeWhite(s string) string {
	re := regexp.MustCompile(`[ \n\t]+`)
	return re.ReplaceAllLiteralString(s, " ")
}

// toyBuilder assembles a minimal DEX image byte by byte. It exists
// purely for tests: nothing in the dexfile package itself uses it, by
// design, so that tests of the reader are never built on the reader's
// own encoder.
type toyBuilder struct {
	buf []byte
}

func newToyBuilder() *toyBuilder {
	return &toyBuilder{buf: make([]byte, dexfile.HeaderSize)}
}

func (b *toyBuilder) offset() uint32 { return uint32(len(b.buf)) }

func (b *toyBuilder) putU8(v uint8)   { b.buf = append(b.buf, v) }
func (b *toyBuilder) putU16(v uint16) { b.buf = binary.LittleEndian.AppendUint16(b.buf, v) }
func (b *toyBuilder) putU32(v uint32) { b.buf = binary.LittleEndian.AppendUint32(b.buf, v) }

func (b *toyBuilder) putULEB128(v uint32) {
	for {
		byt := uint8(v & 0x7f)
		v >>= 7
		if v != 0 {
			b.putU8(byt | 0x80)
		} else {
			b.putU8(byt)
			return
		}
	}
}

// putStringData writes an ASCII-only string_data_item (utf16_size
// equal to the byte length) and returns its offset.
func (b *toyBuilder) putStringData(s string) uint32 {
	off := b.offset()
	b.putULEB128(uint32(len(s)))
	b.buf = append(b.buf, s...)
	b.putU8(0)
	return off
}

func (b *toyBuilder) patchU32(at uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[at:at+4], v)
}

// BuildToyDex assembles a byte-exact, verify-passing DEX image
// containing a single class LFoo; with one virtual method bar()V
// whose body is a single nop, good enough to drive dexvisit.Walk end
// to end. Its layout mirrors dexfile's own hand-built test fixtures.
func BuildToyDex() []byte {
	b := newToyBuilder()

	sFoo := b.putStringData("LFoo;")
	sBar := b.putStringData("bar")
	sV := b.putStringData("V")

	stringIdsOff := b.offset()
	b.putU32(sFoo)
	b.putU32(sBar)
	b.putU32(sV)

	typeIdsOff := b.offset()
	b.putU32(0) // type0 -> "LFoo;"
	b.putU32(2) // type1 -> "V"

	protoIdsOff := b.offset()
	b.putU32(2) // shorty_idx -> "V"
	b.putU32(1) // return_type_idx -> type1 ("V")
	b.putU32(0) // parameters_off (none)

	methodIdsOff := b.offset()
	b.putU16(0) // class_idx -> type0
	b.putU16(0) // proto_idx -> proto0
	b.putU32(1) // name_idx -> "bar"

	codeOff := b.offset()
	b.putU16(1) // registers_size
	b.putU16(0) // ins_size
	b.putU16(0) // outs_size
	b.putU16(0) // tries_size
	b.putU32(0) // debug_info_off
	b.putU32(1) // insns_size
	b.putU16(0) // nop

	classDataOff := b.offset()
	b.putULEB128(0) // static_fields_size
	b.putULEB128(0) // instance_fields_size
	b.putULEB128(0) // direct_methods_size
	b.putULEB128(1) // virtual_methods_size
	b.putULEB128(0) // method_idx_diff -> method0
	b.putULEB128(0x1) // access_flags: public
	b.putULEB128(codeOff)

	classDefsOff := b.offset()
	b.putU32(0)          // class_idx -> type0
	b.putU32(0x1)        // access_flags: public
	b.putU32(dexfile.NoIndex) // superclass_idx
	b.putU32(0)          // interfaces_off
	b.putU32(dexfile.NoIndex) // source_file_idx
	b.putU32(0)          // annotations_off
	b.putU32(classDataOff)
	b.putU32(0) // static_values_off

	mapOff := b.offset()
	items := []dexfile.MapItem{
		{Type: dexfile.TypeHeaderItem, Size: 1, Offset: 0},
		{Type: dexfile.TypeStringIdItem, Size: 3, Offset: stringIdsOff},
		{Type: dexfile.TypeTypeIdItem, Size: 2, Offset: typeIdsOff},
		{Type: dexfile.TypeProtoIdItem, Size: 1, Offset: protoIdsOff},
		{Type: dexfile.TypeMethodIdItem, Size: 1, Offset: methodIdsOff},
		{Type: dexfile.TypeClassDefItem, Size: 1, Offset: classDefsOff},
		{Type: dexfile.TypeCodeItem, Size: 1, Offset: codeOff},
		{Type: dexfile.TypeClassDataItem, Size: 1, Offset: classDataOff},
		{Type: dexfile.TypeMapList, Size: 1, Offset: mapOff},
	}
	b.putU32(uint32(len(items)))
	for _, it := range items {
		b.putU16(uint16(it.Type))
		b.putU16(0)
		b.putU32(it.Size)
		b.putU32(it.Offset)
	}

	fileSize := b.offset()

	copy(b.buf[0:8], []byte{0x64, 0x65, 0x78, 0x0a, 0x30, 0x33, 0x38, 0x00})
	b.patchU32(36, dexfile.HeaderSize)
	b.patchU32(40, dexfile.EndianConstant)
	b.patchU32(32, fileSize)
	b.patchU32(52, mapOff)
	b.patchU32(56, 3)
	b.patchU32(60, stringIdsOff)
	b.patchU32(64, 2)
	b.patchU32(68, typeIdsOff)
	b.patchU32(72, 1)
	b.patchU32(76, protoIdsOff)
	b.patchU32(88, 1)
	b.patchU32(92, methodIdsOff)
	b.patchU32(96, 1)
	b.patchU32(100, classDefsOff)

	sig := sha1.Sum(b.buf[32:])
	copy(b.buf[12:32], sig[:])
	sum := adler32.Checksum(b.buf[12:])
	b.patchU32(8, sum)

	return b.buf
}
