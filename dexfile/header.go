package dexfile

import (
	"fmt"

	"github.com/thanm/dexview/dexcursor"
)

const (
	// HeaderSize is the fixed byte size of the DEX header_item, and the
	// only value header_size is ever allowed to hold.
	HeaderSize = 0x70

	// EndianConstant is the little-endian endian_tag value. The
	// big-endian variant (ReverseEndianConstant) is a legal DEX
	// constant on paper but this reader only accepts little endian
	// files, so it is treated as a hard rejection.
	EndianConstant        = 0x12345678
	ReverseEndianConstant = 0x78563412

	// NoIndex is the sentinel marking an absent index in DEX records.
	NoIndex = 0xFFFFFFFF
)

// dexMagicPrefix is the fixed "dex\n" prefix shared by every version.
var dexMagicPrefix = [4]byte{0x64, 0x65, 0x78, 0x0a}

// knownVersions enumerates the version triplets this reader accepts,
// matching the file format this reader consumes: 035, 037, 038, 039.
var knownVersions = map[[4]byte]string{
	{0x30, 0x33, 0x35, 0x00}: "035",
	{0x30, 0x33, 0x37, 0x00}: "037",
	{0x30, 0x33, 0x38, 0x00}: "038",
	{0x30, 0x33, 0x39, 0x00}: "039",
}

// Header is the decoded fixed-size header_item. Every offset/size pair
// here has been bounds-checked against the file size by the time
// parseHeader returns successfully.
type Header struct {
	Magic         [8]byte
	Checksum      uint32
	Signature     [20]byte
	FileSize      uint32
	HeaderSize    uint32
	EndianTag     uint32
	LinkSize      uint32
	LinkOff       uint32
	MapOff        uint32
	StringIdsSize uint32
	StringIdsOff  uint32
	TypeIdsSize   uint32
	TypeIdsOff    uint32
	ProtoIdsSize  uint32
	ProtoIdsOff   uint32
	FieldIdsSize  uint32
	FieldIdsOff   uint32
	MethodIdsSize uint32
	MethodIdsOff  uint32
	ClassDefsSize uint32
	ClassDefsOff  uint32
	DataSize      uint32
	DataOff       uint32

	// Version is the decoded three-digit version string, e.g. "035".
	Version string
}

// parseHeader decodes and structurally validates the 112-byte header at
// the start of data. It never checks the checksum or signature; that is
// the verifier's job (see verifier.go), run only when the caller's
// VerifyPreset asks for it.
func parseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: file smaller than header (%d bytes)", ErrOutOfBounds, len(data))
	}

	c := dexcursor.New(data, 0)
	magic, err := c.Bytes(8)
	if err != nil {
		return h, err
	}
	copy(h.Magic[:], magic)
	if [4]byte(h.Magic[:4]) != dexMagicPrefix {
		return h, ErrBadMagic
	}
	var versionKey [4]byte
	copy(versionKey[:], h.Magic[4:8])
	version, ok := knownVersions[versionKey]
	if !ok {
		return h, fmt.Errorf("%w: %x", ErrBadVersion, h.Magic[4:8])
	}
	h.Version = version

	if h.Checksum, err = c.U32(); err != nil {
		return h, err
	}
	sig, err := c.Bytes(20)
	if err != nil {
		return h, err
	}
	copy(h.Signature[:], sig)

	fields := []*uint32{
		&h.FileSize, &h.HeaderSize, &h.EndianTag,
		&h.LinkSize, &h.LinkOff, &h.MapOff,
		&h.StringIdsSize, &h.StringIdsOff,
		&h.TypeIdsSize, &h.TypeIdsOff,
		&h.ProtoIdsSize, &h.ProtoIdsOff,
		&h.FieldIdsSize, &h.FieldIdsOff,
		&h.MethodIdsSize, &h.MethodIdsOff,
		&h.ClassDefsSize, &h.ClassDefsOff,
		&h.DataSize, &h.DataOff,
	}
	for _, f := range fields {
		v, err := c.U32()
		if err != nil {
			return h, err
		}
		*f = v
	}

	if h.HeaderSize != HeaderSize {
		return h, fmt.Errorf("%w: %d, expected %d", ErrBadHeaderSize, h.HeaderSize, HeaderSize)
	}
	if h.EndianTag != EndianConstant {
		return h, fmt.Errorf("%w: %#x", ErrBadEndianTag, h.EndianTag)
	}
	if h.FileSize != uint32(len(data)) {
		return h, fmt.Errorf("%w: header says %d, image is %d bytes", ErrBadFileSize, h.FileSize, len(data))
	}

	if err := checkSection(len(data), h.LinkOff, h.LinkSize, 1, "link_data"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.DataOff, h.DataSize, 1, "data"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.StringIdsOff, h.StringIdsSize, 4, "string_ids"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.TypeIdsOff, h.TypeIdsSize, 4, "type_ids"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.ProtoIdsOff, h.ProtoIdsSize, 12, "proto_ids"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.FieldIdsOff, h.FieldIdsSize, 8, "field_ids"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.MethodIdsOff, h.MethodIdsSize, 8, "method_ids"); err != nil {
		return h, err
	}
	if err := checkSection(len(data), h.ClassDefsOff, h.ClassDefsSize, 32, "class_defs"); err != nil {
		return h, err
	}

	return h, nil
}

// checkSection validates that a table of count records of recordSize
// bytes each, starting at off, fits within a file of length fileSize.
// Only *_off + *_size*record_size <= file_size is required, so a
// zero-sized table may have any offset from zero up to file_size; an
// offset past the end of the file is rejected even when size is zero.
func checkSection(fileSize int, off, count, recordSize uint32, section string) error {
	end := uint64(off) + uint64(count)*uint64(recordSize)
	if end > uint64(fileSize) {
		return fmt.Errorf("%w: %s ends at %d, file size %d", ErrOutOfBounds, section, end, fileSize)
	}
	return nil
}
