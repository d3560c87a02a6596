// Package dexfile implements the DEX header/map parser, the
// container/verifier that turns a byte image into a validated View,
// and the item accessors for every DEX table and variable-length
// structure.
package dexfile

import (
	"strings"

	"github.com/thanm/dexview/dexcursor"
)

// View is the root, read-only object over a validated DEX image. It
// owns the underlying Container exclusively; every accessor returned
// from a View borrows the image and must not outlive it.
type View struct {
	container Container
	image     []byte
	header    Header
	maplist   MapList

	methodHandlesOff, methodHandlesLen uint32
	callSiteIdsOff, callSiteIdsLen     uint32

	hiddenapiOff, hiddenapiSize uint32
	hasHiddenapi                bool
}

// Open validates and maps path, applying preset's level of integrity
// checking, and returns the resulting View. The open path is atomic:
// on any error nothing is retained and the container (if one was
// created) is closed.
func Open(path string, preset VerifyPreset) (*View, error) {
	fc, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	v, err := openContainer(fc, preset)
	if err != nil {
		fc.Close()
		return nil, err
	}
	return v, nil
}

// OpenBytes validates data in place (no copy) and returns the
// resulting View, borrowing data for the View's lifetime.
func OpenBytes(data []byte, preset VerifyPreset) (*View, error) {
	return openContainer(NewInMemoryContainer(data), preset)
}

func openContainer(c Container, preset VerifyPreset) (*View, error) {
	data := c.Bytes()

	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	if preset >= VerifyChecksumOnly {
		if err := verifyChecksum(data, h); err != nil {
			return nil, err
		}
	}
	if preset >= VerifyAll {
		if err := verifySignature(data, h); err != nil {
			return nil, err
		}
	}

	ml, err := parseMapList(data, h)
	if err != nil {
		return nil, err
	}

	v := &View{container: c, image: data, header: h, maplist: ml}
	if item, ok := ml.Find(TypeMethodHandleItem); ok {
		v.methodHandlesOff = item.Offset
		v.methodHandlesLen = item.Size
	}
	if item, ok := ml.Find(TypeCallSiteIdItem); ok {
		v.callSiteIdsOff = item.Offset
		v.callSiteIdsLen = item.Size
	}
	if item, ok := ml.Find(TypeHiddenapiClassDataItem); ok {
		v.hiddenapiOff = item.Offset
		v.hiddenapiSize = item.Size
		v.hasHiddenapi = true
	}

	return v, nil
}

// Close releases the underlying container (unmapping a mmap'd file).
func (v *View) Close() error { return v.container.Close() }

// Header returns the decoded, structurally-validated header.
func (v *View) Header() Header { return v.header }

// MapList returns the decoded map_list.
func (v *View) MapList() MapList { return v.maplist }

// FileSize returns the image length in bytes.
func (v *View) FileSize() int { return len(v.image) }

// Image borrows the whole underlying byte image. Used by accessors
// that need to hand out sub-slices (e.g. class_data, code_item); most
// callers should prefer the typed accessors instead.
func (v *View) Image() []byte { return v.image }

// GetStringData returns the raw MUTF-8 body (without decoding) of the
// i'th string, borrowed from the image. The returned slice does not
// include the leading ULEB128 length prefix but does include
// everything up to (but not including) the terminating 0x00.
func (v *View) GetStringData(i uint32) ([]byte, error) {
	sid, err := v.GetStringID(i)
	if err != nil {
		return nil, err
	}
	if sid.DataOff >= uint32(len(v.image)) {
		return nil, ErrOutOfBounds
	}
	c := dexcursor.New(v.image, sid.DataOff)
	utf16Len, err := c.ULEB128()
	if err != nil {
		return nil, err
	}
	start := c.Pos()
	end := start
	for end < uint32(len(v.image)) && v.image[end] != 0x00 {
		end++
	}
	_ = utf16Len // consumed to advance past the length prefix; validated in GetUTF16Str
	return v.image[start:end], nil
}

// GetUTF16Str decodes the i'th string to text.
func (v *View) GetUTF16Str(i uint32) (string, error) {
	sid, err := v.GetStringID(i)
	if err != nil {
		return "", err
	}
	if sid.DataOff >= uint32(len(v.image)) {
		return "", ErrOutOfBounds
	}
	c := dexcursor.New(v.image, sid.DataOff)
	utf16Len, err := c.ULEB128()
	if err != nil {
		return "", err
	}
	rest := v.image[c.Pos():]
	s, err := dexcursor.DecodeMUTF8(rest, utf16Len)
	if err != nil {
		return "", mapCursorErr(err)
	}
	return s, nil
}

func mapCursorErr(err error) error {
	switch err {
	case dexcursor.ErrOutOfBounds:
		return ErrOutOfBounds
	case dexcursor.ErrBadEncoding:
		return ErrBadEncoding
	case dexcursor.ErrOverflow:
		return ErrOverflow
	default:
		return err
	}
}

// HiddenapiClassData returns the raw bytes of the hiddenapi class data
// section, if the map list carries one. A missing or malformed entry
// is not an error for the view — callers get ok=false.
func (v *View) HiddenapiClassData() (data []byte, ok bool) {
	if !v.hasHiddenapi {
		return nil, false
	}
	s, err := dexcursor.Slice(v.image, v.hiddenapiOff, v.hiddenapiSize)
	if err != nil {
		return nil, false
	}
	return s, true
}

// PrettyDescriptor converts a JVM type descriptor ("Lfoo/Bar;", "[I",
// "D") into its dotted/bracketed display form ("foo.Bar", "int[]",
// "double").
func PrettyDescriptor(d string) string {
	if d == "" {
		return d
	}
	dims := 0
	pos := 0
	var c rune
	for pos, c = range d {
		if c != '[' {
			break
		}
		dims++
	}

	var base string
	switch c {
	case 'L':
		base = strings.ReplaceAll(d[pos+1:], "/", ".")
		base = strings.TrimSuffix(base, ";")
	case 'B':
		base = "byte"
	case 'C':
		base = "char"
	case 'D':
		base = "double"
	case 'F':
		base = "float"
	case 'I':
		base = "int"
	case 'J':
		base = "long"
	case 'S':
		base = "short"
	case 'Z':
		base = "boolean"
	case 'V':
		base = "void"
	default:
		return d
	}

	if dims > 0 {
		base += strings.Repeat("[]", dims)
	}
	return base
}
