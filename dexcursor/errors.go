package dexcursor

import "errors"

// Sentinel errors returned by the cursor primitives. Higher layers wrap
// these with fmt.Errorf("%w", ...) to add offset/section context.
var (
	// ErrOutOfBounds is returned by any read that would consume bytes
	// past the end of the borrowed image.
	ErrOutOfBounds = errors.New("dexcursor: read out of bounds")

	// ErrBadEncoding is returned when a variable-length encoding
	// (MUTF-8) contains a byte sequence that isn't legal DEX MUTF-8.
	ErrBadEncoding = errors.New("dexcursor: bad encoding")

	// ErrOverflow is returned when a LEB128 family value would need
	// more than 5 bytes to represent (the maximum for a 32-bit value).
	ErrOverflow = errors.New("dexcursor: leb128 overflow")
)
