package dexinstr

import "errors"

var (
	// ErrOutOfBounds is returned when an instruction's declared size
	// would read past the end of the code-unit stream.
	ErrOutOfBounds = errors.New("dexinstr: out of bounds")

	// ErrBadOpcode is returned when the opcode at a position maps to
	// FormatInvalid — a reserved/unused opcode.
	ErrBadOpcode = errors.New("dexinstr: bad opcode")

	// ErrOperandAccess is returned by an operand accessor called on an
	// instruction whose format doesn't carry that operand.
	ErrOperandAccess = errors.New("dexinstr: instruction has no such operand")

	// ErrMalformedPayload is returned when a payload pseudo-instruction's
	// declared size doesn't fit in the remaining code-unit stream.
	ErrMalformedPayload = errors.New("dexinstr: malformed payload")
)
