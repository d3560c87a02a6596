package dexfile

import (
	"crypto/sha1"
	"fmt"
	"hash/adler32"
)

// VerifyPreset controls how much integrity checking Open performs
// beyond the mandatory structural parse of the header and map list.
type VerifyPreset int

const (
	// VerifyNone runs only the structural parse.
	VerifyNone VerifyPreset = iota
	// VerifyChecksumOnly additionally checks the Adler-32 checksum.
	VerifyChecksumOnly
	// VerifyAll additionally checks the SHA-1 signature.
	VerifyAll
)

// checksumRegionStart is the byte offset the checksum is computed
// from: everything after the checksum field itself.
const checksumRegionStart = 12

// signatureRegionStart is the byte offset the signature is computed
// from: everything after the checksum and signature fields.
const signatureRegionStart = 32

func verifyChecksum(data []byte, h Header) error {
	sum := adler32.Checksum(data[checksumRegionStart:])
	if sum != h.Checksum {
		return fmt.Errorf("%w: computed %#08x, header says %#08x", ErrBadChecksum, sum, h.Checksum)
	}
	return nil
}

func verifySignature(data []byte, h Header) error {
	sum := sha1.Sum(data[signatureRegionStart:])
	if sum != [20]byte(h.Signature) {
		return fmt.Errorf("%w: computed %x, header says %x", ErrBadSignature, sum, h.Signature)
	}
	return nil
}
