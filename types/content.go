package types

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Content is an opaque fingerprint of a claimed document. Any two
// equal fingerprints refer to the same claim.
type Content string

// FingerprintOf derives a Content fingerprint from raw document bytes
// as the hex encoded BLAKE3-256 digest.
func FingerprintOf(data []byte) Content {
	sum := blake3.Sum256(data)
	return Content(hex.EncodeToString(sum[:]))
}
