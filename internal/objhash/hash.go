// Package objhash implements the content hash used to derive object ids
// throughout the store: a pure function from a byte sequence to a short
// lowercase hex digest. Same input always yields the same digest; the
// algorithm itself is not cryptographic-strength by spec (collisions are
// not defended against), so a truncated real digest is as acceptable as
// a rolling polynomial.
package objhash

import (
	"encoding/hex"

	"github.com/multiformats/go-multihash"
)

// shortLen is the number of hex characters kept from the underlying
// digest. 16 hex chars (64 bits) keeps object ids short and readable in
// directory listings while leaving collision probability far below
// anything this toy store's scale would ever hit.
const shortLen = 16

// Sum returns the object id for b: a lowercase hex string matching
// [0-9a-f]+, deterministic in b.
func Sum(b []byte) string {
	digest, err := multihash.Sum(b, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only fails on an unsupported code/length; SHA2_256
		// with length -1 (the hash's native size) never does.
		panic("objhash: " + err.Error())
	}

	// digest is a multihash envelope (varint code + varint length +
	// raw bytes); strip the two-byte SHA2-256/32-byte header used by
	// this fixed code+length pair and hex-encode the raw digest.
	raw := []byte(digest)[2:]
	full := hex.EncodeToString(raw)
	if len(full) < shortLen {
		return full
	}
	return full[:shortLen]
}
