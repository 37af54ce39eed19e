package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 sum.
type Digest [32]byte

// Sum hashes data.
func Sum(data []byte) Digest { return sha256.Sum256(data) }

// Combine hashes the concatenation content || parts[0] || parts[1] ...
// The caller keeps parts in a deterministic order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) IsZero() bool { return d == Digest{} }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Short is the first 12 hex digits, for status lines.
func (d Digest) Short() string { return d.String()[:12] }
