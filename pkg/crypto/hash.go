// Package crypto provides the canonical hashing primitives for Bond: a
// single Keccak-256 hash function used for block hashes, transaction
// hashes, signature hashes, and merkle roots alike.
package crypto

import (
	"github.com/aevum-bond/bond-core/pkg/types"
	"golang.org/x/crypto/sha3"
)

// Hash computes the Keccak-256 digest of data. This is the legacy Keccak
// padding (pre-NIST-standardization), not the later SHA3-256 standard —
// the two differ in their padding byte and produce different digests for
// the same input.
func Hash(data []byte) types.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// DoubleHash computes Hash(Hash(data)).
func DoubleHash(data []byte) types.Hash {
	first := Hash(data)
	return Hash(first[:])
}

// HashConcat hashes the concatenation of two hashes. Used for building
// merkle trees.
func HashConcat(a, b types.Hash) types.Hash {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return Hash(buf[:])
}
