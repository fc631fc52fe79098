// Package block defines Bond's block header and block types: canonical
// serialization, merkle root computation, and structural validation.
package block

import (
	"encoding/binary"

	"github.com/aevum-bond/bond-core/pkg/crypto"
	"github.com/aevum-bond/bond-core/pkg/types"
)

// Header contains block metadata, including the proof-of-work nonce.
type Header struct {
	Version    uint32                `json:"version"`
	PrevHash   types.Hash            `json:"prev_hash"`
	MerkleRoot types.Hash            `json:"merkle_root"`
	Timestamp  uint64                `json:"timestamp"`
	Target     types.DifficultyTarget `json:"target"`
	Nonce      uint64                `json:"nonce"`
}

// Hash computes the block header hash: a header is valid proof of work
// iff Hash(header) is less than or equal to Target.
func (h *Header) Hash() types.Hash {
	return crypto.Hash(h.SigningBytes())
}

// SigningBytes returns the canonical little-endian byte encoding of the
// header used for hashing.
// Format: version(4) | prev_hash(32) | merkle_root(32) | timestamp(8) | target(32) | nonce(8)
func (h *Header) SigningBytes() []byte {
	buf := make([]byte, 0, 116)
	buf = binary.LittleEndian.AppendUint32(buf, h.Version)
	buf = append(buf, h.PrevHash[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, h.Timestamp)
	buf = append(buf, h.Target[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, h.Nonce)
	return buf
}

// ValidatesPoW reports whether the header's hash meets its own target.
func (h *Header) ValidatesPoW() bool {
	return types.MeetsTarget(h.Hash(), h.Target)
}
