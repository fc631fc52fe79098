package block

import (
	"github.com/aevum-bond/bond-core/bonderr"
	"github.com/aevum-bond/bond-core/pkg/tx"
	"github.com/aevum-bond/bond-core/pkg/types"
)

// Block version constants.
const (
	CurrentVersion = 1 // The current block version produced by this software.
	MaxVersion     = 1 // Bump when a fork introduces a new block version.
)

// Validate checks block structure and internal consistency: well-formed
// header, a single leading coinbase, a correct merkle root, and no
// duplicate spends within the block. It does NOT verify proof of work or
// UTXO existence against chain state (see internal/consensus and
// internal/chain for that).
func (b *Block) Validate() error {
	if b.Header == nil {
		return &bonderr.InvalidTransaction{Reason: "block has nil header"}
	}

	if b.Header.Version < 1 || b.Header.Version > MaxVersion {
		return &bonderr.InvalidTransaction{Reason: "unsupported block version"}
	}

	if b.Header.Timestamp == 0 {
		return &bonderr.InvalidTransaction{Reason: "block timestamp is zero"}
	}

	if len(b.Transactions) == 0 {
		return &bonderr.InvalidTransaction{Reason: "block has no transactions"}
	}

	blockSize := len(b.Header.SigningBytes())
	for _, t := range b.Transactions {
		blockSize += len(t.SigningBytes())
	}
	if blockSize > MaxBlockSize {
		return &bonderr.InvalidTransaction{Reason: "block exceeds maximum size"}
	}

	if !b.Transactions[0].IsCoinbase() {
		return &bonderr.InvalidTransaction{Reason: "first transaction must be coinbase"}
	}
	for _, t := range b.Transactions[1:] {
		if t.IsCoinbase() {
			return &bonderr.InvalidTransaction{Reason: "multiple coinbase transactions in block"}
		}
	}

	txHashes := make([]types.Hash, len(b.Transactions))
	for i, t := range b.Transactions {
		txHashes[i] = t.Hash()
	}
	expectedRoot := ComputeMerkleRoot(txHashes)
	if b.Header.MerkleRoot != expectedRoot {
		return &bonderr.InvalidBlockHash{
			Expected: expectedRoot.String(),
			Actual:   b.Header.MerkleRoot.String(),
		}
	}

	for _, t := range b.Transactions {
		if err := t.ValidateStructural(); err != nil {
			return err
		}
	}

	// Duplicate inputs across different transactions in the same block.
	// (Per-transaction duplicates would already fail ValidateStructural in a
	// richer implementation; this catches cross-transaction double spends.)
	allInputs := make(map[types.UnspentRef]int)
	for i, t := range b.Transactions {
		for _, in := range t.Inputs {
			if in.PreviousRef.IsCoinbaseRef() {
				continue
			}
			if _, exists := allInputs[in.PreviousRef]; exists {
				return &bonderr.DoubleSpending{Ref: in.PreviousRef.String()}
			}
			allInputs[in.PreviousRef] = i
		}
	}

	return nil
}

// Hash returns the block header hash.
func (b *Block) Hash() types.Hash {
	if b.Header == nil {
		return types.Hash{}
	}
	return b.Header.Hash()
}
