// Package genesis constructs Bond's fixed genesis block: the single
// hardcoded first block every node starts its chain from, identical
// across all nodes on the network.
package genesis

import (
	"github.com/aevum-bond/bond-core/pkg/block"
	"github.com/aevum-bond/bond-core/pkg/tx"
	"github.com/aevum-bond/bond-core/pkg/types"
)

// Timestamp is the genesis block's fixed Unix timestamp:
// 2025-09-01T00:00:00Z.
const Timestamp uint64 = 1756684800

// Reward is the coinbase value of the genesis block, in Elo (Bond's
// smallest unit).
const Reward uint64 = 5_000_000_000

// Payload is folded into the genesis coinbase's auth script, the
// network's equivalent of a block-zero message.
const Payload = "Aevum & Bond Genesis - Building the Post-Quantum Financial Future"

// Block builds the genesis block. It is fully deterministic: every node
// on the network constructs the byte-identical block, so it carries no
// parameters.
func Block() *block.Block {
	coinbase := tx.Coinbase(Reward, []byte{0x51}, []byte(Payload))
	coinbase.Timestamp = Timestamp

	txHash := coinbase.Hash()
	header := &block.Header{
		Version:    block.CurrentVersion,
		PrevHash:   types.Hash{},
		MerkleRoot: txHash,
		Timestamp:  Timestamp,
		Target:     types.MaxTarget,
		Nonce:      0,
	}

	return &block.Block{
		Header:       header,
		Transactions: []*tx.Transaction{coinbase},
	}
}
