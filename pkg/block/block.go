package block

import "github.com/aevum-bond/bond-core/pkg/tx"

// MaxBlockSize is the maximum encoded size of a block, in bytes.
const MaxBlockSize = 4 * 1024 * 1024 // 4 MiB

// Block is a header together with the transactions it commits to via the
// header's merkle root.
type Block struct {
	Header       *Header           `json:"header"`
	Transactions []*tx.Transaction `json:"transactions"`
}

// NewBlock creates a new block with the given header and transactions.
func NewBlock(header *Header, txs []*tx.Transaction) *Block {
	return &Block{Header: header, Transactions: txs}
}
