package types

import (
	"fmt"
	"math"
)

// UnspentRef identifies a specific output of a specific transaction.
type UnspentRef struct {
	TxHash      Hash   `json:"tx_hash"`
	OutputIndex uint32 `json:"output_index"`
}

// CoinbaseOutputIndex is the sentinel output index used by the single
// input of a coinbase transaction; it never denotes a real output.
const CoinbaseOutputIndex = math.MaxUint32

// CoinbaseRef returns the sentinel reference a coinbase transaction's sole
// input must carry: a zero transaction hash and CoinbaseOutputIndex.
func CoinbaseRef() UnspentRef {
	return UnspentRef{TxHash: Hash{}, OutputIndex: CoinbaseOutputIndex}
}

// IsCoinbaseRef reports whether r is the coinbase sentinel reference.
func (r UnspentRef) IsCoinbaseRef() bool {
	return r.TxHash.IsZero() && r.OutputIndex == CoinbaseOutputIndex
}

// String returns "txhash:index" in hex.
func (r UnspentRef) String() string {
	return fmt.Sprintf("%s:%d", r.TxHash.String(), r.OutputIndex)
}
