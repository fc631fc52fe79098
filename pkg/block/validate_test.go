package block

import (
	"errors"
	"testing"

	"github.com/aevum-bond/bond-core/bonderr"
	"github.com/aevum-bond/bond-core/pkg/tx"
	"github.com/aevum-bond/bond-core/pkg/types"
)

func testCoinbase() *tx.Transaction {
	return tx.Coinbase(5_000_000_000, []byte{0x51}, nil)
}

func plainTx(seed byte, value uint64) *tx.Transaction {
	return &tx.Transaction{
		Version: 1,
		Inputs: []tx.Input{
			{PreviousRef: types.UnspentRef{TxHash: types.Hash{seed}, OutputIndex: 0}},
		},
		Outputs: []tx.Output{{Value: value, Script: []byte{0x51}}},
	}
}

// validBlock creates a minimal valid block with a correct merkle root.
func validBlock(t *testing.T) *Block {
	t.Helper()

	coinbase := testCoinbase()
	merkleRoot := ComputeMerkleRoot([]types.Hash{coinbase.Hash()})

	header := &Header{
		Version:    CurrentVersion,
		PrevHash:   types.Hash{0xaa},
		MerkleRoot: merkleRoot,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}

	return NewBlock(header, []*tx.Transaction{coinbase})
}

func TestBlock_Validate_Valid(t *testing.T) {
	blk := validBlock(t)
	if err := blk.Validate(); err != nil {
		t.Errorf("valid block should pass: %v", err)
	}
}

func TestBlock_Validate_NilHeader(t *testing.T) {
	blk := &Block{Header: nil}
	if err := blk.Validate(); err == nil {
		t.Error("expected error for nil header")
	}
}

func TestBlock_Validate_BadVersion(t *testing.T) {
	blk := validBlock(t)
	blk.Header.Version = 99
	if err := blk.Validate(); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestBlock_Validate_VersionZero(t *testing.T) {
	blk := validBlock(t)
	blk.Header.Version = 0
	if err := blk.Validate(); err == nil {
		t.Error("expected error for version 0")
	}
}

func TestBlock_Validate_ZeroTimestamp(t *testing.T) {
	blk := validBlock(t)
	blk.Header.Timestamp = 0
	if err := blk.Validate(); err == nil {
		t.Error("expected error for zero timestamp")
	}
}

func TestBlock_Validate_NoTransactions(t *testing.T) {
	blk := &Block{
		Header: &Header{
			Version:   CurrentVersion,
			Timestamp: 1700000000,
		},
		Transactions: nil,
	}
	if err := blk.Validate(); err == nil {
		t.Error("expected error for empty transaction list")
	}
}

func TestBlock_Validate_BadMerkleRoot(t *testing.T) {
	blk := validBlock(t)
	blk.Header.MerkleRoot = types.Hash{0xde, 0xad}
	err := blk.Validate()
	var merkleErr *bonderr.InvalidBlockHash
	if !errors.As(err, &merkleErr) {
		t.Errorf("expected *bonderr.InvalidBlockHash, got: %v", err)
	}
}

func TestBlock_Validate_InvalidTransaction(t *testing.T) {
	coinbase := testCoinbase()
	badTx := &tx.Transaction{
		Version: 1,
		Inputs:  []tx.Input{{PreviousRef: types.UnspentRef{TxHash: types.Hash{0x01}}}},
		Outputs: []tx.Output{{Value: 0, Script: []byte{0x51}}}, // zero-value output
	}

	txs := []*tx.Transaction{coinbase, badTx}
	hashes := []types.Hash{txs[0].Hash(), txs[1].Hash()}
	merkle := ComputeMerkleRoot(hashes)

	blk := NewBlock(&Header{
		Version:    CurrentVersion,
		MerkleRoot: merkle,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}, txs)

	if err := blk.Validate(); err == nil {
		t.Error("block with a structurally invalid tx should fail validation")
	}
}

func TestBlock_Validate_MultipleTxs(t *testing.T) {
	coinbase := testCoinbase()

	userTxs := []*tx.Transaction{plainTx(0x01, 1000), plainTx(0x02, 2000)}

	txs := append([]*tx.Transaction{coinbase}, userTxs...)

	hashes := make([]types.Hash, len(txs))
	for i, t := range txs {
		hashes[i] = t.Hash()
	}
	merkle := ComputeMerkleRoot(hashes)

	blk := NewBlock(&Header{
		Version:    CurrentVersion,
		MerkleRoot: merkle,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}, txs)

	if err := blk.Validate(); err != nil {
		t.Errorf("multi-tx block should validate: %v", err)
	}
}

func TestBlock_Validate_NoCoinbase(t *testing.T) {
	transaction := plainTx(0x01, 1000)
	merkle := ComputeMerkleRoot([]types.Hash{transaction.Hash()})
	blk := NewBlock(&Header{
		Version:    CurrentVersion,
		MerkleRoot: merkle,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}, []*tx.Transaction{transaction})

	if err := blk.Validate(); err == nil {
		t.Error("expected error when first transaction is not coinbase")
	}
}

func TestBlock_Validate_MultipleCoinbase(t *testing.T) {
	coinbase1 := testCoinbase()
	coinbase2 := tx.Coinbase(1, []byte{0x51}, []byte("second"))

	txs := []*tx.Transaction{coinbase1, coinbase2}
	hashes := []types.Hash{txs[0].Hash(), txs[1].Hash()}
	merkle := ComputeMerkleRoot(hashes)

	blk := NewBlock(&Header{
		Version:    CurrentVersion,
		MerkleRoot: merkle,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}, txs)

	if err := blk.Validate(); err == nil {
		t.Error("expected error for a second coinbase transaction")
	}
}

func TestBlock_Validate_DuplicateInputAcrossTransactions(t *testing.T) {
	coinbase := testCoinbase()
	ref := types.UnspentRef{TxHash: types.Hash{0x01}, OutputIndex: 0}

	t1 := &tx.Transaction{
		Version: 1,
		Inputs:  []tx.Input{{PreviousRef: ref}},
		Outputs: []tx.Output{{Value: 1000, Script: []byte{0x51}}},
	}
	t2 := &tx.Transaction{
		Version: 1,
		Inputs:  []tx.Input{{PreviousRef: ref}},
		Outputs: []tx.Output{{Value: 2000, Script: []byte{0x51}}},
	}

	userTxs := []*tx.Transaction{t1, t2}
	txs := append([]*tx.Transaction{coinbase}, userTxs...)

	hashes := make([]types.Hash, len(txs))
	for i, tr := range txs {
		hashes[i] = tr.Hash()
	}
	merkle := ComputeMerkleRoot(hashes)

	blk := NewBlock(&Header{
		Version:    CurrentVersion,
		MerkleRoot: merkle,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}, txs)

	err := blk.Validate()
	var dup *bonderr.DoubleSpending
	if !errors.As(err, &dup) {
		t.Errorf("expected *bonderr.DoubleSpending, got: %v", err)
	}
}

func TestBlock_Validate_BlockTooLarge(t *testing.T) {
	bigScript := make([]byte, MaxBlockSize)
	coinbase := &tx.Transaction{
		Version: 1,
		Inputs:  []tx.Input{{PreviousRef: types.CoinbaseRef(), Sequence: 0xFFFFFFFF}},
		Outputs: []tx.Output{{Value: 1000, Script: bigScript}},
	}

	merkle := ComputeMerkleRoot([]types.Hash{coinbase.Hash()})

	blk := NewBlock(&Header{
		Version:    CurrentVersion,
		MerkleRoot: merkle,
		Timestamp:  1700000000,
		Target:     types.MaxTarget,
	}, []*tx.Transaction{coinbase})

	if err := blk.Validate(); err == nil {
		t.Error("expected error for a block exceeding MaxBlockSize")
	}
}

func TestBlock_Hash(t *testing.T) {
	blk := validBlock(t)
	h := blk.Hash()
	if h.IsZero() {
		t.Error("Block.Hash() should not be zero")
	}

	blk2 := &Block{}
	if !blk2.Hash().IsZero() {
		t.Error("Block.Hash() with nil header should be zero")
	}
}

func TestHeader_Hash_Deterministic(t *testing.T) {
	h := &Header{
		Version:   1,
		PrevHash:  types.Hash{0x01},
		Timestamp: 1700000000,
		Target:    types.MaxTarget,
	}

	h1 := h.Hash()
	h2 := h.Hash()
	if h1 != h2 {
		t.Error("Header.Hash() should be deterministic")
	}
	if h1.IsZero() {
		t.Error("Header.Hash() should not be zero")
	}
}
