// Package chain implements Bond's chain-state engine: the single-owner
// object holding the canonical block list and unspent-output index, and
// the atomic add_block pipeline that mutates them.
package chain

import (
	"bytes"
	"sync"

	"github.com/aevum-bond/bond-core/bonderr"
	"github.com/aevum-bond/bond-core/internal/consensus"
	"github.com/aevum-bond/bond-core/pkg/block"
	"github.com/aevum-bond/bond-core/pkg/script"
	"github.com/aevum-bond/bond-core/pkg/tx"
	"github.com/aevum-bond/bond-core/pkg/types"
)

// medianWindow mirrors consensus's predecessor-timestamp window.
const medianWindow = 11

// Stats summarizes the chain's current state for external observers.
type Stats struct {
	Height            uint64
	TotalTransactions uint64
	UTXOCount         uint64
	TotalSupply       uint64
	AverageBlockTime  float64 // seconds, over the last up-to-100 blocks
}

// State owns the canonical block list and unspent-output index. It is a
// single-owner object: AddBlock is the only mutator, and it runs under a
// mutex so concurrent callers serialize rather than race. Readers observe
// a consistent snapshot at any point between calls.
type State struct {
	mu sync.Mutex

	blocks []*block.Block
	utxos  map[types.UnspentRef]tx.Output

	pow       *consensus.PoW
	verifier  script.Verifier
	scriptVM  *script.Machine
	validator *consensus.Validator
}

// New creates an empty chain state driven by the given proof-of-work
// engine and signature verifier. The chain has no blocks until AddBlock
// is called with a genesis block (see internal/genesis).
func New(pow *consensus.PoW, verifier script.Verifier) *State {
	return &State{
		utxos:     make(map[types.UnspentRef]tx.Output),
		pow:       pow,
		verifier:  verifier,
		scriptVM:  script.New(),
		validator: consensus.NewValidator(pow),
	}
}

// Height returns the number of blocks applied so far.
func (s *State) Height() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.blocks))
}

// LatestBlock returns the most recently applied block, or nil if the
// chain is empty.
func (s *State) LatestBlock() *block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.blocks) == 0 {
		return nil
	}
	return s.blocks[len(s.blocks)-1]
}

// GetBlock returns the block at the given 1-indexed height (the block
// that brought the chain to that height), or an error if out of range.
func (s *State) GetBlock(height uint64) (*block.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getBlockLocked(height)
}

func (s *State) getBlockLocked(height uint64) (*block.Block, error) {
	if height == 0 || height > uint64(len(s.blocks)) {
		return nil, &bonderr.InvalidTransaction{Reason: "block height out of range"}
	}
	return s.blocks[height-1], nil
}

// GetBlocksRange returns blocks in [start, end], 1-indexed and inclusive.
func (s *State) GetBlocksRange(start, end uint64) ([]*block.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if start == 0 || start > end || end > uint64(len(s.blocks)) {
		return nil, &bonderr.InvalidTransaction{Reason: "block range out of bounds"}
	}
	out := make([]*block.Block, 0, end-start+1)
	for h := start; h <= end; h++ {
		out = append(out, s.blocks[h-1])
	}
	return out, nil
}

// HasUTXO reports whether ref is present in the unspent-output index.
func (s *State) HasUTXO(ref types.UnspentRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.utxos[ref]
	return ok
}

// GetUTXO returns the output for ref, if unspent.
func (s *State) GetUTXO(ref types.UnspentRef) (tx.Output, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.utxos[ref]
	return out, ok
}

// FindUTXOsByScriptPrefix returns every unspent output whose locking
// script starts with prefix, along with the reference each is held
// under. Iteration order is not specified.
func (s *State) FindUTXOsByScriptPrefix(prefix []byte) map[types.UnspentRef]tx.Output {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make(map[types.UnspentRef]tx.Output)
	for ref, out := range s.utxos {
		if bytes.HasPrefix(out.Script, prefix) {
			matches[ref] = out
		}
	}
	return matches
}

// Stats computes summary statistics over the current chain state.
func (s *State) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *State) statsLocked() Stats {
	var totalTxs, totalSupply uint64
	for _, blk := range s.blocks {
		totalTxs += uint64(len(blk.Transactions))
	}
	for _, out := range s.utxos {
		totalSupply += out.Value
	}

	stats := Stats{
		Height:            uint64(len(s.blocks)),
		TotalTransactions: totalTxs,
		UTXOCount:         uint64(len(s.utxos)),
		TotalSupply:       totalSupply,
	}

	n := len(s.blocks)
	window := n
	if window > 100 {
		window = 100
	}
	if window >= 2 {
		first := s.blocks[n-window]
		last := s.blocks[n-1]
		stats.AverageBlockTime = float64(last.Header.Timestamp-first.Header.Timestamp) / float64(window-1)
	}

	return stats
}

// recentTimestamps returns up to medianWindow of the most recent applied
// block timestamps, oldest first — the predecessor window consensus's
// timestamp policy checks a new block's timestamp against.
func (s *State) recentTimestamps() []uint64 {
	n := len(s.blocks)
	window := n
	if window > medianWindow {
		window = medianWindow
	}
	out := make([]uint64, window)
	for i := 0; i < window; i++ {
		out[i] = s.blocks[n-window+i].Header.Timestamp
	}
	return out
}
