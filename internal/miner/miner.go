// Package miner implements Bond's proof-of-work block sealing: searching
// the nonce space of a header until its hash meets the header's own
// target, with cooperative cancellation checked every iteration.
package miner

import (
	"context"
	"time"

	"github.com/aevum-bond/bond-core/bonderr"
	"github.com/aevum-bond/bond-core/pkg/block"
)

// sampleInterval is how often (in attempts) the instantaneous hash rate
// is recomputed.
const sampleInterval = 1000

// Result reports the outcome of a completed mining attempt.
type Result struct {
	HashesAttempted uint64
	Elapsed         time.Duration
	HashRate        float64 // hashes per second: over the last sampleInterval attempts in progress reports, over the whole search in Mine's final result
}

// Miner searches a single header's nonce space. A Miner owns only the
// header template and the cancellation signal passed to Mine — no state
// is shared between concurrent Miners beyond that signal, so multiple
// instances may run in separate goroutines against separate header
// templates without coordination.
type Miner struct{}

// New creates a Miner.
func New() *Miner {
	return &Miner{}
}

// Mine searches header's nonce space starting at zero, setting
// header.Nonce and returning once the header's hash meets header.Target.
// Cancellation is checked at the top of every iteration — the caller's
// ctx must be observed within a single hash attempt's worth of latency.
// If onProgress is non-nil, it's called every sampleInterval attempts
// with the instantaneous hash rate sampled over that window; pass nil to
// skip progress reporting entirely.
//
// If ctx is cancelled before a solution is found, Mine returns
// *bonderr.InvalidProofOfWork with Reason "cancelled" and leaves
// header.Nonce at its last attempted value (no partial state beyond the
// nonce field is mutated). If the entire 64-bit nonce space is exhausted
// without a solution, Mine returns the same error type with Reason
// "nonce space exhausted".
func (m *Miner) Mine(ctx context.Context, header *block.Header, onProgress func(Result)) (*Result, error) {
	start := time.Now()
	lastSample := start
	var sinceSample uint64

	for nonce := uint64(0); ; nonce++ {
		select {
		case <-ctx.Done():
			return nil, &bonderr.InvalidProofOfWork{Reason: "cancelled"}
		default:
		}

		header.Nonce = nonce
		if header.ValidatesPoW() {
			return &Result{
				HashesAttempted: nonce + 1,
				Elapsed:         time.Since(start),
				HashRate:        hashRate(nonce+1, time.Since(start)),
			}, nil
		}

		sinceSample++
		if sinceSample >= sampleInterval {
			now := time.Now()
			if onProgress != nil {
				onProgress(Result{
					HashesAttempted: nonce + 1,
					Elapsed:         now.Sub(start),
					HashRate:        hashRate(sinceSample, now.Sub(lastSample)),
				})
			}
			lastSample = now
			sinceSample = 0
		}

		if nonce == ^uint64(0) {
			return nil, &bonderr.InvalidProofOfWork{
				Hash:   header.Hash().String(),
				Target: header.Target.String(),
				Reason: "nonce space exhausted",
			}
		}
	}
}

func hashRate(attempts uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(attempts) / elapsed.Seconds()
}
