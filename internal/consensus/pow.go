package consensus

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/aevum-bond/bond-core/pkg/block"
	"github.com/aevum-bond/bond-core/pkg/types"
)

// PoW errors.
var (
	ErrInsufficientWork = errors.New("hash does not meet difficulty target")
	ErrZeroTarget       = errors.New("target must be non-zero")
	ErrBadDifficulty    = errors.New("block target does not match expected retarget")
	ErrFutureTimestamp  = errors.New("block timestamp too far in the future")
	ErrStaleTimestamp   = errors.New("block timestamp not after predecessor median")
)

// maxTargetInt is 2^256 - 1, the numeric value of types.MaxTarget.
var maxTargetInt = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// maxFutureDrift bounds how far ahead of wall-clock time a header's
// timestamp may be.
const maxFutureDrift = 2 * time.Hour

// medianWindow is how many immediate predecessor timestamps are used to
// compute the minimum-allowed timestamp for a new block.
const medianWindow = 11

// PoW implements Bond's proof-of-work consensus. The engine itself holds
// no mutable per-chain state; every target is encoded in the block
// header and verified against retargeting rules computed from chain
// history.
type PoW struct {
	InitialTarget   types.DifficultyTarget
	AdjustInterval  int // blocks between difficulty adjustments, 0 = no adjustment
	TargetBlockTime int // target seconds between blocks

	// StrictDifficulty, when true, rejects blocks whose header target
	// doesn't match the computed retarget exactly. When false, a mismatch
	// is only logged by the caller (see internal/log), never rejected.
	StrictDifficulty bool
}

// NewPoW creates a new PoW engine.
func NewPoW(initialTarget types.DifficultyTarget, adjustInterval, targetBlockTime int, strict bool) (*PoW, error) {
	if initialTarget == (types.DifficultyTarget{}) {
		return nil, ErrZeroTarget
	}
	return &PoW{
		InitialTarget:    initialTarget,
		AdjustInterval:   adjustInterval,
		TargetBlockTime:  targetBlockTime,
		StrictDifficulty: strict,
	}, nil
}

// ShouldAdjust returns true if the target should be recalculated at this height.
func (p *PoW) ShouldAdjust(height uint64) bool {
	return height > 0 && p.AdjustInterval > 0 && height%uint64(p.AdjustInterval) == 0
}

// VerifyHeader checks that the block header hash meets its own stated
// target (full 256-bit big-endian comparison, never a truncated
// approximation).
func (p *PoW) VerifyHeader(header *block.Header) error {
	if header.Target == (types.DifficultyTarget{}) {
		return ErrZeroTarget
	}
	if !header.ValidatesPoW() {
		return ErrInsufficientWork
	}
	return nil
}

// VerifyTimestamp checks a header's timestamp against wall-clock drift and
// predecessor monotonicity. predecessorTimestamps holds up to the last
// medianWindow ancestor timestamps, oldest first.
func (p *PoW) VerifyTimestamp(header *block.Header, now time.Time, predecessorTimestamps []uint64) error {
	maxAllowed := uint64(now.Add(maxFutureDrift).Unix())
	if header.Timestamp > maxAllowed {
		return ErrFutureTimestamp
	}
	if len(predecessorTimestamps) == 0 {
		return nil
	}
	m := median(predecessorTimestamps)
	if header.Timestamp <= m {
		return ErrStaleTimestamp
	}
	return nil
}

func median(timestamps []uint64) uint64 {
	sorted := append([]uint64(nil), timestamps...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted[len(sorted)/2]
}

// targetToInt lifts a 32-byte target into a big-endian big.Int.
func targetToInt(t types.DifficultyTarget) *big.Int {
	return new(big.Int).SetBytes(t[:])
}

// intToTarget lowers a big.Int back into a 32-byte big-endian target,
// clamping to [MinTarget, MaxTarget].
func intToTarget(i *big.Int) types.DifficultyTarget {
	if i.Sign() <= 0 {
		return types.MinTarget
	}
	if i.Cmp(maxTargetInt) > 0 {
		return types.MaxTarget
	}
	b := i.Bytes()
	var out types.DifficultyTarget
	copy(out[types.TargetSize-len(b):], b)
	return out
}

// ExpectedTarget computes the correct target for a block at the given
// height. prevTarget is the target from the block at height-1 (zero for
// height <= 1). getTimestamp retrieves a block's timestamp by height.
func (p *PoW) ExpectedTarget(height uint64, prevTarget types.DifficultyTarget, getTimestamp func(uint64) (uint64, error)) types.DifficultyTarget {
	if height <= 1 || prevTarget == (types.DifficultyTarget{}) {
		return p.InitialTarget
	}
	if !p.ShouldAdjust(height) {
		return prevTarget
	}

	interval := uint64(p.AdjustInterval)
	startTS, err := getTimestamp(height - interval)
	if err != nil {
		return prevTarget
	}
	endTS, err := getTimestamp(height - 1)
	if err != nil {
		return prevTarget
	}

	actual := int64(endTS - startTS)
	expected := int64(p.AdjustInterval) * int64(p.TargetBlockTime)
	return CalcNextTarget(prevTarget, actual, expected)
}

// VerifyDifficulty checks that a block header's target matches the
// expected retarget computed from chain history, honoring
// StrictDifficulty. The caller is responsible for logging a mismatch when
// StrictDifficulty is false; VerifyDifficulty only reports the mismatch
// as a (possibly soft) return value via the returned bool.
func (p *PoW) VerifyDifficulty(header *block.Header, height uint64, prevTarget types.DifficultyTarget, getTimestamp func(uint64) (uint64, error)) (matched bool, err error) {
	expected := p.ExpectedTarget(height, prevTarget, getTimestamp)
	if header.Target == expected {
		return true, nil
	}
	if p.StrictDifficulty {
		return false, fmt.Errorf("%w: height %d has target %s, want %s",
			ErrBadDifficulty, height, header.Target, expected)
	}
	return false, nil
}

// CalcNextTarget computes the new target after a retarget period, by
// scaling the current target by actualTimeSpan/expectedTimeSpan, clamped
// to a factor of [0.25, 4.0] per period (matching the donor's clamp
// bounds, ported from scalar difficulty to 256-bit target arithmetic). A
// faster-than-expected period tightens the target (lower value, harder);
// a slower period loosens it (higher value, easier).
func CalcNextTarget(currentTarget types.DifficultyTarget, actualTimeSpan, expectedTimeSpan int64) types.DifficultyTarget {
	if actualTimeSpan <= 0 {
		actualTimeSpan = 1
	}
	if expectedTimeSpan <= 0 {
		expectedTimeSpan = 1
	}

	minSpan := expectedTimeSpan / 4
	if minSpan == 0 {
		minSpan = 1
	}
	maxSpan := expectedTimeSpan * 4
	if actualTimeSpan < minSpan {
		actualTimeSpan = minSpan
	}
	if actualTimeSpan > maxSpan {
		actualTimeSpan = maxSpan
	}

	cur := targetToInt(currentTarget)
	act := big.NewInt(actualTimeSpan)
	exp := big.NewInt(expectedTimeSpan)

	result := new(big.Int).Mul(cur, act)
	result.Div(result, exp)

	return intToTarget(result)
}
