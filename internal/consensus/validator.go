package consensus

import (
	"fmt"

	"github.com/aevum-bond/bond-core/pkg/block"
)

// Validator validates blocks against both structural and consensus rules.
type Validator struct {
	engine Engine
}

// NewValidator creates a block validator with the given consensus engine.
func NewValidator(engine Engine) *Validator {
	return &Validator{engine: engine}
}

// ValidateBlock checks a block's structure, then its proof of work.
// Retargeting and timestamp checks, which need chain history, are left to
// internal/chain's AddBlock pipeline, which calls PoW.VerifyDifficulty and
// PoW.VerifyTimestamp directly.
func (v *Validator) ValidateBlock(blk *block.Block) error {
	if err := blk.Validate(); err != nil {
		return fmt.Errorf("block structure: %w", err)
	}
	if err := v.engine.VerifyHeader(blk.Header); err != nil {
		return fmt.Errorf("consensus: %w", err)
	}
	return nil
}
