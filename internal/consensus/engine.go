// Package consensus implements Bond's proof-of-work consensus: header
// verification against a 256-bit target, difficulty retargeting, and
// block-level validation layered on top of pkg/block's structural checks.
package consensus

import "github.com/aevum-bond/bond-core/pkg/block"

// Engine is the interface a consensus implementation must satisfy to
// verify a sealed block header.
type Engine interface {
	VerifyHeader(header *block.Header) error
}
