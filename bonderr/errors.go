// Package bonderr defines the single discriminated error taxonomy used
// throughout the Bond core: block and transaction validation, UTXO
// bookkeeping, script execution, and arithmetic all report failures as one
// of the variants below rather than ad-hoc sentinel errors.
package bonderr

import "fmt"

// InvalidBlockHash reports a block header hash that does not match an
// expected value (e.g. a recomputed merkle root).
type InvalidBlockHash struct {
	Expected string
	Actual   string
}

func (e *InvalidBlockHash) Error() string {
	return fmt.Sprintf("invalid block hash: expected %s, got %s", e.Expected, e.Actual)
}

// InvalidProofOfWork reports a header hash that exceeds the target, or a
// mining attempt that was cancelled or exhausted before finding one.
type InvalidProofOfWork struct {
	Hash   string
	Target string
	Reason string // e.g. "cancelled", "nonce space exhausted", or "" for a plain target miss.
}

func (e *InvalidProofOfWork) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid proof of work: %s", e.Reason)
	}
	return fmt.Sprintf("invalid proof of work: hash %s exceeds target %s", e.Hash, e.Target)
}

// InvalidTransaction reports a structural or semantic defect in a
// transaction.
type InvalidTransaction struct {
	Reason string
}

func (e *InvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

// InvalidUtxo reports a defect in an unspent output or its programmable
// constraints.
type InvalidUtxo struct {
	Reason string
}

func (e *InvalidUtxo) Error() string {
	return fmt.Sprintf("invalid utxo: %s", e.Reason)
}

// ScriptExecutionFailed reports a script VM Error outcome (never a plain
// Failure outcome, which is a normal "not authorized" signal, not an
// error).
type ScriptExecutionFailed struct {
	Reason string
}

func (e *ScriptExecutionFailed) Error() string {
	return fmt.Sprintf("script execution failed: %s", e.Reason)
}

// InsufficientFunds reports that a transaction's inputs do not cover its
// outputs.
type InsufficientFunds struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: required %d, available %d", e.Required, e.Available)
}

// DoubleSpending reports an attempt to spend an already-spent output.
type DoubleSpending struct {
	Ref string
}

func (e *DoubleSpending) Error() string {
	return fmt.Sprintf("double spending: %s", e.Ref)
}

// CryptographicError reports a key, signature, or hash-engine failure.
type CryptographicError struct {
	Reason string
}

func (e *CryptographicError) Error() string {
	return fmt.Sprintf("cryptographic error: %s", e.Reason)
}

// SerializationError reports a canonical-encoding failure.
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %s", e.Reason)
}

// JSONError reports a JSON marshal/unmarshal failure.
type JSONError struct {
	Reason string
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("json error: %s", e.Reason)
}

// ArithmeticOverflow reports a checked-arithmetic failure.
type ArithmeticOverflow struct {
	Operation string
}

func (e *ArithmeticOverflow) Error() string {
	return fmt.Sprintf("arithmetic overflow: %s", e.Operation)
}
