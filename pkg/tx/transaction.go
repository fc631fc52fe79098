// Package tx defines Bond's transaction and programmable-output types:
// canonical serialization, hashing, structural validation, and the
// unspent-output constraint model (time locks, rate limits, guardians,
// multi-factor authorization).
package tx

import (
	"encoding/binary"

	"github.com/aevum-bond/bond-core/bonderr"
	"github.com/aevum-bond/bond-core/pkg/crypto"
	"github.com/aevum-bond/bond-core/pkg/types"
)

// Input spends a previously unspent output.
type Input struct {
	PreviousRef types.UnspentRef `json:"previous_ref"`
	AuthScript  []byte           `json:"auth_script"`
	Sequence    uint32           `json:"sequence"`
}

// Output creates a new unspent output, carrying value and a programmable
// spending constraint (the script, evaluated by the script VM) plus
// optional guardian/MFA/time-lock/rate-limit metadata.
type Output struct {
	Value    uint64               `json:"value"`
	Script   []byte               `json:"script"`
	Metadata *ProgrammableMetadata `json:"metadata,omitempty"`
}

// Transaction moves value between unspent outputs. A coinbase transaction
// has exactly one input, referencing the coinbase sentinel.
type Transaction struct {
	Version   uint32   `json:"version"`
	Inputs    []Input  `json:"inputs"`
	Outputs   []Output `json:"outputs"`
	LockTime  uint32   `json:"locktime"`
	Timestamp uint64   `json:"timestamp"`
}

// Coinbase builds the reward-creating transaction for a block: a single
// input referencing the coinbase sentinel, and a single output paying
// reward to payoutScript. extra carries miner-chosen bytes (e.g. a
// block-identifying tag) and is folded into the coinbase input's auth
// script, since a coinbase input is never verified against a UTXO.
func Coinbase(reward uint64, payoutScript []byte, extra []byte) *Transaction {
	return &Transaction{
		Version: 1,
		Inputs: []Input{
			{
				PreviousRef: types.CoinbaseRef(),
				AuthScript:  extra,
				Sequence:    0xFFFFFFFF,
			},
		},
		Outputs: []Output{
			{Value: reward, Script: payoutScript},
		},
	}
}

// IsCoinbase reports whether t is a coinbase transaction: exactly one
// input, referencing the coinbase sentinel.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 1 && t.Inputs[0].PreviousRef.IsCoinbaseRef()
}

// Hash returns the Keccak-256 digest of the transaction's canonical
// serialization.
func (t *Transaction) Hash() types.Hash {
	return crypto.Hash(t.SigningBytes())
}

// SigningBytes returns the canonical little-endian byte encoding of the
// transaction used for hashing. Layout:
//
//	version(4) | input_count(4) | inputs... | output_count(4) | outputs... | locktime(4) | timestamp(8)
//
// Each input encodes as: tx_hash(32) | output_index(4) | auth_script_len(4) | auth_script | sequence(4).
// Each output encodes as: value(8) | script_len(4) | script | metadata_present(1) [| metadata...].
func (t *Transaction) SigningBytes() []byte {
	buf := make([]byte, 0, 128)
	buf = binary.LittleEndian.AppendUint32(buf, t.Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf = append(buf, in.PreviousRef.TxHash[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PreviousRef.OutputIndex)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(in.AuthScript)))
		buf = append(buf, in.AuthScript...)
		buf = binary.LittleEndian.AppendUint32(buf, in.Sequence)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Outputs)))
	for _, out := range t.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, out.Value)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.Script)))
		buf = append(buf, out.Script...)
		if out.Metadata == nil {
			buf = append(buf, 0)
		} else {
			buf = append(buf, 1)
			buf = append(buf, out.Metadata.signingBytes()...)
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, t.LockTime)
	buf = binary.LittleEndian.AppendUint64(buf, t.Timestamp)
	return buf
}

// SignatureHash returns the message CHECKSIG verifies against: the
// canonical serialization of the transaction with every input's auth
// script cleared, concatenated with the canonical reference of the input
// being authorized, Keccak-256 hashed. Clearing every auth script (not
// just the one under signature) keeps the hash independent of any other
// input's script contents, matching the spec's independence invariant.
func (t *Transaction) SignatureHash(inputIndex int) types.Hash {
	stripped := &Transaction{
		Version:   t.Version,
		Inputs:    make([]Input, len(t.Inputs)),
		Outputs:   t.Outputs,
		LockTime:  t.LockTime,
		Timestamp: t.Timestamp,
	}
	for i, in := range t.Inputs {
		stripped.Inputs[i] = Input{PreviousRef: in.PreviousRef, Sequence: in.Sequence}
	}

	buf := stripped.SigningBytes()
	ref := t.Inputs[inputIndex].PreviousRef
	buf = append(buf, ref.TxHash[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, ref.OutputIndex)
	return crypto.Hash(buf)
}

// TotalInputValue sums the value of every referenced input, looking each
// up via lookup. Coinbase transactions contribute zero. A missing
// reference is an error, as is integer overflow.
func (t *Transaction) TotalInputValue(lookup func(types.UnspentRef) (Output, bool)) (uint64, error) {
	if t.IsCoinbase() {
		return 0, nil
	}
	var total uint64
	for _, in := range t.Inputs {
		out, ok := lookup(in.PreviousRef)
		if !ok {
			return 0, &bonderr.InvalidUtxo{Reason: "referenced output not found: " + in.PreviousRef.String()}
		}
		next := total + out.Value
		if next < total {
			return 0, &bonderr.ArithmeticOverflow{Operation: "total input value"}
		}
		total = next
	}
	return total, nil
}

// TotalOutputValue sums the value of every output, checked for overflow.
func (t *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range t.Outputs {
		next := total + out.Value
		if next < total {
			return 0, &bonderr.ArithmeticOverflow{Operation: "total output value"}
		}
		total = next
	}
	return total, nil
}

// Fee returns total inputs minus total outputs. Coinbase transactions
// always have a fee of zero. Returns InsufficientFunds if outputs exceed
// inputs.
func (t *Transaction) Fee(lookup func(types.UnspentRef) (Output, bool)) (uint64, error) {
	if t.IsCoinbase() {
		return 0, nil
	}
	in, err := t.TotalInputValue(lookup)
	if err != nil {
		return 0, err
	}
	out, err := t.TotalOutputValue()
	if err != nil {
		return 0, err
	}
	if out > in {
		return 0, &bonderr.InsufficientFunds{Required: out, Available: in}
	}
	return in - out, nil
}
