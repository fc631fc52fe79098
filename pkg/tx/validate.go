package tx

import "github.com/aevum-bond/bond-core/bonderr"

// ValidateStructural checks the transaction's shape, independent of any
// UTXO index: version is non-zero, a non-coinbase transaction has at
// least one input and one output, a coinbase transaction has exactly one
// input (the sentinel reference) and carries a non-empty payout script,
// and every output has a non-zero value.
func (t *Transaction) ValidateStructural() error {
	if t.Version == 0 {
		return &bonderr.InvalidTransaction{Reason: "version must be non-zero"}
	}

	if len(t.Outputs) == 0 {
		return &bonderr.InvalidTransaction{Reason: "transaction has no outputs"}
	}

	if t.IsCoinbase() {
		if len(t.Inputs) != 1 {
			return &bonderr.InvalidTransaction{Reason: "coinbase transaction must have exactly one input"}
		}
	} else {
		if len(t.Inputs) == 0 {
			return &bonderr.InvalidTransaction{Reason: "non-coinbase transaction must have at least one input"}
		}
		for _, in := range t.Inputs {
			if in.PreviousRef.IsCoinbaseRef() {
				return &bonderr.InvalidTransaction{Reason: "non-coinbase transaction must not reference the coinbase sentinel"}
			}
		}
	}

	for i, out := range t.Outputs {
		if out.Value == 0 {
			return &bonderr.InvalidTransaction{Reason: "output value must be non-zero"}
		}
		if t.IsCoinbase() && i == 0 && len(out.Script) == 0 {
			return &bonderr.InvalidTransaction{Reason: "coinbase output missing payout script"}
		}
	}

	return nil
}
