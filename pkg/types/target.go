package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// TargetSize is the length of a difficulty target in bytes.
const TargetSize = 32

// DifficultyTarget is a 256-bit proof-of-work target, compared as a
// big-endian unsigned integer. A header hash is valid proof of work iff
// its big-endian value is less than or equal to the target.
type DifficultyTarget [TargetSize]byte

// MaxTarget is the easiest possible target (all 0xFF bytes).
var MaxTarget = DifficultyTarget{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// MinTarget is the hardest possible target (all zero bytes).
var MinTarget = DifficultyTarget{}

// Bytes returns a copy of the target as a byte slice.
func (t DifficultyTarget) Bytes() []byte {
	b := make([]byte, TargetSize)
	copy(b, t[:])
	return b
}

// String returns the hex-encoded target.
func (t DifficultyTarget) String() string {
	return Hash(t).String()
}

// MeetsTarget reports whether hash, read as a big-endian unsigned integer,
// is less than or equal to the target.
func MeetsTarget(hash Hash, target DifficultyTarget) bool {
	return bytes.Compare(hash[:], target[:]) <= 0
}

// Compare returns -1, 0, or +1 as t is numerically less than, equal to, or
// greater than other (both read as big-endian unsigned integers).
func (t DifficultyTarget) Compare(other DifficultyTarget) int {
	return bytes.Compare(t[:], other[:])
}

// MarshalJSON encodes the target as a hex string.
func (t DifficultyTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a hex string into a target.
func (t *DifficultyTarget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = DifficultyTarget{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid target hex: %w", err)
	}
	if len(decoded) != TargetSize {
		return fmt.Errorf("target must be %d bytes, got %d", TargetSize, len(decoded))
	}
	copy(t[:], decoded)
	return nil
}
