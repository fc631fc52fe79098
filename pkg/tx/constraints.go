package tx

import "encoding/binary"

// TimeLockType selects which clock (and reference point) a TimeLock
// checks against.
type TimeLockType uint8

const (
	// TimeLockAbsoluteHeight is satisfied once the current block height is
	// at least Value.
	TimeLockAbsoluteHeight TimeLockType = iota
	// TimeLockAbsoluteTimestamp is satisfied once the current timestamp is
	// at least Value.
	TimeLockAbsoluteTimestamp
	// TimeLockRelativeBlocks is satisfied once the current height is at
	// least CreationHeight + Value.
	TimeLockRelativeBlocks
	// TimeLockRelativeTime is satisfied once the current timestamp is at
	// least CreationTimestamp + Value.
	TimeLockRelativeTime
)

// TimeLock restricts when an output becomes spendable.
type TimeLock struct {
	Type              TimeLockType `json:"type"`
	Value             uint64       `json:"value"`
	CreationHeight    uint64       `json:"creation_height"`
	CreationTimestamp uint64       `json:"creation_timestamp"`
}

// Satisfied reports whether the lock allows spending at the given chain
// height and timestamp.
func (l TimeLock) Satisfied(height, timestamp uint64) bool {
	switch l.Type {
	case TimeLockAbsoluteHeight:
		return height >= l.Value
	case TimeLockAbsoluteTimestamp:
		return timestamp >= l.Value
	case TimeLockRelativeBlocks:
		required := l.CreationHeight + l.Value
		if required < l.CreationHeight {
			return false // overflow: never satisfied
		}
		return height >= required
	case TimeLockRelativeTime:
		required := l.CreationTimestamp + l.Value
		if required < l.CreationTimestamp {
			return false
		}
		return timestamp >= required
	default:
		return false
	}
}

// AuthMethodKind enumerates the second-factor mechanisms an MFAConfig can
// require.
type AuthMethodKind uint8

const (
	AuthHardwareKey AuthMethodKind = iota
	AuthBiometricHash
	AuthTOTPSecretHash
	AuthSMSPhoneHash
)

// AuthMethod is one second factor accepted by an MFAConfig. Data holds the
// method-specific reference material (a hardware key's public key, a
// biometric template hash, a TOTP secret hash, or an SMS phone hash) —
// structural only at this layer; checking a presented factor against it
// is a concern of the caller driving the script VM, not of this type.
type AuthMethod struct {
	Kind AuthMethodKind `json:"kind"`
	Data []byte         `json:"data"`
}

// MFAConfig requires at least RequiredCount of the listed methods.
type MFAConfig struct {
	RequiredCount uint32       `json:"required_count"`
	Methods       []AuthMethod `json:"methods"`
}

// Guardian is a key empowered to co-authorize a spend after a waiting
// period, weighted for multi-guardian schemes.
type Guardian struct {
	PublicKey          []byte `json:"public_key"`
	ConfirmationPeriod uint64 `json:"confirmation_period"`
	Weight             uint32 `json:"weight"`
}

// RateLimit caps the value spendable from an output within a rolling
// window. CanSpend is a pure read: it never mutates WindowStart or
// SpentInWindow. The window only rolls forward, and SpentInWindow only
// accumulates, inside Apply — called from the chain state's block
// application step, atomically with the spend that triggered it.
type RateLimit struct {
	MaxValuePerWindow uint64 `json:"max_value_per_window"`
	WindowSeconds     uint64 `json:"window_seconds"`
	WindowStart       uint64 `json:"window_start"`
	SpentInWindow     uint64 `json:"spent_in_window"`
}

// Allows reports whether spending amount now is within the rate limit.
// A timestamp past the current window's end is always allowed, since
// Apply will reset the window before accounting for the spend.
func (r RateLimit) Allows(amount, now uint64) bool {
	if now >= r.WindowStart+r.WindowSeconds {
		return true
	}
	next := r.SpentInWindow + amount
	return next <= r.MaxValuePerWindow
}

// Apply advances the window if now has passed it, then records amount as
// spent within the (possibly just-reset) window.
func (r RateLimit) Apply(amount, now uint64) RateLimit {
	next := r
	if now >= r.WindowStart+r.WindowSeconds {
		next.WindowStart = now
		next.SpentInWindow = 0
	}
	next.SpentInWindow += amount
	return next
}

// ProgrammableMetadata carries the optional spending constraints attached
// to an output: any number of time locks (all must be satisfied),
// an optional rate limit, and guardian/MFA structural data. The guardian
// and MFA fields are carried and serialized only: neither CanSpend nor any
// opcode of the script VM interprets them.
type ProgrammableMetadata struct {
	Guardians []Guardian `json:"guardians,omitempty"`
	MFA       *MFAConfig `json:"mfa,omitempty"`
	TimeLocks []TimeLock `json:"time_locks,omitempty"`
	RateLimit *RateLimit `json:"rate_limit,omitempty"`
}

// CanSpend reports whether every time lock is satisfied and, if a rate
// limit is configured, whether amount fits within it. It never mutates
// the metadata — rate-limit rollover happens only in Apply.
func (m *ProgrammableMetadata) CanSpend(height, timestamp, amount uint64) bool {
	if m == nil {
		return true
	}
	for _, lock := range m.TimeLocks {
		if !lock.Satisfied(height, timestamp) {
			return false
		}
	}
	if m.RateLimit != nil && !m.RateLimit.Allows(amount, timestamp) {
		return false
	}
	return true
}

// signingBytes returns the canonical encoding of the metadata, used by
// Transaction.SigningBytes when an output carries constraints.
func (m *ProgrammableMetadata) signingBytes() []byte {
	buf := make([]byte, 0, 32)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Guardians)))
	for _, g := range m.Guardians {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.PublicKey)))
		buf = append(buf, g.PublicKey...)
		buf = binary.LittleEndian.AppendUint64(buf, g.ConfirmationPeriod)
		buf = binary.LittleEndian.AppendUint32(buf, g.Weight)
	}

	if m.MFA == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint32(buf, m.MFA.RequiredCount)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.MFA.Methods)))
		for _, meth := range m.MFA.Methods {
			buf = append(buf, byte(meth.Kind))
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(meth.Data)))
			buf = append(buf, meth.Data...)
		}
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.TimeLocks)))
	for _, l := range m.TimeLocks {
		buf = append(buf, byte(l.Type))
		buf = binary.LittleEndian.AppendUint64(buf, l.Value)
		buf = binary.LittleEndian.AppendUint64(buf, l.CreationHeight)
		buf = binary.LittleEndian.AppendUint64(buf, l.CreationTimestamp)
	}

	if m.RateLimit == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint64(buf, m.RateLimit.MaxValuePerWindow)
		buf = binary.LittleEndian.AppendUint64(buf, m.RateLimit.WindowSeconds)
		buf = binary.LittleEndian.AppendUint64(buf, m.RateLimit.WindowStart)
		buf = binary.LittleEndian.AppendUint64(buf, m.RateLimit.SpentInWindow)
	}

	return buf
}
