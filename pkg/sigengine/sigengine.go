// Package sigengine implements the post-quantum signature engine Bond
// consumes as an external contract (spec companion layer): fixed key and
// signature sizes per security level, with generate/sign/verify
// operations. Level2 (ML-DSA-44-sized) is used elsewhere in the Aevum/Bond
// system; Level3 (ML-DSA-65-sized) is the level this core's authorization
// scripts use.
//
// The real post-quantum primitive is not implemented here — as in the
// reference implementation this contract is built on, every operation
// below is backed by Ed25519, padded into the larger fixed-size buffers
// the target security level expects.
package sigengine

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/aevum-bond/bond-core/bonderr"
)

// SecurityLevel selects the fixed key/signature sizes a PublicKey,
// PrivateKey, or Signature must have.
type SecurityLevel int

const (
	// Level2 sizes used elsewhere in the system (the Aevum companion chain).
	Level2 SecurityLevel = iota
	// Level3 sizes used by this core's authorization scripts.
	Level3
)

// Fixed sizes, in bytes, per security level.
const (
	Level2PublicKeySize  = 1312
	Level2PrivateKeySize = 2560
	Level2SignatureSize  = 2420

	Level3PublicKeySize  = 1952
	Level3PrivateKeySize = 4032
	Level3SignatureSize  = 3309
)

// PublicKeySize returns the fixed public key size for the level.
func (l SecurityLevel) PublicKeySize() int {
	if l == Level2 {
		return Level2PublicKeySize
	}
	return Level3PublicKeySize
}

// PrivateKeySize returns the fixed private key size for the level.
func (l SecurityLevel) PrivateKeySize() int {
	if l == Level2 {
		return Level2PrivateKeySize
	}
	return Level3PrivateKeySize
}

// SignatureSize returns the fixed signature size for the level.
func (l SecurityLevel) SignatureSize() int {
	if l == Level2 {
		return Level2SignatureSize
	}
	return Level3SignatureSize
}

// PublicKey holds raw bytes sized to a security level.
type PublicKey struct {
	bytes []byte
	level SecurityLevel
}

// PrivateKey holds raw bytes sized to a security level.
type PrivateKey struct {
	bytes []byte
	level SecurityLevel
}

// Signature holds raw bytes sized to a security level.
type Signature struct {
	bytes []byte
	level SecurityLevel
}

// NewPublicKey validates bytes against the level's fixed size.
func NewPublicKey(b []byte, level SecurityLevel) (PublicKey, error) {
	if len(b) != level.PublicKeySize() {
		return PublicKey{}, &bonderr.CryptographicError{Reason: "invalid public key size"}
	}
	return PublicKey{bytes: append([]byte(nil), b...), level: level}, nil
}

// NewSignature validates bytes against the level's fixed size.
func NewSignature(b []byte, level SecurityLevel) (Signature, error) {
	if len(b) != level.SignatureSize() {
		return Signature{}, &bonderr.CryptographicError{Reason: "invalid signature size"}
	}
	return Signature{bytes: append([]byte(nil), b...), level: level}, nil
}

// Bytes returns the raw key bytes.
func (k PublicKey) Bytes() []byte { return append([]byte(nil), k.bytes...) }

// Bytes returns the raw key bytes.
func (k PrivateKey) Bytes() []byte { return append([]byte(nil), k.bytes...) }

// Bytes returns the raw signature bytes.
func (s Signature) Bytes() []byte { return append([]byte(nil), s.bytes...) }

// Level returns the security level the key/signature was generated for.
func (k PublicKey) Level() SecurityLevel  { return k.level }
func (k PrivateKey) Level() SecurityLevel { return k.level }
func (s Signature) Level() SecurityLevel  { return s.level }

// Keypair is a matched public/private key pair at one security level.
type Keypair struct {
	Public  PublicKey
	Private PrivateKey
	Level   SecurityLevel
}

// Generate creates a new keypair at the given security level. The
// underlying Ed25519 key is generated with the standard library's RNG and
// copied into the first 32/64 bytes of the fixed-size padded buffers; the
// remainder is zero-filled.
func Generate(level SecurityLevel) (Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, &bonderr.CryptographicError{Reason: "key generation failed: " + err.Error()}
	}

	pubBytes := make([]byte, level.PublicKeySize())
	copy(pubBytes, pub)
	privBytes := make([]byte, level.PrivateKeySize())
	copy(privBytes, priv)

	return Keypair{
		Public:  PublicKey{bytes: pubBytes, level: level},
		Private: PrivateKey{bytes: privBytes, level: level},
		Level:   level,
	}, nil
}

// Sign produces a signature over message using the padded Ed25519 key
// embedded in the first 64 bytes of the private key buffer.
func Sign(message []byte, priv PrivateKey) (Signature, error) {
	if len(priv.bytes) < ed25519.PrivateKeySize {
		return Signature{}, &bonderr.CryptographicError{Reason: "private key buffer too small"}
	}
	edKey := ed25519.PrivateKey(priv.bytes[:ed25519.PrivateKeySize])
	sig := ed25519.Sign(edKey, message)

	out := make([]byte, priv.level.SignatureSize())
	copy(out, sig)
	return Signature{bytes: out, level: priv.level}, nil
}

// Verify checks signature against message using the padded Ed25519 key
// embedded in the first 32 bytes of the public key buffer. A security
// level mismatch between signature and public key is always a failure,
// never a successful verification.
func Verify(sig Signature, message []byte, pub PublicKey) (bool, error) {
	if sig.level != pub.level {
		return false, &bonderr.CryptographicError{Reason: "security level mismatch between signature and public key"}
	}
	if len(pub.bytes) < ed25519.PublicKeySize || len(sig.bytes) < ed25519.SignatureSize {
		return false, &bonderr.CryptographicError{Reason: "key or signature buffer too small"}
	}
	edKey := ed25519.PublicKey(pub.bytes[:ed25519.PublicKeySize])
	edSig := sig.bytes[:ed25519.SignatureSize]
	return ed25519.Verify(edKey, message, edSig), nil
}

// Level3Verifier adapts Verify to pkg/script's Verifier interface (raw
// byte signature/message/pubKey in, bool/error out) at the Level3 size
// this core's authorization scripts use for OP_CHECKSIG.
type Level3Verifier struct{}

// Verify validates sigBytes/pubKeyBytes as Level3-sized before delegating
// to Verify; a size mismatch is reported as a failed verification rather
// than a crash, since a script can push arbitrary attacker-controlled
// bytes onto the stack.
func (Level3Verifier) Verify(sigBytes, message, pubKeyBytes []byte) (bool, error) {
	sig, err := NewSignature(sigBytes, Level3)
	if err != nil {
		return false, nil
	}
	pub, err := NewPublicKey(pubKeyBytes, Level3)
	if err != nil {
		return false, nil
	}
	return Verify(sig, message, pub)
}
