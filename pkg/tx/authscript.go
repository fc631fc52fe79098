package tx

import "github.com/aevum-bond/bond-core/pkg/sigengine"

// ParsedAuthScript holds the signature and public key split out of an
// input's authorization script.
type ParsedAuthScript struct {
	Signature []byte
	PublicKey []byte
}

// ParseAuthScript splits an authorization script into its fixed-size
// signature and public key components at the given security level, per
// the stubbed signing flow's wire format: authorization_script =
// signature_bytes || public_key_bytes. ok is false ("no signature
// present") when authScript is shorter than sig_size+pubkey_size for the
// level; the ambient script VM may still authorize the spend by another
// path in that case.
func ParseAuthScript(authScript []byte, level sigengine.SecurityLevel) (parsed ParsedAuthScript, ok bool) {
	sigSize := level.SignatureSize()
	pubKeySize := level.PublicKeySize()
	if len(authScript) < sigSize+pubKeySize {
		return ParsedAuthScript{}, false
	}
	return ParsedAuthScript{
		Signature: append([]byte(nil), authScript[:sigSize]...),
		PublicKey: append([]byte(nil), authScript[sigSize:sigSize+pubKeySize]...),
	}, true
}
