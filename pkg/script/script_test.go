package script

import (
	"encoding/binary"
	"testing"
)

func testContext() *Context {
	return &Context{BlockHeight: 100, Timestamp: 1234567890, TxHash: []byte{1, 2, 3}, InputIndex: 0}
}

func TestExecute_PushOne(t *testing.T) {
	m := New()
	outcome, _, err := m.Execute([]byte{0x51}, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Success {
		t.Errorf("outcome = %v, want Success", outcome)
	}
}

func TestExecute_PushZeroThenVerifyFails(t *testing.T) {
	m := New()
	outcome, _, err := m.Execute([]byte{0x00, 0x69}, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Failure {
		t.Errorf("outcome = %v, want Failure", outcome)
	}
}

func TestExecute_OperationLimitExceeded(t *testing.T) {
	m := NewWithLimits(5, 100)
	script := make([]byte, 10)
	for i := range script {
		script[i] = 0x51
	}
	outcome, msg, err := m.Execute(script, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Error {
		t.Errorf("outcome = %v, want Error", outcome)
	}
	if msg != "operation limit exceeded" {
		t.Errorf("msg = %q, want %q", msg, "operation limit exceeded")
	}
}

func TestExecute_CheckBlockHeight(t *testing.T) {
	m := New()
	script := []byte{0x04}
	heightBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(heightBytes, 50)
	script = append(script, heightBytes...)
	script = append(script, 0xF0)

	ctx := testContext() // BlockHeight: 100
	outcome, _, err := m.Execute(script, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Success {
		t.Errorf("outcome = %v, want Success (100 >= 50)", outcome)
	}
}

func TestExecute_CheckBlockHeight_NotYetReached(t *testing.T) {
	m := New()
	script := []byte{0x04}
	heightBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(heightBytes, 150)
	script = append(script, heightBytes...)
	script = append(script, 0xF0)

	ctx := testContext() // BlockHeight: 100
	outcome, _, err := m.Execute(script, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Failure {
		t.Errorf("outcome = %v, want Failure (100 < 150)", outcome)
	}
}

func TestExecute_DupAndEqual(t *testing.T) {
	m := New()
	script := []byte{0x01, 42, 0x76, 0x87}
	outcome, _, err := m.Execute(script, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Success {
		t.Errorf("outcome = %v, want Success", outcome)
	}
}

func TestExecute_UnknownOpcode(t *testing.T) {
	m := New()
	outcome, _, err := m.Execute([]byte{0xFF}, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Error {
		t.Errorf("outcome = %v, want Error", outcome)
	}
}

func TestExecute_TruncatedPush(t *testing.T) {
	m := New()
	outcome, _, err := m.Execute([]byte{0x05, 0x01}, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Error {
		t.Errorf("outcome = %v, want Error for a truncated push", outcome)
	}
}

func TestExecute_StackOverflow(t *testing.T) {
	m := NewWithLimits(defaultMaxOps, 2)
	script := []byte{0x51, 0x51, 0x51}
	outcome, _, err := m.Execute(script, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Error {
		t.Errorf("outcome = %v, want Error for stack overflow", outcome)
	}
}

type fakeVerifier struct {
	ok  bool
	err error
}

func (f fakeVerifier) Verify(signature, message, publicKey []byte) (bool, error) {
	return f.ok, f.err
}

func TestExecute_CheckSig_DelegatesToVerifier(t *testing.T) {
	m := New()
	script := []byte{0x02, 0xAA, 0xBB, 0x02, 0xCC, 0xDD, 0xAC} // push sig, push pubkey, CHECKSIG

	ctx := testContext()
	ctx.Verifier = fakeVerifier{ok: true}
	outcome, _, err := m.Execute(script, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Success {
		t.Errorf("outcome = %v, want Success when verifier approves", outcome)
	}

	ctx.Verifier = fakeVerifier{ok: false}
	outcome, _, err = m.Execute(script, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Failure {
		t.Errorf("outcome = %v, want Failure when verifier rejects", outcome)
	}
}

func TestExecute_CheckSig_NoVerifierConfigured(t *testing.T) {
	m := New()
	script := []byte{0x02, 0xAA, 0xBB, 0x02, 0xCC, 0xDD, 0xAC}
	ctx := testContext()
	ctx.Verifier = nil

	_, _, err := m.Execute(script, ctx)
	if err == nil {
		t.Error("expected an error when no verifier is configured")
	}
}
