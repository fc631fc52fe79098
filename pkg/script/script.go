// Package script implements Bond's bounded-stack script interpreter: a
// minimal bytecode VM that authorizes spending a UTXO by evaluating its
// locking script against an unlocking script, byte-for-byte in the style
// of Bitcoin Script but with a far smaller opcode table.
package script

import (
	"encoding/binary"

	"github.com/aevum-bond/bond-core/bonderr"
)

// Outcome is the result of executing a script.
type Outcome int

const (
	// Success means the script ran to completion and left a single
	// truthy value on the stack.
	Success Outcome = iota
	// Failure means the script ran to completion but left a single
	// falsy value on the stack, or OP_VERIFY saw a falsy value. This is
	// a normal "not authorized" result, not an error.
	Failure
	// Error means the script could not be evaluated at all: a
	// malformed opcode stream, a stack-discipline violation, or a
	// resource limit was exceeded.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Context carries the chain state a script may need to consult, and the
// signature verifier CHECKSIG delegates to.
type Context struct {
	BlockHeight uint32
	Timestamp   uint64
	TxHash      []byte
	InputIndex  uint32
	Verifier    Verifier
}

// Verifier checks a signature against a message and a public key. It is
// satisfied by pkg/sigengine's Level3Verifier; passing it in as an
// interface keeps pkg/script independent of any one signature scheme.
type Verifier interface {
	Verify(signature, message, publicKey []byte) (bool, error)
}

const (
	defaultMaxOps        = 1000
	defaultMaxStackDepth = 100
)

// Machine executes scripts under a bounded operation count and stack
// depth, so a malicious script can't loop or allocate without limit.
type Machine struct {
	maxOps        int
	maxStackDepth int
}

// New returns a Machine with the default limits (1000 ops, 100-deep stack).
func New() *Machine {
	return &Machine{maxOps: defaultMaxOps, maxStackDepth: defaultMaxStackDepth}
}

// NewWithLimits returns a Machine with custom limits.
func NewWithLimits(maxOps, maxStackDepth int) *Machine {
	return &Machine{maxOps: maxOps, maxStackDepth: maxStackDepth}
}

// Execute runs script against ctx and returns the outcome. err is non-nil
// only for conditions that should never occur in well-formed Bond
// operation (e.g. the verifier itself failing); a malformed or
// over-budget script reports Error through the returned Outcome, not err.
func (m *Machine) Execute(script []byte, ctx *Context) (Outcome, string, error) {
	stack := newStack(m.maxStackDepth)
	pc := 0
	ops := 0

	for pc < len(script) {
		ops++
		if ops > m.maxOps {
			return Error, "operation limit exceeded", nil
		}

		opcode := script[pc]
		pc++

		outcome, msg, err := m.step(opcode, &pc, script, stack, ctx)
		if err != nil {
			return Error, "", err
		}
		switch outcome {
		case Success:
			continue
		case Failure:
			return Failure, msg, nil
		case Error:
			return Error, msg, nil
		}
	}

	if stack.size() != 1 {
		return Error, "stack must have exactly one item at end", nil
	}
	if isTrue(stack.top()) {
		return Success, "", nil
	}
	return Failure, "", nil
}

func (m *Machine) step(opcode byte, pc *int, script []byte, stack *stack, ctx *Context) (Outcome, string, error) {
	switch {
	case opcode == 0x00: // PUSH_EMPTY
		if !stack.push(nil) {
			return Error, "stack overflow", nil
		}
		return Success, "", nil

	case opcode >= 0x01 && opcode <= 0x4B: // PUSH_N: push the next N bytes
		size := int(opcode)
		if *pc+size > len(script) {
			return Error, "script truncated", nil
		}
		data := append([]byte(nil), script[*pc:*pc+size]...)
		*pc += size
		if !stack.push(data) {
			return Error, "stack overflow", nil
		}
		return Success, "", nil

	case opcode == 0x51: // PUSH_ONE
		if !stack.push([]byte{1}) {
			return Error, "stack overflow", nil
		}
		return Success, "", nil

	case opcode == 0x76: // DUP
		top, ok := stack.peek()
		if !ok {
			return Error, "cannot duplicate empty stack", nil
		}
		if !stack.push(append([]byte(nil), top...)) {
			return Error, "stack overflow", nil
		}
		return Success, "", nil

	case opcode == 0x87: // EQUAL
		if stack.size() < 2 {
			return Error, "not enough items for EQUAL", nil
		}
		a, _ := stack.pop()
		b, _ := stack.pop()
		if bytesEqual(a, b) {
			stack.push([]byte{1})
		} else {
			stack.push([]byte{0})
		}
		return Success, "", nil

	case opcode == 0x69: // VERIFY
		top, ok := stack.peek()
		if !ok {
			return Error, "cannot verify empty stack", nil
		}
		if !isTrue(top) {
			return Failure, "", nil
		}
		stack.pop() // only consumed on success
		return Success, "", nil

	case opcode == 0xAC: // CHECKSIG
		if stack.size() < 2 {
			return Error, "not enough items for CHECKSIG", nil
		}
		pubKey, _ := stack.pop()
		sig, _ := stack.pop()
		if ctx.Verifier == nil {
			return Error, "", &bonderr.ScriptExecutionFailed{Reason: "no signature verifier configured"}
		}
		ok, err := ctx.Verifier.Verify(sig, ctx.TxHash, pubKey)
		if err != nil {
			return Error, "", err
		}
		if ok {
			stack.push([]byte{1})
		} else {
			stack.push([]byte{0})
		}
		return Success, "", nil

	case opcode == 0xF0: // CHECK_BLOCK_HEIGHT
		required, ok := stack.pop()
		if !ok {
			return Error, "cannot check block height on empty stack", nil
		}
		if len(required) != 4 {
			return Error, "invalid block height format", nil
		}
		requiredHeight := binary.LittleEndian.Uint32(required)
		if ctx.BlockHeight >= requiredHeight {
			stack.push([]byte{1})
		} else {
			stack.push([]byte{0})
		}
		return Success, "", nil

	default:
		return Error, "unknown opcode", nil
	}
}

// isTrue mirrors the original's truthiness rule: a value is true iff it
// is non-empty and contains at least one non-zero byte.
func isTrue(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		if b != 0 {
			return true
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
