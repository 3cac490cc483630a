// Package runtime provides the minimal host surface a native program needs to
// execute: the per-instruction view of transaction accounts, and the signed
// cross-program invocation capability used to call other programs.
package runtime

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/solclout/solclout/pkg/solana"
)

var (
	ErrNotEnoughAccountKeys = errors.New("not enough account keys")
	ErrUnknownProgram       = errors.New("unknown program")
	ErrAccountNotFound      = errors.New("account not found in transaction")
	ErrMissingSignature     = errors.New("missing required signature")
)

// AccountInfo is the view of a single transaction account handed to a program
// for the duration of one instruction. Data is shared with the host; writes
// are visible to subsequent instructions in the same transaction.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Owner      ed25519.PublicKey
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

// Clone creates a deep copy of the account, used by the host to roll back
// state when a transition is rejected.
func (a *AccountInfo) Clone() *AccountInfo {
	clone := &AccountInfo{
		Key:        a.Key,
		Owner:      a.Owner,
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
	}
	if a.Data != nil {
		clone.Data = make([]byte, len(a.Data))
		copy(clone.Data, a.Data)
	}
	return clone
}

// AccountIter yields accounts in the positional order declared by the
// instruction's account list.
type AccountIter struct {
	accounts []*AccountInfo
	pos      int
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account, or ErrNotEnoughAccountKeys when the
// instruction declared fewer accounts than the program requires.
func (it *AccountIter) Next() (*AccountInfo, error) {
	if it.pos >= len(it.accounts) {
		return nil, ErrNotEnoughAccountKeys
	}
	info := it.accounts[it.pos]
	it.pos++
	return info, nil
}

// Invoker is the capability to issue a signed sub-call to another program.
// Each element of signerSeeds is one seed list; the host re-derives
// CreateProgramAddress(caller, seeds...) and treats the resulting address as
// a signer within the callee, proving the caller controls it without any
// private key existing.
type Invoker interface {
	InvokeSigned(instruction solana.Instruction, signerSeeds ...[][]byte) error
}

// Program is a native program executable by the host.
type Program interface {
	ID() ed25519.PublicKey
	Execute(invoker Invoker, accounts []*AccountInfo, data []byte) error
}
