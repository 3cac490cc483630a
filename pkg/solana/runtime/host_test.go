package runtime

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solclout/solclout/pkg/solana"
	"github.com/solclout/solclout/pkg/testutil"
)

type testProgram struct {
	key     ed25519.PublicKey
	execute func(invoker Invoker, accounts []*AccountInfo, data []byte) error
}

func (p *testProgram) ID() ed25519.PublicKey {
	return p.key
}

func (p *testProgram) Execute(invoker Invoker, accounts []*AccountInfo, data []byte) error {
	return p.execute(invoker, accounts, data)
}

func TestAccountIter(t *testing.T) {
	accounts := []*AccountInfo{{}, {}}

	iter := NewAccountIter(accounts)
	for range accounts {
		_, err := iter.Next()
		require.NoError(t, err)
	}

	_, err := iter.Next()
	assert.Equal(t, ErrNotEnoughAccountKeys, err)
}

func TestAccountInfo_Clone(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	info := &AccountInfo{
		Key:        keys[0],
		Owner:      keys[1],
		Data:       []byte{1, 2, 3},
		IsSigner:   true,
		IsWritable: true,
	}

	clone := info.Clone()
	clone.Data[0] = 9

	assert.EqualValues(t, 1, info.Data[0])
	assert.Equal(t, info.Key, clone.Key)
	assert.Equal(t, info.Owner, clone.Owner)
	assert.True(t, clone.IsSigner)
	assert.True(t, clone.IsWritable)
}

func TestHost_UnknownProgram(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 1)

	host := NewHost()
	err := host.Process(solana.NewInstruction(keys[0], []byte{1}))
	assert.Equal(t, ErrUnknownProgram, errors.Cause(err))
}

func TestHost_AccountNotFound(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	program := &testProgram{
		key: keys[0],
		execute: func(Invoker, []*AccountInfo, []byte) error {
			return nil
		},
	}

	host := NewHost()
	host.Register(program)

	err := host.Process(solana.NewInstruction(
		keys[0], nil, solana.NewAccountMeta(keys[1], false),
	))
	assert.Equal(t, ErrAccountNotFound, errors.Cause(err))
}

func TestHost_RollbackOnFailure(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	programKey, accountKey := keys[0], keys[1]

	executionFailed := errors.New("execution failed")
	program := &testProgram{
		key: programKey,
		execute: func(_ Invoker, accounts []*AccountInfo, _ []byte) error {
			accounts[0].Data[0] = 0xff
			return executionFailed
		},
	}

	host := NewHost()
	host.Register(program)
	host.AddAccount(&AccountInfo{
		Key:        accountKey,
		Owner:      programKey,
		Data:       make([]byte, 4),
		IsWritable: true,
	})

	err := host.Process(solana.NewInstruction(
		programKey, nil, solana.NewAccountMeta(accountKey, false),
	))
	assert.Equal(t, executionFailed, err)

	// data slices are shared with the executing program, so restoration
	// must come from the pre-execution clone
	assert.EqualValues(t, 0, host.Account(accountKey).Data[0])
}

func TestHost_SignerPrivilegeNotEscalated(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	outerKey, innerKey, victim := keys[0], keys[1], keys[2]

	inner := &testProgram{
		key: innerKey,
		execute: func(Invoker, []*AccountInfo, []byte) error {
			return nil
		},
	}
	// the outer program claims a signature it was never given
	outer := &testProgram{
		key: outerKey,
		execute: func(invoker Invoker, _ []*AccountInfo, _ []byte) error {
			return invoker.InvokeSigned(solana.NewInstruction(
				innerKey, nil, solana.NewReadonlyAccountMeta(victim, true),
			))
		},
	}

	host := NewHost()
	host.Register(inner)
	host.Register(outer)
	host.AddAccount(&AccountInfo{Key: victim})

	err := host.Process(solana.NewInstruction(outerKey, nil))
	assert.Equal(t, ErrMissingSignature, errors.Cause(err))
}

func TestHost_DerivedSigner(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	outerKey, innerKey, seed := keys[0], keys[1], keys[2]

	derived, bump, err := solana.FindProgramAddressAndBump(outerKey, seed)
	require.NoError(t, err)

	var signerSeen bool
	inner := &testProgram{
		key: innerKey,
		execute: func(_ Invoker, accounts []*AccountInfo, _ []byte) error {
			signerSeen = accounts[0].IsSigner
			return nil
		},
	}
	outer := &testProgram{
		key: outerKey,
		execute: func(invoker Invoker, _ []*AccountInfo, _ []byte) error {
			return invoker.InvokeSigned(
				solana.NewInstruction(
					innerKey, nil, solana.NewReadonlyAccountMeta(derived, true),
				),
				[][]byte{seed, {bump}},
			)
		},
	}

	host := NewHost()
	host.Register(inner)
	host.Register(outer)
	host.AddAccount(&AccountInfo{Key: derived})

	require.NoError(t, host.Process(solana.NewInstruction(outerKey, nil)))
	assert.True(t, signerSeen)
}

func TestHost_TransactionSignerFlowsToSubCall(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	outerKey, innerKey, signer := keys[0], keys[1], keys[2]

	inner := &testProgram{
		key: innerKey,
		execute: func(Invoker, []*AccountInfo, []byte) error {
			return nil
		},
	}
	outer := &testProgram{
		key: outerKey,
		execute: func(invoker Invoker, _ []*AccountInfo, _ []byte) error {
			return invoker.InvokeSigned(solana.NewInstruction(
				innerKey, nil, solana.NewReadonlyAccountMeta(signer, true),
			))
		},
	}

	host := NewHost()
	host.Register(inner)
	host.Register(outer)
	host.AddAccount(&AccountInfo{Key: signer})

	// the account signed the transaction itself, so the sub-call may
	// carry the privilege without derived seeds
	require.NoError(t, host.Process(solana.NewInstruction(
		outerKey, nil, solana.NewReadonlyAccountMeta(signer, true),
	)))
}
