package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/solclout/solclout/pkg/solana"
	"github.com/solclout/solclout/pkg/solana/runtime"
)

// Engine executes token program instructions against in-memory accounts. It
// implements the subset of the token program other programs in this module
// call into: moving balances between token accounts and minting new supply.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) ID() ed25519.PublicKey {
	return ProgramKey
}

func (e *Engine) Execute(invoker runtime.Invoker, accounts []*runtime.AccountInfo, data []byte) error {
	command, err := GetCommand(solana.Instruction{Program: ProgramKey, Data: data})
	if err != nil {
		return err
	}

	switch command {
	case CommandTransfer:
		return e.transfer(accounts, data)
	case CommandMintTo:
		return e.mintTo(accounts, data)
	default:
		return ErrorInvalidInstruction
	}
}

func (e *Engine) transfer(accounts []*runtime.AccountInfo, data []byte) error {
	iter := runtime.NewAccountIter(accounts)
	source, err := iter.Next()
	if err != nil {
		return err
	}
	dest, err := iter.Next()
	if err != nil {
		return err
	}
	authority, err := iter.Next()
	if err != nil {
		return err
	}

	args, err := DecompileTransfer(solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source.Key, false),
		solana.NewAccountMeta(dest.Key, false),
		solana.NewReadonlyAccountMeta(authority.Key, true),
	))
	if err != nil {
		return err
	}

	sourceState, err := unpackAccount(source)
	if err != nil {
		return err
	}
	destState, err := unpackAccount(dest)
	if err != nil {
		return err
	}

	if !bytes.Equal(sourceState.Owner, authority.Key) {
		return ErrorOwnerMismatch
	}
	if !authority.IsSigner {
		return runtime.ErrMissingSignature
	}
	if !bytes.Equal(sourceState.Mint, destState.Mint) {
		return ErrorMintMismatch
	}
	if sourceState.Amount < args.Amount {
		return ErrorInsufficientFunds
	}

	sourceState.Amount -= args.Amount
	destState.Amount += args.Amount
	copy(source.Data, sourceState.Marshal())
	copy(dest.Data, destState.Marshal())
	return nil
}

func (e *Engine) mintTo(accounts []*runtime.AccountInfo, data []byte) error {
	iter := runtime.NewAccountIter(accounts)
	mint, err := iter.Next()
	if err != nil {
		return err
	}
	dest, err := iter.Next()
	if err != nil {
		return err
	}
	authority, err := iter.Next()
	if err != nil {
		return err
	}

	args, err := DecompileMintTo(solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint.Key, false),
		solana.NewAccountMeta(dest.Key, false),
		solana.NewReadonlyAccountMeta(authority.Key, true),
	))
	if err != nil {
		return err
	}

	var mintState Mint
	if !mintState.Unmarshal(mint.Data) || !mintState.IsInitialized {
		return ErrorUninitializedState
	}
	destState, err := unpackAccount(dest)
	if err != nil {
		return err
	}

	if len(mintState.MintAuthority) == 0 {
		return ErrorFixedSupply
	}
	if !bytes.Equal(mintState.MintAuthority, authority.Key) {
		return ErrorOwnerMismatch
	}
	if !authority.IsSigner {
		return runtime.ErrMissingSignature
	}
	if !bytes.Equal(destState.Mint, mint.Key) {
		return ErrorMintMismatch
	}
	if mintState.Supply+args.Amount < mintState.Supply {
		return ErrorOverflow
	}

	mintState.Supply += args.Amount
	destState.Amount += args.Amount
	copy(mint.Data, mintState.Marshal())
	copy(dest.Data, destState.Marshal())
	return nil
}

func unpackAccount(info *runtime.AccountInfo) (*Account, error) {
	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, ErrorOwnerMismatch
	}
	var account Account
	if !account.Unmarshal(info.Data) {
		return nil, ErrorUninitializedState
	}
	if account.State == AccountStateUninitialized {
		return nil, ErrorUninitializedState
	}
	return &account, nil
}
