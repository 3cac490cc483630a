package solclout

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"

	"github.com/solclout/solclout/pkg/solana"
	"github.com/solclout/solclout/pkg/solana/runtime"
	"github.com/solclout/solclout/pkg/solana/token"
)

// Processor interprets one decoded instruction against the accounts supplied
// by the host for that call. It holds no state between calls; per-entity
// state lives in the account records, and every invocation is one atomic
// transition that either applies in full or is rejected in full.
type Processor struct {
	programID ed25519.PublicKey
	log       *logrus.Entry
}

func NewProcessor(programID ed25519.PublicKey) *Processor {
	return &Processor{
		programID: programID,
		log:       logrus.StandardLogger().WithField("type", "solana/solclout"),
	}
}

func (p *Processor) ID() ed25519.PublicKey {
	return p.programID
}

// Execute decodes and dispatches a single instruction.
func (p *Processor) Execute(invoker runtime.Invoker, accounts []*runtime.AccountInfo, data []byte) error {
	instruction, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch instruction.Type {
	case InstructionTypeInitializeSolclout:
		p.log.WithField("instruction", "initialize_solclout").Debug("processing")
		return p.processInitializeSolclout(accounts, instruction.InitializeSolclout)
	case InstructionTypeInitializeCreator:
		p.log.WithField("instruction", "initialize_creator").Debug("processing")
		return p.processInitializeCreator(accounts, instruction.InitializeCreator)
	case InstructionTypeBuyCreatorCoins:
		p.log.WithField("instruction", "buy_creator_coins").Debug("processing")
		return p.processBuyCreatorCoins(invoker, accounts, instruction.BuyCreatorCoins.Lamports)
	default:
		p.log.WithField("instruction", "sell_creator_coins").Debug("processing")
		return p.processSellCreatorCoins(invoker, accounts, instruction.SellCreatorCoins.Lamports)
	}
}

// authorityID derives the program address controlled by this program for a
// seed account. There is no private key for the result; control is proven by
// re-deriving the same address inside a signed sub-call.
func (p *Processor) authorityID(seed ed25519.PublicKey, nonce uint8) (ed25519.PublicKey, error) {
	authority, err := solana.CreateProgramAddress(p.programID, seed, []byte{nonce})
	if err != nil {
		return nil, ErrInvalidProgramAddress
	}
	return authority, nil
}

// unpackTokenAccount parses a token account after confirming it is owned by
// the expected token program. Owner is checked before any field is trusted.
func unpackTokenAccount(info *runtime.AccountInfo, tokenProgramID ed25519.PublicKey) (*token.Account, error) {
	if !bytes.Equal(info.Owner, tokenProgramID) {
		return nil, ErrIncorrectTokenProgramID
	}

	var account token.Account
	if !account.Unmarshal(info.Data) {
		return nil, ErrExpectedAccount
	}
	return &account, nil
}

func (p *Processor) processInitializeSolclout(accounts []*runtime.AccountInfo, args *InitializeSolcloutArgs) error {
	iter := runtime.NewAccountIter(accounts)
	solcloutAccount, err := iter.Next()
	if err != nil {
		return err
	}
	storageAccount, err := iter.Next()
	if err != nil {
		return err
	}

	authority, err := p.authorityID(solcloutAccount.Key, args.Nonce)
	if err != nil {
		return err
	}
	storage, err := unpackTokenAccount(storageAccount, args.TokenProgramID)
	if err != nil {
		return err
	}

	if !bytes.Equal(storage.Owner, authority) {
		return ErrInvalidStorageOwner
	}

	var instance SolcloutInstance
	if !instance.Unmarshal(solcloutAccount.Data) {
		return ErrInvalidAccountData
	}
	if instance.Initialized {
		return ErrAlreadyInitialized
	}

	instance = SolcloutInstance{
		SolcloutToken:   storage.Mint,
		SolcloutStorage: storageAccount.Key,
		TokenProgramID:  args.TokenProgramID,
		Initialized:     true,
	}
	copy(solcloutAccount.Data, instance.Marshal())

	return nil
}

func (p *Processor) processInitializeCreator(accounts []*runtime.AccountInfo, args *InitializeCreatorArgs) error {
	iter := runtime.NewAccountIter(accounts)
	creatorAccount, err := iter.Next()
	if err != nil {
		return err
	}
	instanceAccount, err := iter.Next()
	if err != nil {
		return err
	}

	var instance SolcloutInstance
	if !instance.Unmarshal(instanceAccount.Data) {
		return ErrInvalidAccountData
	}

	founderRewardsAccount, err := iter.Next()
	if err != nil {
		return err
	}
	var founderRewards token.Account
	if !founderRewards.Unmarshal(founderRewardsAccount.Data) {
		return ErrExpectedAccount
	}
	authority, err := p.authorityID(creatorAccount.Key, args.Nonce)
	if err != nil {
		return err
	}
	creatorMint, err := iter.Next()
	if err != nil {
		return err
	}

	if !bytes.Equal(instanceAccount.Owner, p.programID) {
		return ErrInvalidSolcloutInstanceOwner
	}

	if !bytes.Equal(creatorMint.Owner, instance.TokenProgramID) {
		return ErrAccountWrongTokenProgram
	}

	var mint token.Mint
	if !mint.Unmarshal(creatorMint.Data) {
		return ErrExpectedAccount
	}
	if !bytes.Equal(mint.MintAuthority, authority) {
		return ErrInvalidMintAuthority
	}

	if !bytes.Equal(mint.FreezeAuthority, authority) {
		return ErrInvalidFreezeAuthority
	}

	var creator SolcloutCreator
	if !creator.Unmarshal(creatorAccount.Data) {
		return ErrInvalidAccountData
	}
	if creator.Initialized {
		return ErrAlreadyInitialized
	}

	if !bytes.Equal(founderRewardsAccount.Owner, instance.TokenProgramID) {
		return ErrAccountWrongTokenProgram
	}

	if !bytes.Equal(founderRewards.Mint, creatorMint.Key) {
		return ErrInvalidFounderRewardsAccountType
	}

	if !creatorAccount.IsSigner {
		return ErrMissingSigner
	}

	// A zero percentage would make the founder cut computation divide by
	// zero downstream; it is rejected here rather than at purchase time.
	if args.FounderRewardPercentage == 0 {
		return ErrInvalidFounderRewardPercentage
	}

	creator = SolcloutCreator{
		CreatorToken:            creatorMint.Key,
		SolcloutInstance:        instanceAccount.Key,
		FounderRewardsAccount:   founderRewardsAccount.Key,
		FounderRewardPercentage: args.FounderRewardPercentage,
		Initialized:             true,
		AuthorityNonce:          args.Nonce,
	}
	copy(creatorAccount.Data, creator.Marshal())

	return nil
}

func (p *Processor) processBuyCreatorCoins(invoker runtime.Invoker, accounts []*runtime.AccountInfo, lamports uint64) error {
	iter := runtime.NewAccountIter(accounts)
	instanceAccount, err := iter.Next()
	if err != nil {
		return err
	}
	creatorAccount, err := iter.Next()
	if err != nil {
		return err
	}
	creatorMint, err := iter.Next()
	if err != nil {
		return err
	}
	purchaser, err := iter.Next()
	if err != nil {
		return err
	}
	destination, err := iter.Next()
	if err != nil {
		return err
	}

	var mint token.Mint
	if !mint.Unmarshal(creatorMint.Data) {
		return ErrExpectedAccount
	}
	var instance SolcloutInstance
	if !instance.Unmarshal(instanceAccount.Data) {
		return ErrInvalidAccountData
	}
	var creator SolcloutCreator
	if !creator.Unmarshal(creatorAccount.Data) {
		return ErrInvalidAccountData
	}

	// The creator's signing authority is re-derived from stored values on
	// every purchase; a caller-supplied authority is never trusted. The seed
	// is the creator account so the result matches the mint authority proven
	// at initialization.
	authority, err := p.authorityID(creatorAccount.Key, creator.AuthorityNonce)
	if err != nil {
		return err
	}

	if !bytes.Equal(creator.CreatorToken, creatorMint.Key) {
		return ErrInvalidCreatorMint
	}

	if !bytes.Equal(creator.SolcloutInstance, instanceAccount.Key) {
		return ErrSolcloutInstanceMismatch
	}

	if !bytes.Equal(creatorAccount.Owner, p.programID) {
		return ErrInvalidCreatorOwner
	}

	if !bytes.Equal(instanceAccount.Owner, p.programID) {
		return ErrInvalidSolcloutInstanceOwner
	}

	cost := Price(mint.Supply, lamports)
	founderCut, purchaserCut := SplitPurchase(lamports, creator.FounderRewardPercentage)

	p.log.WithFields(logrus.Fields{
		"creator":       base58.Encode(creatorAccount.Key),
		"price":         cost,
		"founder_cut":   founderCut,
		"purchaser_cut": purchaserCut,
	}).Debug("executing purchase")

	// Pull the purchaser's payment into the instance's reserve storage. The
	// purchasing account signed the transaction itself, so no derived
	// signature is needed.
	payMoney := token.Transfer(purchaser.Key, instance.SolcloutStorage, purchaser.Key, cost)
	payMoney.Program = instance.TokenProgramID
	if err := invoker.InvokeSigned(payMoney); err != nil {
		return err
	}

	authoritySeed := [][]byte{creatorAccount.Key, {creator.AuthorityNonce}}

	giveFounderCut := token.MintTo(creatorMint.Key, creator.FounderRewardsAccount, authority, founderCut)
	giveFounderCut.Program = instance.TokenProgramID
	if err := invoker.InvokeSigned(giveFounderCut, authoritySeed); err != nil {
		return err
	}

	givePurchaserCut := token.MintTo(creatorMint.Key, destination.Key, authority, purchaserCut)
	givePurchaserCut.Program = instance.TokenProgramID
	if err := invoker.InvokeSigned(givePurchaserCut, authoritySeed); err != nil {
		return err
	}

	return nil
}

// processSellCreatorCoins is declared in the instruction set but the sell
// side's economics (burn quantity, reserve payout, founder clawback) are
// unspecified, so the transition is rejected outright.
func (p *Processor) processSellCreatorCoins(invoker runtime.Invoker, accounts []*runtime.AccountInfo, lamports uint64) error {
	return ErrNotImplemented
}
