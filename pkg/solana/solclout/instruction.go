package solclout

import (
	"crypto/ed25519"

	"github.com/solclout/solclout/pkg/solana"
	"github.com/solclout/solclout/pkg/solana/binary"
)

type InstructionType uint8

const (
	InstructionTypeInitializeSolclout InstructionType = iota
	InstructionTypeInitializeCreator
	InstructionTypeBuyCreatorCoins
	InstructionTypeSellCreatorCoins
)

const (
	initializeSolcloutArgsSize = (32 + // token_program_id
		1) // nonce

	initializeCreatorArgsSize = (2 + // founder_reward_percentage
		1) // nonce

	buyCreatorCoinsArgsSize  = 8 // lamports
	sellCreatorCoinsArgsSize = 8 // lamports
)

type InitializeSolcloutArgs struct {
	TokenProgramID ed25519.PublicKey
	// Nonce used to derive the authority program address
	Nonce uint8
}

type InitializeCreatorArgs struct {
	// Share of each purchase minted to the founder, in parts per hundred
	// thousand
	FounderRewardPercentage uint16
	// Nonce used to derive the authority program address
	Nonce uint8
}

type BuyCreatorCoinsArgs struct {
	// Purchase quantity in the reserve asset's smallest denomination;
	// creator coins use the same decimal scale
	Lamports uint64
}

type SellCreatorCoinsArgs struct {
	Lamports uint64
}

// Instruction is the decoded form of one wire instruction: the tag selects
// the variant, and exactly one of the args fields is populated.
type Instruction struct {
	Type InstructionType

	InitializeSolclout *InitializeSolcloutArgs
	InitializeCreator  *InitializeCreatorArgs
	BuyCreatorCoins    *BuyCreatorCoinsArgs
	SellCreatorCoins   *SellCreatorCoinsArgs
}

// DecodeInstruction parses the tag + payload wire encoding. The layout is
// fixed per variant and order sensitive.
func DecodeInstruction(data []byte) (*Instruction, error) {
	if len(data) == 0 {
		return nil, ErrInvalidInstructionData
	}

	decoded := &Instruction{Type: InstructionType(data[0])}
	payload := data[1:]

	var offset int
	switch decoded.Type {
	case InstructionTypeInitializeSolclout:
		if len(payload) != initializeSolcloutArgsSize {
			return nil, ErrInvalidInstructionData
		}
		args := &InitializeSolcloutArgs{}
		binary.GetKey32(payload, &args.TokenProgramID, &offset)
		binary.GetUint8(payload[offset:], &args.Nonce, &offset)
		decoded.InitializeSolclout = args
	case InstructionTypeInitializeCreator:
		if len(payload) != initializeCreatorArgsSize {
			return nil, ErrInvalidInstructionData
		}
		args := &InitializeCreatorArgs{}
		getUint16(payload, &args.FounderRewardPercentage, &offset)
		binary.GetUint8(payload[offset:], &args.Nonce, &offset)
		decoded.InitializeCreator = args
	case InstructionTypeBuyCreatorCoins:
		if len(payload) != buyCreatorCoinsArgsSize {
			return nil, ErrInvalidInstructionData
		}
		args := &BuyCreatorCoinsArgs{}
		getUint64(payload, &args.Lamports, &offset)
		decoded.BuyCreatorCoins = args
	case InstructionTypeSellCreatorCoins:
		if len(payload) != sellCreatorCoinsArgsSize {
			return nil, ErrInvalidInstructionData
		}
		args := &SellCreatorCoinsArgs{}
		getUint64(payload, &args.Lamports, &offset)
		decoded.SellCreatorCoins = args
	default:
		return nil, ErrInvalidInstructionData
	}

	return decoded, nil
}

// InitializeSolclout creates an InitializeSolclout instruction.
//
// The storage account's owner must already be the program address derived
// from the instance account and nonce, giving the program full authority over
// pooled reserves.
func InitializeSolclout(
	programID ed25519.PublicKey,
	solcloutInstance ed25519.PublicKey,
	solcloutStorage ed25519.PublicKey,
	tokenProgramID ed25519.PublicKey,
	nonce uint8,
) solana.Instruction {
	var offset int
	data := make([]byte, 1+initializeSolcloutArgsSize)
	data[0] = byte(InstructionTypeInitializeSolclout)
	offset++
	binary.PutKey32(data[offset:], tokenProgramID, &offset)
	binary.PutUint8(data[offset:], nonce, &offset)

	// Account ordering is part of the wire contract:
	//
	//   0. `[writable, signer]` New solclout instance to create.
	//   1. `[]` Storage token account owned by the derived authority.
	return solana.NewInstruction(
		programID,
		data,
		solana.NewAccountMeta(solcloutInstance, true),
		solana.NewReadonlyAccountMeta(solcloutStorage, false),
	)
}

// InitializeCreator creates an InitializeCreator instruction.
//
// The creator mint, founder rewards account, and authority must already
// exist; the mint and freeze authorities must be the program address derived
// from the creator account and nonce, so no coins can be minted outside this
// program.
func InitializeCreator(
	programID ed25519.PublicKey,
	solcloutAccount ed25519.PublicKey,
	solcloutInstance ed25519.PublicKey,
	founderRewardsAccount ed25519.PublicKey,
	creatorMint ed25519.PublicKey,
	founderRewardPercentage uint16,
	nonce uint8,
) solana.Instruction {
	var offset int
	data := make([]byte, 1+initializeCreatorArgsSize)
	data[0] = byte(InstructionTypeInitializeCreator)
	offset++
	putUint16(data[offset:], founderRewardPercentage, &offset)
	binary.PutUint8(data[offset:], nonce, &offset)

	//   0. `[writable, signer]` Solclout creator account, owned by this program.
	//   1. `[]` Solclout instance.
	//   2. `[]` Founder rewards token account for the creator mint.
	//   3. `[]` Creator coin mint controlled by the derived authority.
	return solana.NewInstruction(
		programID,
		data,
		solana.NewAccountMeta(solcloutAccount, true),
		solana.NewReadonlyAccountMeta(solcloutInstance, false),
		solana.NewReadonlyAccountMeta(founderRewardsAccount, false),
		solana.NewReadonlyAccountMeta(creatorMint, false),
	)
}

// BuyCreatorCoins creates a BuyCreatorCoins instruction.
func BuyCreatorCoins(
	programID ed25519.PublicKey,
	solcloutInstance ed25519.PublicKey,
	solcloutCreator ed25519.PublicKey,
	creatorMint ed25519.PublicKey,
	purchaser ed25519.PublicKey,
	destination ed25519.PublicKey,
	lamports uint64,
) solana.Instruction {
	var offset int
	data := make([]byte, 1+buyCreatorCoinsArgsSize)
	data[0] = byte(InstructionTypeBuyCreatorCoins)
	offset++
	putUint64(data[offset:], lamports, &offset)

	//   0. `[]` Solclout instance.
	//   1. `[]` Solclout creator to purchase coins of.
	//   2. `[writable]` Creator coin mint.
	//   3. `[writable, signer]` Purchasing token account, holding the reserve mint.
	//   4. `[writable]` Destination token account, holding the creator mint.
	return solana.NewInstruction(
		programID,
		data,
		solana.NewReadonlyAccountMeta(solcloutInstance, false),
		solana.NewReadonlyAccountMeta(solcloutCreator, false),
		solana.NewAccountMeta(creatorMint, false),
		solana.NewAccountMeta(purchaser, true),
		solana.NewAccountMeta(destination, false),
	)
}

// SellCreatorCoins creates a SellCreatorCoins instruction. The sell side is
// declared in the instruction set but its economic behavior is not specified;
// the processor rejects it.
func SellCreatorCoins(
	programID ed25519.PublicKey,
	solcloutCreator ed25519.PublicKey,
	seller ed25519.PublicKey,
	destination ed25519.PublicKey,
	lamports uint64,
) solana.Instruction {
	var offset int
	data := make([]byte, 1+sellCreatorCoinsArgsSize)
	data[0] = byte(InstructionTypeSellCreatorCoins)
	offset++
	putUint64(data[offset:], lamports, &offset)

	//   0. `[]` Solclout creator to sell coins of.
	//   1. `[writable, signer]` Selling token account, holding the creator mint.
	//   2. `[writable]` Destination token account, holding the reserve mint.
	return solana.NewInstruction(
		programID,
		data,
		solana.NewReadonlyAccountMeta(solcloutCreator, false),
		solana.NewAccountMeta(seller, true),
		solana.NewAccountMeta(destination, false),
	)
}
