package solclout

import (
	"crypto/ed25519"

	"github.com/solclout/solclout/pkg/solana/binary"
)

// PREFIX is reserved for seed-prefixed derivations, guarding against
// chosen-prefix collisions between programs sharing a seed account.
const PREFIX = "solclout"

const (
	SolcloutInstanceSize = (32 + // solclout_token
		32 + // solclout_storage
		32 + // token_program_id
		1) // initialized

	SolcloutCreatorSize = (32 + // creator_token
		32 + // solclout_instance
		32 + // founder_rewards_account
		2 + // founder_reward_percentage
		1 + // initialized
		1) // authority_nonce
)

// SolcloutInstance is one deployment of the exchange: the reserve token mint
// purchasers pay with, the account that custodies paid-in reserves, and the
// token program this deployment trusts. Written once by InitializeSolclout
// and read-only afterwards.
type SolcloutInstance struct {
	// Solclout token mint pubkey that can be traded for creator tokens
	SolcloutToken ed25519.PublicKey
	// Account to hold solclout after people buy
	SolcloutStorage ed25519.PublicKey

	TokenProgramID ed25519.PublicKey
	Initialized    bool
}

func (obj *SolcloutInstance) Marshal() []byte {
	b := make([]byte, SolcloutInstanceSize)

	var offset int
	binary.PutKey32(b, obj.SolcloutToken, &offset)
	binary.PutKey32(b[offset:], obj.SolcloutStorage, &offset)
	binary.PutKey32(b[offset:], obj.TokenProgramID, &offset)
	if obj.Initialized {
		b[offset] = 1
	}

	return b
}

// Unmarshal reads a record from the front of an account's data. Trailing
// bytes are permitted so zero-padded freshly allocated accounts parse as an
// uninitialized record.
func (obj *SolcloutInstance) Unmarshal(b []byte) bool {
	if len(b) < SolcloutInstanceSize {
		return false
	}

	var offset int
	binary.GetKey32(b, &obj.SolcloutToken, &offset)
	binary.GetKey32(b[offset:], &obj.SolcloutStorage, &offset)
	binary.GetKey32(b[offset:], &obj.TokenProgramID, &offset)
	obj.Initialized = b[offset] == 1

	return true
}

// SolcloutCreator is one creator's bonding-curve token configuration, scoped
// to a SolcloutInstance. Fields are immutable once initialized; outstanding
// supply lives in the external mint record and is read fresh on every
// purchase.
type SolcloutCreator struct {
	// The creator token mint pubkey
	CreatorToken ed25519.PublicKey
	// Solclout instance that can be traded for this creator token
	SolcloutInstance ed25519.PublicKey
	// Destination for founder rewards
	FounderRewardsAccount ed25519.PublicKey
	// Share of each purchase minted to the founder, in parts per hundred
	// thousand. Zero is rejected at initialization.
	FounderRewardPercentage uint16
	Initialized             bool
	// Nonce used to re-derive this creator's signing authority. Stable for
	// the creator's lifetime; the derived identity depends on it.
	AuthorityNonce uint8
}

func (obj *SolcloutCreator) Marshal() []byte {
	b := make([]byte, SolcloutCreatorSize)

	var offset int
	binary.PutKey32(b, obj.CreatorToken, &offset)
	binary.PutKey32(b[offset:], obj.SolcloutInstance, &offset)
	binary.PutKey32(b[offset:], obj.FounderRewardsAccount, &offset)
	putUint16(b[offset:], obj.FounderRewardPercentage, &offset)
	if obj.Initialized {
		b[offset] = 1
	}
	offset++
	b[offset] = obj.AuthorityNonce

	return b
}

func (obj *SolcloutCreator) Unmarshal(b []byte) bool {
	if len(b) < SolcloutCreatorSize {
		return false
	}

	var offset int
	binary.GetKey32(b, &obj.CreatorToken, &offset)
	binary.GetKey32(b[offset:], &obj.SolcloutInstance, &offset)
	binary.GetKey32(b[offset:], &obj.FounderRewardsAccount, &offset)
	getUint16(b[offset:], &obj.FounderRewardPercentage, &offset)
	obj.Initialized = b[offset] == 1
	offset++
	obj.AuthorityNonce = b[offset]

	return true
}
