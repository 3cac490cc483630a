package solclout

import (
	"github.com/pkg/errors"
)

// Each validation failure surfaces one of these kinds and aborts the whole
// transition; kinds are never coerced into one another.
var (
	ErrIncorrectTokenProgramID          = errors.New("account not owned by the expected token program")
	ErrExpectedAccount                  = errors.New("expected a token account")
	ErrInvalidProgramAddress            = errors.New("derivation did not land on a valid program address")
	ErrInvalidStorageOwner              = errors.New("storage account not owned by the derived authority")
	ErrAlreadyInitialized               = errors.New("account already initialized")
	ErrInvalidSolcloutInstanceOwner     = errors.New("solclout instance not owned by this program")
	ErrAccountWrongTokenProgram         = errors.New("account owned by the wrong token program")
	ErrInvalidMintAuthority             = errors.New("mint authority is not the derived authority")
	ErrInvalidFreezeAuthority           = errors.New("freeze authority is not the derived authority")
	ErrInvalidFounderRewardsAccountType = errors.New("founder rewards account is not for the creator mint")
	ErrMissingSigner                    = errors.New("required signer is missing")
	ErrInvalidCreatorMint               = errors.New("mint does not match the creator's token")
	ErrSolcloutInstanceMismatch         = errors.New("creator belongs to a different solclout instance")
	ErrInvalidCreatorOwner              = errors.New("creator account not owned by this program")
	ErrInvalidFounderRewardPercentage   = errors.New("founder reward percentage must be non-zero")
	ErrInvalidInstructionData           = errors.New("unexpected instruction data")
	ErrInvalidAccountData               = errors.New("unexpected account data")
	ErrNotImplemented                   = errors.New("instruction not implemented")
)
