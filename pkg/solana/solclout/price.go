package solclout

import (
	"math/big"
)

// Decimals is the shared decimal scale of the reserve asset and every
// creator coin.
const Decimals = 9

// FounderRewardScale is the denominator for FounderRewardPercentage: a value
// of 1000 diverts 1% of each purchase to the founder.
const FounderRewardScale = 100_000

// priceDenominator is 1000 * (10^Decimals)^2, the constant that folds the
// 0.003 curve coefficient and the unit normalization into one divisor.
var priceDenominator = new(big.Int).Mul(
	big.NewInt(1000),
	new(big.Int).Exp(big.NewInt(10), big.NewInt(2*Decimals), nil),
)

// Price computes the cost, in reserve base units, of minting lamports worth
// of creator coins against the current supply.
//
// The marginal price per unit of supply is 0.003 * supply^2, so the cost of a
// batch is the definite integral from supply to supply+lamports:
//
//	((supply + lamports)^3 - supply^3) / (1000 * (10^Decimals)^2)
//
// Arithmetic is exact; the final division floors, rounding cost down in the
// purchaser's favor.
func Price(supply, lamports uint64) uint64 {
	end := new(big.Int).Add(
		new(big.Int).SetUint64(supply),
		new(big.Int).SetUint64(lamports),
	)
	end.Exp(end, big.NewInt(3), nil)

	start := new(big.Int).SetUint64(supply)
	start.Exp(start, big.NewInt(3), nil)

	cost := end.Sub(end, start)
	cost.Quo(cost, priceDenominator)
	return cost.Uint64()
}

// SplitPurchase divides a purchase between the founder and the purchaser.
// The two cuts always sum to lamports exactly; remainder from the founder's
// floor division accrues to the purchaser.
func SplitPurchase(lamports uint64, founderRewardPercentage uint16) (founderCut, purchaserCut uint64) {
	cut := new(big.Int).Mul(
		new(big.Int).SetUint64(lamports),
		new(big.Int).SetUint64(uint64(founderRewardPercentage)),
	)
	cut.Quo(cut, big.NewInt(FounderRewardScale))
	founderCut = cut.Uint64()
	return founderCut, lamports - founderCut
}
