package solclout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.EqualValues(t, 1000000, Price(0, 1000000000))
	assert.EqualValues(t, 7000000, Price(1000000000, 1000000000))
}

func TestPrice_ZeroQuantity(t *testing.T) {
	for _, supply := range []uint64{0, 1, 1000000000, 1 << 40, 1 << 63} {
		assert.EqualValues(t, 0, Price(supply, 0))
	}
}

func TestPrice_Monotonic(t *testing.T) {
	samples := []uint64{0, 1, 1000, 1000000000, 5000000000, 1 << 40}

	for _, supply := range samples {
		var prev uint64
		for _, quantity := range samples {
			cost := Price(supply, quantity)
			assert.GreaterOrEqual(t, cost, prev)
			prev = cost
		}
	}

	for _, quantity := range samples {
		var prev uint64
		for _, supply := range samples {
			cost := Price(supply, quantity)
			assert.GreaterOrEqual(t, cost, prev)
			prev = cost
		}
	}
}

func TestSplitPurchase(t *testing.T) {
	founderCut, purchaserCut := SplitPurchase(1000000000, 1000)
	assert.EqualValues(t, 10000000, founderCut)
	assert.EqualValues(t, 990000000, purchaserCut)
}

func TestSplitPurchase_Exact(t *testing.T) {
	lamports := []uint64{0, 1, 999, 1000000000, 1<<64 - 1}
	percentages := []uint16{1, 7, 1000, 9999, 65535}

	for _, l := range lamports {
		for _, p := range percentages {
			founderCut, purchaserCut := SplitPurchase(l, p)
			assert.Equal(t, l, founderCut+purchaserCut)
			assert.LessOrEqual(t, founderCut, l)
		}
	}
}
