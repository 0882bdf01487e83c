package game

import "github.com/shopspring/decimal"

// PrizeTable maps a match count to the multiplier applied to the
// winning ticket's stake.
type PrizeTable map[int]int64

// DefaultPrizes pays 10x for 5 matches up to 5000x for 10.
func DefaultPrizes() PrizeTable {
	return PrizeTable{
		5:  10,
		6:  50,
		7:  100,
		8:  500,
		9:  1000,
		10: 5000,
	}
}

// Prize returns the payout for a ticket with the given matches and
// stake. Counts below the win threshold are not wins and pay zero; a
// winning count missing from the table pays the lowest tier.
func (t PrizeTable) Prize(matches int, stake decimal.Decimal) decimal.Decimal {
	lowest, ok := t.LowestTier()
	if !ok || matches < lowest {
		return decimal.Zero
	}
	multiplier, ok := t[matches]
	if !ok {
		multiplier = t[lowest]
	}
	return stake.Mul(decimal.NewFromInt(multiplier))
}

// LowestTier is the smallest match count that pays.
func (t PrizeTable) LowestTier() (int, bool) {
	lowest, found := 0, false
	for matches := range t {
		if !found || matches < lowest {
			lowest, found = matches, true
		}
	}
	return lowest, found
}
