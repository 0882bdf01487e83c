package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrize(t *testing.T) {
	prizes := DefaultPrizes()
	stake := decimal.NewFromInt(5)

	tests := []struct {
		matches int
		want    int64
	}{
		{5, 50},
		{6, 250},
		{7, 500},
		{8, 2500},
		{9, 5000},
		{10, 25000},
		{4, 0},
		{0, 0},
		// unmapped winning count pays the lowest tier
		{11, 50},
	}
	for _, tt := range tests {
		got := prizes.Prize(tt.matches, stake)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "prize(%d) = %s, want %d", tt.matches, got, tt.want)
	}
}

func TestPrizeFractionalStake(t *testing.T) {
	got := DefaultPrizes().Prize(6, decimal.RequireFromString("2.5"))
	assert.Equal(t, "125", got.String())
}

func TestPrizeEmptyTable(t *testing.T) {
	assert.True(t, PrizeTable{}.Prize(7, decimal.NewFromInt(5)).IsZero())
}
