package game

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultTotalBalls     = 48
	DefaultMaxDraws       = 30
	DefaultBonusThreshold = 10
	DefaultWinThreshold   = 5
	DefaultMinSetSize     = 6
	DefaultMaxSetSize     = 10
	DefaultRecentBalls    = 10

	DefaultCountdown    = 30 * time.Second
	DefaultDrawWindow   = 300 * time.Second
	DefaultDrawInterval = 5 * time.Second
)

// PriceTable maps a line's size to its stake.
type PriceTable map[int]decimal.Decimal

// DefaultPrices: 6→5, 7→6, 8→8, 9→9, 10→10.
func DefaultPrices() PriceTable {
	return PriceTable{
		6:  decimal.NewFromInt(5),
		7:  decimal.NewFromInt(6),
		8:  decimal.NewFromInt(8),
		9:  decimal.NewFromInt(9),
		10: decimal.NewFromInt(10),
	}
}

// Rules are the tunable constants of a hall.
type Rules struct {
	TotalBalls     int
	MaxDraws       int
	BonusThreshold int
	WinThreshold   int
	MinSetSize     int
	MaxSetSize     int
	RecentBalls    int

	Countdown    time.Duration
	DrawWindow   time.Duration
	DrawInterval time.Duration

	Prices PriceTable
	Prizes PrizeTable
}

// DefaultRules returns the standard 48-ball hall.
func DefaultRules() Rules {
	return Rules{
		TotalBalls:     DefaultTotalBalls,
		MaxDraws:       DefaultMaxDraws,
		BonusThreshold: DefaultBonusThreshold,
		WinThreshold:   DefaultWinThreshold,
		MinSetSize:     DefaultMinSetSize,
		MaxSetSize:     DefaultMaxSetSize,
		RecentBalls:    DefaultRecentBalls,
		Countdown:      DefaultCountdown,
		DrawWindow:     DefaultDrawWindow,
		DrawInterval:   DefaultDrawInterval,
		Prices:         DefaultPrices(),
		Prizes:         DefaultPrizes(),
	}
}

// withDefaults fills zero fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.TotalBalls <= 0 {
		r.TotalBalls = d.TotalBalls
	}
	if r.MaxDraws <= 0 {
		r.MaxDraws = d.MaxDraws
	}
	if r.BonusThreshold <= 0 {
		r.BonusThreshold = d.BonusThreshold
	}
	if r.WinThreshold <= 0 {
		r.WinThreshold = d.WinThreshold
	}
	if r.MinSetSize <= 0 {
		r.MinSetSize = d.MinSetSize
	}
	if r.MaxSetSize <= 0 {
		r.MaxSetSize = d.MaxSetSize
	}
	if r.RecentBalls <= 0 {
		r.RecentBalls = d.RecentBalls
	}
	if r.Countdown <= 0 {
		r.Countdown = d.Countdown
	}
	if r.DrawWindow <= 0 {
		r.DrawWindow = d.DrawWindow
	}
	if r.DrawInterval <= 0 {
		r.DrawInterval = d.DrawInterval
	}
	if len(r.Prices) == 0 {
		r.Prices = d.Prices
	}
	if len(r.Prizes) == 0 {
		r.Prizes = d.Prizes
	}
	return r
}
