package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bellapacxx/bingo-hall/game"
)

// rulesFile is the YAML layout of a rules file. Absent keys keep the
// base value.
type rulesFile struct {
	TotalBalls     *int            `yaml:"total_balls"`
	MaxDraws       *int            `yaml:"max_draws"`
	BonusThreshold *int            `yaml:"bonus_threshold"`
	WinThreshold   *int            `yaml:"win_threshold"`
	MinSetSize     *int            `yaml:"min_set_size"`
	MaxSetSize     *int            `yaml:"max_set_size"`
	RecentBalls    *int            `yaml:"recent_balls"`
	Countdown      *time.Duration  `yaml:"countdown"`
	DrawWindow     *time.Duration  `yaml:"draw_window"`
	DrawInterval   *time.Duration  `yaml:"draw_interval"`
	Prices         map[int]float64 `yaml:"prices"`
	Prizes         map[int]int64   `yaml:"prizes"`
}

// LoadRules applies the rules file at path on top of base.
func LoadRules(path string, base game.Rules) (game.Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(raw, base)
}

// ParseRules applies YAML rules on top of base.
func ParseRules(raw []byte, base game.Rules) (game.Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return base, fmt.Errorf("parse rules file: %w", err)
	}

	r := base
	setInt(&r.TotalBalls, f.TotalBalls)
	setInt(&r.MaxDraws, f.MaxDraws)
	setInt(&r.BonusThreshold, f.BonusThreshold)
	setInt(&r.WinThreshold, f.WinThreshold)
	setInt(&r.MinSetSize, f.MinSetSize)
	setInt(&r.MaxSetSize, f.MaxSetSize)
	setInt(&r.RecentBalls, f.RecentBalls)
	setDuration(&r.Countdown, f.Countdown)
	setDuration(&r.DrawWindow, f.DrawWindow)
	setDuration(&r.DrawInterval, f.DrawInterval)

	if len(f.Prices) > 0 {
		r.Prices = make(game.PriceTable, len(f.Prices))
		for size, price := range f.Prices {
			r.Prices[size] = decimal.NewFromFloat(price)
		}
	}
	if len(f.Prizes) > 0 {
		r.Prizes = make(game.PrizeTable, len(f.Prizes))
		for matches, mult := range f.Prizes {
			r.Prizes[matches] = mult
		}
	}
	return r, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
