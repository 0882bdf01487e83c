package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Ticket struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	SlipID     string          `gorm:"size:64;not null;uniqueIndex:idx_tickets_round_slip" json:"slip_id"`
	RoundID    string          `gorm:"size:16;not null;uniqueIndex:idx_tickets_round_slip" json:"round_id"`
	PlayerName string          `gorm:"not null" json:"player_name"`
	Lines      datatypes.JSON  `json:"lines"` // [{numbers, stake}]
	Stake      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"stake"`
	SoldAt     time.Time       `json:"sold_at"`
}
