package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RoundHistory is written once when a round ends and never updated.
type RoundHistory struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	RoundID     string          `gorm:"size:16;uniqueIndex;not null" json:"round_id"`
	DrawnBalls  datatypes.JSON  `json:"drawn_balls"`
	BonusBall   *int            `json:"bonus_ball"`
	Winner      datatypes.JSON  `json:"winner"`
	StartedAt   *time.Time      `json:"started_at"`
	EndedAt     time.Time       `gorm:"index" json:"ended_at"`
	Reason      string          `gorm:"size:20" json:"reason"`
	TicketCount int             `json:"ticket_count"`
	TotalStake  decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_stake"`
}
