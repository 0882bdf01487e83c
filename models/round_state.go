package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoundState is the latest snapshot of one round, upserted after every
// transition and draw.
type RoundState struct {
	RoundID    string         `gorm:"primaryKey;size:16" json:"round_id"`
	Phase      string         `gorm:"size:20;not null" json:"phase"`
	Running    bool           `json:"running"`
	Available  datatypes.JSON `json:"available"`   // undrawn balls
	DrawnBalls datatypes.JSON `json:"drawn_balls"` // draw order
	BonusBall  *int           `json:"bonus_ball"`
	Winner     datatypes.JSON `json:"winner"`
	StartedAt  *time.Time     `json:"started_at"`
	DeadlineAt *time.Time     `json:"deadline_at"`
	UpdatedAt  time.Time      `gorm:"index;autoUpdateTime:false" json:"updated_at"`
}
