package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/models"
)

// GormStore persists rounds, tickets and history in postgres.
type GormStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewGormStore(db *gorm.DB, log *zap.SugaredLogger) *GormStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &GormStore{db: db, log: log}
}

func (s *GormStore) LoadLatestRound(ctx context.Context) (*game.RoundState, error) {
	var rec models.RoundState
	err := s.db.WithContext(ctx).Order("updated_at desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest round: %w", err)
	}

	state := game.RoundState{
		RoundID:   rec.RoundID,
		Phase:     game.Phase(rec.Phase),
		Running:   rec.Running,
		BonusBall: rec.BonusBall,
		UpdatedAt: rec.UpdatedAt,
	}
	if err := decodeJSON(rec.Available, &state.Available); err != nil {
		return nil, fmt.Errorf("round %s available balls: %w", rec.RoundID, err)
	}
	if err := decodeJSON(rec.DrawnBalls, &state.DrawnBalls); err != nil {
		return nil, fmt.Errorf("round %s drawn balls: %w", rec.RoundID, err)
	}
	if err := decodeJSON(rec.Winner, &state.Winner); err != nil {
		return nil, fmt.Errorf("round %s winner: %w", rec.RoundID, err)
	}
	if rec.StartedAt != nil {
		state.StartedAt = *rec.StartedAt
	}
	if rec.DeadlineAt != nil {
		state.DeadlineAt = *rec.DeadlineAt
	}
	return &state, nil
}

func (s *GormStore) SaveRoundState(ctx context.Context, state game.RoundState) error {
	rec := models.RoundState{
		RoundID:    state.RoundID,
		Phase:      string(state.Phase),
		Running:    state.Running,
		Available:  encodeJSON(state.Available),
		DrawnBalls: encodeJSON(state.DrawnBalls),
		BonusBall:  state.BonusBall,
		Winner:     encodeJSON(state.Winner),
		StartedAt:  optionalTime(state.StartedAt),
		DeadlineAt: optionalTime(state.DeadlineAt),
		UpdatedAt:  state.UpdatedAt,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save round %s: %w", state.RoundID, err)
	}
	return nil
}

func (s *GormStore) AppendHistory(ctx context.Context, entry game.HistoryEntry) error {
	rec := models.RoundHistory{
		RoundID:     entry.RoundID,
		DrawnBalls:  encodeJSON(entry.DrawnBalls),
		BonusBall:   entry.BonusBall,
		Winner:      encodeJSON(entry.Winner),
		StartedAt:   entry.StartedAt,
		EndedAt:     entry.EndedAt,
		Reason:      string(entry.Reason),
		TicketCount: entry.TicketCount,
		TotalStake:  entry.TotalStake,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("append history %s: %w", entry.RoundID, err)
	}
	return nil
}

func (s *GormStore) InsertTicket(ctx context.Context, t game.Ticket) error {
	rec := models.Ticket{
		SlipID:     t.ID,
		RoundID:    t.RoundID,
		PlayerName: t.PlayerName,
		Lines:      encodeJSON(t.Lines),
		Stake:      t.Stake,
		SoldAt:     t.SoldAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert ticket %s: %w", t.ID, err)
	}
	return nil
}

func (s *GormStore) QueryTicketsForRound(ctx context.Context, roundID string) ([]game.Ticket, error) {
	var recs []models.Ticket
	err := s.db.WithContext(ctx).Where("round_id = ?", roundID).Order("id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query tickets for %s: %w", roundID, err)
	}

	tickets := make([]game.Ticket, 0, len(recs))
	for _, rec := range recs {
		t := game.Ticket{
			ID:         rec.SlipID,
			RoundID:    rec.RoundID,
			PlayerName: rec.PlayerName,
			Stake:      rec.Stake,
			SoldAt:     rec.SoldAt,
		}
		if err := decodeJSON(rec.Lines, &t.Lines); err != nil {
			// A corrupt row cannot take part in win detection; skip it.
			s.log.Errorw("skipping unreadable ticket", "round", roundID, "ticket", rec.SlipID, "error", err)
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (s *GormStore) LoadHistory(ctx context.Context, limit int) ([]game.HistoryEntry, error) {
	var recs []models.RoundHistory
	q := s.db.WithContext(ctx).Order("ended_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// newest first from the query, oldest first to the caller
	entries := make([]game.HistoryEntry, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		entry := game.HistoryEntry{
			RoundID:     rec.RoundID,
			BonusBall:   rec.BonusBall,
			StartedAt:   rec.StartedAt,
			EndedAt:     rec.EndedAt,
			Reason:      game.EndReason(rec.Reason),
			TicketCount: rec.TicketCount,
			TotalStake:  rec.TotalStake,
		}
		if err := decodeJSON(rec.DrawnBalls, &entry.DrawnBalls); err != nil {
			return nil, fmt.Errorf("history %s drawn balls: %w", rec.RoundID, err)
		}
		if err := decodeJSON(rec.Winner, &entry.Winner); err != nil {
			return nil, fmt.Errorf("history %s winner: %w", rec.RoundID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RoundExists checks both tables; history rows outlive pruned state rows.
func (s *GormStore) RoundExists(ctx context.Context, roundID string) (bool, error) {
	for _, model := range []any{&models.RoundState{}, &models.RoundHistory{}} {
		var n int64
		err := s.db.WithContext(ctx).Model(model).Where("round_id = ?", roundID).Count(&n).Error
		if err != nil {
			return false, fmt.Errorf("check round %s: %w", roundID, err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func encodeJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func decodeJSON(raw datatypes.JSON, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
