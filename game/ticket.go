package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketRequest is a cashier sale: one or more sets of lucky numbers
// for a player. Price, when set, overrides the table stake per set.
type TicketRequest struct {
	PlayerName string           `json:"playerName"`
	Sets       [][]int          `json:"luckyNumbers"`
	SlipID     string           `json:"slipNumber"`
	Price      *decimal.Decimal `json:"ticketPrice,omitempty"`
}

// buildTicket validates req completely before anything is mutated.
func (r Rules) buildTicket(req TicketRequest, roundID string, now time.Time) (*Ticket, error) {
	player := strings.TrimSpace(req.PlayerName)
	if player == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidTicket)
	}
	if len(req.Sets) == 0 {
		return nil, fmt.Errorf("%w: at least one set of numbers is required", ErrInvalidTicket)
	}
	if req.Price != nil && !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidTicket)
	}

	seen := make(map[int]int, len(req.Sets)*r.MaxSetSize)
	lines := make([]Line, 0, len(req.Sets))
	total := decimal.Zero

	for i, set := range req.Sets {
		if len(set) < r.MinSetSize || len(set) > r.MaxSetSize {
			return nil, fmt.Errorf("%w: set %d has %d numbers, want %d to %d",
				ErrInvalidTicket, i+1, len(set), r.MinSetSize, r.MaxSetSize)
		}
		for _, n := range set {
			if n < 1 || n > r.TotalBalls {
				return nil, fmt.Errorf("%w: number %d out of range 1..%d", ErrInvalidTicket, n, r.TotalBalls)
			}
			if prev, dup := seen[n]; dup {
				if prev == i {
					return nil, fmt.Errorf("%w: number %d repeated in set %d", ErrInvalidTicket, n, i+1)
				}
				return nil, fmt.Errorf("%w: number %d used in sets %d and %d", ErrInvalidTicket, n, prev+1, i+1)
			}
			seen[n] = i
		}

		stake, ok := r.Prices[len(set)]
		if req.Price != nil {
			stake, ok = *req.Price, true
		}
		if !ok {
			return nil, fmt.Errorf("%w: no price for a set of %d numbers", ErrInvalidTicket, len(set))
		}

		lines = append(lines, Line{Numbers: append([]int(nil), set...), Stake: stake})
		total = total.Add(stake)
	}

	id := strings.TrimSpace(req.SlipID)
	if id == "" {
		id = uuid.NewString()
	}

	return &Ticket{
		ID:         id,
		RoundID:    roundID,
		PlayerName: player,
		Lines:      lines,
		Stake:      total,
		SoldAt:     now,
	}, nil
}
