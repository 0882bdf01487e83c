package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticket(id string, stake int64, lines ...[]int) *Ticket {
	t := &Ticket{ID: id, PlayerName: "p-" + id, Stake: decimal.Zero}
	for _, l := range lines {
		t.Lines = append(t.Lines, Line{Numbers: l, Stake: decimal.NewFromInt(stake)})
		t.Stake = t.Stake.Add(decimal.NewFromInt(stake))
	}
	return t
}

func TestFindWinnerFirstMatchWins(t *testing.T) {
	drawn := []int{1, 2, 3, 4, 5, 11, 12, 13, 14, 15, 16, 17}
	tickets := []*Ticket{
		ticket("T1", 5, []int{1, 2, 3, 4, 5, 40}),         // 5 matches
		ticket("T2", 5, []int{11, 12, 13, 14, 15, 16, 17}), // 7 matches
	}

	w := FindWinner(tickets, drawn, 5, DefaultPrizes())
	require.NotNil(t, w)
	assert.Equal(t, "T1", w.TicketID)
	assert.Equal(t, "p-T1", w.PlayerName)
	assert.Equal(t, 5, w.Matches)
	assert.True(t, w.Prize.Equal(decimal.NewFromInt(50)))
}

func TestFindWinnerNoQualifyingTicket(t *testing.T) {
	tickets := []*Ticket{ticket("T1", 5, []int{1, 2, 3, 4, 40, 41})}
	assert.Nil(t, FindWinner(tickets, []int{1, 2, 3, 4, 9, 10}, 5, DefaultPrizes()))
	assert.Nil(t, FindWinner(tickets, nil, 5, DefaultPrizes()))
	assert.Nil(t, FindWinner(nil, []int{1, 2, 3, 4, 5}, 5, DefaultPrizes()))
}

func TestFindWinnerCountsAcrossSets(t *testing.T) {
	drawn := []int{1, 2, 3, 4, 5, 6, 7, 8}
	tickets := []*Ticket{
		ticket("T1", 5, []int{1, 2, 3, 40, 41, 42}, []int{4, 5, 6, 43, 44, 45}),
	}

	w := FindWinner(tickets, drawn, 5, DefaultPrizes())
	require.NotNil(t, w, "no single set reaches five but the ticket does")
	assert.Equal(t, "T1", w.TicketID)
	assert.Equal(t, 6, w.Matches)
}

func TestFindWinnerUsesTicketStake(t *testing.T) {
	drawn := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	tk := ticket("T1", 5, []int{1, 2, 3, 4, 5, 6}, []int{7, 8, 9, 10, 11, 12})
	tk.Stake = decimal.NewFromInt(10)

	w := FindWinner([]*Ticket{tk}, drawn, 5, DefaultPrizes())
	require.NotNil(t, w)
	assert.Equal(t, 12, w.Matches)
	// twelve matches is past the table, so it pays the lowest tier
	assert.True(t, w.Prize.Equal(decimal.NewFromInt(100)))
}
