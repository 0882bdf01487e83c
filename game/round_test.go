package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRecentBalls(t *testing.T) {
	r := newRound("BG-10001", 48, epoch)
	r.drawn = []int{4, 8, 15, 16, 23, 42}

	assert.Equal(t, []int{42, 23, 16}, r.RecentBalls(3))
	assert.Equal(t, []int{42, 23, 16, 15, 8, 4}, r.RecentBalls(10))
	assert.Empty(t, newRound("BG-10002", 48, epoch).RecentBalls(10))
}

func TestRoundRoster(t *testing.T) {
	r := newRound("BG-10001", 48, epoch)
	r.addTicket(&Ticket{ID: "1", PlayerName: "b", Stake: decimal.NewFromInt(5)})
	r.addTicket(&Ticket{ID: "2", PlayerName: "a", Stake: decimal.NewFromInt(6)})
	r.addTicket(&Ticket{ID: "3", PlayerName: "b", Stake: decimal.NewFromInt(10)})

	assert.Equal(t, []string{"b", "a"}, r.Players())
	assert.True(t, r.hasTicket("2"))
	assert.False(t, r.hasTicket("4"))
	assert.Equal(t, "21", r.TotalStake().String())
}

func TestRoundArchive(t *testing.T) {
	r := newRound("BG-10001", 48, epoch)
	bonus := 7
	r.drawn = []int{1, 2}
	r.bonus = &bonus

	entry := r.archive(EndReset, epoch)
	assert.Nil(t, entry.StartedAt, "a round that never drew has no start time")
	assert.Equal(t, EndReset, entry.Reason)

	// the archive does not alias live round state
	r.drawn[0] = 99
	*r.bonus = 8
	assert.Equal(t, []int{1, 2}, entry.DrawnBalls)
	require.NotNil(t, entry.BonusBall)
	assert.Equal(t, 7, *entry.BonusBall)
}

func TestNewRoundID(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := newRoundID()
		require.NoError(t, err)
		assert.Regexp(t, `^BG-[1-9]\d{4}$`, id)
	}
}

func TestNewResult(t *testing.T) {
	ok := NewResult("ticket sold", 1, nil)
	assert.True(t, ok.Success)
	assert.Equal(t, "ticket sold", ok.Message)

	failed := NewResult("ticket sold", nil, ErrNotReady)
	assert.False(t, failed.Success)
	assert.Equal(t, ErrNotReady.Error(), failed.Message)
}
