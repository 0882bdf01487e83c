package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
)

// BallPool holds the balls of one round that have not been drawn yet.
type BallPool struct {
	total     int
	available []int
}

// NewBallPool returns a full pool of balls 1..total.
func NewBallPool(total int) *BallPool {
	p := &BallPool{total: total}
	p.Reset()
	return p
}

// Reset refills the pool with the full range.
func (p *BallPool) Reset() {
	p.available = make([]int, p.total)
	for i := range p.available {
		p.available[i] = i + 1
	}
}

// Restore replaces the pool content with a persisted set of balls.
func (p *BallPool) Restore(available []int) error {
	seen := make(map[int]bool, len(available))
	for _, n := range available {
		if n < 1 || n > p.total {
			return fmt.Errorf("restore pool: ball %d out of range 1..%d", n, p.total)
		}
		if seen[n] {
			return fmt.Errorf("restore pool: ball %d listed twice", n)
		}
		seen[n] = true
	}
	p.available = append([]int(nil), available...)
	return nil
}

// Draw removes one ball chosen uniformly at random.
func (p *BallPool) Draw() (int, error) {
	if len(p.available) == 0 {
		return 0, ErrEmptyPool
	}
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(p.available))))
	if err != nil {
		return 0, fmt.Errorf("draw ball: %w", err)
	}
	i := int(idx.Int64())
	ball := p.available[i]

	last := len(p.available) - 1
	p.available[i] = p.available[last]
	p.available = p.available[:last]
	return ball, nil
}

// Remaining is the number of undrawn balls.
func (p *BallPool) Remaining() int {
	return len(p.available)
}

// Total is the size of the full range.
func (p *BallPool) Total() int {
	return p.total
}

// Available returns the undrawn balls in ascending order.
func (p *BallPool) Available() []int {
	out := append([]int(nil), p.available...)
	sort.Ints(out)
	return out
}
