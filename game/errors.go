package game

import "errors"

var (
	ErrInvalidTicket    = errors.New("invalid ticket")
	ErrNoActiveRound    = errors.New("no active round")
	ErrRoundBusy        = errors.New("round busy")
	ErrNotReady         = errors.New("a cashier and a display must be connected")
	ErrPoolExhausted    = errors.New("no balls left")
	ErrRoundCapReached  = errors.New("maximum draws reached")
	ErrDeadlineExceeded = errors.New("draw window elapsed")
	ErrPersistence      = errors.New("persistence failure")
	ErrEmptyPool        = errors.New("ball pool is empty")
)

// IsRoundEnd reports whether err is a natural end-of-round condition
// rather than a caller mistake.
func IsRoundEnd(err error) bool {
	return errors.Is(err, ErrPoolExhausted) ||
		errors.Is(err, ErrRoundCapReached) ||
		errors.Is(err, ErrDeadlineExceeded)
}
