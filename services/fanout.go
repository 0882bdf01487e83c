package services

import (
	"errors"

	"github.com/bellapacxx/bingo-hall/game"
)

// Fanout publishes every event to each sink in order. A failing sink
// does not stop the others.
type Fanout []game.Publisher

func (f Fanout) Publish(event string, payload any) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
