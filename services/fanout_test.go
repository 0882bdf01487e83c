package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sink struct {
	events []string
	err    error
}

func (s *sink) Publish(event string, _ any) error {
	s.events = append(s.events, event)
	return s.err
}

func TestFanoutReachesEverySink(t *testing.T) {
	broken := &sink{err: errors.New("down")}
	healthy := &sink{}

	err := Fanout{broken, nil, healthy}.Publish("ballDrawn", 7)

	assert.ErrorContains(t, err, "down")
	assert.Equal(t, []string{"ballDrawn"}, broken.events)
	assert.Equal(t, []string{"ballDrawn"}, healthy.events)
}

func TestFanoutEmpty(t *testing.T) {
	assert.NoError(t, Fanout{}.Publish("gameState", nil))
}

func TestRedisPublisherBadURL(t *testing.T) {
	_, err := NewRedisPublisher("not-a-url", "")
	assert.Error(t, err)
}

func TestRedisPublisherUnreachable(t *testing.T) {
	p, err := NewRedisPublisher("redis://127.0.0.1:1/0", "")
	assert.NoError(t, err)
	defer p.Close()

	assert.Equal(t, DefaultRedisChannel, p.channel)
	assert.Error(t, p.Publish("gameState", map[string]int{"drawCount": 0}))
}
