package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Handler receives published events
type Handler func(ctx context.Context, e Event) error

// Only adapts a handler for a single event type; other events are ignored
func Only[T Event](fn func(ctx context.Context, e T) error) Handler {
	return func(ctx context.Context, e Event) error {
		ev, ok := e.(T)
		if !ok {
			return nil
		}

		return fn(ctx, ev)
	}
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events to subscribers synchronously in subscription order.
// Publishing never fails: handler errors and panics are logged and do not
// reach the publisher or other subscribers
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus returns a bus with no subscribers
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Len returns the number of subscribers
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Publish delivers e to every current subscriber
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	if len(subs) == 0 {
		log.Debug().Str("event", e.Name()).Msg("no subscribers for event")
		return
	}

	for _, s := range subs {
		if err := deliver(ctx, s.handler, e); err != nil {
			log.Warn().Err(err).Str("event", e.Name()).Uint64("subscriber", s.id).Msg("event subscriber failed")
		}
	}
}

func deliver(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return h(ctx, e)
}
