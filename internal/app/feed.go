package app

import (
	"sync"

	"swag-quiz-service/internal/domain"
)

// Feed fans submission outcomes out to live subscribers.
type Feed struct {
	buffer      int
	mu          sync.Mutex
	subscribers map[chan domain.Outcome]struct{}
}

func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = 8
	}
	return &Feed{
		buffer:      buffer,
		subscribers: make(map[chan domain.Outcome]struct{}),
	}
}

// Subscribe returns a channel of outcomes published after the call.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *Feed) Subscribe() (<-chan domain.Outcome, func()) {
	ch := make(chan domain.Outcome, f.buffer)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish never blocks: a subscriber with a full buffer loses its oldest pending outcome.
func (f *Feed) Publish(outcome domain.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- outcome:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- outcome:
			default:
			}
		}
	}
}

// Subscribers reports how many subscriptions are open.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
