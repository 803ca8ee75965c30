package app

import (
	"sync"

	"caregiver-aptitude-service/internal/domain"
)

// Feed fans out distribution updates of one quiz to its subscribers.
type Feed struct {
	mu          sync.Mutex
	last        domain.Distribution
	subscribers map[chan domain.Distribution]struct{}
}

// NewFeed is exported for infrastructure layers that keep feed registries.
func NewFeed() *Feed {
	return &Feed{
		subscribers: make(map[chan domain.Distribution]struct{}),
	}
}

// IsIdle reports whether the feed has no subscribers.
func (f *Feed) IsIdle() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) == 0
}

func (f *Feed) subscribe(initial domain.Distribution) (<-chan domain.Distribution, func()) {
	ch := make(chan domain.Distribution, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	if initial.Total >= f.last.Total {
		f.last = initial
	}
	// Sent under the lock so a concurrent broadcast cannot overtake it.
	ch <- f.last
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

// broadcast pushes dist unless a newer distribution was already sent.
func (f *Feed) broadcast(dist domain.Distribution) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dist.Total < f.last.Total {
		return
	}
	f.last = dist
	for ch := range f.subscribers {
		select {
		case ch <- dist:
		default:
			// Slow subscriber: replace its oldest pending update.
			select {
			case <-ch:
			default:
			}
			ch <- dist
		}
	}
}
