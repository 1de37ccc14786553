package basket

import (
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// State is one publication of the engine: the basket (nil when absent) and
// its derived totals. Totals are recomputed on publish, never stored ahead
// of their basket.
type State struct {
	Basket *domain.Basket
	Totals domain.BasketTotals
}

// Stream is a broadcast channel with replay-last semantics: a late
// subscriber immediately receives the current state, then every later
// publication. Slow subscribers only ever see the most recent value; stale
// intermediate states are dropped, not queued.
type Stream struct {
	mu     sync.Mutex
	last   State
	subs   map[int]chan State
	nextID int
	closed bool
}

func NewStream() *Stream {
	return &Stream{subs: make(map[int]chan State)}
}

// Subscribe returns a channel of publications and a cancel function. The
// current state is delivered on the channel before Subscribe returns.
func (s *Stream) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.last

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Stream) Publish(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.last = state
	for _, ch := range s.subs {
		// Drop the undelivered previous value so the send below never blocks.
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// Last returns the most recent publication without subscribing.
func (s *Stream) Last() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Close ends the stream and closes every subscriber channel.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
