// Package session holds the process-wide authentication truth of the CLI
// and the Manager that keeps it in step with the UserAPI.
package session

import (
	"sync"
)

type subscriber struct {
	id int
	fn func(bool)
}

type event struct {
	value      bool
	recipients []subscriber
}

// State is an observable logged-in flag. It starts false. New subscribers
// receive the current value immediately and every later transition in
// emission order. Callbacks run one at a time on the goroutine that emitted
// the first pending event, so a callback may call MarkLoggedIn/MarkLoggedOut
// itself; that transition is delivered once the current one is done.
//
// "Immediately" holds for a single goroutine. When another goroutine is
// already delivering, Subscribe and Mark* only queue their events and
// return; that goroutine runs the callbacks before it returns.
type State struct {
	mu          sync.Mutex
	value       bool
	nextID      int
	subscribers []subscriber
	queue       []event
	dispatching bool
}

// NewState creates a logged-out State
func NewState() *State {
	return &State{}
}

// Current reports whether a session is active
func (s *State) Current() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe registers fn and delivers the current value to it. The returned
// function removes the subscription; events already queued for fn are still
// delivered.
func (s *State) Subscribe(fn func(bool)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	sub := subscriber{id: s.nextID, fn: fn}
	s.subscribers = append(s.subscribers, sub)
	s.queue = append(s.queue, event{value: s.value, recipients: []subscriber{sub}})
	s.mu.Unlock()

	s.dispatch()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(sub.id) })
	}
}

// MarkLoggedIn emits true
func (s *State) MarkLoggedIn() {
	s.emit(true)
}

// MarkLoggedOut emits false
func (s *State) MarkLoggedOut() {
	s.emit(false)
}

func (s *State) emit(value bool) {
	s.mu.Lock()
	s.value = value
	recipients := make([]subscriber, len(s.subscribers))
	copy(recipients, s.subscribers)
	s.queue = append(s.queue, event{value: value, recipients: recipients})
	s.mu.Unlock()

	s.dispatch()
}

func (s *State) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// dispatch drains the queue unless another call is already draining it
func (s *State) dispatch() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	// A panicking subscriber must not leave the queue marked as draining.
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.dispatching = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		ev, ok := s.next()
		if !ok {
			return
		}
		for _, sub := range ev.recipients {
			sub.fn(ev.value)
		}
	}
}

func (s *State) next() (event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		s.dispatching = false
		return event{}, false
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, true
}
