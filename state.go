package tally

import "sync"

// StateCell holds one value and notifies subscribers when it changes.
//
// Writes are applied one at a time in call order: every subscriber of a write is
// notified, in subscription order, before the next write to the same cell is
// applied. A write made while the cell is notifying, from a subscriber or from
// another goroutine, is queued and applied by the call that runs the current
// round; such a write returns before it is applied.
type StateCell[T comparable] struct {
	id        string
	mu        sync.RWMutex
	value     T
	subs      []*subscription[T]
	queue     []pendingWrite[T]
	notifying bool
}

type subscription[T comparable] struct {
	fn     func(old, new T)
	active bool
}

type pendingWrite[T comparable] struct {
	fn   func(T) T
	done func(changed bool)
}

// State creates a cell holding the given initial value.
func State[T comparable](initial T) *StateCell[T] {
	return &StateCell[T]{
		id:    genRandID(),
		value: initial,
	}
}

func (s *StateCell[T]) ID() string {
	return s.id
}

// Get returns the latest committed value.
func (s *StateCell[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value. Subscribers are notified with (old, new) only when
// the new value differs from the current one.
func (s *StateCell[T]) Set(value T) {
	s.swap(value, nil)
}

// Update applies fn to the current value and stores the result. fn always sees
// the value left by the previous write, so concurrent updates are never lost.
func (s *StateCell[T]) Update(fn func(T) T) {
	s.modify(fn, nil)
}

// Subscribe registers fn and returns a func that removes it. The returned func
// can be called any number of times.
func (s *StateCell[T]) Subscribe(fn func(old, new T)) func() {
	if fn == nil {
		return func() {}
	}
	sub := &subscription[T]{fn: fn, active: true}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			sub.active = false
			for i, other := range s.subs {
				if other == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// swap is Set with a done func, called with whether the value changed once the
// subscribers of this write have been notified.
func (s *StateCell[T]) swap(value T, done func(changed bool)) {
	s.write(func(T) T { return value }, done)
}

// modify is Update with a done func, see swap.
func (s *StateCell[T]) modify(fn func(T) T, done func(changed bool)) {
	s.write(fn, done)
}

// write queues the write and, unless another call is already running a round,
// applies queued writes until the queue is empty. The done funcs of the applied
// writes run in order once the queue has settled, so they observe the value left
// by any write their subscribers made.
func (s *StateCell[T]) write(fn func(T) T, done func(changed bool)) {
	s.mu.Lock()
	s.queue = append(s.queue, pendingWrite[T]{fn: fn, done: done})
	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			// a subscriber panicked; hand the queue to the next writer
			s.mu.Lock()
			s.notifying = false
			s.mu.Unlock()
		}
	}()

	type result struct {
		done    func(bool)
		changed bool
	}
	var results []result
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			if len(results) == 0 {
				s.notifying = false
				s.mu.Unlock()
				finished = true
				return
			}
			s.mu.Unlock()
			for _, r := range results {
				r.done(r.changed)
			}
			results = results[:0]
			continue
		}
		w := s.queue[0]
		s.queue[0] = pendingWrite[T]{}
		s.queue = s.queue[1:]
		old := s.value
		s.mu.Unlock()

		changed := s.apply(old, w.fn)
		if w.done != nil {
			results = append(results, result{done: w.done, changed: changed})
		}
	}
}

// apply commits one queued write and notifies the subscribers. Only the call
// running the round reaches it, so the value cannot move between the read of
// old and the commit.
func (s *StateCell[T]) apply(old T, fn func(T) T) bool {
	value := fn(old)
	if value == old {
		return false
	}
	s.mu.Lock()
	s.value = value
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if s.isSubscribed(sub) {
			sub.fn(old, value)
		}
	}
	return true
}

func (s *StateCell[T]) isSubscribed(sub *subscription[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sub.active
}
