package animation

import "time"

type delayedTask struct {
	fn  func()
	due time.Duration
}

// Scheduler fires one-shot callbacks once their delay has elapsed
type Scheduler struct {
	now   func() time.Duration
	tasks arena[delayedTask]
	live  []int32
}

// NewScheduler creates a scheduler reading the current time from now
func NewScheduler(now func() time.Duration) *Scheduler {
	return &Scheduler{now: now}
}

// Schedule runs fn on the first Tick at least delay after this call. A nil fn is ignored
func (s *Scheduler) Schedule(fn func(), delay time.Duration) {
	if fn == nil {
		return
	}
	idx := s.tasks.acquire()
	t := s.tasks.at(idx)
	t.fn = fn
	t.due = s.now() + delay
	s.live = append(s.live, idx)
}

// Tick fires every task due at now. Tasks scheduled by a callback wait for the next Tick
func (s *Scheduler) Tick(now time.Duration) {
	// Walk backwards: a swapped-in entry comes from the tail, which is either
	// already visited or was scheduled during this pass.
	for i := len(s.live) - 1; i >= 0; i-- {
		idx := s.live[i]
		t := s.tasks.at(idx)
		if t.due > now {
			continue
		}
		fn := t.fn

		last := len(s.live) - 1
		s.live[i] = s.live[last]
		s.live = s.live[:last]
		s.tasks.release(idx)

		fn()
	}
}

// Len returns the number of pending tasks
func (s *Scheduler) Len() int {
	return len(s.live)
}

// Stats reports task pool usage
func (s *Scheduler) Stats() PoolStats {
	return s.tasks.stats()
}
