package animation

import (
	"testing"
	"time"
)

func TestSchedulerFiresEachTaskOnceNotEarly(t *testing.T) {
	clock := &fakeTime{}
	s := NewScheduler(clock.Now)

	const n = 20
	fired := make([]time.Duration, n)
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		i := i
		s.Schedule(func() {
			counts[i]++
			fired[i] = clock.now
		}, time.Duration(i+1)*10*time.Millisecond)
	}

	before := s.Stats()
	for at := time.Duration(0); at <= 300*time.Millisecond; at += 7 * time.Millisecond {
		clock.now = at
		s.Tick(at)
	}

	for i := 0; i < n; i++ {
		if counts[i] != 1 {
			t.Errorf("task %d fired %d times", i, counts[i])
		}
		if delay := time.Duration(i+1) * 10 * time.Millisecond; fired[i] < delay {
			t.Errorf("task %d fired at %v, before its delay %v", i, fired[i], delay)
		}
	}

	after := s.Stats()
	if s.Len() != 0 {
		t.Errorf("Len = %d after all fired", s.Len())
	}
	if after.Allocated != before.Allocated || after.Free != after.Allocated {
		t.Errorf("pool leak: before %+v after %+v", before, after)
	}
}

func TestSchedulerDelayIsRelativeToScheduleTime(t *testing.T) {
	clock := &fakeTime{now: time.Second}
	s := NewScheduler(clock.Now)

	fired := false
	s.Schedule(func() { fired = true }, 100*time.Millisecond)

	s.Tick(1050 * time.Millisecond)
	if fired {
		t.Fatal("fired before delay elapsed")
	}
	s.Tick(1100 * time.Millisecond)
	if !fired {
		t.Fatal("did not fire once delay elapsed")
	}
}

func TestSchedulerReentrantScheduleWaitsForNextTick(t *testing.T) {
	clock := &fakeTime{}
	s := NewScheduler(clock.Now)

	var order []string
	s.Schedule(func() {
		order = append(order, "outer")
		s.Schedule(func() { order = append(order, "inner") }, 0)
	}, 0)

	s.Tick(0)
	if len(order) != 1 {
		t.Fatalf("inner task ran in the same pass: %v", order)
	}
	s.Tick(0)
	if len(order) != 2 || order[1] != "inner" {
		t.Fatalf("inner task did not run on the next tick: %v", order)
	}
}

func TestSchedulerRemovalDoesNotSkipEntries(t *testing.T) {
	clock := &fakeTime{}
	s := NewScheduler(clock.Now)

	count := 0
	// interleave due and not-yet-due tasks
	for i := 0; i < 10; i++ {
		delay := time.Duration(0)
		if i%2 == 1 {
			delay = time.Hour
		}
		s.Schedule(func() { count++ }, delay)
	}

	s.Tick(time.Millisecond)
	if count != 5 {
		t.Errorf("fired %d due tasks, want 5", count)
	}
	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5 pending", s.Len())
	}
}

func TestSchedulerNilCallback(t *testing.T) {
	s := NewScheduler((&fakeTime{}).Now)
	s.Schedule(nil, 0)
	if s.Len() != 0 {
		t.Error("nil callback was queued")
	}
	s.Tick(time.Second)
}

func TestSchedulerReusesPooledTasks(t *testing.T) {
	clock := &fakeTime{}
	s := NewScheduler(clock.Now)

	for round := 0; round < 5; round++ {
		for i := 0; i < 8; i++ {
			s.Schedule(func() {}, 0)
		}
		s.Tick(clock.now)
	}
	if st := s.Stats(); st.Allocated != 8 {
		t.Errorf("allocated %d task records, want 8", st.Allocated)
	}
}
