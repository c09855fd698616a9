package animation

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestStrobeFlashesOncePerInterval(t *testing.T) {
	sink := newRecordingSink()
	clock := &fakeTime{}
	f := newTestFades(sink, clock)
	s := NewStrobe(f, 0, ms(480), "white")

	flashes := 0
	for _, at := range []int{10, 20, 30, 125, 126, 250, 251, 375, 400} {
		clock.now = ms(at)
		before := f.Len()
		if s.Tick(ms(at)) {
			t.Fatalf("finished early at %dms", at)
		}
		if f.Len() == GridCells && before != GridCells {
			flashes++
		}
		// expire the flash so the next one is observable
		f.Tick(ms(at) + ms(48))
	}
	if flashes != 4 {
		t.Errorf("flashes = %d, want 4", flashes)
	}

	if !s.Tick(ms(481)) {
		t.Error("strobe not finished at 481ms")
	}
}

func TestStrobeExactlyOneFullGridAddPerWindow(t *testing.T) {
	adds := 0
	sink := newRecordingSink()
	clock := &fakeTime{}
	f := newTestFades(sink, clock)
	s := NewStrobe(f, 0, ms(480), "red")

	for _, at := range []int{10, 125, 250, 375} {
		clock.now = ms(at)
		f.pending = f.pending[:0]
		s.Tick(ms(at))
		adds += len(f.pending)
		// a second tick inside the same on-window adds nothing
		f.pending = f.pending[:0]
		s.Tick(ms(at + 5))
		if len(f.pending) != 0 {
			t.Errorf("second tick at %dms re-flashed", at+5)
		}
	}
	if adds != 4*GridCells {
		t.Errorf("adds = %d, want %d", adds, 4*GridCells)
	}
}

func TestStrobeMissedWindowDoesNotFlash(t *testing.T) {
	sink := newRecordingSink()
	clock := &fakeTime{}
	f := newTestFades(sink, clock)
	s := NewStrobe(f, 0, ms(480), "red")

	s.Tick(ms(60)) // interval 0, past the 48ms on-window
	if len(f.pending) != 0 {
		t.Errorf("flashed outside the on-window")
	}
}

func TestColumnDropEdgeTriggered(t *testing.T) {
	sink := newRecordingSink()
	clock := &fakeTime{}
	f := newTestFades(sink, clock)
	rng := rand.New(rand.NewPCG(7, 11))
	d := NewColumnDrop(f, 0, time.Second, "blue", rng)

	seen := make(map[Position]int)
	finished := false
	for at := time.Duration(0); at <= 2*time.Second; at += ms(1) {
		clock.now = at
		f.pending = f.pending[:0]
		if d.Tick(at) {
			finished = true
			break
		}
		for _, p := range f.pending {
			seen[p]++
		}
	}

	if !finished {
		t.Fatal("column drop never finished")
	}
	for pos, n := range seen {
		if n != 1 {
			t.Errorf("cell %v lit %d times", pos, n)
		}
	}
	// with 1ms ticks no row is skipped
	if len(seen) != GridCells {
		t.Errorf("lit %d cells, want %d", len(seen), GridCells)
	}
}

func TestColumnDropFinishesWithinDuration(t *testing.T) {
	clock := &fakeTime{}
	f := newTestFades(newRecordingSink(), clock)
	for seed := uint64(0); seed < 20; seed++ {
		d := NewColumnDrop(f, 0, time.Second, "red", rand.New(rand.NewPCG(seed, 0)))
		if !d.Tick(time.Second + ms(1)) {
			t.Errorf("seed %d: not finished after total duration", seed)
		}
	}
}

func TestColumnDropDeterministicForSeed(t *testing.T) {
	clock := &fakeTime{}
	f := newTestFades(newRecordingSink(), clock)
	a := NewColumnDrop(f, 0, time.Second, "red", rand.New(rand.NewPCG(3, 3)))
	b := NewColumnDrop(f, 0, time.Second, "red", rand.New(rand.NewPCG(3, 3)))
	if a.columns != b.columns {
		t.Error("same seed produced different columns")
	}
}
