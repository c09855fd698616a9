package animation

import (
	"context"
	"math/rand/v2"
	"time"

	"go-padlight/debug"
)

// Request describes one pattern trigger
type Request struct {
	Pattern  string
	Pos      Position
	Duration time.Duration
	Color    string
}

// Factory builds the animation for a trigger. Factories that only schedule work
// or add fades directly return nil
type Factory func(e *Engine, req Request) StatefulAnimation

// Catalog maps pattern ids to factories
type Catalog map[string]Factory

// DefaultDuration is used when a trigger gives no duration
const DefaultDuration = time.Second

type activeAnimation struct {
	anim    StatefulAnimation
	pattern string
	pos     Position
}

// Options configures an Engine
type Options struct {
	Clock    Clock      // nil = SystemClock
	Colors   Colors     // required
	Visual   VisualSink // nil = discard
	Device   DeviceSink // nil = discard
	Catalog  Catalog
	Rand     *rand.Rand // nil = seeded from the clock
	Defaults FadeDefaults
	Color    string // color for triggers without one
}

// Stats is a point-in-time view of engine load
type Stats struct {
	Ticks      uint64
	Fades      int
	Tasks      int
	Animations int
	FadePool   PoolStats
	TaskPool   PoolStats
}

// Engine owns the scheduler, the fade engine and the set of running animations,
// and advances them in a fixed order once per tick
type Engine struct {
	Scheduler *Scheduler
	Fades     *Fades

	clock   Clock
	epoch   time.Time
	visual  VisualSink
	device  DeviceSink
	catalog Catalog
	rng     *rand.Rand
	color   string

	active   []activeAnimation
	ticking  bool
	requests chan func(*Engine)
	ticks    uint64
}

// New creates an engine whose time starts now
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Visual == nil {
		opts.Visual = discardSink{}
	}
	if opts.Device == nil {
		opts.Device = discardSink{}
	}
	if opts.Defaults == (FadeDefaults{}) {
		opts.Defaults = DefaultFades
	}
	if opts.Catalog == nil {
		opts.Catalog = Catalog{}
	}

	e := &Engine{
		clock:    opts.Clock,
		epoch:    opts.Clock.Now(),
		visual:   opts.Visual,
		device:   opts.Device,
		catalog:  opts.Catalog,
		rng:      opts.Rand,
		color:    opts.Color,
		requests: make(chan func(*Engine), 64),
	}
	if e.rng == nil {
		seed := uint64(e.epoch.UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	e.Scheduler = NewScheduler(e.Now)
	e.Fades = NewFades(opts.Colors, opts.Visual, opts.Device, opts.Defaults, e.Now)
	return e
}

// Now returns the time since the engine was created
func (e *Engine) Now() time.Duration {
	return e.clock.Now().Sub(e.epoch)
}

// Rand returns the engine's random source for pattern generators
func (e *Engine) Rand() *rand.Rand {
	return e.rng
}

// Color returns the default pattern color
func (e *Engine) Color() string {
	return e.color
}

// Tick runs one frame: scheduler, fades, animations, then one flush per sink
func (e *Engine) Tick() {
	now := e.Now()
	e.ticks++

	e.Scheduler.Tick(now)
	e.Fades.Tick(now)

	// Animations may release each other or start new ones while ticking.
	// Removed entries are marked nil and compacted once the pass is over;
	// entries started during the pass are first ticked next frame.
	e.ticking = true
	n := len(e.active)
	for i := 0; i < n; i++ {
		a := e.active[i].anim
		if a == nil {
			continue
		}
		if a.Tick(now) {
			e.active[i].anim = nil
		}
	}
	e.ticking = false
	e.compact()
	e.Fades.PaintNew(now)

	e.visual.FlushVisual()
	e.device.FlushDeviceColors()
}

// Start adds anim to the running set. It is first ticked on the next frame
func (e *Engine) Start(anim StatefulAnimation) {
	e.start(anim, "", Position{})
}

func (e *Engine) start(anim StatefulAnimation, pattern string, pos Position) {
	if anim == nil {
		return
	}
	e.active = append(e.active, activeAnimation{anim: anim, pattern: pattern, pos: pos})
}

// Play starts a sequence player for src and returns it
func (e *Engine) Play(src EventSource, opts SequenceOptions) *Sequence {
	if opts.Rand == nil {
		opts.Rand = e.rng
	}
	if opts.Color == "" {
		opts.Color = e.color
	}
	seq := NewSequence(e.Fades, src, e.Now(), opts)
	e.Start(seq)
	return seq
}

// Trigger starts pattern at (x, y) in the default color. Unknown patterns are ignored
func (e *Engine) Trigger(pattern string, x, y int, seconds float64) {
	e.TriggerColor(pattern, x, y, seconds, "")
}

// TriggerColor is Trigger with an explicit color; empty means the default
func (e *Engine) TriggerColor(pattern string, x, y int, seconds float64, color string) {
	factory, ok := e.catalog[pattern]
	if !ok {
		debug.Log("engine", "unknown pattern %q", pattern)
		return
	}

	d := time.Duration(seconds * float64(time.Second))
	if d <= 0 {
		d = DefaultDuration
	}
	if color == "" {
		color = e.color
	}
	req := Request{
		Pattern:  pattern,
		Pos:      Position{X: x, Y: y},
		Duration: d,
		Color:    color,
	}
	e.start(factory(e, req), pattern, req.Pos)
}

// Release drops every running animation started by Trigger(pattern, x, y).
// Fades it already started run to completion. It is safe to call from an
// animation's Tick
func (e *Engine) Release(pattern string, x, y int) {
	pos := Position{X: x, Y: y}
	for i := range e.active {
		a := &e.active[i]
		if a.anim != nil && a.pattern == pattern && a.pos == pos {
			a.anim = nil
		}
	}
	if !e.ticking {
		e.compact()
	}
}

// compact drops released and finished entries, keeping start order
func (e *Engine) compact() {
	kept := e.active[:0]
	for _, a := range e.active {
		if a.anim != nil {
			kept = append(kept, a)
		}
	}
	clear(e.active[len(kept):])
	e.active = kept
}

// Patterns returns the ids in the catalog
func (e *Engine) Patterns() []string {
	ids := make([]string, 0, len(e.catalog))
	for id := range e.catalog {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot reports current load
func (e *Engine) Snapshot() Stats {
	return Stats{
		Ticks:      e.ticks,
		Fades:      e.Fades.Len(),
		Tasks:      e.Scheduler.Len(),
		Animations: len(e.active),
		FadePool:   e.Fades.Stats(),
		TaskPool:   e.Scheduler.Stats(),
	}
}

// Post queues fn to run on the engine goroutine between ticks.
// It never blocks; it reports false when the queue is full
func (e *Engine) Post(fn func(*Engine)) bool {
	select {
	case e.requests <- fn:
		return true
	default:
		debug.Log("engine", "request queue full, dropping request")
		return false
	}
}

// Drain runs every queued request on the calling goroutine and returns how many ran.
// Callers that drive Tick themselves use it in place of Run
func (e *Engine) Drain() int {
	n := 0
	for {
		select {
		case fn := <-e.requests:
			fn(e)
			n++
		default:
			return n
		}
	}
}

// Run ticks the engine every interval until ctx is done
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-e.requests:
			fn(e)
		case <-ticker.C:
			e.Tick()
			debug.LogEvery(600, "engine", "tick fades=%d tasks=%d anims=%d", e.Fades.Len(), e.Scheduler.Len(), len(e.active))
		}
	}
}
