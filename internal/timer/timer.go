package timer

import (
	"sync"
	"time"
)

// Period is the fixed tick cadence.
const Period = time.Second

// State is a point-in-time copy of the timer's two fields.
type State struct {
	Elapsed int
	Running bool
}

// Label is the status text shown for the state.
func (s State) Label() string {
	if s.Running {
		return "Active"
	}
	return "Inactive"
}

type Option func(*Timer)

// WithClock overrides the clock used for ticking.
func WithClock(c Clock) Option {
	return func(t *Timer) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithOnTick registers a hook called after every increment with the new
// count. It runs on the tick goroutine, outside the timer's lock.
func WithOnTick(fn func(elapsed int)) Option {
	return func(t *Timer) {
		t.onTick = fn
	}
}

// Timer counts whole seconds while running. A single goroutine owns the
// ticker for each run; leaving the running state bumps the generation so a
// tick already in flight cannot increment.
type Timer struct {
	mu         sync.RWMutex
	clock      Clock
	onTick     func(elapsed int)
	elapsed    int
	running    bool
	closed     bool
	generation uint64
	stopChan   chan struct{}
}

func New(opts ...Option) *Timer {
	t := &Timer{clock: SystemClock}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now reports the current time from the timer's clock.
func (t *Timer) Now() time.Time {
	return t.clock.Now()
}

// Toggle flips the running flag and reports the new value.
func (t *Timer) Toggle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.stopLocked()
	} else {
		t.startLocked()
	}
	return t.running
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startLocked()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the timer and zeroes the count.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.elapsed = 0
}

// Close disposes the timer. Later calls to Start or Toggle do nothing.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.closed = true
}

func (t *Timer) Elapsed() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.elapsed
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

func (t *Timer) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return State{Elapsed: t.elapsed, Running: t.running}
}

func (t *Timer) startLocked() {
	if t.running || t.closed {
		return
	}

	t.running = true
	t.generation++
	t.stopChan = make(chan struct{})

	ticker := t.clock.NewTicker(Period)
	go t.loop(t.generation, t.stopChan, ticker)
}

func (t *Timer) stopLocked() {
	if !t.running {
		return
	}

	t.running = false
	t.generation++
	close(t.stopChan)
	t.stopChan = nil
}

func (t *Timer) loop(generation uint64, stop <-chan struct{}, ticker Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			t.mu.Lock()
			if t.generation != generation {
				t.mu.Unlock()
				return
			}
			t.elapsed++
			elapsed := t.elapsed
			onTick := t.onTick
			t.mu.Unlock()

			if onTick != nil {
				onTick(elapsed)
			}
		}
	}
}
