package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTimer() (*Timer, *manualClock, chan int) {
	clock := newManualClock()
	ticks := make(chan int, 16)
	tm := New(WithClock(clock), WithOnTick(func(n int) { ticks <- n }))
	return tm, clock, ticks
}

func TestNewTimerStartsStopped(t *testing.T) {
	tm, clock, _ := newTestTimer()

	require.Equal(t, State{Elapsed: 0, Running: false}, tm.Snapshot())
	require.Equal(t, "Inactive", tm.Snapshot().Label())
	require.Zero(t, clock.count(), "no ticker before the first start")
}

func TestToggleCountsTicks(t *testing.T) {
	tm, clock, ticks := newTestTimer()

	require.True(t, tm.Toggle())
	require.Equal(t, "Active", tm.Snapshot().Label())

	for want := 1; want <= 3; want++ {
		require.Equal(t, want, clock.fire(t, ticks))
	}
	require.Equal(t, 3, tm.Elapsed())
	require.True(t, tm.Running())
}

func TestToggleOffKeepsElapsed(t *testing.T) {
	tm, clock, ticks := newTestTimer()

	tm.Toggle()
	clock.fire(t, ticks)
	clock.fire(t, ticks)
	require.False(t, tm.Toggle())

	tk := clock.latest(t)
	require.Eventually(t, tk.stopped.Load, time.Second, 5*time.Millisecond)
	require.Equal(t, State{Elapsed: 2, Running: false}, tm.Snapshot())

	// Resuming continues from the kept count on a fresh ticker.
	require.True(t, tm.Toggle())
	require.Equal(t, 2, clock.count())
	require.Equal(t, 3, clock.fire(t, ticks))
}

func TestDoubleToggleDropsPendingTick(t *testing.T) {
	tm, clock, _ := newTestTimer()

	tm.Toggle()
	tm.Toggle()

	// A tick that lands after teardown must not count.
	tk := clock.latest(t)
	tk.c <- clock.Now()

	require.Eventually(t, tk.stopped.Load, time.Second, 5*time.Millisecond)
	require.Equal(t, State{Elapsed: 0, Running: false}, tm.Snapshot())
}

func TestResetFromAnyState(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, tm *Timer, clock *manualClock, ticks chan int)
	}{
		{
			name:    "fresh",
			prepare: func(*testing.T, *Timer, *manualClock, chan int) {},
		},
		{
			name: "running",
			prepare: func(t *testing.T, tm *Timer, clock *manualClock, ticks chan int) {
				tm.Toggle()
				clock.fire(t, ticks)
				clock.fire(t, ticks)
			},
		},
		{
			name: "paused",
			prepare: func(t *testing.T, tm *Timer, clock *manualClock, ticks chan int) {
				tm.Toggle()
				clock.fire(t, ticks)
				tm.Toggle()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, clock, ticks := newTestTimer()
			tt.prepare(t, tm, clock, ticks)

			tm.Reset()
			require.Equal(t, State{}, tm.Snapshot())

			tm.Reset()
			require.Equal(t, State{}, tm.Snapshot())
		})
	}
}

func TestResetWhileRunningTearsDownTicker(t *testing.T) {
	tm, clock, ticks := newTestTimer()

	tm.Toggle()
	clock.fire(t, ticks)
	tm.Reset()

	tk := clock.latest(t)
	tk.c <- clock.Now()
	require.Eventually(t, tk.stopped.Load, time.Second, 5*time.Millisecond)
	require.Zero(t, tm.Elapsed())
}

func TestStartStopAreIdempotent(t *testing.T) {
	tm, clock, _ := newTestTimer()

	tm.Start()
	tm.Start()
	require.Equal(t, 1, clock.count(), "second Start must not spawn another ticker")

	tm.Stop()
	tm.Stop()
	require.False(t, tm.Running())
}

func TestCloseWhileRunning(t *testing.T) {
	tm, clock, ticks := newTestTimer()

	tm.Toggle()
	require.Equal(t, 1, clock.fire(t, ticks))
	tm.Close()

	tk := clock.latest(t)
	tk.c <- clock.Now()
	require.Eventually(t, tk.stopped.Load, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, tm.Elapsed())

	require.False(t, tm.Toggle(), "closed timer must stay stopped")
	tm.Start()
	require.False(t, tm.Running())
	require.Equal(t, 1, clock.count())

	tm.Close()
}

func TestSystemClockCountsSeconds(t *testing.T) {
	if testing.Short() {
		t.Skip("uses wall-clock ticks")
	}

	tm := New()
	defer tm.Close()

	tm.Toggle()
	require.Eventually(t, func() bool { return tm.Elapsed() >= 3 }, 5*time.Second, 20*time.Millisecond)
	tm.Toggle()

	stopped := tm.Elapsed()
	time.Sleep(Period + 200*time.Millisecond)
	require.Equal(t, stopped, tm.Elapsed())
}
