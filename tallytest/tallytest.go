// Package tallytest drives tally counters with simulated time.
//
//	hs := tallytest.New(t, tally.WithCounter("main", 0), tally.WithActive(true))
//	hs.Advance(t, 3)
//	hs.AssertValue(t, "main", 3)
package tallytest

import (
	"testing"
	"time"

	"github.com/go-via/tally"
	"github.com/jonboulle/clockwork"
)

// settle bounds how long the harness waits for a tick goroutine to deliver.
const settle = 2 * time.Second

// Harness owns a counter running on a fake clock.
type Harness struct {
	Clock   *clockwork.FakeClock
	Counter *tally.Counter
}

// New creates a counter on a fake clock. The counter is closed when the test ends.
func New(t testing.TB, opts ...tally.Option) *Harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	c, err := tally.New(append(opts, tally.WithClock(clock))...)
	if err != nil {
		t.Fatalf("tallytest: create counter: %v", err)
	}
	t.Cleanup(c.Close)
	return &Harness{Clock: clock, Counter: c}
}

// Advance moves the fake clock forward by n intervals, one interval at a time.
// While the counter is active it waits for each tick to be delivered before
// moving on, so exactly one tick happens per interval.
func (hs *Harness) Advance(t testing.TB, n int) {
	t.Helper()
	for range n {
		AdvanceOnce(t, hs.Clock, hs.Counter.Interval(), hs.Counter.Ticks, hs.Counter.IsActive())
	}
}

// AdvanceOnce moves clock forward by d. When expectTick is true it waits until
// ticks reports one more delivered tick than before.
func AdvanceOnce(t testing.TB, clock *clockwork.FakeClock, d time.Duration, ticks func() uint64, expectTick bool) {
	t.Helper()
	before := ticks()
	clock.Advance(d)
	if !expectTick {
		return
	}
	deadline := time.Now().Add(settle)
	for ticks() <= before {
		if time.Now().After(deadline) {
			t.Fatalf("tallytest: no tick delivered within %s (ticks=%d)", settle, before)
		}
		time.Sleep(time.Millisecond)
	}
}

// AssertValue fails the test if the counter with the given id does not hold want.
func (hs *Harness) AssertValue(t testing.TB, id string, want int) {
	t.Helper()
	got, err := hs.Counter.Get(id)
	if err != nil {
		t.Fatalf("tallytest: %v", err)
	}
	if got != want {
		t.Fatalf("tallytest: counter %q = %d, want %d", id, got, want)
	}
}

// Recorder collects the snapshots a counter publishes through OnChange.
type Recorder struct {
	ch chan tally.Snapshot
}

// Record subscribes a Recorder to c for the rest of the test.
func Record(t testing.TB, c *tally.Counter) *Recorder {
	t.Helper()
	rec := &Recorder{ch: make(chan tally.Snapshot, 256)}
	unsubscribe := c.OnChange(func(s tally.Snapshot) {
		select {
		case rec.ch <- s:
		default:
		}
	})
	t.Cleanup(unsubscribe)
	return rec
}

// Drain returns every snapshot recorded so far.
func (r *Recorder) Drain() []tally.Snapshot {
	var out []tally.Snapshot
	for {
		select {
		case s := <-r.ch:
			out = append(out, s)
		default:
			return out
		}
	}
}
