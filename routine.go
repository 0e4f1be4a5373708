package tally

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Routine runs a func on a fixed interval. At most one ticker is alive per
// Routine: Start while running and Stop while stopped do nothing, and every Start
// after a Stop creates a fresh ticker.
//
// Stop never blocks and may be called from inside the routine's own func. Once
// Stop returns no further tick begins. Stop does not wait for a tick that has
// already begun: its effects may land after Stop returns. Callers that need a
// hard cut re-check their own state inside the func.
type Routine struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	fn        func()
	onPanic   func(any)
	interval  time.Duration
	running   bool
	disposed  bool
	gen       uint64
	tkr       clockwork.Ticker
	interrupt chan struct{}
	ticks     atomic.Uint64
}

// RoutineOption configures a Routine.
type RoutineOption func(*Routine)

// WithRoutineClock sets the clock the routine creates its tickers from.
func WithRoutineClock(c clockwork.Clock) RoutineOption {
	return func(r *Routine) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithPanicHandler is called with the recovered value whenever the routine func
// panics. The routine keeps its state and continues ticking.
func WithPanicHandler(fn func(any)) RoutineOption {
	return func(r *Routine) {
		if fn != nil {
			r.onPanic = fn
		}
	}
}

// NewRoutine returns a stopped routine that calls fn every d once started.
func NewRoutine(d time.Duration, fn func(), opts ...RoutineOption) *Routine {
	r := &Routine{
		clock:    clockwork.NewRealClock(),
		fn:       fn,
		onPanic:  func(any) {},
		interval: d,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnInterval replaces the interval and the func of the routine. If the routine is
// running, it is restarted with the new settings. If the provided duration is
// equal or less than 0, OnInterval does nothing.
func (r *Routine) OnInterval(d time.Duration, fn func()) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	wasRunning := r.running
	r.stopLocked()
	r.interval = d
	r.fn = fn
	if wasRunning {
		r.startLocked()
	}
	r.mu.Unlock()
}

// UpdateInterval sets a new interval duration for the ticker. If the provided
// duration is equal or less than 0, UpdateInterval does nothing.
func (r *Routine) UpdateInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = d
	if r.running {
		r.tkr.Reset(d)
	}
}

func (r *Routine) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// Start begins ticking. If the routine has no func, is already running or was
// disposed, Start does nothing.
func (r *Routine) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked()
}

// Stop interrupts the ticker. If the routine is already stopped, Stop does nothing.
func (r *Routine) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Dispose stops the routine for good. Later calls to Start do nothing.
func (r *Routine) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.disposed = true
}

func (r *Routine) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Ticks returns the number of ticks delivered since the routine was created.
func (r *Routine) Ticks() uint64 {
	return r.ticks.Load()
}

func (r *Routine) startLocked() {
	if r.running || r.disposed || r.fn == nil || r.interval <= 0 {
		return
	}
	r.running = true
	r.gen++
	r.tkr = r.clock.NewTicker(r.interval)
	r.interrupt = make(chan struct{})
	go r.run(r.gen, r.tkr, r.interrupt)
}

func (r *Routine) stopLocked() {
	if !r.running {
		return
	}
	r.running = false
	r.gen++
	r.tkr.Stop()
	close(r.interrupt)
}

func (r *Routine) run(gen uint64, tkr clockwork.Ticker, interrupt <-chan struct{}) {
	for {
		select {
		case <-interrupt:
			return
		case <-tkr.Chan():
			if !r.tick(gen) {
				return
			}
		}
	}
}

// tick calls the routine func unless the ticker of generation gen has been
// stopped in the meantime.
func (r *Routine) tick(gen uint64) (delivered bool) {
	r.mu.Lock()
	if r.gen != gen {
		r.mu.Unlock()
		return false
	}
	fn := r.fn
	onPanic := r.onPanic
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			onPanic(rec)
		}
		r.ticks.Add(1)
		delivered = true
	}()
	fn()
	return true
}
