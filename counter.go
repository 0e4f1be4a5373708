package tally

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a set of named integer cells, an active flag and a routine that
// increments one of the cells while the flag is set.
//
// The routine follows the flag: every transition of the active cell stops the
// routine and, when the new value is true, starts it again. Close stops it for good.
type Counter struct {
	id        string
	opts      options
	ids       []string
	cells     map[string]*StateCell[int]
	seeds     map[string]int
	target    string
	active    *StateCell[bool]
	routine   *Routine
	closed    atomic.Bool
	renderMu  sync.Mutex
	listeners []*listener
}

type listener struct {
	fn func(Snapshot)
}

// Snapshot is the state of a Counter at one point in time.
type Snapshot struct {
	ID     string         `json:"id" yaml:"id"`
	IDs    []string       `json:"ids" yaml:"ids"`
	Values map[string]int `json:"values" yaml:"values"`
	Active bool           `json:"active" yaml:"active"`
}

// New creates a Counter from the given options. At least one counter must be
// declared with WithCounter.
//
// Example:
//
//	score, err := tally.New(
//		tally.WithCounter("A", 2),
//		tally.WithCounter("B", 1),
//	)
func New(opts ...Option) (*Counter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	if len(o.seeds) == 0 {
		return nil, ErrNoCounters
	}
	if o.interval <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidInterval, o.interval)
	}

	c := &Counter{
		id:    genRandID(),
		opts:  o,
		cells: make(map[string]*StateCell[int], len(o.seeds)),
		seeds: make(map[string]int, len(o.seeds)),
	}
	for _, s := range o.seeds {
		if _, ok := c.cells[s.id]; ok {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateCounter, s.id)
		}
		c.ids = append(c.ids, s.id)
		c.cells[s.id] = State(s.seed)
		c.seeds[s.id] = s.seed
	}

	c.target = o.tickTarget
	if c.target == "" {
		c.target = c.ids[0]
		if _, ok := c.cells[DefaultTickTarget]; ok {
			c.target = DefaultTickTarget
		}
	}
	if _, ok := c.cells[c.target]; !ok {
		return nil, fmt.Errorf("invalid tick target: %w", &UnknownCounterError{ID: c.target})
	}

	c.routine = NewRoutine(o.interval, c.tick,
		WithRoutineClock(o.clock),
		WithPanicHandler(func(r any) {
			c.logErr("tick on '%s' failed: %v", c.target, r)
		}),
	)

	c.active = State(false)
	c.active.Subscribe(func(_, active bool) {
		c.routine.Stop()
		if active {
			c.routine.Start()
			c.logDebug("routine started")
			return
		}
		c.logDebug("routine stopped")
	})
	c.active.Set(o.active)

	c.logDebug("counter created with ids=%v active=%t interval=%s", c.ids, o.active, o.interval)
	return c, nil
}

func (c *Counter) ID() string {
	return c.id
}

// IDs returns the counter ids in declaration order.
func (c *Counter) IDs() []string {
	return slices.Clone(c.ids)
}

// Cell returns the cell backing the counter with the given id. Writes made
// directly on the cell notify the cell's own subscribers but not OnChange listeners.
func (c *Counter) Cell(id string) (*StateCell[int], error) {
	if cell, ok := c.cells[id]; ok {
		return cell, nil
	}
	return nil, &UnknownCounterError{ID: id}
}

// Get returns the current value of the counter with the given id.
func (c *Counter) Get(id string) (int, error) {
	cell, err := c.Cell(id)
	if err != nil {
		return 0, err
	}
	return cell.Get(), nil
}

// Seed returns the value the counter with the given id was created with.
func (c *Counter) Seed(id string) (int, error) {
	if seed, ok := c.seeds[id]; ok {
		return seed, nil
	}
	return 0, &UnknownCounterError{ID: id}
}

// Active returns the cell holding the active flag. Setting it directly starts
// and stops the routine exactly like SetActive.
func (c *Counter) Active() *StateCell[bool] {
	return c.active
}

func (c *Counter) IsActive() bool {
	return c.active.Get()
}

// TickTarget returns the id of the counter incremented on every tick.
func (c *Counter) TickTarget() string {
	return c.target
}

// Ticks returns the number of ticks delivered so far.
func (c *Counter) Ticks() uint64 {
	return c.routine.Ticks()
}

func (c *Counter) Interval() time.Duration {
	return c.routine.Interval()
}

// SetInterval changes the tick period. A running routine keeps running with the
// new period. Durations equal or less than 0 are ignored.
func (c *Counter) SetInterval(d time.Duration) {
	if d <= 0 {
		c.logWarn("ignored invalid interval %s", d)
		return
	}
	c.routine.UpdateInterval(d)
}

func (c *Counter) ResetPolicy() ResetPolicy {
	return c.opts.resetPolicy
}

// Increment adds 1 to the counter with the given id.
func (c *Counter) Increment(id string) error {
	return c.Add(id, 1)
}

// Decrement subtracts 1 from the counter with the given id.
func (c *Counter) Decrement(id string) error {
	return c.Add(id, -1)
}

// Add adds delta to the counter with the given id.
func (c *Counter) Add(id string, delta int) error {
	cell, err := c.Cell(id)
	if err != nil {
		c.logDebug("add failed: %v", err)
		return err
	}
	cell.modify(func(v int) int { return v + delta }, c.renderIfChanged)
	return nil
}

// Reset sets the counter with the given id to its reset value: 0 under
// ResetToZero, its seed under ResetToSeed.
func (c *Counter) Reset(id string) error {
	cell, err := c.Cell(id)
	if err != nil {
		c.logDebug("reset failed: %v", err)
		return err
	}
	cell.swap(c.resetValue(id), c.renderIfChanged)
	return nil
}

// ResetAll resets every counter. Listeners registered with OnChange are notified
// once, after all counters have been reset.
func (c *Counter) ResetAll() {
	var (
		pending atomic.Int32
		changed atomic.Bool
	)
	pending.Store(int32(len(c.ids)))
	for _, id := range c.ids {
		c.cells[id].swap(c.resetValue(id), func(ch bool) {
			if ch {
				changed.Store(true)
			}
			if pending.Add(-1) == 0 && changed.Load() {
				c.render()
			}
		})
	}
}

func (c *Counter) resetValue(id string) int {
	if c.opts.resetPolicy == ResetToSeed {
		return c.seeds[id]
	}
	return 0
}

// SetActive writes the active flag. A transition stops the routine and, when
// active is true, starts a fresh one. After Close the flag stays false.
func (c *Counter) SetActive(active bool) {
	if c.closed.Load() {
		c.logWarn("counter closed, ignoring active=%t", active)
		return
	}
	c.active.swap(active, func(changed bool) {
		if changed {
			c.logInfo("active=%t", active)
			c.render()
		}
	})
}

// ToggleActive flips the active flag and returns the flag once the call is
// done. After Close it does nothing and returns false.
func (c *Counter) ToggleActive() bool {
	if c.closed.Load() {
		c.logWarn("counter closed, ignoring toggle")
		return false
	}
	c.active.modify(func(v bool) bool { return !v }, func(bool) {
		c.logInfo("active=%t", c.active.Get())
		c.render()
	})
	return c.active.Get()
}

// Close stops the routine for good and clears the active flag. The cells stay
// readable and writable, but the counter never ticks again. Close can be called
// any number of times.
func (c *Counter) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.routine.Dispose()
	c.active.swap(false, c.renderIfChanged)
	c.logDebug("counter closed after %d ticks", c.routine.Ticks())
}

func (c *Counter) tick() {
	if !c.active.Get() {
		return
	}
	c.cells[c.target].modify(func(v int) int { return v + 1 }, c.renderIfChanged)
}

// Snapshot returns the current values of all counters and the active flag.
func (c *Counter) Snapshot() Snapshot {
	values := make(map[string]int, len(c.ids))
	for _, id := range c.ids {
		values[id] = c.cells[id].Get()
	}
	return Snapshot{
		ID:     c.id,
		IDs:    slices.Clone(c.ids),
		Values: values,
		Active: c.active.Get(),
	}
}

// OnChange registers fn to be called with a fresh snapshot after every operation
// of the counter that changed its state, ticks included. Operations touching
// several cells, such as ResetAll, call fn once. Listeners are called in
// registration order, one snapshot at a time, so fn must not call back into
// the counter's operations or unsubscribe itself synchronously.
func (c *Counter) OnChange(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	l := &listener{fn: fn}
	c.renderMu.Lock()
	c.listeners = append(c.listeners, l)
	c.renderMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.renderMu.Lock()
			defer c.renderMu.Unlock()
			c.listeners = slices.DeleteFunc(c.listeners, func(other *listener) bool {
				return other == l
			})
		})
	}
}

func (c *Counter) renderIfChanged(changed bool) {
	if changed {
		c.render()
	}
}

func (c *Counter) render() {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if len(c.listeners) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, l := range c.listeners {
		l.fn(snap)
	}
}
