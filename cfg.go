package tally

import (
	"log"
	"time"

	"github.com/jonboulle/clockwork"
)

type LogLevel int

const (
	undefined LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ResetPolicy decides the value a counter takes on Reset and ResetAll.
type ResetPolicy uint8

const (
	// ResetToZero writes the literal 0, regardless of the counter's seed.
	ResetToZero ResetPolicy = iota
	// ResetToSeed restores the value the counter was created with.
	ResetToSeed
)

func (p ResetPolicy) String() string {
	switch p {
	case ResetToZero:
		return "zero"
	case ResetToSeed:
		return "seed"
	default:
		return "unknown"
	}
}

// DefaultInterval is the auto-increment period used when WithInterval is not given.
const DefaultInterval = time.Second

// DefaultTickTarget is the counter incremented on every tick when WithTickTarget
// is not given. Without a counter of that name the first declared one is used.
const DefaultTickTarget = "main"

type counterSeed struct {
	id   string
	seed int
}

// options defines configuration options for a Counter
type options struct {
	seeds       []counterSeed
	active      bool
	interval    time.Duration
	tickTarget  string
	resetPolicy ResetPolicy
	clock       clockwork.Clock
	logLvl      LogLevel
	logger      *log.Logger
}

func defaultOptions() options {
	return options{
		interval:    DefaultInterval,
		resetPolicy: ResetToZero,
		clock:       clockwork.NewRealClock(),
		logLvl:      LogLevelInfo,
		logger:      log.Default(),
	}
}

// Option configures a Counter at construction time.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

// WithCounter declares a counter with the given id and seed. Counters keep the
// order in which they were declared.
func WithCounter(id string, seed int) Option {
	return optionFunc(func(o *options) {
		o.seeds = append(o.seeds, counterSeed{id: id, seed: seed})
	})
}

// WithActive sets the initial value of the active flag. An active counter starts
// ticking as soon as it is created.
func WithActive(active bool) Option {
	return optionFunc(func(o *options) { o.active = active })
}

// WithInterval sets the period between two ticks.
func WithInterval(d time.Duration) Option {
	return optionFunc(func(o *options) { o.interval = d })
}

// WithTickTarget names the counter incremented on every tick.
func WithTickTarget(id string) Option {
	return optionFunc(func(o *options) { o.tickTarget = id })
}

func WithResetPolicy(p ResetPolicy) Option {
	return optionFunc(func(o *options) { o.resetPolicy = p })
}

// WithClock replaces the real clock. Tests pass a clockwork.FakeClock to drive
// ticks with simulated time.
func WithClock(c clockwork.Clock) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.clock = c
		}
	})
}

// WithLogLevel sets the level of the logs written by the counter.
// Options: Error, Warn, Info, Debug.
func WithLogLevel(l LogLevel) Option {
	return optionFunc(func(o *options) { o.logLvl = l })
}

// WithLogger sets the destination of the counter logs. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}
