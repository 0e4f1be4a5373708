package host

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-via/tally"
	"gopkg.in/yaml.v3"
)

// Config describes one widget: its counters, the active flag, the tick settings
// and how snapshots are written out.
type Config struct {
	Title       string          `yaml:"title,omitempty"`
	Counters    []CounterConfig `yaml:"counters"`
	Active      bool            `yaml:"active"`
	Interval    time.Duration   `yaml:"interval,omitempty"`
	TickTarget  string          `yaml:"tick_target,omitempty"`
	ResetPolicy string          `yaml:"reset_policy,omitempty"`
	LogLevel    string          `yaml:"log_level,omitempty"`
	Format      string          `yaml:"format,omitempty"`
}

// CounterConfig declares a counter and the label a view shows for it.
type CounterConfig struct {
	ID    string `yaml:"id"`
	Seed  int    `yaml:"seed"`
	Label string `yaml:"label,omitempty"`
}

// Label returns the label of the counter with the given id, or the id itself.
func (cfg Config) Label(id string) string {
	for _, cc := range cfg.Counters {
		if cc.ID == id && strings.TrimSpace(cc.Label) != "" {
			return cc.Label
		}
	}
	return id
}

// LoadConfig reads the YAML file at path over the given defaults. A missing
// file leaves the defaults untouched.
func LoadConfig(path string, defaults Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, defaults)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the given defaults. Fields absent from data
// keep their default value; a counters list replaces the default one.
func ParseConfig(data []byte, defaults Config) (Config, error) {
	cfg := defaults
	cfg.Counters = append([]CounterConfig(nil), defaults.Counters...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that the counter does not check itself.
func (cfg Config) Validate() error {
	if _, err := parseResetPolicy(cfg.ResetPolicy); err != nil {
		return err
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if _, err := parseFormat(cfg.Format); err != nil {
		return err
	}
	for _, cc := range cfg.Counters {
		if strings.TrimSpace(cc.ID) == "" {
			return fmt.Errorf("counter with seed %d has no id", cc.Seed)
		}
	}
	return nil
}

// Options turns the config into counter options.
func (cfg Config) Options() ([]tally.Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := parseResetPolicy(cfg.ResetPolicy)
	lvl, _ := parseLogLevel(cfg.LogLevel)

	opts := make([]tally.Option, 0, len(cfg.Counters)+5)
	for _, cc := range cfg.Counters {
		opts = append(opts, tally.WithCounter(cc.ID, cc.Seed))
	}
	opts = append(opts,
		tally.WithActive(cfg.Active),
		tally.WithResetPolicy(policy),
		tally.WithLogLevel(lvl),
	)
	if cfg.Interval != 0 {
		opts = append(opts, tally.WithInterval(cfg.Interval))
	}
	if cfg.TickTarget != "" {
		opts = append(opts, tally.WithTickTarget(cfg.TickTarget))
	}
	return opts, nil
}

// NewCounter builds the counter described by cfg.
func (cfg Config) NewCounter(extra ...tally.Option) (*tally.Counter, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return tally.New(append(opts, extra...)...)
}

func parseResetPolicy(s string) (tally.ResetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return tally.ResetToZero, nil
	case "seed":
		return tally.ResetToSeed, nil
	default:
		return 0, fmt.Errorf("unknown reset policy '%s'", s)
	}
}

func parseLogLevel(s string) (tally.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return tally.LogLevelError, nil
	case "warn":
		return tally.LogLevelWarn, nil
	case "", "info":
		return tally.LogLevelInfo, nil
	case "debug":
		return tally.LogLevelDebug, nil
	default:
		return 0, fmt.Errorf("unknown log level '%s'", s)
	}
}
