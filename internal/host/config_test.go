package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-via/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreDefaults() Config {
	return Config{
		Title: "Scoreboard",
		Counters: []CounterConfig{
			{ID: "A", Seed: 2, Label: "Team A"},
			{ID: "B", Seed: 1, Label: "Team B"},
		},
	}
}

func TestParseConfig_KeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("title: Finals\n"), scoreDefaults())
	require.NoError(t, err)

	assert.Equal(t, "Finals", cfg.Title)
	assert.Len(t, cfg.Counters, 2)
	assert.Equal(t, "Team A", cfg.Label("A"))
	assert.False(t, cfg.Active)
}

func TestParseConfig_Overrides(t *testing.T) {
	data := []byte(`
counters:
  - id: main
    seed: 10
    label: Seconds
active: true
interval: 250ms
tick_target: main
reset_policy: seed
log_level: debug
format: json
`)
	cfg, err := ParseConfig(data, scoreDefaults())
	require.NoError(t, err)

	assert.Equal(t, []CounterConfig{{ID: "main", Seed: 10, Label: "Seconds"}}, cfg.Counters)
	assert.True(t, cfg.Active)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "main", cfg.TickTarget)
	assert.Equal(t, "seed", cfg.ResetPolicy)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
}

func TestParseConfig_DoesNotAliasDefaults(t *testing.T) {
	defaults := scoreDefaults()
	cfg, err := ParseConfig([]byte("title: x\n"), defaults)
	require.NoError(t, err)

	cfg.Counters[0].Seed = 99
	assert.Equal(t, 2, defaults.Counters[0].Seed)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"reset policy": "reset_policy: sometimes\n",
		"log level":    "log_level: loud\n",
		"format":       "format: pdf\n",
		"missing id":   "counters:\n  - seed: 3\n",
		"bad yaml":     "counters: [\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data), scoreDefaults())
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), scoreDefaults())
		require.NoError(t, err)
		assert.Equal(t, scoreDefaults(), cfg)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tally.yaml")
		require.NoError(t, os.WriteFile(path, []byte("active: true\n"), 0o600))

		cfg, err := LoadConfig(path, scoreDefaults())
		require.NoError(t, err)
		assert.True(t, cfg.Active)
	})

	t.Run("parse error names the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tally.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: pdf\n"), 0o600))

		_, err := LoadConfig(path, scoreDefaults())
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestConfig_Label(t *testing.T) {
	cfg := Config{Counters: []CounterConfig{{ID: "A", Label: "Team A"}, {ID: "B", Label: "  "}}}

	assert.Equal(t, "Team A", cfg.Label("A"))
	assert.Equal(t, "B", cfg.Label("B"))
	assert.Equal(t, "C", cfg.Label("C"))
}

func TestConfig_NewCounter(t *testing.T) {
	cfg := scoreDefaults()
	cfg.ResetPolicy = "seed"

	c, err := cfg.NewCounter()
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"A", "B"}, c.IDs())
	assert.Equal(t, tally.ResetToSeed, c.ResetPolicy())
	assert.Equal(t, tally.DefaultInterval, c.Interval())
	assert.False(t, c.IsActive())

	require.NoError(t, c.Increment("A"))
	require.NoError(t, c.Reset("A"))
	got, _ := c.Get("A")
	assert.Equal(t, 2, got)
}

func TestConfig_NewCounterErrors(t *testing.T) {
	_, err := Config{}.NewCounter()
	assert.ErrorIs(t, err, tally.ErrNoCounters)

	cfg := scoreDefaults()
	cfg.TickTarget = "C"
	_, err = cfg.NewCounter()
	assert.ErrorIs(t, err, tally.ErrUnknownCounter)

	cfg = scoreDefaults()
	cfg.Interval = -time.Second
	_, err = cfg.NewCounter()
	assert.ErrorIs(t, err, tally.ErrInvalidInterval)
}
