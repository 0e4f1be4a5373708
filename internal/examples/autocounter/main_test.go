package main

import (
	"testing"
	"time"

	"github.com/go-via/tally"
	"github.com/go-via/tally/h"
	"github.com/go-via/tally/tallytest"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoCounter(t *testing.T) {
	cfg := Defaults()
	clock := clockwork.NewFakeClock()
	c, err := cfg.NewCounter(tally.WithClock(clock))
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.IsActive())
	assert.Equal(t, "main", c.TickTarget())

	for range 3 {
		tallytest.AdvanceOnce(t, clock, time.Second, c.Ticks, true)
	}
	out := h.String(View(cfg, c.Snapshot()))
	assert.Contains(t, out, `data-active="true"`)
	assert.Contains(t, out, `<strong data-counter="main">3</strong>`)
	assert.Contains(t, out, `Counting...`)
	assert.Contains(t, out, `<button data-command="toggle">Pause</button>`)

	assert.False(t, c.ToggleActive())
	tallytest.AdvanceOnce(t, clock, 5*time.Second, c.Ticks, false)
	out = h.String(View(cfg, c.Snapshot()))
	assert.Contains(t, out, `data-active="false"`)
	assert.Contains(t, out, `<strong data-counter="main">3</strong>`)
	assert.Contains(t, out, `<p role="status">Paused</p>`)
	assert.Contains(t, out, `<button data-command="toggle">Start</button>`)

	require.NoError(t, c.Reset("main"))
	got, _ := c.Get("main")
	assert.Equal(t, 0, got)
	assert.False(t, c.IsActive())
}
