package main

import (
	"strconv"
	"time"

	"github.com/go-via/tally"
	"github.com/go-via/tally/h"
	"github.com/go-via/tally/internal/host"
)

// Defaults describes a counter that starts running and counts once per second.
func Defaults() host.Config {
	return host.Config{
		Title:    "Auto Counter",
		Counters: []host.CounterConfig{{ID: "main", Seed: 0, Label: "Seconds"}},
		Active:   true,
		Interval: time.Second,
	}
}

func View(cfg host.Config, s tally.Snapshot) h.H {
	id := s.IDs[0]
	status, toggle := "Paused", "Start"
	if s.Active {
		status, toggle = "Counting...", "Pause"
	}
	return h.Main(h.ID(s.ID), h.Data("active", strconv.FormatBool(s.Active)),
		h.H1(h.Text(cfg.Title)),
		h.P(h.Textf("%s: ", cfg.Label(id)), h.Strong(h.DataCounter(id), h.Textf("%d", s.Values[id]))),
		h.P(h.Role("status"), h.Text(status)),
		h.Div(
			h.Button(h.DataCommand("toggle"), h.Text(toggle)),
			h.Button(h.DataCommand("reset "+id), h.Text("Reset")),
		),
	)
}

func main() {
	host.Main(Defaults(), View)
}
