package main

import (
	"github.com/go-via/tally"
	"github.com/go-via/tally/h"
	"github.com/go-via/tally/internal/host"
)

// Defaults describes a single counter starting at 0 that never ticks.
func Defaults() host.Config {
	return host.Config{
		Title:    "Counter",
		Counters: []host.CounterConfig{{ID: "count", Seed: 0, Label: "Count"}},
	}
}

func View(cfg host.Config, s tally.Snapshot) h.H {
	id := s.IDs[0]
	return h.Main(h.ID(s.ID),
		h.H1(h.Text(cfg.Title)),
		h.P(h.Textf("%s: ", cfg.Label(id)), h.Span(h.DataCounter(id), h.Textf("%d", s.Values[id]))),
		h.Div(
			h.Button(h.DataCommand("inc "+id), h.Text("Increment")),
			h.Button(h.DataCommand("dec "+id), h.Text("Decrement")),
			h.Button(h.DataCommand("reset "+id), h.Text("Reset")),
		),
	)
}

func main() {
	host.Main(Defaults(), View)
}
