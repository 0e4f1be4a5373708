package main

import (
	"fmt"
	"strings"

	"github.com/go-via/tally"
	"github.com/go-via/tally/h"
	"github.com/go-via/tally/internal/host"
)

// Defaults describes two independent team scores, A starting at 2 and B at 1.
func Defaults() host.Config {
	return host.Config{
		Title: "Scoreboard",
		Counters: []host.CounterConfig{
			{ID: "A", Seed: 2, Label: "Team A"},
			{ID: "B", Seed: 1, Label: "Team B"},
		},
	}
}

func View(cfg host.Config, s tally.Snapshot) h.H {
	teams := make([]h.H, 0, len(s.IDs))
	for _, id := range s.IDs {
		teams = append(teams, h.Section(h.Class("team"),
			h.H2(h.Text(cfg.Label(id))),
			h.P(h.Strong(h.DataCounter(id), h.Textf("%d", s.Values[id]))),
			h.Button(h.DataCommand("inc "+id), h.Text("Goal")),
		))
	}
	return h.Main(h.ID(s.ID),
		h.H1(h.Text(cfg.Title)),
		h.Div(h.Class("teams"), h.Group(teams...)),
		h.P(h.Class("summary"), h.Text(summary(cfg, s))),
		h.Button(h.DataCommand("reset"), h.Text("Reset scores")),
	)
}

// summary reads "Team A 2 x 1 Team B" for two teams and "Team A 2 x Team B 1 x ..."
// otherwise.
func summary(cfg host.Config, s tally.Snapshot) string {
	if len(s.IDs) == 2 {
		a, b := s.IDs[0], s.IDs[1]
		return fmt.Sprintf("%s %d x %d %s", cfg.Label(a), s.Values[a], s.Values[b], cfg.Label(b))
	}
	parts := make([]string, 0, len(s.IDs))
	for _, id := range s.IDs {
		parts = append(parts, fmt.Sprintf("%s %d", cfg.Label(id), s.Values[id]))
	}
	return strings.Join(parts, " x ")
}

func main() {
	host.Main(Defaults(), View)
}
