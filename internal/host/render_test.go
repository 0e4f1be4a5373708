package host

import (
	"bytes"
	"testing"

	"github.com/go-via/tally"
	"github.com/go-via/tally/h"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreSnapshot() tally.Snapshot {
	return tally.Snapshot{
		ID:     "w1",
		IDs:    []string{"A", "B"},
		Values: map[string]int{"A": 3, "B": 1},
		Active: false,
	}
}

func render(t *testing.T, r Renderer, s tally.Snapshot) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, s))
	return buf.String()
}

func TestNewRenderer_Formats(t *testing.T) {
	view := func(Config, tally.Snapshot) h.H { return h.Div() }

	for _, f := range []string{"", "text", "TEXT", "html", "json"} {
		_, err := NewRenderer(Config{Format: f}, view)
		assert.NoError(t, err, f)
	}

	_, err := NewRenderer(Config{Format: "pdf"}, view)
	assert.Error(t, err)

	_, err = NewRenderer(Config{Format: "html"}, nil)
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	r, err := NewRenderer(scoreDefaults(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Team A=3 Team B=1 [paused]\n", render(t, r, scoreSnapshot()))

	s := scoreSnapshot()
	s.Active = true
	assert.Equal(t, "Team A=3 Team B=1 [running]\n", render(t, r, s))
}

func TestJSONRenderer(t *testing.T) {
	cfg := scoreDefaults()
	cfg.Format = "json"
	r, err := NewRenderer(cfg, nil)
	require.NoError(t, err)

	out := render(t, r, scoreSnapshot())

	var got tally.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, scoreSnapshot(), got)
	assert.True(t, bytes.HasSuffix([]byte(out), []byte("\n")))
}

func TestHTMLRenderer(t *testing.T) {
	cfg := scoreDefaults()
	cfg.Format = "html"
	view := func(cfg Config, s tally.Snapshot) h.H {
		return h.Div(h.ID(s.ID), h.Textf("%s:%d", cfg.Label("A"), s.Values["A"]))
	}
	r, err := NewRenderer(cfg, view)
	require.NoError(t, err)

	assert.Equal(t, "<div id=\"w1\">Team A:3</div>\n", render(t, r, scoreSnapshot()))
}
