package host

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-via/tally"
	"github.com/go-via/tally/h"
	"github.com/goccy/go-json"
)

// Format selects how snapshots are written out.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

func parseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatHTML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format '%s'", s)
	}
}

// View renders the markup of a widget for one snapshot.
type View func(cfg Config, s tally.Snapshot) h.H

// Renderer writes one snapshot.
type Renderer interface {
	Render(w io.Writer, s tally.Snapshot) error
}

// NewRenderer returns the renderer for cfg.Format. The view is only used by the
// html format.
func NewRenderer(cfg Config, view View) (Renderer, error) {
	f, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatHTML:
		if view == nil {
			return nil, fmt.Errorf("html format needs a view")
		}
		return &htmlRenderer{cfg: cfg, view: view}, nil
	case FormatJSON:
		return jsonRenderer{}, nil
	default:
		return &textRenderer{cfg: cfg}, nil
	}
}

type htmlRenderer struct {
	cfg  Config
	view View
}

func (r *htmlRenderer) Render(w io.Writer, s tally.Snapshot) error {
	if err := r.view(r.cfg, s).Render(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, s tally.Snapshot) error {
	return json.NewEncoder(w).Encode(s)
}

type textRenderer struct {
	cfg Config
}

func (r *textRenderer) Render(w io.Writer, s tally.Snapshot) error {
	var b strings.Builder
	for _, id := range s.IDs {
		fmt.Fprintf(&b, "%s=%d ", r.cfg.Label(id), s.Values[id])
	}
	state := "paused"
	if s.Active {
		state = "running"
	}
	fmt.Fprintf(&b, "[%s]\n", state)
	_, err := io.WriteString(w, b.String())
	return err
}
