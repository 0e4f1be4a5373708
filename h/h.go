// Package h renders markup for views bound to tally counters.
//
// It is a thin layer over gomponents: every element and attribute returns an H
// that can be nested into other elements and rendered to any io.Writer.
package h

import (
	"io"
	"strings"

	g "maragu.dev/gomponents"
)

// H is a renderable node.
type H interface {
	Render(w io.Writer) error
}

func Text(s string) H {
	return g.Text(s)
}

func Textf(format string, a ...any) H {
	return g.Textf(format, a...)
}

// Raw inserts s without escaping.
func Raw(s string) H {
	return g.Raw(s)
}

func Attr(name string, value ...string) H {
	return g.Attr(name, value...)
}

// If returns n when cond is true and nothing otherwise.
func If(cond bool, n H) H {
	if !cond {
		return nil
	}
	return n
}

func Group(children ...H) H {
	return g.Group(retype(children))
}

// String renders n and returns the markup. Render errors yield an empty string.
func String(n H) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		return ""
	}
	return b.String()
}
