package h

import (
	gh "maragu.dev/gomponents/html"
)

func Div(children ...H) H {
	return gh.Div(retype(children)...)
}

func Main(children ...H) H {
	return gh.Main(retype(children)...)
}

func Section(children ...H) H {
	return gh.Section(retype(children)...)
}

func H1(children ...H) H {
	return gh.H1(retype(children)...)
}

func H2(children ...H) H {
	return gh.H2(retype(children)...)
}

func P(children ...H) H {
	return gh.P(retype(children)...)
}

func Span(children ...H) H {
	return gh.Span(retype(children)...)
}

func Strong(children ...H) H {
	return gh.Strong(retype(children)...)
}

func Button(children ...H) H {
	return gh.Button(retype(children)...)
}

func Ul(children ...H) H {
	return gh.Ul(retype(children)...)
}

func Li(children ...H) H {
	return gh.Li(retype(children)...)
}
