package h

import gh "maragu.dev/gomponents/html"

func ID(v string) H {
	return gh.ID(v)
}

func Class(v string) H {
	return gh.Class(v)
}

func Type(v string) H {
	return gh.Type(v)
}

func Role(v string) H {
	return gh.Role(v)
}

// Data attributes automatically have their name prefixed with "data-".
func Data(name, v string) H {
	return gh.Data(name, v)
}

// DataCounter marks an element as displaying the counter with the given id.
func DataCounter(id string) H {
	return gh.Data("counter", id)
}

// DataCommand marks an element as triggering the given host command.
func DataCommand(cmd string) H {
	return gh.Data("command", cmd)
}
