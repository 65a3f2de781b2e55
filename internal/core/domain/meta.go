package domain

// GlobalShim is a synthesized declaration emulating one runtime global not
// natively present in the target environment.
type GlobalShim struct {
	Name   string
	Source string
}

// Meta is the map of side-channel facts the pipeline records against an
// asset.
type Meta struct {
	// Interpreter is the leading hashbang line value, extracted and
	// stripped before parsing.
	Interpreter string

	// ES6Module is set by the dependency collector when static module
	// syntax is seen; the interop step consults it.
	ES6Module bool

	globals []GlobalShim
}

// AddGlobal records a shim for the named global in insertion order. Adding
// the same name twice is a no-op.
func (m *Meta) AddGlobal(name, source string) {
	for _, g := range m.globals {
		if g.Name == name {
			return
		}
	}
	m.globals = append(m.globals, GlobalShim{Name: name, Source: source})
}

// Globals returns the recorded shims in insertion order.
func (m *Meta) Globals() []GlobalShim {
	return m.globals
}

// ConsumeGlobals returns the shim sources concatenated in insertion order,
// newline separated, and clears them so repeated generate calls do not
// duplicate the prelude. Returns "" when no shims were recorded.
func (m *Meta) ConsumeGlobals() string {
	if len(m.globals) == 0 {
		return ""
	}
	var out []byte
	for i, g := range m.globals {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, g.Source...)
	}
	m.globals = nil
	return string(out)
}
