package domain

import (
	"sort"
	"strings"
)

// BuildOptions is the validated build configuration consumed by the
// pipeline and application layers.
type BuildOptions struct {
	// Entries are the entry asset paths, relative to the project root.
	Entries []string

	// Target selects the runtime the bundle is produced for.
	Target Environment

	// CacheDir is the root of the content-addressed cache.
	CacheDir string

	// OutDir is where emitted code is written.
	OutDir string

	// ScopeHoist enables the whole-program scope-combination transform and
	// disables the per-module interop rewrite.
	ScopeHoist bool

	// Env holds the build-time environment values substituted into
	// non-server assets.
	Env map[string]string

	// IgnoreFSCalls rewrites direct file-read calls into safe no-ops for
	// non-server targets. Packages may opt out through their descriptor.
	IgnoreFSCalls bool
}

// EnvValue looks up a build-time environment value.
func (o BuildOptions) EnvValue(name string) (string, bool) {
	v, ok := o.Env[name]
	return v, ok
}

// Fingerprint summarizes the options that change transform output, so cache
// keys computed from the same content still differ across configurations.
// Env values are folded in sorted order because inlining substitutes them
// into generated code.
func (o BuildOptions) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(o.Target))
	b.WriteByte(0)
	if o.ScopeHoist {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
	if o.IgnoreFSCalls {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}

	keys := make([]string, 0, len(o.Env))
	for k := range o.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(o.Env[k])
		b.WriteByte(0)
	}
	return b.String()
}
