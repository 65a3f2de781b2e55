package domain

// DepKind distinguishes how a dependency edge was introduced.
type DepKind string

const (
	// DepStaticImport is a static module import or re-export.
	DepStaticImport DepKind = "static-import"
	// DepDynamicImport is a call-form dynamic import or require.
	DepDynamicImport DepKind = "dynamic-import"
	// DepWorker is a worker or shared-worker construction; the edge points
	// at the worker's entry file.
	DepWorker DepKind = "worker"
	// DepServiceWorker is a service-worker registration call.
	DepServiceWorker DepKind = "service-worker"
	// DepResource is an attribute-based resource reference in markup
	// (script src, stylesheet href, embedded media).
	DepResource DepKind = "resource"
)

// DepHints carries resolution hints recorded alongside a dependency.
type DepHints struct {
	// Resolved is the file path the specifier resolved to, filled in by the
	// application layer after resolution. Empty until then.
	Resolved string

	// Pos is the byte offset of the introducing construct in the parent's
	// source. For markup resources this is the element position used by the
	// inline extractor and output reference rewriting.
	Pos int

	// Attr names the element attribute that carried the reference, for
	// markup resources only.
	Attr string
}

// Dependency is a recorded edge from one asset to another source it
// references.
type Dependency struct {
	Specifier InternedString
	Kind      DepKind
	Hints     DepHints
}

// NewDependency records an edge with the given specifier and kind.
func NewDependency(specifier string, kind DepKind) Dependency {
	return Dependency{
		Specifier: NewInternedString(specifier),
		Kind:      kind,
	}
}
