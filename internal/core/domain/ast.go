package domain

// Family tags a syntax tree with its source-language family. A tree may only
// be attached to an asset whose type implies the same family.
type Family string

const (
	// FamilyScript is the scripting-language family.
	FamilyScript Family = "script"
	// FamilyMarkup is the markup-language family.
	FamilyMarkup Family = "markup"
)

// NodeKind identifies what a tree node represents. The set is closed over
// the constructs the pipeline cares about; everything else is carried as
// verbatim Raw text so rendering is lossless.
type NodeKind int

const (
	// KindRoot is the synthetic root of every tree.
	KindRoot NodeKind = iota
	// KindRaw is a verbatim span of source text.
	KindRaw
	// KindImport is a static module import statement.
	KindImport
	// KindExportFrom is a re-export statement with a source specifier.
	KindExportFrom
	// KindRequire is a call-form require.
	KindRequire
	// KindDynamicImport is a call-form dynamic import.
	KindDynamicImport
	// KindWorker is a worker or shared-worker construction.
	KindWorker
	// KindServiceWorker is a service-worker registration call.
	KindServiceWorker
	// KindEnvRead is a qualified environment-variable read.
	KindEnvRead
	// KindFileRead is a direct file-read call.
	KindFileRead
	// KindElement is a markup element carrying resource attributes.
	KindElement
	// KindInlineScript is the body of an inline script block.
	KindInlineScript
	// KindInlineStyle is the body of an inline style block.
	KindInlineStyle
)

// Node is one arena entry. Nodes reference each other by index so the tree
// has no live back-pointers; an explicit ancestor stack is carried during
// traversal instead.
type Node struct {
	Kind     NodeKind
	Parent   int
	Children []int

	// Text is the source text this node renders to. Transforms rewrite it
	// in place and mark the tree dirty.
	Text string

	// Value holds the node's semantic payload: the specifier for dependency
	// nodes, the variable name for env reads, the tag name for elements.
	Value string

	// Attrs holds markup element attributes.
	Attrs map[string]string

	// Pos is the byte offset of the node's text in the original source.
	Pos int
}

// Tree is an arena of nodes addressed by index. Index 0 is always the root.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree containing only the root node.
func NewTree() *Tree {
	return &Tree{nodes: []Node{{Kind: KindRoot, Parent: -1}}}
}

// Add appends a node as the last child of parent and returns its index.
func (t *Tree) Add(parent int, n Node) int {
	idx := len(t.nodes)
	n.Parent = parent
	t.nodes = append(t.nodes, n)
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	return idx
}

// Node returns a mutable reference to the node at idx.
func (t *Tree) Node(idx int) *Node {
	return &t.nodes[idx]
}

// Len returns the number of nodes in the arena, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node reachable from the root exactly once, depth first
// in child order. Each visit sees the chain of enclosing node indices,
// outermost first. Returning false from visit stops the traversal.
func (t *Tree) Walk(visit func(idx int, ancestors []int) bool) {
	type frame struct {
		idx   int
		depth int
	}
	stack := []frame{{idx: 0}}
	ancestors := make([]int, 0, 8)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ancestors = ancestors[:f.depth]
		if !visit(f.idx, ancestors) {
			return
		}
		ancestors = append(ancestors, f.idx)

		children := t.nodes[f.idx].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{idx: children[i], depth: f.depth + 1})
		}
	}
}

// Render concatenates node text in traversal order. Rendering is lossless
// for an unmutated tree: the concatenation reproduces the original source.
func (t *Tree) Render() string {
	var out []byte
	t.Walk(func(idx int, _ []int) bool {
		out = append(out, t.nodes[idx].Text...)
		return true
	})
	return string(out)
}

// AST is the envelope around a parsed tree: family tag, producer version,
// root arena, and the dirty flag meaning the tree has diverged from a
// direct re-render of the original source text.
type AST struct {
	Family  Family
	Version string
	Tree    *Tree

	dirty bool
}

// NewAST wraps a tree in an envelope for the given family and version.
func NewAST(family Family, version string, tree *Tree) *AST {
	return &AST{Family: family, Version: version, Tree: tree}
}

// Dirty reports whether a mutating step has touched the tree since parse.
func (a *AST) Dirty() bool {
	return a.dirty
}

// MarkDirty flags the tree as diverged from the original source. Every
// mutating transform must call this; generation relies on it to skip
// re-rendering unmutated trees.
func (a *AST) MarkDirty() {
	a.dirty = true
}
