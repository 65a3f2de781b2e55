package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
)

// scriptHandler transforms assets of the scripting family: dependency
// collection, environment and global rewriting, and module interop, in that
// fixed order.
type scriptHandler struct {
	d *Dispatcher
}

func (h *scriptHandler) transform(ctx context.Context, a *domain.Asset, _ *Result) error {
	if a.AST == nil || a.AST.Tree == nil {
		return nil
	}
	code, err := a.Code()
	if err != nil {
		return err
	}

	// The full traversal runs only when the lexical pre-scan says the tree
	// might contain dependency-introducing constructs, or when an earlier
	// stage already dirtied the tree. Files that provably cannot introduce
	// dependencies skip it entirely.
	if domain.MightNeedTree(code) || a.AST.Dirty() {
		h.collect(a)
	}

	if !a.Env.IsServer() && domain.HasEnvRead(code) {
		h.inlineEnv(a)
	}
	if !a.Env.IsServer() && domain.HasNodeGlobal(code) {
		h.shimGlobals(a, code)
	}
	if h.d.opts.IgnoreFSCalls && !a.Env.IsServer() && domain.HasFileRead(code) {
		h.neutralizeFileReads(a)
	}

	return h.interop(ctx, a)
}

// collect walks the tree once, ancestor-aware, and records a dependency for
// every static import or re-export, call-form require or dynamic import,
// worker construction, and service-worker registration, in traversal order.
func (h *scriptHandler) collect(a *domain.Asset) {
	tree := a.AST.Tree
	tree.Walk(func(idx int, _ []int) bool {
		n := tree.Node(idx)
		switch n.Kind {
		case domain.KindImport, domain.KindExportFrom:
			a.Meta.ES6Module = true
			h.record(a, n, domain.DepStaticImport)
		case domain.KindRequire, domain.KindDynamicImport:
			h.record(a, n, domain.DepDynamicImport)
		case domain.KindWorker:
			h.record(a, n, domain.DepWorker)
		case domain.KindServiceWorker:
			h.record(a, n, domain.DepServiceWorker)
		}
		return true
	})
}

func (h *scriptHandler) record(a *domain.Asset, n *domain.Node, kind domain.DepKind) {
	dep := domain.NewDependency(n.Value, kind)
	dep.Hints.Pos = n.Pos
	a.AddDependency(dep)
}

// inlineEnv replaces each qualified environment-variable read with its
// literal build-time value, enabling dead-code elimination of
// environment-gated branches downstream. Unset variables become undefined.
func (h *scriptHandler) inlineEnv(a *domain.Asset) {
	tree := a.AST.Tree
	mutated := false
	tree.Walk(func(idx int, _ []int) bool {
		n := tree.Node(idx)
		if n.Kind != domain.KindEnvRead {
			return true
		}
		if v, ok := h.d.opts.EnvValue(n.Value); ok {
			n.Text = strconv.Quote(v)
		} else {
			n.Text = "undefined"
		}
		mutated = true
		return true
	})
	if mutated {
		a.AST.MarkDirty()
	}
}

// shimGlobals synthesizes a declaration for each referenced Node-style
// global identifier and records it in meta, in order of first occurrence.
// The dispatcher prepends the shims to the final generated code.
func (h *scriptHandler) shimGlobals(a *domain.Asset, code string) {
	for _, name := range domain.NodeGlobals(code) {
		a.Meta.AddGlobal(name, globalShim(name, a))
	}
}

func globalShim(name string, a *domain.Asset) string {
	switch name {
	case "process":
		return `var process = require("process");`
	case "global":
		return `var global = typeof globalThis !== "undefined" ? globalThis : window;`
	case "__dirname":
		return fmt.Sprintf("var __dirname = %s;", strconv.Quote(dirOf(a.Path.String())))
	case "__filename":
		return fmt.Sprintf("var __filename = %s;", strconv.Quote(a.Path.String()))
	case "Buffer":
		return `var Buffer = require("buffer").Buffer;`
	case "define":
		return `var define;`
	default:
		return fmt.Sprintf("var %s;", name)
	}
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return "."
}

// neutralizeFileReads rewrites direct file-read calls into safe no-ops for
// non-server targets. The nearest package descriptor may opt out; a failed
// descriptor lookup degrades to "no opt-out" rather than failing the build,
// since the descriptor is advisory.
func (h *scriptHandler) neutralizeFileReads(a *domain.Asset) {
	if a.Pkg == nil {
		pkg, err := h.d.packages.Nearest(a.Path.String())
		if err != nil {
			h.d.log.Debug("package descriptor lookup failed: " + err.Error())
		}
		a.Pkg = pkg
	}
	if a.Pkg != nil && a.Pkg.AllowFSReads {
		return
	}

	tree := a.AST.Tree
	mutated := false
	tree.Walk(func(idx int, _ []int) bool {
		n := tree.Node(idx)
		if n.Kind != domain.KindFileRead {
			return true
		}
		n.Text = "null"
		mutated = true
		return true
	})
	if mutated {
		a.AST.MarkDirty()
	}
}

// interop has two mutually exclusive outcomes. With scope hoisting enabled
// the tree goes to the external scope-combination transform. Otherwise an
// asset using static module syntax is mechanically rewritten to the
// dynamic module form; the rewritten tree is marked dirty because its
// generated code no longer matches the original source text.
func (h *scriptHandler) interop(ctx context.Context, a *domain.Asset) error {
	if h.d.opts.ScopeHoist {
		return h.d.hoister.Hoist(ctx, a)
	}
	if !a.Meta.ES6Module {
		return nil
	}

	tree := a.AST.Tree
	mutated := false
	tree.Walk(func(idx int, _ []int) bool {
		n := tree.Node(idx)
		switch n.Kind {
		case domain.KindImport:
			n.Text = rewriteImport(n.Text, n.Value)
			mutated = true
		case domain.KindExportFrom:
			n.Text = rewriteExportFrom(n.Text, n.Value)
			mutated = true
		}
		return true
	})
	if mutated {
		a.AST.MarkDirty()
	}
	return nil
}

var (
	reImportClause = regexp.MustCompile(`^\s*import\s+(.+?)\s+from\b`)
	reNamespace    = regexp.MustCompile(`^\*\s+as\s+([\w$]+)$`)
	reExportNames  = regexp.MustCompile(`^\s*export\s+\{([^}]*)\}\s+from\b`)
)

// rewriteImport converts one static import statement to its require form.
func rewriteImport(text, specifier string) string {
	req := "require(" + strconv.Quote(specifier) + ")"

	m := reImportClause.FindStringSubmatch(text)
	if m == nil {
		// Bare import for side effects only.
		return req + ";"
	}
	clause := strings.TrimSpace(m[1])

	if ns := reNamespace.FindStringSubmatch(clause); ns != nil {
		return "var " + ns[1] + " = " + req + ";"
	}
	// Named and default clauses both destructure or bind directly.
	return "var " + clause + " = " + req + ";"
}

// rewriteExportFrom converts a re-export statement to require-and-assign
// form.
func rewriteExportFrom(text, specifier string) string {
	req := "require(" + strconv.Quote(specifier) + ")"

	if m := reExportNames.FindStringSubmatch(text); m != nil {
		var out strings.Builder
		for _, name := range strings.Split(m[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if out.Len() > 0 {
				out.WriteByte(' ')
			}
			fmt.Fprintf(&out, "module.exports.%s = %s.%s;", name, req, name)
		}
		return out.String()
	}
	// export * from '...'
	return "Object.assign(module.exports, " + req + ");"
}
