// Package lang provides the parser and renderer adapters for the script and
// markup families. The full grammars live outside the core; these adapters
// recognize exactly the construct set the pipeline consumes and carry
// everything else as verbatim raw spans, so rendering an unmutated tree
// reproduces the original source byte for byte.
package lang

import (
	"regexp"
	"sort"

	"go.trai.ch/bale/internal/core/domain"
)

var (
	reImportStmt = regexp.MustCompile(`(?m)^[ \t]*import\s+(?:[\w$*{},\s]+?\s+from\s+)?['"]([^'"]+)['"][ \t]*;?`)
	reExportFrom = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:\*|\{[^}]*\})\s+from\s+['"]([^'"]+)['"][ \t]*;?`)
	reDynImport  = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	reRequire    = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	reNewWorker  = regexp.MustCompile(`\bnew\s+(?:Worker|SharedWorker)\s*\(\s*['"]([^'"]+)['"]`)
	reSWRegister = regexp.MustCompile(`\bnavigator\s*\.\s*serviceWorker\s*\.\s*register\s*\(\s*['"]([^'"]+)['"]`)
	reEnvProp    = regexp.MustCompile(`\bprocess\.env\.([A-Za-z_$][\w$]*)`)
	reFileRead   = regexp.MustCompile(`\b(?:fs\s*\.\s*)?readFileSync\s*\(`)
)

// span is one recognized construct in source order.
type span struct {
	start, end int
	kind       domain.NodeKind
	value      string
}

// scanScript chunks script source into recognized constructs and raw gaps.
func scanScript(src string) *domain.Tree {
	spans := collectSpans(src)

	tree := domain.NewTree()
	pos := 0
	for _, sp := range spans {
		if sp.start > pos {
			tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: src[pos:sp.start], Pos: pos})
		}
		tree.Add(0, domain.Node{
			Kind:  sp.kind,
			Text:  src[sp.start:sp.end],
			Value: sp.value,
			Pos:   sp.start,
		})
		pos = sp.end
	}
	if pos < len(src) {
		tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: src[pos:], Pos: pos})
	}
	return tree
}

//nolint:cyclop // one case per construct regex
func collectSpans(src string) []span {
	var spans []span

	add := func(re *regexp.Regexp, kind domain.NodeKind) {
		for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
			sp := span{start: m[0], end: m[1], kind: kind}
			if len(m) > 3 && m[2] >= 0 {
				sp.value = src[m[2]:m[3]]
			}
			spans = append(spans, sp)
		}
	}

	// Dynamic imports first so plain import statements cannot shadow the
	// call form at the same offset.
	add(reDynImport, domain.KindDynamicImport)
	add(reImportStmt, domain.KindImport)
	add(reExportFrom, domain.KindExportFrom)
	add(reRequire, domain.KindRequire)
	add(reNewWorker, domain.KindWorker)
	add(reSWRegister, domain.KindServiceWorker)
	add(reEnvProp, domain.KindEnvRead)

	for _, m := range reFileRead.FindAllStringIndex(src, -1) {
		end := balancedCallEnd(src, m[1]-1)
		spans = append(spans, span{start: m[0], end: end, kind: domain.KindFileRead})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	// Drop overlaps: earliest (then longest) span wins.
	out := spans[:0]
	pos := 0
	for _, sp := range spans {
		if sp.start < pos {
			continue
		}
		out = append(out, sp)
		pos = sp.end
	}
	return out
}

// balancedCallEnd returns the index one past the parenthesis that closes the
// call whose opening parenthesis sits at open. Falls back to the end of the
// source for unbalanced input.
func balancedCallEnd(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(src)
}
