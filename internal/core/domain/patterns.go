package domain

import "regexp"

// Lexical trigger patterns applied to raw source before any tree is
// allocated or walked. They gate the expensive traversals: a match means the
// source might contain the construct, a non-match means it provably cannot.
// The patterns are a superset of the constructs that actually introduce
// dependencies; false positives cost a wasted traversal, false negatives
// would drop edges and are bugs.
var (
	reModuleSyntax  = regexp.MustCompile(`\b(import|export|require)\b`)
	reEnvRead       = regexp.MustCompile(`\bprocess\.env\b`)
	reNodeGlobal    = regexp.MustCompile(`\b(process|__dirname|__filename|global|Buffer|define)\b`)
	reFileRead      = regexp.MustCompile(`\breadFileSync\b`)
	reServiceWorker = regexp.MustCompile(`\bnavigator\s*\.\s*serviceWorker\s*\.\s*register\b`)
	reWorker        = regexp.MustCompile(`\bnew\s+(Worker|SharedWorker)\s*\(`)
)

// HasModuleSyntax reports a possible import/export/require construct.
func HasModuleSyntax(src string) bool { return reModuleSyntax.MatchString(src) }

// HasEnvRead reports a possible qualified environment-variable read.
func HasEnvRead(src string) bool { return reEnvRead.MatchString(src) }

// HasNodeGlobal reports a possible reference to a Node-style global
// identifier not natively present in browser targets.
func HasNodeGlobal(src string) bool { return reNodeGlobal.MatchString(src) }

// HasFileRead reports a possible direct file-read call.
func HasFileRead(src string) bool { return reFileRead.MatchString(src) }

// HasServiceWorker reports a possible service-worker registration.
func HasServiceWorker(src string) bool { return reServiceWorker.MatchString(src) }

// HasWorker reports a possible worker or shared-worker construction.
func HasWorker(src string) bool { return reWorker.MatchString(src) }

// NodeGlobals lists the matched Node-style global identifiers in order of
// first occurrence, deduplicated.
func NodeGlobals(src string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range reNodeGlobal.FindAllString(src, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// MightNeedTree reports whether a script source can contain any construct
// the pipeline rewrites or collects. When false the parser may short-circuit
// and return no tree at all.
func MightNeedTree(src string) bool {
	return HasModuleSyntax(src) ||
		HasEnvRead(src) ||
		HasNodeGlobal(src) ||
		HasFileRead(src) ||
		HasServiceWorker(src) ||
		HasWorker(src)
}
