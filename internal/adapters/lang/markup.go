package lang

import (
	"regexp"
	"sort"

	"go.trai.ch/bale/internal/core/domain"
)

var (
	reScriptElem = regexp.MustCompile(`(?is)(<script\b[^>]*>)(.*?)(</script\s*>)`)
	reStyleElem  = regexp.MustCompile(`(?is)(<style\b[^>]*>)(.*?)(</style\s*>)`)
	reVoidElem   = regexp.MustCompile(`(?i)<(link|img|audio|video|source)\b[^>]*/?>`)
	reAttr       = regexp.MustCompile(`([a-zA-Z-]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// elemSpan is one recognized element in document order.
type elemSpan struct {
	start, end int
	tag        string
	attrs      map[string]string
	// open/close bound the inline body for script and style elements;
	// both are zero for void elements.
	openEnd, closeStart int
	inline              domain.NodeKind
}

// scanMarkup chunks a markup document into elements of interest and raw
// gaps. Inline script and style bodies become child nodes of their element
// so traversal sees them under an ancestor chain.
func scanMarkup(src string) *domain.Tree {
	spans := collectElems(src)

	tree := domain.NewTree()
	pos := 0
	for _, sp := range spans {
		if sp.start > pos {
			tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: src[pos:sp.start], Pos: pos})
		}

		elem := tree.Add(0, domain.Node{
			Kind:  domain.KindElement,
			Value: sp.tag,
			Attrs: sp.attrs,
			Pos:   sp.start,
		})
		if sp.inline != domain.KindRoot {
			tree.Add(elem, domain.Node{Kind: domain.KindRaw, Text: src[sp.start:sp.openEnd], Pos: sp.start})
			tree.Add(elem, domain.Node{Kind: sp.inline, Text: src[sp.openEnd:sp.closeStart], Pos: sp.openEnd})
			tree.Add(elem, domain.Node{Kind: domain.KindRaw, Text: src[sp.closeStart:sp.end], Pos: sp.closeStart})
		} else {
			tree.Node(elem).Text = src[sp.start:sp.end]
		}
		pos = sp.end
	}
	if pos < len(src) {
		tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: src[pos:], Pos: pos})
	}
	return tree
}

func collectElems(src string) []elemSpan {
	var spans []elemSpan

	for _, m := range reScriptElem.FindAllStringSubmatchIndex(src, -1) {
		spans = append(spans, containerSpan(src, m, "script", domain.KindInlineScript))
	}
	for _, m := range reStyleElem.FindAllStringSubmatchIndex(src, -1) {
		spans = append(spans, containerSpan(src, m, "style", domain.KindInlineStyle))
	}
	for _, m := range reVoidElem.FindAllStringSubmatchIndex(src, -1) {
		spans = append(spans, elemSpan{
			start: m[0],
			end:   m[1],
			tag:   toLower(src[m[2]:m[3]]),
			attrs: parseAttrs(src[m[0]:m[1]]),
		})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

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

func containerSpan(src string, m []int, tag string, inline domain.NodeKind) elemSpan {
	sp := elemSpan{
		start:      m[0],
		end:        m[1],
		tag:        tag,
		attrs:      parseAttrs(src[m[2]:m[3]]),
		openEnd:    m[3],
		closeStart: m[6],
		inline:     inline,
	}
	// A script element referencing an external source has no meaningful
	// inline body to extract.
	if _, ok := sp.attrs["src"]; ok {
		sp.inline = domain.KindRoot
	}
	return sp
}

func parseAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range reAttr.FindAllStringSubmatch(tag, -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		attrs[toLower(m[1])] = v
	}
	return attrs
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
