package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"go.trai.ch/bale/internal/core/domain"
)

// resourceAttrs maps element tags to the attribute that carries a resource
// reference.
var resourceAttrs = map[string]string{
	"script": "src",
	"link":   "href",
	"img":    "src",
	"audio":  "src",
	"video":  "src",
	"source": "src",
}

// markupHandler transforms assets of the markup family: attribute-based
// resource collection followed by inline asset extraction.
type markupHandler struct {
	d *Dispatcher
}

func (h *markupHandler) transform(_ context.Context, a *domain.Asset, res *Result) error {
	if a.AST == nil || a.AST.Tree == nil {
		return nil
	}

	inline := h.collect(a)
	h.extract(a, inline, res)
	return nil
}

// collect walks the tree once and records a dependency for every
// attribute-based resource reference, with element-position metadata for
// output reference rewriting. It returns the indices of inline script and
// style bodies for the extractor.
func (h *markupHandler) collect(a *domain.Asset) []int {
	tree := a.AST.Tree
	var inline []int

	tree.Walk(func(idx int, ancestors []int) bool {
		n := tree.Node(idx)
		switch n.Kind {
		case domain.KindElement:
			attr, ok := resourceAttrs[n.Value]
			if !ok {
				return true
			}
			ref, ok := n.Attrs[attr]
			if !ok || ref == "" {
				return true
			}
			dep := domain.NewDependency(ref, domain.DepResource)
			dep.Hints.Pos = n.Pos
			dep.Hints.Attr = attr
			a.AddDependency(dep)
		case domain.KindInlineScript, domain.KindInlineStyle:
			// Bodies always sit under their element; the ancestor chain
			// is how the extractor knows the enclosing tag.
			if len(ancestors) > 0 {
				inline = append(inline, idx)
			}
		}
		return true
	})
	return inline
}

// extract synthesizes an independent asset for each inline script or style
// body. Identity derives deterministically from the parent path and the
// block's byte position, so repeated builds produce the same identity for
// the same block. The body is replaced with a placeholder naming the
// extracted asset; surrounding markup positions are untouched so the parent
// document still renders.
func (h *markupHandler) extract(a *domain.Asset, inline []int, res *Result) {
	tree := a.AST.Tree
	for _, idx := range inline {
		n := tree.Node(idx)
		if n.Text == "" {
			continue
		}

		subType := domain.AssetScript
		ext := "js"
		if n.Kind == domain.KindInlineStyle {
			subType = domain.AssetStyle
			ext = "css"
		}

		id := fmt.Sprintf("%s.%s.%s",
			a.Path.String(),
			h.d.hasher.HashString(a.Path.String(), strconv.Itoa(n.Pos))[:8],
			ext,
		)

		sub := domain.NewAssetFromCode(id, subType, a.Env, n.Text)
		res.SubAssets = append(res.SubAssets, sub)

		n.Text = "/* bale:" + id + " */"
		a.AST.MarkDirty()
	}
}
