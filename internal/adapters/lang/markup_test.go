package lang_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/lang"
	"go.trai.ch/bale/internal/core/domain"
)

func parseMarkup(t *testing.T, src string) *domain.AST {
	t.Helper()
	a := domain.NewAssetFromCode("index.html", domain.AssetMarkup, domain.EnvBrowser, src)
	ast, err := lang.NewParser().Parse(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, ast)
	return ast
}

func TestParser_MarkupResourceElements(t *testing.T) {
	t.Parallel()

	src := `<html><head>
<link rel="stylesheet" href="styles/main.css">
<script src="app.js"></script>
</head><body>
<img src="logo.png" alt="Logo">
</body></html>`

	ast := parseMarkup(t, src)
	assert.Equal(t, domain.FamilyMarkup, ast.Family)
	assert.Equal(t, domain.MarkupASTVersion, ast.Version)

	type elem struct {
		tag string
		ref string
	}
	var elems []elem
	tree := ast.Tree
	tree.Walk(func(idx int, _ []int) bool {
		n := tree.Node(idx)
		if n.Kind == domain.KindElement {
			ref := n.Attrs["src"]
			if ref == "" {
				ref = n.Attrs["href"]
			}
			elems = append(elems, elem{tag: n.Value, ref: ref})
		}
		return true
	})

	assert.Equal(t, []elem{
		{tag: "link", ref: "styles/main.css"},
		{tag: "script", ref: "app.js"},
		{tag: "img", ref: "logo.png"},
	}, elems)

	assert.Equal(t, src, tree.Render())
}

func TestParser_MarkupInlineScript(t *testing.T) {
	t.Parallel()

	src := `<html><body><script>console.log("inline");</script></body></html>`
	ast := parseMarkup(t, src)

	tree := ast.Tree
	var body string
	var ancestorKinds []domain.NodeKind
	tree.Walk(func(idx int, ancestors []int) bool {
		if n := tree.Node(idx); n.Kind == domain.KindInlineScript {
			body = n.Text
			for _, anc := range ancestors {
				ancestorKinds = append(ancestorKinds, tree.Node(anc).Kind)
			}
		}
		return true
	})

	assert.Equal(t, `console.log("inline");`, body)
	// The body sits under its element, which sits under the root.
	assert.Equal(t, []domain.NodeKind{domain.KindRoot, domain.KindElement}, ancestorKinds)
	assert.Equal(t, src, tree.Render())
}

func TestParser_MarkupInlineStyle(t *testing.T) {
	t.Parallel()

	src := `<style>body { margin: 0; }</style>`
	ast := parseMarkup(t, src)

	tree := ast.Tree
	var body string
	tree.Walk(func(idx int, _ []int) bool {
		if n := tree.Node(idx); n.Kind == domain.KindInlineStyle {
			body = n.Text
		}
		return true
	})
	assert.Equal(t, "body { margin: 0; }", body)
	assert.Equal(t, src, tree.Render())
}

func TestParser_MarkupScriptWithSrcHasNoInlineBody(t *testing.T) {
	t.Parallel()

	src := `<script src="app.js"></script>`
	ast := parseMarkup(t, src)

	tree := ast.Tree
	inline := 0
	tree.Walk(func(idx int, _ []int) bool {
		if tree.Node(idx).Kind == domain.KindInlineScript {
			inline++
		}
		return true
	})
	assert.Zero(t, inline)
	assert.Equal(t, src, tree.Render())
}

func TestParser_MarkupAttributeQuoting(t *testing.T) {
	t.Parallel()

	ast := parseMarkup(t, `<img src='single.png'><link href="double.css">`)

	tree := ast.Tree
	var refs []string
	tree.Walk(func(idx int, _ []int) bool {
		n := tree.Node(idx)
		if n.Kind != domain.KindElement {
			return true
		}
		if v, ok := n.Attrs["src"]; ok {
			refs = append(refs, v)
		}
		if v, ok := n.Attrs["href"]; ok {
			refs = append(refs, v)
		}
		return true
	})
	assert.Equal(t, []string{"single.png", "double.css"}, refs)
}

func TestParser_MarkupUppercaseTags(t *testing.T) {
	t.Parallel()

	src := `<IMG SRC="logo.png"><SCRIPT>x()</SCRIPT>`
	ast := parseMarkup(t, src)

	tree := ast.Tree
	var tags []string
	tree.Walk(func(idx int, _ []int) bool {
		if n := tree.Node(idx); n.Kind == domain.KindElement {
			tags = append(tags, n.Value)
		}
		return true
	})
	assert.Equal(t, []string{"img", "script"}, tags)
	assert.Equal(t, src, tree.Render())
}

func TestParser_MarkupPlainDocumentStillParses(t *testing.T) {
	t.Parallel()

	src := `<html><body><p>No assets here.</p></body></html>`
	ast := parseMarkup(t, src)
	assert.Equal(t, src, ast.Tree.Render())
}
