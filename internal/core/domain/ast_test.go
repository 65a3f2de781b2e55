package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/core/domain"
)

func TestTree_AddAndWalk(t *testing.T) {
	t.Parallel()

	tree := domain.NewTree()
	elem := tree.Add(0, domain.Node{Kind: domain.KindElement, Value: "script"})
	body := tree.Add(elem, domain.Node{Kind: domain.KindInlineScript, Text: "x()"})
	tail := tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: "</html>"})

	require.Equal(t, 4, tree.Len())

	var order []int
	ancestorsOf := make(map[int][]int)
	tree.Walk(func(idx int, ancestors []int) bool {
		order = append(order, idx)
		ancestorsOf[idx] = append([]int{}, ancestors...)
		return true
	})

	assert.Equal(t, []int{0, elem, body, tail}, order)
	assert.Empty(t, ancestorsOf[0])
	assert.Equal(t, []int{0}, ancestorsOf[elem])
	assert.Equal(t, []int{0, elem}, ancestorsOf[body])
	assert.Equal(t, []int{0}, ancestorsOf[tail])
}

func TestTree_WalkStopsEarly(t *testing.T) {
	t.Parallel()

	tree := domain.NewTree()
	tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: "a"})
	tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: "b"})

	visits := 0
	tree.Walk(func(idx int, _ []int) bool {
		visits++
		return visits < 2
	})
	assert.Equal(t, 2, visits)
}

func TestTree_RenderLossless(t *testing.T) {
	t.Parallel()

	head := `import a from "./a";`
	rest := "\nconsole.log(a);\n"
	tree := domain.NewTree()
	tree.Add(0, domain.Node{Kind: domain.KindImport, Text: head, Value: "./a"})
	tree.Add(0, domain.Node{Kind: domain.KindRaw, Text: rest})

	assert.Equal(t, head+rest, tree.Render())
}

func TestTree_RenderNestedChildren(t *testing.T) {
	t.Parallel()

	tree := domain.NewTree()
	elem := tree.Add(0, domain.Node{Kind: domain.KindElement, Value: "script"})
	tree.Add(elem, domain.Node{Kind: domain.KindRaw, Text: "<script>"})
	tree.Add(elem, domain.Node{Kind: domain.KindInlineScript, Text: "x()"})
	tree.Add(elem, domain.Node{Kind: domain.KindRaw, Text: "</script>"})

	assert.Equal(t, "<script>x()</script>", tree.Render())
}

func TestAST_DirtyFlag(t *testing.T) {
	t.Parallel()

	ast := domain.NewAST(domain.FamilyScript, domain.ScriptASTVersion, domain.NewTree())
	assert.False(t, ast.Dirty())

	ast.MarkDirty()
	assert.True(t, ast.Dirty())
}
