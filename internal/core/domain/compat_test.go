package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bale/internal/core/domain"
)

func TestCanReuseAST(t *testing.T) {
	t.Parallel()

	ast := func(family domain.Family, version string) *domain.AST {
		return domain.NewAST(family, version, domain.NewTree())
	}

	tests := []struct {
		name string
		typ  domain.AssetType
		ast  *domain.AST
		want bool
	}{
		{
			name: "current script version",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyScript, domain.ScriptASTVersion),
			want: true,
		},
		{
			name: "older minor within range",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyScript, "7.0.0"),
			want: true,
		},
		{
			name: "newer patch within range",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyScript, "7.2.9"),
			want: true,
		},
		{
			name: "older major rejected",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyScript, "6.9.0"),
			want: false,
		},
		{
			name: "newer major rejected",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyScript, "8.0.0"),
			want: false,
		},
		{
			name: "family mismatch rejected",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyMarkup, domain.MarkupASTVersion),
			want: false,
		},
		{
			name: "current markup version",
			typ:  domain.AssetMarkup,
			ast:  ast(domain.FamilyMarkup, domain.MarkupASTVersion),
			want: true,
		},
		{
			name: "markup major bump rejected",
			typ:  domain.AssetMarkup,
			ast:  ast(domain.FamilyMarkup, "5.0.0"),
			want: false,
		},
		{
			name: "unparseable version rejected",
			typ:  domain.AssetScript,
			ast:  ast(domain.FamilyScript, "not-a-version"),
			want: false,
		},
		{
			name: "nil ast rejected",
			typ:  domain.AssetScript,
			ast:  nil,
			want: false,
		},
		{
			name: "typeless asset has no family",
			typ:  domain.AssetRaw,
			ast:  ast(domain.FamilyScript, domain.ScriptASTVersion),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.CanReuseAST(tt.typ, tt.ast))
		})
	}
}

func TestCanReuseAST_NilTree(t *testing.T) {
	t.Parallel()

	ast := domain.NewAST(domain.FamilyScript, domain.ScriptASTVersion, nil)
	assert.False(t, domain.CanReuseAST(domain.AssetScript, ast))
}

func TestFamilyForType(t *testing.T) {
	t.Parallel()

	family, ok := domain.FamilyForType(domain.AssetScript)
	assert.True(t, ok)
	assert.Equal(t, domain.FamilyScript, family)

	family, ok = domain.FamilyForType(domain.AssetMarkup)
	assert.True(t, ok)
	assert.Equal(t, domain.FamilyMarkup, family)

	_, ok = domain.FamilyForType(domain.AssetStyle)
	assert.False(t, ok)
}
