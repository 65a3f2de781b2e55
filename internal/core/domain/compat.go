package domain

import "github.com/Masterminds/semver/v3"

// Tree representation versions stamped on freshly parsed ASTs. Bumping a
// major version here invalidates every cached tree of that family.
const (
	ScriptASTVersion = "7.2.0"
	MarkupASTVersion = "4.1.0"
)

// astRanges holds the accepted version range per family: same major as the
// current representation, any minor or patch.
var astRanges = map[Family]*semver.Constraints{
	FamilyScript: mustConstraint("^7.0.0"),
	FamilyMarkup: mustConstraint("^4.0.0"),
}

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FamilyForType maps an asset type to the syntax-tree family it implies.
// Raw assets have no tree family.
func FamilyForType(t AssetType) (Family, bool) {
	switch t {
	case AssetScript:
		return FamilyScript, true
	case AssetMarkup:
		return FamilyMarkup, true
	default:
		return "", false
	}
}

// CanReuseAST decides whether a previously attached tree can be reused for
// an asset of the given type instead of reparsing. Reuse is legal only when
// the tree's family matches the family the type implies and its version
// satisfies the accepted range for that family. A tree that fails this check
// may have been produced by a syntactically incompatible representation
// after a tool upgrade; reusing it would corrupt output.
func CanReuseAST(t AssetType, ast *AST) bool {
	if ast == nil || ast.Tree == nil {
		return false
	}
	family, ok := FamilyForType(t)
	if !ok || family != ast.Family {
		return false
	}
	rng, ok := astRanges[family]
	if !ok {
		return false
	}
	v, err := semver.NewVersion(ast.Version)
	if err != nil {
		return false
	}
	return rng.Check(v)
}
