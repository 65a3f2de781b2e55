package lang

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Parser    = (*Parser)(nil)
	_ ports.Generator = (*Parser)(nil)
)

// Parser implements ports.Parser and ports.Generator over the arena tree
// representation.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse produces a tree for the asset, stamped with the current
// representation version for its family. For script assets whose source
// contains none of the trigger patterns the parse short-circuits and
// returns no tree at all; the asset then flows through the pipeline with
// downstream steps as no-ops.
func (p *Parser) Parse(_ context.Context, a *domain.Asset) (*domain.AST, error) {
	code, err := a.Code()
	if err != nil {
		return nil, err
	}

	switch a.Type {
	case domain.AssetScript:
		if !domain.MightNeedTree(code) {
			return nil, nil
		}
		return domain.NewAST(domain.FamilyScript, domain.ScriptASTVersion, scanScript(code)), nil
	case domain.AssetMarkup:
		return domain.NewAST(domain.FamilyMarkup, domain.MarkupASTVersion, scanMarkup(code)), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedType, "no parser for asset type"), "type", string(a.Type))
	}
}

// Generate renders the asset's tree back to source text.
func (p *Parser) Generate(_ context.Context, a *domain.Asset) (string, error) {
	if a.AST == nil || a.AST.Tree == nil {
		return a.Code()
	}
	return a.AST.Tree.Render(), nil
}
