package lang

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
)

var _ ports.Hoister = (*NoopHoister)(nil)

// NoopHoister is the integration point for the whole-program
// scope-combination transform. The transform itself ships separately; this
// implementation accepts every tree unchanged so builds with scope hoisting
// enabled still complete.
type NoopHoister struct{}

// Hoist accepts the tree unchanged.
func (NoopHoister) Hoist(_ context.Context, _ *domain.Asset) error {
	return nil
}
