package fs

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Packages = (*PackageFinder)(nil)

// PackageFinder locates the nearest package descriptor above a path by
// walking ancestor directories up to the project root.
type PackageFinder struct {
	Root string
}

// NewPackageFinder creates a finder bounded by root.
func NewPackageFinder(root string) *PackageFinder {
	return &PackageFinder{Root: filepath.Clean(root)}
}

// Nearest returns the closest package descriptor above path, or nil when
// none exists between path and the root.
func (f *PackageFinder) Nearest(path string) (*domain.Package, error) {
	dir := filepath.Dir(path)
	for {
		descriptor := filepath.Join(dir, "package.json")
		data, err := os.ReadFile(descriptor) //nolint:gosec // Path derives from the search root
		if err == nil {
			var pkg domain.Package
			if err := json.Unmarshal(data, &pkg); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to parse package descriptor"), "path", descriptor)
			}
			pkg.Dir = dir
			return &pkg, nil
		}
		if !errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, "failed to read package descriptor"), "path", descriptor)
		}
		if dir == f.Root || dir == filepath.Dir(dir) {
			return nil, nil
		}
		dir = filepath.Dir(dir)
	}
}
