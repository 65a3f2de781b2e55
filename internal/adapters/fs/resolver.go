package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

// Resolver resolves dependency specifiers to file paths. Relative and
// absolute specifiers resolve against the importing file; bare names
// resolve through node_modules and the package descriptor's main field.
type Resolver struct {
	// Root bounds the upward node_modules search.
	Root string
}

// NewResolver creates a resolver bounded by root.
func NewResolver(root string) *Resolver {
	return &Resolver{Root: filepath.Clean(root)}
}

// Resolve resolves specifier relative to the asset at fromPath.
func (r *Resolver) Resolve(specifier, fromPath string) (string, error) {
	if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		base := filepath.Dir(fromPath)
		if strings.HasPrefix(specifier, "/") {
			base = r.Root
		}
		return r.resolveFile(filepath.Join(base, specifier))
	}
	return r.resolvePackage(specifier, filepath.Dir(fromPath))
}

// resolveFile tries the path as given, then with known extensions, then as
// a directory with an index file.
func (r *Resolver) resolveFile(path string) (string, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	}
	for _, ext := range []string{".js", ".html", ".css"} {
		if _, err := os.Stat(path + ext); err == nil {
			return path + ext, nil
		}
	}
	index := filepath.Join(path, "index.js")
	if _, err := os.Stat(index); err == nil {
		return index, nil
	}
	return "", zerr.With(zerr.New("cannot resolve specifier"), "path", path)
}

// resolvePackage walks upward from dir looking for node_modules/<name>.
func (r *Resolver) resolvePackage(name, dir string) (string, error) {
	for {
		candidate := filepath.Join(dir, "node_modules", name)
		if info, err := os.Stat(candidate); err == nil {
			if !info.IsDir() {
				return candidate, nil
			}
			return r.resolvePackageDir(candidate)
		}
		if dir == r.Root || dir == filepath.Dir(dir) {
			break
		}
		dir = filepath.Dir(dir)
	}
	return "", zerr.With(zerr.New("cannot resolve package"), "specifier", name)
}

func (r *Resolver) resolvePackageDir(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json")) //nolint:gosec // Path derives from the search root
	if err == nil {
		var pkg domain.Package
		if err := json.Unmarshal(data, &pkg); err == nil && pkg.Main != "" {
			return r.resolveFile(filepath.Join(dir, pkg.Main))
		}
	}
	return r.resolveFile(filepath.Join(dir, "index"))
}
